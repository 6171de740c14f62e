package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequirePlan gates a route to the given subscription plans.
func RequirePlan(allowedPlans ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedPlans))
	for _, p := range allowedPlans {
		allowed[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			plan, _ := c.Get("plan").(string)
			if _, ok := allowed[plan]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "plan upgrade required"})
			}
			return next(c)
		}
	}
}
