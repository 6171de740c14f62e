package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

// ImportDispatcher is the interface the handler uses to enqueue import
// jobs.
type ImportDispatcher interface {
	Enqueue(job ports.ImportJob)
}

// ImportHandler accepts recipe import requests and hands them to the
// sharded worker pool.
type ImportHandler struct {
	dispatcher ImportDispatcher
}

// NewImportHandler creates an ImportHandler backed by the given dispatcher.
func NewImportHandler(dispatcher ImportDispatcher) *ImportHandler {
	return &ImportHandler{dispatcher: dispatcher}
}

type importRequest struct {
	Source    string `json:"source"    validate:"required,oneof=instagram websites youtube screenshots documents"`
	Reference string `json:"reference" validate:"required"`
}

type acceptedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Receive handles POST /v1/imports: enqueues one import job, returns 202.
//
// @Summary      Queue a recipe import
// @Tags         imports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      importRequest  true  "Import request"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/imports [post]
func (h *ImportHandler) Receive(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	userID, plan, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	job := ports.ImportJob{
		ID:          uuid.NewString(),
		UserID:      userID,
		Plan:        plan,
		Source:      ports.ImportSource(req.Source),
		Reference:   req.Reference,
		RequestedAt: time.Now().UTC(),
	}
	h.dispatcher.Enqueue(job)

	return c.JSON(http.StatusAccepted, acceptedResponse{ID: job.ID, Message: "import accepted"})
}
