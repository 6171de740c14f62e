package domain

import (
	"errors"
	"time"
)

// MealTime buckets a recipe into the part of the day it fits.
type MealTime string

const (
	MealBreakfast MealTime = "breakfast"
	MealLunch     MealTime = "lunch"
	MealSnack     MealTime = "snack"
	MealDinner    MealTime = "dinner"
)

// RecipeSource records how a recipe entered the system.
type RecipeSource string

const (
	SourceManual     RecipeSource = "manual"
	SourceOnboarding RecipeSource = "onboarding"
	SourceImport     RecipeSource = "import"
)

var ErrRecipeNotFound = errors.New("recipe not found")
var ErrTitleRequired = errors.New("recipe title is required")
var ErrFreeLimitReached = errors.New("free plan recipe limit reached")

// Recipe is the core content aggregate.
type Recipe struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	UserID    string       `json:"user_id" bson:"user_id"`
	Title     string       `json:"title" bson:"title"`
	Content   string       `json:"content,omitempty" bson:"content,omitempty"`
	Emoji     string       `json:"emoji,omitempty" bson:"emoji,omitempty"`
	Tags      []string     `json:"tags,omitempty" bson:"tags,omitempty"`
	MealTimes []MealTime   `json:"meal_times,omitempty" bson:"meal_times,omitempty"`
	Source    RecipeSource `json:"source" bson:"source"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// CollectionKind distinguishes real tag buckets from the synthetic bucket
// that collects untagged recipes.
type CollectionKind string

const (
	CollectionTag           CollectionKind = "tag"
	CollectionUncategorized CollectionKind = "uncategorized"
)

// UncategorizedKey is the routing key of the synthetic untagged bucket.
const UncategorizedKey = "uncategorized"

// Collection is a derived tag bucket; collections are recomputed from the
// recipe list and never stored.
type Collection struct {
	Key   string         `json:"key"`
	Label string         `json:"label"`
	Count int            `json:"count"`
	Kind  CollectionKind `json:"kind"`
}
