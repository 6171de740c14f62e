package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
)

const recipesCollection = "recipes"

// MongoRecipeRepository implements ports.RecipeRepository using MongoDB.
// Recipe ids are application-generated UUIDs stored as _id.
type MongoRecipeRepository struct {
	coll *mongo.Collection
}

func NewRecipeRepository(db *mongo.Database) *MongoRecipeRepository {
	return &MongoRecipeRepository{coll: db.Collection(recipesCollection)}
}

func (r *MongoRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	if _, err := r.coll.InsertOne(ctx, recipe); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

func (r *MongoRecipeRepository) FindByID(ctx context.Context, id, userID string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	filter := bson.M{"_id": id, "user_id": userID}
	if err := r.coll.FindOne(ctx, filter).Decode(&recipe); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return &recipe, nil
}

func (r *MongoRecipeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer cur.Close(ctx)

	var recipes []*domain.Recipe
	if err := cur.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return recipes, nil
}

func (r *MongoRecipeRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return n, nil
}
