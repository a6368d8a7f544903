// Package mongo provides a MongoDB repository using the official driver.
// Resources live in a single collection, keyed by UUID.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NotAditya01/jeevault/pkg/vault"
)

// CollectionName is the collection resources are stored in.
const CollectionName = "resources"

// Repository implements vault.Repository on a mongo collection.
type Repository struct {
	c *mongo.Collection
}

// New creates a repository on the resources collection of db.
func New(db *mongo.Database) vault.Repository {
	return &Repository{c: db.Collection(CollectionName)}
}

func (r *Repository) CreateResource(ctx context.Context, resource *vault.Resource) error {
	if _, err := r.c.InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*vault.Resource, error) {
	var resource vault.Resource
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, vault.ErrResourceNotFound
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return &resource, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource *vault.Resource) error {
	result, err := r.c.ReplaceOne(ctx, bson.M{"_id": resource.ID}, resource)
	if err != nil {
		return fmt.Errorf("replace resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return vault.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	result, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if result.DeletedCount == 0 {
		return vault.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) ListResources(ctx context.Context, filters vault.ListFilters) ([]*vault.Resource, error) {
	filter := bson.M{}
	if filters.Approved != nil {
		filter["approved"] = *filters.Approved
	}
	if filters.Subject != nil {
		filter["subject"] = *filters.Subject
	}
	if filters.Tag != nil {
		filter["tag"] = *filters.Tag
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filters.Limit != nil {
		opts.SetLimit(int64(*filters.Limit))
	}
	if filters.Offset != nil {
		opts.SetSkip(int64(*filters.Offset))
	}

	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find resources: %w", err)
	}
	defer cur.Close(ctx)

	var resources []*vault.Resource
	if err := cur.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}
	return resources, nil
}
