// Package memory provides an in-memory repository for testing and
// development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/NotAditya01/jeevault/pkg/vault"
)

// Repository is an in-memory implementation of vault.Repository.
type Repository struct {
	mu        sync.RWMutex
	resources map[uuid.UUID]*vault.Resource
}

// New creates a new in-memory repository.
func New() vault.Repository {
	return &Repository{
		resources: make(map[uuid.UUID]*vault.Resource),
	}
}

func (r *Repository) CreateResource(ctx context.Context, resource *vault.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *resource
	r.resources[resource.ID] = &stored
	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*vault.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resource, ok := r.resources[id]
	if !ok {
		return nil, vault.ErrResourceNotFound
	}
	copied := *resource
	return &copied, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource *vault.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[resource.ID]; !ok {
		return vault.ErrResourceNotFound
	}
	stored := *resource
	r.resources[resource.ID] = &stored
	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[id]; !ok {
		return vault.ErrResourceNotFound
	}
	delete(r.resources, id)
	return nil
}

func (r *Repository) ListResources(ctx context.Context, filters vault.ListFilters) ([]*vault.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*vault.Resource
	for _, resource := range r.resources {
		if filters.Approved != nil && resource.Approved != *filters.Approved {
			continue
		}
		if filters.Subject != nil && !strings.EqualFold(resource.Subject, *filters.Subject) {
			continue
		}
		if filters.Tag != nil && resource.Tag != *filters.Tag {
			continue
		}
		copied := *resource
		results = append(results, &copied)
	}

	// Newest first
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if filters.Offset != nil {
		if *filters.Offset >= len(results) {
			return []*vault.Resource{}, nil
		}
		results = results[*filters.Offset:]
	}
	if filters.Limit != nil && *filters.Limit < len(results) {
		results = results[:*filters.Limit]
	}
	return results, nil
}
