// Package postgres provides a PostgreSQL repository backed by pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NotAditya01/jeevault/pkg/vault"
)

// DBTX is satisfied by both a connection pool and a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements vault.Repository using PostgreSQL.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository.
func New(db DBTX) vault.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool.
func NewWithPool(pool *pgxpool.Pool) vault.Repository {
	return &Repository{db: pool}
}

// Schema is the table definition used by this repository.
const Schema = `
CREATE TABLE IF NOT EXISTS resources (
    id           UUID PRIMARY KEY,
    title        TEXT NOT NULL,
    description  TEXT NOT NULL,
    subject      TEXT NOT NULL,
    tag          TEXT NOT NULL,
    file_key     TEXT NOT NULL DEFAULT '',
    file_name    TEXT NOT NULL DEFAULT '',
    file_size    BIGINT NOT NULL DEFAULT 0,
    external_url TEXT NOT NULL DEFAULT '',
    uploaded_by  TEXT NOT NULL,
    approved     BOOLEAN NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS resources_created_at_idx ON resources (created_at DESC);
CREATE INDEX IF NOT EXISTS resources_approved_idx ON resources (approved);
`

// EnsureSchema creates the resources table if it does not exist.
func EnsureSchema(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, Schema)
	return err
}

func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("resource already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateResource(ctx context.Context, resource *vault.Resource) error {
	query := `
		INSERT INTO resources (
			id, title, description, subject, tag,
			file_key, file_name, file_size, external_url,
			uploaded_by, approved, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		resource.ID, resource.Title, resource.Description, resource.Subject, resource.Tag,
		resource.FileKey, resource.FileName, resource.FileSize, resource.ExternalURL,
		resource.UploadedBy, resource.Approved, resource.CreatedAt, resource.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create resource", err)
	}
	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*vault.Resource, error) {
	query := `
        SELECT id, title, description, subject, tag,
               file_key, file_name, file_size, external_url,
               uploaded_by, approved, created_at, updated_at
        FROM resources WHERE id = $1`

	var resource vault.Resource
	err := r.db.QueryRow(ctx, query, id).Scan(
		&resource.ID, &resource.Title, &resource.Description, &resource.Subject, &resource.Tag,
		&resource.FileKey, &resource.FileName, &resource.FileSize, &resource.ExternalURL,
		&resource.UploadedBy, &resource.Approved, &resource.CreatedAt, &resource.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vault.ErrResourceNotFound
		}
		return nil, r.handlePostgresError("get resource", err)
	}
	return &resource, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource *vault.Resource) error {
	query := `
		UPDATE resources SET
			title = $2, description = $3, subject = $4, tag = $5,
			file_key = $6, file_name = $7, file_size = $8, external_url = $9,
			uploaded_by = $10, approved = $11, updated_at = $12
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		resource.ID, resource.Title, resource.Description, resource.Subject, resource.Tag,
		resource.FileKey, resource.FileName, resource.FileSize, resource.ExternalURL,
		resource.UploadedBy, resource.Approved, resource.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update resource", err)
	}
	if tag.RowsAffected() == 0 {
		return vault.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete resource", err)
	}
	if tag.RowsAffected() == 0 {
		return vault.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) ListResources(ctx context.Context, filters vault.ListFilters) ([]*vault.Resource, error) {
	query := `
        SELECT id, title, description, subject, tag,
               file_key, file_name, file_size, external_url,
               uploaded_by, approved, created_at, updated_at
        FROM resources`

	var conds []string
	var args []interface{}
	if filters.Approved != nil {
		args = append(args, *filters.Approved)
		conds = append(conds, fmt.Sprintf("approved = $%d", len(args)))
	}
	if filters.Subject != nil {
		args = append(args, *filters.Subject)
		conds = append(conds, fmt.Sprintf("LOWER(subject) = LOWER($%d)", len(args)))
	}
	if filters.Tag != nil {
		args = append(args, *filters.Tag)
		conds = append(conds, fmt.Sprintf("tag = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filters.Limit != nil {
		args = append(args, *filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset != nil {
		args = append(args, *filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list resources", err)
	}
	defer rows.Close()

	var resources []*vault.Resource
	for rows.Next() {
		var resource vault.Resource
		err := rows.Scan(
			&resource.ID, &resource.Title, &resource.Description, &resource.Subject, &resource.Tag,
			&resource.FileKey, &resource.FileName, &resource.FileSize, &resource.ExternalURL,
			&resource.UploadedBy, &resource.Approved, &resource.CreatedAt, &resource.UpdatedAt)
		if err != nil {
			return nil, r.handlePostgresError("scan resource", err)
		}
		resources = append(resources, &resource)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list resources", err)
	}
	return resources, nil
}
