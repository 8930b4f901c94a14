// Package storage defines the Storage interface, the contract any database
// backend must satisfy to work with this application.
//
// Handlers depend only on this interface, so a backend can be swapped in
// main.go (sqlite, postgres, memory) without touching them, and tests can
// pass the in-memory backend instead of a real database.
package storage

import (
	"context"

	"github.com/students-demo/students-api/internal/apperrors"
	"github.com/students-demo/students-api/internal/types"
)

// ErrNotFound is matched (errors.Is) by every "no such student" error a
// backend returns. Backends return *apperrors.NotFoundError so the id is
// part of the message.
var ErrNotFound = apperrors.ErrNotFound

// Storage is the repository contract consumed by the HTTP handlers.
// Implementations must be safe for concurrent use.
type Storage interface {
	// FindAll returns every student ordered by id. Never nil.
	FindAll(ctx context.Context) ([]types.Student, error)

	// FindByID returns ErrNotFound when the id is not stored.
	FindByID(ctx context.Context, id int64) (types.Student, error)

	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Save inserts s when s.ID is zero and assigns the new id; otherwise it
	// overwrites the stored row. Updating a missing row returns ErrNotFound.
	Save(ctx context.Context, s types.Student) (types.Student, error)

	// DeleteByID returns ErrNotFound when the id is not stored.
	DeleteByID(ctx context.Context, id int64) error

	Close() error
}
