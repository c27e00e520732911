// Package dao provides data access objects for the preview server: the
// persisted presets a user has saved while iterating on a format string.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a Preset with the given ID does not exist.
	ErrNotFound = errors.New("the requested preset could not be found")

	// ErrConstraintViolation is returned when a write would violate a
	// uniqueness constraint (currently: preset Name is unique per owner).
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
)

// Preset is a named, saved format string a user has iterated on in the
// preview UI.
type Preset struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Name     string
	Format   string
	Created  time.Time
	Modified time.Time
}

// Store holds the repositories the preview server needs: just the one
// entity this service persists.
type Store interface {
	Presets() PresetRepository
	Close() error
}

// PresetRepository persists and retrieves Presets.
type PresetRepository interface {
	Create(ctx context.Context, p Preset) (Preset, error)
	GetByID(ctx context.Context, id uuid.UUID) (Preset, error)
	GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]Preset, error)
	Update(ctx context.Context, id uuid.UUID, p Preset) (Preset, error)
	Delete(ctx context.Context, id uuid.UUID) (Preset, error)
	Close() error
}
