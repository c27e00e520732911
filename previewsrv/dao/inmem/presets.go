// Package inmem provides an in-memory dao.Store, used in tests and by
// cmd/expandoctl's --serve mode.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dekarrin/expando/previewsrv/dao"
	"github.com/google/uuid"
)

// Store is an in-memory implementation of dao.Store.
type Store struct {
	presets *PresetsRepository
}

// New creates an empty in-memory Store.
func New() *Store {
	return &Store{presets: NewPresetsRepository()}
}

func (s *Store) Presets() dao.PresetRepository { return s.presets }
func (s *Store) Close() error                  { return s.presets.Close() }

// PresetsRepository is an in-memory dao.PresetRepository: a map of entities
// plus a by-owner index and a by-(owner, name) index.
type PresetsRepository struct {
	presets     map[uuid.UUID]dao.Preset
	byOwnerIdx  map[uuid.UUID][]uuid.UUID
	byNameIndex map[[2]string]uuid.UUID // [ownerID.String(), name] -> id
}

func NewPresetsRepository() *PresetsRepository {
	return &PresetsRepository{
		presets:     make(map[uuid.UUID]dao.Preset),
		byOwnerIdx:  make(map[uuid.UUID][]uuid.UUID),
		byNameIndex: make(map[[2]string]uuid.UUID),
	}
}

func (r *PresetsRepository) Close() error { return nil }

func (r *PresetsRepository) Create(ctx context.Context, p dao.Preset) (dao.Preset, error) {
	nameKey := [2]string{p.OwnerID.String(), p.Name}
	if _, exists := r.byNameIndex[nameKey]; exists {
		return dao.Preset{}, dao.ErrConstraintViolation
	}

	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.Preset{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	p.ID = newID
	p.Created = now
	p.Modified = now

	r.presets[p.ID] = p
	r.byOwnerIdx[p.OwnerID] = append(r.byOwnerIdx[p.OwnerID], p.ID)
	r.byNameIndex[nameKey] = p.ID

	return p, nil
}

func (r *PresetsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Preset, error) {
	p, ok := r.presets[id]
	if !ok {
		return dao.Preset{}, dao.ErrNotFound
	}
	return p, nil
}

func (r *PresetsRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]dao.Preset, error) {
	ids := r.byOwnerIdx[ownerID]
	all := make([]dao.Preset, 0, len(ids))
	for _, id := range ids {
		all = append(all, r.presets[id])
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *PresetsRepository) Update(ctx context.Context, id uuid.UUID, p dao.Preset) (dao.Preset, error) {
	existing, ok := r.presets[id]
	if !ok {
		return dao.Preset{}, dao.ErrNotFound
	}

	if p.Name != existing.Name {
		nameKey := [2]string{existing.OwnerID.String(), p.Name}
		if _, exists := r.byNameIndex[nameKey]; exists {
			return dao.Preset{}, dao.ErrConstraintViolation
		}
		delete(r.byNameIndex, [2]string{existing.OwnerID.String(), existing.Name})
		r.byNameIndex[nameKey] = id
	}

	p.ID = id
	p.Created = existing.Created
	p.Modified = time.Now()
	r.presets[id] = p

	return p, nil
}

func (r *PresetsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Preset, error) {
	p, ok := r.presets[id]
	if !ok {
		return dao.Preset{}, dao.ErrNotFound
	}

	delete(r.presets, id)
	delete(r.byNameIndex, [2]string{p.OwnerID.String(), p.Name})

	owned := r.byOwnerIdx[p.OwnerID]
	for i, oid := range owned {
		if oid == id {
			r.byOwnerIdx[p.OwnerID] = append(owned[:i], owned[i+1:]...)
			break
		}
	}

	return p, nil
}
