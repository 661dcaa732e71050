package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gridimport/domain/core"
	"gridimport/domain/imports"
	"gridimport/ports"
)

// importRepository keeps imports in process memory, evicting the oldest
// record once capacity is reached
type importRepository struct {
	mu       sync.RWMutex
	records  map[core.ImportID]*imports.Record
	order    []core.ImportID
	capacity int
}

// NewImportRepository creates an in-memory repository; capacity <= 0 is unbounded
func NewImportRepository(capacity int) ports.ImportRepository {
	return &importRepository{
		records:  make(map[core.ImportID]*imports.Record),
		capacity: capacity,
	}
}

func (r *importRepository) Save(ctx context.Context, rec *imports.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.ID]; !exists {
		r.order = append(r.order, rec.ID)
	}
	r.records[rec.ID] = rec.Clone()

	for r.capacity > 0 && len(r.order) > r.capacity {
		delete(r.records, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

func (r *importRepository) Get(ctx context.Context, id core.ImportID) (*imports.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrImportNotFound, id)
	}
	return rec.Clone(), nil
}

func (r *importRepository) List(ctx context.Context, limit, offset int) ([]imports.Summary, error) {
	r.mu.RLock()
	summaries := make([]imports.Summary, 0, len(r.records))
	for _, rec := range r.records {
		summaries = append(summaries, rec.Summary())
	}
	r.mu.RUnlock()

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	if offset >= len(summaries) {
		return []imports.Summary{}, nil
	}
	summaries = summaries[offset:]
	if limit > 0 && limit < len(summaries) {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (r *importRepository) Delete(ctx context.Context, id core.ImportID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrImportNotFound, id)
	}
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
