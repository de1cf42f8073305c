package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[string]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	byID := make(map[string]fixture.Fixture, len(fixtures))
	for _, item := range fixtures {
		byID[item.ID] = item
	}

	return &FixtureRepository{fixtures: byID}
}

func (r *FixtureRepository) FindByID(_ context.Context, id string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.fixtures[id]
	return item, ok, nil
}

func (r *FixtureRepository) InsertMany(_ context.Context, items []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	duplicates := make([]int, 0)
	for idx, item := range items {
		if _, exists := r.fixtures[item.ID]; exists {
			duplicates = append(duplicates, idx)
			continue
		}
		r.fixtures[item.ID] = item
	}

	if len(duplicates) > 0 {
		return &fixture.DuplicateKeyViolation{Indices: duplicates}
	}
	return nil
}

func (r *FixtureRepository) CountMatching(_ context.Context, query string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.matching(query)), nil
}

func (r *FixtureRepository) FindPage(_ context.Context, query string, offset, limit int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.matching(query)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []fixture.Fixture{}, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]fixture.Fixture, 0, end-offset)
	out = append(out, items[offset:end]...)
	return out, nil
}

func (r *FixtureRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fixtures[id]; !ok {
		return false, nil
	}
	delete(r.fixtures, id)
	return true, nil
}

// matching must be called with r.mu held.
func (r *FixtureRepository) matching(query string) []fixture.Fixture {
	needle := strings.ToLower(strings.TrimSpace(query))

	out := make([]fixture.Fixture, 0, len(r.fixtures))
	for _, item := range r.fixtures {
		if needle == "" ||
			strings.Contains(strings.ToLower(item.HomeTeam), needle) ||
			strings.Contains(strings.ToLower(item.AwayTeam), needle) {
			out = append(out, item)
		}
	}
	return out
}
