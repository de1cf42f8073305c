package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
	basecache "github.com/RenJieJiang/rugby-fixtures-app/internal/platform/cache"
)

const fixtureKeyPrefix = "fixture:"

// FixtureRepository caches reads of next and drops every fixture view on writes.
type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) FindByID(ctx context.Context, id string) (fixture.Fixture, bool, error) {
	key := fixtureKeyPrefix + "id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedFixtureByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return fixture.Fixture{}, false, err
	}

	cached, _ := v.(cachedFixtureByID)
	return cached.value, cached.exists, nil
}

type cachedFixtureByID struct {
	value  fixture.Fixture
	exists bool
}

// InsertMany invalidates even when the call reports duplicates, since the
// non-duplicate records were written.
func (r *FixtureRepository) InsertMany(ctx context.Context, items []fixture.Fixture) error {
	err := r.next.InsertMany(ctx, items)
	if err == nil || isDuplicateOutcome(err) {
		r.cache.DeletePrefix(ctx, fixtureKeyPrefix)
	}
	return err
}

func (r *FixtureRepository) CountMatching(ctx context.Context, query string) (int, error) {
	key := fixtureKeyPrefix + "count:" + normalizeQuery(query)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.CountMatching(ctx, query)
	})
	if err != nil {
		return 0, err
	}

	total, _ := v.(int)
	return total, nil
}

func (r *FixtureRepository) FindPage(ctx context.Context, query string, offset, limit int) ([]fixture.Fixture, error) {
	key := fixtureKeyPrefix + "page:" + strconv.Itoa(offset) + ":" + strconv.Itoa(limit) + ":" + normalizeQuery(query)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.FindPage(ctx, query, offset, limit)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture{}, items...), nil
}

func (r *FixtureRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	deleted, err := r.next.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.cache.DeletePrefix(ctx, fixtureKeyPrefix)
	}
	return deleted, nil
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func isDuplicateOutcome(err error) bool {
	var dup *fixture.DuplicateKeyViolation
	return errors.As(err, &dup)
}
