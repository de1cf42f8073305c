package fixture

import (
	"context"
	"fmt"
)

// Repository is the persistence collaborator for fixture records.
type Repository interface {
	FindByID(ctx context.Context, id string) (Fixture, bool, error)
	// InsertMany inserts every record it can. Records whose id already exists are
	// skipped and reported through a *DuplicateKeyViolation; any other error means
	// nothing from the call was persisted.
	InsertMany(ctx context.Context, items []Fixture) error
	CountMatching(ctx context.Context, query string) (int, error)
	FindPage(ctx context.Context, query string, offset, limit int) ([]Fixture, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// DuplicateKeyViolation lists the batch indices rejected because their id already exists.
type DuplicateKeyViolation struct {
	Indices []int
}

func (e *DuplicateKeyViolation) Error() string {
	return fmt.Sprintf("duplicate fixture id for %d record(s)", len(e.Indices))
}
