package postgres

import (
	"database/sql"
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// wrapDBError attaches the SQLSTATE and constraint of a driver error so they
// survive into logs without leaking into user-facing messages.
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	wrapped := crerr.Wrap(err, msg)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		wrapped = crerr.WithDetailf(wrapped, "sqlstate=%s (%s) constraint=%s", pqErr.Code, pqErr.Code.Name(), pqErr.Constraint)
	}
	return wrapped
}

// duplicateIndices maps the ids a chunk insert returned back to positions in
// the chunk. Each returned id claims the first unclaimed position holding it;
// positions left unclaimed were skipped by ON CONFLICT.
func duplicateIndices(chunkIDs, insertedIDs []string, offset int) []int {
	claims := make(map[string]int, len(insertedIDs))
	for _, id := range insertedIDs {
		claims[id]++
	}

	out := make([]int, 0)
	for i, id := range chunkIDs {
		if claims[id] > 0 {
			claims[id]--
			continue
		}
		out = append(out, offset+i)
	}
	return out
}
