package postgres

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
	qb "github.com/RenJieJiang/rugby-fixtures-app/internal/platform/querybuilder"
)

const (
	defaultInsertChunkSize = 500
	insertConflictSuffix   = "ON CONFLICT (fixture_mid) DO NOTHING RETURNING fixture_mid"
)

type FixtureRepository struct {
	db        *sqlx.DB
	chunkSize int
}

func NewFixtureRepository(db *sqlx.DB, chunkSize int) *FixtureRepository {
	if chunkSize <= 0 {
		chunkSize = defaultInsertChunkSize
	}
	return &FixtureRepository{db: db, chunkSize: chunkSize}
}

func (r *FixtureRepository) FindByID(ctx context.Context, id string) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From(fixturesTable).
		Where(qb.Eq("fixture_mid", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, crerr.Wrap(err, "build get fixture query")
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, wrapDBError(err, "get fixture")
	}

	return fixtureFromRow(row), true, nil
}

// InsertMany writes items in chunks inside one transaction. Ids that already
// exist, or repeat earlier in the batch, are skipped and reported through
// *fixture.DuplicateKeyViolation after the commit.
func (r *FixtureRepository) InsertMany(ctx context.Context, items []fixture.Fixture) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapDBError(err, "begin insert fixtures tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	duplicates := make([]int, 0)
	for start := 0; start < len(items); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(items) {
			end = len(items)
		}

		chunk := items[start:end]
		rows := make([]fixtureTableModel, 0, len(chunk))
		ids := make([]string, 0, len(chunk))
		for _, item := range chunk {
			rows = append(rows, fixtureToRow(item))
			ids = append(ids, item.ID)
		}

		query, args, err := qb.InsertModels(fixturesTable, rows, insertConflictSuffix)
		if err != nil {
			return crerr.Wrapf(err, "build insert fixtures query (rows %d-%d)", start, end-1)
		}

		var inserted []string
		if err := tx.SelectContext(ctx, &inserted, query, args...); err != nil {
			return wrapDBError(err, "insert fixtures")
		}
		duplicates = append(duplicates, duplicateIndices(ids, inserted, start)...)
	}

	if err := tx.Commit(); err != nil {
		return wrapDBError(err, "commit insert fixtures tx")
	}

	if len(duplicates) > 0 {
		return &fixture.DuplicateKeyViolation{Indices: duplicates}
	}
	return nil
}

func (r *FixtureRepository) CountMatching(ctx context.Context, query string) (int, error) {
	builder := qb.Select("COUNT(*)").From(fixturesTable)
	if cond, ok := teamMatch(query); ok {
		builder.Where(cond)
	}

	sqlQuery, args, err := builder.ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build count fixtures query")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, sqlQuery, args...); err != nil {
		return 0, wrapDBError(err, "count fixtures")
	}
	return total, nil
}

func (r *FixtureRepository) FindPage(ctx context.Context, query string, offset, limit int) ([]fixture.Fixture, error) {
	builder := qb.Select(fixtureSelectColumns...).From(fixturesTable).
		OrderBy("kickoff_at ASC", "fixture_mid ASC").
		Limit(limit).
		Offset(offset)
	if cond, ok := teamMatch(query); ok {
		builder.Where(cond)
	}

	sqlQuery, args, err := builder.ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build fixture page query")
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, wrapDBError(err, "select fixture page")
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureFromRow(row))
	}
	return out, nil
}

func (r *FixtureRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	query, args, err := qb.DeleteFrom(fixturesTable).
		Where(qb.Eq("fixture_mid", id)).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build delete fixture query")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrapDBError(err, "delete fixture")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, wrapDBError(err, "delete fixture rows affected")
	}
	return affected > 0, nil
}

func teamMatch(query string) (qb.Condition, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}
	return qb.Or(qb.Contains("home_team", query), qb.Contains("away_team", query)), true
}
