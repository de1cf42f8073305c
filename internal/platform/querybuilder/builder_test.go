package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("fixture_mid", "home_team").
		From("fixtures").
		Where(Or(Contains("home_team", "lions"), Contains("away_team", "lions"))).
		OrderBy("kickoff_at ASC", "fixture_mid ASC").
		Limit(10).
		Offset(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := `SELECT fixture_mid, home_team FROM fixtures WHERE (home_team ILIKE $1 ESCAPE '\' OR away_team ILIKE $2 ESCAPE '\') ORDER BY kickoff_at ASC, fixture_mid ASC LIMIT 10 OFFSET 20`
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "%lions%" || args[1] != "%lions%" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EqAndOr(t *testing.T) {
	query, args, err := Select("COUNT(*)").
		From("fixtures").
		Where(Eq("season", 2025), Or(Eq("round", 1), Contains("home_team", "50%"))).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT COUNT(*) FROM fixtures WHERE season = $1 AND (round = $2 OR home_team ILIKE $3 ESCAPE '\\')"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != `%50\%%` {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestEscapeLike(t *testing.T) {
	got := EscapeLike(`50%_off\`)
	if got != `50\%\_off\\` {
		t.Fatalf("unexpected escaped value: %s", got)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("fixtures").
		Columns("fixture_mid", "home_team").
		Values("F1", "Lions").
		Values("F2", "Tigers").
		Suffix("ON CONFLICT (fixture_mid) DO NOTHING RETURNING fixture_mid").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO fixtures (fixture_mid, home_team) VALUES ($1, $2), ($3, $4) ON CONFLICT (fixture_mid) DO NOTHING RETURNING fixture_mid"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "F1" || args[3] != "Tigers" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		ID        int64     `db:"id" qb:"readonly"`
		PublicID  string    `db:"fixture_mid"`
		Round     int       `db:"round"`
		CreatedAt time.Time `db:"-"`
	}

	query, args, err := InsertModels("fixtures", []row{{PublicID: "F1", Round: 1}, {PublicID: "F2", Round: 2}}, "")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO fixtures (fixture_mid, round) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "F2" || args[3] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[row]("fixtures", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("fixtures").
		Where(Eq("fixture_mid", "F1")).
		Suffix("RETURNING fixture_mid").
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM fixtures WHERE fixture_mid = $1 RETURNING fixture_mid"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "F1" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("fixtures").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditional delete")
	}
}
