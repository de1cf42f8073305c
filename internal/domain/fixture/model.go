package fixture

import (
	"strings"
	"time"
)

// Canonical column names of a fixture upload.
const (
	ColumnID              = "id"
	ColumnSeason          = "season"
	ColumnCompetitionName = "competitionName"
	ColumnKickoffDateTime = "kickoffDateTime"
	ColumnRound           = "round"
	ColumnHomeTeam        = "homeTeam"
	ColumnAwayTeam        = "awayTeam"
)

// RequiredColumns lists every column a fixture upload must carry, in schema order.
var RequiredColumns = []string{
	ColumnID,
	ColumnSeason,
	ColumnCompetitionName,
	ColumnKickoffDateTime,
	ColumnRound,
	ColumnHomeTeam,
	ColumnAwayTeam,
}

// headerAliases maps the legacy snake_case export headers onto canonical columns.
var headerAliases = map[string]string{
	"fixture_mid":      ColumnID,
	"competition_name": ColumnCompetitionName,
	"fixture_datetime": ColumnKickoffDateTime,
	"fixture_round":    ColumnRound,
	"home_team":        ColumnHomeTeam,
	"away_team":        ColumnAwayTeam,
}

// Fixture represents one scheduled or played rugby match.
type Fixture struct {
	ID              string
	Season          int
	CompetitionName string
	KickoffAt       time.Time
	Round           int
	HomeTeam        string
	AwayTeam        string
}

// RawRow is one decoded upload line keyed by column name.
type RawRow map[string]string

// CanonicalColumn resolves a header cell to its canonical column name.
// Unknown headers are returned trimmed but otherwise untouched.
func CanonicalColumn(header string) string {
	name := strings.TrimSpace(header)
	if alias, ok := headerAliases[strings.ToLower(name)]; ok {
		return alias
	}
	return name
}

// Canonicalize returns a copy of the row with aliased headers renamed.
// A canonical header wins over an alias when both are present.
func (r RawRow) Canonicalize() RawRow {
	out := make(RawRow, len(r))
	for key, value := range r {
		name := CanonicalColumn(key)
		if _, exists := out[name]; exists && name != strings.TrimSpace(key) {
			continue
		}
		out[name] = value
	}
	return out
}

// Clone returns a shallow copy safe to retain after the source row is discarded.
func (r RawRow) Clone() RawRow {
	out := make(RawRow, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}
