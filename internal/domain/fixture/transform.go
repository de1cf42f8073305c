package fixture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var kickoffLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04",
	"2006/01/02",
}

// TransformError identifies the single field that stopped a row from becoming a Fixture.
type TransformError struct {
	Field  string
	Value  string
	Reason string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Tree converts the failure into the structured form reported for invalid rows.
func (e *TransformError) Tree() *ValidationError {
	verr := NewValidationError()
	verr.AddField(e.Field, e.Error())
	return verr
}

// FromRawRow converts one canonical row into a typed fixture.
// Checks run in order season, kickoffDateTime, round, id; the first failure is returned.
func FromRawRow(row RawRow) (Fixture, error) {
	season, err := parseInteger(ColumnSeason, row[ColumnSeason])
	if err != nil {
		return Fixture{}, err
	}

	kickoff, err := ParseKickoff(row[ColumnKickoffDateTime])
	if err != nil {
		return Fixture{}, err
	}

	round, err := parseInteger(ColumnRound, row[ColumnRound])
	if err != nil {
		return Fixture{}, err
	}

	id := strings.TrimSpace(row[ColumnID])
	if id == "" {
		return Fixture{}, &TransformError{Field: ColumnID, Value: row[ColumnID], Reason: "id must not be empty"}
	}

	return Fixture{
		ID:              id,
		Season:          season,
		CompetitionName: strings.TrimSpace(row[ColumnCompetitionName]),
		KickoffAt:       kickoff,
		Round:           round,
		HomeTeam:        strings.TrimSpace(row[ColumnHomeTeam]),
		AwayTeam:        strings.TrimSpace(row[ColumnAwayTeam]),
	}, nil
}

// ParseKickoff accepts RFC3339 and the common spreadsheet date layouts.
// Values without a zone are read as UTC.
func ParseKickoff(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, &TransformError{Field: ColumnKickoffDateTime, Value: raw, Reason: "date is required"}
	}

	for _, layout := range kickoffLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, &TransformError{Field: ColumnKickoffDateTime, Value: raw, Reason: "not a valid date"}
}

// parseInteger is bounded to 32 bits to match the INTEGER columns.
func parseInteger(field, raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &TransformError{Field: field, Value: raw, Reason: "integer is out of range"}
	}
	if err != nil {
		return 0, &TransformError{Field: field, Value: raw, Reason: "not a valid integer"}
	}
	return int(value), nil
}
