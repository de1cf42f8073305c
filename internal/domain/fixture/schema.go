package fixture

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError is the structured error tree attached to a rejected fixture.
// FieldErrors is keyed by canonical column name; FormErrors holds row-level problems.
type ValidationError struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{
		FormErrors:  []string{},
		FieldErrors: map[string][]string{},
	}
}

func (e *ValidationError) AddField(field, message string) {
	e.FieldErrors[field] = append(e.FieldErrors[field], message)
}

func (e *ValidationError) AddForm(message string) {
	e.FormErrors = append(e.FormErrors, message)
}

func (e *ValidationError) Empty() bool {
	return e == nil || (len(e.FormErrors) == 0 && len(e.FieldErrors) == 0)
}

func (e *ValidationError) Error() string {
	if e.Empty() {
		return "fixture is invalid"
	}

	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields)+len(e.FormErrors))
	parts = append(parts, e.FormErrors...)
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.FieldErrors[field], ", "))
	}
	return "fixture is invalid: " + strings.Join(parts, "; ")
}

// Validate checks a typed fixture against the record schema.
func (f Fixture) Validate() error {
	verr := NewValidationError()

	requireText(verr, ColumnID, f.ID)
	requireText(verr, ColumnCompetitionName, f.CompetitionName)
	if f.KickoffAt.IsZero() {
		verr.AddField(ColumnKickoffDateTime, "kickoffDateTime must be a valid date")
	}
	requireText(verr, ColumnHomeTeam, f.HomeTeam)
	requireText(verr, ColumnAwayTeam, f.AwayTeam)

	if verr.Empty() {
		return nil
	}
	return verr
}

// requireText rejects blank values and text the TEXT columns cannot store.
func requireText(verr *ValidationError, field, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		verr.AddField(field, field+" is required")
	case !utf8.ValidString(value):
		verr.AddField(field, field+" must be valid UTF-8")
	case strings.IndexByte(value, 0) >= 0:
		verr.AddField(field, field+" must not contain NUL characters")
	}
}

// StructureResult reports whether a decoded row carries every required column.
type StructureResult struct {
	Valid   bool
	Message string
}

// ValidateStructure checks column presence only; values are checked by FromRawRow and Validate.
func ValidateStructure(row RawRow) StructureResult {
	missing := make([]string, 0, len(RequiredColumns))
	for _, column := range RequiredColumns {
		if _, ok := row[column]; !ok {
			missing = append(missing, column)
		}
	}

	if len(missing) == 0 {
		return StructureResult{Valid: true}
	}
	return StructureResult{
		Valid:   false,
		Message: fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")),
	}
}
