package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/id"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/logging"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/tabular"
	"github.com/sourcegraph/conc/iter"
)

const (
	DefaultMaxUploadBytes   int64 = 5 << 20
	DefaultSampleLimit            = 10
	DefaultTransformWorkers       = 4
)

// IngestionStage names the furthest point one ingestion call reached.
type IngestionStage string

const (
	StageStart              IngestionStage = "start"
	StageSizeChecked        IngestionStage = "size_checked"
	StageDecoded            IngestionStage = "decoded"
	StageStructureValidated IngestionStage = "structure_validated"
	StageRowsProcessed      IngestionStage = "rows_processed"
	StagePersisted          IngestionStage = "persisted"
	StageDone               IngestionStage = "done"
)

type IngestionConfig struct {
	MaxUploadBytes   int64
	SampleLimit      int
	TransformWorkers int
}

// UploadInput is one document submitted for ingestion. Size is the size declared
// by the transport; when it is unknown the length of Data is used.
type UploadInput struct {
	FileName string
	Size     int64
	Data     []byte
}

type IngestionResult struct {
	Success        bool         `json:"success"`
	Message        string       `json:"message"`
	BatchID        string       `json:"batchId,omitempty"`
	Count          int          `json:"count"`
	Duplicates     int          `json:"duplicates"`
	InvalidCount   int          `json:"invalidCount"`
	InvalidRecords []InvalidRow `json:"invalidRecords,omitempty"`
}

type IngestionService struct {
	fixtureRepo fixture.Repository
	ids         id.Generator
	cfg         IngestionConfig
	logger      *logging.Logger
}

func NewIngestionService(
	fixtureRepo fixture.Repository,
	ids id.Generator,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.SampleLimit <= 0 {
		cfg.SampleLimit = DefaultSampleLimit
	}
	if cfg.TransformWorkers <= 0 {
		cfg.TransformWorkers = DefaultTransformWorkers
	}

	return &IngestionService{
		fixtureRepo: fixtureRepo,
		ids:         ids,
		cfg:         cfg,
		logger:      logger,
	}
}

// MaxUploadBytes is the largest document Ingest accepts.
func (s *IngestionService) MaxUploadBytes() int64 {
	return s.cfg.MaxUploadBytes
}

type rowOutcome struct {
	item    fixture.Fixture
	invalid *InvalidRow
}

// Ingest decodes, validates and persists one document. Whole-input failures are
// returned as *IngestionError; row level failures are reported in the result.
func (s *IngestionService) Ingest(ctx context.Context, input UploadInput) (IngestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	started := time.Now()
	batchID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate ingestion batch id failed", "error", err)
	}
	stage := StageStart
	rowCount := 0

	fail := func(ingestErr *IngestionError) (IngestionResult, error) {
		s.logger.WarnContext(ctx, "fixture ingestion failed",
			"batch_id", batchID,
			"file_name", input.FileName,
			"stage", string(stage),
			"rows", rowCount,
			"reason", ingestErr.Kind.Error(),
			"error", ingestErr,
			"duration_ms", time.Since(started).Milliseconds(),
		)
		return IngestionResult{}, ingestErr
	}

	size := input.Size
	if dataLen := int64(len(input.Data)); dataLen > size {
		size = dataLen
	}
	if size > s.cfg.MaxUploadBytes {
		return fail(NewPayloadTooLargeError(size, s.cfg.MaxUploadBytes))
	}
	stage = StageSizeChecked

	format := tabular.FormatCSV
	if input.FileName != "" {
		format, err = tabular.FormatFromName(input.FileName)
		if err != nil {
			return fail(&IngestionError{Kind: ErrInvalidInput, Message: "Please upload a CSV file", cause: err})
		}
	}

	rows, err := tabular.Decode(format, input.Data)
	if err != nil {
		return fail(&IngestionError{
			Kind:    ErrMalformedInput,
			Message: "Error processing CSV file: " + err.Error(),
			cause:   err,
		})
	}
	rowCount = len(rows)
	stage = StageDecoded

	if len(rows) == 0 {
		return fail(&IngestionError{Kind: ErrEmptyInput, Message: "No data found in the CSV file"})
	}

	structure := fixture.ValidateStructure(fixture.RawRow(rows[0]).Canonicalize())
	if !structure.Valid {
		return fail(&IngestionError{Kind: ErrSchemaMismatch, Message: structure.Message})
	}
	stage = StageStructureValidated

	outcomes := make([]rowOutcome, len(rows))
	workers := iter.Iterator[tabular.Row]{MaxGoroutines: s.cfg.TransformWorkers}
	workers.ForEachIdx(rows, func(idx int, row *tabular.Row) {
		outcomes[idx] = transformRow(idx, row)
	})

	candidates := make([]fixture.Fixture, 0, len(outcomes))
	invalid := make([]InvalidRow, 0)
	for _, outcome := range outcomes {
		if outcome.invalid != nil {
			invalid = append(invalid, *outcome.invalid)
			continue
		}
		candidates = append(candidates, outcome.item)
	}
	stage = StageRowsProcessed

	if len(candidates) == 0 {
		return fail(&IngestionError{
			Kind:            ErrNoValidRows,
			Message:         "No valid fixtures found in the CSV file",
			InvalidRows:     s.sample(invalid),
			InvalidRowCount: len(invalid),
		})
	}

	duplicates, err := s.persist(ctx, candidates)
	if err != nil {
		return fail(&IngestionError{
			Kind:    ErrPersistence,
			Message: "Error processing CSV file: fixtures could not be saved",
			cause:   err,
		})
	}
	stage = StagePersisted

	inserted := len(candidates) - duplicates
	result := IngestionResult{
		Success:        true,
		Message:        fmt.Sprintf("Successfully processed %d fixtures", len(candidates)),
		BatchID:        batchID,
		Count:          inserted,
		Duplicates:     duplicates,
		InvalidCount:   len(invalid),
		InvalidRecords: s.sample(invalid),
	}
	stage = StageDone

	s.logger.InfoContext(ctx, "fixture ingestion completed",
		"batch_id", batchID,
		"file_name", input.FileName,
		"stage", string(stage),
		"rows", rowCount,
		"inserted", inserted,
		"duplicates", duplicates,
		"invalid", len(invalid),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return result, nil
}

// persist runs the unordered bulk insert and returns how many candidates were
// rejected as duplicates.
func (s *IngestionService) persist(ctx context.Context, candidates []fixture.Fixture) (int, error) {
	err := s.fixtureRepo.InsertMany(ctx, candidates)
	if err == nil {
		return 0, nil
	}

	var dup *fixture.DuplicateKeyViolation
	if !errors.As(err, &dup) {
		return 0, fmt.Errorf("insert fixtures: %w", err)
	}

	return countDistinctIndices(dup.Indices, len(candidates)), nil
}

func (s *IngestionService) sample(rows []InvalidRow) []InvalidRow {
	if len(rows) == 0 {
		return nil
	}
	if len(rows) > s.cfg.SampleLimit {
		rows = rows[:s.cfg.SampleLimit]
	}
	out := make([]InvalidRow, len(rows))
	copy(out, rows)
	return out
}

func transformRow(idx int, row *tabular.Row) rowOutcome {
	raw := fixture.RawRow(*row)
	rowNumber := idx + 2

	item, err := fixture.FromRawRow(raw.Canonicalize())
	if err != nil {
		tree := fixture.NewValidationError()
		var terr *fixture.TransformError
		if errors.As(err, &terr) {
			tree = terr.Tree()
		} else {
			tree.AddForm(err.Error())
		}
		return rowOutcome{invalid: &InvalidRow{RowNumber: rowNumber, Data: raw.Clone(), Errors: tree}}
	}

	if err := item.Validate(); err != nil {
		var verr *fixture.ValidationError
		if !errors.As(err, &verr) {
			verr = fixture.NewValidationError()
			verr.AddForm(err.Error())
		}
		return rowOutcome{invalid: &InvalidRow{RowNumber: rowNumber, Data: raw.Clone(), Errors: verr}}
	}

	return rowOutcome{item: item}
}

func countDistinctIndices(indices []int, upper int) int {
	if len(indices) == 0 {
		return 0
	}
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	count := 0
	prev := -1
	for _, idx := range sorted {
		if idx < 0 || idx >= upper || idx == prev {
			continue
		}
		prev = idx
		count++
	}
	return count
}
