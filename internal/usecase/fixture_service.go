package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/logging"
)

const (
	DefaultSearchPageSize = 10
	DefaultSearchMaxPage  = 100
)

type FixtureServiceConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type SearchInput struct {
	Query    string
	Page     int
	PageSize int
}

type SearchResult struct {
	Fixtures   []fixture.Fixture `json:"fixtures"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	TotalItems int               `json:"totalItems"`
	Pagination []string          `json:"pagination"`
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type FixtureService struct {
	fixtureRepo fixture.Repository
	cfg         FixtureServiceConfig
	logger      *logging.Logger
}

func NewFixtureService(fixtureRepo fixture.Repository, cfg FixtureServiceConfig, logger *logging.Logger) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultSearchPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultSearchMaxPage
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = cfg.MaxPageSize
	}

	return &FixtureService{
		fixtureRepo: fixtureRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Search matches query case-insensitively against either team name, ordered by kickoff.
func (s *FixtureService) Search(ctx context.Context, input SearchInput) (SearchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Search")
	defer span.End()

	query := strings.TrimSpace(input.Query)
	page := input.Page
	if page <= 0 {
		page = 1
	}
	pageSize := input.PageSize
	switch {
	case pageSize <= 0:
		pageSize = s.cfg.DefaultPageSize
	case pageSize > s.cfg.MaxPageSize:
		pageSize = s.cfg.MaxPageSize
	}

	total, err := s.fixtureRepo.CountMatching(ctx, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("count fixtures: %w", err)
	}

	items := []fixture.Fixture{}
	offset := (page - 1) * pageSize
	if offset < total {
		items, err = s.fixtureRepo.FindPage(ctx, query, offset, pageSize)
		if err != nil {
			return SearchResult{}, fmt.Errorf("find fixture page: %w", err)
		}
	}

	totalPages := (total + pageSize - 1) / pageSize
	return SearchResult{
		Fixtures:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
		Pagination: GeneratePagination(page, totalPages),
	}, nil
}

// GetByID returns one fixture. Stored records are re-checked against the schema
// so a corrupted row surfaces as ErrDataIntegrity instead of bad output.
func (s *FixtureService) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetByID")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, NewPublicError(ErrInvalidInput, "Fixture ID is required")
	}

	item, exists, err := s.fixtureRepo.FindByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("find fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, NewPublicError(ErrNotFound, "Fixture not found")
	}

	if err := item.Validate(); err != nil {
		s.logger.ErrorContext(ctx, "stored fixture failed schema validation", "fixture_id", fixtureID, "error", err)
		return fixture.Fixture{}, NewPublicError(ErrDataIntegrity, "Fixture data from database does not match expected structure")
	}

	return item, nil
}

func (s *FixtureService) DeleteByID(ctx context.Context, fixtureID string) (DeleteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.DeleteByID")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return DeleteResult{}, NewPublicError(ErrInvalidInput, "Fixture ID is required")
	}

	deleted, err := s.fixtureRepo.DeleteByID(ctx, fixtureID)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete fixture: %w", err)
	}
	if !deleted {
		return DeleteResult{}, NewPublicError(ErrNotFound, "Fixture not found")
	}

	s.logger.InfoContext(ctx, "fixture deleted", "fixture_id", fixtureID)
	return DeleteResult{Success: true, Message: "Fixture successfully deleted"}, nil
}
