package httpapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/logging"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/usecase"
)

type Handler struct {
	fixtureService   *usecase.FixtureService
	ingestionService *usecase.IngestionService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	fixtureService *usecase.FixtureService,
	ingestionService *usecase.IngestionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		fixtureService:   fixtureService,
		ingestionService: ingestionService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type searchFixturesRequest struct {
	Query    string `validate:"max=100"`
	Page     int    `validate:"gte=0"`
	PageSize int    `validate:"gte=0"`
}

type fixtureIDRequest struct {
	FixtureID string `validate:"max=128"`
}

type fixtureDTO struct {
	ID              string `json:"id"`
	Season          int    `json:"season"`
	CompetitionName string `json:"competitionName"`
	KickoffDateTime string `json:"kickoffDateTime"`
	Round           int    `json:"round"`
	HomeTeam        string `json:"homeTeam"`
	AwayTeam        string `json:"awayTeam"`
}

type fixturePageDTO struct {
	Fixtures   []fixtureDTO `json:"fixtures"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
	TotalItems int          `json:"totalItems"`
	Pagination []string     `json:"pagination"`
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:              v.ID,
		Season:          v.Season,
		CompetitionName: v.CompetitionName,
		KickoffDateTime: v.KickoffAt.UTC().Format(time.RFC3339),
		Round:           v.Round,
		HomeTeam:        v.HomeTeam,
		AwayTeam:        v.AwayTeam,
	}
}

func fixturePageToDTO(ctx context.Context, v usecase.SearchResult) fixturePageDTO {
	_, span := startSpan(ctx, "httpapi.fixturePageToDTO")
	defer span.End()

	items := make([]fixtureDTO, 0, len(v.Fixtures))
	for _, item := range v.Fixtures {
		items = append(items, fixtureToDTO(item))
	}
	pagination := v.Pagination
	if pagination == nil {
		pagination = []string{}
	}

	return fixturePageDTO{
		Fixtures:   items,
		Page:       v.Page,
		PageSize:   v.PageSize,
		TotalPages: v.TotalPages,
		TotalItems: v.TotalItems,
		Pagination: pagination,
	}
}

// parsePageParam reads an optional positive integer. Anything else yields 0 so
// the service applies its default.
func parsePageParam(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
