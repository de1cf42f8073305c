package httpapi

import (
	"net/http"
	"strings"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) SearchFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchFixtures")
	defer span.End()

	query := r.URL.Query()
	req := searchFixturesRequest{
		Query:    strings.TrimSpace(query.Get("query")),
		Page:     parsePageParam(query.Get("page")),
		PageSize: parsePageParam(query.Get("pageSize")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.fixtureService.Search(ctx, usecase.SearchInput{
		Query:    req.Query,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "search fixtures failed", "query", req.Query, "page", req.Page, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturePageToDTO(ctx, result))
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	req := fixtureIDRequest{FixtureID: strings.TrimSpace(r.PathValue("fixtureID"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.fixtureService.GetByID(ctx, req.FixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(item))
}

func (h *Handler) DeleteFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFixture")
	defer span.End()

	req := fixtureIDRequest{FixtureID: strings.TrimSpace(r.PathValue("fixtureID"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.fixtureService.DeleteByID(ctx, req.FixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete fixture failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "fixture deleted", "fixture_id", req.FixtureID)
	writeSuccess(ctx, w, http.StatusOK, result)
}
