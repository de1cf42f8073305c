package httpapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/infrastructure/repository/memory"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/id"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/logging"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/usecase"
)

const testAdminToken = "s3cret"

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      map[string]any `json:"error"`
}

func newTestRouter(t *testing.T, maxUploadBytes int64) http.Handler {
	t.Helper()

	repo := memory.NewFixtureRepository(memory.SeedFixtures())
	logger := logging.NewNop()
	fixtureSvc := usecase.NewFixtureService(repo, usecase.FixtureServiceConfig{}, logger)
	ingestSvc := usecase.NewIngestionService(repo, id.NewUUIDGenerator(), usecase.IngestionConfig{MaxUploadBytes: maxUploadBytes}, logger)

	return NewRouter(NewHandler(fixtureSvc, ingestSvc, logger), logger, RouterConfig{
		CORSAllowedOrigins: []string{"*"},
		AdminToken:         testAdminToken,
	})
}

func serve(t *testing.T, router http.Handler, req *http.Request) (int, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	assert.Equal(t, "2.0", body.APIVersion)
	return rec.Code, body
}

func uploadRequest(t *testing.T, fileName string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := writer.CreateFormFile(uploadFormField, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("note", "no file here"))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/fixtures/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(adminTokenHeader, testAdminToken)
	return req
}

const uploadHeader = "id,season,competitionName,kickoffDateTime,round,homeTeam,awayTeam\n"

func TestHandler_Healthz(t *testing.T) {
	router := newTestRouter(t, 0)

	code, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Data["status"])
}

func TestHandler_SearchFixtures(t *testing.T) {
	router := newTestRouter(t, 0)

	t.Run("team filter", func(t *testing.T) {
		code, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/v1/fixtures?query=bath", nil))
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 2, body.Data["totalItems"])
		assert.EqualValues(t, 1, body.Data["totalPages"])
		fixtures := body.Data["fixtures"].([]any)
		require.Len(t, fixtures, 2)
		first := fixtures[0].(map[string]any)
		assert.Equal(t, "prem-2025-r1-bat-bri", first["id"])
		assert.Equal(t, "Bath Rugby", first["homeTeam"])
		assert.Contains(t, first, "kickoffDateTime")
	})

	t.Run("lenient paging params", func(t *testing.T) {
		code, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/v1/fixtures?page=abc&pageSize=3", nil))
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 1, body.Data["page"])
		assert.EqualValues(t, 3, body.Data["pageSize"])
		assert.EqualValues(t, 3, body.Data["totalPages"])
		assert.Len(t, body.Data["fixtures"], 3)
		assert.Equal(t, []any{"1", "2", "3"}, body.Data["pagination"])
	})

	t.Run("query too long", func(t *testing.T) {
		code, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/v1/fixtures?query="+strings.Repeat("a", 101), nil))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "INVALID_ARGUMENT", body.Error["status"])
	})
}

func TestHandler_GetFixture(t *testing.T) {
	router := newTestRouter(t, 0)

	code, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/v1/fixtures/urc-2025-r1-lei-mun", nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Leinster", body.Data["homeTeam"])
	assert.Equal(t, "2025-09-26T19:35:00Z", body.Data["kickoffDateTime"])

	code, body = serve(t, router, httptest.NewRequest(http.MethodGet, "/v1/fixtures/missing", nil))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Fixture not found", body.Error["message"])
}

func TestHandler_DeleteFixture(t *testing.T) {
	router := newTestRouter(t, 0)

	unauthenticated := httptest.NewRequest(http.MethodDelete, "/v1/fixtures/urc-2025-r1-lei-mun", nil)
	code, _ := serve(t, router, unauthenticated)
	assert.Equal(t, http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodDelete, "/v1/fixtures/urc-2025-r1-lei-mun", nil)
	req.Header.Set(adminTokenHeader, testAdminToken)
	code, body := serve(t, router, req)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body.Data["success"])
	assert.Equal(t, "Fixture successfully deleted", body.Data["message"])

	req = httptest.NewRequest(http.MethodDelete, "/v1/fixtures/urc-2025-r1-lei-mun", nil)
	req.Header.Set(adminTokenHeader, testAdminToken)
	code, body = serve(t, router, req)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Fixture not found", body.Error["message"])
}

func TestHandler_UploadFixtures(t *testing.T) {
	t.Run("valid csv", func(t *testing.T) {
		router := newTestRouter(t, 0)
		content := uploadHeader +
			"NEW-1,2025,Premiership,2025-10-10T19:45:00Z,3,Bath Rugby,Saracens\n" +
			"NEW-2,2025,Premiership,2025-10-11T15:00:00Z,3,Harlequins,Sale Sharks\n" +
			"NEW-3,abc,Premiership,2025-10-11T15:00:00Z,3,Exeter Chiefs,Bristol Bears\n"

		code, body := serve(t, router, uploadRequest(t, "fixtures.csv", []byte(content)))
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body.Data["success"])
		assert.Equal(t, "Successfully processed 2 fixtures", body.Data["message"])
		assert.EqualValues(t, 2, body.Data["count"])
		assert.EqualValues(t, 1, body.Data["invalidCount"])

		code, search := serve(t, router, httptest.NewRequest(http.MethodGet, "/v1/fixtures?query=bath", nil))
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 3, search.Data["totalItems"])
	})

	t.Run("missing file", func(t *testing.T) {
		code, body := serve(t, newTestRouter(t, 0), uploadRequest(t, "", nil))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "No file uploaded", body.Error["message"])
	})

	t.Run("unsupported extension", func(t *testing.T) {
		code, body := serve(t, newTestRouter(t, 0), uploadRequest(t, "fixtures.txt", []byte(uploadHeader)))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Please upload a CSV file", body.Error["message"])
	})

	t.Run("too large", func(t *testing.T) {
		code, body := serve(t, newTestRouter(t, 64), uploadRequest(t, "fixtures.csv", []byte(uploadHeader+strings.Repeat("x", 64))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, code)
		assert.Contains(t, body.Error["message"], "File is too large")
	})

	t.Run("no valid rows", func(t *testing.T) {
		content := uploadHeader + "BAD-1,abc,Premiership,2025-10-10T19:45:00Z,3,Bath Rugby,Saracens\n"
		code, body := serve(t, newTestRouter(t, 0), uploadRequest(t, "fixtures.csv", []byte(content)))
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "No valid fixtures found in the CSV file", body.Error["message"])
		details := body.Error["details"].(map[string]any)
		assert.EqualValues(t, 1, details["invalidCount"])
		assert.Len(t, details["invalidRecords"], 1)
	})

	t.Run("admin token required", func(t *testing.T) {
		req := uploadRequest(t, "fixtures.csv", []byte(uploadHeader))
		req.Header.Del(adminTokenHeader)
		code, _ := serve(t, newTestRouter(t, 0), req)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestHandler_RecoversPanics(t *testing.T) {
	logger := logging.NewNop()
	handler := recoverPanic(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	code, body := serve(t, handler, httptest.NewRequest(http.MethodGet, "/v1/fixtures", nil))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, internalMessage, body.Error["message"])
}

func TestRouter_SwaggerRoutesFollowConfig(t *testing.T) {
	repo := memory.NewFixtureRepository(nil)
	logger := logging.NewNop()
	handler := NewHandler(
		usecase.NewFixtureService(repo, usecase.FixtureServiceConfig{}, logger),
		usecase.NewIngestionService(repo, id.NewUUIDGenerator(), usecase.IngestionConfig{}, logger),
		logger,
	)

	enabled := NewRouter(handler, logger, RouterConfig{SwaggerEnabled: true})

	rec := httptest.NewRecorder()
	enabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, openAPISpec, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	enabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "url: '/openapi.yaml'")

	disabled := NewRouter(handler, logger, RouterConfig{})
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
