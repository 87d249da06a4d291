package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"noterefiner/internal/model"
	"noterefiner/internal/notestore"
	"noterefiner/internal/service"
	serviceMocks "noterefiner/internal/service/mocks"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(pingFunc(func(context.Context) error { return nil })))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(pingFunc(func(context.Context) error { return errors.New("db error") })))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})

	t.Run("no pinger", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(nil))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIndex(t *testing.T) {
	app := fiber.New()
	app.Get("/", Index())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "/api/refine")
}

func TestRefine(t *testing.T) {
	mockSvc := new(serviceMocks.MockRefineService)
	app := fiber.New()
	app.Post("/api/refine", Refine(mockSvc, nil))

	decode := func(t *testing.T, resp *http.Response) RefineResult {
		t.Helper()
		var out RefineResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	t.Run("success", func(t *testing.T) {
		req := service.RefineRequest{Note: "printer jammed", Mode: "tech_support"}
		mockSvc.On("Refine", mock.Anything, req).Return("**Issue Summary:** printer jam", nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/refine", `{"note":"printer jammed","mode":"tech_support"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode(t, resp)
		assert.Equal(t, "**Issue Summary:** printer jam", out.Output)
		assert.Empty(t, out.Error)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/refine", `{"note":`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.NotEmpty(t, decode(t, resp).Error)
	})

	t.Run("validation errors", func(t *testing.T) {
		for _, verr := range []error{service.ErrNoteRequired, service.ErrNoteTooLong, model.ErrInvalidMode} {
			mockSvc.On("Refine", mock.Anything, mock.Anything).Return("", verr).Once()

			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/refine", `{"note":"x","mode":"poem"}`))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, verr.Error())
			assert.Equal(t, verr.Error(), decode(t, resp).Error)
		}
		mockSvc.AssertExpectations(t)
	})

	t.Run("refiner failure hides cause", func(t *testing.T) {
		cause := fmt.Errorf("%w: %w", service.ErrRefineFailed, errors.New("dial tcp: secret-host refused"))
		mockSvc.On("Refine", mock.Anything, mock.Anything).Return("", cause).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/refine", `{"note":"x","mode":"email"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		out := decode(t, resp)
		assert.Empty(t, out.Output)
		assert.NotContains(t, out.Error, "secret-host")
		mockSvc.AssertExpectations(t)
	})

	t.Run("unexpected error", func(t *testing.T) {
		mockSvc.On("Refine", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/refine", `{"note":"x","mode":"email"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestListModes(t *testing.T) {
	app := fiber.New()
	app.Get("/api/modes", ListModes())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/modes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var opts []ModeOption
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&opts))
	require.Len(t, opts, 4)
	assert.Equal(t, ModeOption{Value: "tech_support", Label: "IT Ticket Log"}, opts[0])
	assert.Equal(t, "kb_article", opts[3].Value)
}

func TestListNotes(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	app := fiber.New()
	app.Get("/api/notes", ListNotes(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.NoteListResult{
			Items: []model.Note{{ID: 2, Refined: "printer fixed", Type: model.ModeTechSupport}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, "printer").Return(expected, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes?q=printer", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.NoteListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "").Return(nil, errors.New("service error")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateNote(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	app := fiber.New()
	app.Post("/api/notes", CreateNote(mockSvc))

	t.Run("success", func(t *testing.T) {
		created := &model.Note{ID: 1700000000000, Date: "11/14/2023", Original: "a", Refined: "b", Type: model.ModeEmail}
		mockSvc.On("Create", mock.Anything, "a", "b", "email").Return(created, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/notes", `{"original":"a","refined":"b","type":"email"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Note
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, *created, result)
		mockSvc.AssertExpectations(t)
	})

	cases := []struct {
		name string
		err  error
		code string
		want int
	}{
		{"refined required", notestore.ErrRefinedRequired, "REFINED_REQUIRED", http.StatusBadRequest},
		{"invalid mode", model.ErrInvalidMode, "INVALID_MODE", http.StatusBadRequest},
		{"persist failure", errors.New("persist notes: disk full"), "INTERNAL_ERROR", http.StatusInternalServerError},
		{"storage unreadable", fmt.Errorf("%w: %w", notestore.ErrUnavailable, errors.New("connection reset")), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/notes", `{"original":"a","refined":"","type":"poem"}`))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)

			var res errorPayload
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			assert.Equal(t, tc.code, res.Error.Code)
			mockSvc.AssertExpectations(t)
		})
	}

	t.Run("invalid body", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/notes", `[`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetNote(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	app := fiber.New()
	app.Get("/api/notes/:id", GetNote(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(42)).Return(&model.Note{ID: 42, Refined: "x"}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes/42", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Note
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, int64(42), result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(7)).Return(nil, service.ErrNoteNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes/7", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var res errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var res errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func TestDeleteNote(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	app := fiber.New()
	app.Delete("/api/notes/:id", DeleteNote(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(42)).Return(nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/notes/42", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/notes/1.5", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("storage unreadable", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(8)).Return(notestore.ErrUnavailable).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/notes/8", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(9)).Return(errors.New("persist notes: boom")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/notes/9", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	reg := prometheus.NewRegistry()
	RegisterRoutes(app, Deps{
		Notes:   new(serviceMocks.MockNoteService),
		Refine:  new(serviceMocks.MockRefineService),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	t.Run("not found route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var res errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

		var res errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
