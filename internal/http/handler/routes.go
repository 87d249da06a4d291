package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	"noterefiner/internal/http/web"
	"noterefiner/internal/model"
	"noterefiner/internal/notestore"
	"noterefiner/internal/service"
	"noterefiner/internal/storage"
)

// Deps carries everything the route table needs.
type Deps struct {
	Notes   service.NoteService
	Refine  service.RefineService
	Health  storage.Pinger
	Metrics http.Handler
	Log     *zap.Logger
}

// RefineBody is the request body of POST /api/refine.
type RefineBody struct {
	Note string `json:"note"`
	Mode string `json:"mode"`
}

// RefineResult is the response body of POST /api/refine. Exactly one field is set.
type RefineResult struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CreateNoteBody is the request body of POST /api/notes.
type CreateNoteBody struct {
	Original string `json:"original"`
	Refined  string `json:"refined"`
	Type     string `json:"type"`
}

// ModeOption is one entry of GET /api/modes.
type ModeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/", Index())
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", HealthCheck(deps.Health))
	app.Get("/healthz", LivenessProbe())
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	api.Post("/refine", Refine(deps.Refine, deps.Log))
	api.Get("/modes", ListModes())
	api.Get("/notes", ListNotes(deps.Notes))
	api.Post("/notes", CreateNote(deps.Notes))
	api.Get("/notes/:id", GetNote(deps.Notes))
	api.Delete("/notes/:id", DeleteNote(deps.Notes))
}

// Index serves the embedded single page.
func Index() fiber.Handler {
	page := web.Index()
	return func(c *fiber.Ctx) error {
		return c.Type("html").Send(page)
	}
}

// HealthCheck godoc
// @Summary      Readiness probe
// @Description  Pings the note storage backend when it supports it.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  errorPayload
// @Router       /health [get]
func HealthCheck(p storage.Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Refine godoc
// @Summary      Refine a rough note
// @Description  Turns rough text into the documentation style named by mode.
// @Tags         refine
// @Accept       json
// @Produce      json
// @Param        body  body      RefineBody  true  "note and mode"
// @Success      200   {object}  RefineResult
// @Failure      400   {object}  RefineResult
// @Failure      502   {object}  RefineResult
// @Router       /api/refine [post]
func Refine(svc service.RefineService, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		var body RefineBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(RefineResult{Error: "invalid request body"})
		}

		out, err := svc.Refine(c.UserContext(), service.RefineRequest{Note: body.Note, Mode: body.Mode})
		switch {
		case err == nil:
			return c.JSON(RefineResult{Output: out})
		case errors.Is(err, service.ErrNoteRequired),
			errors.Is(err, service.ErrNoteTooLong),
			errors.Is(err, model.ErrInvalidMode):
			return c.Status(fiber.StatusBadRequest).JSON(RefineResult{Error: err.Error()})
		case errors.Is(err, service.ErrRefineFailed):
			log.Error("refine failed", zap.String("request_id", requestIDFromCtx(c)), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(RefineResult{Error: "failed to refine note"})
		default:
			log.Error("refine error", zap.String("request_id", requestIDFromCtx(c)), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(RefineResult{Error: "internal server error"})
		}
	}
}

// ListModes returns the supported modes in display order.
func ListModes() fiber.Handler {
	modes := model.Modes()
	opts := make([]ModeOption, 0, len(modes))
	for _, m := range modes {
		opts = append(opts, ModeOption{Value: string(m), Label: m.Label()})
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(opts)
	}
}

// ListNotes godoc
// @Summary      List saved notes
// @Description  Newest first, optionally filtered by a case-insensitive query over original and refined text.
// @Tags         notes
// @Produce      json
// @Param        q    query     string  false  "search query"
// @Success      200  {object}  service.NoteListResult
// @Failure      500  {object}  errorPayload
// @Router       /api/notes [get]
func ListNotes(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), c.Query("q"))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// CreateNote godoc
// @Summary      Save a refined note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        body  body      CreateNoteBody  true  "note"
// @Success      201   {object}  model.Note
// @Failure      400   {object}  errorPayload
// @Failure      500   {object}  errorPayload
// @Failure      503   {object}  errorPayload
// @Router       /api/notes [post]
func CreateNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateNoteBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		n, err := svc.Create(c.UserContext(), body.Original, body.Refined, body.Type)
		if err != nil {
			switch {
			case errors.Is(err, notestore.ErrRefinedRequired):
				return writeError(c, fiber.StatusBadRequest, "REFINED_REQUIRED", "refined text is required")
			case errors.Is(err, model.ErrInvalidMode):
				return writeError(c, fiber.StatusBadRequest, "INVALID_MODE", "invalid mode")
			case errors.Is(err, notestore.ErrUnavailable):
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "note storage unavailable")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	}
}

// GetNote godoc
// @Summary      Get a saved note
// @Tags         notes
// @Produce      json
// @Param        id   path      int  true  "note id"
// @Success      200  {object}  model.Note
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/notes/{id} [get]
func GetNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := noteID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		n, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNoteNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "note not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(n)
	}
}

// DeleteNote godoc
// @Summary      Delete a saved note
// @Description  Deleting an id that does not exist still answers 204.
// @Tags         notes
// @Param        id   path  int  true  "note id"
// @Success      204
// @Failure      400  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /api/notes/{id} [delete]
func DeleteNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := noteID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, notestore.ErrUnavailable) {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "note storage unavailable")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func noteID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
