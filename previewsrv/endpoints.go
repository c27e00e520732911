package previewsrv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/dekarrin/expando/previewsrv/dao"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathPrefix is the prefix all routes in Router are mounted under.
const PathPrefix = "/api/v1"

// Router builds the chi router for the preview service: unauthenticated
// preview/login routes, and JWT-gated CRUD on saved presets.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()

	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/login", s.endpoint(s.handleLogin))
		r.Post("/preview", s.endpoint(s.handlePreview))

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return requireAuth(s.jwtSecret, s.adminID, s.unauthedDelay, next)
			})
			r.Post("/presets", s.endpoint(s.handleCreatePreset))
			r.Get("/presets", s.endpoint(s.handleListPresets))
			r.Get("/presets/{id}", s.endpoint(s.handleGetPreset))
			r.Delete("/presets/{id}", s.endpoint(s.handleDeletePreset))
		})
	})

	return r
}

type endpointFunc func(req *http.Request) result

func (s *Service) endpoint(ep endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w)

		r := ep(req)
		if r.isErr {
			log.Printf("ERROR %s %s: HTTP-%d %s", req.Method, req.URL.Path, r.status, r.internalMsg)
			if r.status == http.StatusUnauthorized || r.status == http.StatusInternalServerError {
				time.Sleep(s.unauthedDelay)
			}
		} else {
			log.Printf("INFO  %s %s: HTTP-%d %s", req.Method, req.URL.Path, r.status, r.internalMsg)
		}
		r.writeResponse(w)
	}
}

func panicTo500(w http.ResponseWriter) {
	if p := recover(); p != nil {
		internalServerError(fmt.Sprintf("panic: %v\n%s", p, debug.Stack())).writeResponse(w)
	}
}

func parseJSONBody(req *http.Request, v interface{}) error {
	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return newError("malformed JSON in request", err, ErrBodyUnmarshal)
	}
	return nil
}

func urlIDParam(req *http.Request) (uuid.UUID, error) {
	valStr := chi.URLParam(req, "id")
	if valStr == "" {
		return uuid.Nil, fmt.Errorf("id parameter missing")
	}
	id, err := uuid.Parse(valStr)
	if err != nil {
		return uuid.Nil, newError("", ErrBadArgument)
	}
	return id, nil
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Service) handleLogin(req *http.Request) result {
	var body loginRequest
	if err := parseJSONBody(req, &body); err != nil {
		return badRequest("malformed request body", err.Error())
	}

	tok, err := s.login(body.Password)
	if err != nil {
		if err == ErrBadCredentials {
			return unauthorized("Incorrect password", err.Error())
		}
		return internalServerError(err.Error())
	}

	return ok(loginResponse{Token: tok}, "login ok")
}

type previewRequest struct {
	Format  string `json:"format"`
	MaxCols int    `json:"max_cols"`
}

type previewResponse struct {
	Rendered string `json:"rendered"`
}

func (s *Service) handlePreview(req *http.Request) result {
	var body previewRequest
	if err := parseJSONBody(req, &body); err != nil {
		return badRequest("malformed request body", err.Error())
	}

	maxCols := body.MaxCols
	if maxCols == 0 {
		maxCols = -1 // unbounded, per expando.RenderMax's convention
	}

	rendered, err := s.renderPreview(body.Format, maxCols)
	if err != nil {
		return badRequest(err.Error(), "parse error: "+err.Error())
	}

	return ok(previewResponse{Rendered: rendered}, "rendered preview")
}

type presetRequest struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

type presetResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Format   string `json:"format"`
	Created  int64  `json:"created"`
	Modified int64  `json:"modified"`
}

func presetToResponse(p dao.Preset) presetResponse {
	return presetResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Format:   p.Format,
		Created:  p.Created.Unix(),
		Modified: p.Modified.Unix(),
	}
}

func (s *Service) handleCreatePreset(req *http.Request) result {
	var body presetRequest
	if err := parseJSONBody(req, &body); err != nil {
		return badRequest("malformed request body", err.Error())
	}

	if _, err := s.renderPreview(body.Format, -1); err != nil {
		return badRequest("format string does not parse: "+err.Error(), err.Error())
	}

	p := dao.Preset{OwnerID: ownerFromContext(req.Context()), Name: body.Name, Format: body.Format}
	savedPreset, err := s.db.Presets().Create(req.Context(), p)
	if err != nil {
		if err == dao.ErrConstraintViolation {
			return conflict("a preset with that name already exists", err.Error())
		}
		return internalServerError(err.Error())
	}

	return created(presetToResponse(savedPreset), "preset created")
}

func (s *Service) handleListPresets(req *http.Request) result {
	all, err := s.db.Presets().GetAllByOwner(req.Context(), ownerFromContext(req.Context()))
	if err != nil {
		return internalServerError(err.Error())
	}

	resp := make([]presetResponse, len(all))
	for i, p := range all {
		resp[i] = presetToResponse(p)
	}
	return ok(resp, "listed "+strconv.Itoa(len(resp))+" presets")
}

func (s *Service) handleGetPreset(req *http.Request) result {
	id, err := urlIDParam(req)
	if err != nil {
		return badRequest("invalid preset ID", err.Error())
	}

	p, err := s.db.Presets().GetByID(req.Context(), id)
	if err != nil {
		if err == dao.ErrNotFound {
			return notFound(err.Error())
		}
		return internalServerError(err.Error())
	}

	return ok(presetToResponse(p), "got preset")
}

func (s *Service) handleDeletePreset(req *http.Request) result {
	id, err := urlIDParam(req)
	if err != nil {
		return badRequest("invalid preset ID", err.Error())
	}

	if _, err := s.db.Presets().Delete(req.Context(), id); err != nil {
		if err == dao.ErrNotFound {
			return notFound(err.Error())
		}
		return internalServerError(err.Error())
	}

	return noContent("preset deleted")
}
