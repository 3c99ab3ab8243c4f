package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/kdduha/kolam-knowledge/internal/controller"
	"github.com/kdduha/kolam-knowledge/internal/models"
	"github.com/kdduha/kolam-knowledge/internal/session"
	"go.uber.org/zap"
)

type sessionStore interface {
	Create(ctx context.Context) (string, *controller.Controller, error)
	Get(id string) (*controller.Controller, error)
	Delete(id string) error
}

// ImageChecker reports whether a base64 image can be displayed.
type ImageChecker func(b64 string) error

type KnowledgeHandler struct {
	logger     *zap.Logger
	store      sessionStore
	factory    session.Factory
	checkImage ImageChecker
	version    string
}

func NewKnowledgeHandler(
	logger *zap.Logger,
	store sessionStore,
	factory session.Factory,
	checkImage ImageChecker,
	version string,
) *KnowledgeHandler {
	return &KnowledgeHandler{
		logger:     logger,
		store:      store,
		factory:    factory,
		checkImage: checkImage,
		version:    version,
	}
}

// Routes mounts the knowledge endpoints on r.
func (h *KnowledgeHandler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Post("/knowledge", h.Query)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Put("/query", h.SetQuery)
			r.Post("/submit", h.Submit)
			r.Post("/image-error", h.ImageError)
		})
	})
}

// Health godoc
// @Summary Gateway health
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *KnowledgeHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "healthy", Version: h.version})
}

// Query godoc
// @Summary One-shot knowledge query
// @Description Resolves a query without a session. The availability probe is not run.
// @Tags knowledge
// @Accept json
// @Produce json
// @Param request body models.KnowledgeRequest true "Knowledge request"
// @Success 200 {object} models.SessionView
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /knowledge [post]
func (h *KnowledgeHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req models.KnowledgeRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %s", err), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("request validation failed: %s", err), http.StatusBadRequest)
		return
	}

	ctrl, err := h.factory()
	if err != nil {
		http.Error(w, fmt.Sprintf("controller error: %s", err), http.StatusInternalServerError)
		return
	}
	ctrl.SetQuery(req.Query)
	if _, err := ctrl.Submit(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.view("", ctrl))
}

// CreateSession godoc
// @Summary Create a query session
// @Description Creates a controller and runs its one-time availability probe.
// @Tags sessions
// @Produce json
// @Success 201 {object} models.SessionView
// @Failure 500 {object} map[string]string
// @Router /sessions [post]
func (h *KnowledgeHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, ctrl, err := h.store.Create(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("session error: %s", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, h.view(id, ctrl))
}

// GetSession godoc
// @Summary Read session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionView
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (h *KnowledgeHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, ctrl))
}

// DeleteSession godoc
// @Summary Delete a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [delete]
func (h *KnowledgeHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetQuery godoc
// @Summary Set the query text
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.SetQueryRequest true "Query text"
// @Success 200 {object} models.SessionView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/query [put]
func (h *KnowledgeHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SetQueryRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %s", err), http.StatusBadRequest)
		return
	}
	ctrl.SetQuery(req.Query)
	writeJSON(w, http.StatusOK, h.view(id, ctrl))
}

// Submit godoc
// @Summary Submit the current query
// @Description Answers from the mock corpus or the live knowledge service. Blocks until resolved.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/submit [post]
func (h *KnowledgeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if _, err := ctrl.Submit(r.Context()); err != nil {
		if errors.Is(err, controller.ErrEmptyQuery) {
			http.Error(w, "request validation failed: query is empty", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, ctrl))
}

// ImageError godoc
// @Summary Report that the answer image failed to render
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.ImageErrorRequest true "Answer sequence number"
// @Success 200 {object} models.SessionView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/image-error [post]
func (h *KnowledgeHandler) ImageError(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.ImageErrorRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %s", err), http.StatusBadRequest)
		return
	}
	if !ctrl.ReportImageError(req.Seq) {
		http.Error(w, "no image for this answer", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, ctrl))
}

func (h *KnowledgeHandler) lookup(w http.ResponseWriter, r *http.Request) (string, *controller.Controller, bool) {
	id := chi.URLParam(r, "id")
	ctrl, err := h.store.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return "", nil, false
	}
	return id, ctrl, true
}

// view renders the session, decoding a fresh image first so that an
// undisplayable blob is reported before the client sees it.
func (h *KnowledgeHandler) view(id string, ctrl *controller.Controller) models.SessionView {
	snap := ctrl.Snapshot()
	if h.checkImage != nil && snap.Answer != nil && snap.Answer.HasImage() && !snap.ImageFailed {
		if err := h.checkImage(snap.Answer.ImageBase64); err != nil {
			h.logger.Warn("answer image is not displayable", zap.Error(err))
			ctrl.ReportImageError(snap.AnswerSeq)
			snap = ctrl.Snapshot()
		}
	}

	v := snap.View()
	v.ID = id
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to encode: %s", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
