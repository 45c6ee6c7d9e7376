package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/igs/igs/internal/auth"
	"github.com/igs/igs/internal/document"
	"github.com/igs/igs/internal/engine"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	Info
	Scene document.Scene `json:"scene"`
}

type frameResponse struct {
	Revision int64                `json:"revision"`
	Commands []engine.DrawCommand `json:"commands"`
}

type addShapeResponse struct {
	Index int `json:"index"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	sess, err := h.service.Create(req.Name, user.ID)
	if err != nil {
		slog.Error("create session failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, sess.Info())
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := sessionResponse{Info: sess.Info()}
	sess.Do(func(e *engine.Engine) error {
		resp.Scene = e.Scene()
		return nil
	})

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	err := h.service.Delete(mux.Vars(r)["sessionId"], user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var resp frameResponse
	sess.Do(func(e *engine.Engine) error {
		resp.Revision = e.Revision()
		resp.Commands = append([]engine.DrawCommand{}, e.Render()...)
		return nil
	})

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) AddShape(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var spec document.ShapeSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var index int
	err = sess.Do(func(e *engine.Engine) error {
		var err error
		index, err = e.AddShape(spec)
		return err
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.service.Touch(sess.ID)

	writeJSON(w, http.StatusCreated, addShapeResponse{Index: index})
}

func (h *Handler) RemoveShape(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sess, err := h.service.Get(vars["sessionId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid shape index"})
		return
	}

	err = sess.Do(func(e *engine.Engine) error {
		return e.RemoveShape(index)
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.service.ShapeRemoved(sess.ID, index)

	w.WriteHeader(http.StatusNoContent)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, engine.ErrPreconditionViolation):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "shape not found"})
	case errors.Is(err, engine.ErrInvalidArgument),
		errors.Is(err, engine.ErrUnknownKind),
		errors.Is(err, engine.ErrNoCenter):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
