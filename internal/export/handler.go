package export

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/igs/igs/internal/engine"
	"github.com/igs/igs/internal/session"
)

var (
	background = color.White
	foreground = color.Black
)

type Handler struct {
	sessions *session.Service
}

func NewHandler(sessions *session.Service) *Handler {
	return &Handler{sessions: sessions}
}

// ExportPNG renders the session's current view as a PNG image.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = sess.Do(func(e *engine.Engine) error {
		return Render(&buf, e)
	})
	if err != nil {
		slog.Error("png export failed", "session", sess.ID, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+sess.ID+`.png"`)
	w.Write(buf.Bytes())
}

// Render writes e's current view to w as PNG.
func Render(w io.Writer, e *engine.Engine) error {
	vp := e.Viewport()
	canvas := NewCanvas(vp.Width(), vp.Height())
	e.RenderTo(canvas)
	return png.Encode(w, canvas.Image(background, foreground))
}
