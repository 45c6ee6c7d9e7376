package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/igs/igs/internal/document"
	"github.com/igs/igs/internal/engine"
	"github.com/igs/igs/internal/session"
)

func isInk(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r < 0x8000 && g < 0x8000 && b < 0x8000
}

func TestCanvasStrokes(t *testing.T) {
	c := NewCanvas(20, 20)
	c.DrawLine(2, 5, 17, 5)
	c.DrawLine(8, 12, 8, 12)
	img := c.Image(color.White, color.Black)

	for _, p := range []image.Point{{2, 5}, {10, 5}, {17, 5}, {8, 12}} {
		if !isInk(img, p.X, p.Y) {
			t.Errorf("pixel %v not stroked", p)
		}
	}
	for _, p := range []image.Point{{10, 3}, {10, 8}, {0, 0}, {19, 19}} {
		if isInk(img, p.X, p.Y) {
			t.Errorf("pixel %v stroked", p)
		}
	}
}

func TestRenderEngine(t *testing.T) {
	e, err := engine.NewEngine(engine.Options{Width: 102, Height: 102, Margin: 10})
	if err != nil {
		t.Fatal(err)
	}
	// World x axis maps onto device row 51.
	if _, err := e.AddShape(document.ShapeSpec{
		Kind:   "Line",
		Points: []document.Point{{X: -30, Y: 0}, {X: 30, Y: 0}},
	}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, e); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 102 || b.Dy() != 102 {
		t.Fatalf("bounds = %v", b)
	}
	if !isInk(img, 10, 40) {
		t.Error("margin frame missing")
	}
	if !isInk(img, 51, 51) {
		t.Error("line missing")
	}
	if isInk(img, 51, 30) {
		t.Error("unexpected ink")
	}
}

func TestExportHandler(t *testing.T) {
	svc := session.NewService(session.Options{ViewportSize: 64, Margin: 4})
	sess, err := svc.Create("demo", "owner")
	if err != nil {
		t.Fatal(err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/sessions/{sessionId}/export.png", NewHandler(svc).ExportPNG)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/sessions/"+sess.ID+"/export.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if _, err := png.Decode(rec.Body); err != nil {
		t.Error(err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/sessions/sess_missing/export.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d", rec.Code)
	}
}
