package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/igs/igs/internal/auth"
	"github.com/igs/igs/internal/document"
	"github.com/igs/igs/internal/engine"
	"github.com/igs/igs/internal/typeid"
)

func newTestService() *Service {
	return NewService(Options{ViewportSize: 102, Margin: 10})
}

func newTestRouter(svc *Service, userID string) http.Handler {
	h := NewHandler(svc)
	r := mux.NewRouter()
	r.HandleFunc("/sessions", h.Create).Methods("POST")
	r.HandleFunc("/sessions", h.List).Methods("GET")
	r.HandleFunc("/sessions/{sessionId}", h.Get).Methods("GET")
	r.HandleFunc("/sessions/{sessionId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/sessions/{sessionId}/frame", h.Frame).Methods("GET")
	r.HandleFunc("/sessions/{sessionId}/shapes", h.AddShape).Methods("POST")
	r.HandleFunc("/sessions/{sessionId}/shapes/{index}", h.RemoveShape).Methods("DELETE")

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		user := &auth.User{ID: userID, DisplayName: "tester"}
		r.ServeHTTP(w, req.WithContext(auth.WithUser(req.Context(), user)))
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateGetDelete(t *testing.T) {
	svc := newTestService()
	sess, err := svc.Create("demo", "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if err := typeid.Validate(sess.ID, typeid.PrefixSession); err != nil {
		t.Error(err)
	}

	got, err := svc.Get(sess.ID)
	if err != nil || got != sess {
		t.Fatalf("Get = %v, %v", got, err)
	}

	if err := svc.Delete(sess.ID, "someone_else"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete by non-owner err = %v", err)
	}
	if err := svc.Delete(sess.ID, "user_1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
}

func TestSampleSceneLoaded(t *testing.T) {
	svc := NewService(Options{ViewportSize: 102, SampleScene: true, CenterMark: true})
	sess, err := svc.Create("demo", "user_1")
	if err != nil {
		t.Fatal(err)
	}
	want := len(document.NewSampleScene()) + 1
	if n := sess.Info().Shapes; n != want {
		t.Errorf("shapes = %d, want %d", n, want)
	}
}

func TestOnChange(t *testing.T) {
	svc := newTestService()
	var got []Change
	svc.OnChange(func(c Change) { got = append(got, c) })

	sess, _ := svc.Create("demo", "u")
	svc.Touch(sess.ID)
	svc.ShapeRemoved(sess.ID, 2)
	svc.Delete(sess.ID, "u")

	if len(got) != 3 {
		t.Fatalf("changes = %+v", got)
	}
	if got[0].SessionID != sess.ID || got[0].Deleted || got[0].Removed != nil {
		t.Errorf("touch = %+v", got[0])
	}
	if got[1].Removed == nil || *got[1].Removed != 2 {
		t.Errorf("removal = %+v", got[1])
	}
	if !got[2].Deleted {
		t.Errorf("delete = %+v", got[2])
	}
}

func TestHandlerCreateAndList(t *testing.T) {
	svc := newTestService()
	h := newTestRouter(svc, "user_1")

	rec := do(t, h, "POST", "/sessions", `{"name":"first"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var info Info
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Name != "first" || info.OwnerID != "user_1" {
		t.Errorf("info = %+v", info)
	}

	if rec := do(t, h, "POST", "/sessions", `{"name":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d", rec.Code)
	}

	rec = do(t, h, "GET", "/sessions", "")
	var list []Info
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != info.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestHandlerShapes(t *testing.T) {
	svc := newTestService()
	sess, _ := svc.Create("demo", "user_1")
	h := newTestRouter(svc, "user_1")
	base := "/sessions/" + sess.ID

	rec := do(t, h, "POST", base+"/shapes", `{"kind":"Line","points":[{"x":0,"y":0},{"x":10,"y":0}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body)
	}
	var added addShapeResponse
	json.NewDecoder(rec.Body).Decode(&added)
	if added.Index != 0 {
		t.Errorf("index = %d", added.Index)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown kind", `{"kind":"Circle","points":[{"x":0,"y":0}]}`, http.StatusBadRequest},
		{"bad rectangle", `{"kind":"Rectangle","points":[{"x":0,"y":0}],"width":0,"height":1}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, "POST", base+"/shapes", tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	rec = do(t, h, "GET", base+"/frame", "")
	var frame frameResponse
	if err := json.NewDecoder(rec.Body).Decode(&frame); err != nil {
		t.Fatal(err)
	}
	// Four frame segments plus the line.
	if len(frame.Commands) != 5 {
		t.Errorf("commands = %d, want 5", len(frame.Commands))
	}

	if rec := do(t, h, "DELETE", base+"/shapes/3", ""); rec.Code != http.StatusNotFound {
		t.Errorf("remove out of range status = %d", rec.Code)
	}
	if rec := do(t, h, "DELETE", base+"/shapes/x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("remove bad index status = %d", rec.Code)
	}
	if rec := do(t, h, "DELETE", base+"/shapes/0", ""); rec.Code != http.StatusNoContent {
		t.Errorf("remove status = %d", rec.Code)
	}

	sess.Do(func(e *engine.Engine) error {
		if n := e.DisplayFile().Len(); n != 0 {
			t.Errorf("display file len = %d", n)
		}
		return nil
	})
}

func TestHandlerGetScene(t *testing.T) {
	svc := newTestService()
	sess, _ := svc.Create("demo", "user_1")
	h := newTestRouter(svc, "user_1")

	rec := do(t, h, "GET", "/sessions/"+sess.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Scene.Viewport.Width != 102 || resp.Scene.Window.Width != 100 {
		t.Errorf("scene = %+v", resp.Scene)
	}

	if rec := do(t, h, "GET", "/sessions/sess_missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d", rec.Code)
	}
}

func TestHandlerDeleteForbidden(t *testing.T) {
	svc := newTestService()
	sess, _ := svc.Create("demo", "owner")

	if rec := do(t, newTestRouter(svc, "intruder"), "DELETE", "/sessions/"+sess.ID, ""); rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
	if rec := do(t, newTestRouter(svc, "owner"), "DELETE", "/sessions/"+sess.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
}
