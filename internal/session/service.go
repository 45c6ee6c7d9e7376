package session

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/igs/igs/internal/document"
	"github.com/igs/igs/internal/engine"
	"github.com/igs/igs/internal/typeid"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrForbidden = errors.New("forbidden")
)

// Options controls how new sessions are set up.
type Options struct {
	ViewportSize int
	Margin       int
	CenterMark   bool
	SampleScene  bool
}

// Session is one scene being edited. All access to its engine goes through
// Do, which serializes callers.
type Session struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time

	mu     sync.Mutex
	engine *engine.Engine
}

// Do runs fn with exclusive access to the session's engine.
func (s *Session) Do(fn func(e *engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// Info is the list view of a session.
type Info struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	Shapes    int    `json:"shapes"`
	Revision  int64  `json:"revision"`
}

func (s *Session) Info() Info {
	info := Info{
		ID:        s.ID,
		Name:      s.Name,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
	s.Do(func(e *engine.Engine) error {
		info.Shapes = e.DisplayFile().Len()
		info.Revision = e.Revision()
		return nil
	})
	return info
}

// Change reports that a session's scene was modified outside a collab room,
// or that the session was deleted. Removed is set when a shape was removed.
type Change struct {
	SessionID string
	Deleted   bool
	Removed   *int
}

// Service keeps every live session in memory.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	opts      Options
	registry  *engine.Registry
	listeners []func(Change)
}

func NewService(opts Options) *Service {
	return &Service{
		sessions: make(map[string]*Session),
		opts:     opts,
		registry: engine.DefaultRegistry(),
	}
}

// Create starts a new session owned by ownerID.
func (s *Service) Create(name, ownerID string) (*Session, error) {
	eng, err := engine.NewEngine(engine.Options{
		Width:      s.opts.ViewportSize,
		Height:     s.opts.ViewportSize,
		Margin:     s.opts.Margin,
		CenterMark: s.opts.CenterMark,
		Registry:   s.registry,
	})
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	if s.opts.SampleScene {
		if err := eng.LoadShapes(document.NewSampleScene()); err != nil {
			return nil, fmt.Errorf("load sample scene: %w", err)
		}
	}

	sess := &Session{
		ID:        typeid.NewSessionID(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		engine:    eng,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *Service) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// List returns all sessions, oldest first.
func (s *Service) List() []Info {
	s.mu.RLock()
	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b *Session) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	infos := make([]Info, len(all))
	for i, sess := range all {
		infos[i] = sess.Info()
	}
	return infos
}

// Delete removes a session. Only its owner may delete it.
func (s *Service) Delete(id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if sess.OwnerID != userID {
		return ErrForbidden
	}
	delete(s.sessions, id)
	s.notifyLocked(Change{SessionID: id, Deleted: true})
	return nil
}

// OnChange registers fn to be called after REST mutations and deletions.
// fn must not call back into the Service.
func (s *Service) OnChange(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Touch tells listeners that the session's scene changed.
func (s *Service) Touch(id string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.notifyLocked(Change{SessionID: id})
}

// ShapeRemoved tells listeners that the shape at index was removed.
func (s *Service) ShapeRemoved(id string, index int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.notifyLocked(Change{SessionID: id, Removed: &index})
}

func (s *Service) notifyLocked(c Change) {
	for _, fn := range s.listeners {
		fn(c)
	}
}
