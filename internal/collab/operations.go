package collab

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/igs/igs/internal/document"
	"github.com/igs/igs/internal/engine"
	"github.com/igs/igs/internal/session"
)

var ErrNoTarget = errors.New("no shapes selected")

// SceneState serializes operations against one session and numbers them.
type SceneState struct {
	mu        sync.Mutex
	session   *session.Session
	serverSeq int64
}

// NewSceneState wraps sess for a collaboration room.
func NewSceneState(sess *session.Session) *SceneState {
	return &SceneState{session: sess}
}

// opResult carries what an ack reports beyond the sequence number.
type opResult struct {
	index      *int
	changed    *bool
	removed    *int
	transforms []document.AppliedTransform
}

// ApplyOperation applies op to the session's engine and returns the server
// sequence. selection yields the sender's presence selection, used when a
// transform names no indices. It is read while the engine is locked, so
// removals cannot slip in between reading it and applying op.
func (ss *SceneState) ApplyOperation(op Operation, selection func() []int) (opResult, int64, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	var res opResult
	err := ss.session.Do(func(e *engine.Engine) error {
		var err error
		res, err = applyOperation(e, op, selection)
		return err
	})
	if err != nil {
		return opResult{}, 0, err
	}

	ss.serverSeq++
	return res, ss.serverSeq, nil
}

// ServerSeq returns the sequence number of the last applied operation.
func (ss *SceneState) ServerSeq() int64 {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.serverSeq
}

func applyOperation(e *engine.Engine, op Operation, selection func() []int) (opResult, error) {
	switch op.Type {
	case OpShapeAdd:
		return applyAdd(e, op)
	case OpShapeRemove:
		return applyRemove(e, op)
	case OpShapeRename:
		return applyRename(e, op)
	case OpShapeTransform:
		return applyTransform(e, op, selection)
	case OpWindowMove:
		return applyWindowMove(e, op)
	case OpWindowZoom:
		return applyWindowZoom(e, op)
	case OpInputKey:
		return applyKey(e, op)
	case OpInputWheel:
		e.HandleWheel(op.DeltaY)
		return opResult{}, nil
	default:
		return opResult{}, fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func applyAdd(e *engine.Engine, op Operation) (opResult, error) {
	if op.Shape == nil {
		return opResult{}, errors.New("shape.add: missing shape")
	}
	index, err := e.AddShape(*op.Shape)
	if err != nil {
		return opResult{}, err
	}
	return opResult{index: &index}, nil
}

func applyRemove(e *engine.Engine, op Operation) (opResult, error) {
	if op.Index == nil {
		return opResult{}, errors.New("shape.remove: missing index")
	}
	if err := e.RemoveShape(*op.Index); err != nil {
		return opResult{}, err
	}
	return opResult{removed: op.Index}, nil
}

func applyRename(e *engine.Engine, op Operation) (opResult, error) {
	if op.Index == nil {
		return opResult{}, errors.New("shape.rename: missing index")
	}
	return opResult{}, e.RenameShape(*op.Index, op.Name)
}

func applyTransform(e *engine.Engine, op Operation, selection func() []int) (opResult, error) {
	if len(op.Steps) == 0 {
		return opResult{}, errors.New("shape.transform: no steps")
	}
	indices := op.Indices
	if indices == nil {
		indices = selection()
	}
	if len(indices) == 0 {
		return opResult{}, ErrNoTarget
	}
	applied, err := e.TransformShapes(indices, op.Steps)
	if err != nil {
		return opResult{}, err
	}
	return opResult{transforms: applied}, nil
}

func applyWindowMove(e *engine.Engine, op Operation) (opResult, error) {
	d, err := engine.ParseDirection(op.Direction)
	if err != nil {
		return opResult{}, err
	}
	switch d {
	case engine.DirectionLeft, engine.DirectionRight, engine.DirectionUp, engine.DirectionDown:
		e.Move(d)
		return opResult{}, nil
	}
	return opResult{}, fmt.Errorf("window.move: direction %q: %w", op.Direction, engine.ErrInvalidArgument)
}

func applyWindowZoom(e *engine.Engine, op Operation) (opResult, error) {
	d, err := engine.ParseDirection(op.Direction)
	if err != nil {
		return opResult{}, err
	}
	switch d {
	case engine.DirectionIn:
		changed := e.ZoomIn()
		return opResult{changed: &changed}, nil
	case engine.DirectionOut:
		e.ZoomOut()
		return opResult{}, nil
	}
	return opResult{}, fmt.Errorf("window.zoom: direction %q: %w", op.Direction, engine.ErrInvalidArgument)
}

func applyKey(e *engine.Engine, op Operation) (opResult, error) {
	k, err := engine.ParseKey(op.Key)
	if err != nil {
		return opResult{}, err
	}
	e.HandleKey(k)
	return opResult{}, nil
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
