package collab

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
)

type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // clientID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

func (pm *PresenceManager) Update(clientID string, p *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[clientID] = p
}

func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, clientID)
}

// Selection returns a copy of the client's selected shape indices.
func (pm *PresenceManager) Selection(clientID string) []int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.presences[clientID]
	if !ok {
		return nil
	}
	return slices.Clone(p.Selection)
}

// ShapeRemoved drops index from every selection and shifts the indices
// above it down by one.
func (pm *PresenceManager) ShapeRemoved(index int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for id, p := range pm.presences {
		kept := make([]int, 0, len(p.Selection))
		for _, i := range p.Selection {
			switch {
			case i < index:
				kept = append(kept, i)
			case i > index:
				kept = append(kept, i-1)
			}
		}
		updated := *p
		updated.Selection = kept
		pm.presences[id] = &updated
	}
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		result[k] = v
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	all := pm.GetAll()
	payload, err := json.Marshal(PresenceStatePayload{Presences: all})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
