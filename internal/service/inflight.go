package service

import (
	"errors"
	"sync"
)

// ErrGenerationInFlight is returned when a player already has an
// assessment or plan generation running. One outstanding generation per
// player keeps retries from stacking provider calls.
var ErrGenerationInFlight = errors.New("a generation is already in progress for this player")

// GenerationGate tracks which players currently have a provider call
// running. One gate is shared between the profile and plan services.
type GenerationGate struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewGenerationGate() *GenerationGate {
	return &GenerationGate{busy: make(map[string]struct{})}
}

// tryAcquire reserves the key. It returns false if the key is already
// held.
func (g *GenerationGate) tryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.busy[key]; ok {
		return false
	}
	g.busy[key] = struct{}{}
	return true
}

func (g *GenerationGate) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, key)
}
