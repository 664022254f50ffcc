package kb

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/planetary-interior/core"
	"github.com/signalsfoundry/planetary-interior/model"
)

var (
	ErrPlanetExists   = errors.New("planet already exists")
	ErrPlanetNotFound = errors.New("planet not found")
)

// EventType indicates what kind of change happened in the KB.
type EventType int

const (
	EventPlanetAdded EventType = iota
	EventPlanetRemoved
)

func (t EventType) String() string {
	switch t {
	case EventPlanetAdded:
		return "added"
	case EventPlanetRemoved:
		return "removed"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is emitted to subscribers when the set of planets changes.
type Event struct {
	Type     EventType
	PlanetID string
}

// Entry pairs a built planet with the definition it came from.
type Entry struct {
	ID         string
	Definition model.PlanetDefinition
	Planet     *core.Planet
}

// KnowledgeBase is an in-memory, thread-safe registry of planets.
type KnowledgeBase struct {
	mu sync.RWMutex

	planets map[string]*Entry

	subs   map[int]func(Event)
	nextID int
}

// NewKnowledgeBase constructs an empty KB.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		planets: make(map[string]*Entry),
		subs:    make(map[int]func(Event)),
	}
}

// AddPlanet registers a planet under id. It returns ErrPlanetExists if the
// ID is taken.
func (kb *KnowledgeBase) AddPlanet(id string, def model.PlanetDefinition, p *core.Planet) error {
	if id == "" {
		return fmt.Errorf("planet ID is required")
	}
	if p == nil {
		return fmt.Errorf("planet %q: nil planet", id)
	}
	kb.mu.Lock()
	if _, exists := kb.planets[id]; exists {
		kb.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrPlanetExists, id)
	}
	kb.planets[id] = &Entry{ID: id, Definition: def, Planet: p}
	subs := kb.snapshotSubs()
	kb.mu.Unlock()

	notify(subs, Event{Type: EventPlanetAdded, PlanetID: id})
	return nil
}

// RemovePlanet deletes a planet and notifies subscribers.
func (kb *KnowledgeBase) RemovePlanet(id string) error {
	kb.mu.Lock()
	if _, ok := kb.planets[id]; !ok {
		kb.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrPlanetNotFound, id)
	}
	delete(kb.planets, id)
	subs := kb.snapshotSubs()
	kb.mu.Unlock()

	notify(subs, Event{Type: EventPlanetRemoved, PlanetID: id})
	return nil
}

// GetPlanet returns the entry with the given ID, or nil if not found.
func (kb *KnowledgeBase) GetPlanet(id string) *Entry {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.planets[id]
}

// ListPlanets returns a snapshot of all entries ordered by ID.
func (kb *KnowledgeBase) ListPlanets() []*Entry {
	kb.mu.RLock()
	res := make([]*Entry, 0, len(kb.planets))
	for _, e := range kb.planets {
		res = append(res, e)
	}
	kb.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Len returns the number of registered planets.
func (kb *KnowledgeBase) Len() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.planets)
}

// Subscribe registers a callback for KB events. It returns an unsubscribe function.
func (kb *KnowledgeBase) Subscribe(fn func(Event)) (unsubscribe func()) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	id := kb.nextID
	kb.nextID++
	kb.subs[id] = fn

	return func() {
		kb.mu.Lock()
		defer kb.mu.Unlock()
		delete(kb.subs, id)
	}
}

// caller must hold kb.mu
func (kb *KnowledgeBase) snapshotSubs() []func(Event) {
	ids := make([]int, 0, len(kb.subs))
	for id := range kb.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, kb.subs[id])
	}
	return subs
}

// Subscribers run outside the lock so they may call back into the KB.
func notify(subs []func(Event), e Event) {
	for _, sub := range subs {
		sub(e)
	}
}
