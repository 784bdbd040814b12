// internal/wizard/manager.go
package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

// Manager holds one wizard per (user, source). Only one source is active for
// a user at a time: starting one resets the others to Idle.
type Manager struct {
	mu       sync.Mutex
	sources  map[string]sources.Source
	pageSize int
	sessions map[uuid.UUID]map[string]*Wizard
}

func NewManager(pageSize int, srcs ...sources.Source) *Manager {
	m := &Manager{
		sources:  make(map[string]sources.Source, len(srcs)),
		pageSize: pageSize,
		sessions: make(map[uuid.UUID]map[string]*Wizard),
	}
	for _, s := range srcs {
		m.sources[s.Name()] = s
	}
	return m
}

// SourceNames lists the registered import sources.
func (m *Manager) SourceNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	return names
}

// Wizard returns the user's wizard for the named source, creating it lazily.
func (m *Manager) Wizard(userID uuid.UUID, sourceName string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, ok := m.sources[sourceName]
	if !ok {
		return nil, fmt.Errorf("unknown import source %q", sourceName)
	}

	userWizards := m.sessions[userID]
	if userWizards == nil {
		userWizards = make(map[string]*Wizard)
		m.sessions[userID] = userWizards
	}
	w := userWizards[sourceName]
	if w == nil {
		w = New(src, m.pageSize)
		userWizards[sourceName] = w
	}
	return w, nil
}

// Start begins an import for one source and cancels the user's wizards for
// every other source first.
func (m *Manager) Start(ctx context.Context, userID uuid.UUID, sourceName string, creds sources.Credentials) (*Wizard, error) {
	w, err := m.Wizard(userID, sourceName)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	for name, other := range m.sessions[userID] {
		if name != sourceName {
			other.Cancel()
		}
	}
	m.mu.Unlock()

	if err := w.Start(ctx, creds); err != nil {
		return w, err
	}
	return w, nil
}

// Release drops all wizard state for a user (logout, account deletion).
func (m *Manager) Release(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
