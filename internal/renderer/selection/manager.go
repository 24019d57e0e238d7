package selection

import (
	"sync"

	"github.com/dshills/selshape/internal/renderer/core"
)

// Manager holds the selection snapshot the overlay draws. The first
// selection is the primary one; a position in the snapshot is the selection
// index used for frame stabilization, so order is kept as given.
type Manager struct {
	mu sync.RWMutex

	// Primary first, then secondaries. Never empty.
	selections []core.Selection

	onChange func([]core.Selection)
}

// NewManager creates a manager holding one empty primary selection.
func NewManager() *Manager {
	return &Manager{selections: []core.Selection{{}}}
}

// OnChange registers a callback that receives the full selection snapshot
// after every change. It is called without the manager's lock held.
func (m *Manager) OnChange(fn func([]core.Selection)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Set replaces all selections. The first becomes primary; with none given
// the primary is an empty selection at the origin.
func (m *Manager) Set(selections []core.Selection) {
	m.mu.Lock()
	m.selections = make([]core.Selection, 0, max(len(selections), 1))
	for _, sel := range selections {
		m.selections = append(m.selections, sel.Normalize())
	}
	if len(m.selections) == 0 {
		m.selections = append(m.selections, core.Selection{})
	}
	fn := m.onChange
	snap := m.snapshot()
	m.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

// All returns all selections, primary first.
func (m *Manager) All() []core.Selection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot()
}

func (m *Manager) snapshot() []core.Selection {
	result := make([]core.Selection, len(m.selections))
	copy(result, m.selections)
	return result
}
