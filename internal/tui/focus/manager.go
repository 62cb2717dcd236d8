// Package focus tracks whether keystrokes belong to navigation or to an
// open text input. The root model mirrors the active view's composer state
// into the manager, and the key router consults it before acting on any
// global binding.
package focus

// Mode is the current owner of keyboard input
type Mode int

const (
	// ModeNavigation routes keys to view switching and list movement
	ModeNavigation Mode = iota
	// ModeInput routes every key to the focused text field
	ModeInput
)

// Manager holds the current focus mode
type Manager struct {
	mode Mode
}

// NewManager starts in navigation mode
func NewManager() *Manager {
	return &Manager{mode: ModeNavigation}
}

// SetMode changes the focus mode
func (m *Manager) SetMode(mode Mode) {
	m.mode = mode
}

// GetMode returns the current focus mode
func (m *Manager) GetMode() Mode {
	return m.mode
}

// IsNavigationMode reports whether global bindings may fire
func (m *Manager) IsNavigationMode() bool {
	return m.mode == ModeNavigation
}

// IsInputMode reports whether a text field owns the keyboard
func (m *Manager) IsInputMode() bool {
	return m.mode == ModeInput
}
