// Package history keeps the bounded undo and redo stacks of user edits.
// It stores actions only; applying an inversion is up to the caller.
package history

import (
	"errors"
	"sync"
)

// DefaultCapacity bounds each stack when New is given no usable capacity.
const DefaultCapacity = 50

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Manager is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	capacity int
	undo     []*Action
	redo     []*Action
}

// New returns a manager whose stacks hold at most capacity actions each.
func New(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{capacity: capacity}
}

// Capacity is the most actions either stack keeps.
func (m *Manager) Capacity() int {
	return m.capacity
}

// Record pushes a new action and invalidates everything that could be redone.
func (m *Manager) Record(action *Action) {
	if action == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.undo = m.push(m.undo, action)
	m.redo = nil
}

// CanUndo reports whether any action is waiting to be undone.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether any undone action can be re-applied.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// UndoLen returns the number of actions on the undo stack.
func (m *Manager) UndoLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo)
}

// RedoLen returns the number of actions on the redo stack.
func (m *Manager) RedoLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo)
}

// Undo moves the most recent action to the redo stack and returns it.
func (m *Manager) Undo() (*Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	action, ok := m.pop(&m.undo)
	if !ok {
		return nil, false
	}
	m.redo = m.push(m.redo, action)
	return action, true
}

// Redo moves the most recently undone action back to the undo stack.
func (m *Manager) Redo() (*Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	action, ok := m.pop(&m.redo)
	if !ok {
		return nil, false
	}
	m.undo = m.push(m.undo, action)
	return action, true
}

// ApplyUndo pops the top undo action and runs fn on it. The action moves to
// the redo stack only if fn succeeds; otherwise it goes back where it was.
func (m *Manager) ApplyUndo(fn func(*Action) error) (*Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	action, ok := m.pop(&m.undo)
	if !ok {
		return nil, ErrNothingToUndo
	}
	if err := fn(action); err != nil {
		m.undo = m.push(m.undo, action)
		return action, err
	}
	m.redo = m.push(m.redo, action)
	return action, nil
}

// ApplyRedo is the mirror of ApplyUndo.
func (m *Manager) ApplyRedo(fn func(*Action) error) (*Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	action, ok := m.pop(&m.redo)
	if !ok {
		return nil, ErrNothingToRedo
	}
	if err := fn(action); err != nil {
		m.redo = m.push(m.redo, action)
		return action, err
	}
	m.undo = m.push(m.undo, action)
	return action, nil
}

// Remap points every recorded action on entity oldID at newID. It is used
// after an inversion re-creates a deleted entity under a new id.
func (m *Manager) Remap(entity EntityType, oldID, newID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stack := range [][]*Action{m.undo, m.redo} {
		for _, action := range stack {
			if action.Entity == entity && action.EntityID == oldID {
				action.EntityID = newID
			}
		}
	}
}

// PeekUndo returns the next action Undo would take without removing it.
func (m *Manager) PeekUndo() (*Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return peek(m.undo)
}

// PeekRedo returns the next action Redo would take without removing it.
func (m *Manager) PeekRedo() (*Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return peek(m.redo)
}

// Clear empties both stacks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = nil
	m.redo = nil
}

// UndoDescription labels the undo control, e.g. "Undo create order #3".
func (m *Manager) UndoDescription() string {
	if action, ok := m.PeekUndo(); ok {
		return "Undo " + action.Describe()
	}
	return "Nothing to undo"
}

// RedoDescription is the mirror of UndoDescription.
func (m *Manager) RedoDescription() string {
	if action, ok := m.PeekRedo(); ok {
		return "Redo " + action.Describe()
	}
	return "Nothing to redo"
}

// push appends and evicts the oldest entries beyond capacity.
func (m *Manager) push(stack []*Action, action *Action) []*Action {
	stack = append(stack, action)
	if over := len(stack) - m.capacity; over > 0 {
		stack = append(stack[:0:0], stack[over:]...)
	}
	return stack
}

func (m *Manager) pop(stack *[]*Action) (*Action, bool) {
	s := *stack
	if len(s) == 0 {
		return nil, false
	}
	action := s[len(s)-1]
	s[len(s)-1] = nil
	*stack = s[:len(s)-1]
	return action, true
}

func peek(stack []*Action) (*Action, bool) {
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}
