// Package display implements the two-state machine that swaps a control
// between its formatted display value and its raw edit value.
package display

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formrender/pkg/ui"
)

// State of a control.
type State int

const (
	Display State = iota
	Editing
)

func (s State) String() string {
	switch s {
	case Display:
		return "display"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Attribute names written onto the control.
const (
	AttrEditValue    = "edit-value"
	AttrDisplayValue = "display-value"

	bindingKey = "display.machine"
	plainType  = "text"
)

// ErrInvalidTransition is returned when a transition is requested from a
// state that does not allow it.
var ErrInvalidTransition = errors.New("display: invalid transition")

// Machine drives a single control.
type Machine struct {
	mu           sync.Mutex
	control      *ui.Node
	semanticType string
	state        State
}

// Attach binds a machine to control and puts it in the Display state: the
// control gets edit-value and display-value attributes, a plain text type
// and the display value as its content.
func Attach(control *ui.Node, semanticType, editValue, displayValue string) *Machine {
	m := &Machine{control: control, semanticType: semanticType, state: Display}
	control.SetAttr(AttrEditValue, editValue)
	control.SetAttr(AttrDisplayValue, displayValue)
	control.SetAttr("type", plainType)
	control.SetAttr("value", displayValue)
	control.Bind(bindingKey, m)
	return m
}

// For returns the machine bound to control, if any.
func For(control *ui.Node) (*Machine, bool) {
	value, ok := control.Binding(bindingKey)
	if !ok {
		return nil, false
	}
	m, ok := value.(*Machine)
	return m, ok
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SemanticType is the type the control takes while editing.
func (m *Machine) SemanticType() string {
	return m.semanticType
}

// EnterEdit handles focus: Display to Editing, semantic type and edit value.
func (m *Machine) EnterEdit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Display {
		return fmt.Errorf("%w: enter edit from %s", ErrInvalidTransition, m.state)
	}
	m.control.SetAttr("type", m.semanticType)
	m.control.SetAttr("value", m.control.AttrValue(AttrEditValue))
	m.state = Editing
	return nil
}

// ExitEdit handles blur: Editing to Display, plain type and display value.
func (m *Machine) ExitEdit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Editing {
		return fmt.Errorf("%w: exit edit from %s", ErrInvalidTransition, m.state)
	}
	m.control.SetAttr("type", plainType)
	m.control.SetAttr("value", m.control.AttrValue(AttrDisplayValue))
	m.state = Display
	return nil
}

// PrepareEdit switches the control type ahead of focus so virtual keyboards
// see the semantic type. Content and state are left unchanged.
func (m *Machine) PrepareEdit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Display {
		return fmt.Errorf("%w: prepare edit from %s", ErrInvalidTransition, m.state)
	}
	m.control.SetAttr("type", m.semanticType)
	return nil
}

// UpdateValues refreshes the stored edit and display values, e.g. after a
// rule recomputes the display projection. The visible content follows the
// current state.
func (m *Machine) UpdateValues(editValue, displayValue string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.control.SetAttr(AttrEditValue, editValue)
	m.control.SetAttr(AttrDisplayValue, displayValue)
	if m.state == Editing {
		m.control.SetAttr("value", editValue)
		return
	}
	m.control.SetAttr("value", displayValue)
}
