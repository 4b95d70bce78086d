package userlist

import (
	"context"
	"errors"

	"github.com/looplab/fsm"

	domain "user-crud-console/internal/domain/user"
)

// Mode tells whether an open form creates a new record or edits an existing one.
type Mode string

const (
	ModeNone   Mode = ""
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// form states and events
const (
	stateHidden   = "hidden"
	stateCreating = "creating"
	stateEditing  = "editing"

	eventOpenCreate = "open_create"
	eventOpenEdit   = "open_edit"
	eventClose      = "close"
)

// Session is a read-only snapshot of the form.
type Session struct {
	Visible bool
	Mode    Mode
	Target  *domain.User  // record being edited; nil in create mode
	Fields  domain.Fields // working copy
}

// Title is the heading a presentation surface shows for the form.
func (s Session) Title() string {
	if s.Mode == ModeEdit {
		return "Edit User"
	}
	return "Add User"
}

// SaveLabel is the label of the form's save control.
func (s Session) SaveLabel() string {
	if s.Mode == ModeEdit {
		return "Save Changes"
	}
	return "Add User"
}

func newFormFSM() *fsm.FSM {
	all := []string{stateHidden, stateCreating, stateEditing}
	return fsm.NewFSM(
		stateHidden,
		fsm.Events{
			{Name: eventOpenCreate, Src: all, Dst: stateCreating},
			{Name: eventOpenEdit, Src: all, Dst: stateEditing},
			{Name: eventClose, Src: []string{stateCreating, stateEditing}, Dst: stateHidden},
		},
		fsm.Callbacks{},
	)
}

// fire moves the form machine. Re-opening a form in the state it is already in
// is a valid no-op.
func fire(f *fsm.FSM, event string) error {
	err := f.Event(context.Background(), event)
	var same fsm.NoTransitionError
	if err != nil && !errors.As(err, &same) {
		return err
	}
	return nil
}

func modeOf(state string) Mode {
	switch state {
	case stateCreating:
		return ModeCreate
	case stateEditing:
		return ModeEdit
	}
	return ModeNone
}
