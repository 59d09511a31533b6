package tui

import (
	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/notify"
)

// stateMsg carries a state published by the controller.
type stateMsg struct {
	state converter.State
}

// toastMsg carries a notification to display.
type toastMsg struct {
	toast notify.Toast
}

// toastExpiredMsg removes the toast with the given id.
type toastExpiredMsg struct {
	id int
}

// Field identifies the focused input.
type Field int

const (
	FieldAmount Field = iota
	FieldFrom
	FieldTo
)

const fieldCount = 3
