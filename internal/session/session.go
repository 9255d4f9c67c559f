// Package session manages per-user conversation state for the order dialogue.
package session

import (
	"time"

	"github.com/santan-uz/santan-bot/internal/cart"
)

// Step identifies a stage of the order-collection dialogue.
type Step string

const (
	// StepIdle indicates no active order dialogue.
	StepIdle Step = "idle"
	// StepCollectingItems waits for a free-text item description.
	StepCollectingItems Step = "collecting_items"
	// StepCollectingAddress waits for a typed address or a shared location.
	StepCollectingAddress Step = "collecting_address"
	// StepCollectingPhone waits for a valid phone number or a shared contact.
	StepCollectingPhone Step = "collecting_phone"
	// StepCollectingNote waits for an optional free-text note.
	StepCollectingNote Step = "collecting_note"
	// StepConfirming waits for the final yes/no confirmation.
	StepConfirming Step = "confirming"
)

// Session is the transient per-user order state. It is created on the first
// order trigger or cart mutation and removed on successful confirmation.
type Session struct {
	UserID    int64       `json:"user_id"`
	Step      Step        `json:"step"`
	Items     string      `json:"items"`
	Address   string      `json:"address"`
	Phone     string      `json:"phone"`
	Note      string      `json:"note"`
	Location  string      `json:"location,omitempty"`
	Cart      []cart.Line `json:"cart,omitempty"`
	CartTotal int64       `json:"cart_total,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// New returns an idle session for the given user.
func New(userID int64) *Session {
	return &Session{
		UserID: userID,
		Step:   StepIdle,
	}
}

// InDialogue reports whether the user is past the idle stage.
func (s *Session) InDialogue() bool {
	return s != nil && s.Step != StepIdle
}
