package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/handlers"
	"github.com/santan-uz/santan-bot/internal/session"
)

// Dispatcher routes free-text messages to the handler of the user's
// current dialogue step.
type Dispatcher struct {
	machine      *session.Machine
	stepHandlers map[session.Step]handlers.Handler
	log          *slog.Logger
	mu           sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(machine *session.Machine, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		machine:      machine,
		stepHandlers: make(map[session.Step]handlers.Handler),
		log:          log,
	}
}

// RegisterStepHandler registers a handler for the provided dialogue step.
func (d *Dispatcher) RegisterStepHandler(step session.Step, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stepHandlers[step] = h
}

// Lookup resolves the handler for the sender's current step. It returns nil
// when the user is idle or no handler is registered, in which case the text
// is unrelated to any dialogue and is ignored.
func (d *Dispatcher) Lookup(c telebot.Context) (handlers.Handler, error) {
	if c == nil || c.Sender() == nil {
		d.log.Warn("cannot dispatch without sender information")
		return nil, nil
	}

	sess, err := d.machine.Get(context.Background(), c.Sender().ID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !sess.InDialogue() {
		return nil, nil
	}

	return d.getHandler(sess.Step), nil
}

func (d *Dispatcher) getHandler(step session.Step) handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stepHandlers[step]
}
