package bot

import (
	"log/slog"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/handlers"
)

// Router dispatches commands, menu phrases, callbacks, and step-aware text.
type Router struct {
	mu          sync.RWMutex
	commands    map[string]handlers.Handler
	triggers    map[string]handlers.Handler
	callbacks   []callbackRoute
	dispatcher  *Dispatcher
	middlewares []handlers.Middleware
	log         *slog.Logger
}

type callbackRoute struct {
	prefix  string
	handler handlers.CallbackHandler
}

// NewRouter builds a Router with empty registries.
func NewRouter(dispatcher *Dispatcher, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:   make(map[string]handlers.Handler),
		triggers:   make(map[string]handlers.Handler),
		dispatcher: dispatcher,
		log:        log,
	}
}

// RegisterCommand registers a handler for a bot command such as "/start".
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = h
}

// RegisterTrigger registers a handler for a reserved menu phrase. Phrases
// are matched case-insensitively and take priority over dialogue input.
func (r *Router) RegisterTrigger(h handlers.Handler, phrases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, phrase := range phrases {
		r.triggers[strings.ToLower(phrase)] = h
	}
}

// RegisterCallback registers a handler for callback data with the given
// prefix. Registration order decides priority, so exact uniques must be
// registered before shorter prefixes they share.
func (r *Router) RegisterCallback(prefix string, h handlers.CallbackHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, callbackRoute{prefix: prefix, handler: h})
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// Route directs the incoming update to the appropriate handler.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	if callback := c.Callback(); callback != nil {
		// telebot prefixes unique-style callbacks with \f.
		data := strings.TrimPrefix(callback.Data, "\f")
		return r.handleCallback(c, strings.TrimSpace(data))
	}

	return r.handleMessage(c)
}

// Handle runs a handler through the middleware chain. Used for updates that
// bypass routing, such as shared contacts and locations.
func (r *Router) Handle(h handlers.Handler, c telebot.Context) error {
	wrapped := r.applyMiddlewares(h)
	if wrapped == nil {
		return nil
	}
	return wrapped(c)
}

func (r *Router) handleCallback(c telebot.Context, data string) error {
	handler := r.findCallbackHandler(data)
	if handler == nil {
		r.log.Info("no callback handler found", slog.String("data", data))
		return nil
	}

	return r.Handle(handlers.Handler(handler), c)
}

func (r *Router) handleMessage(c telebot.Context) error {
	text := strings.TrimSpace(c.Text())

	if strings.HasPrefix(text, "/") {
		if handler := r.getCommandHandler(commandName(text)); handler != nil {
			return r.Handle(handler, c)
		}
	}

	if handler := r.getTriggerHandler(text); handler != nil {
		return r.Handle(handler, c)
	}

	if r.dispatcher != nil {
		handler, err := r.dispatcher.Lookup(c)
		if err != nil {
			return err
		}
		if handler != nil {
			return r.Handle(handler, c)
		}
	}

	// Unrelated text outside a dialogue is ignored.
	return nil
}

// commandName extracts "/find" from "/find soap" and strips a "@botname"
// suffix used in group chats.
func commandName(text string) string {
	cmd := text
	if idx := strings.IndexAny(cmd, " \t"); idx != -1 {
		cmd = cmd[:idx]
	}
	if idx := strings.Index(cmd, "@"); idx != -1 {
		cmd = cmd[:idx]
	}
	return cmd
}

func (r *Router) findCallbackHandler(data string) handlers.CallbackHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, route := range r.callbacks {
		if strings.HasPrefix(data, route.prefix) {
			return route.handler
		}
	}

	return nil
}

func (r *Router) getCommandHandler(cmd string) handlers.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[cmd]
}

func (r *Router) getTriggerHandler(text string) handlers.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.triggers[strings.ToLower(text)]
}

func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	r.mu.RLock()
	middlewares := make([]handlers.Middleware, len(r.middlewares))
	copy(middlewares, r.middlewares)
	r.mu.RUnlock()

	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}
