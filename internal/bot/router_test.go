package bot

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/handlers"
	"github.com/santan-uz/santan-bot/internal/session"
)

// fakeContext implements just the telebot.Context surface the router
// touches; everything else panics via the embedded nil interface.
type fakeContext struct {
	telebot.Context
	text   string
	cb     *telebot.Callback
	sender *telebot.User
}

func (f *fakeContext) Text() string { return f.text }

func (f *fakeContext) Callback() *telebot.Callback { return f.cb }

func (f *fakeContext) Sender() *telebot.User { return f.sender }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func recorder(hits *[]string, name string) handlers.Handler {
	return func(telebot.Context) error {
		*hits = append(*hits, name)
		return nil
	}
}

func testRouter(t *testing.T) (*Router, *session.Machine, *[]string) {
	t.Helper()

	machine := session.NewMachine(session.NewMemoryStorage(), testLogger(), nil)
	dispatcher := NewDispatcher(machine, testLogger())
	router := NewRouter(dispatcher, testLogger())

	hits := &[]string{}
	router.RegisterCommand(CommandStart, recorder(hits, "start"))
	router.RegisterCommand(CommandFind, recorder(hits, "find"))
	router.RegisterTrigger(recorder(hits, "catalog"), "🛒 Katalog", "katalog")
	dispatcher.RegisterStepHandler(session.StepCollectingItems, recorder(hits, "items-step"))

	return router, machine, hits
}

func userCtx(text string) *fakeContext {
	return &fakeContext{text: text, sender: &telebot.User{ID: 7}}
}

func TestRouteCommandStripsArgsAndBotName(t *testing.T) {
	router, _, hits := testRouter(t)

	require.NoError(t, router.Route(userCtx("/start")))
	require.NoError(t, router.Route(userCtx("/find@santanbot sovun")))

	assert.Equal(t, []string{"start", "find"}, *hits)
}

func TestRouteTriggerIsCaseInsensitive(t *testing.T) {
	router, _, hits := testRouter(t)

	require.NoError(t, router.Route(userCtx("KATALOG")))

	assert.Equal(t, []string{"catalog"}, *hits)
}

func TestRouteTriggerWinsMidDialogue(t *testing.T) {
	router, machine, hits := testRouter(t)

	_, err := machine.Update(context.Background(), 7, func(s *session.Session) error {
		s.Step = session.StepCollectingItems
		return nil
	})
	require.NoError(t, err)

	// A reserved menu phrase interrupts the dialogue...
	require.NoError(t, router.Route(userCtx("🛒 Katalog")))
	// ...while ordinary text still reaches the step handler.
	require.NoError(t, router.Route(userCtx("Sovun x2")))

	assert.Equal(t, []string{"catalog", "items-step"}, *hits)
}

func TestRouteIgnoresTextWithoutSession(t *testing.T) {
	router, _, hits := testRouter(t)

	require.NoError(t, router.Route(userCtx("salom")))

	assert.Empty(t, *hits)
}

func TestRouteCallbackPrefixOrder(t *testing.T) {
	router, _, hits := testRouter(t)

	cbRecorder := func(name string) handlers.CallbackHandler {
		return func(telebot.Context) error {
			*hits = append(*hits, name)
			return nil
		}
	}

	// Exact uniques first, shared prefixes after, mirroring setupRouter.
	router.RegisterCallback("CART|VIEW", cbRecorder("cart-view"))
	router.RegisterCallback("CAT|", cbRecorder("category"))

	view := &fakeContext{cb: &telebot.Callback{Data: "CART|VIEW"}, sender: &telebot.User{ID: 7}}
	page := &fakeContext{cb: &telebot.Callback{Data: "\fCAT|ab12cd34ef|1"}, sender: &telebot.User{ID: 7}}
	unknown := &fakeContext{cb: &telebot.Callback{Data: "NOPE|1"}, sender: &telebot.User{ID: 7}}

	require.NoError(t, router.Route(view))
	require.NoError(t, router.Route(page))
	require.NoError(t, router.Route(unknown))

	assert.Equal(t, []string{"cart-view", "category"}, *hits)
}

func TestMiddlewaresWrapInOrder(t *testing.T) {
	router, _, hits := testRouter(t)

	mw := func(name string) handlers.Middleware {
		return func(next handlers.Handler) handlers.Handler {
			return func(c telebot.Context) error {
				*hits = append(*hits, name)
				return next(c)
			}
		}
	}

	router.Use(mw("outer"))
	router.Use(mw("inner"))

	require.NoError(t, router.Route(userCtx("/start")))

	assert.Equal(t, []string{"outer", "inner", "start"}, *hits)
}
