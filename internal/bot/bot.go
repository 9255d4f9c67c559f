// Package bot wires the Telegram transport to the order dialogue, catalog
// browsing, and staff commands.
package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/bot/handlers"
	"github.com/santan-uz/santan-bot/internal/bot/keyboard"
	"github.com/santan-uz/santan-bot/internal/cart"
	"github.com/santan-uz/santan-bot/internal/catalog"
	apperrors "github.com/santan-uz/santan-bot/internal/errors"
	"github.com/santan-uz/santan-bot/internal/idempotency"
	"github.com/santan-uz/santan-bot/internal/jobs"
	"github.com/santan-uz/santan-bot/internal/middleware"
	"github.com/santan-uz/santan-bot/internal/notify"
	"github.com/santan-uz/santan-bot/internal/order"
	"github.com/santan-uz/santan-bot/internal/session"
	"github.com/santan-uz/santan-bot/internal/texts"
	"github.com/santan-uz/santan-bot/pkg/config"
)

// Deps bundles the collaborators the bot's handlers need.
type Deps struct {
	Machine  *session.Machine
	Store    catalog.Store
	Tokens   *catalog.TokenCodec
	Cart     *cart.Manager
	Orders   *order.Service
	Notifier notify.Notifier
	Idem     idempotency.Manager
	Texts    *texts.Catalog

	// Queue is nil when Redis is disabled; the /broadcast command then
	// reports itself unavailable.
	Queue jobs.Manager
}

// Bot wraps telebot.Bot with the application's routing and dependencies.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	deps       Deps
	router     *Router
	dispatcher *Dispatcher
	keyboard   *keyboard.Builder
	errHandler *apperrors.Handler
}

// NewTelebot builds the underlying telebot instance for the configured
// mode. It is created separately so the notifier can share its sender.
func NewTelebot(cfg config.Config) (*telebot.Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen: cfg.Server.Port,
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return tb, nil
}

// New wires routing and handlers onto a telebot instance.
func New(cfg config.Config, log *slog.Logger, tb *telebot.Bot, deps Deps) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	kb := keyboard.NewBuilder(deps.Texts, log)
	dispatcher := NewDispatcher(deps.Machine, log)
	router := NewRouter(dispatcher, log)
	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		deps:       deps,
		router:     router,
		dispatcher: dispatcher,
		keyboard:   kb,
		errHandler: errHandler,
	}

	b.setupRouter()
	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such
// as health checks and the notifier.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter() {
	txt := b.deps.Texts

	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(middleware.Idempotency(b.deps.Idem, b.log))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(middleware.Metrics)

	startHandler := handlers.NewStartHandler(txt, b.keyboard)
	menuHandler := handlers.NewMenuHandler(txt, b.keyboard)
	catalogHandler := handlers.NewCatalogHandler(txt, b.keyboard, b.deps.Store, b.deps.Tokens)
	cartHandler := handlers.NewCartHandler(b.deps.Machine, b.deps.Cart, txt, b.keyboard)
	orderStart := handlers.NewOrderStartHandler(b.deps.Machine, txt, b.keyboard)
	faqHandler := handlers.NewFAQHandler(txt, b.keyboard)
	shopHandler := handlers.NewShopLocationHandler(txt, b.cfg.Shop)
	operatorHandler := handlers.NewOperatorHandler(txt, b.deps.Notifier, b.cfg.Staff.WorkersChatID, b.log)

	b.router.RegisterCommand(CommandStart, startHandler)
	b.router.RegisterCommand(CommandMenu, menuHandler)
	b.router.RegisterCommand(CommandCatalog, catalogHandler)
	b.router.RegisterCommand(CommandFind, handlers.NewFindHandler(txt, b.keyboard, b.deps.Store, b.cfg.Catalog.PageSize))
	b.router.RegisterCommand(CommandFAQ, faqHandler)
	b.router.RegisterCommand(CommandLocation, shopHandler)
	b.router.RegisterCommand(CommandCancel, handlers.NewCancelHandler(b.deps.Machine, txt, b.keyboard, b.log))
	b.router.RegisterCommand(CommandChatID, handlers.NewChatIDHandler(txt))
	b.router.RegisterCommand(CommandStatus, handlers.NewStatusHandler(txt, b.deps.Store, b.cfg))
	b.router.RegisterCommand(CommandBroadcast, handlers.NewBroadcastCommandHandler(txt, b.deps.Queue, b.cfg.Staff.OwnerUserID, b.log))

	// Reserved menu phrases win over dialogue input, matching the reply
	// keyboard labels plus their bare-word aliases.
	b.router.RegisterTrigger(catalogHandler, txt.T("menu.catalog"), "katalog")
	b.router.RegisterTrigger(cartHandler, txt.T("menu.cart"), "savatcha")
	b.router.RegisterTrigger(orderStart, txt.T("menu.order"), "buyurtma", "order")
	b.router.RegisterTrigger(faqHandler, txt.T("menu.faq"), "faq", "savol", "savollar")
	b.router.RegisterTrigger(shopHandler, txt.T("menu.location"), "manzilimiz", "location")
	b.router.RegisterTrigger(operatorHandler, txt.T("menu.operator"), "operator", "admin")
	b.router.RegisterTrigger(handlers.NewBackHandler(b.deps.Machine, txt, b.keyboard), txt.T("menu.back"))

	// Exact uniques before shared prefixes.
	b.router.RegisterCallback(keyboard.CallbackCartCheckout, handlers.NewCheckoutCallback(b.deps.Machine, b.deps.Cart, txt))
	b.router.RegisterCallback(keyboard.CallbackCartView, handlers.NewCartViewCallback(b.deps.Machine, b.deps.Cart, txt, b.keyboard))
	b.router.RegisterCallback(keyboard.CallbackCategory+keyboard.CallbackDataSeparator, handlers.NewCategoryPageCallback(txt, b.keyboard, b.deps.Store, b.deps.Tokens, b.cfg.Catalog.PageSize))
	b.router.RegisterCallback(keyboard.CallbackProduct+keyboard.CallbackDataSeparator, handlers.NewProductCallback(txt, b.keyboard, b.deps.Store, b.deps.Notifier, b.log))
	b.router.RegisterCallback(keyboard.CallbackAdd+keyboard.CallbackDataSeparator, handlers.NewAddToCartCallback(b.deps.Machine, txt))
	b.router.RegisterCallback(keyboard.CallbackConfirmYes, handlers.NewConfirmYesCallback(b.deps.Machine, b.deps.Orders, b.deps.Idem, txt, b.keyboard, b.log))
	b.router.RegisterCallback(keyboard.CallbackConfirmNo, handlers.NewConfirmNoCallback(b.deps.Machine, txt, b.keyboard))

	b.dispatcher.RegisterStepHandler(session.StepCollectingItems, handlers.NewItemsStepHandler(b.deps.Machine, txt, b.keyboard))
	b.dispatcher.RegisterStepHandler(session.StepCollectingAddress, handlers.NewAddressStepHandler(b.deps.Machine, txt, b.keyboard))
	b.dispatcher.RegisterStepHandler(session.StepCollectingPhone, handlers.NewPhoneStepHandler(b.deps.Machine, txt, b.keyboard))
	b.dispatcher.RegisterStepHandler(session.StepCollectingNote, handlers.NewNoteStepHandler(b.deps.Machine, txt, b.keyboard))
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	contactHandler := handlers.NewContactHandler(b.deps.Machine, b.deps.Texts, b.keyboard)
	locationHandler := handlers.NewLocationHandler(b.deps.Machine, b.deps.Texts, b.keyboard)

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
	b.telebot.Handle(telebot.OnContact, func(c telebot.Context) error {
		return b.router.Handle(contactHandler, c)
	})
	b.telebot.Handle(telebot.OnLocation, func(c telebot.Context) error {
		return b.router.Handle(locationHandler, c)
	})
}
