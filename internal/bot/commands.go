package bot

// Telegram bot commands.
const (
	CommandStart    = "/start"
	CommandMenu     = "/menu"
	CommandCatalog  = "/catalog"
	CommandFind     = "/find"
	CommandFAQ      = "/faq"
	CommandLocation = "/location"
	CommandCancel   = "/cancel"
	CommandChatID   = "/chatid"
	CommandStatus   = "/status"

	// Owner-only: pushes a scheduled announcement immediately.
	CommandBroadcast = "/broadcast"
)
