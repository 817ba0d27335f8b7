package config

import "time"

// Default values for configuration
const (
	DefaultStage = StageProd

	DefaultDBPath = "data/logbook.db"

	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 50
	DefaultLogMaxBackups = 3

	DefaultPageSize       = 20
	DefaultMaxTitleLength = 100
	DefaultTimezone       = "Local"

	DefaultConversationMaxIdle = 24 * time.Hour

	DefaultSQLMaintenanceSchedule    = "0 0 4 * * *"
	DefaultConversationPruneSchedule = "0 */15 * * * *"
)

// DefaultMessages are used when the config file does not override them.
var DefaultMessages = MessagesConfig{
	Help: "<b>logbook</b> keeps track of the books, movies, series and games you want to get to and the ones you finished.\n\n" +
		"/start opens the menu\n/stats shows your numbers\n/cancel drops a pending input",
	IdleHint:      "Use the buttons below.\nChoose a category:",
	GeneralError:  "Something went wrong. Try again later.",
	CallbackError: "Something went wrong",
	UnknownAction: "This button is no longer valid",
	Started:       "<b>logbook started</b>\n\n/start",
	Shutdown:      "<b>logbook shutdown</b>",
}

func defaults() map[string]any {
	return map[string]any{
		"stage": DefaultStage,

		"telegram.admin_user_id":        0,
		"telegram.drop_pending_updates": false,

		"database.path": DefaultDBPath,

		"logger.level":       DefaultLogLevel,
		"logger.json":        false,
		"logger.file":        "",
		"logger.max_size_mb": DefaultLogMaxSizeMB,
		"logger.max_backups": DefaultLogMaxBackups,

		"items.page_size":        DefaultPageSize,
		"items.max_title_length": DefaultMaxTitleLength,
		"items.timezone":         DefaultTimezone,

		"conversation.max_idle": DefaultConversationMaxIdle,

		"scheduler.tasks.sql_maintenance.enabled":     true,
		"scheduler.tasks.sql_maintenance.schedule":    DefaultSQLMaintenanceSchedule,
		"scheduler.tasks.conversation_prune.enabled":  true,
		"scheduler.tasks.conversation_prune.schedule": DefaultConversationPruneSchedule,

		"sentry.dsn":                "",
		"sentry.traces_sample_rate": 1.0,

		"health.addr": "",

		"messages.help":           DefaultMessages.Help,
		"messages.idle_hint":      DefaultMessages.IdleHint,
		"messages.general_error":  DefaultMessages.GeneralError,
		"messages.callback_error": DefaultMessages.CallbackError,
		"messages.unknown_action": DefaultMessages.UnknownAction,
		"messages.started":        DefaultMessages.Started,
		"messages.shutdown":       DefaultMessages.Shutdown,
	}
}
