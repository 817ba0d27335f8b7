// Package config provides configuration loading, validation, and defaults
// for the logbook bot. Values come from a YAML file and BOT_* environment
// variables, layered over the defaults in defaults.go.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Deployment stages.
const (
	StageDev  = "dev"
	StageProd = "prod"
)

// Config defines the application configuration for all components.
type Config struct {
	Stage        string             `mapstructure:"stage"        validate:"required,oneof=dev prod"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Logger       LoggerConfig       `mapstructure:"logger"`
	Items        ItemsConfig        `mapstructure:"items"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Sentry       SentryConfig       `mapstructure:"sentry"`
	Health       HealthConfig       `mapstructure:"health"`
	Messages     MessagesConfig     `mapstructure:"messages"`

	// Location is resolved from Items.Timezone after loading.
	Location *time.Location `mapstructure:"-" validate:"-"`
}

// IsProd reports whether the bot runs in the production stage.
func (c *Config) IsProd() bool {
	return c.Stage == StageProd
}

// TelegramConfig holds the bot credentials and the administrator identity.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
	// AdminUserID receives lifecycle and delivery failure notices. Zero disables them.
	AdminUserID        int64 `mapstructure:"admin_user_id"        validate:"gte=0"`
	DropPendingUpdates bool  `mapstructure:"drop_pending_updates"`

	// BotInfo is filled at startup from getMe.
	BotInfo *models.User `mapstructure:"-" validate:"-"`
}

// DatabaseConfig holds the SQLite storage settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LoggerConfig controls log level, format and the optional rotating file.
type LoggerConfig struct {
	Level      string `mapstructure:"level"       validate:"oneof=debug info warn error"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
}

// ItemsConfig controls listing and title limits.
type ItemsConfig struct {
	// PageSize is capped so a list keyboard stays well below Telegram's button limit.
	PageSize       int    `mapstructure:"page_size"        validate:"min=1,max=50"`
	MaxTitleLength int    `mapstructure:"max_title_length" validate:"min=1,max=255"`
	Timezone       string `mapstructure:"timezone"`
}

// ConversationConfig controls pending add/edit flows.
type ConversationConfig struct {
	MaxIdle time.Duration `mapstructure:"max_idle" validate:"gte=0"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a task and gives its cron schedule (seconds field included).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SentryConfig enables error reporting in the prod stage when DSN is set.
type SentryConfig struct {
	DSN              string  `mapstructure:"dsn"                validate:"omitempty,url"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate" validate:"min=0,max=1"`
}

// HealthConfig enables the HTTP health endpoint when Addr is set.
type HealthConfig struct {
	Addr string `mapstructure:"addr"`
}

// MessagesConfig holds the user-facing texts that are not part of a view.
type MessagesConfig struct {
	Help          string `mapstructure:"help"           validate:"required"`
	IdleHint      string `mapstructure:"idle_hint"      validate:"required"`
	GeneralError  string `mapstructure:"general_error"  validate:"required"`
	CallbackError string `mapstructure:"callback_error" validate:"required"`
	UnknownAction string `mapstructure:"unknown_action" validate:"required"`
	Started       string `mapstructure:"started"        validate:"required"`
	Shutdown      string `mapstructure:"shutdown"       validate:"required"`
}
