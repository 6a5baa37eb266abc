package cfg

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Directories and files
	WatchDir string `long:"watch-dir" env:"WATCH_DIR" default:"./watches" description:"Directory containing watch target configuration files"`
	DataDir  string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for persisted state and archives"`
	DBPath   string `long:"db-path" env:"DB_PATH" default:"./data/feedwatch.db" description:"SQLite database path for the notification audit log"`

	// Telegram delivery
	TGToken  string `long:"tg-token" env:"TG_TOKEN" description:"Telegram bot token (notifications disabled if empty)"`
	TGChatID string `long:"tg-chat-id" env:"TG_CHAT_ID" description:"Telegram chat ID receiving notifications"`

	// Fetch behavior
	UserAgent    string  `long:"user-agent" env:"USER_AGENT" default:"feedwatch/1.0" description:"User agent string for HTTP requests"`
	FetchTimeout int     `long:"timeout" env:"FETCH_TIMEOUT" default:"30" description:"HTTP fetch timeout in seconds"`
	RatePerSec   float64 `long:"rate" env:"FETCH_RATE" default:"1" description:"Maximum outbound requests per second"`

	// Run behavior
	DryRun bool `long:"dry-run" env:"DRY_RUN" description:"Archive and persist state but do not send notifications"`
	Debug  bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		WatchDir:     raw.WatchDir,
		DataDir:      raw.DataDir,
		DBPath:       raw.DBPath,
		TGToken:      raw.TGToken,
		TGChatID:     raw.TGChatID,
		UserAgent:    raw.UserAgent,
		FetchTimeout: raw.FetchTimeout,
		RatePerSec:   raw.RatePerSec,
		DryRun:       raw.DryRun,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	return cfg, nil
}
