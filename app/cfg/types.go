package cfg

type Cfg struct {
	// Directories and files
	WatchDir string
	DataDir  string
	DBPath   string

	// Telegram delivery
	TGToken  string
	TGChatID string

	// Fetch behavior
	UserAgent    string
	FetchTimeout int     // seconds
	RatePerSec   float64 // outbound request rate shared across targets

	// Run behavior
	DryRun bool
	Debug  bool

	// Application metadata
	Version string
}
