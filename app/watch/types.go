package watch

// Kind selects the normalizer used for a watch target.
type Kind string

const (
	KindJSONFeed Kind = "jsonfeed"
	KindRSS      Kind = "rss"
	KindManifest Kind = "manifest"
)

// Config represents a single watch target loaded from a YAML file.
type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Kind     Kind           `yaml:"kind"`
	URL      string         `yaml:"url"`
	Username string         `yaml:"username"` // Display handle for notifications (feeds only)
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled         bool              `yaml:"enabled"`
	Timeout         int               `yaml:"timeout"` // seconds
	MaxRetries      int               `yaml:"max_retries"`
	DeleteThreshold int               `yaml:"delete_threshold"` // consecutive missing polls before an item counts as deleted
	Headers         map[string]string `yaml:"headers"`          // extra request headers (manifest API keys etc.)
}
