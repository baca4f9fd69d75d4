package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-cogform/internal/logger"
	"github.com/goliatone/go-cogform/pkg/predict"
)

// EnvPrefix namespaces environment overrides, e.g. COGFORM_API_TOKEN.
const EnvPrefix = "COGFORM"

type Config struct {
	API           APIConfig
	PublicBaseURL string
	Poll          PollConfig
	Outputs       OutputsConfig
	Server        ServerConfig
	Log           LogConfig
	Schema        SchemaConfig

	// explicit records api keys set by a file, env or flag rather than a
	// default, so manifest values only fill what the user left open.
	explicit map[string]bool
}

type APIConfig struct {
	URL     string
	Token   string
	Version string
	Timeout time.Duration
}

type PollConfig struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Timeout     time.Duration
	Backoff     string
}

type OutputsConfig struct {
	MaxDepth int
	MediaDir string
}

type ServerConfig struct {
	Addr      string
	UploadDir string
}

type LogConfig struct {
	Level string
	JSON  bool
}

type SchemaConfig struct {
	// Source is a file path or URL of the OpenAPI document. Empty means the
	// container's /openapi.json next to the API URL.
	Source   string
	Manifest string
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// File is an explicit config file. Empty searches for cogform.yaml in the
	// working directory and ./config.
	File string
	// Files backs config file reads; nil means the OS filesystem.
	Files afero.Fs
	// Flags are bound on top of env and file values when set.
	Flags *pflag.FlagSet
}

func setDefaults(v *viper.Viper) {
	tmp := os.TempDir()
	v.SetDefault("api.url", "http://localhost:5000/predictions")
	v.SetDefault("api.token", "")
	v.SetDefault("api.version", "")
	v.SetDefault("api.timeout", 0)
	v.SetDefault("public_base_url", "")
	v.SetDefault("poll.interval", time.Second)
	v.SetDefault("poll.max_interval", 0)
	v.SetDefault("poll.timeout", 0)
	v.SetDefault("poll.backoff", string(predict.BackoffConstant))
	v.SetDefault("outputs.max_depth", 64)
	v.SetDefault("outputs.media_dir", filepath.Join(tmp, "cogform", "media"))
	v.SetDefault("server.addr", ":7860")
	v.SetDefault("server.upload_dir", filepath.Join(tmp, "cogform", "uploads"))
	v.SetDefault("log.level", string(logger.InfoLevel))
	v.SetDefault("log.json", false)
	v.SetDefault("schema.source", "")
	v.SetDefault("schema.manifest", "")
}

// Load resolves configuration from defaults, an optional YAML file, COGFORM_*
// environment variables and flags, in increasing precedence.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	if opts.Files != nil {
		v.SetFs(opts.Files)
	}
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("cogform")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		API: APIConfig{
			URL:     v.GetString("api.url"),
			Token:   v.GetString("api.token"),
			Version: v.GetString("api.version"),
			Timeout: v.GetDuration("api.timeout"),
		},
		PublicBaseURL: v.GetString("public_base_url"),
		Poll: PollConfig{
			Interval:    v.GetDuration("poll.interval"),
			MaxInterval: v.GetDuration("poll.max_interval"),
			Timeout:     v.GetDuration("poll.timeout"),
			Backoff:     strings.ToLower(v.GetString("poll.backoff")),
		},
		Outputs: OutputsConfig{
			MaxDepth: v.GetInt("outputs.max_depth"),
			MediaDir: v.GetString("outputs.media_dir"),
		},
		Server: ServerConfig{
			Addr:      v.GetString("server.addr"),
			UploadDir: v.GetString("server.upload_dir"),
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("log.level")),
			JSON:  v.GetBool("log.json"),
		},
		Schema: SchemaConfig{
			Source:   v.GetString("schema.source"),
			Manifest: v.GetString("schema.manifest"),
		},
		explicit: map[string]bool{
			"api.url":     isExplicit(v, opts.Flags, "api.url"),
			"api.version": isExplicit(v, opts.Flags, "api.version"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"api-url":         "api.url",
	"token":           "api.token",
	"version":         "api.version",
	"public-base-url": "public_base_url",
	"poll-interval":   "poll.interval",
	"poll-timeout":    "poll.timeout",
	"backoff":         "poll.backoff",
	"addr":            "server.addr",
	"upload-dir":      "server.upload_dir",
	"media-dir":       "outputs.media_dir",
	"log-level":       "log.level",
	"log-json":        "log.json",
	"schema":          "schema.source",
	"manifest":        "schema.manifest",
}

// isExplicit reports whether key came from the config file, the environment
// or a flag the user changed.
func isExplicit(v *viper.Viper, flags *pflag.FlagSet, key string) bool {
	if v.InConfig(key) {
		return true
	}
	if _, ok := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); ok {
		return true
	}
	if flags == nil {
		return false
	}
	for name, mapped := range flagKeys {
		if mapped != key {
			continue
		}
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			return true
		}
	}
	return false
}

// ApplyManifestAPI fills the prediction endpoint and model version from a
// manifest's api block. Values set in the config file, environment or flags
// win; empty manifest values change nothing.
func (c *Config) ApplyManifestAPI(apiURL, version string) error {
	if apiURL != "" && !c.explicit["api.url"] {
		if _, err := url.ParseRequestURI(apiURL); err != nil {
			return fmt.Errorf("config: manifest api.url: %w", err)
		}
		c.API.URL = apiURL
	}
	if version != "" && !c.explicit["api.version"] {
		c.API.Version = version
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks values that would otherwise fail later at request time.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.API.URL); err != nil {
		return fmt.Errorf("config: api.url: %w", err)
	}
	switch predict.Backoff(c.Poll.Backoff) {
	case predict.BackoffConstant, predict.BackoffExponential:
	default:
		return fmt.Errorf("config: poll.backoff: unknown strategy %q", c.Poll.Backoff)
	}
	if c.Poll.Interval < 0 || c.Poll.Timeout < 0 || c.Poll.MaxInterval < 0 {
		return errors.New("config: poll durations must not be negative")
	}
	if c.Outputs.MaxDepth <= 0 {
		return errors.New("config: outputs.max_depth must be positive")
	}
	return nil
}

// Predict converts the loaded values into the predictor's explicit config.
func (c *Config) Predict() predict.Config {
	return predict.Config{
		APIURL:         c.API.URL,
		Token:          c.API.Token,
		Version:        c.API.Version,
		PublicBaseURL:  c.PublicBaseURL,
		RequestTimeout: c.API.Timeout,
		Poll: predict.PollPolicy{
			Interval:    c.Poll.Interval,
			MaxInterval: c.Poll.MaxInterval,
			Timeout:     c.Poll.Timeout,
			Backoff:     predict.Backoff(c.Poll.Backoff),
		},
	}
}

// Logger converts the log section into a logger config writing to stderr.
func (c *Config) Logger() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.Level(c.Log.Level)
	cfg.JSON = c.Log.JSON
	return cfg
}

// SchemaSource returns the configured OpenAPI location, defaulting to the
// container's description next to the API URL.
func (c *Config) SchemaSource() string {
	if c.Schema.Source != "" {
		return c.Schema.Source
	}
	parsed, err := url.Parse(c.API.URL)
	if err != nil {
		return ""
	}
	parsed.Path = "/openapi.json"
	parsed.RawQuery = ""
	return parsed.String()
}
