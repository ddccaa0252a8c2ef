package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/araddon/dateparse"
	"github.com/samber/oops"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

const (
	DefaultBaseURL   = "https://www.intel.com"
	DefaultIndexPath = "/content/www/us/en/security-center/default.html"
	DefaultOutput    = "intel_vulns.csv"

	DefaultAdvisoryNumberColumn = 1
	DefaultReleaseDateColumn    = 3

	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3
	DefaultBackoff = time.Second
)

// DefaultReleaseDate is the advisory batch selected when nothing else is configured
var DefaultReleaseDate = time.Date(2019, time.November, 12, 0, 0, 0, 0, time.UTC)

// Config is passed explicitly to every component; nothing reads process-wide state.
type Config struct {
	BaseURL   string
	IndexPath string

	AdvisoryNumberColumn int
	ReleaseDateColumn    int

	// ReleaseDate nil selects every dated advisory
	ReleaseDate    *time.Time
	IncludeUndated bool
	Advisories     []string

	Output        string
	SkipMalformed bool

	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

func Default() Config {
	releaseDate := DefaultReleaseDate
	return Config{
		BaseURL:              DefaultBaseURL,
		IndexPath:            DefaultIndexPath,
		AdvisoryNumberColumn: DefaultAdvisoryNumberColumn,
		ReleaseDateColumn:    DefaultReleaseDateColumn,
		ReleaseDate:          &releaseDate,
		Output:               DefaultOutput,
		Timeout:              DefaultTimeout,
		Retries:              DefaultRetries,
		Backoff:              DefaultBackoff,
	}
}

// IndexURL is the absolute location of the advisory listing page.
func (c Config) IndexURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(c.IndexPath, "/")
}

func (c Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return xerrors.New("base URL must not be empty")
	case c.AdvisoryNumberColumn < 0 || c.ReleaseDateColumn < 0:
		return xerrors.Errorf("column indices must not be negative (advisory number %d, release date %d)",
			c.AdvisoryNumberColumn, c.ReleaseDateColumn)
	case c.Retries < 0:
		return xerrors.Errorf("retries must not be negative: %d", c.Retries)
	}
	return nil
}

// file mirrors Config for YAML/TOML documents. Zero values keep the defaults.
type file struct {
	BaseURL              string   `yaml:"base-url" toml:"base-url"`
	IndexPath            string   `yaml:"index-path" toml:"index-path"`
	AdvisoryNumberColumn *int     `yaml:"advisory-number-column" toml:"advisory-number-column"`
	ReleaseDateColumn    *int     `yaml:"release-date-column" toml:"release-date-column"`
	ReleaseDate          string   `yaml:"release-date" toml:"release-date"`
	IncludeUndated       bool     `yaml:"include-undated" toml:"include-undated"`
	Advisories           []string `yaml:"advisories" toml:"advisories"`
	Output               string   `yaml:"output" toml:"output"`
	SkipMalformed        bool     `yaml:"skip-malformed" toml:"skip-malformed"`
	Timeout              string   `yaml:"timeout" toml:"timeout"`
	Retries              *int     `yaml:"retries" toml:"retries"`
	Backoff              string   `yaml:"backoff" toml:"backoff"`
}

// Load reads a YAML or TOML file on top of Default().
func Load(path string) (Config, error) {
	eb := oops.In("config").With("file_path", path)

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eb.Wrapf(err, "file read error")
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err = yaml.UnmarshalStrict(b, &f); err != nil {
			return Config{}, eb.Wrapf(err, "yaml decode error")
		}
	case ".toml":
		if _, err = toml.Decode(string(b), &f); err != nil {
			return Config{}, eb.Wrapf(err, "toml decode error")
		}
	default:
		return Config{}, eb.Errorf("unsupported config format %q", ext)
	}

	cfg, err := f.apply(Default())
	if err != nil {
		return Config{}, eb.Wrapf(err, "invalid config")
	}
	return cfg, nil
}

func (f file) apply(cfg Config) (Config, error) {
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.IndexPath != "" {
		cfg.IndexPath = f.IndexPath
	}
	if f.AdvisoryNumberColumn != nil {
		cfg.AdvisoryNumberColumn = *f.AdvisoryNumberColumn
	}
	if f.ReleaseDateColumn != nil {
		cfg.ReleaseDateColumn = *f.ReleaseDateColumn
	}
	if f.ReleaseDate != "" {
		d, err := ParseDate(f.ReleaseDate)
		if err != nil {
			return Config{}, err
		}
		cfg.ReleaseDate = d
	}
	cfg.IncludeUndated = cfg.IncludeUndated || f.IncludeUndated
	cfg.SkipMalformed = cfg.SkipMalformed || f.SkipMalformed
	if len(f.Advisories) > 0 {
		cfg.Advisories = f.Advisories
	}
	if f.Output != "" {
		cfg.Output = f.Output
	}
	if f.Retries != nil {
		cfg.Retries = *f.Retries
	}

	var err error
	if f.Timeout != "" {
		if cfg.Timeout, err = time.ParseDuration(f.Timeout); err != nil {
			return Config{}, xerrors.Errorf("timeout: %w", err)
		}
	}
	if f.Backoff != "" {
		if cfg.Backoff, err = time.ParseDuration(f.Backoff); err != nil {
			return Config{}, xerrors.Errorf("backoff: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

// ParseDate parses a target release date. "all" or "any" clears the date filter.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "all", "any":
		return nil, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil, xerrors.Errorf("invalid release date %q: %w", s, err)
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d, nil
}
