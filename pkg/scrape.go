package pkg

import (
	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/advisory-scraper/pkg/advisory"
	"github.com/aquasecurity/advisory-scraper/pkg/config"
	"github.com/aquasecurity/advisory-scraper/pkg/fetch"
	"github.com/aquasecurity/advisory-scraper/pkg/index"
	"github.com/aquasecurity/advisory-scraper/pkg/log"
	"github.com/aquasecurity/advisory-scraper/pkg/report"
)

func (ac AppConfig) scrape(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	f := ac.fetcher(cfg)

	advisories, err := index.NewParser(f, cfg).Parse(ac.Context)
	if err != nil {
		return xerrors.Errorf("index error: %w", err)
	}

	selected := index.Select(advisories, index.NewFilter(cfg.ReleaseDate, cfg.IncludeUndated, cfg.Advisories))
	log.Info("Selected advisories", log.Int("selected", len(selected)), log.Int("total", len(advisories)))

	records, err := advisory.NewExtractor(f, cfg).Extract(ac.Context, selected)
	if err != nil {
		return xerrors.Errorf("extraction error: %w", err)
	}

	if err = report.NewPresenter(records).WriteFile(cfg.Output); err != nil {
		return xerrors.Errorf("report error: %w", err)
	}
	log.Info("Wrote vulnerabilities", log.FilePath(cfg.Output), log.Int("records", len(records)))

	return report.Summary(ac.Stderr, selected, records)
}

func (ac AppConfig) index(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	advisories, err := index.NewParser(ac.fetcher(cfg), cfg).Parse(ac.Context)
	if err != nil {
		return xerrors.Errorf("index error: %w", err)
	}

	filter := index.NewFilter(cfg.ReleaseDate, true, cfg.Advisories)
	if cfg.ReleaseDate != nil {
		filter.IncludeUndated = cfg.IncludeUndated
	}
	return report.PresentIndex(ac.Stdout, index.Select(advisories, filter))
}

func (ac AppConfig) fetcher(cfg config.Config) fetch.Fetcher {
	if ac.Fetcher != nil {
		return ac.Fetcher
	}
	return fetch.NewClient(cfg.Timeout, cfg.Retries, cfg.Backoff)
}

// loadConfig starts from the config file (or the defaults) and applies the
// flags given on the command line. Without a config file the release date
// flag default applies, since it differs between commands.
func loadConfig(c *cli.Context) (config.Config, error) {
	log.EnableDebug(c.Bool("debug"))

	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, xerrors.Errorf("config error: %w", err)
		}
	}

	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("index-path") {
		cfg.IndexPath = c.String("index-path")
	}
	if c.IsSet("release-date") || c.String("config") == "" {
		d, err := config.ParseDate(c.String("release-date"))
		if err != nil {
			return config.Config{}, err
		}
		cfg.ReleaseDate = d
	}
	if c.IsSet("include-undated") {
		cfg.IncludeUndated = c.Bool("include-undated")
	}
	if advisories := c.StringSlice("advisory"); len(advisories) > 0 {
		cfg.Advisories = advisories
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("skip-malformed") {
		cfg.SkipMalformed = c.Bool("skip-malformed")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
