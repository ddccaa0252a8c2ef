package pkg

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/aquasecurity/advisory-scraper/pkg/config"
	"github.com/aquasecurity/advisory-scraper/pkg/fetch"
)

type AppConfig struct {
	Context context.Context

	// Fetcher replaces the HTTP client built from the configuration
	Fetcher fetch.Fetcher

	Stdout io.Writer
	Stderr io.Writer
}

var (
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "YAML or TOML configuration file",
	}
	baseURLFlag = cli.StringFlag{
		Name:  "base-url",
		Usage: "origin that advisory links are resolved against",
		Value: config.DefaultBaseURL,
	}
	indexPathFlag = cli.StringFlag{
		Name:  "index-path",
		Usage: "path of the advisory listing page",
		Value: config.DefaultIndexPath,
	}
	releaseDateFlag = cli.StringFlag{
		Name:  "release-date, d",
		Usage: `release date of the advisories to extract, or "all"`,
		Value: config.DefaultReleaseDate.Format("2006-01-02"),
	}
	listReleaseDateFlag = cli.StringFlag{
		Name:  "release-date, d",
		Usage: `only list advisories released on this date, or "all"`,
		Value: "all",
	}
	includeUndatedFlag = cli.BoolFlag{
		Name:  "include-undated",
		Usage: "also select advisories whose release date cannot be parsed",
	}
	advisoryFlag = cli.StringSliceFlag{
		Name:  "advisory, a",
		Usage: "only extract these advisory numbers (repeatable)",
	}
	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "CSV output file",
		Value: config.DefaultOutput,
	}
	timeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Usage: "timeout of a single HTTP request",
		Value: config.DefaultTimeout,
	}
	retriesFlag = cli.IntFlag{
		Name:  "retries",
		Usage: "retries for transient HTTP failures",
		Value: config.DefaultRetries,
	}
	skipMalformedFlag = cli.BoolFlag{
		Name:  "skip-malformed",
		Usage: "skip advisory pages that do not match the expected structure instead of failing",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "debug logging",
	}
)

func (ac AppConfig) NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "advisory-scraper"
	app.Version = version
	app.Usage = "Extract CVE records from vendor security advisories"

	if ac.Context == nil {
		ac.Context = context.Background()
	}
	if ac.Stdout == nil {
		ac.Stdout = os.Stdout
	}
	if ac.Stderr == nil {
		ac.Stderr = os.Stderr
	}
	app.Writer = ac.Stdout
	app.ErrWriter = ac.Stderr

	app.Commands = []cli.Command{
		{
			Name:   "scrape",
			Usage:  "extract vulnerabilities of the selected advisories into a CSV file",
			Action: ac.scrape,
			Flags: []cli.Flag{
				configFlag,
				baseURLFlag,
				indexPathFlag,
				releaseDateFlag,
				includeUndatedFlag,
				advisoryFlag,
				outputFlag,
				timeoutFlag,
				retriesFlag,
				skipMalformedFlag,
				debugFlag,
			},
		},
		{
			Name:   "index",
			Usage:  "list the advisories published in the index",
			Action: ac.index,
			Flags: []cli.Flag{
				configFlag,
				baseURLFlag,
				indexPathFlag,
				listReleaseDateFlag,
				includeUndatedFlag,
				advisoryFlag,
				timeoutFlag,
				retriesFlag,
				debugFlag,
			},
		},
	}

	return app
}
