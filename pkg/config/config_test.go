package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/advisory-scraper/pkg/config"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    func() config.Config
		wantErr string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			want: func() config.Config {
				c := config.Default()
				c.BaseURL = "http://127.0.0.1:8080"
				c.IndexPath = "/security-center/index.html"
				c.ReleaseDate = date(2020, time.June, 9)
				c.Advisories = []string{"INTEL-SA-00320", "INTEL-SA-00322"}
				c.Timeout = 5 * time.Second
				c.Retries = 1
				c.Backoff = 250 * time.Millisecond
				c.SkipMalformed = true
				return c
			},
		},
		{
			name: "toml",
			file: "config.toml",
			want: func() config.Config {
				c := config.Default()
				c.BaseURL = "http://127.0.0.1:8080"
				c.ReleaseDateColumn = 4
				c.ReleaseDate = date(2020, time.May, 12)
				c.IncludeUndated = true
				c.Output = "may.csv"
				return c
			},
		},
		{
			name:    "unknown key",
			file:    "unknown-key.yaml",
			wantErr: "yaml decode error",
		},
		{
			name:    "bad date",
			file:    "bad-date.yaml",
			wantErr: "invalid release date",
		},
		{
			name:    "unsupported extension",
			file:    "config.json",
			wantErr: "unsupported config format",
		},
		{
			name:    "missing file",
			file:    "missing.yaml",
			wantErr: "file read error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.Load(filepath.Join("testdata", tt.file))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    *time.Time
		wantErr bool
	}{
		{input: "2019-11-12", want: date(2019, time.November, 12)},
		{input: "November 12, 2019", want: date(2019, time.November, 12)},
		{input: "all"},
		{input: "ANY"},
		{input: "whenever", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := config.ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_IndexURL(t *testing.T) {
	c := config.Default()
	assert.Equal(t, "https://www.intel.com/content/www/us/en/security-center/default.html", c.IndexURL())

	c.BaseURL = "http://localhost:8080/"
	c.IndexPath = "index.html"
	assert.Equal(t, "http://localhost:8080/index.html", c.IndexURL())
}

func TestConfig_Validate(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())

	c.ReleaseDateColumn = -1
	assert.ErrorContains(t, c.Validate(), "column indices must not be negative")

	c = config.Default()
	c.BaseURL = ""
	assert.ErrorContains(t, c.Validate(), "base URL must not be empty")
}
