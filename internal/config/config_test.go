package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
source:
  directory: ./htdocs
output:
  directory: ./out
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ja/attach", cfg.Source.AttachDir)
	assert.Equal(t, "assets/images", cfg.Output.ImageDir)
	assert.Equal(t, "Migrated Documentation", cfg.Site.Name)
	assert.Equal(t, "root", cfg.Convert.LinkStyle)
	assert.Equal(t, "FrontPage", cfg.Convert.FrontPage)
	assert.Equal(t, []string{"FormatRule"}, cfg.Convert.SkipPages)
	require.Len(t, cfg.Languages, 2)
	assert.Equal(t, "ja", cfg.DefaultLanguage())
	assert.Equal(t, "ja/wiki.en", cfg.Languages[1].WikiDir)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("WIKI_SRC", "/data/htdocs")
	path := writeConfig(t, `
source:
  directory: ${WIKI_SRC}
output:
  directory: ./out
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/htdocs", cfg.Source.Directory)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing source",
			mutate:  func(c *Config) { c.Source.Directory = "" },
			wantErr: "source.directory",
		},
		{
			name:    "missing output",
			mutate:  func(c *Config) { c.Output.Directory = "" },
			wantErr: "output.directory",
		},
		{
			name: "duplicate language",
			mutate: func(c *Config) {
				c.Languages = append(c.Languages, Language{Name: "ja"})
			},
			wantErr: "duplicate language",
		},
		{
			name: "two defaults",
			mutate: func(c *Config) {
				c.Languages[1].Default = true
			},
			wantErr: "at most one language",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizers(t *testing.T) {
	assert.Equal(t, LinkStyleNested, NormalizeLinkStyle(" Nested "))
	assert.Equal(t, LinkStyleRoot, NormalizeLinkStyle("bogus"))
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel("DEBUG"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel(""))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("json"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("xml"))
}
