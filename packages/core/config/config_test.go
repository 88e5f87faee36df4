package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.False(t, c.GetFailFast())
	assert.Equal(t, "console", c.Output)
	assert.Equal(t, DefaultWatchDebounce, c.Watch.Debounce)
	assert.True(t, c.IsDefault())
}

func TestGetBool_NilPointers(t *testing.T) {
	c := &Config{}
	assert.False(t, c.GetFailFast())
	assert.False(t, c.GetVerbose())
	assert.False(t, c.GetNoColor())

	c.NoColor = BoolPtr(true)
	assert.True(t, c.GetNoColor())
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
failFast: true
output: junit
outputFile: report.xml
history: runs.db
metrics: unitspec.prom
suites: [math, strings]
watch:
  paths: [./pkg]
  debounce: 500ms
  rate: 2
`))
	require.NoError(t, err)

	assert.True(t, c.GetFailFast())
	assert.Equal(t, "junit", c.Output)
	assert.Equal(t, "report.xml", c.OutputFile)
	assert.Equal(t, "runs.db", c.History)
	assert.Equal(t, "unitspec.prom", c.Metrics)
	assert.Equal(t, []string{"math", "strings"}, c.Suites)
	assert.Equal(t, []string{"./pkg"}, c.Watch.Paths)
	assert.Equal(t, 500*time.Millisecond, c.Watch.Debounce)
	assert.Equal(t, 2.0, c.Watch.Rate)
	// unset keys keep their defaults
	assert.Equal(t, DefaultWatchBurst, c.Watch.Burst)
	assert.False(t, c.GetVerbose())
	assert.False(t, c.IsDefault())
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.True(t, c.IsDefault())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "bail: true"},
		{"bad output", "output: xml"},
		{"negative rate", "watch:\n  rate: -1"},
		{"bad duration", "watch:\n  debounce: soon"},
		{"not yaml", "output: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("output: xml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFindAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	c, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.True(t, c.IsDefault())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unitspec.yaml"), []byte("output: tap\n"), 0644))
	c, err = FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "tap", c.Output)

	// the dot-file takes precedence
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".unitspec.yaml"), []byte("output: json\n"), 0644))
	c, err = FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "json", c.Output)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: true\n"), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, c.GetVerbose())

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("nope: 1\n"), 0644))
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "bad.yaml")
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.History = "base.db"

	merged := base.Merge(&Config{
		FailFast: BoolPtr(true),
		Output:   "json",
		Suites:   []string{"only"},
		Watch:    WatchConfig{Rate: 5},
	})

	assert.True(t, merged.GetFailFast())
	assert.Equal(t, "json", merged.Output)
	assert.Equal(t, "base.db", merged.History)
	assert.Equal(t, []string{"only"}, merged.Suites)
	assert.Equal(t, 5.0, merged.Watch.Rate)
	assert.Equal(t, DefaultWatchDebounce, merged.Watch.Debounce)

	// base is not modified
	assert.False(t, base.GetFailFast())
	assert.Equal(t, "console", base.Output)

	assert.Same(t, base, base.Merge(nil))
}

func TestMerge_ExplicitFalseOverrides(t *testing.T) {
	base := DefaultConfig()
	base.Verbose = BoolPtr(true)
	merged := base.Merge(&Config{Verbose: BoolPtr(false)})
	assert.False(t, merged.GetVerbose())
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".unitspec.yaml")
	c := DefaultConfig()
	c.Output = "html"
	c.Watch.Debounce = time.Second
	require.NoError(t, c.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "html", loaded.Output)
	assert.Equal(t, time.Second, loaded.Watch.Debounce)
}
