package config

import "time"

const (
	DefaultWatchDebounce = 300 * time.Millisecond
	DefaultWatchRate     = 1.0
	DefaultWatchBurst    = 1
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		FailFast: boolPtr(false),
		Output:   "console",
		Verbose:  boolPtr(false),
		NoColor:  boolPtr(false),
		Watch: WatchConfig{
			Debounce: DefaultWatchDebounce,
			Rate:     DefaultWatchRate,
			Burst:    DefaultWatchBurst,
		},
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.GetFailFast() == defaults.GetFailFast() &&
		c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.Root == defaults.Root &&
		c.History == defaults.History &&
		c.Metrics == defaults.Metrics &&
		len(c.Suites) == 0 &&
		len(c.Watch.Paths) == 0 &&
		c.Watch.Debounce == defaults.Watch.Debounce &&
		c.Watch.Rate == defaults.Watch.Rate &&
		c.Watch.Burst == defaults.Watch.Burst
}
