package config

// Flag names shared by the CLI and the override merge.
const (
	FlagAPIURL    = "api-url"
	FlagTimeout   = "timeout"
	FlagStateDir  = "state-dir"
	FlagWidth     = "width"
	FlagPlain     = "plain"
	FlagNoOpen    = "no-open"
	FlagSections  = "sections"
	FlagLimit     = "limit"
	FlagParallel  = "parallel"
	FlagAddr      = "addr"
	FlagLogLevel  = "log-level"
	FlagVerbose   = "verbose"
	FlagConfig    = "config"
	FlagEnvFile   = "env-file"
	FlagAssumeYes = "yes"
)

// Overrides carries command-line values. Only the ones whose flag was set
// replace file and environment values.
type Overrides struct {
	APIURL         string
	TimeoutSeconds int
	StateDir       string
	Width          int
	Plain          bool
	NoOpen         bool
	Sections       []string
	Limit          int
	Parallel       int
	Addr           string
	LogLevel       string
	Verbose        bool
}

// ApplyOverrides merges explicitly set flags into c and re-validates it.
func (c *Config) ApplyOverrides(o Overrides, ft *FlagTracker) error {
	if ft == nil {
		return nil
	}
	c.API.BaseURL = ft.MergeString(c.API.BaseURL, o.APIURL, FlagAPIURL)
	c.API.TimeoutSeconds = ft.MergeInt(c.API.TimeoutSeconds, o.TimeoutSeconds, FlagTimeout)
	c.Session.StateDir = ft.MergeString(c.Session.StateDir, o.StateDir, FlagStateDir)
	c.Output.Width = ft.MergeInt(c.Output.Width, o.Width, FlagWidth)
	c.Output.Plain = ft.MergeBool(c.Output.Plain, o.Plain, FlagPlain)
	c.Output.NoOpen = ft.MergeBool(c.Output.NoOpen, o.NoOpen, FlagNoOpen)
	c.Output.Sections = ft.MergeStringSlice(c.Output.Sections, o.Sections, FlagSections)
	c.History.Limit = ft.MergeInt(c.History.Limit, o.Limit, FlagLimit)
	c.Input.Concurrency = ft.MergeInt(c.Input.Concurrency, o.Parallel, FlagParallel)
	c.Dashboard.Addr = ft.MergeString(c.Dashboard.Addr, o.Addr, FlagAddr)
	c.Logging.Level = ft.MergeString(c.Logging.Level, o.LogLevel, FlagLogLevel)
	if ft.WasSet(FlagVerbose) && o.Verbose {
		c.Logging.Level = "debug"
	}
	return c.Validate()
}
