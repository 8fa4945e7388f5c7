package configuration

// ProfilingConfig configures the pprof endpoint of the daemon,
// disabled by default.
type ProfilingConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port,omitempty"`
}
