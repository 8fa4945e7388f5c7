package configuration

// ApiConfig configures the read-only monitoring API. Fan management
// always stays with the daemon, so the API is disabled by default and
// binds to localhost.
type ApiConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}
