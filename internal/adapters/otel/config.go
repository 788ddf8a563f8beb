package otel

import "errors"

// Config holds OTEL exporter configuration. It is filled from the
// MREPORT_OTEL_* environment variables.
type Config struct {
	Endpoint string `envconfig:"ENDPOINT"`
	Enabled  bool   `envconfig:"ENABLED" default:"false"`
	Insecure bool   `envconfig:"INSECURE" default:"false"`
}

// ErrDisabled is returned by NewExporter when metrics export is off.
var ErrDisabled = errors.New("OTEL exporter is disabled or endpoint not configured")

// Active reports whether an exporter should be created.
func (c Config) Active() bool {
	return c.Enabled && c.Endpoint != ""
}
