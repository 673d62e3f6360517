// Package imapconfig carries the connection and sink-sizing parameters a
// session façade layers on top of this module need, trimmed from the
// teacher's richer multi-protocol account schema down to the single IMAP
// endpoint this module talks to.
package imapconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSinkCapacity is used when SinkCapacity is left at zero.
const DefaultSinkCapacity = 8

// SessionConfig holds what session.WireSession (and a caller dialing the
// connection it wraps) needs to know: where to connect, how to secure the
// connection, and how large the unsolicited sink should be.
type SessionConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`

	// UseTLS enables implicit TLS (connect directly over TLS).
	UseTLS bool `json:"use_tls"`
	// StartTLS enables opportunistic TLS upgrade after a plaintext connect.
	StartTLS bool `json:"starttls"`

	// SinkCapacity bounds the unsolicited sink (unsolicited.NewSink).
	// Non-positive values fall back to DefaultSinkCapacity.
	SinkCapacity int `json:"sink_capacity,omitempty"`
}

// EffectiveSinkCapacity returns SinkCapacity, or DefaultSinkCapacity if it
// is non-positive.
func (c SessionConfig) EffectiveSinkCapacity() int {
	if c.SinkCapacity <= 0 {
		return DefaultSinkCapacity
	}
	return c.SinkCapacity
}

// Addr returns "host:port" for use with net.Dial / tls.Dial.
func (c SessionConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads a SessionConfig from a JSON file at path.
func Load(path string) (SessionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("imapconfig: read %s: %w", path, err)
	}
	var cfg SessionConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SessionConfig{}, fmt.Errorf("imapconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON, creating parent directories as
// needed.
func Save(path string, cfg SessionConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("imapconfig: create dir %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("imapconfig: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("imapconfig: write %s: %w", path, err)
	}
	return nil
}
