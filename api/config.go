package api

import (
	"fmt"
	"time"
)

// Config is loaded with the HTTP prefix.
type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	Mode            string        `envconfig:"MODE" default:"release"`
	CallTimeout     time.Duration `envconfig:"CALL_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"5m"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxUploadBytes  int64         `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
}

func (c Config) Validate() error {
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("HTTP_MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	switch c.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("HTTP_MODE must be debug, release or test, got %q", c.Mode)
	}
	return nil
}
