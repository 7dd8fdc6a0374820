package jsonrpc_interface

import (
	"fmt"
	"time"
)

const (
	minPort = 1024
	maxPort = 49151

	defaultReadTimeout = 30 * time.Second
)

type ServiceConfig struct {
	Port int
	// RPCUser and RPCPass are the basic auth credentials of rpc requests.
	RPCUser string
	RPCPass string
	// ReadTimeout defaults to 30 seconds.
	ReadTimeout time.Duration
}

func (c ServiceConfig) validate() error {
	if c.Port < minPort || c.Port > maxPort {
		return fmt.Errorf("port must be in range [%d, %d]", minPort, maxPort)
	}
	if c.RPCUser == "" || c.RPCPass == "" {
		return fmt.Errorf("rpc user and password must not be empty")
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("read timeout must not be negative")
	}
	return nil
}

func (c ServiceConfig) address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c ServiceConfig) readTimeout() time.Duration {
	if c.ReadTimeout == 0 {
		return defaultReadTimeout
	}
	return c.ReadTimeout
}
