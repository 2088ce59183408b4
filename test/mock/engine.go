// Copyright 2025, Framewell, Inc.

// Package mock provides mocks of interfaces for testing.
package mock

import (
	"errors"
	"fmt"

	"github.com/framewell/spool/engine"
	"github.com/framewell/spool/proto"
)

var (
	ErrEngineClient = errors.New("forced error in engine client")
)

// EngineClient mocks engine.Client. It records every spool payload and
// every reconfiguration so tests can assert on connection handling.
type EngineClient struct {
	SpoolFunc func(payload string, opts engine.SpoolOptions) (proto.SpoolResponse, error)
	PingFunc  func() error

	Host string
	Port int

	// Recorded calls
	SpooledPayloads []string
	SpooledOptions  []engine.SpoolOptions
	Reconfigured    []string // "host:port" per Reconfigure call
	Closed          bool
}

var _ engine.Client = &EngineClient{}

func (c *EngineClient) Spool(payload string, opts engine.SpoolOptions) (proto.SpoolResponse, error) {
	c.SpooledPayloads = append(c.SpooledPayloads, payload)
	c.SpooledOptions = append(c.SpooledOptions, opts)
	if c.SpoolFunc != nil {
		return c.SpoolFunc(payload, opts)
	}
	return proto.SpoolResponse{Jid: 1}, nil
}

func (c *EngineClient) Ping() error {
	if c.PingFunc != nil {
		return c.PingFunc()
	}
	return nil
}

func (c *EngineClient) Addr() (string, int) {
	return c.Host, c.Port
}

func (c *EngineClient) Reconfigure(host string, port int) {
	c.Host = host
	c.Port = port
	c.Reconfigured = append(c.Reconfigured, fmt.Sprintf("%s:%d", host, port))
}

func (c *EngineClient) Close() error {
	c.Closed = true
	return nil
}
