// Copyright 2025, Framewell, Inc.

// Package config provides structs for engine connection configuration.
// Tools unmarshal a YAML config file into these structs at startup; see
// spoolc/config for the command line layering on top.
package config
