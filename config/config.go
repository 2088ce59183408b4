// Copyright 2025, Framewell, Inc.

package config

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

///////////////////////////////////////////////////////////////////////////////
// High-Level Config Structs
///////////////////////////////////////////////////////////////////////////////

// Engine holds the connection parameters for one engine instance. Tools
// read this from a YAML config file and use it to build an engine client.
type Engine struct {
	// The host the engine listens on (ex: "farm-engine.example.com").
	Host string `yaml:"host"`

	// The engine's port.
	Port int `yaml:"port"`

	// The user jobs are owned by when no owner is given per submission.
	User string `yaml:"user"`

	// Transaction timeout in milliseconds. Blocking spools wait for the
	// engine to validate and queue the job, which can be slow for large
	// job scripts, so this defaults high (see engine.DEFAULT_TIMEOUT).
	Timeout uint `yaml:"timeout"`

	// The TLS config used to connect to the engine.
	TLS `yaml:"tls_config"`
}

///////////////////////////////////////////////////////////////////////////////
// Config Components
///////////////////////////////////////////////////////////////////////////////

// TLS configuration.
type TLS struct {
	// The certificate file to use.
	CertFile string `yaml:"cert_file"`

	// The key file to use.
	KeyFile string `yaml:"key_file"`

	// The CA file to use.
	CAFile string `yaml:"ca_file"`
}

// Set returns whether any TLS file is configured.
func (t TLS) Set() bool {
	return t.CertFile != "" || t.KeyFile != "" || t.CAFile != ""
}

// Load reads an Engine config from a YAML file.
func Load(file string) (Engine, error) {
	var e Engine
	bytes, err := ioutil.ReadFile(file)
	if err != nil {
		return e, err
	}
	if err := yaml.Unmarshal(bytes, &e); err != nil {
		return e, err
	}
	return e, nil
}
