// Copyright 2025, Framewell, Inc.

// Package config handles config files, -config, and env vars at startup.
package config

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"gopkg.in/yaml.v2"
)

const (
	DEFAULT_CONFIG_FILES = "/etc/spoolc/spoolc.yaml,~/.spoolc.yaml"
	DEFAULT_ENGINE       = "127.0.0.1:8080"
	DEFAULT_TIMEOUT      = 3600000 // 1h
)

// Options represents typical command line options: --engine, --config, etc.
type Options struct {
	Engine  string `arg:"env" yaml:"engine"`
	Owner   string `arg:"env" yaml:"owner"`
	Config  string `arg:"env"`
	Block   bool   `yaml:"block"`
	Debug   bool
	Help    bool
	Ping    bool
	Timeout uint   `arg:"env" yaml:"timeout"`
	TLSCert string `arg:"--tls-cert,env" yaml:"tls_cert"`
	TLSKey  string `arg:"--tls-key,env" yaml:"tls_key"`
	TLSCA   string `arg:"--tls-ca,env" yaml:"tls_ca"`
	Version bool
}

// Command represents a command (render, spool, etc.) and its values.
type Command struct {
	Cmd  string   `arg:"positional"`
	Args []string `arg:"positional"`
}

// CommandLine represents options (--engine, etc.) and commands (spool, etc.).
// The caller is expected to copy and use the embedded structs separately, like:
//
//	var o config.Options = cmdLine.Options
//	var c config.Command = cmdLine.Command
type CommandLine struct {
	Options
	Command
}

// ParseCommandLine parses the command line and env vars. Command line options
// override env vars. Default options are used unless overridden by env vars or
// command line options. Defaults are usually parsed from config files.
func ParseCommandLine(def Options) CommandLine {
	var c CommandLine
	c.Options = def
	p, err := arg.NewParser(arg.Config{Program: "spoolc"}, &c)
	if err != nil {
		fmt.Printf("arg.NewParser: %s", err)
		os.Exit(1)
	}
	if err := p.Parse(os.Args[1:]); err != nil {
		switch err {
		case arg.ErrHelp:
			c.Help = true
		case arg.ErrVersion:
			c.Version = true
		default:
			fmt.Printf("Error parsing command line: %s\n", err)
			os.Exit(1)
		}
	}
	return c
}

// ParseConfigFiles parses a comma-separated list of YAML config files into
// default Options. Files that do not exist are skipped.
func ParseConfigFiles(files string, debug bool) Options {
	var def Options
	for _, file := range strings.Split(files, ",") {
		// If file starts with ~/, we need to expand this to the user home dir
		// because this is a shell expansion, not something Go knows about.
		if strings.HasPrefix(file, "~/") {
			usr, _ := user.Current()
			file = filepath.Join(usr.HomeDir, file[2:])
		}

		absfile, err := filepath.Abs(file)
		if err != nil {
			if debug {
				log.Printf("filepath.Abs(%s) error: %s", file, err)
			}
			continue
		}

		bytes, err := ioutil.ReadFile(absfile)
		if err != nil {
			if debug {
				log.Printf("Cannot read config file %s: %s", file, err)
			}
			continue
		}

		var o Options
		if err := yaml.Unmarshal(bytes, &o); err != nil {
			if debug {
				log.Printf("Invalid YAML in config file %s: %s", file, err)
			}
			continue
		}

		// Set options from this config file only if they're set
		if debug {
			log.Printf("Applying config file %s (%s)", file, absfile)
		}
		if o.Engine != "" {
			def.Engine = o.Engine
		}
		if o.Owner != "" {
			def.Owner = o.Owner
		}
		if o.Timeout != 0 {
			def.Timeout = o.Timeout
		}
		if o.TLSCert != "" {
			def.TLSCert = o.TLSCert
		}
		if o.TLSKey != "" {
			def.TLSKey = o.TLSKey
		}
		if o.TLSCA != "" {
			def.TLSCA = o.TLSCA
		}
		if o.Block {
			def.Block = true
		}
	}
	return def
}

// Help prints spoolc usage.
func Help() {
	fmt.Printf(`Usage: spoolc [flags] command [args]

Commands:
  render <jobfile>   Print the serialized job script for a YAML job definition
  spool <jobfile>    Submit a YAML job definition to the engine, print the job id
  ping               Check that the engine is reachable
  version            Print version
  help               Print this help

Flags:
  --engine addr   Engine host:port (default %s)
  --owner user    User the job runs as
  --block         Wait for the engine to validate and queue the job
  --timeout ms    Transaction timeout in milliseconds (default %d)
  --config files  Comma-separated config files (default %s)
  --tls-cert, --tls-key, --tls-ca
                  TLS files for HTTPS engines
  --debug         Print debug info to stderr
`, DEFAULT_ENGINE, DEFAULT_TIMEOUT, DEFAULT_CONFIG_FILES)
}
