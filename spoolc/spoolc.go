// Copyright 2025, Framewell, Inc.

// Package spoolc implements the spoolc command line tool: rendering and
// submitting YAML job definitions, and engine health checks.
package spoolc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/framewell/spool/author"
	"github.com/framewell/spool/engine"
	"github.com/framewell/spool/retry"
	"github.com/framewell/spool/spoolc/config"
	"github.com/framewell/spool/util"
	v "github.com/framewell/spool/version"
)

// Run runs spoolc and exits when done.
func Run() {
	// Options are set in this order: config -> env var -> cmd line option.
	// So first we must apply config files, then do cmd line parsing which
	// will apply env vars and cmd line options.

	// Parse cmd line to get --config files
	cmdLine := config.ParseCommandLine(config.Options{})

	// --config files override defaults if given
	configFiles := config.DEFAULT_CONFIG_FILES
	if cmdLine.Config != "" {
		configFiles = cmdLine.Config
	}

	// Parse default options from config files
	def := config.ParseConfigFiles(configFiles, cmdLine.Debug)

	// Parse env vars and cmd line options, override default config
	cmdLine = config.ParseCommandLine(def)

	var o config.Options = cmdLine.Options
	var c config.Command = cmdLine.Command

	if o.Debug {
		log.SetLevel(log.DebugLevel)
		log.WithFields(log.Fields{"command": c, "options": fmt.Sprintf("%+v", o)}).Debug("parsed command line")
	}

	if o.Help || c.Cmd == "" || c.Cmd == "help" {
		config.Help()
		os.Exit(0)
	}

	if o.Version || c.Cmd == "version" {
		fmt.Println("spoolc " + v.Version())
		os.Exit(0)
	}

	client, err := makeClient(o)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if o.Ping || c.Cmd == "ping" {
		ping(client, o)
		os.Exit(0)
	}

	switch c.Cmd {
	case "render":
		render(c.Args)
	case "spool":
		spoolJob(client, o, c.Args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s. Run 'spoolc help' to list commands.\n", c.Cmd)
		os.Exit(1)
	}
}

func makeClient(o config.Options) (engine.Client, error) {
	addr := o.Engine
	if addr == "" {
		addr = config.DEFAULT_ENGINE
	}
	host, port, err := splitAddr(addr)
	if err != nil {
		return nil, err
	}
	cfg := engine.Config{
		Host:    host,
		Port:    port,
		User:    o.Owner,
		Timeout: o.Timeout,
	}
	if o.TLSCA != "" || o.TLSCert != "" || o.TLSKey != "" {
		tlsConfig, err := util.NewTLSConfig(o.TLSCA, o.TLSCert, o.TLSKey)
		if err != nil {
			return nil, fmt.Errorf("invalid TLS config: %s", err)
		}
		cfg.TLS = tlsConfig
	}
	return engine.NewClientConfig(cfg), nil
}

func splitAddr(addr string) (string, int, error) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return addr, engine.DEFAULT_PORT, nil
	}
	port, err := strconv.Atoi(addr[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("'%s' must be a numeric value for port", addr[i+1:])
	}
	return addr[:i], port, nil
}

func ping(client engine.Client, o config.Options) {
	err := retry.Do(3, 500*time.Millisecond, client.Ping, func(err error) {
		log.WithFields(log.Fields{"error": err}).Debug("ping failed, retrying")
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ping failed: %s\n", err)
		os.Exit(1)
	}
	host, port := client.Addr()
	fmt.Printf("%s:%d OK\n", host, port)
}

func render(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: spoolc render <jobfile>")
		os.Exit(1)
	}
	job, err := author.LoadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	text, err := job.Render()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(text)
}

func spoolJob(client engine.Client, o config.Options, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: spoolc spool <jobfile>")
		os.Exit(1)
	}
	job, err := author.LoadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	jobFile, err := filepath.Abs(args[0])
	if err != nil {
		jobFile = args[0]
	}
	hostname, _ := os.Hostname()

	xact := util.XID().String()
	log.WithFields(log.Fields{"xact": xact, "jobFile": jobFile}).Debug("spooling")

	jid, err := job.Spool(client, author.SpoolOptions{
		Block:    o.Block,
		Owner:    o.Owner,
		Filename: jobFile,
		Hostname: hostname,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.WithFields(log.Fields{"xact": xact, "jid": jid}).Debug("spooled")
	fmt.Println(jid)
}
