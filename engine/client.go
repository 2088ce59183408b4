// Copyright 2025, Framewell, Inc.

// Package engine provides an HTTP client for the engine's submission
// boundary: spooling serialized job scripts and health checks. The client
// caches its HTTP connection lazily and can be retargeted at a different
// engine instance; retargeting always drops the cached connection so a
// stale connection never serves a request intended for another engine.
package engine

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"os/user"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/framewell/spool/proto"
)

const (
	DEFAULT_HOST    = "127.0.0.1"
	DEFAULT_PORT    = 8080
	DEFAULT_TIMEOUT = 3600000 // 1h, in milliseconds; blocking spools can be slow
)

const (
	endpointSpool   = "spool"
	endpointMonitor = "monitor"
)

// SpoolOptions are the per-submission options of a spool transaction.
type SpoolOptions struct {
	// SkipLogin tells the client the caller is already authenticated and
	// no session handshake is needed before the transaction.
	SkipLogin bool

	// Block waits for the engine to validate and queue the job instead
	// of returning as soon as the request is sent. Engine-side
	// validation errors are only surfaced when blocking.
	Block bool

	// Owner is the user the job runs as. Defaults to the configured or
	// current user.
	Owner string

	// Filename is the path of the spooled job file, for display.
	Filename string

	// Hostname is the host the job was spooled from, for display.
	// Defaults to the local hostname.
	Hostname string
}

// A Client talks to one engine instance. Implementations must be safe for
// concurrent use; callers targeting different engines should use distinct
// clients (see Pool).
type Client interface {
	// Spool submits a serialized job script and returns the engine's
	// response. The response carries the new job's id.
	Spool(payload string, opts SpoolOptions) (proto.SpoolResponse, error)

	// Ping checks that the engine is reachable.
	Ping() error

	// Addr returns the host and port the client currently targets.
	Addr() (host string, port int)

	// Reconfigure retargets the client and drops any cached connection.
	Reconfigure(host string, port int)

	// Close drops the cached connection.
	Close() error
}

// Config holds engine connection parameters.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Timeout  uint // milliseconds, 0 = DEFAULT_TIMEOUT
	TLS      *tls.Config
}

type client struct {
	mu   sync.Mutex
	cfg  Config
	conn *http.Client // cached, created lazily, nil after Reconfigure/Close
}

// NewClient creates a Client for the engine at host:port.
func NewClient(host string, port int) Client {
	return NewClientConfig(Config{Host: host, Port: port})
}

// NewClientConfig creates a Client from full connection parameters.
func NewClientConfig(cfg Config) Client {
	if cfg.Host == "" {
		cfg.Host = DEFAULT_HOST
	}
	if cfg.Port == 0 {
		cfg.Port = DEFAULT_PORT
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DEFAULT_TIMEOUT
	}
	return &client{cfg: cfg}
}

func (c *client) Addr() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Host, c.cfg.Port
}

func (c *client) Reconfigure(host string, port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if host != "" {
		c.cfg.Host = host
	}
	if port != 0 {
		c.cfg.Port = port
	}
	c.conn = nil // never reuse a connection to the old engine
	log.WithFields(log.Fields{"engine": c.addr()}).Debug("engine client reconfigured")
}

func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = nil
	return nil
}

// httpConn returns the cached HTTP connection, creating it if needed.
func (c *client) httpConn() (*http.Client, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		transport := &http.Transport{}
		if c.cfg.TLS != nil {
			transport.TLSClientConfig = c.cfg.TLS
		}
		c.conn = &http.Client{
			Transport: transport,
			Timeout:   time.Duration(c.cfg.Timeout) * time.Millisecond,
		}
		log.WithFields(log.Fields{"engine": c.addr()}).Debug("engine connection established")
	}
	return c.conn, c.baseURL()
}

// addr and baseURL are called with c.mu held.
func (c *client) addr() string {
	return c.cfg.Host + ":" + strconv.Itoa(c.cfg.Port)
}

func (c *client) baseURL() string {
	scheme := "http"
	if c.cfg.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/Engine/", scheme, c.addr())
}

func (c *client) Spool(payload string, opts SpoolOptions) (proto.SpoolResponse, error) {
	var sr proto.SpoolResponse

	author := currentUser()
	owner := opts.Owner
	if owner == "" {
		owner = c.cfg.User
	}
	if owner == "" {
		owner = author
	}
	hostname := opts.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	filename := opts.Filename
	if filename == "" {
		filename = "no filename specified"
	}
	cwd, _ := os.Getwd()
	cwd = strings.Replace(cwd, `\`, "/", -1)

	attrs := url.Values{}
	attrs.Set("spvers", proto.SpoolVersion)
	attrs.Set("hnm", hostname)
	attrs.Set("jobOwner", owner)
	attrs.Set("jobAuthor", author)
	attrs.Set("jobFile", filename)
	attrs.Set("cwd", cwd)
	if opts.Block {
		attrs.Set("blocking", "spool")
	}

	conn, base := c.httpConn()
	u := base + endpointSpool + "?" + attrs.Encode()

	log.WithFields(log.Fields{
		"engine":   c.addrLocked(),
		"owner":    owner,
		"jobFile":  filename,
		"blocking": opts.Block,
	}).Debug("spool transaction")

	req, err := http.NewRequest("POST", u, strings.NewReader(payload))
	if err != nil {
		return sr, err
	}
	req.Header.Set("Content-Type", proto.ContentTypeSpool)

	resp, err := conn.Do(req)
	if err != nil {
		return sr, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return sr, err
	}
	if resp.StatusCode != http.StatusOK {
		return sr, fmt.Errorf("unsuccessful status code: %d (response body: %s)",
			resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &sr); err != nil {
		return sr, fmt.Errorf("cannot decode spool response: %s (response body: %s)",
			err, string(body))
	}
	return sr, nil
}

func (c *client) Ping() error {
	conn, base := c.httpConn()
	resp, err := conn.Get(base + endpointMonitor + "?q=ping")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unsuccessful status code: %d", resp.StatusCode)
	}
	return nil
}

func (c *client) addrLocked() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addr()
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
