// Copyright 2025, Framewell, Inc.

package engine

import (
	"strconv"
	"sync"

	"github.com/orcaman/concurrent-map"
)

// Pool caches one Client per engine address so concurrent submitters
// targeting different engines never share (or race on) a client's
// configuration. Job graphs themselves are single-owner; only the clients
// are shared process-wide.
type Pool struct {
	clients cmap.ConcurrentMap // "host:port" => Client
}

func NewPool() *Pool {
	return &Pool{clients: cmap.New()}
}

// Get returns the pool's client for host:port, creating it on first use.
func (p *Pool) Get(host string, port int) Client {
	key := host + ":" + strconv.Itoa(port)
	v := p.clients.Upsert(key, nil, func(exist bool, inMap interface{}, _ interface{}) interface{} {
		if exist {
			return inMap
		}
		return NewClient(host, port)
	})
	return v.(Client)
}

// --------------------------------------------------------------------------

// A process-wide default client is kept for command line ergonomics.
// Reconfiguration is guarded: concurrent callers targeting different
// engines must use distinct clients (see Pool) instead of retargeting the
// default.
var (
	defaultMu     sync.Mutex
	defaultClient Client
)

// Default returns the shared default client, creating one with default
// connection parameters on first use.
func Default() Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = NewClient(DEFAULT_HOST, DEFAULT_PORT)
	}
	return defaultClient
}

// SetDefault replaces the shared default client.
func SetDefault(c Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = c
}
