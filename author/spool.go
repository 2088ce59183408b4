// Copyright 2025, Framewell, Inc.

package author

import (
	"github.com/framewell/spool/engine"
)

// SpoolOptions control one job submission.
type SpoolOptions struct {
	// Block waits for the engine to validate and queue the job before
	// returning. Engine-side validation errors are only reported when
	// blocking; a non-blocking spool returns as soon as the request is
	// sent.
	Block bool

	// Owner is the user the job runs as.
	Owner string

	// Filename is the path of the spooled job file, shown by the engine.
	Filename string

	// Hostname is the host the job was spooled from, shown by the engine.
	Hostname string

	// EngineHost and EnginePort retarget the client before sending. If
	// they differ from the client's current address, the client drops
	// its cached connection and reconfigures first.
	EngineHost string
	EnginePort int
}

// Spool serializes the job and submits it to the engine, returning the new
// job id. Serialization errors (e.g. RequiredValueError for an incomplete
// graph) propagate unwrapped; transport and engine failures are returned as
// SpoolError.
func (j *Job) Spool(c engine.Client, opts SpoolOptions) (int64, error) {
	return spool(j, c, opts)
}

// Spool submits the task subtree as its own job.
func (t *Task) Spool(c engine.Client, opts SpoolOptions) (int64, error) {
	return spool(t, c, opts)
}

func spool(e Element, c engine.Client, opts SpoolOptions) (int64, error) {
	text, err := e.Render()
	if err != nil {
		return 0, err // malformed graph, not a transport problem
	}

	if opts.EngineHost != "" || opts.EnginePort != 0 {
		curHost, curPort := c.Addr()
		host, port := curHost, curPort
		if opts.EngineHost != "" {
			host = opts.EngineHost
		}
		if opts.EnginePort != 0 {
			port = opts.EnginePort
		}
		if host != curHost || port != curPort {
			c.Reconfigure(host, port)
		}
	}

	resp, err := c.Spool(text, engine.SpoolOptions{
		SkipLogin: true,
		Block:     opts.Block,
		Owner:     opts.Owner,
		Filename:  opts.Filename,
		Hostname:  opts.Hostname,
	})
	if err != nil {
		return 0, SpoolError{Err: err}
	}
	return resp.Jid, nil
}
