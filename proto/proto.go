// Copyright 2025, Framewell, Inc.

// Package proto provides engine message structures and constants shared by
// the author API, the engine client, and read-side tooling.
package proto

// SpoolVersion is the job submission protocol version sent with every
// spool transaction.
const SpoolVersion = "2.0"

// ContentTypeSpool is the content type of a spooled job script payload.
const ContentTypeSpool = "application/x-spool"

// Key fields identifying submitted work. Identifiers returned by spooling
// match the key fields the engine's query operations select on.
const (
	KeyJid = "jid" // job id
	KeyTid = "tid" // task id within a job
	KeyCid = "cid" // command id within a task
)

// Statement keywords in the job script format. The serialized form of a
// job graph is a sequence of statements `Kind [-attr {value}]*`.
const (
	StmtJob       = "Job"
	StmtTask      = "Task"
	StmtInstance  = "Instance"
	StmtCommand   = "Command"   // executed locally on the spooling host
	StmtRemoteCmd = "RemoteCmd" // executed on a farm host picked by the engine
	StmtIterate   = "Iterate"
	StmtAssign    = "Assign"
)

// SpoolRequest is the metadata accompanying a spooled job script. Fields
// map to the query attributes of the engine's spool endpoint.
type SpoolRequest struct {
	SpoolVersion string `json:"spvers"`
	Hostname     string `json:"hnm"`       // host the job was spooled from
	JobOwner     string `json:"jobOwner"`  // user the job runs as
	JobAuthor    string `json:"jobAuthor"` // user who submitted the job
	JobFile      string `json:"jobFile"`   // path of the spooled job file
	Cwd          string `json:"cwd"`
	Blocking     bool   `json:"blocking,omitempty"` // wait for engine validation
}

// SpoolResponse is the engine's reply to a spool transaction.
type SpoolResponse struct {
	Jid int64  `json:"jid"`
	Msg string `json:"msg,omitempty"`
}
