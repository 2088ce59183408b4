// Copyright 2025, Framewell, Inc.

package spoolc

import (
	"testing"

	"github.com/framewell/spool/engine"
)

func TestSplitAddr(t *testing.T) {
	host, port, err := splitAddr("farm-engine.example.com:9000")
	if err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	if host != "farm-engine.example.com" {
		t.Errorf("host = %s, expected farm-engine.example.com", host)
	}
	if port != 9000 {
		t.Errorf("port = %d, expected 9000", port)
	}
}

func TestSplitAddrNoPort(t *testing.T) {
	host, port, err := splitAddr("farm-engine.example.com")
	if err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	if host != "farm-engine.example.com" {
		t.Errorf("host = %s, expected farm-engine.example.com", host)
	}
	if port != engine.DEFAULT_PORT {
		t.Errorf("port = %d, expected %d", port, engine.DEFAULT_PORT)
	}
}

func TestSplitAddrBadPort(t *testing.T) {
	_, _, err := splitAddr("farm-engine.example.com:ninety")
	if err == nil {
		t.Error("expected an error but did not get one")
	}
}
