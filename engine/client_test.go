// Copyright 2025, Framewell, Inc.

package engine_test

import (
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/framewell/spool/engine"
	"github.com/framewell/spool/proto"
)

// hostPort extracts the host and port a test server listens on.
func hostPort(t *testing.T, ts *httptest.Server) (string, int) {
	t.Helper()
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return host, port
}

func TestSpool(t *testing.T) {
	payload := "Job -title {test} -subtasks {\n  Task {t}\n}"

	var gotMethod, gotPath, gotContentType, gotBody string
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotContentType = r.Header.Get("Content-Type")
		body, _ := ioutil.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprint(w, `{"jid": 7, "msg": "spooled"}`)
	}))
	defer ts.Close()

	host, port := hostPort(t, ts)
	c := engine.NewClient(host, port)
	resp, err := c.Spool(payload, engine.SpoolOptions{
		Owner:    "producer",
		Filename: "/jobs/test.yaml",
		Hostname: "ws1",
	})
	if err != nil {
		t.Fatalf("err = %s, expected nil", err)
	}
	if resp.Jid != 7 {
		t.Errorf("jid = %d, expected 7", resp.Jid)
	}
	if resp.Msg != "spooled" {
		t.Errorf("msg = %s, expected spooled", resp.Msg)
	}

	if gotMethod != "POST" {
		t.Errorf("method = %s, expected POST", gotMethod)
	}
	if gotPath != "/Engine/spool" {
		t.Errorf("path = %s, expected /Engine/spool", gotPath)
	}
	if gotContentType != proto.ContentTypeSpool {
		t.Errorf("content type = %s, expected %s", gotContentType, proto.ContentTypeSpool)
	}
	if gotBody != payload {
		t.Errorf("body = %q, expected %q", gotBody, payload)
	}
	if v := gotQuery.Get("spvers"); v != proto.SpoolVersion {
		t.Errorf("spvers = %s, expected %s", v, proto.SpoolVersion)
	}
	if v := gotQuery.Get("jobOwner"); v != "producer" {
		t.Errorf("jobOwner = %s, expected producer", v)
	}
	if v := gotQuery.Get("jobFile"); v != "/jobs/test.yaml" {
		t.Errorf("jobFile = %s, expected /jobs/test.yaml", v)
	}
	if v := gotQuery.Get("hnm"); v != "ws1" {
		t.Errorf("hnm = %s, expected ws1", v)
	}
	if v := gotQuery.Get("jobAuthor"); v == "" {
		t.Error("jobAuthor is empty, expected the current user")
	}
	if gotQuery.Get("blocking") != "" {
		t.Error("blocking is set on a non-blocking spool")
	}
}

func TestSpoolBlocking(t *testing.T) {
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"jid": 1}`)
	}))
	defer ts.Close()

	host, port := hostPort(t, ts)
	c := engine.NewClient(host, port)
	if _, err := c.Spool("Job", engine.SpoolOptions{Block: true}); err != nil {
		t.Fatalf("err = %s, expected nil", err)
	}
	if v := gotQuery.Get("blocking"); v != "spool" {
		t.Errorf("blocking = %s, expected spool", v)
	}
}

func TestSpoolDefaultFilename(t *testing.T) {
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"jid": 1}`)
	}))
	defer ts.Close()

	host, port := hostPort(t, ts)
	c := engine.NewClient(host, port)
	if _, err := c.Spool("Job", engine.SpoolOptions{}); err != nil {
		t.Fatalf("err = %s, expected nil", err)
	}
	if v := gotQuery.Get("jobFile"); v != "no filename specified" {
		t.Errorf("jobFile = %q, expected %q", v, "no filename specified")
	}
}

func TestSpoolEngineRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "syntax error in job script", http.StatusBadRequest)
	}))
	defer ts.Close()

	host, port := hostPort(t, ts)
	c := engine.NewClient(host, port)
	_, err := c.Spool("garbage", engine.SpoolOptions{Block: true})
	if err == nil {
		t.Fatal("expected an error but did not get one")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("err = %s, expected it to mention status 400", err)
	}
	if !strings.Contains(err.Error(), "syntax error in job script") {
		t.Errorf("err = %s, expected it to include the response body", err)
	}
}

func TestSpoolBadResponseBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer ts.Close()

	host, port := hostPort(t, ts)
	c := engine.NewClient(host, port)
	_, err := c.Spool("Job", engine.SpoolOptions{})
	if err == nil {
		t.Fatal("expected an error but did not get one")
	}
}

func TestPing(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"jobs": 0}`)
	}))
	defer ts.Close()

	host, port := hostPort(t, ts)
	c := engine.NewClient(host, port)
	if err := c.Ping(); err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	if gotPath != "/Engine/monitor" {
		t.Errorf("path = %s, expected /Engine/monitor", gotPath)
	}
	if v := gotQuery.Get("q"); v != "ping" {
		t.Errorf("q = %s, expected ping", v)
	}
}

func TestPingDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	host, port := hostPort(t, ts)
	c := engine.NewClient(host, port)
	if err := c.Ping(); err == nil {
		t.Error("expected an error but did not get one")
	}
}

func TestReconfigure(t *testing.T) {
	var hitsA, hitsB int
	tsA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsA++
		fmt.Fprint(w, `{"jid": 1}`)
	}))
	defer tsA.Close()
	tsB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsB++
		fmt.Fprint(w, `{"jid": 2}`)
	}))
	defer tsB.Close()

	hostA, portA := hostPort(t, tsA)
	hostB, portB := hostPort(t, tsB)

	c := engine.NewClient(hostA, portA)
	if _, err := c.Spool("Job", engine.SpoolOptions{}); err != nil {
		t.Fatalf("err = %s, expected nil", err)
	}

	c.Reconfigure(hostB, portB)
	gotHost, gotPort := c.Addr()
	if gotHost != hostB || gotPort != portB {
		t.Errorf("addr = %s:%d, expected %s:%d", gotHost, gotPort, hostB, portB)
	}

	resp, err := c.Spool("Job", engine.SpoolOptions{})
	if err != nil {
		t.Fatalf("err = %s, expected nil", err)
	}
	if resp.Jid != 2 {
		t.Errorf("jid = %d, expected 2 (from the second engine)", resp.Jid)
	}
	if hitsA != 1 {
		t.Errorf("first engine hits = %d, expected 1", hitsA)
	}
	if hitsB != 1 {
		t.Errorf("second engine hits = %d, expected 1", hitsB)
	}
}

func TestClientDefaults(t *testing.T) {
	c := engine.NewClientConfig(engine.Config{})
	host, port := c.Addr()
	if host != engine.DEFAULT_HOST {
		t.Errorf("host = %s, expected %s", host, engine.DEFAULT_HOST)
	}
	if port != engine.DEFAULT_PORT {
		t.Errorf("port = %d, expected %d", port, engine.DEFAULT_PORT)
	}
}
