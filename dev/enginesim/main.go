// Copyright 2025, Framewell, Inc.

// enginesim is a development stand-in for a real engine. It accepts spool
// transactions, assigns increasing job ids, and remembers the spooled job
// scripts in memory. Use it to try spoolc or the author API without a farm:
//
//	go run ./dev/enginesim --listen 127.0.0.1:8080
//	spoolc --engine 127.0.0.1:8080 spool job.yaml
package main

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/alexflint/go-arg"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/orcaman/concurrent-map"
	log "github.com/sirupsen/logrus"

	"github.com/framewell/spool/proto"
)

type options struct {
	Listen string `arg:"env" help:"listen address"`
	Debug  bool
}

type engineSim struct {
	jid  int64
	jobs cmap.ConcurrentMap // jid (string) => job script
	echo *echo.Echo
}

func newEngineSim() *engineSim {
	s := &engineSim{
		jobs: cmap.New(),
		echo: echo.New(),
	}
	s.echo.POST("/Engine/spool", s.spoolHandler)
	s.echo.GET("/Engine/monitor", s.monitorHandler)
	s.echo.Use(middleware.Recover())
	return s
}

func (s *engineSim) spoolHandler(c echo.Context) error {
	body, err := ioutil.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	script := string(body)

	// ?fail=<code> forces an error response, for exercising client
	// error paths by hand.
	if v := c.QueryParam("fail"); v != "" {
		code, err := strconv.Atoi(v)
		if err != nil || code < 400 || code > 599 {
			code = http.StatusInternalServerError
		}
		return c.JSON(code, map[string]string{"msg": "forced failure"})
	}

	blocking := c.QueryParam("blocking") != ""
	if blocking {
		// A real engine parses and validates the whole script before
		// queueing a blocking spool. Checking the leading statement
		// keyword is enough to exercise client error paths.
		if !strings.HasPrefix(script, proto.StmtJob+" ") && !strings.HasPrefix(script, proto.StmtTask+" ") {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"msg": "job script must begin with a Job or Task statement",
			})
		}
	}

	jid := atomic.AddInt64(&s.jid, 1)
	s.jobs.Set(strconv.FormatInt(jid, 10), script)

	log.WithFields(log.Fields{
		"jid":      jid,
		"owner":    c.QueryParam("jobOwner"),
		"author":   c.QueryParam("jobAuthor"),
		"jobFile":  c.QueryParam("jobFile"),
		"spooled":  c.QueryParam("hnm"),
		"blocking": blocking,
		"bytes":    len(script),
	}).Info("job spooled")

	return c.JSON(http.StatusOK, proto.SpoolResponse{Jid: jid, Msg: "spooled"})
}

func (s *engineSim) monitorHandler(c echo.Context) error {
	switch c.QueryParam("q") {
	case "ping":
		return c.JSON(http.StatusOK, map[string]int64{"jobs": s.jid})
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"msg": "unknown monitor query"})
	}
}

func main() {
	var o options
	o.Listen = "127.0.0.1:8080"
	arg.MustParse(&o)
	if o.Debug {
		log.SetLevel(log.DebugLevel)
	}

	s := newEngineSim()
	log.WithFields(log.Fields{"listen": o.Listen}).Info("enginesim listening")
	if err := s.echo.Start(o.Listen); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
