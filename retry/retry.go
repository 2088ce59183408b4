// Copyright 2025, Framewell, Inc.

// Package retry retries an operation with a fixed sleep between tries.
// The spool path never retries on its own (a failed submission surfaces as
// a SpoolError); retry policy belongs to callers like spoolc, which uses
// this package to wait for an engine to come up.
package retry

import (
	"time"
)

type TryFunc func() error
type LogFunc func(error)

// Do calls tryFunc up to tries times, sleeping between attempts and
// logging each intermediate error through logFunc (if non-nil). The last
// error is returned if every try fails.
func Do(tries int, sleep time.Duration, tryFunc TryFunc, logFunc LogFunc) error {
	var err error
	for i := 0; i < tries; i++ {
		if err = tryFunc(); err == nil {
			return nil
		}
		if i < tries-1 {
			if logFunc != nil {
				logFunc(err)
			}
			time.Sleep(sleep)
		}
	}
	return err
}
