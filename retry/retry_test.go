// Copyright 2025, Framewell, Inc.

package retry_test

import (
	"errors"
	"testing"

	"github.com/framewell/spool/retry"
)

func TestDoSucceedsAfterRetry(t *testing.T) {
	calls := 0
	logged := 0
	err := retry.Do(3, 0, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, func(error) { logged++ })
	if err != nil {
		t.Errorf("err = %s, expected nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, expected 3", calls)
	}
	if logged != 2 {
		t.Errorf("logged = %d, expected 2", logged)
	}
}

func TestDoReturnsLastError(t *testing.T) {
	last := errors.New("still broken")
	calls := 0
	err := retry.Do(2, 0, func() error {
		calls++
		return last
	}, nil)
	if err != last {
		t.Errorf("err = %v, expected %v", err, last)
	}
	if calls != 2 {
		t.Errorf("calls = %d, expected 2", calls)
	}
}
