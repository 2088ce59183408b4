// Copyright 2025, Framewell, Inc.

package main

import (
	"github.com/framewell/spool/spoolc"
)

func main() {
	spoolc.Run()
}
