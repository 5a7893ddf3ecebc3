package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// An interrupted recording already reported its summary.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "lectern:", err)
		}
		os.Exit(1)
	}
}
