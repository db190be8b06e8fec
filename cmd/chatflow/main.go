// chatflow runs the conversational workflow engine.
//
// Usage:
//
//	chatflow serve  [--config=<url>] [--workflow=<url>] [--addr=:5000]
//	chatflow run    [--workflow=<url>] [--parallel=N] <message>...
//	chatflow lint   <workflow-url>...
//	chatflow secure --url=<resource> [--key=<scy key>] [--value=<secret>]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
