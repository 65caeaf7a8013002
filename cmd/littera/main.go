// Command littera is the Cobra binary over internal/command: a thin
// flag-to-function binding (spec.md §4.4), grounded on the teacher's
// cmd/bd layout but without its daemon/JSONL-sync machinery, since
// spec.md's Non-goals exclude multi-writer concurrency and cloud sync.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		fatal(err)
		os.Exit(exitCode(err))
	}
}
