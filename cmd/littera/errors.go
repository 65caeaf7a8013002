package main

import "github.com/ikari-pl/littera/internal/errs"

// exitCode maps an error to a process exit code via errs.Kind.ExitCode()
// (spec.md §6: "exit codes per error Kind"), the same distinct-codes-per-
// failure-kind idea as the teacher's cmd/bd/errors.go FatalError family,
// generalized from "always exit 1" to the typed table errs.Kind already
// carries.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return errs.KindOf(err).ExitCode()
}
