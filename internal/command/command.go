// Package command holds the noun/verb operation catalog from spec.md §4.4:
// pure functions over internal/dataaccess that cmd/littera binds flags to.
// Every exported function here is the one place command intent (create a
// Document, reorder a Section, delete a Work) turns into Data Access calls;
// nothing above this package is allowed to call internal/dataaccess
// directly (spec.md §2: "front-ends and the Command Surface both call Data
// Access").
package command

import (
	"context"

	"github.com/ikari-pl/littera/internal/errs"
)

// Options carries the cross-cutting flags every command in cmd/littera
// exposes (spec.md §4.4: "every command must satisfy... previewability").
// DryRun and Force are the two that change what a command actually does;
// JSON-vs-human rendering is left entirely to cmd/littera, since Result
// values already carry stable field order for either presentation.
type Options struct {
	DryRun bool
	Force  bool
}

// nextOrderIndex returns max(existing)+1, the "assigns order_index as
// max+1 within siblings when not supplied" rule from spec.md §4.3. Callers
// that already have an explicit order index skip this.
func nextOrderIndex(indices []int) int {
	max := -1
	for _, i := range indices {
		if i > max {
			max = i
		}
	}
	return max + 1
}

// nonEmptyParent builds the InvariantViolation error spec.md §4.4 requires
// when a delete would cascade over non-empty descendants and --force was
// not given: "fails with a non-empty-parent error that enumerates the
// top-level descendants."
func nonEmptyParent(kind, id string, descendants []string) error {
	return errs.Invariantf("pass --force to delete anyway",
		"%s %s has %d descendant(s): %v", kind, id, len(descendants), descendants)
}

// dryRun, when opts.DryRun is set, short-circuits a command after its
// validation has already run (parent existence, conflict checks) but
// before any write, returning the same Result the real write would have
// produced so callers render an identical preview (spec.md §4.4:
// "Destructive commands accept a dry-run mode that prints the planned
// effect and touches no state").
func dryRun(opts Options) bool { return opts.DryRun }

// ctxErr wraps a context error as errs.BackendUnavailable, matching
// spec.md §5's treatment of suspension-point timeouts as a distinct,
// recoverable error kind rather than plain internal failure.
func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errs.BackendUnavailablef("retry once the operation has had time to complete",
			err, "operation cancelled or timed out")
	}
	return nil
}
