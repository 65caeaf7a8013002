// Package tests hosts the rsc.io/script transcript suite for the six
// concrete end-to-end scenarios in spec.md §8, run against
// cmd/scenariorunner rather than decomposing each scenario into many
// chained littera CLI invocations: the script language has no way to
// capture one step's minted id and thread it into the next step's
// arguments, so each scenario is one Go function exercised through one
// "go run" step, and the transcript only asserts on that step's
// stdout. cmd/littera's own flag wiring and output rendering are
// covered separately by the scenario tests in cmd/littera.
package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"
)

func TestScenarios(t *testing.T) {
	repoRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatal(err)
	}

	engine := &script.Engine{
		Cmds:  script.DefaultCmds(),
		Conds: script.DefaultConds(),
	}
	env := append(os.Environ(),
		"LITTERA_TEST_MODE=1",
		"REPO="+repoRoot,
	)

	scripttest.Run(t, context.Background(), engine, env, "testdata/*.txt")
}
