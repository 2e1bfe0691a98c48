package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/soltweet/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // rewrite golden traces
	Filter string // glob matched against scenario file names
}

// StepOutcome is the receipt one scenario step produced.
type StepOutcome struct {
	Step     int    `json:"step"`
	Author   string `json:"author"`
	Tweet    string `json:"tweet"`
	Slot     int64  `json:"slot"`
	Outcome  string `json:"outcome"`  // "ok" or the receipt error code
	Expected string `json:"expected"` // what the scenario asked for
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string               `json:"name"`
	File   string               `json:"file"`
	Pass   bool                 `json:"pass"`
	Golden harness.GoldenStatus `json:"golden,omitempty"`
	Steps  []StepOutcome        `json:"steps,omitempty"`
	Errors []string             `json:"errors,omitempty"`
}

// TestResult aggregates every scenario run by one test command.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run tweet scenarios",
		Long: `Run YAML tweet scenarios, each against a fresh in-memory ledger.

A scenario passes when every step produces its expected receipt
(ok or an error code such as TopicTooLong) and every assertion holds.
When golden/<name>.golden exists beside a scenario file, the step trace
must also match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  soltweet test ./scenarios
  soltweet test ./scenarios --filter "length*"
  soltweet test ./scenarios --update
  soltweet test ./scenarios --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden traces from this run")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenario files whose name matches this glob")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}

	files, err := discoverScenarios(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := TestResult{Scenarios: []ScenarioResult{}, Total: len(files)}
	for _, file := range files {
		sr := opts.runScenarioFile(file)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
	}

	formatter := opts.formatter(cmd)
	if formatter.Format == "json" {
		if result.Failed > 0 {
			err = formatter.Error("TEST_FAILED", fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total), result)
		} else {
			err = formatter.Success(result)
		}
		if err != nil {
			return err
		}
	} else {
		renderTestText(formatter.Writer, result, opts.Verbose)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// discoverScenarios returns the .yaml and .yml files under dir whose base
// name, without extension, matches filter.
func discoverScenarios(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			ok, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil || !ok {
				return err
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenarioFile loads, runs and golden-checks one scenario.
func (o *TestOptions) runScenarioFile(file string) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("load scenario: %v", err)}
		return sr
	}
	sr.Name = scenario.Name

	o.logger().Debug("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	result, err := harness.Run(scenario)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("run scenario: %v", err)}
		return sr
	}

	sr.Steps = make([]StepOutcome, len(result.Trace))
	for i, ev := range result.Trace {
		outcome := harness.ExpectOK
		if ev.ErrorCode != "" {
			outcome = ev.ErrorCode
		}
		sr.Steps[i] = StepOutcome{
			Step:     ev.Step,
			Author:   ev.Author,
			Tweet:    ev.Tweet,
			Slot:     ev.Slot,
			Outcome:  outcome,
			Expected: scenario.Steps[i].ExpectedOutcome(),
		}
	}
	sr.Errors = result.Errors
	sr.Pass = result.Pass

	goldenPath := harness.GoldenPath(file)
	sr.Golden, err = harness.CheckGolden(goldenPath, scenario.Name, result, o.Update)
	switch {
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("golden: %v", err))
	case sr.Golden == harness.GoldenMismatch:
		sr.Pass = false
		sr.Errors = append(sr.Errors,
			fmt.Sprintf("trace differs from %s (rerun with --update to accept)", goldenPath))
	}
	return sr
}

// renderTestText prints one line per scenario. Failed scenarios, and every
// scenario under --verbose, also list their step receipts.
func renderTestText(w io.Writer, result TestResult, verbose bool) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}

	for _, sr := range result.Scenarios {
		mark := "✓"
		if !sr.Pass {
			mark = "✗"
		}
		summary := fmt.Sprintf("%d step", len(sr.Steps))
		if len(sr.Steps) != 1 {
			summary += "s"
		}
		if sr.Golden != "" && sr.Golden != harness.GoldenAbsent {
			summary += ", golden " + string(sr.Golden)
		}
		fmt.Fprintf(w, "%s %s (%s)\n", mark, sr.Name, summary)

		if verbose || !sr.Pass {
			for _, st := range sr.Steps {
				flag := " "
				if st.Outcome != st.Expected {
					flag = "!"
				}
				fmt.Fprintf(w, "  %s step %d slot %d %s by %s: %s", flag, st.Step, st.Slot, st.Tweet, st.Author, st.Outcome)
				if st.Outcome != st.Expected {
					fmt.Fprintf(w, " (expected %s)", st.Expected)
				}
				fmt.Fprintln(w)
			}
		}
		for _, e := range sr.Errors {
			fmt.Fprintf(w, "    %s\n", e)
		}
	}

	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}
