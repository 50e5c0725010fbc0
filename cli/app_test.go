package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

const openFieldProblem = "../config/testdata/open_field.json"

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"optrrt"}, args...))
	return out.String(), errOut.String(), err
}

func TestPlanAction(t *testing.T) {
	dotPath := filepath.Join(t.TempDir(), "tree.dot")
	out, logs, err := runApp(t, "plan", "--samples", "3000", "--seed", "11", "--dot", dotPath, "--timing", openFieldProblem)
	test.That(t, err, test.ShouldBeNil)

	var res map[string]interface{}
	test.That(t, json.Unmarshal([]byte(out), &res), test.ShouldBeNil)
	test.That(t, res["status"], test.ShouldEqual, "exact solution")
	meta := res["meta"].(map[string]interface{})
	test.That(t, meta["sampled"], test.ShouldEqual, 3000.)

	test.That(t, logs, test.ShouldContainSubstring, "planning finished")
	test.That(t, logs, test.ShouldContainSubstring, "extractPath:")

	dot, err := os.ReadFile(dotPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.HasPrefix(string(dot), "strict digraph"), test.ShouldBeTrue)
	test.That(t, string(dot), test.ShouldContainSubstring, "open field")
}

func TestPlanActionErrors(t *testing.T) {
	_, _, err := runApp(t, "plan")
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = runApp(t, "plan", "does/not/exist.json")
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = runApp(t, "plan", "--samples", "10", "--valid-samples", "10", openFieldProblem)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "exactly one of samples and valid_samples")

	_, _, err = runApp(t, "plan", "--samples", "0", openFieldProblem)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSchemaAction(t *testing.T) {
	out, _, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	var schema map[string]interface{}
	test.That(t, json.Unmarshal([]byte(out), &schema), test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "termination")
}

func TestBenchAction(t *testing.T) {
	out, _, err := runApp(t, "bench", "--runs", "3", "--parallel", "2", "--samples", "5000", openFieldProblem)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "SEED")
	test.That(t, out, test.ShouldContainSubstring, "exact solution")
	test.That(t, out, test.ShouldContainSubstring, "solved 3/3")
	test.That(t, out, test.ShouldContainSubstring, "cost min")

	_, _, err = runApp(t, "bench", "--runs", "0", openFieldProblem)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSummarizeCosts(t *testing.T) {
	summary, err := summarizeCosts([]float64{1, 2, 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, summary, test.ShouldEqual, "cost min 1.0000 mean 2.0000 median 2.0000 stddev 0.8165")
}

func TestLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "optrrt.log")
	_, _, err := runApp(t, "--log-file", logPath, "plan", "--samples", "100", openFieldProblem)
	test.That(t, err, test.ShouldBeNil)
	contents, err := os.ReadFile(logPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, "planning finished")
}
