package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/faizmokh/tudu/internal/config"
	"github.com/faizmokh/tudu/internal/files"
	"github.com/faizmokh/tudu/internal/todo"
)

func TestCLIWorkflowEndToEnd(t *testing.T) {
	rt := newTestRuntime(t)

	// 1. Add three items.
	assertContains(t, executeCommand(t, newAddCommand(rt), "write", "docs"), "Added 1. [todo] write docs")
	assertContains(t, executeCommand(t, newAddCommand(rt), "buy", "milk"), "Added 2. [todo] buy milk")
	assertContains(t, executeCommand(t, newAddCommand(rt), "ship", "release"), "Added 3. [todo] ship release")

	// 2. Start the first and finish the second.
	executeCommand(t, newAdvanceCommand(rt), "1")
	executeCommand(t, newEditCommand(rt), "--status", "done", "2")

	// 3. Move the release to the top.
	executeCommand(t, newSwapCommand(rt), "1", "3")

	listOut := executeCommand(t, newListCommand(rt))
	assertContains(t, listOut, "1. [todo] ship release")
	assertContains(t, listOut, "2. [done] buy milk")
	assertContains(t, listOut, "3. [doing] write docs")

	// 4. Rename and drop items.
	executeCommand(t, newEditCommand(rt), "3", "write", "full", "docs")
	executeCommand(t, newDeleteCommand(rt), "2")

	listOut = executeCommand(t, newListCommand(rt))
	assertNotContains(t, listOut, "buy milk")
	assertContains(t, listOut, "2. [doing] write full docs")

	// 5. The file on disk reflects every step.
	got := contents(readList(t, rt))
	if strings.Join(got, "|") != "ship release|write full docs" {
		t.Fatalf("stored contents = %v", got)
	}
}

func TestRootCommandFileFlagSelectsList(t *testing.T) {
	mgr := newTempManager(t)
	cfg := testConfig()

	executeCommand(t, NewRootCommand(mgr, cfg), "--file", "work", "add", "review", "PR")
	executeCommand(t, NewRootCommand(mgr, cfg), "add", "groceries")

	workOut := executeCommand(t, NewRootCommand(mgr, cfg), "-f", "work", "list")
	assertContains(t, workOut, "review PR")
	assertNotContains(t, workOut, "groceries")

	if _, err := os.Stat(filepath.Join(mgr.BasePath(), "work"+files.ListExt)); err != nil {
		t.Fatalf("work list not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mgr.BasePath(), files.DefaultListName+files.ListExt)); err != nil {
		t.Fatalf("default list not created: %v", err)
	}
}

func TestRootCommandFileFlagAcceptsPath(t *testing.T) {
	mgr := newTempManager(t)
	path := filepath.Join(t.TempDir(), "elsewhere.tudu")

	executeCommand(t, NewRootCommand(mgr, testConfig()), "--file", path, "add", "outside")

	list := todo.NewList()
	if err := todo.Load(list, path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if list.Len() != 1 {
		t.Fatalf("Len = %d, want 1", list.Len())
	}
}

func TestRootCommandLogLevelDebugLogsToStderr(t *testing.T) {
	mgr := newTempManager(t)

	cmd := NewRootCommand(mgr, testConfig())
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{"--log-level", "debug", "add", "noisy"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	assertContains(t, stdout.String(), "Added 1. [todo] noisy")
	assertContains(t, stderr.String(), "list saved")
	assertNotContains(t, stdout.String(), "list saved")
}

func TestRootCommandRejectsInvalidLogLevel(t *testing.T) {
	err := executeCommandErr(t, NewRootCommand(newTempManager(t), testConfig()), "--log-level", "loud", "list")
	if err == nil || !strings.Contains(err.Error(), "invalid log_level") {
		t.Fatalf("err = %v, want invalid log_level", err)
	}
}

func TestRootCommandUsesConfiguredList(t *testing.T) {
	mgr := newTempManager(t)
	cfg := testConfig()
	cfg.List = "errands"

	executeCommand(t, NewRootCommand(mgr, cfg), "add", "post office")

	if _, err := os.Stat(mgr.ListPath("errands")); err != nil {
		t.Fatalf("configured list not used: %v", err)
	}
}

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cmd.Execute(%q): %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func executeCommandErr(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output %q missing substring %q", output, want)
	}
}

func assertNotContains(t *testing.T, output, want string) {
	t.Helper()
	if strings.Contains(output, want) {
		t.Fatalf("output %q unexpectedly contained substring %q", output, want)
	}
}

func newTempManager(t *testing.T) *files.Manager {
	t.Helper()
	base := t.TempDir()
	mgr, err := files.NewManager(base)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.RelativeTime = false
	return cfg
}

func newTestRuntime(t *testing.T) *runtime {
	t.Helper()
	return newRuntime(newTempManager(t), testConfig())
}

func seedList(t *testing.T, rt *runtime, texts ...string) {
	t.Helper()
	for _, text := range texts {
		executeCommand(t, newAddCommand(rt), text)
	}
}

func readList(t *testing.T, rt *runtime) *todo.List {
	t.Helper()
	list, _, err := loadList(rt)
	if err != nil {
		t.Fatalf("loadList: %v", err)
	}
	return list
}

func contents(list *todo.List) []string {
	var out []string
	for _, item := range list.Items() {
		out = append(out, item.Contents)
	}
	return out
}
