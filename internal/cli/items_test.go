package cli

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/faizmokh/tudu/internal/todo"
)

func TestAddCommandAppendsTodoItem(t *testing.T) {
	rt := newTestRuntime(t)

	out := executeCommand(t, newAddCommand(rt), "buy", "milk")
	assertContains(t, out, "Added 1. [todo] buy milk")

	list := readList(t, rt)
	if list.Len() != 1 {
		t.Fatalf("Len = %d, want 1", list.Len())
	}
	item, err := list.Item(0)
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if item.Status != todo.StatusTodo {
		t.Fatalf("status = %v, want todo", item.Status)
	}
	if item.Contents != "buy milk" {
		t.Fatalf("contents = %q, want %q", item.Contents, "buy milk")
	}
}

func TestAddCommandRequiresText(t *testing.T) {
	rt := newTestRuntime(t)

	err := executeCommandErr(t, newAddCommand(rt), "   ")
	if err == nil || !strings.Contains(err.Error(), "text is required") {
		t.Fatalf("err = %v, want text is required", err)
	}
}

func TestAddCommandTruncatesLongText(t *testing.T) {
	rt := newTestRuntime(t)

	executeCommand(t, newAddCommand(rt), strings.Repeat("x", 600))

	item, err := readList(t, rt).Item(0)
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if len(item.Contents) != todo.MaxContentsLen-1 {
		t.Fatalf("contents len = %d, want %d", len(item.Contents), todo.MaxContentsLen-1)
	}
}

func TestAdvanceCommandCyclesStatus(t *testing.T) {
	rt := newTestRuntime(t)
	seedList(t, rt, "write tests")

	out := executeCommand(t, newAdvanceCommand(rt), "1")
	assertContains(t, out, "Advanced item 1: [doing] write tests")

	out = executeCommand(t, newAdvanceCommand(rt), "1")
	assertContains(t, out, "[done] write tests")

	out = executeCommand(t, newAdvanceCommand(rt), "1")
	assertContains(t, out, "[todo] write tests")
}

func TestDeleteCommandRemovesItem(t *testing.T) {
	rt := newTestRuntime(t)
	seedList(t, rt, "a", "b", "c")

	out := executeCommand(t, newDeleteCommand(rt), "2")
	assertContains(t, out, "Deleted item 2: [todo] b")

	got := contents(readList(t, rt))
	if strings.Join(got, ",") != "a,c" {
		t.Fatalf("contents = %v, want [a c]", got)
	}
}

func TestDeleteCommandRejectsBadIndex(t *testing.T) {
	rt := newTestRuntime(t)
	seedList(t, rt, "only")

	cases := []struct {
		arg  string
		want string
	}{
		{"0", "index must be a positive integer"},
		{"abc", "index must be a positive integer"},
		{"2", "index 2 out of range (list has 1 item)"},
	}
	for _, tc := range cases {
		err := executeCommandErr(t, newDeleteCommand(rt), tc.arg)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("delete %s: err = %v, want %q", tc.arg, err, tc.want)
		}
	}

	if readList(t, rt).Len() != 1 {
		t.Fatalf("list changed after rejected deletes")
	}
}

func TestEditCommandReplacesText(t *testing.T) {
	rt := newTestRuntime(t)
	seedList(t, rt, "buy milk")

	out := executeCommand(t, newEditCommand(rt), "1", "buy", "oat", "milk")
	assertContains(t, out, "Updated item 1: [todo] buy oat milk")
}

func TestEditCommandSetsStatus(t *testing.T) {
	rt := newTestRuntime(t)
	seedList(t, rt, "ship")

	out := executeCommand(t, newEditCommand(rt), "--status", "done", "1")
	assertContains(t, out, "[done] ship")

	out = executeCommand(t, newEditCommand(rt), "--status", "doing", "1")
	assertContains(t, out, "[doing] ship")
}

func TestEditCommandNeedsChange(t *testing.T) {
	rt := newTestRuntime(t)
	seedList(t, rt, "ship")

	if err := executeCommandErr(t, newEditCommand(rt), "1"); err == nil {
		t.Fatalf("expected error when nothing to change")
	}
	if err := executeCommandErr(t, newEditCommand(rt), "--status", "later", "1"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestSwapCommandExchangesItems(t *testing.T) {
	rt := newTestRuntime(t)
	seedList(t, rt, "a", "b", "c")

	out := executeCommand(t, newSwapCommand(rt), "1", "3")
	assertContains(t, out, "Swapped items 1 and 3")

	got := contents(readList(t, rt))
	if strings.Join(got, ",") != "c,b,a" {
		t.Fatalf("contents = %v, want [c b a]", got)
	}

	if err := executeCommandErr(t, newSwapCommand(rt), "1", "4"); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestListCommandPrintsItems(t *testing.T) {
	rt := newTestRuntime(t)

	out := executeCommand(t, newListCommand(rt))
	assertContains(t, out, "No items")

	seedList(t, rt, "first", "second")
	executeCommand(t, newAdvanceCommand(rt), "2")

	out = executeCommand(t, newListCommand(rt))
	assertContains(t, out, "1. [todo] first")
	assertContains(t, out, "2. [doing] second")

	out = executeCommand(t, newListCommand(rt), "--status", "doing")
	assertNotContains(t, out, "first")
	assertContains(t, out, "2. [doing] second")
}

func TestListCommandJSON(t *testing.T) {
	rt := newTestRuntime(t)
	seedList(t, rt, "first", "second")

	out := executeCommand(t, newListCommand(rt), "--json")

	var items []jsonItem
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("json.Unmarshal: %v\n%s", err, out)
	}
	if len(items) != 2 {
		t.Fatalf("items len = %d, want 2", len(items))
	}
	if items[1].Index != 2 || items[1].Contents != "second" || items[1].Status != "todo" {
		t.Fatalf("unexpected item: %+v", items[1])
	}
}

func TestListCommandReportsCorruptFile(t *testing.T) {
	rt := newTestRuntime(t)
	path := rt.manager.ListPath(rt.cfg.List)
	if err := os.WriteFile(path, []byte{0xff, 0xff, 0xff, 0xff}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := executeCommandErr(t, newListCommand(rt))
	if !errors.Is(err, todo.ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out := executeCommand(t, newVersionCommand())
	assertContains(t, out, "tudu dev")
}

func TestParseIndex(t *testing.T) {
	list := todo.NewList()
	for _, text := range []string{"a", "b"} {
		if err := list.Add(todo.NewItem(text)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	index, err := parseIndex("2", list)
	if err != nil {
		t.Fatalf("parseIndex: %v", err)
	}
	if index != 1 {
		t.Fatalf("index = %d, want 1", index)
	}

	for _, bad := range []string{"", "-1", "0", "3", "1.5"} {
		if _, err := parseIndex(bad, list); err == nil {
			t.Fatalf("parseIndex(%q) succeeded", bad)
		}
	}
}

func TestFormatItemAbsoluteTime(t *testing.T) {
	item := todo.NewItem("read")
	got := formatItem(item, false)
	want := "[todo] read (" + item.CreatedAt.Format("2006-01-02 15:04") + ")"
	if got != want {
		t.Fatalf("formatItem = %q, want %q", got, want)
	}
}

func TestEditCommandRejectsStatusBeforeTouchingList(t *testing.T) {
	rt := newTestRuntime(t)
	path := rt.manager.ListPath(rt.cfg.List)
	corrupt := []byte{0xff, 0xff, 0xff, 0xff}
	if err := os.WriteFile(path, corrupt, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := executeCommandErr(t, newEditCommand(rt), "--status", "later", "1", "new", "text")
	if err == nil || !strings.Contains(err.Error(), `invalid status "later"`) {
		t.Fatalf("err = %v, want invalid status", err)
	}
	if errors.Is(err, todo.ErrFormat) {
		t.Fatalf("list was read before the status was validated")
	}
}
