package cli

import (
	"bufio"
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(s string) error {
	f.calls = append(f.calls, s)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.loggedIn = true
	return f.record("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Verify(ctx context.Context) error        { return f.record("verify") }
func (f *fakeExec) SessionStatus(ctx context.Context) error { return f.record("session") }
func (f *fakeExec) Profile(ctx context.Context) error       { return f.record("profile") }
func (f *fakeExec) List(ctx context.Context, category, search string) error {
	return f.record(fmt.Sprintf("list[%s|%s]", category, search))
}
func (f *fakeExec) Add(ctx context.Context) error               { return f.record("add") }
func (f *fakeExec) Show(ctx context.Context, id string) error   { return f.record("show " + id) }
func (f *fakeExec) Update(ctx context.Context, id string) error { return f.record("update " + id) }
func (f *fakeExec) Delete(ctx context.Context, id string) error { return f.record("delete " + id) }
func (f *fakeExec) Export(ctx context.Context) error            { return f.record("export") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func runScript(t *testing.T, f *fakeExec, script ...string) []string {
	t.Helper()
	lines := captureOutput(t)
	reader := bufio.NewReader(strings.NewReader(strings.Join(script, "\n") + "\n"))
	runREPL(context.Background(), f, func() string { return "" }, reader)
	return *lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	f := &fakeExec{}
	runScript(t, f,
		"login",
		"list",
		"l work",
		"list git hub",
		"list Finance bank",
		"add",
		"show e1",
		"update e1",
		"delete e1",
		"verify",
		"session",
		"profile",
		"export",
		"logout",
		"exit",
		"add",
	)

	want := []string{
		"login",
		"list[|]",
		"list[work|]",
		"list[|git hub]",
		"list[finance|bank]",
		"add",
		"show e1",
		"update e1",
		"delete e1",
		"verify",
		"session",
		"profile",
		"export",
		"logout",
	}
	if !reflect.DeepEqual(f.calls, want) {
		t.Fatalf("calls = %v\nwant %v", f.calls, want)
	}
}

func TestRunREPL_RequiresLogin(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "list", "show e1", "frobnicate", "quit")

	if len(f.calls) != 0 {
		t.Fatalf("no command should run before login, got %v", f.calls)
	}
	joined := strings.Join(out, "\n")
	if strings.Count(joined, "Please log in first.") != 2 {
		t.Fatalf("expected two login hints, got %q", joined)
	}
	if !strings.Contains(joined, "Unknown command:frobnicate") {
		t.Fatalf("expected unknown command notice, got %q", joined)
	}
	if !strings.Contains(joined, "Bye!") {
		t.Fatalf("expected goodbye, got %q", joined)
	}
}

func TestRunREPL_IDUsage(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	out := runScript(t, f, "show", "delete a b", "exit")

	if len(f.calls) != 0 {
		t.Fatalf("commands without a single id must not run, got %v", f.calls)
	}
	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "Usage: show <id>") || !strings.Contains(joined, "Usage: delete <id>") {
		t.Fatalf("expected usage lines, got %q", joined)
	}
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "help", "register", "help")

	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "register, login, exit") {
		t.Fatalf("expected logged-out help, got %q", joined)
	}
	if !strings.Contains(joined, "show <id>") {
		t.Fatalf("expected logged-in help, got %q", joined)
	}
}

func TestRunREPL_StopsOnEOFWithoutNewline(t *testing.T) {
	f := &fakeExec{}
	lines := captureOutput(t)
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader("login")))

	if !reflect.DeepEqual(f.calls, []string{"login"}) {
		t.Fatalf("calls = %v", f.calls)
	}
	if len(*lines) == 0 {
		t.Fatalf("expected a prompt to be printed")
	}
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	f := &fakeExec{}
	captureOutput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runREPL(ctx, f, func() string { return "" }, bufio.NewReader(strings.NewReader("login\n")))
	if len(f.calls) != 0 {
		t.Fatalf("no command should run after cancel, got %v", f.calls)
	}
}

func TestParseListArgs(t *testing.T) {
	cases := []struct {
		args           []string
		category, srch string
	}{
		{nil, "", ""},
		{[]string{"all"}, "all", ""},
		{[]string{"WORK", "git"}, "work", "git"},
		{[]string{"github"}, "", "github"},
		{[]string{"my", "bank"}, "", "my bank"},
	}
	for _, tc := range cases {
		c, s := parseListArgs(tc.args)
		if c != tc.category || s != tc.srch {
			t.Errorf("parseListArgs(%v) = %q,%q want %q,%q", tc.args, c, s, tc.category, tc.srch)
		}
	}
}
