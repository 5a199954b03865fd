package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls  []string
	arg    string
	before int
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) beforeCommand(context.Context) { f.before++ }
func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Whoami(context.Context) error { return f.record("whoami") }
func (f *fakeExec) Profile(context.Context) error { return f.record("profile") }
func (f *fakeExec) Edit(context.Context) error { return f.record("edit") }
func (f *fakeExec) Passwd(context.Context) error { return f.record("passwd") }
func (f *fakeExec) Forgot(context.Context) error { return f.record("forgot") }
func (f *fakeExec) Reset(context.Context) error { return f.record("reset") }
func (f *fakeExec) Refresh(context.Context) error { return f.record("refresh") }
func (f *fakeExec) Screens(context.Context) error { return f.record("screens") }

func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}

func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func (f *fakeExec) Can(_ context.Context, what string) error {
	f.arg = what
	return f.record("can")
}

func silencePrint(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &printed
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrint(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"whoami",
		"profile",
		"can admin",
		"screens",
		"refresh",
		"foobar",
		"logout",
		"exit",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	want := []string{"login", "whoami", "profile", "can", "screens", "refresh", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	if exec.arg != "admin" {
		t.Fatalf("can arg = %q", exec.arg)
	}
	// every command except help and exit runs the pre-command hook
	if exec.before != 8 {
		t.Fatalf("beforeCommand ran %d times, want 8", exec.before)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	printed := silencePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("can\nquit\n")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	found := false
	for _, p := range *printed {
		if p == "Usage: can <role|permission>" {
			found = true
		}
	}
	if !found {
		t.Fatalf("usage not printed: %v", *printed)
	}
}

func TestRunREPL_SignedOutCommands(t *testing.T) {
	silencePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("register\nforgot\nreset\n\n")))

	want := []string{"register", "forgot", "reset"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	silencePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("whoami")))

	if len(exec.calls) != 1 || exec.calls[0] != "whoami" {
		t.Fatalf("calls = %v", exec.calls)
	}
}
