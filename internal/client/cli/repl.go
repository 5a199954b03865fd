package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	beforeCommand(ctx context.Context)
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error
	Edit(ctx context.Context) error
	Passwd(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error
	Refresh(ctx context.Context) error
	Can(ctx context.Context, what string) error
	Screens(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the VetClinic CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Signed out:
//	  - help          : show available commands
//	  - login         : authenticate
//	  - register      : create an account
//	  - forgot        : request a password reset link
//	  - reset         : set a new password with a reset token
//	  - exit | quit   : leave the program
//
//	Signed in:
//	  - help          : show available commands
//	  - whoami        : show the cached profile
//	  - profile       : reload the profile from the server
//	  - edit          : update profile fields
//	  - passwd        : change the password
//	  - refresh       : renew the credential if it is about to expire
//	  - can <x>       : check a role or permission
//	  - screens       : list screens and whether they are accessible
//	  - logout        : log out
//	  - exit | quit   : leave the program
//
// Any errors returned by command handlers are ignored here; handlers and the
// notifier report their own errors. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("vc %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd != "help" && cmd != "exit" && cmd != "quit" {
			a.beforeCommand(ctx)
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, edit, passwd, refresh, can <role|permission>, screens, logout, exit")
			} else {
				printlnFn("Available commands: login, register, forgot, reset, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "passwd":
			_ = a.Passwd(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "can":
			if len(args) == 0 {
				printlnFn("Usage: can <role|permission>")
				continue
			}
			_ = a.Can(ctx, args[0])

		case "screens":
			_ = a.Screens(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
