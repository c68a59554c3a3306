package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Show(ctx context.Context) error
	SetUsername(ctx context.Context) error
	SetPref(ctx context.Context) error
	WalletAdd(ctx context.Context) error
	WalletSub(ctx context.Context) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
	Foreground(ctx context.Context) error
	Background(ctx context.Context) error
}

func (a *App) getStatus() string {
	st := a.store.State()
	s := ""
	if st.Session != nil {
		s = st.Session.Email + " "
	}
	s = s + string(st.SyncStatus)
	return fmt.Sprintf("(%s)", s)
}

// Root starts the interactive loop reading from stdin. It blocks until the
// user exits or stdin is closed.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to DupliVerse CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           - show available commands
//	  - register       - create an account
//	  - login          - authenticate
//	  - status         - show sync state
//	  - exit | quit    - leave the program
//
//	Logged in:
//	  - help           - show available commands
//	  - whoami         - show the current session
//	  - show           - print the profile
//	  - username       - change the username
//	  - pref           - set a preference key
//	  - topup / spend  - wallet operations
//	  - sync           - force a re-fetch from the server
//	  - status         - show sync state
//	  - fg / bg        - simulate visibility changes
//	  - logout         - log out and wipe local data
//	  - exit | quit    - leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dv %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, show, username, pref, topup, spend, sync, status, fg, bg, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "show":
			_ = a.Show(ctx)

		case "username":
			_ = a.SetUsername(ctx)

		case "pref":
			_ = a.SetPref(ctx)

		case "topup":
			_ = a.WalletAdd(ctx)

		case "spend":
			_ = a.WalletSub(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.Status(ctx)

		case "fg", "foreground":
			_ = a.Foreground(ctx)

		case "bg", "background":
			_ = a.Background(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
