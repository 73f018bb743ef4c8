package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// listCategories are the words "list" treats as a category rather than a
// search term.
var listCategories = []string{"social", "work", "finance", "shopping", "other", "all"}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Verify(ctx context.Context) error
	SessionStatus(ctx context.Context) error
	Profile(ctx context.Context) error
	List(ctx context.Context, category, search string) error
	Add(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Update(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop ends on EOF, on "exit" or "quit", or when ctx is done.
//
//	Not logged in:
//	  help, register, login, exit | quit
//
//	Logged in:
//	  help
//	  list [category] [search]  list entries, optionally filtered
//	  add                       add an entry
//	  show <id>                 show an entry and its decrypted password
//	  update <id>               edit an entry
//	  delete <id>               delete an entry
//	  verify                    check the master password
//	  session                   show the session time left
//	  profile                   show the account
//	  export                    export the vault to object storage
//	  logout, exit | quit
//
// Command errors are reported by the handlers themselves and do not stop
// the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("pm %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		dispatch(ctx, a, cmd, args)

		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: (l)ist [category] [search], add, show <id>, update <id>, delete <id>, verify, session, profile, export, logout, exit")
		} else {
			printlnFn("Available commands: register, login, exit")
		}
		return

	case "register":
		_ = a.Register(ctx)
		return

	case "login":
		_ = a.Login(ctx)
		return
	}

	if !a.isLoggedIn() {
		if isKnownCommand(cmd) {
			printlnFn("Please log in first.")
		} else {
			printlnFn("Unknown command:", cmd)
		}
		return
	}

	switch cmd {
	case "l", "list":
		category, search := parseListArgs(args)
		_ = a.List(ctx, category, search)

	case "add":
		_ = a.Add(ctx)

	case "show", "update", "delete":
		if len(args) != 1 {
			printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
			return
		}
		switch cmd {
		case "show":
			_ = a.Show(ctx, args[0])
		case "update":
			_ = a.Update(ctx, args[0])
		default:
			_ = a.Delete(ctx, args[0])
		}

	case "verify":
		_ = a.Verify(ctx)

	case "session":
		_ = a.SessionStatus(ctx)

	case "profile":
		_ = a.Profile(ctx)

	case "export":
		_ = a.Export(ctx)

	case "logout":
		_ = a.Logout(ctx)

	default:
		printlnFn("Unknown command:", cmd)
	}
}

func isKnownCommand(cmd string) bool {
	switch cmd {
	case "l", "list", "add", "show", "update", "delete", "verify", "session", "profile", "export", "logout":
		return true
	}
	return false
}

// parseListArgs treats a leading category word as the category filter and
// joins the rest into the search term.
func parseListArgs(args []string) (category, search string) {
	if len(args) > 0 && slices.Contains(listCategories, strings.ToLower(args[0])) {
		category, args = strings.ToLower(args[0]), args[1:]
	}
	return category, strings.Join(args, " ")
}
