package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	ShowLog(ctx context.Context) error
	History(ctx context.Context, args []string) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// Commands
//
//	help           show available commands
//	login          sign in (prompts for email and password)
//	logout         sign out
//	status         show session state, expiry and renewal countdown
//	log            print the whole activity log
//	history [n]    print the last n persisted entries (default 20)
//	exit | quit    leave the program
//
// Errors returned by handlers are ignored; handlers report through the
// activity log or print their own notice.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("netkeeper %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn("Available commands: logout, status, log, history [n], exit")
			} else {
				printlnFn("Available commands: login, status, log, history [n], exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "log":
			_ = a.ShowLog(ctx)

		case "history":
			_ = a.History(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
