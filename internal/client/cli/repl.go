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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error
	Check(ctx context.Context) error
	Prefs(ctx context.Context) error
	SetTheme(ctx context.Context, name string) error
	SetUnits(ctx context.Context, system string) error
	ListCatches(ctx context.Context, args []string) error
	AddCatch(ctx context.Context) error
	DeleteCatch(ctx context.Context, id string) error
	PhotoURL(ctx context.Context, key string) error
	ListGroups(ctx context.Context, args []string) error
	AddGroup(ctx context.Context) error
	DeleteGroup(ctx context.Context, id string) error
	JoinGroup(ctx context.Context, groupID string) error
	LeaveGroup(ctx context.Context, groupID string) error
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ListEvents(ctx context.Context, args []string) error
	AddEvent(ctx context.Context) error
	DeleteEvent(ctx context.Context, id string) error
	Attend(ctx context.Context, eventID string) error
	Unattend(ctx context.Context, eventID string) error
	ListComments(ctx context.Context, catchID string) error
	AddComment(ctx context.Context, catchID string) error
	EditComment(ctx context.Context, id string) error
	DeleteComment(ctx context.Context, id string) error
}

const (
	helpLoggedOut = "Available commands: register, login, status, check, exit"
	helpLoggedIn  = "Available commands: whoami, status, check, prefs, theme, units, " +
		"catches, addcatch, delcatch, photo, " +
		"groups, newgroup, delgroup, join, leave, addmember, rmmember, " +
		"events, newevent, delevent, attend, unattend, " +
		"comments, comment, editcomment, delcomment, logout, exit"
)

// sessionCommands need a logged-in user.
var sessionCommands = map[string]bool{
	"logout": true, "whoami": true, "prefs": true, "theme": true, "units": true,
	"catches": true, "l": true, "addcatch": true, "delcatch": true, "photo": true,
	"groups": true, "newgroup": true, "delgroup": true, "join": true, "leave": true,
	"addmember": true, "rmmember": true,
	"events": true, "newevent": true, "delevent": true, "attend": true, "unattend": true,
	"comments": true, "comment": true, "editcomment": true, "delcomment": true,
}

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit", or until ctx is done.
//
//	Always:
//	  register, login, status, check, help, exit
//
//	Logged in only:
//	  whoami, prefs, theme <name>, units <system>,
//	  catches [all | group <id>], addcatch, delcatch <id>, photo <key>,
//	  groups [all], newgroup, delgroup <id>, join <id>, leave <id>,
//	  addmember <groupId> <userId>, rmmember <groupId> <userId>,
//	  events [all], newevent, delevent <id>, attend <id>, unattend <id>,
//	  comments <catchId>, comment <catchId>, editcomment <id>,
//	  delcomment <id>, logout
//
// A logged-in command typed without a session prints a hint and does
// nothing. Errors returned by handlers are not printed here: failures of
// session and document operations already reach the user through the
// notifier.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("fishlog %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if sessionCommands[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "status":
			_ = a.Status(ctx)

		case "check":
			_ = a.Check(ctx)

		case "prefs":
			_ = a.Prefs(ctx)

		case "theme":
			_ = a.SetTheme(ctx, firstArg(args))

		case "units":
			_ = a.SetUnits(ctx, firstArg(args))

		case "catches", "l":
			_ = a.ListCatches(ctx, args)

		case "addcatch":
			_ = a.AddCatch(ctx)

		case "delcatch":
			_ = a.DeleteCatch(ctx, firstArg(args))

		case "photo":
			_ = a.PhotoURL(ctx, firstArg(args))

		case "groups":
			_ = a.ListGroups(ctx, args)

		case "newgroup":
			_ = a.AddGroup(ctx)

		case "delgroup":
			_ = a.DeleteGroup(ctx, firstArg(args))

		case "join":
			_ = a.JoinGroup(ctx, firstArg(args))

		case "leave":
			_ = a.LeaveGroup(ctx, firstArg(args))

		case "addmember":
			_ = a.AddMember(ctx, firstArg(args), nthArg(args, 1))

		case "rmmember":
			_ = a.RemoveMember(ctx, firstArg(args), nthArg(args, 1))

		case "events":
			_ = a.ListEvents(ctx, args)

		case "newevent":
			_ = a.AddEvent(ctx)

		case "delevent":
			_ = a.DeleteEvent(ctx, firstArg(args))

		case "attend":
			_ = a.Attend(ctx, firstArg(args))

		case "unattend":
			_ = a.Unattend(ctx, firstArg(args))

		case "comments":
			_ = a.ListComments(ctx, firstArg(args))

		case "comment":
			_ = a.AddComment(ctx, firstArg(args))

		case "editcomment":
			_ = a.EditComment(ctx, firstArg(args))

		case "delcomment":
			_ = a.DeleteComment(ctx, firstArg(args))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func firstArg(args []string) string {
	return nthArg(args, 0)
}

func nthArg(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return args[i]
}
