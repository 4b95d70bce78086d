// Package console is a line-oriented presentation surface for the user list:
// it renders the collection as cards and the form as a modal, and maps typed
// commands onto controller operations.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	domain "user-crud-console/internal/domain/user"
	"user-crud-console/internal/usecase/userlist"
	apperrors "user-crud-console/pkg/errors"
)

// Controller is the surface of userlist.Controller the console drives.
type Controller interface {
	Load(ctx context.Context) error
	OpenCreate() error
	OpenEdit(record domain.User) error
	Close() error
	UpdateField(field, value string) error
	Save(ctx context.Context) error
	Delete(ctx context.Context, id int64) error
	Users() []domain.User
	Find(id int64) (domain.User, bool)
	Session() userlist.Session
}

const helpText = `Commands:
  list | l              show all users
  add                   open the form for a new user
  edit <id>             open the form for user <id>
  set <field> <value>   set name, email or phone in the open form
  save                  submit the open form
  close                 discard the open form
  delete <id>           delete user <id>
  reload                fetch the list again
  help                  show this help
  exit | quit           leave`

// Console renders controller state to out and executes commands.
type Console struct {
	ctrl Controller
	out  io.Writer
	log  *zap.Logger
}

// New creates a Console writing to out.
func New(ctrl Controller, out io.Writer, log *zap.Logger) *Console {
	return &Console{ctrl: ctrl, out: out, log: log}
}

// Run reads commands from in until EOF, exit or ctx cancellation.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(c.out, c.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if quit := c.Execute(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

func (c *Console) prompt() string {
	if s := c.ctrl.Session(); s.Visible {
		return fmt.Sprintf("users [%s]> ", s.Title())
	}
	return "users> "
}

// Execute runs one command line and reports whether the user asked to quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
	case "help":
		fmt.Fprintln(c.out, helpText)

	case "l", "list":
		renderCards(c.out, c.ctrl.Users())

	case "reload":
		if c.report(c.ctrl.Load(ctx)) {
			renderCards(c.out, c.ctrl.Users())
		}

	case "add":
		if c.report(c.ctrl.OpenCreate()) {
			renderForm(c.out, c.ctrl.Session())
		}

	case "edit":
		id, ok := c.parseID(rest)
		if !ok {
			return false
		}
		record, found := c.ctrl.Find(id)
		if !found {
			fmt.Fprintf(c.out, "error: no user with id %d\n", id)
			return false
		}
		if c.report(c.ctrl.OpenEdit(record)) {
			renderForm(c.out, c.ctrl.Session())
		}

	case "set":
		field, value, _ := strings.Cut(rest, " ")
		if c.report(c.ctrl.UpdateField(strings.ToLower(field), value)) {
			renderForm(c.out, c.ctrl.Session())
		}

	case "save":
		if c.report(c.ctrl.Save(ctx)) {
			fmt.Fprintln(c.out, "saved")
			renderCards(c.out, c.ctrl.Users())
		}

	case "close":
		c.report(c.ctrl.Close())

	case "delete":
		id, ok := c.parseID(rest)
		if !ok {
			return false
		}
		if c.report(c.ctrl.Delete(ctx, id)) {
			fmt.Fprintf(c.out, "deleted user %d\n", id)
		}

	case "exit", "quit":
		fmt.Fprintln(c.out, "Bye!")
		return true

	default:
		fmt.Fprintf(c.out, "unknown command %q, type help\n", cmd)
	}
	return false
}

func (c *Console) parseID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "error: %q is not a user id\n", arg)
		return 0, false
	}
	return id, true
}

// report prints err and reports whether the operation succeeded. The
// required-fields notice has already been shown by the Notifier.
func (c *Console) report(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, apperrors.ErrFieldsRequired):
	case errors.Is(err, apperrors.ErrNoSession):
		fmt.Fprintln(c.out, "error: no form is open, use add or edit <id>")
	default:
		c.log.Debug("command failed", zap.Error(err))
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return false
}

// Notifier prints blocking notices raised by the controller.
type Notifier struct {
	out io.Writer
}

// NewNotifier creates a Notifier writing to out.
func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

// Notify implements userlist.Notifier.
func (n *Notifier) Notify(message string) {
	fmt.Fprintf(n.out, "! %s\n", message)
}
