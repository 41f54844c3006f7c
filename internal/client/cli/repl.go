package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/attendance"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/common"
)

const sessionEndedMsg = "Your session has ended. Please log in again."

// access says who may run a command.
type access int

const (
	anyone access = iota
	guestOnly
	signedIn
)

type command struct {
	name   string
	usage  string
	short  string
	access access
	// roles narrows signedIn commands; empty means every role.
	roles []models.Role
	run   func(ctx context.Context, args []string) error
}

func (c command) allowed(u *models.Identity) bool {
	switch c.access {
	case guestOnly:
		return u == nil
	case signedIn:
		return u != nil && (len(c.roles) == 0 || slices.Contains(c.roles, u.Role))
	default:
		return true
	}
}

var (
	managers      = []models.Role{models.RoleGymManager}
	trainees      = []models.Role{models.RoleTrainee}
	admins        = []models.Role{models.RoleHeadAdmin}
	planners      = []models.Role{models.RoleGymManager, models.RoleTrainer}
	memberReaders = []models.Role{models.RoleGymManager, models.RoleTrainer, models.RoleHeadAdmin}
)

// commands is the shell's command table. A name may appear more than once
// for different roles; the first allowed entry wins.
func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "[email]", short: "sign in with email and password", access: guestOnly, run: a.Login},
		{name: "register", short: "create an account", access: guestOnly, run: a.Register},
		{name: "oauth", usage: "<session-id|redirect-url>", short: "finish a Google sign-in", access: guestOnly, run: a.OAuth},
		{name: "status", short: "check the backend", run: a.Status},
		{name: "scan", usage: "[payload...]", short: "mark attendance from gym QR codes", run: a.ScanArgs},

		{name: "whoami", short: "show the signed-in user", access: signedIn, run: a.WhoAmI},
		{name: "passwd", short: "change your password", access: signedIn, run: a.ChangePassword},
		{name: "logout", short: "sign out", access: signedIn, run: a.Logout},

		{name: "dashboard", short: "membership, attendance and payments", access: signedIn, roles: trainees, run: a.Dashboard},
		{name: "payments", short: "payment history", access: signedIn, roles: trainees, run: a.MyPayments},
		{name: "analytics", short: "visit and spend summary", access: signedIn, roles: trainees, run: a.Analytics},
		{name: "plans", short: "assigned workout and diet plans", access: signedIn, roles: trainees, run: a.Plans},
		{name: "progress", usage: "[log]", short: "progress history, or log a new entry", access: signedIn, roles: trainees, run: a.Progress},
		{name: "chat", usage: "[message...]", short: "ask the AI coach, or show the conversation", access: signedIn, roles: trainees, run: a.Chat},

		{name: "gym", short: "your gym and today's figures", access: signedIn, roles: managers, run: a.MyGym},
		{name: "registergym", short: "register your gym", access: signedIn, roles: managers, run: a.RegisterGym},
		{name: "roster", usage: "[search]", short: "members and trainers", access: signedIn, roles: managers, run: a.Roster},
		{name: "addmember", short: "enrol a member or trainer", access: signedIn, roles: managers, run: a.AddMember},
		{name: "assign", usage: "<member-id> <trainer-id>", short: "assign a trainer", access: signedIn, roles: managers, run: a.AssignTrainer},
		{name: "removemember", usage: "<member-id>", short: "remove a member", access: signedIn, roles: managers, run: a.RemoveMember},
		{name: "attendance", usage: "[YYYY-MM-DD]", short: "attendance for a day", access: signedIn, roles: managers, run: a.Attendance},
		{name: "pay", short: "record a payment", access: signedIn, roles: managers, run: a.RecordPayment},
		{name: "payments", short: "successful payments at your gym", access: signedIn, roles: managers, run: a.GymPayments},

		{name: "member", usage: "<member-id>", short: "show one member", access: signedIn, roles: memberReaders, run: a.Member},
		{name: "workout", usage: "<member-id>", short: "create a workout plan", access: signedIn, roles: planners, run: a.CreateWorkout},
		{name: "diet", usage: "<member-id>", short: "create a diet plan", access: signedIn, roles: planners, run: a.CreateDiet},

		{name: "gyms", short: "all gyms", access: signedIn, roles: admins, run: a.Gyms},
		{name: "creategym", short: "create a gym and its manager account", access: signedIn, roles: admins, run: a.CreateGym},
		{name: "activate", usage: "<gym-id>", short: "activate a gym", access: signedIn, roles: admins, run: a.ActivateGym},
		{name: "suspend", usage: "<gym-id>", short: "suspend a gym", access: signedIn, roles: admins, run: a.SuspendGym},
		{name: "subscription", usage: "<gym-id> <plan> [days]", short: "change a gym's subscription", access: signedIn, roles: admins, run: a.Subscription},
		{name: "deletegym", usage: "<gym-id>", short: "delete a gym and its data", access: signedIn, roles: admins, run: a.DeleteGym},
	}
}

var (
	errUnknownCommand  = errors.New("unknown command")
	errAlreadySignedIn = errors.New("already signed in")
)

// lookup returns the entry for name that u may run. When name exists but
// none of its entries is allowed, the first entry is returned with false.
func (a *App) lookup(name string, u *models.Identity) (command, bool, error) {
	var (
		first command
		found bool
	)
	for _, c := range a.commands() {
		if c.name != name {
			continue
		}
		if c.allowed(u) {
			return c, true, nil
		}
		if !found {
			first, found = c, true
		}
	}
	if !found {
		return command{}, false, errUnknownCommand
	}
	return first, false, nil
}

// help lists what u can run right now.
func (a *App) help(u *models.Identity) {
	var rows [][]string
	for _, c := range a.commands() {
		if c.allowed(u) {
			rows = append(rows, []string{strings.TrimSpace(c.name + " " + c.usage), c.short})
		}
	}
	rows = append(rows, []string{"help", "this list"}, []string{"exit | quit", "leave the shell"})
	a.println(table([]string{"Command", "Description"}, rows))
}

// getStatus renders the prompt status: "(name role mode)".
func (a *App) getStatus(u *models.Identity) string {
	var parts []string
	if u != nil {
		parts = append(parts, u.Name, string(u.Role))
	}
	if m := a.Mode(); m != ModeUnknown {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// runREPL reads commands until EOF, "exit" or "quit". The session is
// reconciled with the secure store before every command, so a credential
// dropped on a 401 shows up as signed out straight away.
//
// Command errors are printed and the loop carries on.
func runREPL(ctx context.Context, a *App) {
	for {
		status := a.getStatus(a.user(ctx))
		fmt.Fprint(a.out, titleStyle.Render("gymdesk")+" "+status+"> ")

		line, err := readLine(a.reader)
		if err != nil {
			a.println()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			a.help(a.user(ctx))
			continue
		case "exit", "quit":
			a.println("Bye!")
			return
		}

		if err := a.dispatch(ctx, name, args); err != nil {
			a.fail(err)
		}
	}
}

// dispatch runs the command called name if the current session may.
func (a *App) dispatch(ctx context.Context, name string, args []string) error {
	u := a.user(ctx)
	c, ok, err := a.lookup(name, u)
	switch {
	case err != nil:
		return fmt.Errorf("%w: %s", err, name)
	case !ok && u == nil:
		return common.ErrNotAuthenticated
	case !ok && c.access == guestOnly:
		return errAlreadySignedIn
	case !ok:
		return fmt.Errorf("%s is not available to %s accounts", name, u.Role)
	}
	return c.run(ctx, args)
}

// Shell runs the interactive shell until the user leaves or ctx is done.
func (a *App) Shell(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println(titleStyle.Render("gymdesk") + subtleStyle.Render(" (type 'help' for commands)"))
	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)

	runREPL(ctx, a)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) ok(msg string) {
	a.println(okStyle.Render(msg))
}

func (a *App) warn(msg string) {
	a.println(errStyle.Render(msg))
}

// fail prints err the way the screens show alerts: the backend detail when
// there is one.
func (a *App) fail(err error) {
	msg := api.Message(err, err.Error())
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		msg = "Please log in first."
	case errors.Is(err, errAlreadySignedIn):
		msg = "You are already signed in. Log out first."
	case api.IsMalformed(err):
		msg = attendance.MsgUnexpected
	case api.KindOf(err) == api.KindNetwork:
		msg = attendance.MsgNetworkDown
	}
	a.println(errStyle.Render("Error: ") + msg)
}

// usageError is returned when a command is called with the wrong arguments.
type usageError struct {
	name, usage string
}

func (e usageError) Error() string {
	return "usage: " + strings.TrimSpace(e.name+" "+e.usage)
}

// needArgs returns a usageError unless args has at least n entries.
func needArgs(args []string, n int, name, usage string) error {
	if len(args) < n {
		return usageError{name: name, usage: usage}
	}
	return nil
}
