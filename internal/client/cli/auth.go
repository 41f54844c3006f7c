package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/services"
	"github.com/dmitrijs2005/gymdesk/internal/common"
)

// Roles offered at self-registration.
var registerRoles = map[string]models.Role{
	"trainee": models.RoleTrainee,
	"manager": models.RoleGymManager,
}

func (a *App) text(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) optional(prompt, def string) (string, error) {
	return GetOptional(a.reader, prompt, def, a.out)
}

func (a *App) password(prompt string) ([]byte, error) {
	return GetPassword(a.reader, a.stdin, prompt, a.out)
}

// Login prompts for whatever of email and password is missing and signs in.
func (a *App) Login(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = a.text("Email"); err != nil {
			return err
		}
	}

	pw, err := a.password("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	u, err := a.auth.Login(ctx, email, string(pw))
	if err != nil {
		return err
	}
	a.welcome(u)
	return nil
}

// Register creates a trainee or gym manager account and signs it in.
func (a *App) Register(ctx context.Context, _ []string) error {
	name, err := a.text("Full name")
	if err != nil {
		return err
	}
	email, err := a.text("Email")
	if err != nil {
		return err
	}
	phone, err := a.optional("Phone (optional)", "")
	if err != nil {
		return err
	}
	roleName, err := a.optional("I am a (trainee/manager)", "trainee")
	if err != nil {
		return err
	}
	role, ok := registerRoles[roleName]
	if !ok {
		return api.Invalid("Choose trainee or manager")
	}

	pw, err := a.password("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	u, err := a.auth.Register(ctx, models.RegisterRequest{
		Email:    email,
		Password: string(pw),
		Name:     name,
		Role:     role,
		Phone:    phone,
	})
	if err != nil {
		return err
	}
	a.welcome(u)
	return nil
}

// OAuth completes a Google sign-in from the session id, or the redirect URL
// carrying it.
func (a *App) OAuth(ctx context.Context, args []string) error {
	var ref string
	if len(args) > 0 {
		ref = args[0]
	} else {
		var err error
		if ref, err = a.text("Paste the redirect URL or session id"); err != nil {
			return err
		}
	}

	u, err := a.auth.CompleteOAuth(ctx, ref)
	if err != nil {
		return err
	}
	a.welcome(u)
	return nil
}

func (a *App) welcome(u *models.Identity) {
	a.ok(fmt.Sprintf("Welcome, %s!", u.Name))
	a.println(subtleStyle.Render(fmt.Sprintf("Signed in as %s. Your %s commands are listed under 'help'.", u.Role, services.Landing(u.Role))))
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out.")
	return nil
}

// WhoAmI asks the backend who the stored credential belongs to.
func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	u, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}
	lines := []string{
		field("Name", u.Name),
		field("Email", u.Email),
		field("Role", string(u.Role)),
		field("Dashboard", services.Landing(u.Role)),
	}
	if u.Phone != "" {
		lines = append(lines, field("Phone", u.Phone))
	}
	a.println(card("Profile", lines...))
	return nil
}

func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	var pws [3][]byte
	defer func() {
		for _, p := range pws {
			common.WipeByteArray(p)
		}
	}()

	for i, prompt := range []string{"Current password", "New password", "Confirm new password"} {
		p, err := a.password(prompt)
		if err != nil {
			return err
		}
		pws[i] = p
	}

	if err := a.auth.ChangePassword(ctx, string(pws[0]), string(pws[1]), string(pws[2])); err != nil {
		return err
	}
	a.ok("Password changed successfully!")
	return nil
}

// Status reports whether the backend answers its health check.
func (a *App) Status(ctx context.Context, _ []string) error {
	h, err := a.api.Health(ctx)
	if err != nil {
		a.setMode(ctx, ModeOffline)
		return err
	}
	a.setMode(ctx, ModeOnline)
	a.println(field("Backend", a.api.BaseURL()))
	a.println(field("Status", statusStyle(h.Status == "healthy").Render(h.Status)))
	return nil
}
