package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/services"
	"github.com/dmitrijs2005/gymdesk/internal/common"
)

func (a *App) Gyms(ctx context.Context, _ []string) error {
	gyms, err := a.admin.Gyms(ctx)
	if err != nil {
		return err
	}
	if len(gyms) == 0 {
		a.println(subtleStyle.Render("No gyms yet. Use 'creategym' to add one."))
		return nil
	}

	rows := make([][]string, 0, len(gyms))
	active := 0
	for _, g := range gyms {
		status := "suspended"
		if g.IsActive {
			status = "active"
			active++
		}
		members := ""
		if g.Stats != nil {
			members = strconv.Itoa(g.Stats.TotalMembers)
		}
		rows = append(rows, []string{g.ID, g.Name, g.City, g.SubscriptionPlan, day(g.SubscriptionExpiry), status, members})
	}
	a.println(titleStyle.Render(fmt.Sprintf("Gyms (%d, %d active)", len(gyms), active)))
	a.println(table([]string{"ID", "Name", "City", "Plan", "Expires", "Status", "Members"}, rows))
	return nil
}

// CreateGym creates a gym together with its manager account and prints the
// credentials to hand over.
func (a *App) CreateGym(ctx context.Context, _ []string) error {
	var f services.CreateGymForm
	g := &f.Gym

	if err := a.ask([]string{"Gym name *"}, &g.Name); err != nil {
		return err
	}
	var err error
	if g.Address, err = a.optional("Address", ""); err != nil {
		return err
	}
	if err := a.ask([]string{"City *", "State *"}, &g.City, &g.State); err != nil {
		return err
	}
	if g.Phone, err = a.optional("Phone", ""); err != nil {
		return err
	}
	if err := a.ask([]string{"Gym email *", "Manager email *"}, &g.Email, &f.OwnerEmail); err != nil {
		return err
	}
	pw, err := a.password("Temporary password *")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	f.TempPassword = string(pw)

	created, err := a.admin.CreateGym(ctx, f)
	if err != nil {
		return err
	}
	a.ok("Gym Created Successfully!")
	a.println(card("Gym Manager Credentials",
		field("Gym ID", created.GymID),
		field("Email", f.OwnerEmail),
		field("Password", f.TempPassword),
		subtleStyle.Render("Share these credentials with the gym manager."),
	))
	return nil
}

func (a *App) ActivateGym(ctx context.Context, args []string) error {
	return a.setGymStatus(ctx, args, "activate", true)
}

func (a *App) SuspendGym(ctx context.Context, args []string) error {
	return a.setGymStatus(ctx, args, "suspend", false)
}

func (a *App) setGymStatus(ctx context.Context, args []string, name string, active bool) error {
	if err := needArgs(args, 1, name, "<gym-id>"); err != nil {
		return err
	}
	msg, err := a.admin.SetStatus(ctx, args[0], active)
	if err != nil {
		return err
	}
	a.ok(msg)
	return nil
}

func (a *App) Subscription(ctx context.Context, args []string) error {
	const usage = "<gym-id> <plan> [days]"
	if err := needArgs(args, 2, "subscription", usage); err != nil {
		return err
	}
	var days int
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return api.Invalid("Days must be a positive whole number")
		}
		days = n
	}

	res, err := a.admin.UpdateSubscription(ctx, args[0], strings.ToLower(args[1]), days)
	if err != nil {
		if api.KindOf(err) == api.KindValidation {
			a.println(subtleStyle.Render("Plans: " + strings.Join(models.SubscriptionPlans, ", ")))
		}
		return err
	}
	a.ok(res.Message)
	a.println(field("Expires", day(res.NewExpiry)))
	return nil
}

func (a *App) DeleteGym(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "deletegym", "<gym-id>"); err != nil {
		return err
	}
	yes, err := a.confirm("Delete gym " + args[0] + " with all its members, attendance and payments?")
	if err != nil || !yes {
		return err
	}
	if err := a.admin.DeleteGym(ctx, args[0]); err != nil {
		return err
	}
	a.ok("Gym deleted")
	return nil
}
