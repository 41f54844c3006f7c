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

// confirm asks a yes/no question; only "y" and "yes" agree.
func (a *App) confirm(prompt string) (bool, error) {
	v, err := a.text(prompt + " (y/N)")
	if err != nil {
		return false, err
	}
	v = strings.ToLower(v)
	return v == "y" || v == "yes", nil
}

// ask fills each target from a prompt, in order.
func (a *App) ask(prompts []string, targets ...*string) error {
	for i, p := range prompts {
		v, err := a.text(p)
		if err != nil {
			return err
		}
		*targets[i] = v
	}
	return nil
}

func (a *App) MyGym(ctx context.Context, _ []string) error {
	g, err := a.manager.MyGym(ctx)
	if err != nil {
		if api.KindOf(err) == api.KindRejected {
			a.println(subtleStyle.Render("Use 'registergym' to register your gym."))
		}
		return err
	}
	a.println(gymCard(g))
	return nil
}

func gymCard(g *models.Gym) string {
	status := "SUSPENDED"
	if g.IsActive {
		status = "ACTIVE"
	}
	lines := []string{
		field("ID", g.ID),
		field("Address", g.Address),
		field("City", strings.Trim(g.City+", "+g.State, ", ")),
		field("Phone", g.Phone),
		field("Email", g.Email),
		field("Status", statusStyle(g.IsActive).Render(status)),
		field("Plan", g.SubscriptionPlan),
		field("Plan expires", day(g.SubscriptionExpiry)),
		field("Check-in QR", g.QRCode),
	}
	if s := g.Stats; s != nil {
		lines = append(lines,
			field("Members", strconv.Itoa(s.TotalMembers)),
			field("Active", strconv.Itoa(s.ActiveMembers)),
			field("Today", strconv.Itoa(s.TodayAttendance)),
		)
	}
	return card(g.Name, lines...)
}

func (a *App) RegisterGym(ctx context.Context, _ []string) error {
	var in models.GymInput
	err := a.ask([]string{"Gym name", "Address", "City", "State", "Phone", "Gym email"},
		&in.Name, &in.Address, &in.City, &in.State, &in.Phone, &in.Email)
	if err != nil {
		return err
	}

	created, err := a.manager.RegisterGym(ctx, in)
	if err != nil {
		return err
	}
	a.ok(created.Message)
	a.println(field("Gym ID", created.GymID))
	a.println(field("Check-in QR", created.QRCode))
	return nil
}

// Roster lists members, optionally filtered by a search term, and trainers.
func (a *App) Roster(ctx context.Context, args []string) error {
	r := a.manager.Roster(ctx)
	if r.Err != nil {
		return r.Err
	}

	trainerNames := make(map[string]string, len(r.Trainers))
	for _, t := range r.Trainers {
		trainerNames[t.ID] = t.UserName
	}

	members := services.SearchMembers(r.Members, strings.Join(args, " "))
	if len(members) == 0 {
		a.println(subtleStyle.Render("No members found"))
	} else {
		rows := make([][]string, 0, len(members))
		for _, m := range members {
			rows = append(rows, []string{
				m.ID, m.UserName, m.UserEmail, m.MembershipPlan,
				day(m.MembershipExpiry), string(m.Status), trainerNames[m.AssignedTrainerID],
			})
		}
		a.println(titleStyle.Render(fmt.Sprintf("Members (%d)", len(members))))
		a.println(table([]string{"ID", "Name", "Email", "Plan", "Expires", "Status", "Trainer"}, rows))
	}

	if len(r.Trainers) > 0 {
		rows := make([][]string, 0, len(r.Trainers))
		for _, t := range r.Trainers {
			rows = append(rows, []string{t.ID, t.UserName, t.UserEmail})
		}
		a.println(titleStyle.Render(fmt.Sprintf("Trainers (%d)", len(r.Trainers))))
		a.println(table([]string{"ID", "Name", "Email"}, rows))
	}
	return nil
}

func (a *App) AddMember(ctx context.Context, _ []string) error {
	var in models.MemberInput
	if err := a.ask([]string{"Name", "Email", "Phone"}, &in.Name, &in.Email, &in.Phone); err != nil {
		return err
	}
	pw, err := a.password("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	in.Password = string(pw)

	if in.IsTrainer, err = a.confirm("Is this a trainer?"); err != nil {
		return err
	}
	if !in.IsTrainer {
		if in.MembershipPlan, err = a.optional("Membership plan", "Monthly"); err != nil {
			return err
		}
		months, err := a.optional("Duration in months", "1")
		if err != nil {
			return err
		}
		if in.PlanDurationMonths, err = strconv.Atoi(months); err != nil {
			return api.Invalid("Duration must be a whole number of months")
		}
		if in.Goal, err = a.optional("Goal (optional)", ""); err != nil {
			return err
		}
	}

	created, err := a.manager.AddMember(ctx, in)
	if err != nil {
		return err
	}
	a.ok(created.Message)
	a.println(field("Member ID", created.MemberID))
	return nil
}

func (a *App) AssignTrainer(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "assign", "<member-id> <trainer-id>"); err != nil {
		return err
	}
	var trainerID string
	if len(args) > 1 {
		trainerID = args[1]
	}
	if err := a.manager.AssignTrainer(ctx, args[0], trainerID); err != nil {
		return err
	}
	a.ok("Trainer assigned successfully")
	return nil
}

func (a *App) RemoveMember(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "removemember", "<member-id>"); err != nil {
		return err
	}
	yes, err := a.confirm("Remove member " + args[0] + "?")
	if err != nil || !yes {
		return err
	}
	if err := a.manager.DeleteMember(ctx, args[0]); err != nil {
		return err
	}
	a.ok("Member removed")
	return nil
}

// Attendance shows one day's check-ins; the default is today.
func (a *App) Attendance(ctx context.Context, args []string) error {
	var date string
	if len(args) > 0 {
		date = args[0]
	}

	o := a.manager.Attendance(ctx, date)
	if o.Err != nil {
		return o.Err
	}

	names := make(map[string]string, len(o.Members))
	for _, m := range o.Members {
		names[m.ID] = m.UserName
	}

	s := o.Stats
	if s == nil {
		s = &models.AttendanceStats{SelectedDate: date}
	}
	a.println(card("Attendance "+s.SelectedDate,
		field("Check-ins", strconv.Itoa(s.TodayCount)),
		field("Last 7 days", strconv.Itoa(s.WeekCount)),
		field("Members", strconv.Itoa(len(o.Members))),
	))
	if len(s.TodayRecords) == 0 {
		a.println(subtleStyle.Render("No check-ins on this day"))
		return nil
	}
	rows := make([][]string, 0, len(s.TodayRecords))
	for _, r := range s.TodayRecords {
		name := names[r.MemberID]
		if name == "" {
			name = r.MemberID
		}
		out := "-"
		if r.CheckOutTime != "" {
			out = clock(r.CheckOutTime)
		}
		rows = append(rows, []string{name, clock(r.CheckInTime), out})
	}
	a.println(table([]string{"Member", "Check-in", "Check-out"}, rows))
	return nil
}

// RecordPayment walks through the payment form for the chosen type.
func (a *App) RecordPayment(ctx context.Context, _ []string) error {
	types := make([]string, len(models.PaymentTypes))
	for i, t := range models.PaymentTypes {
		types[i] = string(t)
	}
	a.println(subtleStyle.Render("Payment types: " + strings.Join(types, ", ")))

	var f services.PaymentForm
	t, err := a.optional("Payment type", string(models.PaymentNewMembership))
	if err != nil {
		return err
	}
	f.Type = models.PaymentType(t)
	if f.Amount, err = a.text("Amount"); err != nil {
		return err
	}

	switch f.Type {
	case models.PaymentNewMembership:
		nm := &f.NewMember
		if err := a.ask([]string{"Member name", "Member email", "Member phone"}, &nm.Name, &nm.Email, &nm.Phone); err != nil {
			return err
		}
		pw, err := a.password("Member password")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(pw)
		nm.Password = string(pw)
		if f.DurationMonths, err = a.optional("Duration in months", "1"); err != nil {
			return err
		}
	case models.PaymentRenewal:
		if f.MemberID, err = a.text("Member ID"); err != nil {
			return err
		}
		if f.DurationMonths, err = a.optional("Extend by months", "1"); err != nil {
			return err
		}
	default:
		if f.MemberID, err = a.text("Member ID"); err != nil {
			return err
		}
	}

	msg, err := a.manager.RecordPayment(ctx, f)
	if err != nil {
		return err
	}
	a.ok(msg)
	return nil
}

// GymPayments lists the gym's successful payments.
func (a *App) GymPayments(ctx context.Context, _ []string) error {
	payments, err := a.manager.Payments(ctx)
	if err != nil {
		return err
	}
	if len(payments) == 0 {
		a.println(subtleStyle.Render("No payments yet"))
		return nil
	}
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{day(p.PaymentDate), p.MemberName, string(p.PaymentType), money(p.Amount), p.InvoiceNumber})
	}
	a.println(table([]string{"Date", "Member", "Type", "Amount", "Invoice"}, rows))
	a.println(field("Total", money(models.TotalAmount(payments))))
	return nil
}
