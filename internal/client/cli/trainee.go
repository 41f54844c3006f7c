package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/services"
)

// recentVisits is how many attendance records the dashboard lists.
const recentVisits = 5

// Dashboard shows the membership card, recent visits and payments. When a
// fetch fails the screen renders empty and the error is returned.
func (a *App) Dashboard(ctx context.Context, _ []string) error {
	d := a.trainee.Dashboard(ctx)

	name := "Member"
	if u := a.session.State().User; u != nil && u.Name != "" {
		name = u.Name
	}
	a.println(titleStyle.Render("Welcome, " + name))

	a.println(membershipCard(name, d.Profile))
	a.println(visitsCard(d.Attendance))
	a.println(paymentsCard(d.Payments))
	return d.Err
}

func membershipCard(name string, p *models.Member) string {
	if p == nil || !p.HasMembership() {
		return card("Membership", subtleStyle.Render("No membership found"))
	}

	validTill := "Not Active"
	if p.MembershipExpiry != "" {
		validTill = day(p.MembershipExpiry)
	}
	goal := p.Goal
	if goal == "" {
		goal = "Fitness Enthusiast"
	}
	status := statusStyle(p.Status == models.MembershipActive).Render(upper(string(p.Status), "-"))

	return card(upper(p.MembershipPlan, "MEMBERSHIP"),
		field("Member", strings.ToUpper(name)),
		field("Gym", p.GymName),
		field("Goal", goal),
		field("Valid till", validTill),
		field("Status", status),
	)
}

func visitsCard(records []models.AttendanceRecord) string {
	if len(records) == 0 {
		return card("Attendance", subtleStyle.Render("No attendance records found"))
	}
	rows := make([][]string, 0, recentVisits)
	for _, r := range records[:min(len(records), recentVisits)] {
		out := "Not yet checked out"
		if r.CheckOutTime != "" {
			out = clock(r.CheckOutTime)
		}
		rows = append(rows, []string{day(r.CheckInTime), clock(r.CheckInTime), out})
	}
	return card("Attendance", table([]string{"Date", "Check-in", "Check-out"}, rows))
}

func paymentsCard(payments []models.Payment) string {
	if len(payments) == 0 {
		return card("Payment History", subtleStyle.Render("No payments yet"))
	}
	lines := make([]string, 0, len(payments))
	for _, p := range payments {
		st := statusStyle(p.Status == models.PaymentSuccess).Render(upper(string(p.Status), "-"))
		lines = append(lines, fmt.Sprintf("%s  %s", money(p.Amount), st))
	}
	return card("Payment History", lines...)
}

// MyPayments is the trainee payment screen.
func (a *App) MyPayments(ctx context.Context, _ []string) error {
	s := a.trainee.Payments(ctx)
	if s.Err != nil {
		return s.Err
	}
	if len(s.Payments) == 0 {
		a.println(subtleStyle.Render("No payments yet"))
		return nil
	}

	rows := make([][]string, 0, len(s.Payments))
	for _, p := range s.Payments {
		date := p.PaymentDate
		if date == "" {
			date = p.CreatedAt
		}
		rows = append(rows, []string{day(date), string(p.PaymentType), money(p.Amount), string(p.Status), p.InvoiceNumber})
	}
	a.println(table([]string{"Date", "Type", "Amount", "Status", "Invoice"}, rows))
	a.println(field("Total", money(s.Total)))
	if s.Profile != nil && s.Profile.MembershipExpiry != "" {
		a.println(field("Valid till", day(s.Profile.MembershipExpiry)))
	}
	return nil
}

func (a *App) Analytics(ctx context.Context, _ []string) error {
	s, err := a.trainee.Analytics(ctx)
	if err != nil {
		return err
	}
	a.println(card("Your Progress",
		field("Total visits", fmt.Sprint(s.TotalVisits)),
		field("Last 7 days", fmt.Sprint(s.VisitsLast7)),
		field("Last 30 days", fmt.Sprint(s.VisitsLast30)),
		field("Total paid", money(s.TotalPaid)),
		field("Last check-in", day(s.LastCheckIn)),
		field("Member since", day(s.MemberSince)),
		field("Plan", s.ActivePlan),
		field("Valid till", day(s.MembershipEnd)),
	))
	return nil
}

func (a *App) Plans(ctx context.Context, _ []string) error {
	workout, diet, err := a.trainee.Plans(ctx)
	if err != nil {
		return err
	}

	if workout == nil {
		a.println(card("Workout Plan", subtleStyle.Render("No workout plan assigned yet")))
	} else {
		var lines []string
		for _, d := range workout.WorkoutDays {
			lines = append(lines, titleStyle.Render(d.Day))
			for _, e := range d.Exercises {
				line := fmt.Sprintf("  %s  %dx%d, rest %ds", e.Name, e.Sets, e.Reps, e.RestSeconds)
				if e.Notes != "" {
					line += subtleStyle.Render("  " + e.Notes)
				}
				lines = append(lines, line)
			}
		}
		a.println(card("Workout Plan: "+workout.PlanName, lines...))
	}

	if diet == nil {
		a.println(card("Diet Plan", subtleStyle.Render("No diet plan assigned yet")))
		return nil
	}
	var lines []string
	for _, m := range diet.DailyMeals {
		line := fmt.Sprintf("%s: %s", m.MealTime, strings.Join(m.Items, ", "))
		if m.Calories != nil {
			line += subtleStyle.Render(fmt.Sprintf("  %d kcal", *m.Calories))
		}
		lines = append(lines, line)
	}
	if diet.TotalCalories != nil {
		lines = append(lines, field("Total", fmt.Sprintf("%d kcal", *diet.TotalCalories)))
	}
	a.println(card("Diet Plan: "+diet.PlanName, lines...))
	return nil
}

// Progress lists logged progress, or logs a new entry with "progress log".
func (a *App) Progress(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "log" {
			return usageError{name: "progress", usage: "[log]"}
		}
		return a.logProgress(ctx)
	}

	logs, err := a.trainee.ProgressHistory(ctx)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		a.println(subtleStyle.Render("No progress logged yet"))
		return nil
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{day(l.LoggedDate), optFloat(l.Weight), optFloat(l.BodyFatPercentage), l.Notes})
	}
	a.println(table([]string{"Date", "Weight (kg)", "Body fat %", "Notes"}, rows))
	return nil
}

func (a *App) logProgress(ctx context.Context) error {
	var in models.ProgressInput

	w, err := a.optional("Weight in kg (optional)", "")
	if err != nil {
		return err
	}
	if in.Weight, err = parseOptFloat("Weight", w); err != nil {
		return err
	}
	bf, err := a.optional("Body fat % (optional)", "")
	if err != nil {
		return err
	}
	if in.BodyFatPercentage, err = parseOptFloat("Body fat", bf); err != nil {
		return err
	}
	if in.Notes, err = a.optional("Notes (optional)", ""); err != nil {
		return err
	}

	res, err := a.trainee.LogProgress(ctx, in)
	if err != nil {
		return err
	}
	a.ok(res.Message)
	return nil
}

// Chat sends the arguments to the AI coach. Without arguments it shows the
// conversation so far.
func (a *App) Chat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		history, err := a.coach.History(ctx)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			a.println(subtleStyle.Render("Ask me anything about workouts, diet or recovery: chat <message>"))
			return nil
		}
		for _, m := range history {
			a.println(chatLine(m.Role, m.Message))
		}
		return nil
	}

	reply, err := a.coach.Send(ctx, strings.Join(args, " "))
	if err != nil {
		a.println(chatLine(models.ChatRoleAssistant, services.MsgChatFailed))
		return err
	}
	a.println(chatLine(models.ChatRoleAssistant, reply.Response))
	return nil
}

func chatLine(role, msg string) string {
	if role == models.ChatRoleUser {
		return subtleStyle.Render("you: ") + msg
	}
	return titleStyle.Render("coach: ") + msg
}
