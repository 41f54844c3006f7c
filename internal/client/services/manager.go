package services

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Validation messages shown by the manager screens.
const (
	MsgSelectTrainer     = "Please select a trainer"
	MsgPaymentRequired   = "Please fill required fields."
	MsgNewMemberRequired = "Please fill all new member details."
	MsgSelectMember      = "Please select an existing member."
	MsgPaymentMember     = "Select member for this payment."
	MsgAmountInvalid     = "Amount must be a positive number"
)

// Roster is the members screen: members and trainers joined.
type Roster struct {
	Members  []models.Member
	Trainers []models.Member
	Err      error
}

// AttendanceOverview is the manager attendance screen.
type AttendanceOverview struct {
	Stats   *models.AttendanceStats
	Members []models.Member
	Err     error
}

// PaymentForm is the manager "record payment" form. NewMember is used for
// new memberships; MemberID for everything else.
type PaymentForm struct {
	Type           models.PaymentType
	Amount         string
	DurationMonths string
	MemberID       string
	NewMember      models.MemberInput
}

type ManagerService struct {
	api *api.Client
	log logging.Logger
}

func NewManagerService(c *api.Client, log logging.Logger) *ManagerService {
	if log == nil {
		log = logging.Discard()
	}
	return &ManagerService{api: c, log: log}
}

func (s *ManagerService) MyGym(ctx context.Context) (*models.Gym, error) {
	return s.api.Gyms.Mine(ctx)
}

// RegisterGym requires name, address, city, state, phone and email.
func (s *ManagerService) RegisterGym(ctx context.Context, in models.GymInput) (*models.GymCreated, error) {
	if blank(in.Name, in.Address, in.City, in.State, in.Phone, in.Email) {
		return nil, api.Invalid(MsgMissingFields)
	}
	return s.api.Gyms.Register(ctx, in)
}

// Roster fetches members and trainers concurrently; either failing empties
// both.
func (s *ManagerService) Roster(ctx context.Context) Roster {
	var members, trainers []models.Member

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		members, err = s.api.Members.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		trainers, err = s.api.Members.Trainers(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error(ctx, "failed to load members", "err", err)
		return Roster{Members: []models.Member{}, Trainers: []models.Member{}, Err: err}
	}
	return Roster{Members: nonNil(members), Trainers: nonNil(trainers)}
}

// AddMember requires name, email, phone and password. Plan and duration
// default to Monthly and 1.
func (s *ManagerService) AddMember(ctx context.Context, in models.MemberInput) (*models.MemberCreated, error) {
	if blank(in.Name, in.Email, in.Phone, in.Password) {
		return nil, api.Invalid(MsgMissingFields)
	}
	if in.MembershipPlan == "" {
		in.MembershipPlan = "Monthly"
	}
	if in.PlanDurationMonths <= 0 {
		in.PlanDurationMonths = 1
	}
	return s.api.Members.Add(ctx, in)
}

func (s *ManagerService) AssignTrainer(ctx context.Context, memberID, trainerID string) error {
	if strings.TrimSpace(trainerID) == "" {
		return api.Invalid(MsgSelectTrainer)
	}
	return s.api.Members.AssignTrainer(ctx, memberID, trainerID)
}

func (s *ManagerService) DeleteMember(ctx context.Context, memberID string) error {
	return s.api.Members.Delete(ctx, memberID)
}

// Attendance fetches the day's stats and the member list concurrently. An
// empty date means today.
func (s *ManagerService) Attendance(ctx context.Context, date string) AttendanceOverview {
	var (
		stats   *models.AttendanceStats
		members []models.Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.api.Attendance.GymStats(gctx, date)
		return err
	})
	g.Go(func() (err error) {
		members, err = s.api.Members.List(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error(ctx, "failed to load attendance", "err", err)
		return AttendanceOverview{Members: []models.Member{}, Err: err}
	}
	return AttendanceOverview{Stats: stats, Members: nonNil(members)}
}

func (s *ManagerService) Payments(ctx context.Context) ([]models.Payment, error) {
	p, err := s.api.Payments.Gym(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(p), nil
}

// RecordPayment creates a payment order. A new membership first adds the
// member; a renewal also extends the membership by 30 days per month.
// It returns the success message to show.
func (s *ManagerService) RecordPayment(ctx context.Context, f PaymentForm) (string, error) {
	if strings.TrimSpace(f.Amount) == "" || f.Type == "" {
		return "", api.Invalid(MsgPaymentRequired)
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64)
	if err != nil || amount <= 0 {
		return "", api.Invalid(MsgAmountInvalid)
	}
	if !f.Type.Valid() {
		return "", api.Invalid("Unknown payment type " + string(f.Type))
	}

	switch f.Type {
	case models.PaymentNewMembership:
		nm := f.NewMember
		months, err := strconv.Atoi(strings.TrimSpace(f.DurationMonths))
		if blank(nm.Name, nm.Email, nm.Phone, nm.Password) || err != nil || months <= 0 {
			return "", api.Invalid(MsgNewMemberRequired)
		}
		nm.MembershipPlan = "Monthly"
		nm.PlanDurationMonths = months
		nm.IsTrainer = false
		if nm.Goal == "" {
			nm.Goal = "Fitness"
		}

		created, err := s.api.Members.Add(ctx, nm)
		if err != nil {
			return "", err
		}
		if _, err := s.order(ctx, created.MemberID, amount, f.Type); err != nil {
			return "", err
		}
		return "New member added & payment recorded.", nil

	case models.PaymentRenewal:
		if f.MemberID == "" {
			return "", api.Invalid(MsgSelectMember)
		}
		months, err := strconv.Atoi(strings.TrimSpace(f.DurationMonths))
		if err != nil || months <= 0 {
			months = 1
		}
		if _, err := s.order(ctx, f.MemberID, amount, f.Type); err != nil {
			return "", err
		}
		if _, err := s.api.Members.Extend(ctx, f.MemberID, months*30); err != nil {
			return "", err
		}
		return "Membership renewed successfully!", nil

	default:
		if f.MemberID == "" {
			return "", api.Invalid(MsgPaymentMember)
		}
		if _, err := s.order(ctx, f.MemberID, amount, f.Type); err != nil {
			return "", err
		}
		return "Payment added successfully!", nil
	}
}

func (s *ManagerService) order(ctx context.Context, memberID string, amount float64, t models.PaymentType) (*models.PaymentOrder, error) {
	return s.api.Payments.CreateOrder(ctx, models.PaymentInput{MemberID: memberID, Amount: amount, PaymentType: t})
}

// SearchMembers filters by name or email, case-insensitively. An empty
// query returns the first three members.
func SearchMembers(members []models.Member, query string) []models.Member {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(members[:min(3, len(members))])
	}

	var out []models.Member
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.UserName), query) || strings.Contains(strings.ToLower(m.UserEmail), query) {
			out = append(out, m)
		}
	}
	return out
}

func blank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}
