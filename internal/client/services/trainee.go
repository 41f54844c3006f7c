package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Dashboard is the trainee home screen. When any of its fetches fails every
// dataset is empty and Err holds the first failure.
type Dashboard struct {
	Profile    *models.Member
	Attendance []models.AttendanceRecord
	Payments   []models.Payment
	Loading    bool
	Err        error
}

// PaymentScreen is the trainee payments view, joined the same way.
type PaymentScreen struct {
	Payments []models.Payment
	Profile  *models.Member
	Total    float64
	Loading  bool
	Err      error
}

// Analytics summarises the trainee's history.
type Analytics struct {
	TotalVisits   int
	VisitsLast7   int
	VisitsLast30  int
	TotalPaid     float64
	LastCheckIn   string
	MemberSince   string
	ActivePlan    string
	MembershipEnd string
}

type TraineeService struct {
	api *api.Client
	log logging.Logger
	now func() time.Time
}

func NewTraineeService(c *api.Client, log logging.Logger) *TraineeService {
	if log == nil {
		log = logging.Discard()
	}
	return &TraineeService{api: c, log: log, now: time.Now}
}

// Dashboard fetches profile, attendance history and payments concurrently.
func (s *TraineeService) Dashboard(ctx context.Context) Dashboard {
	var (
		profile    *models.Member
		attendance []models.AttendanceRecord
		payments   []models.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.api.Members.MyProfile(gctx)
		return err
	})
	g.Go(func() (err error) {
		attendance, err = s.api.Attendance.MyHistory(gctx)
		return err
	})
	g.Go(func() (err error) {
		payments, err = s.api.Payments.Mine(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error(ctx, "failed to load trainee dashboard", "err", err)
		return Dashboard{Attendance: []models.AttendanceRecord{}, Payments: []models.Payment{}, Err: err}
	}
	return Dashboard{Profile: profile, Attendance: nonNil(attendance), Payments: nonNil(payments)}
}

// Payments fetches the payment history and profile concurrently.
func (s *TraineeService) Payments(ctx context.Context) PaymentScreen {
	var (
		payments []models.Payment
		profile  *models.Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		payments, err = s.api.Payments.Mine(gctx)
		return err
	})
	g.Go(func() (err error) {
		profile, err = s.api.Members.MyProfile(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error(ctx, "failed to load payment data", "err", err)
		return PaymentScreen{Payments: []models.Payment{}, Err: err}
	}
	return PaymentScreen{Payments: nonNil(payments), Profile: profile, Total: models.TotalAmount(payments)}
}

// Analytics derives visit and spend figures from the dashboard data.
func (s *TraineeService) Analytics(ctx context.Context) (Analytics, error) {
	d := s.Dashboard(ctx)
	if d.Err != nil {
		return Analytics{}, d.Err
	}

	now := s.now().UTC()
	weekAgo := now.AddDate(0, 0, -7).Format(time.DateOnly)
	monthAgo := now.AddDate(0, 0, -30).Format(time.DateOnly)

	a := Analytics{TotalVisits: len(d.Attendance), TotalPaid: models.TotalAmount(d.Payments)}
	for _, r := range d.Attendance {
		if r.Date >= weekAgo {
			a.VisitsLast7++
		}
		if r.Date >= monthAgo {
			a.VisitsLast30++
		}
		if r.CheckInTime > a.LastCheckIn {
			a.LastCheckIn = r.CheckInTime
		}
	}
	if p := d.Profile; p != nil && p.HasMembership() {
		a.MemberSince = p.JoiningDate
		a.ActivePlan = p.MembershipPlan
		a.MembershipEnd = p.MembershipExpiry
	}
	return a, nil
}

// Plans returns the assigned workout and diet plans; either may be nil.
func (s *TraineeService) Plans(ctx context.Context) (*models.WorkoutPlan, *models.DietPlan, error) {
	var (
		workout *models.WorkoutPlan
		diet    *models.DietPlan
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		workout, err = s.api.Plans.MyWorkout(gctx)
		return err
	})
	g.Go(func() (err error) {
		diet, err = s.api.Plans.MyDiet(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return workout, diet, nil
}

func (s *TraineeService) LogProgress(ctx context.Context, in models.ProgressInput) (*models.ProgressLogged, error) {
	if in.Weight == nil && in.BodyFatPercentage == nil && len(in.Measurements) == 0 && in.Notes == "" {
		return nil, api.Invalid(MsgMissingFields)
	}
	return s.api.Progress.Log(ctx, in)
}

func (s *TraineeService) ProgressHistory(ctx context.Context) ([]models.ProgressLog, error) {
	logs, err := s.api.Progress.MyHistory(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(logs), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
