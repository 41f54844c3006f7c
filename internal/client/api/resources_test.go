package api

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/client/apitest"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterLoginLogout(t *testing.T) {
	c, b, store := newTestClient(t)
	ctx := context.Background()

	reg, err := c.Auth.Register(ctx, models.RegisterRequest{
		Email: "kim@example.com", Password: "pw1", Name: "Kim", Role: models.RoleTrainee,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.SessionToken)
	assert.Equal(t, models.RoleTrainee, reg.User.Role)

	_, err = c.Auth.Register(ctx, models.RegisterRequest{
		Email: "kim@example.com", Password: "pw1", Name: "Kim", Role: models.RoleTrainee,
	})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, "Email already registered", Message(err, ""))

	_, err = c.Auth.Login(ctx, models.LoginRequest{Email: "kim@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.Equal(t, "Invalid credentials", Message(err, ""))

	login, err := c.Auth.Login(ctx, models.LoginRequest{Email: "kim@example.com", Password: "pw1"})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, common.SessionTokenKey, login.SessionToken))

	me, err := c.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kim", me.Name)
	assert.Equal(t, reg.User.ID, me.ID)

	require.NoError(t, c.Auth.ChangePassword(ctx, "pw1", "pw2"))
	assert.Equal(t, "pw2", b.Password("kim@example.com"))
	err = c.Auth.ChangePassword(ctx, "nope", "pw3")
	assert.Equal(t, "Incorrect old password", Message(err, ""))

	require.NoError(t, c.Auth.Logout(ctx))
	_, err = c.Auth.Me(ctx)
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.Equal(t, "Invalid session", Message(err, ""))
}

func TestAuth_SessionData(t *testing.T) {
	c, b, _ := newTestClient(t)
	ctx := context.Background()
	b.AddOAuthSession("sess-1", "oauth@example.com", "OAuth User", "https://img/p.png")

	sd, err := c.Auth.SessionData(ctx, "sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, sd.SessionToken)
	assert.Equal(t, "oauth@example.com", sd.Email)
	assert.Equal(t, models.RoleTrainee, sd.Identity().Role)
	assert.Equal(t, "sess-1", b.Requests()[0].Header.Get(common.SessionIDHeaderName))

	_, err = c.Auth.SessionData(ctx, "unknown")
	assert.ErrorIs(t, err, ErrAuthExpired)
}

func TestGyms_ManagerAndAdminFlows(t *testing.T) {
	c, b, store := newTestClient(t)
	ctx := context.Background()

	signIn(t, b, store, models.RoleGymManager)
	_, err := c.Gyms.Mine(ctx)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, "No gym found", Message(err, ""))

	created, err := c.Gyms.Register(ctx, models.GymInput{
		Name: "Iron Den", Address: "2 Side St", City: "Pune", State: "MH", Phone: "1", Email: "den@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, apitest.QRPayload(created.GymID), created.QRCode)

	mine, err := c.Gyms.Mine(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.GymID, mine.ID)
	require.NotNil(t, mine.Stats)

	_, err = c.Gyms.Register(ctx, models.GymInput{Name: "Only name"})
	assert.ErrorIs(t, err, ErrValidation)

	admin := b.AddUser("Root", "root@example.com", "pw", models.RoleHeadAdmin)
	require.NoError(t, store.Set(ctx, common.SessionTokenKey, b.IssueToken(admin.ID, time.Hour)))

	all, err := c.Gyms.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	exp, err := c.Gyms.UpdateSubscription(ctx, created.GymID, "pro", 90)
	require.NoError(t, err)
	assert.NotEmpty(t, exp.NewExpiry)
	_, err = c.Gyms.UpdateSubscription(ctx, created.GymID, "gold", 30)
	assert.Equal(t, "Invalid subscription plan", Message(err, ""))

	msg, err := c.Gyms.SetStatus(ctx, created.GymID, false)
	require.NoError(t, err)
	assert.Equal(t, "Gym suspended successfully", msg)
	g, _ := b.Gym(created.GymID)
	assert.False(t, g.IsActive)

	made, err := c.Gyms.Create(ctx, models.GymInput{
		Name: "Pulse", Address: "a", City: "b", State: "c", Phone: "d", Email: "pulse@example.com",
	}, "owner@example.com", "ownerpw")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", made.OwnerEmail)
	assert.Equal(t, "ownerpw", b.Password("owner@example.com"))

	require.NoError(t, c.Gyms.Delete(ctx, created.GymID))
	_, err = c.Gyms.Get(ctx, created.GymID)
	assert.Equal(t, "Gym not found", Message(err, ""))
}

func TestMembers_Lifecycle(t *testing.T) {
	c, b, store := newTestClient(t)
	ctx := context.Background()

	mgr := signIn(t, b, store, models.RoleGymManager)
	gym := b.AddGym(mgr.ID, "Iron Den")

	added, err := c.Members.Add(ctx, models.MemberInput{
		Name: "Ana", Email: "ana@example.com", Phone: "5", Password: "pw", MembershipPlan: "Quarterly", PlanDurationMonths: 3,
	})
	require.NoError(t, err)

	_, err = c.Members.Add(ctx, models.MemberInput{Name: "Ana", Email: "ana@example.com", Phone: "5", Password: "pw"})
	assert.Equal(t, "User is already a member", Message(err, ""))

	trainer, err := c.Members.Add(ctx, models.MemberInput{
		Name: "Tom", Email: "tom@example.com", Phone: "6", Password: "pw", IsTrainer: true,
	})
	require.NoError(t, err)

	list, err := c.Members.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].UserName)
	assert.Equal(t, gym.ID, list[0].GymID)

	trainers, err := c.Members.Trainers(ctx)
	require.NoError(t, err)
	require.Len(t, trainers, 1)
	assert.Equal(t, trainer.MemberID, trainers[0].ID)

	require.NoError(t, c.Members.AssignTrainer(ctx, added.MemberID, trainer.UserID))
	m, err := c.Members.Get(ctx, added.MemberID)
	require.NoError(t, err)
	assert.Equal(t, trainer.UserID, m.AssignedTrainerID)
	require.NotNil(t, m.PlanDurationMonths)
	assert.Equal(t, 3, *m.PlanDurationMonths)

	before := m.MembershipExpiry
	exp, err := c.Members.Extend(ctx, added.MemberID, 10)
	require.NoError(t, err)
	assert.NotEqual(t, before, exp.NewExpiry)

	require.NoError(t, c.Members.Update(ctx, added.MemberID, models.MemberInput{Phone: "9", Goal: "strength"}))
	m, err = c.Members.Get(ctx, added.MemberID)
	require.NoError(t, err)
	assert.Equal(t, "strength", m.Goal)

	require.NoError(t, c.Members.Delete(ctx, added.MemberID))
	_, err = c.Members.Get(ctx, added.MemberID)
	assert.Equal(t, "Member not found", Message(err, ""))
}

func TestMembers_MyProfile(t *testing.T) {
	c, b, store := newTestClient(t)
	ctx := context.Background()

	trainee := signIn(t, b, store, models.RoleTrainee)
	p, err := c.Members.MyProfile(ctx)
	require.NoError(t, err)
	assert.False(t, p.HasMembership())

	owner := b.AddUser("Owner", "owner@example.com", "pw", models.RoleGymManager)
	gym := b.AddGym(owner.ID, "Iron Den")
	b.Enroll(trainee.ID, gym.ID)

	p, err = c.Members.MyProfile(ctx)
	require.NoError(t, err)
	assert.True(t, p.HasMembership())
	assert.Equal(t, "Iron Den", p.GymName)
	assert.Equal(t, apitest.QRPayload(gym.ID), p.GymQR)
}

func TestAttendance_ScanCycle(t *testing.T) {
	c, b, store := newTestClient(t)
	ctx := context.Background()

	trainee := signIn(t, b, store, models.RoleTrainee)
	owner := b.AddUser("Owner", "owner@example.com", "pw", models.RoleGymManager)
	gym := b.AddGym(owner.ID, "Iron Den")

	_, err := c.Attendance.Scan(ctx, apitest.QRPayload(gym.ID))
	assert.Equal(t, "You are not a member of this gym", Message(err, ""))

	b.Enroll(trainee.ID, gym.ID)

	res, err := c.Attendance.Scan(ctx, apitest.QRPayload(gym.ID))
	require.NoError(t, err)
	assert.Equal(t, models.ScanCheckIn, res.Type)

	res, err = c.Attendance.Scan(ctx, apitest.QRPayload(gym.ID))
	require.NoError(t, err)
	assert.Equal(t, models.ScanCheckOut, res.Type)

	_, err = c.Attendance.Scan(ctx, apitest.QRPayload(gym.ID))
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, "Already checked in and out for today", Message(err, ""))

	_, err = c.Attendance.Scan(ctx, "hello")
	assert.Equal(t, "Invalid QR code format", Message(err, ""))

	hist, err := c.Attendance.MyHistory(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.NotEmpty(t, hist[0].CheckOutTime)

	require.NoError(t, store.Set(ctx, common.SessionTokenKey, b.IssueToken(owner.ID, time.Hour)))
	stats, err := c.Attendance.GymStats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TodayCount)
	assert.Equal(t, 1, stats.WeekCount)

	_, err = c.Attendance.GymStats(ctx, "01/02/2025")
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", Message(err, ""))

	reqs := b.Requests()
	assert.Equal(t, "date=01%2F02%2F2025", reqs[len(reqs)-1].Query)
}

func TestAttendance_Checkout(t *testing.T) {
	c, b, store := newTestClient(t)
	ctx := context.Background()

	trainee := signIn(t, b, store, models.RoleTrainee)
	owner := b.AddUser("Owner", "owner@example.com", "pw", models.RoleGymManager)
	gym := b.AddGym(owner.ID, "Iron Den")
	b.Enroll(trainee.ID, gym.ID)

	err := c.Attendance.Checkout(ctx, gym.ID)
	assert.Equal(t, "No check-in record found for today", Message(err, ""))

	_, err = c.Attendance.Scan(ctx, apitest.QRPayload(gym.ID))
	require.NoError(t, err)
	require.NoError(t, c.Attendance.Checkout(ctx, gym.ID))
	assert.NotEmpty(t, b.Attendance()[0].CheckOutTime)
}

func TestPayments_OrderVerifyAndList(t *testing.T) {
	c, b, store := newTestClient(t)
	ctx := context.Background()

	trainee := signIn(t, b, store, models.RoleTrainee)
	owner := b.AddUser("Owner", "owner@example.com", "pw", models.RoleGymManager)
	gym := b.AddGym(owner.ID, "Iron Den")
	member := b.Enroll(trainee.ID, gym.ID)

	order, err := c.Payments.CreateOrder(ctx, models.PaymentInput{MemberID: member.ID, Amount: 1500, PaymentType: models.PaymentRenewal})
	require.NoError(t, err)
	assert.Equal(t, "INR", order.Currency)
	assert.InDelta(t, 150000, order.Amount, 1e-9)

	require.NoError(t, c.Payments.Verify(ctx, models.PaymentVerification{
		PaymentID: order.PaymentID, RazorpayPaymentID: "pay_x", RazorpaySignature: "sig",
	}))

	mine, err := c.Payments.Mine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.PaymentSuccess, mine[0].Status)

	require.NoError(t, store.Set(ctx, common.SessionTokenKey, b.IssueToken(owner.ID, time.Hour)))
	gymPays, err := c.Payments.Gym(ctx)
	require.NoError(t, err)
	require.Len(t, gymPays, 1)
	assert.Equal(t, trainee.Name, gymPays[0].MemberName)
}

func TestPlansAndProgress(t *testing.T) {
	c, b, store := newTestClient(t)
	ctx := context.Background()

	trainee := signIn(t, b, store, models.RoleTrainee)
	owner := b.AddUser("Owner", "owner@example.com", "pw", models.RoleGymManager)
	gym := b.AddGym(owner.ID, "Iron Den")
	member := b.Enroll(trainee.ID, gym.ID)

	w, err := c.Plans.MyWorkout(ctx)
	require.NoError(t, err)
	assert.Nil(t, w)
	d, err := c.Plans.MyDiet(ctx)
	require.NoError(t, err)
	assert.Nil(t, d)

	weight := 72.5
	logged, err := c.Progress.Log(ctx, models.ProgressInput{Weight: &weight, Notes: "week 1"})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.ProgressID)

	hist, err := c.Progress.MyHistory(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.NotNil(t, hist[0].Weight)
	assert.InDelta(t, 72.5, *hist[0].Weight, 1e-9)

	trainerID := b.AddUser("Coach", "coach@example.com", "pw", models.RoleTrainer)
	require.NoError(t, store.Set(ctx, common.SessionTokenKey, b.IssueToken(trainerID.ID, time.Hour)))
	_, err = c.Plans.CreateWorkout(ctx, models.WorkoutPlanInput{
		MemberID: member.ID, PlanName: "Push/Pull",
		WorkoutDays: []models.WorkoutDay{{Day: "Monday", Exercises: []models.Exercise{{Name: "Squat", Sets: 5, Reps: 5, RestSeconds: 120}}}},
	})
	require.NoError(t, err)
	_, err = c.Plans.CreateDiet(ctx, models.DietPlanInput{
		MemberID: member.ID, PlanName: "Lean", DailyMeals: []models.Meal{{MealTime: "Breakfast", Items: []string{"Oats"}}},
	})
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, common.SessionTokenKey, b.IssueToken(trainee.ID, time.Hour)))
	w, err = c.Plans.MyWorkout(ctx)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, "Push/Pull", w.PlanName)
	require.Len(t, w.WorkoutDays, 1)
	assert.Equal(t, "Squat", w.WorkoutDays[0].Exercises[0].Name)

	d, err = c.Plans.MyDiet(ctx)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Lean", d.PlanName)
}

func TestAI_ChatAndHistory(t *testing.T) {
	c, b, store := newTestClient(t)
	ctx := context.Background()
	signIn(t, b, store, models.RoleTrainee)

	reply, err := c.AI.Chat(ctx, "How many sets?")
	require.NoError(t, err)
	assert.Contains(t, reply.Response, "How many sets?")

	hist, err := c.AI.History(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, models.ChatRoleUser, hist[0].Role)
	assert.Equal(t, models.ChatRoleAssistant, hist[1].Role)
}
