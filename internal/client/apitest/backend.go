package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/common"
)

// TokenTTL is the lifetime of issued session tokens.
const TokenTTL = 7 * 24 * time.Hour

// Request is one recorded inbound request.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type override struct {
	status int
	body   string
}

type user struct {
	models.Identity
	password string
}

// Backend is a running fake backend. Close it when done.
type Backend struct {
	server *httptest.Server
	secret []byte

	mu          sync.Mutex
	seq         int
	users       map[string]*user
	byEmail     map[string]string
	revoked     map[string]bool
	oauth       map[string]models.SessionData
	gyms        map[string]*models.Gym
	gymOrder    []string
	members     map[string]*models.Member
	memberOrder []string
	attendance  []*models.AttendanceRecord
	payments    []*models.Payment
	workouts    map[string]*models.WorkoutPlan
	diets       map[string]*models.DietPlan
	progress    []*models.ProgressLog
	chats       []models.ChatMessage
	requests    []Request
	overrides   map[string]override
}

// New starts a fake backend on a loopback port.
func New() *Backend {
	b := &Backend{
		secret:    common.GenerateRandByteArray(32),
		users:     make(map[string]*user),
		byEmail:   make(map[string]string),
		revoked:   make(map[string]bool),
		oauth:     make(map[string]models.SessionData),
		gyms:      make(map[string]*models.Gym),
		members:   make(map[string]*models.Member),
		workouts:  make(map[string]*models.WorkoutPlan),
		diets:     make(map[string]*models.DietPlan),
		overrides: make(map[string]override),
	}
	b.server = httptest.NewServer(b.routes())
	return b
}

// Close shuts the server down.
func (b *Backend) Close() { b.server.Close() }

// URL is the base URL to hand to api.New; it has no "/api" suffix.
func (b *Backend) URL() string { return b.server.URL }

// Client returns an *http.Client wired to the server.
func (b *Backend) Client() *http.Client { return b.server.Client() }

// Fail makes every request matching route ("METHOD /api/path") answer with
// status and the raw body until Restore is called.
func (b *Backend) Fail(route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[route] = override{status: status, body: body}
}

// Restore removes a Fail override.
func (b *Backend) Restore(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.overrides, route)
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Hits counts requests for route ("METHOD /api/path"). An empty route counts
// everything.
func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if route == "" {
		return len(b.requests)
	}
	n := 0
	for _, r := range b.requests {
		if r.Method+" "+r.Path == route {
			n++
		}
	}
	return n
}

// AddUser registers an account and returns its identity.
func (b *Backend) AddUser(name, email, password string, role models.Role) models.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(name, email, password, role, "")
}

func (b *Backend) addUserLocked(name, email, password string, role models.Role, phone string) models.Identity {
	id := b.nextID("user")
	u := &user{
		Identity: models.Identity{ID: id, Email: email, Name: name, Role: role, Phone: phone},
		password: password,
	}
	b.users[id] = u
	b.byEmail[strings.ToLower(email)] = id
	return u.Identity
}

// IssueToken signs a session token for userID valid for ttl. A negative ttl
// yields an already expired token.
func (b *Backend) IssueToken(userID string, ttl time.Duration) string {
	tok, err := generateToken(userID, b.secret, ttl, time.Now())
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	return tok
}

// AddOAuthSession makes sessionID exchangeable at /auth/session-data.
func (b *Backend) AddOAuthSession(sessionID, email, name, picture string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.oauth[sessionID] = models.SessionData{Email: email, Name: name, Picture: picture}
}

// AddGym creates an active gym owned by ownerID.
func (b *Backend) AddGym(ownerID, name string) models.Gym {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.addGymLocked(ownerID, models.GymInput{Name: name, Address: "1 Main St", City: "Pune", State: "MH", Phone: "0000000000", Email: "gym@example.com"})
}

func (b *Backend) addGymLocked(ownerID string, in models.GymInput) *models.Gym {
	id := b.nextID("gym")
	g := &models.Gym{
		ID:                 id,
		Name:               in.Name,
		Address:            in.Address,
		City:               in.City,
		State:              in.State,
		OwnerID:            ownerID,
		QRCode:             QRPayload(id),
		KYCVerified:        true,
		IsActive:           true,
		Phone:              in.Phone,
		Email:              in.Email,
		RegistrationDate:   time.Now().UTC().Format(time.RFC3339),
		SubscriptionPlan:   "basic",
		SubscriptionExpiry: time.Now().UTC().AddDate(1, 0, 0).Format(time.RFC3339),
	}
	b.gyms[id] = g
	b.gymOrder = append(b.gymOrder, id)
	return g
}

// QRPayload is the payload encoded in a gym's attendance QR code.
func QRPayload(gymID string) string {
	return "fitdesert://gym/" + gymID + "/attendance"
}

// Enroll makes userID an active member of gymID.
func (b *Backend) Enroll(userID, gymID string) models.Member {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.enrollLocked(userID, gymID, "Monthly", 1)
}

func (b *Backend) enrollLocked(userID, gymID, plan string, months int) *models.Member {
	u := b.users[userID]
	role := models.RoleTrainee
	if u != nil && u.Role == models.RoleTrainer {
		role = models.RoleTrainer
	}
	if months <= 0 {
		months = 1
	}
	id := b.nextID("member")
	m := &models.Member{
		ID:                 id,
		UserID:             userID,
		GymID:              gymID,
		Role:               role,
		JoiningDate:        time.Now().UTC().Format(time.RFC3339),
		MembershipPlan:     plan,
		PlanDurationMonths: &months,
		MembershipExpiry:   time.Now().UTC().AddDate(0, 0, 30*months).Format(time.RFC3339),
		Status:             models.MembershipActive,
	}
	if u != nil {
		m.ContactInfo = u.Phone
	}
	b.members[id] = m
	b.memberOrder = append(b.memberOrder, id)
	return m
}

// SetMembershipStatus changes a member's status, e.g. to expire it.
func (b *Backend) SetMembershipStatus(memberID string, status models.MembershipStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.members[memberID]; ok {
		m.Status = status
	}
}

// AddPayment records a settled payment for memberID.
func (b *Backend) AddPayment(memberID string, amount float64, typ models.PaymentType) models.Payment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.addPaymentLocked(memberID, amount, typ)
}

func (b *Backend) addPaymentLocked(memberID string, amount float64, typ models.PaymentType) *models.Payment {
	var gymID string
	if m, ok := b.members[memberID]; ok {
		gymID = m.GymID
	}
	p := &models.Payment{
		ID:              b.nextID("pay"),
		MemberID:        memberID,
		GymID:           gymID,
		Amount:          amount,
		PaymentType:     typ,
		Status:          models.PaymentSuccess,
		RazorpayOrderID: b.nextID("order"),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	b.payments = append(b.payments, p)
	return p
}

// Attendance returns a copy of the attendance records.
func (b *Backend) Attendance() []models.AttendanceRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.AttendanceRecord, len(b.attendance))
	for i, r := range b.attendance {
		out[i] = *r
	}
	return out
}

// Member returns a copy of the member, if present.
func (b *Backend) Member(id string) (models.Member, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.members[id]
	if !ok {
		return models.Member{}, false
	}
	return *m, true
}

// Gym returns a copy of the gym, if present.
func (b *Backend) Gym(id string) (models.Gym, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.gyms[id]
	if !ok {
		return models.Gym{}, false
	}
	return *g, true
}

// Password returns the stored password for email.
func (b *Backend) Password(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u, ok := b.users[b.byEmail[strings.ToLower(email)]]; ok {
		return u.password
	}
	return ""
}

// Payments returns a copy of every recorded payment.
func (b *Backend) Payments() []models.Payment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Payment, len(b.payments))
	for i, p := range b.payments {
		out[i] = *p
	}
	return out
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s_%d", prefix, 1000+b.seq)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeMissing(w http.ResponseWriter, where string, fields ...string) {
	list := make([]fieldError, len(fields))
	for i, f := range fields {
		list[i] = fieldError{Loc: []string{where, f}, Msg: "Field required", Type: "missing"}
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": list})
}
