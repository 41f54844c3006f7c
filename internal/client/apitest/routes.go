package apitest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/common"
)

var scanGymPattern = regexp.MustCompile(`gym_(\d+(?:\.\d+)?)`)

type authedHandler func(w http.ResponseWriter, r *http.Request, u *user)

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Health{Status: "healthy"})
	})

	mux.HandleFunc("POST /api/auth/register", b.register)
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("GET /api/auth/session-data", b.sessionData)
	mux.HandleFunc("GET /api/auth/me", b.authed(b.me))
	mux.HandleFunc("POST /api/auth/logout", b.logout)
	mux.HandleFunc("POST /api/auth/change-password", b.authed(b.changePassword))

	mux.HandleFunc("POST /api/gyms/register", b.authed(b.registerGym, models.RoleGymManager))
	mux.HandleFunc("POST /api/gyms/create", b.authed(b.createGym, models.RoleHeadAdmin))
	mux.HandleFunc("GET /api/gyms/all", b.authed(b.allGyms, models.RoleHeadAdmin))
	mux.HandleFunc("GET /api/gyms/my-gym", b.authed(b.myGym, models.RoleGymManager))
	mux.HandleFunc("GET /api/gyms/{id}", b.authed(b.getGym))
	mux.HandleFunc("PUT /api/gyms/{id}", b.authed(b.updateGym, models.RoleHeadAdmin))
	mux.HandleFunc("PUT /api/gyms/{id}/subscription", b.authed(b.gymSubscription, models.RoleHeadAdmin))
	mux.HandleFunc("PUT /api/gyms/{id}/status", b.authed(b.gymStatus, models.RoleHeadAdmin))
	mux.HandleFunc("DELETE /api/gyms/{id}", b.authed(b.deleteGym, models.RoleHeadAdmin))

	mux.HandleFunc("GET /api/members", b.authed(b.listMembers, models.RoleGymManager))
	mux.HandleFunc("POST /api/members", b.authed(b.addMember, models.RoleGymManager))
	mux.HandleFunc("GET /api/trainers", b.authed(b.listTrainers, models.RoleGymManager))
	mux.HandleFunc("GET /api/members/my-profile", b.authed(b.myProfile, models.RoleTrainee))
	mux.HandleFunc("GET /api/members/{id}", b.authed(b.getMember, models.RoleGymManager, models.RoleTrainer, models.RoleHeadAdmin))
	mux.HandleFunc("PUT /api/members/{id}", b.authed(b.updateMember, models.RoleGymManager))
	mux.HandleFunc("PUT /api/members/{id}/assign-trainer", b.authed(b.assignTrainer, models.RoleGymManager))
	mux.HandleFunc("PUT /api/members/{id}/extend", b.authed(b.extendMember, models.RoleGymManager))
	mux.HandleFunc("DELETE /api/members/{id}", b.authed(b.deleteMember, models.RoleGymManager))

	mux.HandleFunc("POST /api/attendance/scan", b.authed(b.scan))
	mux.HandleFunc("GET /api/attendance/my-history", b.authed(b.myAttendance, models.RoleTrainee))
	mux.HandleFunc("GET /api/attendance/gym-stats", b.authed(b.gymStats, models.RoleGymManager))
	mux.HandleFunc("POST /api/attendance/checkout", b.authed(b.checkout))

	mux.HandleFunc("POST /api/payments/create-order", b.authed(b.createOrder))
	mux.HandleFunc("POST /api/payments/verify", b.verifyPayment)
	mux.HandleFunc("GET /api/payments/my-payments", b.authed(b.myPayments, models.RoleTrainee))
	mux.HandleFunc("GET /api/payments/gym-payments", b.authed(b.gymPayments, models.RoleGymManager))

	mux.HandleFunc("POST /api/plans/workout", b.authed(b.createWorkout, models.RoleGymManager, models.RoleTrainer))
	mux.HandleFunc("GET /api/plans/workout/my-plan", b.authed(b.myWorkout, models.RoleTrainee))
	mux.HandleFunc("POST /api/plans/diet", b.authed(b.createDiet, models.RoleGymManager, models.RoleTrainer))
	mux.HandleFunc("GET /api/plans/diet/my-plan", b.authed(b.myDiet, models.RoleTrainee))

	mux.HandleFunc("POST /api/progress", b.authed(b.logProgress, models.RoleTrainee))
	mux.HandleFunc("GET /api/progress/my-history", b.authed(b.myProgress, models.RoleTrainee))

	mux.HandleFunc("POST /api/ai/chat", b.authed(b.chat))
	mux.HandleFunc("GET /api/ai/chat-history", b.authed(b.chatHistory))

	return b.record(mux)
}

// record logs every request and applies Fail overrides before routing.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		ov, failing := b.overrides[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if failing {
			w.WriteHeader(ov.status)
			_, _ = io.WriteString(w, ov.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authed resolves the bearer credential and, when roles are given, checks
// the caller has one of them.
func (b *Backend) authed(h authedHandler, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, detail := b.authenticate(r)
		if u == nil {
			writeDetail(w, http.StatusUnauthorized, detail)
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, u.Role) {
			writeDetail(w, http.StatusForbidden, "Access denied")
			return
		}
		h(w, r, u)
	}
}

// authenticate returns the caller, or nil and the 401 detail.
func (b *Backend) authenticate(r *http.Request) (*user, string) {
	token, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)
	if !ok || token == "" {
		return nil, "Not authenticated"
	}

	userID, tokenID, err := userIDFromToken(token, b.secret)
	switch {
	case errors.Is(err, errTokenExpired):
		return nil, "Session expired"
	case err != nil:
		return nil, "Invalid session"
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, found := b.users[userID]
	if !found || b.revoked[tokenID] {
		return nil, "Invalid session"
	}
	return u, ""
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []fieldError{
			{Loc: []string{"body"}, Msg: "Invalid JSON", Type: "json_invalid"},
		}})
		return false
	}
	return true
}

func missingFields(fields map[string]string) []string {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	return missing
}

func today() string { return time.Now().UTC().Format(time.DateOnly) }

// ---- auth ----

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if missing := missingFields(map[string]string{"email": in.Email, "password": in.Password, "name": in.Name, "role": string(in.Role)}); len(missing) > 0 {
		writeMissing(w, "body", missing...)
		return
	}
	if !in.Role.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []fieldError{
			{Loc: []string{"body", "role"}, Msg: "Input should be 'head_admin', 'gym_manager', 'trainer' or 'trainee'", Type: "enum"},
		}})
		return
	}

	b.mu.Lock()
	if _, exists := b.byEmail[strings.ToLower(in.Email)]; exists {
		b.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	id := b.addUserLocked(in.Name, in.Email, in.Password, in.Role, in.Phone)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, models.AuthResponse{
		Message:      "User registered successfully",
		SessionToken: b.IssueToken(id.ID, TokenTTL),
		User:         models.Identity{ID: id.ID, Email: id.Email, Name: id.Name, Role: id.Role},
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if missing := missingFields(map[string]string{"email": in.Email, "password": in.Password}); len(missing) > 0 {
		writeMissing(w, "body", missing...)
		return
	}

	b.mu.Lock()
	u, ok := b.users[b.byEmail[strings.ToLower(in.Email)]]
	b.mu.Unlock()
	if !ok || u.password == "" || u.password != in.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{
		Message:      "Login successful",
		SessionToken: b.IssueToken(u.ID, TokenTTL),
		User:         u.Identity,
	})
}

func (b *Backend) sessionData(w http.ResponseWriter, r *http.Request) {
	sid := r.Header.Get(common.SessionIDHeaderName)
	if sid == "" {
		writeMissing(w, "header", "x-session-id")
		return
	}

	b.mu.Lock()
	profile, ok := b.oauth[sid]
	if !ok {
		b.mu.Unlock()
		writeDetail(w, http.StatusUnauthorized, "Invalid session")
		return
	}
	u, exists := b.users[b.byEmail[strings.ToLower(profile.Email)]]
	if !exists {
		id := b.addUserLocked(profile.Name, profile.Email, "", models.RoleTrainee, "")
		u = b.users[id.ID]
		u.Picture = profile.Picture
	}
	identity := u.Identity
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, models.SessionData{
		ID:           identity.ID,
		Email:        identity.Email,
		Name:         identity.Name,
		Picture:      identity.Picture,
		Role:         identity.Role,
		SessionToken: b.IssueToken(identity.ID, TokenTTL),
	})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request, u *user) {
	writeJSON(w, http.StatusOK, map[string]any{
		"_id":     u.ID,
		"email":   u.Email,
		"name":    u.Name,
		"role":    u.Role,
		"picture": u.Picture,
		"phone":   u.Phone,
	})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)
	if ok && token != "" {
		if _, tokenID, err := userIDFromToken(token, b.secret); err == nil {
			b.mu.Lock()
			b.revoked[tokenID] = true
			b.mu.Unlock()
		}
	}
	writeJSON(w, http.StatusOK, models.Message{Message: "Logged out successfully"})
}

func (b *Backend) changePassword(w http.ResponseWriter, r *http.Request, u *user) {
	q := r.URL.Query()
	if missing := missingFields(map[string]string{"old_password": q.Get("old_password"), "new_password": q.Get("new_password")}); len(missing) > 0 {
		writeMissing(w, "query", missing...)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if u.password != "" && u.password != q.Get("old_password") {
		writeDetail(w, http.StatusBadRequest, "Incorrect old password")
		return
	}
	u.password = q.Get("new_password")
	writeJSON(w, http.StatusOK, models.Message{Message: "Password changed successfully"})
}

// ---- gyms ----

func gymFields(in models.GymInput) map[string]string {
	return map[string]string{
		"name": in.Name, "address": in.Address, "city": in.City,
		"state": in.State, "phone": in.Phone, "email": in.Email,
	}
}

func (b *Backend) registerGym(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.GymInput
	if !decodeBody(w, r, &in) {
		return
	}
	if missing := missingFields(gymFields(in)); len(missing) > 0 {
		writeMissing(w, "body", missing...)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ownedGymLocked(u.ID) != nil {
		writeDetail(w, http.StatusBadRequest, "You already have a gym registered")
		return
	}
	g := b.addGymLocked(u.ID, in)
	writeJSON(w, http.StatusOK, models.GymCreated{Message: "Gym registered successfully", GymID: g.ID, QRCode: g.QRCode})
}

func (b *Backend) createGym(w http.ResponseWriter, r *http.Request, u *user) {
	q := r.URL.Query()
	if missing := missingFields(map[string]string{"owner_email": q.Get("owner_email"), "password": q.Get("password")}); len(missing) > 0 {
		writeMissing(w, "query", missing...)
		return
	}

	var in models.GymInput
	if !decodeBody(w, r, &in) {
		return
	}
	if missing := missingFields(gymFields(in)); len(missing) > 0 {
		writeMissing(w, "body", missing...)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	ownerEmail := q.Get("owner_email")
	ownerID, ok := b.byEmail[strings.ToLower(ownerEmail)]
	if !ok {
		ownerID = b.addUserLocked(in.Name+" Manager", ownerEmail, q.Get("password"), models.RoleGymManager, in.Phone).ID
	}
	g := b.addGymLocked(ownerID, in)
	g.SubscriptionPlan = "premium"
	writeJSON(w, http.StatusOK, models.GymCreated{Message: "Gym created successfully", GymID: g.ID, OwnerEmail: ownerEmail, QRCode: g.QRCode})
}

func (b *Backend) gymStatsLocked(gymID string) *models.GymStats {
	s := &models.GymStats{}
	for _, id := range b.memberOrder {
		m := b.members[id]
		if m.GymID != gymID {
			continue
		}
		s.TotalMembers++
		if m.Status == models.MembershipActive {
			s.ActiveMembers++
		}
	}
	for _, a := range b.attendance {
		if a.GymID == gymID && a.Date == today() {
			s.TodayAttendance++
		}
	}
	return s
}

func (b *Backend) allGyms(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Gym, 0, len(b.gymOrder))
	for _, id := range b.gymOrder {
		g := *b.gyms[id]
		g.Stats = b.gymStatsLocked(id)
		out = append(out, g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) ownedGymLocked(ownerID string) *models.Gym {
	for _, id := range b.gymOrder {
		if g := b.gyms[id]; g.OwnerID == ownerID {
			return g
		}
	}
	return nil
}

func (b *Backend) myGym(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g := b.ownedGymLocked(u.ID)
	if g == nil {
		writeDetail(w, http.StatusNotFound, "No gym found")
		return
	}
	out := *g
	out.Stats = b.gymStatsLocked(g.ID)

	// The backend sends this document keyed by "_id".
	raw, _ := json.Marshal(out)
	var doc map[string]any
	_ = json.Unmarshal(raw, &doc)
	doc["_id"] = doc["id"]
	delete(doc, "id")
	writeJSON(w, http.StatusOK, doc)
}

func (b *Backend) getGym(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.gyms[r.PathValue("id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Gym not found")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (b *Backend) updateGym(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.GymInput
	if !decodeBody(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.gyms[r.PathValue("id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Gym not found")
		return
	}
	g.Name, g.Address, g.City, g.State, g.Phone, g.Email = in.Name, in.Address, in.City, in.State, in.Phone, in.Email
	writeJSON(w, http.StatusOK, models.Message{Message: "Gym updated successfully"})
}

func (b *Backend) gymSubscription(w http.ResponseWriter, r *http.Request, u *user) {
	q := r.URL.Query()
	plan := q.Get("plan")
	if plan == "" {
		writeMissing(w, "query", "plan")
		return
	}
	if !slices.Contains(models.SubscriptionPlans, plan) {
		writeDetail(w, http.StatusBadRequest, "Invalid subscription plan")
		return
	}
	days := 30
	if v := q.Get("duration_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []fieldError{
				{Loc: []string{"query", "duration_days"}, Msg: "Input should be a valid integer", Type: "int_parsing"},
			}})
			return
		}
		days = n
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.gyms[r.PathValue("id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Gym not found")
		return
	}
	g.SubscriptionPlan = plan
	g.SubscriptionExpiry = time.Now().UTC().AddDate(0, 0, days).Format(time.RFC3339)
	writeJSON(w, http.StatusOK, models.Expiry{Message: "Subscription updated successfully", NewExpiry: g.SubscriptionExpiry})
}

func (b *Backend) gymStatus(w http.ResponseWriter, r *http.Request, u *user) {
	active, err := strconv.ParseBool(r.URL.Query().Get("is_active"))
	if err != nil {
		writeMissing(w, "query", "is_active")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.gyms[r.PathValue("id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Gym not found")
		return
	}
	g.IsActive = active
	status := "suspended"
	if active {
		status = "activated"
	}
	writeJSON(w, http.StatusOK, models.Message{Message: "Gym " + status + " successfully"})
}

func (b *Backend) deleteGym(w http.ResponseWriter, r *http.Request, u *user) {
	id := r.PathValue("id")

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.gyms, id)
	b.gymOrder = slices.DeleteFunc(b.gymOrder, func(g string) bool { return g == id })
	b.memberOrder = slices.DeleteFunc(b.memberOrder, func(m string) bool {
		if b.members[m].GymID == id {
			delete(b.members, m)
			return true
		}
		return false
	})
	b.attendance = slices.DeleteFunc(b.attendance, func(a *models.AttendanceRecord) bool { return a.GymID == id })
	b.payments = slices.DeleteFunc(b.payments, func(p *models.Payment) bool { return p.GymID == id })
	writeJSON(w, http.StatusOK, models.Message{Message: "Gym and all related data deleted successfully"})
}

// ---- members ----

func (b *Backend) managerGym(w http.ResponseWriter, u *user) *models.Gym {
	g := b.ownedGymLocked(u.ID)
	if g == nil {
		writeDetail(w, http.StatusNotFound, "No gym found")
	}
	return g
}

func (b *Backend) enrich(m *models.Member) models.Member {
	out := *m
	if u, ok := b.users[m.UserID]; ok {
		out.UserName = u.Name
		out.UserEmail = u.Email
	}
	return out
}

func (b *Backend) membersOf(gymID string, role models.Role) []models.Member {
	out := []models.Member{}
	for _, id := range b.memberOrder {
		m := b.members[id]
		if m.GymID != gymID || (role != "" && m.Role != role) {
			continue
		}
		out = append(out, b.enrich(m))
	}
	return out
}

func (b *Backend) listMembers(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if g := b.managerGym(w, u); g != nil {
		writeJSON(w, http.StatusOK, b.membersOf(g.ID, ""))
	}
}

func (b *Backend) listTrainers(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if g := b.managerGym(w, u); g != nil {
		writeJSON(w, http.StatusOK, b.membersOf(g.ID, models.RoleTrainer))
	}
}

func (b *Backend) addMember(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.MemberInput
	if !decodeBody(w, r, &in) {
		return
	}
	if missing := missingFields(map[string]string{"name": in.Name, "email": in.Email, "phone": in.Phone, "password": in.Password}); len(missing) > 0 {
		writeMissing(w, "body", missing...)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	g := b.managerGym(w, u)
	if g == nil {
		return
	}

	userID, exists := b.byEmail[strings.ToLower(in.Email)]
	if exists {
		for _, m := range b.members {
			if m.UserID == userID && m.GymID == g.ID {
				writeDetail(w, http.StatusBadRequest, "User is already a member")
				return
			}
		}
	} else {
		role := models.RoleTrainee
		if in.IsTrainer {
			role = models.RoleTrainer
		}
		userID = b.addUserLocked(in.Name, in.Email, in.Password, role, in.Phone).ID
	}

	m := b.enrollLocked(userID, g.ID, in.MembershipPlan, in.PlanDurationMonths)
	m.Goal = in.Goal
	m.AssignedTrainerID = in.AssignedTrainerID
	writeJSON(w, http.StatusOK, models.MemberCreated{Message: "Member added successfully", MemberID: m.ID, UserID: userID})
}

func (b *Backend) myProfile(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range b.memberOrder {
		m := b.members[id]
		if m.UserID != u.ID {
			continue
		}
		out := b.enrich(m)
		if g, ok := b.gyms[m.GymID]; ok {
			out.GymName = g.Name
			out.GymQR = g.QRCode
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "No membership found", "member": nil})
}

func (b *Backend) getMember(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.members[r.PathValue("id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Member not found")
		return
	}
	writeJSON(w, http.StatusOK, b.enrich(m))
}

// gymMember finds id among the manager's members, answering 404 otherwise.
func (b *Backend) gymMember(w http.ResponseWriter, u *user, id string) *models.Member {
	g := b.managerGym(w, u)
	if g == nil {
		return nil
	}
	m, ok := b.members[id]
	if !ok || m.GymID != g.ID {
		writeDetail(w, http.StatusNotFound, "Member not found")
		return nil
	}
	return m
}

func (b *Backend) updateMember(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.MemberInput
	if !decodeBody(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.gymMember(w, u, r.PathValue("id"))
	if m == nil {
		return
	}
	m.ContactInfo = in.Phone
	m.Goal = in.Goal
	if in.MembershipPlan != "" {
		m.MembershipPlan = in.MembershipPlan
	}
	writeJSON(w, http.StatusOK, models.Message{Message: "Member updated successfully"})
}

func (b *Backend) assignTrainer(w http.ResponseWriter, r *http.Request, u *user) {
	trainerID := r.URL.Query().Get("trainer_id")
	if trainerID == "" {
		writeMissing(w, "query", "trainer_id")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.gymMember(w, u, r.PathValue("id"))
	if m == nil {
		return
	}
	m.AssignedTrainerID = trainerID
	writeJSON(w, http.StatusOK, models.Message{Message: "Trainer assigned successfully"})
}

func (b *Backend) extendMember(w http.ResponseWriter, r *http.Request, u *user) {
	days := 30
	if v := r.URL.Query().Get("extra_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeMissing(w, "query", "extra_days")
			return
		}
		days = n
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.gymMember(w, u, r.PathValue("id"))
	if m == nil {
		return
	}
	base, err := time.Parse(time.RFC3339, m.MembershipExpiry)
	if err != nil {
		base = time.Now().UTC()
	}
	m.MembershipExpiry = base.AddDate(0, 0, days).Format(time.RFC3339)
	writeJSON(w, http.StatusOK, models.Expiry{Message: "Membership extended", NewExpiry: m.MembershipExpiry})
}

func (b *Backend) deleteMember(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.gymMember(w, u, r.PathValue("id"))
	if m == nil {
		return
	}
	delete(b.members, m.ID)
	b.memberOrder = slices.DeleteFunc(b.memberOrder, func(id string) bool { return id == m.ID })
	writeJSON(w, http.StatusOK, models.Message{Message: "Member deleted successfully"})
}

// ---- attendance ----

func (b *Backend) scan(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if in.QRCode == "" {
		writeDetail(w, http.StatusBadRequest, "QR code missing")
		return
	}
	match := scanGymPattern.FindStringSubmatch(in.QRCode)
	if match == nil {
		writeDetail(w, http.StatusBadRequest, "Invalid QR code format")
		return
	}
	gymID := "gym_" + match[1]

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.gyms[gymID]; !ok {
		writeDetail(w, http.StatusNotFound, "Gym not found")
		return
	}
	if u.Role == models.RoleTrainer {
		writeDetail(w, http.StatusForbidden, "Trainers cannot mark attendance")
		return
	}

	var member *models.Member
	for _, m := range b.members {
		if m.UserID == u.ID && m.GymID == gymID {
			member = m
			break
		}
	}
	if member == nil {
		writeDetail(w, http.StatusForbidden, "You are not a member of this gym")
		return
	}
	if member.Status != models.MembershipActive {
		writeDetail(w, http.StatusBadRequest, "Membership inactive")
		return
	}

	now := time.Now().UTC()
	for _, a := range b.attendance {
		if a.MemberID != member.ID || a.GymID != gymID || a.Date != today() {
			continue
		}
		if a.CheckOutTime == "" {
			a.CheckOutTime = now.Format(time.RFC3339)
			writeJSON(w, http.StatusOK, models.ScanResult{Message: "Checked out successfully", Type: models.ScanCheckOut})
			return
		}
		writeDetail(w, http.StatusBadRequest, "Already checked in and out for today")
		return
	}

	b.attendance = append(b.attendance, &models.AttendanceRecord{
		ID:          b.nextID("att"),
		MemberID:    member.ID,
		GymID:       gymID,
		CheckInTime: now.Format(time.RFC3339),
		Date:        today(),
	})
	writeJSON(w, http.StatusOK, models.ScanResult{Message: "Checked in successfully", Type: models.ScanCheckIn})
}

// membership returns the trainee's first membership, answering 404 when
// there is none.
func (b *Backend) membership(w http.ResponseWriter, u *user) *models.Member {
	for _, id := range b.memberOrder {
		if m := b.members[id]; m.UserID == u.ID {
			return m
		}
	}
	writeDetail(w, http.StatusNotFound, "No membership found")
	return nil
}

func (b *Backend) myAttendance(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.membership(w, u)
	if m == nil {
		return
	}
	out := []models.AttendanceRecord{}
	for i := len(b.attendance) - 1; i >= 0; i-- {
		if a := b.attendance[i]; a.MemberID == m.ID {
			out = append(out, *a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) gymStats(w http.ResponseWriter, r *http.Request, u *user) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
			return
		}
	} else {
		date = today()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	g := b.managerGym(w, u)
	if g == nil {
		return
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7).Format(time.DateOnly)
	stats := models.AttendanceStats{SelectedDate: date, TodayRecords: []models.AttendanceRecord{}}
	for _, a := range b.attendance {
		if a.GymID != g.ID {
			continue
		}
		if a.Date == date {
			stats.TodayCount++
			stats.TodayRecords = append(stats.TodayRecords, *a)
		}
		if a.Date >= weekAgo {
			stats.WeekCount++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (b *Backend) checkout(w http.ResponseWriter, r *http.Request, u *user) {
	gymID := r.URL.Query().Get("gym_id")
	if gymID == "" {
		writeMissing(w, "query", "gym_id")
		return
	}
	if u.Role == models.RoleTrainer {
		writeDetail(w, http.StatusForbidden, "Trainers do not mark attendance")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.attendance {
		m, ok := b.members[a.MemberID]
		if ok && m.UserID == u.ID && a.GymID == gymID && a.Date == today() {
			a.CheckOutTime = time.Now().UTC().Format(time.RFC3339)
			writeJSON(w, http.StatusOK, models.Message{Message: "Checkout recorded successfully"})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "No check-in record found for today")
}

// ---- payments ----

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.PaymentInput
	if !decodeBody(w, r, &in) {
		return
	}
	if missing := missingFields(map[string]string{"member_id": in.MemberID, "payment_type": string(in.PaymentType)}); len(missing) > 0 {
		writeMissing(w, "body", missing...)
		return
	}
	if !in.PaymentType.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []fieldError{
			{Loc: []string{"body", "payment_type"}, Msg: "Input should be a valid payment type", Type: "enum"},
		}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.members[in.MemberID]; !ok {
		writeDetail(w, http.StatusNotFound, "Member not found")
		return
	}
	p := b.addPaymentLocked(in.MemberID, in.Amount, in.PaymentType)
	p.Status = models.PaymentPending
	writeJSON(w, http.StatusOK, models.PaymentOrder{OrderID: p.RazorpayOrderID, Amount: in.Amount * 100, Currency: "INR", PaymentID: p.ID})
}

func (b *Backend) verifyPayment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if missing := missingFields(map[string]string{
		"payment_id": q.Get("payment_id"), "razorpay_payment_id": q.Get("razorpay_payment_id"), "razorpay_signature": q.Get("razorpay_signature"),
	}); len(missing) > 0 {
		writeMissing(w, "query", missing...)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.payments {
		if p.ID == q.Get("payment_id") {
			p.RazorpayPaymentID = q.Get("razorpay_payment_id")
			p.Status = models.PaymentSuccess
			p.PaymentDate = time.Now().UTC().Format(time.RFC3339)
		}
	}
	writeJSON(w, http.StatusOK, models.Message{Message: "Payment verified successfully"})
}

func (b *Backend) myPayments(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.membership(w, u)
	if m == nil {
		return
	}
	out := []models.Payment{}
	for i := len(b.payments) - 1; i >= 0; i-- {
		if p := b.payments[i]; p.MemberID == m.ID {
			out = append(out, *p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) gymPayments(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g := b.managerGym(w, u)
	if g == nil {
		return
	}
	out := []models.Payment{}
	for i := len(b.payments) - 1; i >= 0; i-- {
		p := b.payments[i]
		if p.GymID != g.ID || p.Status != models.PaymentSuccess {
			continue
		}
		cp := *p
		cp.MemberName = "Unknown"
		if m, ok := b.members[p.MemberID]; ok {
			if owner, ok := b.users[m.UserID]; ok {
				cp.MemberName = owner.Name
			}
		}
		out = append(out, cp)
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- plans & progress ----

func (b *Backend) createWorkout(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.WorkoutPlanInput
	if !decodeBody(w, r, &in) {
		return
	}
	if missing := missingFields(map[string]string{"member_id": in.MemberID, "plan_name": in.PlanName}); len(missing) > 0 {
		writeMissing(w, "body", missing...)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.members[in.MemberID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Member not found in your gym")
		return
	}
	p := &models.WorkoutPlan{
		ID: b.nextID("workout"), MemberID: m.ID, TrainerID: u.ID, GymID: m.GymID,
		PlanName: in.PlanName, WorkoutDays: in.WorkoutDays, CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	b.workouts[m.ID] = p
	writeJSON(w, http.StatusOK, models.PlanCreated{Message: "Workout plan created successfully", PlanID: p.ID})
}

func (b *Backend) myWorkout(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.membership(w, u)
	if m == nil {
		return
	}
	p, ok := b.workouts[m.ID]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"message": "No workout plan found", "plan": nil})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) createDiet(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.DietPlanInput
	if !decodeBody(w, r, &in) {
		return
	}
	if missing := missingFields(map[string]string{"member_id": in.MemberID, "plan_name": in.PlanName}); len(missing) > 0 {
		writeMissing(w, "body", missing...)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.members[in.MemberID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Member not found in your gym")
		return
	}
	p := &models.DietPlan{
		ID: b.nextID("diet"), MemberID: m.ID, TrainerID: u.ID, GymID: m.GymID,
		PlanName: in.PlanName, DailyMeals: in.DailyMeals, TotalCalories: in.TotalCalories,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	b.diets[m.ID] = p
	writeJSON(w, http.StatusOK, models.PlanCreated{Message: "Diet plan created successfully", PlanID: p.ID})
}

func (b *Backend) myDiet(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.membership(w, u)
	if m == nil {
		return
	}
	p, ok := b.diets[m.ID]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"message": "No diet plan found", "plan": nil})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) logProgress(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.ProgressInput
	if !decodeBody(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.membership(w, u)
	if m == nil {
		return
	}
	p := &models.ProgressLog{
		ID: b.nextID("prog"), MemberID: m.ID, GymID: m.GymID,
		Weight: in.Weight, BodyFatPercentage: in.BodyFatPercentage, Measurements: in.Measurements,
		Notes: in.Notes, LoggedDate: time.Now().UTC().Format(time.RFC3339),
	}
	b.progress = append(b.progress, p)
	writeJSON(w, http.StatusOK, models.ProgressLogged{Message: "Progress logged successfully", ProgressID: p.ID})
}

func (b *Backend) myProgress(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.membership(w, u)
	if m == nil {
		return
	}
	out := []models.ProgressLog{}
	for i := len(b.progress) - 1; i >= 0; i-- {
		if p := b.progress[i]; p.MemberID == m.ID {
			out = append(out, *p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- ai ----

func (b *Backend) chat(w http.ResponseWriter, r *http.Request, u *user) {
	var in models.ChatRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		writeMissing(w, "body", "message")
		return
	}

	reply := "Coach says: " + in.Message
	ts := time.Now().UTC().Format(time.RFC3339)

	b.mu.Lock()
	b.chats = append(b.chats,
		models.ChatMessage{ID: b.nextID("chat"), UserID: u.ID, Role: models.ChatRoleUser, Message: in.Message, Timestamp: ts},
		models.ChatMessage{ID: b.nextID("chat"), UserID: u.ID, Role: models.ChatRoleAssistant, Message: reply, Timestamp: ts},
	)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, models.ChatReply{Response: reply, Timestamp: ts})
}

func (b *Backend) chatHistory(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.ChatMessage{}
	for _, c := range b.chats {
		if c.UserID == u.ID {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}
