package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, b *Backend, path, token string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.URL()+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := b.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestBackend_AuthDetails(t *testing.T) {
	b := New()
	defer b.Close()
	u := b.AddUser("Ana", "ana@example.com", "pw", models.RoleTrainee)

	status, body := get(t, b, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not authenticated", body["detail"])

	status, body = get(t, b, "/api/auth/me", b.IssueToken(u.ID, -time.Second))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Session expired", body["detail"])

	status, body = get(t, b, "/api/auth/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid session", body["detail"])

	status, body = get(t, b, "/api/auth/me", b.IssueToken(u.ID, time.Hour))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, u.ID, body["_id"])
}

func TestBackend_RoleGuard(t *testing.T) {
	b := New()
	defer b.Close()
	u := b.AddUser("Ana", "ana@example.com", "pw", models.RoleTrainee)

	status, body := get(t, b, "/api/gyms/all", b.IssueToken(u.ID, time.Hour))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied", body["detail"])
}

func TestBackend_FailRestoreAndHits(t *testing.T) {
	b := New()
	defer b.Close()

	b.Fail("GET /api/health", http.StatusServiceUnavailable, `{"detail":"down"}`)
	status, body := get(t, b, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "down", body["detail"])

	b.Restore("GET /api/health")
	status, body = get(t, b, "/api/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	assert.Equal(t, 2, b.Hits("GET /api/health"))
	assert.Equal(t, 2, b.Hits(""))
	assert.Zero(t, b.Hits("GET /api/auth/me"))
}

func TestBackend_RecordsBody(t *testing.T) {
	b := New()
	defer b.Close()

	resp, err := b.Client().Post(b.URL()+"/api/auth/login", "application/json",
		strings.NewReader(`{"email":"nobody@example.com","password":"x"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	reqs := b.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"email":"nobody@example.com","password":"x"}`, string(reqs[0].Body))
}

func TestQRPayload(t *testing.T) {
	p := QRPayload("gym_1001")
	assert.Equal(t, "fitdesert://gym/gym_1001/attendance", p)
	m := scanGymPattern.FindStringSubmatch(p)
	require.NotNil(t, m)
	assert.Equal(t, "1001", m[1])
}

func Test_tokenRoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	tok, err := generateToken("user_1", secret, time.Minute, time.Now())
	require.NoError(t, err)

	uid, jti, err := userIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user_1", uid)
	assert.NotEmpty(t, jti)

	_, _, err = userIDFromToken(tok, []byte("other"))
	assert.ErrorIs(t, err, errTokenInvalid)

	old, err := generateToken("user_1", secret, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, _, err = userIDFromToken(old, secret)
	assert.ErrorIs(t, err, errTokenExpired)
}
