package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gymdesk/internal/client/apitest"
	"github.com/dmitrijs2005/gymdesk/internal/client/attendance"
	"github.com/dmitrijs2005/gymdesk/internal/client/qrscan"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQR(t *testing.T, contents string) string {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(contents, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))

	path := filepath.Join(t.TempDir(), "gym.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	b := bell{w: &buf}
	b.Success()
	assert.Equal(t, "\a", buf.String())
	buf.Reset()
	b.Failure()
	assert.Equal(t, "\a\a", buf.String())
}

func TestScanArgs_CheckInThenOut(t *testing.T) {
	h := newHarness(t)
	_, gym, _ := h.member(t)
	a := h.app(t, "")
	payload := apitest.QRPayload(gym.ID)

	require.NoError(t, a.ScanArgs(context.Background(), []string{payload, payload}))

	out := h.out.String()
	assert.Contains(t, out, "✓ Checked in successfully  check-in  "+gym.ID)
	assert.Contains(t, out, "✓ Checked out successfully  check-out  "+gym.ID)
	assert.Equal(t, 2, strings.Count(out, "\a"))

	records := h.backend.Attendance()
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].CheckOutTime)
}

func TestScanArgs_Failures(t *testing.T) {
	h := newHarness(t)
	_, gym, m := h.member(t)
	h.backend.SetMembershipStatus(m.ID, "expired")
	a := h.app(t, "")

	require.NoError(t, a.ScanArgs(context.Background(), []string{"hello", apitest.QRPayload(gym.ID)}))

	out := h.out.String()
	assert.Contains(t, out, "✗ "+attendance.MsgInvalidCode)
	assert.Contains(t, out, "✗ Membership inactive")
	assert.Contains(t, out, "\a\a")
	assert.Equal(t, 1, h.backend.Hits("POST /api/attendance/scan"))
}

func TestScanArgs_SignedOut(t *testing.T) {
	h := newHarness(t)
	owner := h.backend.AddUser("Max", "max@example.com", "pw", "gym_manager")
	gym := h.backend.AddGym(owner.ID, "Iron Temple")
	a := h.app(t, "")

	require.NoError(t, a.ScanArgs(context.Background(), []string{apitest.QRPayload(gym.ID)}))

	assert.Contains(t, h.out.String(), "✗ "+attendance.MsgLoginRequired)
	assert.Zero(t, h.backend.Hits("POST /api/attendance/scan"))
}

func TestScanArgs_Images(t *testing.T) {
	h := newHarness(t)
	_, gym, _ := h.member(t)
	a := h.app(t, "")
	img := writeQR(t, apitest.QRPayload(gym.ID))
	missing := filepath.Join(t.TempDir(), "missing.png")

	require.NoError(t, a.ScanArgs(context.Background(), []string{qrscan.ImagePrefix + missing, qrscan.ImagePrefix + img}))

	out := h.out.String()
	assert.Contains(t, out, "Error: @"+missing)
	assert.Contains(t, out, "✓ Checked in successfully")
}

func TestScanArgs_Prompted(t *testing.T) {
	h := newHarness(t)
	_, gym, _ := h.member(t)
	a := h.app(t, apitest.QRPayload(gym.ID)+"\n\n"+apitest.QRPayload(gym.ID)+"\n")

	require.NoError(t, a.ScanArgs(context.Background(), nil))

	out := h.out.String()
	assert.Contains(t, out, "Scan a code")
	assert.Equal(t, 1, strings.Count(out, "✓ Checked in successfully"))
	assert.NotContains(t, out, "Checked out")
}

func TestScan_LineSource(t *testing.T) {
	h := newHarness(t)
	_, gym, _ := h.member(t)
	a := h.app(t, "")
	input := "\n" + qrscan.ImagePrefix + "/nope/missing.png\n" + apitest.QRPayload(gym.ID) + "\n"

	require.NoError(t, a.Scan(context.Background(), qrscan.NewLineSource(strings.NewReader(input))))

	out := h.out.String()
	assert.Contains(t, out, "Error: ")
	assert.Contains(t, out, "✓ Checked in successfully")
}

func TestScan_CancelledContext(t *testing.T) {
	h := newHarness(t)
	a := h.app(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Scan(ctx, promptSource{a: a})
	assert.ErrorIs(t, err, context.Canceled)
}
