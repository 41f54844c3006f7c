package attendance

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/securestore"
	"github.com/dmitrijs2005/gymdesk/internal/common"
	"github.com/dmitrijs2005/gymdesk/internal/logging"
)

// Phase is the flow's current state.
type Phase int

const (
	Scanning Phase = iota
	Submitting
	Result
)

func (p Phase) String() string {
	switch p {
	case Scanning:
		return "scanning"
	case Submitting:
		return "submitting"
	case Result:
		return "result"
	default:
		return "unknown"
	}
}

// Displayed messages.
const (
	MsgInvalidCode    = "Invalid QR Code scanned"
	MsgLoginRequired  = "Please log in again"
	MsgMarked         = "Attendance marked successfully!"
	MsgSessionExpired = "Session expired. Please log in again."
	MsgFailed         = "Failed to mark attendance."
	MsgUnexpected     = "Unexpected server response"
	MsgNetworkDown    = "Network error: unable to reach server"
)

// TypeSuccess is the outcome type when the backend sent none.
const TypeSuccess = "success"

// Backend details that mean the credential is no longer accepted.
const (
	detailInvalidSession = "Invalid session"
	detailSessionExpired = "Session expired"
)

var (
	// ErrNotScanning is returned by Submit outside the Scanning phase, e.g.
	// for a second camera frame decoded while the first is in flight.
	ErrNotScanning = errors.New("attendance: not scanning")
	// ErrEmptyPayload is returned by Submit for an empty payload; the flow
	// stays in Scanning.
	ErrEmptyPayload = errors.New("attendance: empty payload")
	// ErrNoResult is returned by ScanAgain outside the Result phase.
	ErrNoResult = errors.New("attendance: no result to dismiss")
)

var gymIDPattern = regexp.MustCompile(`gym/(gym_[\d.]+)`)

// GymID extracts the gym identifier embedded in a scanned payload.
func GymID(payload string) (string, bool) {
	m := gymIDPattern.FindStringSubmatch(payload)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Outcome is the terminal state of one attempt.
type Outcome struct {
	OK      bool
	Message string
	// Type is the backend's classification (check_in, check_out) on
	// success, or TypeSuccess when it sent none. Empty on failure.
	Type string
	// GymID is set when the payload matched.
	GymID string
}

// Scanner submits a raw payload; *api.AttendanceAPI implements it.
type Scanner interface {
	Scan(ctx context.Context, payload string) (*models.ScanResult, error)
}

// Feedback is notified when an attempt ends.
type Feedback interface {
	Success()
	Failure()
}

// Flow drives one scanner screen. It is safe for concurrent use.
type Flow struct {
	scanner  Scanner
	secrets  securestore.Store
	feedback Feedback
	log      logging.Logger

	mu      sync.Mutex
	phase   Phase
	outcome Outcome
}

type Option func(*Flow)

func WithFeedback(fb Feedback) Option {
	return func(f *Flow) { f.feedback = fb }
}

func WithLogger(l logging.Logger) Option {
	return func(f *Flow) { f.log = l }
}

// NewFlow returns a flow in the Scanning phase.
func NewFlow(scanner Scanner, secrets securestore.Store, opts ...Option) *Flow {
	f := &Flow{
		scanner: scanner,
		secrets: secrets,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Outcome returns the last result; ok is false unless the flow is in the
// Result phase.
func (f *Flow) Outcome() (Outcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome, f.phase == Result
}

// Submit handles a decoded payload. Only the first payload of a scanning
// round is accepted; the rest get ErrNotScanning. The returned Outcome is
// also kept until ScanAgain.
func (f *Flow) Submit(ctx context.Context, payload string) (Outcome, error) {
	if payload == "" {
		return Outcome{}, ErrEmptyPayload
	}

	f.mu.Lock()
	if f.phase != Scanning {
		f.mu.Unlock()
		return Outcome{}, ErrNotScanning
	}
	f.phase = Submitting
	f.mu.Unlock()

	out := f.submit(ctx, payload)

	f.mu.Lock()
	f.phase = Result
	f.outcome = out
	f.mu.Unlock()

	if f.feedback != nil {
		if out.OK {
			f.feedback.Success()
		} else {
			f.feedback.Failure()
		}
	}
	return out, nil
}

func (f *Flow) submit(ctx context.Context, payload string) Outcome {
	gymID, ok := GymID(payload)
	if !ok {
		return Outcome{Message: MsgInvalidCode}
	}

	token, found, err := f.secrets.Get(ctx, common.SessionTokenKey)
	if err != nil {
		f.log.Warn(ctx, "credential read failed before scan", "err", err)
	}
	if !found || token == "" {
		return Outcome{Message: MsgLoginRequired, GymID: gymID}
	}

	res, err := f.scanner.Scan(ctx, payload)
	if err != nil {
		return f.failure(ctx, err, gymID)
	}

	out := Outcome{OK: true, Message: res.Message, Type: res.Type, GymID: gymID}
	if out.Message == "" {
		out.Message = MsgMarked
	}
	if out.Type == "" {
		out.Type = TypeSuccess
	}
	return out
}

func (f *Flow) failure(ctx context.Context, err error, gymID string) Outcome {
	f.log.Debug(ctx, "scan failed", "gym_id", gymID, "err", err)

	detail := api.Message(err, "")
	if api.KindOf(err) == api.KindAuthExpired || detail == detailInvalidSession || detail == detailSessionExpired {
		// The gateway already dropped it on a 401; other statuses carrying
		// these details need it done here.
		if derr := f.secrets.Delete(context.WithoutCancel(ctx), common.SessionTokenKey); derr != nil {
			f.log.Error(ctx, "failed to delete credential", "err", derr)
		}
		return Outcome{Message: MsgSessionExpired, GymID: gymID}
	}

	switch {
	case api.IsMalformed(err):
		return Outcome{Message: MsgUnexpected, GymID: gymID}
	case api.KindOf(err) == api.KindNetwork:
		return Outcome{Message: MsgNetworkDown, GymID: gymID}
	}
	return Outcome{Message: api.Message(err, MsgFailed), GymID: gymID}
}

// ScanAgain leaves the Result phase and re-enables scanning.
func (f *Flow) ScanAgain() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != Result {
		return ErrNoResult
	}
	f.phase = Scanning
	f.outcome = Outcome{}
	return nil
}
