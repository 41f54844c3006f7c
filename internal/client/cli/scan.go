package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/attendance"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/qrscan"
)

// bell rings the terminal bell as scan feedback: once for success, twice
// for failure.
type bell struct {
	w io.Writer
}

func (b bell) Success() { fmt.Fprint(b.w, "\a") }
func (b bell) Failure() { fmt.Fprint(b.w, "\a\a") }

// promptSource reads payloads from the shell's input until a blank line or
// "done".
type promptSource struct {
	a *App
}

func (s promptSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := s.a.text("Scan a code (payload or @image.png, blank line to stop)")
	if err != nil {
		return "", err
	}
	if line == "" || line == "done" {
		return "", io.EOF
	}
	return resolvePayload(line)
}

// resolvePayload decodes "@path" arguments and passes raw payloads through.
func resolvePayload(s string) (string, error) {
	if path, ok := strings.CutPrefix(s, qrscan.ImagePrefix); ok {
		return qrscan.DecodeFile(strings.TrimSpace(path))
	}
	return s, nil
}

// ScanArgs submits the payloads given as arguments, or prompts for them.
func (a *App) ScanArgs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.Scan(ctx, promptSource{a: a})
	}

	payloads := make(qrscan.Static, 0, len(args))
	for _, arg := range args {
		p, err := resolvePayload(arg)
		if err != nil {
			a.fail(fmt.Errorf("%s: %w", arg, err))
			continue
		}
		payloads = append(payloads, p)
	}
	return a.Scan(ctx, &payloads)
}

// Scan runs the attendance flow over every payload src yields. Each result
// is shown before scanning resumes.
func (a *App) Scan(ctx context.Context, src qrscan.Source) error {
	flow := attendance.NewFlow(a.api.Attendance, a.secrets,
		attendance.WithFeedback(bell{w: a.out}),
		attendance.WithLogger(a.log),
	)

	for {
		payload, err := src.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, qrscan.ErrNoCode):
			a.warn("No QR code found in the image.")
			continue
		case errors.Is(err, qrscan.ErrUnreadable):
			a.fail(err)
			continue
		case err != nil:
			return err
		}

		out, err := flow.Submit(ctx, payload)
		if errors.Is(err, attendance.ErrEmptyPayload) {
			continue
		}
		if err != nil {
			return err
		}
		a.showOutcome(out)

		if err := flow.ScanAgain(); err != nil {
			return err
		}
	}
}

func (a *App) showOutcome(out attendance.Outcome) {
	if !out.OK {
		a.println(errStyle.Render("✗ " + out.Message))
		return
	}

	line := okStyle.Render("✓ " + out.Message)
	switch out.Type {
	case models.ScanCheckIn:
		line += subtleStyle.Render("  check-in")
	case models.ScanCheckOut:
		line += subtleStyle.Render("  check-out")
	}
	if out.GymID != "" {
		line += subtleStyle.Render("  " + out.GymID)
	}
	a.println(line)
}
