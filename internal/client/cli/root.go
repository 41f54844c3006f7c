package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gymdesk/internal/client/qrscan"
	"github.com/spf13/cobra"
)

// AppFactory builds the App a command runs against, reading from in and
// writing to out.
type AppFactory func(ctx context.Context, in io.Reader, out io.Writer) (*App, error)

// reportedError wraps an error that has already been shown to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// NewRootCommand returns the gymdesk command tree. Without a subcommand it
// starts the interactive shell.
//
// The persistent flags mirror the ones config.LoadConfig reads from the
// raw arguments; they are declared here so the tree accepts them and lists
// them in help.
func NewRootCommand(newApp AppFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "gymdesk",
		Short: "Terminal client for the gym management backend",
		Long: `gymdesk signs you in to the gym management backend and gives every role
its screens: trainees check in and follow their plans, managers run their
gym, trainers write plans and head admins manage gyms.

Environment Variables:
  GYMDESK_BACKEND_URL      Backend base URL
  GYMDESK_STORE_PATH       Secure store file
  GYMDESK_STORE_SECRET     Secure store secret (default: generated key file)
  GYMDESK_REQUEST_TIMEOUT  Request timeout, seconds or a duration
  GYMDESK_LOG_LEVEL        debug, info, warn or error`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: withApp(newApp, func(ctx context.Context, a *App, _ []string) error {
			a.Shell(ctx)
			return nil
		}),
	}

	pf := root.PersistentFlags()
	pf.StringP("api-url", "a", "", "backend base URL")
	pf.StringP("store", "s", "", "secure store path")
	pf.IntP("timeout", "t", 0, "request timeout in seconds")
	pf.StringP("log-level", "l", "", "log level")
	pf.StringP("config", "c", "", "JSON config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "shell",
			Short: "Start the interactive shell (default)",
			Args:  cobra.NoArgs,
			RunE:  root.RunE,
		},
		commandFor(newApp, "login [email]", "Sign in with email and password", cobra.MaximumNArgs(1)),
		commandFor(newApp, "register", "Create a trainee or gym manager account", cobra.NoArgs),
		commandFor(newApp, "oauth <session-id|redirect-url>", "Finish a Google sign-in", cobra.ExactArgs(1)),
		commandFor(newApp, "logout", "Sign out and forget the stored session", cobra.NoArgs),
		commandFor(newApp, "whoami", "Show the signed-in user", cobra.NoArgs),
		commandFor(newApp, "status", "Check backend connectivity", cobra.NoArgs),
		newScanCommand(newApp),
	)
	return root
}

// commandFor exposes a shell command as a subcommand. The first word of use
// names the shell command.
func commandFor(newApp AppFactory, use, short string, args cobra.PositionalArgs) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short, Args: args}
	cmd.RunE = withApp(newApp, func(ctx context.Context, a *App, args []string) error {
		return a.dispatch(ctx, cmd.Name(), args)
	})
	return cmd
}

func newScanCommand(newApp AppFactory) *cobra.Command {
	var images []string

	cmd := &cobra.Command{
		Use:   "scan [payload...]",
		Short: "Mark attendance from gym QR codes",
		Long: `Submit gym QR codes for attendance. Codes come from the arguments, from
image files given with --image, or one per line on standard input (a line
"@path" names an image file).`,
		RunE: withApp(newApp, func(ctx context.Context, a *App, args []string) error {
			if len(args) == 0 && len(images) == 0 {
				return a.Scan(ctx, qrscan.NewLineSource(a.stdin))
			}
			for _, img := range images {
				args = append(args, qrscan.ImagePrefix+img)
			}
			return a.ScanArgs(ctx, args)
		}),
	}
	cmd.Flags().StringSliceVarP(&images, "image", "i", nil, "image file holding a QR code (repeatable)")
	return cmd
}

// withApp builds the App for a single command run and reports errors the
// way the shell does.
func withApp(newApp AppFactory, fn func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := fn(ctx, a, args); err != nil {
			a.fail(err)
			return reportedError{err: err}
		}
		return nil
	}
}

// Execute runs the command tree with args and returns the process exit
// code. Errors not already shown are printed to errOut.
func Execute(ctx context.Context, newApp AppFactory, args []string, errOut io.Writer) int {
	root := NewRootCommand(newApp)
	root.SetArgs(args)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.As(err, new(reportedError)) {
		fmt.Fprintln(errOut, errStyle.Render("Error: ")+err.Error())
	}
	return 1
}
