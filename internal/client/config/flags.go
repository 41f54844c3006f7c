package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/flagx"
)

// Flags lists every spelling parseFlags understands. The command tree
// registers the same names (long form plus one-letter shorthand) so it
// does not reject them.
var Flags = []string{
	"-a", "--api-url",
	"-s", "--store",
	"-t", "--timeout",
	"-l", "--log-level",
}

// parseFlags populates cfg from the subset of args it recognises.
//
//	-a, --api-url string    backend base URL
//	-s, --store string      secure store path
//	-t, --timeout int       request timeout (seconds)
//	-l, --log-level string  log level
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("gymdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	for _, name := range []string{"a", "api-url"} {
		fs.StringVar(&cfg.BackendURL, name, cfg.BackendURL, "backend base URL")
	}
	for _, name := range []string{"s", "store"} {
		fs.StringVar(&cfg.StorePath, name, cfg.StorePath, "secure store path")
	}
	var timeout int
	for _, name := range []string{"t", "timeout"} {
		fs.IntVar(&timeout, name, int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	}
	for _, name := range []string{"l", "log-level"} {
		fs.StringVar(&cfg.LogLevel, name, cfg.LogLevel, "log level")
	}

	if err := fs.Parse(flagx.FilterArgs(args, Flags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" || f.Name == "timeout" {
			cfg.RequestTimeout = time.Duration(timeout) * time.Second
		}
	})
	return nil
}
