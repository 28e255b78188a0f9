package config

import (
	"flag"
	"io"

	"github.com/pkg/errors"
	"github.com/unirent/unirent/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend base URL (default from Config)
//	-m string   store mode: auto, online or offline
//	-d string   path of the local SQLite database
//
// args is filtered with flagx.FilterArgs first, so flags owned by other
// components (-c) do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d"})

	fs := flag.NewFlagSet("unirent", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend base URL")
	mode := fs.String("m", string(cfg.Mode), "store mode: auto, online or offline")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")

	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "parse flags")
	}

	cfg.Mode = Mode(*mode)
	return nil
}
