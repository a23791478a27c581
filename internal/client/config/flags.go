package config

import (
	"flag"
	"os"

	"github.com/gestion-contratistas/portal/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   portal backend base URL
//	-t string   session token
//
// os.Args is filtered to only the recognized flags using flagx.FilterArgs so
// the CLI's own action flags do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerBaseURL, "s", config.ServerBaseURL, "portal backend base URL")
	fs.StringVar(&config.Token, "t", config.Token, "session token")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
