package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// fileConfig is an optional .lrgrep.toml providing defaults for flags the
// user hasn't set explicitly on the command line (SPEC_FULL.md §1),
// including the header/trailer file paths §6.4's output concatenation
// needs, since §6.3's CLI flags have no way to set them directly.
type fileConfig struct {
	Output  string `toml:"output"`
	Grammar string `toml:"grammar"`
	Quiet   bool   `toml:"quiet"`
	Header  string `toml:"header"`
	Trailer string `toml:"trailer"`
}

const configFileName = ".lrgrep.toml"

// applyConfigDefaults loads configFileName from the working directory, if
// present, and seeds rootFlags from it. A missing or malformed file is
// silently ignored: the config file is a best-effort default layer, not
// a required input, so neither case is treated as a ConfigError.
func applyConfigDefaults(flags *flagSet) {
	if _, err := os.Stat(configFileName); err != nil {
		return
	}
	var cfg fileConfig
	if _, err := toml.DecodeFile(configFileName, &cfg); err != nil {
		return
	}
	flags.output = cfg.Output
	flags.grammar = cfg.Grammar
	flags.quiet = cfg.Quiet
	flags.headerFile = cfg.Header
	flags.trailerFile = cfg.Trailer
}
