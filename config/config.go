// Package config supplies cmd/sicxe's layered configuration: CLI flags
// take precedence, falling back to environment-variable defaults read
// with github.com/xyproto/env/v2, the way xyproto-flapc's own toolchain
// reads its environment-driven defaults.
package config

import (
	"github.com/xyproto/env/v2"
)

// DefaultMnemonicsPath is the fallback mnemonic-table path used when
// neither a --mnemonics flag nor the SICXE_MNEMONICS environment variable
// is set. The file is read at startup; its absence is fatal.
const DefaultMnemonicsPath = "mnemonics.txt"

// Config is cmd/sicxe's resolved startup configuration.
type Config struct {
	MnemonicsPath string
	Verbose       bool
}

// Load resolves a Config from CLI-flag values (already parsed by cobra)
// and environment fallbacks. An empty flagMnemonics means "not set on the
// command line"; the same fallback chain applies to Verbose.
func Load(flagMnemonics string, flagVerbose bool) Config {
	mnemonics := flagMnemonics
	if mnemonics == "" {
		mnemonics = env.Str("SICXE_MNEMONICS", DefaultMnemonicsPath)
	}
	verbose := flagVerbose || env.Bool("SICXE_VERBOSE")
	return Config{MnemonicsPath: mnemonics, Verbose: verbose}
}
