package hashids

import (
	"fmt"
	"strings"
)

// Supported codec backends.
const (
	BackendHashids = "hashids"
	BackendSqids   = "sqids"
)

// Config holds the codec options. A nil field means the option was not
// configured and the codec library default applies.
type Config struct {
	Alphabet  *string
	MinLength *int
	Salt      *string
	// Backend selects the codec, defaults to BackendHashids.
	Backend string
}

// String describes the configuration without revealing the salt.
func (cfg Config) String() string {
	parts := []string{}
	backend := cfg.Backend
	if backend == "" {
		backend = BackendHashids
	}
	parts = append(parts, "backend="+backend)
	if cfg.Alphabet != nil {
		parts = append(parts, fmt.Sprintf("alphabet=%q", *cfg.Alphabet))
	}
	if cfg.MinLength != nil {
		parts = append(parts, fmt.Sprintf("min_length=%d", *cfg.MinLength))
	}
	if cfg.Salt != nil {
		parts = append(parts, "salt=<set>")
	}
	return strings.Join(parts, " ")
}
