// Package analytics derives study-time attribution, efficiency metrics, a
// hours-to-grade regression and weighted grade projections from a subject's
// sessions, assessments and category weights. Everything here is a pure
// function of its inputs.
package analytics

import (
	"fmt"
	"strings"
	"time"
)

// UngradedPolicy decides which assessment grades count as "graded".
type UngradedPolicy string

const (
	// ZeroIsUngraded treats a grade of 0 (or below) like a missing grade.
	ZeroIsUngraded UngradedPolicy = "zero-is-ungraded"
	// ZeroIsScore treats any parsable grade, including 0, as a real score.
	ZeroIsScore UngradedPolicy = "zero-is-score"
)

// ParsePolicy parses a policy name. Empty input yields ZeroIsUngraded.
func ParsePolicy(s string) (UngradedPolicy, error) {
	switch UngradedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ZeroIsUngraded:
		return ZeroIsUngraded, nil
	case ZeroIsScore:
		return ZeroIsScore, nil
	default:
		return "", fmt.Errorf("unknown ungraded policy %q", s)
	}
}

type Config struct {
	Policy UngradedPolicy
	// Location is used to turn assessment calendar dates into end-of-day
	// cutoffs. Nil means UTC.
	Location *time.Location
}

func DefaultConfig() Config {
	return Config{Policy: ZeroIsUngraded, Location: time.UTC}
}

// Engine bundles the configuration every derivation step needs.
// The zero value behaves like DefaultConfig.
type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	if cfg.Policy == "" {
		cfg.Policy = ZeroIsUngraded
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// isGraded reports whether a parsed grade counts under the policy.
func (e *Engine) isGraded(grade float64, parsed bool) bool {
	if !parsed {
		return false
	}
	if e.cfg.Policy == ZeroIsScore {
		return true
	}
	return grade > 0
}
