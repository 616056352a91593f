package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

// ErrUsage marks argument errors that should print the usage text.
var ErrUsage = errors.New("usage")

// Strobe is the immutable run configuration taken from the command line.
type Strobe struct {
	Interval time.Duration
	Limit    strobe.Limit
}

// ParseArgs parses `<interval-ms> [limit]`. A limit ending in s or S is a
// positive number of seconds; anything else is a positive flash count.
func ParseArgs(args []string) (Strobe, error) {
	if len(args) < 1 || len(args) > 2 {
		return Strobe{}, fmt.Errorf("%w: expected <interval-ms> [limit], got %d arguments", ErrUsage, len(args))
	}

	interval, err := parseInterval(args[0])
	if err != nil {
		return Strobe{}, err
	}

	cfg := Strobe{Interval: interval, Limit: strobe.NoLimit{}}
	if len(args) == 2 {
		limit, err := ParseLimit(args[1])
		if err != nil {
			return Strobe{}, err
		}
		cfg.Limit = limit
	}
	return cfg, nil
}

func parseInterval(s string) (time.Duration, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("%w: interval-ms must be a positive integer, got %q", ErrUsage, s)
	}
	if ms > math.MaxInt64/int64(time.Millisecond) {
		return 0, fmt.Errorf("%w: interval-ms %q is too large", ErrUsage, s)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ParseLimit parses a single limit argument.
func ParseLimit(s string) (strobe.Limit, error) {
	if strings.HasSuffix(s, "s") || strings.HasSuffix(s, "S") {
		num := s[:len(s)-1]
		secs, err := strconv.ParseFloat(num, 64)
		if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
			return nil, fmt.Errorf("%w: time limit must be a positive number of seconds, got %q", ErrUsage, s)
		}
		if secs > float64(math.MaxInt64)/float64(time.Second) {
			return nil, fmt.Errorf("%w: time limit %q is out of range", ErrUsage, s)
		}
		d := time.Duration(secs * float64(time.Second))
		if d <= 0 {
			return nil, fmt.Errorf("%w: time limit %q is out of range", ErrUsage, s)
		}
		return strobe.TimeLimit{Duration: d}, nil
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return nil, fmt.Errorf("%w: flash count must be a positive integer, got %q", ErrUsage, s)
	}
	return strobe.CountLimit{Flashes: n}, nil
}
