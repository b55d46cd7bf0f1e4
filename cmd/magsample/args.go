package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haricheung/magsample/internal/sampler"
	"github.com/haricheung/magsample/internal/types"
)

// useDefault in a magnetization position selects the built-in bound.
const useDefault = -1

// parseSampleArgs turns "<count> <minMag|-1> <maxMag|-1>" into a request.
// Each bound falls back to its own default independently.
//
// Expectations:
//   - "-1" for minMag selects DefaultMinMag; "-1" for maxMag selects DefaultMaxMag
//   - Explicit bounds are kept as given (shifted units)
//   - Non-integers, a negative count and bounds below -1 return ErrInvalidRange
//   - minMag > maxMag returns ErrInvalidRange
func parseSampleArgs(args []string) (sampler.Request, error) {
	var req sampler.Request
	if len(args) != 3 {
		return req, fmt.Errorf("want 3 arguments, got %d: %w", len(args), types.ErrInvalidRange)
	}
	vals := make([]int, 3)
	for i, name := range []string{"sample count", "minMag", "maxMag"} {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return req, fmt.Errorf("%s %q is not an integer: %w", name, args[i], types.ErrInvalidRange)
		}
		vals[i] = v
	}
	if vals[0] < 0 {
		return req, fmt.Errorf("sample count %d: %w", vals[0], types.ErrInvalidRange)
	}
	req.Samples = vals[0]
	req.MinMag = bound(vals[1], sampler.DefaultMinMag)
	req.MaxMag = bound(vals[2], sampler.DefaultMaxMag)
	if req.MinMag < 0 || req.MaxMag < 0 {
		return req, fmt.Errorf("bounds [%d, %d): %w", vals[1], vals[2], types.ErrInvalidRange)
	}
	if req.MinMag > req.MaxMag {
		return req, fmt.Errorf("minMag %d above maxMag %d: %w", req.MinMag, req.MaxMag, types.ErrInvalidRange)
	}
	return req, nil
}

func bound(v, fallback int) int {
	if v == useDefault {
		return fallback
	}
	return v
}

// parseTrailingFlags handles commands whose flag set stops at the first
// positional argument, so that negative numbers such as -1 stay positional.
// Flags written after the n positionals are parsed here instead.
//
// Expectations:
//   - Returns args unchanged when there is nothing after the n positionals
//   - Parses trailing flags into the command's (merged) flag set
//   - Returns ErrInvalidRange when a non-flag follows the trailing flags
func parseTrailingFlags(cmd *cobra.Command, args []string, n int) ([]string, error) {
	if len(args) <= n {
		return args, nil
	}
	fs := cmd.Flags()
	if err := fs.Parse(args[n:]); err != nil {
		return nil, err
	}
	if extra := fs.Args(); len(extra) > 0 {
		return nil, fmt.Errorf("unexpected argument %q: %w", extra[0], types.ErrInvalidRange)
	}
	return args[:n], nil
}
