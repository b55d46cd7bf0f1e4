// Package inspect is a small line REPL for poking at a stratification table:
// how many rows sit at one magnetization, how a range is populated, and
// whether a sampling request can be met before running it.
package inspect

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/haricheung/magsample/internal/strata"
)

// ErrExit is returned by Eval when the user asks to leave.
var ErrExit = errors.New("exit")

const helpText = `commands:
  bin <v>          population of shifted magnetization v
  range <lo> <hi>  population of [lo, hi)
  stats            table totals
  help             this text
  exit             leave`

// Eval runs one command line against t and returns the text to print.
//
// Expectations:
//   - Blank lines return "" and no error
//   - "bin v" reports start, count and unshifted M for v
//   - "range lo hi" reports population and non-empty bins of [lo, hi)
//   - "exit" and "quit" return ErrExit
//   - Unknown commands and malformed arguments return an error
func Eval(t *strata.Table, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "exit", "quit":
		return "", ErrExit
	case "help", "?":
		return helpText, nil
	case "stats":
		nonEmpty := t.Range(0, t.Len()).NonEmpty
		return fmt.Sprintf("sites=%d bins=%d nonempty=%d total=%d", t.Sites(), t.Len(), nonEmpty, t.Total()), nil
	case "bin":
		v, err := ints(args, 1)
		if err != nil {
			return "", fmt.Errorf("bin: %w", err)
		}
		b := t.Bin(v[0])
		if b.Count == 0 {
			return fmt.Sprintf("bin %d (M=%d): empty", v[0], v[0]-t.Sites()), nil
		}
		return fmt.Sprintf("bin %d (M=%d): start=%d count=%d", v[0], v[0]-t.Sites(), b.Start, b.Count), nil
	case "range":
		v, err := ints(args, 2)
		if err != nil {
			return "", fmt.Errorf("range: %w", err)
		}
		s := t.Range(v[0], v[1])
		return fmt.Sprintf("range [%d, %d): population=%d nonempty=%d max=%d",
			s.Lo, s.Hi, s.Population, s.NonEmpty, s.MaxCount), nil
	}
	return "", fmt.Errorf("unknown command %q (try help)", cmd)
}

func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d integer argument(s), got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", a)
		}
		out[i] = v
	}
	return out, nil
}

// Run reads commands from cfg until exit, EOF or interrupt. A nil cfg reads
// from the terminal.
func Run(t *strata.Table, cfg *readline.Config) error {
	if cfg == nil {
		cfg = &readline.Config{}
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "magsample> "
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		text, err := Eval(t, line)
		if errors.Is(err, ErrExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if text != "" {
			fmt.Fprintln(out, text)
		}
	}
}
