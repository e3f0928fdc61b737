package ui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
)

// ErrUnknownQuery is returned for an unrecognised query verb.
var ErrUnknownQuery = errors.New("unknown query")

// Querier is the read side of a breakpoint tracker.
type Querier interface {
	Current() string
	Width() int
	Is(list string) bool
	Max(name string) bool
	Min(name string) bool
	To(name string) string
	From(name string) string
	Thresholds() breakpoints.Thresholds
}

var queryVerbs = []string{"current", "width", "is", "max", "min", "to", "from"}

// Eval runs a query such as "is xs, md" or "max md" against q.
func Eval(q Querier, query string) (string, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(query), " ")
	verb = strings.ToLower(verb)
	arg = strings.TrimSpace(arg)

	needsArg := verb != "current" && verb != "width"
	if needsArg && arg == "" {
		if !slices.Contains(queryVerbs, verb) {
			return "", unknownVerb(verb)
		}
		return "", fmt.Errorf("%s needs a breakpoint name", verb)
	}

	switch verb {
	case "current":
		return q.Current(), nil
	case "width":
		return strconv.Itoa(q.Width()), nil
	case "is":
		return strconv.FormatBool(q.Is(arg)), nil
	case "max":
		return strconv.FormatBool(q.Max(arg)), nil
	case "min":
		return strconv.FormatBool(q.Min(arg)), nil
	case "to":
		return q.To(arg), nil
	case "from":
		return q.From(arg), nil
	}
	return "", unknownVerb(verb)
}

func unknownVerb(verb string) error {
	if s := Suggest(verb, queryVerbs); s != "" {
		return fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownQuery, verb, s)
	}
	return fmt.Errorf("%w %q", ErrUnknownQuery, verb)
}

// Suggest returns the candidate closest to s by edit distance, or "" when
// nothing is within two edits.
func Suggest(s string, candidates []string) string {
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(s, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
