package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
)

// Threshold validation errors.
var (
	ErrEmptyThresholds = errors.New("no breakpoints defined")
	ErrEmptyName       = errors.New("breakpoint name is empty")
	ErrNegative        = errors.New("breakpoint minimum is negative")
	ErrUnordered       = errors.New("breakpoints are not in ascending order")
	ErrDuplicateName   = errors.New("duplicate breakpoint name")
)

// Validate checks that ts is non-empty, uniquely named, non-negative and
// strictly ascending.
func Validate(ts breakpoints.Thresholds) error {
	if len(ts) == 0 {
		return ErrEmptyThresholds
	}
	seen := make(map[string]bool, len(ts))
	for i, t := range ts {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w (position %d)", ErrEmptyName, i)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, t.Name)
		}
		seen[t.Name] = true
		if t.Min < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegative, t.Name, t.Min)
		}
		if i > 0 && t.Min <= ts[i-1].Min {
			return fmt.Errorf("%w: %s=%d follows %s=%d", ErrUnordered, t.Name, t.Min, ts[i-1].Name, ts[i-1].Min)
		}
	}
	return nil
}

// ParseThresholds reads the flag form "xs:0, sm:600, md:960".
func ParseThresholds(s string) (breakpoints.Thresholds, error) {
	var ts breakpoints.Thresholds
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			name, value, ok = strings.Cut(part, "=")
		}
		if !ok {
			return nil, fmt.Errorf("breakpoint %q: expected name:min", part)
		}
		minWidth, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("breakpoint %q: %w", part, err)
		}
		ts = append(ts, breakpoints.Threshold{Name: strings.TrimSpace(name), Min: minWidth})
	}
	if err := Validate(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// breakpointsDoc is the part of the config file decoded with yaml.v3, which
// keeps mapping order.
type breakpointsDoc struct {
	Breakpoints *yaml.Node `yaml:"breakpoints"`
}

// LoadThresholds reads the breakpoints key of a YAML config file. A file
// without the key yields nil and no error.
func LoadThresholds(path string) (breakpoints.Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return DecodeThresholds(data)
}

// DecodeThresholds decodes the breakpoints key of a YAML document. Both an
// ordered mapping ({xs: 0, sm: 600}) and a sequence of {name, min} are
// accepted.
func DecodeThresholds(data []byte) (breakpoints.Thresholds, error) {
	var doc breakpointsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if doc.Breakpoints == nil {
		return nil, nil
	}
	ts, err := decodeNode(doc.Breakpoints)
	if err != nil {
		return nil, err
	}
	if err := Validate(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func decodeNode(n *yaml.Node) (breakpoints.Thresholds, error) {
	switch n.Kind {
	case yaml.MappingNode:
		ts := make(breakpoints.Thresholds, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			var minWidth int
			if err := val.Decode(&minWidth); err != nil {
				return nil, fmt.Errorf("breakpoint %q (line %d): %w", key.Value, val.Line, err)
			}
			ts = append(ts, breakpoints.Threshold{Name: key.Value, Min: minWidth})
		}
		return ts, nil
	case yaml.SequenceNode:
		var ts breakpoints.Thresholds
		if err := n.Decode(&ts); err != nil {
			return nil, fmt.Errorf("breakpoints (line %d): %w", n.Line, err)
		}
		return ts, nil
	default:
		return nil, fmt.Errorf("breakpoints (line %d): expected a mapping or a list", n.Line)
	}
}

// thresholdsNode encodes ts as an ordered YAML mapping.
func thresholdsNode(ts breakpoints.Thresholds) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, t := range ts {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(t.Min)},
		)
	}
	return n
}
