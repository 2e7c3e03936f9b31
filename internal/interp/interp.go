// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package interp

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/stacklint/stacklint/internal/log"
	"github.com/stacklint/stacklint/internal/vars"
)

// Context carries the per-resource state an expression may reference.
type Context struct {
	// HasIndex is true for resources materialized from a count block.
	HasIndex bool
	Index    int
}

// Unresolved records one ${...} span that could not be resolved. The span's
// literal text stays in the value; downstream matching sees it as an opaque
// string.
type Unresolved struct {
	Token  string
	Reason string
}

// Resolver resolves ${...} spans inside scalar attribute values against a
// variable store and an optional count context.
type Resolver struct {
	store *vars.Store
}

// NewResolver returns a Resolver backed by the given store.
func NewResolver(store *vars.Store) *Resolver {
	return &Resolver{store: store}
}

// spanRe matches one interpolation span. The negated class keeps multiple
// spans in the same value independent of each other.
var spanRe = regexp.MustCompile(`\$\{[^}]*\}`)

var (
	countIndexRe = regexp.MustCompile(`^count\.index(?:\s*([+-])\s*(\S+))?$`)
	varRefRe     = regexp.MustCompile(`^var\.([A-Za-z_][A-Za-z0-9_-]*)(?:\[(.+)\])?$`)
	lengthRe     = regexp.MustCompile(`^length\(\s*(.+?)\s*\)$`)
	formatRe     = regexp.MustCompile(`^format\((.*)\)$`)
	intLitRe     = regexp.MustCompile(`^-?\d+$`)
	verbRe       = regexp.MustCompile(`%[-+ #0]*\d*(?:\.\d+)?[a-zA-Z]`)
)

// Resolve substitutes every resolvable ${...} span in s, preserving
// surrounding literal text verbatim. Spans that cannot be resolved are left
// in place and reported; Resolve never fails.
func (r *Resolver) Resolve(s string, ctx Context) (string, []Unresolved) {
	if !strings.Contains(s, "${") {
		return s, nil
	}

	var unresolved []Unresolved
	out := spanRe.ReplaceAllStringFunc(s, func(token string) string {
		expr := strings.TrimSpace(token[2 : len(token)-1])
		v, err := r.eval(expr, ctx)
		if err != nil {
			log.Debugf("leaving %s unresolved: %v", token, err)
			unresolved = append(unresolved, Unresolved{Token: token, Reason: err.Error()})
			return token
		}
		return Stringify(v)
	})
	return out, unresolved
}

// eval evaluates a single expression (the inside of a ${...} span, or one
// argument of a function call).
func (r *Resolver) eval(expr string, ctx Context) (interface{}, error) {
	switch {
	case strings.HasPrefix(expr, "count.index"):
		return r.evalCountIndex(expr, ctx)
	case strings.HasPrefix(expr, "var."):
		return r.evalVarRef(expr)
	case strings.HasPrefix(expr, "length("):
		return r.evalLength(expr, ctx)
	case strings.HasPrefix(expr, "format("):
		return r.evalFormat(expr, ctx)
	case intLitRe.MatchString(expr):
		return strconv.Atoi(expr)
	case len(expr) >= 2 && strings.HasPrefix(expr, `"`) && strings.HasSuffix(expr, `"`):
		return expr[1 : len(expr)-1], nil
	}
	return nil, fmt.Errorf("unsupported expression %q", expr)
}

func (r *Resolver) evalCountIndex(expr string, ctx Context) (interface{}, error) {
	m := countIndexRe.FindStringSubmatch(expr)
	if m == nil {
		return nil, fmt.Errorf("unsupported count expression %q", expr)
	}
	if !ctx.HasIndex {
		return nil, fmt.Errorf("count.index referenced outside a count block")
	}
	if m[1] == "" {
		return ctx.Index, nil
	}
	k, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("count.index operand %q is not an integer", m[2])
	}
	if m[1] == "-" {
		return ctx.Index - k, nil
	}
	return ctx.Index + k, nil
}

func (r *Resolver) evalVarRef(expr string) (interface{}, error) {
	m := varRefRe.FindStringSubmatch(expr)
	if m == nil {
		return nil, fmt.Errorf("unsupported variable reference %q", expr)
	}

	value, ok := r.store.Resolve(m[1])
	if !ok {
		return nil, fmt.Errorf("variable %q is not set", m[1])
	}
	if m[2] == "" {
		return value, nil
	}

	// Element lookup: var.name[0] or var.name["key"].
	key := strings.TrimSpace(m[2])
	if strings.HasPrefix(key, `"`) && strings.HasSuffix(key, `"`) && len(key) >= 2 {
		mv, ok := value.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("variable %q is not a map", m[1])
		}
		elem, ok := mv[key[1:len(key)-1]]
		if !ok {
			return nil, fmt.Errorf("variable %q has no key %s", m[1], key)
		}
		return elem, nil
	}

	idx, err := strconv.Atoi(key)
	if err != nil {
		return nil, fmt.Errorf("variable index %q is not an integer", key)
	}
	lv, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("variable %q is not a list", m[1])
	}
	if idx < 0 || idx >= len(lv) {
		return nil, fmt.Errorf("variable %q index %d out of range", m[1], idx)
	}
	return lv[idx], nil
}

func (r *Resolver) evalLength(expr string, ctx Context) (interface{}, error) {
	m := lengthRe.FindStringSubmatch(expr)
	if m == nil {
		return nil, fmt.Errorf("unsupported length expression %q", expr)
	}
	v, err := r.eval(m[1], ctx)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case string:
		return utf8.RuneCountInString(val), nil
	case []interface{}:
		return len(val), nil
	case map[string]interface{}:
		return len(val), nil
	}
	return nil, fmt.Errorf("length() not supported for %T", v)
}

func (r *Resolver) evalFormat(expr string, ctx Context) (interface{}, error) {
	m := formatRe.FindStringSubmatch(expr)
	if m == nil {
		return nil, fmt.Errorf("unsupported format expression %q", expr)
	}

	parts := splitArgs(m[1])
	if len(parts) == 0 {
		return nil, fmt.Errorf("format() requires a format string")
	}

	fmtArg := strings.TrimSpace(parts[0])
	if len(fmtArg) < 2 || !strings.HasPrefix(fmtArg, `"`) || !strings.HasSuffix(fmtArg, `"`) {
		return nil, fmt.Errorf("format() first argument %q is not a string literal", fmtArg)
	}
	fmtStr := fmtArg[1 : len(fmtArg)-1]

	verbs := verbRe.FindAllString(fmtStr, -1)
	if len(verbs) != len(parts)-1 {
		return nil, fmt.Errorf("format() has %d verbs but %d arguments", len(verbs), len(parts)-1)
	}

	args := make([]interface{}, 0, len(parts)-1)
	for i, raw := range parts[1:] {
		v, err := r.eval(strings.TrimSpace(raw), ctx)
		if err != nil {
			return nil, err
		}
		v, err = coerce(verbs[i][len(verbs[i])-1], v)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	return fmt.Sprintf(fmtStr, args...), nil
}

// splitArgs splits a function argument list on top-level commas, honoring
// quotes and nested parens/brackets.
func splitArgs(s string) []string {
	var (
		args     []string
		depth    int
		inQuote  bool
		start    int
		prevWasE bool
	)
	for i, c := range s {
		switch {
		case prevWasE:
			prevWasE = false
		case c == '\\':
			prevWasE = true
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			args = append(args, s[start:i])
			start = i + 1
		}
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return append(args, s[start:])
}

// coerce converts a resolved argument to the type its format verb expects.
func coerce(verb byte, v interface{}) (interface{}, error) {
	switch verb {
	case 'd', 'b', 'o', 'x', 'X', 'c':
		switch n := v.(type) {
		case int:
			return n, nil
		case float64:
			return int(n), nil
		case string:
			i, err := strconv.Atoi(n)
			if err != nil {
				return nil, fmt.Errorf("argument %q is not an integer", n)
			}
			return i, nil
		}
		return nil, fmt.Errorf("argument %v cannot be used with %%%c", v, verb)
	case 'f', 'e', 'E', 'g', 'G':
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %q is not a number", n)
			}
			return f, nil
		}
		return nil, fmt.Errorf("argument %v cannot be used with %%%c", v, verb)
	case 's', 'q', 'v':
		return Stringify(v), nil
	}
	return nil, fmt.Errorf("unsupported format verb %%%c", verb)
}

// Stringify renders a resolved value the way it substitutes into a string:
// numbers in standard decimal representation, lists and maps as their
// serialized (compact JSON) form.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
