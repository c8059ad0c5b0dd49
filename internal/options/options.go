// Package options coerces ad-hoc textual option values into typed ones and
// expands multi-valued options into feasible combinations.
package options

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// Kind tags the variant a coerced value holds.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindJSON
	KindString
)

// Value is a coerced option value: exactly one variant is set, identified
// by Kind.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	j    interface{}
	s    string
}

func Bool(b bool) Value             { return Value{kind: KindBool, b: b} }
func Int(i int64) Value             { return Value{kind: KindInt, i: i} }
func Float(f float64) Value         { return Value{kind: KindFloat, f: f} }
func JSONValue(j interface{}) Value { return Value{kind: KindJSON, j: j} }
func String(s string) Value         { return Value{kind: KindString, s: s} }

func (v Value) Kind() Kind { return v.kind }

// Interface returns the underlying value in its plain Go form.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindJSON:
		return v.j
	default:
		return v.s
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// ParseValue runs text through the coercion chain and returns the first
// variant whose parser accepts it:
//
//	digits only            -> Int
//	parseable as a number  -> Float
//	starts with [ or {     -> JSON, normalizing single quotes to double
//	                          quotes for a second attempt if needed
//	anything else          -> String
//
// A value accepted by the JSON predicate that fails both parse attempts is
// an error rather than a string, so malformed structures are not passed
// through silently.
func ParseValue(text string) (Value, error) {
	if isDigits(text) {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(i), nil
		}
		// Digit strings too large for int64 fall through to the float
		// parser below.
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Float(f), nil
	}
	if strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{") {
		var parsed interface{}
		if err := json.Unmarshal([]byte(text), &parsed); err == nil {
			return JSONValue(parsed), nil
		}
		normalized := strings.ReplaceAll(text, "'", `"`)
		if err := json.Unmarshal([]byte(normalized), &parsed); err == nil {
			return JSONValue(parsed), nil
		}
		return Value{}, errors.Errorf("cannot parse %q as JSON", text)
	}
	return String(text), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseArgs coerces a flat --name value argument list. An option followed by
// another option instead of a value, or by nothing, becomes Bool(true).
// All invalid options are reported together.
func ParseArgs(args []string) (map[string]Value, error) {
	values := map[string]Value{}
	var result *multierror.Error
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			result = multierror.Append(result, errors.Errorf("unexpected argument %q, options are passed as --name value", arg))
			i++
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if name == "" {
			result = multierror.Append(result, errors.New("empty option name"))
			i++
			continue
		}
		if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
			values[name] = Bool(true)
			i++
			continue
		}
		value, err := ParseValue(args[i+1])
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "invalid value for option %q", name))
		} else {
			values[name] = value
		}
		i += 2
	}
	return values, result.ErrorOrNil()
}

// AsOptions converts coerced values into the plain map job specs carry.
func AsOptions(values map[string]Value) map[string]interface{} {
	plain := make(map[string]interface{}, len(values))
	for name, value := range values {
		plain[name] = value.Interface()
	}
	return plain
}

// FeasibleCombinations expands lists of candidate option values into one map
// per combination, dropping combinations that use the same value twice.
// Keys with no candidate values are treated as absent. Keys are iterated in
// sorted order, so the result is deterministic.
func FeasibleCombinations(lists map[string][]interface{}) []map[string]interface{} {
	keys := maps.Keys(lists)
	sort.Strings(keys)

	candidates := make([][]interface{}, len(keys))
	for i, key := range keys {
		if len(lists[key]) == 0 {
			candidates[i] = []interface{}{nil}
		} else {
			candidates[i] = lists[key]
		}
	}

	var combos []map[string]interface{}
	idx := make([]int, len(keys))
	for {
		combo := make(map[string]interface{}, len(keys))
		seen := make(map[string]struct{}, len(keys))
		feasible := true
		for i, key := range keys {
			value := candidates[i][idx[i]]
			if value == nil {
				continue
			}
			fingerprint := fmt.Sprintf("%T:%v", value, value)
			if _, dup := seen[fingerprint]; dup {
				feasible = false
				break
			}
			seen[fingerprint] = struct{}{}
			combo[key] = value
		}
		if feasible {
			combos = append(combos, combo)
		}

		carry := len(idx) - 1
		for carry >= 0 {
			idx[carry]++
			if idx[carry] < len(candidates[carry]) {
				break
			}
			idx[carry] = 0
			carry--
		}
		if carry < 0 {
			break
		}
	}
	return combos
}
