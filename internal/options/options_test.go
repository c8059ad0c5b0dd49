package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue_CoercionChain(t *testing.T) {
	tests := map[string]struct {
		text     string
		kind     Kind
		expected interface{}
	}{
		"digits become an int":            {"123", KindInt, int64(123)},
		"leading zeros are still an int":  {"012", KindInt, int64(12)},
		"negative numbers become floats":  {"-5", KindFloat, float64(-5)},
		"decimals become floats":          {"1.5", KindFloat, 1.5},
		"scientific notation is a float":  {"1e3", KindFloat, float64(1000)},
		"arrays parse as JSON":            {"[1, 2]", KindJSON, []interface{}{1.0, 2.0}},
		"objects parse as JSON":           {`{"a": 1}`, KindJSON, map[string]interface{}{"a": 1.0}},
		"single quoted JSON is repaired":  {"{'a': 1}", KindJSON, map[string]interface{}{"a": 1.0}},
		"nested single quoted JSON":       {"[{'x': 'y'}]", KindJSON, []interface{}{map[string]interface{}{"x": "y"}}},
		"plain text stays a string":       {"abc", KindString, "abc"},
		"booleans words stay strings":     {"true", KindString, "true"},
		"empty text stays a string":       {"", KindString, ""},
		"huge digit strings become float": {"99999999999999999999", KindFloat, 1e20},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			value, err := ParseValue(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, value.Kind())
			assert.Equal(t, tc.expected, value.Interface())
		})
	}
}

func TestParseValue_QuotesInsideValidJSONAreKept(t *testing.T) {
	value, err := ParseValue(`{"it's": 1}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"it's": 1.0}, value.Interface())
}

func TestParseValue_MalformedJSONIsRejected(t *testing.T) {
	for _, text := range []string{"{broken", "[1,", "{'a': }"} {
		_, err := ParseValue(text)
		assert.Error(t, err, "expected %q to be rejected", text)
	}
}

func TestParseArgs(t *testing.T) {
	values, err := ParseArgs([]string{
		"--alpha", "1",
		"--beta", "x y",
		"--flag",
		"--gamma", "[1, 2]",
		"--tail",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), values["alpha"].Interface())
	assert.Equal(t, "x y", values["beta"].Interface())
	assert.Equal(t, true, values["flag"].Interface())
	assert.Equal(t, []interface{}{1.0, 2.0}, values["gamma"].Interface())
	assert.Equal(t, true, values["tail"].Interface())
}

func TestParseArgs_ReportsAllBadOptions(t *testing.T) {
	_, err := ParseArgs([]string{
		"stray",
		"--bad", "{oops",
		"--good", "1",
		"--worse", "[also broken",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stray")
	assert.Contains(t, err.Error(), "bad")
	assert.Contains(t, err.Error(), "worse")
}

func TestAsOptions(t *testing.T) {
	plain := AsOptions(map[string]Value{
		"runs":  Int(5),
		"ratio": Float(0.5),
		"name":  String("x"),
		"on":    Bool(true),
	})
	assert.Equal(t, map[string]interface{}{
		"runs":  int64(5),
		"ratio": 0.5,
		"name":  "x",
		"on":    true,
	}, plain)
}

func TestFeasibleCombinations_DropsDuplicateValues(t *testing.T) {
	combos := FeasibleCombinations(map[string][]interface{}{
		"a": {1, 2},
		"b": {1},
	})
	assert.Equal(t, []map[string]interface{}{
		{"a": 2, "b": 1},
	}, combos)
}

func TestFeasibleCombinations_EmptyListsAreAbsent(t *testing.T) {
	combos := FeasibleCombinations(map[string][]interface{}{
		"a": {1, 2},
		"b": {},
	})
	assert.Equal(t, []map[string]interface{}{
		{"a": 1},
		{"a": 2},
	}, combos)
}

func TestFeasibleCombinations_DeterministicOrder(t *testing.T) {
	combos := FeasibleCombinations(map[string][]interface{}{
		"b": {1, 2},
		"a": {3},
	})
	assert.Equal(t, []map[string]interface{}{
		{"a": 3, "b": 1},
		{"a": 3, "b": 2},
	}, combos)
}

func TestFeasibleCombinations_DistinguishesTypes(t *testing.T) {
	combos := FeasibleCombinations(map[string][]interface{}{
		"a": {1},
		"b": {"1"},
	})
	assert.Equal(t, []map[string]interface{}{
		{"a": 1, "b": "1"},
	}, combos)
}

func TestFeasibleCombinations_NoOptions(t *testing.T) {
	combos := FeasibleCombinations(nil)
	assert.Equal(t, []map[string]interface{}{{}}, combos)
}
