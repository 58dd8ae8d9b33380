package runtime

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/botwalk/botwalk/pkg/flow"
)

// EvaluateCondition applies one routing rule against the variable map.
// The left-hand side is the string form of the bound variable; exists
// and not_exists only test for presence and ignore the value.
func EvaluateCondition(c flow.Condition, vars map[string]any) (bool, error) {
	value, bound := vars[c.Variable]

	switch c.Operator {
	case flow.OpExists:
		return bound, nil
	case flow.OpNotExists:
		return !bound, nil
	}

	if !bound {
		return false, nil
	}
	lhs := fmt.Sprintf("%v", value)

	switch c.Operator {
	case flow.OpEquals:
		return lhs == c.Value, nil
	case flow.OpNotEquals:
		return lhs != c.Value, nil
	case flow.OpContains:
		return strings.Contains(lhs, c.Value), nil
	case flow.OpNotContains:
		return !strings.Contains(lhs, c.Value), nil
	case flow.OpStartsWith:
		return strings.HasPrefix(lhs, c.Value), nil
	case flow.OpEndsWith:
		return strings.HasSuffix(lhs, c.Value), nil
	case flow.OpRegex:
		matched, err := regexp.MatchString(c.Value, lhs)
		if err != nil {
			return false, fmt.Errorf("condition %s: invalid pattern: %w", c.ID, err)
		}
		return matched, nil
	}
	return false, fmt.Errorf("condition %s: unknown operator %q", c.ID, c.Operator)
}
