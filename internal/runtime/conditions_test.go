package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwalk/botwalk/internal/runtime"
	"github.com/botwalk/botwalk/pkg/flow"
)

func TestEvaluateCondition(t *testing.T) {
	vars := map[string]any{
		"topic": "billing",
		"email": "ada@example.com",
		"count": 3,
	}

	cases := []struct {
		name     string
		cond     flow.Condition
		expected bool
	}{
		{"equals match", flow.Condition{Variable: "topic", Operator: flow.OpEquals, Value: "billing"}, true},
		{"equals miss", flow.Condition{Variable: "topic", Operator: flow.OpEquals, Value: "sales"}, false},
		{"not_equals", flow.Condition{Variable: "topic", Operator: flow.OpNotEquals, Value: "sales"}, true},
		{"contains", flow.Condition{Variable: "email", Operator: flow.OpContains, Value: "@example"}, true},
		{"not_contains", flow.Condition{Variable: "email", Operator: flow.OpNotContains, Value: "@corp"}, true},
		{"starts_with", flow.Condition{Variable: "email", Operator: flow.OpStartsWith, Value: "ada"}, true},
		{"ends_with", flow.Condition{Variable: "email", Operator: flow.OpEndsWith, Value: ".com"}, true},
		{"regex", flow.Condition{Variable: "email", Operator: flow.OpRegex, Value: `^[a-z]+@`}, true},
		{"exists", flow.Condition{Variable: "topic", Operator: flow.OpExists}, true},
		{"exists miss", flow.Condition{Variable: "ghost", Operator: flow.OpExists}, false},
		{"not_exists", flow.Condition{Variable: "ghost", Operator: flow.OpNotExists}, true},
		{"non-string value stringified", flow.Condition{Variable: "count", Operator: flow.OpEquals, Value: "3"}, true},
		{"missing variable never equals", flow.Condition{Variable: "ghost", Operator: flow.OpEquals, Value: ""}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runtime.EvaluateCondition(tc.cond, vars)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEvaluateCondition_Errors(t *testing.T) {
	vars := map[string]any{"v": "x"}

	_, err := runtime.EvaluateCondition(flow.Condition{Variable: "v", Operator: "between", Value: "1"}, vars)
	assert.Error(t, err)

	_, err = runtime.EvaluateCondition(flow.Condition{Variable: "v", Operator: flow.OpRegex, Value: "("}, vars)
	assert.Error(t, err)
}
