package flow

// Operator is the comparison applied by a conditional node. The set
// mirrors the production runtime; the engine rejects anything else at
// evaluation time.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"
	OpRegex       Operator = "regex"
	OpExists      Operator = "exists"
	OpNotExists   Operator = "not_exists"
)

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpNotContains,
		OpStartsWith, OpEndsWith, OpRegex, OpExists, OpNotExists:
		return true
	}
	return false
}

// Condition is a single routing rule of a conditional node. Variable
// names reference upstream variable producers by node id. The
// condition id doubles as the source handle of the matching edge.
type Condition struct {
	ID       string   `json:"id" mapstructure:"id"`
	Variable string   `json:"variable" mapstructure:"variable"`
	Operator Operator `json:"operator" mapstructure:"operator"`
	Value    string   `json:"value,omitempty" mapstructure:"value"`
}
