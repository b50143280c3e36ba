package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tinkerblocks/core/runtime/execution"
	"github.com/tinkerblocks/core/runtime/values"
)

// Set implements SET/ASSIGN/LET: evaluates an expression and stores it
// under an upper-cased variable name, coercing a string result to a
// number if parseable or else to a boolean (TRUE/YES/1). Grounded on
// original_source/src/engine/commands/variable.py's SetCommand.
type Set struct {
	Base
	Name       string
	Expression values.Value
}

func (s *Set) ParseArgs(tokens []string) error {
	if len(tokens) < 2 {
		return fmt.Errorf("SET requires variable name and value")
	}
	s.Name = strings.ToUpper(tokens[0])

	expr, ok := values.ParseExpression(tokens[1:])
	if !ok {
		return fmt.Errorf("invalid value expression: %s", strings.Join(tokens[1:], " "))
	}
	s.Expression = expr
	return nil
}

func (s *Set) Execute(ctx context.Context, ec *execution.Context) error {
	if s.Name == "" || s.Expression == nil {
		return fmt.Errorf("SET command missing variable name or value")
	}

	result, err := s.Expression.Evaluate(ec)
	if err != nil {
		return err
	}

	value, err := coerceStoredValue(result)
	if err != nil {
		return err
	}

	ec.SetVariable(s.Name, value)
	return nil
}

// coerceStoredValue applies spec.md §4.4's SET coercion: a string result is
// parsed as a number if possible, else treated as a boolean true iff it
// equals (case-insensitively) TRUE/YES/1. Numbers and booleans pass
// through unchanged.
func coerceStoredValue(v any) (any, error) {
	switch val := v.(type) {
	case float64, bool:
		return val, nil
	case string:
		if num, err := values.ToNumber(val); err == nil {
			return num, nil
		}
		upper := strings.ToUpper(val)
		return upper == "TRUE" || upper == "YES" || upper == "1", nil
	default:
		return nil, fmt.Errorf("variable value must be number or boolean, got %T", v)
	}
}
