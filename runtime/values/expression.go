package values

import (
	"fmt"

	"github.com/tinkerblocks/core/core/types"
)

// Expression combines two values (or one, for the unary NOT) with an
// operator. Grounded on
// original_source/src/engine/values/expression.py's Expression.evaluate.
type Expression struct {
	Left     Value
	Operator types.Operator
	Right    Value // nil for NOT
}

func (e *Expression) String() string {
	if e.Right == nil {
		return fmt.Sprintf("(%s %s)", e.Operator, e.Left)
	}
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Operator, e.Right)
}

func (e *Expression) Evaluate(ctx EvalContext) (any, error) {
	left, err := e.Left.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	if e.Operator == types.Not {
		return !Truthy(left), nil
	}

	if e.Right == nil {
		return nil, fmt.Errorf("binary operator %s requires a right operand", e.Operator)
	}
	right, err := e.Right.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case types.Add, types.Subtract, types.Multiply, types.Divide:
		return evalArithmetic(e.Operator, left, right)
	case types.Less, types.LessEqual, types.Greater, types.GreaterEqual:
		return evalComparison(e.Operator, left, right)
	case types.Equal:
		return left == right, nil
	case types.NotEqual:
		return left != right, nil
	case types.And:
		return Truthy(left) && Truthy(right), nil
	case types.Or:
		return Truthy(left) || Truthy(right), nil
	default:
		return nil, fmt.Errorf("unknown operator: %s", e.Operator)
	}
}

func evalArithmetic(op types.Operator, left, right any) (any, error) {
	l, err := ToNumber(left)
	if err != nil {
		return nil, err
	}
	r, err := ToNumber(right)
	if err != nil {
		return nil, err
	}

	switch op {
	case types.Add:
		return l + r, nil
	case types.Subtract:
		return l - r, nil
	case types.Multiply:
		return l * r, nil
	case types.Divide:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return l / r, nil
	default:
		return nil, fmt.Errorf("not an arithmetic operator: %s", op)
	}
}

func evalComparison(op types.Operator, left, right any) (any, error) {
	l, err := ToNumber(left)
	if err != nil {
		return nil, err
	}
	r, err := ToNumber(right)
	if err != nil {
		return nil, err
	}

	switch op {
	case types.Less:
		return l < r, nil
	case types.LessEqual:
		return l <= r, nil
	case types.Greater:
		return l > r, nil
	case types.GreaterEqual:
		return l >= r, nil
	default:
		return nil, fmt.Errorf("not a comparison operator: %s", op)
	}
}
