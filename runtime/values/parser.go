package values

import (
	"strconv"
	"strings"

	"github.com/tinkerblocks/core/core/types"
)

// ParseValue turns a single token into a Value, trying in order: numeric
// literal, TRUE/FALSE, a cardinal direction, a sensor name, then a bare
// alphabetic identifier as a variable. Returns (nil, false) if the token
// isn't a recognized value (e.g. an operator).
func ParseValue(token string) (Value, bool) {
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return Number(f), true
	}

	upper := strings.ToUpper(token)

	if upper == "TRUE" || upper == "FALSE" {
		return Boolean(upper == "TRUE"), true
	}

	if dir, ok := types.DirectionFromString(upper); ok {
		return DirectionValue(dir), true
	}

	if sensor, ok := types.SensorKindFromString(upper); ok {
		return Sensor(sensor), true
	}

	if isAlpha(token) {
		return NewVariable(token), true
	}

	return nil, false
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// comparisonOps and arithmeticOps map grid-cell spellings to Operator,
// scanned left-to-right at each precedence level from lowest to highest
// per spec.md §4.1 — there are no parentheses in this grammar.
var comparisonOps = map[string]types.Operator{
	"<": types.Less, "<=": types.LessEqual,
	">": types.Greater, ">=": types.GreaterEqual,
	"=": types.Equal, "==": types.Equal, "!=": types.NotEqual,
}

var arithmeticOps = map[string]types.Operator{
	"+": types.Add, "-": types.Subtract, "*": types.Multiply, "/": types.Divide,
}

// ParseExpression recursively scans tokens for the lowest-precedence
// operator not yet consumed, splits, and recurses. A single token parses
// as a literal/identifier via ParseValue. Returns (nil, false) if the
// tokens cannot be parsed as any value or expression.
func ParseExpression(tokens []string) (Value, bool) {
	tokens = nonEmpty(tokens)
	if len(tokens) == 0 {
		return nil, false
	}

	if len(tokens) == 1 {
		return ParseValue(tokens[0])
	}

	// Level 1: AND / OR (lowest precedence).
	for i, tok := range tokens {
		up := strings.ToUpper(tok)
		if up == "AND" || up == "OR" {
			left, lok := ParseExpression(tokens[:i])
			right, rok := ParseExpression(tokens[i+1:])
			if lok && rok {
				op := types.And
				if up == "OR" {
					op = types.Or
				}
				return &Expression{Left: left, Operator: op, Right: right}, true
			}
		}
	}

	// Level 2: comparisons.
	for i, tok := range tokens {
		if op, ok := comparisonOps[tok]; ok {
			left, lok := ParseExpression(tokens[:i])
			right, rok := ParseExpression(tokens[i+1:])
			if lok && rok {
				return &Expression{Left: left, Operator: op, Right: right}, true
			}
		}
	}

	// Level 3: arithmetic.
	for i, tok := range tokens {
		if op, ok := arithmeticOps[tok]; ok {
			left, lok := ParseExpression(tokens[:i])
			right, rok := ParseExpression(tokens[i+1:])
			if lok && rok {
				return &Expression{Left: left, Operator: op, Right: right}, true
			}
		}
	}

	// Level 4: unary NOT, only when it leads and more tokens follow.
	if strings.ToUpper(tokens[0]) == "NOT" && len(tokens) > 1 {
		operand, ok := ParseExpression(tokens[1:])
		if ok {
			return &Expression{Left: operand, Operator: types.Not}, true
		}
	}

	// Fall back to treating the whole run as a single value (e.g. a
	// multi-word token that slipped through as one cell).
	return ParseValue(strings.Join(tokens, " "))
}

func nonEmpty(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}
