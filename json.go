package calculi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ============================================================
// JSON Serialization
// ============================================================

func (v *Variable) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "var", "name": v.name}
}

// Numbers travel as strings so NaN and infinities survive the round trip.
func (n *Number) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": formatNumber(n.val)}
}

func (f *Function) toJSON() map[string]interface{} {
	operands := make([]interface{}, len(f.operands))
	for i, x := range f.operands {
		operands[i] = x.toJSON()
	}
	return map[string]interface{}{"type": "func", "op": f.op.String(), "operands": operands}
}

func (End) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "end"}
}

// ToJSON encodes e as a JSON object tree.
func ToJSON(e Expr) (string, error) {
	if e == nil {
		e = End{}
	}
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// FromJSON decodes an object produced by ToJSON (after json.Unmarshal into a
// map). Operand counts are checked against the operator's arity.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	switch typ {
	case "var":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return V(name), nil

	case "num":
		val, err := subString("value")
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(val, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid num value %q: %w", val, err)
		}
		return N(float32(f)), nil

	case "func":
		text, err := subString("op")
		if err != nil {
			return nil, err
		}
		op := OperatorFromToken(text)
		if op == OpError {
			return nil, fmt.Errorf("func: unknown operator %q", text)
		}
		raw, ok := data["operands"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("func: %q must be an array", "operands")
		}
		if !op.accepts(len(raw)) {
			return nil, fmt.Errorf("func: %s does not take %d operands", op, len(raw))
		}
		operands := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("func: operands[%d] must be an object", i)
			}
			x, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("func: operands[%d]: %w", i, err)
			}
			operands[i] = x
		}
		return Call(op, operands...), nil

	case "end":
		return End{}, nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

// ParseJSON decodes a JSON document produced by ToJSON.
func ParseJSON(s string) (Expr, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return FromJSON(data)
}
