package hclconf

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/benchplan/internal/vector"
)

// toValue converts a cty scalar into a factor value. Strings stay strings;
// byte quantities only enter through the dedicated size fields.
func toValue(v cty.Value) (vector.Value, error) {
	if v.IsNull() {
		return vector.Value{}, fmt.Errorf("value must not be null")
	}
	switch v.Type() {
	case cty.String:
		return vector.String(v.AsString()), nil
	case cty.Bool:
		return vector.Bool(v.True()), nil
	case cty.Number:
		n, acc := v.AsBigFloat().Int64()
		if acc != big.Exact {
			return vector.Value{}, fmt.Errorf("number must be an integer")
		}
		return vector.Int(n), nil
	default:
		return vector.Value{}, fmt.Errorf("unsupported value type %s", v.Type().FriendlyName())
	}
}

// toValueMap converts a cty object or map into named factor values.
func toValueMap(v cty.Value) (map[string]vector.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", v.Type().FriendlyName())
	}
	out := make(map[string]vector.Value)
	for it := v.ElementIterator(); it.Next(); {
		k, elem := it.Element()
		val, err := toValue(elem)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.AsString(), err)
		}
		out[k.AsString()] = val
	}
	return out, nil
}

// toValueList converts a cty tuple or list into an ordered value list.
func toValueList(v cty.Value) ([]vector.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsTupleType() && !v.Type().IsListType() {
		return nil, fmt.Errorf("expected a list, got %s", v.Type().FriendlyName())
	}
	var out []vector.Value
	for it := v.ElementIterator(); it.Next(); {
		idx, elem := it.Element()
		val, err := toValue(elem)
		if err != nil {
			n, _ := idx.AsBigFloat().Int64()
			return nil, fmt.Errorf("element %d: %w", n, err)
		}
		out = append(out, val)
	}
	return out, nil
}
