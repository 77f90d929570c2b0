package recipe

import (
	"bytes"
	"encoding/json"

	"github.com/dotEthan/Recipeasy-backend-sub000/domain"
)

// PartialRecipe holds one user's private edits to a shared recipe: the
// changed fields keyed by JSON field name, each carrying the serialized
// replacement value. The "id" field is never part of a PartialRecipe.
type PartialRecipe map[string]json.RawMessage

// ComputeDelta compares proposed against original field by field on the
// serialized form and returns only the fields that differ. Pure; field
// iteration order does not affect the resulting set.
func ComputeDelta(original, proposed domain.Recipe) (PartialRecipe, error) {
	origFields, err := recipeFields(original)
	if err != nil {
		return nil, err
	}
	propFields, err := recipeFields(proposed)
	if err != nil {
		return nil, err
	}

	delta := PartialRecipe{}
	for key, propVal := range propFields {
		if key == "id" {
			continue
		}
		origVal, ok := origFields[key]
		if !ok || !bytes.Equal(origVal, propVal) {
			delta[key] = propVal
		}
	}
	return delta, nil
}

// MergeAlterations overlays alterations onto canonical without touching
// it. Fields absent from alterations pass through unchanged; a nil or
// empty alterations set returns canonical as-is. Applying the same
// delta twice is a no-op beyond the first application.
func MergeAlterations(canonical domain.Recipe, alterations PartialRecipe) (domain.Recipe, error) {
	if len(alterations) == 0 {
		return canonical, nil
	}

	fields, err := recipeFields(canonical)
	if err != nil {
		return canonical, err
	}
	for key, val := range alterations {
		if key == "id" {
			continue
		}
		fields[key] = val
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return canonical, err
	}
	var merged domain.Recipe
	if err := json.Unmarshal(raw, &merged); err != nil {
		return canonical, err
	}
	return merged, nil
}

// Encode serializes the delta for storage. An empty delta encodes to
// the empty string so "no alterations" round-trips cleanly.
func (p PartialRecipe) Encode() (string, error) {
	if len(p) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func DecodePartialRecipe(s string) (PartialRecipe, error) {
	if s == "" {
		return nil, nil
	}
	var p PartialRecipe
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, err
	}
	return p, nil
}

func recipeFields(r domain.Recipe) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
