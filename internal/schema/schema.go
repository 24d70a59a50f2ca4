// Package schema validates inbound record payloads against named field-rule
// sets before persistence. Validation is pure: it reports violations and
// never logs or mutates its input. Whitelisting drops fields the schema does
// not know about, so clients cannot push unexpected columns into storage.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// RuleObject marks a field as a loose JSON object: a map or a pre-serialized
// string is accepted, anything else is a violation. The shape is not
// deep-validated.
const RuleObject = "object"

// FieldViolation is one field-level validation failure.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is the structured failure value returned for bad input.
type Violations []FieldViolation

func (v Violations) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s %s", v[0].Field, v[0].Message)
}

// Schema maps field names to validation rules. Rule values are
// go-playground/validator tag strings, except RuleObject which is checked
// locally. Absent optional fields are simply not checked further.
type Schema map[string]string

var validate = validator.New()

// Validate checks payload against the named schema. It returns nil on
// success and a Violations error describing every failing field otherwise.
// An empty payload is itself a violation, distinct from malformed input.
func Validate(name string, payload map[string]any) error {
	s, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	if len(payload) == 0 {
		return Violations{{Field: "payload", Message: "payload must not be empty"}}
	}

	var out Violations

	rules := make(map[string]any, len(s))
	for field, rule := range s {
		if rule == RuleObject {
			if violation, bad := checkObject(field, payload); bad {
				out = append(out, violation)
			}
			continue
		}
		// Tag rules only make sense for scalar values. Anything else must be
		// rejected here: ValidateMap panics on kinds a tag cannot handle, and
		// length-style tags would evaluate maps and slices by element count.
		if violation, bad := checkScalar(field, payload); bad {
			out = append(out, violation)
			continue
		}
		rules[field] = rule
	}

	for field, errAny := range validate.ValidateMap(payload, rules) {
		if verrs, ok := errAny.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				out = append(out, FieldViolation{
					Field:   field,
					Message: fmt.Sprintf("failed %q validation", fe.Tag()),
				})
			}
			continue
		}
		if err, ok := errAny.(error); ok {
			out = append(out, FieldViolation{Field: field, Message: err.Error()})
		}
	}

	if len(out) > 0 {
		return out
	}
	return nil
}

// checkScalar admits the value kinds the tag rules are written for: strings
// and the numeric encodings JSON decoding produces. Absent and null values
// pass through so "required" can report them.
func checkScalar(field string, payload map[string]any) (FieldViolation, bool) {
	value, present := payload[field]
	if !present || value == nil {
		return FieldViolation{}, false
	}
	switch value.(type) {
	case string, int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		return FieldViolation{}, false
	default:
		return FieldViolation{Field: field, Message: "must be a string or a number"}, true
	}
}

func checkObject(field string, payload map[string]any) (FieldViolation, bool) {
	value, present := payload[field]
	if !present || value == nil {
		return FieldViolation{}, false
	}
	switch value.(type) {
	case map[string]any, string:
		return FieldViolation{}, false
	default:
		return FieldViolation{Field: field, Message: "must be an object"}, true
	}
}

// Whitelist returns a copy of payload containing only the fields the named
// schema knows about. Unknown fields are dropped, not rejected.
func Whitelist(name string, payload map[string]any) map[string]any {
	s, ok := schemas[name]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(payload))
	for field, value := range payload {
		if _, allowed := s[field]; allowed {
			out[field] = value
		}
	}
	return out
}

// NormalizeStyles rewrites payload["styles"] to a canonical serialized JSON
// object, defaulting to "{}" when the field is absent or null. A string
// value must already parse as JSON.
func NormalizeStyles(payload map[string]any) error {
	value, present := payload["styles"]
	if !present || value == nil {
		payload["styles"] = "{}"
		return nil
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			payload["styles"] = "{}"
			return nil
		}
		var probe any
		if err := json.Unmarshal([]byte(v), &probe); err != nil {
			return Violations{{Field: "styles", Message: "must be valid JSON"}}
		}
		return nil
	case map[string]any:
		raw, err := json.Marshal(v)
		if err != nil {
			return Violations{{Field: "styles", Message: "must be serializable"}}
		}
		payload["styles"] = string(raw)
		return nil
	default:
		return Violations{{Field: "styles", Message: "must be an object"}}
	}
}
