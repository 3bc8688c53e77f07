package pipeline

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FieldKind enumerates the supported form field coercions
type FieldKind int

const (
	KindString FieldKind = iota
	KindRequiredString
	KindBoolean
	KindEnum
	KindInteger
	KindMulti
)

// Field describes one expected form field. Allowed holds the enum value list
// for KindEnum, or the allow-list of recognized keys for KindMulti (empty
// means accept any key). Default is the fallback for KindBoolean.
type Field struct {
	Name    string
	Kind    FieldKind
	Allowed []string
	Default bool
}

// Form is the typed output of DecodeForm. Absent optional values are nil.
type Form map[string]interface{}

var truthy = map[string]bool{"true": true, "1": true, "on": true, "yes": true}
var falsy = map[string]bool{"false": true, "0": true, "off": true, "no": true}

// DecodeForm converts a raw multi-value form into a typed record. Decoding is
// pure: the same input always yields the same output. The only failure mode
// is a missing required string.
func DecodeForm(values url.Values, fields []Field) (Form, *Failure) {
	out := make(Form, len(fields))

	for _, f := range fields {
		switch f.Kind {
		case KindString, KindRequiredString:
			v := strings.TrimSpace(values.Get(f.Name))
			if v == "" {
				if f.Kind == KindRequiredString {
					return nil, Validation(f.Name, fmt.Sprintf("%s is required", f.Name))
				}
				out[f.Name] = nil
				continue
			}
			out[f.Name] = v

		case KindBoolean:
			v := strings.ToLower(strings.TrimSpace(values.Get(f.Name)))
			switch {
			case truthy[v]:
				out[f.Name] = true
			case falsy[v]:
				out[f.Name] = false
			default:
				out[f.Name] = f.Default
			}

		case KindEnum:
			v := strings.TrimSpace(values.Get(f.Name))
			out[f.Name] = nil
			for _, allowed := range f.Allowed {
				if v == allowed {
					out[f.Name] = v
					break
				}
			}

		case KindInteger:
			v := strings.TrimSpace(values.Get(f.Name))
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				out[f.Name] = n
			} else {
				out[f.Name] = nil
			}

		case KindMulti:
			var collected []string
			for _, raw := range values[f.Name] {
				v := strings.TrimSpace(raw)
				if v == "" {
					continue
				}
				if len(f.Allowed) > 0 && !contains(f.Allowed, v) {
					continue
				}
				collected = append(collected, v)
			}
			out[f.Name] = collected
		}
	}

	return out, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Str returns a string field, nil when absent
func (f Form) Str(name string) *string {
	if v, ok := f[name].(string); ok {
		return &v
	}
	return nil
}

// StrOr returns a string field or a default when absent
func (f Form) StrOr(name, def string) string {
	if v, ok := f[name].(string); ok {
		return v
	}
	return def
}

// Bool returns a boolean field; false when absent
func (f Form) Bool(name string) bool {
	v, _ := f[name].(bool)
	return v
}

// Int returns an integer field, nil when absent
func (f Form) Int(name string) *int64 {
	if v, ok := f[name].(int64); ok {
		return &v
	}
	return nil
}

// List returns a multi-value field; empty slice when absent
func (f Form) List(name string) []string {
	if v, ok := f[name].([]string); ok {
		return v
	}
	return nil
}
