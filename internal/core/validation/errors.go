package validation

import (
	"sort"
	"strings"
)

// FieldErrors maps a field name to a user-facing message.
type FieldErrors map[string]string

// Error renders the failing fields in a stable order.
func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already failed.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Required records msg for field when value is blank.
func (f FieldErrors) Required(field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		f.Add(field, msg)
	}
}

// Err returns f as an error, or nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}
