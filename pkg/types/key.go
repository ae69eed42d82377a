package types

import "strings"

const keySeparator = "\x1f"

// GroupKey builds the canonical key of a group or partition. Unlike Equal,
// it treats every NULL as the same value, so rows whose key columns are
// NULL fall into one group.
func GroupKey(fields ...Field) string {
	if len(fields) == 1 {
		return fieldKey(fields[0])
	}
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString(keySeparator)
		}
		b.WriteString(fieldKey(f))
	}
	return b.String()
}

func fieldKey(f Field) string {
	if IsNull(f) {
		return "\x00"
	}
	return f.Key()
}

// HasNull reports whether any of fields is NULL.
func HasNull(fields ...Field) bool {
	for _, f := range fields {
		if IsNull(f) {
			return true
		}
	}
	return false
}
