package core

// Record is one row of one entity type as produced by the remote API: an
// opaque mapping of field name to scalar value. Records are replaced
// wholesale on every re-fetch and never mutated locally; edits go to the
// server and come back through a re-fetch.
type Record map[string]any

// String returns the field's display string, or "" when absent.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Bool returns the field interpreted as a boolean. Numeric 1/0 and the
// strings "1"/"true" count as true, matching how the API encodes switches.
func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		return v == "1" || v == "true"
	}
	return false
}

// Has reports whether the field is present and non-nil.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
