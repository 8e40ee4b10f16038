// Package core defines the entity model shared by the table engine, the
// forms, and the API client. This package has no UI dependencies and can be
// used by any frontend.
package core

import (
	"fmt"
	"strconv"
	"time"
)

// EntityKind identifies one business object type with its own endpoint
// family and column schema. The set is closed; endpoint paths and modal
// identifiers are derived from these values instead of loose strings.
type EntityKind string

const (
	EntityTP     EntityKind = "tp"
	EntityTC     EntityKind = "tc"
	EntityCourse EntityKind = "course"
	EntityTarget EntityKind = "target"
	EntityScheme EntityKind = "scheme"
)

// SheetKind discriminates the bulk-import endpoint path. SheetNull is the
// sentinel used when a modal is not tied to any sheet.
type SheetKind string

const (
	SheetNull   SheetKind = "null"
	SheetLegacy SheetKind = "legacy"
	SheetTP     SheetKind = "tp"
	SheetTC     SheetKind = "tc"
	SheetCourse SheetKind = "course"
	SheetTarget SheetKind = "target"
	SheetScheme SheetKind = "scheme"
)

// ModalKind identifies one dialog surface. Forms compute their own
// visibility by comparing the active session's kind against their own.
type ModalKind string

const (
	ModalNone        ModalKind = ""
	ModalAddTP       ModalKind = "addTp"
	ModalAddTC       ModalKind = "addTc"
	ModalAddCourse   ModalKind = "addCourse"
	ModalAddTarget   ModalKind = "addTarget"
	ModalAddScheme   ModalKind = "addScheme"
	ModalUploadSheet ModalKind = "uploadSheet"
)

// WorkflowMode says whether a form session creates a new record or updates
// an existing one.
type WorkflowMode string

const (
	WorkflowCreate WorkflowMode = "create"
	WorkflowUpdate WorkflowMode = "update"
)

// FieldKind is the input type of a form field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldNumber
	FieldDate
	FieldBool
	FieldSelect
)

// LookupKind marks select fields whose options come from the cascading
// reference endpoints under /general.
type LookupKind int

const (
	LookupNone LookupKind = iota
	LookupState
	LookupDistrict
	LookupBlock
)

// FieldSpec describes one input of an entity form: the key submitted to the
// server, its label, the input kind, and where the value comes from when a
// form is prefilled from an existing record.
type FieldSpec struct {
	Key   string
	Label string
	Kind  FieldKind

	// PayloadKey is the record field a prefill reads from when it differs
	// from Key (the TP form submits "state" but records carry "tpState").
	PayloadKey string

	// Lookup wires the field into the state/district/block cascade.
	Lookup LookupKind
}

// RecordKey returns the record field this spec is populated from.
func (f FieldSpec) RecordKey() string {
	if f.PayloadKey != "" {
		return f.PayloadKey
	}
	return f.Key
}

// ColumnDef describes how one field of a record is displayed in a table.
type ColumnDef struct {
	Key    string
	Header string

	// Format renders the cell value; nil means the stringified raw value.
	Format func(any) string

	// Ordinal columns show the row's 1-based position instead of a value.
	Ordinal bool

	Sortable bool
	Hideable bool
}

// EntityDefinition contains everything needed to browse and edit one
// entity type.
type EntityDefinition struct {
	Kind       EntityKind
	Label      string
	Sheet      SheetKind
	Modal      ModalKind
	PrimaryKey string
	Fields     []FieldSpec
	Columns    []ColumnDef

	// ToggleField names a boolean record field rendered as a per-row
	// switch, empty when the entity has none.
	ToggleField string
}

// FormatDate renders a date value in the canonical display format used
// across every table and form (day without leading zero, as in 7/03/2024).
func FormatDate(v any) string {
	t, ok := parseTime(v)
	if !ok {
		return Stringify(v)
	}
	return t.Local().Format("2/01/2006")
}

// Stringify converts a record value to its display string. Used for
// filtering and as the default cell renderer.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		// JSON numbers decode as float64; keep integers undecorated.
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Compare orders two record values by the natural ordering of their
// underlying type: numeric for numbers, chronological for dates, and
// case-sensitive lexicographic for everything else.
func Compare(a, b any) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if at, aok := parseTime(a); aok {
		if bt, bok := parseTime(b); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	as, bs := Stringify(a), Stringify(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	}
	return 0, false
}

// parseTime recognizes the date encodings the API produces: RFC 3339
// timestamps and plain yyyy-mm-dd strings.
func parseTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
