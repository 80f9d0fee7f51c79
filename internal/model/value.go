package model

import (
	"fmt"
	"strings"
	"time"
)

// FieldKind tags a field with the comparison policy it uses.
type FieldKind int

// Field kinds.
const (
	// KindText compares as a case-insensitive string; missing means "".
	KindText FieldKind = iota
	// KindNumeric compares as a number; missing means 0.
	KindNumeric
	// KindDate compares as a timestamp; missing means the epoch origin,
	// so absent dates deliberately sort as earliest.
	KindDate
	// KindEnum is a member of a fixed set; compares as a case-insensitive
	// string and filters by exact membership.
	KindEnum
)

// Value is a tagged variant carried through the filter, sort, and edit
// paths. Exactly one of Num, Time, or Str is meaningful, selected by Kind.
type Value struct {
	Time time.Time
	Str  string
	Num  float64
	Kind FieldKind
}

// Text builds a text value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// Number builds a numeric value.
func Number(n float64) Value { return Value{Kind: KindNumeric, Num: n} }

// Date builds a date value.
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// EnumMember builds an enum value.
func EnumMember(s string) Value { return Value{Kind: KindEnum, Str: s} }

// Compare orders v against other using the kind-specific policy and returns
// -1, 0, or 1. Both values must share a kind; mixed kinds compare by their
// textual form as a last resort.
func (v Value) Compare(other Value) int {
	if v.Kind != other.Kind {
		return strings.Compare(strings.ToLower(v.String()), strings.ToLower(other.String()))
	}

	switch v.Kind {
	case KindNumeric:
		switch {
		case v.Num < other.Num:
			return -1
		case v.Num > other.Num:
			return 1
		default:
			return 0
		}
	case KindDate:
		a, b := v.epochTime(), other.epochTime()
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		default:
			return 0
		}
	case KindText, KindEnum:
		return strings.Compare(strings.ToLower(v.Str), strings.ToLower(other.Str))
	default:
		return 0
	}
}

// epochTime normalizes a missing date to the epoch origin so comparison
// follows the documented absent-sorts-earliest policy.
func (v Value) epochTime() time.Time {
	if v.Time.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return v.Time
}

// String renders the value for display and text search.
func (v Value) String() string {
	switch v.Kind {
	case KindNumeric:
		return fmt.Sprintf("%g", v.Num)
	case KindDate:
		if v.Time.IsZero() {
			return ""
		}
		return v.Time.Format("2006-01-02")
	default:
		return v.Str
	}
}
