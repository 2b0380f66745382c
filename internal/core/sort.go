package core

import (
	"sort"
	"strings"
	"time"
)

// valueKind orders values of different dynamic types relative to each other.
type valueKind int

const (
	kindNumber valueKind = iota
	kindTime
	kindBool
	kindString
	kindEmpty
)

func kindOf(v Value) valueKind {
	switch x := v.(type) {
	case nil:
		return kindEmpty
	case time.Time:
		if x.IsZero() {
			return kindEmpty
		}
		return kindTime
	case bool:
		return kindBool
	case string:
		if strings.TrimSpace(x) == "" {
			return kindEmpty
		}
		return kindString
	}
	if _, ok := ToNumber(v); ok {
		return kindNumber
	}
	return kindString
}

// CompareValues orders two cell values: numbers numerically, times
// chronologically, strings case-insensitively, empty values last.
// Returns -1, 0 or 1.
func CompareValues(a, b Value) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}

	switch ka {
	case kindNumber:
		x, _ := ToNumber(a)
		y, _ := ToNumber(b)
		return cmpFloat(x, y)
	case kindTime:
		x, y := a.(time.Time), b.(time.Time)
		return x.Compare(y)
	case kindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case kindString:
		x, y := fold(Stringify(a)), fold(Stringify(b))
		return strings.Compare(x, y)
	default:
		return 0
	}
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// SortRows returns a sorted copy of rows. Ties keep their input order.
// Empty values sort last in both directions. A nil sort or a sort on an
// unknown column returns the rows unchanged.
func SortRows[R any](rows []R, s *SortState, schema *Schema[R]) []R {
	out := make([]R, len(rows))
	copy(out, rows)
	if s == nil {
		return out
	}
	col, ok := schema.Column(s.Column)
	if !ok {
		return out
	}

	keys := make([]Value, len(out))
	for i, row := range out {
		keys[i] = col.Accessor(row)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	desc := s.Direction == SortDesc
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		ea, eb := kindOf(a) == kindEmpty, kindOf(b) == kindEmpty
		if ea || eb {
			return !ea && eb
		}
		c := CompareValues(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]R, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}
