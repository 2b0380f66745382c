package core

import (
	"sort"
	"strconv"

	"github.com/zeebo/xxh3"
)

// RowKeyField holds the identity of rows in tables without a key field.
// Sources assign it when rows are loaded or inserted. It is never a column.
const RowKeyField = "_row"

// RecordKey returns a KeyFunc reading the row identity from field, then
// from RowKeyField. Rows carrying neither are identified by HashRowID.
func RecordKey(field string) KeyFunc[Record] {
	return func(r Record) RowID {
		for _, f := range []string{field, RowKeyField} {
			if f == "" {
				continue
			}
			if v, ok := r[f]; ok && !IsEmpty(v) {
				return RowID(Stringify(v))
			}
		}
		return HashRowID(r)
	}
}

// HashRowID derives a content identity for a Record.
// Fields are hashed in sorted key order so map iteration does not matter.
func HashRowID(r Record) RowID {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := xxh3.New()
	for _, k := range keys {
		h.WriteString(k)
		h.Write([]byte{0})
		h.WriteString(Stringify(r[k]))
		h.Write([]byte{0})
	}
	return RowID(strconv.FormatUint(h.Sum64(), 16))
}
