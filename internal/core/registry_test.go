package core

import (
	"errors"
	"testing"
)

func col(id string, variant FilterVariant) ColumnDescriptor[Record] {
	return ColumnDescriptor[Record]{ColumnMeta: ColumnMeta{ID: id, Variant: variant}, Accessor: Field(id)}
}

func TestNewSchema(t *testing.T) {
	s, err := NewSchema(col("a", VariantText), col("b", ""))
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	if !equalStrings(s.IDs(), []string{"a", "b"}) {
		t.Errorf("IDs() = %v, want [a b]", s.IDs())
	}
	meta, _ := s.Meta("b")
	if meta.Variant != VariantNone || meta.DefaultWidth != DefaultColumnWidth || meta.DisplayLabel() != "b" {
		t.Errorf("Meta(b) = %+v, want defaults", meta)
	}
	if s.Has("zz") {
		t.Error("Has(zz) = true")
	}
}

func TestNewSchema_Errors(t *testing.T) {
	if _, err := NewSchema(col("a", VariantText), col("a", VariantRange)); !errors.Is(err, ErrDuplicateColumnID) {
		t.Errorf("duplicate ids error = %v, want ErrDuplicateColumnID", err)
	}
	if _, err := NewSchema(col("", VariantText)); !errors.Is(err, ErrInvalidColumn) {
		t.Errorf("empty id error = %v, want ErrInvalidColumn", err)
	}
}

func TestRegistry(t *testing.T) {
	Clear()
	defer Clear()

	Register(TableDefinition{Info: TableInfo{Key: "b", Group: "G2", Label: "B"}, Columns: []ColumnDescriptor[Record]{col("x", VariantText)}})
	Register(TableDefinition{Info: TableInfo{Key: "a", Group: "G1", Label: "A"}, Columns: []ColumnDescriptor[Record]{col("x", VariantText)}})

	if TableCount() != 2 {
		t.Fatalf("TableCount() = %d, want 2", TableCount())
	}
	if _, ok := Get("a"); !ok {
		t.Error("Get(a) not found")
	}
	all := All()
	if all[0].Info.Key != "a" || all[1].Info.Key != "b" {
		t.Errorf("All() order = %s, %s, want a, b", all[0].Info.Key, all[1].Info.Key)
	}
	if groups := Groups(); !equalStrings(groups, []string{"G1", "G2"}) {
		t.Errorf("Groups() = %v", groups)
	}
	if len(ByGroup("G2")) != 1 {
		t.Errorf("ByGroup(G2) = %d tables, want 1", len(ByGroup("G2")))
	}
}

func TestRegister_PanicsOnDuplicate(t *testing.T) {
	Clear()
	defer Clear()

	def := TableDefinition{Info: TableInfo{Key: "dup"}, Columns: []ColumnDescriptor[Record]{col("x", VariantText)}}
	Register(def)

	defer func() {
		if recover() == nil {
			t.Error("Register() duplicate did not panic")
		}
	}()
	Register(def)
}

func TestRegister_PanicsOnDuplicateColumn(t *testing.T) {
	Clear()
	defer Clear()

	defer func() {
		if recover() == nil {
			t.Error("Register() with duplicate column ids did not panic")
		}
	}()
	Register(TableDefinition{Info: TableInfo{Key: "bad"}, Columns: []ColumnDescriptor[Record]{col("x", VariantText), col("x", VariantText)}})
}
