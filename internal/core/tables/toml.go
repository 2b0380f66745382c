package tables

// toml.go loads table definitions from a TOML file so deployments can
// describe their own row shapes without recompiling:
//
//	[[table]]
//	key = "orders"
//	group = "Sales"
//	label = "Orders"
//	key_field = "id"
//
//	[[table.column]]
//	id = "customer"
//	label = "Customer"
//	filter = "text"
//	sortable = true
//
//	[[table.field]]
//	id = "customer"
//	label = "Customer"
//	type = "text"
//	required = true
//	min_length = 3

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/JonMunkholm/gridstate/internal/core"
)

// ErrTableExists is returned when a file defines a table key that is
// already registered.
var ErrTableExists = errors.New("table already registered")

// File is the top-level shape of a table definitions file.
type File struct {
	Tables []TableSpec `toml:"table"`
}

// TableSpec describes one table.
type TableSpec struct {
	Key      string       `toml:"key"`
	Group    string       `toml:"group"`
	Label    string       `toml:"label"`
	KeyField string       `toml:"key_field"`
	Columns  []ColumnSpec `toml:"column"`
	Fields   []FieldSpec  `toml:"field"`
}

// ColumnSpec describes one column.
type ColumnSpec struct {
	ID       string   `toml:"id"`
	Label    string   `toml:"label"`
	Filter   string   `toml:"filter"`
	Sortable bool     `toml:"sortable"`
	Width    float64  `toml:"width"`
	Options  []string `toml:"options"`
	NoSearch bool     `toml:"no_search"`
}

// FieldSpec describes one add/edit form field and its validation.
type FieldSpec struct {
	ID          string   `toml:"id"`
	Label       string   `toml:"label"`
	Input       string   `toml:"input"`
	Placeholder string   `toml:"placeholder"`
	Type        string   `toml:"type"` // text, number, date, bool
	Required    bool     `toml:"required"`
	MinLength   int      `toml:"min_length"`
	MaxLength   int      `toml:"max_length"`
	OneOf       []string `toml:"one_of"`
	Min         *float64 `toml:"min"`
	Max         *float64 `toml:"max"`
	Message     string   `toml:"message"`
}

// Decode reads table definitions from r. Unknown keys are rejected so
// typos do not silently drop settings.
func Decode(r io.Reader) ([]core.TableDefinition, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode tables: unknown keys: %s", strings.Join(keys, ", "))
	}
	return f.Definitions()
}

// DecodeFile reads table definitions from path.
func DecodeFile(path string) ([]core.TableDefinition, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode %s: unknown key %s", path, undecoded[0].String())
	}
	return f.Definitions()
}

// RegisterFile decodes path and registers every table it defines.
// Unlike core.Register it reports conflicts as errors.
func RegisterFile(path string) (int, error) {
	defs, err := DecodeFile(path)
	if err != nil {
		return 0, err
	}
	for _, def := range defs {
		if _, exists := core.Get(def.Info.Key); exists {
			return 0, fmt.Errorf("%w: %s", ErrTableExists, def.Info.Key)
		}
	}
	for _, def := range defs {
		core.Register(def)
	}
	return len(defs), nil
}

// Definitions converts the file into validated table definitions.
func (f File) Definitions() ([]core.TableDefinition, error) {
	seen := make(map[string]bool, len(f.Tables))
	defs := make([]core.TableDefinition, 0, len(f.Tables))

	for _, t := range f.Tables {
		if t.Key == "" {
			return nil, errors.New("table without key")
		}
		if seen[t.Key] {
			return nil, fmt.Errorf("%w: %s defined twice", ErrTableExists, t.Key)
		}
		seen[t.Key] = true

		def, err := t.definition()
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Key, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (t TableSpec) definition() (core.TableDefinition, error) {
	label := t.Label
	if label == "" {
		label = t.Key
	}
	def := core.TableDefinition{
		Info:     core.TableInfo{Key: t.Key, Group: t.Group, Label: label},
		KeyField: t.KeyField,
	}

	for _, c := range t.Columns {
		variant := core.ParseFilterVariant(c.Filter)
		if c.Filter != "" && variant == core.VariantNone && c.Filter != string(core.VariantNone) {
			return def, fmt.Errorf("column %s: unknown filter %q", c.ID, c.Filter)
		}
		def.Columns = append(def.Columns, core.ColumnDescriptor[core.Record]{
			ColumnMeta: core.ColumnMeta{
				ID:           c.ID,
				Label:        c.Label,
				Variant:      variant,
				Sortable:     c.Sortable,
				DefaultWidth: c.Width,
				Options:      c.Options,
				NoSearch:     c.NoSearch,
			},
			Accessor: core.Field(c.ID),
		})
	}
	if _, err := def.Schema(); err != nil {
		return def, err
	}

	for _, f := range t.Fields {
		rule, err := f.rule()
		if err != nil {
			return def, fmt.Errorf("field %s: %w", f.ID, err)
		}
		def.Validation = append(def.Validation, rule)
	}
	return def, nil
}

func (f FieldSpec) rule() (core.FieldRule, error) {
	if f.ID == "" {
		return core.FieldRule{}, errors.New("field without id")
	}

	var chain []core.FieldSchema
	switch f.Type {
	case "", "text":
		chain = append(chain, core.Text())
		if f.MinLength > 0 {
			chain = append(chain, core.MinLength(f.MinLength))
		}
		if f.MaxLength > 0 {
			chain = append(chain, core.MaxLength(f.MaxLength))
		}
		if len(f.OneOf) > 0 {
			chain = append(chain, core.OneOf(f.OneOf...))
		}
	case "number":
		chain = append(chain, core.Number())
		if f.Min != nil || f.Max != nil {
			lo, hi := -1e308, 1e308
			if f.Min != nil {
				lo = *f.Min
			}
			if f.Max != nil {
				hi = *f.Max
			}
			chain = append(chain, core.Between(lo, hi))
		}
	case "date":
		chain = append(chain, core.Date())
	case "bool":
		chain = append(chain, core.Bool())
	default:
		return core.FieldRule{}, fmt.Errorf("unknown type %q", f.Type)
	}

	schema := core.Chain(chain...)
	if f.Message != "" {
		schema = core.WithMessage(schema, f.Message)
	}
	if f.Required {
		schema = core.Chain(core.Required(), schema)
	} else {
		schema = core.Optional(schema)
	}

	input := core.InputKind(f.Input)
	if input == "" {
		input = core.InputText
		if len(f.OneOf) > 0 {
			input = core.InputSelect
		}
	}

	return core.FieldRule{
		Field:       f.ID,
		Schema:      schema,
		Label:       f.Label,
		Input:       input,
		Options:     f.OneOf,
		Placeholder: f.Placeholder,
	}, nil
}
