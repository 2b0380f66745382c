package tables

import (
	"github.com/JonMunkholm/gridstate/internal/core"
)

// PeopleKey is the registry key of the built-in people table.
const PeopleKey = "people"

// People status and gender choices.
var (
	PeopleStatuses = []string{"relationship", "complicated", "single"}
	PeopleGenders  = []string{"male", "female"}
)

func init() {
	registerPeople()
}

func registerPeople() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   PeopleKey,
			Group: "Demo",
			Label: "People",
		},
		KeyField: "id",
		Columns: []core.ColumnDescriptor[core.Record]{
			column("firstName", "First Name", core.VariantText, true),
			column("lastName", "Last Name", core.VariantNone, true),
			selectColumn("gender", "Gender", PeopleGenders),
			column("jobType", "Job Type", core.VariantNone, true),
			column("address", "Address", core.VariantNone, false),
			selectColumn("locality", "Locality", nil),
			column("age", "Age", core.VariantRange, true),
			column("visits", "Visits", core.VariantRange, true),
			selectColumn("status", "Status", PeopleStatuses),
			column("lastUpdate", "Last Update", core.VariantDate, true),
		},
		Validation: core.ValidationSpec{
			{
				Field:  "firstName",
				Label:  "First Name",
				Input:  core.InputText,
				Schema: core.WithMessage(core.MinLength(3), "First name must be at least 3 characters"),
			},
			{
				Field:  "lastName",
				Label:  "Last Name",
				Input:  core.InputText,
				Schema: core.WithMessage(core.MinLength(3), "Last name must be at least 3 characters"),
			},
			{
				Field:  "address",
				Label:  "Address",
				Input:  core.InputText,
				Schema: core.WithMessage(core.MinLength(3), "Address must be at least 3 characters"),
			},
			{
				Field:       "status",
				Label:       "Relationship Status",
				Input:       core.InputSelect,
				Options:     PeopleStatuses,
				Placeholder: "Your current relationship status?",
				Schema:      core.OneOf(PeopleStatuses...),
			},
			{
				Field:   "gender",
				Label:   "Gender",
				Input:   core.InputRadio,
				Options: PeopleGenders,
				Schema:  core.OneOf(PeopleGenders...),
			},
			{
				Field:       "locality",
				Label:       "Locality",
				Input:       core.InputCombobox,
				Placeholder: "Your current location?",
				Schema:      core.WithMessage(core.MinLength(3), "You must choose your locality"),
			},
		},
	})
}

func column(id, label string, variant core.FilterVariant, sortable bool) core.ColumnDescriptor[core.Record] {
	return core.ColumnDescriptor[core.Record]{
		ColumnMeta: core.ColumnMeta{
			ID:       id,
			Label:    label,
			Variant:  variant,
			Sortable: sortable,
		},
		Accessor: core.Field(id),
	}
}

func selectColumn(id, label string, options []string) core.ColumnDescriptor[core.Record] {
	c := column(id, label, core.VariantSelect, true)
	c.Options = options
	return c
}
