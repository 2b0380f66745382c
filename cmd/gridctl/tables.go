package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List registered tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := current.Service.Tables()
		if jsonOutput {
			type table struct {
				Key     string `json:"key"`
				Group   string `json:"group"`
				Label   string `json:"label"`
				Columns int    `json:"columns"`
			}
			out := make([]table, len(defs))
			for i, d := range defs {
				out[i] = table{d.Info.Key, d.Info.Group, d.Info.Label, len(d.Columns)}
			}
			return printJSON(os.Stdout, out)
		}

		rows := make([][]string, len(defs))
		for i, d := range defs {
			rows[i] = []string{d.Info.Key, d.Info.Group, d.Info.Label, strconv.Itoa(len(d.Columns))}
		}
		return renderTable(os.Stdout, []string{"Key", "Group", "Label", "Columns"}, rows)
	},
}
