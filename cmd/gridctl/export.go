package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/export"
	"github.com/JonMunkholm/gridstate/internal/grid"
	"github.com/spf13/cobra"
)

var (
	exportState   stateFlags
	exportFormat  string
	exportOut     string
	exportAll     bool
	exportExclude []string
	exportSave    bool
)

var exportCmd = &cobra.Command{
	Use:   "export <table>",
	Short: "Export the filtered rows of a table",
	Long: `Export writes the rows matching the filters over the visible columns.
With --all every row and column is written regardless of filters.`,
	Example: `  gridctl export people --filter status=single --format csv
  gridctl export people --all --format parquet --out people.parquet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		sess, err := openSession(cmd.Context(), args[0], func(schema *core.Schema[core.Record]) ([]core.Action, error) {
			actions, err := exportState.actions(schema)
			if err != nil {
				return nil, err
			}
			if exportAll {
				return actions, nil
			}
			return append(actions, core.SetSelectingMode{Enabled: true}, core.SelectAllVisibleRows{}), nil
		})
		if err != nil {
			return err
		}

		req := grid.ExportRequest{
			Scope:    grid.ScopeSelected,
			Format:   format,
			Filename: args[0],
			Exclude:  exportExclude,
			Save:     exportSave,
		}
		if exportAll {
			req.Scope = grid.ScopeAll
		}
		if exportOut != "" {
			req.Filename = filepath.Base(exportOut)
		}

		res, err := sess.Export(cmd.Context(), req)
		if err != nil {
			return err
		}

		if !exportSave {
			path := exportOut
			if path == "" {
				path = res.Name
			}
			if err := os.WriteFile(path, res.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			res.Location = path
		}

		if jsonOutput {
			return printJSON(os.Stdout, res)
		}
		fmt.Fprintf(os.Stdout, "%d row(s) written to %s\n", res.Rows, res.Location)
		return nil
	},
}

func init() {
	exportState.register(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "file format (xlsx, csv, json, parquet)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: <table>.<format>)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "export every row and column, ignoring filters")
	exportCmd.Flags().StringSliceVar(&exportExclude, "exclude", nil, "columns left out of the file")
	exportCmd.Flags().BoolVar(&exportSave, "save", false, "store the file in the configured export sink instead of --out")
}
