package main

import (
	"os"
	"strconv"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/spf13/cobra"
)

var (
	viewState    stateFlags
	viewPage     int
	viewPageSize int
)

var viewCmd = &cobra.Command{
	Use:   "view <table>",
	Short: "Print one page of a table",
	Example: `  gridctl view people --filter "age=18..40" --sort lastUpdate:desc
  gridctl view people --search "nor pilot" --page 2 --lang de`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context(), args[0], func(schema *core.Schema[core.Record]) ([]core.Action, error) {
			actions, err := viewState.actions(schema)
			if err != nil {
				return nil, err
			}
			size := viewPageSize
			if size <= 0 {
				// Fit the page to the terminal: header, borders, chips and footer
				if h := terminalRows(); h > 8 {
					size = h - 8
				}
			}
			if size > 0 {
				actions = append(actions, core.SetPageSize{Size: size})
			}
			return append(actions, core.SetPage{Index: viewPage - 1}), nil
		})
		if err != nil {
			return err
		}

		v := sess.View(lang)
		if jsonOutput {
			return printJSON(os.Stdout, v)
		}
		return printView(os.Stdout, v)
	},
}

var facetsCmd = &cobra.Command{
	Use:   "facets <table> <column>",
	Short: "Print the distinct values or the bounds of a column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		facet, err := sess.Facets(args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(os.Stdout, facet)
		}

		if facet.Min != nil || facet.Max != nil {
			bound := func(p *float64) string {
				if p == nil {
					return ""
				}
				return strconv.FormatFloat(*p, 'f', -1, 64)
			}
			return renderTable(os.Stdout, []string{"Min", "Max"}, [][]string{{bound(facet.Min), bound(facet.Max)}})
		}
		rows := make([][]string, len(facet.Values))
		for i, v := range facet.Values {
			rows[i] = []string{v}
		}
		return renderTable(os.Stdout, []string{facet.Column}, rows)
	},
}

func init() {
	viewState.register(viewCmd)
	viewCmd.Flags().IntVarP(&viewPage, "page", "p", 1, "page number, starting at 1")
	viewCmd.Flags().IntVar(&viewPageSize, "page-size", 0, "rows per page (default: fit the terminal)")
}
