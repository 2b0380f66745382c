package main

import (
	"errors"
	"os"

	"github.com/JonMunkholm/gridstate/internal/application"
	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var browseState stateFlags

var browseCmd = &cobra.Command{
	Use:   "browse <table>",
	Short: "Browse a table interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("browse needs an interactive terminal")
		}
		sess, err := openSession(cmd.Context(), args[0], func(schema *core.Schema[core.Record]) ([]core.Action, error) {
			return browseState.actions(schema)
		})
		if err != nil {
			return err
		}
		return application.Run(cmd.Context(), sess, lang)
	},
}

func init() {
	browseState.register(browseCmd)
}
