package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/gridstate/internal/app"
	"github.com/JonMunkholm/gridstate/internal/config"
	_ "github.com/JonMunkholm/gridstate/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/JonMunkholm/gridstate/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	langFlag   string
	jsonOutput bool
	logLevel   string

	current *app.App
	lang    i18n.Language
)

var rootCmd = &cobra.Command{
	Use:           "gridctl <command>",
	Short:         "Inspect, filter and export grid tables from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// CLI output goes to stdout, so logs go to stderr
		slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, logLevel, "text")))

		_ = godotenv.Load()
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if langFlag == "" {
			langFlag = cfg.Table.DefaultLanguage
		}
		l, ok := i18n.Parse(langFlag)
		if !ok {
			return fmt.Errorf("unsupported language %q", langFlag)
		}
		lang = l

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			current.Close(context.Background())
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "language of labels (en, tr, de, fr, es)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(facetsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(browseCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
