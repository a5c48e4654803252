package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	emptyQuery string
	logLevel   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wlpa",
	Short: "Search the WLPA schedules and scheduled specimens",
	Long: `wlpa searches the Wildlife Protection Act Schedules I-III by common or
scientific name, and the Schedule IV scheduled specimens list by free text.

Reference data is read once per run from the configured workbooks, the
optional reference database and, when enabled, the CITES Species+ API.
Configuration comes from the environment and an optional .env file.

Run without arguments to browse interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBrowse,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVar(&emptyQuery, "empty-query", "", "Empty query behavior: none or all (default from SEARCH_EMPTY_QUERY)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level on stderr (default from LOG_LEVEL, else warn)")

	searchCmd.Flags().StringVarP(&commonName, "common", "c", "", "Common name (exact or partial match)")
	searchCmd.Flags().StringVarP(&scientificName, "scientific", "s", "", "Scientific name (exact or partial match)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(specimensCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userError(err))
		os.Exit(1)
	}
}

// userError renders err for the terminal: the mapped message for load
// failures and known errors, the raw error for flag and config mistakes.
func userError(err error) string {
	if isLoadError(err) || core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return err.Error()
}
