package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillreg/skillreg/internal/registry"
)

var flagStatsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		st, err := a.Registry.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if flagStatsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		printStats(st)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsJSON, "json", false, "emit stats as JSON")
	rootCmd.AddCommand(statsCmd)
}

func printStats(st registry.Stats) {
	fmt.Println("Registry stats:")
	fmt.Printf("  Skills:    %d (%d embedded)\n", st.Skills, st.SkillsWithEmbedding)
	fmt.Printf("  Documents: %d (%d embedded)\n", st.Documents, st.DocsWithEmbedding)
	fmt.Printf("  Links:     %d\n", st.Links)
}
