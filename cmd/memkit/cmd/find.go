package cmd

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"gitlab.com/stephen-fox/memkit/pattern"
)

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().Bool("launch", false, "launch the executable under a debugger instead of mapping it from disk")
	findCmd.Flags().IntP("max", "m", 16, "maximum number of matches to print (0 prints all of them)")
}

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find <exe> <pattern>",
	Short: "Find every occurrence of a byte pattern in an executable",
	Example: `  $ memkit find eldenring.exe "48 8B 05 ?? ?? ?? ?? 48 85 C0 74 05 48 8B 40 58 C3 C3"
  0x24c7fe1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		launch, _ := cmd.Flags().GetBool("launch")
		maxMatches, _ := cmd.Flags().GetInt("max")

		p, err := pattern.Parse(args[1])
		if err != nil {
			return err
		}

		snapshot, err := snapshotExe(context.Background(), args[0], launch)
		if err != nil {
			return err
		}

		matches := p.FindAll(snapshot.Data)
		if len(matches) == 0 {
			return fmt.Errorf("failed to find %s in %s", p, snapshot.Name)
		}

		for i, match := range matches {
			if maxMatches > 0 && i == maxMatches {
				log.Warnf("%d more matches were not printed", len(matches)-maxMatches)
				break
			}

			fmt.Printf("%#x\n", match)
		}

		return nil
	},
}
