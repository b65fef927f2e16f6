package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/stephen-fox/memkit/memory"
)

func init() {
	rootCmd.AddCommand(peekCmd)

	addTargetFlags(peekCmd)
}

// peekCmd represents the peek command
var peekCmd = &cobra.Command{
	Use:   "peek <chain>...",
	Short: "Read values from a running game through pointer chains",
	Example: `  $ memkit peek -p 4242 GameDataMan,0x8,0x6c:u32 ChrDbgFlags+0x3:bit0
  GameDataMan,0x8,0x6c:u32 = 13345
  ChrDbgFlags+0x3:bit0 = false`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specs := make([]memory.ChainSpec, len(args))
		for i, arg := range args {
			spec, err := memory.ParseChainSpec(arg)
			if err != nil {
				return err
			}
			specs[i] = spec
		}

		t, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		for i, spec := range specs {
			root, err := t.root(spec)
			if err != nil {
				return err
			}

			value, err := spec.ReadString(t.space, root)
			if err != nil {
				fmt.Printf("%s = %s\n", args[i], colorFail(err.Error()))
				continue
			}

			fmt.Printf("%s = %s\n", args[i], colorAddr(value))
		}

		return nil
	},
}
