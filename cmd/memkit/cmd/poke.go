package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"gitlab.com/stephen-fox/memkit/memory"
)

func init() {
	rootCmd.AddCommand(pokeCmd)

	addTargetFlags(pokeCmd)
}

// pokeCmd represents the poke command
var pokeCmd = &cobra.Command{
	Use:     "poke <chain> <value>",
	Short:   "Write a value to a running game through a pointer chain",
	Example: `  $ memkit poke -p 4242 ChrDbgFlags+0x3:bit0 true`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := memory.ParseChainSpec(args[0])
		if err != nil {
			return err
		}

		t, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		root, err := t.root(spec)
		if err != nil {
			return err
		}

		err = spec.WriteString(t.space, root, args[1])
		if err != nil {
			return err
		}

		log.WithField("chain", args[0]).Infof("Wrote %s", args[1])

		return nil
	},
}
