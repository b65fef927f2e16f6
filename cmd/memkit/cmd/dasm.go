package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gitlab.com/stephen-fox/memkit/asmkit"
)

func init() {
	rootCmd.AddCommand(dasmCmd)

	dasmCmd.Flags().Bool("launch", false, "launch the executable under a debugger instead of mapping it from disk")
	dasmCmd.Flags().StringP("syntax", "s", string(asmkit.IntelSyntax), "assembly syntax (intel, att, go)")
	dasmCmd.Flags().StringP("output", "o", prettyFormat, "output format (pretty, go, json)")
	dasmCmd.Flags().IntP("count", "c", 8, "number of instructions to disassemble")
}

// dasmCmd represents the dasm command
var dasmCmd = &cobra.Command{
	Use:   "dasm <exe> <signature|offset>",
	Short: "Disassemble the instructions at a signature match or a module offset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		launch, _ := cmd.Flags().GetBool("launch")
		syntax, _ := cmd.Flags().GetString("syntax")
		outputFormat, _ := cmd.Flags().GetString("output")
		count, _ := cmd.Flags().GetInt("count")

		writer, err := newInstWriter(outputFormat, os.Stdout)
		if err != nil {
			return err
		}

		disassembler, err := asmkit.NewDisassembler(asmkit.DisassemblerConfig{
			Syntax: asmkit.DisassemblySyntax(syntax),
		})
		if err != nil {
			return fmt.Errorf("failed to create disassembler - %w", err)
		}

		snapshot, err := snapshotExe(context.Background(), args[0], launch)
		if err != nil {
			return err
		}

		start, err := dasmStart(snapshot.Data, args[1])
		if err != nil {
			return err
		}

		decoded := 0
		err = disassembler.All(snapshot.Data[start:], uint64(start), func(inst asmkit.Inst) error {
			if decoded == count {
				return errStopDecoding
			}
			decoded++

			inst.Index += start

			return writer.Write(inst)
		})
		if err != nil && !errors.Is(err, errStopDecoding) {
			return fmt.Errorf("failed to decode instructions at %#x - %w", start, err)
		}

		err = writer.Flush()
		if err != nil {
			return fmt.Errorf("failed to write remaining data to output - %w", err)
		}

		return nil
	},
}

// dasmStart returns the offset named by str, which is either
// a catalog signature or a number.
func dasmStart(data []byte, str string) (int, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return 0, err
	}

	var start int

	sig, hasIt := catalog.Lookup(str)
	if hasIt {
		match, found := sig.Pattern.Find(data)
		if !found {
			return 0, fmt.Errorf("failed to find signature %s", sig.Name)
		}

		start = match
	} else {
		offset, err := strconv.ParseUint(str, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a signature name or an offset", str)
		}

		start = int(offset)
	}

	if start < 0 || start >= len(data) {
		return 0, fmt.Errorf("offset %#x is not in a module of %#x bytes", start, len(data))
	}

	return start, nil
}
