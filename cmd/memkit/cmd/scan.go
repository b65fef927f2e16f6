package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/stephen-fox/memkit/asmkit"
	"gitlab.com/stephen-fox/memkit/resolve"
	"gitlab.com/stephen-fox/memkit/signature"
)

var colorName = color.New(color.Bold, color.FgHiGreen).SprintFunc()
var colorAddr = color.New(color.Bold, color.FgHiBlue).SprintFunc()
var colorWarn = color.New(color.Bold, color.FgHiYellow).SprintFunc()
var colorFail = color.New(color.Bold, color.FgHiRed).SprintFunc()

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("launch", false, "launch the executable under a debugger instead of mapping it from disk")
	scanCmd.Flags().BoolP("disasm", "d", false, "disassemble the instruction at each match")
	scanCmd.Flags().StringP("syntax", "s", string(asmkit.IntelSyntax), "assembly syntax (intel, att, go)")
	scanCmd.Flags().Bool("no-color", false, "disable colorized output")
	scanCmd.MarkZshCompPositionalArgumentFile(1, "*.exe")
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <exe>",
	Short: "Resolve the signature catalog against one executable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		launch, _ := cmd.Flags().GetBool("launch")
		disasm, _ := cmd.Flags().GetBool("disasm")
		syntax, _ := cmd.Flags().GetString("syntax")
		noColor, _ := cmd.Flags().GetBool("no-color")

		color.NoColor = noColor || color.NoColor

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		snapshot, err := snapshotExe(context.Background(), args[0], launch)
		if err != nil {
			return err
		}

		log.WithField("module", snapshot.String()).Debug("Acquired snapshot")

		result, err := resolve.Scan(context.Background(), snapshot.Data, catalog)
		if err != nil {
			return err
		}

		var disassembler *asmkit.Disassembler
		if disasm {
			disassembler, err = asmkit.NewDisassembler(asmkit.DisassemblerConfig{
				Syntax: asmkit.DisassemblySyntax(syntax),
			})
			if err != nil {
				return err
			}
		}

		failed := make(map[string]error)
		for _, failure := range result.Failures {
			failed[failure.Name] = failure.Err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		for _, sig := range catalog {
			matches := sig.Pattern.FindAll(snapshot.Data)

			if err, hasIt := failed[sig.Name]; hasIt {
				fmt.Fprintf(w, "%s\t%s\t%d matches\t%s\n",
					colorName(sig.Name), colorFail("-"), len(matches), err)
				continue
			}

			line := fmt.Sprintf("%s\t%s\t%d matches\t",
				colorName(sig.Name), colorAddr(fmt.Sprintf("%#x", result.Offsets[sig.Name])), len(matches))

			if len(matches) > 1 {
				line += colorWarn("not unique")
			}

			if disassembler != nil && len(matches) > 0 {
				line += "\t" + disassembleAt(disassembler, sig, snapshot.Data, matches[0])
			}

			fmt.Fprintln(w, line)
		}

		w.Flush()

		log.Infof("%d of %d signatures resolved", len(result.Offsets), len(catalog))

		return nil
	},
}

func disassembleAt(disassembler *asmkit.Disassembler, sig signature.Signature, data []byte, match int) string {
	start := match
	if decoded, ok := sig.Operand.(signature.DecodedOperand); ok {
		start += decoded.Skip
	}

	if start < 0 || start >= len(data) {
		return ""
	}

	inst, err := disassembler.Next(data[start:], uint64(start))
	if err != nil {
		return fmt.Sprintf("(%s)", err)
	}

	return inst.Dis
}
