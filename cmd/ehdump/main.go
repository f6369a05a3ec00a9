// Command ehdump inspects the static exception-handling tables emitted by
// the table-generation pass, in their YAML interchange form: it validates
// the table set and prints the type, action, and filter tables in a
// readable layout.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cloudcmds/unwind/ehtable"
	"github.com/cloudcmds/unwind/rtti"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "ehdump [table file]",
	Short: "Inspect exception-handling clause tables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
			color.NoColor = true
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		registry := map[string]rtti.TypeInfo{}
		tables, err := ehtable.DecodeYAML(data, func(name string) rtti.TypeInfo {
			if ti, ok := registry[name]; ok {
				return ti
			}
			ti := rtti.NewClass(name)
			registry[name] = ti
			return ti
		})
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		dump(tables)
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized output")
}

func dump(t *ehtable.Tables) {
	heading := color.New(color.Bold)

	heading.Println("types")
	for i, ti := range t.Types {
		name := "<any>"
		if ti != nil {
			name = ti.Name()
		}
		fmt.Printf("  %3d  %s\n", i+1, name)
	}

	heading.Println("actions")
	for i, a := range t.Actions {
		fmt.Printf("  %3d  %s  next=%d\n", i+1, describeClause(t, a), a.Next)
	}

	heading.Println("filters")
	for i := 0; i < len(t.Filters); {
		seq := t.FilterSeq(int32(-(i + 1)))
		fmt.Printf("  %3d  %v\n", -(i + 1), seq)
		i += len(seq) + 1
	}
}

func describeClause(t *ehtable.Tables, a ehtable.Action) string {
	switch {
	case a.IsCleanup():
		return color.YellowString("cleanup")
	case a.IsFilter():
		return color.RedString("filter %d", a.ClauseID)
	default:
		name := "<any>"
		if ti := t.CatchType(a.ClauseID); ti != nil {
			name = ti.Name()
		}
		return color.GreenString("catch %s", name)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		os.Exit(1)
	}
}
