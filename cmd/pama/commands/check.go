package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"martianoff/pama/pattern"
)

var checkExpand bool

var checkCmd = &cobra.Command{
	Use:   "check <pattern>",
	Short: "Validate a pattern template",
	Long: `Parse and validate a pattern template, printing its normalized form.

Examples:
  pama check '(a, *rest, 9)'
  pama check 'x @ 1 | ... | 5' --expand`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pattern.ParseString(args[0], nil)
		if err != nil {
			return err
		}
		if checkExpand {
			p = pattern.Expand(p)
		}
		fmt.Println(p.String())
		if names := pattern.BoundNames(p); len(names) > 0 {
			fmt.Println("binds:", names)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkExpand, "expand", false, "Expand range alternatives into literals")
}
