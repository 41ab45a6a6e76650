package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"martianoff/pama/match"
)

var matchCmd = &cobra.Command{
	Use:   "match <pattern> <subject>",
	Short: "Match a JSON subject against a pattern",
	Long: `Compile a pattern template and match it against a JSON-encoded subject.

On a match, the captured bindings are printed one per line and the exit code
is 0. A non-match exits with code 1.

Examples:
  pama match '(a, *rest)' '[1, 2, 3]'
  pama match '{"status": s}' '{"status": "ok", "code": 200}'
  pama match '1 | ... | 9' '5'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := match.CompileString(args[0], match.WithLogger(logger()))
		if err != nil {
			return err
		}

		var subject any
		if err := json.Unmarshal([]byte(args[1]), &subject); err != nil {
			return fmt.Errorf("invalid subject: %w", err)
		}

		b, ok := m.Match(subject)
		if !ok {
			fmt.Println("no match")
			os.Exit(1)
		}

		fmt.Println("match")
		names := make([]string, 0, len(b))
		for name := range b {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out, err := json.Marshal(b[name])
			if err != nil {
				fmt.Printf("  %s = %v\n", name, b[name])
				continue
			}
			fmt.Printf("  %s = %s\n", name, out)
		}
		return nil
	},
}
