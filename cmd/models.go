package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/llmcost-cli/internal/cost"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model catalog with pricing and capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		split := cfg.Selector.Split
		if split.Input <= 0 && split.Output <= 0 {
			split = cost.DefaultSplit()
		}

		p := message.NewPrinter(language.English)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL\tIN/1K\tOUT/1K\tBLENDED/1K\tCONTEXT\tCAPABILITIES")
		for _, m := range env.Catalog.Models() {
			caps := make([]string, len(m.Capabilities))
			for i, c := range m.Capabilities {
				caps[i] = string(c)
			}
			fmt.Fprintf(w, "%s\t$%.6f\t$%.6f\t$%.6f\t%s\t%s\n",
				m.Name, m.InputPer1K, m.OutputPer1K,
				cost.BlendedPer1K(m, split),
				p.Sprintf("%d", m.ContextWindowTokens),
				strings.Join(caps, ","),
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
