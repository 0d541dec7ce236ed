package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/llmcost-cli/internal/model"
)

var (
	summaryStart string
	summaryEnd   string
	summaryDays  int
	trendDays    int
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize spend over a time window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		start, end, err := summaryWindow()
		if err != nil {
			return err
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		s := env.Tracker.CostSummary(ctx, start, end)
		printSummary(s)
		return nil
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's spend and top models",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		day := env.Tracker.CurrentDayMetrics(ctx)
		printSummary(day.CostSummary)

		if len(day.TopModels) > 0 {
			p := message.NewPrinter(language.English)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\nMODEL\tCOST\tSHARE")
			for _, ms := range day.TopModels {
				fmt.Fprintf(w, "%s\t%s\t%.1f%%\n", ms.Name, p.Sprintf("$%.4f", ms.Cost), ms.Percent)
			}
			w.Flush()
		}
		return nil
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show daily spend over the trailing N days",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		points := env.Tracker.CostTrends(ctx, trendDays)

		p := message.NewPrinter(language.English)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tCOST\tREQUESTS\tAVG")
		for _, pt := range points {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				pt.Date,
				p.Sprintf("$%.4f", pt.TotalCost),
				p.Sprintf("%d", pt.RequestCount),
				p.Sprintf("$%.6f", pt.AverageCost),
			)
		}
		return w.Flush()
	},
}

// summaryWindow resolves --start/--end/--days into a concrete time range.
func summaryWindow() (time.Time, time.Time, error) {
	now := time.Now().UTC()

	if summaryStart != "" || summaryEnd != "" {
		if summaryStart == "" || summaryEnd == "" {
			return time.Time{}, time.Time{}, eris.New("--start and --end must be given together")
		}
		start, err := time.Parse("2006-01-02", summaryStart)
		if err != nil {
			return time.Time{}, time.Time{}, eris.Wrapf(err, "parse --start %q", summaryStart)
		}
		end, err := time.Parse("2006-01-02", summaryEnd)
		if err != nil {
			return time.Time{}, time.Time{}, eris.Wrapf(err, "parse --end %q", summaryEnd)
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, eris.New("--end is before --start")
		}
		// End date is inclusive.
		return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}

	days := summaryDays
	if days <= 0 {
		days = 7
	}
	return now.AddDate(0, 0, -days), now, nil
}

func printSummary(s model.CostSummary) {
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Window\t%s — %s\n", s.Start.Format("2006-01-02 15:04"), s.End.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Total cost\t%s\n", p.Sprintf("$%.4f", s.TotalCost))
	fmt.Fprintf(w, "Requests\t%s\n", p.Sprintf("%d", s.RequestCount))
	fmt.Fprintf(w, "Average cost\t%s\n", p.Sprintf("$%.6f", s.AverageCost))
	fmt.Fprintf(w, "Estimated savings\t%s\n", p.Sprintf("$%.4f", s.EstimatedSavings))
	w.Flush()

	printBreakdown("By model", s.ByModel, p)
	printBreakdown("By channel", s.ByChannel, p)
	printBreakdown("By complexity", s.ByComplexity, p)
}

func printBreakdown(title string, byKey map[string]float64, p *message.Printer) {
	if len(byKey) == 0 {
		return
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\n%s\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t%s\n", k, p.Sprintf("$%.4f", byKey[k]))
	}
	w.Flush()
}

func init() {
	summaryCmd.Flags().StringVar(&summaryStart, "start", "", "window start date (YYYY-MM-DD)")
	summaryCmd.Flags().StringVar(&summaryEnd, "end", "", "window end date, inclusive (YYYY-MM-DD)")
	summaryCmd.Flags().IntVar(&summaryDays, "days", 7, "trailing window in days (ignored when --start/--end are set)")
	trendsCmd.Flags().IntVar(&trendDays, "days", 7, "number of trailing days")
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(trendsCmd)
}
