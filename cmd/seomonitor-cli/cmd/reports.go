package cmd

import (
	"fmt"
	"log"
	"seomonitor-backend/cmd/seomonitor-cli/globals"
	"seomonitor-backend/cmd/seomonitor-cli/utils"
	"seomonitor-backend/internal/model"
	"seomonitor-backend/internal/report"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate, send and inspect SEO reports.",
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate <website-id>",
	Short: "Refreshes the rankings of a website and generates a new report.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		rep, err := app.Aggregator.Generate(cmd.Context(), utils.ParseID("website-id", args[0]))
		if err != nil {
			log.Fatal(err)
		}
		printReports([]model.Report{rep})
	},
}

var reportSendCmd = &cobra.Command{
	Use:   "send <website-id>",
	Short: "Emails the latest report of a website.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		result, err := app.Dispatcher.SendLatest(cmd.Context(), utils.ParseID("website-id", args[0]))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("sent report %d to %s (%s)\n", result.ReportID, result.Recipient, result.Subject)
	},
}

var reportLatestLimit int

var reportLatestCmd = &cobra.Command{
	Use:   "latest <website-id>",
	Short: "Shows the most recent reports of a website.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		reports, err := app.Store.ListReports(cmd.Context(), utils.ParseID("website-id", args[0]), reportLatestLimit)
		if err != nil {
			log.Fatal(err)
		}
		printReports(reports)
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Shows a single report with its payload.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		rep, err := app.Store.GetReport(cmd.Context(), utils.ParseID("report-id", args[0]))
		if err != nil {
			log.Fatal(err)
		}
		printReports([]model.Report{rep})
		fmt.Printf("website %d, generated %s, %d competitors, %d competitor keywords\n",
			rep.WebsiteID,
			utils.FormatTime(rep.Data.GeneratedAt),
			rep.Data.CompetitorsCount,
			rep.Data.CompetitorKeywordsCount,
		)
	},
}

var historyDays int

var reportHistoryCmd = &cobra.Command{
	Use:   "history <ref>",
	Short: "Shows the ranking history of a keyword (<id> or keyword:<id>) or competitor keyword (competitor_keyword:<id>).",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		ref, err := model.ParseEntityRef(args[0])
		if err != nil {
			log.Fatal(err)
		}
		to := time.Now()
		from := to.AddDate(0, 0, -historyDays)
		points, err := app.Store.History(cmd.Context(), ref, from, to)
		if err != nil {
			log.Fatal(err)
		}

		t := utils.NewTable()
		t.SetTitle(ref.String())
		t.AppendHeader(table.Row{"Checked", "Ranking", "Search volume"})
		for _, p := range points {
			volume := "-"
			if p.SearchVolume != nil {
				volume = fmt.Sprint(*p.SearchVolume)
			}
			t.AppendRow(table.Row{utils.FormatTime(p.CheckedAt), utils.FormatRanking(p.Ranking), volume})
		}
		direction, change := report.WindowTrend(points)
		t.AppendFooter(table.Row{"Trend", fmt.Sprintf("%s %d", direction.Arrow(), change), ""})
		t.Render()
	},
}

func printReports(reports []model.Report) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"ID", "Date", "Overall", "Speed", "Backlinks", "Issues", "Keywords", "Updated", "Failed", "Created"})
	for _, r := range reports {
		t.AppendRow(table.Row{
			r.ID,
			r.ReportDate.Format("2006-01-02"),
			r.Scores.Overall,
			r.Scores.Speed,
			r.Scores.Backlinks,
			r.Scores.StructureIssues,
			r.Data.KeywordsCount,
			r.Data.RankingsUpdated,
			r.Data.RankingsFailed,
			utils.FormatTime(r.CreatedAt),
		})
	}
	t.Render()
}

func init() {
	reportLatestCmd.Flags().IntVarP(&reportLatestLimit, "limit", "n", 1, "Number of reports to show.")
	reportHistoryCmd.Flags().IntVar(&historyDays, "days", int(report.DefaultWindow/(24*time.Hour)), "Size of the history window in days.")

	reportCmd.AddCommand(reportGenerateCmd, reportSendCmd, reportLatestCmd, reportShowCmd, reportHistoryCmd)
	rootCmd.AddCommand(reportCmd)
}
