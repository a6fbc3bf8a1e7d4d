package cmd

import (
	"log"
	"seomonitor-backend/cmd/seomonitor-cli/globals"
	"seomonitor-backend/cmd/seomonitor-cli/utils"
	"seomonitor-backend/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var competitorCmd = &cobra.Command{
	Use:   "competitor",
	Short: "Manage the competitors of a website.",
}

var competitorName string

var competitorAddCmd = &cobra.Command{
	Use:   "add <website-id> <url>",
	Short: "Adds a competitor to a website.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		competitor, err := app.Store.AddCompetitor(cmd.Context(), utils.ParseID("website-id", args[0]), args[1], competitorName)
		if err != nil {
			log.Fatal(err)
		}
		printCompetitors([]model.Competitor{competitor})
	},
}

var competitorListCmd = &cobra.Command{
	Use:   "list <website-id>",
	Short: "Lists the competitors of a website with their latest scores.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		competitors, err := app.Store.ListCompetitors(cmd.Context(), utils.ParseID("website-id", args[0]))
		if err != nil {
			log.Fatal(err)
		}
		printCompetitors(competitors)
	},
}

var competitorKeywordCmd = &cobra.Command{
	Use:   "keyword",
	Short: "Manage the keywords tracked for a competitor.",
}

var competitorKeywordAddCmd = &cobra.Command{
	Use:   "add <competitor-id> <keyword>",
	Short: "Starts tracking the ranking of a competitor for a keyword.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		ck, err := app.Store.AddCompetitorKeyword(cmd.Context(), utils.ParseID("competitor-id", args[0]), args[1])
		if err != nil {
			log.Fatal(err)
		}
		printTrackables([]model.Trackable{ck})
	},
}

var competitorKeywordListCmd = &cobra.Command{
	Use:   "list <competitor-id>",
	Short: "Lists the keywords tracked for a competitor.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		keywords, err := app.Store.ListCompetitorKeywordsOf(cmd.Context(), utils.ParseID("competitor-id", args[0]))
		if err != nil {
			log.Fatal(err)
		}
		items := make([]model.Trackable, len(keywords))
		for i, k := range keywords {
			items[i] = k
		}
		printTrackables(items)
	},
}

func printCompetitors(competitors []model.Competitor) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"ID", "Name", "URL", "Overall", "Speed", "Backlinks", "Last checked"})
	for _, c := range competitors {
		row := table.Row{c.ID, c.DisplayName(), c.URL, "-", "-", "-", "-"}
		if c.Scores != nil {
			row[3] = c.Scores.Overall
			row[4] = c.Scores.Speed
			row[5] = c.Scores.Backlinks
		}
		if c.LastCheckedAt != nil {
			row[6] = utils.FormatTime(*c.LastCheckedAt)
		}
		t.AppendRow(row)
	}
	t.Render()
}

func init() {
	competitorAddCmd.Flags().StringVar(&competitorName, "name", "", "Display name of the competitor.")

	competitorKeywordCmd.AddCommand(competitorKeywordAddCmd, competitorKeywordListCmd)
	competitorCmd.AddCommand(competitorAddCmd, competitorListCmd, competitorKeywordCmd)
	rootCmd.AddCommand(competitorCmd)
}
