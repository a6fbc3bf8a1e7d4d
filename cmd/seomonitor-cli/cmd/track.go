package cmd

import (
	"log"
	"seomonitor-backend/cmd/seomonitor-cli/globals"
	"seomonitor-backend/cmd/seomonitor-cli/utils"
	"seomonitor-backend/internal/model"
	"seomonitor-backend/internal/ranking"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var trackKeyword int64
var trackCompetitorKeyword int64

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Refreshes rankings, a single entity if one is given, otherwise everything of every active website.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App
		if app.Simulated {
			log.Println("no search provider configured, rankings are simulated")
		}

		var ref *model.EntityRef
		switch {
		case trackKeyword > 0 && trackCompetitorKeyword > 0:
			log.Fatal("--keyword and --competitor-keyword are mutually exclusive")
		case trackKeyword > 0:
			ref = &model.EntityRef{Kind: model.KindKeyword, ID: trackKeyword}
		case trackCompetitorKeyword > 0:
			ref = &model.EntityRef{Kind: model.KindCompetitorKeyword, ID: trackCompetitorKeyword}
		}

		if ref != nil {
			result, err := app.Updater.UpdateEntity(cmd.Context(), *ref)
			if err != nil {
				log.Fatal(err)
			}
			printResults([]ranking.Result{result})
			return
		}

		results, err := app.Updater.UpdateAll(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}
		printResults(results)
	},
}

func printResults(results []ranking.Result) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"Ref", "Keyword", "State", "Previous", "Ranking", "Error"})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.Ref.String(),
			r.Term,
			r.State,
			utils.FormatRanking(r.Previous),
			utils.FormatRanking(r.Ranking),
			r.Error,
		})
	}
	t.Render()
}

func init() {
	trackCmd.Flags().Int64Var(&trackKeyword, "keyword", 0, "Id of the keyword to refresh.")
	trackCmd.Flags().Int64Var(&trackCompetitorKeyword, "competitor-keyword", 0, "Id of the competitor keyword to refresh.")
	rootCmd.AddCommand(trackCmd)
}
