package cmd

import (
	"log"
	"seomonitor-backend/cmd/seomonitor-cli/globals"
	"seomonitor-backend/cmd/seomonitor-cli/utils"
	"seomonitor-backend/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var keywordCmd = &cobra.Command{
	Use:   "keyword",
	Short: "Manage the keywords of a website.",
}

var keywordAddCmd = &cobra.Command{
	Use:   "add <website-id> <keyword>",
	Short: "Starts tracking the ranking of a website for a keyword.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		keyword, err := app.Store.AddKeyword(cmd.Context(), utils.ParseID("website-id", args[0]), args[1])
		if err != nil {
			log.Fatal(err)
		}
		printTrackables([]model.Trackable{keyword})
	},
}

var keywordListCmd = &cobra.Command{
	Use:   "list <website-id>",
	Short: "Lists the keywords and competitor keywords of a website.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		items, err := app.Store.ListTrackablesForWebsite(cmd.Context(), utils.ParseID("website-id", args[0]))
		if err != nil {
			log.Fatal(err)
		}
		printTrackables(items)
	},
}

func printTrackables(items []model.Trackable) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"Ref", "Keyword", "Target", "Current", "Previous"})
	for _, item := range items {
		t.AppendRow(table.Row{
			item.Ref().String(),
			item.Term(),
			item.Target(),
			utils.FormatRanking(item.Current()),
			utils.FormatRanking(item.Previous()),
		})
	}
	t.Render()
}

func init() {
	keywordCmd.AddCommand(keywordAddCmd, keywordListCmd)
	rootCmd.AddCommand(keywordCmd)
}
