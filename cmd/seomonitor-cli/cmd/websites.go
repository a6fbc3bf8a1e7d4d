package cmd

import (
	"log"
	"seomonitor-backend/cmd/seomonitor-cli/globals"
	"seomonitor-backend/cmd/seomonitor-cli/utils"
	"seomonitor-backend/internal/model"
	"seomonitor-backend/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var websiteCmd = &cobra.Command{
	Use:   "website",
	Short: "Manage tracked websites.",
}

var newWebsite store.NewWebsite
var websiteFrequency string

var websiteAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Starts tracking a website.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		newWebsite.URL = args[0]
		newWebsite.Frequency = model.Frequency(websiteFrequency)
		website, err := app.Store.CreateWebsite(cmd.Context(), newWebsite)
		if err != nil {
			log.Fatal(err)
		}
		printWebsites([]model.Website{website})
	},
}

var websiteUser string

var websiteListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists tracked websites.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := globals.Get(cmd.Context()).App

		websites, err := app.Store.ListWebsites(cmd.Context(), websiteUser)
		if err != nil {
			log.Fatal(err)
		}
		printWebsites(websites)
	},
}

func printWebsites(websites []model.Website) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"ID", "Name", "URL", "Email", "Frequency", "Active", "Created"})
	for _, w := range websites {
		t.AppendRow(table.Row{
			w.ID,
			w.DisplayName(),
			w.URL,
			w.NotificationEmail,
			w.Frequency,
			w.Active,
			utils.FormatTime(w.CreatedAt),
		})
	}
	t.Render()
}

func init() {
	websiteAddCmd.Flags().StringVar(&newWebsite.UserID, "user", "", "Id of the user owning the website.")
	websiteAddCmd.Flags().StringVar(&newWebsite.Name, "name", "", "Display name of the website.")
	websiteAddCmd.Flags().StringVar(&newWebsite.NotificationEmail, "email", "", "Where reports are sent.")
	websiteAddCmd.Flags().StringVar(&websiteFrequency, "frequency", string(model.FrequencyWeekly), "Report frequency: daily, weekly or monthly.")
	websiteListCmd.Flags().StringVar(&websiteUser, "user", "", "Only list the websites of this user.")

	websiteCmd.AddCommand(websiteAddCmd, websiteListCmd)
	rootCmd.AddCommand(websiteCmd)
}
