package commands

import (
	"os"

	"sunscrape/internal/portal"
	"sunscrape/internal/transactions"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	electionsCmd.Flags().String("kind", "", "List the elections of a transaction search (contributions, expenditures, transfers) instead of the candidate rosters.")
	rootCmd.AddCommand(electionsCmd)
}

var electionsCmd = &cobra.Command{
	Use:   "elections [--kind <kind>]",
	Short: "Lists the elections candidate rosters or transaction searches are available for.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		ctx := cmd.Context()
		e := getEnv(ctx)

		var (
			elections []portal.Election
			err       error
		)
		if kindFlag == "" {
			elections, err = e.client.Elections(ctx)
		} else {
			var kind transactions.Kind
			kind, err = transactions.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			elections, err = transactions.Elections(ctx, e.client, kind)
		}
		if err != nil {
			return err
		}

		t := newTable(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Election"})
		for _, election := range elections {
			t.AppendRow(table.Row{election.ID, election.Name})
		}
		t.Render()
		return nil
	},
}
