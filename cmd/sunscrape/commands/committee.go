package commands

import (
	"fmt"
	"io"
	"os"

	"sunscrape/internal/roster"
	"sunscrape/internal/transactions"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	committeeCmd.Flags().StringP("out", "o", "", "Write the transactions to this file instead of stdout.")
	rootCmd.AddCommand(committeeCmd)
}

var detailOrder = []roster.Field{
	roster.FieldType,
	roster.FieldStatus,
	roster.FieldAddress,
	roster.FieldPhone,
	roster.FieldChair,
	roster.FieldTreasurer,
	roster.FieldRegisteredAgent,
	roster.FieldPurpose,
	roster.FieldAffiliates,
}

var committeeCmd = &cobra.Command{
	Use:   "committee <name> <contributions|expenditures|other|transfers> [--out <file.tsv>]",
	Short: "Finds the committee closest to a name and writes its filed transactions.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		kind, err := transactions.ParseKind(args[1])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		e := getEnv(ctx)
		report, err := transactions.CommitteeTransactions(ctx, e.client, args[0], kind, e.tel)
		if err != nil {
			return err
		}
		if report == nil {
			return fmt.Errorf("committee %q not found", args[0])
		}

		// keep stdout clean for the records
		var w io.Writer = os.Stderr
		if out != "" {
			w = os.Stdout
		}
		t := newTable(w)
		t.SetTitle(fmt.Sprintf("%s (%s)", report.Name, report.Account))
		for _, field := range detailOrder {
			t.AppendRow(table.Row{field, report.Detail[field]})
		}
		t.Render()

		return writeRecords(out, report.Records)
	},
}
