package commands

import (
	"fmt"

	"sunscrape/internal/transactions"

	"github.com/spf13/cobra"
)

func init() {
	for _, kind := range []transactions.Kind{transactions.Contributions, transactions.Expenditures, transactions.Transfers} {
		rootCmd.AddCommand(newTransactionsCmd(kind))
	}
}

func newTransactionsCmd(kind transactions.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [filters] [--enrich [--committees]] [--out <file.tsv>]", kind),
		Short: fmt.Sprintf("Searches statewide %s and writes them tab-delimited.", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			first, _ := flags.GetString("first")
			last, _ := flags.GetString("last")
			committee, _ := flags.GetString("committee")
			from, _ := flags.GetString("from")
			to, _ := flags.GetString("to")
			election, _ := flags.GetString("election")
			allTime, _ := flags.GetBool("all-time")
			withEnrich, _ := flags.GetBool("enrich")
			withCommittees, _ := flags.GetBool("committees")
			rosterElections, _ := flags.GetStringSlice("roster-election")
			out, _ := flags.GetString("out")

			ctx := cmd.Context()
			e := getEnv(ctx)

			records, err := transactions.Fetch(ctx, e.client, kind, transactions.Query{
				CandidateFirst: first,
				CandidateLast:  last,
				CommitteeName:  committee,
				FromDate:       from,
				ToDate:         to,
				ElectionID:     election,
				AllTime:        allTime,
			}, e.tel)
			if err != nil {
				return err
			}

			if withEnrich && len(records) > 0 {
				m, err := loadMatchers(ctx, e, rosterElections, withCommittees)
				if err != nil {
					return fmt.Errorf("load roster: %w", err)
				}
				nameField, partyField, _ := transactions.NameFields(kind)
				records, err = m.engine(e.tel).Enrich(ctx, records, nameField, partyField)
				if err != nil {
					return err
				}
			}

			return writeRecords(out, records)
		},
	}

	flags := cmd.Flags()
	flags.String("first", "", "Candidate first name.")
	flags.String("last", "", "Candidate last name.")
	flags.String("committee", "", "Committee name, partial names match.")
	flags.String("from", "", "Earliest date, MM/DD/YYYY.")
	flags.String("to", "", "Latest date, MM/DD/YYYY.")
	flags.String("election", "", "Election id, as listed by \"sunscrape elections --kind "+string(kind)+"\".")
	flags.Bool("all-time", false, "Search every election.")
	flags.Bool("enrich", false, "Match each filer to a candidate and add the entity_* columns.")
	flags.Bool("committees", false, "With --enrich, also match committees, looking them up online when they are not in the roster.")
	flags.StringSlice("roster-election", nil, "Election ids to load candidates from, overrides the config.")
	flags.StringP("out", "o", "", "Write to this file instead of stdout.")
	return cmd
}
