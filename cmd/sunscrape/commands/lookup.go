package commands

import (
	"fmt"
	"os"

	"sunscrape/internal/match"
	"sunscrape/internal/roster"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	suggestionCutoff = 0.75
	suggestionLimit  = 10
)

func init() {
	lookupCmd.Flags().String("party", "", "Only match candidates of this party, like \"REP\" or \"Democrat\".")
	lookupCmd.Flags().Bool("committee", false, "Look the name up as a committee instead of a candidate.")
	lookupCmd.Flags().StringSlice("roster-election", nil, "Election ids to load candidates from, overrides the config.")
	rootCmd.AddCommand(lookupCmd)
}

func printResults(results []match.Result) {
	t := newTable(os.Stdout)
	t.AppendHeader(table.Row{"Account", "Name", "Type", "Party", "Status", "Method", "Confidence"})
	for _, r := range results {
		party := r.Entity.Get(roster.FieldParty)
		t.AppendRow(table.Row{r.Account, r.Entity.Name(), r.EntityType, party, r.Entity.Get(roster.FieldStatus), r.Method, r.Confidence})
	}
	t.Render()
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <name> [--party <party>] [--committee]",
	Short: "Matches a name against the candidate or committee roster.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		party, _ := cmd.Flags().GetString("party")
		committee, _ := cmd.Flags().GetBool("committee")
		elections, _ := cmd.Flags().GetStringSlice("roster-election")
		name := args[0]

		ctx := cmd.Context()
		e := getEnv(ctx)
		m, err := loadMatchers(ctx, e, elections, committee)
		if err != nil {
			return err
		}

		var (
			results []match.Result
			index   *roster.Index
		)
		if committee {
			index = m.committees.Index()
			results, err = m.committees.Find(ctx, name)
			if err != nil {
				return err
			}
		} else {
			index = m.candidates.Index()
			results = m.candidates.Find(name, party)
		}

		if len(results) > 0 {
			printResults(results)
			return nil
		}

		suggestions := match.Suggest(index, name, suggestionCutoff, suggestionLimit)
		if len(suggestions) == 0 {
			return fmt.Errorf("no match for %q", name)
		}
		fmt.Fprintf(os.Stderr, "no match for %q, closest names:\n", name)
		t := newTable(os.Stdout)
		t.AppendHeader(table.Row{"Account", "Name", "Correlation"})
		for _, s := range suggestions {
			t.AppendRow(table.Row{s.Entity.Account, s.Entity.Name(), s.Correlation})
		}
		t.Render()
		return nil
	},
}
