package roster

import (
	"errors"
	"io"
	"strings"
	"testing"

	"sunscrape/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const candidateExtract = "AcctNum\tElectionID\tOfficeDesc\tStatusDesc\tPartyCode\tPartyName\tNameLast\tNameFirst\tNameMiddle\tEmail\tPhone\r\n" +
	"12345\t20221108-GEN\tGovernor\tActive\tREP\tRepublican Party of Florida\tDeSantis\tRon\t\tron@example.com\t555-0100\r\n" +
	"\t\t\t\t\t\t\t\t\t\t\r\n" +
	"67890\t20221108-GEN\tGovernor\tActive\tDEM\tFlorida Democratic Party\tCrist\tCharlie\tJoseph\t\t\r\n" +
	"\t20221108-GEN\tGovernor\tActive\tNPA\tNo Party Affiliation\tNobody\tNo\t\t\t\r\n"

func TestDelimitedSource(t *testing.T) {
	src, err := NewTabSource("candidates", strings.NewReader(candidateExtract))
	require.NoError(t, err)
	require.Equal(t, "candidates", src.Name())
	require.Len(t, src.Headers(), 11)

	var accounts []string
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		accounts = append(accounts, row["AcctNum"])
	}
	// the blank row is skipped, the row without account is still a row
	require.Equal(t, []string{"12345", "67890", ""}, accounts)
}

func TestDelimitedSourceQuotesAreLiteral(t *testing.T) {
	src, err := NewTabSource("committees", strings.NewReader("AcctNum\tCommittee Name\n1\t\"Quoted\" Friends\n"))
	require.NoError(t, err)

	row, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, `"Quoted" Friends`, row["Committee Name"])
}

func TestDelimitedSourceMissingHeaders(t *testing.T) {
	for _, input := range []string{"", "\r\n", "  \n1\t2\n"} {
		_, err := NewTabSource("empty", strings.NewReader(input))
		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr, "%q", input)
		require.Equal(t, "empty", formatErr.Source)
	}
}

func TestSchemaResolve(t *testing.T) {
	columns, err := CommitteeSchema.Resolve("committees", []string{"AcctNum", " committeename ", "Committee Type", "Status"})
	require.NoError(t, err)
	if diff := cmp.Diff(ColumnMap{
		FieldAccount: "AcctNum",
		FieldName:    " committeename ",
		FieldType:    "Committee Type",
		FieldStatus:  "Status",
	}, columns); diff != "" {
		t.Fatalf("column map mismatch (-want +got):\n%s", diff)
	}

	_, err = CommitteeSchema.Resolve("committees", []string{"AcctNum", "Chair"})
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	require.Contains(t, formatErr.Error(), `"name"`)

	_, err = CandidateSchema.Resolve("candidates", nil)
	require.ErrorAs(t, err, &formatErr)
	require.Equal(t, "missing headers", formatErr.Reason)
}

func TestIndexLoad(t *testing.T) {
	tel := &telemetry.MemoryAPI{}
	idx := NewIndex(Candidate, tel)

	src, err := NewTabSource("candidates", strings.NewReader(candidateExtract))
	require.NoError(t, err)
	loaded, err := idx.Load(src)
	require.NoError(t, err)
	require.Equal(t, 2, loaded)
	require.Equal(t, 2, idx.Len())
	require.Len(t, tel.Find(telemetry.KindWarning, report_index_skip), 1)

	e, ok := idx.Get("12345")
	require.True(t, ok)
	require.Equal(t, "DeSantis, Ron", e.Name())
	require.Equal(t, "REP", e.Get(FieldPartyCode))
	require.Equal(t, "Governor", e.Raw()["OfficeDesc"])

	require.Equal(t, []string{"12345"}, idx.ByName("DeSantis, Ron"))
	require.Equal(t, []string{"67890"}, idx.ByName("Crist, Charlie Joseph"))
	require.Equal(t, []string{"67890"}, idx.ByLastName("Crist"))
	require.Equal(t, []string{"12345"}, idx.ByComponents(ComponentKey{First: "Ron", Last: "DeSantis"}))
	require.Equal(t, 4, idx.Lookups())
}

func TestIndexLoadMissingHeaders(t *testing.T) {
	idx := NewIndex(Candidate, &telemetry.MemoryAPI{})
	_, err := idx.Load(NewMemorySource("candidates", []string{"Name", "Office"}))
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestIndexReAdd(t *testing.T) {
	idx := NewIndex(Candidate, &telemetry.MemoryAPI{})
	headers := []string{"AcctNum", "NameFirst", "NameLast", "PartyName"}

	loaded, err := idx.Load(NewMemorySource("first", headers,
		Row{"AcctNum": "1", "NameFirst": "Ron", "NameLast": "DeSantis", "PartyName": "Republican"},
		Row{"AcctNum": "2", "NameFirst": "Ron", "NameLast": "DeSantis", "PartyName": "Democrat"},
	))
	require.NoError(t, err)
	require.Equal(t, 2, loaded)

	_, err = idx.Load(NewMemorySource("second", headers,
		Row{"AcctNum": "1", "NameFirst": "Ron", "NameLast": "DeSantis", "PartyName": "Independent"},
	))
	require.NoError(t, err)

	e, _ := idx.Get("1")
	require.Equal(t, "Independent", e.Get(FieldParty))
	require.Equal(t, []string{"1", "2"}, idx.ByName("DeSantis, Ron"))
	require.Equal(t, []string{"1", "2"}, idx.ByComponents(ComponentKey{First: "Ron", Last: "DeSantis"}))

	// a renamed account leaves its old keys
	err = idx.Add(NewEntity(Candidate, "1", map[Field]string{FieldFirst: "Casey", FieldLast: "DeSantis"}, nil))
	require.NoError(t, err)
	require.Equal(t, []string{"2"}, idx.ByName("DeSantis, Ron"))
	require.Equal(t, []string{"1"}, idx.ByName("DeSantis, Casey"))
	require.Equal(t, []string{"1", "2"}, idx.ByLastName("DeSantis"))

	entities := idx.Entities()
	require.Len(t, entities, 2)
	require.Equal(t, "1", entities[0].Account)
}

func TestIndexCommittees(t *testing.T) {
	idx := NewIndex(Committee, &telemetry.MemoryAPI{})
	loaded, err := idx.Load(NewMemorySource("committees", []string{"AcctNum", "Committee Name", "Type"},
		Row{"AcctNum": "70001", "Committee Name": "Florida Citizens Alliance PC", "Type": "Political Committee"},
		Row{"AcctNum": "70002", "Committee Name": ""},
	))
	require.NoError(t, err)
	require.Equal(t, 1, loaded)
	require.Equal(t, []string{"70001"}, idx.ByName("florida citizens alliance"))
	require.Empty(t, idx.ByLastName("alliance"))

	err = idx.Add(NewEntity(Candidate, "1", map[Field]string{FieldLast: "X"}, nil))
	require.Error(t, err)
}

func TestEntityImmutable(t *testing.T) {
	fields := map[Field]string{FieldName: "Friends of Ron"}
	e := NewEntity(Committee, "9", fields, nil)
	fields[FieldName] = "changed"

	got := e.Fields()
	got[FieldName] = "changed again"
	require.Equal(t, "Friends of Ron", e.Get(FieldName))
	require.Equal(t, "9", e.Get(FieldAccount))
}
