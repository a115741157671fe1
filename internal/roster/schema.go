package roster

import (
	"fmt"
	"strings"
)

// SchemaVersion is bumped whenever a column alias is added or removed so that
// changes to the accepted extract layouts show up in review.
const SchemaVersion = 1

// Column maps a logical field to the source column names it may appear under,
// the first alias present in the headers wins.
type Column struct {
	Field   Field
	Aliases []string
}

type Schema struct {
	Version  int
	Type     EntityType
	Columns  []Column
	Required []Field
}

var CandidateSchema = Schema{
	Version: SchemaVersion,
	Type:    Candidate,
	Columns: []Column{
		{Field: FieldAccount, Aliases: []string{"AcctNum"}},
		{Field: FieldFirst, Aliases: []string{"NameFirst"}},
		{Field: FieldLast, Aliases: []string{"NameLast"}},
		{Field: FieldMiddle, Aliases: []string{"NameMiddle"}},
		{Field: FieldParty, Aliases: []string{"PartyName"}},
		{Field: FieldPartyCode, Aliases: []string{"PartyCode"}},
		{Field: FieldOffice, Aliases: []string{"OfficeDesc"}},
		{Field: FieldStatus, Aliases: []string{"StatusDesc"}},
		{Field: FieldElectionID, Aliases: []string{"ElectionID"}},
		{Field: FieldEmail, Aliases: []string{"Email"}},
		{Field: FieldPhone, Aliases: []string{"Phone"}},
	},
	Required: []Field{FieldAccount, FieldLast},
}

var CommitteeSchema = Schema{
	Version: SchemaVersion,
	Type:    Committee,
	Columns: []Column{
		{Field: FieldAccount, Aliases: []string{"AcctNum"}},
		{Field: FieldName, Aliases: []string{"Committee Name", "CommitteeName", "Name", "ComName"}},
		{Field: FieldType, Aliases: []string{"Type", "Committee Type"}},
		{Field: FieldStatus, Aliases: []string{"Status", "Committee Status"}},
		{Field: FieldAddress, Aliases: []string{"Address"}},
		{Field: FieldPhone, Aliases: []string{"Phone"}},
		{Field: FieldChair, Aliases: []string{"Chair"}},
		{Field: FieldTreasurer, Aliases: []string{"Treasurer"}},
		{Field: FieldRegisteredAgent, Aliases: []string{"Registered Agent"}},
		{Field: FieldPurpose, Aliases: []string{"Purpose"}},
		{Field: FieldAffiliates, Aliases: []string{"Affiliates"}},
	},
	Required: []Field{FieldAccount, FieldName},
}

func SchemaFor(kind EntityType) Schema {
	if kind == Committee {
		return CommitteeSchema
	}
	return CandidateSchema
}

// ColumnMap is a schema resolved against one set of headers: logical field to
// the header it is read from.
type ColumnMap map[Field]string

// Resolve matches the schema's aliases against `headers` (trimmed, case
// insensitive). It fails with a FormatError when there are no headers or a
// required field has no column.
func (s Schema) Resolve(source string, headers []string) (ColumnMap, error) {
	present := map[string]string{}
	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, exists := present[key]; !exists {
			present[key] = h
		}
	}
	if len(present) == 0 {
		return nil, &FormatError{Source: source, Reason: "missing headers"}
	}

	columns := ColumnMap{}
	for _, col := range s.Columns {
		for _, alias := range col.Aliases {
			header, ok := present[strings.ToLower(alias)]
			if ok {
				columns[col.Field] = header
				break
			}
		}
	}

	for _, field := range s.Required {
		_, ok := columns[field]
		if !ok {
			return nil, &FormatError{
				Source: source,
				Reason: fmt.Sprintf("no column for required field %q (schema v%d)", field, s.Version),
			}
		}
	}
	return columns, nil
}

// Extract reads the mapped fields out of `row`, values are trimmed.
func (m ColumnMap) Extract(row Row) map[Field]string {
	fields := make(map[Field]string, len(m))
	for field, header := range m {
		fields[field] = strings.TrimSpace(row[header])
	}
	return fields
}
