package roster

import (
	"maps"

	"sunscrape/lib/textutil"
)

type EntityType string

const (
	Candidate EntityType = "candidate"
	Committee EntityType = "committee"
)

// Field is a logical entity field, independent of the column it was read from.
type Field string

const (
	FieldAccount    Field = "account"
	FieldFirst      Field = "first"
	FieldLast       Field = "last"
	FieldMiddle     Field = "middle"
	FieldParty      Field = "party"
	FieldPartyCode  Field = "party_code"
	FieldOffice     Field = "office"
	FieldStatus     Field = "status"
	FieldElectionID Field = "election_id"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"

	FieldName            Field = "name"
	FieldType            Field = "type"
	FieldAddress         Field = "address"
	FieldChair           Field = "chair"
	FieldTreasurer       Field = "treasurer"
	FieldRegisteredAgent Field = "registered_agent"
	FieldPurpose         Field = "purpose"
	FieldAffiliates      Field = "affiliates"
)

// Entity is a candidate or committee keyed by its account number. Its fields
// cannot be changed once constructed, replacing an entity means adding a new
// one under the same account.
type Entity struct {
	Account string
	Type    EntityType

	fields map[Field]string
	raw    map[string]string
}

// NewEntity copies `fields` and `raw`, the caller may reuse both afterwards.
// `raw` holds the source row as read, including unmapped columns.
func NewEntity(kind EntityType, account string, fields map[Field]string, raw map[string]string) Entity {
	e := Entity{
		Account: account,
		Type:    kind,
		fields:  maps.Clone(fields),
		raw:     maps.Clone(raw),
	}
	if e.fields == nil {
		e.fields = map[Field]string{}
	}
	e.fields[FieldAccount] = account
	return e
}

func (e Entity) Get(f Field) string {
	return e.fields[f]
}

func (e Entity) Fields() map[Field]string {
	return maps.Clone(e.fields)
}

func (e Entity) Raw() map[string]string {
	return maps.Clone(e.raw)
}

// Name is the display name: "Last, First Middle" for candidates, the
// registered name for committees.
func (e Entity) Name() string {
	if e.Type == Candidate {
		return textutil.BuildFullName(e.Get(FieldFirst), e.Get(FieldLast), e.Get(FieldMiddle))
	}
	return e.Get(FieldName)
}
