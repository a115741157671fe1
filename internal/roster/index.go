package roster

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"sunscrape/internal/components/telemetry"
	"sunscrape/lib/textutil"
)

const (
	report_index_load = "index.load"
	report_index_skip = "index.skip-row"
)

// ComponentKey is the normalized (first, last) pair of a candidate.
type ComponentKey struct {
	First string
	Last  string
}

type entityKeys struct {
	name      string
	last      string
	component ComponentKey
}

func keysFor(e Entity) entityKeys {
	if e.Type == Committee {
		return entityKeys{name: textutil.NormalizeCommitteeName(e.Get(FieldName), true)}
	}

	first := textutil.NormalizeName(e.Get(FieldFirst))
	last := textutil.NormalizeName(e.Get(FieldLast))
	keys := entityKeys{
		name: textutil.NormalizeName(e.Name()),
		last: last,
	}
	if first != "" && last != "" {
		keys.component = ComponentKey{First: first, Last: last}
	}
	return keys
}

// Index is the in-memory roster of one entity type. Entities are stored by
// account and indexed under their normalized full name, their last name and
// their (first, last) pair; committees only have the full name key.
//
// Every key maps to account numbers in insertion order, an account appears at
// most once per key. An Index is not safe for concurrent use.
type Index struct {
	kind   EntityType
	schema Schema
	tel    telemetry.API

	entities    map[string]Entity
	order       []string
	keys        map[string]entityKeys
	byName      map[string][]string
	byLast      map[string][]string
	byComponent map[ComponentKey][]string

	lookups int
}

func NewIndex(kind EntityType, tel telemetry.API) *Index {
	return &Index{
		kind:        kind,
		schema:      SchemaFor(kind),
		tel:         telemetry.NewScopedAPI(fmt.Sprintf("roster_%s", kind), tel),
		entities:    map[string]Entity{},
		keys:        map[string]entityKeys{},
		byName:      map[string][]string{},
		byLast:      map[string][]string{},
		byComponent: map[ComponentKey][]string{},
	}
}

func (idx *Index) Type() EntityType {
	return idx.kind
}

func (idx *Index) Len() int {
	return len(idx.entities)
}

// Lookups counts the key lookups served so far.
func (idx *Index) Lookups() int {
	return idx.lookups
}

func appendUnique[K comparable](index map[K][]string, key K, account string) {
	var zero K
	if key == zero || slices.Contains(index[key], account) {
		return
	}
	index[key] = append(index[key], account)
}

func removeAccount[K comparable](index map[K][]string, key K, account string) {
	accounts := slices.DeleteFunc(index[key], func(a string) bool { return a == account })
	if len(accounts) == 0 {
		delete(index, key)
		return
	}
	index[key] = accounts
}

// Add stores `e`, replacing any entity with the same account. The account is
// indexed under the entity's current keys, keys it no longer has are dropped.
func (idx *Index) Add(e Entity) error {
	if e.Account == "" {
		return fmt.Errorf("add entity: empty account")
	}
	if e.Type != idx.kind {
		return fmt.Errorf("add entity %s: %s into %s index", e.Account, e.Type, idx.kind)
	}

	keys := keysFor(e)
	previous, exists := idx.keys[e.Account]
	if exists {
		if previous.name != keys.name {
			removeAccount(idx.byName, previous.name, e.Account)
		}
		if previous.last != keys.last {
			removeAccount(idx.byLast, previous.last, e.Account)
		}
		if previous.component != keys.component {
			removeAccount(idx.byComponent, previous.component, e.Account)
		}
	} else {
		idx.order = append(idx.order, e.Account)
	}

	idx.entities[e.Account] = e
	idx.keys[e.Account] = keys

	appendUnique(idx.byName, keys.name, e.Account)
	appendUnique(idx.byLast, keys.last, e.Account)
	appendUnique(idx.byComponent, keys.component, e.Account)
	return nil
}

// Load adds every row of `src` that has both an account and a name and
// returns how many were accepted. Headers that cannot satisfy the schema
// yield a FormatError before any row is read.
func (idx *Index) Load(src Source) (int, error) {
	columns, err := idx.schema.Resolve(src.Name(), src.Headers())
	if err != nil {
		idx.tel.ReportBroken(report_index_load, err, src.Name())
		return 0, err
	}

	loaded := 0
	skipped := 0
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			idx.tel.ReportBroken(report_index_load, err, src.Name())
			return loaded, fmt.Errorf("load %s: %w", src.Name(), err)
		}

		fields := columns.Extract(row)
		e := NewEntity(idx.kind, fields[FieldAccount], fields, row)
		if e.Account == "" || e.Name() == "" {
			skipped++
			continue
		}
		err = idx.Add(e)
		if err != nil {
			return loaded, err
		}
		loaded++
	}

	if skipped > 0 {
		idx.tel.ReportWarning(report_index_skip, fmt.Errorf("%d rows without account or name", skipped), src.Name())
	}
	idx.tel.ReportCount(report_index_load, int64(loaded))
	return loaded, nil
}

func (idx *Index) Get(account string) (Entity, bool) {
	e, ok := idx.entities[account]
	return e, ok
}

// Entities returns every stored entity in the order it was first added.
func (idx *Index) Entities() []Entity {
	out := make([]Entity, 0, len(idx.order))
	for _, account := range idx.order {
		out = append(out, idx.entities[account])
	}
	return out
}

// ByName returns the accounts stored under a normalized full-name key.
func (idx *Index) ByName(key string) []string {
	idx.lookups++
	return slices.Clone(idx.byName[key])
}

// ByLastName returns the accounts stored under a normalized last-name key.
func (idx *Index) ByLastName(key string) []string {
	idx.lookups++
	return slices.Clone(idx.byLast[key])
}

// ByComponents returns the accounts stored under a normalized (first, last) pair.
func (idx *Index) ByComponents(key ComponentKey) []string {
	idx.lookups++
	return slices.Clone(idx.byComponent[key])
}
