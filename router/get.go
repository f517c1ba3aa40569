package router

import "github.com/mxydb/matchy/valuetree"

// Match carries every rule whose selector matched a query: for an IP query
// this always holds exactly one entry; for any other query it holds at most
// one literal-index hit plus one entry per glob pattern that matched.
type Match struct {
	RuleIDs   []uint32
	Selectors []string

	db              *Database
	envelopeOffsets []uint32 // data-section-relative, parallel to RuleIDs
}

// Len returns the number of matched rules.
func (m *Match) Len() int { return len(m.RuleIDs) }

// Get navigates into the i'th matched rule's stored value by path (a
// sequence of string map keys and int array indices) and decodes the value
// found there. An empty path decodes the whole value.
func (m *Match) Get(i int, path ...any) (valuetree.Value, error) {
	if i < 0 || i >= len(m.envelopeOffsets) {
		return valuetree.Value{}, ErrInvalidQuery
	}
	full := make([]any, 0, len(path)+1)
	full = append(full, "value")
	full = append(full, path...)

	off, err := valuetree.Navigate(m.db.dataSection, m.envelopeOffsets[i], full...)
	if err != nil {
		m.db.recordFault(err)
		return valuetree.Value{}, translateNavErr(err)
	}
	v, err := valuetree.Decode(m.db.dataSection, off)
	if err != nil {
		m.db.recordFault(err)
		return valuetree.Value{}, ErrCorrupt
	}
	return v, nil
}

func translateNavErr(err error) error {
	switch err {
	case valuetree.ErrNotFound, valuetree.ErrPathType:
		return err
	default:
		return ErrCorrupt
	}
}

func (db *Database) envelopeRuleID(envelopeOff uint32) (uint32, error) {
	off, err := valuetree.Navigate(db.dataSection, envelopeOff, "rule_id")
	if err != nil {
		return 0, err
	}
	v, err := valuetree.Decode(db.dataSection, off)
	if err != nil {
		return 0, err
	}
	id, ok := v.AsUint32()
	if !ok {
		return 0, valuetree.ErrCorrupt
	}
	return id, nil
}
