package model

import (
	"strings"

	"github.com/google/uuid"
)

// KeyValuePair is one editable row of a params, headers, form or cookie list.
// ID is stable for the lifetime of the row so editors can diff lists.
type KeyValuePair struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// KeyValueField names an editable text column of a KeyValuePair
type KeyValueField string

const (
	FieldKey   KeyValueField = "key"
	FieldValue KeyValueField = "value"
)

// NewKeyValuePair returns an empty, enabled pair with a fresh id
func NewKeyValuePair() KeyValuePair {
	return KeyValuePair{ID: uuid.NewString(), Enabled: true}
}

// IsEffective reports whether the pair takes part in a compiled request.
// Every consumer of pairs (query, headers, bodies, cURL export) must use it.
func (p KeyValuePair) IsEffective() bool {
	return p.Enabled && strings.TrimSpace(p.Key) != ""
}

func (p KeyValuePair) isPlaceholder() bool {
	return p.Key == "" && p.Value == ""
}

// KeyValueList is an ordered list of pairs that is never empty: every
// operation returning a list leaves at least one (possibly blank) row in it.
// All operations are pure and return a new list.
type KeyValueList []KeyValuePair

// NewKeyValueList copies pairs into a new list, seeding a placeholder row when
// pairs is empty. Pairs without an id get one.
func NewKeyValueList(pairs ...KeyValuePair) KeyValueList {
	out := make(KeyValueList, 0, len(pairs)+1)
	for _, p := range pairs {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		out = append(out, p)
	}
	return out.ensureRow()
}

// Pairs builds a list of enabled pairs from alternating key, value arguments.
func Pairs(kv ...string) KeyValueList {
	var pairs []KeyValuePair
	for i := 0; i+1 < len(kv); i += 2 {
		p := NewKeyValuePair()
		p.Key, p.Value = kv[i], kv[i+1]
		pairs = append(pairs, p)
	}
	return NewKeyValueList(pairs...)
}

func (l KeyValueList) ensureRow() KeyValueList {
	if len(l) == 0 {
		return KeyValueList{NewKeyValuePair()}
	}
	return l
}

// Normalize restores the non-empty invariant on lists that came from outside
// (decoded JSON, zero values) and fills in missing ids.
func (l KeyValueList) Normalize() KeyValueList {
	return NewKeyValueList(l...)
}

// Clone returns a copy that shares no backing array with l
func (l KeyValueList) Clone() KeyValueList {
	out := make(KeyValueList, len(l))
	copy(out, l)
	return out.ensureRow()
}

// Add appends one empty enabled pair
func (l KeyValueList) Add() KeyValueList {
	return append(l.Clone(), NewKeyValuePair())
}

// Update replaces the named field on the pair with the given id only
func (l KeyValueList) Update(id string, field KeyValueField, value string) KeyValueList {
	out := l.Clone()
	for i := range out {
		if out[i].ID != id {
			continue
		}
		switch field {
		case FieldKey:
			out[i].Key = value
		case FieldValue:
			out[i].Value = value
		}
	}
	return out
}

// Toggle flips Enabled on the pair with the given id
func (l KeyValueList) Toggle(id string) KeyValueList {
	out := l.Clone()
	for i := range out {
		if out[i].ID == id {
			out[i].Enabled = !out[i].Enabled
		}
	}
	return out
}

// Remove deletes the pair with the given id. Removing the last row leaves a
// fresh placeholder behind.
func (l KeyValueList) Remove(id string) KeyValueList {
	out := make(KeyValueList, 0, len(l))
	for _, p := range l {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out.ensureRow()
}

// Set adds an enabled key/value row, reusing a trailing blank placeholder
// when there is one. Duplicate keys are kept.
func (l KeyValueList) Set(key, value string) KeyValueList {
	out := l.Clone()
	last := len(out) - 1
	if out[last].isPlaceholder() {
		out[last].Key = key
		out[last].Value = value
		out[last].Enabled = true
		return out
	}
	p := NewKeyValuePair()
	p.Key, p.Value = key, value
	return append(out, p)
}

// Effective returns the pairs that are enabled and have a non-blank key
func (l KeyValueList) Effective() []KeyValuePair {
	var out []KeyValuePair
	for _, p := range l {
		if p.IsEffective() {
			out = append(out, p)
		}
	}
	return out
}

// HasEffective reports whether any pair would reach a compiled request
func (l KeyValueList) HasEffective() bool {
	for _, p := range l {
		if p.IsEffective() {
			return true
		}
	}
	return false
}
