package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Optional records whether a JSON field was absent, explicitly null, or set.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Present: true, Null: true}
}

// IsSet reports whether the field carries a non-null value.
func (o Optional[T]) IsSet() bool {
	return o.Present && !o.Null
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MemberPatch is the body of a partial update.
type MemberPatch struct {
	Name        Optional[string] `json:"name"`
	Role        Optional[string] `json:"role"`
	Photo       Optional[string] `json:"photo"`
	Description Optional[string] `json:"description"`
}

// Validate rejects values that would break the Member invariants.
func (p MemberPatch) Validate() error {
	if p.Name.IsSet() && strings.TrimSpace(p.Name.Value) == "" {
		return fmt.Errorf("%s must not be empty", FieldName)
	}
	if p.Role.IsSet() && strings.TrimSpace(p.Role.Value) == "" {
		return fmt.Errorf("%s must not be empty", FieldRole)
	}
	return nil
}

// ApplyPatch merges the non-null fields of p into a copy of m. It returns the
// merged member and the names of the fields whose stored value changed; when
// nothing changed the member is returned untouched and changed is empty.
func ApplyPatch(m Member, p MemberPatch, now time.Time) (Member, []string) {
	var changed []string

	if p.Name.IsSet() && p.Name.Value != m.Name {
		m.Name = p.Name.Value
		changed = append(changed, FieldName)
	}
	if p.Role.IsSet() && p.Role.Value != m.Role {
		m.Role = p.Role.Value
		changed = append(changed, FieldRole)
	}
	if p.Photo.IsSet() && !equalPtr(m.Photo, p.Photo.Value) {
		v := p.Photo.Value
		m.Photo = &v
		changed = append(changed, FieldPhoto)
	}
	if p.Description.IsSet() && !equalPtr(m.Description, p.Description.Value) {
		v := p.Description.Value
		m.Description = &v
		changed = append(changed, FieldDescription)
	}

	if len(changed) > 0 {
		m.UpdatedAt = NextUpdatedAt(m.UpdatedAt, now)
	}
	return m, changed
}

// SetFields returns the changed fields of m keyed by document field name,
// plus updated_at. Backends use it to build partial writes.
func SetFields(m Member, changed []string) map[string]interface{} {
	set := make(map[string]interface{}, len(changed)+1)
	for _, f := range changed {
		switch f {
		case FieldName:
			set[f] = m.Name
		case FieldRole:
			set[f] = m.Role
		case FieldPhoto:
			set[f] = m.Photo
		case FieldDescription:
			set[f] = m.Description
		}
	}
	set[FieldUpdatedAt] = m.UpdatedAt
	return set
}

func equalPtr(p *string, v string) bool {
	return p != nil && *p == v
}
