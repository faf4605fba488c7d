package model

import "time"

type MemberEventType string

const (
	MemberCreated MemberEventType = "member.created"
	MemberUpdated MemberEventType = "member.updated"
	MemberDeleted MemberEventType = "member.deleted"
)

// MemberEvent is published after a successful mutation.
type MemberEvent struct {
	Type   MemberEventType `json:"type"`
	ID     string          `json:"id"`
	Fields []string        `json:"fields,omitempty"` // non-null fields of an update
	At     time.Time       `json:"at"`
}
