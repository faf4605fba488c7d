package repository

import (
	"context"
	"time"

	"dsc_team/internal/domain/model"
)

// MemberRepository is the persistence contract for team members. Every
// implementation is safe for concurrent use.
type MemberRepository interface {
	Insert(ctx context.Context, member *model.Member) error
	// ListAll returns members by ascending created_at, ties in insertion order.
	ListAll(ctx context.Context) ([]model.Member, error)
	FindByID(ctx context.Context, id string) (*model.Member, error)
	// Update merges the non-null fields of patch. It returns common.ErrNoChange
	// when the merge leaves the stored document as it was.
	Update(ctx context.Context, id string, patch model.MemberPatch, now time.Time) (*model.Member, error)
	DeleteByID(ctx context.Context, id string) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
