package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dsc_team/internal/common"
	"dsc_team/internal/domain/model"
)

type memoryMemberRepository struct {
	mu      sync.RWMutex
	members map[string]model.Member
	order   []string
}

// NewMemoryMemberRepository returns a process-local store.
func NewMemoryMemberRepository() MemberRepository {
	return &memoryMemberRepository{members: make(map[string]model.Member)}
}

func (r *memoryMemberRepository) Insert(ctx context.Context, member *model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.members[member.ID]; exists {
		return fmt.Errorf("memoryMemberRepository.Insert: member %s: %w", member.ID, common.ErrConflict)
	}
	r.members[member.ID] = cloneMember(*member)
	r.order = append(r.order, member.ID)
	return nil
}

func (r *memoryMemberRepository) ListAll(ctx context.Context) ([]model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]model.Member, 0, len(r.order))
	for _, id := range r.order {
		members = append(members, cloneMember(r.members[id]))
	}
	sortByCreatedAt(members)
	return members, nil
}

func (r *memoryMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	m = cloneMember(m)
	return &m, nil
}

func (r *memoryMemberRepository) Update(ctx context.Context, id string, patch model.MemberPatch, now time.Time) (*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.members[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	merged, changed := model.ApplyPatch(existing, patch, now)
	if len(changed) == 0 {
		return nil, common.ErrNoChange
	}
	r.members[id] = cloneMember(merged)
	return &merged, nil
}

func (r *memoryMemberRepository) DeleteByID(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[id]; !ok {
		return "", common.ErrNotFound
	}
	delete(r.members, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return id, nil
}

func (r *memoryMemberRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *memoryMemberRepository) Close(ctx context.Context) error {
	return nil
}

// cloneMember copies the optional string fields so callers cannot alias
// stored state.
func cloneMember(m model.Member) model.Member {
	if m.Photo != nil {
		v := *m.Photo
		m.Photo = &v
	}
	if m.Description != nil {
		v := *m.Description
		m.Description = &v
	}
	return m
}
