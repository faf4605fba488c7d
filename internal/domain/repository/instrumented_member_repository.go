package repository

import (
	"context"
	"time"

	"dsc_team/internal/domain/model"
)

// StoreObserver receives the outcome and latency of every store call.
type StoreObserver interface {
	ObserveStoreOp(driver, op string, elapsed time.Duration, err error)
}

type instrumentedMemberRepository struct {
	next     MemberRepository
	driver   string
	observer StoreObserver
}

// NewInstrumentedMemberRepository wraps next so each call is reported to observer.
func NewInstrumentedMemberRepository(next MemberRepository, driver string, observer StoreObserver) MemberRepository {
	return &instrumentedMemberRepository{next: next, driver: driver, observer: observer}
}

func (r *instrumentedMemberRepository) observe(op string, start time.Time, err error) {
	r.observer.ObserveStoreOp(r.driver, op, time.Since(start), err)
}

func (r *instrumentedMemberRepository) Insert(ctx context.Context, member *model.Member) error {
	start := time.Now()
	err := r.next.Insert(ctx, member)
	r.observe("insert", start, err)
	return err
}

func (r *instrumentedMemberRepository) ListAll(ctx context.Context) ([]model.Member, error) {
	start := time.Now()
	members, err := r.next.ListAll(ctx)
	r.observe("list_all", start, err)
	return members, err
}

func (r *instrumentedMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	start := time.Now()
	m, err := r.next.FindByID(ctx, id)
	r.observe("find_by_id", start, err)
	return m, err
}

func (r *instrumentedMemberRepository) Update(ctx context.Context, id string, patch model.MemberPatch, now time.Time) (*model.Member, error) {
	start := time.Now()
	m, err := r.next.Update(ctx, id, patch, now)
	r.observe("update", start, err)
	return m, err
}

func (r *instrumentedMemberRepository) DeleteByID(ctx context.Context, id string) (string, error) {
	start := time.Now()
	deleted, err := r.next.DeleteByID(ctx, id)
	r.observe("delete", start, err)
	return deleted, err
}

func (r *instrumentedMemberRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.next.Ping(ctx)
	r.observe("ping", start, err)
	return err
}

func (r *instrumentedMemberRepository) Close(ctx context.Context) error {
	return r.next.Close(ctx)
}
