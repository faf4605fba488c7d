package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dsc_team/internal/common"
	"dsc_team/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// redisMemberRepository stores each member as a JSON string and keeps
// insertion order in a sorted set scored by a counter.
type redisMemberRepository struct {
	rdb       *redis.Client
	namespace string
}

func NewRedisMemberRepository(rdb *redis.Client, namespace string) MemberRepository {
	return &redisMemberRepository{rdb: rdb, namespace: namespace}
}

func (r *redisMemberRepository) memberKey(id string) string {
	return r.namespace + ":member:" + id
}

func (r *redisMemberRepository) orderKey() string {
	return r.namespace + ":members"
}

func (r *redisMemberRepository) seqKey() string {
	return r.namespace + ":seq"
}

// insertScript writes a member only if its key is free. The counter and
// order entry are written before the document, so a failed INCR or ZADD
// leaves no document behind.
var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
local seq = redis.call('INCR', KEYS[2])
redis.call('ZADD', KEYS[3], seq, ARGV[2])
redis.call('SET', KEYS[1], ARGV[1])
return 1
`)

func (r *redisMemberRepository) Insert(ctx context.Context, member *model.Member) error {
	doc, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("redisMemberRepository.Insert: encode: %w", err)
	}

	keys := []string{r.memberKey(member.ID), r.seqKey(), r.orderKey()}
	inserted, err := insertScript.Run(ctx, r.rdb, keys, doc, member.ID).Int()
	if err != nil {
		return common.StoreError("redisMemberRepository.Insert", err)
	}
	if inserted == 0 {
		return fmt.Errorf("redisMemberRepository.Insert: member %s: %w", member.ID, common.ErrConflict)
	}
	return nil
}

func (r *redisMemberRepository) ListAll(ctx context.Context) ([]model.Member, error) {
	ids, err := r.rdb.ZRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, common.StoreError("redisMemberRepository.ListAll", err)
	}

	members := make([]model.Member, 0, len(ids))
	if len(ids) == 0 {
		return members, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.memberKey(id)
	}
	docs, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, common.StoreError("redisMemberRepository.ListAll", err)
	}

	for _, raw := range docs {
		doc, ok := raw.(string)
		if !ok {
			continue // removed after ZRANGE
		}
		var m model.Member
		if err := json.Unmarshal([]byte(doc), &m); err != nil {
			return nil, fmt.Errorf("redisMemberRepository.ListAll: decode: %w", err)
		}
		members = append(members, m)
	}
	sortByCreatedAt(members)
	return members, nil
}

func (r *redisMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	doc, err := r.rdb.Get(ctx, r.memberKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, common.StoreError("redisMemberRepository.FindByID", err)
	}

	m := &model.Member{}
	if err := json.Unmarshal(doc, m); err != nil {
		return nil, fmt.Errorf("redisMemberRepository.FindByID: decode: %w", err)
	}
	return m, nil
}

func (r *redisMemberRepository) Update(ctx context.Context, id string, patch model.MemberPatch, now time.Time) (*model.Member, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged, changed := model.ApplyPatch(*existing, patch, now)
	if len(changed) == 0 {
		return nil, common.ErrNoChange
	}

	doc, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("redisMemberRepository.Update: encode: %w", err)
	}
	ok, err := r.rdb.SetXX(ctx, r.memberKey(id), doc, 0).Result()
	if err != nil {
		return nil, common.StoreError("redisMemberRepository.Update", err)
	}
	if !ok {
		return nil, common.ErrNotFound
	}
	return &merged, nil
}

func (r *redisMemberRepository) DeleteByID(ctx context.Context, id string) (string, error) {
	var del *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.memberKey(id))
		pipe.ZRem(ctx, r.orderKey(), id)
		return nil
	})
	if err != nil {
		return "", common.StoreError("redisMemberRepository.DeleteByID", err)
	}
	if del.Val() == 0 {
		return "", common.ErrNotFound
	}
	return id, nil
}

func (r *redisMemberRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *redisMemberRepository) Close(ctx context.Context) error {
	return r.rdb.Close()
}
