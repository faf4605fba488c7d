package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dsc_team/internal/common"
	"dsc_team/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// The driver's _id never leaves the repository.
var hideObjectID = bson.D{{Key: "_id", Value: 0}}

// mongoMemberRepository creates its indexes on the first insert that finds
// the server reachable, so the process can start while Mongo is down.
type mongoMemberRepository struct {
	coll *mongo.Collection

	indexMu sync.Mutex
	indexed bool
}

func NewMongoMemberRepository(coll *mongo.Collection) MemberRepository {
	return &mongoMemberRepository{coll: coll}
}

// EnsureMongoIndexes creates the unique id index and the listing index.
func EnsureMongoIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_id"),
		},
		{
			Keys:    bson.D{{Key: model.FieldCreatedAt, Value: 1}},
			Options: options.Index().SetName("created_at_asc"),
		},
	})
	if err != nil {
		return common.StoreError("EnsureMongoIndexes", err)
	}
	return nil
}

func (r *mongoMemberRepository) ensureIndexes(ctx context.Context) error {
	r.indexMu.Lock()
	defer r.indexMu.Unlock()

	if r.indexed {
		return nil
	}
	if err := EnsureMongoIndexes(ctx, r.coll); err != nil {
		return err
	}
	r.indexed = true
	return nil
}

func byID(id string) bson.D {
	return bson.D{{Key: "id", Value: id}}
}

func (r *mongoMemberRepository) Insert(ctx context.Context, member *model.Member) error {
	if err := r.ensureIndexes(ctx); err != nil {
		return fmt.Errorf("mongoMemberRepository.Insert: %w", err)
	}
	if _, err := r.coll.InsertOne(ctx, member); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("mongoMemberRepository.Insert: member %s: %w", member.ID, common.ErrConflict)
		}
		return common.StoreError("mongoMemberRepository.Insert", err)
	}
	return nil
}

func (r *mongoMemberRepository) ListAll(ctx context.Context) ([]model.Member, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: model.FieldCreatedAt, Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(hideObjectID)

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, common.StoreError("mongoMemberRepository.ListAll", err)
	}
	defer cur.Close(ctx)

	members := make([]model.Member, 0)
	if err := cur.All(ctx, &members); err != nil {
		return nil, common.StoreError("mongoMemberRepository.ListAll", err)
	}
	return members, nil
}

func (r *mongoMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	member := &model.Member{}
	err := r.coll.FindOne(ctx, byID(id), options.FindOne().SetProjection(hideObjectID)).Decode(member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, common.StoreError("mongoMemberRepository.FindByID", err)
	}
	return member, nil
}

func (r *mongoMemberRepository) Update(ctx context.Context, id string, patch model.MemberPatch, now time.Time) (*model.Member, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged, changed := model.ApplyPatch(*existing, patch, now)
	if len(changed) == 0 {
		return nil, common.ErrNoChange
	}

	set := bson.M(model.SetFields(merged, changed))
	res, err := r.coll.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, common.StoreError("mongoMemberRepository.Update", err)
	}
	if res.MatchedCount == 0 {
		// Deleted between the read and the write.
		return nil, common.ErrNotFound
	}
	return &merged, nil
}

func (r *mongoMemberRepository) DeleteByID(ctx context.Context, id string) (string, error) {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return "", common.StoreError("mongoMemberRepository.DeleteByID", err)
	}
	if res.DeletedCount == 0 {
		return "", common.ErrNotFound
	}
	return id, nil
}

func (r *mongoMemberRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *mongoMemberRepository) Close(ctx context.Context) error {
	return r.coll.Database().Client().Disconnect(ctx)
}
