package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dsc_team/internal/common"
	"dsc_team/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgMemberRepository keeps each member as a JSONB document. seq only breaks
// created_at ties and is never exposed.
type pgMemberRepository struct {
	db    *sql.DB
	table string
}

func NewPgMemberRepository(db *sql.DB, table string) MemberRepository {
	return &pgMemberRepository{db: db, table: pgx.Identifier{table}.Sanitize()}
}

// EnsurePgSchema creates the document table when it does not exist yet.
func EnsurePgSchema(ctx context.Context, db *sql.DB, table string) error {
	ident := pgx.Identifier{table}.Sanitize()
	index := pgx.Identifier{table + "_created_at_idx"}.Sanitize()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + ident + ` (
			seq        BIGSERIAL,
			id         TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ` + index + ` ON ` + ident + ` (created_at, seq)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return common.StoreError("EnsurePgSchema", err)
		}
	}
	return nil
}

func (r *pgMemberRepository) Insert(ctx context.Context, member *model.Member) error {
	doc, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("pgMemberRepository.Insert: encode: %w", err)
	}

	query := `INSERT INTO ` + r.table + ` (id, doc, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, member.ID, doc, member.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("pgMemberRepository.Insert: member %s: %w", member.ID, common.ErrConflict)
		}
		return common.StoreError("pgMemberRepository.Insert", err)
	}
	return nil
}

func (r *pgMemberRepository) ListAll(ctx context.Context) ([]model.Member, error) {
	query := `SELECT doc FROM ` + r.table + ` ORDER BY created_at ASC, seq ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.StoreError("pgMemberRepository.ListAll", err)
	}
	defer rows.Close()

	members := make([]model.Member, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, common.StoreError("pgMemberRepository.ListAll", err)
		}
		var m model.Member
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("pgMemberRepository.ListAll: decode: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError("pgMemberRepository.ListAll", err)
	}
	return members, nil
}

func (r *pgMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	query := `SELECT doc FROM ` + r.table + ` WHERE id = $1`
	var doc []byte
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.StoreError("pgMemberRepository.FindByID", err)
	}

	m := &model.Member{}
	if err := json.Unmarshal(doc, m); err != nil {
		return nil, fmt.Errorf("pgMemberRepository.FindByID: decode: %w", err)
	}
	return m, nil
}

func (r *pgMemberRepository) Update(ctx context.Context, id string, patch model.MemberPatch, now time.Time) (*model.Member, error) {
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
		return nil, fmt.Errorf("pgMemberRepository.Update: encode: %w", err)
	}

	query := `UPDATE ` + r.table + ` SET doc = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, doc)
	if err != nil {
		return nil, common.StoreError("pgMemberRepository.Update", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, common.StoreError("pgMemberRepository.Update", err)
	} else if n == 0 {
		return nil, common.ErrNotFound
	}
	return &merged, nil
}

func (r *pgMemberRepository) DeleteByID(ctx context.Context, id string) (string, error) {
	query := `DELETE FROM ` + r.table + ` WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return "", common.StoreError("pgMemberRepository.DeleteByID", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", common.StoreError("pgMemberRepository.DeleteByID", err)
	}
	if n == 0 {
		return "", common.ErrNotFound
	}
	return id, nil
}

func (r *pgMemberRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *pgMemberRepository) Close(ctx context.Context) error {
	return r.db.Close()
}
