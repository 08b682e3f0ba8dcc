package repos

import (
	"context"

	"storeadmin/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SizeRepo struct{ db *sqlx.DB }

func NewSizeRepo(db *sqlx.DB) *SizeRepo { return &SizeRepo{db: db} }

func (r *SizeRepo) List(ctx context.Context, storeID string) ([]domain.Size, error) {
	out := []domain.Size{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT id, store_id, name, value, created_at, updated_at
		FROM sizes
		WHERE store_id = ?
		ORDER BY created_at DESC, id`), storeID)
	return out, err
}

func (r *SizeRepo) Get(ctx context.Context, storeID, id string) (*domain.Size, error) {
	var sz domain.Size
	err := r.db.GetContext(ctx, &sz, r.db.Rebind(`
		SELECT id, store_id, name, value, created_at, updated_at
		FROM sizes
		WHERE id = ? AND store_id = ?`), id, storeID)
	if err != nil {
		return nil, one(err)
	}
	return &sz, nil
}

func (r *SizeRepo) Create(ctx context.Context, storeID, name, value string) (*domain.Size, error) {
	ts := now()
	sz := &domain.Size{ID: uuid.NewString(), StoreID: storeID, Name: name, Value: value, CreatedAt: ts, UpdatedAt: ts}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO sizes(id, store_id, name, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`), sz.ID, sz.StoreID, sz.Name, sz.Value, sz.CreatedAt, sz.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return sz, nil
}

func (r *SizeRepo) Update(ctx context.Context, storeID, id, name, value string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE sizes SET name = ?, value = ?, updated_at = ?
		WHERE id = ? AND store_id = ?`), name, value, now(), id, storeID))
}

func (r *SizeRepo) Delete(ctx context.Context, storeID, id string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sizes WHERE id = ? AND store_id = ?`), id, storeID))
}
