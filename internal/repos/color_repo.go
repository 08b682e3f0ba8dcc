package repos

import (
	"context"

	"storeadmin/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ColorRepo struct{ db *sqlx.DB }

func NewColorRepo(db *sqlx.DB) *ColorRepo { return &ColorRepo{db: db} }

func (r *ColorRepo) List(ctx context.Context, storeID string) ([]domain.Color, error) {
	out := []domain.Color{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT id, store_id, name, value, created_at, updated_at
		FROM colors
		WHERE store_id = ?
		ORDER BY created_at DESC, id`), storeID)
	return out, err
}

func (r *ColorRepo) Get(ctx context.Context, storeID, id string) (*domain.Color, error) {
	var col domain.Color
	err := r.db.GetContext(ctx, &col, r.db.Rebind(`
		SELECT id, store_id, name, value, created_at, updated_at
		FROM colors
		WHERE id = ? AND store_id = ?`), id, storeID)
	if err != nil {
		return nil, one(err)
	}
	return &col, nil
}

func (r *ColorRepo) Create(ctx context.Context, storeID, name, value string) (*domain.Color, error) {
	ts := now()
	col := &domain.Color{ID: uuid.NewString(), StoreID: storeID, Name: name, Value: value, CreatedAt: ts, UpdatedAt: ts}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO colors(id, store_id, name, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`), col.ID, col.StoreID, col.Name, col.Value, col.CreatedAt, col.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return col, nil
}

// Update returns the number of rows changed; 0 means no such color in the store.
func (r *ColorRepo) Update(ctx context.Context, storeID, id, name, value string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE colors SET name = ?, value = ?, updated_at = ?
		WHERE id = ? AND store_id = ?`), name, value, now(), id, storeID))
}

func (r *ColorRepo) Delete(ctx context.Context, storeID, id string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM colors WHERE id = ? AND store_id = ?`), id, storeID))
}
