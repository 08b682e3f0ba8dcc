package repos

import (
	"context"

	"storeadmin/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StoreRepo struct{ db *sqlx.DB }

func NewStoreRepo(db *sqlx.DB) *StoreRepo { return &StoreRepo{db: db} }

const storeCols = `id, name, user_id, created_at, updated_at`

func (r *StoreRepo) Create(ctx context.Context, userID, name string) (*domain.Store, error) {
	ts := now()
	s := &domain.Store{ID: uuid.NewString(), Name: name, UserID: userID, CreatedAt: ts, UpdatedAt: ts}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO stores(id, name, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`), s.ID, s.Name, s.UserID, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StoreRepo) Get(ctx context.Context, id string) (*domain.Store, error) {
	var s domain.Store
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`SELECT `+storeCols+` FROM stores WHERE id = ?`), id)
	if err != nil {
		return nil, one(err)
	}
	return &s, nil
}

// OwnedBy returns the store only when userID owns it.
func (r *StoreRepo) OwnedBy(ctx context.Context, id, userID string) (*domain.Store, error) {
	var s domain.Store
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`
		SELECT `+storeCols+` FROM stores
		WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return nil, one(err)
	}
	return &s, nil
}

// FirstByUser returns the oldest store of userID.
func (r *StoreRepo) FirstByUser(ctx context.Context, userID string) (*domain.Store, error) {
	var s domain.Store
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`
		SELECT `+storeCols+` FROM stores
		WHERE user_id = ?
		ORDER BY created_at, id
		LIMIT 1`), userID)
	if err != nil {
		return nil, one(err)
	}
	return &s, nil
}

func (r *StoreRepo) ListByUser(ctx context.Context, userID string) ([]domain.Store, error) {
	out := []domain.Store{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT `+storeCols+` FROM stores
		WHERE user_id = ?
		ORDER BY created_at, id`), userID)
	return out, err
}

func (r *StoreRepo) Rename(ctx context.Context, id, userID, name string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE stores SET name = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`), name, now(), id, userID))
}

func (r *StoreRepo) Delete(ctx context.Context, id, userID string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM stores WHERE id = ? AND user_id = ?`), id, userID))
}

func (r *StoreRepo) Overview(ctx context.Context, id string) (domain.StoreOverview, error) {
	var o domain.StoreOverview
	err := r.db.GetContext(ctx, &o, r.db.Rebind(`
		SELECT
		  (SELECT COUNT(*) FROM billboards WHERE store_id = ?) AS billboards,
		  (SELECT COUNT(*) FROM categories WHERE store_id = ?) AS categories,
		  (SELECT COUNT(*) FROM colors     WHERE store_id = ?) AS colors,
		  (SELECT COUNT(*) FROM sizes      WHERE store_id = ?) AS sizes,
		  (SELECT COUNT(*) FROM products   WHERE store_id = ? AND is_archived = FALSE) AS products`),
		id, id, id, id, id)
	return o, err
}
