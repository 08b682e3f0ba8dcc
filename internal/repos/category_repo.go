package repos

import (
	"context"

	"storeadmin/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context, storeID string) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT id, store_id, billboard_id, name, created_at, updated_at
		FROM categories
		WHERE store_id = ?
		ORDER BY name`), storeID)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, storeID, id string) (*domain.Category, error) {
	var cat domain.Category
	err := r.db.GetContext(ctx, &cat, r.db.Rebind(`
		SELECT id, store_id, billboard_id, name, created_at, updated_at
		FROM categories
		WHERE id = ? AND store_id = ?`), id, storeID)
	if err != nil {
		return nil, one(err)
	}
	return &cat, nil
}

// Create inserts the category only when billboardID belongs to storeID and
// returns ErrForeignRef otherwise.
func (r *CategoryRepo) Create(ctx context.Context, storeID, billboardID, name string) (*domain.Category, error) {
	ts := now()
	cat := &domain.Category{ID: uuid.NewString(), StoreID: storeID, BillboardID: billboardID, Name: name, CreatedAt: ts, UpdatedAt: ts}
	clause, refArgs := inStoreClause(storeID, ref{"billboards", billboardID})
	args := append([]any{cat.ID, cat.StoreID, cat.BillboardID, cat.Name, cat.CreatedAt, cat.UpdatedAt}, refArgs...)
	n, err := affected(r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO categories(id, store_id, billboard_id, name, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE `+clause), args...))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrForeignRef
	}
	return cat, nil
}

// Update returns ErrForeignRef when billboardID is not part of storeID.
func (r *CategoryRepo) Update(ctx context.Context, storeID, id, billboardID, name string) (int64, error) {
	bb := ref{"billboards", billboardID}
	clause, refArgs := inStoreClause(storeID, bb)
	args := append([]any{billboardID, name, now(), id, storeID}, refArgs...)
	n, err := affected(r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE categories SET billboard_id = ?, name = ?, updated_at = ?
		WHERE id = ? AND store_id = ? AND `+clause), args...))
	return guarded(ctx, r.db, storeID, n, err, bb)
}

func (r *CategoryRepo) Delete(ctx context.Context, storeID, id string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM categories WHERE id = ? AND store_id = ?`), id, storeID))
}
