package repos

import (
	"context"

	"storeadmin/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BillboardRepo struct{ db *sqlx.DB }

func NewBillboardRepo(db *sqlx.DB) *BillboardRepo { return &BillboardRepo{db: db} }

func (r *BillboardRepo) List(ctx context.Context, storeID string) ([]domain.Billboard, error) {
	out := []domain.Billboard{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT id, store_id, label, image_url, created_at, updated_at
		FROM billboards
		WHERE store_id = ?
		ORDER BY created_at DESC, id`), storeID)
	return out, err
}

func (r *BillboardRepo) Get(ctx context.Context, storeID, id string) (*domain.Billboard, error) {
	var b domain.Billboard
	err := r.db.GetContext(ctx, &b, r.db.Rebind(`
		SELECT id, store_id, label, image_url, created_at, updated_at
		FROM billboards
		WHERE id = ? AND store_id = ?`), id, storeID)
	if err != nil {
		return nil, one(err)
	}
	return &b, nil
}

func (r *BillboardRepo) Create(ctx context.Context, storeID, label, imageURL string) (*domain.Billboard, error) {
	ts := now()
	b := &domain.Billboard{ID: uuid.NewString(), StoreID: storeID, Label: label, ImageURL: imageURL, CreatedAt: ts, UpdatedAt: ts}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO billboards(id, store_id, label, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`), b.ID, b.StoreID, b.Label, b.ImageURL, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BillboardRepo) Update(ctx context.Context, storeID, id, label, imageURL string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE billboards SET label = ?, image_url = ?, updated_at = ?
		WHERE id = ? AND store_id = ?`), label, imageURL, now(), id, storeID))
}

func (r *BillboardRepo) Delete(ctx context.Context, storeID, id string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM billboards WHERE id = ? AND store_id = ?`), id, storeID))
}
