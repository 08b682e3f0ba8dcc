package repos

import (
	"context"
	"encoding/json"
	"fmt"

	"storeadmin/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, store_id, category_id, color_id, size_id, name, price, is_featured, is_archived,
    images_json, created_at, updated_at`

// List returns the non-archived products of a store, newest first.
func (r *ProductRepo) List(ctx context.Context, storeID string, f domain.ProductFilter) ([]domain.Product, error) {
	where := `store_id = ? AND is_archived = FALSE`
	args := []any{storeID}
	if f.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.ColorID != "" {
		where += ` AND color_id = ?`
		args = append(args, f.ColorID)
	}
	if f.SizeID != "" {
		where += ` AND size_id = ?`
		args = append(args, f.SizeID)
	}
	if f.FeaturedOnly {
		where += ` AND is_featured = TRUE`
	}

	out := []domain.Product{}
	q := `SELECT` + productCols + ` FROM products WHERE ` + where + ` ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for i := range out {
		if err := decodeImages(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListAll returns every product of a store, archived ones included, for the dashboard.
func (r *ProductRepo) ListAll(ctx context.Context, storeID string) ([]domain.Product, error) {
	out := []domain.Product{}
	q := `SELECT` + productCols + ` FROM products WHERE store_id = ? ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), storeID); err != nil {
		return nil, err
	}
	for i := range out {
		if err := decodeImages(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, storeID, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT`+productCols+` FROM products WHERE id = ? AND store_id = ?`), id, storeID)
	if err != nil {
		return nil, one(err)
	}
	if err := decodeImages(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func productRefs(p *domain.Product) []ref {
	return []ref{{"categories", p.CategoryID}, {"colors", p.ColorID}, {"sizes", p.SizeID}}
}

// Create inserts p, assigning its id and timestamps. The category, color and
// size must belong to p.StoreID, otherwise ErrForeignRef is returned.
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	images, err := encodeImages(p.Images)
	if err != nil {
		return err
	}
	ts := now()
	p.ID, p.CreatedAt, p.UpdatedAt, p.ImagesJSON = uuid.NewString(), ts, ts, images
	clause, refArgs := inStoreClause(p.StoreID, productRefs(p)...)
	args := append([]any{
		p.ID, p.StoreID, p.CategoryID, p.ColorID, p.SizeID, p.Name, p.Price, p.IsFeatured, p.IsArchived,
		p.ImagesJSON, p.CreatedAt, p.UpdatedAt,
	}, refArgs...)
	n, err := affected(r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO products(
		  id, store_id, category_id, color_id, size_id, name, price, is_featured, is_archived,
		  images_json, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, CAST(? AS NUMERIC), CAST(? AS BOOLEAN), CAST(? AS BOOLEAN), ?, ?, ?
		WHERE `+clause), args...))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrForeignRef
	}
	return nil
}

// Update overwrites every mutable column of the product identified by p.ID within p.StoreID.
// It returns ErrForeignRef when the category, color or size is not part of the store.
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) (int64, error) {
	images, err := encodeImages(p.Images)
	if err != nil {
		return 0, err
	}
	refs := productRefs(p)
	clause, refArgs := inStoreClause(p.StoreID, refs...)
	args := append([]any{
		p.CategoryID, p.ColorID, p.SizeID, p.Name, p.Price,
		p.IsFeatured, p.IsArchived, images, now(), p.ID, p.StoreID,
	}, refArgs...)
	n, err := affected(r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products SET
		  category_id = ?, color_id = ?, size_id = ?, name = ?, price = ?,
		  is_featured = ?, is_archived = ?, images_json = ?, updated_at = ?
		WHERE id = ? AND store_id = ? AND `+clause), args...))
	return guarded(ctx, r.db, p.StoreID, n, err, refs...)
}

func (r *ProductRepo) Delete(ctx context.Context, storeID, id string) (int64, error) {
	return affected(r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ? AND store_id = ?`), id, storeID))
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("encode images: %w", err)
	}
	return string(b), nil
}

func decodeImages(p *domain.Product) error {
	p.Images = []string{}
	if p.ImagesJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(p.ImagesJSON), &p.Images); err != nil {
		return fmt.Errorf("decode images of %s: %w", p.ID, err)
	}
	return nil
}
