package domain

// Store is the tenant every other catalog entity hangs off.
type Store struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	UserID    string `db:"user_id" json:"userId"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

type Billboard struct {
	ID        string `db:"id" json:"id"`
	StoreID   string `db:"store_id" json:"storeId"`
	Label     string `db:"label" json:"label"`
	ImageURL  string `db:"image_url" json:"imageUrl"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

type Category struct {
	ID          string `db:"id" json:"id"`
	StoreID     string `db:"store_id" json:"storeId"`
	BillboardID string `db:"billboard_id" json:"billboardId"`
	Name        string `db:"name" json:"name"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
	UpdatedAt   string `db:"updated_at" json:"updatedAt"`
}

type Color struct {
	ID        string `db:"id" json:"id"`
	StoreID   string `db:"store_id" json:"storeId"`
	Name      string `db:"name" json:"name"`
	Value     string `db:"value" json:"value"` // #RRGGBB or #RGB
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

type Size struct {
	ID        string `db:"id" json:"id"`
	StoreID   string `db:"store_id" json:"storeId"`
	Name      string `db:"name" json:"name"`
	Value     string `db:"value" json:"value"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

type Product struct {
	ID         string   `db:"id" json:"id"`
	StoreID    string   `db:"store_id" json:"storeId"`
	CategoryID string   `db:"category_id" json:"categoryId"`
	ColorID    string   `db:"color_id" json:"colorId"`
	SizeID     string   `db:"size_id" json:"sizeId"`
	Name       string   `db:"name" json:"name"`
	Price      float64  `db:"price" json:"price"`
	IsFeatured bool     `db:"is_featured" json:"isFeatured"`
	IsArchived bool     `db:"is_archived" json:"isArchived"`
	ImagesJSON string   `db:"images_json" json:"-"`
	Images     []string `db:"-" json:"images"`
	CreatedAt  string   `db:"created_at" json:"createdAt"`
	UpdatedAt  string   `db:"updated_at" json:"updatedAt"`
}

// ProductFilter narrows the public product listing. Empty fields match everything.
type ProductFilter struct {
	CategoryID   string
	ColorID      string
	SizeID       string
	FeaturedOnly bool
}

// Count is the body returned by PATCH and DELETE handlers.
type Count struct {
	Count int64 `json:"count"`
}

// StoreOverview feeds the dashboard landing page.
type StoreOverview struct {
	Billboards int `db:"billboards"`
	Categories int `db:"categories"`
	Colors     int `db:"colors"`
	Sizes      int `db:"sizes"`
	Products   int `db:"products"`
}
