package handlers

import (
	"storeadmin/internal/config"
	"storeadmin/internal/repos"
	"storeadmin/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Stores *services.StoreService
	Auth   *services.AuthService

	AuthHandler      *AuthHandler
	StoreHandler     *StoreHandler
	BillboardHandler *BillboardHandler
	CategoryHandler  *CategoryHandler
	ColorHandler     *ColorHandler
	SizeHandler      *SizeHandler
	ProductHandler   *ProductHandler
	Dashboard        *DashboardHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	storeRepo := repos.NewStoreRepo(db)
	billboardRepo := repos.NewBillboardRepo(db)
	categoryRepo := repos.NewCategoryRepo(db)
	colorRepo := repos.NewColorRepo(db)
	sizeRepo := repos.NewSizeRepo(db)
	productRepo := repos.NewProductRepo(db)

	storeSvc := services.NewStoreService(storeRepo)

	return &Deps{
		Stores: storeSvc,
		Auth:   auth,

		AuthHandler:      &AuthHandler{Auth: auth, SecureCookie: cfg.CookieSecure},
		StoreHandler:     &StoreHandler{Stores: storeSvc},
		BillboardHandler: &BillboardHandler{Billboards: billboardRepo, Stores: storeSvc},
		CategoryHandler:  &CategoryHandler{Categories: categoryRepo, Stores: storeSvc},
		ColorHandler:     &ColorHandler{Colors: colorRepo, Stores: storeSvc},
		SizeHandler:      &SizeHandler{Sizes: sizeRepo, Stores: storeSvc},
		ProductHandler:   &ProductHandler{Products: productRepo, Stores: storeSvc},
		Dashboard: &DashboardHandler{
			Stores:        storeSvc,
			BillboardRepo: billboardRepo,
			CategoryRepo:  categoryRepo,
			ColorRepo:     colorRepo,
			SizeRepo:      sizeRepo,
			ProductRepo:   productRepo,
		},
	}
}
