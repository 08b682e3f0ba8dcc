package http_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "storeadmin/internal/http"
	"storeadmin/internal/repos"
)

func TestDashboardRequiresSession(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	resp, _ := e.page(t, "/"+e.store.ID+"/billboards", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/sign-in", resp.Header.Get("Location"))
}

func TestDashboardForbidsOtherOwners(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	logs := observeLogs(t)

	resp, body := e.page(t, "/"+e.store.ID+"/billboards", e.bob)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Acesso negado")
	assert.Len(t, logs.FilterMessage("access.denied.store").All(), 1)
}

func TestSetupRedirectsToFirstStore(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})

	resp, _ := e.page(t, "/", e.alice)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/"+e.store.ID, resp.Header.Get("Location"))

	resp, body := e.page(t, "/", e.bob)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Criar loja")
}

func TestSetupCreatesStore(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})

	resp, body := e.form(t, "/", "/", e.bob, url.Values{"name": {"  "}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Campo obrigatório")
	assert.Equal(t, 1, countRows(t, e.db, "stores"))

	resp, _ = e.form(t, "/", "/", e.bob, url.Values{"name": {"Loja do Bob"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	st, err := repos.NewStoreRepo(e.db).FirstByUser(context.Background(), "u-bob")
	require.NoError(t, err)
	assert.Equal(t, "/"+st.ID, resp.Header.Get("Location"))
	assert.Equal(t, "store.created", cookie(resp, "toast"))
}

func TestBillboardFormInvalidDoesNotWrite(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	formPath := "/" + e.store.ID + "/billboards/new"

	resp, body := e.form(t, formPath, formPath, e.alice, url.Values{
		"label":    {""},
		"imageUrl": {"https://img.test/a.png"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Campo obrigatório")
	assert.Contains(t, body, "Criar Painel")
	assert.Equal(t, 0, countRows(t, e.db, "billboards"))

	resp, body = e.form(t, formPath, formPath, e.alice, url.Values{
		"label":    {"Verão"},
		"imageUrl": {"not a url"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Informe uma URL válida")
	assert.Equal(t, 0, countRows(t, e.db, "billboards"))
}

func TestBillboardFormCreateEditDelete(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	listPath := "/" + e.store.ID + "/billboards"
	newPath := listPath + "/new"

	resp, _ := e.form(t, newPath, newPath, e.alice, url.Values{
		"label":    {"Verão"},
		"imageUrl": {"https://img.test/verao.png"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, listPath, resp.Header.Get("Location"))
	assert.Equal(t, "billboard.created", cookie(resp, "toast"))

	list, err := repos.NewBillboardRepo(e.db).List(context.Background(), e.store.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	b := list[0]
	editPath := listPath + "/" + b.ID

	resp, body := e.page(t, editPath, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Editar Painel")
	assert.Contains(t, body, "Verão")

	resp, _ = e.form(t, editPath, editPath, e.alice, url.Values{
		"label":    {"Inverno"},
		"imageUrl": {"https://img.test/inverno.png"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "billboard.updated", cookie(resp, "toast"))

	resp, body = e.page(t, listPath, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Inverno")
	assert.Contains(t, body, " de ")

	// without the confirmation field nothing is deleted
	resp, _ = e.form(t, editPath, editPath+"/delete", e.alice, url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 1, countRows(t, e.db, "billboards"))

	resp, _ = e.form(t, editPath, editPath+"/delete", e.alice, url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, listPath, resp.Header.Get("Location"))
	assert.Equal(t, "billboard.deleted", cookie(resp, "toast"))
	assert.Equal(t, 0, countRows(t, e.db, "billboards"))
}

func TestBillboardDeleteInUseShowsToast(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	ctx := context.Background()
	b, err := repos.NewBillboardRepo(e.db).Create(ctx, e.store.ID, "Verão", "https://img.test/verao.png")
	require.NoError(t, err)
	_, err = repos.NewCategoryRepo(e.db).Create(ctx, e.store.ID, b.ID, "Camisetas")
	require.NoError(t, err)

	editPath := "/" + e.store.ID + "/billboards/" + b.ID
	resp, _ := e.form(t, editPath, editPath+"/delete", e.alice, url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, editPath, resp.Header.Get("Location"))
	assert.Equal(t, "billboard.in_use", cookie(resp, "toast"))
	assert.Equal(t, 1, countRows(t, e.db, "billboards"))
}

func TestToastIsShownOnce(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	req := newPageRequest(t, "/"+e.store.ID+"/billboards", e.alice)
	req.AddCookie(&http.Cookie{Name: "toast", Value: "billboard.deleted"})
	resp, body := e.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Painel deletado!")

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == "toast" && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "toast cookie should be expired after rendering")
}

func TestColorFormFlow(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	editPath := "/" + e.store.ID + "/colors/" + e.color.ID

	resp, body := e.form(t, editPath, editPath, e.alice, url.Values{"name": {"Red"}, "value": {"vermelho"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Informe uma cor hexadecimal válida")

	resp, _ = e.form(t, editPath, editPath, e.alice, url.Values{"name": {"Red"}, "value": {"#FF0000"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "color.updated", cookie(resp, "toast"))

	col, err := repos.NewColorRepo(e.db).Get(context.Background(), e.store.ID, e.color.ID)
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", col.Value)

	resp, body = e.page(t, "/"+e.store.ID+"/colors", e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Cores (1)")
}

func TestOverviewCounts(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	resp, body := e.page(t, "/"+e.store.ID, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Loja da Alice")
	assert.Contains(t, body, "Visão geral")
}

func TestFormPostWithoutCSRFIsRejected(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	logs := observeLogs(t)

	req := newFormRequest(t, "/"+e.store.ID+"/billboards/new", url.Values{"label": {"x"}, "imageUrl": {"https://img.test/x.png"}})
	req.AddCookie(&http.Cookie{Name: "__session", Value: e.alice})
	resp, _ := e.do(t, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, logs.FilterMessage("csrf.fail").All(), 1)
	assert.Equal(t, 0, countRows(t, e.db, "billboards"))
}

func TestDashboardAppliesAPIColorRule(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	newPath := "/" + e.store.ID + "/colors/new"

	for _, v := range []string{"#FF000080", "#F008"} {
		resp, body := e.form(t, newPath, newPath, e.alice, url.Values{"name": {"Vermelho"}, "value": {v}})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, v)
		assert.Contains(t, body, "Informe uma cor hexadecimal válida")

		resp, body = e.api(t, http.MethodPost, "/api/"+e.store.ID+"/colors", e.alice, map[string]string{"name": "Vermelho", "value": v})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, v)
		assert.Equal(t, "Value must be a hex color", body)
	}
	assert.Equal(t, 1, countRows(t, e.db, "colors"))

	resp, _ := e.form(t, newPath, newPath, e.alice, url.Values{"name": {"Vermelho"}, "value": {"#F00"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 2, countRows(t, e.db, "colors"))
}

func TestDashboardAppliesAPIImageRule(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	newPath := "/" + e.store.ID + "/billboards/new"

	resp, body := e.form(t, newPath, newPath, e.alice, url.Values{"label": {"Verão"}, "imageUrl": {"javascript:alert(1)"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Informe uma URL válida")

	resp, body = e.api(t, http.MethodPost, "/api/"+e.store.ID+"/billboards", e.alice, map[string]string{"label": "Verão", "imageUrl": "javascript:alert(1)"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Image URL must be an http(s) URL", body)

	assert.Equal(t, 0, countRows(t, e.db, "billboards"))
}

func TestDashboardBadItemIDIs404(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	bad := "/" + e.store.ID + "/colors/bad%20id!"

	resp, body := e.page(t, bad, e.alice)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Página não encontrada")

	resp, _ = e.form(t, "/"+e.store.ID+"/colors", bad, e.alice, url.Values{"name": {"Red"}, "value": {"#F00"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.form(t, "/"+e.store.ID+"/colors", "/"+e.store.ID+"/colors/new/delete", e.alice, url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, countRows(t, e.db, "colors"))
}

func TestDashboardMissingItemShowsMissingToast(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	path := "/" + e.store.ID + "/billboards/does-not-exist"

	resp, _ := e.form(t, path, path, e.alice, url.Values{"label": {"Verão"}, "imageUrl": {"https://img.test/v.png"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/"+e.store.ID+"/billboards", resp.Header.Get("Location"))
	assert.Equal(t, "missing", cookie(resp, "toast"))

	resp, _ = e.form(t, path, path+"/delete", e.alice, url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "missing", cookie(resp, "toast"))

	req := newPageRequest(t, "/"+e.store.ID+"/billboards", e.alice)
	req.AddCookie(&http.Cookie{Name: "toast", Value: "missing"})
	_, body := e.do(t, req)
	assert.Contains(t, body, "Registro não encontrado.")
	assert.NotContains(t, body, "Painel atualizado!")
}

func TestCategoryPagesFlow(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	ctx := context.Background()
	b, err := repos.NewBillboardRepo(e.db).Create(ctx, e.store.ID, "Verão", "https://img.test/verao.png")
	require.NoError(t, err)
	listPath := "/" + e.store.ID + "/categories"
	newPath := listPath + "/new"

	resp, body := e.page(t, newPath, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Criar Categoria")
	assert.Contains(t, body, "Verão")

	resp, body = e.form(t, newPath, newPath, e.alice, url.Values{"name": {"Camisetas"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Campo obrigatório")
	assert.Equal(t, 0, countRows(t, e.db, "categories"))

	resp, _ = e.form(t, newPath, newPath, e.alice, url.Values{"name": {"Camisetas"}, "billboardId": {b.ID}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, listPath, resp.Header.Get("Location"))
	assert.Equal(t, "category.created", cookie(resp, "toast"))

	resp, body = e.page(t, listPath, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Categorias (1)")
	assert.Contains(t, body, "Camisetas")

	cats, err := repos.NewCategoryRepo(e.db).List(ctx, e.store.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	editPath := listPath + "/" + cats[0].ID

	resp, _ = e.form(t, editPath, editPath+"/delete", e.alice, url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "category.deleted", cookie(resp, "toast"))
	assert.Equal(t, 0, countRows(t, e.db, "categories"))
}

func TestCategoryFormRejectsForeignBillboard(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	ctx := context.Background()
	bobStore, err := repos.NewStoreRepo(e.db).Create(ctx, "u-bob", "Loja do Bob")
	require.NoError(t, err)
	foreign, err := repos.NewBillboardRepo(e.db).Create(ctx, bobStore.ID, "Do Bob", "https://img.test/bob.png")
	require.NoError(t, err)

	newPath := "/" + e.store.ID + "/categories/new"
	resp, body := e.form(t, newPath, newPath, e.alice, url.Values{"name": {"Camisetas"}, "billboardId": {foreign.ID}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Selecione uma opção válida")
	assert.Equal(t, 0, countRows(t, e.db, "categories"))
}

func TestSizePagesFlow(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	listPath := "/" + e.store.ID + "/sizes"
	newPath := listPath + "/new"

	resp, body := e.form(t, newPath, newPath, e.alice, url.Values{"name": {"Médio"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Criar Tamanho")
	assert.Equal(t, 0, countRows(t, e.db, "sizes"))

	resp, _ = e.form(t, newPath, newPath, e.alice, url.Values{"name": {"Médio"}, "value": {"M"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "size.created", cookie(resp, "toast"))

	sizes, err := repos.NewSizeRepo(e.db).List(context.Background(), e.store.ID)
	require.NoError(t, err)
	require.Len(t, sizes, 1)
	editPath := listPath + "/" + sizes[0].ID

	resp, _ = e.form(t, editPath, editPath, e.alice, url.Values{"name": {"Grande"}, "value": {"G"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "size.updated", cookie(resp, "toast"))

	resp, body = e.page(t, listPath, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Tamanhos (1)")
	assert.Contains(t, body, "Grande")
}

func TestProductPagesFlow(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	ctx := context.Background()
	b, err := repos.NewBillboardRepo(e.db).Create(ctx, e.store.ID, "Verão", "https://img.test/verao.png")
	require.NoError(t, err)
	cat, err := repos.NewCategoryRepo(e.db).Create(ctx, e.store.ID, b.ID, "Camisetas")
	require.NoError(t, err)
	size, err := repos.NewSizeRepo(e.db).Create(ctx, e.store.ID, "Médio", "M")
	require.NoError(t, err)

	listPath := "/" + e.store.ID + "/products"
	newPath := listPath + "/new"
	valid := url.Values{
		"name":       {"Camiseta azul"},
		"price":      {"59,90"},
		"categoryId": {cat.ID},
		"colorId":    {e.color.ID},
		"sizeId":     {size.ID},
		"images":     {"https://img.test/a.png\nhttps://img.test/b.png"},
		"isArchived": {"true"},
	}

	resp, body := e.page(t, newPath, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Camisetas")
	assert.Contains(t, body, "Médio")
	assert.Contains(t, body, "Blue")

	bad := url.Values{}
	for k, v := range valid {
		bad[k] = v
	}
	bad.Set("price", "0")
	bad.Set("images", "ftp://img.test/a.png")
	resp, body = e.form(t, newPath, newPath, e.alice, bad)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Informe um preço maior que zero")
	assert.Contains(t, body, "Informe uma URL válida")
	assert.Equal(t, 0, countRows(t, e.db, "products"))

	resp, _ = e.form(t, newPath, newPath, e.alice, valid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "product.created", cookie(resp, "toast"))

	all, err := repos.NewProductRepo(e.db).ListAll(ctx, e.store.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	p := all[0]
	assert.InDelta(t, 59.9, p.Price, 0.001)
	assert.True(t, p.IsArchived)
	assert.False(t, p.IsFeatured)
	assert.Equal(t, []string{"https://img.test/a.png", "https://img.test/b.png"}, p.Images)

	// archived products stay visible in the dashboard
	resp, body = e.page(t, listPath, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Produtos (1)")
	assert.Contains(t, body, "R$ 59,90")

	resp, body = e.page(t, listPath+"/"+p.ID, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Editar Produto")
	assert.Contains(t, body, "https://img.test/b.png")

	resp, _ = e.form(t, listPath+"/"+p.ID, listPath+"/"+p.ID+"/delete", e.alice, url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "product.deleted", cookie(resp, "toast"))
	assert.Equal(t, 0, countRows(t, e.db, "products"))
}

func TestSettingsRenameAndDelete(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	path := "/" + e.store.ID + "/settings"

	resp, body := e.page(t, path, e.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Loja da Alice")
	assert.Contains(t, body, "/api/"+e.store.ID+"/products")

	resp, body = e.form(t, path, path, e.alice, url.Values{"name": {" "}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Campo obrigatório")

	resp, _ = e.form(t, path, path, e.alice, url.Values{"name": {"Loja Nova"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "store.updated", cookie(resp, "toast"))
	st, err := repos.NewStoreRepo(e.db).Get(context.Background(), e.store.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loja Nova", st.Name)

	// the seeded color still belongs to the store
	resp, _ = e.form(t, path, path+"/delete", e.alice, url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, path, resp.Header.Get("Location"))
	assert.Equal(t, "store.in_use", cookie(resp, "toast"))
	assert.Equal(t, 1, countRows(t, e.db, "stores"))

	resp, _ = e.form(t, "/"+e.store.ID+"/colors/"+e.color.ID, "/"+e.store.ID+"/colors/"+e.color.ID+"/delete", e.alice, url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, _ = e.form(t, path, path+"/delete", e.alice, url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, "store.deleted", cookie(resp, "toast"))
	assert.Equal(t, 0, countRows(t, e.db, "stores"))
}

func TestSettingsForbidsOtherOwners(t *testing.T) {
	e := newEnv(t, apphttp.Limits{})
	resp, _ := e.page(t, "/"+e.store.ID+"/settings", e.bob)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
