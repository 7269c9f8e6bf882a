package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"marketplace-admin/cache"
	"marketplace-admin/models"
)

func TestCreateCategoryRoot(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)

	w := serve(router, authRequest("POST", "/api/v1/admin/categories", map[string]interface{}{
		"name":        "Home & Kitchen",
		"description": "Everything for the home",
	}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["slug"] != "home-kitchen" {
		t.Errorf("expected slug home-kitchen, got %v", resp["slug"])
	}
	if resp["level"] != float64(1) {
		t.Errorf("expected level 1, got %v", resp["level"])
	}
	if resp["is_active"] != true {
		t.Errorf("expected is_active true, got %v", resp["is_active"])
	}
}

func TestCreateCategoryChildLevelAndUniqueSlug(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	parent := seedCategory(db, "Clothing", nil)

	w := serve(router, authRequest("POST", "/api/v1/admin/categories", map[string]interface{}{
		"name": "Shirts", "parent_id": parent.ID,
	}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if level := parseResponse(w)["level"]; level != float64(2) {
		t.Errorf("expected level 2, got %v", level)
	}

	w = serve(router, authRequest("POST", "/api/v1/admin/categories", map[string]interface{}{"name": "Shirts"}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if slug := parseResponse(w)["slug"]; slug != "shirts-1" {
		t.Errorf("expected slug shirts-1, got %v", slug)
	}
}

func TestCreateCategoryInactive(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)

	w := serve(router, authRequest("POST", "/api/v1/admin/categories", map[string]interface{}{
		"name": "Hidden", "is_active": false,
	}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Category
	db.First(&stored, "name = ?", "Hidden")
	if stored.IsActive {
		t.Error("expected stored category to be inactive")
	}
}

func TestCreateCategoryInactiveWriteFails(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)

	if err := db.Exec(`CREATE TRIGGER freeze_category_active BEFORE UPDATE OF is_active ON categories
		BEGIN SELECT RAISE(ABORT, 'is_active is frozen'); END`).Error; err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Exec("DROP TRIGGER IF EXISTS freeze_category_active") })

	w := serve(router, authRequest("POST", "/api/v1/admin/categories", map[string]interface{}{
		"name": "Hidden", "is_active": false,
	}, token))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.Category{}).Where("name = ?", "Hidden").Count(&count)
	if count != 0 {
		t.Errorf("expected no half-created category, got %d rows", count)
	}
}

func TestCreateCategoryUnknownParent(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)

	w := serve(router, authRequest("POST", "/api/v1/admin/categories", map[string]interface{}{
		"name": "Orphan", "parent_id": uuid.New(),
	}, token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCategoriesRequireAdmin(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, _, sellerToken := seedSeller(db, "seller@test.com")

	w := serve(router, authRequest("GET", "/api/v1/admin/categories", nil, sellerToken))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
	if detail := parseResponse(w)["detail"]; detail != "Admin access required" {
		t.Errorf("unexpected detail %v", detail)
	}
}

func TestGetCategoriesFilters(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	root := seedCategory(db, "Electronics", nil)
	seedCategory(db, "Phones", &root)
	seedCategory(db, "Laptops", &root)
	books := seedCategory(db, "Books", nil)
	db.Model(&books).Update("is_active", false)

	w := serve(router, authRequest("GET", "/api/v1/admin/categories?parent_id=root", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if n := len(parseResponseArray(w)); n != 2 {
		t.Errorf("expected 2 roots, got %d", n)
	}

	w = serve(router, authRequest("GET", "/api/v1/admin/categories?parent_id="+root.ID.String(), nil, token))
	children := parseResponseArray(w)
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if first := children[0].(map[string]interface{})["name"]; first != "Laptops" {
		t.Errorf("expected children ordered by name, got %v first", first)
	}

	w = serve(router, authRequest("GET", "/api/v1/admin/categories?is_active=false", nil, token))
	if n := len(parseResponseArray(w)); n != 1 {
		t.Errorf("expected 1 inactive category, got %d", n)
	}

	w = serve(router, authRequest("GET", "/api/v1/admin/categories?parent_id=nope", nil, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for bad parent_id, got %d", w.Code)
	}
}

func TestGetCategoryTreeNestsChildren(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	root := seedCategory(db, "Electronics", nil)
	phones := seedCategory(db, "Phones", &root)
	seedCategory(db, "Android", &phones)
	seedCategory(db, "Books", nil)

	w := serve(router, authRequest("GET", "/api/v1/admin/categories/tree", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	tree := parseResponseArray(w)
	if len(tree) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree))
	}
	books := tree[0].(map[string]interface{})
	if books["name"] != "Books" {
		t.Errorf("expected Books first, got %v", books["name"])
	}
	electronics := tree[1].(map[string]interface{})
	kids := electronics["children"].([]interface{})
	if len(kids) != 1 {
		t.Fatalf("expected 1 child of Electronics, got %d", len(kids))
	}
	grandkids := kids[0].(map[string]interface{})["children"].([]interface{})
	if len(grandkids) != 1 || grandkids[0].(map[string]interface{})["name"] != "Android" {
		t.Errorf("expected Android under Phones, got %v", grandkids)
	}
}

func TestSellerTreeOnlyActive(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, _, token := seedSeller(db, "seller@test.com")
	seedCategory(db, "Visible", nil)
	hidden := seedCategory(db, "Hidden", nil)
	db.Model(&hidden).Update("is_active", false)

	w := serve(router, authRequest("GET", "/api/v1/seller/categories/tree", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	tree := parseResponseArray(w)
	if len(tree) != 1 || tree[0].(map[string]interface{})["name"] != "Visible" {
		t.Errorf("expected only the active category, got %v", tree)
	}
}

func TestCategoryTreeCacheInvalidatedOnWrite(t *testing.T) {
	db := freshDB()
	treeCache := cache.NewMemoryCache()
	router := setupCategoryRouter(db, treeCache)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	seedCategory(db, "First", nil)

	serve(router, authRequest("GET", "/api/v1/admin/categories/tree", nil, token))
	if _, ok := treeCache.GetTree(context.Background(), "all"); !ok {
		t.Fatal("expected tree to be cached after read")
	}

	w := serve(router, authRequest("POST", "/api/v1/admin/categories", map[string]interface{}{"name": "Second"}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if _, ok := treeCache.GetTree(context.Background(), "all"); ok {
		t.Fatal("expected cache to be invalidated after create")
	}

	w = serve(router, authRequest("GET", "/api/v1/admin/categories/tree", nil, token))
	if n := len(parseResponseArray(w)); n != 2 {
		t.Errorf("expected 2 roots after refetch, got %d", n)
	}
}

func TestGetCategoryPath(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	root := seedCategory(db, "Electronics", nil)
	phones := seedCategory(db, "Phones", &root)
	android := seedCategory(db, "Android", &phones)

	w := serve(router, authRequest("GET", "/api/v1/admin/categories/"+android.ID.String()+"/path", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	path := parseResponseArray(w)
	if len(path) != 3 {
		t.Fatalf("expected path of 3, got %d", len(path))
	}
	if path[0].(map[string]interface{})["name"] != "Electronics" || path[2].(map[string]interface{})["name"] != "Android" {
		t.Errorf("expected root to leaf order, got %v", path)
	}

	w = serve(router, authRequest("GET", "/api/v1/admin/categories/"+uuid.NewString()+"/path", nil, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestUpdateCategoryReparentRelevels(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	a := seedCategory(db, "A", nil)
	b := seedCategory(db, "B", nil)
	bChild := seedCategory(db, "B child", &b)

	w := serve(router, authRequest("PUT", "/api/v1/admin/categories/"+b.ID.String(), map[string]interface{}{
		"parent_id": a.ID,
	}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if level := parseResponse(w)["level"]; level != float64(2) {
		t.Errorf("expected level 2, got %v", level)
	}

	var child models.Category
	db.First(&child, "id = ?", bChild.ID)
	if child.Level != 3 {
		t.Errorf("expected grandchild level 3, got %d", child.Level)
	}

	w = serve(router, authRequest("PUT", "/api/v1/admin/categories/"+b.ID.String(), map[string]interface{}{
		"make_root": true,
	}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	db.First(&child, "id = ?", bChild.ID)
	if child.Level != 2 {
		t.Errorf("expected child level 2 after make_root, got %d", child.Level)
	}
}

func TestUpdateCategoryRejectsCycle(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	a := seedCategory(db, "A", nil)
	b := seedCategory(db, "B", &a)

	w := serve(router, authRequest("PUT", "/api/v1/admin/categories/"+a.ID.String(), map[string]interface{}{
		"parent_id": b.ID,
	}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	w = serve(router, authRequest("PUT", "/api/v1/admin/categories/"+a.ID.String(), map[string]interface{}{
		"parent_id": a.ID,
	}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for self-parent, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateCategoryRenameChangesSlug(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	cat := seedCategory(db, "Old", nil)

	w := serve(router, authRequest("PUT", "/api/v1/admin/categories/"+cat.ID.String(), map[string]interface{}{
		"name": "Café Corner", "is_active": false,
	}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["slug"] != "cafe-corner" {
		t.Errorf("expected slug cafe-corner, got %v", resp["slug"])
	}
	if resp["is_active"] != false {
		t.Errorf("expected is_active false, got %v", resp["is_active"])
	}
}

func TestDeleteCategoryBlockedByChildren(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	root := seedCategory(db, "Root", nil)
	seedCategory(db, "Leaf", &root)

	w := serve(router, authRequest("DELETE", "/api/v1/admin/categories/"+root.ID.String(), nil, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if detail := parseResponse(w)["detail"]; detail != "Cannot delete category with subcategories" {
		t.Errorf("unexpected detail %v", detail)
	}
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	_, seller, _ := seedSeller(db, "seller@test.com")
	cat := seedCategory(db, "Stocked", nil)
	seedProduct(db, seller.ID, cat.ID, "Lamp", 100, models.ProductStatusPending)

	w := serve(router, authRequest("DELETE", "/api/v1/admin/categories/"+cat.ID.String(), nil, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if detail := parseResponse(w)["detail"]; detail != "Cannot delete category with products" {
		t.Errorf("unexpected detail %v", detail)
	}
}

func TestDeleteCategoryRemovesLinks(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	cat := seedCategory(db, "Empty", nil)
	attr := seedAttribute(db, "Color", "Red")
	seedLink(db, cat.ID, attr.ID, false, true)

	w := serve(router, authRequest("DELETE", "/api/v1/admin/categories/"+cat.ID.String(), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var links int64
	db.Model(&models.CategoryAttribute{}).Where("category_id = ?", cat.ID).Count(&links)
	if links != 0 {
		t.Errorf("expected links removed, got %d", links)
	}

	w = serve(router, authRequest("GET", "/api/v1/admin/categories/"+cat.ID.String(), nil, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected deleted category to be gone, got %d", w.Code)
	}
}

func TestGetCategoryInvalidID(t *testing.T) {
	db := freshDB()
	router := setupCategoryRouter(db, nil)
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)

	w := serve(router, authRequest("GET", "/api/v1/admin/categories/not-a-uuid", nil, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if detail := parseResponse(w)["detail"]; detail != "Invalid category id" {
		t.Errorf("unexpected detail %v", detail)
	}
}
