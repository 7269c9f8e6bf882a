package handlers

import (
	"net/http"
	"testing"

	"marketplace-admin/models"
)

func TestLoginSuccess(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	seedUser(db, "admin@test.com", models.RoleAdmin)

	w := serve(router, jsonRequest("POST", "/api/v1/auth/login", map[string]string{
		"email":    "admin@test.com",
		"password": testPassword,
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["access_token"] == nil || resp["access_token"] == "" {
		t.Error("expected access_token in response")
	}
	if resp["token_type"] != "bearer" {
		t.Errorf("expected token_type bearer, got %v", resp["token_type"])
	}
	user := resp["user"].(map[string]interface{})
	if user["role"] != "admin" {
		t.Errorf("expected role admin, got %v", user["role"])
	}
	if _, ok := user["password"]; ok {
		t.Error("password hash must not be serialized")
	}
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	seedUser(db, "admin@test.com", models.RoleAdmin)

	w := serve(router, jsonRequest("POST", "/api/v1/auth/login", map[string]string{
		"email":    "Admin@Test.com",
		"password": testPassword,
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginSellerIncludesProfile(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	_, seller, _ := seedSeller(db, "seller@test.com")

	w := serve(router, jsonRequest("POST", "/api/v1/auth/login", map[string]string{
		"email":    "seller@test.com",
		"password": testPassword,
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	user := parseResponse(w)["user"].(map[string]interface{})
	profile, ok := user["seller"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected seller profile in user, got %v", user)
	}
	if profile["id"] != seller.ID.String() {
		t.Errorf("expected seller id %s, got %v", seller.ID, profile["id"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	seedUser(db, "admin@test.com", models.RoleAdmin)

	w := serve(router, jsonRequest("POST", "/api/v1/auth/login", map[string]string{
		"email":    "admin@test.com",
		"password": "wrong-password",
	}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
	if detail := parseResponse(w)["detail"]; detail != "Incorrect email or password" {
		t.Errorf("unexpected detail %v", detail)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := serve(router, jsonRequest("POST", "/api/v1/auth/login", map[string]string{
		"email":    "nobody@test.com",
		"password": testPassword,
	}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	user, _ := seedUser(db, "admin@test.com", models.RoleAdmin)
	db.Model(&user).Update("is_active", false)

	w := serve(router, jsonRequest("POST", "/api/v1/auth/login", map[string]string{
		"email":    "admin@test.com",
		"password": testPassword,
	}))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
	if detail := parseResponse(w)["detail"]; detail != "Account is deactivated" {
		t.Errorf("unexpected detail %v", detail)
	}
}

func TestLoginCustomerRejected(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	seedUser(db, "buyer@test.com", models.RoleCustomer)

	w := serve(router, jsonRequest("POST", "/api/v1/auth/login", map[string]string{
		"email":    "buyer@test.com",
		"password": testPassword,
	}))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginValidationError(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := serve(router, jsonRequest("POST", "/api/v1/auth/login", map[string]string{"email": "not-an-email"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if parseResponse(w)["detail"] == nil {
		t.Error("expected detail in validation error")
	}
}

func TestMeReturnsCurrentUser(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	user, _, token := seedSeller(db, "seller@test.com")

	w := serve(router, authRequest("GET", "/api/v1/auth/me", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["id"] != user.ID.String() {
		t.Errorf("expected id %s, got %v", user.ID, resp["id"])
	}
	if resp["seller"] == nil {
		t.Error("expected seller profile on /auth/me")
	}
}

func TestMeWithoutToken(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := serve(router, jsonRequest("GET", "/api/v1/auth/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMeDeletedUser(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	user, token := seedUser(db, "ghost@test.com", models.RoleAdmin)
	db.Unscoped().Delete(&user)

	w := serve(router, authRequest("GET", "/api/v1/auth/me", nil, token))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterSeller(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := serve(router, jsonRequest("POST", "/api/v1/auth/register/seller", map[string]string{
		"email":         "New.Seller@test.com",
		"password":      "password123",
		"first_name":    "Nia",
		"business_name": "Nia Crafts",
		"address":       "12 Loom Lane",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.Preload("Seller").Where("email = ?", "new.seller@test.com").First(&user).Error; err != nil {
		t.Fatalf("expected user to be stored: %v", err)
	}
	if user.Role != models.RoleSeller {
		t.Errorf("expected role seller, got %s", user.Role)
	}
	if user.Seller == nil || user.Seller.BusinessName != "Nia Crafts" {
		t.Errorf("expected seller profile, got %+v", user.Seller)
	}
	if user.Seller != nil && user.Seller.IsApproved {
		t.Error("new sellers must start unapproved")
	}
}

func TestRegisterSellerDuplicateEmail(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	seedSeller(db, "taken@test.com")

	w := serve(router, jsonRequest("POST", "/api/v1/auth/register/seller", map[string]string{
		"email":         "taken@test.com",
		"password":      "password123",
		"first_name":    "Dup",
		"business_name": "Dup Shop",
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterAdminRequiresAdmin(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	_, _, sellerToken := seedSeller(db, "seller@test.com")
	_, adminToken := seedUser(db, "admin@test.com", models.RoleAdmin)

	body := map[string]string{
		"email":      "second-admin@test.com",
		"password":   "password123",
		"first_name": "Second",
	}

	w := serve(router, authRequest("POST", "/api/v1/auth/register/admin", body, sellerToken))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for seller, got %d: %s", w.Code, w.Body.String())
	}

	w = serve(router, authRequest("POST", "/api/v1/auth/register/admin", body, adminToken))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if role := parseResponse(w)["role"]; role != "admin" {
		t.Errorf("expected role admin, got %v", role)
	}
}
