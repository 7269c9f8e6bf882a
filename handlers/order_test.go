package handlers

import (
	"net/http"
	"strings"
	"testing"

	"gorm.io/gorm"

	"marketplace-admin/models"
)

type orderFixture struct {
	db       *gorm.DB
	token    string
	customer models.User
	product  models.Product
}

func newOrderFixture() orderFixture {
	db := freshDB()
	_, token := seedUser(db, "admin@test.com", models.RoleAdmin)
	customer, _ := seedUser(db, "customer@test.com", models.RoleCustomer)
	_, seller, _ := seedSeller(db, "seller@test.com")
	cat := seedCategory(db, "Misc", nil)
	product := seedProduct(db, seller.ID, cat.ID, "Teapot", 100, models.ProductStatusApproved)
	return orderFixture{db: db, token: token, customer: customer, product: product}
}

func (f orderFixture) stock() int {
	var p models.Product
	f.db.First(&p, "id = ?", f.product.ID)
	return p.StockQuantity
}

func TestGetOrdersFilters(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)
	pending := seedOrder(f.db, f.customer.ID, f.product, nil, 1, models.OrderStatusPending)
	seedOrder(f.db, f.customer.ID, f.product, nil, 2, models.OrderStatusShipped)

	w := serve(router, authRequest("GET", "/api/v1/admin/orders", nil, f.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if n := len(parseResponseArray(w)); n != 2 {
		t.Errorf("expected 2 orders, got %d", n)
	}

	w = serve(router, authRequest("GET", "/api/v1/admin/orders?status=shipped", nil, f.token))
	if n := len(parseResponseArray(w)); n != 1 {
		t.Errorf("expected 1 shipped order, got %d", n)
	}

	search := strings.ToUpper(pending.OrderNumber[len(pending.OrderNumber)-8:])
	w = serve(router, authRequest("GET", "/api/v1/admin/orders?search="+search, nil, f.token))
	orders := parseResponseArray(w)
	if len(orders) != 1 || orders[0].(map[string]interface{})["id"] != pending.ID.String() {
		t.Errorf("expected search to match the pending order, got %v", orders)
	}

	w = serve(router, authRequest("GET", "/api/v1/admin/orders?customer_id=nope", nil, f.token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed customer_id, got %d", w.Code)
	}
}

func TestGetPendingOrders(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)
	seedOrder(f.db, f.customer.ID, f.product, nil, 1, models.OrderStatusPending)
	seedOrder(f.db, f.customer.ID, f.product, nil, 1, models.OrderStatusDelivered)

	w := serve(router, authRequest("GET", "/api/v1/admin/orders/pending", nil, f.token))
	orders := parseResponseArray(w)
	if len(orders) != 1 {
		t.Fatalf("expected 1 pending order, got %d", len(orders))
	}
	if items := orders[0].(map[string]interface{})["items"].([]interface{}); len(items) != 1 {
		t.Errorf("expected items preloaded, got %v", items)
	}
}

func TestOrderStatsExcludeCancelledRevenue(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)
	seedOrder(f.db, f.customer.ID, f.product, nil, 1, models.OrderStatusPending)
	seedOrder(f.db, f.customer.ID, f.product, nil, 2, models.OrderStatusDelivered)
	seedOrder(f.db, f.customer.ID, f.product, nil, 5, models.OrderStatusCancelled)

	w := serve(router, authRequest("GET", "/api/v1/admin/orders/stats", nil, f.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	stats := parseResponse(w)
	if stats["total_orders"] != float64(3) {
		t.Errorf("expected 3 orders, got %v", stats["total_orders"])
	}
	if stats["cancelled_orders"] != float64(1) || stats["delivered_orders"] != float64(1) {
		t.Errorf("unexpected status counts %v", stats)
	}
	if stats["total_revenue"] != float64(324) {
		t.Errorf("expected revenue 324, got %v", stats["total_revenue"])
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)
	order := seedOrder(f.db, f.customer.ID, f.product, nil, 1, models.OrderStatusPending)
	url := "/api/v1/admin/orders/" + order.ID.String() + "/status"

	w := serve(router, authRequest("PUT", url, map[string]interface{}{"status": "delivered"}, f.token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if detail := parseResponse(w)["detail"]; detail != "Invalid status transition from pending to delivered" {
		t.Errorf("unexpected detail %v", detail)
	}

	for _, next := range []string{"processing", "shipped", "delivered"} {
		w = serve(router, authRequest("PUT", url, map[string]interface{}{"status": next, "admin_notes": "moving to " + next}, f.token))
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200 for %s, got %d: %s", next, w.Code, w.Body.String())
		}
		if status := parseResponse(w)["status"]; status != next {
			t.Errorf("expected %s, got %v", next, status)
		}
	}

	w = serve(router, authRequest("PUT", url, map[string]interface{}{"status": "cancelled"}, f.token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected delivered orders to be final, got %d", w.Code)
	}
}

func TestUpdateOrderStatusCancelRestoresStock(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)
	order := seedOrder(f.db, f.customer.ID, f.product, nil, 3, models.OrderStatusProcessing)

	w := serve(router, authRequest("PUT", "/api/v1/admin/orders/"+order.ID.String()+"/status",
		map[string]interface{}{"status": "cancelled"}, f.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if stock := f.stock(); stock != 13 {
		t.Errorf("expected stock restored to 13, got %d", stock)
	}
}

func TestRepeatedCancelRestoresStockOnce(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)
	order := seedOrder(f.db, f.customer.ID, f.product, nil, 3, models.OrderStatusPending)
	statusURL := "/api/v1/admin/orders/" + order.ID.String() + "/status"

	w := serve(router, authRequest("PUT", statusURL, map[string]interface{}{"status": "cancelled"}, f.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = serve(router, authRequest("PUT", statusURL, map[string]interface{}{"status": "cancelled"}, f.token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 on second cancel, got %d: %s", w.Code, w.Body.String())
	}
	if detail := parseResponse(w)["detail"]; detail != "Invalid status transition from cancelled to cancelled" {
		t.Errorf("unexpected detail %v", detail)
	}

	w = serve(router, authRequest("POST", "/api/v1/admin/orders/"+order.ID.String()+"/cancel", nil, f.token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 from cancel endpoint, got %d: %s", w.Code, w.Body.String())
	}

	if stock := f.stock(); stock != 13 {
		t.Errorf("expected stock restored once to 13, got %d", stock)
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)
	order := seedOrder(f.db, f.customer.ID, f.product, nil, 1, models.OrderStatusDelivered)
	url := "/api/v1/admin/orders/" + order.ID.String() + "/payment"

	w := serve(router, authRequest("PUT", url, map[string]interface{}{"payment_status": "cod_collected"}, f.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if ps := parseResponse(w)["payment_status"]; ps != "cod_collected" {
		t.Errorf("expected cod_collected, got %v", ps)
	}

	w = serve(router, authRequest("PUT", url, map[string]interface{}{"payment_status": "bitcoin"}, f.token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown payment status, got %d", w.Code)
	}
}

func TestCancelOrder(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)
	variant := seedVariant(f.db, f.product, "Blue", 100)
	order := seedOrder(f.db, f.customer.ID, f.product, &variant.ID, 2, models.OrderStatusPending)

	w := serve(router, authRequest("POST", "/api/v1/admin/orders/"+order.ID.String()+"/cancel",
		map[string]interface{}{"reason": "Customer changed their mind"}, f.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["status"] != "cancelled" || resp["admin_notes"] != "Customer changed their mind" {
		t.Errorf("unexpected cancelled order %v", resp)
	}

	var v models.ProductVariant
	f.db.First(&v, "id = ?", variant.ID)
	if v.StockQuantity != 7 {
		t.Errorf("expected variant stock restored to 7, got %d", v.StockQuantity)
	}
	if stock := f.stock(); stock != 10 {
		t.Errorf("expected product stock untouched, got %d", stock)
	}

	w = serve(router, authRequest("POST", "/api/v1/admin/orders/"+order.ID.String()+"/cancel", nil, f.token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 on second cancel, got %d: %s", w.Code, w.Body.String())
	}
	if detail := parseResponse(w)["detail"]; detail != "Only pending or processing orders can be cancelled" {
		t.Errorf("unexpected detail %v", detail)
	}
}

func TestOrderNotFound(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)

	w := serve(router, authRequest("GET", "/api/v1/admin/orders/5d0b1a0e-0000-4000-8000-000000000000", nil, f.token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	w = serve(router, authRequest("POST", "/api/v1/admin/orders/5d0b1a0e-0000-4000-8000-000000000000/cancel", nil, f.token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on cancel, got %d", w.Code)
	}
	w = serve(router, authRequest("GET", "/api/v1/admin/orders/abc", nil, f.token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestOrdersRequireAdmin(t *testing.T) {
	f := newOrderFixture()
	router := setupOrderRouter(f.db)
	_, sellerToken := seedUser(f.db, "other-seller@test.com", models.RoleSeller)

	w := serve(router, authRequest("GET", "/api/v1/admin/orders", nil, sellerToken))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
