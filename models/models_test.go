package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// ==================== BeforeCreate Hook Tests ====================

func TestUserBeforeCreateGeneratesUUID(t *testing.T) {
	user := User{Email: "test@test.com"}
	if err := user.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if user.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestUserBeforeCreatePreservesUUID(t *testing.T) {
	existingID := uuid.New()
	user := User{ID: existingID}
	user.BeforeCreate(nil)
	if user.ID != existingID {
		t.Error("UUID should have been preserved")
	}
}

func TestCategoryBeforeCreateDefaultsLevel(t *testing.T) {
	cat := Category{Name: "Phones"}
	cat.BeforeCreate(nil)
	if cat.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
	if cat.Level != 1 {
		t.Errorf("expected level 1 for a new root, got %d", cat.Level)
	}

	child := Category{Name: "Android", Level: 3}
	child.BeforeCreate(nil)
	if child.Level != 3 {
		t.Errorf("explicit level should be kept, got %d", child.Level)
	}
}

func TestCatalogBeforeCreateHooks(t *testing.T) {
	attr := Attribute{}
	value := AttributeValue{}
	link := CategoryAttribute{}
	seller := Seller{}
	product := Product{}
	variant := ProductVariant{}
	variantAttr := ProductVariantAttribute{}
	image := ProductImage{}
	item := OrderItem{}

	attr.BeforeCreate(nil)
	value.BeforeCreate(nil)
	link.BeforeCreate(nil)
	seller.BeforeCreate(nil)
	product.BeforeCreate(nil)
	variant.BeforeCreate(nil)
	variantAttr.BeforeCreate(nil)
	image.BeforeCreate(nil)
	item.BeforeCreate(nil)

	ids := []uuid.UUID{attr.ID, value.ID, link.ID, seller.ID, product.ID, variant.ID, variantAttr.ID, image.ID, item.ID}
	for i, id := range ids {
		if id == uuid.Nil {
			t.Errorf("hook %d did not generate an id", i)
		}
	}
}

func TestOrderBeforeCreate(t *testing.T) {
	order := Order{TotalAmount: 10}
	order.BeforeCreate(nil)
	if order.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
	if order.OrderNumber == "" {
		t.Error("OrderNumber should have been generated")
	}
}

func TestCommissionBeforeCreateStampsEffectiveFrom(t *testing.T) {
	c := CommissionSetting{Type: CommissionTypeGlobal, CommissionRate: 8}
	c.BeforeCreate(nil)
	if c.EffectiveFrom.IsZero() {
		t.Error("effective_from should default to now")
	}
}

// ==================== State Machine Tests ====================

func TestProductTransitions(t *testing.T) {
	tests := []struct {
		from, to ProductStatus
		allowed  bool
	}{
		{ProductStatusDraft, ProductStatusPending, true},
		{ProductStatusPending, ProductStatusApproved, true},
		{ProductStatusPending, ProductStatusRejected, true},
		{ProductStatusApproved, ProductStatusBlocked, true},
		{ProductStatusBlocked, ProductStatusApproved, true},
		{ProductStatusRejected, ProductStatusPending, true},
		{ProductStatusBlocked, ProductStatusPending, true},
		{ProductStatusDraft, ProductStatusApproved, false},
		{ProductStatusPending, ProductStatusBlocked, false},
		{ProductStatusRejected, ProductStatusApproved, false},
		{ProductStatusApproved, ProductStatusPending, false},
		{ProductStatus("unknown"), ProductStatusPending, false},
	}
	for _, tc := range tests {
		if got := IsValidProductTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestSellerEditable(t *testing.T) {
	for _, s := range []ProductStatus{ProductStatusDraft, ProductStatusPending, ProductStatusRejected, ProductStatusBlocked} {
		p := Product{Status: s}
		if !p.SellerEditable() {
			t.Errorf("%s product should be editable by its seller", s)
		}
	}
	p := Product{Status: ProductStatusApproved}
	if p.SellerEditable() {
		t.Error("approved product should be locked")
	}
}

func TestOrderTransitions(t *testing.T) {
	if !IsValidTransition(OrderStatusPending, OrderStatusProcessing) {
		t.Error("pending -> processing should be allowed")
	}
	if !IsValidTransition(OrderStatusShipped, OrderStatusDelivered) {
		t.Error("shipped -> delivered should be allowed")
	}
	if IsValidTransition(OrderStatusShipped, OrderStatusCancelled) {
		t.Error("shipped orders cannot be cancelled")
	}
	if IsValidTransition(OrderStatusDelivered, OrderStatusPending) {
		t.Error("delivered is terminal")
	}
	if IsValidTransition(OrderStatus("bogus"), OrderStatusPending) {
		t.Error("unknown status should never transition")
	}
}

func TestOrderCancellable(t *testing.T) {
	cases := map[OrderStatus]bool{
		OrderStatusPending:    true,
		OrderStatusProcessing: true,
		OrderStatusShipped:    false,
		OrderStatusDelivered:  false,
		OrderStatusCancelled:  false,
	}
	for status, expected := range cases {
		o := Order{Status: status}
		if o.Cancellable() != expected {
			t.Errorf("%s: expected cancellable=%v", status, expected)
		}
	}
}

// ==================== Value Helpers ====================

func TestCommissionAppliesTo(t *testing.T) {
	now := time.Now()
	max := 500.0
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	base := CommissionSetting{IsActive: true, EffectiveFrom: past, MinSellerPrice: 100, MaxSellerPrice: &max}

	if !base.AppliesTo(200, now) {
		t.Error("price inside range should apply")
	}
	if base.AppliesTo(50, now) {
		t.Error("price below minimum should not apply")
	}
	if base.AppliesTo(600, now) {
		t.Error("price above maximum should not apply")
	}

	inactive := base
	inactive.IsActive = false
	if inactive.AppliesTo(200, now) {
		t.Error("inactive setting should not apply")
	}

	notYet := base
	notYet.EffectiveFrom = future
	if notYet.AppliesTo(200, now) {
		t.Error("setting effective in the future should not apply")
	}

	expired := base
	expired.EffectiveUntil = &past
	if expired.AppliesTo(200, now) {
		t.Error("expired setting should not apply")
	}
}

func TestValidators(t *testing.T) {
	if !IsValidAttributeType(AttributeTypeMultiselect) || IsValidAttributeType("color") {
		t.Error("attribute type validation mismatch")
	}
	if !IsValidCommissionType(CommissionTypeCategory) || IsValidCommissionType("seller") {
		t.Error("commission type validation mismatch")
	}
	if !IsValidPaymentStatus(PaymentStatusRefunded) || IsValidPaymentStatus("card") {
		t.Error("payment status validation mismatch")
	}
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Asha", LastName: "Rao"}
	if u.FullName() != "Asha Rao" {
		t.Errorf("unexpected full name %q", u.FullName())
	}
	u = User{FirstName: "Asha"}
	if u.FullName() != "Asha" {
		t.Errorf("expected trimmed name, got %q", u.FullName())
	}
}
