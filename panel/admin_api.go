package panel

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"marketplace-admin/catalog"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
)

// AdminAPI wraps the /admin endpoints.
type AdminAPI struct {
	c *Client
}

func (c *Client) Admin() *AdminAPI {
	return &AdminAPI{c: c}
}

func idPath(prefix string, id uuid.UUID, suffix ...string) string {
	p := prefix + "/" + id.String()
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func setBool(q url.Values, key string, v *bool) {
	if v != nil {
		q.Set(key, strconv.FormatBool(*v))
	}
}

func setID(q url.Values, key string, v *uuid.UUID) {
	if v != nil {
		q.Set(key, v.String())
	}
}

// Page is the skip/limit window of list endpoints. Zero values use the
// backend defaults.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) apply(q url.Values) {
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
}

func (a *AdminAPI) Dashboard(ctx context.Context) (*dtos.DashboardStats, error) {
	var out dtos.DashboardStats
	return &out, a.c.do(ctx, http.MethodGet, "/admin/dashboard", nil, nil, &out)
}

func (a *AdminAPI) RegisterAdmin(ctx context.Context, req dtos.RegisterAdminRequest) (*models.User, error) {
	var out models.User
	return &out, a.c.do(ctx, http.MethodPost, "/auth/register/admin", nil, req, &out)
}

// Categories

// CategoryFilter narrows the flat category list. RootsOnly wins over ParentID.
type CategoryFilter struct {
	ParentID  *uuid.UUID
	RootsOnly bool
	IsActive  *bool
}

func (a *AdminAPI) Categories(ctx context.Context, f CategoryFilter) ([]models.Category, error) {
	q := url.Values{}
	if f.RootsOnly {
		q.Set("parent_id", "root")
	} else {
		setID(q, "parent_id", f.ParentID)
	}
	setBool(q, "is_active", f.IsActive)
	var out []models.Category
	return out, a.c.do(ctx, http.MethodGet, "/admin/categories", q, nil, &out)
}

// CategoryTree returns the nested categories. An empty answer from the tree
// endpoint is rebuilt from the flat list.
func (a *AdminAPI) CategoryTree(ctx context.Context, activeOnly bool) ([]*catalog.TreeNode, error) {
	q := url.Values{}
	if activeOnly {
		q.Set("active_only", "true")
	}
	var tree []*catalog.TreeNode
	if err := a.c.do(ctx, http.MethodGet, "/admin/categories/tree", q, nil, &tree); err != nil {
		return nil, err
	}
	if len(tree) > 0 {
		return tree, nil
	}

	f := CategoryFilter{}
	if activeOnly {
		f.IsActive = &activeOnly
	}
	flat, err := a.Categories(ctx, f)
	if err != nil {
		return nil, err
	}
	tree = catalog.BuildTree(catalog.NodesFromCategories(flat))
	catalog.SortTree(tree, catalog.BySortOrder)
	return tree, nil
}

func (a *AdminAPI) Category(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var out models.Category
	return &out, a.c.do(ctx, http.MethodGet, idPath("/admin/categories", id), nil, nil, &out)
}

func (a *AdminAPI) CategoryPath(ctx context.Context, id uuid.UUID) ([]catalog.Node, error) {
	var out []catalog.Node
	return out, a.c.do(ctx, http.MethodGet, idPath("/admin/categories", id, "path"), nil, nil, &out)
}

func (a *AdminAPI) CreateCategory(ctx context.Context, req dtos.CategoryRequest) (*models.Category, error) {
	var out models.Category
	return &out, a.c.do(ctx, http.MethodPost, "/admin/categories", nil, req, &out)
}

func (a *AdminAPI) UpdateCategory(ctx context.Context, id uuid.UUID, req dtos.CategoryUpdateRequest) (*models.Category, error) {
	var out models.Category
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/categories", id), nil, req, &out)
}

func (a *AdminAPI) SetCategoryActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := a.UpdateCategory(ctx, id, dtos.CategoryUpdateRequest{IsActive: &active})
	return err
}

func (a *AdminAPI) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return a.c.do(ctx, http.MethodDelete, idPath("/admin/categories", id), nil, nil, nil)
}

// Attributes

func (a *AdminAPI) Attributes(ctx context.Context) ([]models.Attribute, error) {
	var out []models.Attribute
	return out, a.c.do(ctx, http.MethodGet, "/admin/attributes", nil, nil, &out)
}

func (a *AdminAPI) Attribute(ctx context.Context, id uuid.UUID) (*models.Attribute, error) {
	var out models.Attribute
	return &out, a.c.do(ctx, http.MethodGet, idPath("/admin/attributes", id), nil, nil, &out)
}

func (a *AdminAPI) CreateAttribute(ctx context.Context, req dtos.AttributeRequest) (*models.Attribute, error) {
	var out models.Attribute
	return &out, a.c.do(ctx, http.MethodPost, "/admin/attributes", nil, req, &out)
}

func (a *AdminAPI) UpdateAttribute(ctx context.Context, id uuid.UUID, req dtos.AttributeUpdateRequest) (*models.Attribute, error) {
	var out models.Attribute
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/attributes", id), nil, req, &out)
}

func (a *AdminAPI) DeleteAttribute(ctx context.Context, id uuid.UUID) error {
	return a.c.do(ctx, http.MethodDelete, idPath("/admin/attributes", id), nil, nil, nil)
}

func (a *AdminAPI) AttributeValues(ctx context.Context, attributeID uuid.UUID) ([]models.AttributeValue, error) {
	var out []models.AttributeValue
	return out, a.c.do(ctx, http.MethodGet, idPath("/admin/attributes", attributeID, "values"), nil, nil, &out)
}

func (a *AdminAPI) CreateAttributeValue(ctx context.Context, req dtos.AttributeValueRequest) (*models.AttributeValue, error) {
	var out models.AttributeValue
	return &out, a.c.do(ctx, http.MethodPost, "/admin/attributes/values", nil, req, &out)
}

func (a *AdminAPI) UpdateAttributeValue(ctx context.Context, id uuid.UUID, req dtos.AttributeValueUpdateRequest) (*models.AttributeValue, error) {
	var out models.AttributeValue
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/attributes/values", id), nil, req, &out)
}

func (a *AdminAPI) DeleteAttributeValue(ctx context.Context, id uuid.UUID) error {
	return a.c.do(ctx, http.MethodDelete, idPath("/admin/attributes/values", id), nil, nil, nil)
}

func (a *AdminAPI) CategoryAttributes(ctx context.Context, categoryID uuid.UUID) ([]models.CategoryAttribute, error) {
	var out []models.CategoryAttribute
	return out, a.c.do(ctx, http.MethodGet, idPath("/admin/attributes/category-attributes", categoryID), nil, nil, &out)
}

func (a *AdminAPI) AvailableAttributes(ctx context.Context, categoryID uuid.UUID) ([]models.Attribute, error) {
	var out []models.Attribute
	return out, a.c.do(ctx, http.MethodGet, idPath("/admin/attributes/available", categoryID), nil, nil, &out)
}

func (a *AdminAPI) LinkAttribute(ctx context.Context, req dtos.CategoryAttributeRequest) (*models.CategoryAttribute, error) {
	var out models.CategoryAttribute
	return &out, a.c.do(ctx, http.MethodPost, "/admin/attributes/category-attributes", nil, req, &out)
}

func (a *AdminAPI) UpdateLink(ctx context.Context, linkID uuid.UUID, patch catalog.LinkPatch) (*models.CategoryAttribute, error) {
	var out models.CategoryAttribute
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/attributes/category-attributes", linkID), nil, patch, &out)
}

func (a *AdminAPI) Unlink(ctx context.Context, linkID uuid.UUID) error {
	return a.c.do(ctx, http.MethodDelete, idPath("/admin/attributes/category-attributes", linkID), nil, nil, nil)
}

// Products

type ProductFilter struct {
	Status     models.ProductStatus
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
	Search     string
	Page
}

func (a *AdminAPI) Products(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	setID(q, "category_id", f.CategoryID)
	setID(q, "seller_id", f.SellerID)
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	f.Page.apply(q)
	var out []models.Product
	return out, a.c.do(ctx, http.MethodGet, "/admin/products", q, nil, &out)
}

func (a *AdminAPI) PendingProducts(ctx context.Context, p Page) ([]models.Product, error) {
	q := url.Values{}
	p.apply(q)
	var out []models.Product
	return out, a.c.do(ctx, http.MethodGet, "/admin/products/pending", q, nil, &out)
}

func (a *AdminAPI) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var out models.Product
	return &out, a.c.do(ctx, http.MethodGet, idPath("/admin/products", id), nil, nil, &out)
}

// ReviewProduct approves or rejects a pending product.
func (a *AdminAPI) ReviewProduct(ctx context.Context, id uuid.UUID, req dtos.ProductApprovalRequest) (*models.Product, error) {
	var out models.Product
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/products", id, "approve"), nil, req, &out)
}

// SetProductStatus blocks or unblocks a product.
func (a *AdminAPI) SetProductStatus(ctx context.Context, id uuid.UUID, req dtos.ProductStatusRequest) (*models.Product, error) {
	var out models.Product
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/products", id, "status"), nil, req, &out)
}

func (a *AdminAPI) RecalculateCommission(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var out models.Product
	return &out, a.c.do(ctx, http.MethodPost, idPath("/admin/products", id, "recalculate-commission"), nil, nil, &out)
}

func (a *AdminAPI) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return a.c.do(ctx, http.MethodDelete, idPath("/admin/products", id), nil, nil, nil)
}

// Users and sellers

type UserFilter struct {
	Role     string
	IsActive *bool
	Search   string
	Page
}

func (a *AdminAPI) Users(ctx context.Context, f UserFilter) ([]models.User, error) {
	q := url.Values{}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	setBool(q, "is_active", f.IsActive)
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	f.Page.apply(q)
	var out []models.User
	return out, a.c.do(ctx, http.MethodGet, "/admin/users", q, nil, &out)
}

func (a *AdminAPI) UserStats(ctx context.Context) (*dtos.UserStats, error) {
	var out dtos.UserStats
	return &out, a.c.do(ctx, http.MethodGet, "/admin/users/stats", nil, nil, &out)
}

func (a *AdminAPI) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var out models.User
	return &out, a.c.do(ctx, http.MethodGet, idPath("/admin/users", id), nil, nil, &out)
}

func (a *AdminAPI) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	return a.c.do(ctx, http.MethodPut, idPath("/admin/users", id, "status"), nil, dtos.UserStatusRequest{IsActive: &active}, nil)
}

// DeleteUser deactivates the account.
func (a *AdminAPI) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return a.c.do(ctx, http.MethodDelete, idPath("/admin/users", id), nil, nil, nil)
}

type SellerFilter struct {
	IsApproved *bool
	Search     string
	Page
}

func (a *AdminAPI) Sellers(ctx context.Context, f SellerFilter) ([]models.Seller, error) {
	q := url.Values{}
	setBool(q, "is_approved", f.IsApproved)
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	f.Page.apply(q)
	var out []models.Seller
	return out, a.c.do(ctx, http.MethodGet, "/admin/users/sellers", q, nil, &out)
}

func (a *AdminAPI) UpdateSellerStatus(ctx context.Context, id uuid.UUID, req dtos.SellerStatusRequest) (*models.Seller, error) {
	var out models.Seller
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/users/sellers", id, "status"), nil, req, &out)
}

// Orders

type OrderFilter struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	CustomerID    *uuid.UUID
	Search        string
	Page
}

func (a *AdminAPI) Orders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.PaymentStatus != "" {
		q.Set("payment_status", string(f.PaymentStatus))
	}
	setID(q, "customer_id", f.CustomerID)
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	f.Page.apply(q)
	var out []models.Order
	return out, a.c.do(ctx, http.MethodGet, "/admin/orders", q, nil, &out)
}

func (a *AdminAPI) PendingOrders(ctx context.Context, p Page) ([]models.Order, error) {
	q := url.Values{}
	p.apply(q)
	var out []models.Order
	return out, a.c.do(ctx, http.MethodGet, "/admin/orders/pending", q, nil, &out)
}

func (a *AdminAPI) OrderStats(ctx context.Context) (*dtos.OrderStats, error) {
	var out dtos.OrderStats
	return &out, a.c.do(ctx, http.MethodGet, "/admin/orders/stats", nil, nil, &out)
}

func (a *AdminAPI) Order(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var out models.Order
	return &out, a.c.do(ctx, http.MethodGet, idPath("/admin/orders", id), nil, nil, &out)
}

func (a *AdminAPI) UpdateOrderStatus(ctx context.Context, id uuid.UUID, req dtos.OrderStatusRequest) (*models.Order, error) {
	var out models.Order
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/orders", id, "status"), nil, req, &out)
}

func (a *AdminAPI) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) (*models.Order, error) {
	var out models.Order
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/orders", id, "payment"), nil,
		dtos.PaymentStatusRequest{PaymentStatus: status}, &out)
}

func (a *AdminAPI) CancelOrder(ctx context.Context, id uuid.UUID, reason string) (*models.Order, error) {
	var out models.Order
	return &out, a.c.do(ctx, http.MethodPost, idPath("/admin/orders", id, "cancel"), nil,
		dtos.OrderCancelRequest{Reason: reason}, &out)
}

// Commissions

func (a *AdminAPI) Commissions(ctx context.Context, t models.CommissionType, activeOnly bool) ([]models.CommissionSetting, error) {
	q := url.Values{}
	if t != "" {
		q.Set("type", string(t))
	}
	q.Set("active_only", strconv.FormatBool(activeOnly))
	var out []models.CommissionSetting
	return out, a.c.do(ctx, http.MethodGet, "/admin/commissions", q, nil, &out)
}

func (a *AdminAPI) Commission(ctx context.Context, id uuid.UUID) (*models.CommissionSetting, error) {
	var out models.CommissionSetting
	return &out, a.c.do(ctx, http.MethodGet, idPath("/admin/commissions", id), nil, nil, &out)
}

func (a *AdminAPI) CreateCommission(ctx context.Context, req dtos.CommissionSettingRequest) (*models.CommissionSetting, error) {
	var out models.CommissionSetting
	return &out, a.c.do(ctx, http.MethodPost, "/admin/commissions", nil, req, &out)
}

func (a *AdminAPI) UpdateCommission(ctx context.Context, id uuid.UUID, req dtos.CommissionSettingRequest) (*models.CommissionSetting, error) {
	var out models.CommissionSetting
	return &out, a.c.do(ctx, http.MethodPut, idPath("/admin/commissions", id), nil, req, &out)
}

func (a *AdminAPI) DeleteCommission(ctx context.Context, id uuid.UUID) error {
	return a.c.do(ctx, http.MethodDelete, idPath("/admin/commissions", id), nil, nil, nil)
}

func (a *AdminAPI) Calculate(ctx context.Context, req dtos.CommissionCalculateRequest) (*catalog.Pricing, error) {
	var out catalog.Pricing
	return &out, a.c.do(ctx, http.MethodPost, "/admin/commissions/calculate", nil, req, &out)
}

// ApplicableRate is the rate the backend would apply to a product.
type ApplicableRate struct {
	CommissionRate float64         `json:"commission_rate"`
	Calculation    catalog.Pricing `json:"calculation"`
}

func (a *AdminAPI) ApplicableRate(ctx context.Context, categoryID uuid.UUID, productID *uuid.UUID, sellerPrice float64) (*ApplicableRate, error) {
	q := url.Values{}
	q.Set("category_id", categoryID.String())
	setID(q, "product_id", productID)
	q.Set("seller_price", strconv.FormatFloat(sellerPrice, 'f', -1, 64))
	var out ApplicableRate
	return &out, a.c.do(ctx, http.MethodGet, "/admin/commissions/rate/calculate", q, nil, &out)
}

func (a *AdminAPI) GlobalRate(ctx context.Context) (float64, error) {
	var out struct {
		Rate float64 `json:"global_commission_rate"`
	}
	err := a.c.do(ctx, http.MethodGet, "/admin/commissions/global/rate", nil, nil, &out)
	return out.Rate, err
}
