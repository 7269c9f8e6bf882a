package panel

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"marketplace-admin/catalog"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
)

// SellerAPI wraps the /seller endpoints and seller registration.
type SellerAPI struct {
	c *Client
}

func (c *Client) Seller() *SellerAPI {
	return &SellerAPI{c: c}
}

func (s *SellerAPI) Register(ctx context.Context, req dtos.RegisterSellerRequest) (*models.User, error) {
	var out models.User
	return &out, s.c.do(ctx, http.MethodPost, "/auth/register/seller", nil, req, &out)
}

func (s *SellerAPI) Products(ctx context.Context, status models.ProductStatus, p Page) ([]models.Product, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	p.apply(q)
	var out []models.Product
	return out, s.c.do(ctx, http.MethodGet, "/seller/products", q, nil, &out)
}

func (s *SellerAPI) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var out models.Product
	return &out, s.c.do(ctx, http.MethodGet, idPath("/seller/products", id), nil, nil, &out)
}

func (s *SellerAPI) CreateProduct(ctx context.Context, req dtos.ProductCreateRequest) (*models.Product, error) {
	var out models.Product
	return &out, s.c.do(ctx, http.MethodPost, "/seller/products", nil, req, &out)
}

func (s *SellerAPI) UpdateProduct(ctx context.Context, id uuid.UUID, req dtos.ProductUpdateRequest) (*models.Product, error) {
	var out models.Product
	return &out, s.c.do(ctx, http.MethodPut, idPath("/seller/products", id), nil, req, &out)
}

func (s *SellerAPI) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.c.do(ctx, http.MethodDelete, idPath("/seller/products", id), nil, nil, nil)
}

// ReplaceVariants swaps every variant of the product for variants.
func (s *SellerAPI) ReplaceVariants(ctx context.Context, id uuid.UUID, variants []dtos.VariantInput) ([]models.ProductVariant, error) {
	var out []models.ProductVariant
	return out, s.c.do(ctx, http.MethodPut, idPath("/seller/products", id, "variants"), nil,
		dtos.VariantsReplaceRequest{Variants: variants}, &out)
}

func (s *SellerAPI) UploadImage(ctx context.Context, id uuid.UUID, filename string, file io.Reader, altText string, primary bool) (*models.ProductImage, error) {
	fields := map[string]string{"is_primary": strconv.FormatBool(primary)}
	if altText != "" {
		fields["alt_text"] = altText
	}
	var out models.ProductImage
	return &out, s.c.upload(ctx, http.MethodPost, idPath("/seller/products", id, "images"), fields, "image", filename, file, &out)
}

func (s *SellerAPI) count(ctx context.Context, path string) (int64, error) {
	var out dtos.CountResponse
	err := s.c.do(ctx, http.MethodGet, path, nil, nil, &out)
	return out.Count, err
}

func (s *SellerAPI) PendingCount(ctx context.Context) (int64, error) {
	return s.count(ctx, "/seller/products/pending/count")
}

func (s *SellerAPI) ApprovedCount(ctx context.Context) (int64, error) {
	return s.count(ctx, "/seller/products/approved/count")
}

// CategoryTree returns the active categories a seller can list under.
func (s *SellerAPI) CategoryTree(ctx context.Context) ([]*catalog.TreeNode, error) {
	var out []*catalog.TreeNode
	return out, s.c.do(ctx, http.MethodGet, "/seller/categories/tree", nil, nil, &out)
}

func (s *SellerAPI) CategoryAttributes(ctx context.Context, categoryID uuid.UUID) ([]models.CategoryAttribute, error) {
	var out []models.CategoryAttribute
	return out, s.c.do(ctx, http.MethodGet, idPath("/seller/categories", categoryID, "attributes"), nil, nil, &out)
}

func (s *SellerAPI) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	return &out, s.c.do(ctx, http.MethodGet, "/seller/profile", nil, nil, &out)
}

// ProfileUpdate lists the profile fields to change; empty fields are left
// alone. Picture is uploaded when set.
type ProfileUpdate struct {
	Fields          map[string]string
	PictureFilename string
	Picture         io.Reader
}

func (s *SellerAPI) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.User, error) {
	var out models.User
	return &out, s.c.upload(ctx, http.MethodPut, "/seller/profile", upd.Fields,
		"profile_picture", upd.PictureFilename, upd.Picture, &out)
}

func (s *SellerAPI) ChangePassword(ctx context.Context, current, next string) error {
	return s.c.do(ctx, http.MethodPut, "/seller/profile/password", nil,
		dtos.PasswordChangeRequest{CurrentPassword: current, NewPassword: next}, nil)
}

func (s *SellerAPI) DeleteProfilePicture(ctx context.Context) error {
	return s.c.do(ctx, http.MethodDelete, "/seller/profile/profile-picture", nil, nil, nil)
}
