package firebase

import (
	"context"
	"io"
)

// StorageClient abstracts Firebase Storage operations for dependency injection and testing.
type StorageClient interface {
	UploadProductImage(ctx context.Context, productID string, file io.Reader, filename, contentType string) (string, error)
	UploadProfilePicture(ctx context.Context, userID string, file io.Reader, filename, contentType string) (string, error)
	ImportImage(ctx context.Context, imageURL, productID string) (string, error)
	DeleteFile(ctx context.Context, objectPath string) error
}

var _ StorageClient = (*Storage)(nil)
