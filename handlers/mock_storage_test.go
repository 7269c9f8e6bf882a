package handlers

import (
	"context"
	"io"
)

type mockStorage struct {
	UploadProductImageFn   func(productID, filename, contentType string) (string, error)
	UploadProfilePictureFn func(userID, filename, contentType string) (string, error)
	ImportImageFn          func(imageURL, productID string) (string, error)
	DeleteFileFn           func(objectPath string) error
	DeleteFileCalls        []string
	ImportCalls            []string
	UploadCallCount        int
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
		ImportCalls:     []string{},
	}
}

func (m *mockStorage) UploadProductImage(_ context.Context, productID string, _ io.Reader, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadProductImageFn != nil {
		return m.UploadProductImageFn(productID, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/products/" + productID + "/test_image.jpg", nil
}

func (m *mockStorage) UploadProfilePicture(_ context.Context, userID string, _ io.Reader, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadProfilePictureFn != nil {
		return m.UploadProfilePictureFn(userID, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/profiles/" + userID + "/avatar.jpg", nil
}

func (m *mockStorage) ImportImage(_ context.Context, imageURL, productID string) (string, error) {
	m.ImportCalls = append(m.ImportCalls, imageURL)
	if m.ImportImageFn != nil {
		return m.ImportImageFn(imageURL, productID)
	}
	return "https://storage.googleapis.com/test-bucket/products/" + productID + "/imported.jpg", nil
}

func (m *mockStorage) DeleteFile(_ context.Context, objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}
