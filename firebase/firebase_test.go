package firebase

import (
	"context"
	"net"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSanitizeFilenameNormal(t *testing.T) {
	result := sanitizeFilename("image_test-file.jpg")
	if result != "image_test-file.jpg" {
		t.Errorf("expected 'image_test-file.jpg', got '%s'", result)
	}
}

func TestSanitizeFilenameSpecialChars(t *testing.T) {
	result := sanitizeFilename("my file (1)@#$.jpg")
	if strings.ContainsAny(result, " ()@#$") {
		t.Errorf("special chars not replaced: '%s'", result)
	}
}

func TestSanitizeFilenameTooLong(t *testing.T) {
	long := strings.Repeat("a", 200)
	result := sanitizeFilename(long)
	if len(result) != 100 {
		t.Errorf("expected length 100, got %d", len(result))
	}
}

func TestSanitizeFilenameEmpty(t *testing.T) {
	result := sanitizeFilename("")
	if result != "file" {
		t.Errorf("expected 'file', got '%s'", result)
	}
}

func TestSanitizeFilenameDots(t *testing.T) {
	if sanitizeFilename(".") != "file" {
		t.Error("single dot should become 'file'")
	}
	if sanitizeFilename("..") != "file" {
		t.Error("double dots should become 'file'")
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
	}
	for _, tc := range tests {
		ip := net.ParseIP(tc.ip)
		result := isPrivateIP(ip)
		if result != tc.expected {
			t.Errorf("isPrivateIP(%s) = %v, want %v", tc.ip, result, tc.expected)
		}
	}
}

func TestIsPrivateIPv6(t *testing.T) {
	ip := net.ParseIP("::1")
	if !isPrivateIP(ip) {
		t.Error("::1 should be private")
	}
}

func TestParseCIDRValid(t *testing.T) {
	result := parseCIDR("10.0.0.0/8")
	if result == nil {
		t.Error("expected non-nil result")
	}
}

func TestParseCIDRInvalid(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for invalid CIDR")
		}
	}()
	parseCIDR("not-a-cidr")
}

func TestValidateExternalURLInvalidScheme(t *testing.T) {
	err := validateExternalURL("ftp://example.com/file.txt")
	if err == nil {
		t.Error("expected error for ftp scheme")
	}
}

func TestValidateExternalURLLocalhost(t *testing.T) {
	err := validateExternalURL("http://localhost/image.jpg")
	if err == nil {
		t.Error("expected error for localhost")
	}
}

func TestValidateExternalURLEmptyHost(t *testing.T) {
	err := validateExternalURL("http:///path")
	if err == nil {
		t.Error("expected error for empty host")
	}
}

func TestValidateExternalURLValidHTTPS(t *testing.T) {
	// This test does DNS resolution, so only run if network is available
	err := validateExternalURL("https://example.com/image.jpg")
	if err != nil {
		t.Skipf("skipping due to DNS resolution requirement: %v", err)
	}
}

func TestIsHosted(t *testing.T) {
	if !IsHosted("https://storage.googleapis.com/bucket/products/a.jpg") {
		t.Error("expected bucket URL to be hosted")
	}
	if IsHosted("https://cdn.example.com/a.jpg") {
		t.Error("expected external URL not to be hosted")
	}
}

func TestObjectPath(t *testing.T) {
	cases := []struct {
		url  string
		path string
		ok   bool
	}{
		{"https://storage.googleapis.com/shop-bucket/products/p1/1700000000_tee.jpg", "products/p1/1700000000_tee.jpg", true},
		{"https://storage.googleapis.com/shop-bucket/profile_pictures/u1/a.png", "profile_pictures/u1/a.png", true},
		{"https://cdn.example.com/shop-bucket/products/a.jpg", "", false},
		{"https://storage.googleapis.com/shop-bucket", "", false},
		{"https://storage.googleapis.com/shop-bucket/", "", false},
	}
	for _, tc := range cases {
		path, ok := ObjectPath(tc.url)
		if ok != tc.ok || path != tc.path {
			t.Errorf("ObjectPath(%q) = %q, %v; want %q, %v", tc.url, path, ok, tc.path, tc.ok)
		}
	}
}

func TestNewRequiresBucket(t *testing.T) {
	t.Setenv("FIREBASE_STORAGE_BUCKET", "")
	if _, err := New(context.Background(), nil); err == nil {
		t.Fatal("expected error when FIREBASE_STORAGE_BUCKET is unset")
	}
}

func TestImportImageRejectsUnsafeURL(t *testing.T) {
	s := &Storage{bucket: "bucket", log: zap.NewNop(), httpClient: http.DefaultClient}
	if _, err := s.ImportImage(context.Background(), "http://localhost/a.jpg", "p1"); err == nil {
		t.Fatal("expected SSRF guard to reject localhost")
	}
}
