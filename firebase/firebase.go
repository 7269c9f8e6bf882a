package firebase

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const publicURLPrefix = "https://storage.googleapis.com/"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(filename, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

var privateRanges = []*net.IPNet{
	parseCIDR("10.0.0.0/8"),
	parseCIDR("172.16.0.0/12"),
	parseCIDR("192.168.0.0/16"),
	parseCIDR("127.0.0.0/8"),
	parseCIDR("169.254.0.0/16"),
	parseCIDR("0.0.0.0/8"),
	parseCIDR("::1/128"),
	parseCIDR("fc00::/7"),
	parseCIDR("fe80::/10"),
}

// isPrivateIP checks whether an IP address is a private/reserved address.
func isPrivateIP(ip net.IP) bool {
	for _, network := range privateRanges {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func parseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("invalid CIDR: %s", cidr))
	}
	return network
}

// validateExternalURL validates that a URL is safe to fetch (prevents SSRF).
func validateExternalURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme '%s' is not allowed; only http and https are permitted", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("URL has no hostname")
	}

	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("requests to localhost are not allowed")
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return fmt.Errorf("failed to resolve hostname '%s': %v", host, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("URL resolves to private IP address %s, which is not allowed", ip.String())
		}
	}

	return nil
}

// IsHosted reports whether imageURL already points into public Cloud Storage.
func IsHosted(imageURL string) bool {
	return strings.HasPrefix(imageURL, publicURLPrefix)
}

// ObjectPath returns the bucket-relative object path of a hosted image URL,
// the inverse of the URL built on upload. ok is false for external URLs
// and for URLs that name only a bucket.
func ObjectPath(imageURL string) (path string, ok bool) {
	if !IsHosted(imageURL) {
		return "", false
	}
	_, path, found := strings.Cut(strings.TrimPrefix(imageURL, publicURLPrefix), "/")
	if !found || path == "" {
		return "", false
	}
	return path, true
}

// Storage uploads product images and profile pictures to the Firebase bucket.
type Storage struct {
	app        *firebase.App
	bucket     string
	log        *zap.Logger
	httpClient *http.Client
}

// New initialises the Firebase app from GOOGLE_APPLICATION_CREDENTIALS, which
// may hold inline JSON or a file path.
func New(ctx context.Context, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bucket := os.Getenv("FIREBASE_STORAGE_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	var opts []option.ClientOption
	credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	switch {
	case strings.HasPrefix(credJSON, "{"):
		logger.Info("using firebase credentials from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
	case credJSON != "":
		logger.Info("using firebase credentials from file", zap.String("path", credJSON))
		opts = append(opts, option.WithCredentialsFile(credJSON))
	default:
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucket}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}

	logger.Info("firebase initialized", zap.String("bucket", bucket))
	return &Storage{
		app:        app,
		bucket:     bucket,
		log:        logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *Storage) bucketHandle(ctx context.Context) (*storage.BucketHandle, error) {
	client, err := s.app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return client.Bucket(s.bucket)
}

func (s *Storage) upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error) {
	bucket, err := s.bucketHandle(ctx)
	if err != nil {
		return "", err
	}

	obj := bucket.Object(objectPath)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	// Public read so panels can render the URL without credentials.
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		s.log.Warn("failed to set public ACL", zap.String("object", objectPath), zap.Error(err))
	}

	return publicURLPrefix + s.bucket + "/" + objectPath, nil
}

func (s *Storage) UploadProductImage(ctx context.Context, productID string, file io.Reader, filename, contentType string) (string, error) {
	objectPath := fmt.Sprintf("products/%s/%d_%s", sanitizeFilename(productID), time.Now().Unix(), sanitizeFilename(filename))
	return s.upload(ctx, objectPath, file, contentType)
}

func (s *Storage) UploadProfilePicture(ctx context.Context, userID string, file io.Reader, filename, contentType string) (string, error) {
	objectPath := fmt.Sprintf("profile_pictures/%s/%d_%s", sanitizeFilename(userID), time.Now().Unix(), sanitizeFilename(filename))
	return s.upload(ctx, objectPath, file, contentType)
}

// ImportImage copies an external image into the bucket and returns its public URL.
func (s *Storage) ImportImage(ctx context.Context, imageURL, productID string) (string, error) {
	if err := validateExternalURL(imageURL); err != nil {
		return "", fmt.Errorf("URL validation failed for %s: %w", imageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image from %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("URL %s returned non-image content-type: %q", imageURL, contentType)
	}

	objectPath := fmt.Sprintf("products/%s/%s", sanitizeFilename(productID), uuid.New().String()[:8])
	return s.upload(ctx, objectPath, resp.Body, contentType)
}

// DeleteFile deletes a file from Firebase Storage given its object path.
func (s *Storage) DeleteFile(ctx context.Context, objectPath string) error {
	bucket, err := s.bucketHandle(ctx)
	if err != nil {
		return err
	}

	if err := bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}

	s.log.Info("deleted file", zap.String("object", objectPath), zap.String("bucket", s.bucket))
	return nil
}
