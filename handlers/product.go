package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"marketplace-admin/catalog"
	"marketplace-admin/dtos"
	"marketplace-admin/firebase"
	"marketplace-admin/models"
)

var errInvalidVariantAttribute = errors.New("variant references an attribute value that does not belong to its attribute")

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, created_at ASC")
}

func orderedVariants(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, variant_name ASC")
}

// withProductDetail preloads everything the panels render for a product.
func withProductDetail(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", orderedImages).
		Preload("Variants", orderedVariants).
		Preload("Variants.Attributes").
		Preload("Category").
		Preload("Seller")
}

func loadProduct(db *gorm.DB, id uuid.UUID, sellerID *uuid.UUID) (*models.Product, error) {
	query := withProductDetail(db).Where("id = ?", id)
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}
	var product models.Product
	if err := query.First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func encodeTags(tags []string) datatypes.JSON {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	data, _ := json.Marshal(clean)
	return datatypes.JSON(data)
}

func generateSKU() string {
	return "SKU-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func uniqueProductSlug(db *gorm.DB, name string, self *uuid.UUID) (string, error) {
	return catalog.UniqueSlug(name, func(slug string) (bool, error) {
		query := db.Model(&models.Product{}).Where("slug = ?", slug)
		if self != nil {
			query = query.Where("id <> ?", *self)
		}
		var count int64
		err := query.Count(&count).Error
		return count > 0, err
	})
}

// buildImages turns image inputs into rows, mirroring external URLs into
// storage when it is configured. Exactly one image ends up primary.
func buildImages(ctx context.Context, storage firebase.StorageClient, log *zap.Logger, productID uuid.UUID, inputs []dtos.ImageInput) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(inputs))
	primary := -1
	for i, in := range inputs {
		url := strings.TrimSpace(in.ImageURL)
		if storage != nil && !firebase.IsHosted(url) {
			imported, err := storage.ImportImage(ctx, url, productID.String())
			if err != nil {
				log.Warn("keeping external image url", zap.String("url", url), zap.Error(err))
			} else {
				url = imported
			}
		}
		if in.IsPrimary && primary < 0 {
			primary = i
		}
		images = append(images, models.ProductImage{
			ProductID: productID,
			ImageURL:  url,
			AltText:   in.AltText,
			SortOrder: in.SortOrder,
		})
	}
	if len(images) > 0 {
		if primary < 0 {
			primary = 0
		}
		images[primary].IsPrimary = true
	}
	return images
}

// validateVariantAttributes checks that every value belongs to its attribute.
func validateVariantAttributes(db *gorm.DB, inputs []dtos.VariantInput) error {
	for _, v := range inputs {
		for _, a := range v.Attributes {
			var count int64
			if err := db.Model(&models.AttributeValue{}).
				Where("id = ? AND attribute_id = ?", a.AttributeValueID, a.AttributeID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errInvalidVariantAttribute
			}
		}
	}
	return nil
}

// replaceVariants deletes every variant of product and inserts inputs priced
// at the product's commission rate.
func replaceVariants(tx *gorm.DB, product *models.Product, inputs []dtos.VariantInput) ([]models.ProductVariant, error) {
	if err := deleteVariants(tx, product.ID); err != nil {
		return nil, err
	}

	variants := make([]models.ProductVariant, 0, len(inputs))
	for i, in := range inputs {
		sku := strings.TrimSpace(in.SKU)
		if sku == "" {
			sku = fmt.Sprintf("%s-%d", product.SKU, i+1)
		}
		variant := models.ProductVariant{
			ProductID:     product.ID,
			VariantName:   in.VariantName,
			SKU:           sku,
			SellerPrice:   in.SellerPrice,
			StockQuantity: in.StockQuantity,
			IsActive:      true,
		}
		applyVariantPricing(&variant, product.CommissionRate)
		for _, a := range in.Attributes {
			variant.Attributes = append(variant.Attributes, models.ProductVariantAttribute{
				AttributeID:      a.AttributeID,
				AttributeValueID: a.AttributeValueID,
			})
		}
		if err := tx.Create(&variant).Error; err != nil {
			return nil, err
		}
		if in.IsActive != nil && !*in.IsActive {
			if err := tx.Model(&variant).Update("is_active", false).Error; err != nil {
				return nil, err
			}
			variant.IsActive = false
		}
		variants = append(variants, variant)
	}
	return variants, nil
}

func deleteVariants(tx *gorm.DB, productID uuid.UUID) error {
	variantIDs := tx.Model(&models.ProductVariant{}).Select("id").Where("product_id = ?", productID)
	if err := tx.Where("variant_id IN (?)", variantIDs).Delete(&models.ProductVariantAttribute{}).Error; err != nil {
		return err
	}
	return tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error
}

// deleteProductTree hard-deletes a product with its images and variants.
func deleteProductTree(tx *gorm.DB, productID uuid.UUID) error {
	if err := deleteVariants(tx, productID); err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Product{}, "id = ?", productID).Error
}

// removeStoredImages deletes hosted files no other image row still references.
func removeStoredImages(ctx context.Context, db *gorm.DB, storage firebase.StorageClient, log *zap.Logger, urls []string) {
	if storage == nil {
		return
	}
	for _, url := range urls {
		if !firebase.IsHosted(url) {
			continue
		}
		var refs int64
		if err := db.Model(&models.ProductImage{}).Where("image_url = ?", url).Count(&refs).Error; err != nil || refs > 0 {
			continue
		}
		objectPath, ok := firebase.ObjectPath(url)
		if !ok {
			continue
		}
		if err := storage.DeleteFile(ctx, objectPath); err != nil {
			log.Warn("failed to delete image from storage", zap.String("url", url), zap.Error(err))
		}
	}
}

func imageURLs(images []models.ProductImage) []string {
	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.ImageURL
	}
	return urls
}
