package handlers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-admin/catalog"
	"marketplace-admin/config"
	"marketplace-admin/models"
)

// CommissionResolver finds the commission rate that applies to a product.
type CommissionResolver struct {
	DB *gorm.DB
}

func defaultCommissionRate() float64 {
	return config.GetEnvFloat("DEFAULT_COMMISSION_RATE", catalog.DefaultCommissionRate)
}

// categoryChain returns categoryID followed by its ancestors.
func categoryChain(db *gorm.DB, categoryID uuid.UUID) ([]uuid.UUID, error) {
	chain := []uuid.UUID{}
	seen := map[uuid.UUID]bool{}
	current := &categoryID
	for current != nil && !seen[*current] {
		seen[*current] = true
		chain = append(chain, *current)

		var cat models.Category
		if err := db.Select("id", "parent_id").First(&cat, "id = ?", *current).Error; err != nil {
			if isNotFound(err) {
				break
			}
			return nil, fmt.Errorf("load category %s: %w", *current, err)
		}
		current = cat.ParentID
	}
	return chain, nil
}

func (r CommissionResolver) Resolve(productID *uuid.UUID, categoryID uuid.UUID, sellerPrice float64) (float64, error) {
	var settings []models.CommissionSetting
	if err := r.DB.Where("is_active = ?", true).Order("effective_from DESC").Find(&settings).Error; err != nil {
		return 0, fmt.Errorf("load commission settings: %w", err)
	}

	chain, err := categoryChain(r.DB, categoryID)
	if err != nil {
		return 0, err
	}

	return catalog.ResolveCommissionRate(settings, catalog.RateQuery{
		ProductID:     productID,
		CategoryChain: chain,
		SellerPrice:   sellerPrice,
		Now:           time.Now(),
	}, defaultCommissionRate()), nil
}

func applyProductPricing(p *models.Product, rate float64) {
	pricing := catalog.Calculate(p.SellerPrice, rate)
	p.CommissionRate = pricing.CommissionRate
	p.CommissionAmount = pricing.CommissionAmount
	p.CustomerPrice = pricing.CustomerPrice
}

func applyVariantPricing(v *models.ProductVariant, rate float64) {
	pricing := catalog.Calculate(v.SellerPrice, rate)
	v.CommissionRate = pricing.CommissionRate
	v.CommissionAmount = pricing.CommissionAmount
	v.CustomerPrice = pricing.CustomerPrice
}

// repriceVariants recomputes every variant of productID at rate.
func repriceVariants(tx *gorm.DB, productID uuid.UUID, rate float64) error {
	var variants []models.ProductVariant
	if err := tx.Where("product_id = ?", productID).Find(&variants).Error; err != nil {
		return err
	}
	for i := range variants {
		applyVariantPricing(&variants[i], rate)
		if err := tx.Model(&variants[i]).Updates(map[string]interface{}{
			"commission_rate":   variants[i].CommissionRate,
			"commission_amount": variants[i].CommissionAmount,
			"customer_price":    variants[i].CustomerPrice,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
