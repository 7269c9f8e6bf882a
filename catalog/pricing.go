package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplace-admin/models"
)

// DefaultCommissionRate applies when no commission setting matches.
const DefaultCommissionRate = 8.0

var hundred = decimal.NewFromInt(100)

// Pricing is the full breakdown of a seller price under a commission rate.
type Pricing struct {
	SellerPrice      float64 `json:"seller_price"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	CustomerPrice    float64 `json:"customer_price"`
}

// Calculate prices sellerPrice at rate percent, rounding money to 2 decimals.
func Calculate(sellerPrice, rate float64) Pricing {
	seller := decimal.NewFromFloat(sellerPrice)
	amount := seller.Mul(decimal.NewFromFloat(rate)).Div(hundred).Round(2)
	return Pricing{
		SellerPrice:      seller.Round(2).InexactFloat64(),
		CommissionRate:   rate,
		CommissionAmount: amount.InexactFloat64(),
		CustomerPrice:    seller.Add(amount).Round(2).InexactFloat64(),
	}
}

// CustomerPrice is sellerPrice * (1 + rate/100).
func CustomerPrice(sellerPrice, rate float64) float64 {
	return Calculate(sellerPrice, rate).CustomerPrice
}

// RateQuery describes what a commission rate is being resolved for.
// CategoryChain lists the product's category first, then its ancestors.
type RateQuery struct {
	ProductID     *uuid.UUID
	CategoryChain []uuid.UUID
	SellerPrice   float64
	Now           time.Time
}

// ResolveCommissionRate picks the most specific active setting: product,
// then category walking up the chain, then global. fallback is returned when
// nothing applies.
func ResolveCommissionRate(settings []models.CommissionSetting, q RateQuery, fallback float64) float64 {
	if q.Now.IsZero() {
		q.Now = time.Now()
	}

	find := func(t models.CommissionType, entity *uuid.UUID) (float64, bool) {
		for _, s := range settings {
			if s.Type != t || !s.AppliesTo(q.SellerPrice, q.Now) {
				continue
			}
			if entity == nil || (s.EntityID != nil && *s.EntityID == *entity) {
				return s.CommissionRate, true
			}
		}
		return 0, false
	}

	if q.ProductID != nil {
		if rate, ok := find(models.CommissionTypeProduct, q.ProductID); ok {
			return rate
		}
	}
	for i := range q.CategoryChain {
		if rate, ok := find(models.CommissionTypeCategory, &q.CategoryChain[i]); ok {
			return rate
		}
	}
	if rate, ok := find(models.CommissionTypeGlobal, nil); ok {
		return rate
	}
	return fallback
}
