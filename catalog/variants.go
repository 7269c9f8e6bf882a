package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"marketplace-admin/models"
)

// Value is one selectable value of a variant-defining attribute.
type Value struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// VariantAttribute is an attribute flagged is_variant for a category, with its
// values in declared order.
type VariantAttribute struct {
	AttributeID uuid.UUID `json:"attribute_id"`
	Name        string    `json:"name"`
	Values      []Value   `json:"values"`
}

// VariantAttributesFromLinks keeps the links flagged is_variant whose
// attribute is loaded, in link order. Values are ordered by sort_order.
func VariantAttributesFromLinks(links []models.CategoryAttribute) []VariantAttribute {
	var attrs []VariantAttribute
	for _, l := range links {
		if !l.IsVariant || l.Attribute == nil {
			continue
		}
		values := append([]models.AttributeValue(nil), l.Attribute.Values...)
		sort.SliceStable(values, func(i, j int) bool { return values[i].SortOrder < values[j].SortOrder })

		va := VariantAttribute{AttributeID: l.AttributeID, Name: l.Attribute.Name}
		for _, v := range values {
			va.Values = append(va.Values, Value{ID: v.ID, Label: v.Value})
		}
		attrs = append(attrs, va)
	}
	return attrs
}

// Selection maps an attribute id to the ids of its selected values.
type Selection map[uuid.UUID][]uuid.UUID

// Toggle adds valueID to the attribute's selection, or removes it when
// already selected.
func (s Selection) Toggle(attrID, valueID uuid.UUID) {
	current := s[attrID]
	for i, id := range current {
		if id == valueID {
			next := append(append([]uuid.UUID(nil), current[:i]...), current[i+1:]...)
			if len(next) == 0 {
				delete(s, attrID)
			} else {
				s[attrID] = next
			}
			return
		}
	}
	s[attrID] = append(current, valueID)
}

func (s Selection) Has(attrID, valueID uuid.UUID) bool {
	for _, id := range s[attrID] {
		if id == valueID {
			return true
		}
	}
	return false
}

// Count returns the number of selected values across attributes.
func (s Selection) Count() int {
	n := 0
	for _, ids := range s {
		n += len(ids)
	}
	return n
}

// Base carries the product fields every generated row inherits.
type Base struct {
	SKU            string
	SellerPrice    float64
	CommissionRate float64
}

// VariantRow is one generated combination.
type VariantRow struct {
	VariantName   string                  `json:"variant_name"`
	SKU           string                  `json:"sku"`
	SellerPrice   float64                 `json:"seller_price"`
	CustomerPrice float64                 `json:"customer_price"`
	StockQuantity int                     `json:"stock_quantity"`
	Attributes    map[uuid.UUID]uuid.UUID `json:"attributes"`
}

type axis struct {
	attrID uuid.UUID
	values []Value
}

// GenerateVariants builds the Cartesian product of the selected values. Only
// attributes with at least one selected value take part; when none do, the
// result is empty. The first attribute varies slowest and values keep the
// attribute's declared order. Each call yields a fresh set of rows.
func GenerateVariants(base Base, attrs []VariantAttribute, sel Selection) []VariantRow {
	var axes []axis
	for _, a := range attrs {
		var picked []Value
		for _, v := range a.Values {
			if sel.Has(a.AttributeID, v.ID) {
				picked = append(picked, v)
			}
		}
		if len(picked) > 0 {
			axes = append(axes, axis{attrID: a.AttributeID, values: picked})
		}
	}
	if len(axes) == 0 {
		return []VariantRow{}
	}

	type pick struct {
		attrID uuid.UUID
		value  Value
	}
	combos := [][]pick{{}}
	for _, ax := range axes {
		next := make([][]pick, 0, len(combos)*len(ax.values))
		for _, combo := range combos {
			for _, v := range ax.values {
				extended := make([]pick, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, pick{attrID: ax.attrID, value: v}))
			}
		}
		combos = next
	}

	customer := CustomerPrice(base.SellerPrice, base.CommissionRate)
	rows := make([]VariantRow, 0, len(combos))
	for _, combo := range combos {
		labels := make([]string, len(combo))
		skuParts := make([]string, len(combo))
		mapping := make(map[uuid.UUID]uuid.UUID, len(combo))
		for i, p := range combo {
			labels[i] = p.value.Label
			skuParts[i] = skuSegment(p.value.Label)
			mapping[p.attrID] = p.value.ID
		}
		rows = append(rows, VariantRow{
			VariantName:   strings.Join(labels, " / "),
			SKU:           variantSKU(base.SKU, skuParts),
			SellerPrice:   base.SellerPrice,
			CustomerPrice: customer,
			StockQuantity: 0,
			Attributes:    mapping,
		})
	}
	return rows
}

func skuSegment(label string) string {
	return strings.ReplaceAll(strings.TrimSpace(label), " ", "-")
}

func variantSKU(base string, parts []string) string {
	suffix := strings.Join(parts, "-")
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
