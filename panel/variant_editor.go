package panel

import (
	"fmt"

	"github.com/google/uuid"

	"marketplace-admin/catalog"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
)

// VariantEditor backs the seller's variant grid: pick values per attribute,
// generate the combinations, then adjust prices and stock per row.
type VariantEditor struct {
	Base       catalog.Base
	Attributes []catalog.VariantAttribute
	Selection  catalog.Selection
	Rows       []catalog.VariantRow
}

// NewVariantEditor uses the category's links flagged is_variant.
func NewVariantEditor(base catalog.Base, links []models.CategoryAttribute) *VariantEditor {
	return &VariantEditor{
		Base:       base,
		Attributes: catalog.VariantAttributesFromLinks(links),
		Selection:  catalog.Selection{},
	}
}

func (e *VariantEditor) Toggle(attrID, valueID uuid.UUID) {
	e.Selection.Toggle(attrID, valueID)
}

// Generate replaces the rows with the combinations of the current
// selection. Edits made to earlier rows are discarded.
func (e *VariantEditor) Generate() []catalog.VariantRow {
	e.Rows = catalog.GenerateVariants(e.Base, e.Attributes, e.Selection)
	return e.Rows
}

// SetSellerPrice changes one row's seller price and recomputes its customer
// price at the base commission rate.
func (e *VariantEditor) SetSellerPrice(i int, price float64) error {
	if i < 0 || i >= len(e.Rows) {
		return fmt.Errorf("variant row %d out of range", i)
	}
	e.Rows[i].SellerPrice = price
	e.Rows[i].CustomerPrice = catalog.CustomerPrice(price, e.Base.CommissionRate)
	return nil
}

func (e *VariantEditor) SetStock(i int, qty int) error {
	if i < 0 || i >= len(e.Rows) {
		return fmt.Errorf("variant row %d out of range", i)
	}
	e.Rows[i].StockQuantity = qty
	return nil
}

// Requests maps the rows to the backend's variant input, attributes in
// attribute order.
func (e *VariantEditor) Requests() []dtos.VariantInput {
	inputs := make([]dtos.VariantInput, 0, len(e.Rows))
	for _, row := range e.Rows {
		in := dtos.VariantInput{
			VariantName:   row.VariantName,
			SKU:           row.SKU,
			SellerPrice:   row.SellerPrice,
			StockQuantity: row.StockQuantity,
		}
		for _, a := range e.Attributes {
			if valueID, ok := row.Attributes[a.AttributeID]; ok {
				in.Attributes = append(in.Attributes, dtos.VariantAttributeInput{
					AttributeID:      a.AttributeID,
					AttributeValueID: valueID,
				})
			}
		}
		inputs = append(inputs, in)
	}
	return inputs
}
