package catalog

import (
	"github.com/google/uuid"

	"marketplace-admin/models"
)

// AvailableAttributes returns the attributes of all that are not yet linked
// to the category described by links. The order of all is preserved.
func AvailableAttributes(all []models.Attribute, links []models.CategoryAttribute) []models.Attribute {
	linked := make(map[uuid.UUID]struct{}, len(links))
	for _, l := range links {
		linked[l.AttributeID] = struct{}{}
	}

	available := make([]models.Attribute, 0, len(all))
	for _, a := range all {
		if _, ok := linked[a.ID]; !ok {
			available = append(available, a)
		}
	}
	return available
}

// LinkPatch is a partial update of a category-attribute link. Nil fields are
// left untouched.
type LinkPatch struct {
	IsRequired *bool `json:"is_required,omitempty"`
	IsVariant  *bool `json:"is_variant,omitempty"`
}

func (p LinkPatch) Empty() bool {
	return p.IsRequired == nil && p.IsVariant == nil
}

// Apply copies the set flags onto link.
func (p LinkPatch) Apply(link *models.CategoryAttribute) {
	if p.IsRequired != nil {
		link.IsRequired = *p.IsRequired
	}
	if p.IsVariant != nil {
		link.IsVariant = *p.IsVariant
	}
}

// Updates returns the column map for a gorm Updates call.
func (p LinkPatch) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.IsRequired != nil {
		updates["is_required"] = *p.IsRequired
	}
	if p.IsVariant != nil {
		updates["is_variant"] = *p.IsVariant
	}
	return updates
}
