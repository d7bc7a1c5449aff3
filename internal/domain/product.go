package domain

// Metafield keys exposed on products for faceted filtering.
const (
	MetafieldBrand        = "marca"
	MetafieldColor        = "color"
	MetafieldBatteryTech  = "tecnologia_bateria"
	MetafieldCondition    = "estado_estetico"
	MetafieldDataNetwork  = "red_de_datos"
	MetafieldOS           = "sistema_operativo"
	MetafieldSIMCapacity  = "capacidad_tarjeta_sim"
	MetafieldSubscription = "tipo_suscripcion"
)

// MetafieldKeys returns the fixed set of metafield keys, in display order.
func MetafieldKeys() []string {
	return []string{
		MetafieldBrand,
		MetafieldColor,
		MetafieldBatteryTech,
		MetafieldCondition,
		MetafieldDataNetwork,
		MetafieldOS,
		MetafieldSIMCapacity,
		MetafieldSubscription,
	}
}

// Product represents a catalog product normalized from the storefront backend.
// Products are immutable once constructed; they are re-fetched, not mutated.
type Product struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Handle      string            `json:"handle"`
	Price       float64           `json:"price"`
	OldPrice    *float64          `json:"old_price,omitempty"`
	Category    string            `json:"category,omitempty"`
	Images      []string          `json:"images"`
	IsFeatured  bool              `json:"is_featured"`
	SectionTag  string            `json:"section_tag,omitempty"`
	VariantID   string            `json:"variant_id,omitempty"`
	Metafields  map[string]string `json:"metafields,omitempty"`
}

// Metafield returns the value for the given metafield key, or "" when unset.
func (p *Product) Metafield(key string) string {
	if p.Metafields == nil {
		return ""
	}
	return p.Metafields[key]
}

// HasDiscount reports whether the product carries an old price above the current one.
func (p *Product) HasDiscount() bool {
	return p.OldPrice != nil && *p.OldPrice > p.Price
}
