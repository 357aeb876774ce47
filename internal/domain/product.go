package domain

// Product a catalog entry loaded from products.json. Optional fields are empty when absent.
type Product struct {
	ID          string  `json:"id" mapstructure:"id"`
	Name        string  `json:"name" mapstructure:"name"`
	Price       float64 `json:"price" mapstructure:"price"` // USD
	Image       string  `json:"image,omitempty" mapstructure:"image"`
	CategoryID  string  `json:"categoryId,omitempty" mapstructure:"categoryId"`
	Short       string  `json:"short,omitempty" mapstructure:"short"`
	Description string  `json:"description,omitempty" mapstructure:"description"`
}

// Valid reports whether the entry can be offered in the store
func (p Product) Valid() bool {
	return p.ID != "" && p.Name != "" && p.Price >= 0
}

// Category a catalog category loaded from categories.json
type Category struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
	Icon string `json:"icon,omitempty" mapstructure:"icon"`
}

func (c Category) Valid() bool {
	return c.ID != "" && c.Name != ""
}
