package domain

// MenuCategory groups menu items for filtering.
type MenuCategory string

const (
	CategorySnack   MenuCategory = "snack"
	CategoryMeal    MenuCategory = "meal"
	CategoryVegan   MenuCategory = "vegan"
	CategoryDessert MenuCategory = "dessert"
	CategoryDrink   MenuCategory = "drink"
)

// MenuItem is a sellable dish or drink.
type MenuItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Category    MenuCategory `json:"category"`
	Image       string       `json:"image,omitempty"`
	IsPopular   bool         `json:"isPopular"`
	IsAvailable bool         `json:"isAvailable"`
}

// MenuItemPatch is a partial menu item used by create and update calls.
type MenuItemPatch struct {
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	Price       *float64      `json:"price,omitempty"`
	Category    *MenuCategory `json:"category,omitempty"`
	Image       *string       `json:"image,omitempty"`
	IsPopular   *bool         `json:"isPopular,omitempty"`
	IsAvailable *bool         `json:"isAvailable,omitempty"`
}
