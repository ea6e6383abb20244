package models

// Product 菜品
type Product struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	Price         Money  `json:"price"`
	OriginalPrice Money  `json:"originalPrice"`
	Category      string `json:"category"`
	Featured      bool   `json:"featured"`
}
