package models

// Category 菜品分类
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}
