package service

import (
	"github.com/shopspring/decimal"

	"ezeats/internal/model"
)

type seedItem struct {
	name, description, price string
	category             model.Category
	image                string
}

var demoMenu = []seedItem{
	{"Patisserie Valerie", "Fresh romaine lettuce with parmesan cheese and croutons", "129.99", model.CategoryAppetizers,
		"https://m.media-amazon.com/images/I/81tL1qwbxlL._AC_SX679_PIbundle-12,TopRight,0,0_SH20_.jpg"},
	{"Grilled Chicken Skewers", "Tender grilled chicken served with tzatziki sauce", "99.99", model.CategoryAppetizers,
		"https://m.media-amazon.com/images/I/81paL132tYL._AC_SX679_.jpg"},
	{"Classic Cheeseburger", "Juicy beef patty with cheese, lettuce, tomato, and onions", "149.99", model.CategoryMains,
		"https://m.media-amazon.com/images/I/81y21p9V+xL._AC_SX679_PIbundle-6,TopRight,0,0_SH20_.jpg"},
	{"Spaghetti Carbonara", "Creamy pasta with pancetta, egg yolk, and parmesan", "139.99", model.CategoryMains,
		"https://m.media-amazon.com/images/I/8155lN3xTfL._AC_SY741_.jpg"},
	{"Chocolate Lava Cake", "Warm chocolate cake with a molten center", "79.99", model.CategoryDesserts,
		"https://m.media-amazon.com/images/I/710DTLQR6fL._AC_SX679_.jpg"},
	{"Strawberry Cheesecake", "Creamy cheesecake with a strawberry glaze", "89.99", model.CategoryDesserts,
		"https://m.media-amazon.com/images/I/81I7RNBPW5L._AC_SX679_.jpg"},
	{"Lemonade", "Refreshing homemade lemonade", "29.99", model.CategoryBeverages,
		"https://m.media-amazon.com/images/I/71IOI0cbBvL._AC_SX679_.jpg"},
	{"Iced Coffee", "Cold brewed coffee with milk and ice", "34.99", model.CategoryBeverages,
		"https://m.media-amazon.com/images/I/81K3bqjA5WL._AC_SX679_PIbundle-10,TopRight,0,0_SH20_.jpg"},
	{"Falafel Platter", "Crispy falafel with hummus, tahini, and salad", "119.99", model.CategoryMains,
		"https://m.media-amazon.com/images/I/810yaqFl6lL._AC_SX679_.jpg"},
	{"Bruschetta", "Grilled bread with tomato, basil, and olive oil", "59.99", model.CategoryAppetizers,
		"https://m.media-amazon.com/images/I/71oNvpmAMYL._AC_SX679_.jpg"},
}

// DemoMenu returns a fresh copy of the demo catalog.
func DemoMenu() []model.MenuItem {
	items := make([]model.MenuItem, 0, len(demoMenu))
	for _, s := range demoMenu {
		items = append(items, model.MenuItem{
			Name:        s.name,
			Description: s.description,
			Price:       decimal.RequireFromString(s.price),
			Category:    s.category,
			Image:       s.image,
			Available:   true,
		})
	}
	return items
}
