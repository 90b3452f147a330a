package domain

import "fmt"

type Category string

const (
	CategoryCompute  Category = "compute"
	CategoryDatabase Category = "database"
	CategoryStorage  Category = "storage"
	CategoryCost     Category = "cost"
)

// Categories lists every category in the order `sync all` runs them.
var Categories = []Category{
	CategoryCompute,
	CategoryDatabase,
	CategoryStorage,
	CategoryCost,
}

// IsInventory reports whether the category describes resources rather than billing facts.
func (c Category) IsInventory() bool {
	return c == CategoryCompute || c == CategoryDatabase || c == CategoryStorage
}

func (c Category) String() string {
	return string(c)
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unsupported category: %s", s)
}
