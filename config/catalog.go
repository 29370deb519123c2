package config

import (
	"fmt"
	"os"

	"storefront-server/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Products []catalogEntry `yaml:"products"`
}

type catalogEntry struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
}

// LoadCatalog reads the product cards shown on the page. An empty path
// yields DefaultCatalog.
func LoadCatalog(path string) ([]models.Product, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) ([]models.Product, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(file.Products))
	products := make([]models.Product, 0, len(file.Products))
	for i, entry := range file.Products {
		if entry.Name == "" {
			return nil, fmt.Errorf("catalog product %d has no name", i)
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("catalog product %q listed twice", entry.Name)
		}
		seen[entry.Name] = true

		price, err := decimal.NewFromString(entry.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog product %q: invalid price %q: %w", entry.Name, entry.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("catalog product %q: negative price", entry.Name)
		}

		products = append(products, models.Product{
			Name:        entry.Name,
			Price:       price,
			Image:       entry.Image,
			Description: entry.Description,
		})
	}
	return products, nil
}

func DefaultCatalog() []models.Product {
	return []models.Product{
		{Name: "Lavender Candle", Price: decimal.RequireFromString("12.50"), Image: "images/candle.jpg", Description: "Hand-poured soy wax"},
		{Name: "Ceramic Mug", Price: decimal.RequireFromString("9.99"), Image: "images/mug.jpg", Description: "Glazed stoneware, 350ml"},
		{Name: "Linen Tote", Price: decimal.RequireFromString("24.00"), Image: "images/tote.jpg", Description: "Natural linen, reinforced handles"},
		{Name: "Journal", Price: decimal.RequireFromString("18.75"), Image: "images/journal.jpg", Description: "Dot grid, 192 pages"},
	}
}
