package memory

import "github.com/mrops-br/catalog-storefront/internal/domain"

// DemoProducts is the catalog served when no remote endpoint is configured
func DemoProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "1", Title: "Trail Running Shoes", Price: 89.99, Category: "shoes",
			Description: "Lightweight shoes with a grippy outsole.",
			Images:      []string{"https://picsum.photos/seed/shoe1/600", "https://picsum.photos/seed/shoe2/600", "https://picsum.photos/seed/shoe3/600"},
			Stock:       14, Rating: domain.Rating{Rate: 4.6, Count: 2},
			Tags: []string{"running", "outdoor"},
			Reviews: []domain.Review{
				{Name: "Ana", Date: "2024-03-02T10:00:00Z", Comment: "Great grip on wet rocks.", Rating: 5},
				{Name: "Joe", Date: "2024-04-11T08:30:00Z", Comment: "Runs a bit small.", Rating: 4},
			},
		},
		{
			ID: "2", Title: "Leather Boots", Price: 149.5, Category: "shoes",
			Images: []string{"https://picsum.photos/seed/boot/600"},
			Stock:  0, Rating: domain.Rating{Rate: 4.1, Count: 0},
			Tags: []string{"winter"},
		},
		{
			ID: "3", Title: "The Go Programming Language", Price: 39.9, Category: "books",
			Description: "A book about Go.",
			Images:      []string{"https://picsum.photos/seed/gopl/600", "https://picsum.photos/seed/gopl2/600"},
			Stock:       40, Rating: domain.Rating{Rate: 4.8, Count: 1},
			Tags:    []string{"programming"},
			Reviews: []domain.Review{{Name: "Sam", Date: "2023-12-24", Comment: "Clear and concise.", Rating: 5}},
		},
		{
			ID: "4", Title: "Cast Iron Skillet", Price: 24.0, Category: "kitchen",
			Images: []string{"https://picsum.photos/seed/skillet/600"},
			Stock:  7, Rating: domain.Rating{Rate: 4.4, Count: 0},
			Tags: []string{"cookware"},
		},
		{
			ID: "5", Title: "Chef Knife", Price: 59.0, Category: "kitchen",
			Images: []string{},
			Stock:  3, Rating: domain.Rating{Rate: 4.7, Count: 0},
			Tags: []string{"cookware", "steel"},
		},
	}
}
