package dto

import (
	"fmt"
	"time"

	"github.com/mrops-br/catalog-storefront/internal/domain"
)

const reviewDateLayout = "2006-01-02"

// ReviewResponse represents a customer review with its date cut to a day
type ReviewResponse struct {
	Name    string  `json:"name"`
	Date    string  `json:"date"`
	Comment string  `json:"comment"`
	Rating  float64 `json:"rating"`
}

// ProductDetailResponse represents the product detail view
type ProductDetailResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Category    string            `json:"category"`
	InStock     bool              `json:"inStock"`
	Stock       string            `json:"stock"`
	Rating      domain.Rating     `json:"rating"`
	Tags        []string          `json:"tags"`
	Reviews     []ReviewResponse  `json:"reviews"`
	Image       string            `json:"image,omitempty"`
	Carousel    *CarouselResponse `json:"carousel,omitempty"`
}

// StockText renders availability the way the detail page shows it
func StockText(stock int) string {
	if stock > 0 {
		return fmt.Sprintf("In Stock: %d", stock)
	}
	return "Out of Stock"
}

// ReviewDate formats an RFC 3339 timestamp or a plain date as YYYY-MM-DD.
// Values in any other format are returned unchanged.
func ReviewDate(raw string) string {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format(reviewDateLayout)
	}
	if t, err := time.Parse(reviewDateLayout, raw); err == nil {
		return t.Format(reviewDateLayout)
	}
	return raw
}

// ToProductDetailResponse converts a product to its detail view. image selects
// the carousel position and must already be in range for the image list.
func ToProductDetailResponse(p *domain.Product, image int) *ProductDetailResponse {
	resp := &ProductDetailResponse{
		ID:          string(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		InStock:     p.InStock(),
		Stock:       StockText(p.Stock),
		Rating:      p.Rating,
		Tags:        append([]string{}, p.Tags...),
		Reviews:     make([]ReviewResponse, len(p.Reviews)),
	}
	for i, r := range p.Reviews {
		resp.Reviews[i] = ReviewResponse{
			Name:    r.Name,
			Date:    ReviewDate(r.Date),
			Comment: r.Comment,
			Rating:  r.Rating,
		}
	}

	switch {
	case len(p.Images) > 1:
		c, _ := domain.NewCarousel(p.Images)
		c.JumpTo(image)
		resp.Carousel = ToCarouselResponse(c)
	case len(p.Images) == 1:
		resp.Image = p.Images[0]
	}
	return resp
}

// ValidImageIndex reports whether image can be passed to ToProductDetailResponse
func ValidImageIndex(p *domain.Product, image int) bool {
	if len(p.Images) <= 1 {
		return image == 0
	}
	return image >= 0 && image < len(p.Images)
}
