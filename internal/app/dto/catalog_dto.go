package dto

import (
	"github.com/mrops-br/catalog-storefront/internal/app/querystate"
	"github.com/mrops-br/catalog-storefront/internal/app/service"
	"github.com/mrops-br/catalog-storefront/internal/domain"
)

// FilterResponse mirrors the filter form
type FilterResponse struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Sort     string `json:"sort"`
	Page     int    `json:"page"`
}

// PaginationResponse drives the page controls. Both controls are disabled when
// TotalPages is zero.
type PaginationResponse struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasPrevious  bool `json:"hasPrevious"`
	HasNext      bool `json:"hasNext"`
}

// CarouselResponse is the image cursor shown for products with several images
type CarouselResponse struct {
	Images  []string `json:"images"`
	Index   int      `json:"index"`
	Current string   `json:"current"`
	AtFirst bool     `json:"atFirst"`
	AtLast  bool     `json:"atLast"`
}

// ProductCardResponse is a product tile in the listing. Carousel is set when
// the product has more than one image, otherwise Image holds the only one.
type ProductCardResponse struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Price    float64           `json:"price"`
	Category string            `json:"category"`
	Image    string            `json:"image,omitempty"`
	Carousel *CarouselResponse `json:"carousel,omitempty"`
}

// CatalogPageResponse is one rendered catalog listing
type CatalogPageResponse struct {
	Filter     FilterResponse        `json:"filter"`
	Query      string                `json:"query"`
	Status     domain.FetchStatus    `json:"status"`
	Products   []ProductCardResponse `json:"products"`
	Message    string                `json:"message,omitempty"`
	Pagination PaginationResponse    `json:"pagination"`
}

func ToFilterResponse(f domain.FilterState) FilterResponse {
	return FilterResponse{
		Search:   f.SearchQuery,
		Category: f.Category,
		Sort:     string(f.Sort),
		Page:     f.Page,
	}
}

func ToPaginationResponse(p domain.PaginationState) PaginationResponse {
	return PaginationResponse{
		CurrentPage:  p.CurrentPage,
		TotalPages:   p.TotalPages(),
		TotalItems:   p.TotalItems,
		ItemsPerPage: p.ItemsPerPage,
		HasPrevious:  p.HasPrevious(),
		HasNext:      p.HasNext(),
	}
}

// ToCarouselResponse snapshots a carousel cursor
func ToCarouselResponse(c *domain.Carousel) *CarouselResponse {
	return &CarouselResponse{
		Images:  c.Images(),
		Index:   c.Index(),
		Current: c.Current(),
		AtFirst: c.AtFirst(),
		AtLast:  c.AtLast(),
	}
}

func ToProductCardResponse(p *domain.Product) ProductCardResponse {
	card := ProductCardResponse{
		ID:       string(p.ID),
		Title:    p.Title,
		Price:    p.Price,
		Category: p.Category,
	}
	if len(p.Images) > 1 {
		c, _ := domain.NewCarousel(p.Images)
		card.Carousel = ToCarouselResponse(c)
	} else if len(p.Images) == 1 {
		card.Image = p.Images[0]
	}
	return card
}

// ToCatalogPageResponse renders a fetch result. Products is empty, never nil,
// while loading or after a failure.
func ToCatalogPageResponse(filter domain.FilterState, result service.ProductsResult, pagination domain.PaginationState) CatalogPageResponse {
	resp := CatalogPageResponse{
		Filter:     ToFilterResponse(filter),
		Query:      querystate.Encode(filter),
		Status:     result.Status,
		Products:   []ProductCardResponse{},
		Message:    result.Message,
		Pagination: ToPaginationResponse(pagination),
	}
	if result.IsSuccess() {
		for i := range result.Value.Products {
			resp.Products = append(resp.Products, ToProductCardResponse(&result.Value.Products[i]))
		}
	}
	return resp
}
