package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы объявления
const (
	ListingStatusActive  = "active"
	ListingStatusPending = "pending"
	ListingStatusRented  = "rented"
)

// AnyLocation значение фильтра локации, которое означает "без фильтра"
const AnyLocation = "Any location"

// ValidListingStatus проверяет, что статус входит в допустимый набор
func ValidListingStatus(status string) bool {
	switch status {
	case ListingStatusActive, ListingStatusPending, ListingStatusRented:
		return true
	}
	return false
}

// Listing объявление о сдаче жилья
type Listing struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	UserUsername  string     `json:"user_username"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	Location      string     `json:"location"`
	Bedrooms      int        `json:"bedrooms"`
	Bathrooms     float64    `json:"bathrooms"`
	AvailableFrom time.Time  `json:"available_from"`
	Amenities     []string   `json:"amenities"`
	Images        []string   `json:"images"`
	Status        string     `json:"status"`
	Views         int        `json:"views"`
	Interested    int        `json:"interested"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// ListingInput данные для создания объявления
type ListingInput struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"required"`
	Price         float64  `json:"price" validate:"gte=0"`
	Location      string   `json:"location" validate:"required,max=200"`
	Bedrooms      int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms     float64  `json:"bathrooms" validate:"gte=0"`
	AvailableFrom DateTime `json:"available_from"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
}

// ListingPatch частичное обновление объявления.
// Неустановленные поля не изменяются.
type ListingPatch struct {
	Title         Optional[string]   `json:"title"`
	Description   Optional[string]   `json:"description"`
	Price         Optional[float64]  `json:"price"`
	Location      Optional[string]   `json:"location"`
	Bedrooms      Optional[int]      `json:"bedrooms"`
	Bathrooms     Optional[float64]  `json:"bathrooms"`
	AvailableFrom Optional[DateTime] `json:"available_from"`
	Amenities     Optional[[]string] `json:"amenities"`
	Images        Optional[[]string] `json:"images"`
	Status        Optional[string]   `json:"status"`
}

// ListingFilter параметры поиска объявлений
type ListingFilter struct {
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Location string
	Bedrooms *int
	Skip     int
	Limit    int
}
