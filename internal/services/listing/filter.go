package listing

import (
	"strconv"
	"strings"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

// ParseFilter разбирает параметры запроса поиска. Пустые параметры игнорируются.
func ParseFilter(query func(key string) string) (models.ListingFilter, error) {
	f := models.ListingFilter{
		Search:   query("search"),
		Location: query("location"),
	}

	var err error
	if f.MinPrice, err = parseFloat(query, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseFloat(query, "max_price"); err != nil {
		return f, err
	}
	if f.Bedrooms, err = parseInt(query, "bedrooms"); err != nil {
		return f, err
	}

	skip, err := parseInt(query, "skip")
	if err != nil {
		return f, err
	}
	if skip != nil {
		f.Skip = *skip
	}
	limit, err := parseInt(query, "limit")
	if err != nil {
		return f, err
	}
	if limit != nil {
		f.Limit = *limit
	}

	if f.MinPrice != nil && *f.MinPrice < 0 || f.MaxPrice != nil && *f.MaxPrice < 0 {
		return f, apperr.Validation("price bounds must be greater than or equal to 0")
	}
	if f.Bedrooms != nil && *f.Bedrooms < 0 {
		return f, apperr.Validation("bedrooms must be greater than or equal to 0")
	}
	return f, nil
}

func parseFloat(query func(string) string, key string) (*float64, error) {
	raw := strings.TrimSpace(query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation(key + " must be a number")
	}
	return &v, nil
}

func parseInt(query func(string) string, key string) (*int, error) {
	raw := strings.TrimSpace(query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validation(key + " must be an integer")
	}
	return &v, nil
}
