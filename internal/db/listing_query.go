package db

import (
	"fmt"
	"strings"

	"github.com/rajivgeraev/re-lease-api/internal/models"
)

const listingColumns = `l.id, l.user_id, u.username, l.title, l.description, l.price, l.location,
	l.bedrooms, l.bathrooms, l.available_from, l.amenities, l.images, l.status,
	l.views, l.interested, l.created_at, l.updated_at`

const listingFrom = ` FROM listings l JOIN users u ON u.id = l.user_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы шаблона LIKE
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildListingQuery собирает запрос публичного поиска: только активные объявления,
// все условия объединяются через AND, новые объявления первыми.
func buildListingQuery(f models.ListingFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + listingColumns + listingFrom + ` WHERE l.status = 'active'`)

	args := []any{}
	idx := 1
	next := func(v any) string {
		args = append(args, v)
		p := fmt.Sprintf("$%d", idx)
		idx++
		return p
	}

	if f.Search != "" {
		p := next("%" + escapeLike(f.Search) + "%")
		fmt.Fprintf(&sb, ` AND (l.title ILIKE %[1]s ESCAPE '\' OR l.description ILIKE %[1]s ESCAPE '\' OR l.location ILIKE %[1]s ESCAPE '\')`, p)
	}
	if f.MinPrice != nil {
		sb.WriteString(` AND l.price >= ` + next(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		sb.WriteString(` AND l.price <= ` + next(*f.MaxPrice))
	}
	if f.Location != "" && f.Location != models.AnyLocation {
		sb.WriteString(` AND l.location = ` + next(f.Location))
	}
	if f.Bedrooms != nil {
		sb.WriteString(` AND l.bedrooms = ` + next(*f.Bedrooms))
	}

	sb.WriteString(` ORDER BY l.created_at DESC, l.id`)
	sb.WriteString(` OFFSET ` + next(f.Skip))
	sb.WriteString(` LIMIT ` + next(f.Limit))

	return sb.String(), args
}

// buildListingUpdate собирает SET часть частичного обновления.
// Поля без Set не попадают в запрос; null для amenities и images очищает список.
// Плейсхолдеры начинаются с $3: $1 и $2 заняты id объявления и владельца.
func buildListingUpdate(p models.ListingPatch) ([]string, []any) {
	var sets []string
	var args []any
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+2))
	}

	if p.Title.Set {
		add("title", p.Title.Value)
	}
	if p.Description.Set {
		add("description", p.Description.Value)
	}
	if p.Price.Set {
		add("price", p.Price.Value)
	}
	if p.Location.Set {
		add("location", p.Location.Value)
	}
	if p.Bedrooms.Set {
		add("bedrooms", p.Bedrooms.Value)
	}
	if p.Bathrooms.Set {
		add("bathrooms", p.Bathrooms.Value)
	}
	if p.AvailableFrom.Set {
		add("available_from", p.AvailableFrom.Value.Time)
	}
	if p.Amenities.Set {
		add("amenities", nonNil(p.Amenities.Value))
	}
	if p.Images.Set {
		add("images", nonNil(p.Images.Value))
	}
	if p.Status.Set {
		add("status", p.Status.Value)
	}

	sets = append(sets, "updated_at = NOW()")
	return sets, args
}
