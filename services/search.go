package services

import (
	"dream-homes-server/models"
	"sort"
	"strconv"
	"strings"
)

// SearchCriteria holds the optional listing filters. Empty fields impose no
// constraint; all supplied filters must match (logical AND).
type SearchCriteria struct {
	Query    string // case-insensitive substring against title OR description
	Type     string // exact match against propertyType
	Location string // case-insensitive substring
	Status   string // exact match
	MinPrice string // inclusive lower bound against the parsed price
	MaxPrice string // inclusive upper bound
}

// FilterProperties selects the subset of listings matching every supplied
// criterion and orders it newest first. The whole collection is filtered
// in memory in a single pass; equal timestamps keep the order the store
// returned them in.
//
// Numeric quirk kept on purpose: a price or bound that does not parse fails
// every comparison, the way NaN does. A malformed minPrice/maxPrice therefore
// silently matches nothing.
func FilterProperties(properties []models.Property, criteria SearchCriteria) []models.Property {
	query := strings.ToLower(strings.TrimSpace(criteria.Query))
	location := strings.ToLower(strings.TrimSpace(criteria.Location))

	matched := make([]models.Property, 0, len(properties))
	for _, property := range properties {
		if criteria.Status != "" && property.Status != criteria.Status {
			continue
		}
		if criteria.Type != "" && property.PropertyType != criteria.Type {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(property.Location), location) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(property.Title), query) &&
			!strings.Contains(strings.ToLower(property.Description), query) {
			continue
		}
		if criteria.MinPrice != "" || criteria.MaxPrice != "" {
			price, priceErr := strconv.ParseFloat(property.Price, 64)
			if priceErr != nil {
				continue
			}
			if criteria.MinPrice != "" {
				min, err := strconv.ParseFloat(criteria.MinPrice, 64)
				if err != nil || price < min {
					continue
				}
			}
			if criteria.MaxPrice != "" {
				max, err := strconv.ParseFloat(criteria.MaxPrice, 64)
				if err != nil || price > max {
					continue
				}
			}
		}
		matched = append(matched, property)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched
}
