package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PropertyTypeHouse     = "House"
	PropertyTypeApartment = "Apartment"
	PropertyTypeLand      = "Land"

	StatusForSale = "For Sale"
	StatusForRent = "For Rent"
)

type Property struct {
	gorm.Model
	OwnerID      uint   `json:"ownerId"`
	Title        string `json:"title"`
	Description  string `json:"description" gorm:"type:text"`
	PropertyType string `json:"propertyType" gorm:"type:varchar(20);index"` // House, Apartment, Land
	Status       string `json:"status" gorm:"type:varchar(20);index"`       // For Sale, For Rent
	Price        string `json:"price"`                                      // numeric string, form precision preserved
	Location     string `json:"location"`

	// House/Apartment attributes
	Beds       string         `json:"beds"`
	Baths      string         `json:"baths"`
	Sqft       string         `json:"sqft"`
	Facilities datatypes.JSON `json:"facilities"` // JSON array of amenity tags

	// Land attributes
	LandArea   string `json:"landArea"`
	LandFace   string `json:"landFace"`   // East, West, North, South and the four diagonals
	RoadAccess string `json:"roadAccess"` // Pitched, Gravel, Soil
	RoadWidth  string `json:"roadWidth"`

	ImageURLs        datatypes.JSON `json:"imageUrls"` // JSON array of URLs, first one is the thumbnail
	FeaturedImageURL string         `json:"featuredImageUrl"`

	// Owner contact snapshot, captured at creation time. May drift from the
	// live User record; single reads overlay the live profile on top.
	OwnerName        string `json:"ownerName"`
	OwnerPhotoURL    string `json:"ownerPhotoUrl"`
	OwnerPhoneNumber string `json:"ownerPhoneNumber"`
	OwnerEmail       string `json:"ownerEmail"`
	OwnerRole        string `json:"ownerRole"`
}

// Custom JSON marshaling to convert the ImageURLs and Facilities JSON columns
// into plain arrays on the wire
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		ImageURLs  []string `json:"imageUrls"`
		Facilities []string `json:"facilities"`
		*Alias
	}{
		ImageURLs:  []string{},
		Facilities: []string{},
		Alias:      (*Alias)(p),
	}

	if p.ImageURLs != nil {
		var urls []string
		if err := json.Unmarshal(p.ImageURLs, &urls); err == nil {
			aux.ImageURLs = urls
		}
	}

	if p.Facilities != nil {
		var facilities []string
		if err := json.Unmarshal(p.Facilities, &facilities); err == nil {
			aux.Facilities = facilities
		}
	}

	return json.Marshal(aux)
}
