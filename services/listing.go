package services

import (
	"dream-homes-server/models"
	"encoding/json"

	"gorm.io/datatypes"
)

// CanMutate reports whether the caller may update or delete the given
// listing: owners mutate their own listings, admins mutate anything. The JWT
// verifier has already rejected unauthenticated callers before this runs.
func CanMutate(callerID uint, isAdmin bool, ownerID uint) bool {
	return isAdmin || callerID == ownerID
}

// ApplyOwnerContact overlays the owner's live profile onto the contact
// snapshot stored on the listing. Live data wins; the snapshot stays as the
// fallback for owner records that no longer exist. The merge is applied to
// the response only, never written back.
func ApplyOwnerContact(property models.Property, owner *models.User) models.Property {
	if owner == nil {
		return property
	}
	if owner.DisplayName != "" {
		property.OwnerName = owner.DisplayName
	}
	if owner.PhotoURL != "" {
		property.OwnerPhotoURL = owner.PhotoURL
	}
	if owner.PhoneNumber != "" {
		property.OwnerPhoneNumber = owner.PhoneNumber
	}
	if owner.Email != "" {
		property.OwnerEmail = owner.Email
	}
	if owner.Role != "" {
		property.OwnerRole = owner.Role
	}
	return property
}

// ListingUpdate carries the optional fields of a partial listing update.
// A nil field leaves the stored value untouched.
type ListingUpdate struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	PropertyType *string   `json:"propertyType"`
	Status       *string   `json:"status"`
	Price        *string   `json:"price"`
	Location     *string   `json:"location"`
	Beds         *string   `json:"beds"`
	Baths        *string   `json:"baths"`
	Sqft         *string   `json:"sqft"`
	Facilities   *[]string `json:"facilities"`
	LandArea     *string   `json:"landArea"`
	LandFace     *string   `json:"landFace"`
	RoadAccess   *string   `json:"roadAccess"`
	RoadWidth    *string   `json:"roadWidth"`
}

// ApplyListingUpdate merges the supplied fields onto the stored listing.
// Fields the caller did not send keep their stored values.
func ApplyListingUpdate(property *models.Property, update ListingUpdate) {
	if update.Title != nil {
		property.Title = *update.Title
	}
	if update.Description != nil {
		property.Description = *update.Description
	}
	if update.PropertyType != nil {
		property.PropertyType = *update.PropertyType
	}
	if update.Status != nil {
		property.Status = *update.Status
	}
	if update.Price != nil {
		property.Price = *update.Price
	}
	if update.Location != nil {
		property.Location = *update.Location
	}
	if update.Beds != nil {
		property.Beds = *update.Beds
	}
	if update.Baths != nil {
		property.Baths = *update.Baths
	}
	if update.Sqft != nil {
		property.Sqft = *update.Sqft
	}
	if update.Facilities != nil {
		facilitiesJSON, _ := json.Marshal(*update.Facilities)
		property.Facilities = datatypes.JSON(facilitiesJSON)
	}
	if update.LandArea != nil {
		property.LandArea = *update.LandArea
	}
	if update.LandFace != nil {
		property.LandFace = *update.LandFace
	}
	if update.RoadAccess != nil {
		property.RoadAccess = *update.RoadAccess
	}
	if update.RoadWidth != nil {
		property.RoadWidth = *update.RoadWidth
	}
}

// StripAttributes clears the attribute group that does not apply to the
// listing's declared property type, so a House never persists land fields
// and a Land parcel never persists room counts.
func StripAttributes(property *models.Property) {
	if property.PropertyType == models.PropertyTypeLand {
		property.Beds = ""
		property.Baths = ""
		property.Sqft = ""
		property.Facilities = nil
	} else {
		property.LandArea = ""
		property.LandFace = ""
		property.RoadAccess = ""
		property.RoadWidth = ""
	}
}
