package services

import (
	"testing"

	"dream-homes-server/models"

	"gorm.io/datatypes"
)

func TestCanMutate(t *testing.T) {
	cases := []struct {
		name     string
		callerID uint
		isAdmin  bool
		ownerID  uint
		want     bool
	}{
		{"owner updates own listing", 7, false, 7, true},
		{"stranger denied", 8, false, 7, false},
		{"admin overrides ownership", 99, true, 7, true},
		{"admin on own listing", 7, true, 7, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanMutate(tc.callerID, tc.isAdmin, tc.ownerID); got != tc.want {
				t.Fatalf("CanMutate(%d, %v, %d) = %v, want %v", tc.callerID, tc.isAdmin, tc.ownerID, got, tc.want)
			}
		})
	}
}

func TestApplyOwnerContactLiveProfileWins(t *testing.T) {
	property := models.Property{
		OwnerName:        "Old Name",
		OwnerPhotoURL:    "old.jpg",
		OwnerPhoneNumber: "111",
		OwnerEmail:       "old@example.com",
		OwnerRole:        models.RoleUser,
	}
	owner := models.User{
		DisplayName: "New Name",
		PhotoURL:    "new.jpg",
		PhoneNumber: "222",
		Email:       "new@example.com",
		Role:        models.RoleAgent,
	}

	merged := ApplyOwnerContact(property, &owner)

	if merged.OwnerName != "New Name" || merged.OwnerPhotoURL != "new.jpg" ||
		merged.OwnerPhoneNumber != "222" || merged.OwnerEmail != "new@example.com" ||
		merged.OwnerRole != models.RoleAgent {
		t.Fatalf("live profile did not win: %+v", merged)
	}

	// merge must not write back to the input
	if property.OwnerName != "Old Name" {
		t.Fatalf("input listing was mutated: %+v", property)
	}
}

func TestApplyOwnerContactSnapshotFillsGaps(t *testing.T) {
	property := models.Property{
		OwnerName:        "Snapshot Name",
		OwnerPhoneNumber: "111",
	}
	owner := models.User{
		DisplayName: "Live Name",
		// PhoneNumber left empty on the live profile
	}

	merged := ApplyOwnerContact(property, &owner)

	if merged.OwnerName != "Live Name" {
		t.Fatalf("expected live name, got %q", merged.OwnerName)
	}
	if merged.OwnerPhoneNumber != "111" {
		t.Fatalf("expected snapshot phone to survive, got %q", merged.OwnerPhoneNumber)
	}
}

func TestApplyOwnerContactNilOwnerKeepsSnapshot(t *testing.T) {
	property := models.Property{OwnerName: "Snapshot Name"}

	merged := ApplyOwnerContact(property, nil)

	if merged.OwnerName != "Snapshot Name" {
		t.Fatalf("expected snapshot to survive a deleted owner, got %q", merged.OwnerName)
	}
}

func strPtr(s string) *string { return &s }

func TestApplyListingUpdateOnlySuppliedFieldsChange(t *testing.T) {
	base := models.Property{
		Title:        "Sunny Villa",
		Description:  "Quiet street",
		PropertyType: models.PropertyTypeHouse,
		Status:       models.StatusForSale,
		Price:        "5000000",
		Location:     "Kathmandu",
		Beds:         "3",
		Baths:        "2",
		Sqft:         "1200",
	}

	property := base
	ApplyListingUpdate(&property, ListingUpdate{Price: strPtr("4500000")})

	if property.Price != "4500000" {
		t.Fatalf("price not applied: %q", property.Price)
	}
	if property.Title != base.Title || property.Description != base.Description ||
		property.PropertyType != base.PropertyType || property.Status != base.Status ||
		property.Location != base.Location || property.Beds != base.Beds ||
		property.Baths != base.Baths || property.Sqft != base.Sqft {
		t.Fatalf("unsupplied fields changed: %+v", property)
	}
}

func TestApplyListingUpdateEmptyUpdateIsIdentity(t *testing.T) {
	base := models.Property{
		Title:    "Sunny Villa",
		Price:    "5000000",
		LandArea: "4 aana",
	}

	property := base
	ApplyListingUpdate(&property, ListingUpdate{})

	if property.Title != base.Title || property.Price != base.Price || property.LandArea != base.LandArea {
		t.Fatalf("empty update changed the listing: %+v", property)
	}
}

func TestApplyListingUpdateReplacesFacilities(t *testing.T) {
	property := models.Property{
		PropertyType: models.PropertyTypeHouse,
		Facilities:   datatypes.JSON(`["Parking"]`),
	}

	facilities := []string{"Garden", "Solar"}
	ApplyListingUpdate(&property, ListingUpdate{Facilities: &facilities})

	if string(property.Facilities) != `["Garden","Solar"]` {
		t.Fatalf("facilities not replaced: %s", property.Facilities)
	}
}

func TestApplyListingUpdateExplicitEmptyStringClears(t *testing.T) {
	property := models.Property{Beds: "3"}

	ApplyListingUpdate(&property, ListingUpdate{Beds: strPtr("")})

	if property.Beds != "" {
		t.Fatalf("an explicit empty value must overwrite, got %q", property.Beds)
	}
}

func TestStripAttributesLandClearsBuildingFields(t *testing.T) {
	property := models.Property{
		PropertyType: models.PropertyTypeLand,
		Beds:         "3",
		Baths:        "2",
		Sqft:         "1200",
		Facilities:   datatypes.JSON(`["Parking"]`),
		LandArea:     "4 aana",
		LandFace:     "East",
	}

	StripAttributes(&property)

	if property.Beds != "" || property.Baths != "" || property.Sqft != "" || property.Facilities != nil {
		t.Fatalf("building fields survived on a land listing: %+v", property)
	}
	if property.LandArea != "4 aana" || property.LandFace != "East" {
		t.Fatalf("land fields should be untouched: %+v", property)
	}
}

func TestStripAttributesHouseClearsLandFields(t *testing.T) {
	property := models.Property{
		PropertyType: models.PropertyTypeHouse,
		Beds:         "3",
		LandArea:     "4 aana",
		LandFace:     "East",
		RoadAccess:   "Pitched",
		RoadWidth:    "12ft",
	}

	StripAttributes(&property)

	if property.LandArea != "" || property.LandFace != "" || property.RoadAccess != "" || property.RoadWidth != "" {
		t.Fatalf("land fields survived on a house listing: %+v", property)
	}
	if property.Beds != "3" {
		t.Fatalf("building fields should be untouched: %+v", property)
	}
}
