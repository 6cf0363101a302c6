package models

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
)

func TestPropertyJSONExposesImageArrays(t *testing.T) {
	property := Property{
		Title:            "Sunny Villa",
		PropertyType:     PropertyTypeHouse,
		ImageURLs:        datatypes.JSON(`["https://cdn.example.com/a.jpg","https://cdn.example.com/b.jpg"]`),
		FeaturedImageURL: "https://cdn.example.com/a.jpg",
		Facilities:       datatypes.JSON(`["Parking","Garden"]`),
	}

	out, err := json.Marshal(&property)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		ImageURLs        []string `json:"imageUrls"`
		FeaturedImageURL string   `json:"featuredImageUrl"`
		Facilities       []string `json:"facilities"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(decoded.ImageURLs) != 2 {
		t.Fatalf("expected 2 image urls, got %v", decoded.ImageURLs)
	}
	if decoded.FeaturedImageURL != decoded.ImageURLs[0] {
		t.Fatalf("featured image %q is not the first image %q", decoded.FeaturedImageURL, decoded.ImageURLs[0])
	}
	if len(decoded.Facilities) != 2 {
		t.Fatalf("expected 2 facilities, got %v", decoded.Facilities)
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	user := User{
		DisplayName: "Asha",
		Email:       "asha@example.com",
		Password:    "$2a$10$secrethash",
	}

	out, err := json.Marshal(&user)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if pw, ok := decoded["password"]; ok && pw != "" {
		t.Fatalf("password leaked into the JSON payload: %v", pw)
	}
	if user.Password == "" {
		t.Fatalf("marshal mutated the original user")
	}
}
