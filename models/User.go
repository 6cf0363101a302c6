package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser  = "User"
	RoleOwner = "Owner"
	RoleAgent = "Agent"
)

type User struct {
	gorm.Model
	DisplayName     string         `json:"displayName"`
	Email           string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber     string         `json:"phoneNumber"`
	Password        string         `json:"password"`
	PhotoURL        string         `json:"photoURL"`
	Role            string         `json:"role" gorm:"type:varchar(20);default:User"` // User, Owner, Agent (self-declared)
	IsAdmin         bool           `json:"isAdmin" gorm:"default:false"`
	EmailVerified   bool           `json:"emailVerified" gorm:"default:false"`
	SocialLogin     bool           `json:"socialLogin"`
	SocialProvider  string         `json:"socialProvider"`
	SavedProperties datatypes.JSON `json:"savedProperties"`
	Properties      []Property     `json:"properties" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling to expose SavedProperties as a plain array and keep
// the password hash off the wire
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User

	// Work on a copy so dropping fields does not touch the original
	userCopy := *u
	userCopy.Properties = nil // prevent circular reference
	userCopy.Password = ""

	aux := &struct {
		SavedProperties []uint `json:"savedProperties"`
		Password        string `json:"password,omitempty"`
		*Alias
	}{
		SavedProperties: []uint{},
		Alias:           (*Alias)(&userCopy),
	}

	if u.SavedProperties != nil {
		var saved []uint
		if err := json.Unmarshal(u.SavedProperties, &saved); err == nil {
			aux.SavedProperties = saved
		}
	}

	return json.Marshal(aux)
}
