package models

import "gorm.io/gorm"

// EnquiryNotification is one buyer-to-owner message about a listing. Created
// by any visitor, mutated only to flip Read, never deleted.
type EnquiryNotification struct {
	gorm.Model
	RecipientID   uint   `json:"recipientId" gorm:"index"`
	SenderName    string `json:"senderName"`
	SenderEmail   string `json:"senderEmail"`
	SenderPhone   string `json:"senderPhone"`
	Message       string `json:"message" gorm:"type:text"`
	PropertyID    uint   `json:"propertyId"`
	PropertyTitle string `json:"propertyTitle"` // denormalized for display
	Read          bool   `json:"read" gorm:"default:false"`
}
