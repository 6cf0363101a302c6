package routes

import (
	"dream-homes-server/models"
	"dream-homes-server/storage"
	"dream-homes-server/utils"
	"fmt"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// SendEnquiry stores one buyer-to-owner message. No auth: any visitor can
// enquire about a listing.
func SendEnquiry(ctx iris.Context) {
	var input SendEnquiryInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	propertyExists := storage.DB.Find(&property, input.PropertyID)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	notification := models.EnquiryNotification{
		RecipientID:   property.OwnerID,
		SenderName:    input.SenderName,
		SenderEmail:   input.SenderEmail,
		SenderPhone:   input.SenderPhone,
		Message:       input.Message,
		PropertyID:    property.ID,
		PropertyTitle: property.Title,
		Read:          false,
	}

	if err := storage.DB.Create(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Best effort: the enquiry is stored either way
	go notifyOwnerByEmail(property.OwnerID, notification)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"message": "Enquiry sent successfully"})
}

// GetMyNotifications lists the caller's enquiry notifications, newest first.
func GetMyNotifications(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var notifications []models.EnquiryNotification
	notificationsExist := storage.DB.
		Where("recipient_id = ?", claims.ID).
		Order("created_at DESC").
		Find(&notifications)

	if notificationsExist.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notifications)
}

// MarkNotificationRead flips the read flag on first view by the recipient.
func MarkNotificationRead(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var notification models.EnquiryNotification
	notificationExists := storage.DB.Find(&notification, id)
	if notificationExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if notificationExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if notification.RecipientID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if !notification.Read {
		if err := storage.DB.Model(&notification).Update("read", true).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func notifyOwnerByEmail(ownerID uint, notification models.EnquiryNotification) {
	var owner models.User
	if err := storage.DB.First(&owner, ownerID).Error; err != nil || owner.Email == "" {
		return
	}

	subject := "New enquiry about " + notification.PropertyTitle
	html := `
	<p>` + notification.SenderName + ` sent an enquiry about your listing
	<strong>` + notification.PropertyTitle + `</strong>:</p>
	<blockquote>` + notification.Message + `</blockquote>
	<p>Reply to: ` + notification.SenderEmail + ` / ` + notification.SenderPhone + `</p>`

	if _, err := utils.SendMail(owner.Email, subject, html); err != nil {
		fmt.Printf("failed to email enquiry notification to user %d: %v\n", ownerID, err)
	}
}

type SendEnquiryInput struct {
	SenderName  string `json:"senderName" validate:"required,max=256"`
	SenderEmail string `json:"senderEmail" validate:"omitempty,email"`
	SenderPhone string `json:"senderPhone"`
	Message     string `json:"message" validate:"required"`
	PropertyID  uint   `json:"propertyId" validate:"required"`
}
