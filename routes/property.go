package routes

import (
	"dream-homes-server/models"
	"dream-homes-server/services"
	"dream-homes-server/storage"
	"dream-homes-server/utils"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
)

const (
	maxListingImages  = 5
	maxUploadBodySize = 32 << 20
)

var (
	propertyTypes = []string{models.PropertyTypeHouse, models.PropertyTypeApartment, models.PropertyTypeLand}
	listingStates = []string{models.StatusForSale, models.StatusForRent}
	landFaces     = []string{"East", "West", "North", "South", "North-East", "North-West", "South-East", "South-West"}
	roadAccesses  = []string{"Pitched", "Gravel", "Soil"}
)

// CreateProperty inserts one listing from a multipart form: text fields plus
// 1-5 image files. Every image must upload before the document is written;
// a single failed upload aborts the create.
func CreateProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var owner models.User
	ownerExists := storage.DB.Find(&owner, claims.ID)
	if ownerExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if ownerExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Account no longer exists.", ctx)
		return
	}
	if !owner.EmailVerified {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Verify your email address before listing a property.", ctx)
		return
	}

	if err := ctx.Request().ParseMultipartForm(maxUploadBodySize); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid multipart form.", ctx)
		return
	}

	property := models.Property{
		OwnerID:      owner.ID,
		Title:        ctx.FormValue("title"),
		Description:  ctx.FormValue("description"),
		PropertyType: ctx.FormValue("propertyType"),
		Status:       ctx.FormValue("status"),
		Price:        ctx.FormValue("price"),
		Location:     ctx.FormValue("location"),
		Beds:         ctx.FormValue("beds"),
		Baths:        ctx.FormValue("baths"),
		Sqft:         ctx.FormValue("sqft"),
		LandArea:     ctx.FormValue("landArea"),
		LandFace:     ctx.FormValue("landFace"),
		RoadAccess:   ctx.FormValue("roadAccess"),
		RoadWidth:    ctx.FormValue("roadWidth"),

		// Owner contact snapshot, captured once; reads overlay the live profile
		OwnerName:        owner.DisplayName,
		OwnerPhotoURL:    owner.PhotoURL,
		OwnerPhoneNumber: owner.PhoneNumber,
		OwnerEmail:       owner.Email,
		OwnerRole:        owner.Role,
	}

	if errMsg := validateListingFields(&property); errMsg != "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", errMsg, ctx)
		return
	}

	facilities := ctx.Request().MultipartForm.Value["facilities"]
	if facilities == nil {
		facilities = []string{}
	}
	facilitiesJSON, _ := json.Marshal(facilities)
	property.Facilities = datatypes.JSON(facilitiesJSON)

	services.StripAttributes(&property)

	files := ctx.Request().MultipartForm.File["images"]
	if len(files) < 1 || len(files) > maxListingImages {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			fmt.Sprintf("Between 1 and %d images are required.", maxListingImages), ctx)
		return
	}

	imageURLs := make([]string, 0, len(files))
	for i, fileHeader := range files {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Bad Request", "Could not read image file.", ctx)
			return
		}
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Bad Request", "Could not read image file.", ctx)
			return
		}

		publicID := fmt.Sprintf("listing_%d_%d", time.Now().UnixMilli(), i)
		url, uploadErr := storage.UploadImage(data, publicID)
		if uploadErr != nil {
			// all-or-nothing: abandon the create, nothing was written yet
			fmt.Printf("upload failed for %s: %v\n", publicID, uploadErr)
			utils.CreateError(iris.StatusInternalServerError, "Upload Error", "Failed to upload listing images.", ctx)
			return
		}
		imageURLs = append(imageURLs, url)
	}

	imagesJSON, _ := json.Marshal(imageURLs)
	property.ImageURLs = datatypes.JSON(imagesJSON)
	property.FeaturedImageURL = imageURLs[0]

	result := storage.DB.Create(&property)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&property)
}

// GetProperty is public. The response carries the owner's live profile
// merged over the stored contact snapshot.
func GetProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	property := getPropertyByID(id, ctx)
	if property == nil {
		return
	}

	var owner models.User
	ownerExists := storage.DB.Find(&owner, property.OwnerID)

	merged := *property
	if ownerExists.Error == nil && ownerExists.RowsAffected > 0 {
		merged = services.ApplyOwnerContact(merged, &owner)
	}

	ctx.JSON(&merged)
}

// GetMyProperties lists the caller's own listings, newest first.
func GetMyProperties(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var properties []models.Property
	propertiesExist := storage.DB.
		Where("owner_id = ?", claims.ID).
		Order("created_at DESC").
		Find(&properties)

	if propertiesExist.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

// UpdateProperty applies a partial-field merge: only supplied fields change.
// Concurrent updates race with last-write-wins, same as the store itself.
func UpdateProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	property := getPropertyByID(id, ctx)
	if property == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if !services.CanMutate(claims.ID, claims.Admin, property.OwnerID) {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input services.ListingUpdate
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	services.ApplyListingUpdate(property, input)

	if errMsg := validateListingFields(property); errMsg != "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", errMsg, ctx)
		return
	}

	services.StripAttributes(property)

	rowsUpdated := storage.DB.Save(property)
	if rowsUpdated.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", rowsUpdated.Error.Error(), ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// DeleteProperty removes a listing permanently. No soft-delete: a deleted id
// is gone, and deleting it again is 404 both times.
func DeleteProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Find(&property, id)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if !services.CanMutate(claims.ID, claims.Admin, property.OwnerID) {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	propertyDeleted := storage.DB.Unscoped().Delete(&models.Property{}, id)
	if propertyDeleted.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", propertyDeleted.Error.Error(), ctx)
		return
	}

	// Best effort: orphaned media is not worth failing the delete over
	go deleteListingImages(property)

	ctx.StatusCode(iris.StatusNoContent)
}

func deleteListingImages(property models.Property) {
	if property.ImageURLs == nil {
		return
	}

	var imageURLs []string
	if err := json.Unmarshal(property.ImageURLs, &imageURLs); err != nil {
		return
	}

	for _, imageURL := range imageURLs {
		if !storage.DeleteImage(imageURL) {
			fmt.Printf("could not remove hosted image %s\n", imageURL)
		}
	}
}

func getPropertyByID(id string, ctx iris.Context) *models.Property {
	var property models.Property
	propertyExists := storage.DB.Find(&property, id)

	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &property
}

// validateListingFields checks the cross-field rules a validator tag cannot:
// required text, enum membership, and the numeric-string price.
func validateListingFields(property *models.Property) string {
	if property.Title == "" {
		return "Title is required."
	}
	if property.Description == "" {
		return "Description is required."
	}
	if property.Location == "" {
		return "Location is required."
	}
	if !slices.Contains(propertyTypes, property.PropertyType) {
		return "Property type must be House, Apartment or Land."
	}
	if !slices.Contains(listingStates, property.Status) {
		return "Status must be For Sale or For Rent."
	}
	price, priceErr := strconv.ParseFloat(property.Price, 64)
	if priceErr != nil || price < 0 {
		return "Price must be a non-negative number."
	}
	if property.PropertyType == models.PropertyTypeLand {
		if property.LandFace != "" && !slices.Contains(landFaces, property.LandFace) {
			return "Land face must be one of the eight compass directions."
		}
		if property.RoadAccess != "" && !slices.Contains(roadAccesses, property.RoadAccess) {
			return "Road access must be Pitched, Gravel or Soil."
		}
	}
	return ""
}
