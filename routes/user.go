package routes

import (
	"dream-homes-server/models"
	"dream-homes-server/storage"
	"dream-homes-server/utils"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"
)

var userRoles = []string{models.RoleUser, models.RoleOwner, models.RoleAgent}

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	role := userInput.Role
	if role == "" {
		role = models.RoleUser
	}
	if !slices.Contains(userRoles, role) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Role must be User, Owner or Agent.", ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser = models.User{
		DisplayName: userInput.DisplayName,
		Email:       strings.ToLower(userInput.Email),
		PhoneNumber: userInput.PhoneNumber,
		Password:    hashedPassword,
		Role:        role,
		SocialLogin: false,
	}

	storage.DB.Create(&newUser)

	sendVerificationEmail(&newUser)

	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existingUser models.User
	errorMsg := "Invalid email or password."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if existingUser.SocialLogin {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Social Login Account", ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	returnUser(existingUser, ctx)
}

// GoogleLoginOrSignUp verifies a Google-issued ID token against Google's
// published JWKS and creates or logs in the matching account. Google accounts
// arrive with a verified email.
func GoogleLoginOrSignUp(ctx iris.Context) {
	var userInput GoogleUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	res, httpErr := http.Get("https://www.googleapis.com/oauth2/v3/certs")
	if httpErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	defer res.Body.Close()

	body, bodyErr := io.ReadAll(res.Body)
	if bodyErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	claims, claimsErr := verifyGoogleToken(body, userInput.IdentityToken)
	if claimsErr != nil {
		if errors.Is(claimsErr, errGoogleTokenInvalid) {
			utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid user token.", ctx)
		} else {
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	email := claimString(claims, "email")
	if email == "" {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Token carried no email.", ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		user = models.User{
			DisplayName:    claimString(claims, "name"),
			Email:          strings.ToLower(email),
			PhotoURL:       claimString(claims, "picture"),
			Role:           models.RoleUser,
			SocialLogin:    true,
			SocialProvider: "Google",
			EmailVerified:  true,
		}
		storage.DB.Create(&user)

		returnUser(user, ctx)
		return
	}

	if user.SocialLogin && user.SocialProvider == "Google" {
		returnUser(user, ctx)
		return
	}

	utils.CreateEmailAlreadyRegistered(ctx)
}

// VerifyEmail flips the verified flag; the route is guarded by the
// email-token verifier, so the claims are trusted here.
func VerifyEmail(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.EmailVerificationToken)

	var user models.User
	result := storage.DB.Model(&user).Where("id = ?", claims.ID).Update("email_verified", true)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"emailVerified": true,
	})
}

func GetUser(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	user := getUserByID(id, ctx)
	if user == nil {
		return
	}

	ctx.JSON(user)
}

// UpdateUserProfile applies a partial profile update for the profile owner.
func UpdateUserProfile(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	user := getUserByID(id, ctx)
	if user == nil {
		return
	}

	var input UpdateProfileInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.PhotoURL != nil {
		user.PhotoURL = *input.PhotoURL
	}
	if input.Role != nil {
		if !slices.Contains(userRoles, *input.Role) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Role must be User, Owner or Agent.", ctx)
			return
		}
		user.Role = *input.Role
	}

	rowsUpdated := storage.DB.Save(user)
	if rowsUpdated.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(user)
}

// UploadProfilePhoto uploads one image through the media pipeline and stores
// the hosted URL on the caller's profile.
func UploadProfilePhoto(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	user := getUserByID(fmt.Sprint(claims.ID), ctx)
	if user == nil {
		return
	}

	file, _, err := ctx.FormFile("image")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Image file is required.", ctx)
		return
	}
	defer file.Close()

	data, readErr := io.ReadAll(file)
	if readErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Could not read image file.", ctx)
		return
	}

	url, uploadErr := storage.UploadImage(data, fmt.Sprintf("profile_%d", user.ID))
	if uploadErr != nil {
		utils.CreateError(iris.StatusInternalServerError, "Upload Error", "Failed to upload profile photo.", ctx)
		return
	}

	user.PhotoURL = url
	if err := storage.DB.Save(user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"imageUrl": url})
}

func GetUserSavedProperties(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	user := getUserByID(id, ctx)
	if user == nil {
		return
	}

	var savedProperties []uint
	if user.SavedProperties != nil {
		unmarshalErr := json.Unmarshal(user.SavedProperties, &savedProperties)
		if unmarshalErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	var properties []models.Property
	propertiesExist := storage.DB.Where("id IN ?", savedProperties).Find(&properties)
	if propertiesExist.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

func AlterUserSavedProperties(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	user := getUserByID(id, ctx)
	if user == nil {
		return
	}

	var req AlterSavedPropertiesInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var savedProperties []uint
	var unMarshalledProperties []uint

	if user.SavedProperties != nil {
		unmarshalErr := json.Unmarshal(user.SavedProperties, &unMarshalledProperties)
		if unmarshalErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	if req.Op == "add" {
		// Only real listings may be saved; a stale client could otherwise
		// persist dangling IDs
		var property models.Property
		propertyExists := storage.DB.Find(&property, req.PropertyID)
		if propertyExists.Error != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		if propertyExists.RowsAffected == 0 {
			utils.CreateNotFound(ctx)
			return
		}

		if !slices.Contains(unMarshalledProperties, req.PropertyID) {
			savedProperties = append(unMarshalledProperties, req.PropertyID)
		} else {
			savedProperties = unMarshalledProperties
		}
	} else if req.Op == "remove" && len(unMarshalledProperties) > 0 {
		for _, propertyID := range unMarshalledProperties {
			if req.PropertyID != propertyID {
				savedProperties = append(savedProperties, propertyID)
			}
		}
	}

	marshalledProperties, marshalErr := json.Marshal(savedProperties)
	if marshalErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user.SavedProperties = marshalledProperties

	rowsUpdated := storage.DB.Model(&user).Updates(user)
	if rowsUpdated.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

var errGoogleTokenInvalid = errors.New("identity token failed verification")

// verifyGoogleToken validates an ID token against the given JWKS document.
// A JWKS that cannot be parsed is an upstream failure and is reported as its
// own error; it must never reach the token parser, whose keyfunc would
// dereference the nil key set.
func verifyGoogleToken(jwksJSON []byte, identityToken string) (jwt.MapClaims, error) {
	jwks, err := keyfunc.NewJSON(jwksJSON)
	if err != nil {
		return nil, err
	}

	// JWKS.Keyfunc selects the key matching the token's kid and returns its
	// public key as the correct Go type
	token, err := jwt.Parse(identityToken, jwks.Keyfunc)
	if err != nil || !token.Valid {
		return nil, errGoogleTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errGoogleTokenInvalid
	}
	return claims, nil
}

// claimString returns the named claim only when it is present and a string;
// fmt.Sprint would render a missing claim as "<nil>".
func claimString(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func getUserByID(id string, ctx iris.Context) *models.User {
	var user models.User
	userExists := storage.DB.Find(&user, id)

	if userExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if userExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &user
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

func sendVerificationEmail(user *models.User) {
	token, tokenErr := utils.CreateEmailVerificationToken(user.ID, user.Email)
	if tokenErr != nil {
		log.Printf("failed to create verification token for user %d: %v", user.ID, tokenErr)
		return
	}

	link := os.Getenv("APP_BASE_URL") + "/verifyemail/" + token
	subject := "Verify your email"

	html := `
	<p>Welcome to Dream Homes! Please confirm your email address by
	clicking the link below. You must verify your email before you can
	list a property. <a href=` + link + `>Verify Email</a>
	</p><br />`

	if _, emailErr := utils.SendMail(user.Email, subject, html); emailErr != nil {
		log.Printf("failed to send verification email to user %d: %v", user.ID, emailErr)
	}
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":            user.ID,
		"displayName":   user.DisplayName,
		"email":         user.Email,
		"phoneNumber":   user.PhoneNumber,
		"photoURL":      user.PhotoURL,
		"role":          user.Role,
		"emailVerified": user.EmailVerified,
		"accessToken":   string(tokenPair.AccessToken),
		"refreshToken":  string(tokenPair.RefreshToken),
	})
}

type RegisterUserInput struct {
	DisplayName string `json:"displayName" validate:"required,max=256"`
	Email       string `json:"email" validate:"required,max=256,email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" validate:"required,min=8,max=256"`
	Role        string `json:"role"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleUserInput struct {
	IdentityToken string `json:"identityToken" validate:"required"`
}

type UpdateProfileInput struct {
	DisplayName *string `json:"displayName"`
	PhoneNumber *string `json:"phoneNumber"`
	PhotoURL    *string `json:"photoURL"`
	Role        *string `json:"role"`
}

type AlterSavedPropertiesInput struct {
	PropertyID uint   `json:"propertyID" validate:"required"`
	Op         string `json:"op" validate:"required"`
}
