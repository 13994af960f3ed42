package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"videotube-api/internal/database"
	"videotube-api/internal/models"
	"videotube-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func cookieMaxAge(envKey string, fallback time.Duration) int {
	if raw := os.Getenv(envKey); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return int(d.Seconds())
		}
	}
	return int(fallback.Seconds())
}

func setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie("accessToken", accessToken, cookieMaxAge("ACCESS_TOKEN_EXPIRY", 24*time.Hour), "/", "", false, true)
	c.SetCookie("refreshToken", refreshToken, cookieMaxAge("REFRESH_TOKEN_EXPIRY", 240*time.Hour), "/", "", false, true)
}

func clearAuthCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", false, true)
	c.SetCookie("refreshToken", "", -1, "/", "", false, true)
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "All fields are required")
		return
	}

	ctx := c.Request.Context()

	count, err := database.Users().CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": strings.ToLower(req.Username)},
		bson.M{"email": req.Email},
	}})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		abortWithError(c, http.StatusConflict, "User with email or username already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now()
	user := models.User{
		Username:  strings.ToLower(req.Username),
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  string(hashedPassword),
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := database.Users().InsertOne(ctx, user)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while registering the user")
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	user.Password = ""

	logrus.Infof("[Register] Created user %s (%s)", user.Username, user.ID.Hex())
	respondOK(c, user, "User registered successfully")
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "username or email is required")
		return
	}
	if req.Username == "" && req.Email == "" {
		abortWithError(c, http.StatusBadRequest, "username or email is required")
		return
	}

	ctx := c.Request.Context()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": strings.ToLower(req.Username)},
		bson.M{"email": req.Email},
	}}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		abortWithError(c, http.StatusNotFound, "User does not exist")
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user credentials")
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID.Hex())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	_, err = database.Users().UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"refreshToken": refreshToken}})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user.Password = ""
	user.RefreshToken = ""
	setAuthCookies(c, accessToken, refreshToken)

	respondOK(c, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "User logged In Successfully")
}

func Logout(c *gin.Context) {
	user := currentUser(c)

	_, err := database.Users().UpdateByID(c.Request.Context(), user.ID,
		bson.M{"$unset": bson.M{"refreshToken": 1}})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	clearAuthCookies(c)
	respondOK(c, nil, "User logged Out")
}

func RefreshAccessToken(c *gin.Context) {
	incoming, _ := c.Cookie("refreshToken")
	if incoming == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			incoming = body.RefreshToken
		}
	}
	if incoming == "" {
		abortWithError(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	userID, err := utils.ParseToken(incoming, os.Getenv("REFRESH_TOKEN_SECRET"))
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if user.RefreshToken != incoming {
		abortWithError(c, http.StatusUnauthorized, "Refresh token is expired or used")
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID.Hex())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	_, err = database.Users().UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"refreshToken": refreshToken}})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	setAuthCookies(c, accessToken, refreshToken)
	respondOK(c, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "Access token refreshed")
}

func GetCurrentUser(c *gin.Context) {
	respondOK(c, currentUser(c), "User fetched successfully")
}

func ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "oldPassword and newPassword are required")
		return
	}

	caller := currentUser(c)
	ctx := c.Request.Context()

	// The guard strips the password hash, so re-read it here.
	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"_id": caller.ID},
		options.FindOne().SetProjection(bson.M{"password": 1})).Decode(&user)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid old password")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	_, err = database.Users().UpdateByID(ctx, caller.ID, bson.M{"$set": bson.M{
		"password":  string(hashedPassword),
		"updatedAt": time.Now(),
	}})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	respondOK(c, nil, "Password changed successfully")
}
