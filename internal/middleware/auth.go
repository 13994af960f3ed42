package middleware

import (
	"net/http"
	"os"
	"strings"

	"videotube-api/internal/database"
	"videotube-api/internal/models"
	"videotube-api/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserKey is the gin context key the resolved caller is stored under.
const UserKey = "user"

// AuthMiddleware resolves the caller from the accessToken cookie or the
// Authorization header and attaches the user document to the context.
// Password and refresh token never leave the database here.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("accessToken")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			c.Error(utils.NewApiError(http.StatusUnauthorized, "Unauthorized request"))
			c.Abort()
			return
		}

		userID, err := utils.ParseToken(token, os.Getenv("ACCESS_TOKEN_SECRET"))
		if err != nil {
			c.Error(utils.NewApiError(http.StatusUnauthorized, "Invalid Access Token"))
			c.Abort()
			return
		}

		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			c.Error(utils.NewApiError(http.StatusUnauthorized, "Invalid Access Token"))
			c.Abort()
			return
		}

		var user models.User
		err = database.Users().FindOne(
			c.Request.Context(),
			bson.M{"_id": oid},
			options.FindOne().SetProjection(bson.M{"password": 0, "refreshToken": 0}),
		).Decode(&user)
		if err != nil {
			c.Error(utils.NewApiError(http.StatusUnauthorized, "Invalid Access Token"))
			c.Abort()
			return
		}

		c.Set(UserKey, &user)
		c.Next()
	}
}
