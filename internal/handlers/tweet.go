package handlers

import (
	"net/http"
	"strings"
	"time"

	"videotube-api/internal/database"
	"videotube-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TweetRequest struct {
	Content string `json:"content"`
}

func CreateTweet(c *gin.Context) {
	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		abortWithError(c, http.StatusBadRequest, "tweet cannot be empty")
		return
	}

	now := time.Now()
	tweet := models.Tweet{
		Content:   req.Content,
		Owner:     currentUser(c).ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := database.Tweets().InsertOne(c.Request.Context(), tweet)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error while creating a tweet")
		return
	}
	tweet.ID = result.InsertedID.(primitive.ObjectID)

	respondOK(c, tweet, "tweet created successfully")
}

func GetUserTweets(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid User Id")
		return
	}

	ctx := c.Request.Context()

	count, err := database.Users().CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		abortWithError(c, http.StatusBadRequest, "User does not exist")
		return
	}

	cursor, err := database.Tweets().Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner": userID}}},
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching all tweets")
		return
	}

	tweets := []models.Tweet{}
	if err := cursor.All(ctx, &tweets); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching all tweets")
		return
	}

	respondOK(c, tweets, "All tweets fetched successfully")
}

func UpdateTweet(c *gin.Context) {
	tweetID, err := primitive.ObjectIDFromHex(c.Param("tweetId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid tweetId")
		return
	}

	ctx := c.Request.Context()

	var tweet models.Tweet
	if err := database.Tweets().FindOne(ctx, bson.M{"_id": tweetID}).Decode(&tweet); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid tweetId")
		return
	}
	if tweet.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot update this tweet as you are not owner of this tweet")
		return
	}

	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		abortWithError(c, http.StatusBadRequest, "Tweet cannot be empty")
		return
	}

	var updated models.Tweet
	err = database.Tweets().FindOneAndUpdate(ctx,
		bson.M{"_id": tweetID},
		bson.M{"$set": bson.M{"content": req.Content, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while updating tweet")
		return
	}

	respondOK(c, updated, "tweet updated successfully")
}

func DeleteTweet(c *gin.Context) {
	tweetID, err := primitive.ObjectIDFromHex(c.Param("tweetId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid tweetId")
		return
	}

	ctx := c.Request.Context()

	var tweet models.Tweet
	if err := database.Tweets().FindOne(ctx, bson.M{"_id": tweetID}).Decode(&tweet); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid tweetId")
		return
	}
	if tweet.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot delete this tweet as you are not owner of this tweet")
		return
	}

	var deleted models.Tweet
	if err := database.Tweets().FindOneAndDelete(ctx, bson.M{"_id": tweetID}).Decode(&deleted); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while deleting tweet")
		return
	}

	respondOK(c, deleted, "tweet deleted successfully")
}
