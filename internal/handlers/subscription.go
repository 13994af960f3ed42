package handlers

import (
	"net/http"
	"time"

	"videotube-api/internal/database"
	"videotube-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ToggleSubscription subscribes or unsubscribes the caller from a channel by
// existence check. The channel user itself is not verified to exist,
// matching the original behavior.
func ToggleSubscription(c *gin.Context) {
	channelID, err := primitive.ObjectIDFromHex(c.Param("channelId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid channelId")
		return
	}

	ctx := c.Request.Context()
	caller := currentUser(c)

	var existing models.Subscription
	err = database.Subscriptions().FindOne(ctx,
		bson.M{"subscriber": caller.ID, "channel": channelID}).Decode(&existing)
	if err == nil {
		var deleted models.Subscription
		if err := database.Subscriptions().FindOneAndDelete(ctx, bson.M{"_id": existing.ID}).Decode(&deleted); err != nil {
			abortWithError(c, http.StatusInternalServerError, "Error while removing subscription")
			return
		}
		respondOK(c, deleted, "Subscription removed successfully")
		return
	}
	if err != mongo.ErrNoDocuments {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()
	subscription := models.Subscription{
		Subscriber: caller.ID,
		Channel:    channelID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := database.Subscriptions().InsertOne(ctx, subscription)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while adding subscription")
		return
	}
	subscription.ID = result.InsertedID.(primitive.ObjectID)

	respondOK(c, subscription, "Subscription added successfully")
}

// GetUserChannelSubscribers collapses all of a channel's subscriber ids into
// a single array.
func GetUserChannelSubscribers(c *gin.Context) {
	channelID, err := primitive.ObjectIDFromHex(c.Param("channelId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid channelId")
		return
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"channel": channelID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"subscribers": bson.M{"$push": "$subscriber"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"subscribers": 1,
		}}},
	}

	ctx := c.Request.Context()
	cursor, err := database.Subscriptions().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error while getting subscribersList")
		return
	}

	subscribers := []bson.M{}
	if err := cursor.All(ctx, &subscribers); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error while getting subscribersList")
		return
	}

	respondOK(c, subscribers, "Subscriber list fetched successfully")
}

// GetSubscribedChannels collapses all channels a user subscribes to into a
// single array.
func GetSubscribedChannels(c *gin.Context) {
	subscriberID, err := primitive.ObjectIDFromHex(c.Param("subscriberId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid subscriberId")
		return
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"subscriber": subscriberID}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"channels": bson.M{"$push": "$channel"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"channels": 1,
		}}},
	}

	ctx := c.Request.Context()
	cursor, err := database.Subscriptions().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error while getting channelsList")
		return
	}

	channels := []bson.M{}
	if err := cursor.All(ctx, &channels); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error while getting channelsList")
		return
	}

	respondOK(c, channels, "Channel list fetched successfully")
}
