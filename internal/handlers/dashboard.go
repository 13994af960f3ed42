package handlers

import (
	"net/http"

	"videotube-api/internal/database"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetChannelStats combines three independent aggregations: subscriber count,
// cross-entity like count and video count plus view sum. An aggregation that
// matches nothing yields an empty result set, which counts as zero.
func GetChannelStats(c *gin.Context) {
	ctx := c.Request.Context()
	callerID := currentUser(c).ID

	subscriberPipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"channel": callerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":              nil,
			"totalSubscribers": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":              0,
			"totalSubscribers": 1,
		}}},
	}

	cursor, err := database.Subscriptions().Aggregate(ctx, subscriberPipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while calculating subscribers")
		return
	}
	var subscribers []struct {
		TotalSubscribers int64 `bson:"totalSubscribers"`
	}
	if err := cursor.All(ctx, &subscribers); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while calculating subscribers")
		return
	}

	// Likes on any of the caller's videos, comments or tweets: join the
	// like's possible targets, then keep likes whose resolved target owner
	// is the caller.
	likePipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         database.VideosCollection,
			"localField":   "video",
			"foreignField": "_id",
			"as":           "videodetail",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.CommentsCollection,
			"localField":   "comment",
			"foreignField": "_id",
			"as":           "commentdetail",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.TweetsCollection,
			"localField":   "tweet",
			"foreignField": "_id",
			"as":           "tweetdetail",
		}}},
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"videodetail.owner": callerID},
			bson.M{"tweetdetail.owner": callerID},
			bson.M{"commentdetail.owner": callerID},
		}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalLikes": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":        0,
			"totalLikes": 1,
		}}},
	}

	cursor, err = database.Likes().Aggregate(ctx, likePipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while calculating likes")
		return
	}
	var likes []struct {
		TotalLikes int64 `bson:"totalLikes"`
	}
	if err := cursor.All(ctx, &likes); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while calculating likes")
		return
	}

	videoPipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner": callerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"totalvideos": bson.M{"$sum": 1},
			"totalviews":  bson.M{"$sum": "$views"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"totalvideos": 1,
			"totalviews":  1,
		}}},
	}

	cursor, err = database.Videos().Aggregate(ctx, videoPipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while calculating total videos and views")
		return
	}
	var videos []struct {
		TotalVideos int64 `bson:"totalvideos"`
		TotalViews  int64 `bson:"totalviews"`
	}
	if err := cursor.All(ctx, &videos); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while calculating total videos and views")
		return
	}

	stats := gin.H{
		"views":       int64(0),
		"videos":      int64(0),
		"likes":       int64(0),
		"subscribers": int64(0),
	}
	if len(videos) > 0 {
		stats["views"] = videos[0].TotalViews
		stats["videos"] = videos[0].TotalVideos
	}
	if len(likes) > 0 {
		stats["likes"] = likes[0].TotalLikes
	}
	if len(subscribers) > 0 {
		stats["subscribers"] = subscribers[0].TotalSubscribers
	}

	respondOK(c, stats, "ChannelStats fetched successfully")
}

// GetChannelVideos lists every video the caller uploaded, projected to the
// dashboard shape.
func GetChannelVideos(c *gin.Context) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner": currentUser(c).ID}}},
		{{Key: "$project", Value: bson.M{
			"title":       1,
			"description": 1,
			"videoFile":   1,
			"thumbnail":   1,
			"views":       1,
			"isPublished": 1,
		}}},
	}

	ctx := c.Request.Context()
	cursor, err := database.Videos().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching channelVideos")
		return
	}

	videos := []bson.M{}
	if err := cursor.All(ctx, &videos); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching channelVideos")
		return
	}

	respondOK(c, videos, "Fetched all videos of the channel successfully")
}
