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

// toggleLike is the shared find-then-create toggle. The existence probe and
// the create are two separate operations, so concurrent duplicate requests
// from the same caller can race; the database carries no unique index to
// stop that.
func toggleLike(c *gin.Context, targetField string, targetID primitive.ObjectID, noun string) {
	ctx := c.Request.Context()
	caller := currentUser(c)

	filter := bson.M{targetField: targetID, "likedBy": caller.ID}

	var existing models.Like
	err := database.Likes().FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		var deleted models.Like
		if err := database.Likes().FindOneAndDelete(ctx, bson.M{"_id": existing.ID}).Decode(&deleted); err != nil {
			abortWithError(c, http.StatusInternalServerError, "Error while removing like")
			return
		}
		respondOK(c, deleted, noun+" unliked successfully")
		return
	}
	if err != mongo.ErrNoDocuments {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()
	like := models.Like{
		LikedBy:   caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch targetField {
	case "video":
		like.Video = &targetID
	case "comment":
		like.Comment = &targetID
	case "tweet":
		like.Tweet = &targetID
	}

	result, err := database.Likes().InsertOne(ctx, like)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while adding like")
		return
	}
	like.ID = result.InsertedID.(primitive.ObjectID)

	respondOK(c, like, noun+" liked successfully")
}

func targetExists(c *gin.Context, coll *mongo.Collection, id primitive.ObjectID, invalidMsg string) bool {
	count, err := coll.CountDocuments(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return false
	}
	if count == 0 {
		abortWithError(c, http.StatusBadRequest, invalidMsg)
		return false
	}
	return true
}

func CheckVideoLike(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid videoId")
		return
	}
	if !targetExists(c, database.Videos(), videoID, "Invalid videoId") {
		return
	}

	err = database.Likes().FindOne(c.Request.Context(),
		bson.M{"video": videoID, "likedBy": currentUser(c).ID}).Err()
	if err == nil {
		respondOK(c, true, "You have liked this video")
		return
	}
	if err != mongo.ErrNoDocuments {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	respondOK(c, false, "You haven't liked this video")
}

func CheckCommentLike(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid commentId")
		return
	}
	if !targetExists(c, database.Comments(), commentID, "Invalid commentId") {
		return
	}

	err = database.Likes().FindOne(c.Request.Context(),
		bson.M{"comment": commentID, "likedBy": currentUser(c).ID}).Err()
	if err == nil {
		respondOK(c, true, "You have liked this comment")
		return
	}
	if err != mongo.ErrNoDocuments {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	respondOK(c, false, "You haven't liked this comment")
}

func ToggleVideoLike(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid videoId")
		return
	}
	if !targetExists(c, database.Videos(), videoID, "Invalid videoId") {
		return
	}
	toggleLike(c, "video", videoID, "video")
}

func ToggleCommentLike(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid commentId")
		return
	}
	if !targetExists(c, database.Comments(), commentID, "Invalid commentId") {
		return
	}
	toggleLike(c, "comment", commentID, "comment")
}

func ToggleTweetLike(c *gin.Context) {
	tweetID, err := primitive.ObjectIDFromHex(c.Param("tweetId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid tweetId")
		return
	}
	if !targetExists(c, database.Tweets(), tweetID, "Invalid tweetId") {
		return
	}
	toggleLike(c, "tweet", tweetID, "tweet")
}

// GetLikedVideos resolves the caller's liked videos through a nested lookup:
// likes -> videos -> video owners, flattened to the liked-video shape.
func GetLikedVideos(c *gin.Context) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"likedBy": currentUser(c).ID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.VideosCollection,
			"localField":   "video",
			"foreignField": "_id",
			"as":           "getvideo",
			"pipeline": bson.A{
				bson.M{"$lookup": bson.M{
					"from":         database.UsersCollection,
					"localField":   "owner",
					"foreignField": "_id",
					"as":           "videoowner",
				}},
				bson.M{"$addFields": bson.M{
					"author": bson.M{"$first": "$videoowner.username"},
					"avatar": bson.M{"$first": "$videoowner.avatar"},
				}},
			},
		}}},
		{{Key: "$unwind", Value: "$getvideo"}},
		{{Key: "$addFields", Value: bson.M{
			"videoid":     "$getvideo._id",
			"title":       "$getvideo.title",
			"description": "$getvideo.description",
			"videoFile":   "$getvideo.videoFile",
			"thumbnail":   "$getvideo.thumbnail",
			"ownername":   "$getvideo.author",
			"avatar":      "$getvideo.avatar",
			"owner":       "$getvideo.owner",
			"views":       "$getvideo.views",
			"isPublished": "$getvideo.isPublished",
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         1,
			"videoid":     1,
			"title":       1,
			"description": 1,
			"videoFile":   1,
			"thumbnail":   1,
			"ownername":   1,
			"owner":       1,
			"avatar":      1,
			"views":       1,
			"isPublished": 1,
		}}},
	}

	ctx := c.Request.Context()
	cursor, err := database.Likes().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching Likedvideos")
		return
	}

	videos := []bson.M{}
	if err := cursor.All(ctx, &videos); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching Likedvideos")
		return
	}

	respondOK(c, videos, "Liked videoList fetched successfully")
}
