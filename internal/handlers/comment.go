package handlers

import (
	"net/http"
	"strings"
	"time"

	"videotube-api/internal/database"
	"videotube-api/internal/models"
	"videotube-api/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The create body uses "message" and the update body uses "newmessage". The
// original API shipped with that inconsistency and clients depend on it.
type AddCommentRequest struct {
	Message string `json:"message"`
}

type UpdateCommentRequest struct {
	NewMessage string `json:"newmessage"`
}

// GetVideoComments lists a video's comments joined with commenter display
// fields, paginated.
func GetVideoComments(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid VideoId")
		return
	}

	skip, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"video": videoID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "commentby",
		}}},
		{{Key: "$unwind", Value: "$commentby"}},
		{{Key: "$project", Value: bson.M{
			"content": 1,
			"commentby": bson.M{
				"username": 1,
				"fullName": 1,
				"email":    1,
			},
		}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
	}

	ctx := c.Request.Context()
	cursor, err := database.Comments().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Error while getting comment List")
		return
	}

	comments := []bson.M{}
	if err := cursor.All(ctx, &comments); err != nil {
		abortWithError(c, http.StatusBadRequest, "Error while getting comment List")
		return
	}

	respondOK(c, comments, "All comments fetched successfully")
}

func AddComment(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid VideoId")
		return
	}

	ctx := c.Request.Context()

	count, err := database.Videos().CountDocuments(ctx, bson.M{"_id": videoID})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid VideoId")
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		abortWithError(c, http.StatusBadRequest, "message cannot be empty")
		return
	}

	now := time.Now()
	comment := models.Comment{
		Content:   req.Message,
		Video:     videoID,
		Owner:     currentUser(c).ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := database.Comments().InsertOne(ctx, comment)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while adding comment")
		return
	}
	comment.ID = result.InsertedID.(primitive.ObjectID)

	respondOK(c, comment, "Comment Added Successfully")
}

func UpdateComment(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid Comment Id")
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.NewMessage) == "" {
		abortWithError(c, http.StatusBadRequest, "message cannot be empty")
		return
	}

	ctx := c.Request.Context()

	var comment models.Comment
	err = database.Comments().FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid Comment Id")
		return
	}

	if comment.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot update the comment as you are not the owner of this comment")
		return
	}

	var updated models.Comment
	err = database.Comments().FindOneAndUpdate(ctx,
		bson.M{"_id": commentID},
		bson.M{"$set": bson.M{"content": req.NewMessage, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while updating comment")
		return
	}

	respondOK(c, updated, "comment updated successfully")
}

func DeleteComment(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid Comment Id")
		return
	}

	ctx := c.Request.Context()

	var comment models.Comment
	err = database.Comments().FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid Comment Id")
		return
	}

	if comment.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot delete the comment as you are not the owner of this comment")
		return
	}

	var deleted models.Comment
	if err := database.Comments().FindOneAndDelete(ctx, bson.M{"_id": commentID}).Decode(&deleted); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while deleting comment")
		return
	}

	respondOK(c, deleted, "comment deleted successfully")
}
