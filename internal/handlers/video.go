package handlers

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"videotube-api/internal/database"
	"videotube-api/internal/models"
	"videotube-api/internal/storage"
	"videotube-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// videoListProjection is the response shape shared by the two listing
// endpoints.
var videoListProjection = bson.M{
	"thumbnail":   1,
	"videoFile":   1,
	"title":       1,
	"description": 1,
	"ownername":   1,
	"owner":       1,
	"avatar":      1,
	"views":       1,
	"isPublished": 1,
}

func videoSearchMatch(query string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"title": primitive.Regex{Pattern: query, Options: "i"}},
		bson.M{"description": primitive.Regex{Pattern: query, Options: "i"}},
	}}
}

func videoSortStage(c *gin.Context) bson.D {
	sortBy := c.DefaultQuery("sortBy", "createdAt")
	sortDir := -1
	if c.Query("sortType") == "asc" {
		sortDir = 1
	}
	// Sort field is caller supplied with no whitelist, matching the
	// original behavior.
	return bson.D{{Key: "$sort", Value: bson.D{{Key: sortBy, Value: sortDir}}}}
}

// GetAll lists every video matching the search query, newest first by
// default, joined with the owner's display fields.
func GetAll(c *gin.Context) {
	skip, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: videoSearchMatch(c.Query("query"))}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "createdBy",
		}}},
		{{Key: "$unwind", Value: "$createdBy"}},
		{{Key: "$addFields", Value: bson.M{
			"ownername": "$createdBy.username",
			"avatar":    "$createdBy.avatar",
		}}},
		{{Key: "$project", Value: videoListProjection}},
		videoSortStage(c),
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
	}

	ctx := c.Request.Context()
	cursor, err := database.Videos().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching videos")
		return
	}

	videos := []bson.M{}
	if err := cursor.All(ctx, &videos); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching videos")
		return
	}

	respondOK(c, videos, "Videos Fetched Successfully")
}

// GetAllVideos lists one user's videos with the same search/sort/pagination
// conventions as GetAll.
func GetAllVideos(c *gin.Context) {
	skip, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))

	userID, err := primitive.ObjectIDFromHex(c.Query("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid userId")
		return
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$and": bson.A{
			videoSearchMatch(c.Query("query")),
			bson.M{"owner": userID},
		}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "createdBy",
		}}},
		{{Key: "$unwind", Value: "$createdBy"}},
		{{Key: "$addFields", Value: bson.M{
			"ownername": "$createdBy.username",
			"avatar":    "$createdBy.avatar",
		}}},
		{{Key: "$project", Value: videoListProjection}},
		videoSortStage(c),
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
	}

	ctx := c.Request.Context()
	cursor, err := database.Videos().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching videos")
		return
	}

	videos := []bson.M{}
	if err := cursor.All(ctx, &videos); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching videos")
		return
	}

	respondOK(c, videos, "Videos Fetched Successfully")
}

// uploadMedia spools a multipart file to a temp path and hands it to the
// object store. The temp copy is removed afterwards.
func uploadMedia(c *gin.Context, file *multipart.FileHeader, prefix string) (string, string, error) {
	ext := filepath.Ext(file.Filename)
	localPath := filepath.Join(os.TempDir(), uuid.New().String()+ext)
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		return "", "", err
	}

	objectName := prefix + "/" + uuid.New().String() + ext
	url, err := storage.UploadFile(c.Request.Context(), localPath, objectName)
	if err != nil {
		os.Remove(localPath)
		return "", "", err
	}
	return url, localPath, nil
}

// PublishVideo uploads the video file and thumbnail to object storage, probes
// the video's duration, and creates the document.
func PublishVideo(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	if title == "" || description == "" {
		abortWithError(c, http.StatusBadRequest, "title and description are required")
		return
	}

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "videoFile is required")
		return
	}
	thumbnailFile, err := c.FormFile("thumbnail")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "thumbnail is required")
		return
	}

	logrus.Infof("[Publish] Received video upload - Title: %s, File: %s, Size: %d bytes",
		title, videoFile.Filename, videoFile.Size)

	videoURL, videoLocal, err := uploadMedia(c, videoFile, "videos")
	if err != nil {
		logrus.Errorf("[Publish] videoFile upload failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error , Error while uploading videoFile")
		return
	}
	defer os.Remove(videoLocal)

	duration, err := utils.ProbeDuration(videoLocal)
	if err != nil {
		logrus.Warnf("[Publish] ffprobe failed for %s: %v", videoFile.Filename, err)
	}

	thumbnailURL, thumbnailLocal, err := uploadMedia(c, thumbnailFile, "thumbnails")
	if err != nil {
		logrus.Errorf("[Publish] thumbnail upload failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error , Error while uploading thumbnail")
		return
	}
	defer os.Remove(thumbnailLocal)

	now := time.Now()
	video := models.Video{
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Title:       title,
		Description: description,
		Duration:    duration,
		Views:       0,
		IsPublished: true,
		Owner:       currentUser(c).ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := database.Videos().InsertOne(c.Request.Context(), video)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error while Publishing Video")
		return
	}
	video.ID = result.InsertedID.(primitive.ObjectID)

	respondOK(c, video, "Video Published Successfully")
}

// GetVideoByID returns a single video joined with its owner's display fields.
func GetVideoByID(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "videoId is Invalid")
		return
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": videoID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "ownerdetails",
		}}},
		{{Key: "$unwind", Value: "$ownerdetails"}},
		{{Key: "$addFields", Value: bson.M{
			"ownername": "$ownerdetails.username",
			"avatar":    "$ownerdetails.avatar",
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         1,
			"videoFile":   1,
			"thumbnail":   1,
			"title":       1,
			"description": 1,
			"duration":    1,
			"views":       1,
			"isPublished": 1,
			"owner":       1,
			"ownername":   1,
			"avatar":      1,
		}}},
	}

	ctx := c.Request.Context()
	cursor, err := database.Videos().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching video")
		return
	}

	var videos []bson.M
	if err := cursor.All(ctx, &videos); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while fetching video")
		return
	}
	if len(videos) == 0 {
		abortWithError(c, http.StatusBadRequest, "this video does not exists")
		return
	}

	respondOK(c, videos[0], "video fetched successfully")
}

// UpdateVideo replaces title, description and thumbnail. Owner only.
func UpdateVideo(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "videoId is Invalid")
		return
	}

	ctx := c.Request.Context()

	var video models.Video
	if err := database.Videos().FindOne(ctx, bson.M{"_id": videoID}).Decode(&video); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if video.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot update this video as you are not owner of this video")
		return
	}

	thumbnailFile, err := c.FormFile("thumbnail")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "thumbnail is required")
		return
	}

	thumbnailURL, thumbnailLocal, err := uploadMedia(c, thumbnailFile, "thumbnails")
	if err != nil {
		logrus.Errorf("[Update] thumbnail upload failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error , Error while uploading thumbnail")
		return
	}
	defer os.Remove(thumbnailLocal)

	title := c.PostForm("title")
	description := c.PostForm("description")
	if title == "" || description == "" {
		abortWithError(c, http.StatusBadRequest, "All fields are required")
		return
	}

	var updated models.Video
	err = database.Videos().FindOneAndUpdate(ctx,
		bson.M{"_id": videoID},
		bson.M{"$set": bson.M{
			"title":       title,
			"description": description,
			"thumbnail":   thumbnailURL,
			"updatedAt":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while updating video")
		return
	}

	respondOK(c, updated, "video updated successfully")
}

// DeleteVideo removes the document. Owner only. Comments and likes pointing
// at it are left behind, matching the original behavior.
func DeleteVideo(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "videoId is Invalid")
		return
	}

	ctx := c.Request.Context()

	var video models.Video
	if err := database.Videos().FindOne(ctx, bson.M{"_id": videoID}).Decode(&video); err != nil {
		abortWithError(c, http.StatusInternalServerError, "this video does not exists")
		return
	}

	if video.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot delete this video as you are not owner of this video")
		return
	}

	var deleted models.Video
	if err := database.Videos().FindOneAndDelete(ctx, bson.M{"_id": videoID}).Decode(&deleted); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while deleting video")
		return
	}

	respondOK(c, deleted, "video deleted successfully")
}

// TogglePublishStatus flips isPublished. Owner only.
func TogglePublishStatus(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "videoId is Invalid")
		return
	}

	ctx := c.Request.Context()

	var video models.Video
	if err := database.Videos().FindOne(ctx, bson.M{"_id": videoID}).Decode(&video); err != nil {
		abortWithError(c, http.StatusBadRequest, "this video does not exists")
		return
	}

	if video.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot update this video as you are not owner of this video")
		return
	}

	var updated models.Video
	err = database.Videos().FindOneAndUpdate(ctx,
		bson.M{"_id": videoID},
		bson.M{"$set": bson.M{"isPublished": !video.IsPublished, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while toggling publish status")
		return
	}

	respondOK(c, updated, "IsPublished Toggled successfully")
}

// UpdateViews increments the view counter. Public, like the original.
func UpdateViews(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "videoId is Invalid")
		return
	}

	ctx := c.Request.Context()

	count, err := database.Videos().CountDocuments(ctx, bson.M{"_id": videoID})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		abortWithError(c, http.StatusBadRequest, "this video does not exists")
		return
	}

	var updated models.Video
	err = database.Videos().FindOneAndUpdate(ctx,
		bson.M{"_id": videoID},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while updating views")
		return
	}

	respondOK(c, updated, "Views updated successfully")
}
