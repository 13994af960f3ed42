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

type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r PlaylistRequest) invalid() bool {
	return strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Description) == ""
}

func CreatePlaylist(c *gin.Context) {
	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.invalid() {
		abortWithError(c, http.StatusBadRequest, "name and description are required")
		return
	}

	now := time.Now()
	playlist := models.Playlist{
		Name:        req.Name,
		Description: req.Description,
		Owner:       currentUser(c).ID,
		Videos:      []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := database.Playlists().InsertOne(c.Request.Context(), playlist)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while creating new Playlist")
		return
	}
	playlist.ID = result.InsertedID.(primitive.ObjectID)

	respondOK(c, playlist, "New Playlist created successfully")
}

func GetUserPlaylists(c *gin.Context) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner": currentUser(c).ID}}},
		{{Key: "$project", Value: bson.M{
			"_id":         1,
			"name":        1,
			"description": 1,
			"videos":      1,
		}}},
	}

	ctx := c.Request.Context()
	cursor, err := database.Playlists().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while getting User playlists")
		return
	}

	playlists := []bson.M{}
	if err := cursor.All(ctx, &playlists); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while getting User playlists")
		return
	}

	respondOK(c, playlists, "User Playlists fetched successfully")
}

// GetPlaylistByID returns the playlist with each referenced video expanded
// through a nested lookup (playlist -> videos -> video owners).
func GetPlaylistByID(c *gin.Context) {
	playlistID, err := primitive.ObjectIDFromHex(c.Param("playlistId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid playlistId")
		return
	}

	ctx := c.Request.Context()

	var playlist models.Playlist
	if err := database.Playlists().FindOne(ctx, bson.M{"_id": playlistID}).Decode(&playlist); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid playlistId")
		return
	}

	if playlist.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot access this playlist as you are not owner of this playlist")
		return
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": playlistID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.VideosCollection,
			"localField":   "videos",
			"foreignField": "_id",
			"as":           "videodetail",
			"pipeline": bson.A{
				bson.M{"$lookup": bson.M{
					"from":         database.UsersCollection,
					"localField":   "owner",
					"foreignField": "_id",
					"as":           "videoowner",
				}},
				bson.M{"$addFields": bson.M{
					"ownerfullName": bson.M{"$first": "$videoowner.fullName"},
					"ownerusername": bson.M{"$first": "$videoowner.username"},
					"owneremail":    bson.M{"$first": "$videoowner.email"},
				}},
				bson.M{"$project": bson.M{
					"_id":           0,
					"title":         1,
					"views":         1,
					"videoFile":     1,
					"thumbnail":     1,
					"ownerfullName": 1,
					"ownerusername": 1,
					"owneremail":    1,
				}},
			},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"name":        1,
			"description": 1,
			"videos":      "$videodetail",
		}}},
	}

	cursor, err := database.Playlists().Aggregate(ctx, pipeline)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while getting playlist")
		return
	}

	result := []bson.M{}
	if err := cursor.All(ctx, &result); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while getting playlist")
		return
	}

	respondOK(c, result, "Playlist fetched successfully")
}

// playlistAndVideo validates both path ids and loads the playlist. Both
// resources must exist before any mutation happens.
func playlistAndVideo(c *gin.Context) (*models.Playlist, primitive.ObjectID, bool) {
	playlistID, err := primitive.ObjectIDFromHex(c.Param("playlistId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid playlistId")
		return nil, primitive.NilObjectID, false
	}
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid videoId")
		return nil, primitive.NilObjectID, false
	}

	ctx := c.Request.Context()

	var playlist models.Playlist
	if err := database.Playlists().FindOne(ctx, bson.M{"_id": playlistID}).Decode(&playlist); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid playlistId")
		return nil, primitive.NilObjectID, false
	}

	count, err := database.Videos().CountDocuments(ctx, bson.M{"_id": videoID})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Database error")
		return nil, primitive.NilObjectID, false
	}
	if count == 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid videoId")
		return nil, primitive.NilObjectID, false
	}

	return &playlist, videoID, true
}

// AddVideoToPlaylist appends through $addToSet, so adding the same video
// twice keeps a single occurrence.
func AddVideoToPlaylist(c *gin.Context) {
	playlist, videoID, ok := playlistAndVideo(c)
	if !ok {
		return
	}

	if playlist.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot add video to this playlist as you are not owner of this playlist")
		return
	}

	var updated models.Playlist
	err := database.Playlists().FindOneAndUpdate(c.Request.Context(),
		bson.M{"_id": playlist.ID},
		bson.M{
			"$addToSet": bson.M{"videos": videoID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while adding video to playlist")
		return
	}

	respondOK(c, updated, "Video added to playlist successfully")
}

func RemoveVideoFromPlaylist(c *gin.Context) {
	playlist, videoID, ok := playlistAndVideo(c)
	if !ok {
		return
	}

	if playlist.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot remove video from this playlist as you are not owner of this playlist")
		return
	}

	var updated models.Playlist
	err := database.Playlists().FindOneAndUpdate(c.Request.Context(),
		bson.M{"_id": playlist.ID},
		bson.M{
			"$pull": bson.M{"videos": videoID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while removing video from playlist")
		return
	}

	respondOK(c, updated, "Video removed from playlist successfully")
}

func DeletePlaylist(c *gin.Context) {
	playlistID, err := primitive.ObjectIDFromHex(c.Param("playlistId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid playlistId")
		return
	}

	ctx := c.Request.Context()

	var playlist models.Playlist
	if err := database.Playlists().FindOne(ctx, bson.M{"_id": playlistID}).Decode(&playlist); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid playlistId")
		return
	}

	if playlist.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot delete this playlist as you are not owner of this playlist")
		return
	}

	var deleted models.Playlist
	if err := database.Playlists().FindOneAndDelete(ctx, bson.M{"_id": playlistID}).Decode(&deleted); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while deleting this playlist")
		return
	}

	respondOK(c, deleted, "Playlist deleted successfully")
}

func UpdatePlaylist(c *gin.Context) {
	playlistID, err := primitive.ObjectIDFromHex(c.Param("playlistId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid playlistId")
		return
	}

	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.invalid() {
		abortWithError(c, http.StatusBadRequest, "name and description are required")
		return
	}

	ctx := c.Request.Context()

	var playlist models.Playlist
	if err := database.Playlists().FindOne(ctx, bson.M{"_id": playlistID}).Decode(&playlist); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid playlistId")
		return
	}

	if playlist.Owner != currentUser(c).ID {
		abortWithError(c, http.StatusBadRequest, "You cannot update this playlist as you are not owner of this playlist")
		return
	}

	var updated models.Playlist
	err = database.Playlists().FindOneAndUpdate(ctx,
		bson.M{"_id": playlistID},
		bson.M{"$set": bson.M{
			"name":        req.Name,
			"description": req.Description,
			"updatedAt":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Error while updating playlist")
		return
	}

	respondOK(c, updated, "Playlist updated successfully")
}
