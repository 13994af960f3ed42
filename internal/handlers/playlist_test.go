package handlers

import (
	"net/http"
	"testing"

	"videotube-api/internal/database"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCreatePlaylistRequiresNameAndDescription(t *testing.T) {
	router := newRouter(testUser())
	router.POST("/playlist", CreatePlaylist)

	w := doJSON(router, http.MethodPost, "/playlist", `{"name":"mix"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name and description are required", envelope(t, w)["message"])
}

func TestAddVideoToPlaylistRejectsMalformedPlaylistID(t *testing.T) {
	router := newRouter(testUser())
	router.PATCH("/playlist/add/:videoId/:playlistId", AddVideoToPlaylist)

	w := doJSON(router, http.MethodPatch, "/playlist/add/"+primitive.NewObjectID().Hex()+"/garbage", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid playlistId", envelope(t, w)["message"])
}

func TestAddVideoToPlaylistRejectsMalformedVideoID(t *testing.T) {
	router := newRouter(testUser())
	router.PATCH("/playlist/add/:videoId/:playlistId", AddVideoToPlaylist)

	w := doJSON(router, http.MethodPatch, "/playlist/add/garbage/"+primitive.NewObjectID().Hex(), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid videoId", envelope(t, w)["message"])
}

func TestUpdatePlaylistByNonOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("non-owner is rejected", func(mt *mtest.T) {
		database.DB = mt.DB

		router := newRouter(testUser())
		router.PATCH("/playlist/:playlistId", UpdatePlaylist)

		playlistID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "videotube.playlists", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: playlistID},
			{Key: "name", Value: "mix"},
			{Key: "description", Value: "not yours"},
			{Key: "owner", Value: primitive.NewObjectID()},
			{Key: "videos", Value: bson.A{}},
		}))

		w := doJSON(router, http.MethodPatch, "/playlist/"+playlistID.Hex(), `{"name":"mine now","description":"taken"}`)

		assert.Equal(mt, http.StatusBadRequest, w.Code)
		assert.Equal(mt, "You cannot update this playlist as you are not owner of this playlist", envelope(mt, w)["message"])
	})
}

func TestAddVideoToPlaylistAppendsOnce(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("video lands in the playlist", func(mt *mtest.T) {
		database.DB = mt.DB

		caller := testUser()
		router := newRouter(caller)
		router.PATCH("/playlist/add/:videoId/:playlistId", AddVideoToPlaylist)

		playlistID := primitive.NewObjectID()
		videoID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "videotube.playlists", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: playlistID},
				{Key: "name", Value: "mix"},
				{Key: "description", Value: "favorites"},
				{Key: "owner", Value: caller.ID},
				{Key: "videos", Value: bson.A{}},
			}),
			mtest.CreateCursorResponse(1, "videotube.videos", mtest.FirstBatch, bson.D{
				{Key: "n", Value: 1},
			}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "_id", Value: playlistID},
				{Key: "name", Value: "mix"},
				{Key: "description", Value: "favorites"},
				{Key: "owner", Value: caller.ID},
				{Key: "videos", Value: bson.A{videoID}},
			}}),
		)

		w := doJSON(router, http.MethodPatch, "/playlist/add/"+videoID.Hex()+"/"+playlistID.Hex(), "")

		assert.Equal(mt, http.StatusOK, w.Code)
		env := envelope(mt, w)
		assert.Equal(mt, "Video added to playlist successfully", env["message"])
		data := env["data"].(map[string]interface{})
		videos := data["videos"].([]interface{})
		assert.Len(mt, videos, 1)
		assert.Equal(mt, videoID.Hex(), videos[0])
	})
}
