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

func TestGetVideoByIDRejectsMalformedID(t *testing.T) {
	router := newRouter(nil)
	router.GET("/videos/:videoId", GetVideoByID)

	w := doJSON(router, http.MethodGet, "/videos/not-a-hex-id", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := envelope(t, w)
	assert.Equal(t, "videoId is Invalid", env["message"])
	assert.Equal(t, false, env["success"])
}

func TestUpdateViewsRejectsMalformedID(t *testing.T) {
	router := newRouter(nil)
	router.GET("/videos/update-views/:videoId", UpdateViews)

	w := doJSON(router, http.MethodGet, "/videos/update-views/xyz", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "videoId is Invalid", envelope(t, w)["message"])
}

func TestDeleteVideoRejectsMalformedID(t *testing.T) {
	router := newRouter(testUser())
	router.DELETE("/videos/:videoId", DeleteVideo)

	w := doJSON(router, http.MethodDelete, "/videos/xyz", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "videoId is Invalid", envelope(t, w)["message"])
}

func TestGetAllVideosRejectsMalformedUserID(t *testing.T) {
	router := newRouter(testUser())
	router.GET("/videos", GetAllVideos)

	w := doJSON(router, http.MethodGet, "/videos?userId=not-an-id", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid userId", envelope(t, w)["message"])
}

func TestPublishVideoRequiresTitleAndDescription(t *testing.T) {
	router := newRouter(testUser())
	router.POST("/videos", PublishVideo)

	w := doJSON(router, http.MethodPost, "/videos", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title and description are required", envelope(t, w)["message"])
}

func TestGetVideoByIDUnknownVideo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty aggregation result", func(mt *mtest.T) {
		database.DB = mt.DB

		router := newRouter(nil)
		router.GET("/videos/:videoId", GetVideoByID)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "videotube.videos", mtest.FirstBatch))

		w := doJSON(router, http.MethodGet, "/videos/"+primitive.NewObjectID().Hex(), "")

		assert.Equal(mt, http.StatusBadRequest, w.Code)
		assert.Equal(mt, "this video does not exists", envelope(mt, w)["message"])
	})
}

func TestDeleteVideoByNonOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("non-owner is rejected", func(mt *mtest.T) {
		database.DB = mt.DB

		caller := testUser()
		router := newRouter(caller)
		router.DELETE("/videos/:videoId", DeleteVideo)

		videoID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "videotube.videos", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: videoID},
			{Key: "title", Value: "someone elses upload"},
			{Key: "owner", Value: primitive.NewObjectID()},
		}))

		w := doJSON(router, http.MethodDelete, "/videos/"+videoID.Hex(), "")

		assert.Equal(mt, http.StatusBadRequest, w.Code)
		assert.Equal(mt, "You cannot delete this video as you are not owner of this video", envelope(mt, w)["message"])
	})
}

func TestTogglePublishStatusFlipsFlag(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("published video becomes unpublished", func(mt *mtest.T) {
		database.DB = mt.DB

		caller := testUser()
		router := newRouter(caller)
		router.PATCH("/videos/toggle/publish/:videoId", TogglePublishStatus)

		videoID := primitive.NewObjectID()
		current := bson.D{
			{Key: "_id", Value: videoID},
			{Key: "title", Value: "my upload"},
			{Key: "owner", Value: caller.ID},
			{Key: "isPublished", Value: true},
		}
		flipped := bson.D{
			{Key: "_id", Value: videoID},
			{Key: "title", Value: "my upload"},
			{Key: "owner", Value: caller.ID},
			{Key: "isPublished", Value: false},
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "videotube.videos", mtest.FirstBatch, current),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: flipped}),
		)

		w := doJSON(router, http.MethodPatch, "/videos/toggle/publish/"+videoID.Hex(), "")

		assert.Equal(mt, http.StatusOK, w.Code)
		env := envelope(mt, w)
		assert.Equal(mt, "IsPublished Toggled successfully", env["message"])
		data := env["data"].(map[string]interface{})
		assert.Equal(mt, false, data["isPublished"])
	})
}
