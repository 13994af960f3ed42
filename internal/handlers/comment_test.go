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

func TestAddCommentRejectsMalformedVideoID(t *testing.T) {
	router := newRouter(testUser())
	router.POST("/comments/:videoId", AddComment)

	w := doJSON(router, http.MethodPost, "/comments/garbage", `{"message":"nice video"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid VideoId", envelope(t, w)["message"])
}

func TestUpdateCommentRejectsMalformedID(t *testing.T) {
	router := newRouter(testUser())
	router.PATCH("/comments/c/:commentId", UpdateComment)

	w := doJSON(router, http.MethodPatch, "/comments/c/garbage", `{"newmessage":"edited"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid Comment Id", envelope(t, w)["message"])
}

func TestUpdateCommentRejectsEmptyMessage(t *testing.T) {
	router := newRouter(testUser())
	router.PATCH("/comments/c/:commentId", UpdateComment)

	w := doJSON(router, http.MethodPatch, "/comments/c/"+primitive.NewObjectID().Hex(), `{"newmessage":"   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "message cannot be empty", envelope(t, w)["message"])
}

func TestAddCommentUnknownVideo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing video is rejected", func(mt *mtest.T) {
		database.DB = mt.DB

		router := newRouter(testUser())
		router.POST("/comments/:videoId", AddComment)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "videotube.videos", mtest.FirstBatch, bson.D{
			{Key: "n", Value: 0},
		}))

		w := doJSON(router, http.MethodPost, "/comments/"+primitive.NewObjectID().Hex(), `{"message":"nice video"}`)

		assert.Equal(mt, http.StatusBadRequest, w.Code)
		assert.Equal(mt, "Invalid VideoId", envelope(mt, w)["message"])
	})
}

func TestUpdateCommentByNonOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("non-owner is rejected", func(mt *mtest.T) {
		database.DB = mt.DB

		router := newRouter(testUser())
		router.PATCH("/comments/c/:commentId", UpdateComment)

		commentID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "videotube.comments", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: commentID},
			{Key: "content", Value: "first"},
			{Key: "video", Value: primitive.NewObjectID()},
			{Key: "owner", Value: primitive.NewObjectID()},
		}))

		w := doJSON(router, http.MethodPatch, "/comments/c/"+commentID.Hex(), `{"newmessage":"edited"}`)

		assert.Equal(mt, http.StatusBadRequest, w.Code)
		assert.Equal(mt, "You cannot update the comment as you are not the owner of this comment", envelope(mt, w)["message"])
	})
}
