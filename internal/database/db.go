package database

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Collection names used across the handlers. Mongoose pluralizes model names,
// so the wire-compatible collections keep those names.
const (
	UsersCollection         = "users"
	VideosCollection        = "videos"
	CommentsCollection      = "comments"
	LikesCollection         = "likes"
	TweetsCollection        = "tweets"
	PlaylistsCollection     = "playlists"
	SubscriptionsCollection = "subscriptions"
)

func InitDB() error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_NAME")
	if dbName == "" {
		dbName = "videotube"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return errors.Wrap(err, "failed to connect to mongodb")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(err, "mongodb ping failed")
	}

	Client = client
	DB = client.Database(dbName)

	logrus.Infof("Connected to MongoDB database %q", dbName)
	return nil
}

func CloseDB() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		logrus.Errorf("Error disconnecting from MongoDB: %v", err)
	}
}

func Users() *mongo.Collection         { return DB.Collection(UsersCollection) }
func Videos() *mongo.Collection        { return DB.Collection(VideosCollection) }
func Comments() *mongo.Collection      { return DB.Collection(CommentsCollection) }
func Likes() *mongo.Collection         { return DB.Collection(LikesCollection) }
func Tweets() *mongo.Collection        { return DB.Collection(TweetsCollection) }
func Playlists() *mongo.Collection     { return DB.Collection(PlaylistsCollection) }
func Subscriptions() *mongo.Collection { return DB.Collection(SubscriptionsCollection) }
