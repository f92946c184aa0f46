package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/okian/extrack/internal/domain/model"
)

// Collection names used by MongoStore.
const (
	usersCollection     = "users"
	exercisesCollection = "exercises"
)

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
}

type exerciseDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Description string             `bson:"description"`
	Duration    int                `bson:"duration"`
	Date        time.Time          `bson:"date"`
}

func (d userDoc) toModel() model.User {
	return model.User{ID: d.ID.Hex(), Username: d.Username}
}

func (d exerciseDoc) toModel() model.Exercise {
	return model.Exercise{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Description: d.Description,
		Duration:    d.Duration,
		Date:        model.Day(d.Date),
	}
}

// MongoStore is a Store backed by a MongoDB database. Ids are hex-encoded
// ObjectIDs generated by the driver.
type MongoStore struct {
	client    *mongo.Client
	users     *mongo.Collection
	exercises *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to uri, verifies the connection and ensures the
// exercise index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:    client,
		users:     db.Collection(usersCollection),
		exercises: db.Collection(exercisesCollection),
	}

	_, err = s.exercises.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create exercise index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Driver() string { return "mongo" }

func (s *MongoStore) InsertUser(ctx context.Context, username string) (model.User, error) {
	doc := userDoc{ID: primitive.NewObjectID(), Username: username}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, ErrNotFound
	}

	var doc userDoc
	err = s.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]model.User, error) {
	cur, err := s.users.Find(ctx, bson.D{},
		options.Find().SetProjection(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]model.User, len(docs))
	for i, d := range docs {
		users[i] = d.toModel()
	}
	return users, nil
}

func (s *MongoStore) InsertExercise(ctx context.Context, e model.Exercise) (model.Exercise, error) {
	uid, err := primitive.ObjectIDFromHex(e.UserID)
	if err != nil {
		return model.Exercise{}, ErrNotFound
	}

	doc := exerciseDoc{
		ID:          primitive.NewObjectID(),
		UserID:      uid,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        model.Day(e.Date),
	}
	if _, err := s.exercises.InsertOne(ctx, doc); err != nil {
		return model.Exercise{}, fmt.Errorf("failed to add exercise: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) ListExercises(ctx context.Context, userID string, f model.LogFilter) ([]model.Exercise, error) {
	if f.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	filter := bson.D{{Key: "userId", Value: uid}}
	dateRange := bson.D{}
	if f.From != nil {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: model.Day(*f.From)})
	}
	if f.To != nil {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: model.Day(*f.To)})
	}
	if len(dateRange) > 0 {
		filter = append(filter, bson.E{Key: "date", Value: dateRange})
	}

	// Natural order is insertion order for a collection without deletes;
	// _id ascending makes that explicit.
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := s.exercises.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	var docs []exerciseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode exercises: %w", err)
	}

	out := make([]model.Exercise, len(docs))
	for i, d := range docs {
		out[i] = d.toModel()
	}
	return out, nil
}

func (s *MongoStore) Counts(ctx context.Context) (int64, int64, error) {
	users, err := s.users.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	exercises, err := s.exercises.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count exercises: %w", err)
	}
	return users, exercises, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes both collections. Used by tests against a scratch database.
func (s *MongoStore) Drop(ctx context.Context) error {
	if err := s.users.Drop(ctx); err != nil {
		return err
	}
	return s.exercises.Drop(ctx)
}
