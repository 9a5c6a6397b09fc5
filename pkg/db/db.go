package db

import (
	"context"
	"errors"
	"fmt"

	"radiox-catalog/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps the MongoDB archive of normalized shows.
type Client struct {
	mongoClient *mongo.Client
	database    *mongo.Database
	collection  *mongo.Collection
}

// NewClient creates a new archive client. Connection problems surface in Connect.
func NewClient(connectionString, databaseName, collectionName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		return &Client{}
	}

	database := mongoClient.Database(databaseName)
	return &Client{
		mongoClient: mongoClient,
		database:    database,
		collection:  database.Collection(collectionName),
	}
}

// Connect verifies the connection to MongoDB.
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// SaveShow upserts a normalized show keyed by its id.
func (c *Client) SaveShow(ctx context.Context, show *domain.Show) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	filter := bson.M{"_id": show.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := c.collection.ReplaceOne(ctx, filter, show, opts); err != nil {
		return fmt.Errorf("save show %s: %w", show.ID, err)
	}
	return nil
}

// GetShow loads an archived show, returning ErrShowNotFound if it is absent.
func (c *Client) GetShow(ctx context.Context, id string) (*domain.Show, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	var show domain.Show
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&show)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrShowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get show %s: %w", id, err)
	}
	return &show, nil
}

// GetExistingShowIDs returns the subset of ids already present in the archive.
func (c *Client) GetExistingShowIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	cursor, err := c.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query show ids: %w", err)
	}
	defer cursor.Close(ctx)

	existing := make(map[string]bool)
	for cursor.Next(ctx) {
		var result struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&result); err != nil {
			continue
		}
		if result.ID != "" {
			existing[result.ID] = true
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return existing, nil
}
