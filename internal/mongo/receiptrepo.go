package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wakelyai/webchat/internal/order"
)

// ReceiptRepo implements order.ReceiptRepo using MongoDB
type ReceiptRepo struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
	logger     apt.Logger
	config     *apt.Config
}

// NewReceiptRepo creates a new MongoDB receipt repository
func NewReceiptRepo(config *apt.Config, logger apt.Logger) *ReceiptRepo {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &ReceiptRepo{
		logger: logger,
		config: config,
	}
}

// Start initializes the MongoDB connection
func (r *ReceiptRepo) Start(ctx context.Context) error {
	mongoURL, _ := r.config.GetString("db.mongo.url")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	dbName, _ := r.config.GetString("db.mongo.name")
	if dbName == "" {
		dbName = "webchat"
	}

	clientOptions := options.Client().ApplyURI(mongoURL).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	r.client = client
	r.db = client.Database(dbName)
	r.collection = r.db.Collection("receipts")

	// Latest receipt per session is looked up on every reload.
	sessionIndexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "confirmed_at", Value: -1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, sessionIndexModel); err != nil {
		return fmt.Errorf("cannot create session_id index: %w", err)
	}

	// Expired receipts are reaped by MongoDB itself.
	ttlIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, ttlIndexModel); err != nil {
		return fmt.Errorf("cannot create expires_at index: %w", err)
	}

	r.logger.Infof("Connected to MongoDB: %s, database: %s, collection: receipts", mongoURL, dbName)
	return nil
}

// Stop closes the MongoDB connection
func (r *ReceiptRepo) Stop(ctx context.Context) error {
	if r.client != nil {
		if err := r.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		r.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

// GetDatabase returns the MongoDB database instance
func (r *ReceiptRepo) GetDatabase() *mongo.Database {
	return r.db
}

// Create inserts a new receipt
func (r *ReceiptRepo) Create(ctx context.Context, receipt *order.Receipt) error {
	if receipt == nil {
		return fmt.Errorf("receipt cannot be nil")
	}

	receipt.BeforeCreate()

	doc := bson.M{
		"_id":             receipt.ID.String(),
		"session_id":      receipt.SessionID,
		"organization_id": receipt.OrganizationID,
		"order_reference": receipt.OrderReference,
		"customer_name":   receipt.CustomerName,
		"total_amount":    receipt.TotalAmount,
		"language":        receipt.Language,
		"confirmed_at":    receipt.ConfirmedAt,
		"expires_at":      receipt.ExpiresAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("cannot insert receipt: %w", err)
	}

	return nil
}

// GetBySession returns the most recent unexpired receipt for a session, or
// nil when none exists.
func (r *ReceiptRepo) GetBySession(ctx context.Context, sessionID string) (*order.Receipt, error) {
	filter := bson.M{
		"session_id": sessionID,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "confirmed_at", Value: -1}})

	var doc bson.M
	err := r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load receipt: %w", err)
	}

	return decodeReceipt(doc)
}

func decodeReceipt(doc bson.M) (*order.Receipt, error) {
	receipt := &order.Receipt{}

	if idStr, ok := doc["_id"].(string); ok && idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID format for _id: %w", err)
		}
		receipt.ID = id
	}
	if v, ok := doc["session_id"].(string); ok {
		receipt.SessionID = v
	}
	if v, ok := doc["organization_id"].(string); ok {
		receipt.OrganizationID = v
	}
	if v, ok := doc["order_reference"].(string); ok {
		receipt.OrderReference = v
	}
	if v, ok := doc["customer_name"].(string); ok {
		receipt.CustomerName = v
	}
	if v, ok := doc["total_amount"].(float64); ok {
		receipt.TotalAmount = v
	} else if v, ok := doc["total_amount"].(int32); ok {
		receipt.TotalAmount = float64(v)
	} else if v, ok := doc["total_amount"].(int64); ok {
		receipt.TotalAmount = float64(v)
	}
	if v, ok := doc["language"].(string); ok {
		receipt.Language = v
	}
	if v, ok := doc["confirmed_at"].(primitive.DateTime); ok {
		receipt.ConfirmedAt = v.Time()
	} else if v, ok := doc["confirmed_at"].(time.Time); ok {
		receipt.ConfirmedAt = v
	}
	if v, ok := doc["expires_at"].(primitive.DateTime); ok {
		receipt.ExpiresAt = v.Time()
	} else if v, ok := doc["expires_at"].(time.Time); ok {
		receipt.ExpiresAt = v
	}

	return receipt, nil
}
