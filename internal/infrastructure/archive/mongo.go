// Package archive stores gateway responses for audit.
package archive

import (
	"context"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect connects to the mongodb server and returns the client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	timeout := 5 * time.Second
	opts := &options.ClientOptions{ServerSelectionTimeout: &timeout}

	client, err := mongo.Connect(ctx, opts.ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// Document is the stored shape of one gateway response.
type Document struct {
	TenantID        string         `bson:"tenant_id"`
	KbPaymentID     string         `bson:"kb_payment_id"`
	KbTransactionID string         `bson:"kb_transaction_id"`
	TransactionType string         `bson:"transaction_type"`
	Operation       string         `bson:"operation"`
	Status          string         `bson:"status,omitempty"`
	Data            map[string]any `bson:"data,omitempty"`
	Error           string         `bson:"error,omitempty"`
	ReceivedAt      time.Time      `bson:"received_at"`
}

func toDocument(e application.ArchiveEntry) Document {
	return Document{
		TenantID:        e.Key.TenantID,
		KbPaymentID:     e.Key.KbPaymentID,
		KbTransactionID: e.Key.KbTransactionID,
		TransactionType: string(e.Key.Type),
		Operation:       e.Operation,
		Status:          e.Status,
		Data:            e.Data,
		Error:           e.Error,
		ReceivedAt:      e.ReceivedAt.UTC(),
	}
}

type MongoArchive struct {
	collection *mongo.Collection
}

var _ application.ResponseArchive = (*MongoArchive)(nil)

func NewMongoArchive(client *mongo.Client, database, collection string) *MongoArchive {
	return &MongoArchive{collection: client.Database(database).Collection(collection)}
}

// Record inserts a single gateway response into the collection.
func (a *MongoArchive) Record(ctx context.Context, entry application.ArchiveEntry) error {
	_, err := a.collection.InsertOne(ctx, toDocument(entry))
	return err
}

// Noop is used when archiving is disabled.
type Noop struct{}

func (Noop) Record(context.Context, application.ArchiveEntry) error { return nil }
