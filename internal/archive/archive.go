// Package archive stores raw scraped page text in MongoDB so a failed
// extraction can be replayed without driving the browser again. Snapshots
// compress well (dashboard text is repetitive), so they are brotli-encoded
// before insert.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/andybalholm/brotli"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// Snapshot is one captured page text blob.
type Snapshot struct {
	Platform types.Platform
	Category types.Category
	Unit     string
	Text     string
}

// Archive writes snapshots to a MongoDB collection.
type Archive struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
	count      int
}

// New connects to MongoDB and binds the snapshot collection.
func New(uri, database, collection string, logger *slog.Logger) (*Archive, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &Archive{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "archive"),
	}, nil
}

// Save compresses and stores one snapshot. Archive failures are logged by
// the caller and never fail the unit; the archive is an aid, not a
// dependency.
func (a *Archive) Save(ctx context.Context, snap Snapshot) error {
	compressed, err := compress([]byte(snap.Text))
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	doc := bson.M{
		"platform":    string(snap.Platform),
		"category":    string(snap.Category),
		"unit":        snap.Unit,
		"captured_at": time.Now().UTC(),
		"encoding":    "br",
		"text":        compressed,
		"raw_bytes":   len(snap.Text),
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}

	a.count++
	a.logger.Debug("snapshot archived",
		"unit", snap.Unit,
		"raw_bytes", len(snap.Text),
		"stored_bytes", len(compressed),
	)
	return nil
}

// Load returns the most recent snapshot text for a unit, decompressed.
func (a *Archive) Load(ctx context.Context, platform types.Platform, category types.Category, unit string) (string, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "captured_at", Value: -1}})
	filter := bson.M{
		"platform": string(platform),
		"category": string(category),
		"unit":     unit,
	}

	var doc struct {
		Text []byte `bson:"text"`
	}
	if err := a.collection.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return "", fmt.Errorf("mongodb find: %w", err)
	}

	raw, err := decompress(doc.Text)
	if err != nil {
		return "", fmt.Errorf("decompress snapshot: %w", err)
	}
	return string(raw), nil
}

// Close disconnects from MongoDB.
func (a *Archive) Close() error {
	a.logger.Info("archive closing", "snapshots", a.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
}
