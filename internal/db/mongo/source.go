package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// Source fetches grid pages from one collection
type Source struct {
	client *mongo.Client
	coll   *mongo.Collection
	cols   []models.ColumnDef
	logger *zap.Logger
}

// Connect opens a client, verifies it with a ping and binds a collection
func Connect(ctx context.Context, uri, database, collection string, cols []models.ColumnDef, logger *zap.Logger) (*Source, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		client: client,
		coll:   client.Database(database).Collection(collection),
		cols:   cols,
		logger: logger.Named("mongo").With(zap.String("collection", collection)),
	}, nil
}

// Close disconnects the client
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Fetch implements the grid fetcher contract
func (s *Source) Fetch(ctx context.Context, params models.FetchParams) (models.FetchResult, error) {
	query := BuildFilter(params.Filters, params.Search, params.SearchField, s.cols)

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return models.FetchResult{}, fmt.Errorf("failed to count documents: %w", err)
	}

	cursor, err := s.coll.Find(ctx, query, FindOptions(params, s.cols))
	if err != nil {
		return models.FetchResult{}, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return models.FetchResult{}, fmt.Errorf("failed to decode documents: %w", err)
	}

	rows := make([]models.Row, len(docs))
	for i, d := range docs {
		rows[i] = Row(d)
	}
	s.logger.Debug("fetched page", zap.Int("rows", len(rows)), zap.Int64("total", total))
	return models.FetchResult{Data: rows, Total: int(total)}, nil
}

// Row converts a decoded document into plain grid values. ObjectIDs become
// hex strings and the document id is also exposed as "id" when absent.
func Row(doc bson.M) models.Row {
	row := make(models.Row, len(doc)+1)
	for k, v := range doc {
		row[k] = plain(v)
	}
	if _, ok := row["id"]; !ok {
		if id, ok := row["_id"]; ok {
			row["id"] = id
		}
	}
	return row
}

func plain(v any) any {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC().Format(time.RFC3339)
	case primitive.Decimal128:
		return x.String()
	case bson.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}
