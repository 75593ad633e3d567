package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/document"
	"github.com/ristorante/site/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores each collection in the MongoDB collection of the same
// name. Retrieval always takes the document with the newest updatedAt.
type MongoRepo struct {
	db *mongo.Database
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	// index on updatedAt keeps the "latest" lookup cheap
	for _, name := range []string{document.CollectionContent, document.CollectionTranslations} {
		idx := mongo.IndexModel{Keys: bson.D{{Key: document.KeyUpdatedAt, Value: -1}}}
		if _, err := db.Collection(name).Indexes().CreateOne(context.Background(), idx); err != nil {
			logger.Warnf("mongo: cannot create updatedAt index on %s: %v", name, err)
		}
	}
	return &MongoRepo{db: db}
}

func (m *MongoRepo) Latest(ctx context.Context, collection string) (*document.Record, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: document.KeyUpdatedAt, Value: -1}})
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, bson.M{}, opts).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo find latest %s: %w", collection, err)
	}
	return fromBSON(raw), nil
}

func (m *MongoRepo) Upsert(ctx context.Context, collection string, fields map[string]any) (*document.Record, bool, error) {
	fields = document.StripReserved(fields)
	now := time.Now().UTC()
	col := m.db.Collection(collection)

	latest, err := m.Latest(ctx, collection)
	switch {
	case errors.Is(err, ErrNotFound):
		oid := primitive.NewObjectID()
		doc := bson.M{}
		for k, v := range fields {
			doc[k] = v
		}
		doc[document.KeyID] = oid
		doc[document.KeyCreatedAt] = now
		doc[document.KeyUpdatedAt] = now
		if _, err := col.InsertOne(ctx, doc); err != nil {
			return nil, false, fmt.Errorf("mongo insert %s: %w", collection, err)
		}
		return &document.Record{ID: oid.Hex(), Fields: content.CloneTree(fields), CreatedAt: now, UpdatedAt: now}, true, nil
	case err != nil:
		return nil, false, err
	}

	set := bson.M{document.KeyUpdatedAt: now}
	for k, v := range fields {
		set[k] = v
	}
	filter := bson.M{document.KeyID: objectIDOrString(latest.ID)}
	if _, err := col.UpdateOne(ctx, filter, bson.M{"$set": set}); err != nil {
		return nil, false, fmt.Errorf("mongo update %s: %w", collection, err)
	}
	latest.Fields = content.Merge(latest.Fields, content.CloneTree(fields))
	latest.UpdatedAt = now
	return latest, false, nil
}

func objectIDOrString(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func fromBSON(raw bson.M) *document.Record {
	r := &document.Record{Fields: map[string]any{}}
	for k, v := range raw {
		switch k {
		case document.KeyID:
			r.ID = idString(v)
		case document.KeyCreatedAt:
			r.CreatedAt = asTime(v)
		case document.KeyUpdatedAt:
			r.UpdatedAt = asTime(v)
		case "__v":
		default:
			r.Fields[k] = normalize(v)
		}
	}
	return r
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return fmt.Sprint(v)
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	}
	return time.Time{}
}

// normalize turns decoded BSON into the JSON-shaped values the content
// packages expect.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}
		return out
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	}
	return v
}
