package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shortlink/internal/config"
	"shortlink/internal/domain"
)

const collectionCounters = "counters"

type MongoRepository struct {
	client   *mongo.Client
	links    *mongo.Collection
	visits   *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepository(ctx context.Context, cfg *config.StoreConfig) (*MongoRepository, error) {
	uri, err := mongoURI(cfg.URL, cfg.Key)
	if err != nil {
		return nil, err
	}

	opts := options.Client().ApplyURI(uri).SetMaxPoolSize(uint64(cfg.MaxConns))
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	r := &MongoRepository{
		client:   client,
		links:    db.Collection(CollectionLinks),
		visits:   db.Collection(CollectionVisits),
		counters: db.Collection(collectionCounters),
	}

	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return r, nil
}

// mongoURI injects the store key as the password of the user named in rawURL.
func mongoURI(rawURL, key string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse mongo url: %w", err)
	}
	if u.User == nil || u.User.Username() == "" {
		return "", errors.New("mongo url must include a user name")
	}
	u.User = url.UserPassword(u.User.Username(), key)
	return u.String(), nil
}

func (r *MongoRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.links.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "short_code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = r.visits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "link_id", Value: 1}, {Key: "visited_at", Value: 1}},
	})
	return err
}

func (r *MongoRepository) Close() error {
	return r.client.Disconnect(context.Background())
}

// nextID allocates sequential identities per collection.
func (r *MongoRepository) nextID(ctx context.Context, collection string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (r *MongoRepository) InsertLink(ctx context.Context, link *domain.Link) error {
	id, err := r.nextID(ctx, CollectionLinks)
	if err != nil {
		return storeErr(CollectionLinks, "insert", err)
	}

	doc := *link
	doc.ID = id
	if _, err := r.links.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCode
		}
		return storeErr(CollectionLinks, "insert", err)
	}

	link.ID = id
	return nil
}

func (r *MongoRepository) FindLinkByCode(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link
	err := r.links.FindOne(ctx, bson.M{"short_code": code}).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, storeErr(CollectionLinks, "find", err)
	}
	link.CreatedAt = link.CreatedAt.UTC()
	return &link, nil
}

func (r *MongoRepository) InsertVisit(ctx context.Context, visit *domain.Visit) error {
	id, err := r.nextID(ctx, CollectionVisits)
	if err != nil {
		return storeErr(CollectionVisits, "insert", err)
	}

	doc := *visit
	doc.ID = id
	if _, err := r.visits.InsertOne(ctx, doc); err != nil {
		return storeErr(CollectionVisits, "insert", err)
	}

	visit.ID = id
	return nil
}

func (r *MongoRepository) FindVisitsByLinkID(ctx context.Context, linkID int64) ([]domain.Visit, error) {
	cursor, err := r.visits.Find(ctx,
		bson.M{"link_id": linkID},
		options.Find().SetSort(bson.D{{Key: "visited_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, storeErr(CollectionVisits, "find", err)
	}

	visits := []domain.Visit{}
	if err := cursor.All(ctx, &visits); err != nil {
		return nil, storeErr(CollectionVisits, "find", err)
	}
	for i := range visits {
		visits[i].VisitedAt = visits[i].VisitedAt.UTC()
	}
	return visits, nil
}
