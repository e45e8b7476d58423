package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/genogram/pkg/errors"
	"github.com/matzehuels/genogram/pkg/family"
)

// Collection holds one document per family.
const Collection = "families"

// MongoStore keeps families in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type document struct {
	ID        string         `bson:"_id"`
	Name      string         `bson:"name"`
	People    int            `bson:"people"`
	Family    *family.Family `bson:"family,omitempty"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

// OpenMongo connects to uri and pings the server.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(Collection)}, nil
}

func (s *MongoStore) Put(ctx context.Context, id string, fam *family.Family) (string, error) {
	id, err := prepare(id, fam)
	if err != nil {
		return "", err
	}
	doc := newDocument(id, fam, time.Now())
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeStorage, err, "save family %s", id)
	}
	return id, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "load family %s", id)
	}
	return doc.record(), nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{"family": 0}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list families")
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list families")
	}
	out := make([]Summary, len(docs))
	for i, d := range docs {
		out[i] = d.summary()
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete family %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func newDocument(id string, fam *family.Family, now time.Time) document {
	return document{
		ID:        id,
		Name:      fam.Name,
		People:    len(fam.People),
		Family:    fam,
		UpdatedAt: now.UTC().Truncate(time.Millisecond),
	}
}

func (d document) record() *Record {
	return &Record{ID: d.ID, Family: d.Family, UpdatedAt: d.UpdatedAt}
}

func (d document) summary() Summary {
	return Summary{ID: d.ID, Name: d.Name, People: d.People, UpdatedAt: d.UpdatedAt}
}

var _ Store = (*MongoStore)(nil)
