package deal

import (
	"context"
	"github.com/bitrainforest/ipfs2filecoin/pkg/model"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps a record of every accepted deal in mongo. It is optional: the
// daemon replies to callers the same way whether or not a store is wired in.
type Store struct {
	collection *mongo.Collection
}

func NewStore(ctx context.Context, uri string, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongo dealDB")
	}

	return &Store{
		collection: client.Database(database).Collection("deal_records"),
	}, nil
}

func (s *Store) Close() {
	// nolint:errcheck
	s.collection.Database().Client().Disconnect(context.Background())
}

func (s *Store) Record(ctx context.Context, record model.DealRecord) error {
	insertResult, err := s.collection.InsertOne(ctx, record)
	if err != nil {
		return errors.Wrap(err, "failed to insert deal record")
	}

	logging.Logger("deal").With("InsertedID", insertResult.InsertedID).Debug("recorded deal")
	return nil
}
