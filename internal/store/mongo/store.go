// Package mongo implements the ledger store on MongoDB. Each unit of work is one
// multi-document transaction with manual commit and abort; concurrent writers to the
// same document surface as write conflicts, which abort the unit.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

const (
	collUsers           = "users"
	collTransactions    = "transactions"
	collConsentRequests = "consentRequests"
	collInventory       = "inventory"
	collEmergencyCases  = "emergencyCases"
	collExchanges       = "exchanges"
)

// Error labels the server attaches when a transaction cannot be committed as a whole.
const (
	labelTransientTransaction = "TransientTransactionError"
	labelUnknownCommitResult  = "UnknownTransactionCommitResult"
)

const codeWriteConflict = 112

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

func New(client *mongo.Client, database string, logger *zap.Logger) *Store {
	return &Store{client: client, db: client.Database(database), logger: logger}
}

// EnsureIndexes creates the unique keys the ledger relies on plus the lookup indexes
// used by the readers.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collInventory: {
			{Keys: bson.D{{Key: "organizationId", Value: 1}, {Key: "bloodType", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collTransactions: {
			{Keys: bson.D{{Key: "donorId", Value: 1}, {Key: "recordedAt", Value: -1}}},
			{Keys: bson.D{{Key: "creditOwnerId", Value: 1}, {Key: "recordedAt", Value: -1}}},
			{Keys: bson.D{{Key: "beneficiaryId", Value: 1}, {Key: "recordedAt", Value: -1}}},
		},
		collConsentRequests: {
			{Keys: bson.D{{Key: "creditOwnerId", Value: 1}, {Key: "status", Value: 1}}},
		},
	}

	var errs []error
	for coll, idx := range indexes {
		s.logger.Debug("[STORE] ensuring mongo indexes", zap.String("collection", coll), zap.Int("count", len(idx)))
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			errs = append(errs, fmt.Errorf("create indexes on %s: %w", coll, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) RunAtomic(ctx context.Context, work store.Work) error {
	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	return s.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(txOpts); err != nil {
			return fmt.Errorf("start transaction: %w", err)
		}

		if err := work(sc, &mongoTx{db: s.db}); err != nil {
			s.abort(sc)
			return classify(err)
		}

		if err := sc.CommitTransaction(sc); err != nil {
			s.logger.Warn("[STORE] commit failed", zap.Error(err))
			s.abort(sc)
			return classify(fmt.Errorf("commit transaction: %w", err))
		}
		return nil
	})
}

func (s *Store) abort(sc mongo.SessionContext) {
	if err := sc.AbortTransaction(context.Background()); err != nil {
		s.logger.Debug("[STORE] abort transaction", zap.Error(err))
	}
}

// classify turns write conflicts and ambiguous commits into *store.TransactionError.
func classify(err error) error {
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorLabel(labelTransientTransaction) || se.HasErrorLabel(labelUnknownCommitResult)) {
		return &store.TransactionError{Err: err}
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	opts := options.FindOne().SetProjection(recentEventsProjection())
	if err := s.db.Collection(collUsers).FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func recentEventsProjection() bson.M {
	return bson.M{"credits.events": bson.M{"$slice": -store.RecentCreditEvents}}
}

func (s *Store) ListUserTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = store.DefaultTransactionLimit
	}

	opts := options.Find().SetSort(bson.D{{Key: "recordedAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := s.db.Collection(collTransactions).Find(ctx, userTransactionsFilter(userID), opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}

	result := make([]models.Transaction, 0)
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return result, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.Collection(collTransactions).FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) ListInventory(ctx context.Context, organizationID string) ([]models.InventoryRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "bloodType", Value: 1}}).
		SetProjection(bson.M{"movements": 0})
	cur, err := s.db.Collection(collInventory).Find(ctx, bson.M{"organizationId": organizationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find inventory: %w", err)
	}

	result := make([]models.InventoryRecord, 0)
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return result, nil
}

func (s *Store) GetInventoryRecord(ctx context.Context, organizationID string, bloodType models.BloodType) (*models.InventoryRecord, error) {
	var rec models.InventoryRecord
	err := s.db.Collection(collInventory).
		FindOne(ctx, bson.M{"organizationId": organizationID, "bloodType": bloodType}).
		Decode(&rec)
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func (s *Store) GetConsentRequest(ctx context.Context, id string) (*models.ConsentRequest, error) {
	return findConsentRequest(ctx, s.db, id)
}

func (s *Store) GetEmergencyCase(ctx context.Context, id string) (*models.EmergencyCase, error) {
	var c models.EmergencyCase
	if err := s.db.Collection(collEmergencyCases).FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) GetExchangeProposal(ctx context.Context, id string) (*models.ExchangeProposal, error) {
	var p models.ExchangeProposal
	if err := s.db.Collection(collExchanges).FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func findUser(ctx context.Context, db *mongo.Database, userID string) (*models.User, error) {
	var u models.User
	if err := db.Collection(collUsers).FindOne(ctx, bson.M{"userId": userID}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func findConsentRequest(ctx context.Context, db *mongo.Database, id string) (*models.ConsentRequest, error) {
	var r models.ConsentRequest
	if err := db.Collection(collConsentRequests).FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func userTransactionsFilter(userID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"donorId": userID},
		bson.M{"creditOwnerId": userID},
		bson.M{"beneficiaryId": userID},
	}}
}
