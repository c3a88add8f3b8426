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
)

// mongoTx expects every ctx it receives to be the session context of the running transaction.
type mongoTx struct {
	db *mongo.Database
}

func (t *mongoTx) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return findUser(ctx, t.db, userID)
}

func (t *mongoTx) ApplyCreditChange(ctx context.Context, userID string, change models.CreditChange) error {
	res, err := t.db.Collection(collUsers).UpdateOne(ctx, bson.M{"userId": userID}, creditUpdate(change))
	if err != nil {
		return fmt.Errorf("update user credits: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t *mongoTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	if _, err := t.db.Collection(collTransactions).InsertOne(ctx, txn); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (t *mongoTx) ApplyInventoryChange(ctx context.Context, change models.InventoryChange) (bool, error) {
	filter := bson.M{"organizationId": change.OrganizationID, "bloodType": change.BloodType}
	opts := options.Update().SetUpsert(change.CreateIfMissing)

	res, err := t.db.Collection(collInventory).UpdateOne(ctx, filter, inventoryUpdate(change), opts)
	if err != nil {
		return false, fmt.Errorf("update inventory: %w", err)
	}
	return res.MatchedCount > 0 || res.UpsertedCount > 0, nil
}

func (t *mongoTx) InsertConsentRequest(ctx context.Context, req *models.ConsentRequest) error {
	if _, err := t.db.Collection(collConsentRequests).InsertOne(ctx, req); err != nil {
		return fmt.Errorf("insert consent request: %w", err)
	}
	return nil
}

func (t *mongoTx) GetConsentRequest(ctx context.Context, id string) (*models.ConsentRequest, error) {
	return findConsentRequest(ctx, t.db, id)
}

func (t *mongoTx) ResolveConsentRequest(ctx context.Context, id string, res models.ConsentResolution) (*models.ConsentRequest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var r models.ConsentRequest
	err := t.db.Collection(collConsentRequests).
		FindOneAndUpdate(ctx, pendingConsentFilter(id), resolutionUpdate(res), opts).
		Decode(&r)
	if err != nil {
		return nil, resolutionError(err)
	}
	return &r, nil
}

func (t *mongoTx) InsertEmergencyCase(ctx context.Context, c *models.EmergencyCase) error {
	if _, err := t.db.Collection(collEmergencyCases).InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert emergency case: %w", err)
	}
	return nil
}

func (t *mongoTx) InsertExchangeProposal(ctx context.Context, p *models.ExchangeProposal) error {
	if _, err := t.db.Collection(collExchanges).InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert exchange proposal: %w", err)
	}
	return nil
}

func creditUpdate(change models.CreditChange) bson.M {
	set := bson.M{"updatedAt": change.Event.At}
	if change.Emergency != nil {
		set["credits.emergency"] = change.Emergency
	}

	return bson.M{
		"$inc": bson.M{
			"credits.balance":       change.BalanceDelta,
			"credits.totalEarned":   change.EarnedDelta,
			"credits.totalRedeemed": change.RedeemedDelta,
		},
		"$push": bson.M{"credits.events": change.Event},
		"$set":  set,
	}
}

// inventoryUpdate relies on the upsert copying organizationId and bloodType from the filter.
func inventoryUpdate(change models.InventoryChange) bson.M {
	return bson.M{
		"$inc": bson.M{
			"availableCredits":    change.AvailableDelta,
			"totalDonatedCredits": change.DonatedDelta,
		},
		"$push":        bson.M{"movements": change.Movement},
		"$set":         bson.M{"updatedAt": change.At},
		"$setOnInsert": bson.M{"createdAt": change.At},
	}
}

func pendingConsentFilter(id string) bson.M {
	return bson.M{"_id": id, "status": models.ConsentPending}
}

// resolutionError reports a missing match or a write conflict on the request as
// ErrNotPending: another unit resolved it or is resolving it.
func resolutionError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotPending
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeWriteConflict) {
		return fmt.Errorf("%w: %v", store.ErrNotPending, err)
	}
	return fmt.Errorf("resolve consent request: %w", err)
}

func resolutionUpdate(res models.ConsentResolution) bson.M {
	set := bson.M{
		"status":    res.Status,
		"decidedBy": res.DecidedBy,
		"decidedAt": res.DecidedAt,
	}
	if res.DecisionNote != nil {
		set["decisionNote"] = *res.DecisionNote
	}
	return bson.M{"$set": set}
}
