// Package mongodb implements the movement ledger on a MongoDB collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	portsrepo "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const movementCollection = "movements"

// movementDocument is the persistence shape of a movement. Amounts are stored
// as Decimal128 so ledger values never round-trip through binary floats.
type movementDocument struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	ClientID   string               `bson:"clientId"`
	ProductID  string               `bson:"productId"`
	Type       string               `bson:"type"`
	Amount     primitive.Decimal128 `bson:"amount"`
	Date       time.Time            `bson:"date"`
	TransferID string               `bson:"transferId,omitempty"`
}

// MovementRepository persists movements in the movements collection.
type MovementRepository struct {
	collection *mongo.Collection
}

// NewMovementRepository creates a Mongo-backed movement repository.
func NewMovementRepository(db *mongo.Database) *MovementRepository {
	return &MovementRepository{collection: db.Collection(movementCollection)}
}

var _ portsrepo.MovementRepository = (*MovementRepository)(nil)

// EnsureIndexes creates the indexes the query paths rely on. Safe to call on
// every startup.
func (r *MovementRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}}},
		{
			Keys:    bson.D{{Key: "transferId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create movement indexes: %w", err)
	}
	return nil
}

func toDocument(m domain.Movement) (movementDocument, error) {
	doc := movementDocument{
		ClientID:   m.ClientID,
		ProductID:  m.ProductID,
		Type:       string(m.Type),
		Date:       m.Date,
		TransferID: m.TransferID,
	}
	if m.ID != "" {
		oid, err := primitive.ObjectIDFromHex(m.ID)
		if err != nil {
			return movementDocument{}, fmt.Errorf("%w: invalid movement id %q", apperrors.ErrValidation, m.ID)
		}
		doc.ID = oid
	}
	amount, err := primitive.ParseDecimal128(m.Amount.String())
	if err != nil {
		return movementDocument{}, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, m.Amount.String())
	}
	doc.Amount = amount
	return doc, nil
}

func fromDocument(doc movementDocument) (domain.Movement, error) {
	amount, err := decimal.NewFromString(doc.Amount.String())
	if err != nil {
		return domain.Movement{}, fmt.Errorf("%w: stored amount %q is not a decimal", apperrors.ErrInternal, doc.Amount.String())
	}
	return domain.Movement{
		ID:         doc.ID.Hex(),
		ClientID:   doc.ClientID,
		ProductID:  doc.ProductID,
		Type:       domain.MovementType(doc.Type),
		Amount:     amount,
		Date:       doc.Date,
		TransferID: doc.TransferID,
	}, nil
}

// SaveMovement inserts a movement and returns it with the assigned id.
func (r *MovementRepository) SaveMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	doc, err := toDocument(movement)
	if err != nil {
		return nil, err
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert movement: %w", err)
	}
	movement.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &movement, nil
}

// SaveMovements inserts a batch of movements in order.
func (r *MovementRepository) SaveMovements(ctx context.Context, movements []domain.Movement) ([]domain.Movement, error) {
	if len(movements) == 0 {
		return nil, nil
	}
	docs := make([]interface{}, len(movements))
	for i, m := range movements {
		doc, err := toDocument(m)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return nil, fmt.Errorf("failed to insert movements: %w", err)
	}
	saved := make([]domain.Movement, len(movements))
	copy(saved, movements)
	for i, id := range res.InsertedIDs {
		saved[i].ID = id.(primitive.ObjectID).Hex()
	}
	return saved, nil
}

// FindMovementByID retrieves a movement by its hex id.
func (r *MovementRepository) FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	oid, err := primitive.ObjectIDFromHex(movementID)
	if err != nil {
		return nil, fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	var doc movementDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find movement %s: %w", movementID, err)
	}
	movement, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

// ListMovements retrieves every movement.
func (r *MovementRepository) ListMovements(ctx context.Context) ([]domain.Movement, error) {
	return r.findAll(ctx, bson.M{})
}

// FindMovementsByClientID retrieves all movements for a client.
func (r *MovementRepository) FindMovementsByClientID(ctx context.Context, clientID string) ([]domain.Movement, error) {
	return r.findAll(ctx, bson.M{"clientId": clientID})
}

// FindMovementsByProductID retrieves all movements against a product.
func (r *MovementRepository) FindMovementsByProductID(ctx context.Context, productID string) ([]domain.Movement, error) {
	return r.findAll(ctx, bson.M{"productId": productID})
}

// FindMovementsByTransferID retrieves the legs persisted under an idempotency key.
func (r *MovementRepository) FindMovementsByTransferID(ctx context.Context, transferID string) ([]domain.Movement, error) {
	return r.findAll(ctx, bson.M{"transferId": transferID})
}

// CountMovementsByProductSince counts movements for a product dated strictly
// after the given instant.
func (r *MovementRepository) CountMovementsByProductSince(ctx context.Context, productID string, since time.Time) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"productId": productID,
		"date":      bson.M{"$gt": since},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count movements for product %s: %w", productID, err)
	}
	return count, nil
}

// ReplaceMovement replaces the movement stored under the given id.
func (r *MovementRepository) ReplaceMovement(ctx context.Context, movementID string, movement domain.Movement) (*domain.Movement, error) {
	oid, err := primitive.ObjectIDFromHex(movementID)
	if err != nil {
		return nil, fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	movement.ID = movementID
	doc, err := toDocument(movement)
	if err != nil {
		return nil, err
	}
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to replace movement %s: %w", movementID, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	return &movement, nil
}

// DeleteMovementByID removes a movement.
func (r *MovementRepository) DeleteMovementByID(ctx context.Context, movementID string) error {
	oid, err := primitive.ObjectIDFromHex(movementID)
	if err != nil {
		return fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete movement %s: %w", movementID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	return nil
}

func (r *MovementRepository) findAll(ctx context.Context, filter bson.M) ([]domain.Movement, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer cursor.Close(ctx)

	var movements []domain.Movement
	for cursor.Next(ctx) {
		var doc movementDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode movement: %w", err)
		}
		movement, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("movement cursor failed: %w", err)
	}
	return movements, nil
}
