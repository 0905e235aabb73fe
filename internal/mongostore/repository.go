package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const (
	TransactionsCollection = "transactions"
	BudgetsCollection      = "budgets"
)

type transactionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Amount      float64            `bson:"amount"`
	Type        string             `bson:"type"`
	Category    string             `bson:"category"`
	Month       string             `bson:"month"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d transactionDoc) toCore() core.Transaction {
	return core.Transaction{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Amount:      d.Amount,
		Type:        core.TxType(d.Type),
		Category:    d.Category,
		Month:       d.Month,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type budgetDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Category    string             `bson:"category"`
	Amount      float64            `bson:"amount"`
	Month       string             `bson:"month"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d budgetDoc) toCore() core.Budget {
	return core.Budget{
		ID:          d.ID.Hex(),
		Category:    d.Category,
		Amount:      d.Amount,
		Month:       d.Month,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

var _ ledger.Store = (*Repository)(nil)

// Repository implements ledger.Store on two collections.
type Repository struct {
	provider CollectionProvider
	now      func() time.Time
}

func NewRepository(provider CollectionProvider) *Repository {
	return &Repository{
		provider: provider,
		// BSON dates carry millisecond precision.
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	now := r.now()
	doc := transactionDoc{
		ID:          primitive.NewObjectID(),
		Title:       tx.Title,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Month:       tx.Month,
		Description: tx.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.provider.Collection(TransactionsCollection).InsertOne(ctx, doc); err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return doc.toCore(), nil
}

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	cur, err := r.provider.Collection(TransactionsCollection).Find(ctx, bson.D{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	out := []core.Transaction{}
	for cur.Next(ctx) {
		var doc transactionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		out = append(out, doc.toCore())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(tx.ID)
	if err != nil {
		return core.Transaction{}, ledger.ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"title":       tx.Title,
		"amount":      tx.Amount,
		"type":        string(tx.Type),
		"category":    tx.Category,
		"month":       tx.Month,
		"description": tx.Description,
		"updatedAt":   r.now(),
	}}

	var doc transactionDoc
	res := r.provider.Collection(TransactionsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": oid}, update, options.FindOneAndUpdate().SetReturnDocument(options.After))
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return core.Transaction{}, ledger.ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return doc.toCore(), nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	return r.deleteByID(ctx, TransactionsCollection, id)
}

func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := r.now()
	doc := budgetDoc{
		ID:          primitive.NewObjectID(),
		Category:    b.Category,
		Amount:      b.Amount,
		Month:       b.Month,
		Description: b.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.provider.Collection(BudgetsCollection).InsertOne(ctx, doc); err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	return doc.toCore(), nil
}

func (r *Repository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	cur, err := r.provider.Collection(BudgetsCollection).Find(ctx, bson.D{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("find budgets: %w", err)
	}
	defer cur.Close(ctx)

	out := []core.Budget{}
	for cur.Next(ctx) {
		var doc budgetDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode budget: %w", err)
		}
		out = append(out, doc.toCore())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return core.Budget{}, ledger.ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"category":    b.Category,
		"amount":      b.Amount,
		"month":       b.Month,
		"description": b.Description,
		"updatedAt":   r.now(),
	}}

	var doc budgetDoc
	res := r.provider.Collection(BudgetsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": oid}, update, options.FindOneAndUpdate().SetReturnDocument(options.After))
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return core.Budget{}, ledger.ErrNotFound
		}
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return doc.toCore(), nil
}

func (r *Repository) DeleteBudget(ctx context.Context, id string) error {
	return r.deleteByID(ctx, BudgetsCollection, id)
}

func (r *Repository) deleteByID(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ledger.ErrNotFound
	}
	res, err := r.provider.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
