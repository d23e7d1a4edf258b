package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akashreddykandula/spendWise/internal/core"
)

// MongoRepository stores transactions and budgets in MongoDB. Budgets
// live in their own collection keyed by owner.
type MongoRepository struct {
	client       *mongo.Client
	transactions *mongo.Collection
	budgets      *mongo.Collection
}

type mongoTransaction struct {
	ID          string    `bson:"_id"`
	Owner       string    `bson:"owner"`
	AmountCents int64     `bson:"amountCents"`
	Type        string    `bson:"type"`
	Category    string    `bson:"category"`
	PaymentMode string    `bson:"paymentMode"`
	Date        time.Time `bson:"date"`
}

type mongoBudget struct {
	Owner        string           `bson:"_id"`
	MonthlyCents int64            `bson:"monthlyCents"`
	Categories   map[string]int64 `bson:"categories,omitempty"`
	UpdatedAt    time.Time        `bson:"updatedAt"`
}

func NewMongoRepository(ctx context.Context, uri, dbName string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	return &MongoRepository{
		client:       client,
		transactions: db.Collection("transactions"),
		budgets:      db.Collection("budgets"),
	}, nil
}

func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoRepository) Find(ctx context.Context, q Query) ([]core.Transaction, error) {
	filter := bson.M{"owner": q.Owner}
	dateRange := bson.M{}
	if !q.From.IsZero() {
		dateRange["$gte"] = q.From.UTC()
	}
	if !q.To.IsZero() {
		dateRange["$lte"] = q.To.UTC()
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.transactions.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []core.Transaction
	for cursor.Next(ctx) {
		var doc mongoTransaction
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		txs = append(txs, core.Transaction{
			ID:          doc.ID,
			Owner:       doc.Owner,
			Amount:      core.Money{Cents: doc.AmountCents},
			Type:        core.TxType(doc.Type),
			Category:    doc.Category,
			PaymentMode: doc.PaymentMode,
			Date:        doc.Date.UTC(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txs, nil
}

func (r *MongoRepository) ListOwners(ctx context.Context) ([]string, error) {
	values, err := r.transactions.Distinct(ctx, "owner", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct owners: %w", err)
	}

	var owners []string
	for _, v := range values {
		if owner, ok := v.(string); ok {
			owners = append(owners, owner)
		}
	}
	return owners, nil
}

func (r *MongoRepository) Create(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}

	id := tx.ID
	if id == "" {
		id = uuid.NewString()
	}

	doc := mongoTransaction{
		ID:          id,
		Owner:       tx.Owner,
		AmountCents: tx.Amount.Cents,
		Type:        string(tx.Type),
		Category:    tx.Category,
		PaymentMode: tx.PaymentMode,
		Date:        tx.Date.UTC(),
	}
	if _, err := r.transactions.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	return id, nil
}

func (r *MongoRepository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.transactions.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *MongoRepository) GetBudget(ctx context.Context, owner string) (core.Budget, error) {
	var doc mongoBudget
	err := r.budgets.FindOne(ctx, bson.M{"_id": owner}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.Budget{}, ErrBudgetNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("query budget: %w", err)
	}

	b := core.Budget{
		Owner:   owner,
		Monthly: core.Money{Cents: doc.MonthlyCents},
	}
	for category, cents := range doc.Categories {
		if b.Categories == nil {
			b.Categories = make(map[string]core.Money)
		}
		b.Categories[category] = core.Money{Cents: cents}
	}
	return b, nil
}

func (r *MongoRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	doc := mongoBudget{
		Owner:        b.Owner,
		MonthlyCents: b.Monthly.Cents,
		UpdatedAt:    time.Now().UTC(),
	}
	for category, limit := range b.Categories {
		if doc.Categories == nil {
			doc.Categories = make(map[string]int64)
		}
		doc.Categories[category] = limit.Cents
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.budgets.ReplaceOne(ctx, bson.M{"_id": b.Owner}, doc, opts); err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	return nil
}
