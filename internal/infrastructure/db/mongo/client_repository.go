package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// ClientRepository implements ports.ClientRepository using MongoDB.
type ClientRepository struct {
	coll *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{coll: db.Collection(collectionClients)}
}

type mongoClient struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	FullName          string             `bson:"full_name"`
	Email             string             `bson:"email"`
	Phone             string             `bson:"phone"`
	CompanyName       string             `bson:"company_name"`
	FirstContactDate  time.Time          `bson:"first_contact_date"`
	LastContactDate   time.Time          `bson:"last_contact_date"`
	CommercialContact string             `bson:"commercial_contact"`
	UserID            string             `bson:"user_id"`
}

func clientDoc(c *domain.Client) mongoClient {
	return mongoClient{
		FullName:          c.FullName,
		Email:             c.Email,
		Phone:             c.Phone,
		CompanyName:       c.CompanyName,
		FirstContactDate:  c.FirstContactDate.UTC(),
		LastContactDate:   c.LastContactDate.UTC(),
		CommercialContact: c.CommercialContact,
		UserID:            c.UserID,
	}
}

func (d mongoClient) toDomain() *domain.Client {
	return &domain.Client{
		ID:                d.ID.Hex(),
		FullName:          d.FullName,
		Email:             d.Email,
		Phone:             d.Phone,
		CompanyName:       d.CompanyName,
		FirstContactDate:  d.FirstContactDate.UTC(),
		LastContactDate:   d.LastContactDate.UTC(),
		CommercialContact: d.CommercialContact,
		UserID:            d.UserID,
	}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	oid, err := insert(ctx, r.coll, clientDoc(client), domain.ErrClientExists)
	if err != nil {
		return err
	}
	client.ID = oid.Hex()
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := parseID(id, domain.ErrClientNotFound)
	if err != nil {
		return nil, err
	}
	var doc mongoClient
	if err := findOne(ctx, r.coll, bson.M{"_id": oid}, &doc, domain.ErrClientNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	docs, err := findAll[mongoClient](ctx, r.coll, bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Client, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	oid, err := parseID(client.ID, domain.ErrClientNotFound)
	if err != nil {
		return err
	}
	return replace(ctx, r.coll, oid, clientDoc(client), domain.ErrClientNotFound, domain.ErrClientExists)
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrClientNotFound)
}

// ContractRepository implements ports.ContractRepository using MongoDB.
// Amounts are stored as Decimal128 so range filters compare exactly.
type ContractRepository struct {
	coll *mongo.Collection
}

func NewContractRepository(db *mongo.Database) *ContractRepository {
	return &ContractRepository{coll: db.Collection(collectionContracts)}
}

type mongoContract struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	ClientID          string               `bson:"client_id"`
	CommercialContact string               `bson:"commercial_contact"`
	TotalAmount       primitive.Decimal128 `bson:"total_amount"`
	AmountDue         primitive.Decimal128 `bson:"amount_due"`
	CreationDate      time.Time            `bson:"creation_date"`
	Signed            bool                 `bson:"signed"`
	UserID            string               `bson:"user_id"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("amount %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func contractDoc(c *domain.Contract) (mongoContract, error) {
	total, err := toDecimal128(c.TotalAmount)
	if err != nil {
		return mongoContract{}, err
	}
	due, err := toDecimal128(c.AmountDue)
	if err != nil {
		return mongoContract{}, err
	}
	return mongoContract{
		ClientID:          c.ClientID,
		CommercialContact: c.CommercialContact,
		TotalAmount:       total,
		AmountDue:         due,
		CreationDate:      c.CreationDate.UTC(),
		Signed:            c.Signed,
		UserID:            c.UserID,
	}, nil
}

func (d mongoContract) toDomain() *domain.Contract {
	return &domain.Contract{
		ID:                d.ID.Hex(),
		ClientID:          d.ClientID,
		CommercialContact: d.CommercialContact,
		TotalAmount:       fromDecimal128(d.TotalAmount),
		AmountDue:         fromDecimal128(d.AmountDue),
		CreationDate:      d.CreationDate.UTC(),
		Signed:            d.Signed,
		UserID:            d.UserID,
	}
}

func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	doc, err := contractDoc(contract)
	if err != nil {
		return err
	}
	oid, err := insert(ctx, r.coll, doc, nil)
	if err != nil {
		return err
	}
	contract.ID = oid.Hex()
	return nil
}

func (r *ContractRepository) FindByID(ctx context.Context, id string) (*domain.Contract, error) {
	oid, err := parseID(id, domain.ErrContractNotFound)
	if err != nil {
		return nil, err
	}
	var doc mongoContract
	if err := findOne(ctx, r.coll, bson.M{"_id": oid}, &doc, domain.ErrContractNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func contractFilter(f ports.ContractFilter) bson.M {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.UnsignedOnly {
		filter["signed"] = false
	}
	if f.UnpaidOnly {
		zero, _ := primitive.ParseDecimal128("0")
		filter["amount_due"] = bson.M{"$gt": zero}
	}
	return filter
}

func (r *ContractRepository) List(ctx context.Context, f ports.ContractFilter) ([]*domain.Contract, error) {
	docs, err := findAll[mongoContract](ctx, r.coll, contractFilter(f))
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Contract, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	oid, err := parseID(contract.ID, domain.ErrContractNotFound)
	if err != nil {
		return err
	}
	doc, err := contractDoc(contract)
	if err != nil {
		return err
	}
	return replace(ctx, r.coll, oid, doc, domain.ErrContractNotFound, nil)
}

func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrContractNotFound)
}
