package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	coll *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{coll: db.Collection(collectionEvents)}
}

type mongoEvent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ContractID     string             `bson:"contract_id"`
	ClientID       string             `bson:"client_id"`
	EventName      string             `bson:"event_name"`
	EventDateStart time.Time          `bson:"event_date_start"`
	EventDateEnd   time.Time          `bson:"event_date_end"`
	Location       string             `bson:"location"`
	SupportContact string             `bson:"support_contact"`
	Attendees      int                `bson:"attendees"`
	Notes          string             `bson:"notes"`
	ClientContact  string             `bson:"client_contact"`
	Status         string             `bson:"status"`
	UserID         string             `bson:"user_id"`
}

func eventDoc(e *domain.Event) mongoEvent {
	return mongoEvent{
		ContractID:     e.ContractID,
		ClientID:       e.ClientID,
		EventName:      e.EventName,
		EventDateStart: e.EventDateStart.UTC(),
		EventDateEnd:   e.EventDateEnd.UTC(),
		Location:       e.Location,
		SupportContact: e.SupportContact,
		Attendees:      e.Attendees,
		Notes:          e.Notes,
		ClientContact:  e.ClientContact,
		Status:         string(e.Status),
		UserID:         e.UserID,
	}
}

func (d mongoEvent) toDomain() *domain.Event {
	return &domain.Event{
		ID:             d.ID.Hex(),
		ContractID:     d.ContractID,
		ClientID:       d.ClientID,
		EventName:      d.EventName,
		EventDateStart: d.EventDateStart.UTC(),
		EventDateEnd:   d.EventDateEnd.UTC(),
		Location:       d.Location,
		SupportContact: d.SupportContact,
		Attendees:      d.Attendees,
		Notes:          d.Notes,
		ClientContact:  d.ClientContact,
		Status:         domain.EventStatusOf(d.Status),
		UserID:         d.UserID,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	oid, err := insert(ctx, r.coll, eventDoc(event), nil)
	if err != nil {
		return err
	}
	event.ID = oid.Hex()
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := parseID(id, domain.ErrEventNotFound)
	if err != nil {
		return nil, err
	}
	var doc mongoEvent
	if err := findOne(ctx, r.coll, bson.M{"_id": oid}, &doc, domain.ErrEventNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func eventFilter(f ports.EventFilter) bson.M {
	filter := bson.M{}
	if f.ContractID != "" {
		filter["contract_id"] = f.ContractID
	}
	switch {
	case f.WithoutSupport:
		filter["support_contact"] = bson.M{"$in": bson.A{"", nil}}
	case f.SupportContact != "":
		filter["support_contact"] = f.SupportContact
	}
	return filter
}

func (r *EventRepository) List(ctx context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	docs, err := findAll[mongoEvent](ctx, r.coll, eventFilter(f))
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Event, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	oid, err := parseID(event.ID, domain.ErrEventNotFound)
	if err != nil {
		return err
	}
	return replace(ctx, r.coll, oid, eventDoc(event), domain.ErrEventNotFound, nil)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrEventNotFound)
}
