package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

func TestParseID_InvalidHexIsNotFound(t *testing.T) {
	if _, err := parseID("not-an-object-id", domain.ErrClientNotFound); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	oid := primitive.NewObjectID()
	got, err := parseID(oid.Hex(), domain.ErrClientNotFound)
	if err != nil || got != oid {
		t.Fatalf("expected %s, got %s (%v)", oid.Hex(), got.Hex(), err)
	}
}

func TestContractDoc_DecimalRoundTrip(t *testing.T) {
	in := &domain.Contract{
		ClientID:     "c1",
		TotalAmount:  decimal.RequireFromString("1500.25"),
		AmountDue:    decimal.RequireFromString("0.10"),
		CreationDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Signed:       true,
	}
	doc, err := contractDoc(in)
	if err != nil {
		t.Fatalf("contractDoc: %v", err)
	}
	out := doc.toDomain()
	if !out.TotalAmount.Equal(in.TotalAmount) || !out.AmountDue.Equal(in.AmountDue) {
		t.Fatalf("amounts drifted: %s/%s", out.TotalAmount, out.AmountDue)
	}
	if !out.Signed || out.ClientID != "c1" || !out.CreationDate.Equal(in.CreationDate) {
		t.Fatalf("unexpected contract %+v", out)
	}
}

func TestContractFilter(t *testing.T) {
	f := contractFilter(ports.ContractFilter{ClientID: "c1", UnsignedOnly: true, UnpaidOnly: true})
	if f["client_id"] != "c1" || f["signed"] != false {
		t.Fatalf("unexpected filter %v", f)
	}
	if _, ok := f["amount_due"].(bson.M)["$gt"]; !ok {
		t.Fatalf("expected amount_due range, got %v", f["amount_due"])
	}
	if len(contractFilter(ports.ContractFilter{})) != 0 {
		t.Fatal("expected empty filter for zero value")
	}
}

func TestEventFilter(t *testing.T) {
	f := eventFilter(ports.EventFilter{WithoutSupport: true, SupportContact: "Sam"})
	if _, ok := f["support_contact"].(bson.M); !ok {
		t.Fatalf("expected unassigned match to win, got %v", f)
	}
	f = eventFilter(ports.EventFilter{SupportContact: "Sam", ContractID: "k1"})
	if f["support_contact"] != "Sam" || f["contract_id"] != "k1" {
		t.Fatalf("unexpected filter %v", f)
	}
}

func TestUserDoc_RoleIDMustBeHex(t *testing.T) {
	if _, err := userDoc(&domain.User{Role: domain.Role{ID: "zzz", Name: domain.RoleAdmin}}); err == nil {
		t.Fatal("expected invalid role id to fail")
	}
	oid := primitive.NewObjectID()
	doc, err := userDoc(&domain.User{Email: "a@b.c", Role: domain.Role{ID: oid.Hex(), Name: domain.RoleAdmin}})
	if err != nil {
		t.Fatalf("userDoc: %v", err)
	}
	u := doc.toDomain()
	if u.Role.ID != oid.Hex() || u.RoleName() != domain.RoleAdmin {
		t.Fatalf("role lost in round trip: %+v", u.Role)
	}
}

func TestEventDoc_LegacyStatusReadsAsScheduled(t *testing.T) {
	if got := (mongoEvent{}).toDomain().Status; got != domain.EventScheduled {
		t.Errorf("expected %s, got %q", domain.EventScheduled, got)
	}
	if got := eventDoc(&domain.Event{Status: domain.EventCompleted}).toDomain().Status; got != domain.EventCompleted {
		t.Errorf("expected %s, got %q", domain.EventCompleted, got)
	}
}
