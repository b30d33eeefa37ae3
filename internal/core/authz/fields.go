package authz

import "strings"

// Field identifies one writable attribute of a resource.
type Field uint8

const (
	ClientFullName Field = iota
	ClientEmail
	ClientPhone
	ClientCompanyName
	ClientFirstContactDate
	ClientLastContactDate
	ClientCommercialContact

	ContractTotalAmount
	ContractAmountDue
	ContractSigned
	ContractCommercialContact

	EventName
	EventDateStart
	EventDateEnd
	EventLocation
	EventSupportContact
	EventAttendees
	EventNotes
	EventClientContact
	EventStatus

	CollaboratorFullName
	CollaboratorEmail
	CollaboratorDepartment
	CollaboratorRole
	CollaboratorPassword

	fieldCount
)

var fieldNames = [fieldCount]string{
	ClientFullName:            "full_name",
	ClientEmail:               "email",
	ClientPhone:               "phone",
	ClientCompanyName:         "company_name",
	ClientFirstContactDate:    "first_contact_date",
	ClientLastContactDate:     "last_contact_date",
	ClientCommercialContact:   "commercial_contact",
	ContractTotalAmount:       "total_amount",
	ContractAmountDue:         "amount_due",
	ContractSigned:            "signed",
	ContractCommercialContact: "commercial_contact",
	EventName:                 "event_name",
	EventDateStart:            "event_date_start",
	EventDateEnd:              "event_date_end",
	EventLocation:             "location",
	EventSupportContact:       "support_contact",
	EventAttendees:            "attendees",
	EventNotes:                "notes",
	EventClientContact:        "client_contact",
	EventStatus:               "status",
	CollaboratorFullName:      "full_name",
	CollaboratorEmail:         "email",
	CollaboratorDepartment:    "department",
	CollaboratorRole:          "role",
	CollaboratorPassword:      "password",
}

func (f Field) String() string {
	if f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// FieldSet is a bitmask of Fields.
type FieldSet uint64

// Fields builds a set from individual fields.
func Fields(fields ...Field) FieldSet {
	var s FieldSet
	for _, f := range fields {
		s = s.With(f)
	}
	return s
}

// With returns s plus f.
func (s FieldSet) With(f Field) FieldSet {
	if f >= fieldCount {
		return s
	}
	return s | 1<<f
}

// Has reports whether f is in s.
func (s FieldSet) Has(f Field) bool {
	return f < fieldCount && s&(1<<f) != 0
}

// Without returns the members of s not in other.
func (s FieldSet) Without(other FieldSet) FieldSet {
	return s &^ other
}

// SubsetOf reports whether every member of s is in other.
func (s FieldSet) SubsetOf(other FieldSet) bool {
	return s.Without(other) == 0
}

// Empty reports whether s has no members.
func (s FieldSet) Empty() bool { return s == 0 }

// List returns the members of s in declaration order.
func (s FieldSet) List() []Field {
	var out []Field
	for f := Field(0); f < fieldCount; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FieldSet) String() string {
	names := make([]string, 0, len(s.List()))
	for _, f := range s.List() {
		names = append(names, f.String())
	}
	return strings.Join(names, ",")
}

// Field groups per resource.
var (
	AllClientFields = Fields(ClientFullName, ClientEmail, ClientPhone, ClientCompanyName,
		ClientFirstContactDate, ClientLastContactDate, ClientCommercialContact)
	AllContractFields = Fields(ContractTotalAmount, ContractAmountDue, ContractSigned,
		ContractCommercialContact)
	AllEventFields = Fields(EventName, EventDateStart, EventDateEnd, EventLocation,
		EventSupportContact, EventAttendees, EventNotes, EventClientContact, EventStatus)
	AllCollaboratorFields = Fields(CollaboratorFullName, CollaboratorEmail,
		CollaboratorDepartment, CollaboratorRole, CollaboratorPassword)

	// Ownership fields are only reassigned by Admin.
	ownerClientFields   = AllClientFields.Without(Fields(ClientCommercialContact))
	ownerContractFields = AllContractFields.Without(Fields(ContractCommercialContact))

	commercialEventFields = Fields(EventName, EventLocation, EventSupportContact,
		EventDateStart, EventDateEnd)
	supportEventFields = Fields(EventName, EventLocation, EventStatus)
)
