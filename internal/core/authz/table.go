package authz

import "github.com/epicevents/crm/internal/core/domain"

// grant is one cell of the decision table. A nil check never allows.
type grant struct {
	check  func(Identity, Target) bool
	fields FieldSet
}

type rule struct {
	admin      grant
	commercial grant
	support    grant
}

func (r rule) grantFor(role string) (grant, bool) {
	switch role {
	case domain.RoleAdmin:
		return r.admin, true
	case domain.RoleCommercial:
		return r.commercial, true
	case domain.RoleSupport:
		return r.support, true
	}
	return grant{}, false
}

var never = grant{}

func always(fields FieldSet) grant {
	return grant{check: func(Identity, Target) bool { return true }, fields: fields}
}

func when(check func(Identity, Target) bool, fields FieldSet) grant {
	return grant{check: check, fields: fields}
}

func decisionTable() map[Action]rule {
	anyone := rule{admin: always(0), commercial: always(0), support: always(0)}
	adminOnly := func(fields FieldSet) rule { return rule{admin: always(fields)} }

	return map[Action]rule{
		ViewClients:   anyone,
		ViewContracts: anyone,
		ViewEvents:    anyone,

		// The creating Commercial becomes the owner.
		CreateClient: {commercial: always(0)},
		UpdateClient: {
			admin:      when(hasClient, AllClientFields),
			commercial: when(ownsClient, ownerClientFields),
		},
		DeleteClient: adminOnly(0),

		CreateContract: {commercial: when(ownsClient, 0)},
		UpdateContract: {
			admin:      when(hasContract, AllContractFields),
			commercial: when(ownsContract, ownerContractFields),
		},
		DeleteContract: adminOnly(0),

		CreateEvent: {commercial: when(ownsContract, 0)},
		UpdateEvent: {
			admin:      when(hasEvent, AllEventFields),
			commercial: when(ownsEventClient, commercialEventFields),
			support:    when(assignedToEvent, supportEventFields),
		},
		DeleteEvent: adminOnly(0),

		CreateCollaborator: adminOnly(AllCollaboratorFields),
		UpdateCollaborator: adminOnly(AllCollaboratorFields),
		DeleteCollaborator: adminOnly(0),

		FilterEventsWithoutSupport: adminOnly(0),
	}
}

func sameName(a, b string) bool {
	return a != "" && a == b
}

func hasClient(_ Identity, t Target) bool { return t.Client != nil }

func hasContract(_ Identity, t Target) bool {
	return t.Contract != nil && t.Client != nil && t.Contract.ClientID == t.Client.ID
}

func hasEvent(_ Identity, t Target) bool {
	return t.Event != nil && t.Client != nil && t.Event.ClientID == t.Client.ID
}

func ownsClient(id Identity, t Target) bool {
	return t.Client != nil && sameName(id.FullName, t.Client.CommercialContact)
}

func ownsContract(id Identity, t Target) bool {
	return hasContract(id, t) && ownsClient(id, t)
}

func ownsEventClient(id Identity, t Target) bool {
	return hasEvent(id, t) && ownsClient(id, t)
}

func assignedToEvent(id Identity, t Target) bool {
	return t.Event != nil && sameName(id.FullName, t.Event.SupportContact)
}
