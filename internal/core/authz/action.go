package authz

// Action names one operation the engine can rule on. Every CLI menu entry
// maps to exactly one Action.
type Action string

const (
	ViewClients   Action = "view-clients"
	ViewContracts Action = "view-contracts"
	ViewEvents    Action = "view-events"

	CreateClient Action = "create-client"
	UpdateClient Action = "update-client"
	DeleteClient Action = "delete-client"

	CreateContract Action = "create-contract"
	UpdateContract Action = "update-contract"
	DeleteContract Action = "delete-contract"

	CreateEvent Action = "create-event"
	UpdateEvent Action = "update-event"
	DeleteEvent Action = "delete-event"

	CreateCollaborator Action = "create-collaborator"
	UpdateCollaborator Action = "update-collaborator"
	DeleteCollaborator Action = "delete-collaborator"

	FilterEventsWithoutSupport Action = "filter-events-without-support"
)

// Actions lists every known action in menu order.
var Actions = []Action{
	ViewClients,
	ViewContracts,
	ViewEvents,
	CreateClient,
	UpdateClient,
	DeleteClient,
	CreateContract,
	UpdateContract,
	DeleteContract,
	CreateEvent,
	UpdateEvent,
	DeleteEvent,
	CreateCollaborator,
	UpdateCollaborator,
	DeleteCollaborator,
	FilterEventsWithoutSupport,
}

func (a Action) String() string { return string(a) }
