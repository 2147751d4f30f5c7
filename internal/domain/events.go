package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchRequested      EventType = "SearchRequested"
	EventSearchStarted        EventType = "SearchStarted"
	EventOpportunitiesUpdated EventType = "OpportunitiesUpdated"
	EventSearchFailed         EventType = "SearchFailed"
	EventProductsUpdated      EventType = "ProductsUpdated"
	EventProductsFailed       EventType = "ProductsFailed"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
	EventError                EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchRequestedEvent is emitted when the user applies new search
// parameters. The search service decides whether a request actually
// goes out (no bbox means no request). Force bypasses the unchanged-
// selection dedupe for explicit refreshes.
type SearchRequestedEvent struct {
	Selection SearchSelection
	Force     bool
}

func (e SearchRequestedEvent) Type() EventType { return EventSearchRequested }

// SearchStartedEvent is emitted when an opportunities request is dispatched.
type SearchStartedEvent struct {
	Seq uint64
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// OpportunitiesUpdatedEvent carries the result of a completed search.
type OpportunitiesUpdatedEvent struct {
	Seq           uint64
	Opportunities []Opportunity
}

func (e OpportunitiesUpdatedEvent) Type() EventType { return EventOpportunitiesUpdated }

// SearchFailedEvent is emitted when a search request fails.
type SearchFailedEvent struct {
	Seq uint64
	Err error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// ProductsUpdatedEvent carries the product list fetched at startup.
type ProductsUpdatedEvent struct {
	Products []Product
}

func (e ProductsUpdatedEvent) Type() EventType { return EventProductsUpdated }

// ProductsFailedEvent is emitted when the products fetch fails.
type ProductsFailedEvent struct {
	Err error
}

func (e ProductsFailedEvent) Type() EventType { return EventProductsFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	APIBaseURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
