package domain

// Entity is a named counterparty known to the backend ledger: a bank,
// client, supplier or employee. Snapshots are immutable once fetched.
type Entity struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// EntityLink ties a transaction to an entity with a role.
type EntityLink struct {
	Role       string `json:"role"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
	EntityType string `json:"entity_type,omitempty"`
}

// EntityMention is a party named by the AI before resolution, e.g.
// {role: "bank", name: "Melli"}.
type EntityMention struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// ResolvedEntityLink is a mention resolved to a backend entity id.
type ResolvedEntityLink struct {
	Role     string `json:"role"`
	EntityID string `json:"entity_id"`
}

// TypeHint is an entity category detected from query text.
type TypeHint string

const (
	HintBank     TypeHint = "bank"
	HintClient   TypeHint = "client"
	HintSupplier TypeHint = "supplier"
	HintEmployee TypeHint = "employee"
)

// TypeHints is the set of categories a query text alludes to.
type TypeHints map[TypeHint]bool

// Has reports whether the hint set contains h.
func (s TypeHints) Has(h TypeHint) bool { return s[h] }

// Empty reports whether no hints were detected.
func (s TypeHints) Empty() bool { return len(s) == 0 }
