package models

// Room represents one receipt-splitting session: the ordered member registry
// plus the item ledger. It is a plain state object; the room package owns all
// transitions and their preconditions.
type Room struct {
	// ID is the unique identifier for the room (UUID format).
	ID string

	// Name is the display name supplied by the join collaborator
	// (already format-validated there; the core only displays it).
	Name string

	// PIN is the 4-digit join code. A format gate only; it has no
	// security role and is never hashed.
	PIN string

	// Members is the ordered list of participant names. Insertion order is
	// the display order. Names are unique (case-sensitive, trimmed).
	// The registry always holds between 1 and 7 members.
	Members []string

	// Items is the item ledger for this room's receipt.
	Items []Item

	// CreatedAt is the Unix timestamp when the room was created.
	CreatedAt int64
}

// Item represents a single line item on the receipt.
// Items can be shared among multiple members; the cost is split equally
// among the assignees.
type Item struct {
	// ID is the unique identifier for the item (UUID format). Stable for
	// the item's lifetime, never reused.
	ID string

	// Name is the display name of the item (e.g. "Pad Thai"). Editable,
	// not required to be unique.
	Name string

	// RawPrice is the unit price exactly as the user (or the recognition
	// collaborator) entered it. Kept as text so an in-progress edit like
	// "3." never breaks downstream arithmetic; readers parse defensively
	// with money.ParsePrice (unparsable → 0).
	RawPrice string

	// Quantity is the number of units, always >= 1.
	Quantity int

	// Assignees is the set of member names sharing this item's cost.
	// Order is irrelevant, membership is unique. The room package keeps
	// every name here referencing a current registry member.
	Assignees []string
}

// ItemRecord is one extracted line from the recognition collaborator:
// the raw {name, price, quantity} triple fed into the ledger via seeding.
type ItemRecord struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
