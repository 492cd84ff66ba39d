package models

import "time"

// Group is a set of members sharing a ledger of expenses and settlements.
//
// Every Expense and Settlement of a group must reference members only. That rule is
// enforced when rows are written, not re-checked on reads.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa trip").
	Name string

	// Description is optional free text.
	Description string

	// OwnerID is the user who created the group. The owner is added as a member on
	// creation but ownership and membership are independent afterwards.
	OwnerID string

	// Members is the list of member user IDs. Order carries no meaning.
	Members []string

	// CreatedAt is when the group was created.
	CreatedAt time.Time
}

// HasMember reports whether userID is in the group's membership set.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
