package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/chopbill/internal/models"
	"github.com/mmynk/chopbill/internal/storage"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.ledger.CreateUser(ctx, "Alice", "alice@example.com", ""); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := f.ledger.CreateUser(ctx, "Phone Only", "", "+15551234567"); err != nil {
		t.Fatalf("CreateUser with phone failed: %v", err)
	}

	tests := []struct {
		name    string
		uname   string
		email   string
		phone   string
		wantErr error
		field   string
	}{
		{"missing name", " ", "x@example.com", "", models.ErrNameRequired, "name"},
		{"no contact", "Bob", "", "", models.ErrContactRequired, "contact"},
		{"bad email", "Bob", "not-an-email", "", models.ErrInvalidEmail, "email"},
		{"bad phone", "Bob", "", "555-0100", models.ErrInvalidPhone, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.CreateUser(ctx, tt.uname, tt.email, tt.phone)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("Expected validation error on %s, got %v", tt.field, err)
			}
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.ledger.CreateUser(ctx, "Other Alice", "alice@example.com", "")
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	g := f.group(t, a, b, c)
	f.expense(t, g.ID, a, "30", a, b)

	t.Run("only yourself", func(t *testing.T) {
		if err := f.ledger.DeleteUser(ctx, a.ID, c.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("owner is referenced", func(t *testing.T) {
		if err := f.ledger.DeleteUser(ctx, a.ID, a.ID); !errors.Is(err, ErrReferenced) {
			t.Errorf("Expected ErrReferenced, got %v", err)
		}
	})

	t.Run("split participant is referenced", func(t *testing.T) {
		if err := f.ledger.DeleteUser(ctx, b.ID, b.ID); !errors.Is(err, ErrReferenced) {
			t.Errorf("Expected ErrReferenced, got %v", err)
		}
	})

	t.Run("member without history can leave", func(t *testing.T) {
		if err := f.ledger.DeleteUser(ctx, c.ID, c.ID); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		if _, err := f.ledger.GetUser(ctx, c.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		group, err := f.store.GetGroup(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if group.HasMember(c.ID) {
			t.Error("Expected membership to be removed with the user")
		}
	})
}

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")

	g, err := f.ledger.CreateGroup(ctx, a.ID, "  Trip  ", "Lisbon", []string{b.ID, a.ID, "ghost", b.ID})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if g.Name != "Trip" {
		t.Errorf("Name = %q, want %q", g.Name, "Trip")
	}
	if len(g.Members) != 2 || g.Members[0] != a.ID || g.Members[1] != b.ID {
		t.Errorf("Members = %v, want [%s %s]", g.Members, a.ID, b.ID)
	}

	if _, err := f.ledger.CreateGroup(ctx, a.ID, "", "", nil); !errors.Is(err, models.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
	if _, err := f.ledger.CreateGroup(ctx, "ghost", "Nope", "", nil); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown owner, got %v", err)
	}

	groups, err := f.ledger.ListGroups(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != g.ID {
		t.Errorf("ListGroups = %v, want [%s]", groups, g.ID)
	}
}

func TestMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	g := f.group(t, a, b)

	t.Run("non-member cannot add", func(t *testing.T) {
		if _, err := f.ledger.AddMember(ctx, c.ID, g.ID, c.ID); !errors.Is(err, ErrNotMember) {
			t.Errorf("Expected ErrNotMember, got %v", err)
		}
	})

	t.Run("member adds member", func(t *testing.T) {
		group, err := f.ledger.AddMember(ctx, b.ID, g.ID, c.ID)
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if !group.HasMember(c.ID) {
			t.Errorf("Expected %s in %v", c.ID, group.Members)
		}
		if _, err := f.ledger.AddMember(ctx, b.ID, g.ID, c.ID); err != nil {
			t.Errorf("Adding an existing member should be a no-op, got %v", err)
		}
	})

	t.Run("only owner removes others", func(t *testing.T) {
		if err := f.ledger.RemoveMember(ctx, b.ID, g.ID, c.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
		if err := f.ledger.RemoveMember(ctx, a.ID, g.ID, c.ID); err != nil {
			t.Errorf("RemoveMember by owner failed: %v", err)
		}
		if err := f.ledger.RemoveMember(ctx, a.ID, g.ID, c.ID); !errors.Is(err, ErrNotMember) {
			t.Errorf("Expected ErrNotMember, got %v", err)
		}
	})

	t.Run("members can leave", func(t *testing.T) {
		if err := f.ledger.RemoveMember(ctx, b.ID, g.ID, b.ID); err != nil {
			t.Errorf("RemoveMember self failed: %v", err)
		}
	})

	got := f.publisher.types()
	if len(got) != 1 {
		t.Errorf("Expected a single member.joined event, got %v", got)
	}
}

func TestDeleteGroup(t *testing.T) {
	f := newFixture(t)
	g, a, b, _ := f.scenario(t)
	ctx := context.Background()

	if err := f.ledger.DeleteGroup(ctx, b.ID, g.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if err := f.ledger.DeleteGroup(ctx, a.ID, g.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if _, err := f.ledger.GroupView(ctx, g.ID, a.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// With the group gone nothing references bob any more
	if err := f.ledger.DeleteUser(ctx, b.ID, b.ID); err != nil {
		t.Errorf("DeleteUser after group deletion failed: %v", err)
	}
}

func TestListLedgerRows(t *testing.T) {
	f := newFixture(t)
	g, a, _, _ := f.scenario(t)
	ctx := context.Background()

	expenses, err := f.ledger.ListExpenses(ctx, a.ID, g.ID)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 2 || expenses[0].PaidAmount.String() != "30" {
		t.Errorf("Expected 2 expenses newest first, got %+v", expenses)
	}

	settlements, err := f.ledger.ListSettlements(ctx, a.ID, g.ID)
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(settlements) != 1 {
		t.Errorf("Expected 1 settlement, got %d", len(settlements))
	}

	outsider := f.user(t, "dave")
	if _, err := f.ledger.ListSettlements(ctx, outsider.ID, g.ID); !errors.Is(err, ErrNotMember) {
		t.Errorf("Expected ErrNotMember, got %v", err)
	}
}
