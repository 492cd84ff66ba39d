package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chopbill/internal/auth"
	"github.com/mmynk/chopbill/internal/ledger"
	"github.com/mmynk/chopbill/internal/storage/sqlite"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seed writes a small group into the database at path: alice pays 90 for three,
// carol then pays alice 20.
func seed(t *testing.T, path string) (groupID, alice, carol string) {
	t.Helper()
	store, err := sqlite.New(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	l := ledger.New(store)

	var ids []string
	for _, name := range []string{"alice", "bob", "carol"} {
		u, err := l.CreateUser(ctx, name, name+"@example.com", "")
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		ids = append(ids, u.ID)
	}
	g, err := l.CreateGroup(ctx, ids[0], "Trip", "", ids[1:])
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := l.CreateExpense(ctx, ledger.ExpenseInput{
		GroupID: g.ID, ActorID: ids[0], Amount: decimal.RequireFromString("90"), Description: "Hotel",
	}); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := l.CreateSettlement(ctx, ledger.SettlementInput{
		GroupID: g.ID, ActorID: ids[2], PayerID: ids[2], PayeeID: ids[0], Amount: decimal.RequireFromString("20"),
	}); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	return g.ID, ids[0], ids[2]
}

func TestCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "ledger.db")
	t.Setenv("DB_PATH", dbPath)
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := run(t, "migrate")
	if err != nil {
		t.Fatalf("migrate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"migrated"`) {
		t.Errorf("Unexpected migrate output: %s", out)
	}

	groupID, alice, carol := seed(t, dbPath)

	t.Run("balance", func(t *testing.T) {
		out, err := run(t, "balance", "--group", groupID, "--user", alice)
		if err != nil {
			t.Fatalf("balance failed: %v\n%s", err, out)
		}
		var got struct {
			Balance decimal.Decimal `json:"balance"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if !got.Balance.Equal(decimal.RequireFromString("40")) {
			t.Errorf("balance = %s, want 40", got.Balance)
		}
	})

	t.Run("pairwise", func(t *testing.T) {
		out, err := run(t, "pairwise", "--group", groupID, "--user", carol, "--other", alice)
		if err != nil {
			t.Fatalf("pairwise failed: %v\n%s", err, out)
		}
		var got struct {
			Amount    decimal.Decimal `json:"amount"`
			Direction string          `json:"direction"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if !got.Amount.Equal(decimal.RequireFromString("10")) || got.Direction != "-" {
			t.Errorf("pairwise = %s %q, want 10 -", got.Amount, got.Direction)
		}
	})

	t.Run("dashboard", func(t *testing.T) {
		out, err := run(t, "dashboard", "--user", alice)
		if err != nil {
			t.Fatalf("dashboard failed: %v\n%s", err, out)
		}
		var got struct {
			TotalOwedToMe       decimal.Decimal   `json:"total_owed_to_me"`
			OutstandingBalances []json.RawMessage `json:"outstanding_balances"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if !got.TotalOwedToMe.Equal(decimal.RequireFromString("40")) || len(got.OutstandingBalances) != 2 {
			t.Errorf("Unexpected dashboard: %s", out)
		}
	})

	t.Run("token", func(t *testing.T) {
		out, err := run(t, "token", "--user", alice, "--ttl", "1h")
		if err != nil {
			t.Fatalf("token failed: %v\n%s", err, out)
		}
		var got map[string]string
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		claims, err := auth.NewJWTManager("cli-secret", time.Hour).Validate(got["token"])
		if err != nil {
			t.Fatalf("minted token does not validate: %v", err)
		}
		if claims.UserID != alice {
			t.Errorf("token user = %s, want %s", claims.UserID, alice)
		}
	})

	t.Run("token for unknown user", func(t *testing.T) {
		if _, err := run(t, "token", "--user", "ghost"); err == nil {
			t.Error("Expected error for unknown user")
		}
	})

	t.Run("missing required flag", func(t *testing.T) {
		if _, err := run(t, "balance", "--group", groupID); err == nil {
			t.Error("Expected error without --user")
		}
	})
}

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "ledger.db"))
	t.Setenv("JWT_SECRET", "")

	if _, err := run(t, "token", "--user", "someone"); err == nil {
		t.Error("Expected error without a JWT secret")
	}
}

func TestBadConfig(t *testing.T) {
	t.Setenv("LOG_FORMAT", "yaml")
	if _, err := run(t, "migrate"); err == nil {
		t.Error("Expected config validation error")
	}
}
