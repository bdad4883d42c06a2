package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/mmynk/splitpocket/internal/apperr"
	"github.com/mmynk/splitpocket/internal/models"
	"github.com/mmynk/splitpocket/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()

	user := models.NewUser(email, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and default currency", func(t *testing.T) {
		user := &models.User{Email: "alice@example.com", PasswordHash: "hash"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.DefaultCurrency != models.DefaultCurrency {
			t.Errorf("DefaultCurrency = %q, want %q", user.DefaultCurrency, models.DefaultCurrency)
		}
		if !user.NeedsProfile() {
			t.Error("Expected new user to need a profile")
		}
	})

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error for duplicate email")
		}
	})

	t.Run("GetUserByEmail returns nil for unknown email", func(t *testing.T) {
		user, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user != nil {
			t.Errorf("Expected nil user, got %+v", user)
		}
	})

	t.Run("UpdateProfile stores username", func(t *testing.T) {
		user := createUser(t, store, "bob@example.com")
		user.Username = "bob"
		user.DefaultCurrency = "SGD"
		if err := store.UpdateProfile(ctx, user); err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}

		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Username != "bob" || got.DefaultCurrency != "SGD" {
			t.Errorf("Profile not updated: %+v", got)
		}
		if got.AvatarURL != "" {
			t.Errorf("AvatarURL = %q, want empty", got.AvatarURL)
		}
	})

	t.Run("GetUserByID returns NotFound", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "missing")
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})

	t.Run("ListUsers puts named users first", func(t *testing.T) {
		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("Expected 2 users, got %d", len(users))
		}
		if users[0].Username != "bob" {
			t.Errorf("Expected bob first, got %+v", users[0])
		}
	})
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:            "Roommates",
		CreatedByUserID: "u1",
		MemberIDs:       []string{"u1", "u2"},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateGroup generates ID", func(t *testing.T) {
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetGroup without viewer has no balance", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID, "")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Balance != nil {
			t.Errorf("Expected nil balance, got %v", *got.Balance)
		}
		if len(got.MemberIDs) != 2 || got.MemberIDs[0] != "u1" {
			t.Errorf("MemberIDs = %v, want [u1 u2]", got.MemberIDs)
		}
	})

	t.Run("AddGroupMembers is an idempotent union", func(t *testing.T) {
		if err := store.AddGroupMembers(ctx, group.ID, []string{"u3", "u3", "u2"}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}
		if err := store.AddGroupMembers(ctx, group.ID, []string{"u3"}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID, "")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []string{"u1", "u2", "u3"}
		if len(got.MemberIDs) != len(want) {
			t.Fatalf("MemberIDs = %v, want %v", got.MemberIDs, want)
		}
		for i := range want {
			if got.MemberIDs[i] != want[i] {
				t.Errorf("MemberIDs = %v, want %v", got.MemberIDs, want)
				break
			}
		}
	})

	t.Run("AddGroupMembers on missing group", func(t *testing.T) {
		err := store.AddGroupMembers(ctx, "missing", []string{"u1"})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})

	t.Run("SetMemberBalance is visible to that member only", func(t *testing.T) {
		if err := store.SetMemberBalance(ctx, group.ID, "u2", -12.5); err != nil {
			t.Fatalf("SetMemberBalance failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID, "u2")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Balance == nil || *got.Balance != -12.5 {
			t.Errorf("Balance = %v, want -12.5", got.Balance)
		}

		other, err := store.GetGroup(ctx, group.ID, "u1")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if other.Balance != nil {
			t.Errorf("Expected u1 balance to be unset, got %v", *other.Balance)
		}
	})

	t.Run("SetMemberBalance for non-member", func(t *testing.T) {
		err := store.SetMemberBalance(ctx, group.ID, "stranger", 1)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})

	t.Run("ListGroupsForMember", func(t *testing.T) {
		second := &models.Group{Name: "Trip", CreatedByUserID: "u2", MemberIDs: []string{"u2"}}
		if err := store.CreateGroup(ctx, second); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.SetGroupSettled(ctx, second.ID, true); err != nil {
			t.Fatalf("SetGroupSettled failed: %v", err)
		}

		groups, err := store.ListGroupsForMember(ctx, "u2")
		if err != nil {
			t.Fatalf("ListGroupsForMember failed: %v", err)
		}
		if len(groups) != 2 {
			t.Fatalf("Expected 2 groups, got %d", len(groups))
		}
		if groups[0].ID != second.ID {
			t.Errorf("Expected newest group first, got %s", groups[0].Name)
		}
		if !groups[0].Settled {
			t.Error("Expected Trip to be settled")
		}
		if groups[1].Balance == nil || *groups[1].Balance != -12.5 {
			t.Errorf("Roommates balance = %v, want -12.5", groups[1].Balance)
		}

		none, err := store.ListGroupsForMember(ctx, "nobody")
		if err != nil {
			t.Fatalf("ListGroupsForMember failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("Expected no groups, got %d", len(none))
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Lunch club", CreatedByUserID: "a", MemberIDs: []string{"a", "b"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	lunch := &models.Expense{
		Description:   "Lunch",
		Amount:        30,
		Currency:      "MYR",
		Category:      "Food and Beverages",
		GroupID:       group.ID,
		CreatorUserID: "a",
		Splits: []models.Split{
			{UserID: "a", AmountOwed: 15, PaidStatus: models.PaidStatusPaid},
			{UserID: "b", AmountOwed: 15, PaidStatus: models.PaidStatusPending},
		},
	}
	coffee := &models.Expense{
		Description:   "Coffee",
		Amount:        4.5,
		Currency:      "MYR",
		Category:      models.DefaultCategory,
		CreatorUserID: "a",
	}

	for _, e := range []*models.Expense{lunch, coffee} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	t.Run("GetExpense round-trips splits", func(t *testing.T) {
		got, err := store.GetExpense(ctx, lunch.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.GroupID != group.ID {
			t.Errorf("GroupID = %q, want %q", got.GroupID, group.ID)
		}
		if len(got.Splits) != 2 || got.Splits[1].UserID != "b" || got.Splits[1].PaidStatus != "pending" {
			t.Errorf("Splits = %+v", got.Splits)
		}
		if got.Date == 0 {
			t.Error("Expected Date to default to creation time")
		}
	})

	t.Run("personal expense has no group", func(t *testing.T) {
		got, err := store.GetExpense(ctx, coffee.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.IsPersonal() {
			t.Errorf("Expected personal expense, got group %q", got.GroupID)
		}
		if len(got.Splits) != 0 {
			t.Errorf("Expected no splits, got %d", len(got.Splits))
		}
	})

	t.Run("ListExpenses by group", func(t *testing.T) {
		got, err := store.ListExpenses(ctx, storage.ExpenseFilter{GroupID: group.ID})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != lunch.ID {
			t.Errorf("ListExpenses = %+v", got)
		}
	})

	t.Run("ListExpenses by creator newest first", func(t *testing.T) {
		got, err := store.ListExpenses(ctx, storage.ExpenseFilter{CreatorUserID: "a"})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(got))
		}
		if got[0].ID != coffee.ID {
			t.Errorf("Expected newest expense first, got %s", got[0].Description)
		}

		limited, err := store.ListExpenses(ctx, storage.ExpenseFilter{CreatorUserID: "a", Limit: 1})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("Expected 1 expense with limit, got %d", len(limited))
		}
	})

	t.Run("expense for unknown group is rejected", func(t *testing.T) {
		bad := &models.Expense{Description: "x", Amount: 1, Currency: "MYR", Category: "Others", CreatorUserID: "a", GroupID: "missing"}
		if err := store.CreateExpense(ctx, bad); err == nil {
			t.Error("Expected foreign key error")
		}
	})

	t.Run("GetExpense returns NotFound", func(t *testing.T) {
		_, err := store.GetExpense(ctx, "missing")
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})
}

func TestGroupRecordDecode(t *testing.T) {
	rec := groupRecord{ID: "g1", Name: ""}
	if _, err := rec.decode(nil); !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("Expected ErrCorruptRecord for empty name, got %v", err)
	}

	rec = groupRecord{ID: "g1", Name: "ok"}
	rec.Balance.Valid = true
	rec.Balance.Float64 = 3
	group, err := rec.decode([]string{"b", "a"})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if group.Balance == nil || *group.Balance != 3 {
		t.Errorf("Balance = %v, want 3", group.Balance)
	}
	if len(group.MemberIDs) != 2 || group.MemberIDs[0] != "b" {
		t.Errorf("MemberIDs order changed: %v", group.MemberIDs)
	}
}

func TestSQLiteStore_ConcurrentWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	const writers = 32

	group := &models.Group{Name: "Crowd", CreatedByUserID: "u0", MemberIDs: []string{"u0"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("AddGroupMembers converges", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- store.AddGroupMembers(ctx, group.ID, []string{"u1", fmt.Sprintf("x%d", i)})
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				t.Errorf("AddGroupMembers failed: %v", err)
			}
		}

		got, err := store.GetGroup(ctx, group.ID, "")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []string{"u0", "u1"}
		for i := range writers {
			want = append(want, fmt.Sprintf("x%d", i))
		}
		members := slices.Clone(got.MemberIDs)
		slices.Sort(members)
		slices.Sort(want)
		if !slices.Equal(members, want) {
			t.Errorf("MemberIDs = %v, want %v", members, want)
		}
		if got.MemberIDs[0] != "u0" {
			t.Errorf("Expected creator first, got %v", got.MemberIDs)
		}
	})

	t.Run("CreateGroup and CreateExpense in parallel", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 2*writers)
		for i := range writers {
			wg.Add(2)
			go func() {
				defer wg.Done()
				errs <- store.CreateGroup(ctx, &models.Group{
					Name:            fmt.Sprintf("g%d", i),
					CreatedByUserID: "u0",
					MemberIDs:       []string{"u0", "u1"},
				})
			}()
			go func() {
				defer wg.Done()
				errs <- store.CreateExpense(ctx, &models.Expense{
					Description:   fmt.Sprintf("e%d", i),
					Amount:        10,
					Currency:      "MYR",
					Category:      "Food",
					GroupID:       group.ID,
					CreatorUserID: "u0",
					Splits:        []models.Split{{UserID: "u1", AmountOwed: 10, PaidStatus: models.PaidStatusPending}},
				})
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				t.Errorf("concurrent write failed: %v", err)
			}
		}

		groups, err := store.ListGroupsForMember(ctx, "u1")
		if err != nil {
			t.Fatalf("ListGroupsForMember failed: %v", err)
		}
		if len(groups) != writers+1 {
			t.Errorf("Expected %d groups, got %d", writers+1, len(groups))
		}

		expenses, err := store.ListExpenses(ctx, storage.ExpenseFilter{GroupID: group.ID})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != writers {
			t.Errorf("Expected %d expenses, got %d", writers, len(expenses))
		}
	})
}
