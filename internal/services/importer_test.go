package services

import (
	"context"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func TestImportPartialSuccess(t *testing.T) {
	repo := newTestStorage(t)
	u := registerUser(t, repo)
	account := createAccount(t, repo, u.ID, "Checking", 100)
	ctx := context.Background()

	rows := []ImportRow{
		{Amount: -25.50, Description: "groceries", Date: "2026-03-02"},
		{Amount: 0, Description: "broken", Date: "2026-03-03"},
		{Amount: 2000, Description: "salary", Date: "2026-03-01"},
		{Amount: -10, Description: "", Date: "2026-03-04"},
		{Amount: -5, Description: "coffee", Date: "not-a-date"},
	}

	result, err := NewImporterService(repo).Import(ctx, u.ID, rows)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("imported = %d, want 2", result.Imported)
	}
	if result.Failed != 3 {
		t.Errorf("failed = %d, want 3", result.Failed)
	}

	wantReasons := map[int]string{
		2: "missing or invalid amount",
		4: "missing description",
		5: "missing or invalid date",
	}
	for _, re := range result.Errors {
		want, ok := wantReasons[re.Row]
		if !ok {
			t.Errorf("unexpected row error %d: %s", re.Row, re.Reason)
			continue
		}
		if re.Reason != want {
			t.Errorf("row %d reason = %q, want %q", re.Row, re.Reason, want)
		}
		delete(wantReasons, re.Row)
	}
	for row := range wantReasons {
		t.Errorf("missing error for row %d", row)
	}

	// The two valid rows net to +2000.00 - 25.50, applied once.
	a, err := repo.GetAccount(ctx, u.ID, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	want := int64(10000 + 200000 - 2550)
	if a.Balance.Cents != want {
		t.Errorf("balance = %d, want %d", a.Balance.Cents, want)
	}
}

func TestImportSignSelectsTypeAndCategory(t *testing.T) {
	repo := newTestStorage(t)
	u := registerUser(t, repo)
	createAccount(t, repo, u.ID, "Checking", 0)
	ctx := context.Background()

	result, err := NewImporterService(repo).Import(ctx, u.ID, []ImportRow{
		{Amount: 150, Description: "refund", Date: "2026-03-05"},
		{Amount: -40, Description: "dinner", Date: "2026-03-06"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 2 || result.Failed != 0 {
		t.Fatalf("imported=%d failed=%d, want 2/0", result.Imported, result.Failed)
	}

	txs, _, err := repo.ListTransactions(ctx, u.ID, storage.TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	byDesc := map[string]core.Transaction{}
	for _, tx := range txs {
		byDesc[tx.Description] = tx
	}

	refund := byDesc["refund"]
	if refund.Type != core.TypeIncome || refund.Amount.Cents != 15000 {
		t.Errorf("refund stored as %s %d cents", refund.Type, refund.Amount.Cents)
	}
	dinner := byDesc["dinner"]
	if dinner.Type != core.TypeExpense || dinner.Amount.Cents != 4000 {
		t.Errorf("dinner stored as %s %d cents", dinner.Type, dinner.Amount.Cents)
	}

	// Fallback categories carry the row's inferred type.
	incomeCat, err := repo.GetCategory(ctx, u.ID, refund.CategoryID)
	if err != nil || incomeCat.Type != core.TypeIncome {
		t.Errorf("refund category type = %v (err %v)", incomeCat.Type, err)
	}
	expenseCat, err := repo.GetCategory(ctx, u.ID, dinner.CategoryID)
	if err != nil || expenseCat.Type != core.TypeExpense {
		t.Errorf("dinner category type = %v (err %v)", expenseCat.Type, err)
	}
}

func TestImportExplicitCategoryValidation(t *testing.T) {
	repo := newTestStorage(t)
	u := registerUser(t, repo)
	createAccount(t, repo, u.ID, "Checking", 0)
	ctx := context.Background()

	incomeCat := categoryOfType(t, repo, u.ID, core.TypeIncome)

	result, err := NewImporterService(repo).Import(ctx, u.ID, []ImportRow{
		// Expense row pointing at an income category.
		{Amount: -12, Description: "mismatch", Date: "2026-03-07", CategoryID: incomeCat.ID.String()},
		{Amount: 30, Description: "match", Date: "2026-03-07", CategoryID: incomeCat.ID.String()},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 1 || result.Failed != 1 {
		t.Fatalf("imported=%d failed=%d, want 1/1", result.Imported, result.Failed)
	}
	if result.Errors[0].Row != 1 || result.Errors[0].Reason != "category type does not match amount sign" {
		t.Errorf("unexpected row error: %+v", result.Errors[0])
	}
}

func TestImportWithoutAccount(t *testing.T) {
	repo := newTestStorage(t)
	u := registerUser(t, repo)

	_, err := NewImporterService(repo).Import(context.Background(), u.ID, []ImportRow{
		{Amount: 10, Description: "x", Date: "2026-03-01"},
	})
	if err == nil {
		t.Fatal("expected error with no active account")
	}
}
