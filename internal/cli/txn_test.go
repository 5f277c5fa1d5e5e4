package cli

import (
	"testing"

	"finance-dashboard/internal/cli/output"
)

func TestTxnAddDerivesTypeFromBudgetLink(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)

	data := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{
		"add", "--amount", "42.5", "--type", "income", "--budget-category", "var-1", "--date", "2026-10-03",
	}))
	transaction := mustMap(t, data["transaction"])
	if transaction["type"] != "expense" || transaction["budgetType"] != "variable" {
		t.Fatalf("expected a linked variable expense, got %v", transaction)
	}
	if transaction["category"] != "Groceries" {
		t.Fatalf("expected the linked category name, got %v", transaction["category"])
	}
	if transaction["amount"] != 42.5 || transaction["createdAt"] != "2026-10-14T12:00:00Z" {
		t.Fatalf("unexpected transaction: %v", transaction)
	}
}

func TestTxnAddDefaultsDateToToday(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)

	data := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"add", "--amount", "3000", "--type", "income", "--category", "Salary"}))
	transaction := mustMap(t, data["transaction"])
	if transaction["date"] != "2026-10-14" || transaction["type"] != "income" {
		t.Fatalf("expected an income dated today, got %v", transaction)
	}
	if _, linked := transaction["budgetType"]; linked {
		t.Fatalf("expected no budget type without a link, got %v", transaction)
	}
}

func TestTxnAddValidation(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)

	tests := []struct {
		name   string
		args   []string
		reason string
	}{
		{name: "zero amount", args: []string{"add", "--amount", "0"}, reason: "invalid_amount"},
		{name: "negative amount", args: []string{"add", "--amount", "-5"}, reason: "invalid_amount"},
		{name: "impossible date", args: []string{"add", "--amount", "5", "--date", "2026-02-30"}, reason: "invalid_date"},
		{name: "unknown type", args: []string{"add", "--amount", "5", "--type", "transfer"}, reason: "invalid_type"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			details := requireErrorCode(t, executeCmdJSON(t, db, NewTxnCmd, tt.args), output.CodeInvalidArgument)
			if details["reason"] != tt.reason {
				t.Fatalf("expected reason %q, got %v", tt.reason, details)
			}
		})
	}

	listed := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"list", "--all"}))
	if listed["count"] != float64(0) {
		t.Fatalf("expected rejected adds to store nothing, got %v", listed["count"])
	}
}

func TestTxnUpdateReportsIgnoredDate(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)

	added := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"add", "--amount", "20", "--category", "Food", "--date", "2026-10-02"}))
	id, _ := mustMap(t, added["transaction"])["id"].(string)

	payload := executeCmdJSON(t, db, NewTxnCmd, []string{"update", id, "--amount", "25", "--date", "2026-13-01", "--description", "weekly  shop"})
	data := requireOK(t, payload)

	transaction := mustMap(t, data["transaction"])
	if transaction["amount"] != float64(25) || transaction["date"] != "2026-10-02" || transaction["description"] != "weekly shop" {
		t.Fatalf("unexpected updated transaction: %v", transaction)
	}
	if transaction["updatedAt"] != "2026-10-14T12:00:00Z" {
		t.Fatalf("expected updatedAt to be stamped, got %v", transaction["updatedAt"])
	}

	warnings := mustSlice(t, payload["warnings"])
	if len(warnings) != 1 || mustMap(t, warnings[0])["code"] != "FIELD_IGNORED" {
		t.Fatalf("expected one FIELD_IGNORED warning, got %v", warnings)
	}

	details := requireErrorCode(t, executeCmdJSON(t, db, NewTxnCmd, []string{"update", id, "--amount", "0"}), output.CodeInvalidArgument)
	if details["reason"] != "invalid_amount" {
		t.Fatalf("expected invalid_amount, got %v", details)
	}

	details = requireErrorCode(t, executeCmdJSON(t, db, NewTxnCmd, []string{"update", "missing", "--amount", "1"}), output.CodeNotFound)
	if details["reason"] != "transaction_not_found" {
		t.Fatalf("expected transaction_not_found, got %v", details)
	}
}

func TestTxnListFiltersAndSummarizes(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)

	seed := [][]string{
		{"add", "--amount", "3000", "--type", "income", "--category", "Salary", "--date", "2026-10-01"},
		{"add", "--amount", "80", "--category", "Food", "--description", "Market run", "--date", "2026-10-05"},
		{"add", "--amount", "15.25", "--category", "Entertainment", "--date", "2026-10-09"},
		{"add", "--amount", "600", "--category", "Rent", "--date", "2026-09-01"},
	}
	for _, args := range seed {
		requireOK(t, executeCmdJSON(t, db, NewTxnCmd, args))
	}

	data := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"list"}))
	if data["period"] != "2026-10" || data["count"] != float64(3) {
		t.Fatalf("expected 3 transactions in the selected period, got %v", data)
	}
	summary := mustMap(t, data["summary"])
	if summary["totalIncome"] != float64(3000) || summary["totalExpenses"] != 95.25 || summary["balance"] != 2904.75 {
		t.Fatalf("unexpected summary: %v", summary)
	}
	first := mustMap(t, mustSlice(t, data["transactions"])[0])
	if first["date"] != "2026-10-09" {
		t.Fatalf("expected newest first, got %v", first)
	}

	all := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"list", "--all", "--sort", "amount-asc"}))
	transactions := mustSlice(t, all["transactions"])
	if len(transactions) != 4 || mustMap(t, transactions[0])["amount"] != 15.25 {
		t.Fatalf("expected all transactions smallest first, got %v", transactions)
	}

	searched := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"list", "--all", "--search", "market"}))
	if searched["count"] != float64(1) {
		t.Fatalf("expected one search hit, got %v", searched["count"])
	}

	expenses := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"list", "--period", "2026-10", "--type", "expense", "--from", "2026-10-06"}))
	if expenses["count"] != float64(1) {
		t.Fatalf("expected one expense after 2026-10-06, got %v", expenses["count"])
	}

	requireErrorCode(t, executeCmdJSON(t, db, NewTxnCmd, []string{"list", "--sort", "random"}), output.CodeInvalidArgument)
}

func TestTxnDeleteAndActuals(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)

	kept := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"add", "--amount", "100.2", "--budget-category", "var-1", "--date", "2026-10-02"}))
	requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"add", "--amount", "50.3", "--category", "groceries", "--date", "2026-10-03"}))
	removed := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"add", "--amount", "9", "--category", "Mystery", "--date", "2026-10-04"}))

	removedID, _ := mustMap(t, removed["transaction"])["id"].(string)
	requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"delete", removedID}))
	requireErrorCode(t, executeCmdJSON(t, db, NewTxnCmd, []string{"delete", removedID}), output.CodeNotFound)

	data := requireOK(t, executeCmdJSON(t, db, NewTxnCmd, []string{"actuals", "--period", "2026-10"}))
	actuals := mustMap(t, data["actuals"])
	byCategory := mustMap(t, actuals["byCategoryId"])
	if byCategory["var-1"] != 150.5 || actuals["matched"] != float64(2) || actuals["unmatched"] != float64(0) {
		t.Fatalf("unexpected actuals: %v", actuals)
	}
	if mustMap(t, kept["transaction"])["category"] != "Groceries" {
		t.Fatalf("expected linked name fallback, got %v", kept["transaction"])
	}
}
