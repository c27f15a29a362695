package csv

import (
	"strings"
	"testing"
)

func TestParseStatement(t *testing.T) {
	input := strings.Join([]string{
		"Transaction Date,Payee,Debit,Credit,Type",
		"01/15/2026,Grocery Store,45.20,,Food",
		"2026-01-16,Employer,,2500.00,Salary",
		"16.01.2026,Unknown Shop,10.00,,",
	}, "\n")

	rows, err := ParseStatement(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	if rows[0].Date != "2026-01-15" {
		t.Errorf("row 0 date = %q", rows[0].Date)
	}
	if rows[0].Description != "Grocery Store" {
		t.Errorf("row 0 description = %q", rows[0].Description)
	}
	if rows[0].Amount != -45.20 {
		t.Errorf("row 0 amount = %v, want -45.2 (debit is an outflow)", rows[0].Amount)
	}
	if rows[0].Category != "Food" {
		t.Errorf("row 0 category = %q", rows[0].Category)
	}

	if rows[1].Amount != 2500.00 {
		t.Errorf("row 1 amount = %v, want 2500 (credit is an inflow)", rows[1].Amount)
	}
	if rows[1].Date != "2026-01-16" {
		t.Errorf("row 1 date = %q", rows[1].Date)
	}

	if rows[2].Date != "2026-01-16" {
		t.Errorf("row 2 date = %q, dotted layout not recognized", rows[2].Date)
	}
}

func TestParseStatementHeaderAliases(t *testing.T) {
	input := "date,memo,amount\n2026-02-01,coffee,-3.50\n"
	rows, err := ParseStatement(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Description != "coffee" || rows[0].Amount != -3.50 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestParseStatementUnparseableCellsPassThrough(t *testing.T) {
	input := "date,description,amount\nsoon,dinner,not-a-number\n"
	rows, err := ParseStatement(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rows[0].Date != "soon" {
		t.Errorf("unparseable date not passed through: %q", rows[0].Date)
	}
	if rows[0].Amount != 0 {
		t.Errorf("unparseable amount = %v, want 0", rows[0].Amount)
	}
}

func TestParseStatementErrors(t *testing.T) {
	if _, err := ParseStatement(strings.NewReader("")); err == nil {
		t.Error("empty file accepted")
	}
	if _, err := ParseStatement(strings.NewReader("foo,bar\n1,2\n")); err == nil {
		t.Error("unrecognized header accepted")
	}
}
