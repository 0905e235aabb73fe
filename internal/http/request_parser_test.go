package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		invalid bool
	}{
		{"number", `{"amount": 42.5}`, 42.5, false},
		{"negative number", `{"amount": -3}`, -3, false},
		{"dot string", `{"amount": "12.34"}`, 12.34, false},
		{"comma string", `{"amount": "12,5"}`, 12.5, false},
		{"garbage string", `{"amount": "abc"}`, 0, true},
		{"zero string", `{"amount": "0"}`, 0, true},
		{"null", `{"amount": null}`, 0, false},
		{"missing", `{}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload struct {
				Amount Amount `json:"amount"`
			}
			w := httptest.NewRecorder()
			if err := decodeJSON(w, jsonRequest(http.MethodPost, "/", tt.body), &payload); err != nil {
				t.Fatalf("decodeJSON: %v", err)
			}
			if payload.Amount.Value != tt.want || payload.Amount.Invalid != tt.invalid {
				t.Errorf("Amount = %+v, want value %v invalid %v", payload.Amount, tt.want, tt.invalid)
			}
		})
	}
}

func TestDecodeJSONRejectsMalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ``},
		{"not json", `title=x`},
		{"truncated", `{"title": "x"`},
		{"trailing data", `{"id": "1"} {"id": "2"}`},
		{"wrong type", `{"id": 12}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload idPayload
			err := decodeJSON(httptest.NewRecorder(), jsonRequest(http.MethodDelete, "/", tt.body), &payload)
			if !errors.Is(err, ErrInvalidBody) {
				t.Errorf("decodeJSON() error = %v, want ErrInvalidBody", err)
			}
		})
	}
}

func TestParseTransaction(t *testing.T) {
	p := NewRequestParser()

	tests := []struct {
		name    string
		body    string
		wantMsg string
		want    core.Transaction
	}{
		{
			name: "valid with string amount",
			body: `{"title":"  Lunch ","amount":"12,50","type":"Expense","category":"Food & Dining","month":"March","description":"team"}`,
			want: core.Transaction{Title: "Lunch", Amount: 12.5, Type: core.Expense, Category: "Food & Dining", Month: "March", Description: "team"},
		},
		{
			name: "id is carried for updates",
			body: `{"id":" abc ","title":"Pay","amount":3000,"type":"income","category":"Salary","month":"April"}`,
			want: core.Transaction{ID: "abc", Title: "Pay", Amount: 3000, Type: core.Income, Category: "Salary", Month: "April"},
		},
		{
			name:    "missing title",
			body:    `{"amount":1,"type":"expense","month":"March"}`,
			wantMsg: "title is required",
		},
		{
			name:    "bad type",
			body:    `{"title":"x","amount":1,"type":"transfer","month":"March"}`,
			wantMsg: "type must be one of: income, expense",
		},
		{
			name:    "missing month",
			body:    `{"title":"x","amount":1,"type":"expense"}`,
			wantMsg: "month is required",
		},
		{
			name:    "amount not a number",
			body:    `{"title":"x","amount":"lots","type":"expense","month":"March"}`,
			wantMsg: "amount must be a number",
		},
		{
			name:    "title too long",
			body:    `{"title":"` + strings.Repeat("a", 201) + `","amount":1,"type":"expense","month":"March"}`,
			wantMsg: "title must be at most 200 characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseTransaction(httptest.NewRecorder(), jsonRequest(http.MethodPost, "/api/transactions", tt.body))
			if tt.wantMsg != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Message != tt.wantMsg {
					t.Fatalf("error = %v, want validation error %q", err, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTransaction: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTransaction() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseBudget(t *testing.T) {
	p := NewRequestParser()

	got, err := p.ParseBudget(httptest.NewRecorder(), jsonRequest(http.MethodPost, "/api/budget", `{"category":"Travel","amount":"250","month":"may"}`))
	if err != nil {
		t.Fatalf("ParseBudget: %v", err)
	}
	want := core.Budget{Category: "Travel", Amount: 250, Month: "may"}
	if got != want {
		t.Errorf("ParseBudget() = %+v, want %+v", got, want)
	}

	_, err = p.ParseBudget(httptest.NewRecorder(), jsonRequest(http.MethodPost, "/api/budget", `{"amount":10,"month":"May"}`))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Message != "category is required" {
		t.Errorf("expected category validation error, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	p := NewRequestParser()
	id, err := p.ParseID(httptest.NewRecorder(), jsonRequest(http.MethodDelete, "/", `{"id":"  42 "}`))
	if err != nil || id != "42" {
		t.Fatalf("ParseID() = %q, %v", id, err)
	}
	id, err = p.ParseID(httptest.NewRecorder(), jsonRequest(http.MethodDelete, "/", `{}`))
	if err != nil || id != "" {
		t.Fatalf("missing id should decode to empty: %q, %v", id, err)
	}
}

func TestParseListFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		want    ledger.Filter
		wantErr bool
	}{
		{"defaults", url.Values{}, ledger.Filter{SortBy: ledger.SortByDate}, false},
		{
			"everything",
			url.Values{"q": {" rent "}, "category": {"Travel"}, "type": {"EXPENSE"}, "month": {"jan"}, "sort": {"amount"}, "order": {"asc"}},
			ledger.Filter{Search: "rent", Category: "Travel", Type: core.Expense, Month: "January", SortBy: ledger.SortByAmount, Ascending: true},
			false,
		},
		{"all means no constraint", url.Values{"category": {"all"}, "type": {"all"}}, ledger.Filter{SortBy: ledger.SortByDate}, false},
		{"unknown sort falls back", url.Values{"sort": {"title"}, "order": {"desc"}}, ledger.Filter{SortBy: ledger.SortByDate}, false},
		{"bad type", url.Values{"type": {"transfer"}}, ledger.Filter{}, true},
		{"bad month", url.Values{"month": {"Smarch"}}, ledger.Filter{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseListFilter(tt.query)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidQuery) {
					t.Fatalf("error = %v, want ErrInvalidQuery", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseListFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseListFilter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\n "); got != "ab\tc" {
		t.Errorf("sanitizeInput() = %q", got)
	}
}
