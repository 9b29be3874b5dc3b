package core

import (
	"errors"
	"testing"
)

func TestInvoiceNormalize(t *testing.T) {
	inv := Invoice{Company: "Acme", Quantity: -2}.Normalize()
	if inv.Currency != DefaultCurrency {
		t.Fatalf("expected default currency, got %q", inv.Currency)
	}
	if inv.Quantity != 0 {
		t.Fatalf("negative quantity must clamp to 0, got %v", inv.Quantity)
	}
	if inv.Status != StatusProcessed {
		t.Fatalf("expected default status, got %q", inv.Status)
	}

	inv = Invoice{Currency: "IQD", Status: StatusFailed, Quantity: 3}.Normalize()
	if inv.Currency != "IQD" || inv.Status != StatusFailed || inv.Quantity != 3 {
		t.Fatalf("explicit values must survive normalization: %+v", inv)
	}
}

func TestInvoiceClientKey(t *testing.T) {
	if key := (Invoice{ClientID: "c1", Company: "Acme"}).ClientKey(); key != "c1" {
		t.Fatalf("expected client ID, got %q", key)
	}
	if key := (Invoice{Company: "Acme"}).ClientKey(); key != "Acme" {
		t.Fatalf("expected company fallback, got %q", key)
	}
}

func TestClientMatches(t *testing.T) {
	c := Client{ID: "7", ClientID: "c1", Name: "Acme Corp"}
	cases := []struct {
		inv Invoice
		ok  bool
	}{
		{Invoice{ClientID: "c1"}, true},
		{Invoice{ClientID: "7"}, true},
		{Invoice{Company: "Acme Corp"}, true},
		{Invoice{ClientID: "other", Company: "Other Co"}, false},
	}
	for i, tc := range cases {
		if got := c.Matches(tc.inv); got != tc.ok {
			t.Fatalf("case %d: Matches = %v, want %v", i, got, tc.ok)
		}
	}
}

func TestClientValidate(t *testing.T) {
	cases := []struct {
		name string
		c    Client
		want error
	}{
		{"valid", Client{Name: "Acme", Email: "ops@acme.com"}, nil},
		{"empty name", Client{Email: "ops@acme.com"}, ErrEmptyName},
		{"blank name", Client{Name: "  ", Email: "ops@acme.com"}, ErrEmptyName},
		{"no at", Client{Name: "Acme", Email: "acme.com"}, ErrInvalidEmail},
		{"no domain dot", Client{Name: "Acme", Email: "ops@acme"}, ErrInvalidEmail},
		{"name only", Client{Name: "Acme"}, nil},
	}
	for _, tc := range cases {
		err := tc.c.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: Validate() = %v, want %v", tc.name, err, tc.want)
		}
	}
}
