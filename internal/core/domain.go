package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// DefaultCurrency is assumed whenever a record carries no currency code.
	DefaultCurrency = "USD"

	StatusProcessed = "Processed"
	StatusFailed    = "Failed"
	StatusActive    = "active"
)

type (
	// Invoice is one normalized invoice line item as stored in the datastore.
	// Monetary fields are plain decimal amounts; parsing from the raw store
	// representation happens in the adapters via ParseAmount.
	Invoice struct {
		ID             string
		ClientID       string
		Company        string
		Description    string
		Quantity       float64
		UnitPrice      float64
		Total          float64
		Currency       string
		InvoiceNumber  string
		Status         string
		ProcessingTime float64 // seconds spent extracting this line's invoice
		Created        time.Time
	}

	// Client is a billing client record.
	Client struct {
		ID       string
		ClientID string
		Name     string
		Email    string
		Phone    string
		Address  string
		Website  string
		Industry string
		Notes    string
		Status   string
		JoinDate time.Time
	}
)

var (
	ErrEmptyName    = errors.New("empty client name")
	ErrInvalidEmail = errors.New("invalid email address")
)

// ClientKey returns the identifier used to group invoices by client.
// Records extracted from images may carry only a company name, so the
// display name is the fallback when no stable client ID exists.
func (inv Invoice) ClientKey() string {
	if strings.TrimSpace(inv.ClientID) != "" {
		return inv.ClientID
	}
	return inv.Company
}

// Normalize applies the documented defaults for optional fields.
func (inv Invoice) Normalize() Invoice {
	if strings.TrimSpace(inv.Currency) == "" {
		inv.Currency = DefaultCurrency
	}
	if inv.Quantity < 0 {
		inv.Quantity = 0
	}
	if strings.TrimSpace(inv.Status) == "" {
		inv.Status = StatusProcessed
	}
	return inv
}

// Matches reports whether the invoice belongs to the client, joining either
// by stable client ID or by company display name.
func (c Client) Matches(inv Invoice) bool {
	if c.ClientID != "" && inv.ClientID == c.ClientID {
		return true
	}
	if c.ID != "" && inv.ClientID == c.ID {
		return true
	}
	return c.Name != "" && inv.Company == c.Name
}

// Validate checks the fields a client record must carry to be stored.
// Email is optional: entries auto-created from extracted invoices only
// have a company name. The clients API enforces its own email rule.
func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Email != "" && !validEmail(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	if strings.ContainsAny(s, " \t") || strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
