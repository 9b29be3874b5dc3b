package memory

import (
	"time"

	"invoicesense/internal/core"
)

// Sample dataset shown when no spreadsheet is configured. Dates are pinned
// relative to now so the default 30 day window always has data.
func sampleInvoices() []core.Invoice {
	now := time.Now()
	day := func(daysAgo int) time.Time { return now.AddDate(0, 0, -daysAgo) }
	return []core.Invoice{
		{ID: "rec-001", ClientID: "CLIENT-001", Company: "Tech Solutions Inc", Description: "Web Development Services", Quantity: 40, UnitPrice: 75, Total: 3000, Currency: "USD", InvoiceNumber: "INV-001", Status: core.StatusProcessed, ProcessingTime: 11.2, Created: day(1)},
		{ID: "rec-002", ClientID: "CLIENT-002", Company: "Digital Marketing Co", Description: "UI/UX Design", Quantity: 20, UnitPrice: 100, Total: 2000, Currency: "USD", InvoiceNumber: "INV-002", Status: core.StatusProcessed, ProcessingTime: 9.8, Created: day(3)},
		{ID: "rec-003", ClientID: "CLIENT-001", Company: "Tech Solutions Inc", Description: "Backend Development", Quantity: 32, UnitPrice: 85, Total: 2720, Currency: "USD", InvoiceNumber: "INV-003", Status: core.StatusProcessed, ProcessingTime: 14.5, Created: day(5)},
		{ID: "rec-004", ClientID: "CLIENT-003", Company: "Creative Agency", Description: "Brand strategy consulting", Quantity: 10, UnitPrice: 150, Total: 1500, Currency: "USD", InvoiceNumber: "INV-004", Status: core.StatusProcessed, ProcessingTime: 12.1, Created: day(8)},
		{ID: "rec-005", ClientID: "CLIENT-004", Company: "Baghdad Trading Co", Description: "Marketing campaign", Quantity: 1, UnitPrice: 2500000, Total: 2500000, Currency: "IQD", InvoiceNumber: "INV-005", Status: core.StatusProcessed, ProcessingTime: 13.7, Created: day(12)},
		{ID: "rec-006", ClientID: "CLIENT-002", Company: "Digital Marketing Co", Description: "Social media advertising", Quantity: 1, UnitPrice: 850, Total: 850, Currency: "USD", InvoiceNumber: "INV-006", Status: core.StatusFailed, ProcessingTime: 0, Created: day(15)},
		{ID: "rec-007", ClientID: "CLIENT-003", Company: "Creative Agency", Description: "Logo design", Quantity: 2, UnitPrice: 400, Total: 800, Currency: "USD", InvoiceNumber: "INV-007", Status: core.StatusProcessed, ProcessingTime: 8.3, Created: day(21)},
		{ID: "rec-008", ClientID: "CLIENT-001", Company: "Tech Solutions Inc", Description: "Technical advice retainer", Quantity: 1, UnitPrice: 1200, Total: 1200, Currency: "USD", InvoiceNumber: "INV-008", Status: core.StatusProcessed, ProcessingTime: 10.9, Created: day(27)},
	}
}

func sampleClients() []core.Client {
	join := func(s string) time.Time {
		t, _ := core.ParseTimestamp(s)
		return t
	}
	return []core.Client{
		{ID: "cli-001", ClientID: "CLIENT-001", Name: "Tech Solutions Inc", Email: "contact@techsolutions.com", Phone: "+1 (555) 123-4567", Address: "123 Tech Street, San Francisco, CA 94102", Website: "https://techsolutions.com", Industry: "Technology", Notes: "High-value client with consistent monthly projects.", Status: core.StatusActive, JoinDate: join("2023-06-15")},
		{ID: "cli-002", ClientID: "CLIENT-002", Name: "Digital Marketing Co", Email: "hello@digitalmarketing.com", Phone: "+1 (555) 987-6543", Address: "456 Marketing Ave, New York, NY 10001", Website: "https://digitalmarketing.com", Industry: "Marketing", Notes: "Seasonal projects, high activity in Q4.", Status: core.StatusActive, JoinDate: join("2023-08-22")},
		{ID: "cli-003", ClientID: "CLIENT-003", Name: "Creative Agency", Email: "studio@creativeagency.io", Phone: "+1 (555) 246-8101", Address: "789 Design Blvd, Austin, TX 78701", Website: "https://creativeagency.io", Industry: "Design", Status: core.StatusActive, JoinDate: join("2024-01-10")},
		{ID: "cli-004", ClientID: "CLIENT-004", Name: "Baghdad Trading Co", Email: "office@baghdadtrading.iq", Phone: "+964 770 000 0000", Address: "Al-Karrada, Baghdad", Industry: "Trade", Status: "inactive", JoinDate: join("2023-11-02")},
	}
}
