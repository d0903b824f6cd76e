package cache

import "fmt"

// QuoteKey ключ предложения в кэше.
func QuoteKey(id int64) string { return fmt.Sprintf("quote:%d", id) }

// InvoiceKey ключ счёта в кэше.
func InvoiceKey(id int64) string { return fmt.Sprintf("invoice:%d", id) }

// DocumentKeys собирает ключи документов, потерявших ссылку на клиента.
func DocumentKeys(quotes, invoices []int64) []string {
	keys := make([]string, 0, len(quotes)+len(invoices))
	for _, id := range quotes {
		keys = append(keys, QuoteKey(id))
	}
	for _, id := range invoices {
		keys = append(keys, InvoiceKey(id))
	}
	return keys
}
