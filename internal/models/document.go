package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Суммы в JSON отдаются числами, как их ожидает фронтенд.
	decimal.MarshalJSONWithoutQuotes = true
}

// QuoteStatus статус коммерческого предложения.
type QuoteStatus string

// InvoiceStatus статус счёта.
type InvoiceStatus string

const (
	// QuotePending предложение создано и ещё не выставлено счётом.
	QuotePending QuoteStatus = "pendiente"
	// QuoteConverted по предложению выставлен счёт. Переход происходит ровно один раз.
	QuoteConverted QuoteStatus = "convertido"

	// InvoicePending счёт ожидает оплаты.
	InvoicePending InvoiceStatus = "pendiente"
	// InvoicePaid счёт оплачен. Обратного перехода нет.
	InvoicePaid InvoiceStatus = "pagada"
)

// LineItem строка документа. Принадлежит ровно одному документу.
type LineItem struct {
	ID          int64           `json:"id"`
	Description string          `json:"descripcion"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio"`
	Total       decimal.Decimal `json:"total"`
}

// Totals итоги документа: сумма строк, НДС (IVA) и итог к оплате.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"iva"`
	Total    decimal.Decimal `json:"total"`
}

// Quote коммерческое предложение (presupuesto).
type Quote struct {
	ID         int64       `json:"id"`
	CustomerID *int64      `json:"cliente_id"`
	Number     string      `json:"numero"`
	IssuedAt   time.Time   `json:"fecha"`
	Items      []LineItem  `json:"items"`
	Status     QuoteStatus `json:"estado"`
	Notes      string      `json:"observaciones"`
	InvoiceID  *int64      `json:"factura_id,omitempty"`
	Totals
}

// Invoice счёт (factura).
type Invoice struct {
	ID         int64         `json:"id"`
	CustomerID *int64        `json:"cliente_id"`
	QuoteID    *int64        `json:"presupuesto_id,omitempty"`
	Number     string        `json:"numero"`
	IssuedAt   time.Time     `json:"fecha"`
	Items      []LineItem    `json:"items"`
	Status     InvoiceStatus `json:"estado"`
	Notes      string        `json:"observaciones"`
	PaidAt     *time.Time    `json:"fecha_pago,omitempty"`
	Totals
}

// DummyLineItem принимает строку документа из JSON-запроса.
// Итог строки клиент может прислать, но он всегда пересчитывается на сервере.
type DummyLineItem struct {
	Description string          `json:"descripcion" validate:"required"`
	Quantity    int             `json:"cantidad" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"precio"`
}

// DummyQuote принимает поля предложения из JSON-запроса.
// Номер необязателен: если он пуст, хранилище выдаёт следующий PRES-YYYY-NNN.
type DummyQuote struct {
	CustomerID int64           `json:"cliente_id" validate:"required,gt=0"`
	Number     string          `json:"numero" validate:"max=50"`
	Items      []DummyLineItem `json:"items" validate:"required,min=1,dive"`
	Notes      string          `json:"observaciones"`
}

// DummyInvoice принимает поля счёта из JSON-запроса.
type DummyInvoice struct {
	CustomerID int64           `json:"cliente_id" validate:"required,gt=0"`
	QuoteID    *int64          `json:"presupuesto_id" validate:"omitempty,gt=0"`
	Number     string          `json:"numero" validate:"max=50"`
	Items      []DummyLineItem `json:"items" validate:"required,min=1,dive"`
	Notes      string          `json:"observaciones"`
}

// DocumentFilter параметры выборки предложений и счетов.
// Search ищет подстроку в номере документа или имени клиента.
type DocumentFilter struct {
	Search string
	Status string
}

// DocumentMessage уведомление о событии жизненного цикла документа,
// публикуемое в брокер сообщений. Для quote.converted Number содержит номер созданного счёта.
type DocumentMessage struct {
	MessageID  string          `json:"message_id"`
	Kind       string          `json:"kind"`
	DocumentID int64           `json:"document_id"`
	Number     string          `json:"number"`
	CustomerID *int64          `json:"customer_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Identifier возвращает идентификатор сообщения для заголовка брокера.
func (m DocumentMessage) Identifier() string { return m.MessageID }

// Виды уведомлений о документах. Совпадают с ключами маршрутизации.
const (
	KindQuoteCreated   = "quote.created"
	KindQuoteConverted = "quote.converted"
	KindInvoiceCreated = "invoice.created"
	KindInvoicePaid    = "invoice.paid"
)

// NewDocumentMessage создаёт уведомление с новым идентификатором сообщения.
func NewDocumentMessage(kind string, id int64, number string, customerID *int64, total decimal.Decimal, at time.Time) DocumentMessage {
	return DocumentMessage{
		MessageID:  uuid.NewString(),
		Kind:       kind,
		DocumentID: id,
		Number:     number,
		CustomerID: customerID,
		Total:      total,
		OccurredAt: at.UTC(),
	}
}
