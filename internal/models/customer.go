package models

import "time"

// Customer запись реестра клиентов.
type Customer struct {
	ID         int64     `json:"id"`
	Name       string    `json:"nombre"`
	Phone      string    `json:"telefono"`
	Email      string    `json:"email"`
	Address    string    `json:"direccion"`
	TaxID      string    `json:"nif"`
	Locality   string    `json:"localidad"`
	Province   string    `json:"provincia"`
	PostalCode string    `json:"codigo_postal"`
	Contact    string    `json:"contacto"`
	Notes      string    `json:"observaciones"`
	CreatedAt  time.Time `json:"fecha_creacion"`
}

// DummyCustomer принимает поля клиента из JSON-запроса. Клиент всегда присылает запись
// целиком: отсутствующие поля считаются пустыми.
type DummyCustomer struct {
	Name       string `json:"nombre" validate:"required,max=200"`
	Phone      string `json:"telefono" validate:"max=50"`
	Email      string `json:"email" validate:"omitempty,email"`
	Address    string `json:"direccion"`
	TaxID      string `json:"nif" validate:"max=20"`
	Locality   string `json:"localidad"`
	Province   string `json:"provincia"`
	PostalCode string `json:"codigo_postal" validate:"max=10"`
	Contact    string `json:"contacto"`
	Notes      string `json:"observaciones"`
}

// ToCustomer переносит поля запроса в доменную модель.
func (d DummyCustomer) ToCustomer() Customer {
	return Customer{
		Name:       d.Name,
		Phone:      d.Phone,
		Email:      d.Email,
		Address:    d.Address,
		TaxID:      d.TaxID,
		Locality:   d.Locality,
		Province:   d.Province,
		PostalCode: d.PostalCode,
		Contact:    d.Contact,
		Notes:      d.Notes,
	}
}

// CustomerFilter параметры поиска по реестру: подстрока имени, e-mail или NIF.
type CustomerFilter struct {
	Search string
}

// Detached документы, потерявшие ссылку на удалённого клиента.
type Detached struct {
	Quotes   []int64
	Invoices []int64
}
