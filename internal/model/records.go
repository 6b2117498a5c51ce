package model

import "time"

// Contact is a client/advertiser record. SIRET and NumTVA are the French
// tax identifiers required on the buyer side of a Factur-X invoice.
type Contact struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Company       string `gorm:"not null;index" json:"company"`
	ContactName   string `json:"contactName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	SIRET         string `gorm:"index" json:"siret"`
	NumTVA        string `gorm:"index" json:"numTVA"`
	FirstAddress  string `json:"firstAddress"`
	SecondAddress string `json:"secondAddress,omitempty"`
	PostalCode    string `json:"postalCode"`
	City          string `json:"city"`
	Country       string `gorm:"default:'FR'" json:"country"`
	// DelaisPaie is the payment-delay descriptor, e.g. "comptant",
	// "30 jours", "45 jours fin de mois".
	DelaisPaie string    `json:"delaisPaie,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SupportItem is one billed line referencing a publication (support).
type SupportItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	InvoiceID     *uint   `gorm:"index" json:"-"`
	OrderID       *uint   `gorm:"index" json:"-"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	SupportName   string  `json:"supportName"`
	SupportNumber string  `json:"supportNumber"`
	Price         float64 `json:"price"`
}

// Invoice is the persisted invoice record.
type Invoice struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Number        int           `gorm:"uniqueIndex;not null" json:"number"`
	Date          time.Time     `json:"date"`
	ContactID     uint          `gorm:"index" json:"contactId"`
	Entreprise    string        `gorm:"not null" json:"entreprise"`
	FirstAddress  string        `json:"firstAddress"`
	SecondAddress string        `json:"secondAddress,omitempty"`
	PostalCode    string        `json:"postalCode"`
	City          string        `json:"city"`
	SupportList   []SupportItem `gorm:"foreignKey:InvoiceID" json:"supportList"`
	TotalPrice    float64       `json:"totalPrice"`
	// TVA is stored as a ratio (0.20 for 20%).
	TVA            float64        `json:"tva"`
	DelaisPaie     string         `json:"delaisPaie,omitempty"`
	Status         string         `gorm:"default:'draft'" json:"status"`
	EInvoiceStatus EInvoiceStatus `gorm:"default:'pending'" json:"eInvoiceStatus"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// OrderCost is one entry of an order's cost breakdown.
type OrderCost struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index" json:"-"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Order is a purchase-order record. Signature references a PNG stored
// under the storage directory by random hex name.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Number        int           `gorm:"uniqueIndex;not null" json:"number"`
	Date          time.Time     `json:"date"`
	ContactID     uint          `gorm:"index" json:"contactId"`
	Entreprise    string        `gorm:"not null" json:"entreprise"`
	FirstAddress  string        `json:"firstAddress"`
	SecondAddress string        `json:"secondAddress,omitempty"`
	PostalCode    string        `json:"postalCode"`
	City          string        `json:"city"`
	SupportList   []SupportItem `gorm:"foreignKey:OrderID" json:"supportList"`
	TotalPrice    float64       `json:"totalPrice"`
	TVA           float64       `json:"tva"`
	DelaisPaie    string        `json:"delaisPaie,omitempty"`
	Signature     string        `json:"signature,omitempty"`
	Costs         []OrderCost   `gorm:"foreignKey:OrderID" json:"costs,omitempty"`
	Status        string        `gorm:"default:'draft'" json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Magazine is a published support (title + issue).
type Magazine struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null;index" json:"title"`
	IssueNumber string     `json:"issueNumber"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// RecurringCharge is a monthly charge billed against a contact.
type RecurringCharge struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContactID  uint      `gorm:"index" json:"contactId"`
	Label      string    `gorm:"not null" json:"label"`
	Amount     float64   `json:"amount"`
	DayOfMonth int       `json:"dayOfMonth"`
	Active     bool      `gorm:"default:true" json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Page is a simple content page shown on the public site.
type Page struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
