package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ArtworkAvailable = "available"
	ArtworkSold      = "sold"

	ExhibitionUpcoming = "upcoming"
	ExhibitionOngoing  = "ongoing"
	ExhibitionPast     = "past"

	ItemArtwork    = "artwork"
	ItemExhibition = "exhibition"

	PaymentMethodMpesa = "mpesa"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"

	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"

	TicketActive    = "active"
	TicketUsed      = "used"
	TicketCancelled = "cancelled"

	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"

	MessageNew     = "new"
	MessageRead    = "read"
	MessageReplied = "replied"

	DefaultMessageSource = "contact_form"
)

type User struct {
	ID           int       `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Phone        string    `db:"phone"`
	CreatedAt    time.Time `db:"created_at"`
}

type Admin struct {
	ID           int       `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Artwork struct {
	ID          int             `db:"id"`
	Title       string          `db:"title"`
	Artist      string          `db:"artist"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	ImageURL    string          `db:"image_url"`
	Dimensions  string          `db:"dimensions"`
	Medium      string          `db:"medium"`
	Year        *int            `db:"year"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
}

type Exhibition struct {
	ID             int             `db:"id"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	Location       string          `db:"location"`
	StartDate      time.Time       `db:"start_date"`
	EndDate        time.Time       `db:"end_date"`
	TicketPrice    decimal.Decimal `db:"ticket_price"`
	ImageURL       string          `db:"image_url"`
	TotalSlots     int             `db:"total_slots"`
	AvailableSlots int             `db:"available_slots"`
	Status         string          `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
}

type Order struct {
	ID            int             `db:"id"`
	UserID        int             `db:"user_id"`
	ItemType      string          `db:"item_type"`
	ItemID        int             `db:"item_id"`
	Amount        decimal.Decimal `db:"amount"`
	Slots         int             `db:"slots"`
	PaymentMethod string          `db:"payment_method"`
	PaymentStatus string          `db:"payment_status"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}

type Ticket struct {
	ID           int       `db:"id"`
	OrderID      int       `db:"order_id"`
	UserID       int       `db:"user_id"`
	ExhibitionID int       `db:"exhibition_id"`
	TicketCode   string    `db:"ticket_code"`
	Slots        int       `db:"slots"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

// Transaction is one M-Pesa checkout attempt. It is created pending when the
// provider accepts the push and is finalized exactly once.
type Transaction struct {
	ID                int             `db:"id"`
	CheckoutRequestID string          `db:"checkout_request_id"`
	MerchantRequestID string          `db:"merchant_request_id"`
	OrderType         string          `db:"order_type"`
	OrderID           int             `db:"order_id"`
	UserID            int             `db:"user_id"`
	Amount            decimal.Decimal `db:"amount"`
	PhoneNumber       string          `db:"phone_number"`
	ResultCode        *int            `db:"result_code"`
	ResultDesc        string          `db:"result_desc"`
	ReceiptNumber     string          `db:"mpesa_receipt_number"`
	Status            string          `db:"status"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func (t *Transaction) IsFinal() bool {
	return t.Status != TransactionPending
}

type ContactMessage struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Message   string    `db:"message"`
	Source    string    `db:"source"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
