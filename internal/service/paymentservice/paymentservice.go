package paymentservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/pg"
	"github.com/GlebRadaev/afriart/pkg/mpesa"
	"github.com/GlebRadaev/afriart/pkg/validate"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
)

var (
	ErrPaymentInitiation = errors.New("payment initiation failed")
	ErrPaymentTimeout    = errors.New("payment provider timed out")
	ErrStatusQuery       = errors.New("payment status query failed")

	// ErrPaymentUnconfirmed rejects a callback the provider does not back up.
	ErrPaymentUnconfirmed = errors.New("payment result not confirmed by provider")
)

type Gateway interface {
	STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error)
	QueryStatus(ctx context.Context, checkoutRequestID string) (*mpesa.QueryResult, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	FindByCheckoutID(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error)
	FindByCheckoutIDForUpdate(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error)
	Complete(ctx context.Context, id int, resultCode int, resultDesc string, receipt string) error
	Fail(ctx context.Context, id int, resultCode int, resultDesc string) error
	ListPendingBefore(ctx context.Context, before time.Time, limit int) ([]domain.Transaction, error)
}

type OrderRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, id int) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int, paymentStatus string, status string) error
}

type ExhibitionRepo interface {
	DecrementSlots(ctx context.Context, id int, slots int) (bool, error)
}

type ArtworkRepo interface {
	MarkSold(ctx context.Context, id int) (bool, error)
}

type TicketRepo interface {
	CreateIfAbsent(ctx context.Context, t *domain.Ticket) (bool, error)
	FindByOrderID(ctx context.Context, orderID int) (*domain.Ticket, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type Service struct {
	gateway      Gateway
	txManager    pg.TXManager
	transactions TransactionRepo
	orders       OrderRepo
	exhibitions  ExhibitionRepo
	artworks     ArtworkRepo
	tickets      TicketRepo
	publisher    Publisher
	now          func() time.Time
}

func New(
	gateway Gateway,
	txManager pg.TXManager,
	transactions TransactionRepo,
	orders OrderRepo,
	exhibitions ExhibitionRepo,
	artworks ArtworkRepo,
	tickets TicketRepo,
	publisher Publisher,
) *Service {
	return &Service{
		gateway:      gateway,
		txManager:    txManager,
		transactions: transactions,
		orders:       orders,
		exhibitions:  exhibitions,
		artworks:     artworks,
		tickets:      tickets,
		publisher:    publisher,
		now:          time.Now,
	}
}

// Checkout is an accepted STK push.
type Checkout struct {
	Transaction     *domain.Transaction
	CustomerMessage string
}

// Result is a final answer from the provider, delivered either by callback
// or by a status query.
type Result struct {
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	ReceiptNumber     string
	PayerPhone        string
}

// PaymentEvent is published once a transaction reaches a final state.
type PaymentEvent struct {
	Event             string    `json:"event"`
	CheckoutRequestID string    `json:"checkoutRequestId"`
	OrderID           int       `json:"orderId"`
	OrderType         string    `json:"orderType"`
	UserID            int       `json:"userId"`
	Amount            string    `json:"amount"`
	ResultCode        int       `json:"resultCode"`
	ResultDesc        string    `json:"resultDesc"`
	ReceiptNumber     string    `json:"receiptNumber,omitempty"`
	PayerPhone        string    `json:"payerPhone,omitempty"`
	Fulfilled         bool      `json:"fulfilled"`
	TicketCode        string    `json:"ticketCode,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
}

// InitiateCheckout charges the caller's pending order. The amount always
// comes from the order, never from the request.
func (s *Service) InitiateCheckout(ctx context.Context, userID, orderID int, phone string) (*Checkout, error) {
	msisdn, err := mpesa.NormalizePhone(phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.UserID != userID {
		zap.L().Warn("checkout for a foreign order", zap.Int("orderID", orderID), zap.Int("userID", userID))
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.OrderPending || order.PaymentStatus != domain.PaymentPending {
		return nil, domain.ErrOrderNotPending
	}

	amount := mpesa.WholeShillings(order.Amount)
	if amount < 1 {
		return nil, fmt.Errorf("%w: amount must be at least 1 KES", domain.ErrValidation)
	}

	resp, err := s.gateway.STKPush(ctx, mpesa.STKPushRequest{
		Phone:            msisdn,
		Amount:           amount,
		AccountReference: fmt.Sprintf("AFRIART%d", order.ID),
		Description:      description(order.ItemType),
	})
	if err != nil {
		zap.L().Error("stk push failed", zap.Int("orderID", orderID), zap.Error(err))
		if errors.Is(err, mpesa.ErrTimeout) {
			return nil, fmt.Errorf("%w: %w", ErrPaymentTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrPaymentInitiation, err)
	}

	tx, err := s.transactions.Create(ctx, &domain.Transaction{
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		OrderType:         order.ItemType,
		OrderID:           order.ID,
		UserID:            userID,
		Amount:            decimal.NewFromInt(amount),
		PhoneNumber:       msisdn,
		Status:            domain.TransactionPending,
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("checkout initiated",
		zap.Int("orderID", order.ID),
		zap.String("checkoutRequestID", tx.CheckoutRequestID),
		zap.Int64("amount", amount),
	)
	return &Checkout{Transaction: tx, CustomerMessage: resp.CustomerMessage}, nil
}

func description(itemType string) string {
	if itemType == domain.ItemExhibition {
		return "Exhibition booking"
	}
	return "Artwork purchase"
}

// HandleCallback applies a provider callback. The callback URL is public, so
// the reported result is only applied when a status query agrees with it.
// The callback contributes the receipt and the paying phone number.
func (s *Service) HandleCallback(ctx context.Context, cb mpesa.STKCallback) (*domain.Transaction, error) {
	tx, err := s.transactions.FindByCheckoutID(ctx, cb.CheckoutRequestID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		zap.L().Error("callback for unknown checkout request, manual reconciliation required",
			zap.String("checkoutRequestID", cb.CheckoutRequestID),
			zap.Int("resultCode", cb.ResultCode),
			zap.String("receipt", cb.ReceiptNumber()),
		)
		return nil, domain.ErrUnknownCheckout
	}
	if tx.IsFinal() {
		return tx, nil
	}

	res, err := s.queryStatus(ctx, cb.CheckoutRequestID)
	if err != nil {
		return nil, err
	}
	if res.Pending || res.ResultCode != cb.ResultCode {
		zap.L().Warn("callback result not confirmed by provider",
			zap.String("checkoutRequestID", cb.CheckoutRequestID),
			zap.Int("callbackResultCode", cb.ResultCode),
			zap.Bool("providerPending", res.Pending),
			zap.Int("providerResultCode", res.ResultCode),
		)
		return nil, ErrPaymentUnconfirmed
	}

	return s.Finalize(ctx, Result{
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        res.ResultCode,
		ResultDesc:        cb.ResultDesc,
		ReceiptNumber:     cb.ReceiptNumber(),
		PayerPhone:        cb.PhoneNumber(),
	})
}

// CheckStatus returns a final transaction as stored and asks the provider
// about a pending one.
func (s *Service) CheckStatus(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error) {
	tx, err := s.transactions.FindByCheckoutID(ctx, checkoutRequestID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if tx.IsFinal() {
		return tx, nil
	}

	res, err := s.queryStatus(ctx, checkoutRequestID)
	if err != nil {
		return nil, err
	}
	if res.Pending {
		return tx, nil
	}
	return s.Finalize(ctx, Result{
		CheckoutRequestID: checkoutRequestID,
		ResultCode:        res.ResultCode,
		ResultDesc:        res.ResultDesc,
	})
}

func (s *Service) queryStatus(ctx context.Context, checkoutRequestID string) (*mpesa.QueryResult, error) {
	res, err := s.gateway.QueryStatus(ctx, checkoutRequestID)
	if err != nil {
		if errors.Is(err, mpesa.ErrTimeout) {
			return nil, fmt.Errorf("%w: %w", ErrPaymentTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrStatusQuery, err)
	}
	return res, nil
}

// ListStale returns pending transactions created more than olderThan ago.
func (s *Service) ListStale(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Transaction, error) {
	return s.transactions.ListPendingBefore(ctx, s.now().Add(-olderThan), limit)
}

// Finalize applies a provider result exactly once. The transaction row is
// locked for the duration; a row that is already final is returned as is.
func (s *Service) Finalize(ctx context.Context, r Result) (*domain.Transaction, error) {
	var (
		final *domain.Transaction
		event *PaymentEvent
	)
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		tx, err := s.transactions.FindByCheckoutIDForUpdate(ctx, r.CheckoutRequestID)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrUnknownCheckout
		}
		final = tx
		if tx.IsFinal() {
			zap.L().Info("transaction already final", zap.String("checkoutRequestID", tx.CheckoutRequestID), zap.String("status", tx.Status))
			return nil
		}

		order, err := s.orders.FindByIDForUpdate(ctx, tx.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("order %d of transaction %s: %w", tx.OrderID, tx.CheckoutRequestID, domain.ErrNotFound)
		}

		if r.ResultCode == mpesa.ResultSuccess {
			event, err = s.complete(ctx, tx, order, r)
		} else {
			event, err = s.fail(ctx, tx, order, r)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCheckout) {
			zap.L().Error("result for unknown checkout request, manual reconciliation required",
				zap.String("checkoutRequestID", r.CheckoutRequestID),
				zap.Int("resultCode", r.ResultCode),
				zap.String("receipt", r.ReceiptNumber),
			)
		} else {
			zap.L().Error("can't finalize transaction", zap.String("checkoutRequestID", r.CheckoutRequestID), zap.Error(err))
		}
		return nil, err
	}

	if event != nil {
		if err := s.publisher.PublishJSON(ctx, event.Event, event); err != nil {
			zap.L().Error("can't publish payment event", zap.String("event", event.Event), zap.Error(err))
		}
	}
	return final, nil
}

func (s *Service) complete(ctx context.Context, tx *domain.Transaction, order *domain.Order, r Result) (*PaymentEvent, error) {
	if err := s.transactions.Complete(ctx, tx.ID, r.ResultCode, r.ResultDesc, r.ReceiptNumber); err != nil {
		return nil, err
	}
	setResult(tx, domain.TransactionCompleted, r)
	tx.ReceiptNumber = r.ReceiptNumber

	event := s.newEvent(EventPaymentCompleted, tx, r)
	if order.Status != domain.OrderPending {
		zap.L().Error("payment received for an order that is no longer pending, refund required",
			zap.Int("orderID", order.ID),
			zap.String("orderStatus", order.Status),
			zap.String("receipt", r.ReceiptNumber),
		)
		return event, nil
	}

	fulfilled, ticketCode, err := s.fulfil(ctx, order)
	if err != nil {
		return nil, err
	}

	status := domain.OrderCompleted
	if !fulfilled {
		status = domain.OrderCancelled
		zap.L().Error("item no longer available after payment, refund required",
			zap.Int("orderID", order.ID),
			zap.String("itemType", order.ItemType),
			zap.Int("itemID", order.ItemID),
			zap.String("receipt", r.ReceiptNumber),
		)
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, domain.PaymentCompleted, status); err != nil {
		return nil, err
	}

	event.Fulfilled = fulfilled
	event.TicketCode = ticketCode
	zap.L().Info("payment completed",
		zap.Int("orderID", order.ID),
		zap.String("checkoutRequestID", tx.CheckoutRequestID),
		zap.Bool("fulfilled", fulfilled),
	)
	return event, nil
}

// fulfil moves inventory for a paid order. It reports false when the guard
// fails, i.e. the exhibition sold out or the artwork was sold meanwhile.
func (s *Service) fulfil(ctx context.Context, order *domain.Order) (bool, string, error) {
	switch order.ItemType {
	case domain.ItemExhibition:
		ok, err := s.exhibitions.DecrementSlots(ctx, order.ItemID, order.Slots)
		if err != nil || !ok {
			return false, "", err
		}
		code, err := validate.NewTicketCode()
		if err != nil {
			return false, "", err
		}
		ticket := &domain.Ticket{
			OrderID:      order.ID,
			UserID:       order.UserID,
			ExhibitionID: order.ItemID,
			TicketCode:   code,
			Slots:        order.Slots,
			Status:       domain.TicketActive,
		}
		created, err := s.tickets.CreateIfAbsent(ctx, ticket)
		if err != nil {
			return false, "", err
		}
		if !created {
			existing, err := s.tickets.FindByOrderID(ctx, order.ID)
			if err != nil {
				return false, "", err
			}
			if existing == nil {
				return false, "", fmt.Errorf("ticket of order %d: %w", order.ID, domain.ErrNotFound)
			}
			code = existing.TicketCode
		}
		return true, code, nil
	case domain.ItemArtwork:
		ok, err := s.artworks.MarkSold(ctx, order.ItemID)
		return ok, "", err
	default:
		return false, "", fmt.Errorf("unknown item type %q", order.ItemType)
	}
}

func (s *Service) fail(ctx context.Context, tx *domain.Transaction, order *domain.Order, r Result) (*PaymentEvent, error) {
	if err := s.transactions.Fail(ctx, tx.ID, r.ResultCode, r.ResultDesc); err != nil {
		return nil, err
	}
	setResult(tx, domain.TransactionFailed, r)

	if order.Status == domain.OrderPending {
		if err := s.orders.UpdateStatus(ctx, order.ID, domain.PaymentFailed, domain.OrderCancelled); err != nil {
			return nil, err
		}
	}
	zap.L().Info("payment failed",
		zap.Int("orderID", order.ID),
		zap.String("checkoutRequestID", tx.CheckoutRequestID),
		zap.Int("resultCode", r.ResultCode),
		zap.String("resultDesc", r.ResultDesc),
	)
	return s.newEvent(EventPaymentFailed, tx, r), nil
}

func setResult(tx *domain.Transaction, status string, r Result) {
	code := r.ResultCode
	tx.Status = status
	tx.ResultCode = &code
	tx.ResultDesc = r.ResultDesc
}

func (s *Service) newEvent(name string, tx *domain.Transaction, r Result) *PaymentEvent {
	return &PaymentEvent{
		Event:             name,
		CheckoutRequestID: tx.CheckoutRequestID,
		OrderID:           tx.OrderID,
		OrderType:         tx.OrderType,
		UserID:            tx.UserID,
		Amount:            tx.Amount.StringFixed(2),
		ResultCode:        r.ResultCode,
		ResultDesc:        r.ResultDesc,
		ReceiptNumber:     r.ReceiptNumber,
		PayerPhone:        r.PayerPhone,
		OccurredAt:        s.now().UTC(),
	}
}
