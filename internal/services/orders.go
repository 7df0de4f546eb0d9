package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bundleshop/internal/models"
)

// PaymentNotSuccessfulError reports a charge the gateway did not settle
// (failed, abandoned, reversed). No order is recorded for it.
type PaymentNotSuccessfulError struct {
	Reference string
	Status    string
}

func (e *PaymentNotSuccessfulError) Error() string {
	return fmt.Sprintf("payment %s not successful: gateway status %q", e.Reference, e.Status)
}

// OrderService owns the payment verification flow. It is the only writer of
// completed orders: an order row exists if and only if the gateway confirmed
// the charge for its reference.
type OrderService struct {
	db       *gorm.DB
	gateway  PaymentVerifier
	telegram *TelegramService
}

func NewOrderService(db *gorm.DB, gateway PaymentVerifier, telegram *TelegramService) *OrderService {
	return &OrderService{db: db, gateway: gateway, telegram: telegram}
}

// InitiateCheckout records an initiated payment transaction for a
// server-issued reference, so the later verify call has a trusted copy of the
// purchase metadata.
func (s *OrderService) InitiateCheckout(ctx context.Context, userID *uuid.UUID, reference string, amountSubunit int64, currency string, meta PaymentMetadata) (*models.PaymentTransaction, error) {
	payload, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal checkout metadata: %w", err)
	}

	txn := models.PaymentTransaction{
		Reference:     reference,
		UserID:        userID,
		AmountSubunit: amountSubunit,
		Currency:      currency,
		Metadata:      payload,
		State:         models.PaymentStateInitiated,
	}

	if err := s.db.WithContext(ctx).Create(&txn).Error; err != nil {
		return nil, err
	}

	return &txn, nil
}

// VerifyAndRecordOrder confirms the charge for reference with the gateway and
// records the order. It is idempotent per reference: duplicate widget
// callbacks and concurrent invocations resolve to the same single order.
func (s *OrderService) VerifyAndRecordOrder(ctx context.Context, reference string) (*models.Order, error) {
	result, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !result.Success() {
		s.markTransactionFailed(ctx, reference, result.Status)
		return nil, &PaymentNotSuccessfulError{Reference: reference, Status: result.Status}
	}

	order, err := s.recordVerifiedOrder(ctx, reference, result)
	if err != nil {
		// A concurrent call may have recorded the order first; the unique
		// index on payment_reference makes the loser fail its insert.
		if existing, lookupErr := s.findOrderByReference(ctx, reference); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}

	if s.telegram != nil {
		go func(o models.Order) {
			if err := s.telegram.NotifyNewOrder(o); err != nil {
				log.Printf("[Orders] Telegram notification failed for order %s: %v", o.ID, err)
			}
		}(*order)
	}

	return order, nil
}

func (s *OrderService) recordVerifiedOrder(ctx context.Context, reference string, result *VerifyResult) (*models.Order, error) {
	var order *models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.PaymentTransaction
		err := tx.Where("reference = ?", reference).First(&txn).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err == nil && txn.OrderID != nil {
			var existing models.Order
			if err := tx.First(&existing, "id = ?", *txn.OrderID).Error; err != nil {
				return err
			}
			order = &existing
			return nil
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Client-generated reference: no checkout row was recorded, so
			// seed the ledger from the gateway's view of the charge.
			txn = models.PaymentTransaction{
				Reference:     reference,
				AmountSubunit: result.AmountSubunit,
				Currency:      result.Currency,
				State:         models.PaymentStateInitiated,
			}
			if payload, merr := json.Marshal(result.Metadata); merr == nil {
				txn.Metadata = payload
			}
			if created := tx.Create(&txn); created.Error != nil {
				return created.Error
			}
		}

		meta := s.resolveMetadata(txn, result)

		created := buildOrder(reference, result, meta)
		if err := tx.Create(created).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.PaymentTransaction{}).
			Where("id = ?", txn.ID).
			Updates(map[string]any{
				"state":          models.PaymentStateVerified,
				"gateway_status": result.Status,
				"order_id":       created.ID,
				"verified_at":    &now,
			}).Error; err != nil {
			return err
		}

		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// resolveMetadata prefers the server-recorded checkout metadata over what the
// gateway echoes back; the client never gets to rewrite a purchase after pay.
func (s *OrderService) resolveMetadata(txn models.PaymentTransaction, result *VerifyResult) PaymentMetadata {
	if len(txn.Metadata) > 0 {
		var meta PaymentMetadata
		if err := json.Unmarshal(txn.Metadata, &meta); err == nil && meta.BundleID != "" {
			return meta
		}
	}
	return result.Metadata
}

func buildOrder(reference string, result *VerifyResult, meta PaymentMetadata) *models.Order {
	price, err := strconv.ParseFloat(meta.Price, 64)
	if err != nil || price <= 0 {
		price = float64(result.AmountSubunit) / 100
	}

	order := &models.Order{
		GuestEmail:       meta.GuestEmail,
		GuestName:        meta.GuestName,
		ProviderName:     meta.ProviderName,
		ProviderLogo:     meta.ProviderLogo,
		ProviderColor:    meta.ProviderColor,
		BundleID:         meta.BundleID,
		DataAmount:       meta.DataAmount,
		Price:            price,
		RecipientNumber:  meta.RecipientNumber,
		PaymentNetwork:   meta.PaymentNetwork,
		PaymentReference: reference,
		Status:           models.OrderStatusCompleted,
	}

	// The money is already captured at this point; an unusable user id in the
	// metadata must not lose the order, so it falls back to unattributed.
	if meta.UserID != "" {
		if id, err := uuid.Parse(meta.UserID); err == nil {
			order.UserID = &id
		} else {
			log.Printf("[Orders] ignoring malformed user id in metadata for %s: %v", reference, err)
		}
	}

	return order
}

func (s *OrderService) findOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).
		First(&order, "payment_reference = ?", reference).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) markTransactionFailed(ctx context.Context, reference, gatewayStatus string) {
	res := s.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Where("reference = ? AND state = ?", reference, models.PaymentStateInitiated).
		Updates(map[string]any{
			"state":          models.PaymentStateFailed,
			"gateway_status": gatewayStatus,
		})
	if res.Error != nil {
		log.Printf("[Orders] failed to mark transaction %s as failed: %v", reference, res.Error)
	}
}

// TransitionOrderStatus applies an admin status change through the order
// state machine, rejecting illegal transitions. The update is conditional on
// the status it was checked against, so concurrent changes cannot sneak an
// illegal transition through.
func (s *OrderService) TransitionOrderStatus(ctx context.Context, orderID uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, &IllegalTransitionError{From: order.Status, To: target}
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		Update("status", target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
			return nil, err
		}
		return nil, &IllegalTransitionError{From: order.Status, To: target}
	}

	order.Status = target
	return &order, nil
}

// IllegalTransitionError reports a rejected order status change.
type IllegalTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal order status transition %s -> %s", e.From, e.To)
}
