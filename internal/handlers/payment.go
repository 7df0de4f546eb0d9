package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bundleshop/internal/catalog"
	"github.com/example/bundleshop/internal/config"
	"github.com/example/bundleshop/internal/middleware"
	"github.com/example/bundleshop/internal/models"
	"github.com/example/bundleshop/internal/services"
)

// PaymentHandler manages checkout initiation and payment verification.
type PaymentHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	orders *services.OrderService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(db *gorm.DB, cfg *config.Config, orders *services.OrderService) *PaymentHandler {
	return &PaymentHandler{db: db, cfg: cfg, orders: orders}
}

type checkoutRequest struct {
	ProviderID      string `json:"provider_id"`
	BundleID        string `json:"bundle_id"`
	RecipientNumber string `json:"recipient_number"`
	PaymentNetwork  string `json:"payment_network"`
	GuestEmail      string `json:"guest_email"`
	GuestName       string `json:"guest_name"`
}

// Checkout resolves the selected bundle against the catalog, issues a payment
// reference, and returns the parameters the client passes to the payment
// widget. The amount always comes from the catalog, never from the client.
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.RecipientNumber = strings.TrimSpace(req.RecipientNumber)
	if !validRecipientNumber(req.RecipientNumber) {
		return fiber.NewError(fiber.StatusBadRequest, "recipient_number must be a 10-digit phone number")
	}

	provider, bundle, ok := catalog.FindBundle(req.ProviderID, req.BundleID)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "bundle not found")
	}

	meta := services.PaymentMetadata{
		ProviderName:    provider.Name,
		ProviderLogo:    provider.Logo,
		ProviderColor:   provider.Color,
		BundleID:        bundle.ID,
		DataAmount:      bundle.DataAmount,
		Price:           strconv.FormatFloat(bundle.Price, 'f', 2, 64),
		RecipientNumber: req.RecipientNumber,
		PaymentNetwork:  strings.TrimSpace(req.PaymentNetwork),
	}

	var userIDPtr *uuid.UUID
	email := strings.ToLower(strings.TrimSpace(req.GuestEmail))

	if userID, authed := middleware.GetCurrentUserID(c); authed {
		var user models.User
		if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		userIDPtr = &userID
		email = user.Email
		meta.UserID = userID.String()
	} else {
		if email == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "log in or provide guest_email to complete your purchase")
		}
		meta.GuestEmail = email
		meta.GuestName = strings.TrimSpace(req.GuestName)
	}

	reference, err := generateReference()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate payment reference")
	}

	amount := int64(math.Round(bundle.Price * 100))

	if _, err := h.orders.InitiateCheckout(c.Context(), userIDPtr, reference, amount, h.cfg.Currency, meta); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"reference":  reference,
			"amount":     amount,
			"currency":   h.cfg.Currency,
			"email":      email,
			"public_key": h.cfg.PaystackPublicKey,
			"metadata":   meta,
		},
	})
}

type verifyRequest struct {
	Reference string `json:"reference"`
}

// Verify confirms a payment with the gateway and records the order. Safe to
// call more than once for the same reference.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Reference = strings.TrimSpace(req.Reference)
	if req.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"verified": false,
			"error":    "missing payment reference",
		})
	}

	order, err := h.orders.VerifyAndRecordOrder(c.Context(), req.Reference)
	if err != nil {
		var notPaid *services.PaymentNotSuccessfulError
		if errors.As(err, &notPaid) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"verified": false,
				"error":    "payment verification failed",
			})
		}
		if errors.Is(err, services.ErrGatewayNotConfigured) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"verified": false,
				"error":    "payment gateway configuration missing",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"verified": false,
			"error":    "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"verified": true,
		"order_id": order.ID,
		"message":  "payment verified and order recorded",
	})
}

func validRecipientNumber(number string) bool {
	if len(number) != 10 || number[0] != '0' {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func generateReference() (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return fmt.Sprintf("ORDER_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix)), nil
}
