// Package messaging implements the inbound event adapter: RabbitMQ consumers
// that translate transfer events into movement orchestrator calls.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	portsgw "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/gateways"
	portssvc "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/services"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/middleware"
	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

// acknowledger is the subset of amqp.Delivery the settle path needs; tests
// substitute it.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple bool, requeue bool) error
}

type handlerFunc func(ctx context.Context, body []byte) error

// Consumer consumes transfer events and feeds them to the movement
// orchestrator. Delivery is at-least-once: messages are acknowledged only
// after the orchestrator call completes, and a failed message never blocks
// the stream.
type Consumer struct {
	movements portssvc.MovementSvcFacade
	wallets   portsgw.WalletDirectory
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewConsumer creates the event adapter.
func NewConsumer(movements portssvc.MovementSvcFacade, wallets portsgw.WalletDirectory, logger *slog.Logger) *Consumer {
	return &Consumer{
		movements: movements,
		wallets:   wallets,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Run declares the queues and consumes them until the context is cancelled
// or the channel closes. Each queue gets its own loop so a slow queue does
// not starve the other.
func (c *Consumer) Run(ctx context.Context, ch *amqp.Channel, walletQueue, exchangeQueue string) error {
	// One unacked message at a time keeps redelivery windows small.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set channel qos: %w", err)
	}

	queues := []struct {
		name    string
		handler handlerFunc
	}{
		{walletQueue, c.HandleWalletTransfer},
		{exchangeQueue, c.HandleExchangeTransaction},
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", q.name, err)
		}
		deliveries, err := ch.Consume(q.name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("failed to consume queue %s: %w", q.name, err)
		}
		go c.consumeLoop(ctx, q.name, deliveries, q.handler)
	}
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context, queue string, deliveries <-chan amqp.Delivery, handle handlerFunc) {
	logger := c.logger.With(slog.String("queue", queue))
	logger.Info("Event consumer started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Event consumer stopped", slog.String("reason", ctx.Err().Error()))
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("Delivery channel closed")
				return
			}
			c.process(ctx, queue, d.Body, &d, handle)
		}
	}
}

// process runs the handler and settles the delivery. Terminal business
// failures (validation, not found, insufficient funds) are acknowledged and
// dropped after logging; remote unavailability is requeued so the broker
// redelivers once the collaborator recovers; a duplicate idempotency key
// means the transfer already landed, so the redelivery is acknowledged.
func (c *Consumer) process(ctx context.Context, queue string, body []byte, d acknowledger, handle handlerFunc) {
	logger := c.logger.With(slog.String("queue", queue))
	err := handle(middleware.WithLogger(ctx, logger), body)

	switch {
	case err == nil:
		c.settleAck(logger, d)
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Info("Duplicate delivery, already processed", slog.String("error", err.Error()))
		c.settleAck(logger, d)
	case errors.Is(err, apperrors.ErrRemoteUnavailable):
		logger.Warn("Transfer deferred, remote unavailable", slog.String("error", err.Error()))
		if nackErr := d.Nack(false, true); nackErr != nil {
			logger.Error("Failed to nack delivery", slog.String("error", nackErr.Error()))
		}
	default:
		logger.Error("Transfer event failed", slog.String("error", err.Error()))
		c.settleAck(logger, d)
	}
}

func (c *Consumer) settleAck(logger *slog.Logger, d acknowledger) {
	if err := d.Ack(false); err != nil {
		logger.Error("Failed to ack delivery", slog.String("error", err.Error()))
	}
}

// HandleWalletTransfer applies a direct wallet-to-wallet transfer event.
func (c *Consumer) HandleWalletTransfer(ctx context.Context, body []byte) error {
	var event WalletTransferEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: undecodable wallet transfer event: %v", apperrors.ErrValidation, err)
	}
	if err := c.validate.Struct(event); err != nil {
		return fmt.Errorf("%w: invalid wallet transfer event: %v", apperrors.ErrValidation, err)
	}

	c.logger.Info("Processing wallet transfer",
		slog.String("from_card", event.FromCard),
		slog.String("to_card", event.ToCard),
		slog.String("amount", event.Amount.String()))
	return c.movements.Transfer(ctx, event.FromCard, event.ToCard, event.Amount)
}

// HandleExchangeTransaction resolves both wallets through the directory and
// applies the transfer between the associated products, keyed by the event's
// transaction id.
func (c *Consumer) HandleExchangeTransaction(ctx context.Context, body []byte) error {
	var event ExchangeTransactionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: undecodable exchange transaction event: %v", apperrors.ErrValidation, err)
	}
	if err := c.validate.Struct(event); err != nil {
		return fmt.Errorf("%w: invalid exchange transaction event: %v", apperrors.ErrValidation, err)
	}

	var buyerProductID, sellerProductID string
	var g errgroup.Group
	g.Go(func() error {
		wallet, err := c.wallets.GetWallet(ctx, event.BuyerWalletID)
		if err != nil {
			return fmt.Errorf("buyer wallet %s: %w", event.BuyerWalletID, err)
		}
		buyerProductID = wallet.ProductIDFor(event.TransferMethod)
		return nil
	})
	g.Go(func() error {
		wallet, err := c.wallets.GetWallet(ctx, event.SellerWalletID)
		if err != nil {
			return fmt.Errorf("seller wallet %s: %w", event.SellerWalletID, err)
		}
		sellerProductID = wallet.ProductIDFor(event.TransferMethod)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if buyerProductID == "" || sellerProductID == "" {
		return fmt.Errorf("%w: a wallet has no associated product for method %s",
			apperrors.ErrValidation, event.TransferMethod)
	}

	c.logger.Info("Processing exchange transfer",
		slog.String("transaction_id", event.TransactionID),
		slog.String("from_product", buyerProductID),
		slog.String("to_product", sellerProductID),
		slog.String("amount", event.Amount.String()))
	return c.movements.TransferWithIdempotencyKey(ctx, event.TransactionID, buyerProductID, sellerProductID, event.Amount)
}
