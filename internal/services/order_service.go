package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"joybox/internal/models"
	"joybox/internal/repositories"
	"joybox/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// forwardTransitions is the happy-path state machine. Cancellation is not a
// transition here; it goes through CancelOrder with its compensation steps.
var forwardTransitions = map[string]string{
	models.StatusNew:        models.StatusProcessing,
	models.StatusProcessing: models.StatusShipped,
	models.StatusShipped:    models.StatusDelivered,
}

// OrderService is the order lifecycle engine. It owns the unit of work:
// every multi-step operation runs inside one database transaction and either
// fully applies or fully rolls back.
type OrderService struct {
	db          *gorm.DB
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	audit       *AuditService
	mqClient    *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	audit *AuditService,
	mqClient *rabbitmq.Client,
) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		audit:       audit,
		mqClient:    mqClient,
	}
}

// GetOrder retrieves a single order with its items, status and address.
func (s *OrderService) GetOrder(id int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// ListUserOrders retrieves a user's orders, newest first.
func (s *OrderService) ListUserOrders(userID int64) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// CreateOrderFromCart turns the user's cart into a committed order:
// stock is checked and reserved per line under a product row lock, the unit
// price is frozen into each order item, the total is the sum of qty x current
// price, the order starts in status "new" / awaiting payment, and the cart is
// cleared. All of it is one atomic unit; any failure rolls everything back.
func (s *OrderService) CreateOrderFromCart(userID, addressID int64, deliveryType, paymentType string) (*models.Order, error) {
	if !models.ValidDeliveryType(deliveryType) {
		return nil, fmt.Errorf("invalid delivery type: %s", deliveryType)
	}
	if !models.ValidPaymentType(paymentType) {
		return nil, fmt.Errorf("invalid payment type: %s", paymentType)
	}

	address, err := s.userRepo.GetAddress(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address %d not found", addressID)
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, ErrForbidden
	}

	var order *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)
		products := s.productRepo.WithTx(tx)
		orders := s.orderRepo.WithTx(tx)

		lines, err := carts.ListByUser(userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			// The row lock serializes concurrent checkouts of the same
			// product; the reserve statement re-checks the quantity so the
			// sum of concurrent reservations can never oversell.
			product, err := products.GetByIDForUpdate(line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			if product.Quantity < line.Quantity {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Quantity,
					Requested:   line.Quantity,
				}
			}
			ok, err := products.Reserve(product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Quantity,
					Requested:   line.Quantity,
				}
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		statusID, err := orders.StatusID(models.StatusNew)
		if err != nil {
			return err
		}

		order = &models.Order{
			UserID:        userID,
			OrderStatusID: statusID,
			Total:         total,
			AddressID:     addressID,
			DeliveryType:  deliveryType,
			PaymentType:   paymentType,
			PaymentStatus: models.PaymentAwaiting,
			CreatedAt:     time.Now(),
			Items:         items,
		}
		if err := orders.Create(order); err != nil {
			return err
		}

		return carts.Clear(userID)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(userID, models.AuditCreate, "order", order.ID, nil, Snapshot(order))
	s.publishEvent("order.created", order)

	return order, nil
}

// CancelOrder reverses an order: every order line's quantity goes back into
// stock, the status becomes cancelled, and a paid order moves to refund
// pending (any other payment status is left alone). Delivered and already
// cancelled orders cannot be cancelled.
func (s *OrderService) CancelOrder(actorID, orderID int64) (*models.Order, error) {
	var (
		order         *models.Order
		before, after map[string]interface{}
		productTrail  []mutation
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)
		products := s.productRepo.WithTx(tx)

		var err error
		order, err = orders.GetByIDForUpdate(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		switch order.Status.Name {
		case models.StatusCancelled:
			return ErrAlreadyCancelled
		case models.StatusDelivered:
			return ErrCannotCancelDelivered
		}
		before = Snapshot(order)

		// Full reversal: exactly the quantities recorded at creation time.
		for _, item := range order.Items {
			product, err := products.GetByIDForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			oldSnap := Snapshot(product)
			if err := products.Restore(item.ProductID, item.Quantity); err != nil {
				return err
			}
			product.Quantity += item.Quantity
			productTrail = append(productTrail, mutation{
				recordID: product.ID,
				old:      oldSnap,
				new:      Snapshot(product),
			})
		}

		cancelledID, err := orders.StatusID(models.StatusCancelled)
		if err != nil {
			return err
		}
		if err := orders.UpdateStatus(orderID, cancelledID); err != nil {
			return err
		}
		if order.PaymentStatus == models.PaymentPaid {
			if err := orders.UpdatePaymentStatus(orderID, models.PaymentRefundPending); err != nil {
				return err
			}
		}

		order, err = orders.GetByID(orderID)
		if err != nil {
			return err
		}
		after = Snapshot(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, models.AuditUpdate, "order", orderID, before, after)
	for _, m := range productTrail {
		s.audit.Record(actorID, models.AuditUpdate, "product", m.recordID, m.old, m.new)
	}
	s.publishEvent("order.cancelled", order)

	return order, nil
}

// UpdateStatus moves an order one step along the forward-only path
// new -> processing -> shipped -> delivered.
func (s *OrderService) UpdateStatus(actorID, orderID int64, next string) (*models.Order, error) {
	var (
		order         *models.Order
		before, after map[string]interface{}
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		var err error
		order, err = orders.GetByIDForUpdate(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if forwardTransitions[order.Status.Name] != next {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status.Name, next)
		}
		before = Snapshot(order)

		nextID, err := orders.StatusID(next)
		if err != nil {
			return err
		}
		if err := orders.UpdateStatus(orderID, nextID); err != nil {
			return err
		}

		order, err = orders.GetByID(orderID)
		if err != nil {
			return err
		}
		after = Snapshot(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, models.AuditUpdate, "order", orderID, before, after)
	return order, nil
}

// MarkPaid records a successful payment: awaiting_payment -> paid.
func (s *OrderService) MarkPaid(actorID, orderID int64) (*models.Order, error) {
	var (
		order         *models.Order
		before, after map[string]interface{}
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		var err error
		order, err = orders.GetByIDForUpdate(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.PaymentStatus != models.PaymentAwaiting {
			return fmt.Errorf("%w: payment status is %s", ErrInvalidTransition, order.PaymentStatus)
		}
		before = Snapshot(order)

		if err := orders.UpdatePaymentStatus(orderID, models.PaymentPaid); err != nil {
			return err
		}

		order, err = orders.GetByID(orderID)
		if err != nil {
			return err
		}
		after = Snapshot(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actorID, models.AuditUpdate, "order", orderID, before, after)
	return order, nil
}

// mutation carries a before/after pair out of a transaction for the audit
// trail.
type mutation struct {
	recordID int64
	old      map[string]interface{}
	new      map[string]interface{}
}

func (s *OrderService) publishEvent(routingKey string, order *models.Order) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  order.OrderStatusID,
		"total":   order.Total,
	})
	if err != nil {
		log.Printf("failed to marshal %s event for order %d: %v", routingKey, order.ID, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("warning: failed to publish %s event for order %d: %v", routingKey, order.ID, err)
	} else {
		log.Printf("published %s event for order %d", routingKey, order.ID)
	}
}
