package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status names. Persisted in the orderStatus reference table; the
// lifecycle is forward-only (new -> processing -> shipped -> delivered) with
// cancellation reachable from every state except delivered.
const (
	StatusNew        = "new"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Delivery types.
const (
	DeliveryPickup      = "pickup"
	DeliveryPickupPoint = "pickup_point"
	DeliveryCourier     = "courier"
)

// Payment types.
const (
	PaymentOnline         = "online"
	PaymentCardOnDelivery = "card_on_delivery"
	PaymentCashOnDelivery = "cash_on_delivery"
)

// Payment statuses. Orthogonal to the order status axis.
const (
	PaymentAwaiting      = "awaiting_payment"
	PaymentPaid          = "paid"
	PaymentRefundPending = "refund_pending"
	PaymentRefunded      = "refunded"
)

// ValidDeliveryType reports whether s is one of the known delivery types.
func ValidDeliveryType(s string) bool {
	return s == DeliveryPickup || s == DeliveryPickupPoint || s == DeliveryCourier
}

// ValidPaymentType reports whether s is one of the known payment types.
func ValidPaymentType(s string) bool {
	return s == PaymentOnline || s == PaymentCardOnDelivery || s == PaymentCashOnDelivery
}

// OrderStatus is a small reference table of order statuses.
type OrderStatus struct {
	ID   int32  `json:"order_status_id" gorm:"column:orderStatusId;primaryKey;autoIncrement"`
	Name string `json:"order_status_name" gorm:"column:orderStatusName;type:varchar(100);uniqueIndex"`
}

func (OrderStatus) TableName() string { return "orderStatus" }

// Order is a committed purchase. Total is computed once at creation from the
// order items and never changes afterwards.
type Order struct {
	ID            int64           `json:"order_id" gorm:"column:orderId;primaryKey;autoIncrement"`
	UserID        int64           `json:"user_id" gorm:"column:userId;index"`
	OrderStatusID int32           `json:"order_status_id" gorm:"column:orderStatusId"`
	Total         decimal.Decimal `json:"total" gorm:"column:total;type:decimal(10,2)"`
	AddressID     int64           `json:"address_id" gorm:"column:addressId"`
	DeliveryType  string          `json:"delivery_type" gorm:"column:deliveryType;type:varchar(20)"`
	PaymentType   string          `json:"payment_type" gorm:"column:paymentType;type:varchar(30)"`
	PaymentStatus string          `json:"payment_status" gorm:"column:paymentStatus;type:varchar(30)"`
	Note          string          `json:"note,omitempty" gorm:"column:note;type:varchar(100)"`
	CreatedAt     time.Time       `json:"created_at" gorm:"column:createdAt"`

	Status  *OrderStatus `json:"status,omitempty" gorm:"foreignKey:OrderStatusID;references:ID"`
	Items   []OrderItem  `json:"items,omitempty" gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Address *Address     `json:"address,omitempty" gorm:"foreignKey:AddressID;references:ID"`
}

func (Order) TableName() string { return "order" }

// OrderItem is a single order line. UnitPrice is the catalog price frozen at
// order creation; later price changes never touch it.
type OrderItem struct {
	ID        int64           `json:"order_item_id" gorm:"column:orderItemId;primaryKey;autoIncrement"`
	OrderID   int64           `json:"order_id" gorm:"column:orderId;index"`
	ProductID int64           `json:"product_id" gorm:"column:productId;index"`
	Quantity  int             `json:"quantity" gorm:"column:quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"column:unitPrice;type:decimal(10,2)"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE"`
}

func (OrderItem) TableName() string { return "orderItem" }
