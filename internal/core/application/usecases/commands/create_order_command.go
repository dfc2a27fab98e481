package commands

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/pkg/errs"
	"kirana/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand hands a placed order over from checkout. Items, total
// and the shop snapshot are taken as they were at placement time.
//
// Example:
//
//	item, _ := order.NewItem("sku-1", "Toor Dal 1kg", 2, decimal.RequireFromString("140.00"))
//	shop, _ := order.NewShopSnapshot("Sharma Kirana", "12 MG Road", &shopLoc)
//	cmd, err := NewCreateOrderCommand(orderID, customerID, storeID, order.PaymentUPI,
//	    []order.Item{item}, decimal.RequireFromString("280.00"), shop, "Flat 4B, Lake View")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct {
	orderID         kernel.UUID
	customerID      kernel.UUID
	storeID         kernel.UUID
	paymentMethod   order.PaymentMethod
	items           []order.Item
	totalAmount     decimal.Decimal
	shop            order.ShopSnapshot
	customerAddress string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates the command. The order aggregate repeats the
// full validation; only the shape of the input is checked here.
func NewCreateOrderCommand(
	orderID, customerID, storeID kernel.UUID,
	paymentMethod order.PaymentMethod,
	items []order.Item,
	totalAmount decimal.Decimal,
	shop order.ShopSnapshot,
	customerAddress string,
) (CreateOrderCommand, error) {
	var errList []error
	errList = append(errList, orderID.Validate(), customerID.Validate(), storeID.Validate(), paymentMethod.Validate())
	if len(items) == 0 {
		errList = append(errList, order.ErrNoItems)
	}
	if totalAmount.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("totalAmount"))
	}
	if err := errors.Join(errList...); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:         orderID,
		customerID:      customerID,
		storeID:         storeID,
		paymentMethod:   paymentMethod,
		items:           slices.Clone(items),
		totalAmount:     totalAmount,
		shop:            shop,
		customerAddress: customerAddress,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID               { return c.orderID }
func (c CreateOrderCommand) CustomerID() kernel.UUID            { return c.customerID }
func (c CreateOrderCommand) StoreID() kernel.UUID               { return c.storeID }
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod { return c.paymentMethod }
func (c CreateOrderCommand) Items() []order.Item                { return slices.Clone(c.items) }
func (c CreateOrderCommand) TotalAmount() decimal.Decimal       { return c.totalAmount }
func (c CreateOrderCommand) Shop() order.ShopSnapshot           { return c.shop }
func (c CreateOrderCommand) CustomerAddress() string            { return c.customerAddress }
