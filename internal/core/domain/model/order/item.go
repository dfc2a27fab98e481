package order

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"kirana/internal/pkg/errs"
)

// Item is one line of an order as priced at placement time.
type Item struct {
	productID string
	name      string
	quantity  int
	unitPrice decimal.Decimal
}

// NewItem validates a line item.
func NewItem(productID, name string, quantity int, unitPrice decimal.Decimal) (Item, error) {
	var errList []error
	if strings.TrimSpace(productID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("productID"))
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded"))
	}
	if unitPrice.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("unitPrice"))
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}

	return Item{
		productID: strings.TrimSpace(productID),
		name:      strings.TrimSpace(name),
		quantity:  quantity,
		unitPrice: unitPrice,
	}, nil
}

func (i Item) ProductID() string          { return i.productID }
func (i Item) Name() string               { return i.name }
func (i Item) Quantity() int              { return i.quantity }
func (i Item) UnitPrice() decimal.Decimal { return i.unitPrice }

// LineTotal is quantity times unit price.
func (i Item) LineTotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// TotalQuantity sums the quantities of items.
func TotalQuantity(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.quantity
	}
	return n
}
