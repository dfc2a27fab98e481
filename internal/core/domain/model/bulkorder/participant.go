package bulkorder

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/pkg/errs"
)

// Participant is one family's contribution to a bulk order. The items are a
// snapshot of the individual order at join time.
type Participant struct {
	customerID        kernel.UUID
	individualOrderID kernel.UUID
	storeID           kernel.UUID
	items             []order.Item
	totalAmount       decimal.Decimal
	joinedAt          time.Time
}

// NewParticipant validates one entry.
func NewParticipant(
	customerID, individualOrderID, storeID kernel.UUID,
	items []order.Item,
	totalAmount decimal.Decimal,
	joinedAt time.Time,
) (Participant, error) {
	var errList []error
	for name, id := range map[string]kernel.UUID{
		"customerID":        customerID,
		"individualOrderID": individualOrderID,
		"storeID":           storeID,
	} {
		if err := id.Validate(); err != nil {
			errList = append(errList, errs.NewValueIsRequiredErrorWithCause(name, err))
		}
	}
	if len(items) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("items"))
	}
	if totalAmount.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("totalAmount"))
	}
	if err := errors.Join(errList...); err != nil {
		return Participant{}, err
	}

	return Participant{
		customerID:        customerID,
		individualOrderID: individualOrderID,
		storeID:           storeID,
		items:             slices.Clone(items),
		totalAmount:       totalAmount,
		joinedAt:          joinedAt,
	}, nil
}

// ParticipantFromOrder snapshots an individual order.
func ParticipantFromOrder(o *order.Order, joinedAt time.Time) (Participant, error) {
	if err := o.Validate(); err != nil {
		return Participant{}, err
	}
	return NewParticipant(o.CustomerID(), o.ID(), o.StoreID(), o.Items(), o.TotalAmount(), joinedAt)
}

func (p Participant) CustomerID() kernel.UUID        { return p.customerID }
func (p Participant) IndividualOrderID() kernel.UUID { return p.individualOrderID }
func (p Participant) StoreID() kernel.UUID           { return p.storeID }
func (p Participant) Items() []order.Item            { return slices.Clone(p.items) }
func (p Participant) TotalAmount() decimal.Decimal   { return p.totalAmount }
func (p Participant) JoinedAt() time.Time            { return p.joinedAt }
