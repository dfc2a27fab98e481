package order

import (
	"fmt"
	"strings"

	"kirana/internal/pkg/errs"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	// PaymentCOD is cash on delivery; completion needs the agent's confirmation.
	PaymentCOD PaymentMethod = "cod"
	// PaymentUPI is prepaid through UPI.
	PaymentUPI PaymentMethod = "upi"
	// PaymentCard is prepaid by card.
	PaymentCard PaymentMethod = "card"
	// PaymentWallet is prepaid from a wallet.
	PaymentWallet PaymentMethod = "wallet"
)

// ParsePaymentMethod normalizes and validates a payment method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	pm := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if err := pm.Validate(); err != nil {
		return "", err
	}
	return pm, nil
}

// Validate reports whether pm is supported.
func (pm PaymentMethod) Validate() error {
	switch pm {
	case PaymentCOD, PaymentUPI, PaymentCard, PaymentWallet:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", string(pm)))
	}
}

// IsCashOnDelivery reports whether pm needs collection at the door.
func (pm PaymentMethod) IsCashOnDelivery() bool {
	return pm == PaymentCOD
}

func (pm PaymentMethod) String() string {
	return string(pm)
}
