// Package finance derives the money fields a deal carries but never
// stores independently: the wholesale fee and the net profit.
package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// wholesaleFeeRate is the wholesaler margin: 10% of the property ARV.
var wholesaleFeeRate = decimal.NewFromFloat(0.10)

// ErrMissingField is the sentinel matched by errors.Is when a derivation
// input is absent.
var ErrMissingField = errors.New("missing field for financial derivation")

// MissingFieldError identifies which derivation input was absent. It is a
// soft condition: the deal stays valid and the affected derived fields
// stay null.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("cannot derive deal financials: %s is not set", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Financials is the result of a derivation. A nil field means unknown,
// which is distinct from a legitimate zero value. Complete is true only
// when both fields could be computed.
type Financials struct {
	WholesaleFee *decimal.Decimal
	NetProfit    *decimal.Decimal
	Complete     bool
}

// DeriveDealFinancials computes
//
//	wholesaleFee = round2(arv * 0.10)
//	netProfit    = round2(wholesaleFee - (offerPrice - purchasePrice))
//
// rounding to 2 decimal places half away from zero, applied once here and
// never re-applied on read. Absent inputs leave the dependent outputs nil
// and report a MissingFieldError; the first missing input wins.
func DeriveDealFinancials(offerPrice decimal.Decimal, arv, purchasePrice *decimal.Decimal) (Financials, error) {
	if arv == nil {
		return Financials{}, &MissingFieldError{Field: "property.arv"}
	}
	fee := arv.Mul(wholesaleFeeRate).Round(2)

	if purchasePrice == nil {
		return Financials{WholesaleFee: &fee}, &MissingFieldError{Field: "property.purchase_price"}
	}
	net := fee.Sub(offerPrice.Sub(*purchasePrice)).Round(2)

	return Financials{WholesaleFee: &fee, NetProfit: &net, Complete: true}, nil
}
