package pricing

import (
	"errors"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

var (
	ErrNegativeComponent = errors.New("pricing: components cannot be negative unless modeled as discount")
	ErrCurrencyUnset     = errors.New("pricing: currency must be defined")
	ErrNoNights          = errors.New("pricing: nights must be positive")
)

type Fee struct {
	Name   string
	Amount money.Money
}

type Tax struct {
	Name   string
	Amount money.Money
}

type Discount struct {
	Name    string
	Percent int
	Amount  money.Money
}

// PriceBreakdown carries the full accounting of a stay. Subtotal is the
// seasonal-adjusted sum of nightly prices before any discount; discounts,
// fees and taxes are folded into Total by RecalculateTotal.
type PriceBreakdown struct {
	Nights    int
	Subtotal  money.Money
	Fees      []Fee
	Taxes     []Tax
	Discounts []Discount
	Total     money.Money
}

func (p *PriceBreakdown) Validate() error {
	if p.Subtotal.Currency == "" {
		return ErrCurrencyUnset
	}
	if p.Nights <= 0 {
		return ErrNoNights
	}
	return nil
}

// RecalculateTotal folds discounts, fees and taxes into Total. A total can
// never go below zero.
func (p *PriceBreakdown) RecalculateTotal() error {
	if err := p.Validate(); err != nil {
		return err
	}
	total := p.Subtotal
	addMoney := func(m money.Money) {
		res, _ := total.Add(m)
		total = res
	}
	for _, discount := range p.Discounts {
		if discount.Amount.Amount > 0 {
			discount.Amount = discount.Amount.Neg()
		}
		addMoney(discount.Amount)
	}
	for _, fee := range p.Fees {
		if fee.Amount.Amount < 0 {
			return ErrNegativeComponent
		}
		addMoney(fee.Amount)
	}
	for _, tax := range p.Taxes {
		if tax.Amount.Amount < 0 {
			return ErrNegativeComponent
		}
		addMoney(tax.Amount)
	}
	if total.Amount < 0 {
		total = money.Money{Amount: 0, Currency: total.Currency}
	}
	p.Total = total
	return nil
}

// StaySubtotal is the subtotal after discounts and before fees and taxes:
// the number quoted to guests as the price of the stay itself.
func (p PriceBreakdown) StaySubtotal() money.Money {
	subtotal := p.Subtotal
	for _, discount := range p.Discounts {
		amount := discount.Amount
		if amount.Amount < 0 {
			amount = amount.Neg()
		}
		res, err := subtotal.Sub(amount)
		if err != nil {
			continue
		}
		subtotal = res
	}
	if subtotal.Amount < 0 {
		subtotal = money.Money{Amount: 0, Currency: subtotal.Currency}
	}
	return subtotal
}

// AverageNightly is StaySubtotal divided by nights, truncated. Display only.
func (p PriceBreakdown) AverageNightly() money.Money {
	return p.StaySubtotal().DividedBy(int64(p.Nights))
}

func (p PriceBreakdown) Copy() PriceBreakdown {
	clone := p
	clone.Fees = append([]Fee(nil), p.Fees...)
	clone.Taxes = append([]Tax(nil), p.Taxes...)
	clone.Discounts = append([]Discount(nil), p.Discounts...)
	return clone
}
