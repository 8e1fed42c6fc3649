package services

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"catalog/internal/errs"
)

var validate = validator.New()

// check validates a single value against a validator tag and turns a failure into
// an ErrInvalidArgument carrying msg.
func check(value any, tag, msg string) error {
	if err := validate.Var(value, tag); err != nil {
		return errs.InvalidArgument(msg)
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

// totalValue returns price × quantity.
func totalValue(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64()
}

// discountedPrice returns price × (1 − percent/100).
func discountedPrice(price, percent float64) float64 {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(percent).Div(hundred))
	return decimal.NewFromFloat(price).Mul(factor).InexactFloat64()
}
