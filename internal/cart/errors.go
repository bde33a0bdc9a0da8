package cart

import (
	"errors"

	"github.com/haisenberg98/brewgear-api/internal/discount"
)

func isDiscountError(err error) bool {
	return errors.Is(err, discount.ErrInvalidCode) ||
		errors.Is(err, discount.ErrExpired) ||
		errors.Is(err, discount.ErrUsageLimitReached)
}
