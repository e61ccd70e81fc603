package wallet

import "errors"

var ErrInvalidAmount = errors.New("invalid_amount")
