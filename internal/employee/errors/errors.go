package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrDuplicateID  = fmt.Errorf("duplicate id")
	ErrInvalidInput = fmt.Errorf("invalid input")
)
