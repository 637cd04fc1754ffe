package workflow

import "errors"

var (
	ErrInvalidState = errors.New("invalid workflow state")
	ErrStoreUpdate  = errors.New("letter update failed")
)
