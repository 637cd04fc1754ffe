package extraction

import "errors"

var (
	ErrRenderFailed = errors.New("page rendering failed")
	ErrOCRFailed    = errors.New("text recognition failed")
)
