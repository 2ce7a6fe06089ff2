package report

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrDataIntegrity = errors.New("data integrity error")

	ErrNoContractorSelected = fmt.Errorf("%w: no contractor selected", ErrValidation)
	ErrNoRecords            = fmt.Errorf("%w: no records match the selected filters", ErrValidation)
	ErrUnknownReport        = fmt.Errorf("%w: unknown report kind", ErrValidation)
)
