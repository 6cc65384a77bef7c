package common

import "errors"

var (
	ErrorInvalidValue = errors.New("invalid value")

	// ErrorEmptyDataset is returned when a view holds no finite sample to rank.
	ErrorEmptyDataset = errors.New("no finite samples in dataset")

	// ErrorSizeMismatch is returned when a frequency table is shorter than
	// the values or frames it must cover.
	ErrorSizeMismatch = errors.New("size mismatch")

	// ErrorPrecondition is returned for a requested fraction outside [0, 1].
	ErrorPrecondition = errors.New("precondition violation")
)
