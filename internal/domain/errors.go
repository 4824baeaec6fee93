package domain

import "errors"

var (
	// ErrInvalidBarcode is returned when a scan is triggered without a barcode
	ErrInvalidBarcode = errors.New("barcode is empty")

	// ErrProductNotFound is returned when the upstream database has no product for the barcode
	ErrProductNotFound = errors.New("product not found")

	// ErrLookupFailed is returned when the product lookup fails at the transport level or with a non-2xx status
	ErrLookupFailed = errors.New("product lookup failed")

	// ErrPersistence is returned when reading or writing the history slot fails
	ErrPersistence = errors.New("history persistence failed")

	// ErrSlotNotFound is returned by a storage backend when the named slot has never been written
	ErrSlotNotFound = errors.New("storage slot not found")
)
