package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotLoaded indicates the catalog has not been loaded yet
	ErrNotLoaded = errors.New("catalog not loaded")

	// ErrLoadFailed indicates a catalog fetch or parse failed
	ErrLoadFailed = errors.New("catalog load failed")

	// ErrAnnotationAccess indicates the local annotation store could not be read or written
	ErrAnnotationAccess = errors.New("annotation store access failed")

	// ErrUnknownProduct indicates a product ID that is not in the catalog
	ErrUnknownProduct = errors.New("product not found")

	// ErrUnknownSeries indicates a series ID that is not in the catalog
	ErrUnknownSeries = errors.New("series not found")

	// ErrUnknownLiver indicates a liver ID or name that is not in the catalog
	ErrUnknownLiver = errors.New("liver not found")

	// ErrUnknownGroup indicates a group ID or name that is not in the catalog
	ErrUnknownGroup = errors.New("group not found")

	// ErrSourceUnavailable indicates the catalog host is unreachable
	ErrSourceUnavailable = errors.New("catalog source is unreachable")

	// ErrUnauthorized indicates the catalog host rejected the credentials
	ErrUnauthorized = errors.New("catalog source rejected credentials")
)
