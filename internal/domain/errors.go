package domain

import "errors"

var (
	// ErrNotAnImage is returned when a staged candidate is not an image file
	ErrNotAnImage = errors.New("selected file is not an image")

	// ErrNoFileStaged is returned when extraction is requested without a staged file
	ErrNoFileStaged = errors.New("no file staged for extraction")

	// ErrExtractionInFlight is returned when an extraction request is already running
	ErrExtractionInFlight = errors.New("extraction request already in flight")

	// ErrExtractionFailed is returned when the service responded but declared failure
	ErrExtractionFailed = errors.New("extraction service reported failure")

	// ErrServiceUnreachable is returned when no interpretable response was obtained
	ErrServiceUnreachable = errors.New("extraction service unreachable")

	// ErrNoProducts is returned when the service has no stored products
	ErrNoProducts = errors.New("no stored products available")

	// ErrIndexOutOfRange is returned when a detail lookup targets a missing row
	ErrIndexOutOfRange = errors.New("product index out of range")
)
