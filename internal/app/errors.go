package app

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrSearchTermRequired = errors.New("search term is required")
	ErrImportNotArray     = errors.New("expected an array of visa information")
	ErrVisaNotFound       = errors.New("visa information not found")
	ErrMessageEmpty       = errors.New("message is required")
	ErrUpstream           = errors.New("completion upstream failed")
	ErrStorage            = errors.New("storage failure")

	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
)
