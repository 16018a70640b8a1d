package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrBind                 = errors.New("failed to bind server address")
	ErrShutdown             = errors.New("server shutdown error")
	ErrFailedLoadCert       = errors.New("failed to load certificate")
)
