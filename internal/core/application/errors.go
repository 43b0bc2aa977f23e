package application

import "errors"

var (
	// ErrUnsupportedDBType ...
	ErrUnsupportedDBType = errors.New("db type not supported")
	// ErrMissingNetwork ...
	ErrMissingNetwork = errors.New("missing network")
	// ErrMissingSession ...
	ErrMissingSession = errors.New("missing session")
	// ErrMissingAssistedServer is returned when wiring the services without a
	// client of the policy server.
	ErrMissingAssistedServer = errors.New("missing assisted server")
	// ErrMissingEngine ...
	ErrMissingEngine = errors.New("missing signer engine")
)
