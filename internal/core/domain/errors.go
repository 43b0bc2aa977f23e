package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every not-found failure surfaced by read paths.
	ErrNotFound = errors.New("not found")
	// ErrStepNotFound ...
	ErrStepNotFound = fmt.Errorf("membership step %w", ErrNotFound)
	// ErrWalletNotFound ...
	ErrWalletNotFound = fmt.Errorf("assisted wallet %w", ErrNotFound)
	// ErrSignerNotFound is returned by the engine when deleting an unknown
	// signer. Callers that delete signers treat it as a no-op.
	ErrSignerNotFound = fmt.Errorf("signer %w", ErrNotFound)

	// ErrNoActiveSession is returned when an identity-scoped operation is
	// attempted before the session is initialized or after it is cleared.
	ErrNoActiveSession = errors.New("no active session")
	// ErrMissingEmailClaim ...
	ErrMissingEmailClaim = errors.New("access token has no email claim")

	// ErrMissingEmail ...
	ErrMissingEmail = errors.New("missing email")
	// ErrUnknownPlan ...
	ErrUnknownPlan = errors.New("unknown membership plan")
	// ErrMissingStep ...
	ErrMissingStep = errors.New("missing membership step")
	// ErrKeyNotUploaded is returned when verifying a step whose key has no
	// server id yet.
	ErrKeyNotUploaded = errors.New("key has not been uploaded to the server")

	// ErrMissingXfp ...
	ErrMissingXfp = errors.New("missing signer master fingerprint")
	// ErrInvalidReplaceStatus is returned when a pending xfp has no entry in
	// the replacement signers.
	ErrInvalidReplaceStatus = errors.New("pending replacement without signers")

	// ErrPaymentAlreadyCreated is returned when creating a recurring payment
	// that already has a server id.
	ErrPaymentAlreadyCreated = errors.New("recurring payment already has an id")
	// ErrMissingPaymentName ...
	ErrMissingPaymentName = errors.New("missing recurring payment name")
	// ErrInvalidPaymentAmount ...
	ErrInvalidPaymentAmount = errors.New("recurring payment amount must be positive")
	// ErrInvalidPercentage ...
	ErrInvalidPercentage = errors.New("recurring payment percentage must not exceed 100")
	// ErrUnknownPaymentType ...
	ErrUnknownPaymentType = errors.New("unknown recurring payment type")
	// ErrUnknownDestinationType ...
	ErrUnknownDestinationType = errors.New("unknown recurring payment destination type")
	// ErrUnknownFrequency ...
	ErrUnknownFrequency = errors.New("unknown recurring payment frequency")
	// ErrMissingStartDate ...
	ErrMissingStartDate = errors.New("missing recurring payment start date")
	// ErrInvalidEndDate ...
	ErrInvalidEndDate = errors.New("recurring payment end date must follow start date")
	// ErrMissingDestination ...
	ErrMissingDestination = errors.New("recurring payment has no destination")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid destination address")
	// ErrMissingWalletID ...
	ErrMissingWalletID = errors.New("missing wallet id")
	// ErrMissingPaymentID ...
	ErrMissingPaymentID = errors.New("missing recurring payment id")
	// ErrInvalidPsbt is returned when a dummy transaction carries a payload
	// that does not decode as a PSBT.
	ErrInvalidPsbt = errors.New("dummy transaction psbt is not valid")
)
