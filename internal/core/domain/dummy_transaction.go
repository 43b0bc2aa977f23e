package domain

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/psbt"
)

const (
	DummyTxDeleteRecurringPayment = "DELETE_RECURRING_PAYMENT"

	DummyTxStatusPendingSignatures = "PENDING_SIGNATURES"
	DummyTxStatusConfirmed         = "CONFIRMED"
	DummyTxStatusCanceled          = "CANCELED"
)

// DummyTransactionPayload is a cosigning request: a placeholder transaction
// whose only purpose is to collect the signatures authorizing a policy
// change.
type DummyTransactionPayload struct {
	ID                 string
	WalletID           string
	GroupID            string
	Type               string
	Status             string
	RequiredSignatures int
	PendingSignatures  int
	// Psbt is the base64 encoded transaction to sign.
	Psbt string
}

// IsCompleted tells whether the server has applied the change the dummy
// transaction was authorizing.
func (d DummyTransactionPayload) IsCompleted() bool {
	return d.Status == DummyTxStatusConfirmed
}

// Validate makes sure the payload carries a decodable PSBT, if any.
func (d DummyTransactionPayload) Validate() error {
	if d.Psbt == "" {
		return nil
	}
	if _, err := psbt.NewFromRawBytes(strings.NewReader(d.Psbt), true); err != nil {
		return ErrInvalidPsbt
	}
	return nil
}
