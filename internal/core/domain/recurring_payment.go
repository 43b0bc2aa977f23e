package domain

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeFixedAmount PaymentType = "FIXED_AMOUNT"
	PaymentTypePercentage  PaymentType = "PERCENTAGE"
)

type DestinationType string

const (
	DestinationWhitelistedAddresses DestinationType = "WHITELISTED_ADDRESSES"
	DestinationWallet               DestinationType = "DESTINATION_WALLET"
)

type Frequency string

const (
	FrequencyDaily        Frequency = "DAILY"
	FrequencyWeekly       Frequency = "WEEKLY"
	FrequencyMonthly      Frequency = "MONTHLY"
	FrequencyThreeMonthly Frequency = "THREE_MONTHLY"
	FrequencySixMonthly   Frequency = "SIX_MONTHLY"
	FrequencyYearly       Frequency = "YEARLY"
)

var (
	maxPercentage = decimal.NewFromInt(100)

	frequencies = map[Frequency]struct{}{
		FrequencyDaily:        {},
		FrequencyWeekly:       {},
		FrequencyMonthly:      {},
		FrequencyThreeMonthly: {},
		FrequencySixMonthly:   {},
		FrequencyYearly:       {},
	}
)

// RecurringPayment is a scheduled spending policy. It's created as a draft
// and gets an ID only once accepted by the server.
type RecurringPayment struct {
	ID              string
	Name            string
	PaymentType     PaymentType
	DestinationType DestinationType
	Frequency       Frequency
	StartDate       time.Time
	// EndDate is zero for open-ended payments.
	EndDate        time.Time
	AllowCosigning bool
	// Amount is either an amount of Currency or a percentage of the wallet
	// balance, depending on PaymentType.
	Amount   decimal.Decimal
	Currency string
	// Addresses are the whitelisted destination addresses or, for
	// DestinationWallet, the destination wallet reference.
	Addresses []string
	Note      string
}

// IsDraft tells whether the payment has not been accepted by the server yet.
func (p RecurringPayment) IsDraft() bool {
	return p.ID == ""
}

// Validate checks the payment parameters. Whitelisted addresses are decoded
// for the given network.
func (p RecurringPayment) Validate(net *chaincfg.Params) error {
	if p.Name == "" {
		return ErrMissingPaymentName
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidPaymentAmount
	}
	switch p.PaymentType {
	case PaymentTypeFixedAmount:
	case PaymentTypePercentage:
		if p.Amount.GreaterThan(maxPercentage) {
			return ErrInvalidPercentage
		}
	default:
		return ErrUnknownPaymentType
	}
	if _, ok := frequencies[p.Frequency]; !ok {
		return ErrUnknownFrequency
	}
	if p.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	if !p.EndDate.IsZero() && !p.EndDate.After(p.StartDate) {
		return ErrInvalidEndDate
	}
	if len(p.Addresses) <= 0 {
		return ErrMissingDestination
	}

	switch p.DestinationType {
	case DestinationWallet:
	case DestinationWhitelistedAddresses:
		for _, addr := range p.Addresses {
			if err := validateAddress(addr, net); err != nil {
				return err
			}
		}
	default:
		return ErrUnknownDestinationType
	}
	return nil
}

func validateAddress(addr string, net *chaincfg.Params) error {
	decoded, err := btcutil.DecodeAddress(addr, net)
	if err != nil {
		return fmt.Errorf("%w %s: %s", ErrInvalidAddress, addr, err)
	}
	if !decoded.IsForNet(net) {
		return fmt.Errorf("%w %s: not for network %s", ErrInvalidAddress, addr, net.Name)
	}
	return nil
}
