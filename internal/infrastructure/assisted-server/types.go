package assistedserver

import (
	"time"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/shopspring/decimal"
)

type planDTO struct {
	Slug string `json:"slug"`
}

type subscriptionDTO struct {
	SubscriptionID string  `json:"subscription_id"`
	Plan           planDTO `json:"plan"`
	Status         string  `json:"status"`
}

func (s subscriptionDTO) toDomain() domain.Subscription {
	return domain.Subscription{
		SubscriptionID: s.SubscriptionID,
		Plan:           domain.ParseMembershipPlan(s.Plan.Slug),
		PlanSlug:       s.Plan.Slug,
		Status:         s.Status,
	}
}

type tapsignerDTO struct {
	CardID      string `json:"card_id"`
	Version     string `json:"version"`
	BirthHeight int    `json:"birth_height"`
	IsTestnet   bool   `json:"is_testnet"`
}

type signerDTO struct {
	Name           string        `json:"name"`
	Xfp            string        `json:"xfp"`
	DerivationPath string        `json:"derivation_path"`
	Type           string        `json:"type"`
	Tags           []string      `json:"tags"`
	Tapsigner      *tapsignerDTO `json:"tapsigner,omitempty"`
	Xpub           string        `json:"xpub,omitempty"`
	Pubkey         string        `json:"pubkey,omitempty"`
}

func newSignerDTO(s domain.SignerServer) signerDTO {
	dto := signerDTO{
		Name:           s.Name,
		Xfp:            s.Xfp,
		DerivationPath: s.DerivationPath,
		Type:           s.Type,
		Tags:           s.Tags,
		Xpub:           s.Xpub,
		Pubkey:         s.Pubkey,
	}
	if s.Tapsigner != nil {
		dto.Tapsigner = &tapsignerDTO{
			CardID:      s.Tapsigner.CardID,
			Version:     s.Tapsigner.Version,
			BirthHeight: s.Tapsigner.BirthHeight,
			IsTestnet:   s.Tapsigner.IsTestnet,
		}
	}
	return dto
}

func (s signerDTO) toDomain() domain.SignerServer {
	signer := domain.SignerServer{
		Name:           s.Name,
		Xfp:            s.Xfp,
		DerivationPath: s.DerivationPath,
		Type:           s.Type,
		Tags:           s.Tags,
		Xpub:           s.Xpub,
		Pubkey:         s.Pubkey,
	}
	if s.Tapsigner != nil {
		signer.Tapsigner = &domain.TapsignerMeta{
			CardID:      s.Tapsigner.CardID,
			Version:     s.Tapsigner.Version,
			BirthHeight: s.Tapsigner.BirthHeight,
			IsTestnet:   s.Tapsigner.IsTestnet,
		}
	}
	return signer
}

type uploadKeyRequest struct {
	Plan   string    `json:"plan"`
	Step   string    `json:"step"`
	Signer signerDTO `json:"signer"`
}

type uploadKeyResponse struct {
	Key struct {
		KeyID string `json:"key_id"`
	} `json:"key"`
}

type verifyKeyRequest struct {
	VerificationType string `json:"verification_type"`
	Checksum         string `json:"checksum,omitempty"`
}

type walletDTO struct {
	LocalID            string `json:"local_id"`
	PlanSlug           string `json:"plan_slug"`
	IsSetupInheritance bool   `json:"is_setup_inheritance"`
	IsRegisterAirgap   bool   `json:"is_register_airgap"`
	IsRegisterColdcard bool   `json:"is_register_coldcard"`
}

func (w walletDTO) toDomain() domain.AssistedWalletBrief {
	return domain.AssistedWalletBrief{
		LocalID:            w.LocalID,
		Plan:               domain.ParseMembershipPlan(w.PlanSlug),
		IsSetupInheritance: w.IsSetupInheritance,
		IsRegisterAirgap:   w.IsRegisterAirgap,
		IsRegisterColdcard: w.IsRegisterColdcard,
	}
}

type listWalletsResponse struct {
	Wallets []walletDTO `json:"wallets"`
}

type updateWalletRequest struct {
	IsRegisterAirgap   *bool `json:"is_register_airgap,omitempty"`
	IsRegisterColdcard *bool `json:"is_register_coldcard,omitempty"`
}

type walletResponse struct {
	Wallet walletDTO `json:"wallet"`
}

type keyReplacementDTO struct {
	Xfp          string      `json:"xfp"`
	ReplaceBy    *signerDTO  `json:"replace_by"`
	Replacements []signerDTO `json:"replacements"`
}

type replacementStatusDTO struct {
	PendingReplaceXfps []string            `json:"pending_replace_xfps"`
	Signers            []keyReplacementDTO `json:"signers"`
}

func (r replacementStatusDTO) toDomain(walletID string) domain.ReplaceWalletStatus {
	status := domain.ReplaceWalletStatus{
		WalletID:           walletID,
		PendingReplaceXfps: r.PendingReplaceXfps,
		Signers:            make(map[string]domain.KeyReplacement, len(r.Signers)),
	}
	for _, s := range r.Signers {
		entry := domain.KeyReplacement{Xfp: s.Xfp}
		if s.ReplaceBy != nil {
			replaceBy := s.ReplaceBy.toDomain()
			entry.ReplaceBy = &replaceBy
		}
		for _, c := range s.Replacements {
			entry.Candidates = append(entry.Candidates, c.toDomain())
		}
		status.Signers[s.Xfp] = entry
	}
	return status
}

type confirmReplacementRequest struct {
	Signer signerDTO `json:"signer"`
}

type recurringPaymentDTO struct {
	ID              string          `json:"id,omitempty"`
	Name            string          `json:"name"`
	PaymentType     string          `json:"payment_type"`
	DestinationType string          `json:"destination_type"`
	Frequency       string          `json:"frequency"`
	StartDateMillis int64           `json:"start_date_millis"`
	EndDateMillis   int64           `json:"end_date_millis,omitempty"`
	AllowCosigning  bool            `json:"allow_cosigning"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty"`
	Addresses       []string        `json:"addresses"`
	Note            string          `json:"note,omitempty"`
}

func newRecurringPaymentDTO(p domain.RecurringPayment) recurringPaymentDTO {
	dto := recurringPaymentDTO{
		ID:              p.ID,
		Name:            p.Name,
		PaymentType:     string(p.PaymentType),
		DestinationType: string(p.DestinationType),
		Frequency:       string(p.Frequency),
		StartDateMillis: p.StartDate.UnixMilli(),
		AllowCosigning:  p.AllowCosigning,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Addresses:       p.Addresses,
		Note:            p.Note,
	}
	if !p.EndDate.IsZero() {
		dto.EndDateMillis = p.EndDate.UnixMilli()
	}
	return dto
}

func (p recurringPaymentDTO) toDomain() domain.RecurringPayment {
	payment := domain.RecurringPayment{
		ID:              p.ID,
		Name:            p.Name,
		PaymentType:     domain.PaymentType(p.PaymentType),
		DestinationType: domain.DestinationType(p.DestinationType),
		Frequency:       domain.Frequency(p.Frequency),
		StartDate:       time.UnixMilli(p.StartDateMillis).UTC(),
		AllowCosigning:  p.AllowCosigning,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Addresses:       p.Addresses,
		Note:            p.Note,
	}
	if p.EndDateMillis > 0 {
		payment.EndDate = time.UnixMilli(p.EndDateMillis).UTC()
	}
	return payment
}

type recurringPaymentResponse struct {
	RecurringPayment recurringPaymentDTO `json:"recurring_payment"`
}

type listRecurringPaymentsResponse struct {
	RecurringPayments []recurringPaymentDTO `json:"recurring_payments"`
}

type dummyTransactionDTO struct {
	ID                 string `json:"id"`
	WalletLocalID      string `json:"wallet_local_id"`
	GroupID            string `json:"group_id,omitempty"`
	Type               string `json:"type"`
	Status             string `json:"status"`
	RequiredSignatures int    `json:"required_signatures"`
	PendingSignatures  int    `json:"pending_signatures"`
	Psbt               string `json:"psbt"`
}

func (d dummyTransactionDTO) toDomain() domain.DummyTransactionPayload {
	return domain.DummyTransactionPayload{
		ID:                 d.ID,
		WalletID:           d.WalletLocalID,
		GroupID:            d.GroupID,
		Type:               d.Type,
		Status:             d.Status,
		RequiredSignatures: d.RequiredSignatures,
		PendingSignatures:  d.PendingSignatures,
		Psbt:               d.Psbt,
	}
}

type dummyTransactionResponse struct {
	DummyTransaction dummyTransactionDTO `json:"dummy_transaction"`
}
