package assistedserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
)

func (c *Client) GetCurrentSubscription(
	ctx context.Context,
) (*domain.Subscription, error) {
	var resp struct {
		Subscription subscriptionDTO `json:"subscription"`
	}
	if err := c.do(
		ctx, http.MethodGet, "/subscriptions/current", nil, &resp,
	); err != nil {
		return nil, err
	}

	sub := resp.Subscription.toDomain()
	return &sub, nil
}

func (c *Client) UploadKey(
	ctx context.Context, plan domain.MembershipPlan, step domain.Step,
	signer domain.SignerServer,
) (string, error) {
	req := uploadKeyRequest{
		Plan:   plan.Slug(),
		Step:   string(step),
		Signer: newSignerDTO(signer),
	}
	var resp uploadKeyResponse
	if err := c.do(ctx, http.MethodPost, "/user-keys", req, &resp); err != nil {
		return "", err
	}
	if resp.Key.KeyID == "" {
		return "", ErrEmptyResponse
	}
	return resp.Key.KeyID, nil
}

func (c *Client) VerifyKey(
	ctx context.Context, keyIDInServer string, verification ports.KeyVerification,
) error {
	path := fmt.Sprintf("/user-keys/%s/verify", url.PathEscape(keyIDInServer))
	req := verifyKeyRequest{
		VerificationType: verification.VerificationType,
		Checksum:         verification.Checksum,
	}
	return c.do(ctx, http.MethodPost, path, req, nil)
}

func (c *Client) ListAssistedWallets(
	ctx context.Context,
) ([]domain.AssistedWalletBrief, error) {
	var resp listWalletsResponse
	if err := c.do(
		ctx, http.MethodGet, "/user-wallets/assisted-wallets", nil, &resp,
	); err != nil {
		return nil, err
	}

	wallets := make([]domain.AssistedWalletBrief, 0, len(resp.Wallets))
	for _, w := range resp.Wallets {
		wallets = append(wallets, w.toDomain())
	}
	return wallets, nil
}

func (c *Client) UpdateWalletFlags(
	ctx context.Context, walletID string, flags domain.WalletFlags,
) (*domain.AssistedWalletBrief, error) {
	path := fmt.Sprintf("/user-wallets/wallets/%s", url.PathEscape(walletID))
	req := updateWalletRequest{
		IsRegisterAirgap:   flags.IsRegisterAirgap,
		IsRegisterColdcard: flags.IsRegisterColdcard,
	}
	var resp walletResponse
	if err := c.do(ctx, http.MethodPatch, path, req, &resp); err != nil {
		return nil, err
	}

	wallet := resp.Wallet.toDomain()
	return &wallet, nil
}
