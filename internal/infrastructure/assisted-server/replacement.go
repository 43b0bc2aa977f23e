package assistedserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

func (c *Client) GetReplacementStatus(
	ctx context.Context, walletID string,
) (*domain.ReplaceWalletStatus, error) {
	path := fmt.Sprintf("/wallets/%s/replacement-status", url.PathEscape(walletID))

	var resp replacementStatusDTO
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	status := resp.toDomain(walletID)
	return &status, nil
}

func (c *Client) ConfirmReplacement(
	ctx context.Context, walletID, xfp string, chosen domain.SignerServer,
) error {
	path := fmt.Sprintf(
		"/wallets/%s/replacement/%s/confirm",
		url.PathEscape(walletID), url.PathEscape(xfp),
	)
	req := confirmReplacementRequest{newSignerDTO(chosen)}
	return c.do(ctx, http.MethodPost, path, req, nil)
}

func (c *Client) CancelReplacement(
	ctx context.Context, walletID, xfp string,
) error {
	path := fmt.Sprintf(
		"/wallets/%s/replacement/%s",
		url.PathEscape(walletID), url.PathEscape(xfp),
	)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
