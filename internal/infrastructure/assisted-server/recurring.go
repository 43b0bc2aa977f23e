package assistedserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

func (c *Client) CreateRecurringPayment(
	ctx context.Context, groupID, walletID string,
	payment domain.RecurringPayment,
) (string, error) {
	path := recurringPaymentsPath(groupID, walletID)
	req := newRecurringPaymentDTO(payment)

	var resp recurringPaymentResponse
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return "", err
	}
	if resp.RecurringPayment.ID == "" {
		return "", ErrEmptyResponse
	}
	return resp.RecurringPayment.ID, nil
}

func (c *Client) GetRecurringPayment(
	ctx context.Context, groupID, walletID, paymentID string,
) (*domain.RecurringPayment, error) {
	path := fmt.Sprintf(
		"%s/%s", recurringPaymentsPath(groupID, walletID), url.PathEscape(paymentID),
	)

	var resp recurringPaymentResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	payment := resp.RecurringPayment.toDomain()
	return &payment, nil
}

func (c *Client) ListRecurringPayments(
	ctx context.Context, groupID, walletID string,
) ([]domain.RecurringPayment, error) {
	var resp listRecurringPaymentsResponse
	if err := c.do(
		ctx, http.MethodGet, recurringPaymentsPath(groupID, walletID), nil, &resp,
	); err != nil {
		return nil, err
	}

	payments := make([]domain.RecurringPayment, 0, len(resp.RecurringPayments))
	for _, p := range resp.RecurringPayments {
		payments = append(payments, p.toDomain())
	}
	return payments, nil
}

func (c *Client) DeleteRecurringPayment(
	ctx context.Context, groupID, walletID, paymentID string,
) (*domain.DummyTransactionPayload, error) {
	path := fmt.Sprintf(
		"%s/%s", recurringPaymentsPath(groupID, walletID), url.PathEscape(paymentID),
	)

	var resp dummyTransactionResponse
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	return toDummyTransaction(resp.DummyTransaction)
}

func (c *Client) GetDummyTransaction(
	ctx context.Context, groupID, walletID, dummyTxID string,
) (*domain.DummyTransactionPayload, error) {
	path := fmt.Sprintf(
		"%s/dummy-transactions/%s",
		scopePath(url.PathEscape(groupID), url.PathEscape(walletID)),
		url.PathEscape(dummyTxID),
	)

	var resp dummyTransactionResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return toDummyTransaction(resp.DummyTransaction)
}

func recurringPaymentsPath(groupID, walletID string) string {
	return fmt.Sprintf(
		"%s/recurring-payments",
		scopePath(url.PathEscape(groupID), url.PathEscape(walletID)),
	)
}

func toDummyTransaction(
	dto dummyTransactionDTO,
) (*domain.DummyTransactionPayload, error) {
	if dto.ID == "" {
		return nil, ErrEmptyResponse
	}
	tx := dto.toDomain()
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return &tx, nil
}
