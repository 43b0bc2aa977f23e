package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

var (
	groupIDFlag = &cli.StringFlag{
		Name:  "group_id",
		Usage: "the id of the group owning the wallet, for group plans",
	}
	paymentIDFlag = &cli.StringFlag{
		Name:     "payment_id",
		Usage:    "the id of the recurring payment",
		Required: true,
	}

	recurring = cli.Command{
		Name:  "recurring",
		Usage: "manage the recurring payments of an assisted wallet",
		Subcommands: []*cli.Command{
			recurringCreateCmd, recurringGetCmd, recurringListCmd,
			recurringDeleteCmd, recurringDummyTxCmd,
		},
	}

	recurringCreateCmd = &cli.Command{
		Name:  "create",
		Usage: "create a recurring payment from a JSON file",
		Flags: []cli.Flag{
			walletIDFlag, groupIDFlag,
			&cli.StringFlag{
				Name:     "file",
				Usage:    "the path of the JSON file describing the payment",
				Required: true,
			},
		},
		Action: recurringCreateAction,
	}
	recurringGetCmd = &cli.Command{
		Name:   "get",
		Usage:  "get a recurring payment",
		Flags:  []cli.Flag{walletIDFlag, groupIDFlag, paymentIDFlag},
		Action: recurringGetAction,
	}
	recurringListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list the recurring payments of a wallet",
		Flags:  []cli.Flag{walletIDFlag, groupIDFlag},
		Action: recurringListAction,
	}
	recurringDeleteCmd = &cli.Command{
		Name: "delete",
		Usage: "request the deletion of a recurring payment. The returned " +
			"dummy transaction must be signed by the other cosigners",
		Flags:  []cli.Flag{walletIDFlag, groupIDFlag, paymentIDFlag},
		Action: recurringDeleteAction,
	}
	recurringDummyTxCmd = &cli.Command{
		Name:  "dummy-tx",
		Usage: "get the signing progress of a dummy transaction",
		Flags: []cli.Flag{
			walletIDFlag, groupIDFlag,
			&cli.StringFlag{
				Name:     "dummy_tx_id",
				Usage:    "the id of the dummy transaction",
				Required: true,
			},
		},
		Action: recurringDummyTxAction,
	}
)

// paymentFile is the JSON description of a recurring payment draft.
type paymentFile struct {
	Name            string          `json:"name"`
	PaymentType     string          `json:"payment_type"`
	DestinationType string          `json:"destination_type"`
	Frequency       string          `json:"frequency"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	AllowCosigning  bool            `json:"allow_cosigning"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Addresses       []string        `json:"addresses"`
	Note            string          `json:"note"`
}

func (f paymentFile) toDomain() domain.RecurringPayment {
	payment := domain.RecurringPayment{
		Name:            f.Name,
		PaymentType:     domain.PaymentType(strings.ToUpper(f.PaymentType)),
		DestinationType: domain.DestinationType(strings.ToUpper(f.DestinationType)),
		Frequency:       domain.Frequency(strings.ToUpper(f.Frequency)),
		StartDate:       f.StartDate,
		AllowCosigning:  f.AllowCosigning,
		Amount:          f.Amount,
		Currency:        f.Currency,
		Addresses:       f.Addresses,
		Note:            f.Note,
	}
	if f.EndDate != nil {
		payment.EndDate = *f.EndDate
	}
	return payment
}

func readPaymentFile(path string) (*domain.RecurringPayment, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading payment file: %w", err)
	}

	var f paymentFile
	if err := json.Unmarshal(buf, &f); err != nil {
		return nil, fmt.Errorf("invalid payment file: %w", err)
	}

	payment := f.toDomain()
	return &payment, nil
}

func recurringCreateAction(ctx *cli.Context) error {
	payment, err := readPaymentFile(ctx.String("file"))
	if err != nil {
		return err
	}

	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	paymentID, err := svc.CreateRecurringPayment(
		ctx.Context, ctx.String(groupIDFlag.Name), ctx.String(walletIDFlag.Name),
		*payment,
	)
	if err != nil {
		return err
	}

	printRespJSON(map[string]string{"payment_id": paymentID})
	return nil
}

func recurringGetAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	payment, err := svc.GetRecurringPayment(
		ctx.Context, ctx.String(groupIDFlag.Name), ctx.String(walletIDFlag.Name),
		ctx.String(paymentIDFlag.Name),
	)
	if err != nil {
		return err
	}

	printRespJSON(payment)
	return nil
}

func recurringListAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	payments, err := svc.ListRecurringPayments(
		ctx.Context, ctx.String(groupIDFlag.Name), ctx.String(walletIDFlag.Name),
	)
	if err != nil {
		return err
	}

	printRespJSON(payments)
	return nil
}

func recurringDeleteAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	dummyTx, err := svc.DeleteRecurringPayment(
		ctx.Context, ctx.String(groupIDFlag.Name), ctx.String(walletIDFlag.Name),
		ctx.String(paymentIDFlag.Name),
	)
	if err != nil {
		return err
	}

	printRespJSON(dummyTx)
	return nil
}

func recurringDummyTxAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	dummyTx, err := svc.GetDummyTransaction(
		ctx.Context, ctx.String(groupIDFlag.Name), ctx.String(walletIDFlag.Name),
		ctx.String("dummy_tx_id"),
	)
	if err != nil {
		return err
	}

	printRespJSON(dummyTx)
	return nil
}
