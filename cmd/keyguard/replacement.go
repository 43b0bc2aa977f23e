package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	replacedXfpFlag = &cli.StringFlag{
		Name:     "replaced_xfp",
		Usage:    "the master fingerprint of the key being replaced",
		Required: true,
	}

	replacement = cli.Command{
		Name:  "replacement",
		Usage: "manage the replacement of the keys of an assisted wallet",
		Subcommands: []*cli.Command{
			replacementStatusCmd, replacementPrepareCmd, replacementConfirmCmd,
			replacementCancelCmd,
		},
	}

	replacementStatusCmd = &cli.Command{
		Name:   "status",
		Usage:  "get the replacement status of a wallet",
		Flags:  []cli.Flag{walletIDFlag},
		Action: replacementStatusAction,
	}
	replacementPrepareCmd = &cli.Command{
		Name: "prepare",
		Usage: "get the replacement status of a wallet and register all " +
			"replacing and candidate keys locally",
		Flags:  []cli.Flag{walletIDFlag},
		Action: replacementPrepareAction,
	}
	replacementConfirmCmd = &cli.Command{
		Name:   "confirm",
		Usage:  "confirm the replacement of a key with the given one",
		Flags:  append([]cli.Flag{walletIDFlag, replacedXfpFlag}, signerFlags...),
		Action: replacementConfirmAction,
	}
	replacementCancelCmd = &cli.Command{
		Name:   "cancel",
		Usage:  "cancel the pending replacement of a key",
		Flags:  []cli.Flag{walletIDFlag, replacedXfpFlag},
		Action: replacementCancelAction,
	}
)

func replacementStatusAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := svc.GetReplacementStatus(
		ctx.Context, ctx.String(walletIDFlag.Name),
	)
	if err != nil {
		return err
	}

	printRespJSON(status)
	return nil
}

func replacementPrepareAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := svc.PrepareReplacement(
		ctx.Context, ctx.String(walletIDFlag.Name),
	)
	if err != nil {
		return err
	}

	printRespJSON(status)
	return nil
}

func replacementConfirmAction(ctx *cli.Context) error {
	chosen := parseSigner(ctx)
	if chosen == nil {
		return fmt.Errorf("missing --xfp of the replacing key")
	}

	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := svc.ConfirmReplacement(
		ctx.Context, ctx.String(walletIDFlag.Name),
		ctx.String(replacedXfpFlag.Name), *chosen,
	)
	if err != nil {
		return err
	}

	printRespJSON(status)
	return nil
}

func replacementCancelAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := svc.CancelReplacement(
		ctx.Context, ctx.String(walletIDFlag.Name),
		ctx.String(replacedXfpFlag.Name),
	)
	if err != nil {
		return err
	}

	printRespJSON(status)
	return nil
}
