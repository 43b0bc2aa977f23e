package main

import (
	"github.com/urfave/cli/v2"
)

var (
	walletIDFlag = &cli.StringFlag{
		Name:     "wallet_id",
		Usage:    "the local id of the assisted wallet",
		Required: true,
	}
	registeredFlag = &cli.BoolFlag{
		Name:  "registered",
		Usage: "whether the wallet has been registered on the device",
		Value: true,
	}

	wallets = cli.Command{
		Name:  "wallets",
		Usage: "sync, list and update the assisted wallets",
		Subcommands: []*cli.Command{
			walletsSyncCmd, walletsListCmd, walletsGetCmd, walletsSetAirgapCmd,
			walletsSetColdcardCmd,
		},
	}

	walletsSyncCmd = &cli.Command{
		Name:   "sync",
		Usage:  "fetch the assisted wallets from the server and cache them",
		Action: walletsSyncAction,
	}
	walletsListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list the cached assisted wallets",
		Action: walletsListAction,
	}
	walletsGetCmd = &cli.Command{
		Name:   "get",
		Usage:  "get a cached assisted wallet",
		Flags:  []cli.Flag{walletIDFlag},
		Action: walletsGetAction,
	}
	walletsSetAirgapCmd = &cli.Command{
		Name:   "set-airgap",
		Usage:  "flag the wallet as registered on an airgapped device",
		Flags:  []cli.Flag{walletIDFlag, registeredFlag},
		Action: walletsSetAirgapAction,
	}
	walletsSetColdcardCmd = &cli.Command{
		Name:   "set-coldcard",
		Usage:  "flag the wallet as registered on a COLDCARD",
		Flags:  []cli.Flag{walletIDFlag, registeredFlag},
		Action: walletsSetColdcardAction,
	}
)

func walletsSyncAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	wallets, err := svc.SyncAssistedWallets(ctx.Context)
	if err != nil {
		return err
	}

	printRespJSON(wallets)
	return nil
}

func walletsListAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	wallets, err := svc.ListAssistedWallets(ctx.Context)
	if err != nil {
		return err
	}

	printRespJSON(wallets)
	return nil
}

func walletsGetAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	wallet, err := svc.GetAssistedWallet(ctx.Context, ctx.String(walletIDFlag.Name))
	if err != nil {
		return err
	}

	printRespJSON(wallet)
	return nil
}

func walletsSetAirgapAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	wallet, err := svc.SetRegisterAirgap(
		ctx.Context, ctx.String(walletIDFlag.Name), ctx.Bool(registeredFlag.Name),
	)
	if err != nil {
		return err
	}

	printRespJSON(wallet)
	return nil
}

func walletsSetColdcardAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	wallet, err := svc.SetRegisterColdcard(
		ctx.Context, ctx.String(walletIDFlag.Name), ctx.Bool(registeredFlag.Name),
	)
	if err != nil {
		return err
	}

	printRespJSON(wallet)
	return nil
}
