package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	key = cli.Command{
		Name:  "key",
		Usage: "manage the keys added by the provisioning steps",
		Subcommands: []*cli.Command{
			keyRemoveCmd,
		},
	}

	keyRemoveCmd = &cli.Command{
		Name: "remove",
		Usage: "remove a key from the local registry along with the steps " +
			"that added it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "xfp",
				Usage:    "the master fingerprint of the key",
				Required: true,
			},
		},
		Action: keyRemoveAction,
	}
)

func keyRemoveAction(ctx *cli.Context) error {
	xfp := ctx.String("xfp")

	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.RemoveKey(ctx.Context, xfp); err != nil {
		return err
	}

	fmt.Printf("key %s removed\n", xfp)
	return nil
}
