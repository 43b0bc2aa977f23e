package main

import (
	"github.com/urfave/cli/v2"
)

var subscription = cli.Command{
	Name:   "subscription",
	Usage:  "get the current membership subscription from the server",
	Action: subscriptionAction,
}

func subscriptionAction(ctx *cli.Context) error {
	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	sub, err := svc.GetSubscription(ctx.Context)
	if err != nil {
		return err
	}

	printRespJSON(sub)
	return nil
}
