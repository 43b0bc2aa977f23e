package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
)

var (
	planFlag = &cli.StringFlag{
		Name:     "plan",
		Usage:    "the membership plan, ie. iron_hand or HONEY_BADGER",
		Required: true,
	}
	stepFlag = &cli.StringFlag{
		Name:     "step",
		Usage:    "the provisioning step, ie. IRON_ADD_HARDWARE_KEY_1",
		Required: true,
	}
	signerFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  "xfp",
			Usage: "the master fingerprint of the key added by the step",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "the name of the key",
		},
		&cli.StringFlag{
			Name:  "xpub",
			Usage: "the extended public key of the key",
		},
		&cli.StringFlag{
			Name:  "pubkey",
			Usage: "the public key of the key, for single key signers",
		},
		&cli.StringFlag{
			Name:  "derivation_path",
			Usage: "the derivation path of the xpub",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "the signer type, ie. HARDWARE, AIRGAP, NFC",
			Value: domain.SignerTypeHardware.String(),
		},
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "a tag of the signer, ie. COLDCARD. Can be repeated",
		},
		&cli.StringFlag{
			Name:  "card_id",
			Usage: "the id of the TAPSIGNER card backing the key",
		},
		&cli.StringFlag{
			Name:  "card_version",
			Usage: "the version of the TAPSIGNER card",
		},
		&cli.IntFlag{
			Name:  "card_birth_height",
			Usage: "the block height at which the TAPSIGNER card was set up",
		},
	}

	steps = cli.Command{
		Name:  "steps",
		Usage: "show and advance the provisioning progress of a plan",
		Subcommands: []*cli.Command{
			stepsListCmd, stepsWatchCmd, stepsCompleteCmd, stepsVerifyCmd,
			stepsRestartCmd,
		},
	}

	stepsListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list the recorded steps of a plan",
		Flags:  []cli.Flag{planFlag},
		Action: stepsListAction,
	}
	stepsWatchCmd = &cli.Command{
		Name:   "watch",
		Usage:  "print the steps of a plan every time they change",
		Flags:  []cli.Flag{planFlag},
		Action: stepsWatchAction,
	}
	stepsCompleteCmd = &cli.Command{
		Name: "complete",
		Usage: "mark a step as completed. For steps adding a key, the key is " +
			"registered locally and uploaded to the server",
		Flags:  append([]cli.Flag{planFlag, stepFlag}, signerFlags...),
		Action: stepsCompleteAction,
	}
	stepsVerifyCmd = &cli.Command{
		Name:  "verify",
		Usage: "report the verification of the key of a step",
		Flags: []cli.Flag{
			planFlag, stepFlag,
			&cli.StringFlag{
				Name:  "verification_type",
				Usage: "one of SELF_CHECKED, APP_KEYED, SKIPPED",
				Value: "SELF_CHECKED",
			},
			&cli.StringFlag{
				Name:  "checksum",
				Usage: "the checksum of the verified backup, if any",
			},
		},
		Action: stepsVerifyAction,
	}
	stepsRestartCmd = &cli.Command{
		Name: "restart",
		Usage: "restart a plan from scratch, removing its keys and its " +
			"recorded steps",
		Flags:  []cli.Flag{planFlag},
		Action: stepsRestartAction,
	}
)

func stepsListAction(ctx *cli.Context) error {
	plan, err := parsePlan(ctx.String(planFlag.Name))
	if err != nil {
		return err
	}

	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	progress, err := svc.GetProgress(ctx.Context, plan)
	if err != nil {
		return err
	}

	printRespJSON(progress)
	return nil
}

func stepsWatchAction(ctx *cli.Context) error {
	plan, err := parsePlan(ctx.String(planFlag.Name))
	if err != nil {
		return err
	}

	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	watchCtx, stop := signal.NotifyContext(
		ctx.Context, os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	progress, err := svc.WatchProgress(watchCtx, plan)
	if err != nil {
		return err
	}
	for snapshot := range progress {
		printRespJSON(snapshot)
	}
	return nil
}

func stepsCompleteAction(ctx *cli.Context) error {
	plan, err := parsePlan(ctx.String(planFlag.Name))
	if err != nil {
		return err
	}
	step := domain.MembershipStep{
		Plan: plan,
		Step: domain.Step(strings.ToUpper(ctx.String(stepFlag.Name))),
	}
	signer := parseSigner(ctx)
	if step.Step.IsAddKey() && signer == nil {
		return fmt.Errorf("step %s adds a key, missing --xfp", step.Step)
	}

	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	saved, err := svc.CompleteStep(ctx.Context, step, signer)
	if err != nil {
		return err
	}

	printRespJSON(saved)
	return nil
}

func stepsVerifyAction(ctx *cli.Context) error {
	plan, err := parsePlan(ctx.String(planFlag.Name))
	if err != nil {
		return err
	}
	step := domain.Step(strings.ToUpper(ctx.String(stepFlag.Name)))
	verification := ports.KeyVerification{
		VerificationType: strings.ToUpper(ctx.String("verification_type")),
		Checksum:         ctx.String("checksum"),
	}

	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	verified, err := svc.VerifyStep(ctx.Context, plan, step, verification)
	if err != nil {
		return err
	}

	printRespJSON(verified)
	return nil
}

func stepsRestartAction(ctx *cli.Context) error {
	plan, err := parsePlan(ctx.String(planFlag.Name))
	if err != nil {
		return err
	}

	svc, cleanup, err := getMembershipService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.RestartPlan(ctx.Context, plan); err != nil {
		return err
	}

	fmt.Printf("plan %s restarted\n", plan)
	return nil
}

func parsePlan(str string) (domain.MembershipPlan, error) {
	plan := domain.ParseMembershipPlan(str)
	if plan == domain.NonePlan {
		return plan, fmt.Errorf("%w: %s", domain.ErrUnknownPlan, str)
	}
	return plan, nil
}

// parseSigner returns nil if no key is given with the command flags.
func parseSigner(ctx *cli.Context) *domain.SignerServer {
	xfp := ctx.String("xfp")
	if xfp == "" {
		return nil
	}

	signer := &domain.SignerServer{
		Name:           ctx.String("name"),
		Xfp:            strings.ToLower(xfp),
		DerivationPath: ctx.String("derivation_path"),
		Type:           strings.ToUpper(ctx.String("type")),
		Tags:           ctx.StringSlice("tag"),
		Xpub:           ctx.String("xpub"),
		Pubkey:         ctx.String("pubkey"),
	}
	if cardID := ctx.String("card_id"); cardID != "" {
		signer.Tapsigner = &domain.TapsignerMeta{
			CardID:      cardID,
			Version:     ctx.String("card_version"),
			BirthHeight: ctx.Int("card_birth_height"),
		}
	}
	return signer
}
