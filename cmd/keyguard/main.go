package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/keyguard-network/keyguard-daemon/internal/config"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	assistedserver "github.com/keyguard-network/keyguard-daemon/internal/infrastructure/assisted-server"
	signerregistry "github.com/keyguard-network/keyguard-daemon/internal/infrastructure/signer-registry"
	"github.com/keyguard-network/keyguard-daemon/pkg/stats"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "keyguard"
	app.Usage = "Command line interface for assisted wallet memberships"
	app.Before = func(*cli.Context) error {
		if err := config.InitConfig(); err != nil {
			return err
		}
		log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
		return nil
	}
	app.Commands = append(
		app.Commands,
		&subscription,
		&steps,
		&key,
		&wallets,
		&replacement,
		&recurring,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

// getMembershipService wires the membership service on the configured
// datadir, network and policy server. The returned func releases the local
// stores and must be called once done.
func getMembershipService() (application.MembershipService, func(), error) {
	session := domain.NewSession()
	if err := session.Init(config.GetString(config.AccessTokenKey)); err != nil {
		return nil, nil, fmt.Errorf(
			"invalid access token, set a valid one with KEYGUARD_%s: %w",
			config.AccessTokenKey, err,
		)
	}

	registry, err := signerregistry.NewRegistry(
		config.GetSignersDir(), log.StandardLogger(),
	)
	if err != nil {
		return nil, nil, err
	}

	server, err := assistedserver.NewClient(assistedserver.Config{
		URL:               config.GetString(config.ServerURLKey),
		Timeout:           config.GetServerTimeout(),
		RequestsPerSecond: config.GetInt(config.RequestsPerSecondKey),
		Session:           session,
	})
	if err != nil {
		registry.Close()
		return nil, nil, err
	}

	appConfig := &application.Config{
		DBType:               config.GetString(config.DBTypeKey),
		DBConfig:             config.GetDbDir(),
		Network:              config.GetNetwork(),
		Session:              session,
		AssistedServer:       server,
		Engine:               registry,
		IORetryPolicy:        config.GetIORetryPolicy(),
		ReconcileConcurrency: config.GetInt(config.ReconcileConcurrencyKey),
	}
	if err := appConfig.Validate(); err != nil {
		registry.Close()
		return nil, nil, err
	}

	cleanup := func() {
		appConfig.RepoManager().Close()
		registry.Close()

		if config.GetBool(config.EnableStatsKey) {
			if err := stats.DumpMetrics(config.GetMetricsPath()); err != nil {
				log.WithError(err).Warn("failed to dump metrics")
			}
		}
	}

	return appConfig.MembershipService(), cleanup, nil
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[keyguard] %v\n", err)
	}
	os.Exit(1)
}
