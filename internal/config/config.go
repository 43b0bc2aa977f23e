package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"

	"github.com/keyguard-network/keyguard-daemon/internal/core/application"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

const (
	// DatadirKey is the local data directory to store the internal state of the daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// ServerURLKey is the base url of the assisted wallet policy server
	ServerURLKey = "SERVER_URL"
	// ServerTimeoutKey are the milliseconds to wait for HTTP responses before timeouts
	ServerTimeoutKey = "SERVER_TIMEOUT"
	// RequestsPerSecondKey caps the requests made to the policy server. 0 means unlimited
	RequestsPerSecondKey = "REQUESTS_PER_SECOND"
	// AccessTokenKey is the bearer token of the signed in user
	AccessTokenKey = "ACCESS_TOKEN"
	// NetworkKey is the bitcoin network, one of mainnet, testnet, regtest, signet
	NetworkKey = "NETWORK"
	// RetryNumKey is the max number of retries of a failed server call
	RetryNumKey = "RETRY_NUM"
	// RetryDelayKey are the milliseconds to wait before the first retry
	RetryDelayKey = "RETRY_DELAY"
	// RetryDelayFactorKey multiplies the delay after every retry
	RetryDelayFactorKey = "RETRY_DELAY_FACTOR"
	// ReconcileConcurrencyKey bounds the signers reconciled in parallel
	ReconcileConcurrencyKey = "RECONCILE_CONCURRENCY"
	// EnableStatsKey makes the CLI dump the prometheus counters to the datadir
	EnableStatsKey = "ENABLE_STATS"

	DbLocation       = "db"
	SignersLocation  = "signers"
	StatsLocation    = "stats"
	MetricsFileName  = "metrics.txt"
	defaultNetwork   = "mainnet"
	minServerTimeout = 1000
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("keyguard-daemon", false)

var networks = map[string]*chaincfg.Params{
	"mainnet": &chaincfg.MainNetParams,
	"testnet": &chaincfg.TestNet3Params,
	"regtest": &chaincfg.RegressionNetParams,
	"signet":  &chaincfg.SigNetParams,
}

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("KEYGUARD")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(ServerURLKey, "https://api.keyguard.network")
	vip.SetDefault(ServerTimeoutKey, 15000)
	vip.SetDefault(RequestsPerSecondKey, 10)
	vip.SetDefault(NetworkKey, defaultNetwork)
	vip.SetDefault(RetryNumKey, retry.DefaultNumRetries)
	vip.SetDefault(RetryDelayKey, retry.DefaultDelay.Milliseconds())
	vip.SetDefault(RetryDelayFactorKey, retry.DefaultDelayFactor)
	vip.SetDefault(ReconcileConcurrencyKey, 4)
	vip.SetDefault(EnableStatsKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func GetNetwork() *chaincfg.Params {
	return networks[strings.ToLower(GetString(NetworkKey))]
}

func GetServerTimeout() time.Duration {
	return time.Duration(GetInt(ServerTimeoutKey)) * time.Millisecond
}

// GetIORetryPolicy returns the policy used for the calls to the policy
// server, bounded by the configured retry settings.
func GetIORetryPolicy() retry.Policy {
	return retry.IOPolicy().WithBackoff(
		GetInt(RetryNumKey),
		time.Duration(GetInt(RetryDelayKey))*time.Millisecond,
		GetFloat(RetryDelayFactorKey),
	)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetSignersDir() string {
	return filepath.Join(GetDatadir(), SignersLocation)
}

func GetMetricsPath() string {
	return filepath.Join(GetDatadir(), StatsLocation, MetricsFileName)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("db type %s not supported", dbType)
	}

	serverURL := GetString(ServerURLKey)
	if u, err := url.Parse(serverURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server url is not a valid url: %s", serverURL)
	}
	if GetInt(ServerTimeoutKey) < minServerTimeout {
		return fmt.Errorf(
			"%s must be equal or greater than %d", ServerTimeoutKey, minServerTimeout,
		)
	}
	if GetInt(RequestsPerSecondKey) < 0 {
		return fmt.Errorf("%s must not be negative", RequestsPerSecondKey)
	}

	if GetNetwork() == nil {
		return fmt.Errorf(
			"network must be one of mainnet, testnet, regtest, signet, got %s",
			GetString(NetworkKey),
		)
	}

	if GetInt(RetryNumKey) < 0 {
		return fmt.Errorf("%s must not be negative", RetryNumKey)
	}
	if GetInt(RetryDelayKey) < 0 {
		return fmt.Errorf("%s must not be negative", RetryDelayKey)
	}
	if GetFloat(RetryDelayFactorKey) < 1 {
		return fmt.Errorf("%s must be equal or greater than 1", RetryDelayFactorKey)
	}
	if GetInt(ReconcileConcurrencyKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", ReconcileConcurrencyKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if GetString(DBTypeKey) == application.DBBadger {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, SignersLocation)); err != nil {
		return err
	}

	if GetBool(EnableStatsKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, StatsLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
