// Package config loads node settings from a YAML file, overlays ARENA_*
// environment variables and validates the result.
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"okinoko-faction_arena/contract"
	"okinoko-faction_arena/internal/router"
	"okinoko-faction_arena/internal/units"
	"okinoko-faction_arena/internal/vault"
	"okinoko-faction_arena/sdk"
)

// Config is everything the node needs to host the arena.
type Config struct {
	DataDir     string `yaml:"data_dir" env:"ARENA_DATA_DIR"`
	JournalPath string `yaml:"journal_path" env:"ARENA_JOURNAL_PATH"`
	// MetricsAddr is where the unauthenticated node API listens.
	MetricsAddr string `yaml:"metrics_addr" env:"ARENA_METRICS_ADDR"`
	// CycleSchedule is a standard cron expression for the epoch keeper.
	CycleSchedule string `yaml:"cycle_schedule" env:"ARENA_CYCLE_SCHEDULE"`
	LogLevel      string `yaml:"log_level" env:"ARENA_LOG_LEVEL"`

	Addresses Addresses `yaml:"addresses"`
	Genesis   Genesis   `yaml:"genesis"`
}

// Addresses of the contracts and service accounts the node hosts.
type Addresses struct {
	Arena  sdk.Address `yaml:"arena" env:"ARENA_ADDR_ARENA"`
	Vault  sdk.Address `yaml:"vault" env:"ARENA_ADDR_VAULT"`
	Router sdk.Address `yaml:"router" env:"ARENA_ADDR_ROUTER"`
	InARow sdk.Address `yaml:"inarow" env:"ARENA_ADDR_INAROW"`
	// Faucet may mint test tokens.
	Faucet sdk.Address `yaml:"faucet" env:"ARENA_ADDR_FAUCET"`
	// Keeper signs the scheduled e_cycle calls.
	Keeper sdk.Address `yaml:"keeper" env:"ARENA_ADDR_KEEPER"`
}

// Genesis seeds an empty ledger. Amounts are human readable.
type Genesis struct {
	Admin             sdk.Address   `yaml:"admin" env:"ARENA_ADMIN"`
	RewardToken       sdk.Asset     `yaml:"reward_token" env:"ARENA_REWARD_TOKEN"`
	YieldToken        sdk.Asset     `yaml:"yield_token" env:"ARENA_YIELD_TOKEN"`
	EpochDuration     time.Duration `yaml:"epoch_duration" env:"ARENA_EPOCH_DURATION"`
	DevShareBps       uint32        `yaml:"dev_share_bps" env:"ARENA_DEV_SHARE_BPS"`
	FreeFPPerEpoch    string        `yaml:"free_fp_per_epoch" env:"ARENA_FREE_FP_PER_EPOCH"`
	MinDepositToClaim string        `yaml:"min_deposit_to_claim" env:"ARENA_MIN_DEPOSIT_TO_CLAIM"`
	ReserveIDs        []uint32      `yaml:"reserve_ids" env:"ARENA_RESERVE_IDS" envSeparator:","`
	SwapSlippageBps   uint32        `yaml:"swap_slippage_bps" env:"ARENA_SWAP_SLIPPAGE_BPS"`
	SwapDeadline      time.Duration `yaml:"swap_deadline" env:"ARENA_SWAP_DEADLINE"`

	// RouterLiquidity of the reward token is minted to the router.
	RouterLiquidity string        `yaml:"router_liquidity"`
	Pairs           []router.Pair `yaml:"pairs"`
	// InARowDeveloper receives the dev share of the in-a-row game.
	InARowDeveloper sdk.Address `yaml:"inarow_developer"`
}

// Default returns a single-node development setup.
func Default() Config {
	return Config{
		DataDir:       "data/ledger",
		JournalPath:   "data/journal.db",
		MetricsAddr:   "127.0.0.1:9464",
		CycleSchedule: "*/5 * * * *",
		LogLevel:      "info",
		Addresses: Addresses{
			Arena:  "contract:arena",
			Vault:  "contract:vault",
			Router: "contract:router",
			InARow: "contract:inarow",
			Faucet: "hive:faucet",
			Keeper: "hive:keeper",
		},
		Genesis: Genesis{
			Admin:             "hive:admin",
			RewardToken:       "usdc",
			YieldToken:        "blnd",
			EpochDuration:     7 * 24 * time.Hour,
			DevShareBps:       1000,
			FreeFPPerEpoch:    "100",
			MinDepositToClaim: "1",
			ReserveIDs:        []uint32{0},
			SwapSlippageBps:   100,
			SwapDeadline:      5 * time.Minute,
			RouterLiquidity:   "1000000",
			Pairs:             []router.Pair{{From: "blnd", To: "usdc", Num: 1, Den: 2, FeeBps: 30}},
			InARowDeveloper:   "hive:inarow-dev",
		},
	}
}

// Load reads path (skipped when empty) over the defaults, then applies the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse %s", path)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.DataDir == "" {
		result = multierror.Append(result, errors.New("data_dir is required"))
	}
	if c.JournalPath == "" {
		result = multierror.Append(result, errors.New("journal_path is required"))
	}
	if c.CycleSchedule != "" {
		if _, err := cron.ParseStandard(c.CycleSchedule); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "cycle_schedule"))
		}
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "log_level"))
	}
	a := c.Addresses
	seen := map[sdk.Address]string{}
	for name, addr := range map[string]sdk.Address{
		"arena": a.Arena, "vault": a.Vault, "router": a.Router,
		"inarow": a.InARow, "faucet": a.Faucet, "keeper": a.Keeper,
	} {
		if addr == "" {
			result = multierror.Append(result, errors.Errorf("addresses.%s is required", name))
			continue
		}
		if other, dup := seen[addr]; dup {
			result = multierror.Append(result, errors.Errorf("addresses.%s and addresses.%s are both %s", name, other, addr))
		}
		seen[addr] = name
	}
	if _, err := units.ParseAmount(c.Genesis.RouterLiquidity); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "genesis.router_liquidity"))
	}
	if c.Genesis.InARowDeveloper == "" {
		result = multierror.Append(result, errors.New("genesis.inarow_developer is required"))
	}
	if _, err := c.ContractConfig(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// ContractConfig converts the genesis section into the arena's config.
func (c Config) ContractConfig() (contract.Config, error) {
	g := c.Genesis
	free, err := units.ParseAmount(g.FreeFPPerEpoch)
	if err != nil {
		return contract.Config{}, errors.Wrap(err, "genesis.free_fp_per_epoch")
	}
	minDeposit, err := units.ParseAmount(g.MinDepositToClaim)
	if err != nil {
		return contract.Config{}, errors.Wrap(err, "genesis.min_deposit_to_claim")
	}
	cfg := contract.Config{
		Admin:             g.Admin,
		Vault:             c.Addresses.Vault,
		Router:            c.Addresses.Router,
		RewardToken:       g.RewardToken,
		YieldToken:        g.YieldToken,
		EpochDuration:     uint64(g.EpochDuration / time.Second),
		DevShareBps:       g.DevShareBps,
		FreeFPPerEpoch:    free,
		MinDepositToClaim: minDeposit,
		ReserveIDs:        g.ReserveIDs,
		SwapSlippageBps:   g.SwapSlippageBps,
		SwapDeadline:      uint64(g.SwapDeadline / time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return contract.Config{}, errors.Wrap(err, "genesis")
	}
	return cfg, nil
}

// VaultConfig describes the simulated vault. The arena funds deposits.
func (c Config) VaultConfig() vault.Config {
	return vault.Config{
		Address:    c.Addresses.Vault,
		Underlying: c.Genesis.RewardToken,
		Emission:   c.Genesis.YieldToken,
		Funder:     c.Addresses.Arena,
		Admin:      c.Genesis.Admin,
		Reserves:   c.Genesis.ReserveIDs,
	}
}

func (c Config) RouterConfig() router.Config {
	return router.Config{Address: c.Addresses.Router, Pairs: c.Genesis.Pairs}
}

// Logger builds a production zap logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	return zc.Build()
}
