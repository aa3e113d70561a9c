package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko-faction_arena/contract"
	"okinoko-faction_arena/sdk"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().DataDir, cfg.DataDir)
	assert.Equal(t, "127.0.0.1:9464", cfg.MetricsAddr, "the node API stays on loopback")

	cc, err := cfg.ContractConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(7*24*3600), cc.EpochDuration)
	assert.Equal(t, int64(1_000_000_000), cc.FreeFPPerEpoch)
	assert.Equal(t, int64(10_000_000), cc.MinDepositToClaim)
	assert.Equal(t, uint64(300), cc.SwapDeadline)
	assert.Equal(t, sdk.Address("contract:vault"), cc.Vault)
	assert.Equal(t, cfg.Addresses.Arena, cfg.VaultConfig().Funder)
	assert.Len(t, cfg.RouterConfig().Pairs, 1)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeFile(t, `
data_dir: /var/lib/arena
log_level: debug
genesis:
  epoch_duration: 24h
  dev_share_bps: 500
  free_fp_per_epoch: "12.5"
  pairs:
    - {from: blnd, to: usdc, num: 3, den: 1, fee_bps: 0}
`)
	t.Setenv("ARENA_DATA_DIR", "/srv/arena")
	t.Setenv("ARENA_RESERVE_IDS", "0,2")
	t.Setenv("ARENA_SWAP_DEADLINE", "90s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/arena", cfg.DataDir, "env wins over the file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.Genesis.EpochDuration)
	assert.Equal(t, []uint32{0, 2}, cfg.Genesis.ReserveIDs)
	assert.Equal(t, uint64(3), cfg.Genesis.Pairs[0].Num)
	assert.Equal(t, "hive:admin", string(cfg.Genesis.Admin), "unset keys keep defaults")

	cc, err := cfg.ContractConfig()
	require.NoError(t, err)
	assert.Equal(t, uint32(500), cc.DevShareBps)
	assert.Equal(t, int64(125_000_000), cc.FreeFPPerEpoch)
	assert.Equal(t, uint64(90), cc.SwapDeadline)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "data_dirr: x\n"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.DataDir = ""
	cfg.CycleSchedule = "every tuesday"
	cfg.LogLevel = "loud"
	cfg.Addresses.Router = cfg.Addresses.Vault
	cfg.Genesis.DevShareBps = 20_000

	err := cfg.Validate()
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 5)
	assert.ErrorIs(t, err, contract.ErrInvalidConfig)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	log, err := cfg.Logger()
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))
	cfg.LogLevel = "nope"
	_, err = cfg.Logger()
	assert.Error(t, err)
}
