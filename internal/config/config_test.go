package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/fivedraw/internal/bot"
	"github.com/lox/fivedraw/internal/fileutil"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, game.DefaultRules(), cfg.Rules())

	pacing, err := cfg.PacingDelays()
	require.NoError(t, err)
	assert.Equal(t, table.DefaultPacing(), pacing)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "absent.hcl"), filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, game.DefaultAnte, cfg.Table.Ante)
	assert.Equal(t, 0, cfg.Table.MaxRaises, "raises are uncapped by default")
	assert.Equal(t, bot.Default, cfg.Computer.Policy)
}

func TestLoadPartialFile(t *testing.T) {
	path := writeFile(t, "fivedraw.hcl", `
table {
  ante           = 50
  max_raises     = 3
  symmetric_ante = true
}

computer {
  policy = "rank"
}

pacing {
  computer_bet = "1s"
}
`)
	cfg := Default()
	require.NoError(t, cfg.loadFile(path))

	assert.Equal(t, 50, cfg.Table.Ante)
	assert.Equal(t, 3, cfg.Table.MaxRaises, "opt-in raise cap")
	assert.True(t, cfg.Table.SymmetricAnte)
	assert.Equal(t, game.DefaultRaiseIncrement, cfg.Table.RaiseIncrement)
	assert.Equal(t, "rank", cfg.Computer.Policy)
	assert.Equal(t, game.DefaultComputerName, cfg.Computer.Name)
	assert.Equal(t, game.DefaultHumanName, cfg.Human.Name)

	pacing, err := cfg.PacingDelays()
	require.NoError(t, err)
	assert.Equal(t, time.Second, pacing.ComputerBet)
	assert.Equal(t, 2*time.Second, pacing.Ante)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadHCL(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `table {`},
		{"unknown attribute", "table {\n  blinds = 2\n}\n"},
		{"wrong type", "table {\n  ante = \"lots\"\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.hcl", tt.content)
			_, err := Load(path, "")
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvSeed:          "42",
		EnvPolicy:        "maniac",
		EnvLogLevel:      "debug",
		EnvAnte:          "25",
		EnvSymmetricAnte: "true",
		EnvAddress:       ":9000",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, int64(42), cfg.Table.Seed)
	assert.Equal(t, "maniac", cfg.Computer.Policy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 25, cfg.Table.Ante)
	assert.True(t, cfg.Table.SymmetricAnte)
	assert.Equal(t, ":9000", cfg.Server.Address)

	bad := Default()
	err := bad.ApplyEnv(func(k string) (string, bool) {
		if k == EnvSeed {
			return "soon", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestLoadEnvFileOverridesFile(t *testing.T) {
	path := writeFile(t, "fivedraw.hcl", "computer {\n  policy = \"rank\"\n}\n")
	envFile := writeFile(t, ".env", EnvPolicy+"=random\n")
	t.Cleanup(func() { os.Unsetenv(EnvPolicy) })

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, "random", cfg.Computer.Policy)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero ante", func(c *Config) { c.Table.Ante = 0 }},
		{"stack below ante", func(c *Config) { c.Human.Stack = 5 }},
		{"unknown policy", func(c *Config) { c.Computer.Policy = "shark" }},
		{"bad duration", func(c *Config) { c.Pacing.Deal = "soon" }},
		{"negative duration", func(c *Config) { c.Pacing.Result = "-1s" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"empty address", func(c *Config) { c.Server.Address = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, WriteDefault(path, false))

	cfg := Default()
	require.NoError(t, cfg.loadFile(path))
	require.NoError(t, cfg.ApplyEnv(noEnv))
	assert.Equal(t, Default(), cfg)

	err := WriteDefault(path, false)
	assert.ErrorIs(t, err, fileutil.ErrExists)
	assert.NoError(t, WriteDefault(path, true))
}

func TestEncodeMentionsEveryBlock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Encode(&buf))
	for _, block := range []string{"table {", "human {", "computer {", "pacing {", "log {", "server {"} {
		assert.Contains(t, buf.String(), block)
	}
}
