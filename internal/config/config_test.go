// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u16(v uint16) *uint16 { return &v }
func u32(v uint32) *uint32 { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "empty overlay",
			cfg:  Config{},
		},
		{
			name: "full overlay",
			cfg: Config{Entropy: Overrides{
				Source: &SourceOverrides{
					FIPSWindowSize: u16(0x400),
					AlertThreshold: u16(4),
					Thresholds: &ThresholdOverrides{
						AdaptpHi: u16(600),
						AdaptpLo: u16(100),
					},
				},
				EDN0: &EDNOverrides{ReseedInterval: u32(64), GenerateBlocks: u32(8)},
				EDN1: &EDNOverrides{ReseedInterval: u32(4), GenerateBlocks: u32(1)},
			}},
		},
		{
			name: "zero window",
			cfg: Config{Entropy: Overrides{
				Source: &SourceOverrides{FIPSWindowSize: u16(0)},
			}},
			wantErr: true,
		},
		{
			name: "high threshold below low",
			cfg: Config{Entropy: Overrides{
				Source: &SourceOverrides{Thresholds: &ThresholdOverrides{
					MarkovHi: u16(10),
					MarkovLo: u16(20),
				}},
			}},
			wantErr: true,
		},
		{
			name: "zero reseed interval",
			cfg: Config{Entropy: Overrides{
				EDN1: &EDNOverrides{ReseedInterval: u32(0)},
			}},
			wantErr: true,
		},
		{
			name: "generate blocks over protocol cap",
			cfg: Config{Entropy: Overrides{
				EDN0: &EDNOverrides{GenerateBlocks: u32(0x801)},
			}},
			wantErr: true,
		},
		{
			name: "zero generate blocks",
			cfg: Config{Entropy: Overrides{
				EDN0: &EDNOverrides{GenerateBlocks: u32(0)},
			}},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(&tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	raw := `
entropy:
  source:
    fips_window_size: 1024
    alert_threshold: 4
    thresholds:
      repcnt: 512
      markov_hi: 600
      markov_lo: 100
  edn0:
    reseed_interval: 64
    generate_blocks: 8
`
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	src := cfg.Entropy.Source
	require.NotNil(t, src)
	assert.Equal(t, uint16(1024), *src.FIPSWindowSize)
	assert.Equal(t, uint16(4), *src.AlertThreshold)
	require.NotNil(t, src.Thresholds)
	assert.Equal(t, uint16(512), *src.Thresholds.Repcnt)
	assert.Nil(t, src.Thresholds.Bucket)

	require.NotNil(t, cfg.Entropy.EDN0)
	assert.Equal(t, uint32(64), *cfg.Entropy.EDN0.ReseedInterval)
	assert.Nil(t, cfg.Entropy.EDN1)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entropy: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
