// internal/entropysrc/entropysrc_test.go
package entropysrc

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/entropy-complex/internal/mubi"
	"github.com/tamzrod/entropy-complex/internal/registers"
)

const testBase = 0x41160000

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// continuousConfig mirrors the runtime profile's entropy source entry.
func continuousConfig() Config {
	return Config{
		FIPSEnable:         mubi.True4,
		RouteToFirmware:    mubi.False4,
		BypassConditioner:  mubi.False4,
		SingleBitMode:      mubi.False4,
		FIPSTestWindowSize: 0x200,
		AlertThreshold:     2,
		RepcntThreshold:    0xffff,
		RepcntsThreshold:   0xffff,
		AdaptpHiThreshold:  0xffff,
		AdaptpLoThreshold:  0x0,
		BucketThreshold:    0xffff,
		MarkovHiThreshold:  0xffff,
		MarkovLoThreshold:  0x0,
		ExthtHiThreshold:   0xffff,
		ExthtLoThreshold:   0x0,
	}
}

func newTestDevice() (*Device, *registers.Sim) {
	sim := registers.NewSim()
	return New(sim, testBase, testLogger()), sim
}

func TestConfigureRejectsConditionerBypass(t *testing.T) {
	d, sim := newTestDevice()

	for _, bypass := range []mubi.Bool4{mubi.True4, 0x5} {
		cfg := continuousConfig()
		cfg.BypassConditioner = bypass
		err := d.Configure(&cfg)
		assert.ErrorIs(t, err, registers.ErrBadArgs)
	}
	assert.Zero(t, sim.WriteCount(), "rejected config must not touch hardware")
}

func TestConfigureProgramsRegisters(t *testing.T) {
	d, sim := newTestDevice()
	cfg := continuousConfig()
	cfg.FIPSTestWindowSize = 0x400

	require.NoError(t, d.Configure(&cfg))

	assert.Equal(t, uint32(0x99), sim.Value(testBase+regEntropyControl))
	assert.Equal(t, uint32(0x909096), sim.Value(testBase+regConf))
	// FIPS window programmed, bypass window left at reset.
	assert.Equal(t, uint32(0x600400), sim.Value(testBase+regHealthTestWindows))
	// Threshold and its bitwise inverse.
	assert.Equal(t, uint32(0xfffd0002), sim.Value(testBase+regAlertThreshold))
	// FIPS threshold field programmed, bypass field left at reset.
	assert.Equal(t, uint32(0xffffffff), sim.Value(testBase+regRepcntThresholds))
	assert.Equal(t, uint32(0xffff0000), sim.Value(testBase+regAdaptpLoThresholds))
	assert.Equal(t, uint32(0xffff0000), sim.Value(testBase+regMarkovLoThresholds))
	// Module enable asserted last.
	last := sim.Writes()[sim.WriteCount()-1]
	assert.Equal(t, uint32(testBase+regModuleEnable), last.Addr)
	assert.Equal(t, uint32(mubi.True4), last.Val)
}

func TestCheckAfterConfigure(t *testing.T) {
	d, _ := newTestDevice()
	cfg := continuousConfig()

	require.NoError(t, d.Configure(&cfg))
	assert.NoError(t, d.Check(&cfg))
}

func TestCheckRejectsUnsupportedModes(t *testing.T) {
	d, _ := newTestDevice()

	for _, mutate := range []func(*Config){
		func(c *Config) { c.FIPSEnable = mubi.False4 },
		func(c *Config) { c.BypassConditioner = mubi.True4 },
		func(c *Config) { c.RouteToFirmware = mubi.True4 },
	} {
		cfg := continuousConfig()
		mutate(&cfg)
		assert.ErrorIs(t, d.Check(&cfg), registers.ErrBadArgs)
	}
}

func TestCheckDetectsDrift(t *testing.T) {
	d, sim := newTestDevice()
	cfg := continuousConfig()
	require.NoError(t, d.Configure(&cfg))

	drifts := []struct {
		name   string
		offset uint32
		val    uint32
	}{
		{"module disabled", regModuleEnable, moduleEnableResval},
		{"threshold cleared", regBucketThresholds, 0},
		{"window changed", regHealthTestWindows, 0x600100},
		{"alert inverse corrupted", regAlertThreshold, 0x00020002},
		{"routing changed", regEntropyControl, 0x96},
	}
	for _, tc := range drifts {
		t.Run(tc.name, func(t *testing.T) {
			saved := sim.Value(testBase + tc.offset)
			sim.Seed(testBase+tc.offset, tc.val)
			assert.ErrorIs(t, d.Check(&cfg), registers.ErrRecoverable)
			sim.Seed(testBase+tc.offset, saved)
		})
	}

	// Restored image attests clean again.
	assert.NoError(t, d.Check(&cfg))
}

func TestStopRestoresResetValues(t *testing.T) {
	d, sim := newTestDevice()
	cfg := continuousConfig()
	require.NoError(t, d.Configure(&cfg))
	before := sim.WriteCount()

	require.NoError(t, d.Stop())

	want := []registers.Write{
		{Addr: testBase + regModuleEnable, Val: moduleEnableResval},
		{Addr: testBase + regEntropyControl, Val: entropyControlResval},
		{Addr: testBase + regConf, Val: confResval},
		{Addr: testBase + regHealthTestWindows, Val: healthTestWindowsResval},
		{Addr: testBase + regAlertThreshold, Val: alertThresholdResval},
	}
	assert.Equal(t, want, sim.Writes()[before:])
}
