package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/rigado/bleiso/lctr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestParseScenarioDefaults(t *testing.T) {
	sc, err := parseScenario([]byte(`
steps:
  - request: {cig: 1, cis: 1}
  - indication: {offset_usec: 1000}
  - terminate: {cis_handle: 256}
`))
	require.NoError(t, err)

	assert.Equal(t, uint16(64), sc.Connection.Handle)
	assert.Equal(t, uint32(7500), sc.Connection.IntervalUsec)

	req := sc.Steps[0].Request.request()
	assert.Equal(t, lctr.Phy2M, req.PhyMToS)
	assert.Equal(t, uint8(2), req.Nse)
	assert.Equal(t, uint16(8), req.IsoInterval)
	assert.Equal(t, uint32(3000), req.OffsetMaxUsec)

	assert.Equal(t, uint32(0x8E89BED6), sc.Steps[1].Indication.AccessAddress)
	assert.Equal(t, uint8(lctr.StatusRemoteUserTerminated), sc.Steps[2].Terminate.Reason)
}

func TestParseScenarioErrors(t *testing.T) {
	_, err := parseScenario([]byte(`name: empty`))
	assert.Error(t, err)

	_, err = parseScenario([]byte(`steps: [`))
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	sc, err := loadScenario("testdata/interleaved.yaml")
	require.NoError(t, err)

	co, err := lctr.NewCoordinator(sc.Connection.params())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	r := &runner{co: co, out: out}
	require.NoError(t, r.run(sc), out.String())

	g, ok := co.Group(1)
	require.True(t, ok)
	assert.Equal(t, lctr.Interleaved.String(), g.Packing)
	assert.Len(t, g.Streams, 1)
	assert.True(t, g.Started)
	assert.Equal(t, uint16(4), g.EventCounter)

	printLayout(out, co)
	assert.Contains(t, out.String(), "interleaved packing")
}

func TestRunScenarioUnexpected(t *testing.T) {
	sc, err := parseScenario([]byte(`
steps:
  - request: {cig: 1, cis: 1, nse: 0}
`))
	require.NoError(t, err)

	co, err := lctr.NewCoordinator(sc.Connection.params())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	err = (&runner{co: co, out: out}).run(sc)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "FAIL")
}

func TestValidateScenario(t *testing.T) {
	sc, err := parseScenario([]byte(`
steps:
  - request: {cig: 1, cis: 1}
  - request: {cig: 1, cis: 2, offset_max_usec: 7400}
  - connection: {interval_usec: 15000}
  - request: {cig: 1, cis: 3, offset_max_usec: 7400}
`))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	assert.Equal(t, 1, validateScenario(out, sc, lctr.DefaultSetupDelayUsec))
	assert.Contains(t, out.String(), "cis request too big")
}
