package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/config"
)

func TestTxCostSchedule(t *testing.T) {
	fee := config.FeeConfig{
		CostPerByte:     "1",
		TxOverheadBytes: 2,
		Schedule: []config.FeeRate{
			{FromEpoch: 10, CostPerByte: "3"},
			{FromEpoch: 5, CostPerByte: "0.5"},
		},
	}
	cs, err := NewCostSchedule(fee, config.ExecConfig{ExecCostPerPoint: "0.001"})
	require.NoError(t, err)

	assert.Equal(t, "12", cs.TxCost(0, 10).String())
	assert.Equal(t, "12", cs.TxCost(4, 10).String())
	// (11+2)*0.5 = 6.5 向上取整
	assert.Equal(t, "7", cs.TxCost(5, 11).String())
	assert.Equal(t, "7", cs.TxCost(9, 11).String())
	assert.Equal(t, "39", cs.TxCost(10, 11).String())

	assert.Equal(t, "0", cs.ExecCost(0).String())
	assert.Equal(t, "1", cs.ExecCost(1).String())
	assert.Equal(t, "2", cs.ExecCost(1500).String())
	assert.Equal(t, "10000", cs.ExecCost(DefaultCallExecPoints).String())
}

func TestCostScheduleRejectsBadRates(t *testing.T) {
	_, err := NewCostSchedule(config.FeeConfig{CostPerByte: "-1"}, config.ExecConfig{})
	assert.Error(t, err)
	_, err = NewCostSchedule(config.FeeConfig{CostPerByte: "1"}, config.ExecConfig{ExecCostPerPoint: "abc"})
	assert.Error(t, err)
	_, err = NewCostSchedule(config.FeeConfig{
		CostPerByte: "1",
		Schedule:    []config.FeeRate{{FromEpoch: 1, CostPerByte: "x"}},
	}, config.ExecConfig{})
	assert.Error(t, err)
}
