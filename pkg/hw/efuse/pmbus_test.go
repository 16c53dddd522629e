package efuse

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus 记录全部写操作，按寄存器表回答读操作
type fakeBus struct {
	regs map[byte]uint16
	ops  []string
	page byte
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: map[byte]uint16{}}
}

func (b *fakeBus) ReadWord(addr, reg byte) (uint16, error) {
	b.ops = append(b.ops, fmt.Sprintf("rw %02X", reg))
	return b.regs[reg], nil
}

func (b *fakeBus) WriteWord(addr, reg byte, val uint16) error {
	b.ops = append(b.ops, fmt.Sprintf("ww %02X %04X", reg, val))
	return nil
}

func (b *fakeBus) WriteByte(addr, reg, val byte) error {
	b.ops = append(b.ops, fmt.Sprintf("wb %02X %02X", reg, val))
	if reg == cmdPage {
		b.page = val
	}
	return nil
}

func (b *fakeBus) SendCommand(addr, reg byte) error {
	b.ops = append(b.ops, fmt.Sprintf("sc %02X", reg))
	return nil
}

func TestRawConversions(t *testing.T) {
	// 15.625mV/LSB: 0x0C80 = 3200 -> 50.0V
	assert.InDelta(t, 50.0, RawToVoltage(3200), 1e-9)
	assert.InDelta(t, 0.765625, RawToVoltage(49), 1e-9)
	// 0.125W/LSB: 100 -> 12.5W
	assert.InDelta(t, 12.5, RawToPower(100), 1e-9)
	assert.Equal(t, 0.0, RawToPower(0))
}

func TestDecodeFaults(t *testing.T) {
	assert.Equal(t, []string{"NO_FAULTS"}, DecodeFaults(0, 0, 0, 0))

	// STATUS_WORD bit15=VOUT_OV, bit6=POWER_GOOD=NO
	got := DecodeFaults(0x8040, 0, 0, 0)
	assert.ElementsMatch(t, []string{"VOUT_OV", "POWER_GOOD=NO"}, got)

	// 各寄存器的位独立解码
	got = DecodeFaults(0, 0x0002, 0x0001, 0x0002)
	assert.ElementsMatch(t,
		[]string{"IOUT_OC_FAULT", "VIN_UV_FAULT", "TEMP_FAULT"}, got)
}

func TestUnlockSendsPassword(t *testing.T) {
	bus := newFakeBus()
	m := NewMonitor(bus)
	require.NoError(t, m.Unlock())
	assert.Contains(t, bus.ops, "ww E1 82C2")
}

func TestRailEnableDisable(t *testing.T) {
	bus := newFakeBus()
	m := NewMonitor(bus)

	require.NoError(t, m.RailEnable(1))
	assert.Equal(t, []string{"wb 00 01", "wb 01 80"}, bus.ops)

	bus.ops = nil
	require.NoError(t, m.RailDisable(1))
	assert.Equal(t, []string{"wb 00 01", "wb 01 00"}, bus.ops)
}

func TestEnableAllWalksPages(t *testing.T) {
	bus := newFakeBus()
	m := NewMonitor(bus)
	require.NoError(t, m.EnableAll())
	assert.Equal(t, []string{
		"wb 00 00", "wb 01 80",
		"wb 00 01", "wb 01 80",
		"wb 00 02", "wb 01 80",
	}, bus.ops)
}

func TestClearFaults(t *testing.T) {
	bus := newFakeBus()
	m := NewMonitor(bus)
	require.NoError(t, m.ClearFaults())
	assert.Equal(t, []string{"sc 03"}, bus.ops)
}

func TestReadRail(t *testing.T) {
	bus := newFakeBus()
	bus.regs[cmdReadVin] = 3200  // 50.0V
	bus.regs[cmdReadVout] = 768  // 12.0V
	bus.regs[cmdReadPout] = 960  // 120.0W
	bus.regs[cmdStatusWord] = 0x4000

	m := NewMonitor(bus)
	st, err := m.ReadRail(Rails[0])
	require.NoError(t, err)

	assert.InDelta(t, 50.0, st.Vin(), 1e-9)
	assert.InDelta(t, 12.0, st.Vout(), 1e-9)
	assert.InDelta(t, 120.0, st.Pout(), 1e-9)
	// IOUT 按 POUT/VOUT 推导
	assert.InDelta(t, 10.0, st.Iout(), 1e-9)
	assert.Equal(t, []string{"IOUT_OC"}, st.Faults())
}

func TestIoutZeroVout(t *testing.T) {
	st := RailStatus{PoutRaw: 960}
	assert.Equal(t, 0.0, st.Iout())
}

func TestShowStatus(t *testing.T) {
	bus := newFakeBus()
	bus.regs[cmdReadPin] = 1600  // 200.0W
	bus.regs[cmdReadVout] = 768  // 12.0V
	bus.regs[cmdReadPout] = 480  // 60.0W 每 rail, 共 180.0W

	var buf bytes.Buffer
	m := NewMonitor(bus)
	m.Out = &buf
	require.NoError(t, m.ShowStatus())

	out := buf.String()
	assert.Contains(t, out, "READ_PIN : raw=0x0640 (1600) -> 200.00 W")
	assert.Contains(t, out, "PAGE 0 : Main Rail (Loop 1)")
	assert.Contains(t, out, "IOUT  : 5.000 A (derived from POUT/VOUT)")
	assert.Contains(t, out, "FAULTS: NO_FAULTS")
	assert.Contains(t, out, "SUM POUT  : 180.00 W")
	assert.Contains(t, out, "LOSSES    : 20.00 W")
	assert.Contains(t, out, "EFFICIENCY: 90.00 %")
}
