// MP5922 eFuse 的 PMBus 监控，走 USB-ISS 适配器的 I2C 通道。
// 换算系数和故障位定义都来自 MP5922 数据手册
package efuse

import (
	"fmt"
	"io"
	"os"
	"time"

	"hw_diag/pkg/logutil"
	"hw_diag/pkg/toolutil/bit"
)

// MP5922 的 PMBus 命令码
const (
	cmdPage        = 0x00
	cmdOperation   = 0x01
	cmdClearFaults = 0x03
	cmdStatusWord  = 0x79
	cmdStatusIout  = 0x7B
	cmdStatusInput = 0x7C
	cmdStatusTemp  = 0x7D
	cmdReadVin     = 0x88
	cmdReadVout    = 0x8B
	cmdReadIout    = 0x8C
	cmdReadPout    = 0x96
	cmdReadPin     = 0x97
	cmdPassword    = 0xE1
)

const (
	// MP5922 的 7bit I2C 地址
	DeviceAddr = 0x70

	// PMBus 写保护密码，操作寄存器前必须先解锁
	passwordWord = 0x82C2

	operationOn  = 0x80
	operationOff = 0x00
)

// Rail 页定义，页号就是 PAGE 寄存器的值
type Rail struct {
	Page byte
	Name string
}

var Rails = []Rail{
	{0, "Main Rail (Loop 1)"},
	{1, "Aux Rail  (Loop 2)"},
	{2, "Rail 3    (Loop 3)"},
}

// 数据手册换算:READ_VIN / READ_VOUT 每 LSB 15.625mV
func RawToVoltage(raw uint16) float64 {
	return float64(raw) * 0.015625
}

// READ_POUT / READ_PIN 每 LSB 0.125W
func RawToPower(raw uint16) float64 {
	return float64(raw) * 0.125
}

// 四个状态寄存器的故障位，名字直接作为告警标志输出
var (
	statusWordFields = []*bit.BitField{
		{Name: "VOUT_OV", Start: 15, Len: 1},
		{Name: "IOUT_OC", Start: 14, Len: 1},
		{Name: "VIN_UV", Start: 13, Len: 1},
		{Name: "TEMP_FAULT", Start: 12, Len: 1},
		{Name: "DEVICE_FAULT", Start: 7, Len: 1},
		{Name: "POWER_GOOD=NO", Start: 6, Len: 1},
	}
	statusIoutFields = []*bit.BitField{
		{Name: "IOUT_OC_WARNING", Start: 0, Len: 1},
		{Name: "IOUT_OC_FAULT", Start: 1, Len: 1},
	}
	statusInputFields = []*bit.BitField{
		{Name: "VIN_UV_FAULT", Start: 0, Len: 1},
		{Name: "VIN_OV_FAULT", Start: 1, Len: 1},
	}
	statusTempFields = []*bit.BitField{
		{Name: "TEMP_WARNING", Start: 0, Len: 1},
		{Name: "TEMP_FAULT", Start: 1, Len: 1},
	}
)

// DecodeFaults 把四个状态寄存器翻译成告警标志列表，
// 一个都没置位时返回 NO_FAULTS
func DecodeFaults(sw, si, sin, st uint16) []string {
	var faults []string
	faults = append(faults, bit.SetFieldNames(statusWordFields, uint64(sw))...)
	faults = append(faults, bit.SetFieldNames(statusIoutFields, uint64(si))...)
	faults = append(faults, bit.SetFieldNames(statusInputFields, uint64(sin))...)
	faults = append(faults, bit.SetFieldNames(statusTempFields, uint64(st))...)

	if len(faults) == 0 {
		return []string{"NO_FAULTS"}
	}
	return faults
}

// Bus 抽象 I2C 访问，生产实现是 USBISS，测试用假总线
type Bus interface {
	ReadWord(addr, reg byte) (uint16, error)
	WriteWord(addr, reg byte, val uint16) error
	WriteByte(addr, reg, val byte) error
	SendCommand(addr, reg byte) error
}

// Monitor 封装对单颗 MP5922 的所有 PMBus 操作
type Monitor struct {
	Bus  Bus
	Addr byte
	Out  io.Writer
}

func NewMonitor(bus Bus) *Monitor {
	return &Monitor{
		Bus:  bus,
		Addr: DeviceAddr,
		Out:  os.Stdout,
	}
}

// selectPage 切换 rail 页，切完等器件稳定
func (m *Monitor) selectPage(page byte) error {
	if err := m.Bus.WriteByte(m.Addr, cmdPage, page); err != nil {
		return fmt.Errorf("select page %d: %w", page, err)
	}
	time.Sleep(10 * time.Millisecond)
	return nil
}

// Unlock 写 PMBus 密码解除写保护，任何控制操作前都要先做
func (m *Monitor) Unlock() error {
	if err := m.Bus.WriteWord(m.Addr, cmdPassword, passwordWord); err != nil {
		return fmt.Errorf("pmbus unlock: %w", err)
	}
	time.Sleep(20 * time.Millisecond)
	return nil
}

// ClearFaults 发 CLEAR_FAULTS，清掉所有已锁存的故障位
func (m *Monitor) ClearFaults() error {
	if err := m.Bus.SendCommand(m.Addr, cmdClearFaults); err != nil {
		return fmt.Errorf("clear faults: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	return nil
}

func (m *Monitor) RailEnable(page byte) error {
	if err := m.selectPage(page); err != nil {
		return err
	}
	return m.Bus.WriteByte(m.Addr, cmdOperation, operationOn)
}

func (m *Monitor) RailDisable(page byte) error {
	if err := m.selectPage(page); err != nil {
		return err
	}
	return m.Bus.WriteByte(m.Addr, cmdOperation, operationOff)
}

func (m *Monitor) EnableAll() error {
	for _, r := range Rails {
		if err := m.RailEnable(r.Page); err != nil {
			return err
		}
	}
	return nil
}

func (m *Monitor) DisableAll() error {
	for _, r := range Rails {
		if err := m.RailDisable(r.Page); err != nil {
			return err
		}
	}
	return nil
}

// RailStatus 是单个 rail 一次性采到的全部原始读数
type RailStatus struct {
	Rail
	VinRaw, VoutRaw, IoutRaw, PoutRaw          uint16
	StatusWord, StatusIout, StatusIn, StatusTm uint16
}

func (r RailStatus) Vin() float64  { return RawToVoltage(r.VinRaw) }
func (r RailStatus) Vout() float64 { return RawToVoltage(r.VoutRaw) }
func (r RailStatus) Pout() float64 { return RawToPower(r.PoutRaw) }

// Iout 用 POUT/VOUT 推导。READ_IOUT 的标度在这颗料上不可靠，
// 原始值只作诊断参考
func (r RailStatus) Iout() float64 {
	vout := r.Vout()
	if vout <= 0 {
		return 0
	}
	return r.Pout() / vout
}

func (r RailStatus) Faults() []string {
	return DecodeFaults(r.StatusWord, r.StatusIout, r.StatusIn, r.StatusTm)
}

// ReadRail 切页后把一个 rail 的读数和状态全部采回来
func (m *Monitor) ReadRail(rail Rail) (RailStatus, error) {
	st := RailStatus{Rail: rail}
	if err := m.selectPage(rail.Page); err != nil {
		return st, err
	}

	regs := []struct {
		reg byte
		dst *uint16
	}{
		{cmdReadVin, &st.VinRaw},
		{cmdReadVout, &st.VoutRaw},
		{cmdReadIout, &st.IoutRaw},
		{cmdReadPout, &st.PoutRaw},
		{cmdStatusWord, &st.StatusWord},
		{cmdStatusIout, &st.StatusIout},
		{cmdStatusInput, &st.StatusIn},
		{cmdStatusTemp, &st.StatusTm},
	}
	for _, r := range regs {
		v, err := m.Bus.ReadWord(m.Addr, r.reg)
		if err != nil {
			return st, fmt.Errorf("read reg 0x%02X: %w", r.reg, err)
		}
		*r.dst = v
	}

	logutil.Debug("rail %d 状态位:\n%s", rail.Page,
		bit.FormatFieldValues(bit.EvalAll(statusWordFields, uint64(st.StatusWord))))

	return st, nil
}
