package efuse

import (
	"fmt"
	"strings"
)

// ShowStatus 打印 RAW + 换算值的完整状态报告，格式沿用产线上
// 大家看惯的版式
func (m *Monitor) ShowStatus() error {
	fmt.Fprintln(m.Out, "\n=========== MP5922 STATUS (RAW + CONVERTED) ===========")
	fmt.Fprintln(m.Out)

	// 全局输入功率，不分页
	pinRaw, err := m.Bus.ReadWord(m.Addr, cmdReadPin)
	if err != nil {
		return fmt.Errorf("read READ_PIN: %w", err)
	}
	pin := RawToPower(pinRaw)

	fmt.Fprintln(m.Out, "INPUT (GLOBAL)")
	fmt.Fprintf(m.Out, "  READ_PIN : raw=0x%04X (%d) -> %.2f W\n\n",
		pinRaw, pinRaw, pin)

	var totalPout float64
	for _, rail := range Rails {
		st, err := m.ReadRail(rail)
		if err != nil {
			return err
		}
		totalPout += st.Pout()

		fmt.Fprintf(m.Out, "PAGE %d : %s\n", st.Page, st.Name)
		fmt.Fprintf(m.Out, "  VIN   : raw=0x%04X (%d) -> %.2f V\n",
			st.VinRaw, st.VinRaw, st.Vin())
		fmt.Fprintf(m.Out, "  VOUT  : raw=0x%04X (%d) -> %.2f V\n",
			st.VoutRaw, st.VoutRaw, st.Vout())
		fmt.Fprintf(m.Out, "  IOUT  : %.3f A (derived from POUT/VOUT)\n", st.Iout())
		fmt.Fprintf(m.Out, "           raw=0x%04X (%d) [diagnostic]\n",
			st.IoutRaw, st.IoutRaw)
		fmt.Fprintf(m.Out, "  POUT  : raw=0x%04X (%d) -> %.2f W\n",
			st.PoutRaw, st.PoutRaw, st.Pout())
		fmt.Fprintf(m.Out, "  FAULTS: %s\n\n", strings.Join(st.Faults(), ", "))
	}

	loss := pin - totalPout
	eff := 0.0
	if pin > 0 {
		eff = totalPout / pin * 100
	}

	fmt.Fprintln(m.Out, "POWER SUMMARY")
	fmt.Fprintf(m.Out, "  SUM POUT  : %.2f W\n", totalPout)
	fmt.Fprintf(m.Out, "  PIN       : %.2f W\n", pin)
	fmt.Fprintf(m.Out, "  LOSSES    : %.2f W\n", loss)
	fmt.Fprintf(m.Out, "  EFFICIENCY: %.2f %%\n", eff)
	fmt.Fprintln(m.Out, "\n=====================================================")
	return nil
}
