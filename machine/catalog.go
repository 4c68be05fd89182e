package machine

import (
	. "github.com/JeanRibes/midistate/shared"
)

const PARAMETER_SPACE = 0x80 * 0x80

var standardRpnEnabled = func() (t [PARAMETER_SPACE]bool) {
	t[RpnPitchBendSensitivity] = true
	t[RpnFineTuning] = true
	t[RpnCoarseTuning] = true
	t[RpnTuningProgram] = true
	t[RpnTuningBankSelect] = true
	t[RpnModulationDepth] = true
	return
}()

// ControllerCatalog records which RPN and NRPN addresses are recognized.
// Standard RPNs are enabled by default, NRPNs are opt-in.
type ControllerCatalog struct {
	EnabledRpns  [PARAMETER_SPACE]bool
	EnabledNrpns [PARAMETER_SPACE]bool
}

func NewControllerCatalog() *ControllerCatalog {
	return &ControllerCatalog{EnabledRpns: standardRpnEnabled}
}

// EnableAllNrpnMsbs enables (msb, 0) for every msb.
func (c *ControllerCatalog) EnableAllNrpnMsbs() {
	for msb := 0; msb < 0x80; msb++ {
		c.EnabledNrpns[msb*0x80] = true
	}
}

func (c *ControllerCatalog) EnableNrpn(msb, lsb uint8) {
	c.EnabledNrpns[address(msb, lsb)] = true
}

func (c *ControllerCatalog) EnableRpn(msb, lsb uint8) {
	c.EnabledRpns[address(msb, lsb)] = true
}

func (c *ControllerCatalog) RpnEnabled(msb, lsb uint8) bool {
	return c.EnabledRpns[address(msb, lsb)]
}

func (c *ControllerCatalog) NrpnEnabled(msb, lsb uint8) bool {
	return c.EnabledNrpns[address(msb, lsb)]
}

// address combines a parameter number; bytes are masked to 7 bits.
func address(msb, lsb uint8) int {
	return int(msb&0x7F)<<7 + int(lsb&0x7F)
}
