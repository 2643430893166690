package ads1256

// Register addresses
const (
	RegSTATUS Register = 0x00
	RegMUX    Register = 0x01
	RegADCON  Register = 0x02
	RegDRATE  Register = 0x03
	RegIO     Register = 0x04
	RegOFC0   Register = 0x05
	RegOFC1   Register = 0x06
	RegOFC2   Register = 0x07
	RegFSC0   Register = 0x08
	RegFSC1   Register = 0x09
	RegFSC2   Register = 0x0A

	// NumRegisters is the total number of registers (0 through 0x0A).
	NumRegisters = 0x0B
)

// Command opcodes
const (
	CmdWakeUp  = 0x00
	CmdRDATA   = 0x01
	CmdRDATAC  = 0x03
	CmdSDATAC  = 0x0F
	CmdRREG    = 0x10 // 0x10 + (reg & 0x0F)
	CmdWREG    = 0x50 // 0x50 + (reg & 0x0F)
	CmdSelfCal = 0xF0
	CmdSync    = 0xFC
	CmdStandby = 0xFD
	CmdReset   = 0xFE
)

// DRATE register values, fCLKIN = 7.68 MHz.
const (
	DRate2p5SPS   = 0x03
	DRate5SPS     = 0x13
	DRate10SPS    = 0x23
	DRate15SPS    = 0x33
	DRate25SPS    = 0x43
	DRate30SPS    = 0x53
	DRate50SPS    = 0x63
	DRate60SPS    = 0x72
	DRate100SPS   = 0x82
	DRate500SPS   = 0x92
	DRate1000SPS  = 0xA1
	DRate2000SPS  = 0xB0
	DRate3750SPS  = 0xC0
	DRate7500SPS  = 0xD0
	DRate15000SPS = 0xE0
	DRate30000SPS = 0xF0
)

// STATUS register bits
const (
	StatusORDER = 0x08
	StatusACAL  = 0x04
	StatusBUFEN = 0x02
	StatusDRDY  = 0x01 // read-only
)

// ADCON register bits
const (
	AdconCLKOff  = 0x00
	AdconCLKDiv1 = 0x20
	AdconCLKDiv2 = 0x40
	AdconCLKDiv4 = 0x60

	// sensor detect current sources
	AdconSDCSOff   = 0x00
	AdconSDCS0p5uA = 0x08
	AdconSDCS2uA   = 0x10
	AdconSDCS10uA  = 0x18
)

// PGA gain settings (ADCON bits 2-0)
const (
	PGA1 = iota
	PGA2
	PGA4
	PGA8
	PGA16
	PGA32
	PGA64
)

// codeFullScale is the largest positive 24-bit conversion result.
const codeFullScale = 0x7FFFFF
