// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details

package periph

// UARTLite is a polled driver for the UART-lite serial port.
//
// Writes always wait for room in the TX FIFO. Storing into the TX FIFO
// without checking SRTxFIFOFull loses bytes once the FIFO fills up, so no
// unchecked variant is offered.
type UARTLite struct {
	regs Registers
	cfg  config
}

func NewUARTLite(regs Registers, opts ...Option) *UARTLite {
	return &UARTLite{regs: regs, cfg: newConfig(opts)}
}

// PutChar waits until the TX FIFO has room and queues c.
func (u *UARTLite) PutChar(c byte) error {
	if err := u.cfg.spinUntil(u.regs, UARTLiteStat, SRTxFIFOFull, 0); err != nil {
		return err
	}
	u.regs.Store32(UARTLiteTxFIFO, uint32(c))
	return nil
}

// PutString sends s up to its first NUL byte.
func (u *UARTLite) PutString(s string) error {
	for i := 0; i < len(s) && s[i] != 0; i++ {
		if err := u.PutChar(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// Write sends every byte of p, NULs included.
func (u *UARTLite) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := u.PutChar(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// GetChar waits for a byte in the RX FIFO and returns it.
func (u *UARTLite) GetChar() (byte, error) {
	err := u.cfg.spinUntil(u.regs, UARTLiteStat, SRRxFIFOValidData, SRRxFIFOValidData)
	if err != nil {
		return 0, err
	}
	return byte(u.regs.Load32(UARTLiteRxFIFO)), nil
}

// Reset empties both FIFOs and leaves interrupts disabled.
func (u *UARTLite) Reset() {
	u.regs.Store32(UARTLiteCtrl, CRResetTxFIFO|CRResetRxFIFO)
}
