package zebra

import (
	"context"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// serialDialer returns a Dialer that opens device as a raw serial port.
// The unit speaks 8N1 with no flow control; only the baud rate varies.
func serialDialer(device string, baudRate int) Dialer {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mode := &serial.Mode{
			BaudRate: baudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}

		port, err := serial.Open(device, mode)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", device, err)
		}

		// Drop whatever the unit emitted before we were listening; a stale
		// partial line would desynchronize the first exchange.
		if err := port.ResetInputBuffer(); err != nil {
			_ = port.Close()

			return nil, fmt.Errorf("reset input buffer of %s: %w", device, err)
		}

		return port, nil
	}
}
