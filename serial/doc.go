// Package serial provides the serial link used to receive BK Precision 390A
// telemetry.
//
// The meter transmits continuously at 2400 baud, 7 data bits, odd parity and one
// stop bit. Alternate line settings are described by a compact parameter string
// of the form "<baud>:<bits><parity><stopbits>", for example "2400:7o1" or
// "9600:8n1"; see [ParseParams].
//
// Two port implementations satisfy the byte-stream contract expected by the
// frame reader:
//
//   - [Port] is a raw, unbuffered Linux serial port configured through termios.
//     Waits use poll(2) together with a self-pipe, so [Port.Close] unblocks a
//     pending [Port.WaitReadable] immediately.
//   - [StreamPort] adapts any io.Reader, which is used to replay captured byte
//     streams and in tests.
//
// Example usage:
//
//	params, err := serial.ParseParams("2400:7o1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port, err := serial.Open("/dev/ttyUSB0", params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	ready, err := port.WaitReadable(time.Second)
//
// Opening a device is only supported on Linux; other platforms return
// [ErrUnsupportedPlatform].
package serial
