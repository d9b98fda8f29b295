package zebra

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"time"
)

// readBufferSize is the bufio read buffer. The longest legal line is a full
// ten-field capture message (89 bytes plus terminator); 4 KiB absorbs bursts.
const readBufferSize = 4096

// writeDeadliner is implemented by transports that support write deadlines,
// such as net.Conn and the pipes used in tests. Serial ports do not; their
// writes complete or fail with the port.
type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// lineTransport frames the raw byte stream into protocol lines.
//
// Reads are owned by the reader task and must not be called concurrently.
// Writes are serialized by an internal mutex and bounded by the write
// timeout when the underlying transport supports deadlines.
type lineTransport struct {
	rwc          io.ReadWriteCloser
	br           *bufio.Reader
	wmu          sync.Mutex
	writeTimeout time.Duration
}

func newLineTransport(rwc io.ReadWriteCloser, writeTimeout time.Duration) *lineTransport {
	return &lineTransport{
		rwc:          rwc,
		br:           bufio.NewReaderSize(rwc, readBufferSize),
		writeTimeout: writeTimeout,
	}
}

// readLine blocks until a complete line arrives and returns it with the
// trailing LF, and an optional CR before it, stripped.
//
// A partial line cut off by a transport failure is discarded; the error is
// what matters to the caller at that point.
func (t *lineTransport) readLine() (string, error) {
	line, err := t.br.ReadString('\n')
	if err != nil {
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	return line, nil
}

// writeLine appends the line terminator and writes the command in a single
// call so concurrent writers cannot interleave bytes.
func (t *lineTransport) writeLine(line string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	if wd, ok := t.rwc.(writeDeadliner); ok && t.writeTimeout > 0 {
		_ = wd.SetWriteDeadline(time.Now().Add(t.writeTimeout))
		defer func() {
			_ = wd.SetWriteDeadline(time.Time{})
		}()
	}

	_, err := io.WriteString(t.rwc, line+"\n")

	return err
}

// close closes the underlying transport, unblocking a pending readLine.
func (t *lineTransport) close() error {
	return t.rwc.Close()
}
