package ingest

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

// SerialSource reads lines from a serial GNSS receiver. A background
// goroutine owns the port and frames lines into a bounded channel; Poll
// drains the channel without blocking, so the control loop never waits on
// the wire.
type SerialSource struct {
	port  serial.Port
	lines chan string
	log   zerolog.Logger
}

// lineBacklog bounds lines held between polls. At 1 Hz GNSS output and a
// 500ms poll this never fills; if it does, newest lines are dropped.
const lineBacklog = 64

// OpenSerial opens the receiver at the given device path and baud rate.
func OpenSerial(device string, baud int, log zerolog.Logger) (*SerialSource, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	s := &SerialSource{
		port:  port,
		lines: make(chan string, lineBacklog),
		log:   log,
	}
	go s.read()
	return s, nil
}

func (s *SerialSource) read() {
	fr := newFramer()
	buf := make([]byte, 256)
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			fr.feed(buf[:n], func(line string) {
				select {
				case s.lines <- line:
				default:
					// Backlog full; the loop has stalled. Drop.
				}
			})
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Error().Err(err).Msg("serial read failed, reader stopped")
			}
			close(s.lines)
			return
		}
	}
}

// Poll returns the lines accumulated since the previous call.
func (s *SerialSource) Poll() []string {
	var out []string
	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				return out
			}
			out = append(out, line)
		default:
			return out
		}
	}
}

// Close closes the port, which also stops the reader goroutine.
func (s *SerialSource) Close() error {
	return s.port.Close()
}
