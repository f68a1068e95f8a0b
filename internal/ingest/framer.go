package ingest

// maxLineLen bounds one accumulated line. GNSS receivers keep NMEA under 82
// characters; anything longer is noise and gets truncated rather than
// growing the buffer.
const maxLineLen = 128

// framer assembles raw serial bytes into lines. CR is ignored, LF terminates
// a line, and bytes past maxLineLen are dropped until the next terminator.
type framer struct {
	buf []byte
}

func newFramer() *framer {
	return &framer{buf: make([]byte, 0, maxLineLen)}
}

// feed consumes a chunk of raw bytes and calls emit for every completed
// line. Empty lines (bare CRLF) are suppressed.
func (f *framer) feed(p []byte, emit func(string)) {
	for _, c := range p {
		switch c {
		case '\r':
			// ignore
		case '\n':
			if len(f.buf) > 0 {
				emit(string(f.buf))
				f.buf = f.buf[:0]
			}
		default:
			if len(f.buf) < maxLineLen {
				f.buf = append(f.buf, c)
			}
		}
	}
}
