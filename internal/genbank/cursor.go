package genbank

import (
	"errors"
	"io"
)

// DefaultBufferSize is the refill buffer size used by Parse and FileParser.
const DefaultBufferSize = 4096

// maxEmptyReads bounds consecutive 0, nil reads before giving up,
// matching bufio's limit.
const maxEmptyReads = 100

// Cursor scans an ASCII byte stream line by line through a fixed-size
// refill buffer. It only moves forward.
//
// Every byte is treated as one character. Non-ASCII input is passed
// through verbatim.
type Cursor struct {
	r    io.Reader
	buf  []byte
	pos  int
	size int
	line int
	eof  bool
	err  error
}

// NewCursor creates a cursor over r with a refill buffer of bufferSize bytes.
func NewCursor(r io.Reader, bufferSize int) (*Cursor, error) {
	if bufferSize < 1 {
		return nil, &ConfigurationError{Param: "bufferSize", Message: "must be greater than zero"}
	}
	if r == nil {
		return nil, &ConfigurationError{Param: "reader", Message: "must be readable"}
	}
	return &Cursor{
		r:    r,
		buf:  make([]byte, bufferSize),
		line: 1,
	}, nil
}

// fill refills the buffer. It returns false once the stream is exhausted
// or a read error occurred.
func (c *Cursor) fill() bool {
	c.pos = 0
	c.size = 0
	if c.eof {
		return false
	}
	for empty := 0; ; empty++ {
		n, err := c.r.Read(c.buf)
		c.size = n
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.err = err
			}
			c.eof = true
		}
		if n > 0 {
			return true
		}
		if c.eof {
			return false
		}
		if empty >= maxEmptyReads {
			c.err = io.ErrNoProgress
			c.eof = true
			return false
		}
	}
}

// ReadChars copies characters into dst until dst is full, a line
// terminator is reached, or the stream ends. The terminator is not
// consumed. It returns the number of characters copied.
func (c *Cursor) ReadChars(dst []byte) int {
	n := 0
	for n < len(dst) {
		if c.pos >= c.size && !c.fill() {
			return n
		}
		ch := c.buf[c.pos]
		if ch == '\r' || ch == '\n' {
			return n
		}
		dst[n] = ch
		n++
		c.pos++
	}
	return n
}

// SkipConsecutive skips consecutive occurrences of ch and returns how many
// were skipped.
func (c *Cursor) SkipConsecutive(ch byte) int {
	n := 0
	for {
		for c.pos < c.size {
			if c.buf[c.pos] != ch {
				return n
			}
			n++
			c.pos++
		}
		if !c.fill() {
			return n
		}
	}
}

// NextLine moves past the rest of the current line and its terminator.
// "\n", "\r\n" and "\r" are all recognised. It returns false when the
// stream ends before a terminator is found.
func (c *Cursor) NextLine() bool {
	cr := false
	for {
		for c.pos < c.size {
			ch := c.buf[c.pos]
			if cr {
				if ch == '\n' {
					c.pos++
				}
				c.line++
				return true
			}
			c.pos++
			switch ch {
			case '\n':
				c.line++
				return true
			case '\r':
				cr = true
			}
		}
		if !c.fill() {
			if cr {
				c.line++
			}
			return cr
		}
	}
}

// Line returns the 1-based number of the line under the cursor.
func (c *Cursor) Line() int {
	return c.line
}

// Err returns the first read error other than io.EOF.
func (c *Cursor) Err() error {
	return c.err
}
