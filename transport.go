package mcproto

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/gstoney/mcproto/packet"
)

const (
	// MaxFrameLen is the largest frame the protocol allows: a 3 byte VarInt.
	MaxFrameLen = 1<<21 - 1

	DefaultMaxDecompressedLen = 8 << 20
)

var (
	ErrPacketTooBig           = fmt.Errorf("%w: packet too big", packet.ErrLimitExceeded)
	ErrInvalidDataLength      = fmt.Errorf("%w: invalid data length", packet.ErrMalformed)
	ErrCompressionUnavailable = errors.New("compression unavailable")
	ErrEncryptionUnavailable  = errors.New("encryption unavailable")
	ErrEncryptionEnabled      = errors.New("encryption already enabled")
)

// Compression supplies the codec used once compression is enabled. Readers
// implementing zlib.Resetter and writers with a Reset(io.Writer) method are
// reused across packets.
type Compression interface {
	NewReader(r io.Reader) (io.ReadCloser, error)
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// ZlibCompression is the codec the game uses.
type ZlibCompression struct {
	// Level is a compress/zlib level; zero means zlib.DefaultCompression.
	Level int
}

func (ZlibCompression) NewReader(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}

func (z ZlibCompression) NewWriter(w io.Writer) (io.WriteCloser, error) {
	level := z.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}
	return zlib.NewWriterLevel(w, level)
}

// Encryption wraps the raw byte stream once the login handshake agrees on a
// shared secret. The wrappers must be stream ciphers: every byte written is
// passed through immediately.
type Encryption interface {
	WrapReader(r io.Reader) io.Reader
	WrapWriter(w io.Writer) io.Writer
}

type TransportConfig struct {
	// MaxPacketLen bounds the frame length accepted by Recv; zero means
	// MaxFrameLen.
	MaxPacketLen int32
	// MaxDecompressedLen bounds the declared size of a compressed payload;
	// zero means DefaultMaxDecompressedLen.
	MaxDecompressedLen int32

	// Compression is required for EnableCompression.
	Compression Compression
}

func (c TransportConfig) withDefaults() TransportConfig {
	if c.MaxPacketLen <= 0 {
		c.MaxPacketLen = MaxFrameLen
	}
	if c.MaxDecompressedLen <= 0 {
		c.MaxDecompressedLen = DefaultMaxDecompressedLen
	}
	return c
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

type flusher interface {
	Flush() error
}

// Transport provides read and write access to a framed stream,
// with compression and encryption handled internally.
// Transport does not deserialize packets.
type Transport struct {
	reader byteReader
	writer io.Writer
	flush  flusher

	frames  frameReader
	zReader io.ReadCloser

	out     bytes.Buffer
	zBuffer bytes.Buffer
	zWriter io.WriteCloser

	threshold  int
	encryption Encryption

	cfg TransportConfig
}

// NewTransport creates a Transport.
//
// For readers/writers that perform syscalls (e.g. net.Conn), buffering is
// required. Indicate buffered I/O by implementing io.ByteReader/io.ByteWriter.
// If these interfaces are not implemented, the reader/writer will be wrapped
// with bufio.
func NewTransport(r io.Reader, w io.Writer, cfg TransportConfig) *Transport {
	var br byteReader
	var bw io.Writer

	if b, ok := r.(byteReader); ok {
		br = b
	} else if r != nil {
		br = bufio.NewReader(r)
	}

	if _, ok := w.(io.ByteWriter); ok {
		bw = w
	} else if w != nil {
		bw = bufio.NewWriter(w)
	}

	t := &Transport{
		reader:    br,
		writer:    bw,
		frames:    frameReader{src: br},
		threshold: -1,
		cfg:       cfg.withDefaults(),
	}
	t.flush, _ = bw.(flusher)

	return t
}

// CompressionThreshold returns the current threshold, or -1 when
// compression is off.
func (t *Transport) CompressionThreshold() int {
	return t.threshold
}

// EnableCompression compresses every later payload of at least threshold
// bytes. A negative threshold turns compression off again.
func (t *Transport) EnableCompression(threshold int) error {
	if threshold >= 0 && t.cfg.Compression == nil {
		return ErrCompressionUnavailable
	}
	if t.threshold >= 0 && threshold < 0 {
		t.zReader, t.zWriter = nil, nil
	}

	t.threshold = threshold
	return nil
}

// EnableEncryption layers e under the framing for the rest of the
// connection. Bytes already buffered from the peer are decrypted too.
func (t *Transport) EnableEncryption(e Encryption) error {
	if e == nil {
		return ErrEncryptionUnavailable
	}
	if t.encryption != nil {
		return ErrEncryptionEnabled
	}
	if t.frames.left > 0 {
		return ErrNotExhausted
	}

	t.reader = bufio.NewReader(e.WrapReader(t.reader))
	t.frames.src = t.reader
	t.writer = e.WrapWriter(t.writer)
	t.encryption = e
	return nil
}

func (t *Transport) Encrypted() bool {
	return t.encryption != nil
}

// Recv starts reading the next frame. The returned reader is valid until the
// following call to Recv; io.EOF means the peer closed between frames.
func (t *Transport) Recv() (r PayloadReader, err error) {
	frameLength, err := t.frames.next()
	if err != nil {
		return nil, err
	}

	if frameLength > t.cfg.MaxPacketLen {
		return nil, ErrPacketTooBig
	}

	r = rawPayload{&t.frames}

	decompressedLen := int32(0)

	if t.threshold >= 0 {
		decompressedLen, err = packet.ReadVarInt(&t.frames)
		if err != nil {
			return nil, err
		}

		if decompressedLen > 0 {
			if decompressedLen > t.cfg.MaxDecompressedLen {
				return nil, ErrPacketTooBig
			}

			if rs, ok := t.zReader.(zlib.Resetter); ok {
				err = rs.Reset(&t.frames, nil)
			} else {
				t.zReader, err = t.cfg.Compression.NewReader(&t.frames)
			}
			if err != nil {
				return nil, err
			}

			r = &inflatedPayload{dec: t.zReader, frame: &t.frames, left: decompressedLen}

		} else if decompressedLen < 0 {
			return nil, ErrInvalidDataLength
		}
	}

	return r, err
}

// Send frames b and writes it in one call, compressing it first when
// compression is on and b reaches the threshold.
func (t *Transport) Send(b []byte) error {
	t.out.Reset()

	switch {
	case t.threshold >= 0 && len(b) >= t.threshold:
		t.zBuffer.Reset()
		packet.WriteVarInt(&t.zBuffer, int32(len(b)))

		if err := t.compress(b); err != nil {
			return err
		}

		if err := t.frame(t.zBuffer.Bytes(), nil); err != nil {
			return err
		}

	case t.threshold >= 0:
		if err := t.frame([]byte{0}, b); err != nil {
			return err
		}

	default:
		if err := t.frame(b, nil); err != nil {
			return err
		}
	}

	if _, err := t.out.WriteTo(t.writer); err != nil {
		return err
	}
	if t.flush != nil {
		return t.flush.Flush()
	}
	return nil
}

func (t *Transport) compress(b []byte) (err error) {
	if rw, ok := t.zWriter.(interface{ Reset(io.Writer) }); ok {
		rw.Reset(&t.zBuffer)
	} else if t.zWriter, err = t.cfg.Compression.NewWriter(&t.zBuffer); err != nil {
		return err
	}

	if _, err = t.zWriter.Write(b); err != nil {
		return err
	}
	return t.zWriter.Close()
}

// frame appends the length prefix and head+tail to the output buffer.
func (t *Transport) frame(head, tail []byte) error {
	length := len(head) + len(tail)
	if length > MaxFrameLen {
		return ErrPacketTooBig
	}

	t.out.Write(packet.AppendVarInt(t.out.AvailableBuffer(), int32(length)))
	t.out.Write(head)
	t.out.Write(tail)
	return nil
}
