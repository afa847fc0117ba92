package mtef

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/richardlehane/mscfb"
	"github.com/trantaidat7388-dot/word2latex/internal/converterrors"
)

// equationNativeStream is the well-known OLE stream name an Equation
// Editor 3.0 / MathType object stores its MTEF payload under.
const equationNativeStream = "Equation Native"

// ExtractFromOLE reads an OLE Compound File (the bytes of an
// embeddings/oleObjectN.bin part) and returns the raw MTEF bytes held
// in its "Equation Native" stream, with the stream's own 4-byte
// little-endian header-length prefix skipped. Returns (nil, nil) — not
// an error — when the object holds no equation stream, since embedded
// objects of other kinds (e.g. an Excel worksheet) are valid and
// simply have nothing for this translator to do.
func ExtractFromOLE(data []byte) ([]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, converterrors.Wrap(converterrors.ContainerError, "mtef.ExtractFromOLE", err)
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != equationNativeStream {
			continue
		}
		buf := make([]byte, entry.Size)
		n, rerr := io.ReadFull(doc, buf)
		if rerr != nil && rerr != io.ErrUnexpectedEOF {
			return nil, converterrors.Wrap(converterrors.ContainerError, "mtef.ExtractFromOLE", rerr)
		}
		raw := buf[:n]
		if len(raw) < 4 {
			return nil, nil
		}
		hdrLen := binary.LittleEndian.Uint32(raw[:4])
		if uint64(hdrLen) >= uint64(len(raw)) {
			return nil, nil
		}
		return raw[hdrLen:], nil
	}
	return nil, nil
}
