package cache

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/vqc/internal/conv"
	"github.com/hupe1980/vqc/internal/hash"
)

const (
	formatMagic   = "QCB\x00"
	formatVersion = uint16(1)
	headerSize    = 16
)

// encodeBlob wraps the codebook binary form raw in the versioned blob header.
func encodeBlob(raw []byte, c Compression) ([]byte, error) {
	rawLen, err := conv.IntToUint32(len(raw))
	if err != nil {
		return nil, err
	}

	payload, used, err := compress(raw, c)
	if err != nil {
		return nil, err
	}

	b := make([]byte, headerSize, headerSize+len(payload))
	copy(b[0:4], formatMagic)
	binary.LittleEndian.PutUint16(b[4:6], formatVersion)
	b[6] = byte(used)
	binary.LittleEndian.PutUint32(b[8:12], rawLen)
	binary.LittleEndian.PutUint32(b[12:16], hash.CRC32C(raw))
	return append(b, payload...), nil
}

// decodeBlob validates the header and checksum and returns the raw codebook bytes.
func decodeBlob(blob []byte) ([]byte, Compression, error) {
	if len(blob) < headerSize || string(blob[0:4]) != formatMagic {
		return nil, 0, fmt.Errorf("%w: bad magic", ErrCorruptCodebook)
	}

	if v := binary.LittleEndian.Uint16(blob[4:6]); v > formatVersion || v == 0 {
		return nil, 0, &ErrUnsupportedVersion{Version: v}
	}

	c := Compression(blob[6])
	rawLen, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(blob[8:12]))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrCorruptCodebook, err)
	}
	sum := binary.LittleEndian.Uint32(blob[12:16])

	raw, err := decompress(blob[headerSize:], c, rawLen)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrCorruptCodebook, err)
	}
	if !hash.Verify(raw, sum) {
		return nil, 0, fmt.Errorf("%w: checksum mismatch", ErrCorruptCodebook)
	}
	return raw, c, nil
}
