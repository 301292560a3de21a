package huffman

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSymbols is returned when a frequency or length table has no codable symbol.
	ErrNoSymbols = errors.New("huffman: no symbol with non-zero frequency")

	// ErrOversubscribed is returned when code lengths do not form a prefix code.
	ErrOversubscribed = errors.New("huffman: code lengths are oversubscribed")

	// ErrInvalidCode is returned when a bit stream contains a code that maps to no symbol.
	ErrInvalidCode = errors.New("huffman: invalid code in stream")

	// ErrShortStream is returned when a stream is too short for the requested symbol count.
	ErrShortStream = errors.New("huffman: stream too short for symbol count")
)

// ErrUnknownSymbol indicates an attempt to encode a symbol without a code.
type ErrUnknownSymbol struct {
	Symbol int
}

func (e *ErrUnknownSymbol) Error() string {
	return fmt.Sprintf("huffman: symbol %d has no code", e.Symbol)
}
