package huffman

import (
	"container/heap"
	"fmt"

	"github.com/hupe1980/vqc/internal/bitio"
)

// MaxCodeLength is the longest code New will produce.
const MaxCodeLength = 32

// Code is a canonical Huffman code over the symbols [0, len(lengths)).
// A Code is immutable and safe for concurrent use.
type Code struct {
	lengths []uint8
	codes   []uint32

	// decoding tables: symbols ordered by (length, symbol), counts per length
	// and the first canonical code of every length.
	sorted []int
	count  [MaxCodeLength + 1]int
	first  [MaxCodeLength + 1]uint32
	offset [MaxCodeLength + 1]int
	maxLen int
}

// New builds a code from symbol frequencies. Symbols with zero frequency get
// no code. A table with a single codable symbol assigns it a one-bit code.
func New(freqs []uint64) (*Code, error) {
	lengths := buildLengths(freqs)

	// Flatten the distribution until the tree fits. Halving keeps every
	// non-zero frequency non-zero.
	scaled := freqs
	for maxLength(lengths) > MaxCodeLength {
		next := make([]uint64, len(scaled))
		for i, f := range scaled {
			if f > 0 {
				next[i] = f>>1 | 1
			}
		}
		scaled = next
		lengths = buildLengths(scaled)
	}

	return FromLengths(lengths)
}

// FromLengths rebuilds the canonical code described by lengths.
func FromLengths(lengths []uint8) (*Code, error) {
	c := &Code{
		lengths: append([]uint8(nil), lengths...),
		codes:   make([]uint32, len(lengths)),
	}

	for _, l := range lengths {
		if l > MaxCodeLength {
			return nil, fmt.Errorf("huffman: code length %d exceeds %d", l, MaxCodeLength)
		}
		if l > 0 {
			c.count[l]++
			c.maxLen = max(c.maxLen, int(l))
		}
	}
	if c.maxLen == 0 {
		return nil, ErrNoSymbols
	}

	// Kraft inequality: the unused code space must never go negative.
	left := uint64(1)
	for l := 1; l <= MaxCodeLength; l++ {
		left <<= 1
		if uint64(c.count[l]) > left {
			return nil, ErrOversubscribed
		}
		left -= uint64(c.count[l])
	}

	var code uint32
	for l := 1; l <= c.maxLen; l++ {
		code = (code + uint32(c.count[l-1])) << 1
		c.first[l] = code
		c.offset[l] = c.offset[l-1] + c.count[l-1]
	}

	next := c.first
	c.sorted = make([]int, c.offset[c.maxLen]+c.count[c.maxLen])
	for s, l := range lengths {
		if l == 0 {
			continue
		}
		c.codes[s] = next[l]
		c.sorted[c.offset[l]+int(next[l]-c.first[l])] = s
		next[l]++
	}

	return c, nil
}

// Symbols returns the size of the symbol alphabet.
func (c *Code) Symbols() int {
	return len(c.lengths)
}

// Lengths returns the code length of every symbol; 0 means no code.
func (c *Code) Lengths() []uint8 {
	return append([]uint8(nil), c.lengths...)
}

// Length returns the code length of symbol s, 0 if s has no code.
func (c *Code) Length(s int) int {
	if s < 0 || s >= len(c.lengths) {
		return 0
	}
	return int(c.lengths[s])
}

// EncodedBits returns the exact size in bits of encoding symbols.
func (c *Code) EncodedBits(symbols []int) (int, error) {
	n := 0
	for _, s := range symbols {
		l := c.Length(s)
		if l == 0 {
			return 0, &ErrUnknownSymbol{Symbol: s}
		}
		n += l
	}
	return n, nil
}

// Encode writes the codes of symbols as an MSB-first bit stream, zero padded
// to a whole byte.
func (c *Code) Encode(symbols []int) ([]byte, error) {
	bits, err := c.EncodedBits(symbols)
	if err != nil {
		return nil, err
	}

	w := bitio.NewWriter((bits + 7) / 8)
	for _, s := range symbols {
		w.WriteBits(c.codes[s], uint(c.lengths[s]))
	}
	return w.Bytes(), nil
}

// Decode reads n symbols from data.
func (c *Code) Decode(data []byte, n int) ([]int, error) {
	// every code is at least one bit long
	if n < 0 || n > 8*len(data) {
		return nil, fmt.Errorf("%w: %d symbols in %d bytes", ErrShortStream, n, len(data))
	}

	r := bitio.NewReader(data)
	out := make([]int, n)
	for i := range out {
		s, err := c.next(r)
		if err != nil {
			return nil, fmt.Errorf("huffman: symbol %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// next decodes one symbol by walking the canonical code one bit at a time.
func (c *Code) next(r *bitio.Reader) (int, error) {
	var code uint32
	for l := 1; l <= c.maxLen; l++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | bit
		if d := code - c.first[l]; code >= c.first[l] && d < uint32(c.count[l]) {
			return c.sorted[c.offset[l]+int(d)], nil
		}
	}
	return 0, ErrInvalidCode
}

func maxLength(lengths []uint8) int {
	m := 0
	for _, l := range lengths {
		m = max(m, int(l))
	}
	return m
}

// node is a tree node in the construction heap. Leaves carry a symbol,
// internal nodes carry -1.
type node struct {
	weight uint64
	order  int
	symbol int
	left   *node
	right  *node
}

// nodeHeap is a min-heap by weight; equal weights pop in creation order so the
// resulting lengths are deterministic.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].order < h[j].order
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// buildLengths returns unrestricted Huffman code lengths for freqs. Lengths
// above 255 are saturated so the caller can detect them.
func buildLengths(freqs []uint64) []uint8 {
	lengths := make([]uint8, len(freqs))

	h := make(nodeHeap, 0, len(freqs))
	for s, f := range freqs {
		if f > 0 {
			h = append(h, &node{weight: f, order: len(h), symbol: s})
		}
	}

	switch len(h) {
	case 0:
		return lengths
	case 1:
		lengths[h[0].symbol] = 1
		return lengths
	}

	order := len(h)
	heap.Init(&h)
	for h.Len() > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		w := a.weight + b.weight
		if w < a.weight {
			w = ^uint64(0)
		}
		heap.Push(&h, &node{weight: w, order: order, symbol: -1, left: a, right: b})
		order++
	}

	type frame struct {
		n     *node
		depth int
	}
	stack := []frame{{h[0], 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n.symbol >= 0 {
			lengths[f.n.symbol] = uint8(min(f.depth, 255))
			continue
		}
		stack = append(stack, frame{f.n.left, f.depth + 1}, frame{f.n.right, f.depth + 1})
	}
	return lengths
}
