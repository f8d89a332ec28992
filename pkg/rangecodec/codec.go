// Package rangecodec encodes a sorted slice of custodytree.Range values
// into a compact byte form and back. It is not a Bundle Protocol DACS
// encoder: no bundle header, no SDNV custody-signal framing. It is the
// same "serialize the allocator compactly" idiom applied to a node
// arena elsewhere (delta-encode, write as variable-width ints,
// LZ4-compress), aimed instead at the short sorted list of ranges a
// drained tree naturally produces. Used by the CLI's `drain --format
// bytes` output and by the session store in pkg/session.
package rangecodec

import (
	"bytes"
	"errors"
	"fmt"

	gitbinary "github.com/go-git/go-git/v6/utils/binary"
	"github.com/pierrec/lz4/v4"

	"github.com/bplib-go/custodytree/pkg/custodytree"
)

// ErrTruncated is returned by Decode when the input ends before a
// complete range list could be read.
var ErrTruncated = errors.New("rangecodec: truncated input")

// ErrMalformed is returned by Decode when the input's leading format tag
// is unknown, or its internal length prefix or decoded contents do not
// agree with the bytes that follow it.
var ErrMalformed = errors.New("rangecodec: malformed input")

// Format tag bytes. gitbinary's variable-width int is Git's ofs-delta
// offset encoding and is non-negative by construction, so it cannot
// itself carry a "this is uncompressed" sentinel; a leading tag byte
// says which branch follows instead.
const (
	tagUncompressed byte = 0x00
	tagCompressed   byte = 0x01
)

// Encode delta-encodes the value of each range against its predecessor
// (ranges is assumed sorted and non-overlapping, the invariant every
// custodytree.Tree maintains), writes the deltas and offsets as
// variable-width ints, and LZ4-compresses the result. An empty input
// encodes to a non-nil, non-empty header describing zero ranges.
func Encode(ranges []custodytree.Range) []byte {
	var plain bytes.Buffer

	_ = gitbinary.WriteVariableWidthInt(&plain, int64(len(ranges)))

	var prev uint32

	for _, r := range ranges {
		delta := r.Value - prev
		prev = r.Value

		_ = gitbinary.WriteVariableWidthInt(&plain, int64(delta))
		_ = gitbinary.WriteVariableWidthInt(&plain, int64(r.Offset))
	}

	compressed := make([]byte, lz4.CompressBlockBound(plain.Len()))

	written, err := lz4.CompressBlock(plain.Bytes(), compressed, nil)
	if err != nil || written == 0 {
		// Incompressible or too small to bother: lz4.CompressBlock leaves
		// written at 0 for data it can't shrink. Store the plain bytes
		// directly.
		return encodeUncompressed(plain.Bytes())
	}

	var out bytes.Buffer
	out.WriteByte(tagCompressed)
	_ = gitbinary.WriteVariableWidthInt(&out, int64(plain.Len()))
	out.Write(compressed[:written])

	return out.Bytes()
}

func encodeUncompressed(plain []byte) []byte {
	var out bytes.Buffer
	out.WriteByte(tagUncompressed)
	out.Write(plain)

	return out.Bytes()
}

// Decode reverses Encode.
func Decode(data []byte) ([]custodytree.Range, error) {
	r := bytes.NewReader(data)

	tag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err) //nolint:errorlint
	}

	var plain []byte

	switch tag {
	case tagUncompressed:
		plain, err = readAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err) //nolint:errorlint
		}
	case tagCompressed:
		plainLen, lenErr := gitbinary.ReadVariableWidthInt(r)
		if lenErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, lenErr) //nolint:errorlint
		}

		compressed, readErr := readAll(r)
		if readErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, readErr) //nolint:errorlint
		}

		plain = make([]byte, plainLen)

		n, uerr := lz4.UncompressBlock(compressed, plain)
		if uerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, uerr) //nolint:errorlint
		}

		if n != int(plainLen) {
			return nil, ErrMalformed
		}
	default:
		return nil, ErrMalformed
	}

	return decodePlain(plain)
}

func readAll(r *bytes.Reader) ([]byte, error) {
	buf := make([]byte, r.Len())
	_, err := r.Read(buf)

	return buf, err
}

func decodePlain(plain []byte) ([]custodytree.Range, error) {
	r := bytes.NewReader(plain)

	count, err := gitbinary.ReadVariableWidthInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err) //nolint:errorlint
	}

	if count < 0 {
		return nil, ErrMalformed
	}

	ranges := make([]custodytree.Range, count)

	var value uint32

	for i := range ranges {
		delta, derr := gitbinary.ReadVariableWidthInt(r)
		if derr != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, derr) //nolint:errorlint
		}

		offset, oerr := gitbinary.ReadVariableWidthInt(r)
		if oerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, oerr) //nolint:errorlint
		}

		value += uint32(delta)
		ranges[i] = custodytree.Range{Value: value, Offset: uint32(offset)}
	}

	return ranges, nil
}
