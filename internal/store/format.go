package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/calvinalkan/revtrail/internal/delta"
)

// Operation record layout (spec: delta file format), little-endian:
//
//	offset 0  size 4  type (0=COPY, 1=INSERT, 2=REPLACE)
//	offset 4  size 4  ref_offset
//	offset 8  size 4  length
//	offset 12 size length (only when type != COPY)  raw bytes
const opHeaderSize = 12

// encodeOperations serialises a delta's operation stream to its on-disk
// representation: a flat concatenation of operation records with no
// file-level header (the count lives in the sibling meta record).
func encodeOperations(ops []delta.Operation) []byte {
	size := 0
	for _, op := range ops {
		size += opHeaderSize
		if op.Type != delta.OpCopy {
			size += len(op.Bytes)
		}
	}

	buf := make([]byte, size)

	off := 0
	for _, op := range ops {
		binary.LittleEndian.PutUint32(buf[off:], uint32(op.Type))
		binary.LittleEndian.PutUint32(buf[off+4:], op.RefOffset)
		binary.LittleEndian.PutUint32(buf[off+8:], op.Length)
		off += opHeaderSize

		if op.Type != delta.OpCopy {
			copy(buf[off:], op.Bytes)
			off += len(op.Bytes)
		}
	}

	return buf
}

// decodeOperations parses a delta file's byte stream back into operations.
// wantCount comes from the sibling meta record and lets decoding stop
// exactly on a truncated or malformed trailing record rather than reading
// past it silently.
func decodeOperations(buf []byte, wantCount uint32) ([]delta.Operation, error) {
	ops := make([]delta.Operation, 0, wantCount)

	off := 0
	for i := uint32(0); i < wantCount; i++ {
		if off+opHeaderSize > len(buf) {
			return nil, fmt.Errorf("decode operation %d: truncated header: %w", i, ErrMetaMalformed)
		}

		typ := delta.OpType(binary.LittleEndian.Uint32(buf[off:]))
		if typ != delta.OpCopy && typ != delta.OpInsert && typ != delta.OpReplace {
			return nil, fmt.Errorf("decode operation %d: unknown type %d: %w", i, typ, ErrMetaMalformed)
		}

		refOffset := binary.LittleEndian.Uint32(buf[off+4:])
		length := binary.LittleEndian.Uint32(buf[off+8:])
		off += opHeaderSize

		op := delta.Operation{Type: typ, RefOffset: refOffset, Length: length}

		if typ != delta.OpCopy {
			if off+int(length) > len(buf) {
				return nil, fmt.Errorf("decode operation %d: truncated payload: %w", i, ErrMetaMalformed)
			}

			op.Bytes = make([]byte, length)
			copy(op.Bytes, buf[off:off+int(length)])
			off += int(length)
		}

		ops = append(ops, op)
	}

	return ops, nil
}

// Meta record layout (spec: metadata file format), little-endian, fixed at
// 600 bytes total:
//
//	offset 0   size 256  filename (null-padded)
//	offset 256 size 4    version
//	offset 260 size 4    original_size
//	offset 264 size 4    delta_size
//	offset 268 size 4    operation_count
//	offset 272 size 8    timestamp (seconds since epoch)
//	offset 280 size 64   checksum (ASCII hex, null-padded)
//	offset 344 size 256  message (null-padded)
//
// Offset 272 already falls on an 8-byte boundary, so the timestamp field's
// natural alignment requires no additional padding bytes within this field
// ordering; the record is serialised field-by-field below rather than via
// a Go struct, so no implicit compiler padding can ever creep in regardless.
const (
	metaFilenameSize = 256
	metaChecksumSize = 64
	metaMessageSize  = 256
	metaRecordSize   = metaFilenameSize + 4 + 4 + 4 + 4 + 8 + metaChecksumSize + metaMessageSize

	metaOffFilename  = 0
	metaOffVersion   = metaOffFilename + metaFilenameSize
	metaOffOrigSize  = metaOffVersion + 4
	metaOffDeltaSize = metaOffOrigSize + 4
	metaOffOpCount   = metaOffDeltaSize + 4
	metaOffTimestamp = metaOffOpCount + 4
	metaOffChecksum  = metaOffTimestamp + 8
	metaOffMessage   = metaOffChecksum + metaChecksumSize
)

func init() {
	if metaRecordSize != 600 {
		panic("store: metaRecordSize must be 600 bytes per the on-disk format")
	}
}

// encodeMeta serialises a VersionMeta to its fixed 600-byte wire form.
func encodeMeta(m VersionMeta) ([]byte, error) {
	buf := make([]byte, metaRecordSize)

	if err := putFixedString(buf[metaOffFilename:metaOffFilename+metaFilenameSize], m.Filename); err != nil {
		return nil, fmt.Errorf("encode meta: filename: %w", err)
	}

	binary.LittleEndian.PutUint32(buf[metaOffVersion:], m.Version)
	binary.LittleEndian.PutUint32(buf[metaOffOrigSize:], m.OriginalSize)
	binary.LittleEndian.PutUint32(buf[metaOffDeltaSize:], m.DeltaSize)
	binary.LittleEndian.PutUint32(buf[metaOffOpCount:], m.OperationCount)
	binary.LittleEndian.PutUint64(buf[metaOffTimestamp:], uint64(m.Timestamp.Unix()))

	if err := putFixedString(buf[metaOffChecksum:metaOffChecksum+metaChecksumSize], m.Checksum); err != nil {
		return nil, fmt.Errorf("encode meta: checksum: %w", err)
	}

	if err := putFixedString(buf[metaOffMessage:metaOffMessage+metaMessageSize], m.Message); err != nil {
		return nil, fmt.Errorf("encode meta: message: %w", err)
	}

	return buf, nil
}

// decodeMeta parses a fixed 600-byte meta record.
func decodeMeta(buf []byte) (VersionMeta, error) {
	if len(buf) != metaRecordSize {
		return VersionMeta{}, fmt.Errorf("decode meta: size %d, want %d: %w", len(buf), metaRecordSize, ErrMetaMalformed)
	}

	return VersionMeta{
		Filename:       getFixedString(buf[metaOffFilename : metaOffFilename+metaFilenameSize]),
		Version:        binary.LittleEndian.Uint32(buf[metaOffVersion:]),
		OriginalSize:   binary.LittleEndian.Uint32(buf[metaOffOrigSize:]),
		DeltaSize:      binary.LittleEndian.Uint32(buf[metaOffDeltaSize:]),
		OperationCount: binary.LittleEndian.Uint32(buf[metaOffOpCount:]),
		Timestamp:      time.Unix(int64(binary.LittleEndian.Uint64(buf[metaOffTimestamp:])), 0).UTC(),
		Checksum:       getFixedString(buf[metaOffChecksum : metaOffChecksum+metaChecksumSize]),
		Message:        getFixedString(buf[metaOffMessage : metaOffMessage+metaMessageSize]),
	}, nil
}

func putFixedString(dst []byte, s string) error {
	if len(s) >= len(dst) {
		return fmt.Errorf("value of %d bytes leaves no room for the null terminator in a %d-byte field", len(s), len(dst))
	}

	clear(dst)
	copy(dst, s)

	return nil
}

func getFixedString(src []byte) string {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}

	return string(src[:n])
}

// checksum computes the spec's advisory 32-bit additive byte-sum of ref,
// formatted as 8 lowercase hex digits.
func checksum(ref []byte) string {
	var sum uint32
	for _, b := range ref {
		sum += uint32(b)
	}

	return fmt.Sprintf("%08x", sum)
}
