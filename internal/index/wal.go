package index

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"syscall"

	"github.com/google/uuid"

	"github.com/calvinalkan/revtrail/internal/fs"
)

// WAL record shape: magic(8) + body + footer(32), where the footer carries
// the body length (and its one's complement, for torn-write detection) and
// a CRC32C checksum (ditto). A record is "committed" only once the footer
// itself is fully and correctly written; anything short of that is
// discarded on recovery rather than partially trusted.
const (
	walMagic      = "RVWAL001"
	walFooterSize = 32
)

var walCRC32C = crc32.MakeTable(crc32.Castagnoli)

type walState uint8

const (
	walEmpty walState = iota
	walUncommitted
	walCommitted
)

// walRecord is the JSON body written between magic and footer. It carries a
// UUIDv7 sequencing id purely so concurrent Put calls (serialized by the
// caller's lock) leave an audit trail of write order; the id itself plays
// no role in applying the record to SQLite.
type walRecord struct {
	ID  string `json:"id"`
	Row Row    `json:"row"`
}

// putWAL appends one record to the WAL, preceded by truncating any stale
// committed-but-unapplied data (there should never be any, since every Put
// call applies and truncates before returning, but this keeps the WAL
// single-record and crash-safe even if a prior process died uncleanly).
func putWAL(file fs.File, row Row) (walRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return walRecord{}, fmt.Errorf("put wal: generate id: %w", err)
	}

	rec := walRecord{ID: id.String(), Row: row}

	body, err := json.Marshal(rec)
	if err != nil {
		return walRecord{}, fmt.Errorf("put wal: encode record: %w", err)
	}

	if err := writeWAL(file, body); err != nil {
		return walRecord{}, err
	}

	return rec, nil
}

// writeWAL truncates the WAL, writes magic+body+footer, and fsyncs so the
// record is durable before the caller applies it to SQLite.
func writeWAL(file fs.File, body []byte) error {
	if err := truncateWAL(file); err != nil {
		return fmt.Errorf("write wal: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("write wal: seek start: %w", err)
	}

	if _, err := file.Write([]byte(walMagic)); err != nil {
		return fmt.Errorf("write wal: write magic: %w", err)
	}

	if _, err := file.Write(body); err != nil {
		return fmt.Errorf("write wal: write body: %w", err)
	}

	footer := make([]byte, walFooterSize)

	bodyLen := uint64(len(body))
	binary.LittleEndian.PutUint64(footer[0:8], bodyLen)
	binary.LittleEndian.PutUint64(footer[8:16], ^bodyLen)

	crc := crc32.Checksum(body, walCRC32C)
	binary.LittleEndian.PutUint32(footer[16:20], crc)
	binary.LittleEndian.PutUint32(footer[20:24], ^crc)
	// Remaining 8 bytes of the footer are reserved and left zero.

	if _, err := file.Write(footer); err != nil {
		return fmt.Errorf("write wal: write footer: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("write wal: sync: %w", err)
	}

	return nil
}

// readWALState inspects the WAL magic, footer, and checksum to classify its
// state. For a committed WAL it also returns the validated body bytes.
func readWALState(file fs.File) (walState, []byte, error) {
	info, err := file.Stat()
	if err != nil {
		return walEmpty, nil, fmt.Errorf("stat wal: %w", err)
	}

	size := info.Size()
	minSize := int64(len(walMagic) + walFooterSize)

	if size == 0 {
		return walEmpty, nil, nil
	}

	if size < minSize {
		return walUncommitted, nil, nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return walEmpty, nil, fmt.Errorf("seek wal start: %w", err)
	}

	magicBuf := make([]byte, len(walMagic))
	if _, err := io.ReadFull(file, magicBuf); err != nil {
		return walEmpty, nil, fmt.Errorf("read wal magic: %w", err)
	}

	if string(magicBuf) != walMagic {
		return walUncommitted, nil, nil
	}

	footerBuf := make([]byte, walFooterSize)

	if _, err := file.Seek(size-walFooterSize, io.SeekStart); err != nil {
		return walEmpty, nil, fmt.Errorf("seek wal footer: %w", err)
	}

	if _, err := io.ReadFull(file, footerBuf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return walUncommitted, nil, nil
		}

		return walEmpty, nil, fmt.Errorf("read wal footer: %w", err)
	}

	bodyLen := binary.LittleEndian.Uint64(footerBuf[0:8])
	bodyLenInv := binary.LittleEndian.Uint64(footerBuf[8:16])

	if ^bodyLen != bodyLenInv {
		return walUncommitted, nil, nil
	}

	crc := binary.LittleEndian.Uint32(footerBuf[16:20])
	crcInv := binary.LittleEndian.Uint32(footerBuf[20:24])

	if ^crc != crcInv {
		return walUncommitted, nil, nil
	}

	if bodyLen > math.MaxInt64 {
		return walUncommitted, nil, nil
	}

	maxBody := size - int64(len(walMagic)) - walFooterSize
	if int64(bodyLen) > maxBody {
		return walUncommitted, nil, nil
	}

	if _, err := file.Seek(int64(len(walMagic)), io.SeekStart); err != nil {
		return walEmpty, nil, fmt.Errorf("seek wal body: %w", err)
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(file, body); err != nil {
		return walEmpty, nil, fmt.Errorf("read wal body: %w", err)
	}

	checksum := crc32.Checksum(body, walCRC32C)
	if checksum != crc {
		return walCommitted, nil, fmt.Errorf("wal checksum mismatch (expected %08x got %08x): %w", crc, checksum, ErrWALCorrupt)
	}

	return walCommitted, body, nil
}

// truncateWAL clears the WAL and fsyncs so a subsequent reader never
// observes a half-overwritten record.
func truncateWAL(file fs.File) error {
	if err := syscall.Ftruncate(int(file.Fd()), 0); err != nil {
		return fmt.Errorf("truncate wal: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync wal: %w", err)
	}

	return nil
}

// decodeWALRecord parses and validates a committed WAL body.
func decodeWALRecord(body []byte) (walRecord, error) {
	var rec walRecord

	if err := json.Unmarshal(body, &rec); err != nil {
		return walRecord{}, fmt.Errorf("decode wal record: %w: %w", ErrWALReplay, err)
	}

	if _, err := uuid.Parse(rec.ID); err != nil {
		return walRecord{}, fmt.Errorf("decode wal record: invalid id %q: %w: %w", rec.ID, ErrWALReplay, err)
	}

	if rec.Row.Name == "" {
		return walRecord{}, fmt.Errorf("decode wal record: empty name: %w", ErrWALReplay)
	}

	return rec, nil
}
