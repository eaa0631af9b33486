package store

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/revtrail/internal/delta"
)

func Test_EncodeDecodeOperations_RoundTrip(t *testing.T) {
	t.Parallel()

	d := delta.Delta{
		Operations: []delta.Operation{
			{Type: delta.OpCopy, RefOffset: 0, Length: 11},
			{Type: delta.OpInsert, RefOffset: 0, Length: 5, Bytes: []byte("hello")},
			{Type: delta.OpReplace, RefOffset: 11, Length: 3, Bytes: []byte("xyz")},
		},
		OriginalSize:   11,
		NewSize:        19,
		OperationCount: 3,
		DeltaSize:      8, // len("hello") + len("xyz")
	}

	buf := encodeOperations(d.Operations)

	gotOps, err := decodeOperations(buf, d.OperationCount)
	require.NoError(t, err)

	got := delta.Delta{
		Operations:     gotOps,
		OriginalSize:   d.OriginalSize,
		NewSize:        d.NewSize,
		OperationCount: d.OperationCount,
		DeltaSize:      d.DeltaSize,
	}

	if diff := cmp.Diff(d, got); diff != "" {
		t.Fatalf("decoded delta mismatches the encoded one (-want +got):\n%s", diff)
	}
}

func Test_EncodeDecodeOperations_EmptyStream(t *testing.T) {
	t.Parallel()

	buf := encodeOperations(nil)
	require.Empty(t, buf)

	got, err := decodeOperations(buf, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

func Test_DecodeOperations_RejectsTruncatedHeader(t *testing.T) {
	t.Parallel()

	buf := encodeOperations([]delta.Operation{{Type: delta.OpCopy, RefOffset: 0, Length: 4}})

	_, err := decodeOperations(buf[:opHeaderSize-1], 1)
	require.ErrorIs(t, err, ErrMetaMalformed)
}

func Test_DecodeOperations_RejectsTruncatedPayload(t *testing.T) {
	t.Parallel()

	buf := encodeOperations([]delta.Operation{{Type: delta.OpInsert, RefOffset: 0, Length: 5, Bytes: []byte("hello")}})

	_, err := decodeOperations(buf[:len(buf)-2], 1)
	require.ErrorIs(t, err, ErrMetaMalformed)
}

func Test_DecodeOperations_RejectsUnknownType(t *testing.T) {
	t.Parallel()

	buf := encodeOperations([]delta.Operation{{Type: delta.OpCopy, RefOffset: 0, Length: 4}})
	buf[0] = 99 // stomp the type field

	_, err := decodeOperations(buf, 1)
	require.ErrorIs(t, err, ErrMetaMalformed)
}

func Test_EncodeDecodeMeta_RoundTrip(t *testing.T) {
	t.Parallel()

	m := VersionMeta{
		Filename:       "widget_txt_v3.delta",
		Version:        3,
		OriginalSize:   1024,
		DeltaSize:      42,
		OperationCount: 5,
		Timestamp:      time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC),
		Checksum:       "0badc0de",
		Message:        "third revision",
	}

	buf, err := encodeMeta(m)
	require.NoError(t, err)
	require.Len(t, buf, 600)

	got, err := decodeMeta(buf)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func Test_EncodeMeta_RejectsOversizedField(t *testing.T) {
	t.Parallel()

	m := VersionMeta{Filename: strings.Repeat("x", metaFilenameSize+1)}

	_, err := encodeMeta(m)
	require.Error(t, err)
}

func Test_DecodeMeta_RejectsWrongSize(t *testing.T) {
	t.Parallel()

	_, err := decodeMeta(make([]byte, 599))
	require.ErrorIs(t, err, ErrMetaMalformed)
}

func Test_Checksum_IsDeterministic(t *testing.T) {
	t.Parallel()

	require.Equal(t, checksum([]byte("hello")), checksum([]byte("hello")))
	require.NotEqual(t, checksum([]byte("hello")), checksum([]byte("world")))
	require.Equal(t, "00000000", checksum(nil))
	require.Len(t, checksum([]byte("hello")), 8)
}

func Test_GetFixedString_StopsAtFirstNull(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 8)
	copy(buf, "abc")

	require.Equal(t, "abc", getFixedString(buf))
}
