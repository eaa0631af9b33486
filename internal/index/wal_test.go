package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/revtrail/internal/fs"
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()

	buf, err := json.Marshal(v)
	require.NoError(t, err)

	return buf
}

func openWALFile(t *testing.T) fs.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "index.wal")

	f, err := fs.NewReal().OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	return f
}

func Test_ReadWALState_EmptyFile(t *testing.T) {
	t.Parallel()

	f := openWALFile(t)

	state, body, err := readWALState(f)
	require.NoError(t, err)
	require.Equal(t, walEmpty, state)
	require.Nil(t, body)
}

func Test_PutWAL_Then_ReadWALState_ReturnsCommitted(t *testing.T) {
	t.Parallel()

	f := openWALFile(t)
	row := Row{Name: "widget.txt", Version: 1, Timestamp: 1000, Checksum: "abc"}

	rec, err := putWAL(f, row)
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	state, body, err := readWALState(f)
	require.NoError(t, err)
	require.Equal(t, walCommitted, state)

	decoded, err := decodeWALRecord(body)
	require.NoError(t, err)
	require.Equal(t, rec, decoded)
}

func Test_TruncateWAL_ResetsToEmpty(t *testing.T) {
	t.Parallel()

	f := openWALFile(t)

	_, err := putWAL(f, Row{Name: "widget.txt", Version: 1})
	require.NoError(t, err)

	require.NoError(t, truncateWAL(f))

	state, _, err := readWALState(f)
	require.NoError(t, err)
	require.Equal(t, walEmpty, state)
}

func Test_ReadWALState_DetectsShortGarbage(t *testing.T) {
	t.Parallel()

	f := openWALFile(t)

	_, err := f.Write([]byte("xx"))
	require.NoError(t, err)

	state, body, err := readWALState(f)
	require.NoError(t, err)
	require.Equal(t, walUncommitted, state)
	require.Nil(t, body)
}

func Test_ReadWALState_DetectsBadMagic(t *testing.T) {
	t.Parallel()

	f := openWALFile(t)

	_, err := putWAL(f, Row{Name: "widget.txt", Version: 1})
	require.NoError(t, err)

	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte("XXXXXXXX"))
	require.NoError(t, err)

	state, _, err := readWALState(f)
	require.NoError(t, err)
	require.Equal(t, walUncommitted, state)
}

func Test_ReadWALState_DetectsCorruptBody(t *testing.T) {
	t.Parallel()

	f := openWALFile(t)

	_, err := putWAL(f, Row{Name: "widget.txt", Version: 1, Checksum: "abc"})
	require.NoError(t, err)

	// Stomp a byte in the middle of the JSON body without touching the
	// footer, so the checksum no longer matches.
	_, err = f.Seek(int64(len(walMagic)), 0)
	require.NoError(t, err)
	_, err = f.Write([]byte("Z"))
	require.NoError(t, err)

	_, _, err = readWALState(f)
	require.ErrorIs(t, err, ErrWALCorrupt)
}

func Test_DecodeWALRecord_RejectsInvalidUUID(t *testing.T) {
	t.Parallel()

	_, err := decodeWALRecord([]byte(`{"id":"not-a-uuid","row":{"Name":"x"}}`))
	require.ErrorIs(t, err, ErrWALReplay)
}

func Test_DecodeWALRecord_RejectsEmptyName(t *testing.T) {
	t.Parallel()

	f := openWALFile(t)

	rec, err := putWAL(f, Row{Name: "placeholder"})
	require.NoError(t, err)

	_, _, err = readWALState(f)
	require.NoError(t, err)

	rec.Row.Name = ""

	_, err = decodeWALRecord(mustMarshal(t, rec))
	require.ErrorIs(t, err, ErrWALReplay)
}
