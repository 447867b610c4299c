package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
)

const csvBody = "title\nexported\nnote\nID,Q1\n101,はい\n102,いいえ\n"

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newReader(t *testing.T, encodings ...string) *RecordReader {
	t.Helper()
	r, err := NewRecordReader(encodings, DefaultSkipLines, zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestReadFile_Encodings(t *testing.T) {
	dir := t.TempDir()
	sjis, err := japanese.ShiftJIS.NewEncoder().String(csvBody)
	require.NoError(t, err)

	tests := []struct {
		name     string
		data     []byte
		encoding string
	}{
		{"utf-8 with BOM", append([]byte("\xef\xbb\xbf"), csvBody...), "utf-8-sig"},
		{"plain utf-8", []byte(csvBody), "utf-8-sig"},
		{"shift_jis", []byte(sjis), "cp932"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".csv", tt.data)
			batch, err := newReader(t).ReadFile(path)
			require.NoError(t, err)

			assert.Equal(t, tt.encoding, batch.Encoding)
			assert.Equal(t, []models.Record{{"101", "はい"}, {"102", "いいえ"}}, batch.Records)
		})
	}
}

func TestReadFile_Undecodable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.csv", []byte("a,b\n\xff\xfe\xfd\n"))

	_, err := newReader(t).ReadFile(path)
	assert.ErrorIs(t, err, ErrUndecodable)

	_, err = newReader(t, "utf-8").ReadFile(path)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestReadFile_ShortFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "short.csv", []byte("a\nb\nc\nd\n"))
	batch, err := newReader(t).ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, batch.Records)
}

func TestReadFile_BlankLines(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []models.Record
	}{
		{
			name: "blank line in skip region",
			body: "title\nexported\n\nID,Q1\n101,a\n102,b\n",
			want: []models.Record{{"101", "a"}, {"102", "b"}},
		},
		{
			name: "blank lines between records",
			body: "h\nh\nh\nh\n101,a\n\n\n102,b\n",
			want: []models.Record{{"101", "a"}, {}, {}, {"102", "b"}},
		},
		{
			name: "blank line before first record and at end",
			body: "h\nh\nh\nh\n\n101,a\r\n\r\n",
			want: []models.Record{{}, {"101", "a"}, {}},
		},
		{
			name: "quoted field spanning lines",
			body: "h\nh\nh\nh\n101,\"x\ny\"\n\n102,b\n",
			want: []models.Record{{"101", "x\ny"}, {}, {"102", "b"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "blank.csv", []byte(tt.body))
			batch, err := newReader(t).ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, batch.Records)
		})
	}
}

func TestReadFile_RaggedRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ragged.csv", []byte("h\nh\nh\nh\n1,a,b\n2\n3,\"x,y\"\n"))
	batch, err := newReader(t).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Record{{"1", "a", "b"}, {"2"}, {"3", "x,y"}}, batch.Records)
}

func TestReadAll_SkipsUndecodable(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.csv", []byte(csvBody))
	bad := writeFile(t, dir, "b.csv", []byte("\xff\xfe\xfd"))
	good2 := writeFile(t, dir, "c.csv", []byte("h\nh\nh\nh\n103,x\n"))

	batches, err := newReader(t).ReadAll([]string{good, bad, good2})
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0].Records, 2)
	assert.Empty(t, batches[1].Records)
	assert.Equal(t, bad, batches[1].Source)
	assert.Len(t, batches[2].Records, 1)

	_, err = newReader(t).ReadAll([]string{filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}

func TestNewRecordReader_Validation(t *testing.T) {
	_, err := NewRecordReader([]string{"no-such-encoding"}, 4, nil)
	assert.Error(t, err)

	_, err = NewRecordReader(nil, -1, nil)
	assert.Error(t, err)

	r, err := NewRecordReader([]string{"EUC-JP", "ISO-8859-1"}, 0, nil)
	require.NoError(t, err)
	assert.Len(t, r.decoders, 2)
}
