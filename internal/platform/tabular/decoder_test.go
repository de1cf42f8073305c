package tabular

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecodeCSV(t *testing.T) {
	t.Run("empty buffer yields no rows", func(t *testing.T) {
		rows, err := DecodeCSV(nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("header only yields no rows", func(t *testing.T) {
		rows, err := DecodeCSV([]byte("id,season\n"))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("keys rows by trimmed header and skips empty lines", func(t *testing.T) {
		payload := "\xEF\xBB\xBFid, season ,homeTeam\r\nF1,2025, Lions \r\n\r\nF2,2026,\"Tigers, Bath\"\n"
		rows, err := DecodeCSV([]byte(payload))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, Row{"id": "F1", "season": "2025", "homeTeam": " Lions "}, rows[0])
		assert.Equal(t, "Tigers, Bath", rows[1]["homeTeam"])
	})

	t.Run("unbalanced quotes are malformed", func(t *testing.T) {
		_, err := DecodeCSV([]byte("id,season\n\"F1,2025\n"))
		var derr *DecodeError
		require.True(t, errors.As(err, &derr), "expected DecodeError, got %v", err)
		assert.Positive(t, derr.Line)
	})

	t.Run("inconsistent field count is malformed", func(t *testing.T) {
		_, err := DecodeCSV([]byte("id,season\nF1,2025,extra\n"))
		var derr *DecodeError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, 2, derr.Line)
	})
}

func TestDecodeXLSX(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"id", "season", "homeTeam"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"F1", "2025", "Lions"}))
	require.NoError(t, book.SetSheetRow(sheet, "A4", &[]any{"F2", "2026"}))
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, book.Close())

	rows, err := DecodeXLSX(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"id": "F1", "season": "2025", "homeTeam": "Lions"}, rows[0])
	assert.Equal(t, Row{"id": "F2", "season": "2026", "homeTeam": ""}, rows[1])

	t.Run("garbage is malformed", func(t *testing.T) {
		_, err := DecodeXLSX([]byte("not a workbook"))
		var derr *DecodeError
		assert.True(t, errors.As(err, &derr))
	})
}

func TestFormatFromName(t *testing.T) {
	format, err := FormatFromName("fixtures.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = FormatFromName("season.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	_, err = FormatFromName("fixtures.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
