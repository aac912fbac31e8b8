package pubtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video_syncer/internal/domain"
)

func TestNormalize(t *testing.T) {
	oct5 := time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name   string
		raw    any
		want   int64
		wantOK bool
	}{
		{"yyyymmdd", "20231005", oct5, true},
		{"yyyymmdd invalid month", "20231332", 0, false},
		{"yyyymmdd feb 30", "20230230", 0, false},
		{"dashed date", "2023-10-05", oct5, true},
		{"slashed date", "2023/10/05", oct5, true},
		{"dashed datetime", "2023-10-05 08:30:00", oct5 + (8*60+30)*60*1000, true},
		{"dashed garbage", "2023-13-45", 0, false},
		{"dotted date", "2023.10.05", oct5, true},
		{"iso datetime", "2023-10-05T08:30:00Z", oct5 + (8*60+30)*60*1000, true},
		{"single digit parts", "2023-10-5", oct5, true},
		{"cjk date", "2023年10月05日", oct5, true},
		{"cjk short parts", "2023年10月5日", oct5, true},
		{"cjk spaced", "2023 年 10 月 5 日", oct5, true},
		{"cjk datetime", "2023年10月05日 08:30", oct5 + (8*60+30)*60*1000, true},
		{"cjk invalid month", "2023年13月05日", 0, false},
		{"seconds string", "1696492800", 1696492800 * 1000, true},
		{"millis string", "1696492800123", 1696492800123, true},
		{"seconds number", 1696492800, 1696492800 * 1000, true},
		{"seconds float", float64(1696492800), 1696492800 * 1000, true},
		{"millis int64", int64(1696492800123), 1696492800123, true},
		{"json number", json.Number("1696492800"), 1696492800 * 1000, true},
		{"millis year 2000", int64(953280000000), 0, false},
		{"seconds year 2035", "2066630400", 0, false},
		{"padded string", "  20231005 ", oct5, true},
		{"words", "yesterday", 0, false},
		{"empty", "", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParse_Reasons(t *testing.T) {
	_, err := Parse(int64(953280000000))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, err, domain.ErrParse)

	_, err = Parse("20231332")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestParse_Bounds(t *testing.T) {
	first := time.Date(MinYear, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	last := time.Date(MaxYear, 12, 31, 23, 59, 59, 0, time.UTC).UnixMilli()

	got, err := Parse(first)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = Parse(last)
	require.NoError(t, err)
	assert.Equal(t, last, got)

	_, err = Parse(first - 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
