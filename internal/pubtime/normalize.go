// Package pubtime turns publish times of arbitrary upstream quality into
// millisecond epoch timestamps.
package pubtime

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"video_syncer/internal/domain"
)

const (
	MinYear = 2010
	MaxYear = 2030

	// values below this are epoch seconds
	secondsCeiling = 10_000_000_000
)

var (
	ErrUnparseable = fmt.Errorf("%w: unparseable publish time", domain.ErrParse)
	ErrOutOfRange  = fmt.Errorf("%w: publish time out of range", domain.ErrParse)

	eightDigits = regexp.MustCompile(`^\d{8}$`)
	allDigits   = regexp.MustCompile(`^\d+$`)
	// separators may be ASCII or 年/月/日 as Douyin and Xiaohongshu render them
	ymdPattern  = regexp.MustCompile(`^(\d{4})\s*[-/.年]\s*(\d{1,2})\s*[-/.月]\s*(\d{1,2})\s*[日号]?(.*)$`)
)

// Normalize returns the publish time in epoch milliseconds, or false when the
// value cannot be trusted.
func Normalize(raw any) (int64, bool) {
	ms, err := Parse(raw)
	return ms, err == nil
}

// Parse is Normalize with the reason for rejection.
func Parse(raw any) (int64, error) {
	ms, err := candidate(raw)
	if err != nil {
		return 0, err
	}
	year := time.UnixMilli(ms).UTC().Year()
	if year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("%w: year %d", ErrOutOfRange, year)
	}
	return ms, nil
}

func candidate(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, ErrUnparseable
	case string:
		return fromString(v)
	case json.Number:
		if allDigits.MatchString(v.String()) {
			n, err := strconv.ParseInt(v.String(), 10, 64)
			if err == nil {
				return fromInt(n), nil
			}
		}
		f, err := v.Float64()
		if err != nil {
			return 0, ErrUnparseable
		}
		return fromNumber(f), nil
	case int:
		return fromInt(int64(v)), nil
	case int32:
		return fromInt(int64(v)), nil
	case int64:
		return fromInt(v), nil
	case uint32:
		return fromInt(int64(v)), nil
	case uint64:
		return fromNumber(float64(v)), nil
	case float32:
		return fromNumber(float64(v)), nil
	case float64:
		return fromNumber(v), nil
	default:
		return 0, fmt.Errorf("%w: type %T", ErrUnparseable, raw)
	}
}

func fromString(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrUnparseable
	}

	if eightDigits.MatchString(s) {
		y, _ := strconv.Atoi(s[0:4])
		m, _ := strconv.Atoi(s[4:6])
		d, _ := strconv.Atoi(s[6:8])
		t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
		if t.Year() != y || int(t.Month()) != m || t.Day() != d {
			return 0, fmt.Errorf("%w: invalid calendar date %q", ErrUnparseable, s)
		}
		return t.UnixMilli(), nil
	}

	if m := ymdPattern.FindStringSubmatch(s); m != nil {
		t, err := dateparse.ParseIn(canonicalYMD(m), time.UTC)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		return t.UnixMilli(), nil
	}

	if allDigits.MatchString(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		if len(s) <= 10 {
			return n * 1000, nil
		}
		return n, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

// canonicalYMD rewrites a ymdPattern match as YYYY-MM-DD followed by any time part.
func canonicalYMD(m []string) string {
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	out := fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
	rest := strings.TrimSpace(m[4])
	switch {
	case rest == "":
	case rest[0] == 'T':
		out += rest
	default:
		out += " " + rest
	}
	return out
}

func fromInt(n int64) int64 {
	if n < secondsCeiling {
		return n * 1000
	}
	return n
}

func fromNumber(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f < secondsCeiling {
		return int64(math.Round(f * 1000))
	}
	return int64(math.Round(f))
}
