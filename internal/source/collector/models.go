package collector

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type APIRequest struct {
	Token      string `json:"token"`
	Platform   string `json:"platform"`
	LinkType   string `json:"link_type"`
	UpdateMode string `json:"update_mode"`
	PageTurns  int    `json:"page_turns"`
	URL        string `json:"url"`
}

// APIResponse is either a video list or an error payload.
type APIResponse struct {
	Videos  []VideoDTO      `json:"videos"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

type VideoDTO struct {
	Nickname      string          `json:"nickname"`
	AwemeID       flexString      `json:"aweme_id"`
	ShareURL      string          `json:"share_url"`
	PublishTime   json.RawMessage `json:"publish_time"`
	Description   string          `json:"description"`
	Desc          string          `json:"desc"`
	DiggCount     flexInt         `json:"digg_count"`
	CollectCount  flexInt         `json:"collect_count"`
	CommentCount  flexInt         `json:"comment_count"`
	ShareCount    flexInt         `json:"share_count"`
	Duration      flexInt         `json:"duration"`
	PlayURL       string          `json:"play_url"`
	AudioURL      string          `json:"audio_url"`
	RawTranscript string          `json:"transcript_raw"`
	Transcript    string          `json:"transcript"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// flexInt accepts a JSON number or numeric string. Anything else, and
// negative values, decode as zero.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			*f = 0
			return nil
		}
		n = int64(fl)
	}
	if n < 0 {
		n = 0
	}
	*f = flexInt(n)
	return nil
}

// publishTime keeps the raw value for the normalizer: a string stays a
// string and a number becomes a json.Number.
func publishTime(raw json.RawMessage) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return s
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	if n, ok := v.(json.Number); ok {
		return n
	}
	return nil
}
