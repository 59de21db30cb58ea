package models

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureReports(t *testing.T) *[]string {
	t.Helper()
	var mu sync.Mutex
	var seen []string
	SetMalformedListReporter(func(raw string, err error) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, raw)
	})
	t.Cleanup(func() { SetMalformedListReporter(nil) })
	return &seen
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]string{
		{"a"},
		{"Tăng năng suất", "Giảm bệnh", "Tăng năng suất"},
		{"", "  padded  ", `quote " and \ backslash`},
		{"🌱", "line\nbreak"},
	}
	for _, list := range cases {
		encoded := EncodeStringList(list)
		require.NotNil(t, encoded)
		assert.Equal(t, StringList(list), DecodeStringList(*encoded))
	}
}

func TestEncodeEmptyIsAbsent(t *testing.T) {
	assert.Nil(t, EncodeStringList(nil))
	assert.Nil(t, EncodeStringList([]string{}))

	v, err := StringList{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = StringList{"x", "y"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["x","y"]`, v)
}

func TestDecodeNeverFails(t *testing.T) {
	reports := captureReports(t)

	inputs := []any{
		nil,
		"",
		"   ",
		"null",
		"not json",
		`{"a":1}`,
		`"scalar"`,
		`42`,
		`[1,2,3]`,
		`["ok", 5]`,
		`["unterminated"`,
		[]byte(`["bytes"]`),
		12.5,
	}
	for _, in := range inputs {
		got := DecodeStringList(in)
		assert.NotNil(t, got, "input %v", in)
	}

	assert.Equal(t, StringList{"bytes"}, DecodeStringList([]byte(`["bytes"]`)))
	assert.Len(t, *reports, 8, "only non-empty undecodable values are reported")
}

func TestDecodeBlankIsNotReported(t *testing.T) {
	reports := captureReports(t)

	var blank *string
	assert.Empty(t, DecodeStringList(blank))
	assert.Empty(t, DecodeStringList("  \n"))
	assert.Empty(t, *reports)
}

func TestScanNeverErrors(t *testing.T) {
	captureReports(t)

	var list StringList
	require.NoError(t, list.Scan("{broken"))
	assert.Equal(t, StringList{}, list)

	require.NoError(t, list.Scan(`["a","b"]`))
	assert.Equal(t, StringList{"a", "b"}, list)

	require.NoError(t, list.Scan(nil))
	assert.Equal(t, StringList{}, list)
}

func TestMarshalJSONAlwaysArray(t *testing.T) {
	var nilList StringList
	data, err := json.Marshal(struct {
		Tags StringList `json:"tags"`
	}{Tags: nilList})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(data))
}

func TestUnmarshalJSONRejectsNonList(t *testing.T) {
	var list StringList
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &list))
	assert.Equal(t, StringList{"a", "b"}, list)

	require.NoError(t, json.Unmarshal([]byte(`null`), &list))
	assert.Nil(t, list)

	for _, bad := range []string{`"a,b"`, `{"a":"b"}`, `[1]`, `true`, `3`} {
		err := json.Unmarshal([]byte(bad), &list)
		require.Error(t, err, bad)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), bad)
	}
}
