package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalUseNumberKeepsLiterals(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, UnmarshalUseNumber([]byte(`{"views": 12345678901234567890, "ratio": 0.50}`), &doc))

	views, ok := doc["views"].(Number)
	require.True(t, ok, "expected Number, got %T", doc["views"])
	assert.Equal(t, "12345678901234567890", views.String())
	assert.Equal(t, Number("0.50"), doc["ratio"])
}

func TestValid(t *testing.T) {
	assert.True(t, Valid([]byte(`{"a":1}`)))
	assert.True(t, Valid([]byte(`[1, 2, 3]`)))
	assert.False(t, Valid([]byte(`{"a":}`)))
	assert.False(t, Valid([]byte(`{"a":1} trailing`)))
}

func TestNewEncoderDoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(map[string]string{"url": "https://x.com/?a=1&b=<2>"}))
	assert.Equal(t, "{\"url\":\"https://x.com/?a=1&b=<2>\"}\n", buf.String())
}

func TestStreamingEncoderArray(t *testing.T) {
	var buf bytes.Buffer
	enc := NewStreamingEncoder(&buf, true)
	require.NoError(t, enc.Encode(map[string]int{"a": 1}))
	require.NoError(t, enc.Encode(map[string]int{"a": 2}))
	require.NoError(t, enc.Close())

	var decoded []map[string]int
	require.NoError(t, Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []map[string]int{{"a": 1}, {"a": 2}}, decoded)
}

func TestStreamingEncoderEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	enc := NewStreamingEncoder(&buf, true)
	require.NoError(t, enc.Close())
	assert.Equal(t, "[]\n", buf.String())
}

func TestStreamingEncoderLines(t *testing.T) {
	var buf bytes.Buffer
	enc := NewStreamingEncoder(&buf, false)
	require.NoError(t, enc.Encode(map[string]string{"k": "v1"}))
	require.NoError(t, enc.Encode(map[string]string{"k": "v2"}))
	require.NoError(t, enc.Close())
	assert.Equal(t, "{\"k\":\"v1\"}\n{\"k\":\"v2\"}\n", buf.String())
}

func TestBufferPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("used")
	PutBuffer(buf)

	again := GetBuffer()
	assert.Equal(t, 0, again.Len())
	PutBuffer(again)
}
