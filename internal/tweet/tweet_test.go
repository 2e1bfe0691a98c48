package tweet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthor() solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = byte(i + 1)
	}
	return pk
}

func TestLen(t *testing.T) {
	assert.Equal(t, 1376, Len)
	assert.Equal(t, 8+32+8+(4+200)+(4+1120), Len)
	assert.Equal(t, 200, MaxTopicLength)
	assert.Equal(t, 1120, MaxContentLength)
}

func TestDiscriminator(t *testing.T) {
	want := [DiscriminatorLength]byte{229, 13, 110, 58, 118, 6, 20, 79}
	assert.Equal(t, want, Discriminator)
	assert.NotEqual(t, Discriminator, AccountDiscriminator("Other"))
}

func TestMarshalBinary_ExactLength(t *testing.T) {
	tw := Tweet{Author: testAuthor(), Timestamp: 1, Topic: "", Content: ""}
	data, err := tw.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, Len)
}

func TestMarshalBinary_GoldenLayout(t *testing.T) {
	tw := Tweet{
		Author:    testAuthor(),
		Timestamp: 1700000000,
		Topic:     "hello",
		Content:   "world",
	}
	data, err := tw.MarshalBinary()
	require.NoError(t, err)

	used := DiscriminatorLength + AuthorLength + TimestampLength +
		StringPrefixLength + len(tw.Topic) +
		StringPrefixLength + len(tw.Content)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "hello_world_layout", []byte(hex.EncodeToString(data[:used])))

	// Tail of the slot stays zero.
	for i, b := range data[used:] {
		require.Zero(t, b, "byte %d past content should be zero", used+i)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		content string
	}{
		{"ascii", "Veganism", "Hummus is good"},
		{"empty topic", "", "Good morning"},
		{"multibyte", "日本語", "こんにちは 🌍"},
		{"max ascii", strings.Repeat("x", MaxTopicChars), strings.Repeat("y", MaxContentChars)},
		{"max four-byte", strings.Repeat("𝄞", MaxTopicChars), strings.Repeat("😀", MaxContentChars)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Tweet{Author: testAuthor(), Timestamp: -42, Topic: tt.topic, Content: tt.content}
			data, err := in.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, data, Len)

			out, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestEncodeInto_RejectsOversizedField(t *testing.T) {
	slot := make([]byte, Len)
	tw := Tweet{Topic: strings.Repeat("x", MaxTopicLength+1)}

	err := tw.EncodeInto(slot)
	require.ErrorIs(t, err, ErrFieldTooLarge)
	assert.Equal(t, make([]byte, Len), slot, "slot must be untouched on failure")

	tw = Tweet{Content: strings.Repeat("x", MaxContentLength+1)}
	require.ErrorIs(t, tw.EncodeInto(slot), ErrFieldTooLarge)
}

func TestEncodeInto_RejectsInvalidUTF8(t *testing.T) {
	tw := Tweet{Topic: "\xff\xfe"}
	_, err := tw.MarshalBinary()
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestEncodeInto_ShortSlot(t *testing.T) {
	err := Tweet{}.EncodeInto(make([]byte, Len-1))
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestDecode_Errors(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		_, err := Decode(make([]byte, 10))
		require.ErrorIs(t, err, ErrShortBuffer)
	})

	t.Run("uninitialized", func(t *testing.T) {
		_, err := Decode(make([]byte, Len))
		require.ErrorIs(t, err, ErrInvalidDiscriminator)
	})

	t.Run("corrupt topic length", func(t *testing.T) {
		data, err := Tweet{Topic: "a", Content: "b"}.MarshalBinary()
		require.NoError(t, err)
		data[topicOffset] = 0xff
		data[topicOffset+1] = 0xff
		_, err = Decode(data)
		require.ErrorIs(t, err, ErrFieldTooLarge)
	})
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, Uninitialized, StateOf(make([]byte, Len)))
	assert.Equal(t, Uninitialized, StateOf(nil))

	data, err := Tweet{Content: "x"}.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, Committed, StateOf(data))

	data[0] ^= 0xff
	assert.Equal(t, Foreign, StateOf(data))
	assert.Equal(t, "committed", Committed.String())
}

func TestCharCount(t *testing.T) {
	assert.Equal(t, 0, CharCount(""))
	assert.Equal(t, 5, CharCount("hello"))
	assert.Equal(t, 3, CharCount("日本語"))
	assert.Equal(t, 1, CharCount("😀"))
	// e + combining acute accent is two scalar values.
	assert.Equal(t, 2, CharCount("e\u0301"))
}
