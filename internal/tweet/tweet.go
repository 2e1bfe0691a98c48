package tweet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
)

// Codec errors.
var (
	ErrShortBuffer          = errors.New("tweet: buffer shorter than account length")
	ErrInvalidDiscriminator = errors.New("tweet: account discriminator mismatch")
	ErrFieldTooLarge        = errors.New("tweet: field exceeds reserved bytes")
	ErrInvalidUTF8          = errors.New("tweet: field is not valid UTF-8")
)

// Tweet is one persisted post.
type Tweet struct {
	Author    solana.PublicKey `json:"author"`
	Timestamp int64            `json:"timestamp"`
	Topic     string           `json:"topic"`
	Content   string           `json:"content"`
}

// MarshalBinary encodes t into a fresh slot of exactly Len bytes.
func (t Tweet) MarshalBinary() ([]byte, error) {
	buf := make([]byte, Len)
	if err := t.EncodeInto(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeInto writes t over slot, which must be at least Len bytes long.
// Bytes after the encoded content are zeroed. Nothing is written when
// a field fails its bounds check.
func (t Tweet) EncodeInto(slot []byte) error {
	if len(slot) < Len {
		return fmt.Errorf("encode: %w (have %d, need %d)", ErrShortBuffer, len(slot), Len)
	}
	if err := checkField("topic", t.Topic, MaxTopicLength); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := checkField("content", t.Content, MaxContentLength); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	clear(slot[:Len])
	copy(slot[:DiscriminatorLength], Discriminator[:])
	copy(slot[authorOffset:timestampOffset], t.Author[:])
	binary.LittleEndian.PutUint64(slot[timestampOffset:topicOffset], uint64(t.Timestamp))

	off := putString(slot, topicOffset, t.Topic)
	putString(slot, off, t.Content)
	return nil
}

// UnmarshalBinary decodes a committed slot into t.
func (t *Tweet) UnmarshalBinary(data []byte) error {
	if len(data) < Len {
		return fmt.Errorf("decode: %w (have %d, need %d)", ErrShortBuffer, len(data), Len)
	}
	if !bytes.Equal(data[:DiscriminatorLength], Discriminator[:]) {
		return fmt.Errorf("decode: %w", ErrInvalidDiscriminator)
	}

	var out Tweet
	copy(out.Author[:], data[authorOffset:timestampOffset])
	out.Timestamp = int64(binary.LittleEndian.Uint64(data[timestampOffset:topicOffset]))

	topic, off, err := readString(data, topicOffset, MaxTopicLength)
	if err != nil {
		return fmt.Errorf("decode topic: %w", err)
	}
	content, _, err := readString(data, off, MaxContentLength)
	if err != nil {
		return fmt.Errorf("decode content: %w", err)
	}
	out.Topic = topic
	out.Content = content

	*t = out
	return nil
}

// Decode is a convenience wrapper around UnmarshalBinary.
func Decode(data []byte) (Tweet, error) {
	var t Tweet
	err := t.UnmarshalBinary(data)
	return t, err
}

func checkField(name, s string, max int) error {
	if len(s) > max {
		return fmt.Errorf("%s: %w (%d > %d bytes)", name, ErrFieldTooLarge, len(s), max)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s: %w", name, ErrInvalidUTF8)
	}
	return nil
}

// putString writes a u32 length prefix and the bytes of s at off and
// returns the offset just past them.
func putString(buf []byte, off int, s string) int {
	binary.LittleEndian.PutUint32(buf[off:off+StringPrefixLength], uint32(len(s)))
	off += StringPrefixLength
	return off + copy(buf[off:], s)
}

func readString(buf []byte, off, max int) (string, int, error) {
	n := int(binary.LittleEndian.Uint32(buf[off : off+StringPrefixLength]))
	off += StringPrefixLength
	if n > max {
		return "", 0, fmt.Errorf("%w (%d > %d bytes)", ErrFieldTooLarge, n, max)
	}
	if off+n > len(buf) {
		return "", 0, ErrShortBuffer
	}
	s := string(buf[off : off+n])
	if !utf8.ValidString(s) {
		return "", 0, ErrInvalidUTF8
	}
	return s, off + n, nil
}
