package tweet

import (
	"bytes"
	"crypto/sha256"
	"unicode/utf8"
)

// Field sizes of the persisted layout.
const (
	DiscriminatorLength = 8
	AuthorLength        = 32
	TimestampLength     = 8
	StringPrefixLength  = 4

	// MaxTopicChars is the topic limit in Unicode scalar values.
	MaxTopicChars = 50
	// MaxContentChars is the content limit in Unicode scalar values.
	MaxContentChars = 280

	// MaxTopicLength reserves four bytes per topic character.
	MaxTopicLength = MaxTopicChars * utf8.UTFMax
	// MaxContentLength reserves four bytes per content character.
	MaxContentLength = MaxContentChars * utf8.UTFMax
)

// Len is the exact number of bytes allocated for one tweet account: 1376.
const Len = DiscriminatorLength +
	AuthorLength +
	TimestampLength +
	StringPrefixLength + MaxTopicLength +
	StringPrefixLength + MaxContentLength

// Offsets of the fixed-position fields.
const (
	authorOffset    = DiscriminatorLength
	timestampOffset = authorOffset + AuthorLength
	topicOffset     = timestampOffset + TimestampLength
)

// accountNamespace prefixes the account kind name when deriving its
// discriminator. Format: sha256("account:" + name)[:8].
const accountNamespace = "account:"

// Discriminator tags every committed tweet account.
var Discriminator = AccountDiscriminator("Tweet")

// AccountDiscriminator derives the 8-byte account-kind tag for name.
func AccountDiscriminator(name string) [DiscriminatorLength]byte {
	sum := sha256.Sum256([]byte(accountNamespace + name))
	var d [DiscriminatorLength]byte
	copy(d[:], sum[:DiscriminatorLength])
	return d
}

// State is the lifecycle state of a tweet slot.
type State int

const (
	// Uninitialized means the slot exists but carries no record.
	Uninitialized State = iota
	// Committed means the slot holds a validated record.
	Committed
	// Foreign means the slot carries some other account kind.
	Foreign
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Committed:
		return "committed"
	default:
		return "foreign"
	}
}

// StateOf reports the lifecycle state of a raw slot.
func StateOf(data []byte) State {
	if len(data) < DiscriminatorLength {
		return Uninitialized
	}
	head := data[:DiscriminatorLength]
	if bytes.Equal(head, Discriminator[:]) {
		return Committed
	}
	var zero [DiscriminatorLength]byte
	if bytes.Equal(head, zero[:]) {
		return Uninitialized
	}
	return Foreign
}

// CharCount returns the number of Unicode scalar values in s.
// Invalid UTF-8 bytes count as one character each.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}
