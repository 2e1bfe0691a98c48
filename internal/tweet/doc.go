// Package tweet defines the on-chain account layout for a single post.
//
// A tweet account is a fixed-size slot of exactly Len bytes:
//
//	[8  discriminator]
//	[32 author public key]
//	[8  timestamp, i64 little-endian]
//	[4  topic length, u32 little-endian][up to 200 topic bytes]
//	[4  content length, u32 little-endian][up to 1120 content bytes]
//
// Bytes past the encoded content are zero. Topic and content limits are
// counted in Unicode scalar values (50 and 280), while storage reserves four
// bytes per character for the worst-case UTF-8 encoding.
//
// Len is part of the persisted format. Changing it after accounts exist
// corrupts every stored record; there is no migration path.
package tweet
