package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/soltweet/internal/program"
	"github.com/roach88/soltweet/internal/runtime"
	"github.com/roach88/soltweet/internal/tweet"
)

// LayoutField is one field of the account layout.
//
// Offset is exact for fixed fields. Fields stored after the topic have
// Follows set to "topic": their offset is Offset plus the topic's byte
// length, since content is packed right after the topic bytes.
type LayoutField struct {
	Name    string `json:"name"`
	Offset  int    `json:"offset"`
	Size    int    `json:"size"`
	Follows string `json:"follows,omitempty"`
}

// LayoutResult describes the tweet account layout.
type LayoutResult struct {
	ProgramID       string        `json:"program_id"`
	Discriminator   string        `json:"discriminator"`
	Size            int           `json:"size"`
	RentExemptMin   uint64        `json:"rent_exempt_lamports"`
	MaxTopicChars   int           `json:"max_topic_chars"`
	MaxContentChars int           `json:"max_content_chars"`
	Fields          []LayoutField `json:"fields"`
}

// NewLayoutCommand creates the layout command.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Describe the tweet account layout",
		Long: `Print the byte layout of a tweet account, its size and the
lamports needed to make it rent-exempt. Reads no ledger.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(rootOpts, cmd)
		},
	}
}

// tweetLayout lists the fields of a tweet account with their reserved
// sizes. Size is the maximum a field occupies; the length-prefixed topic
// only takes 4 + topic_len bytes, and content starts right after it.
func tweetLayout() []LayoutField {
	topicStart := tweet.DiscriminatorLength + tweet.AuthorLength + tweet.TimestampLength
	contentLenAt := topicStart + tweet.StringPrefixLength
	return []LayoutField{
		{Name: "discriminator", Offset: 0, Size: tweet.DiscriminatorLength},
		{Name: "author", Offset: tweet.DiscriminatorLength, Size: tweet.AuthorLength},
		{Name: "timestamp", Offset: tweet.DiscriminatorLength + tweet.AuthorLength, Size: tweet.TimestampLength},
		{Name: "topic_len", Offset: topicStart, Size: tweet.StringPrefixLength},
		{Name: "topic", Offset: contentLenAt, Size: tweet.MaxTopicLength},
		{Name: "content_len", Offset: contentLenAt, Size: tweet.StringPrefixLength, Follows: "topic"},
		{Name: "content", Offset: contentLenAt + tweet.StringPrefixLength, Size: tweet.MaxContentLength, Follows: "topic"},
	}
}

func runLayout(opts *RootOptions, cmd *cobra.Command) error {
	result := LayoutResult{
		ProgramID:       program.ID.String(),
		Discriminator:   hex.EncodeToString(tweet.Discriminator[:]),
		Size:            tweet.Len,
		RentExemptMin:   runtime.MinimumBalance(tweet.Len),
		MaxTopicChars:   tweet.MaxTopicChars,
		MaxContentChars: tweet.MaxContentChars,
		Fields:          tweetLayout(),
	}

	formatter := opts.formatter(cmd)
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "program:       %s\n", result.ProgramID)
	fmt.Fprintf(w, "discriminator: %s\n", result.Discriminator)
	fmt.Fprintf(w, "size:          %d bytes\n", result.Size)
	fmt.Fprintf(w, "rent-exempt:   %d lamports\n\n", result.RentExemptMin)
	fmt.Fprintf(w, "%-14s %-16s %6s\n", "FIELD", "OFFSET", "SIZE")
	for _, f := range result.Fields {
		offset := fmt.Sprint(f.Offset)
		if f.Follows != "" {
			offset = fmt.Sprintf("%d+%s_len", f.Offset, f.Follows)
		}
		fmt.Fprintf(w, "%-14s %-16s %6d\n", f.Name, offset, f.Size)
	}
	fmt.Fprintln(w, "\ncontent_len and content follow the topic bytes directly;")
	fmt.Fprintln(w, "unused reserved bytes sit zeroed at the end of the account.")
	fmt.Fprintf(w, "\ntopic: max %d characters, content: max %d characters\n",
		result.MaxTopicChars, result.MaxContentChars)
	return nil
}
