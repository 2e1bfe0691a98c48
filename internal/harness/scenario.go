package harness

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/soltweet/internal/store"
)

// DefaultClockStart is the ledger time used when a scenario sets none.
const DefaultClockStart = int64(1700000000)

// ExpectOK is the step expectation for a committed transaction.
const ExpectOK = "ok"

// Scenario defines a tweet scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ClockStart is the ledger's unix time before the first step.
	// Zero means DefaultClockStart.
	ClockStart int64 `yaml:"clock_start,omitempty"`

	// NormalizeNFC composes text to NFC before sending.
	NormalizeNFC bool `yaml:"normalize_nfc,omitempty"`

	// Wallets maps wallet names to the lamports airdropped before the
	// first step. Zero creates no account.
	Wallets map[string]uint64 `yaml:"wallets"`

	// Steps are the tweets to send, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final ledger.
	Assertions []Assertion `yaml:"assertions"`
}

// Step sends one tweet.
type Step struct {
	// Author names the signing wallet.
	Author string `yaml:"author"`

	// Tweet names the new tweet account. Defaults to tweet-N (1-based).
	Tweet string `yaml:"tweet,omitempty"`

	Topic         string  `yaml:"topic,omitempty"`
	TopicRepeat   *Repeat `yaml:"topic_repeat,omitempty"`
	Content       string  `yaml:"content,omitempty"`
	ContentRepeat *Repeat `yaml:"content_repeat,omitempty"`

	// Advance moves the clock forward this many seconds before sending.
	Advance int64 `yaml:"advance,omitempty"`

	// Expect is "ok" (default) or the expected receipt error code.
	Expect string `yaml:"expect,omitempty"`
}

// Repeat builds a long string from Count copies of Text.
type Repeat struct {
	Text  string `yaml:"text"`
	Count int    `yaml:"count"`
}

func (r *Repeat) String() string {
	return strings.Repeat(r.Text, r.Count)
}

// TopicText returns the topic to send.
func (s Step) TopicText() string {
	if s.TopicRepeat != nil {
		return s.TopicRepeat.String()
	}
	return s.Topic
}

// ContentText returns the content to send.
func (s Step) ContentText() string {
	if s.ContentRepeat != nil {
		return s.ContentRepeat.String()
	}
	return s.Content
}

// TweetName returns the tweet account name for the step at index i.
func (s Step) TweetName(i int) string {
	if s.Tweet != "" {
		return s.Tweet
	}
	return fmt.Sprintf("tweet-%d", i+1)
}

// ExpectedOutcome returns Expect, defaulting to "ok".
func (s Step) ExpectedOutcome() string {
	if s.Expect == "" {
		return ExpectOK
	}
	return s.Expect
}

// Assertion validates final ledger state.
type Assertion struct {
	// Type is one of tweet, absent, receipt_count, balance.
	Type string `yaml:"type"`

	// Tweet names the tweet account (tweet, absent).
	Tweet string `yaml:"tweet,omitempty"`

	// Expect holds expected tweet fields (tweet). Subset match over
	// author, timestamp, topic, content, topic_chars, content_chars.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Status filters receipts (receipt_count). Empty counts all.
	Status string `yaml:"status,omitempty"`

	// Count is the expected receipt count (receipt_count).
	Count *int `yaml:"count,omitempty"`

	// Wallet names the wallet (balance).
	Wallet string `yaml:"wallet,omitempty"`

	// Lamports is the expected balance (balance).
	Lamports *uint64 `yaml:"lamports,omitempty"`
}

// Assertion type constants.
const (
	AssertTweet        = "tweet"
	AssertAbsent       = "absent"
	AssertReceiptCount = "receipt_count"
	AssertBalance      = "balance"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for name := range s.Wallets {
		if name == "" {
			return fmt.Errorf("wallets: empty wallet name")
		}
	}

	for i, step := range s.Steps {
		if step.Author == "" {
			return fmt.Errorf("steps[%d]: author is required", i)
		}
		if step.Topic != "" && step.TopicRepeat != nil {
			return fmt.Errorf("steps[%d]: topic and topic_repeat are mutually exclusive", i)
		}
		if step.Content != "" && step.ContentRepeat != nil {
			return fmt.Errorf("steps[%d]: content and content_repeat are mutually exclusive", i)
		}
		for field, r := range map[string]*Repeat{"topic_repeat": step.TopicRepeat, "content_repeat": step.ContentRepeat} {
			if r != nil && r.Count < 0 {
				return fmt.Errorf("steps[%d].%s: count must be non-negative", i, field)
			}
		}
		if step.Advance < 0 {
			return fmt.Errorf("steps[%d]: advance must be non-negative", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTweet:
		if a.Tweet == "" {
			return fmt.Errorf("assertions[%d]: tweet is required for tweet", index)
		}
		for field := range a.Expect {
			if !tweetFields[field] {
				return fmt.Errorf("assertions[%d]: unknown tweet field %q", index, field)
			}
		}
	case AssertAbsent:
		if a.Tweet == "" {
			return fmt.Errorf("assertions[%d]: tweet is required for absent", index)
		}
	case AssertReceiptCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for receipt_count", index)
		}
		switch a.Status {
		case "", store.StatusOK, store.StatusFailed:
		default:
			return fmt.Errorf("assertions[%d]: unknown receipt status %q", index, a.Status)
		}
	case AssertBalance:
		if a.Wallet == "" || a.Lamports == nil {
			return fmt.Errorf("assertions[%d]: wallet and lamports are required for balance", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
