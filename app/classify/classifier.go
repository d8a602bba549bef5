package classify

import (
	"strings"

	"github.com/footwire/transferwatch/app/club"
)

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Classifier computes content signals from raw post text. It is stateless
// and total: empty or malformed text yields reject-shaped signals, never an
// error.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Result holds the signals derived for a single item. It is ephemeral and
// never persisted.
type Result struct {
	IsSpam          bool
	Clubs           []string
	TransferRelated bool
	Tier            int
	Confidence      string
}

func (c *Classifier) Run(text string, catalog *club.Catalog) Result {
	return Result{
		IsSpam:          c.IsSpam(text),
		Clubs:           c.MatchClubs(text, catalog),
		TransferRelated: c.IsTransferRelated(text),
		Tier:            c.SourceTier(text),
		Confidence:      c.Confidence(text),
	}
}

func (c *Classifier) IsSpam(text string) bool {
	return containsAny(strings.ToLower(text), spamIndicators)
}

// SourceTier returns 1 for tier-1 outlets, 2 for tier-2, otherwise 3.
// Tier 1 is checked first because names could overlap between lists.
func (c *Classifier) SourceTier(text string) int {
	lower := strings.ToLower(text)

	if containsAny(lower, tier1Sources) {
		return 1
	}
	if containsAny(lower, tier2Sources) {
		return 2
	}
	return 3
}

func (c *Classifier) Confidence(text string) string {
	lower := strings.ToLower(text)

	if containsAny(lower, highConfidenceFormats) {
		return ConfidenceHigh
	}
	if containsAny(lower, transferKeywords) {
		return ConfidenceMedium
	}
	return ConfidenceLow
}

func (c *Classifier) IsTransferRelated(text string) bool {
	return containsAny(strings.ToLower(text), transferKeywords)
}

// MatchClubs returns the keys of every catalog club with at least one keyword
// present in the text. An item may match zero, one, or multiple clubs.
func (c *Classifier) MatchClubs(text string, catalog *club.Catalog) []string {
	lower := strings.ToLower(text)

	var matched []string
	for _, cl := range catalog.All() {
		if cl.Key == club.GeneralKey {
			continue
		}
		for _, kw := range cl.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, cl.Key)
				break
			}
		}
	}
	return matched
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
