package policy

import (
	"github.com/footwire/transferwatch/app/classify"
	"github.com/footwire/transferwatch/app/club"
	"github.com/footwire/transferwatch/app/source"
)

var _ Policy = (*ChannelPolicy)(nil)

// ChannelPolicy filters free-text channel posts: spam, club relevance and
// topic relevance gate first, then editorial confidence unlocks acceptance
// from a wider source tier. Low confidence never posts.
type ChannelPolicy struct {
	classifier *classify.Classifier
	catalog    *club.Catalog
}

func NewChannelPolicy(catalog *club.Catalog) *ChannelPolicy {
	return &ChannelPolicy{
		classifier: classify.NewClassifier(),
		catalog:    catalog,
	}
}

func (p *ChannelPolicy) Evaluate(item source.Item) Decision {
	result := p.classifier.Run(item.Text, p.catalog)

	decision := Decision{
		Clubs:      result.Clubs,
		Tier:       result.Tier,
		Confidence: result.Confidence,
	}

	switch {
	case result.IsSpam:
		decision.Reason = "spam indicator present"
	case len(result.Clubs) == 0:
		decision.Reason = "no monitored club mentioned"
	case !result.TransferRelated:
		decision.Reason = "not transfer related"
	case result.Confidence == classify.ConfidenceHigh:
		if result.Tier <= 2 {
			decision.Post = true
		} else {
			decision.Reason = "high confidence but untrusted source tier"
		}
	case result.Confidence == classify.ConfidenceMedium:
		if result.Tier == 1 {
			decision.Post = true
		} else {
			decision.Reason = "medium confidence requires a tier 1 source"
		}
	default:
		decision.Reason = "low confidence"
	}

	return decision
}

// ShouldPost is the raw channel decision function over pre-matched clubs.
func (p *ChannelPolicy) ShouldPost(text string, clubs []string) bool {
	if p.classifier.IsSpam(text) {
		return false
	}
	if len(clubs) == 0 {
		return false
	}
	if !p.classifier.IsTransferRelated(text) {
		return false
	}

	tier := p.classifier.SourceTier(text)

	switch p.classifier.Confidence(text) {
	case classify.ConfidenceHigh:
		return tier <= 2
	case classify.ConfidenceMedium:
		return tier == 1
	default:
		return false
	}
}
