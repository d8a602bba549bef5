package policy

import (
	"strconv"
	"strings"

	"github.com/footwire/transferwatch/app/classify"
	"github.com/footwire/transferwatch/app/club"
	"github.com/footwire/transferwatch/app/source"
)

// Moderation tags trusted as the sole credibility signal on club-specific
// subreddits.
var targetFlairs = []string{"Tier 1", "Tier 2", "Official Source"}

// Minimum popularity score for submissions from aggregate subreddits.
const generalScoreThreshold = 100

var _ Policy = (*SubredditPolicy)(nil)

// SubredditPolicy applies one of two sub-policies per subreddit category:
// club-specific subreddits trust the community's own moderation flair,
// aggregate subreddits get keyword plus popularity filtering.
type SubredditPolicy struct {
	classifier *classify.Classifier
	catalog    *club.Catalog
	subs       map[string]source.Subreddit
}

func NewSubredditPolicy(catalog *club.Catalog, subreddits []source.Subreddit) *SubredditPolicy {
	subs := make(map[string]source.Subreddit, len(subreddits))
	for _, s := range subreddits {
		subs[strings.ToLower(s.Name)] = s
	}

	return &SubredditPolicy{
		classifier: classify.NewClassifier(),
		catalog:    catalog,
		subs:       subs,
	}
}

func (p *SubredditPolicy) Evaluate(item source.Item) Decision {
	sub, ok := p.subs[strings.ToLower(item.Extra["subreddit"])]
	if !ok {
		return Decision{Reason: "unmonitored subreddit"}
	}

	if sub.ClubKey == club.GeneralKey {
		return p.evaluateGeneral(item)
	}
	return p.evaluateClubSpecific(item, sub)
}

// evaluateClubSpecific accepts iff the submission carries one of the trusted
// flairs. Missing or unknown flairs reject; no keyword or spam analysis runs.
func (p *SubredditPolicy) evaluateClubSpecific(item source.Item, sub source.Subreddit) Decision {
	flair := item.Extra["flair"]

	if !isTargetFlair(flair) {
		return Decision{Reason: "flair not in the trusted set"}
	}

	return Decision{
		Post:  true,
		Clubs: []string{sub.ClubKey},
	}
}

// evaluateGeneral filters aggregate-subreddit submissions by topic relevance
// and popularity. Flairs mentioning a tier outside the trusted set reject
// even on a high-score post.
func (p *SubredditPolicy) evaluateGeneral(item source.Item) Decision {
	text := strings.TrimSpace(item.Title + " " + item.Extra["selftext"])

	if !p.classifier.IsTransferRelated(text) {
		return Decision{Reason: "not transfer related"}
	}

	score, _ := strconv.Atoi(item.Extra["score"])
	if score < generalScoreThreshold {
		return Decision{Reason: "score below threshold"}
	}

	flair := item.Extra["flair"]
	if flair != "" && strings.Contains(strings.ToLower(flair), "tier") && !isTargetFlair(flair) {
		return Decision{Reason: "low-tier flair"}
	}

	clubs := p.classifier.MatchClubs(text, p.catalog)
	if len(clubs) == 0 {
		clubs = []string{club.GeneralKey}
	}

	return Decision{
		Post:  true,
		Clubs: clubs,
	}
}

func isTargetFlair(flair string) bool {
	for _, target := range targetFlairs {
		if strings.EqualFold(flair, target) {
			return true
		}
	}
	return false
}
