package classify

import (
	"testing"

	"github.com/footwire/transferwatch/app/club"
)

func testCatalog(t *testing.T) *club.Catalog {
	t.Helper()
	catalog, err := club.NewCatalog(club.DefaultClubs())
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return catalog
}

func TestIsSpam(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		text     string
		expected bool
	}{
		{"Join our channel t.me/+abc123 for more", true},
		{"Best CASINO bonus, place your bets now!", true},
		{"Use promo code WIN for free spins", true},
		{"Chelsea agree deal for new striker", false},
		{"", false},
	}

	for _, test := range tests {
		if got := classifier.IsSpam(test.text); got != test.expected {
			t.Errorf("IsSpam(%q): expected %v, got %v", test.text, test.expected, got)
		}
	}
}

func TestSourceTier(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		text     string
		expected int
	}{
		{"Fabrizio Romano: deal agreed", 1},
		{"David Ornstein reports Arsenal interest", 1},
		{"Sky Sports understands talks are ongoing", 1},
		{"Di Marzio: Milan want the defender", 2},
		{"Kicker reports Bayern contact", 2},
		{"Unverified blog: player will move", 3},
		{"", 3},
	}

	for _, test := range tests {
		if got := classifier.SourceTier(test.text); got != test.expected {
			t.Errorf("SourceTier(%q): expected %d, got %d", test.text, test.expected, got)
		}
	}
}

func TestSourceTier_Tier1CheckedFirst(t *testing.T) {
	classifier := NewClassifier()

	// Mentions both a tier-1 and a tier-2 outlet; tier 1 must win.
	text := "Sky Sports and Bild both report the same deal"
	if got := classifier.SourceTier(text); got != 1 {
		t.Errorf("Expected tier 1 when both tiers match, got %d", got)
	}
}

func TestConfidence(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		text     string
		expected string
	}{
		{"🚨 OFFICIAL: player signs until 2029", ConfidenceHigh},
		{"Here we go! Deal agreed", ConfidenceHigh},
		{"🚨 BREAKING news from the club", ConfidenceHigh},
		{"Club submits opening bid for midfielder", ConfidenceMedium},
		{"Player scheduled for medical tomorrow", ConfidenceMedium},
		{"Matchday atmosphere at the stadium", ConfidenceLow},
		{"", ConfidenceLow},
	}

	for _, test := range tests {
		if got := classifier.Confidence(test.text); got != test.expected {
			t.Errorf("Confidence(%q): expected %s, got %s", test.text, test.expected, got)
		}
	}
}

func TestIsTransferRelated_Positive(t *testing.T) {
	classifier := NewClassifier()

	positive := []string{
		"Chelsea signs new striker for £50m",
		"BREAKING: Real Madrid complete transfer deal",
		"Here we go! Arsenal announce new signing",
		"Official: Liverpool player joins Manchester United",
		"Done deal - Tottenham loan agreement confirmed",
	}

	for _, text := range positive {
		if !classifier.IsTransferRelated(text) {
			t.Errorf("Expected %q to be transfer related", text)
		}
	}
}

func TestIsTransferRelated_Negative(t *testing.T) {
	classifier := NewClassifier()

	negative := []string{
		"Match thread: the big derby",
		"Post-match discussion and analysis",
		"Player injury update from training",
		"Stadium renovation progress",
		"Youth team graduation ceremony",
	}

	for _, text := range negative {
		if classifier.IsTransferRelated(text) {
			t.Errorf("Expected %q to not be transfer related", text)
		}
	}
}

func TestMatchClubs(t *testing.T) {
	classifier := NewClassifier()
	catalog := testCatalog(t)

	tests := []struct {
		text     string
		expected []string
	}{
		{"Chelsea agree fee with Barcelona for winger", []string{"chelsea", "barcelona"}},
		{"Spurs close to signing a defender", []string{"tottenham"}},
		{"Old Trafford exit looming for midfielder", []string{"man_united"}},
		{"Cricket world cup final today", nil},
	}

	for _, test := range tests {
		got := classifier.MatchClubs(test.text, catalog)
		if len(got) != len(test.expected) {
			t.Errorf("MatchClubs(%q): expected %v, got %v", test.text, test.expected, got)
			continue
		}
		for i := range got {
			if got[i] != test.expected[i] {
				t.Errorf("MatchClubs(%q): expected %v, got %v", test.text, test.expected, got)
				break
			}
		}
	}
}

func TestRun(t *testing.T) {
	classifier := NewClassifier()
	catalog := testCatalog(t)

	result := classifier.Run("Fabrizio Romano: Chelsea agree deal, here we go!", catalog)

	if result.IsSpam {
		t.Error("Expected not spam")
	}
	if len(result.Clubs) != 1 || result.Clubs[0] != "chelsea" {
		t.Errorf("Expected clubs [chelsea], got %v", result.Clubs)
	}
	if !result.TransferRelated {
		t.Error("Expected transfer related")
	}
	if result.Tier != 1 {
		t.Errorf("Expected tier 1, got %d", result.Tier)
	}
	if result.Confidence != ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", result.Confidence)
	}
}

func TestRun_EmptyText(t *testing.T) {
	classifier := NewClassifier()
	catalog := testCatalog(t)

	result := classifier.Run("", catalog)

	if result.IsSpam || result.TransferRelated {
		t.Error("Empty text should produce reject-shaped signals")
	}
	if len(result.Clubs) != 0 {
		t.Errorf("Empty text should match no clubs, got %v", result.Clubs)
	}
	if result.Tier != 3 || result.Confidence != ConfidenceLow {
		t.Errorf("Empty text should default to tier 3 / low confidence, got %d/%s", result.Tier, result.Confidence)
	}
}
