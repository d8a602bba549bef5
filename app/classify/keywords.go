package classify

// Outlet and journalist names ranked by editorial trust. Tier 1 is checked
// before tier 2; the first match wins.
var tier1Sources = []string{
	"fabrizio romano", "david ornstein", "sky sports", "the athletic",
	"guardian", "bbc sport", "florian plettenberg",
}

var tier2Sources = []string{
	"di marzio", "bild", "kicker", "sport bild", "marca", "as",
}

// Phrasings that mark a completed or near-completed deal.
var highConfidenceFormats = []string{
	"📝 deal done", "🚨 official", "here we go", "🚨 breaking", "🚨 confirmed",
}

var transferKeywords = []string{
	"transfer", "signing", "signs", "joins", "agreement", "deal", "contract",
	"move", "bid", "offer", "target", "medical", "done deal", "official",
	"confirmed", "breaking", "exclusive", "loan", "release clause",
}

var spamIndicators = []string{
	"t.me/+", "betting", "casino", "place your bets", "promo code",
	"free spins", "bonus", "click here", "register now",
}
