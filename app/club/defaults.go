package club

// GeneralKey is the fallback catalog entry used for accepted items from
// aggregate feeds that match no specific club.
const GeneralKey = "general"

// DefaultClubs returns the built-in club catalog. Entries can be overridden
// or extended through a YAML clubs directory, see LoadDir.
func DefaultClubs() []Club {
	return []Club{
		{
			Key:      "chelsea",
			Name:     "Chelsea FC",
			Emoji:    "🔵",
			Color:    0x034694,
			LogoURL:  "https://logos-world.net/wp-content/uploads/2020/06/Chelsea-Logo.png",
			Keywords: []string{"chelsea", "cfc", "blues", "stamford bridge"},
		},
		{
			Key:      "arsenal",
			Name:     "Arsenal FC",
			Emoji:    "🔴",
			Color:    0xEF0107,
			LogoURL:  "https://logos-world.net/wp-content/uploads/2020/06/Arsenal-Logo.png",
			Keywords: []string{"arsenal", "afc", "gunners", "emirates"},
		},
		{
			Key:      "tottenham",
			Name:     "Tottenham Hotspur",
			Emoji:    "⚪",
			Color:    0x132257,
			LogoURL:  "https://logos-world.net/wp-content/uploads/2020/11/Tottenham-Logo.png",
			Keywords: []string{"tottenham", "spurs", "thfc", "coys", "white hart lane"},
		},
		{
			Key:      "man_united",
			Name:     "Manchester United",
			Emoji:    "🔴",
			Color:    0xDA020E,
			LogoURL:  "https://logos-world.net/wp-content/uploads/2020/06/Manchester-United-Logo.png",
			Keywords: []string{"manchester united", "man united", "man utd", "mufc", "red devils", "old trafford"},
		},
		{
			Key:      "man_city",
			Name:     "Manchester City",
			Emoji:    "🔵",
			Color:    0x6CABDD,
			LogoURL:  "https://logos-world.net/wp-content/uploads/2020/06/Manchester-City-Logo.png",
			Keywords: []string{"manchester city", "man city", "mcfc", "city", "citizens", "etihad"},
		},
		{
			Key:      "real_madrid",
			Name:     "Real Madrid",
			Emoji:    "⚪",
			Color:    0xFFFFFF,
			LogoURL:  "https://logos-world.net/wp-content/uploads/2020/06/Real-Madrid-Logo.png",
			Keywords: []string{"real madrid", "madrid", "real", "los blancos", "bernabeu"},
		},
		{
			Key:      "barcelona",
			Name:     "Barcelona",
			Emoji:    "🔴",
			Color:    0xA50044,
			LogoURL:  "https://logos-world.net/wp-content/uploads/2020/06/Barcelona-Logo.png",
			Keywords: []string{"barcelona", "barca", "barça", "fcb", "blaugrana", "camp nou"},
		},
		{
			Key:      GeneralKey,
			Name:     "Football Transfers",
			Emoji:    "⚽",
			Color:    0x2ECC71,
			LogoURL:  "",
			Keywords: []string{"football transfers"},
		},
	}
}
