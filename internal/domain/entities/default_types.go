package entities

// RelTypeInfo describes one tag in the fixed relationship vocabulary.
type RelTypeInfo struct {
	Type        RelType `json:"type"`
	Description string  `json:"description"`
}

// RelTypeVocabulary is the fixed, ordered vocabulary of relationship tags the
// community uses. The dashboard renders them in this order in pickers.
var RelTypeVocabulary = []RelTypeInfo{
	{Type: RelLover, Description: "Romantic partner or love interest"},
	{Type: RelFamily, Description: "Blood relation or found family"},
	{Type: RelFriend, Description: "Friendship, trusted company"},
	{Type: RelAlly, Description: "Working together toward a shared goal"},
	{Type: RelRival, Description: "Competitive but not hostile"},
	{Type: RelEnemy, Description: "Open hostility"},
	{Type: RelRespect, Description: "Admiration, possibly one-sided"},
	{Type: RelCuriosity, Description: "Intrigued, wants to know more"},
	{Type: RelDistrust, Description: "Wary, keeps their guard up"},
	{Type: RelNeutral, Description: "No strong feelings either way"},
}

// ValidRelType reports whether the tag belongs to the fixed vocabulary.
func ValidRelType(t RelType) bool {
	for _, info := range RelTypeVocabulary {
		if info.Type == t {
			return true
		}
	}
	return false
}

// ParseRelType validates and converts a string tag.
func ParseRelType(s string) (RelType, bool) {
	t := RelType(s)
	if !ValidRelType(t) {
		return "", false
	}
	return t, true
}
