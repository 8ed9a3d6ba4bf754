package catalog

// rarityColors maps the feed's Spanish rarity labels to their display color.
var rarityColors = map[string]string{
	"Común":             "#B8B8B8",
	"Poco Común":        "#00A859",
	"Raro":              "#0086FF",
	"Épico":             "#911EFF",
	"Legendario":        "#FF8000",
	"Serie de ídolos":   "#5cf2f3",
	"Serie de PUMA":     "#813a95",
	"Serie de Marvel":   "#ed1d24",
	"Serie de Festival": "#f4a400",
}

// defaultRarityColor is returned for any label not in the table, including
// the empty label. Note it is the uncommon-tier green, not the common grey;
// the feed has always behaved this way and clients style around it.
const defaultRarityColor = "#00A859"

// RarityColor resolves a rarity display label to its color. Total function:
// unknown labels fall back to the default.
func RarityColor(label string) string {
	if color, ok := rarityColors[label]; ok {
		return color
	}
	return defaultRarityColor
}
