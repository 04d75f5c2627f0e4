package suggest

// defaultSearches seeds a fresh history with generic visitor queries.
var defaultSearches = []string{
	"person",
	"people",
	"family",
	"children",
	"boy",
	"girl",
	"man",
	"woman",
	"beach",
	"ocean",
	"mountain",
	"forest",
	"city",
	"dog",
	"cat",
	"animal",
	"sunset",
	"food",
	"car",
	"house",
	"building",
	"tree",
	"flower",
	"water",
	"sky",
}
