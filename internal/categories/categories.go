package categories

// CategoryMap is the static two-level taxonomy used for tagging and
// filtering prompts. Keys are main categories, values their subcategories.
var CategoryMap = map[string][]string{
	"Portraits & People": {
		"Men's Portraits",
		"Women's Portraits",
		"Professional Headshots",
		"Fashion (Editorial)",
	},
	"Business & Design": {
		"Product Design",
		"Marketing/Advertising",
		"Poster Design",
		"Logo/Iconography",
		"T-Shirt Graphics",
		"Album/Book Cover",
		"Mascot Design",
	},
	"Conceptual & Scenery": {
		"Landscape/Scenery",
		"Cityscapes/Urban",
		"Interior Design",
		"Mood Boards/Aesthetics",
		"Still Life",
		"Historical Recreations",
		"Dungeons & Dragons (D&D)",
	},
	"Technical & Utility": {
		"Technical Illustration",
		"Infographics/Data Viz",
		"Video Game Assets",
		"Web/UI Backgrounds",
		"Greeting Card Art",
		"Medical/Scientific",
	},
	"Miscellaneous": {
		"Food & Beverage",
		"Pets & Animals",
		"Children's Education",
		"Sports & Action",
		"Vehicle Art (Cars/Planes)",
		"Religious/Spiritual",
	},
}

// MainCategories lists the main categories in display order.
var MainCategories = []string{
	"Portraits & People",
	"Business & Design",
	"Conceptual & Scenery",
	"Technical & Utility",
	"Miscellaneous",
}

// mainFor is the reverse index: subcategory -> its main category. Built once
// at startup so lookups never have to scan the map.
var mainFor = func() map[string]string {
	idx := make(map[string]string)
	for main, subs := range CategoryMap {
		for _, sub := range subs {
			idx[sub] = main
		}
	}
	return idx
}()

// All returns every subcategory as a flat list, in main-category display order.
func All() []string {
	var all []string
	for _, main := range MainCategories {
		all = append(all, CategoryMap[main]...)
	}
	return all
}

// Subcategories returns the subcategories for a main category, nil if unknown.
func Subcategories(main string) []string {
	return CategoryMap[main]
}

// IsSubcategory reports whether name is a known taxonomy leaf.
func IsSubcategory(name string) bool {
	_, ok := mainFor[name]
	return ok
}

// MainFor returns the main category a subcategory belongs to.
func MainFor(sub string) (string, bool) {
	main, ok := mainFor[sub]
	return main, ok
}
