// AngelaMos | 2026
// category.go

package post

// Category is one of the fixed topics a post is filed under. The composer
// and the feed filter both read this list.
type Category string

const (
	CategoryAI          Category = "AI & Machine Learning"
	CategoryWeb         Category = "Web Development"
	CategoryMobile      Category = "Mobile Development"
	CategoryDevOps      Category = "DevOps & Cloud"
	CategoryCybersec    Category = "Cybersecurity"
	CategoryDataScience Category = "Data Science"
	CategoryBlockchain  Category = "Blockchain"
	CategoryGeneralTech Category = "General Tech"
)

// FilterAll is the feed filter that omits the category predicate. It is
// never a valid category for a post.
const FilterAll = "All"

var Categories = []Category{
	CategoryAI,
	CategoryWeb,
	CategoryMobile,
	CategoryDevOps,
	CategoryCybersec,
	CategoryDataScience,
	CategoryBlockchain,
	CategoryGeneralTech,
}

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Filter is a parsed feed filter. The zero value means All.
type Filter struct {
	Category Category
}

func (f Filter) All() bool {
	return f.Category == ""
}

// ParseFilter accepts "", "All" or one of the categories.
func ParseFilter(s string) (Filter, bool) {
	if s == "" || s == FilterAll {
		return Filter{}, true
	}
	c, ok := ParseCategory(s)
	if !ok {
		return Filter{}, false
	}
	return Filter{Category: c}, true
}
