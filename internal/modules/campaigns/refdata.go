package campaigns

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var Categories = []Category{
	{ID: "tuition", Name: "Tuition", Icon: "GraduationCap"},
	{ID: "books", Name: "Books & Materials", Icon: "BookOpen"},
	{ID: "laptop", Name: "Laptop & Equipment", Icon: "Laptop"},
	{ID: "housing", Name: "Housing", Icon: "Home"},
	{ID: "travel", Name: "Travel", Icon: "Plane"},
	{ID: "emergency", Name: "Emergency", Icon: "AlertCircle"},
}

var Countries = []string{
	"United States", "United Kingdom", "Canada", "India", "Australia",
	"Germany", "France", "Nigeria", "Kenya", "Brazil", "Mexico",
}

var FieldsOfStudy = []string{
	"Computer Science", "Engineering", "Medicine", "Business", "Arts",
	"Mathematics", "Physics", "Biology", "Economics", "Psychology",
}

func ValidCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
