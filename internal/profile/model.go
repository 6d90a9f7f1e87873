package profile

// Profile is the canonical structured record produced by extraction.
// Every string is present (possibly empty) and every slice is non-nil.
type Profile struct {
	Basics        Basics         `json:"basics"`
	Skills        []Skill        `json:"skills"`
	Projects      []Project      `json:"projects"`
	Experience    []Experience   `json:"experience"`
	Education     []Education    `json:"education"`
	Achievements  []Achievement  `json:"achievements"`
	OtherSections []OtherSection `json:"otherSections"`
}

type Basics struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Summary  string `json:"summary"`
}

type Skill struct {
	Name string `json:"name"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url"`
}

type Experience struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Date        string `json:"date"`
}

type Achievement struct {
	Description string `json:"description"`
}

type OtherSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Empty returns a record with every field at its declared default.
func Empty() Profile {
	return Profile{
		Skills:        []Skill{},
		Projects:      []Project{},
		Experience:    []Experience{},
		Education:     []Education{},
		Achievements:  []Achievement{},
		OtherSections: []OtherSection{},
	}
}
