package content

// Bilingual is a text available in Italian and English. Both keys are always
// serialised, possibly as empty strings.
type Bilingual struct {
	It string `json:"it"`
	En string `json:"en"`
}

// In returns the rendition for lang ("it" or "en"); anything else yields Italian.
func (b Bilingual) In(lang string) string {
	if lang == LangEN {
		return b.En
	}
	return b.It
}

const (
	LangIT = "it"
	LangEN = "en"
)

type MenuCategory struct {
	ID   string    `json:"id"`
	Name Bilingual `json:"name"`
}

type MenuItem struct {
	ID          string    `json:"id"`
	Name        Bilingual `json:"name"`
	Description Bilingual `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
}

type StaffMember struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Role  Bilingual `json:"role"`
	Bio   Bilingual `json:"bio"`
	Image string    `json:"image"`
}

type GalleryImage struct {
	ID       string    `json:"id"`
	Src      string    `json:"src"`
	Alt      Bilingual `json:"alt"`
	Category string    `json:"category,omitempty"`
}

// TimeRange is an opening-hours entry, both ends formatted "HH:MM".
type TimeRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Page names. pages always carries exactly these five keys.
const (
	PageHome    = "home"
	PageMenu    = "menu"
	PageGallery = "gallery"
	PageStaff   = "staff"
	PageContact = "contact"
)

var Pages = []string{PageHome, PageMenu, PageGallery, PageStaff, PageContact}

// IsPage reports whether name is one of the five fixed pages.
func IsPage(name string) bool {
	for _, p := range Pages {
		if p == name {
			return true
		}
	}
	return false
}

// Fixed dictionary keys of the contact page.
var (
	Weekdays        = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	SocialPlatforms = []string{"facebook", "instagram", "whatsapp"}
)

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func IsWeekday(s string) bool        { return contains(Weekdays, s) }
func IsSocialPlatform(s string) bool { return contains(SocialPlatforms, s) }

// PlaceholderImage is shown whenever an image path cannot be loaded.
const PlaceholderImage = "/placeholder.svg"
