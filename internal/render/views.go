package render

import (
	"github.com/ristorante/site/internal/content"
)

type Dish struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

type HomeView struct {
	Lang string `json:"lang"`
	Hero struct {
		Title           string `json:"title"`
		Subtitle        string `json:"subtitle"`
		BackgroundImage string `json:"backgroundImage"`
	} `json:"hero"`
	About struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Image   string `json:"image"`
	} `json:"about"`
	Featured struct {
		Title string `json:"title"`
		Items []Dish `json:"items"`
	} `json:"featured"`
}

type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type MenuView struct {
	Lang       string     `json:"lang"`
	Title      string     `json:"title"`
	Categories []Category `json:"categories"`
	Active     string     `json:"active"`
	Items      []Dish     `json:"items"`
}

type Image struct {
	ID       string `json:"id"`
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Category string `json:"category,omitempty"`
}

type GalleryView struct {
	Lang     string  `json:"lang"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Images   []Image `json:"images"`
}

type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Bio   string `json:"bio"`
	Image string `json:"image"`
}

type StaffView struct {
	Lang     string   `json:"lang"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Team     []Member `json:"team"`
}

type Hours struct {
	Day    string `json:"day"`
	Label  string `json:"label"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed"`
}

type Link struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type ContactView struct {
	Lang    string  `json:"lang"`
	Title   string  `json:"title"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Hours   []Hours `json:"hours"`
	Social  []Link  `json:"social"`
	Map     struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"map"`
}

type NavLink struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

type SiteView struct {
	Lang string    `json:"lang"`
	Name string    `json:"name"`
	Logo string    `json:"logo"`
	Nav  []NavLink `json:"nav"`
}

func dish(it content.MenuItem, lang string) Dish {
	return Dish{
		ID:          it.ID,
		Name:        it.Name.In(lang),
		Description: it.Description.In(lang),
		Price:       it.Price,
		Category:    it.Category,
		Image:       image(it.Image),
	}
}

// Home resolves the featured id list against the menu. Ids without a
// matching item are dropped; embedded records from older documents are
// shown as stored.
func Home(doc content.Document, lang string) HomeView {
	var v HomeView
	v.Lang = lang
	home := doc.Page(content.PageHome)

	hero := sub(home, "hero")
	v.Hero.Title = text(hero["title"], lang)
	v.Hero.Subtitle = text(hero["subtitle"], lang)
	v.Hero.BackgroundImage = image(str(hero["backgroundImage"]))

	sections := sub(home, "sections")
	about := sub(sections, "about")
	v.About.Title = text(about["title"], lang)
	v.About.Content = text(about["content"], lang)
	v.About.Image = image(str(about["image"]))

	featured := sub(sections, "featured")
	v.Featured.Title = text(featured["title"], lang)
	v.Featured.Items = []Dish{}

	byID := map[string]content.MenuItem{}
	for _, it := range doc.MenuItems() {
		byID[it.ID] = it
	}
	refs, _ := content.AsList(featured["items"])
	for _, ref := range refs {
		switch r := ref.(type) {
		case string:
			if it, ok := byID[r]; ok {
				v.Featured.Items = append(v.Featured.Items, dish(it, lang))
			}
		case map[string]any:
			var it content.MenuItem
			if err := content.DecodeRecord(r, &it); err == nil {
				v.Featured.Items = append(v.Featured.Items, dish(it, lang))
			}
		}
	}
	return v
}

// Menu lists the categories and the items of the active one. An empty or
// unknown category selects the first.
func Menu(doc content.Document, tr Translator, lang, category string) MenuView {
	v := MenuView{Lang: lang, Title: tr.Get("menu.title", lang), Categories: []Category{}, Items: []Dish{}}
	cats := doc.Categories()
	if len(cats) == 0 {
		return v
	}
	v.Active = cats[0].ID
	for _, c := range cats {
		if c.ID == category {
			v.Active = c.ID
		}
	}
	for _, c := range cats {
		v.Categories = append(v.Categories, Category{ID: c.ID, Name: c.Name.In(lang), Active: c.ID == v.Active})
	}
	for _, it := range doc.MenuItems() {
		if it.Category == v.Active {
			v.Items = append(v.Items, dish(it, lang))
		}
	}
	return v
}

func Gallery(doc content.Document, lang string) GalleryView {
	page := doc.Page(content.PageGallery)
	v := GalleryView{
		Lang:     lang,
		Title:    text(page["title"], lang),
		Subtitle: text(page["subtitle"], lang),
		Images:   []Image{},
	}
	list, _ := content.AsList(page["images"])
	for _, el := range list {
		var img content.GalleryImage
		if err := content.DecodeRecord(el, &img); err != nil || img.ID == "" {
			continue
		}
		v.Images = append(v.Images, Image{ID: img.ID, Src: image(img.Src), Alt: img.Alt.In(lang), Category: img.Category})
	}
	return v
}

func Staff(doc content.Document, lang string) StaffView {
	page := doc.Page(content.PageStaff)
	v := StaffView{
		Lang:     lang,
		Title:    text(page["title"], lang),
		Subtitle: text(page["subtitle"], lang),
		Team:     []Member{},
	}
	list, _ := content.AsList(page["team"])
	for _, el := range list {
		var m content.StaffMember
		if err := content.DecodeRecord(el, &m); err != nil || m.ID == "" {
			continue
		}
		v.Team = append(v.Team, Member{ID: m.ID, Name: m.Name, Role: m.Role.In(lang), Bio: m.Bio.In(lang), Image: image(m.Image)})
	}
	return v
}

// Contact lists opening hours Monday first. A day without hours is closed.
func Contact(doc content.Document, tr Translator, lang string) ContactView {
	page := doc.Page(content.PageContact)
	v := ContactView{
		Lang:    lang,
		Title:   tr.Get("contact.title", lang),
		Address: text(page["address"], lang),
		Phone:   str(page["phone"]),
		Email:   str(page["email"]),
		Hours:   []Hours{},
		Social:  []Link{},
	}

	hours := sub(page, "hours")
	for _, day := range content.Weekdays {
		h := Hours{Day: day, Label: label(tr, "contact."+day, day, lang)}
		var r content.TimeRange
		if err := content.DecodeRecord(hours[day], &r); err == nil && r.Open != "" && r.Close != "" {
			h.Open, h.Close = r.Open, r.Close
		} else {
			h.Closed = true
		}
		v.Hours = append(v.Hours, h)
	}

	social := sub(page, "social")
	for _, p := range content.SocialPlatforms {
		if url := str(social[p]); url != "" {
			v.Social = append(v.Social, Link{Platform: p, URL: url})
		}
	}

	loc := sub(page, "mapLocation")
	v.Map.Lat, _ = loc["lat"].(float64)
	v.Map.Lng, _ = loc["lng"].(float64)
	return v
}

var navPages = []struct{ path, key, name string }{
	{"/", "nav.home", "home"},
	{"/menu", "nav.menu", "menu"},
	{"/gallery", "nav.gallery", "gallery"},
	{"/staff", "nav.staff", "staff"},
	{"/contact", "nav.contact", "contact"},
}

// Site returns the site name, logo and navigation labels.
func Site(doc content.Document, tr Translator, lang string) SiteView {
	v := SiteView{
		Lang: lang,
		Name: doc.SiteName().In(lang),
		Logo: image(str(doc.General["logo"])),
	}
	for _, n := range navPages {
		v.Nav = append(v.Nav, NavLink{Path: n.path, Label: label(tr, n.key, n.name, lang)})
	}
	return v
}
