package domain

// Page documents mirror the CMS projections field for field, so they decode
// straight from query results and cache as-is. Each ImageRef has a sibling
// URL field that the page service fills in after resolution.

// CTAButton is a hero call-to-action.
type CTAButton struct {
	Text      string `json:"text"`
	Link      string `json:"link"`
	IsPrimary bool   `json:"isPrimary"`
}

// HeroSection is the top banner of the home page.
type HeroSection struct {
	Badge       string      `json:"badge,omitempty"`
	Heading     string      `json:"heading,omitempty"`
	Description string      `json:"description,omitempty"`
	CTAButtons  []CTAButton `json:"ctaButtons,omitempty"`
}

// BannerImage is one slide of the banner slider.
type BannerImage struct {
	Image    ImageRef `json:"image"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Alt      string   `json:"alt"`
	Title    string   `json:"title,omitempty"`
}

// BannerSlider holds the rotating home banner.
type BannerSlider struct {
	Images            []BannerImage `json:"images,omitempty"`
	AutoSlideInterval int           `json:"autoSlideInterval,omitempty"`
}

// Stat is a headline number on the home page.
type Stat struct {
	Number string `json:"number"`
	Label  string `json:"label"`
}

// IconFeature is a short icon/title pair.
type IconFeature struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
}

// AboutSection is the home page's company blurb.
type AboutSection struct {
	Badge           string        `json:"badge,omitempty"`
	Heading         string        `json:"heading,omitempty"`
	Description     RichText      `json:"description,omitempty"`
	FactoryImage    ImageRef      `json:"factoryImage"`
	FactoryImageURL string        `json:"factoryImageUrl,omitempty"`
	Features        []IconFeature `json:"features,omitempty"`
}

// FeaturedCard is a hand-picked product card on the home page.
type FeaturedCard struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       ImageRef `json:"image"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Accent      string   `json:"accent,omitempty"`
}

// ProductsSection is the home page's product teaser.
type ProductsSection struct {
	Badge            string         `json:"badge,omitempty"`
	Heading          string         `json:"heading,omitempty"`
	Description      string         `json:"description,omitempty"`
	FeaturedProducts []FeaturedCard `json:"featuredProducts,omitempty"`
}

// SEO holds page metadata.
type SEO struct {
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	OGImage         ImageRef `json:"ogImage"`
	OGImageURL      string   `json:"ogImageUrl,omitempty"`
}

// HomePage is the singleton home page document.
type HomePage struct {
	Title           string          `json:"title"`
	HeroSection     HeroSection     `json:"heroSection"`
	BannerSlider    BannerSlider    `json:"bannerSlider"`
	Stats           []Stat          `json:"stats,omitempty"`
	AboutSection    AboutSection    `json:"aboutSection"`
	ProductsSection ProductsSection `json:"productsSection"`
	SEO             SEO             `json:"seo"`
}

// AboutHero is the about page header.
type AboutHero struct {
	Heading            string   `json:"heading,omitempty"`
	Description        string   `json:"description,omitempty"`
	BackgroundImage    ImageRef `json:"backgroundImage"`
	BackgroundImageURL string   `json:"backgroundImageUrl,omitempty"`
}

// Value is a company value card.
type Value struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Milestone is a dated entry on the company timeline.
type Milestone struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TeamMember is a person on the about page.
type TeamMember struct {
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Bio      string   `json:"bio,omitempty"`
	Image    ImageRef `json:"image"`
	ImageURL string   `json:"imageUrl,omitempty"`
}

// Certification is an accreditation badge.
type Certification struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Image       ImageRef `json:"image"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// AboutPage is the singleton about page document.
type AboutPage struct {
	Title          string          `json:"title"`
	HeroSection    AboutHero       `json:"heroSection"`
	CompanyHistory RichText        `json:"companyHistory,omitempty"`
	Mission        RichText        `json:"mission,omitempty"`
	Vision         RichText        `json:"vision,omitempty"`
	Values         []Value         `json:"values,omitempty"`
	Milestones     []Milestone     `json:"milestones,omitempty"`
	Team           []TeamMember    `json:"team,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// ContactInfo is the company's reachable details.
type ContactInfo struct {
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	WorkingHours string `json:"workingHours,omitempty"`
}

// SocialLinks are profile URLs.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// MapLocation is a map pin.
type MapLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ContactPage is the singleton contact page document.
type ContactPage struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ContactInfo ContactInfo  `json:"contactInfo"`
	SocialLinks SocialLinks  `json:"socialLinks"`
	MapLocation *MapLocation `json:"mapLocation,omitempty"`
	MapURL      string       `json:"mapUrl,omitempty"`
	WhatsAppURL string       `json:"whatsappUrl,omitempty"`
}

// PageKind names the singleton page documents.
type PageKind string

const (
	PageHome    PageKind = "home"
	PageAbout   PageKind = "about"
	PageContact PageKind = "contact"
)
