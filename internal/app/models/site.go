package models

import "time"

// Notice is a board announcement
type Notice struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Text      string    `json:"text" db:"notice_text"`
	Link      string    `json:"link,omitempty" db:"link"`
	Photo     string    `json:"photo,omitempty" db:"photo"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// SchoolProfile is the branding and contact record of the school
type SchoolProfile struct {
	ID              int64  `json:"id" db:"id"`
	SchoolName      string `json:"schoolName" db:"school_name"`
	LogoPath        string `json:"logoPath" db:"logo_path"`
	HeroImage       string `json:"heroImage" db:"hero_bg_image"`
	HeroSubtitle    string `json:"heroSubtitle" db:"hero_subtitle"`
	HeroDescription string `json:"heroDescription" db:"hero_description"`
	Overview        string `json:"overview" db:"overview"`
	ContactEmail    string `json:"contactEmail" db:"contact_email"`
	ContactPhone    string `json:"contactPhone" db:"contact_phone"`
	ContactLocation string `json:"contactLocation" db:"contact_location"`
	MapsLink        string `json:"mapsLink" db:"google_maps_link"`
	FooterNote      string `json:"footerNote" db:"footer_note"`
	IsPublished     bool   `json:"isPublished" db:"is_published"`
}

// News is a homepage news item
type News struct {
	ID       int64     `db:"id"`
	Title    string    `db:"title"`
	Content  string    `db:"content"`
	Image    string    `db:"image"`
	PostedOn time.Time `db:"posted_on"`
}

// PrincipalMessage is the principal's note on the homepage
type PrincipalMessage struct {
	Name      string    `db:"name"`
	Message   string    `db:"message"`
	Photo     string    `db:"photo"`
	CreatedAt time.Time `db:"created_at"`
}

// Teacher is a staff card with aggregated subject and class names
type Teacher struct {
	ID       int64
	Name     string
	Email    string
	Photo    string
	Subjects []string
	Classes  []string
}

// Quote is a quote-of-the-day candidate
type Quote struct {
	Text   string `db:"quote"`
	Author string `db:"author"`
}

// Facility is a homepage facility tile
type Facility struct {
	Title       string `db:"title"`
	Icon        string `db:"icon"`
	Description string `db:"description"`
}

// GalleryPhoto is a homepage gallery image
type GalleryPhoto struct {
	Title       string `db:"title"`
	Description string `db:"description"`
	ImagePath   string `db:"image_path"`
}

// ClassStat counts active students per class within one academic year
type ClassStat struct {
	YearName  string
	ClassName string
	Total     int64
	Boys      int64
	Girls     int64
}

// PlusTwoStat counts plus-two students within one academic year
type PlusTwoStat struct {
	YearName string
	Total    int64
	Boys     int64
	Girls    int64
}

// StudentSummary is the all-time count of active students
type StudentSummary struct {
	Total int64 `json:"totalStudents"`
	Boys  int64 `json:"boys"`
	Girls int64 `json:"girls"`
}

// DashboardStats is the aggregate served to the dashboard
type DashboardStats struct {
	TotalStudents int64 `json:"totalStudents" example:"420"`
	Boys          int64 `json:"boys" example:"210"`
	Girls         int64 `json:"girls" example:"205"`
	PlusTwo       int64 `json:"plusTwo" example:"64"`
}
