package settings

import (
	"encoding/json"
	"time"
)

type Theme struct {
	Primary           string    `json:"primary" validate:"hexcolor"`
	PrimaryVariant    string    `json:"primaryVariant" validate:"hexcolor"`
	OnPrimary         string    `json:"onPrimary" validate:"hexcolor"`
	Secondary         string    `json:"secondary" validate:"hexcolor"`
	SecondaryVariant  string    `json:"secondaryVariant" validate:"hexcolor"`
	OnSecondary       string    `json:"onSecondary" validate:"hexcolor"`
	BackgroundDark    string    `json:"backgroundDark" validate:"hexcolor"`
	BackgroundLight   string    `json:"backgroundLight" validate:"hexcolor"`
	SurfaceDark       string    `json:"surfaceDark" validate:"hexcolor"`
	SurfaceLight      string    `json:"surfaceLight" validate:"hexcolor"`
	OnBackgroundDark  string    `json:"onBackgroundDark" validate:"hexcolor"`
	OnBackgroundLight string    `json:"onBackgroundLight" validate:"hexcolor"`
	OnSurfaceDark     string    `json:"onSurfaceDark" validate:"hexcolor"`
	OnSurfaceLight    string    `json:"onSurfaceLight" validate:"hexcolor"`
	Error             string    `json:"error" validate:"hexcolor"`
	OnError           string    `json:"onError" validate:"hexcolor"`
	Success           string    `json:"success" validate:"hexcolor"`
	Warning           string    `json:"warning" validate:"hexcolor"`
	Info              string    `json:"info" validate:"hexcolor"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func DefaultTheme() Theme {
	return Theme{
		Primary:           "#6366F1",
		PrimaryVariant:    "#4F46E5",
		OnPrimary:         "#FFFFFF",
		Secondary:         "#8B5CF6",
		SecondaryVariant:  "#7C3AED",
		OnSecondary:       "#FFFFFF",
		BackgroundDark:    "#0F0F1E",
		BackgroundLight:   "#FAFAFA",
		SurfaceDark:       "#1A1A2E",
		SurfaceLight:      "#FFFFFF",
		OnBackgroundDark:  "#E5E5E5",
		OnBackgroundLight: "#1A1A1A",
		OnSurfaceDark:     "#FFFFFF",
		OnSurfaceLight:    "#1A1A1A",
		Error:             "#EF4444",
		OnError:           "#FFFFFF",
		Success:           "#10B981",
		Warning:           "#F59E0B",
		Info:              "#3B82F6",
	}
}

// Section is one screen's worth of UI strings.
type Section map[string]string

type Labels struct {
	Home         Section   `json:"home"`
	Categories   Section   `json:"categories"`
	Thread       Section   `json:"thread"`
	Profile      Section   `json:"profile"`
	Settings     Section   `json:"settings"`
	Search       Section   `json:"search"`
	CreateThread Section   `json:"createThread"`
	Buttons      Section   `json:"buttons"`
	Navigation   Section   `json:"navigation"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (l *Labels) sections() map[string]*Section {
	return map[string]*Section{
		"home":         &l.Home,
		"categories":   &l.Categories,
		"thread":       &l.Thread,
		"profile":      &l.Profile,
		"settings":     &l.Settings,
		"search":       &l.Search,
		"createThread": &l.CreateThread,
		"buttons":      &l.Buttons,
		"navigation":   &l.Navigation,
	}
}

// Section returns the named section, if the name is known.
func (l *Labels) Section(name string) (Section, bool) {
	s, ok := l.sections()[name]
	if !ok {
		return nil, false
	}
	return *s, true
}

// ReplaceSection swaps the named section for s wholesale. It reports false
// for unknown section names.
func (l *Labels) ReplaceSection(name string, s Section) bool {
	ptr, ok := l.sections()[name]
	if !ok {
		return false
	}
	*ptr = s
	return true
}

// IsSection reports whether name is one of the label sections.
func IsSection(name string) bool {
	var l Labels
	_, ok := l.sections()[name]
	return ok
}

func DefaultLabels() Labels {
	return Labels{
		Home: Section{
			"title":         "Ana Sayfa",
			"trending":      "Trend Konular",
			"recent":        "Son Konular",
			"pinnedThreads": "Sabitlenmiş",
		},
		Categories: Section{
			"title":   "Kategoriler",
			"threads": "konu",
		},
		Thread: Section{
			"replies":    "Yanıtlar",
			"writeReply": "Yanıt yaz...",
			"views":      "görüntülenme",
			"likes":      "beğeni",
		},
		Profile: Section{
			"title":       "Profil",
			"threads":     "Konular",
			"replies":     "Cevaplar",
			"reputation":  "İtibar",
			"editProfile": "Profili Düzenle",
		},
		Settings: Section{
			"title":         "Ayarlar",
			"darkMode":      "Karanlık Mod",
			"notifications": "Bildirimler",
			"language":      "Dil",
			"logout":        "Çıkış Yap",
		},
		Search: Section{
			"placeholder": "Konu ara...",
			"noResults":   "Sonuç bulunamadı",
		},
		CreateThread: Section{
			"title":              "Yeni Konu",
			"titlePlaceholder":   "Konu başlığı",
			"contentPlaceholder": "Konu içeriği...",
			"selectCategory":     "Kategori seç",
		},
		Buttons: Section{
			"submit": "Paylaş",
			"cancel": "İptal",
			"save":   "Kaydet",
			"delete": "Sil",
			"edit":   "Düzenle",
			"reply":  "Yanıtla",
			"like":   "Beğen",
			"share":  "Paylaş",
		},
		Navigation: Section{
			"home":          "Ana Sayfa",
			"categories":    "Kategoriler",
			"notifications": "Bildirimler",
			"profile":       "Profil",
		},
	}
}

type UIConfig struct {
	Screen    string          `json:"screen"`
	Config    json.RawMessage `json:"config"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type UIConfigRequest struct {
	Screen string          `json:"screen" validate:"required"`
	Config json.RawMessage `json:"config" validate:"required"`
}
