// Package domain defines the persistence models for per-user reader state:
// display preferences and recent search terms. These types are mapped with
// GORM. The verse corpus itself is immutable and never stored here.
package domain

import (
	"time"
)

// Font size bounds and step, in points.
const (
	FontSizeDefault = 24
	FontSizeMin     = 18
	FontSizeMax     = 40
	FontSizeStep    = 2
)

// Display modes for the reader screen.
const (
	// DisplayContinuous renders verses as flowing page text.
	DisplayContinuous = "continuous"
	// DisplaySeparate renders one verse per block.
	DisplaySeparate = "separate"
)

// Font types (recitation scripts).
const (
	FontWarsh  = "warsh"
	FontQaloun = "qaloun"
)

// Preferences holds a user's reader settings. One row per user.
//
// Fields:
//   - UserID: owner, primary key.
//   - FontSize: verse font size, kept within FontSizeMin..FontSizeMax.
//   - FontType: FontWarsh or FontQaloun.
//   - DisplayMode: DisplayContinuous or DisplaySeparate.
//   - UIVisible: whether reader chrome (headers, toolbars) is shown.
//   - LastChapter: last chapter opened by the user, 0 when unknown.
type Preferences struct {
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);primaryKey"`
	FontSize    int       `json:"font_size"    gorm:"not null;check:font_size BETWEEN 18 AND 40"`
	FontType    string    `json:"font_type"    gorm:"type:varchar(16);not null;check:font_type IN ('warsh','qaloun')"`
	DisplayMode string    `json:"display_mode" gorm:"type:varchar(16);not null;check:display_mode IN ('continuous','separate')"`
	UIVisible   bool      `json:"ui_visible"   gorm:"not null"`
	LastChapter int       `json:"last_chapter" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Preferences.
func (Preferences) TableName() string { return "preferences" }

// DefaultPreferences returns the settings a user starts with.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:      userID,
		FontSize:    FontSizeDefault,
		FontType:    FontWarsh,
		DisplayMode: DisplayContinuous,
		UIVisible:   true,
	}
}

// ClampFontSize bounds n to FontSizeMin..FontSizeMax.
func ClampFontSize(n int) int {
	if n < FontSizeMin {
		return FontSizeMin
	}
	if n > FontSizeMax {
		return FontSizeMax
	}
	return n
}

// ValidDisplayMode reports whether m is a known display mode.
func ValidDisplayMode(m string) bool { return m == DisplayContinuous || m == DisplaySeparate }

// ValidFontType reports whether f is a known font type.
func ValidFontType(f string) bool { return f == FontWarsh || f == FontQaloun }

// RecentSearch is one remembered query for a user. (UserID, Query) is unique;
// searching again moves the entry to the front by bumping Seq.
type RecentSearch struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string    `json:"-"           gorm:"type:varchar(64);not null;uniqueIndex:ux_recent_user_query,priority:1;index:idx_recent_user_seq,priority:1"`
	Query      string    `json:"query"       gorm:"type:varchar(512);not null;uniqueIndex:ux_recent_user_query,priority:2"`
	Seq        int64     `json:"-"           gorm:"not null;index:idx_recent_user_seq,priority:2"`
	SearchedAt time.Time `json:"searched_at" gorm:"not null"`
}

// TableName returns the database table name for RecentSearch.
func (RecentSearch) TableName() string { return "recent_searches" }
