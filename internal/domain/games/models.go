package games

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/games-api/internal/timeutil"
)

// DateLayout is the wire format for release dates.
const DateLayout = timeutil.DateLayout

// ReleaseDate is a calendar date serialised as YYYY-MM-DD. The zero value means unset.
type ReleaseDate struct {
	time.Time
}

// NewReleaseDate builds a ReleaseDate in UTC, dropping any time-of-day component.
func NewReleaseDate(year int, month time.Month, day int) ReleaseDate {
	return ReleaseDate{Time: timeutil.Date(year, month, day)}
}

// ParseReleaseDate parses a YYYY-MM-DD string. An empty string yields the zero value.
func ParseReleaseDate(raw string) (ReleaseDate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ReleaseDate{}, nil
	}
	t, err := timeutil.ParseDate(raw)
	if err != nil {
		return ReleaseDate{}, fmt.Errorf("invalid release_date %q (expected YYYY-MM-DD)", raw)
	}
	return ReleaseDate{Time: t}, nil
}

// String returns the date in wire format, or "" when unset.
func (d ReleaseDate) String() string {
	if d.IsZero() {
		return ""
	}
	return timeutil.FormatDate(d.Time)
}

func (d ReleaseDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(timeutil.FormatDate(d.Time))
}

func (d *ReleaseDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = ReleaseDate{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid release_date: %w", err)
	}
	parsed, err := ParseReleaseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Equal reports whether two dates fall on the same calendar day.
func (d ReleaseDate) Equal(other ReleaseDate) bool {
	if d.IsZero() || other.IsZero() {
		return d.IsZero() && other.IsZero()
	}
	return timeutil.SameDay(d.Time, other.Time)
}

// Game is the canonical game record exposed and persisted by the service.
type Game struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	ReleaseDate ReleaseDate `json:"release_date"`
	Genres      []string    `json:"genres"`
	Developer   string      `json:"developer"`
}

// Page is the envelope returned by the list endpoint.
type Page struct {
	ItemsPerPage int    `json:"items_per_page"`
	StartIndex   int    `json:"start_index"`
	TotalResults int64  `json:"total_results"`
	Items        []Game `json:"items"`
}

// NewPage builds a Page, normalising a nil item slice to an empty one.
func NewPage(startIndex, itemsPerPage int, total int64, items []Game) Page {
	if items == nil {
		items = []Game{}
	}
	return Page{
		ItemsPerPage: itemsPerPage,
		StartIndex:   startIndex,
		TotalResults: total,
		Items:        items,
	}
}

// Developer is an entry in the authorised developer list.
type Developer struct {
	Name         string `json:"name"`
	Headquarters string `json:"headquarters"`
}

// Developers is the blob-store document holding the authorised developer list.
type Developers struct {
	Developers []Developer `json:"developers"`
}

// NormalizeDeveloper folds a developer identity for comparison.
func NormalizeDeveloper(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameDeveloper compares developer identities ignoring case and surrounding whitespace.
// Blank identities never match.
func SameDeveloper(a, b string) bool {
	na := NormalizeDeveloper(a)
	if na == "" {
		return false
	}
	return na == NormalizeDeveloper(b)
}

// ErrDuplicateID is returned by stores when an insert collides with an existing id.
var ErrDuplicateID = errors.New("game id already exists")
