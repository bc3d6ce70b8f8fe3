// Package status resolves reservation status ids to their display
// presentation.
package status

import (
	"strings"

	"github.com/ukydev/fleet-status/internal/models"
)

// Presentation is the resolved label and colors for a status id.
type Presentation struct {
	Label      string `json:"label"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Neutral defaults used when a status id has no row in the lookup table.
const (
	DefaultBackground = "#e5e7eb"
	DefaultText       = "#111827"
)

// OOS is the fixed presentation for the out-of-service sentinel. It never
// goes through the lookup table.
var OOS = Presentation{Label: "Out of service", Background: "#ef4444", Text: "#ffffff"}

// Cache maps status ids to presentations. It is rebuilt in full whenever
// the underlying status rows change; it performs no writes.
type Cache struct {
	byID map[string]Presentation
}

// NewCache builds a cache from the current set of status rows.
func NewCache(rows []models.ReservationStatus) *Cache {
	byID := make(map[string]Presentation, len(rows))
	for _, s := range rows {
		p := Presentation{Label: s.Name, Background: s.Background, Text: s.Text}
		if p.Label == "" {
			p.Label = "Status"
		}
		if p.Background == "" {
			p.Background = DefaultBackground
		}
		if p.Text == "" {
			p.Text = DefaultText
		}
		byID[s.ID] = p
	}
	return &Cache{byID: byID}
}

// Lookup resolves a status id. The "oos" sentinel bypasses the table; an id
// missing from the table degrades to its upper-cased form with neutral
// colors rather than failing the render.
func (c *Cache) Lookup(statusID string) Presentation {
	if strings.EqualFold(statusID, models.OOSSentinel) {
		return OOS
	}
	if p, ok := c.byID[statusID]; ok {
		return p
	}
	return Presentation{
		Label:      strings.ToUpper(statusID),
		Background: DefaultBackground,
		Text:       DefaultText,
	}
}
