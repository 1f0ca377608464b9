// Package channels is the boundary to the background audio/video channel
// player. The core only passes channel ids across it.
package channels

import (
	"github.com/sadopc/lowkey/internal/log"
)

const UnknownTitle = "Unknown Channel"

type Channel struct {
	ID    string
	Title string
}

var builtin = []Channel{
	{ID: "M-4zE2GG87w", Title: "Spring Lofi"},
	{ID: "r3JG5gBLbpA", Title: "Lost in Japan"},
	{ID: "vrB9wC6quaU", Title: "Lofi on a Calm Night"},
	{ID: "92PvEVG0sKI", Title: "Cozy Lofi"},
	{ID: "hB2LatX6NLg", Title: "Shibuya Nights"},
	{ID: "vYIYIVmOo3Q", Title: "Rainy Rooftop"},
	{ID: "CX9_h23icoM", Title: "Lofi on the Radio"},
	{ID: "yf5NOyy1SXU", Title: "Room with City View"},
	{ID: "IOOXppTp5co", Title: "Bear Footprint"},
	{ID: "Fs-RjtIDvbw", Title: "Coffee Shop"},
	{ID: "tVHNkTBvCtI", Title: "Hip Hop Lofi"},
	{ID: "mF3m7Jza2uc", Title: "Lofi Beats"},
	{ID: "JQtM2tyWAOQ", Title: "Chinese Lofi"},
	{ID: "93AApJk314Q", Title: "Gas Station"},
	{ID: "rPjez8z61rI", Title: "TV Lofi"},
	{ID: "techmgGVOhk", Title: "Frog Lofi"},
	{ID: "UedTcufyrHc", Title: "Floor Lofi"},
	{ID: "IBKIzCxy55o", Title: "Sofa Lofi"},
	{ID: "m0hD2iFaSW4", Title: "Wizard Lofi 1"},
	{ID: "Mfq3_nvFiFw", Title: "Wizard Lofi 2"},
	{ID: "UqS3zt4crtM", Title: "Bluey Lofi"},
	{ID: "9IOmDeoHSo8", Title: "Fantasy Lofi"},
	{ID: "7XrwdXTy-p8", Title: "Adventure Time"},
	{ID: "p_oz1qIdJlI", Title: "Rainy Lofi"},
	{ID: "dk6fPqa-uZQ", Title: "Bible Lofi"},
	{ID: "T8Cq3AXBEpM", Title: "Afro Lofi"},
}

// Catalog resolves channel ids to display titles.
type Catalog struct {
	channels []Channel
	byID     map[string]string
}

func NewCatalog(chs []Channel) *Catalog {
	c := &Catalog{channels: chs, byID: make(map[string]string, len(chs))}
	for _, ch := range chs {
		c.byID[ch.ID] = ch.Title
	}
	return c
}

// Builtin returns the catalog shipped with the app.
func Builtin() *Catalog { return NewCatalog(builtin) }

func (c *Catalog) All() []Channel { return c.channels }

// Default is the channel loaded on first start.
func (c *Catalog) Default() string {
	if len(c.channels) == 0 {
		return ""
	}
	return c.channels[0].ID
}

func (c *Catalog) Title(id string) string {
	if t, ok := c.byID[id]; ok {
		return t
	}
	return UnknownTitle
}

// Surface receives playback intents. Implementations must not block.
type Surface interface {
	Load(id string)
	Play()
	Pause()
}

// LogSurface records playback intents; actual playback happens outside
// this process.
type LogSurface struct{}

func (LogSurface) Load(id string) { log.Info().Str("channel", id).Msg("load channel") }
func (LogSurface) Play()          { log.Info().Msg("play") }
func (LogSurface) Pause()         { log.Info().Msg("pause") }
