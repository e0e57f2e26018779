package alignment

import (
	"fmt"
	"strings"
)

// Track identifies an academic program family. Values are catalog codes
// such as "BSIT".
type Track string

// Default program tracks, in the order other tracks are searched.
const (
	TrackCompTech   Track = "BIT-CT"
	TrackInfoTech   Track = "BSIT"
	TrackInfoSystem Track = "BSIS"
)

// TrackInfo describes one program track of the catalog.
type TrackInfo struct {
	Code     Track
	Category string   // statistics category, e.g. "info_tech"
	Label    string   // human readable program name used in prompts
	Aliases  []string // lower-case phrases that identify the program in free text
}

// DefaultTracks returns the three program tracks of the alumni tracer.
func DefaultTracks() []TrackInfo {
	return []TrackInfo{
		{
			Code:     TrackCompTech,
			Category: "comp_tech",
			Label:    "BIT-CT",
			Aliases:  []string{"computer technology"},
		},
		{
			Code:     TrackInfoTech,
			Category: "info_tech",
			Label:    "BSIT",
			Aliases:  []string{"information technology"},
		},
		{
			Code:     TrackInfoSystem,
			Category: "info_system",
			Label:    "BSIS",
			Aliases:  []string{"information system"},
		},
	}
}

// Catalog is the ordered set of program tracks known to the engine.
type Catalog struct {
	tracks []TrackInfo
	byCode map[Track]TrackInfo
}

// NewCatalog validates the track list and returns a Catalog preserving its order.
func NewCatalog(tracks []TrackInfo) (*Catalog, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("catalog: at least one track is required")
	}

	c := &Catalog{byCode: make(map[Track]TrackInfo, len(tracks))}
	for _, t := range tracks {
		code := Track(strings.ToUpper(strings.TrimSpace(string(t.Code))))
		if code == "" {
			return nil, fmt.Errorf("catalog: track code is empty")
		}
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("catalog: duplicate track %q", code)
		}
		t.Code = code
		if t.Label == "" {
			t.Label = string(code)
		}
		aliases := make([]string, 0, len(t.Aliases))
		for _, a := range t.Aliases {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				aliases = append(aliases, a)
			}
		}
		t.Aliases = aliases
		c.tracks = append(c.tracks, t)
		c.byCode[code] = t
	}
	return c, nil
}

// MustDefaultCatalog returns the catalog of DefaultTracks.
func MustDefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultTracks())
	if err != nil {
		panic(err)
	}
	return c
}

// Tracks returns the track codes in catalog order.
func (c *Catalog) Tracks() []Track {
	out := make([]Track, 0, len(c.tracks))
	for _, t := range c.tracks {
		out = append(out, t.Code)
	}
	return out
}

// Others returns every track except own, in catalog order.
func (c *Catalog) Others(own Track) []Track {
	out := make([]Track, 0, len(c.tracks))
	for _, t := range c.tracks {
		if t.Code != own {
			out = append(out, t.Code)
		}
	}
	return out
}

// Info returns the description of a track.
func (c *Catalog) Info(t Track) (TrackInfo, bool) {
	info, ok := c.byCode[t]
	return info, ok
}

// Has reports whether t is part of the catalog.
func (c *Catalog) Has(t Track) bool {
	_, ok := c.byCode[t]
	return ok
}

// Label returns the display label of a track, or the raw code when unknown.
func (c *Catalog) Label(t Track) string {
	if info, ok := c.byCode[t]; ok {
		return info.Label
	}
	return string(t)
}

// ParseProgram maps a graduate's free-text program ("BS Information
// Technology", "bsit", "BIT-CT") to a track. An exact code match wins;
// otherwise the first track in catalog order whose code or alias occurs in
// the text is returned.
func (c *Catalog) ParseProgram(program string) (Track, bool) {
	p := strings.ToLower(strings.TrimSpace(program))
	if p == "" {
		return "", false
	}
	for _, t := range c.tracks {
		if p == strings.ToLower(string(t.Code)) {
			return t.Code, true
		}
	}
	for _, t := range c.tracks {
		if strings.Contains(p, strings.ToLower(string(t.Code))) {
			return t.Code, true
		}
		for _, a := range t.Aliases {
			if strings.Contains(p, a) {
				return t.Code, true
			}
		}
	}
	return "", false
}
