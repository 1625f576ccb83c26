package leaffall

import "fmt"

// Season selects the theme of a leaf population.
type Season uint8

const (
	SeasonSpring Season = iota // pink leaves drifting right, pile on the left
	SeasonAutumn               // yellow leaves drifting right, pile in the center
	SeasonFall                 // red leaves drifting left, pile on the right
)

// Seasons lists every season in declaration order.
var Seasons = [...]Season{SeasonSpring, SeasonAutumn, SeasonFall}

// String returns the lowercase season name.
func (s Season) String() string {
	switch s {
	case SeasonSpring:
		return "spring"
	case SeasonAutumn:
		return "autumn"
	case SeasonFall:
		return "fall"
	default:
		return fmt.Sprintf("Season(%d)", uint8(s))
	}
}

// ParseSeason converts a lowercase season name into a Season.
func ParseSeason(name string) (Season, error) {
	for _, s := range Seasons {
		if s.String() == name {
			return s, nil
		}
	}
	return SeasonSpring, fmt.Errorf("leaffall: unknown season %q", name)
}

// MarshalText implements encoding.TextMarshaler so seasons serialize by name
// in config and preference files.
func (s Season) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Season) UnmarshalText(text []byte) error {
	v, err := ParseSeason(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// RandomSeason picks a season uniformly. Used when navigation does not ask
// for a specific theme.
func RandomSeason(rng *RNG) Season {
	return Seasons[rng.IntN(len(Seasons))]
}

// PileAnchor names where settled leaves gather along the ground.
type PileAnchor uint8

const (
	PileLeft PileAnchor = iota
	PileCenter
	PileRight
)

// SeasonProfile holds everything a season contributes to the populations.
type SeasonProfile struct {
	Season Season
	// LeafTexture and Background are keys handed to the TextureSource.
	LeafTexture string
	Background  string
	// WindSign is the sign of horizontal drift: -1 blows left, +1 right.
	WindSign float64
	Anchor   PileAnchor
	// Scale multiplies every leaf's seeded scale.
	Scale float64
}

var seasonProfiles = [...]SeasonProfile{
	SeasonSpring: {SeasonSpring, "leaf_pink", "bg_spring", 1, PileLeft, 1.0},
	SeasonAutumn: {SeasonAutumn, "leaf_yellow", "bg_autumn", 1, PileCenter, 1.05},
	SeasonFall:   {SeasonFall, "leaf_red", "bg_fall", -1, PileRight, 1.1},
}

// ProfileFor returns the profile for s. Unknown values fall back to spring.
func ProfileFor(s Season) SeasonProfile {
	if int(s) >= len(seasonProfiles) {
		return seasonProfiles[SeasonSpring]
	}
	return seasonProfiles[s]
}

// PileAnchorX returns the world X of the pile for a ground whose visible
// half-width is halfWidth. Edge anchors sit margin units inside the edge.
func (p SeasonProfile) PileAnchorX(halfWidth, margin float64) float64 {
	switch p.Anchor {
	case PileLeft:
		return -halfWidth + margin
	case PileRight:
		return halfWidth - margin
	default:
		return 0
	}
}
