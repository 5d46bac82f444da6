package kart

import "strings"

// HerringType is the kind of herring lying on the track.
type HerringType int

const (
	HerringGreen HerringType = iota
	HerringSilver
	HerringGold
	HerringRed
)

func (h HerringType) String() string {
	switch h {
	case HerringSilver:
		return "silver"
	case HerringGold:
		return "gold"
	case HerringRed:
		return "red"
	default:
		return "green"
	}
}

// ParseHerringType maps a content name to a HerringType.
func ParseHerringType(s string) (HerringType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "green":
		return HerringGreen, true
	case "silver":
		return HerringSilver, true
	case "gold":
		return HerringGold, true
	case "red":
		return HerringRed, true
	default:
		return HerringGreen, false
	}
}

type Herring struct {
	Type HerringType
}
