package quake

import "strconv"

// UnknownLabel is shown for scale codes outside the JMA intensity table.
const UnknownLabel = "--"

// ScaleLabel maps a feed scale code to its JMA seismic intensity label.
func ScaleLabel(scale int) string {
	switch scale {
	case 10:
		return "1"
	case 20:
		return "2"
	case 30:
		return "3"
	case 40:
		return "4"
	case 45:
		return "5弱"
	case 50:
		return "5強"
	case 55:
		return "6弱"
	case 60:
		return "6強"
	case 70:
		return "7"
	default:
		return UnknownLabel
	}
}

func KnownScale(scale int) bool {
	return ScaleLabel(scale) != UnknownLabel
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
