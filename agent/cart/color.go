package cart

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"
)

const (
	minChannel = 100

	TextBlack = "#000000"
	TextWhite = "#FFFFFF"
)

// ColorFromTitle derives a stable swatch from a product name. Channels are
// kept at or above 100 so the swatch is never too dark.
func ColorFromTitle(title string) string {
	sum := md5.Sum([]byte(title))
	r := max(int(sum[0]), minChannel)
	g := max(int(sum[1]), minChannel)
	b := max(int(sum[2]), minChannel)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// TextColor picks black or white foreground text for a background color.
// Malformed colors get black.
func TextColor(bg string) string {
	hex := strings.TrimSpace(strings.TrimLeft(bg, "#"))
	if len(hex) < 6 {
		return TextBlack
	}

	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return TextBlack
		}
		rgb[i] = float64(v)
	}

	luminance := (0.299*rgb[0] + 0.587*rgb[1] + 0.114*rgb[2]) / 255
	if luminance > 0.5 {
		return TextBlack
	}
	return TextWhite
}
