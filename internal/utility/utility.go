package utility

import (
	"fmt"
	"math/rand"
)

// RandomColorHex returns a display color for a player, avoiding the
// extremes so names stay readable on both light and dark rows.
func RandomColorHex() string {
	r := rand.Intn(248) + 4
	g := rand.Intn(248) + 4
	b := rand.Intn(248) + 4
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
