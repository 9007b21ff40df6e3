package browser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgbutil"
)

// isDisplay reports whether disp has the form "x" or "x.y" with integer x
// and y.
func isDisplay(disp string) bool {
	ds := strings.Split(disp, ".")
	if len(ds) > 2 {
		return false
	}
	for _, d := range ds {
		if _, err := strconv.Atoi(d); err != nil {
			return false
		}
	}
	return true
}

// ProbeDisplay connects to the X server at display to make sure a headful
// browser has somewhere to draw, and returns the screen size.
func ProbeDisplay(display string) (width, height int, err error) {
	if !isDisplay(display) {
		return 0, 0, fmt.Errorf("display %q must be of the format 'x' or 'x.y' where x and y are integers", display)
	}
	x, err := xgbutil.NewConnDisplay(":" + display)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot connect to display %q: %w", display, err)
	}
	defer x.Conn().Close()
	s := x.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels), nil
}
