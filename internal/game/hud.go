package game

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

type hud struct {
	fps         float64
	beads       int
	slices      int
	provider    string
	force       r2.Vec
	paused      bool
	track       string
	position    time.Duration
	duration    time.Duration
	tiltClients int
	err         error
}

func (h hud) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.0f fps | %d beads x %d slices | %s force (%+.2f, %+.2f)",
		h.fps, h.beads, h.slices, h.provider, h.force.X, h.force.Y)
	if h.tiltClients > 0 {
		fmt.Fprintf(&b, " | %d phone(s)", h.tiltClients)
	}
	if h.track != "" {
		fmt.Fprintf(&b, "\n%s %s / %s", h.track, formatDuration(h.position), formatDuration(h.duration))
	}
	b.WriteString("\n")
	if h.paused {
		b.WriteString("Paused - Space to resume")
	} else {
		b.WriteString("Space: pause  R: restart  O: soundtrack  H: hide  Esc/Q: quit")
	}
	if h.err != nil {
		b.WriteString(" | Error: " + h.err.Error())
	}
	return b.String()
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
