package cmds

import (
	"fmt"
	"io"
	"sync"

	"github.com/hydrosmart/reporter/internal/form"
	"github.com/hydrosmart/reporter/internal/types"
)

// Serializes writes from the renderer and the input loop
type lockedWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func bannerLine(status types.Status) string {
	switch status.Kind {
	case types.StatusSuccess:
		return "[ok] " + status.Message
	case types.StatusError:
		return "[error] " + status.Message
	default:
		return ""
	}
}

func renderLocation(w io.Writer, loc *types.Location) {
	if loc == nil {
		fmt.Fprintln(w, "Location: not available (run `locate` to enable)")
		return
	}
	fmt.Fprintf(w, "Lat: %s\nLng: %s\n", loc.LatitudeString(), loc.LongitudeString())
}

func sameLocation(a, b *types.Location) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Prints what changed between two snapshots
func renderChanges(w io.Writer, prev, next form.Snapshot) {
	if next.LocationLoading && !prev.LocationLoading {
		fmt.Fprintln(w, "Fetching location...")
	}
	if next.Location != nil && !sameLocation(prev.Location, next.Location) {
		renderLocation(w, next.Location)
	}
	if next.State == form.StateSubmitting && prev.State != form.StateSubmitting {
		fmt.Fprintln(w, "Submitting...")
	}
	if next.Status != prev.Status && !next.Status.Empty() {
		fmt.Fprintln(w, bannerLine(next.Status))
	}
}

// Prints the whole form
func renderSnapshot(w io.Writer, snap form.Snapshot) {
	switch {
	case snap.LocationLoading:
		fmt.Fprintln(w, "Location: fetching...")
	default:
		renderLocation(w, snap.Location)
	}

	if snap.HasImage {
		preview := "pending"
		if snap.Preview != "" {
			preview = fmt.Sprintf("%d bytes", len(snap.Preview))
		}
		fmt.Fprintf(w, "Photo: %s (preview %s)\n", snap.ImageName, preview)
	} else {
		fmt.Fprintln(w, "Photo: none (run `photo PATH`)")
	}

	if snap.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", snap.Description)
	} else {
		fmt.Fprintln(w, "Description: none (run `describe TEXT`)")
	}

	if line := bannerLine(snap.Status); line != "" {
		fmt.Fprintln(w, line)
	}

	switch {
	case snap.CanSubmit:
		fmt.Fprintln(w, "Ready: run `submit`")
	case snap.State != form.StateIdle:
		fmt.Fprintf(w, "Submit disabled (%s)\n", snap.State)
	default:
		fmt.Fprintln(w, "Submit disabled until location is available")
	}
}
