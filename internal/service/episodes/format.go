package episodes

import (
	"fmt"

	"github.com/fdapulse/shortage-etl/internal/domain"
)

// statusColors matches the palette the timeline dashboard renders with.
var statusColors = map[domain.AvailabilityStatus]string{
	domain.StatusActiveShortage: "#ff4444",
	domain.StatusResolved:       "#44ff44",
	domain.StatusDiscontinued:   "#888888",
	domain.StatusOther:          "#ff8800",
}

// decorate fills the cosmetic presentation hints. Separate from the
// interval construction so renderer concerns never leak into the builder.
func decorate(ep domain.Episode) domain.Episode {
	ep.DrugDisplayName = displayName(ep.GenericName, ep.Presentation)
	ep.StatusColor = statusColors[ep.AvailabilityStatus]
	return ep
}

func displayName(genericName, presentation string) string {
	if presentation == "" {
		return genericName
	}
	return fmt.Sprintf("%s (%s)", genericName, presentation)
}
