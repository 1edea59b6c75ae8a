package services

import (
	"bus-route-service/internal/domain"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteTimetable renders a timetable as a fixed-width text table, one row per
// stop and one column per bus.
func WriteTimetable(w io.Writer, tt *domain.Timetable) error {
	if tt == nil {
		return errors.New("write timetable: timetable must be non-nil")
	}

	if _, err := fmt.Fprintf(
		w,
		"%s\nheadway: %d min  buses: %d  travel time: %d min\n\n",
		tt.RouteName, tt.Headway, tt.BusCount, tt.TotalTravelTime,
	); err != nil {
		return fmt.Errorf("write timetable header: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range tt.Stops {
		cells := make([]string, 0, len(s.Arrivals)+1)
		cells = append(cells, stopLabel(s.StopID))
		for _, a := range s.Arrivals {
			cells = append(cells, a.String())
		}

		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return fmt.Errorf("write timetable row for stop %d: %w", s.StopID, err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write timetable: flush: %w", err)
	}

	return nil
}

func stopLabel(id int) string {
	if id == domain.StationID {
		return "station"
	}
	return fmt.Sprintf("stop %d", id)
}
