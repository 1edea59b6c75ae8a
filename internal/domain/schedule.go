package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

const (
	DefaultRouteName = "new service"
	DefaultHeadway   = 20
)

var (
	DefaultFirstLeave = TimeOfDay{Hours: 6}
	DefaultBoundary   = TimeOfDay{Hours: 22}
)

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hours   int
	Minutes int
}

func NewTimeOfDay(hours, minutes int) (TimeOfDay, error) {
	if hours < 0 || hours > 23 {
		return TimeOfDay{}, fmt.Errorf("time of day %d: %w", hours, ErrHourRange)
	}
	if minutes < 0 || minutes > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %d: %w", minutes, ErrMinuteRange)
	}
	return TimeOfDay{Hours: hours, Minutes: minutes}, nil
}

// TimeOfDayFromMinutes wraps any minute count onto a single day.
func TimeOfDayFromMinutes(m int) TimeOfDay {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return TimeOfDay{Hours: m / 60, Minutes: m % 60}
}

// ParseTimeOfDay accepts "H:MM" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, ErrTimeFormat)
	}

	hours, err := strconv.Atoi(h)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w: %v", s, ErrTimeFormat, err)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w: %v", s, ErrTimeFormat, err)
	}

	return NewTimeOfDay(hours, minutes)
}

func (t TimeOfDay) MinutesSinceMidnight() int { return t.Hours*60 + t.Minutes }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hours, t.Minutes) }

// ScheduleParameters drive timetable generation for one route.
type ScheduleParameters struct {
	Name       string
	Headway    int
	FirstLeave TimeOfDay
	Boundary   TimeOfDay
}

func DefaultScheduleParameters() ScheduleParameters {
	return ScheduleParameters{
		Name:       DefaultRouteName,
		Headway:    DefaultHeadway,
		FirstLeave: DefaultFirstLeave,
		Boundary:   DefaultBoundary,
	}
}

// Validate checks every field against the same rules the setters enforce.
func (p ScheduleParameters) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if err := validateHeadway(p.Headway); err != nil {
		return err
	}
	if _, err := NewTimeOfDay(p.FirstLeave.Hours, p.FirstLeave.Minutes); err != nil {
		return fmt.Errorf("first leave: %w", err)
	}
	if _, err := NewTimeOfDay(p.Boundary.Hours, p.Boundary.Minutes); err != nil {
		return fmt.Errorf("boundary: %w", err)
	}
	return nil
}

func validateHeadway(minutes int) error {
	if minutes < 1 || minutes >= MinutesPerDay {
		return fmt.Errorf("headway %d: %w", minutes, ErrHeadwayRange)
	}
	return nil
}

// ScheduleBuffer holds editable schedule parameters.
// Each field tracks its own changes; setting a field to its current value
// does not count as a change.
type ScheduleBuffer struct {
	params ScheduleParameters

	nameDirty       bool
	headwayDirty    bool
	firstLeaveDirty bool
	boundaryDirty   bool
}

func NewScheduleBuffer(p ScheduleParameters) *ScheduleBuffer {
	return &ScheduleBuffer{params: p}
}

func (s *ScheduleBuffer) Parameters() ScheduleParameters { return s.params }

func (s *ScheduleBuffer) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if name == s.params.Name {
		return nil
	}
	s.params.Name = name
	s.nameDirty = true
	return nil
}

func (s *ScheduleBuffer) SetHeadway(minutes int) error {
	if err := validateHeadway(minutes); err != nil {
		return err
	}
	if minutes == s.params.Headway {
		return nil
	}
	s.params.Headway = minutes
	s.headwayDirty = true
	return nil
}

func (s *ScheduleBuffer) SetFirstLeaveHours(hours int) error {
	return s.setTime(&s.params.FirstLeave, &s.firstLeaveDirty, hours, s.params.FirstLeave.Minutes)
}

func (s *ScheduleBuffer) SetFirstLeaveMinutes(minutes int) error {
	return s.setTime(&s.params.FirstLeave, &s.firstLeaveDirty, s.params.FirstLeave.Hours, minutes)
}

func (s *ScheduleBuffer) SetBoundaryHours(hours int) error {
	return s.setTime(&s.params.Boundary, &s.boundaryDirty, hours, s.params.Boundary.Minutes)
}

func (s *ScheduleBuffer) SetBoundaryMinutes(minutes int) error {
	return s.setTime(&s.params.Boundary, &s.boundaryDirty, s.params.Boundary.Hours, minutes)
}

func (s *ScheduleBuffer) SetFirstLeave(t TimeOfDay) error {
	return s.setTime(&s.params.FirstLeave, &s.firstLeaveDirty, t.Hours, t.Minutes)
}

func (s *ScheduleBuffer) SetBoundary(t TimeOfDay) error {
	return s.setTime(&s.params.Boundary, &s.boundaryDirty, t.Hours, t.Minutes)
}

func (s *ScheduleBuffer) setTime(field *TimeOfDay, dirty *bool, hours, minutes int) error {
	t, err := NewTimeOfDay(hours, minutes)
	if err != nil {
		return err
	}
	if t == *field {
		return nil
	}
	*field = t
	*dirty = true
	return nil
}

func (s *ScheduleBuffer) IsDirty() bool {
	return s.nameDirty || s.headwayDirty || s.firstLeaveDirty || s.boundaryDirty
}

func (s *ScheduleBuffer) MarkSaved() {
	s.nameDirty = false
	s.headwayDirty = false
	s.firstLeaveDirty = false
	s.boundaryDirty = false
}
