package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foliolabs/folioagent/logging"
	"github.com/foliolabs/folioagent/mail"
)

// DefaultTimezone is used when neither configuration nor the call supplies one.
const DefaultTimezone = "America/New_York"

const (
	businessStartHour = 9  // 09:00 local
	businessEndHour   = 17 // last slot ends 17:00 local
	maxSlots          = 5
)

// meetingDurations maps meeting type to duration. Callers cannot override
// the duration directly; unknown types fall back to defaultDuration.
var meetingDurations = map[string]time.Duration{
	"initial consultation": 60 * time.Minute,
	"proposal review":      45 * time.Minute,
	"status update":        30 * time.Minute,
	"technical discussion": 60 * time.Minute,
}

const defaultDuration = 30 * time.Minute

// DurationFor resolves the meeting duration from its type. Matching is
// case-insensitive; unknown types degrade to the 30-minute default.
func DurationFor(meetingType string) time.Duration {
	if d, ok := meetingDurations[strings.ToLower(strings.TrimSpace(meetingType))]; ok {
		return d
	}
	return defaultDuration
}

// conferencingProviders are matched as substrings against a requested
// location to decide whether the meeting is a video conference.
var conferencingProviders = []string{"zoom", "meet.google", "google meet", "teams", "webex"}

// isVideoLocation reports whether the location names a known conferencing provider.
func isVideoLocation(location string) bool {
	l := strings.ToLower(location)
	for _, p := range conferencingProviders {
		if strings.Contains(l, p) {
			return true
		}
	}
	return false
}

// Slot is one free one-hour candidate.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Availability is the result of an availability scan.
type Availability struct {
	Slots []Slot `json:"slots"`
	Found bool   `json:"found"`
}

// ScheduleRequest carries the caller-supplied meeting parameters. Duration
// is deliberately absent: it derives from MeetingType.
type ScheduleRequest struct {
	ClientName  string
	ClientEmail string
	Date        string // 2006-01-02
	StartTime   string // 15:04
	MeetingType string
	Location    string // physical place or conferencing link
	ProjectName string
	Timezone    string // optional, falls back to the scheduler default
	Notes       string
}

// Meeting is the display-oriented shape returned to callers and the model.
type Meeting struct {
	ID        string   `json:"id"`
	Subject   string   `json:"subject"`
	When      string   `json:"when"` // human-readable local date/time
	Attendees []string `json:"attendees"`
	VideoLink string   `json:"video_link,omitempty"`
	Location  string   `json:"location,omitempty"`
}

// Scheduler is the availability and meeting lifecycle engine layered on the
// calendar capability. Meeting state machine per event:
// Proposed -> Scheduled -> {Rescheduled -> Scheduled | Canceled}; Scheduled
// is non-terminal (reschedule loops back), Canceled is terminal (the event
// is deleted).
type Scheduler struct {
	svc       Service
	mailer    mail.Mailer
	operator  mail.Operator
	defaultTZ string
	logger    logging.Logger
	now       func() time.Time
}

// NewScheduler wires the scheduling engine. mailer may be nil to disable
// client notifications; defaultTZ falls back to DefaultTimezone.
func NewScheduler(svc Service, mailer mail.Mailer, operator mail.Operator, defaultTZ string, logger logging.Logger) *Scheduler {
	if defaultTZ == "" {
		defaultTZ = DefaultTimezone
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Scheduler{
		svc:       svc,
		mailer:    mailer,
		operator:  operator,
		defaultTZ: defaultTZ,
		logger:    logger,
		now:       time.Now,
	}
}

// location resolves the effective timezone for a call.
func (s *Scheduler) location(tz string) (*time.Location, error) {
	if tz == "" {
		tz = s.defaultTZ
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return loc, nil
}

// CheckAvailability scans each calendar day in the inclusive [startDate,
// endDate] range, skipping weekends, and tests every one-hour business slot
// (09:00-17:00 local) against the reported busy intervals. It returns the
// first five free slots chronologically. This is a greedy scan, not optimal
// packing: any busy overlap marks the whole hour unavailable even if
// sub-slot gaps exist.
func (s *Scheduler) CheckAvailability(ctx context.Context, startDate, endDate, tz string) (Availability, error) {
	loc, err := s.location(tz)
	if err != nil {
		return Availability{}, err
	}
	first, err := time.ParseInLocation("2006-01-02", startDate, loc)
	if err != nil {
		return Availability{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	last, err := time.ParseInLocation("2006-01-02", endDate, loc)
	if err != nil {
		return Availability{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if last.Before(first) {
		return Availability{}, fmt.Errorf("end date %s precedes start date %s", endDate, startDate)
	}

	rangeEnd := last.AddDate(0, 0, 1)
	busy, err := s.svc.FreeBusy(ctx, first, rangeEnd)
	if err != nil {
		return Availability{}, fmt.Errorf("free/busy query: %w", err)
	}

	var slots []Slot
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for hour := businessStartHour; hour < businessEndHour; hour++ {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc)
			end := start.Add(time.Hour)
			if slotConflicts(start, end, busy) {
				continue
			}
			slots = append(slots, Slot{Start: start, End: end})
			if len(slots) == maxSlots {
				return Availability{Slots: slots, Found: true}, nil
			}
		}
	}
	return Availability{Slots: slots, Found: len(slots) > 0}, nil
}

// slotConflicts reports whether [start, end) overlaps any busy interval: the
// slot's start falls inside one, its end falls inside one, or the slot fully
// contains one.
func slotConflicts(start, end time.Time, busy []Interval) bool {
	for _, iv := range busy {
		startsInside := !start.Before(iv.Start) && start.Before(iv.End)
		endsInside := end.After(iv.Start) && !end.After(iv.End)
		contains := !iv.Start.Before(start) && !iv.End.After(end)
		if startsInside || endsInside || contains {
			return true
		}
	}
	return false
}

// ScheduleMeeting creates a calendar event for the request and notifies the
// client by direct email outside the calendar invite. Event creation is the
// authoritative side effect; a notification failure is logged, not rolled
// back.
func (s *Scheduler) ScheduleMeeting(ctx context.Context, req ScheduleRequest) (Meeting, error) {
	loc, err := s.location(req.Timezone)
	if err != nil {
		return Meeting{}, err
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.StartTime, loc)
	if err != nil {
		return Meeting{}, fmt.Errorf("invalid date/time %q %q: %w", req.Date, req.StartTime, err)
	}
	duration := DurationFor(req.MeetingType)
	end := start.Add(duration)

	subject := fmt.Sprintf("%s: %s", titleCase(req.MeetingType), req.ClientName)
	if req.ProjectName != "" {
		subject += fmt.Sprintf(" (%s)", req.ProjectName)
	}

	desc := fmt.Sprintf("Meeting with %s.", req.ClientName)
	if req.ProjectName != "" {
		desc += fmt.Sprintf(" Project: %s.", req.ProjectName)
	}
	if req.Notes != "" {
		desc += " " + strings.TrimSpace(req.Notes)
	}

	ev := Event{
		Subject:  subject,
		Start:    start,
		End:      end,
		Timezone: loc.String(),
		Attendees: []Attendee{
			{Email: s.operator.Email, Name: s.operator.Name},
			{Email: req.ClientEmail, Name: req.ClientName},
		},
		Description: desc,
		Reminders:   []Reminder{{MinutesBefore: 24 * 60}, {MinutesBefore: 30}},
	}
	if isVideoLocation(req.Location) {
		ev.VideoLink = req.Location
	} else {
		ev.Location = req.Location
	}

	created, err := s.svc.Create(ctx, ev)
	if err != nil {
		return Meeting{}, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info("calendar.meeting.scheduled",
		"event_id", created.ID, "type", req.MeetingType, "duration_min", int(duration.Minutes()))

	s.notifyClient(ctx, req, created)

	return toMeeting(created), nil
}

// notifyClient sends the best-effort direct message to the client.
func (s *Scheduler) notifyClient(ctx context.Context, req ScheduleRequest, ev Event) {
	if s.mailer == nil || req.ClientEmail == "" {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s with %s is confirmed for %s.\n",
		req.ClientName, strings.ToLower(req.MeetingType), s.operator.Name,
		ev.Start.Format("Monday, January 2 2006 at 3:04 PM MST"),
	)
	if ev.VideoLink != "" {
		body += fmt.Sprintf("Join link: %s\n", ev.VideoLink)
	} else if ev.Location != "" {
		body += fmt.Sprintf("Location: %s\n", ev.Location)
	}
	err := s.mailer.Send(ctx, mail.Message{
		From:    s.operator.Email,
		To:      req.ClientEmail,
		Subject: "Meeting confirmed: " + ev.Subject,
		Body:    body,
	})
	if err != nil {
		s.logger.Warn("calendar.notify.failed", "event_id", ev.ID, "error", err.Error())
	}
}

// RescheduleMeeting moves an existing event to a new start, preserving its
// recorded duration (end minus start, not re-derived from meeting type, so a
// manually edited event keeps its length) and appending an audit note with
// the previous time and the stated reason.
func (s *Scheduler) RescheduleMeeting(ctx context.Context, meetingID, newDate, newStartTime, reason, tz string) (Meeting, error) {
	ev, err := s.svc.Get(ctx, meetingID)
	if err != nil {
		return Meeting{}, fmt.Errorf("read event: %w", err)
	}
	loc, err := s.location(tz)
	if err != nil {
		return Meeting{}, err
	}
	newStart, err := time.ParseInLocation("2006-01-02 15:04", newDate+" "+newStartTime, loc)
	if err != nil {
		return Meeting{}, fmt.Errorf("invalid date/time %q %q: %w", newDate, newStartTime, err)
	}

	duration := ev.End.Sub(ev.Start)
	previous := ev.Start

	ev.Start = newStart
	ev.End = newStart.Add(duration)
	note := fmt.Sprintf("Rescheduled from %s", previous.Format("Monday, January 2 2006 at 3:04 PM MST"))
	if reason != "" {
		note += fmt.Sprintf(" (reason: %s)", reason)
	}
	ev.Description = strings.TrimSpace(ev.Description + "\n" + note + ".")

	updated, err := s.svc.Update(ctx, ev)
	if err != nil {
		return Meeting{}, fmt.Errorf("update event: %w", err)
	}
	s.logger.Info("calendar.meeting.rescheduled", "event_id", meetingID, "duration_min", int(duration.Minutes()))
	return toMeeting(updated), nil
}

// CancelMeeting deletes an event; attendee notification is controlled by
// sendNotification rather than always sent. The event is read first so the
// response can describe what was canceled.
func (s *Scheduler) CancelMeeting(ctx context.Context, meetingID, reason string, sendNotification bool) (Meeting, error) {
	ev, err := s.svc.Get(ctx, meetingID)
	if err != nil {
		return Meeting{}, fmt.Errorf("read event: %w", err)
	}
	if err := s.svc.Delete(ctx, meetingID, sendNotification); err != nil {
		return Meeting{}, fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info("calendar.meeting.canceled", "event_id", meetingID, "reason", reason, "notified", sendNotification)
	return toMeeting(ev), nil
}

// UpcomingMeetings lists events in [now, now+days] normalized for display.
func (s *Scheduler) UpcomingMeetings(ctx context.Context, days, maxResults int) ([]Meeting, error) {
	if days <= 0 {
		days = 7
	}
	from := s.now()
	to := from.AddDate(0, 0, days)
	events, err := s.svc.List(ctx, from, to, maxResults)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	meetings := make([]Meeting, 0, len(events))
	for _, ev := range events {
		meetings = append(meetings, toMeeting(ev))
	}
	return meetings, nil
}

// titleCase capitalizes the first letter of each word for subject lines.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// toMeeting normalizes an event to the display-oriented shape.
func toMeeting(ev Event) Meeting {
	attendees := make([]string, 0, len(ev.Attendees))
	for _, a := range ev.Attendees {
		if a.Name != "" {
			attendees = append(attendees, fmt.Sprintf("%s <%s>", a.Name, a.Email))
		} else {
			attendees = append(attendees, a.Email)
		}
	}
	return Meeting{
		ID:        ev.ID,
		Subject:   ev.Subject,
		When:      ev.Start.Format("Monday, January 2 2006 at 3:04 PM MST"),
		Attendees: attendees,
		VideoLink: ev.VideoLink,
		Location:  ev.Location,
	}
}
