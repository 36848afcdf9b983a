package calendar

import (
	"fmt"
	"strings"

	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/tool"
)

// ScheduleToolName is the registered name of the meeting-scheduling
// capability. The dispatch layer matches on it for project-name backfill.
const ScheduleToolName = "schedule_meeting"

// Tools returns the scheduling tool family bound to the engine.
func Tools(s *Scheduler) []tool.Tool {
	return []tool.Tool{
		newCheckAvailabilityTool(s),
		newScheduleTool(s),
		newRescheduleTool(s),
		newCancelTool(s),
		newUpcomingTool(s),
	}
}

type checkAvailabilityArgs struct {
	StartDate string `json:"start_date" description:"First day to scan, YYYY-MM-DD"`
	EndDate   string `json:"end_date" description:"Last day to scan (inclusive), YYYY-MM-DD"`
	Timezone  string `json:"timezone,omitempty" description:"IANA timezone, defaults to the studio timezone"`
}

func newCheckAvailabilityTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"check_availability",
		"Find free one-hour meeting slots during business hours in a date range",
		checkAvailabilityArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			startDate, _ := args["start_date"].(string)
			endDate, _ := args["end_date"].(string)
			tz, _ := args["timezone"].(string)

			avail, err := s.CheckAvailability(tc.Context(), startDate, endDate, tz)
			if err != nil {
				return nil, err
			}
			if !avail.Found {
				return fmt.Sprintf("No free business-hour slots between %s and %s.", startDate, endDate), nil
			}
			var b strings.Builder
			b.WriteString("Available slots:\n")
			for _, slot := range avail.Slots {
				fmt.Fprintf(&b, "- %s to %s\n",
					slot.Start.Format("Mon Jan 2 15:04"), slot.End.Format("15:04 MST"))
			}
			return b.String(), nil
		},
	)
}

type scheduleArgs struct {
	ClientName  string `json:"client_name" description:"Client's name"`
	ClientEmail string `json:"client_email" description:"Client's email address"`
	Date        string `json:"date" description:"Meeting date, YYYY-MM-DD"`
	StartTime   string `json:"start_time" description:"Meeting start, HH:MM 24h local"`
	MeetingType string `json:"meeting_type" description:"e.g. initial consultation, proposal review, status update, technical discussion"`
	Location    string `json:"location,omitempty" description:"Physical place or conferencing link (zoom/meet/teams)"`
	ProjectName string `json:"project_name,omitempty" description:"Related project, if any"`
	Timezone    string `json:"timezone,omitempty" description:"IANA timezone, defaults to the studio timezone"`
	Notes       string `json:"notes,omitempty" description:"Extra context for the event description"`
}

func newScheduleTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		ScheduleToolName,
		"Schedule a meeting with a client; duration is derived from the meeting type",
		scheduleArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			req := ScheduleRequest{}
			req.ClientName, _ = args["client_name"].(string)
			req.ClientEmail, _ = args["client_email"].(string)
			req.Date, _ = args["date"].(string)
			req.StartTime, _ = args["start_time"].(string)
			req.MeetingType, _ = args["meeting_type"].(string)
			req.Location, _ = args["location"].(string)
			req.ProjectName, _ = args["project_name"].(string)
			req.Timezone, _ = args["timezone"].(string)
			req.Notes, _ = args["notes"].(string)

			meeting, err := s.ScheduleMeeting(tc.Context(), req)
			if err != nil {
				return nil, err
			}
			result := fmt.Sprintf("Scheduled %q on %s (id %s). Attendees: %s.",
				meeting.Subject, meeting.When, meeting.ID, strings.Join(meeting.Attendees, "; "))
			if meeting.VideoLink != "" {
				result += " Video: " + meeting.VideoLink
			}
			return result, nil
		},
	)
}

type rescheduleArgs struct {
	MeetingID    string `json:"meeting_id" description:"Calendar event id to move"`
	NewDate      string `json:"new_date" description:"New date, YYYY-MM-DD"`
	NewStartTime string `json:"new_start_time" description:"New start, HH:MM 24h local"`
	Reason       string `json:"reason,omitempty" description:"Why the meeting is moving"`
	Timezone     string `json:"timezone,omitempty" description:"IANA timezone, defaults to the studio timezone"`
}

func newRescheduleTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"reschedule_meeting",
		"Move an existing meeting to a new time, preserving its duration",
		rescheduleArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			id, _ := args["meeting_id"].(string)
			newDate, _ := args["new_date"].(string)
			newStart, _ := args["new_start_time"].(string)
			reason, _ := args["reason"].(string)
			tz, _ := args["timezone"].(string)

			meeting, err := s.RescheduleMeeting(tc.Context(), id, newDate, newStart, reason, tz)
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Rescheduled %q to %s.", meeting.Subject, meeting.When), nil
		},
	)
}

type cancelArgs struct {
	MeetingID        string `json:"meeting_id" description:"Calendar event id to cancel"`
	Reason           string `json:"reason,omitempty" description:"Why the meeting is canceled"`
	SendNotification bool   `json:"send_notification,omitempty" description:"Whether attendees are notified"`
}

func newCancelTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"cancel_meeting",
		"Cancel an existing meeting, optionally notifying attendees",
		cancelArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			id, _ := args["meeting_id"].(string)
			reason, _ := args["reason"].(string)
			notify, _ := args["send_notification"].(bool)

			meeting, err := s.CancelMeeting(tc.Context(), id, reason, notify)
			if err != nil {
				return nil, err
			}
			result := fmt.Sprintf("Canceled %q (was %s).", meeting.Subject, meeting.When)
			if reason != "" {
				result += " Reason: " + reason + "."
			}
			return result, nil
		},
	)
}

type upcomingArgs struct {
	Days       int `json:"days,omitempty" description:"Look-ahead window in days, default 7"`
	MaxResults int `json:"max_results,omitempty" description:"Cap on returned meetings"`
}

func newUpcomingTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"get_upcoming_meetings",
		"List upcoming meetings in the next N days",
		upcomingArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			days := intArg(args, "days")
			maxResults := intArg(args, "max_results")

			meetings, err := s.UpcomingMeetings(tc.Context(), days, maxResults)
			if err != nil {
				return nil, err
			}
			if len(meetings) == 0 {
				return "No upcoming meetings.", nil
			}
			var b strings.Builder
			b.WriteString("Upcoming meetings:\n")
			for _, m := range meetings {
				fmt.Fprintf(&b, "- %s — %s (id %s)", m.Subject, m.When, m.ID)
				if m.VideoLink != "" {
					fmt.Fprintf(&b, " [%s]", m.VideoLink)
				}
				b.WriteString("\n")
			}
			return b.String(), nil
		},
	)
}

// intArg tolerates the float64 numbers JSON decoding produces.
func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
