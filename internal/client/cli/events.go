package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/fishlog/internal/client/models"
)

// eventDateLayout is how event dates are typed and shown, in local time.
const eventDateLayout = "2006-01-02 15:04"

// ListEvents prints the events the user attends, or every event with "all".
func (a *App) ListEvents(ctx context.Context, args []string) error {
	var (
		events []models.Event
		err    error
	)

	switch {
	case len(args) == 0:
		u := a.authService.State().User
		if u == nil {
			printlnFn("Not logged in")
			return nil
		}
		events, err = a.eventService.ListByParticipant(ctx, u.ID)
	case args[0] == "all":
		events, err = a.eventService.List(ctx)
	default:
		printlnFn("Usage: events [all]")
		return nil
	}
	if err != nil {
		return err
	}

	if len(events) == 0 {
		printlnFn("No events yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDATE\tLOCATION\tGROUP\tGOING")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			e.ID, e.Title, e.Date.Local().Format(eventDateLayout), e.Location, e.GroupID, len(e.Participants))
	}
	return tw.Flush()
}

// AddEvent prompts for a new event created by the current user.
func (a *App) AddEvent(ctx context.Context) error {
	u := a.authService.State().User
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}

	in := models.EventInput{CreatedBy: u.ID}

	var err error
	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.Date, err = a.getDate("Date (YYYY-MM-DD HH:MM)"); err != nil {
		return err
	}
	if in.Location, err = getSimpleText(a.reader, "Location", a.out); err != nil {
		return err
	}
	if in.GroupID, err = getSimpleText(a.reader, "Group id (empty for none)", a.out); err != nil {
		return err
	}
	if in.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	e, err := a.eventService.Create(ctx, in)
	if err != nil {
		return err
	}
	printlnFn("Event id:", e.ID)
	return nil
}

func (a *App) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		printlnFn("Usage: delevent <id>")
		return nil
	}
	return a.eventService.Delete(ctx, id)
}

// Attend and Unattend change the current user's attendance.
func (a *App) Attend(ctx context.Context, eventID string) error {
	return a.changeAttendance(ctx, "attend <eventId>", eventID, true)
}

func (a *App) Unattend(ctx context.Context, eventID string) error {
	return a.changeAttendance(ctx, "unattend <eventId>", eventID, false)
}

func (a *App) changeAttendance(ctx context.Context, usage, eventID string, add bool) error {
	userID := a.currentUserID()
	if eventID == "" || userID == "" {
		printlnFn("Usage: " + usage)
		return nil
	}

	if _, ok := a.eventService.Event(eventID); !ok {
		if _, err := a.eventService.List(ctx); err != nil {
			return err
		}
	}

	var err error
	if add {
		_, err = a.eventService.AddParticipant(ctx, eventID, userID)
	} else {
		_, err = a.eventService.RemoveParticipant(ctx, eventID, userID)
	}
	return err
}

func (a *App) getDate(prompt string) (time.Time, error) {
	for {
		s, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return time.Time{}, err
		}
		t, err := time.ParseInLocation(eventDateLayout, s, time.Local)
		if err == nil {
			return t, nil
		}
		printlnFn("Please enter a date like 2025-06-14 05:30")
	}
}
