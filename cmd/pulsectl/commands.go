package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pulsetrack/pulsetrack/client"
	"github.com/pulsetrack/pulsetrack/internal/grid"
)

func runRegister(apiURL, email, password, name string, out io.Writer) error {
	c := client.New(apiURL)
	var displayName *string
	if name != "" {
		displayName = &name
	}
	u, err := c.Register(context.Background(), email, password, displayName)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "registered %s (%s)\n", u.Email, u.UserID)
	return nil
}

func runLogin(apiURL, email, password string, out io.Writer) error {
	c := client.New(apiURL)
	if _, err := c.Login(context.Background(), email, password); err != nil {
		return err
	}
	fmt.Fprintln(out, c.SessionToken())
	return nil
}

func runAdd(apiURL, sessionToken, name, at string, out io.Writer) error {
	ts := time.Now()
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("invalid --at value (want RFC 3339): %w", err)
		}
		ts = parsed
	}

	c := client.New(apiURL)
	c.SetSessionToken(sessionToken)
	a, err := c.AddActivity(context.Background(), name, ts)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added %s at %s (%s)\n", a.Name, a.Timestamp.Format(time.RFC3339), a.ActivityID)
	return nil
}

func runList(apiURL, sessionToken string, out io.Writer) error {
	c := client.New(apiURL)
	c.SetSessionToken(sessionToken)
	activities, err := c.ListActivities(context.Background())
	if err != nil {
		return err
	}
	for _, a := range activities {
		fmt.Fprintf(out, "%s\t%s\t%s\n", a.ActivityID, a.Timestamp.Format(time.RFC3339), a.Name)
	}
	return nil
}

func runDelete(apiURL, sessionToken, activityID string, out io.Writer) error {
	c := client.New(apiURL)
	c.SetSessionToken(sessionToken)
	if err := c.DeleteActivity(context.Background(), activityID); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", activityID)
	return nil
}

// levelGlyphs renders intensity levels 0-4.
var levelGlyphs = [grid.MaxLevel + 1]rune{'.', '-', '+', '*', '#'}

var dayNames = [grid.Days]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func runGrid(apiURL, sessionToken, filter string, out io.Writer) error {
	c := client.New(apiURL)
	c.SetSessionToken(sessionToken)
	g, err := c.Grid(context.Background(), filter)
	if err != nil {
		return err
	}

	if filter != "" {
		fmt.Fprintf(out, "activities matching %q: %d\n", filter, g.Total)
	} else {
		fmt.Fprintf(out, "activities: %d\n", g.Total)
	}
	fmt.Fprint(out, "     ")
	for hour := 0; hour < grid.Hours; hour++ {
		fmt.Fprintf(out, "%2d", hour)
	}
	fmt.Fprintln(out)
	for day := 0; day < grid.Days; day++ {
		fmt.Fprintf(out, "%s  ", dayNames[day])
		for hour := 0; hour < grid.Hours; hour++ {
			fmt.Fprintf(out, " %c", levelGlyphs[g.Cells[day][hour].Level])
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runSummary(apiURL, sessionToken string, out io.Writer) error {
	c := client.New(apiURL)
	c.SetSessionToken(sessionToken)
	entries, err := c.Summary(context.Background())
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%5d  %s\n", e.Count, e.Name)
	}
	return nil
}

func runToken(apiURL, sessionToken string, out io.Writer) error {
	c := client.New(apiURL)
	c.SetSessionToken(sessionToken)
	tok, err := c.FetchToken(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tok)
	return nil
}
