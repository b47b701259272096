package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

const nameColumnWidth = 20

type HistoryCmd struct {
	Days  int    `help:"Number of days to show, ending today." default:"14"`
	Start string `help:"First day in YYYY-MM-DD format."`
	End   string `help:"Last day in YYYY-MM-DD format (default: today)."`
}

// Window resolves the flags to an inclusive day range. An explicit start
// wins over --days.
func (c *HistoryCmd) Window(today string) (string, string, error) {
	end := c.End
	if end == "" {
		end = today
	}
	if c.Start != "" {
		return c.Start, end, nil
	}
	if c.Days < 1 || c.Days > constants.MaxHistoryDays {
		return "", "", fmt.Errorf("--days must be between 1 and %d", constants.MaxHistoryDays)
	}
	endDay, err := utils.ParseDay(end)
	if err != nil {
		return "", "", fmt.Errorf("invalid end date: %s (expected YYYY-MM-DD)", end)
	}
	return utils.DayKey(utils.AddDays(endDay, -(c.Days - 1))), end, nil
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	start, end, err := c.Window(ctx.Service.Today())
	if err != nil {
		return err
	}

	days, err := ctx.Service.History(context.Background(), ctx.UserID(), start, end)
	if err != nil {
		return err
	}

	rows := habitRows(days)
	if len(rows) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Printf("Habit history (%s to %s):\n\n", start, end)
	ctx.Print(renderGrid(days, rows))
	return nil
}

type habitRow struct {
	id   int64
	name string
}

// habitRows lists every habit that was active on at least one day, in the
// order they first appear.
func habitRows(days []models.DailySummary) []habitRow {
	seen := make(map[int64]bool)
	var rows []habitRow
	for _, d := range days {
		for _, h := range d.Habits {
			if !seen[h.HabitID] {
				seen[h.HabitID] = true
				rows = append(rows, habitRow{id: h.HabitID, name: h.Name})
			}
		}
	}
	return rows
}

// renderGrid draws one column per day: x for done, . for missed and a blank
// where the habit was not scheduled. The last row is the day's rate.
func renderGrid(days []models.DailySummary, rows []habitRow) string {
	var b strings.Builder

	b.WriteString(pad("Habit", nameColumnWidth))
	for _, d := range days {
		date, _ := utils.ParseDay(d.Date)
		fmt.Fprintf(&b, " %5s", date.Format("01/02"))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", nameColumnWidth+6*len(days)))
	b.WriteString("\n")

	for _, row := range rows {
		b.WriteString(pad(row.name, nameColumnWidth))
		for _, d := range days {
			b.WriteString(cell(d, row.id))
		}
		b.WriteString("\n")
	}

	b.WriteString(pad("Rate", nameColumnWidth))
	for _, d := range days {
		if d.TotalHabits == 0 {
			b.WriteString("      ")
			continue
		}
		fmt.Fprintf(&b, " %4.0f%%", d.CompletionRate)
	}
	b.WriteString("\n")
	return b.String()
}

func cell(d models.DailySummary, habitID int64) string {
	for _, h := range d.Habits {
		if h.HabitID != habitID {
			continue
		}
		if h.Completed {
			return "  x   "
		}
		return "  .   "
	}
	return "      "
}

// pad truncates or right-pads name to width runes.
func pad(name string, width int) string {
	r := []rune(name)
	if len(r) > width {
		return string(r[:width-3]) + "..."
	}
	return name + strings.Repeat(" ", width-len(r))
}
