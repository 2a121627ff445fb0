package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/tasks"
	"github.com/marcus/zooshift/internal/zoo"
)

type outputStyles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	OK     lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
	Accent lipgloss.Style
}

func newOutputStyles() outputStyles {
	return outputStyles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		OK:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Accent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
	}
}

// statusPill renders a task's state. It goes in the last column so colour
// codes do not upset tabwriter alignment.
func statusPill(styles outputStyles, e schedule.Entry) string {
	switch {
	case e.Status == schedule.StatusCompleted:
		return styles.OK.Render("done")
	case e.Task.Assigned():
		return styles.Accent.Render("assigned")
	default:
		return styles.Warn.Render("open")
	}
}

func taskTarget(t *tasks.Task) string {
	switch t.Type() {
	case tasks.TypeTreatment:
		return t.AnimalID()
	case tasks.TypeFeeding:
		return t.EnclosureID() + " (" + strings.Join(t.Animals(), ", ") + ")"
	default:
		return t.EnclosureID()
	}
}

func renderTaskTable(out io.Writer, entries []schedule.Entry) {
	styles := newOutputStyles()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTYPE\tDATE\tTARGET\tOWNER\tSTATUS")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Task.ID(),
			e.Task.Type(),
			e.Date,
			taskTarget(e.Task),
			e.Owner,
			statusPill(styles, e),
		)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "\n%d task(s)\n", len(entries))
}

func renderTaskDetail(out io.Writer, loc schedule.Location) {
	styles := newOutputStyles()
	t := loc.Task
	_, _ = fmt.Fprintln(out, styles.Title.Render(t.ID()))
	row := func(label, value string) {
		_, _ = fmt.Fprintf(out, "  %s %s\n", styles.Label.Render(fmt.Sprintf("%-10s", label+":")), value)
	}
	row("Type", string(t.Type()))
	row("Date", loc.Date)
	switch t.Type() {
	case tasks.TypeTreatment:
		row("Animal", t.AnimalID())
	case tasks.TypeFeeding:
		row("Enclosure", t.EnclosureID())
		row("Feeds", strings.Join(t.Animals(), ", "))
	default:
		row("Enclosure", t.EnclosureID())
	}
	row("Owner", loc.Owner)
	row("Status", statusPill(styles, loc))
}

func renderAnimals(out io.Writer, animals []*zoo.Animal) {
	if len(animals) == 0 {
		_, _ = fmt.Fprintln(out, "No animals.")
		return
	}
	styles := newOutputStyles()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSPECIES\tAGE\tENCLOSURE\tVET\tSTATE")
	for _, a := range animals {
		var state []string
		if a.Hungry {
			state = append(state, styles.Warn.Render("hungry"))
		}
		if a.Ailment {
			label := "ailing"
			if a.Treatment {
				label = "in treatment"
			}
			state = append(state, styles.Error.Render(label))
		}
		if len(state) == 0 {
			state = append(state, styles.OK.Render("ok"))
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			a.Name, a.Species, a.Age, orDash(a.Enclosure), orDash(a.TreatedBy), strings.Join(state, " "))
	}
	_ = w.Flush()
}

func renderEnclosures(out io.Writer, enclosures []*zoo.Enclosure, threshold int) {
	if len(enclosures) == 0 {
		_, _ = fmt.Fprintln(out, "No enclosures.")
		return
	}
	styles := newOutputStyles()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTYPE\tSIZE\tANIMALS\tKEEPERS\tCLEANLINESS")
	for _, e := range enclosures {
		level := fmt.Sprintf("%d/%d", e.Cleanliness, zoo.MaxCleanliness)
		if e.Cleanliness < threshold {
			level = styles.Error.Render(level)
		} else {
			level = styles.OK.Render(level)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			e.ID, e.Type, e.Size, orDash(strings.Join(e.Animals, ", ")), orDash(strings.Join(e.Keepers, ", ")), level)
	}
	_ = w.Flush()
}

func renderStaff(out io.Writer, staff []*zoo.Staff) {
	if len(staff) == 0 {
		_, _ = fmt.Fprintln(out, "No staff.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tROLE\tRESPONSIBLE FOR\tTASKS")
	for _, s := range staff {
		responsible := s.Enclosures
		if s.Role == zoo.RoleVeterinarian {
			responsible = s.Animals
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			s.ID, s.Name, s.Role, orDash(strings.Join(responsible, ", ")), len(s.Tasks))
	}
	_ = w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
