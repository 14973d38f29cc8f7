// Package report renders study reports for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/vytor/studytracker/internal/models"
)

const dateLayout = "Jan 02, 2006"

func printTable(w io.Writer, data [][]string) error {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, err = fmt.Fprintln(w, str)
	return err
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", pterm.LightBlue(title))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Subject prints the grade breakdown and the enriched assessments of one
// subject.
func Subject(w io.Writer, subject models.Subject, r models.SubjectReport) error {
	heading(w, fmt.Sprintf("%s (target %s)", subject.Name, num(r.Grade.TargetGrade)))

	if err := Grade(w, r.Grade); err != nil {
		return err
	}

	heading(w, "Assessments")
	if len(r.Assessments) == 0 {
		fmt.Fprintln(w, "No assessments recorded.")
		return nil
	}
	data := [][]string{{"DATE", "NAME", "CATEGORY", "GRADE", "HOURS", "EFFICIENCY"}}
	for _, a := range r.Assessments {
		grade := a.Grade
		if !a.Graded {
			grade = pterm.Gray("ungraded")
		}
		efficiency := "-"
		if a.Graded && a.Hours > 0 {
			efficiency = num(a.Efficiency)
		}
		data = append(data, []string{
			a.Date.Format(dateLayout),
			a.Name,
			a.CategoryName,
			grade,
			num(a.Hours),
			efficiency,
		})
	}
	return printTable(w, data)
}

// Grade prints the per-category breakdown and the projection summary.
func Grade(w io.Writer, g models.GradeReport) error {
	data := [][]string{{"CATEGORY", "WEIGHT", "ITEMS", "AVERAGE", "POINTS"}}
	for _, c := range g.Categories {
		average, points := "-", "-"
		if c.Items > 0 {
			average = num(c.Average)
			points = num(c.WeightedPoints)
		}
		data = append(data, []string{c.Name, num(c.Weight), strconv.Itoa(c.Items), average, points})
	}
	if err := printTable(w, data); err != nil {
		return err
	}

	fmt.Fprintf(w, "Current grade:     %s\n", num(g.CurrentGrade))
	fmt.Fprintf(w, "Remaining weight:  %s\n", num(g.RemainingWeight))
	switch {
	case g.RemainingWeight <= 0:
		fmt.Fprintln(w, "Required score:    nothing left to grade")
	case g.RequiredScore > 100:
		fmt.Fprintf(w, "Required score:    %s\n", pterm.Red(num(g.RequiredScore)+" (out of reach)"))
	default:
		fmt.Fprintf(w, "Required score:    %s\n", num(g.RequiredScore))
	}
	if g.HasRegression {
		fmt.Fprintf(w, "Predicted hours:   %s\n", num(g.PredictedHours))
	} else {
		fmt.Fprintln(w, "Predicted hours:   not enough graded data")
	}
	fmt.Fprintf(w, "Exams remaining:   %d\n", g.ExamsRemaining)
	return nil
}

// Analytics prints the efficiency chart and the fitted prediction line.
func Analytics(w io.Writer, a models.Analytics) error {
	heading(w, "Efficiency (grade points per hour)")
	if len(a.EfficiencySeries) == 0 {
		fmt.Fprintln(w, "No graded assessments with study time.")
	} else {
		bars := make(pterm.Bars, 0, len(a.EfficiencySeries))
		for _, p := range a.EfficiencySeries {
			bars = append(bars, pterm.Bar{Label: p.Name, Value: int(math.Round(p.Efficiency))})
		}
		chart, err := pterm.DefaultBarChart.
			WithHorizontal().
			WithShowValue().
			WithBars(bars).
			Srender()
		if err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		fmt.Fprintln(w, chart)
		fmt.Fprintf(w, "Average efficiency: %s\n", num(a.AverageEfficiency))
	}

	heading(w, "Prediction")
	if a.Prediction == nil {
		fmt.Fprintln(w, "Not enough graded data for a prediction.")
		return nil
	}
	p := a.Prediction
	fmt.Fprintf(w, "grade = %.2f * hours + %.2f (n=%d, r²=%.2f)\n", p.Slope, p.Intercept, p.Points, p.RSquared)
	return nil
}

// Totals prints the study time per subject of a semester.
func Totals(w io.Writer, semester models.Semester, t models.SemesterTotals) error {
	heading(w, fmt.Sprintf("%s study time", semester.Name))
	data := [][]string{{"SUBJECT", "TIME"}}
	for _, s := range t.Subjects {
		data = append(data, []string{s.SubjectName, formatSeconds(s.TotalSeconds)})
	}
	data = append(data, []string{pterm.Bold.Sprint("Total"), formatSeconds(t.TotalSeconds)})
	return printTable(w, data)
}

// Semesters lists semesters with their subjects.
func Semesters(w io.Writer, semesters []models.Semester, subjects map[int64][]models.Subject) error {
	data := [][]string{{"ID", "SEMESTER", "SUBJECTS", "STATUS"}}
	for _, s := range semesters {
		status := "active"
		if s.Archived {
			status = pterm.Gray("archived")
		}
		names := ""
		for i, sub := range subjects[s.ID] {
			if i > 0 {
				names += ", "
			}
			names += fmt.Sprintf("%s (#%d)", sub.Name, sub.ID)
		}
		data = append(data, []string{strconv.FormatInt(s.ID, 10), s.Name, names, status})
	}
	return printTable(w, data)
}

func formatSeconds(secs int64) string {
	d := time.Duration(secs) * time.Second
	h := int64(d / time.Hour)
	m := int64((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %02dm", h, m)
}
