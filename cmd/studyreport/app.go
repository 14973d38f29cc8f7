package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"github.com/vytor/studytracker/internal/config"
	"github.com/vytor/studytracker/internal/db"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/report"
	"github.com/vytor/studytracker/internal/repository/sqlite"
	"github.com/vytor/studytracker/internal/services"
)

type app struct {
	database  *db.DB
	semesters services.SemesterService
	subjects  services.SubjectService
	sessions  services.SessionService
	analytics services.AnalyticsService
}

// open builds read-side services over the database named by the global flags.
func open(ctx *cli.Context) (*app, error) {
	cfg := config.Load()
	if v := ctx.String("db"); v != "" {
		cfg.DBPath = v
	}
	if v := ctx.String("timezone"); v != "" {
		cfg.Timezone = v
	}
	if v := ctx.String("policy"); v != "" {
		cfg.UngradedPolicy = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	database, err := db.Open(ctx.Context, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}

	deps := services.AnalyticsDeps{
		Subjects:     sqlite.NewSubjectRepository(database.DB),
		Categories:   sqlite.NewCategoryRepository(database.DB),
		Sessions:     sqlite.NewSessionRepository(database.DB),
		Assessments:  sqlite.NewAssessmentRepository(database.DB),
		GradeEntries: sqlite.NewGradeEntryRepository(database.DB),
	}
	analytics, err := services.NewAnalyticsService(deps, cfg.AnalyticsConfig(), cfg.DefaultTargetGrade, cfg.ReportCacheSize)
	if err != nil {
		database.Close()
		return nil, err
	}
	semesters := services.NewSemesterService(sqlite.NewSemesterRepository(database.DB))
	subjects := services.NewSubjectService(deps.Subjects, deps.Categories, semesters, nil, cfg.DefaultTargetGrade)

	return &app{
		database:  database,
		semesters: semesters,
		subjects:  subjects,
		sessions:  services.NewSessionService(deps.Sessions, subjects, nil),
		analytics: analytics,
	}, nil
}

// withApp opens the database for the duration of one command.
func withApp(fn func(ctx *cli.Context, a *app, w io.Writer) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.Bool("no-color") {
			pterm.DisableStyling()
		}
		a, err := open(ctx)
		if err != nil {
			return err
		}
		defer a.database.Close()
		return fn(ctx, a, ctx.App.Writer)
	}
}

func newApp() *cli.App {
	// Keep migrations and query logs out of the report output.
	logger.SetDefault(logger.New(logger.WithLevel(logger.ERROR), logger.WithOutput(io.Discard)))

	subjectFlag := &cli.Int64Flag{
		Name:     "subject",
		Aliases:  []string{"s"},
		Usage:    "Subject ID",
		Required: true,
	}
	semesterFlag := &cli.Int64Flag{
		Name:     "semester",
		Aliases:  []string{"S"},
		Usage:    "Semester ID",
		Required: true,
	}

	return &cli.App{
		Name:      "studyreport",
		Usage:     "Print grade projections and study-time analytics from a study tracker database.",
		UsageText: "studyreport [GLOBAL OPTIONS] COMMAND [OPTIONS]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to the sqlite database (defaults to DB_PATH).",
				EnvVars: []string{"DB_PATH"},
			},
			&cli.StringFlag{
				Name:  "timezone",
				Usage: "IANA time zone used for assessment day boundaries (defaults to TIMEZONE).",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "How a zero grade is treated: zero-is-ungraded or zero-is-score.",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured output.",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "semesters",
				Usage:  "List semesters and their subjects",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "archived", Aliases: []string{"a"}, Usage: "Include archived semesters."}},
				Action: withApp(listSemesters),
			},
			{
				Name:  "report",
				Usage: "Show the weighted grade, required score and attributed study time of a subject",
				Flags: []cli.Flag{
					subjectFlag,
					&cli.Float64Flag{Name: "target", Aliases: []string{"t"}, Usage: "Target grade (defaults to the subject's)."},
				},
				Action: withApp(showReport),
			},
			{
				Name:   "analytics",
				Usage:  "Show study efficiency and the hours-to-grade prediction of a subject",
				Flags:  []cli.Flag{subjectFlag},
				Action: withApp(showAnalytics),
			},
			{
				Name:   "totals",
				Usage:  "Show total study time per subject for a semester",
				Flags:  []cli.Flag{semesterFlag},
				Action: withApp(showTotals),
			},
		},
	}
}

func listSemesters(ctx *cli.Context, a *app, w io.Writer) error {
	semesters, err := a.semesters.ListSemesters(ctx.Context, ctx.Bool("archived"))
	if err != nil {
		return err
	}
	if len(semesters) == 0 {
		pterm.Info.Println("No semesters yet.")
		return nil
	}
	subjects := make(map[int64][]models.Subject, len(semesters))
	for _, s := range semesters {
		list, err := a.subjects.ListSubjects(ctx.Context, s.ID)
		if err != nil {
			return err
		}
		subjects[s.ID] = list
	}
	return report.Semesters(w, semesters, subjects)
}

func showReport(ctx *cli.Context, a *app, w io.Writer) error {
	id := ctx.Int64("subject")
	subject, err := a.subjects.GetSubject(ctx.Context, id)
	if err != nil {
		return err
	}
	var target *float64
	if ctx.IsSet("target") {
		v := ctx.Float64("target")
		target = &v
	}
	r, err := a.analytics.Report(ctx.Context, id, target)
	if err != nil {
		return err
	}
	return report.Subject(w, *subject, *r)
}

func showAnalytics(ctx *cli.Context, a *app, w io.Writer) error {
	metrics, err := a.analytics.Analytics(ctx.Context, ctx.Int64("subject"))
	if err != nil {
		return err
	}
	return report.Analytics(w, *metrics)
}

func showTotals(ctx *cli.Context, a *app, w io.Writer) error {
	id := ctx.Int64("semester")
	semester, err := a.semesters.GetSemester(ctx.Context, id)
	if err != nil {
		return err
	}
	totals, err := a.sessions.SemesterTotals(ctx.Context, id)
	if err != nil {
		return err
	}
	return report.Totals(w, *semester, *totals)
}
