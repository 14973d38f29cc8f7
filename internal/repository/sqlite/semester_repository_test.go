package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
	"github.com/vytor/studytracker/internal/repository/sqlite"
	"github.com/vytor/studytracker/internal/testutil"
)

type SemesterRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.SemesterRepository
	subjects repository.SubjectRepository
}

func (s *SemesterRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSemesterRepository(s.db)
	s.subjects = sqlite.NewSubjectRepository(s.db)
}

func (s *SemesterRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SemesterRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, "Fall 2024")
	s.Require().NoError(err)
	s.Assert().Greater(created.ID, int64(0))
	s.Assert().False(created.Archived)

	got, err := s.repo.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Fall 2024", got.Name)
}

func (s *SemesterRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), 99999)
	s.Assert().NoError(err)
	s.Assert().Nil(got)
}

func (s *SemesterRepositorySuite) TestList_ArchivedFilter() {
	ctx := context.Background()

	active, err := s.repo.Create(ctx, "Spring")
	s.Require().NoError(err)
	old, err := s.repo.Create(ctx, "Fall")
	s.Require().NoError(err)
	s.Require().NoError(s.repo.SetArchived(ctx, old.ID, true))

	visible, err := s.repo.List(ctx, false)
	s.Require().NoError(err)
	s.Require().Len(visible, 1)
	s.Assert().Equal(active.ID, visible[0].ID)

	all, err := s.repo.List(ctx, true)
	s.Require().NoError(err)
	s.Assert().Len(all, 2)
}

func (s *SemesterRepositorySuite) TestDelete_Cascades() {
	ctx := context.Background()

	sem, err := s.repo.Create(ctx, "Fall")
	s.Require().NoError(err)
	subj, err := s.subjects.Create(ctx, models.Subject{SemesterID: sem.ID, Name: "Physics"})
	s.Require().NoError(err)
	testutil.MustExec(s.T(), s.db, `INSERT INTO assessments (subject_id, category_id, name, date, grade)
SELECT ?, id, 'Midterm', '2024-03-01', '90' FROM categories WHERE subject_id = ?`, subj.ID, subj.ID)

	s.Require().NoError(s.repo.Delete(ctx, sem.ID))

	for _, table := range []string{"semesters", "subjects", "categories", "assessments"} {
		var n int
		s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n))
		s.Assert().Zero(n, table)
	}
}

func TestSemesterRepositorySuite(t *testing.T) {
	suite.Run(t, new(SemesterRepositorySuite))
}
