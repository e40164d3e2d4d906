package cv

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	db.MustExec(SQLiteSchema)

	return db
}

func seed(t *testing.T, db *sqlx.DB) {
	t.Helper()

	db.MustExec(`INSERT INTO profiles (id, summary, active, last_names, first_names, nationality,
		birth_place, id_number, sex, marital_status, home_address, photo_url)
		VALUES (1, 'Software developer', 1, 'Arias', 'Fabricio', 'Ecuadorian', 'Manta',
		'1300000001', 'M', 'Single', 'Av. 24 de Mayo', 'https://cdn.example.com/me.png')`)
	db.MustExec(`INSERT INTO profiles (id, summary, active, last_names, first_names, nationality,
		birth_place, id_number, sex, marital_status, home_address)
		VALUES (2, 'Old profile', 0, 'Other', 'Someone', 'Ecuadorian', 'Quito',
		'1300000002', 'F', 'Single', 'Calle 1')`)

	db.MustExec(`INSERT INTO courses (id, profile_id, name, start_date, end_date, total_hours,
		description, sponsor, visible, certificate_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1, 1, "Go fundamentals", date(2023, 1, 10), date(2023, 2, 10), 40, "Concurrency", "Academy", true, "certs/go.png")
	db.MustExec(`INSERT INTO courses (id, profile_id, name, start_date, total_hours,
		description, sponsor, visible) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		2, 1, "Hidden course", date(2022, 1, 1), 10, "Hidden", "Academy", false)
	db.MustExec(`INSERT INTO courses (id, profile_id, name, start_date, total_hours,
		description, sponsor, visible) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		3, 2, "Other profile course", date(2022, 1, 1), 10, "Other", "Academy", true)

	db.MustExec(`INSERT INTO awards (id, profile_id, type, date, description, sponsor, visible, certificate_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		1, 1, AwardTypeAcademic, date(2024, 6, 1), "Best thesis", "University", true, "https://cdn.example.com/award.jpg")

	db.MustExec(`INSERT INTO work_experiences (id, profile_id, role, company, location, start_date,
		description, visible) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		1, 1, "Backend developer", "Acme", "Manta", date(2021, 3, 1), "APIs in Go", true)

	db.MustExec(`INSERT INTO academic_outputs (id, profile_id, name, classifier, description, visible)
		VALUES (?, ?, ?, ?, ?, ?)`, 1, 1, "Paper", "Journal", "A study", true)

	db.MustExec(`INSERT INTO labor_outputs (id, profile_id, name, date, description, visible)
		VALUES (?, ?, ?, ?, ?, ?)`, 1, 1, "Billing system", date(2022, 5, 5), "Invoices", true)

	db.MustExec(`INSERT INTO garage_items (id, profile_id, name, price, description, visible, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, 1, 1, "Bike", 120.5, "Mountain bike", true, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	db.MustExec(`INSERT INTO garage_items (id, profile_id, name, price, description, visible, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, 2, 1, "Desk", 80, "Oak desk", true, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	db.MustExec(`INSERT INTO garage_items (id, profile_id, name, price, description, visible)
		VALUES (?, ?, ?, ?, ?, ?)`, 3, 1, "Lamp", 15, "Undated", true)
}

func TestFindActiveProfile(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	profile, err := repo.FindActiveProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)

	seed(t, db)

	profile, err = repo.FindActiveProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, int64(1), profile.ID)
	assert.Equal(t, "Fabricio Arias", profile.FullName())
	require.NotNil(t, profile.PhotoURL)
	assert.Equal(t, "https://cdn.example.com/me.png", *profile.PhotoURL)
	assert.Nil(t, profile.Website)
}

func TestListVisibleScopedToProfile(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	courses, err := repo.ListCourses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go fundamentals", courses[0].Name)
	assert.Equal(t, 40, courses[0].TotalHours)
	require.NotNil(t, courses[0].EndDate)
	assert.Equal(t, "2023-02-10", courses[0].EndDate.Format("2006-01-02"))

	awards, err := repo.ListAwards(ctx, 1)
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, AwardTypeAcademic, awards[0].Type)

	work, err := repo.ListWorkExperience(ctx, 1)
	require.NoError(t, err)
	require.Len(t, work, 1)
	assert.Nil(t, work[0].EndDate)

	academic, err := repo.ListAcademicOutputs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, academic, 1)

	labor, err := repo.ListLaborOutputs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, labor, 1)

	other, err := repo.ListCourses(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestListGarageItemsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	repo := NewSQLRepository(db)

	items, err := repo.ListGarageItems(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Desk", items[0].Name)
	assert.Equal(t, "Bike", items[1].Name)
	assert.Equal(t, "Lamp", items[2].Name)
	assert.InDelta(t, 120.5, items[1].Price, 1e-9)
	assert.Equal(t, GarageAvailable, items[0].Availability)
	assert.Equal(t, GarageConditionGood, items[0].Condition)
}

func TestGetRecordScopedAndVisible(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	course, err := repo.GetCourse(ctx, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, course)
	assert.Equal(t, "certs/go.png", course.CertificateRef())

	hidden, err := repo.GetCourse(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, hidden)

	foreign, err := repo.GetCourse(ctx, 1, 3)
	require.NoError(t, err)
	assert.Nil(t, foreign)

	award, err := repo.GetAward(ctx, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, award)
	assert.Equal(t, "Academic - Best thesis", award.CertificateName())

	missing, err := repo.GetAward(ctx, 1, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	output, err := repo.GetAcademicOutput(ctx, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "", output.CertificateRef())

	labor, err := repo.GetLaborOutput(ctx, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, labor)
	require.NotNil(t, labor.Date)
}
