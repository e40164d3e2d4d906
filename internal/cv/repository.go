package cv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines read access to the published portfolio. Every list and lookup is scoped
// to one profile and returns visible records only. Lookups return (nil, nil) when nothing
// matches.
type Repository interface {
	FindActiveProfile(ctx context.Context) (*Profile, error)

	ListWorkExperience(ctx context.Context, profileID int64) ([]*WorkExperience, error)
	ListCourses(ctx context.Context, profileID int64) ([]*Course, error)
	ListAwards(ctx context.Context, profileID int64) ([]*Award, error)
	ListAcademicOutputs(ctx context.Context, profileID int64) ([]*AcademicOutput, error)
	ListLaborOutputs(ctx context.Context, profileID int64) ([]*LaborOutput, error)
	ListGarageItems(ctx context.Context, profileID int64) ([]*GarageItem, error)

	GetCourse(ctx context.Context, profileID, id int64) (*Course, error)
	GetAward(ctx context.Context, profileID, id int64) (*Award, error)
	GetAcademicOutput(ctx context.Context, profileID, id int64) (*AcademicOutput, error)
	GetLaborOutput(ctx context.Context, profileID, id int64) (*LaborOutput, error)
}

// SQLRepository implements Repository with sqlx. Queries use ? placeholders and are rebound
// for the connected driver, so the same SQL runs on PostgreSQL and SQLite.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a new repository
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const (
	profileColumns = `id, summary, active, last_names, first_names, nationality, birth_place,
		birth_date, id_number, sex, marital_status, driver_licence, landline, mobile,
		work_address, home_address, website, photo_url`

	workExperienceColumns = `id, profile_id, role, company, location, company_email,
		company_website, contact_name, contact_phone, start_date, end_date, description,
		visible, certificate_url`

	courseColumns = `id, profile_id, name, start_date, end_date, total_hours, description,
		sponsor, contact_name, contact_phone, sponsor_email, visible, certificate_url`

	awardColumns = `id, profile_id, type, date, description, sponsor, contact_name,
		contact_phone, visible, certificate_url`

	academicOutputColumns = `id, profile_id, name, classifier, description, visible, certificate_url`

	laborOutputColumns = `id, profile_id, name, date, description, visible, certificate_url`

	garageItemColumns = `id, profile_id, name, price, availability, condition, photo_url,
		description, visible, published_at`
)

func (r *SQLRepository) FindActiveProfile(ctx context.Context) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE active = ? ORDER BY id LIMIT 1`

	var profile Profile
	if err := r.get(ctx, &profile, query, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}
	return &profile, nil
}

func (r *SQLRepository) ListWorkExperience(ctx context.Context, profileID int64) ([]*WorkExperience, error) {
	var out []*WorkExperience
	if err := r.listVisible(ctx, &out, workExperienceColumns, "work_experiences", profileID, "id"); err != nil {
		return nil, fmt.Errorf("failed to list work experience: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ListCourses(ctx context.Context, profileID int64) ([]*Course, error) {
	var out []*Course
	if err := r.listVisible(ctx, &out, courseColumns, "courses", profileID, "id"); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ListAwards(ctx context.Context, profileID int64) ([]*Award, error) {
	var out []*Award
	if err := r.listVisible(ctx, &out, awardColumns, "awards", profileID, "id"); err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ListAcademicOutputs(ctx context.Context, profileID int64) ([]*AcademicOutput, error) {
	var out []*AcademicOutput
	if err := r.listVisible(ctx, &out, academicOutputColumns, "academic_outputs", profileID, "id"); err != nil {
		return nil, fmt.Errorf("failed to list academic outputs: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ListLaborOutputs(ctx context.Context, profileID int64) ([]*LaborOutput, error) {
	var out []*LaborOutput
	if err := r.listVisible(ctx, &out, laborOutputColumns, "labor_outputs", profileID, "id"); err != nil {
		return nil, fmt.Errorf("failed to list labor outputs: %w", err)
	}
	return out, nil
}

// ListGarageItems returns the newest publications first; items without a date come last.
func (r *SQLRepository) ListGarageItems(ctx context.Context, profileID int64) ([]*GarageItem, error) {
	var out []*GarageItem
	order := "published_at IS NULL, published_at DESC, id DESC"
	if err := r.listVisible(ctx, &out, garageItemColumns, "garage_items", profileID, order); err != nil {
		return nil, fmt.Errorf("failed to list garage items: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) GetCourse(ctx context.Context, profileID, id int64) (*Course, error) {
	var c Course
	found, err := r.getVisible(ctx, &c, courseColumns, "courses", profileID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &c, nil
}

func (r *SQLRepository) GetAward(ctx context.Context, profileID, id int64) (*Award, error) {
	var a Award
	found, err := r.getVisible(ctx, &a, awardColumns, "awards", profileID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get award: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &a, nil
}

func (r *SQLRepository) GetAcademicOutput(ctx context.Context, profileID, id int64) (*AcademicOutput, error) {
	var o AcademicOutput
	found, err := r.getVisible(ctx, &o, academicOutputColumns, "academic_outputs", profileID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get academic output: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &o, nil
}

func (r *SQLRepository) GetLaborOutput(ctx context.Context, profileID, id int64) (*LaborOutput, error) {
	var o LaborOutput
	found, err := r.getVisible(ctx, &o, laborOutputColumns, "labor_outputs", profileID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get labor output: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &o, nil
}

func (r *SQLRepository) listVisible(ctx context.Context, dest interface{}, columns, table string, profileID int64, order string) error {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE profile_id = ? AND visible = ? ORDER BY %s`,
		columns, table, order)
	return r.db.SelectContext(ctx, dest, r.db.Rebind(query), profileID, true)
}

func (r *SQLRepository) getVisible(ctx context.Context, dest interface{}, columns, table string, profileID, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND profile_id = ? AND visible = ?`, columns, table)
	if err := r.get(ctx, dest, query, id, profileID, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *SQLRepository) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return r.db.GetContext(ctx, dest, r.db.Rebind(query), args...)
}
