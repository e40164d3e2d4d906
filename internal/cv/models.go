package cv

import (
	"strings"
	"time"
)

// =====================================================
// Enums and Constants
// =====================================================

// AwardType classifies an award by the kind of body that granted it
type AwardType string

const (
	AwardTypeAcademic AwardType = "Academic"
	AwardTypePublic   AwardType = "Public"
	AwardTypePrivate  AwardType = "Private"
)

// GarageAvailability tells whether a garage sale item is still for sale
type GarageAvailability string

const (
	GarageAvailable GarageAvailability = "Available"
	GarageSold      GarageAvailability = "Sold"
)

// GarageCondition is the condition badge shown for a garage sale item
type GarageCondition string

const (
	GarageConditionFair GarageCondition = "Fair"
	GarageConditionGood GarageCondition = "Good"
)

// =====================================================
// Core Models
// =====================================================

// Profile holds the personal data of a résumé owner. At most one profile is active.
type Profile struct {
	ID            int64      `db:"id" json:"id" gorm:"primaryKey"`
	Summary       string     `db:"summary" json:"summary" gorm:"size:50;not null"`
	Active        bool       `db:"active" json:"active" gorm:"index;not null;default:false"`
	LastNames     string     `db:"last_names" json:"last_names" gorm:"size:60;not null"`
	FirstNames    string     `db:"first_names" json:"first_names" gorm:"size:60;not null"`
	Nationality   string     `db:"nationality" json:"nationality" gorm:"size:20;not null"`
	BirthPlace    string     `db:"birth_place" json:"birth_place" gorm:"size:60;not null"`
	BirthDate     *time.Time `db:"birth_date" json:"birth_date,omitempty" gorm:"type:date"`
	IDNumber      string     `db:"id_number" json:"id_number" gorm:"column:id_number;size:10;uniqueIndex;not null"`
	Sex           string     `db:"sex" json:"sex" gorm:"size:1;not null"`
	MaritalStatus string     `db:"marital_status" json:"marital_status" gorm:"size:50;not null"`
	DriverLicence *string    `db:"driver_licence" json:"driver_licence,omitempty" gorm:"size:6"`
	Landline      *string    `db:"landline" json:"landline,omitempty" gorm:"size:15"`
	Mobile        *string    `db:"mobile" json:"mobile,omitempty" gorm:"size:15"`
	WorkAddress   *string    `db:"work_address" json:"work_address,omitempty" gorm:"size:50"`
	HomeAddress   string     `db:"home_address" json:"home_address" gorm:"size:50;not null"`
	Website       *string    `db:"website" json:"website,omitempty" gorm:"size:200"`
	PhotoURL      *string    `db:"photo_url" json:"photo_url,omitempty" gorm:"column:photo_url;size:500"`
}

// FullName is "first last".
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstNames + " " + p.LastNames)
}

// WorkExperience is a job held by the profile owner
type WorkExperience struct {
	ID             int64      `db:"id" json:"id" gorm:"primaryKey"`
	ProfileID      int64      `db:"profile_id" json:"profile_id" gorm:"index;not null"`
	Role           string     `db:"role" json:"role" gorm:"size:100;not null"`
	Company        string     `db:"company" json:"company" gorm:"size:50;not null"`
	Location       string     `db:"location" json:"location" gorm:"size:50;not null"`
	CompanyEmail   *string    `db:"company_email" json:"company_email,omitempty" gorm:"size:100"`
	CompanyWebsite *string    `db:"company_website" json:"company_website,omitempty" gorm:"size:200"`
	ContactName    *string    `db:"contact_name" json:"contact_name,omitempty" gorm:"size:100"`
	ContactPhone   *string    `db:"contact_phone" json:"contact_phone,omitempty" gorm:"size:15"`
	StartDate      time.Time  `db:"start_date" json:"start_date" gorm:"type:date;not null"`
	EndDate        *time.Time `db:"end_date" json:"end_date,omitempty" gorm:"type:date"`
	Description    string     `db:"description" json:"description" gorm:"size:200;not null"`
	Visible        bool       `db:"visible" json:"visible" gorm:"not null;default:true"`
	CertificateURL *string    `db:"certificate_url" json:"certificate_url,omitempty" gorm:"column:certificate_url;size:500"`
}

// Course is a completed training course
type Course struct {
	ID             int64      `db:"id" json:"id" gorm:"primaryKey"`
	ProfileID      int64      `db:"profile_id" json:"profile_id" gorm:"index;not null"`
	Name           string     `db:"name" json:"name" gorm:"size:100;not null"`
	StartDate      time.Time  `db:"start_date" json:"start_date" gorm:"type:date;not null"`
	EndDate        *time.Time `db:"end_date" json:"end_date,omitempty" gorm:"type:date"`
	TotalHours     int        `db:"total_hours" json:"total_hours" gorm:"not null;check:total_hours >= 0"`
	Description    string     `db:"description" json:"description" gorm:"size:100;not null"`
	Sponsor        string     `db:"sponsor" json:"sponsor" gorm:"size:100;not null"`
	ContactName    *string    `db:"contact_name" json:"contact_name,omitempty" gorm:"size:100"`
	ContactPhone   *string    `db:"contact_phone" json:"contact_phone,omitempty" gorm:"size:15"`
	SponsorEmail   *string    `db:"sponsor_email" json:"sponsor_email,omitempty" gorm:"size:100"`
	Visible        bool       `db:"visible" json:"visible" gorm:"not null;default:true"`
	CertificateURL *string    `db:"certificate_url" json:"certificate_url,omitempty" gorm:"column:certificate_url;size:500"`
}

// Award is a recognition granted to the profile owner
type Award struct {
	ID             int64     `db:"id" json:"id" gorm:"primaryKey"`
	ProfileID      int64     `db:"profile_id" json:"profile_id" gorm:"index;not null"`
	Type           AwardType `db:"type" json:"type" gorm:"size:100;not null"`
	Date           time.Time `db:"date" json:"date" gorm:"type:date;not null"`
	Description    string    `db:"description" json:"description" gorm:"size:100;not null"`
	Sponsor        string    `db:"sponsor" json:"sponsor" gorm:"size:100;not null"`
	ContactName    *string   `db:"contact_name" json:"contact_name,omitempty" gorm:"size:100"`
	ContactPhone   *string   `db:"contact_phone" json:"contact_phone,omitempty" gorm:"size:15"`
	Visible        bool      `db:"visible" json:"visible" gorm:"not null;default:true"`
	CertificateURL *string   `db:"certificate_url" json:"certificate_url,omitempty" gorm:"column:certificate_url;size:500"`
}

// AcademicOutput is an academic product (paper, thesis, talk)
type AcademicOutput struct {
	ID             int64   `db:"id" json:"id" gorm:"primaryKey"`
	ProfileID      int64   `db:"profile_id" json:"profile_id" gorm:"index;not null"`
	Name           string  `db:"name" json:"name" gorm:"size:120;not null"`
	Classifier     string  `db:"classifier" json:"classifier" gorm:"size:80;not null"`
	Description    string  `db:"description" json:"description" gorm:"size:200;not null"`
	Visible        bool    `db:"visible" json:"visible" gorm:"not null;default:true"`
	CertificateURL *string `db:"certificate_url" json:"certificate_url,omitempty" gorm:"column:certificate_url;size:500"`
}

// LaborOutput is a work product delivered on the job
type LaborOutput struct {
	ID             int64      `db:"id" json:"id" gorm:"primaryKey"`
	ProfileID      int64      `db:"profile_id" json:"profile_id" gorm:"index;not null"`
	Name           string     `db:"name" json:"name" gorm:"size:120;not null"`
	Date           *time.Time `db:"date" json:"date,omitempty" gorm:"type:date"`
	Description    string     `db:"description" json:"description" gorm:"size:200;not null"`
	Visible        bool       `db:"visible" json:"visible" gorm:"not null;default:true"`
	CertificateURL *string    `db:"certificate_url" json:"certificate_url,omitempty" gorm:"column:certificate_url;size:500"`
}

// GarageItem is an item listed on the garage sale page
type GarageItem struct {
	ID           int64              `db:"id" json:"id" gorm:"primaryKey"`
	ProfileID    int64              `db:"profile_id" json:"profile_id" gorm:"index;not null"`
	Name         string             `db:"name" json:"name" gorm:"size:120;not null"`
	Price        float64            `db:"price" json:"price" gorm:"type:numeric(10,2);not null;check:price >= 0"`
	Availability GarageAvailability `db:"availability" json:"availability" gorm:"size:20;not null;default:Available"`
	Condition    GarageCondition    `db:"condition" json:"condition" gorm:"size:20;not null;default:Good"`
	PhotoURL     *string            `db:"photo_url" json:"photo_url,omitempty" gorm:"column:photo_url;size:500"`
	Description  string             `db:"description" json:"description" gorm:"size:250;not null"`
	Visible      bool               `db:"visible" json:"visible" gorm:"not null;default:true"`
	PublishedAt  *time.Time         `db:"published_at" json:"published_at,omitempty" gorm:"index"`
}

// =====================================================
// Certificates
// =====================================================

// Certified is implemented by every record that may carry a certificate.
type Certified interface {
	// CertificateRef is the stored certificate reference, "" when there is none.
	CertificateRef() string
	// CertificateName is the label shown in the catalogue and on the annex page.
	CertificateName() string
	// CertificateDate orders the catalogue. nil sorts last.
	CertificateDate() *time.Time
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (c *Course) CertificateRef() string  { return deref(c.CertificateURL) }
func (c *Course) CertificateName() string { return c.Name }

// CertificateDate is the end date, falling back to the start date.
func (c *Course) CertificateDate() *time.Time {
	if c.EndDate != nil {
		return c.EndDate
	}
	if c.StartDate.IsZero() {
		return nil
	}
	d := c.StartDate
	return &d
}

func (a *Award) CertificateRef() string { return deref(a.CertificateURL) }
func (a *Award) CertificateName() string {
	return string(a.Type) + " - " + a.Description
}
func (a *Award) CertificateDate() *time.Time {
	if a.Date.IsZero() {
		return nil
	}
	d := a.Date
	return &d
}

func (o *AcademicOutput) CertificateRef() string  { return deref(o.CertificateURL) }
func (o *AcademicOutput) CertificateName() string { return o.Name + " - " + o.Classifier }

// CertificateDate is always nil: academic outputs carry no date.
func (o *AcademicOutput) CertificateDate() *time.Time { return nil }

func (o *LaborOutput) CertificateRef() string      { return deref(o.CertificateURL) }
func (o *LaborOutput) CertificateName() string     { return o.Name }
func (o *LaborOutput) CertificateDate() *time.Time { return o.Date }

// =====================================================
// Projections
// =====================================================

// Portfolio is everything the active profile shows publicly.
type Portfolio struct {
	Profile         *Profile           `json:"profile"`
	PhotoURL        string             `json:"photo_url,omitempty"`
	WorkExperience  []*WorkExperience  `json:"work_experience"`
	Courses         []*Course          `json:"courses"`
	Awards          []*Award           `json:"awards"`
	AcademicOutputs []*AcademicOutput  `json:"academic_outputs"`
	LaborOutputs    []*LaborOutput     `json:"labor_outputs"`
	Certificates    []CertificateEntry `json:"certificates"`
}

// CertificateEntry is one selectable certificate.
type CertificateEntry struct {
	Value string     `json:"value"`
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Date  *time.Time `json:"date,omitempty"`
}

// GarageListing is the garage sale page.
type GarageListing struct {
	Profile  *Profile         `json:"profile"`
	Items    []*GarageItem    `json:"items"`
	Photos   map[int64]string `json:"photos"` // item id to resolved photo URL
	WhatsApp string           `json:"whatsapp"`
}
