package cv

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CertificateTag identifies the record kind a certificate token refers to.
type CertificateTag string

const (
	TagCourse         CertificateTag = "CUR"
	TagAward          CertificateTag = "REC"
	TagAcademicOutput CertificateTag = "PA"
	TagLaborOutput    CertificateTag = "PL"
)

// CertificateToken selects one record's certificate, written "<TAG>-<id>".
type CertificateToken struct {
	Tag CertificateTag
	ID  int64
}

func (t CertificateToken) String() string {
	return fmt.Sprintf("%s-%d", t.Tag, t.ID)
}

// ParseCertificateToken splits s on its first "-". The tag is not checked here; an
// unknown tag simply never resolves.
func ParseCertificateToken(s string) (CertificateToken, bool) {
	tag, id, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return CertificateToken{}, false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return CertificateToken{}, false
	}
	return CertificateToken{Tag: CertificateTag(tag), ID: n}, true
}

// certificateCategory binds a tag to its display label and record lookup.
type certificateCategory struct {
	tag   CertificateTag
	label string
	get   func(ctx context.Context, r Repository, profileID, id int64) (Certified, error)
}

var certificateCategories = []certificateCategory{
	{
		tag:   TagCourse,
		label: "Course",
		get: func(ctx context.Context, r Repository, profileID, id int64) (Certified, error) {
			c, err := r.GetCourse(ctx, profileID, id)
			if c == nil || err != nil {
				return nil, err
			}
			return c, nil
		},
	},
	{
		tag:   TagAward,
		label: "Award",
		get: func(ctx context.Context, r Repository, profileID, id int64) (Certified, error) {
			a, err := r.GetAward(ctx, profileID, id)
			if a == nil || err != nil {
				return nil, err
			}
			return a, nil
		},
	},
	{
		tag:   TagAcademicOutput,
		label: "Academic output",
		get: func(ctx context.Context, r Repository, profileID, id int64) (Certified, error) {
			o, err := r.GetAcademicOutput(ctx, profileID, id)
			if o == nil || err != nil {
				return nil, err
			}
			return o, nil
		},
	},
	{
		tag:   TagLaborOutput,
		label: "Labor output",
		get: func(ctx context.Context, r Repository, profileID, id int64) (Certified, error) {
			o, err := r.GetLaborOutput(ctx, profileID, id)
			if o == nil || err != nil {
				return nil, err
			}
			return o, nil
		},
	},
}

func categoryFor(tag CertificateTag) (certificateCategory, bool) {
	for _, c := range certificateCategories {
		if c.tag == tag {
			return c, true
		}
	}
	return certificateCategory{}, false
}

// ResolvedCertificate is a token resolved to a record that has a certificate.
type ResolvedCertificate struct {
	Token CertificateToken
	Name  string
	Ref   string
}

// ResolveCertificate looks up the record behind token. It returns nil without error when
// the tag is unknown, the record does not exist for the profile, or it has no certificate.
func ResolveCertificate(ctx context.Context, r Repository, profileID int64, token CertificateToken) (*ResolvedCertificate, error) {
	cat, ok := categoryFor(token.Tag)
	if !ok {
		return nil, nil
	}

	rec, err := cat.get(ctx, r, profileID, token.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.CertificateRef() == "" {
		return nil, nil
	}

	return &ResolvedCertificate{Token: token, Name: rec.CertificateName(), Ref: rec.CertificateRef()}, nil
}

// BuildCatalogue lists the certificates of the records of p, most recent first. Dateless
// entries come last; ties keep catalogue order (courses, awards, academic, labor).
func BuildCatalogue(p *Portfolio) []CertificateEntry {
	entries := []CertificateEntry{}
	add := func(tag CertificateTag, id int64, rec Certified) {
		if rec.CertificateRef() == "" {
			return
		}
		cat, _ := categoryFor(tag)
		entries = append(entries, CertificateEntry{
			Value: CertificateToken{Tag: tag, ID: id}.String(),
			Name:  rec.CertificateName(),
			Type:  cat.label,
			Date:  rec.CertificateDate(),
		})
	}

	for _, c := range p.Courses {
		add(TagCourse, c.ID, c)
	}
	for _, a := range p.Awards {
		add(TagAward, a.ID, a)
	}
	for _, o := range p.AcademicOutputs {
		add(TagAcademicOutput, o.ID, o)
	}
	for _, o := range p.LaborOutputs {
		add(TagLaborOutput, o.ID, o)
	}

	SortCatalogue(entries)
	return entries
}

// SortCatalogue orders entries most recent first with dateless entries last.
func SortCatalogue(entries []CertificateEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Date, entries[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
