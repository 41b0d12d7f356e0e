package enrichment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"find-usce-backend/internal/models"
)

// ErrNoJSONObject means the model reply carried no {...} object
var ErrNoJSONObject = errors.New("no json object in reply")

// Patch is the model's view of a program. Nil and empty values mean
// "unknown" and never overwrite stored data.
type Patch struct {
	Fee                   *string
	Duration              *string
	ApplicationDeadline   *string
	AcceptingApplications *bool
	LOR                   *bool
	Description           *string
	Contact               *ContactPatch
	Eligibility           *EligibilityPatch
}

type ContactPatch struct {
	Email           *string
	Phone           *string
	Website         *string
	CoordinatorName *string
}

type EligibilityPatch struct {
	USMLESteps         []string
	VisaTypes          []string
	GraduationCutoff   *string
	ClinicalExperience *string
	AdditionalNotes    *string
}

type rawObject map[string]json.RawMessage

// ParsePatch decodes the first JSON object in reply; text around it is
// ignored. Fields are decoded one by one, so a field of the wrong type is
// treated as unknown without losing its siblings.
func ParsePatch(reply string) (Patch, error) {
	i := strings.IndexByte(reply, '{')
	if i < 0 {
		return Patch{}, ErrNoJSONObject
	}

	var obj rawObject
	if err := json.NewDecoder(strings.NewReader(reply[i:])).Decode(&obj); err != nil {
		return Patch{}, fmt.Errorf("decode patch: %w", err)
	}

	p := Patch{
		Fee:                   field[string](obj, "fee"),
		Duration:              field[string](obj, "duration"),
		ApplicationDeadline:   field[string](obj, "applicationDeadline"),
		AcceptingApplications: field[bool](obj, "acceptingApplications"),
		LOR:                   field[bool](obj, "lor"),
		Description:           field[string](obj, "description"),
	}

	if c := field[rawObject](obj, "contact"); c != nil {
		p.Contact = &ContactPatch{
			Email:           field[string](*c, "email"),
			Phone:           field[string](*c, "phone"),
			Website:         field[string](*c, "website"),
			CoordinatorName: field[string](*c, "coordinatorName"),
		}
	}

	if e := field[rawObject](obj, "eligibility"); e != nil {
		p.Eligibility = &EligibilityPatch{
			GraduationCutoff:   field[string](*e, "graduationCutoff"),
			ClinicalExperience: field[string](*e, "clinicalExperience"),
			AdditionalNotes:    field[string](*e, "additionalNotes"),
		}
		if steps := field[[]string](*e, "usmleSteps"); steps != nil {
			p.Eligibility.USMLESteps = *steps
		}
		if visas := field[[]string](*e, "visaTypes"); visas != nil {
			p.Eligibility.VisaTypes = *visas
		}
	}

	return p, nil
}

// field decodes obj[key] as T. Absent, null and mistyped values are nil.
func field[T any](obj rawObject, key string) *T {
	raw, ok := obj[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// Merge applies patch to p and stamps lastVerified with today
func Merge(p models.Program, patch Patch, today string) models.Program {
	out := p

	out.Fee = orString(patch.Fee, p.Fee)
	out.Duration = orString(patch.Duration, p.Duration)
	out.ApplicationDeadline = orString(patch.ApplicationDeadline, p.ApplicationDeadline)
	out.Description = orString(patch.Description, p.Description)
	out.AcceptingApplications = orBool(patch.AcceptingApplications, p.AcceptingApplications)
	out.LOR = orBool(patch.LOR, p.LOR)

	if c := patch.Contact; c != nil {
		out.Contact.Email = orString(c.Email, p.Contact.Email)
		out.Contact.Phone = orString(c.Phone, p.Contact.Phone)
		out.Contact.Website = orString(c.Website, p.Contact.Website)
		out.Contact.CoordinatorName = orString(c.CoordinatorName, p.Contact.CoordinatorName)
	}

	if e := patch.Eligibility; e != nil {
		out.Eligibility.USMLESteps = orList(e.USMLESteps, p.Eligibility.USMLESteps)
		out.Eligibility.VisaTypes = orList(e.VisaTypes, p.Eligibility.VisaTypes)
		out.Eligibility.GraduationCutoff = orString(e.GraduationCutoff, p.Eligibility.GraduationCutoff)
		out.Eligibility.ClinicalExperience = orString(e.ClinicalExperience, p.Eligibility.ClinicalExperience)
		out.Eligibility.AdditionalNotes = orString(e.AdditionalNotes, p.Eligibility.AdditionalNotes)
	}

	out.LastVerified = today
	return out
}

func orString(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func orBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func orList(v, fallback []string) []string {
	if len(v) == 0 {
		return fallback
	}
	return v
}
