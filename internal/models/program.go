package models

// Eligibility describes who a program accepts
type Eligibility struct {
	USMLESteps         []string `json:"usmleSteps"`
	VisaTypes          []string `json:"visaTypes"`
	GraduationCutoff   string   `json:"graduationCutoff"`
	ClinicalExperience string   `json:"clinicalExperience"`
	AdditionalNotes    string   `json:"additionalNotes"`
}

type Contact struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Website         string `json:"website"`
	CoordinatorName string `json:"coordinatorName"`
}

// Program is one observership listing as stored in the snapshot
type Program struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Hospital              string      `json:"hospital"`
	City                  string      `json:"city"`
	State                 string      `json:"state"`
	StateCode             string      `json:"stateCode"`
	Specialty             string      `json:"specialty"`
	Subspecialty          string      `json:"subspecialty"`
	Eligibility           Eligibility `json:"eligibility"`
	Fee                   string      `json:"fee"`
	Duration              string      `json:"duration"`
	Contact               Contact     `json:"contact"`
	ApplicationDeadline   string      `json:"applicationDeadline"`
	AcceptingApplications bool        `json:"acceptingApplications"`
	LastVerified          string      `json:"lastVerified"`
	LOR                   bool        `json:"lor"`
	Tags                  []string    `json:"tags"`
	Description           string      `json:"description"`
}

// AnyVisa is the visa entry that matches every visa filter
const AnyVisa = "Any valid US visa"

// NationwideState is the placeholder state used by programs without a location
const NationwideState = "United States"

type Stats struct {
	Total     int `json:"total"`
	States    int `json:"states"`
	Accepting int `json:"accepting"`
	WithLOR   int `json:"withLor"`
}
