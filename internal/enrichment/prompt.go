package enrichment

import (
	"fmt"

	"find-usce-backend/internal/models"
)

const researcherPrompt = `You are a medical education data researcher. Search for information about this US %s observership/clinical experience program:

Program Name: %q
Current State: %s

Please provide ONLY factual, publicly available information. Return a JSON object with these fields (use null if information is not publicly available):
{
  "fee": "specific fee amount like $500/week or $2000/month, or null if unknown",
  "contact": {
    "email": "coordinator email or null",
    "phone": "phone number or null",
    "website": "official program URL or null",
    "coordinatorName": "coordinator name or null"
  },
  "eligibility": {
    "usmleSteps": ["Step 1", "Step 2 CK"],
    "visaTypes": ["J1", "H1B"],
    "graduationCutoff": "Within X years or null",
    "clinicalExperience": "required/preferred/not required",
    "additionalNotes": "any specific notes about IMG eligibility"
  },
  "duration": "X-Y weeks or months",
  "applicationDeadline": "Rolling admissions or specific date",
  "acceptingApplications": true or false,
  "lor": true or false,
  "description": "2-3 sentence description of the program and what IMGs can expect"
}

IMPORTANT:
- If fee is unknown, return "Contact program for fee details"
- Be conservative - only return information you are confident about
- For acceptingApplications, return true unless you specifically know they are closed
- Return ONLY the JSON object, no other text`

// BuildPrompt returns the research prompt for one program
func BuildPrompt(p models.Program) string {
	specialty := p.Specialty
	if specialty == "" {
		specialty = "Internal Medicine"
	}
	return fmt.Sprintf(researcherPrompt, specialty, p.Name, p.State)
}
