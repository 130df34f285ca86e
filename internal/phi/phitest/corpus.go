// Package phitest holds the shared PHI corpus used by every package that
// screens text.
package phitest

// Sensitive lists strings every checkpoint must reject, with the name of the
// first pattern expected to match.
var Sensitive = []struct {
	Text    string
	Pattern string
}{
	{"reach me at jane.doe@example.com", "email"},
	{"EMAIL: J_SMITH+care@clinic.org please", "email"},
	{"my number is 555-123-4567", "phone"},
	{"call 555.123.4567 after 5", "phone"},
	{"call 555 123 4567", "phone"},
	{"5551234567", "phone"},
	{"ssn 123-45-6789", "ssn"},
	{"MRN 1234567", "mrn"},
	{"mrn: 42", "mrn"},
	{"Mrn#998877", "mrn"},
	{"DOB 1/2/1980", "dob"},
	{"dob: 12-31-99", "dob"},
	{"Dob#3/4/2001", "dob"},
	{"seen on 03/14/2024", "date"},
	{"discharged 12-01-23 without notice", "date"},
	{"date 01/31/2024.", "date"},
	{"fax 800-555-0199", "phone"},
	{"contact dr.lee@hospital.net", "email"},
	{"ssn:987-65-4321", "ssn"},
	{"MRN#0001", "mrn"},
	{"DOB: 07/04/1976", "dob"},
	{"follow-up on 11/30/2023", "date"},
	{"appointment 10-15-2022", "date"},
	{"text 555-867-5309 anytime", "phone"},
	{"billing@insurer.com denied it", "email"},
	{"MRN 55 was on the wristband", "mrn"},
}

// Clean lists ordinary prose every checkpoint must accept.
var Clean = []string{
	"",
	"I was discharged earlier than expected.",
	"The insurer cited a risk score and denied my appeal.",
	"No clear explanation was given for the decision.",
	"Prior authorization was denied twice.",
	"They mentioned an algorithm flagged me as high cost.",
	"Waited 3 weeks for a referral.",
	"Room 12 on floor 4.",
	"Score was 87 out of 100.",
	"Called 12 times, no answer.",
	"Version 1.2.3 of the tool",
	"At 5 pm the nurse said 13/45 was the ratio",
	"week 13/32/2024 is not a date",
	"the @ sign alone is fine",
	"ssn-like 12-345-6789 is not shaped right",
	"mrn without digits",
	"DOB not provided",
	"costs were 1,234 dollars",
	"The discharge planner never returned my call.",
	"Appeal filed in week 2.",
	"My copay went up 20 percent.",
	"The letter referenced a predictive model.",
	"Case manager said the score decides eligibility.",
	"Home health was cut after 14 days.",
	"Ratio 3:1 was mentioned.",
	"Page 10 of 12",
}
