package models

import "strconv"

// SheetType selects which registrations a consolidated sheet contains.
type SheetType string

const (
	SheetPlacement  SheetType = "placement"
	SheetInternship SheetType = "internship"
	SheetHackathon  SheetType = "hackathon"
	SheetPending    SheetType = "pending"
	SheetAll        SheetType = "all"
)

// SheetTypes lists every sheet type in a stable order.
var SheetTypes = []SheetType{SheetPlacement, SheetInternship, SheetHackathon, SheetPending, SheetAll}

// Valid reports whether t is a known sheet type.
func (t SheetType) Valid() bool {
	for _, known := range SheetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SheetFilter is a parsed consolidated-sheet request.
type SheetFilter struct {
	AcademicYear AcademicYear
	Branch       *Branch
	MinCGPA      *float64
	Type         SheetType
}

// SheetColumns is the header row, in export order.
var SheetColumns = []string{
	"S.No",
	"Student Name",
	"Roll Number",
	"Branch",
	"Year",
	"CGPA",
	"Email",
	"Phone",
	"LinkedIn",
	"GitHub",
	"Company",
	"Position",
	"Package",
	"Drive Type",
	"Registration Status",
	"Offer Status",
	"Submitted At",
}

// SheetRow is one projected registration. Field order matches SheetColumns.
type SheetRow struct {
	SerialNumber       int    `json:"serialNumber"`
	StudentName        string `json:"studentName"`
	RollNumber         string `json:"rollNumber"`
	Branch             string `json:"branch"`
	Year               int    `json:"year"`
	CGPA               string `json:"cgpa"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	LinkedIn           string `json:"linkedin"`
	GitHub             string `json:"github"`
	Company            string `json:"company"`
	Position           string `json:"position"`
	Package            string `json:"package"`
	DriveType          string `json:"driveType"`
	RegistrationStatus string `json:"registrationStatus"`
	OfferStatus        string `json:"offerStatus"`
	SubmittedAt        string `json:"submittedAt"`
}

// Values renders the row as strings in SheetColumns order.
func (r SheetRow) Values() []string {
	return []string{
		strconv.Itoa(r.SerialNumber),
		r.StudentName,
		r.RollNumber,
		r.Branch,
		strconv.Itoa(r.Year),
		r.CGPA,
		r.Email,
		r.Phone,
		r.LinkedIn,
		r.GitHub,
		r.Company,
		r.Position,
		r.Package,
		r.DriveType,
		r.RegistrationStatus,
		r.OfferStatus,
		r.SubmittedAt,
	}
}

// Sheet is the exportable consolidated record set.
type Sheet struct {
	Type         SheetType  `json:"type"`
	AcademicYear string     `json:"academicYear"`
	Columns      []string   `json:"columns"`
	Students     []SheetRow `json:"students"`
}

// Offer status labels used in sheets.
const (
	OfferStatusReceived = "Offer Received"
	OfferStatusNone     = "No Offer"
)
