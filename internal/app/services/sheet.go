package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

// SheetQuery carries the raw, unparsed sheet filter parameters.
type SheetQuery struct {
	AcademicYear string
	Branch       string
	MinCGPA      string
	Type         string
}

// ParseSheetFilter parses a raw query leniently. A malformed minCGPA or an unknown type
// is reported as an ErrInvalidFilter warning and that dimension is left unfiltered.
// A missing or malformed academic year is a hard validation error.
func ParseSheetFilter(q SheetQuery) (models.SheetFilter, []error, error) {
	var warnings []error

	year, err := models.ParseAcademicYear(strings.TrimSpace(q.AcademicYear))
	if err != nil {
		return models.SheetFilter{}, nil, apperrors.NewValidationError(err.Error())
	}

	filter := models.SheetFilter{AcademicYear: year, Type: models.SheetAll}

	if b := models.Branch(q.Branch).Normalize(); b != "" {
		filter.Branch = &b
	}

	if raw := strings.TrimSpace(q.MinCGPA); raw != "" {
		v, perr := strconv.ParseFloat(raw, 64)
		if perr != nil || SanitizeCGPA(v) != v {
			warnings = append(warnings, fmt.Errorf("%w: minCGPA %q ignored", apperrors.ErrInvalidFilter, raw))
		} else {
			filter.MinCGPA = &v
		}
	}

	if raw := strings.ToLower(strings.TrimSpace(q.Type)); raw != "" {
		if t := models.SheetType(raw); t.Valid() {
			filter.Type = t
		} else {
			warnings = append(warnings, fmt.Errorf("%w: type %q ignored", apperrors.ErrInvalidFilter, q.Type))
		}
	}

	return filter, warnings, nil
}

// GenerateSheet filters and projects registrations into a consolidated sheet.
// Rows keep the order of the registrations slice.
func GenerateSheet(
	filter models.SheetFilter,
	registrations []*models.StudentRegistration,
	drives map[string]*models.PlacementDrive,
	now time.Time,
) models.Sheet {
	label := filter.AcademicYear.String()
	rows := make([]models.SheetRow, 0)

	for _, reg := range registrations {
		if reg.AcademicYear != label {
			continue
		}
		if filter.Branch != nil && reg.Branch != *filter.Branch {
			continue
		}
		if filter.MinCGPA != nil && reg.CGPA < *filter.MinCGPA {
			continue
		}
		drive := drives[reg.DriveID]
		if !matchesSheetType(filter.Type, reg, drive) {
			continue
		}
		rows = append(rows, projectRow(len(rows)+1, reg, drive, now))
	}

	return models.Sheet{
		Type:         filter.Type,
		AcademicYear: label,
		Columns:      append([]string(nil), models.SheetColumns...),
		Students:     rows,
	}
}

func matchesSheetType(t models.SheetType, reg *models.StudentRegistration, drive *models.PlacementDrive) bool {
	switch t {
	case models.SheetPlacement:
		return reg.HasOffer && drive != nil && drive.Type == models.DriveTypePlacement
	case models.SheetInternship:
		return reg.HasOffer && drive != nil && drive.Type == models.DriveTypeInternship
	case models.SheetHackathon:
		return drive != nil && drive.Category == models.DriveCategoryHackathon
	case models.SheetPending:
		return !reg.HasOffer
	case models.SheetAll:
		return true
	default:
		panic(fmt.Sprintf("unhandled sheet type %q", t))
	}
}

func projectRow(serial int, reg *models.StudentRegistration, drive *models.PlacementDrive, now time.Time) models.SheetRow {
	row := models.SheetRow{
		SerialNumber:       serial,
		StudentName:        reg.StudentName,
		RollNumber:         reg.RollNumber,
		Branch:             string(reg.Branch),
		Year:               int(reg.Year),
		CGPA:               strconv.FormatFloat(reg.CGPA, 'f', 2, 64),
		Email:              reg.Email,
		Phone:              reg.Phone,
		LinkedIn:           orNotAvailable(reg.LinkedIn),
		GitHub:             orNotAvailable(reg.GitHub),
		Company:            models.NotAvailable,
		Position:           models.NotAvailable,
		Package:            models.NotAvailable,
		DriveType:          models.NotAvailable,
		RegistrationStatus: string(ComputeEffectiveStatus(reg, drive, now)),
		OfferStatus:        models.OfferStatusNone,
		SubmittedAt:        reg.SubmittedAt.UTC().Format(time.RFC3339),
	}
	if drive != nil {
		row.Company = textOrNotAvailable(drive.CompanyName)
		row.Position = textOrNotAvailable(drive.Position)
		row.Package = textOrNotAvailable(drive.Package)
		row.DriveType = textOrNotAvailable(string(drive.Type))
	}
	if reg.HasOffer {
		row.OfferStatus = models.OfferStatusReceived
	}
	return row
}

func orNotAvailable(s *string) string {
	if s == nil {
		return models.NotAvailable
	}
	return textOrNotAvailable(*s)
}

func textOrNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NotAvailable
	}
	return s
}
