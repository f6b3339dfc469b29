package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/placement/internal/app/models"
)

func sampleSheet() *models.Sheet {
	return &models.Sheet{
		Type:         models.SheetPlacement,
		AcademicYear: "2024-25",
		Columns:      models.SheetColumns,
		Students: []models.SheetRow{
			{
				SerialNumber:       1,
				StudentName:        "Rao, Asha",
				RollNumber:         "21CSE1042",
				Branch:             "CSE",
				Year:               4,
				CGPA:               "8.40",
				Email:              "asha@college.edu",
				Phone:              "+919876543210",
				LinkedIn:           models.NotAvailable,
				GitHub:             models.NotAvailable,
				Company:            "Acme",
				Position:           "SDE",
				Package:            "12 LPA",
				DriveType:          "placement",
				RegistrationStatus: "submitted",
				OfferStatus:        models.OfferStatusReceived,
				SubmittedAt:        "2024-08-05T10:00:00Z",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatCSV, "csv": FormatCSV, "XLSX": FormatXLSX, " xlsx ": FormatXLSX}
	for raw, want := range cases {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf) should fail")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleSheet()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if len(records[0]) != len(models.SheetColumns) || records[0][0] != "S.No" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "Rao, Asha" || records[1][15] != models.OfferStatusReceived {
		t.Errorf("row = %v", records[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatXLSX, sampleSheet()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(WorksheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][1] != "Student Name" || rows[1][2] != "21CSE1042" {
		t.Errorf("rows = %v", rows)
	}
}

func TestFileNameAndContentType(t *testing.T) {
	s := sampleSheet()
	if got := FileName(s, FormatXLSX); got != "placement-2024-25.xlsx" {
		t.Errorf("FileName = %q", got)
	}
	if ContentType(FormatCSV) != "text/csv; charset=utf-8" {
		t.Errorf("ContentType(csv) = %q", ContentType(FormatCSV))
	}
}
