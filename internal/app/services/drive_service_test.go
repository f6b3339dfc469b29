package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

func driveRequest(deadline time.Time) *dto.CreateDriveRequest {
	return &dto.CreateDriveRequest{
		CompanyName: "Acme Corp",
		Position:    "Software Engineer",
		Type:        "placement",
		Package:     "12 LPA",
		Deadline:    deadline,
		EligibilityCriteria: dto.EligibilityCriteriaRequest{
			MinCGPA:  floatPtr(7),
			Branches: []string{"cse", " ece "},
			Years:    []int{4},
		},
	}
}

func TestCreateDrive(t *testing.T) {
	stores := newTestStores()
	svc := NewDriveService(stores.drives, stores.registrations, nil, fixedClock(registrationNow), testLogger())

	view, err := svc.CreateDrive(context.Background(), driveRequest(registrationNow.Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("CreateDrive: %v", err)
	}
	if view.Status != models.DriveStatusActive {
		t.Errorf("status = %q, want active", view.Status)
	}
	if view.Drive.Category != models.DriveCategoryRegular {
		t.Errorf("category = %q, want regular default", view.Drive.Category)
	}
	branches := view.Drive.EligibilityCriteria.Branches
	if len(branches) != 2 || branches[0] != "CSE" || branches[1] != "ECE" {
		t.Errorf("branches = %v", branches)
	}
}

func TestCreateDriveValidation(t *testing.T) {
	svc := NewDriveService(newTestStores().drives, nil, nil, fixedClock(registrationNow), testLogger())

	bad := driveRequest(registrationNow.Add(time.Hour))
	bad.Type = "contract"
	if _, err := svc.CreateDrive(context.Background(), bad); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("unknown type: err = %v", err)
	}

	opens := registrationNow.Add(2 * time.Hour)
	bad = driveRequest(registrationNow.Add(time.Hour))
	bad.OpensAt = &opens
	if _, err := svc.CreateDrive(context.Background(), bad); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("opensAt after deadline: err = %v", err)
	}
}

func TestDriveStatusUpcomingAndClosed(t *testing.T) {
	stores := newTestStores()
	svc := NewDriveService(stores.drives, stores.registrations, nil, fixedClock(registrationNow), testLogger())

	opens := registrationNow.Add(time.Hour)
	req := driveRequest(registrationNow.Add(48 * time.Hour))
	req.OpensAt = &opens
	view, err := svc.CreateDrive(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateDrive: %v", err)
	}
	if view.Status != models.DriveStatusUpcoming {
		t.Fatalf("status = %q, want upcoming", view.Status)
	}

	closed, err := svc.CloseDrive(context.Background(), view.Drive.ID)
	if err != nil {
		t.Fatalf("CloseDrive: %v", err)
	}
	if closed.Status != models.DriveStatusClosed {
		t.Fatalf("status = %q, want closed", closed.Status)
	}
}

func TestListEligibleDrives(t *testing.T) {
	stores := newTestStores()
	stores.addDrive(t, openDrive("open"))
	strict := openDrive("strict")
	strict.EligibilityCriteria.MinCGPA = floatPtr(9.5)
	stores.addDrive(t, strict)
	past := openDrive("past")
	past.Deadline = registrationNow.Add(-time.Hour)
	stores.addDrive(t, past)
	svc := NewDriveService(stores.drives, stores.registrations, nil, fixedClock(registrationNow), testLogger())

	all, err := svc.ListEligibleDrives(context.Background(), eligibleProfile("s1"), false)
	if err != nil {
		t.Fatalf("ListEligibleDrives: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("drives = %d, want 2 open drives", len(all))
	}
	if all[1].Eligibility.Eligible {
		t.Errorf("strict drive should be ineligible")
	}

	only, err := svc.ListEligibleDrives(context.Background(), eligibleProfile("s1"), true)
	if err != nil {
		t.Fatalf("ListEligibleDrives: %v", err)
	}
	if len(only) != 1 || only[0].Drive.ID != "open" {
		t.Fatalf("eligible drives = %+v", only)
	}
}

func TestUpdateDriveDeadlineLock(t *testing.T) {
	stores := newTestStores()
	stores.addDrive(t, openDrive("d1"))
	regSvc := newRegistrationTestService(t, stores, nil)
	if _, err := regSvc.Submit(context.Background(), "d1", eligibleProfile("s1")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	svc := NewDriveService(stores.drives, stores.registrations, nil, fixedClock(registrationNow), testLogger())

	req := &dto.UpdateDriveRequest{CreateDriveRequest: *driveRequest(registrationNow.Add(240 * time.Hour))}
	if _, err := svc.UpdateDrive(context.Background(), "d1", req); !errors.Is(err, apperrors.ErrDeadlineLocked) {
		t.Fatalf("err = %v, want ErrDeadlineLocked", err)
	}

	req.ForceDeadlineChange = true
	view, err := svc.UpdateDrive(context.Background(), "d1", req)
	if err != nil {
		t.Fatalf("forced UpdateDrive: %v", err)
	}
	if !view.Drive.Deadline.Equal(registrationNow.Add(240 * time.Hour)) {
		t.Fatalf("deadline = %v", view.Drive.Deadline)
	}
}

func TestUpdateDriveKeepsDeadline(t *testing.T) {
	stores := newTestStores()
	drive := stores.addDrive(t, openDrive("d1"))
	regSvc := newRegistrationTestService(t, stores, nil)
	if _, err := regSvc.Submit(context.Background(), "d1", eligibleProfile("s1")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	svc := NewDriveService(stores.drives, stores.registrations, nil, fixedClock(registrationNow), testLogger())

	req := &dto.UpdateDriveRequest{CreateDriveRequest: *driveRequest(drive.Deadline)}
	req.Package = "18 LPA"
	view, err := svc.UpdateDrive(context.Background(), "d1", req)
	if err != nil {
		t.Fatalf("UpdateDrive: %v", err)
	}
	if view.Drive.Package != "18 LPA" {
		t.Fatalf("package = %q", view.Drive.Package)
	}
}

func TestDeleteDrive(t *testing.T) {
	stores := newTestStores()
	stores.addDrive(t, openDrive("used"))
	stores.addDrive(t, openDrive("unused"))
	regSvc := newRegistrationTestService(t, stores, nil)
	if _, err := regSvc.Submit(context.Background(), "used", eligibleProfile("s1")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	svc := NewDriveService(stores.drives, stores.registrations, nil, fixedClock(registrationNow), testLogger())

	if err := svc.DeleteDrive(context.Background(), "used"); !errors.Is(err, apperrors.ErrDriveHasRegistrations) {
		t.Fatalf("err = %v, want ErrDriveHasRegistrations", err)
	}
	if err := svc.DeleteDrive(context.Background(), "unused"); err != nil {
		t.Fatalf("DeleteDrive: %v", err)
	}
	if _, err := svc.GetDrive(context.Background(), "unused"); !errors.Is(err, apperrors.ErrDriveNotFound) {
		t.Fatalf("err = %v, want ErrDriveNotFound", err)
	}
}

// blockingCountStore parks CountByDrive until release is closed.
type blockingCountStore struct {
	*repositories.LocalRegistrationStore
	entered chan struct{}
	release chan struct{}
}

func (s *blockingCountStore) CountByDrive(ctx context.Context, driveID string) (int, error) {
	close(s.entered)
	<-s.release
	return s.LocalRegistrationStore.CountByDrive(ctx, driveID)
}

func TestSubmitWaitsForDriveDelete(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores()
	stores.addDrive(t, openDrive("d1"))
	counting := &blockingCountStore{
		LocalRegistrationStore: stores.registrations,
		entered:                make(chan struct{}),
		release:                make(chan struct{}),
	}
	locks := NewDriveLocks()
	driveSvc := NewDriveService(stores.drives, counting, locks, fixedClock(registrationNow), testLogger())
	regSvc := NewRegistrationService(stores.drives, stores.registrations, nil, locks, time.July,
		fixedClock(registrationNow), testLogger())

	deleted := make(chan error, 1)
	go func() { deleted <- driveSvc.DeleteDrive(ctx, "d1") }()
	<-counting.entered

	submitted := make(chan error, 1)
	go func() {
		_, err := regSvc.Submit(ctx, "d1", eligibleProfile("s1"))
		submitted <- err
	}()

	select {
	case err := <-submitted:
		t.Fatalf("Submit returned %v while the drive was being deleted", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(counting.release)
	if err := <-deleted; err != nil {
		t.Fatalf("DeleteDrive: %v", err)
	}
	if err := <-submitted; !errors.Is(err, apperrors.ErrDriveNotFound) {
		t.Fatalf("Submit err = %v, want ErrDriveNotFound", err)
	}
	if n, err := stores.registrations.CountByDrive(ctx, "d1"); err != nil || n != 0 {
		t.Fatalf("registrations for deleted drive = %d, %v", n, err)
	}
}
