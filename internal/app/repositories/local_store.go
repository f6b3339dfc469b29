package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/kvstore"
)

// Key layout of the local store. The pending lists hold ids written locally while
// the remote store was unavailable, in write order.
const (
	drivesIndexKey          = "drives:index"
	drivesPendingKey        = "drives:pending"
	drivesDeletedKey        = "drives:deleted"
	registrationsIndexKey   = "registrations:index"
	registrationsPendingKey = "registrations:pending"
)

func driveKey(id string) string        { return "drive:" + id }
func registrationKey(id string) string { return "registration:" + id }
func pairKey(studentID, driveID string) string {
	return "registration:pair:" + studentID + ":" + driveID
}

func getJSON(ctx context.Context, kv kvstore.Store, key string, dst any, notFound error) error {
	b, err := kv.Get(ctx, key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("local store get %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("local store decode %s: %w", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, kv kvstore.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("local store encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("local store set %s: %w", key, err)
	}
	return nil
}

// markMember moves id to the end of listKey, adding it when absent.
func markMember(ctx context.Context, kv kvstore.Store, listKey, id string) error {
	if err := kv.Remove(ctx, listKey, id); err != nil {
		return fmt.Errorf("local store unmark %s: %w", listKey, err)
	}
	if err := kv.Append(ctx, listKey, id); err != nil {
		return fmt.Errorf("local store mark %s: %w", listKey, err)
	}
	return nil
}

func hasMember(ctx context.Context, kv kvstore.Store, listKey, id string) (bool, error) {
	ids, err := kv.Members(ctx, listKey)
	if err != nil {
		return false, fmt.Errorf("local store read %s: %w", listKey, err)
	}
	for _, m := range ids {
		if m == id {
			return true, nil
		}
	}
	return false, nil
}

// LocalDriveStore keeps drives in the key-value store as JSON.
type LocalDriveStore struct {
	kv kvstore.Store
}

// NewLocalDriveStore creates a LocalDriveStore
func NewLocalDriveStore(kv kvstore.Store) *LocalDriveStore {
	return &LocalDriveStore{kv: kv}
}

func (s *LocalDriveStore) Create(ctx context.Context, drive *models.PlacementDrive) error {
	b, err := json.Marshal(drive)
	if err != nil {
		return fmt.Errorf("local store encode drive: %w", err)
	}
	ok, err := s.kv.SetNX(ctx, driveKey(drive.ID), b)
	if err != nil {
		return fmt.Errorf("local store create drive: %w", err)
	}
	if !ok {
		return apperrors.NewConflictError("drive already exists")
	}
	if err := s.kv.Append(ctx, drivesIndexKey, drive.ID); err != nil {
		_ = s.kv.Delete(ctx, driveKey(drive.ID))
		return fmt.Errorf("local store index drive: %w", err)
	}
	return nil
}

// Put upserts a drive mirrored from the remote store.
func (s *LocalDriveStore) Put(ctx context.Context, drive *models.PlacementDrive) error {
	if err := s.Create(ctx, drive); err == nil || !errors.Is(err, apperrors.ErrConflict) {
		return err
	}
	return setJSON(ctx, s.kv, driveKey(drive.ID), drive)
}

func (s *LocalDriveStore) GetByID(ctx context.Context, id string) (*models.PlacementDrive, error) {
	var drive models.PlacementDrive
	if err := getJSON(ctx, s.kv, driveKey(id), &drive, apperrors.ErrDriveNotFound); err != nil {
		return nil, err
	}
	return &drive, nil
}

func (s *LocalDriveStore) List(ctx context.Context) ([]*models.PlacementDrive, error) {
	ids, err := s.kv.Members(ctx, drivesIndexKey)
	if err != nil {
		return nil, fmt.Errorf("local store list drives: %w", err)
	}
	drives := make([]*models.PlacementDrive, 0, len(ids))
	for _, id := range ids {
		drive, err := s.GetByID(ctx, id)
		if errors.Is(err, apperrors.ErrDriveNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		drives = append(drives, drive)
	}
	return drives, nil
}

func (s *LocalDriveStore) Update(ctx context.Context, drive *models.PlacementDrive) error {
	if _, err := s.GetByID(ctx, drive.ID); err != nil {
		return err
	}
	return setJSON(ctx, s.kv, driveKey(drive.ID), drive)
}

// Delete removes a drive. The caller checks for referencing registrations.
func (s *LocalDriveStore) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, driveKey(id)); err != nil {
		return fmt.Errorf("local store delete drive: %w", err)
	}
	return s.kv.Remove(ctx, drivesIndexKey, id)
}

func (s *LocalDriveStore) markPending(ctx context.Context, id string) error {
	return markMember(ctx, s.kv, drivesPendingKey, id)
}

func (s *LocalDriveStore) clearPending(ctx context.Context, id string) error {
	return s.kv.Remove(ctx, drivesPendingKey, id)
}

func (s *LocalDriveStore) pendingIDs(ctx context.Context) ([]string, error) {
	return s.kv.Members(ctx, drivesPendingKey)
}

func (s *LocalDriveStore) isPending(ctx context.Context, id string) (bool, error) {
	return hasMember(ctx, s.kv, drivesPendingKey, id)
}

// markDeleted records a delete the remote store has not seen yet.
func (s *LocalDriveStore) markDeleted(ctx context.Context, id string) error {
	return markMember(ctx, s.kv, drivesDeletedKey, id)
}

func (s *LocalDriveStore) clearDeleted(ctx context.Context, id string) error {
	return s.kv.Remove(ctx, drivesDeletedKey, id)
}

func (s *LocalDriveStore) deletedIDs(ctx context.Context) ([]string, error) {
	return s.kv.Members(ctx, drivesDeletedKey)
}

func (s *LocalDriveStore) isDeleted(ctx context.Context, id string) (bool, error) {
	return hasMember(ctx, s.kv, drivesDeletedKey, id)
}

// LocalRegistrationStore keeps registrations in the key-value store as JSON.
// The pair key enforces one registration per student and drive.
type LocalRegistrationStore struct {
	kv kvstore.Store
}

// NewLocalRegistrationStore creates a LocalRegistrationStore
func NewLocalRegistrationStore(kv kvstore.Store) *LocalRegistrationStore {
	return &LocalRegistrationStore{kv: kv}
}

func (s *LocalRegistrationStore) Create(ctx context.Context, reg *models.StudentRegistration) error {
	claimed, err := s.kv.SetNX(ctx, pairKey(reg.StudentID, reg.DriveID), []byte(reg.ID))
	if err != nil {
		return fmt.Errorf("local store claim registration: %w", err)
	}
	if !claimed {
		return apperrors.ErrDuplicateRegistration
	}
	if err := setJSON(ctx, s.kv, registrationKey(reg.ID), reg); err != nil {
		_ = s.kv.Delete(ctx, pairKey(reg.StudentID, reg.DriveID))
		return err
	}
	if err := s.kv.Append(ctx, registrationsIndexKey, reg.ID); err != nil {
		_ = s.kv.Delete(ctx, registrationKey(reg.ID), pairKey(reg.StudentID, reg.DriveID))
		return fmt.Errorf("local store index registration: %w", err)
	}
	return nil
}

// Put upserts a registration mirrored from the remote store. A pair held by
// another stored registration is never taken over.
func (s *LocalRegistrationStore) Put(ctx context.Context, reg *models.StudentRegistration) error {
	_, err := s.GetByID(ctx, reg.ID)
	switch {
	case errors.Is(err, apperrors.ErrRegistrationNotFound):
		if err := s.claimPair(ctx, reg); err != nil {
			return err
		}
		if err := setJSON(ctx, s.kv, registrationKey(reg.ID), reg); err != nil {
			return err
		}
		return s.kv.Append(ctx, registrationsIndexKey, reg.ID)
	case err != nil:
		return err
	default:
		return setJSON(ctx, s.kv, registrationKey(reg.ID), reg)
	}
}

// claimPair points the pair key at reg. A key left behind by a registration that
// no longer exists is reclaimed.
func (s *LocalRegistrationStore) claimPair(ctx context.Context, reg *models.StudentRegistration) error {
	key := pairKey(reg.StudentID, reg.DriveID)
	claimed, err := s.kv.SetNX(ctx, key, []byte(reg.ID))
	if err != nil {
		return fmt.Errorf("local store claim registration: %w", err)
	}
	if claimed {
		return nil
	}
	holder, err := s.kv.Get(ctx, key)
	if err != nil && !errors.Is(err, kvstore.ErrKeyNotFound) {
		return fmt.Errorf("local store claim registration: %w", err)
	}
	if string(holder) == reg.ID {
		return nil
	}
	if err == nil {
		if _, herr := s.GetByID(ctx, string(holder)); herr == nil {
			return apperrors.ErrDuplicateRegistration
		} else if !errors.Is(herr, apperrors.ErrRegistrationNotFound) {
			return herr
		}
	}
	if err := s.kv.Set(ctx, key, []byte(reg.ID)); err != nil {
		return fmt.Errorf("local store claim registration: %w", err)
	}
	return nil
}

// discard drops a registration and releases its pair key if it still holds it.
func (s *LocalRegistrationStore) discard(ctx context.Context, reg *models.StudentRegistration) error {
	key := pairKey(reg.StudentID, reg.DriveID)
	holder, err := s.kv.Get(ctx, key)
	if err != nil && !errors.Is(err, kvstore.ErrKeyNotFound) {
		return fmt.Errorf("local store discard registration: %w", err)
	}
	keys := []string{registrationKey(reg.ID)}
	if err == nil && string(holder) == reg.ID {
		keys = append(keys, key)
	}
	if err := s.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("local store discard registration: %w", err)
	}
	if err := s.kv.Remove(ctx, registrationsIndexKey, reg.ID); err != nil {
		return fmt.Errorf("local store discard registration: %w", err)
	}
	return s.clearPending(ctx, reg.ID)
}

func (s *LocalRegistrationStore) markPending(ctx context.Context, id string) error {
	return markMember(ctx, s.kv, registrationsPendingKey, id)
}

func (s *LocalRegistrationStore) clearPending(ctx context.Context, id string) error {
	return s.kv.Remove(ctx, registrationsPendingKey, id)
}

func (s *LocalRegistrationStore) pendingIDs(ctx context.Context) ([]string, error) {
	return s.kv.Members(ctx, registrationsPendingKey)
}

func (s *LocalRegistrationStore) isPending(ctx context.Context, id string) (bool, error) {
	return hasMember(ctx, s.kv, registrationsPendingKey, id)
}

// pending returns the not yet replayed registrations matching filter.
func (s *LocalRegistrationStore) pending(ctx context.Context, filter RegistrationFilter) ([]*models.StudentRegistration, error) {
	ids, err := s.pendingIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("local store list pending registrations: %w", err)
	}
	regs := make([]*models.StudentRegistration, 0, len(ids))
	for _, id := range ids {
		reg, err := s.GetByID(ctx, id)
		if errors.Is(err, apperrors.ErrRegistrationNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if filter.matches(reg) {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}

func (s *LocalRegistrationStore) GetByID(ctx context.Context, id string) (*models.StudentRegistration, error) {
	var reg models.StudentRegistration
	if err := getJSON(ctx, s.kv, registrationKey(id), &reg, apperrors.ErrRegistrationNotFound); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *LocalRegistrationStore) FindByStudentAndDrive(ctx context.Context, studentID, driveID string) (*models.StudentRegistration, error) {
	id, err := s.kv.Get(ctx, pairKey(studentID, driveID))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, apperrors.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("local store find registration: %w", err)
	}
	return s.GetByID(ctx, string(id))
}

func (s *LocalRegistrationStore) List(ctx context.Context, filter RegistrationFilter) ([]*models.StudentRegistration, error) {
	ids, err := s.kv.Members(ctx, registrationsIndexKey)
	if err != nil {
		return nil, fmt.Errorf("local store list registrations: %w", err)
	}
	regs := make([]*models.StudentRegistration, 0, len(ids))
	for _, id := range ids {
		reg, err := s.GetByID(ctx, id)
		if errors.Is(err, apperrors.ErrRegistrationNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if filter.matches(reg) {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}

func (s *LocalRegistrationStore) Update(ctx context.Context, reg *models.StudentRegistration) error {
	if _, err := s.GetByID(ctx, reg.ID); err != nil {
		return err
	}
	return setJSON(ctx, s.kv, registrationKey(reg.ID), reg)
}

func (s *LocalRegistrationStore) CountByDrive(ctx context.Context, driveID string) (int, error) {
	regs, err := s.List(ctx, RegistrationFilter{DriveID: driveID})
	if err != nil {
		return 0, err
	}
	return len(regs), nil
}
