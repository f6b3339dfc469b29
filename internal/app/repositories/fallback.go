package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

// FallbackDriveStore tries the remote store first and applies the same write to the
// local store when the remote is unavailable. Successful remote writes are mirrored locally.
// Writes that only reached the local store are replayed to the remote before the next
// operation once it is reachable again.
type FallbackDriveStore struct {
	remote DriveStore
	local  *LocalDriveStore
	log    zerolog.Logger
	syncMu sync.Mutex
}

// NewFallbackDriveStore creates a FallbackDriveStore
func NewFallbackDriveStore(remote DriveStore, local *LocalDriveStore, lgr zerolog.Logger) *FallbackDriveStore {
	return &FallbackDriveStore{remote: remote, local: local, log: lgr.With().Str("store", "drives").Logger()}
}

func (s *FallbackDriveStore) Create(ctx context.Context, drive *models.PlacementDrive) error {
	s.sync(ctx)
	err := s.remote.Create(ctx, drive)
	if err == nil {
		s.mirror(ctx, drive)
		return nil
	}
	if !isRemoteUnavailable(err) {
		return err
	}
	s.log.Warn().Err(err).Str("driveId", drive.ID).Msg("Remote create failed, writing drive locally")
	if err := s.local.Create(ctx, drive); err != nil {
		return err
	}
	return s.local.markPending(ctx, drive.ID)
}

func (s *FallbackDriveStore) GetByID(ctx context.Context, id string) (*models.PlacementDrive, error) {
	s.sync(ctx)
	drive, err := s.remote.GetByID(ctx, id)
	if err == nil {
		s.mirror(ctx, drive)
		return drive, nil
	}
	if errors.Is(err, apperrors.ErrDriveNotFound) {
		if local := s.localPending(ctx, id); local != nil {
			return local, nil
		}
		return nil, err
	}
	if !isRemoteUnavailable(err) {
		return nil, err
	}
	s.log.Warn().Err(err).Str("driveId", id).Msg("Remote read failed, reading drive locally")
	return s.local.GetByID(ctx, id)
}

func (s *FallbackDriveStore) List(ctx context.Context) ([]*models.PlacementDrive, error) {
	s.sync(ctx)
	drives, err := s.remote.List(ctx)
	if err == nil {
		return s.withPending(ctx, drives), nil
	}
	if !isRemoteUnavailable(err) {
		return nil, err
	}
	s.log.Warn().Err(err).Msg("Remote list failed, listing drives locally")
	return s.local.List(ctx)
}

func (s *FallbackDriveStore) Update(ctx context.Context, drive *models.PlacementDrive) error {
	s.sync(ctx)
	err := s.remote.Update(ctx, drive)
	if err == nil {
		s.mirror(ctx, drive)
		return nil
	}
	if errors.Is(err, apperrors.ErrDriveNotFound) && s.localPending(ctx, drive.ID) != nil {
		return s.local.Update(ctx, drive)
	}
	if !isRemoteUnavailable(err) {
		return err
	}
	s.log.Warn().Err(err).Str("driveId", drive.ID).Msg("Remote update failed, updating drive locally")
	if err := s.local.Update(ctx, drive); err != nil {
		return err
	}
	return s.local.markPending(ctx, drive.ID)
}

func (s *FallbackDriveStore) Delete(ctx context.Context, id string) error {
	s.sync(ctx)
	err := s.remote.Delete(ctx, id)
	if err == nil {
		if lerr := s.local.Delete(ctx, id); lerr != nil && !errors.Is(lerr, apperrors.ErrDriveNotFound) {
			s.log.Warn().Err(lerr).Str("driveId", id).Msg("Failed to drop drive from local store")
		}
		return nil
	}
	if errors.Is(err, apperrors.ErrDriveNotFound) && s.localPending(ctx, id) != nil {
		if err := s.local.Delete(ctx, id); err != nil {
			return err
		}
		return s.local.clearPending(ctx, id)
	}
	if !isRemoteUnavailable(err) {
		return err
	}
	s.log.Warn().Err(err).Str("driveId", id).Msg("Remote delete failed, deleting drive locally")

	onlyLocal, perr := s.local.isPending(ctx, id)
	if perr != nil {
		return perr
	}
	if err := s.local.Delete(ctx, id); err != nil {
		return err
	}
	if onlyLocal {
		return s.local.clearPending(ctx, id)
	}
	return s.local.markDeleted(ctx, id)
}

// sync replays local-only deletes and writes to the remote store in the order
// they were made. It stops at the first sign the remote is still unavailable.
func (s *FallbackDriveStore) sync(ctx context.Context) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	deleted, err := s.local.deletedIDs(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read unsynced drive deletes")
		return
	}
	for _, id := range deleted {
		err := s.remote.Delete(ctx, id)
		if isRemoteUnavailable(err) {
			return
		}
		if err != nil && !errors.Is(err, apperrors.ErrDriveNotFound) {
			s.log.Error().Err(err).Str("driveId", id).Msg("Replaying drive delete failed")
			continue
		}
		if err := s.local.clearDeleted(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("driveId", id).Msg("Failed to clear replayed drive delete")
		}
		s.log.Info().Str("driveId", id).Msg("Replayed drive delete")
	}

	ids, err := s.local.pendingIDs(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read unsynced drives")
		return
	}
	for _, id := range ids {
		drive, err := s.local.GetByID(ctx, id)
		if errors.Is(err, apperrors.ErrDriveNotFound) {
			_ = s.local.clearPending(ctx, id)
			continue
		}
		if err != nil {
			s.log.Warn().Err(err).Str("driveId", id).Msg("Failed to read unsynced drive")
			continue
		}
		err = s.push(ctx, drive)
		if isRemoteUnavailable(err) {
			return
		}
		if err != nil {
			s.log.Error().Err(err).Str("driveId", id).Msg("Replaying drive failed")
			continue
		}
		if err := s.local.clearPending(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("driveId", id).Msg("Failed to clear replayed drive")
		}
		s.log.Info().Str("driveId", id).Msg("Replayed drive")
	}
}

func (s *FallbackDriveStore) push(ctx context.Context, drive *models.PlacementDrive) error {
	_, err := s.remote.GetByID(ctx, drive.ID)
	switch {
	case err == nil:
		return s.remote.Update(ctx, drive)
	case errors.Is(err, apperrors.ErrDriveNotFound):
		return s.remote.Create(ctx, drive)
	default:
		return err
	}
}

// localPending returns the local copy of a drive the remote has not seen yet.
func (s *FallbackDriveStore) localPending(ctx context.Context, id string) *models.PlacementDrive {
	pending, err := s.local.isPending(ctx, id)
	if err != nil || !pending {
		return nil
	}
	drive, err := s.local.GetByID(ctx, id)
	if err != nil {
		return nil
	}
	return drive
}

func (s *FallbackDriveStore) withPending(ctx context.Context, drives []*models.PlacementDrive) []*models.PlacementDrive {
	ids, err := s.local.pendingIDs(ctx)
	if err != nil || len(ids) == 0 {
		return drives
	}
	seen := make(map[string]bool, len(drives))
	for _, d := range drives {
		seen[d.ID] = true
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if d, err := s.local.GetByID(ctx, id); err == nil {
			drives = append(drives, d)
		}
	}
	return drives
}

func (s *FallbackDriveStore) mirror(ctx context.Context, drive *models.PlacementDrive) {
	if deleted, err := s.local.isDeleted(ctx, drive.ID); err != nil || deleted {
		return
	}
	if err := s.local.Put(ctx, drive); err != nil {
		s.log.Warn().Err(err).Str("driveId", drive.ID).Msg("Failed to mirror drive locally")
	}
}

// FallbackRegistrationStore is the registration counterpart of FallbackDriveStore.
type FallbackRegistrationStore struct {
	remote RegistrationStore
	local  *LocalRegistrationStore
	log    zerolog.Logger
	syncMu sync.Mutex
}

// NewFallbackRegistrationStore creates a FallbackRegistrationStore
func NewFallbackRegistrationStore(remote RegistrationStore, local *LocalRegistrationStore, lgr zerolog.Logger) *FallbackRegistrationStore {
	return &FallbackRegistrationStore{remote: remote, local: local, log: lgr.With().Str("store", "registrations").Logger()}
}

func (s *FallbackRegistrationStore) Create(ctx context.Context, reg *models.StudentRegistration) error {
	s.sync(ctx)
	if held := s.localPendingPair(ctx, reg.StudentID, reg.DriveID); held != nil && held.ID != reg.ID {
		return apperrors.ErrDuplicateRegistration
	}

	err := s.remote.Create(ctx, reg)
	if err == nil {
		s.mirror(ctx, reg)
		return nil
	}
	if !isRemoteUnavailable(err) {
		return err
	}
	s.log.Warn().Err(err).
		Str("registrationId", reg.ID).
		Str("studentId", reg.StudentID).
		Str("driveId", reg.DriveID).
		Msg("Remote create failed, writing registration locally")
	if err := s.local.Create(ctx, reg); err != nil {
		return err
	}
	return s.local.markPending(ctx, reg.ID)
}

func (s *FallbackRegistrationStore) GetByID(ctx context.Context, id string) (*models.StudentRegistration, error) {
	s.sync(ctx)
	reg, err := s.remote.GetByID(ctx, id)
	if err == nil {
		s.mirror(ctx, reg)
		return reg, nil
	}
	if errors.Is(err, apperrors.ErrRegistrationNotFound) {
		if local := s.localPending(ctx, id); local != nil {
			return local, nil
		}
		return nil, err
	}
	if !isRemoteUnavailable(err) {
		return nil, err
	}
	s.log.Warn().Err(err).Str("registrationId", id).Msg("Remote read failed, reading registration locally")
	return s.local.GetByID(ctx, id)
}

func (s *FallbackRegistrationStore) FindByStudentAndDrive(ctx context.Context, studentID, driveID string) (*models.StudentRegistration, error) {
	s.sync(ctx)
	reg, err := s.remote.FindByStudentAndDrive(ctx, studentID, driveID)
	if err == nil {
		return reg, nil
	}
	if errors.Is(err, apperrors.ErrRegistrationNotFound) {
		if local := s.localPendingPair(ctx, studentID, driveID); local != nil {
			return local, nil
		}
		return nil, err
	}
	if !isRemoteUnavailable(err) {
		return nil, err
	}
	s.log.Warn().Err(err).Str("studentId", studentID).Str("driveId", driveID).Msg("Remote lookup failed, reading registration locally")
	return s.local.FindByStudentAndDrive(ctx, studentID, driveID)
}

func (s *FallbackRegistrationStore) List(ctx context.Context, filter RegistrationFilter) ([]*models.StudentRegistration, error) {
	s.sync(ctx)
	regs, err := s.remote.List(ctx, filter)
	if err == nil {
		return s.withPending(ctx, regs, filter), nil
	}
	if !isRemoteUnavailable(err) {
		return nil, err
	}
	s.log.Warn().Err(err).Msg("Remote list failed, listing registrations locally")
	return s.local.List(ctx, filter)
}

func (s *FallbackRegistrationStore) Update(ctx context.Context, reg *models.StudentRegistration) error {
	s.sync(ctx)
	err := s.remote.Update(ctx, reg)
	if err == nil {
		s.mirror(ctx, reg)
		return nil
	}
	if errors.Is(err, apperrors.ErrRegistrationNotFound) && s.localPending(ctx, reg.ID) != nil {
		return s.local.Update(ctx, reg)
	}
	if !isRemoteUnavailable(err) {
		return err
	}
	s.log.Warn().Err(err).Str("registrationId", reg.ID).Msg("Remote update failed, updating registration locally")
	if err := s.local.Update(ctx, reg); err != nil {
		return err
	}
	return s.local.markPending(ctx, reg.ID)
}

func (s *FallbackRegistrationStore) CountByDrive(ctx context.Context, driveID string) (int, error) {
	s.sync(ctx)
	n, err := s.remote.CountByDrive(ctx, driveID)
	if err == nil {
		pending, perr := s.local.pending(ctx, RegistrationFilter{DriveID: driveID})
		if perr != nil {
			s.log.Warn().Err(perr).Str("driveId", driveID).Msg("Failed to count unsynced registrations")
		}
		for _, reg := range pending {
			if _, gerr := s.remote.GetByID(ctx, reg.ID); errors.Is(gerr, apperrors.ErrRegistrationNotFound) {
				n++
			}
		}
		return n, nil
	}
	if !isRemoteUnavailable(err) {
		return 0, err
	}
	s.log.Warn().Err(err).Str("driveId", driveID).Msg("Remote count failed, counting registrations locally")
	return s.local.CountByDrive(ctx, driveID)
}

// sync replays registrations written only to the local store. When the remote
// already holds the same student and drive under another id the remote record
// wins and the local one is dropped.
func (s *FallbackRegistrationStore) sync(ctx context.Context) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	ids, err := s.local.pendingIDs(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read unsynced registrations")
		return
	}
	for _, id := range ids {
		reg, err := s.local.GetByID(ctx, id)
		if errors.Is(err, apperrors.ErrRegistrationNotFound) {
			_ = s.local.clearPending(ctx, id)
			continue
		}
		if err != nil {
			s.log.Warn().Err(err).Str("registrationId", id).Msg("Failed to read unsynced registration")
			continue
		}

		err = s.push(ctx, reg)
		switch {
		case isRemoteUnavailable(err):
			return
		case errors.Is(err, apperrors.ErrDuplicateRegistration):
			s.log.Error().
				Str("registrationId", id).
				Str("studentId", reg.StudentID).
				Str("driveId", reg.DriveID).
				Msg("Registration written during outage conflicts with the remote store, dropping local copy")
			if err := s.local.discard(ctx, reg); err != nil {
				s.log.Warn().Err(err).Str("registrationId", id).Msg("Failed to drop conflicting registration")
			}
		case err != nil:
			s.log.Error().Err(err).Str("registrationId", id).Msg("Replaying registration failed")
		default:
			if err := s.local.clearPending(ctx, id); err != nil {
				s.log.Warn().Err(err).Str("registrationId", id).Msg("Failed to clear replayed registration")
			}
			s.log.Info().Str("registrationId", id).Msg("Replayed registration")
		}
	}
}

func (s *FallbackRegistrationStore) push(ctx context.Context, reg *models.StudentRegistration) error {
	_, err := s.remote.GetByID(ctx, reg.ID)
	switch {
	case err == nil:
		return s.remote.Update(ctx, reg)
	case errors.Is(err, apperrors.ErrRegistrationNotFound):
		return s.remote.Create(ctx, reg)
	default:
		return err
	}
}

// localPending returns the local copy of a registration the remote has not seen yet.
func (s *FallbackRegistrationStore) localPending(ctx context.Context, id string) *models.StudentRegistration {
	pending, err := s.local.isPending(ctx, id)
	if err != nil || !pending {
		return nil
	}
	reg, err := s.local.GetByID(ctx, id)
	if err != nil {
		return nil
	}
	return reg
}

func (s *FallbackRegistrationStore) localPendingPair(ctx context.Context, studentID, driveID string) *models.StudentRegistration {
	reg, err := s.local.FindByStudentAndDrive(ctx, studentID, driveID)
	if err != nil {
		return nil
	}
	return s.localPending(ctx, reg.ID)
}

func (s *FallbackRegistrationStore) withPending(ctx context.Context, regs []*models.StudentRegistration, filter RegistrationFilter) []*models.StudentRegistration {
	pending, err := s.local.pending(ctx, filter)
	if err != nil || len(pending) == 0 {
		return regs
	}
	seen := make(map[string]bool, len(regs))
	for _, r := range regs {
		seen[r.ID] = true
	}
	for _, r := range pending {
		if !seen[r.ID] {
			regs = append(regs, r)
		}
	}
	return regs
}

func (s *FallbackRegistrationStore) mirror(ctx context.Context, reg *models.StudentRegistration) {
	if err := s.local.Put(ctx, reg); err != nil {
		s.log.Warn().Err(err).Str("registrationId", reg.ID).Msg("Failed to mirror registration locally")
	}
}

func isRemoteUnavailable(err error) bool {
	return errors.Is(err, apperrors.ErrRemoteUnavailable)
}
