package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/app/repositories"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
	"github.com/gamage-recruiters/platform/internal/pkg/filestorage"
)

// AdminService manages admin accounts
type AdminService struct {
	tx          Transactor
	adminRepo   repositories.IAdminRepository
	sessionRepo repositories.ISessionRepository
	storage     filestorage.FileStorage
	logger      zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	tx Transactor,
	adminRepo repositories.IAdminRepository,
	sessionRepo repositories.ISessionRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		tx:          tx,
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		storage:     storage,
		logger:      logger,
	}
}

// Register creates an admin account with an optional photo
func (s *AdminService) Register(ctx context.Context, req *dto.AdminRegisterRequest, photo *multipart.FileHeader) (*models.Admin, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	status := models.AdminStatus(req.Status)
	if status == "" {
		status = models.AdminStatusActive
	}

	admin := &models.Admin{
		Name:                 strings.TrimSpace(req.Name),
		Email:                strings.TrimSpace(req.Email),
		Password:             hashedPassword,
		Gender:               strings.TrimSpace(req.Gender),
		Role:                 models.AdminRole(req.Role),
		Status:               status,
		PrimaryPhoneNumber:   strings.TrimSpace(req.PrimaryPhoneNumber),
		SecondaryPhoneNumber: strings.TrimSpace(req.SecondaryPhoneNumber),
	}

	if photo != nil {
		if admin.Image, err = s.storage.Store(filestorage.FieldAdminPhoto, photo); err != nil {
			return nil, apperrors.NewStorageError("could not store admin photo", err)
		}
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		discardFile(s.storage, s.logger, filestorage.FieldAdminPhoto, admin.Image)
		return nil, err
	}

	s.logger.Info().Int64("adminID", admin.ID).Str("role", string(admin.Role)).Msg("Admin registered")
	return admin, nil
}

// List returns every admin account
func (s *AdminService) List(ctx context.Context) ([]*models.Admin, error) {
	return s.adminRepo.List(ctx)
}

// Get returns one admin account
func (s *AdminService) Get(ctx context.Context, id int64) (*models.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

// Update overwrites an admin's details; a new photo replaces the previous file
func (s *AdminService) Update(ctx context.Context, id int64, req *dto.AdminUpdateRequest, photo *multipart.FileHeader) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	admin.Name = strings.TrimSpace(req.Name)
	admin.Email = strings.TrimSpace(req.Email)
	admin.Gender = strings.TrimSpace(req.Gender)
	admin.Role = models.AdminRole(req.Role)
	admin.Status = models.AdminStatus(req.Status)
	admin.PrimaryPhoneNumber = strings.TrimSpace(req.PrimaryPhoneNumber)
	admin.SecondaryPhoneNumber = strings.TrimSpace(req.SecondaryPhoneNumber)

	if photo == nil {
		if err := s.adminRepo.Update(ctx, admin); err != nil {
			return nil, err
		}
		return admin, nil
	}

	previous := admin.Image
	err = replaceFile(s.storage, filestorage.FieldAdminPhoto, photo, previous, func(filename string) error {
		admin.Image = filename
		return s.adminRepo.Update(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("adminID", admin.ID).Msg("Admin updated")
	return admin, nil
}

// Delete removes an admin account and its sessions. Admins cannot delete themselves.
func (s *AdminService) Delete(ctx context.Context, callerID, id int64) error {
	if callerID == id {
		return apperrors.NewForbiddenError("You cannot delete your own admin account")
	}

	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.sessionRepo.DeleteBySubject(ctx, models.SessionRoleAdmin, id); err != nil {
			return err
		}
		return s.adminRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	discardFile(s.storage, s.logger, filestorage.FieldAdminPhoto, admin.Image)
	s.logger.Info().Int64("adminID", id).Int64("by", callerID).Msg("Admin deleted")
	return nil
}

// SeedDefault creates a super admin when no admin account exists yet
func (s *AdminService) SeedDefault(ctx context.Context, name, emailAddr, password string) (bool, error) {
	if emailAddr == "" || password == "" {
		return false, nil
	}

	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if name == "" {
		name = "Super Admin"
	}
	_, err = s.Register(ctx, &dto.AdminRegisterRequest{
		Name:     name,
		Email:    emailAddr,
		Password: password,
		Role:     string(models.AdminRoleSuperAdmin),
		Status:   string(models.AdminStatusActive),
	}, nil)
	if err != nil {
		return false, err
	}
	return true, nil
}
