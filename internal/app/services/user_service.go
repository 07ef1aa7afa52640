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
	"github.com/gamage-recruiters/platform/internal/pkg/email"
	"github.com/gamage-recruiters/platform/internal/pkg/filestorage"
)

// UserService handles profile operations on user accounts
type UserService struct {
	tx              Transactor
	userRepo        repositories.IUserRepository
	activityRepo    repositories.IActivityLogRepository
	applicationRepo repositories.IApplicationRepository
	blogRepo        repositories.IBlogRepository
	sessionRepo     repositories.ISessionRepository
	storage         filestorage.FileStorage
	emailService    email.EmailService
	logger          zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	tx Transactor,
	userRepo repositories.IUserRepository,
	activityRepo repositories.IActivityLogRepository,
	applicationRepo repositories.IApplicationRepository,
	blogRepo repositories.IBlogRepository,
	sessionRepo repositories.ISessionRepository,
	storage filestorage.FileStorage,
	emailService email.EmailService,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		tx:              tx,
		userRepo:        userRepo,
		activityRepo:    activityRepo,
		applicationRepo: applicationRepo,
		blogRepo:        blogRepo,
		sessionRepo:     sessionRepo,
		storage:         storage,
		emailService:    emailService,
		logger:          logger,
	}
}

// Get returns a user account
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// List returns every user account
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

// logActivity appends to the activity log and updates the account's latest activity.
// Call it inside a transaction together with the change it describes.
func (s *UserService) logActivity(ctx context.Context, userID int64, activity string) error {
	if err := s.activityRepo.Create(ctx, userID, activity); err != nil {
		return err
	}
	return s.userRepo.RecordActivity(ctx, userID, activity)
}

// UpdateProfile overwrites the profile fields and, when given, the CV and photo.
// The row update and the activity entry are written in one transaction.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, req *dto.UpdateProfileRequest, cv, photo *multipart.FileHeader) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, apperrors.NewValidationError("birthDate must be a date in YYYY-MM-DD format")
	}

	previousCV, previousPhoto := user.CV, user.Photo
	var storedCV, storedPhoto string
	if cv != nil {
		if storedCV, err = s.storage.Store(filestorage.FieldCV, cv); err != nil {
			return nil, apperrors.NewStorageError("could not store cv", err)
		}
		user.CV = storedCV
	}
	if photo != nil {
		if storedPhoto, err = s.storage.Store(filestorage.FieldPhoto, photo); err != nil {
			discardFile(s.storage, s.logger, filestorage.FieldCV, storedCV)
			return nil, apperrors.NewStorageError("could not store photo", err)
		}
		user.Photo = storedPhoto
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	if e := strings.TrimSpace(req.Email); e != "" {
		user.Email = e
	}
	user.Gender = strings.TrimSpace(req.Gender)
	if birthDate != nil {
		user.BirthDate = birthDate
	}
	user.Address = strings.TrimSpace(req.Address)
	user.Address2 = strings.TrimSpace(req.Address2)
	user.PhoneNumber1 = strings.TrimSpace(req.PhoneNumber1)
	user.PhoneNumber2 = strings.TrimSpace(req.PhoneNumber2)
	user.LinkedInLink = strings.TrimSpace(req.LinkedInLink)
	user.FacebookLink = strings.TrimSpace(req.FacebookLink)
	user.PortfolioLink = strings.TrimSpace(req.PortfolioLink)
	user.ProfileDescription = strings.TrimSpace(req.ProfileDescription)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
			return err
		}
		return s.logActivity(ctx, user.ID, ActivityUpdatedProfile)
	})
	if err != nil {
		discardFile(s.storage, s.logger, filestorage.FieldCV, storedCV)
		discardFile(s.storage, s.logger, filestorage.FieldPhoto, storedPhoto)
		return nil, err
	}

	if storedCV != "" && previousCV != storedCV {
		discardFile(s.storage, s.logger, filestorage.FieldCV, previousCV)
	}
	if storedPhoto != "" && previousPhoto != storedPhoto {
		discardFile(s.storage, s.logger, filestorage.FieldPhoto, previousPhoto)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Profile updated")
	return user, nil
}

// UpdatePhoto replaces the profile photo; the previous file is removed
func (s *UserService) UpdatePhoto(ctx context.Context, userID int64, photo *multipart.FileHeader) (*models.User, error) {
	return s.replaceUserFile(ctx, userID, photo, filestorage.FieldPhoto)
}

// UpdateCV replaces the CV; the previous file is removed
func (s *UserService) UpdateCV(ctx context.Context, userID int64, cv *multipart.FileHeader) (*models.User, error) {
	return s.replaceUserFile(ctx, userID, cv, filestorage.FieldCV)
}

func (s *UserService) replaceUserFile(ctx context.Context, userID int64, upload *multipart.FileHeader, field filestorage.Field) (*models.User, error) {
	if upload == nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s file is required", field))
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous, update, activity := user.Photo, s.userRepo.UpdatePhoto, ActivityUpdatedImage
	if field == filestorage.FieldCV {
		previous, update, activity = user.CV, s.userRepo.UpdateCV, ActivityUpdatedCV
	}

	err = replaceFile(s.storage, field, upload, previous, func(filename string) error {
		return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			if err := update(ctx, userID, filename); err != nil {
				return err
			}
			if field == filestorage.FieldCV {
				user.CV = filename
			} else {
				user.Photo = filename
			}
			return s.logActivity(ctx, userID, activity)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Str("field", string(field)).Msg("User file replaced")
	return user, nil
}

// ChangePassword verifies the old password and stores the hash of the new one
func (s *UserService) ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	if !user.HasPassword() {
		return apperrors.NewValidationError("This account signs in through a provider and has no password")
	}
	if !auth.CheckPassword(user.Password, req.OldPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
			return err
		}
		return s.logActivity(ctx, user.ID, ActivityChangedPassword)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password changed")
	return nil
}

// SubscribeNewsletter marks the account with this email as subscribed and confirms by mail
func (s *UserService) SubscribeNewsletter(ctx context.Context, emailAddr string) error {
	emailAddr = strings.TrimSpace(emailAddr)
	if err := s.userRepo.SetNewsletterSubscription(ctx, emailAddr, true); err != nil {
		return err
	}

	if err := s.emailService.SendNewsletterConfirmation(emailAddr); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to send newsletter confirmation")
	}
	return nil
}

// Delete removes a user and everything that references it in one transaction:
// activity logs, blog comments, blog likes, job applications, then the user row.
// Stored files are removed afterwards, best-effort.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	var resumes []string
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.activityRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := s.blogRepo.DeleteCommentsByUser(ctx, userID); err != nil {
			return err
		}
		if err := s.blogRepo.DeleteLikesByUser(ctx, userID); err != nil {
			return err
		}
		var err error
		if resumes, err = s.applicationRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := s.userRepo.Delete(ctx, userID); err != nil {
			return err
		}
		return s.sessionRepo.DeleteBySubject(ctx, models.SessionRoleUser, userID)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("User delete rolled back")
		return err
	}

	discardFile(s.storage, s.logger, filestorage.FieldPhoto, user.Photo)
	discardFile(s.storage, s.logger, filestorage.FieldCV, user.CV)
	for _, resume := range resumes {
		discardFile(s.storage, s.logger, filestorage.FieldResume, resume)
	}

	s.logger.Info().Int64("userID", userID).Int("applications", len(resumes)).Msg("User deleted")
	return nil
}

// RecentActivity returns the latest activity log entry of a user
func (s *UserService) RecentActivity(ctx context.Context, userID int64) (*models.ActivityLog, error) {
	return s.activityRepo.LatestByUser(ctx, userID)
}
