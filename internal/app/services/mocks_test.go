package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sync"
	"time"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/db"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/filestorage"
)

var errNotImplemented = errors.New("not implemented")

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	createFunc         func(ctx context.Context, user *models.User) error
	getByIDFunc        func(ctx context.Context, id int64) (*models.User, error)
	getByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	emailExistsFunc    func(ctx context.Context, email string) (bool, error)
	listFunc           func(ctx context.Context) ([]*models.User, error)
	countFunc          func(ctx context.Context) (int64, error)
	updateProfileFunc  func(ctx context.Context, user *models.User) error
	updatePhotoFunc    func(ctx context.Context, id int64, photo string) error
	updateCVFunc       func(ctx context.Context, id int64, cv string) error
	updatePasswordFunc func(ctx context.Context, id int64, hash string) error
	setNewsletterFunc  func(ctx context.Context, email string, subscribed bool) error
	recordActivityFunc func(ctx context.Context, id int64, activity string) error
	deleteFunc         func(ctx context.Context, id int64) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errNotImplemented
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFunc != nil {
		return m.emailExistsFunc(ctx, email)
	}
	return false, errNotImplemented
}

func (m *mockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, errNotImplemented
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, user)
	}
	return errNotImplemented
}

func (m *mockUserRepository) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	if m.updatePhotoFunc != nil {
		return m.updatePhotoFunc(ctx, id, photo)
	}
	return errNotImplemented
}

func (m *mockUserRepository) UpdateCV(ctx context.Context, id int64, cv string) error {
	if m.updateCVFunc != nil {
		return m.updateCVFunc(ctx, id, cv)
	}
	return errNotImplemented
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, hash)
	}
	return errNotImplemented
}

func (m *mockUserRepository) SetNewsletterSubscription(ctx context.Context, email string, subscribed bool) error {
	if m.setNewsletterFunc != nil {
		return m.setNewsletterFunc(ctx, email, subscribed)
	}
	return errNotImplemented
}

func (m *mockUserRepository) RecordActivity(ctx context.Context, id int64, activity string) error {
	if m.recordActivityFunc != nil {
		return m.recordActivityFunc(ctx, id, activity)
	}
	// Default: activity summaries are incidental to most tests
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errNotImplemented
}

// =============================================================================
// Mock AdminRepository
// =============================================================================

type mockAdminRepository struct {
	createFunc     func(ctx context.Context, admin *models.Admin) error
	getByIDFunc    func(ctx context.Context, id int64) (*models.Admin, error)
	getByEmailFunc func(ctx context.Context, email string) (*models.Admin, error)
	countFunc      func(ctx context.Context) (int64, error)
	updateFunc     func(ctx context.Context, admin *models.Admin) error
	deleteFunc     func(ctx context.Context, id int64) error
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, admin)
	}
	return errNotImplemented
}

func (m *mockAdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, errNotImplemented
}

func (m *mockAdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	return nil, errNotImplemented
}

func (m *mockAdminRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, errNotImplemented
}

func (m *mockAdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, admin)
	}
	return errNotImplemented
}

func (m *mockAdminRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errNotImplemented
}

// =============================================================================
// Mock SessionRepository (in memory)
// =============================================================================

type mockSessionRepository struct {
	mu        sync.Mutex
	sessions  map[string]*models.Session
	createErr error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*models.Session)}
}

func (m *mockSessionRepository) Create(_ context.Context, session *models.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	session.ID = int64(len(m.sessions) + 1)
	m.sessions[session.Token] = session
	return nil
}

func (m *mockSessionRepository) Exists(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[token]
	return ok, nil
}

func (m *mockSessionRepository) DeleteByToken(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[token]
	delete(m.sessions, token)
	return ok, nil
}

func (m *mockSessionRepository) DeleteBySubject(_ context.Context, role models.SessionRole, subjectID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.Role == role && s.SubjectID == subjectID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *mockSessionRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// =============================================================================
// Mock FederatedLoginRepository
// =============================================================================

type mockFederatedLoginRepository struct {
	logins    []models.FederatedLogin
	createErr error
}

func (m *mockFederatedLoginRepository) Create(_ context.Context, login *models.FederatedLogin) error {
	if m.createErr != nil {
		return m.createErr
	}
	login.ID = int64(len(m.logins) + 1)
	m.logins = append(m.logins, *login)
	return nil
}

// =============================================================================
// Mock JobRepository
// =============================================================================

type mockJobRepository struct {
	getByIDFunc              func(ctx context.Context, id int64) (*models.Job, error)
	getByTitleAndCompanyFunc func(ctx context.Context, title, company string) (*models.Job, error)
	createFunc               func(ctx context.Context, job *models.Job) error
	updateFunc               func(ctx context.Context, job *models.Job) error
	deleteFunc               func(ctx context.Context, id int64) error
	countFunc                func(ctx context.Context) (int64, error)
	applicationCountsFunc    func(ctx context.Context) ([]models.JobApplicationCount, error)
}

func (m *mockJobRepository) Create(ctx context.Context, job *models.Job) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, job)
	}
	return errNotImplemented
}

func (m *mockJobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockJobRepository) GetByTitleAndCompany(ctx context.Context, title, company string) (*models.Job, error) {
	if m.getByTitleAndCompanyFunc != nil {
		return m.getByTitleAndCompanyFunc(ctx, title, company)
	}
	return nil, errNotImplemented
}

func (m *mockJobRepository) List(ctx context.Context) ([]*models.Job, error) {
	return nil, errNotImplemented
}

func (m *mockJobRepository) Latest(ctx context.Context, limit uint64) ([]*models.Job, error) {
	return nil, errNotImplemented
}

func (m *mockJobRepository) Update(ctx context.Context, job *models.Job) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, job)
	}
	return errNotImplemented
}

func (m *mockJobRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errNotImplemented
}

func (m *mockJobRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, errNotImplemented
}

func (m *mockJobRepository) ApplicationCounts(ctx context.Context) ([]models.JobApplicationCount, error) {
	if m.applicationCountsFunc != nil {
		return m.applicationCountsFunc(ctx)
	}
	return nil, errNotImplemented
}

// =============================================================================
// Mock ApplicationRepository (in memory, unique per job and user)
// =============================================================================

type mockApplicationRepository struct {
	rows      []models.JobApplication
	createErr error
	deleteErr error
}

func (m *mockApplicationRepository) Create(_ context.Context, app *models.JobApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, row := range m.rows {
		if row.JobID == app.JobID && row.UserID == app.UserID {
			return apperrors.ErrAlreadyApplied
		}
	}
	app.ID = int64(len(m.rows) + 1)
	app.AppliedAt = time.Now()
	m.rows = append(m.rows, *app)
	return nil
}

func (m *mockApplicationRepository) GetByID(_ context.Context, id int64) (*models.JobApplication, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, apperrors.ErrApplicationNotFound
}

func (m *mockApplicationRepository) List(context.Context) ([]models.JobApplication, error) {
	return m.rows, nil
}

func (m *mockApplicationRepository) ListByJob(_ context.Context, jobID int64) ([]models.JobApplication, error) {
	var out []models.JobApplication
	for _, row := range m.rows {
		if row.JobID == jobID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockApplicationRepository) ListByUser(_ context.Context, userID int64) ([]models.JobApplication, error) {
	var out []models.JobApplication
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockApplicationRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	rows, _ := m.ListByUser(ctx, userID)
	return int64(len(rows)), nil
}

func (m *mockApplicationRepository) LatestByUser(ctx context.Context, userID int64) (*models.JobApplication, error) {
	rows, _ := m.ListByUser(ctx, userID)
	if len(rows) == 0 {
		return nil, apperrors.ErrActivityNotFound
	}
	return &rows[len(rows)-1], nil
}

func (m *mockApplicationRepository) Count(context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

func (m *mockApplicationRepository) Delete(_ context.Context, id int64) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrApplicationNotFound
}

func (m *mockApplicationRepository) DeleteByUser(_ context.Context, userID int64) ([]string, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	var kept []models.JobApplication
	var resumes []string
	for _, row := range m.rows {
		if row.UserID == userID {
			resumes = append(resumes, row.Resume)
			continue
		}
		kept = append(kept, row)
	}
	m.rows = kept
	return resumes, nil
}

// =============================================================================
// Mock ActivityLogRepository and BlogRepository
// =============================================================================

type mockActivityLogRepository struct {
	entries          []models.ActivityLog
	createErr        error
	deleteByUserFunc func(ctx context.Context, userID int64) error
}

func (m *mockActivityLogRepository) Create(_ context.Context, userID int64, activity string) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, models.ActivityLog{ID: int64(len(m.entries) + 1), UserID: userID, Activity: activity, CompletedAt: time.Now()})
	return nil
}

func (m *mockActivityLogRepository) LatestByUser(_ context.Context, userID int64) (*models.ActivityLog, error) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].UserID == userID {
			entry := m.entries[i]
			return &entry, nil
		}
	}
	return nil, apperrors.ErrActivityNotFound
}

func (m *mockActivityLogRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if m.deleteByUserFunc != nil {
		return m.deleteByUserFunc(ctx, userID)
	}
	return errNotImplemented
}

type mockBlogRepository struct {
	deleteCommentsFunc func(ctx context.Context, userID int64) error
	deleteLikesFunc    func(ctx context.Context, userID int64) error
}

func (m *mockBlogRepository) DeleteCommentsByUser(ctx context.Context, userID int64) error {
	if m.deleteCommentsFunc != nil {
		return m.deleteCommentsFunc(ctx, userID)
	}
	return errNotImplemented
}

func (m *mockBlogRepository) DeleteLikesByUser(ctx context.Context, userID int64) error {
	if m.deleteLikesFunc != nil {
		return m.deleteLikesFunc(ctx, userID)
	}
	return errNotImplemented
}

// =============================================================================
// Fake transactor, storage and email
// =============================================================================

// fakeTransactor runs fn directly and reports whether it committed
type fakeTransactor struct {
	calls     int
	committed int
}

func (f *fakeTransactor) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	f.committed++
	return nil
}

// fakeStorage keeps stored names in memory
type fakeStorage struct {
	files    map[string]bool
	next     int
	storeErr error
	deleted  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string]bool)}
}

func (f *fakeStorage) key(field filestorage.Field, name string) string {
	return string(field) + "/" + name
}

func (f *fakeStorage) Store(field filestorage.Field, fh *multipart.FileHeader) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.next++
	name := fmt.Sprintf("%s-%d.bin", field, f.next)
	f.files[f.key(field, name)] = true
	return name, nil
}

func (f *fakeStorage) Replace(field filestorage.Field, fh *multipart.FileHeader, previous string, commit filestorage.CommitFunc) (string, error) {
	name, err := f.Store(field, fh)
	if err != nil {
		return "", err
	}
	if commit != nil {
		if err := commit(name); err != nil {
			_ = f.Delete(field, name)
			return "", err
		}
	}
	if previous != "" {
		_ = f.Delete(field, previous)
	}
	return name, nil
}

func (f *fakeStorage) Delete(field filestorage.Field, name string) error {
	if name == "" {
		return nil
	}
	delete(f.files, f.key(field, name))
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeStorage) Path(field filestorage.Field, name string) string {
	return f.key(field, name)
}

func (f *fakeStorage) has(field filestorage.Field, name string) bool {
	return f.files[f.key(field, name)]
}

type sentOTP struct {
	to   string
	code string
}

type fakeEmailService struct {
	otps       []sentOTP
	newsletter []string
	welcomed   []string
	err        error
}

func (f *fakeEmailService) SendOTPEmail(to, code string, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.otps = append(f.otps, sentOTP{to: to, code: code})
	return nil
}

func (f *fakeEmailService) SendNewsletterConfirmation(to string) error {
	f.newsletter = append(f.newsletter, to)
	return f.err
}

func (f *fakeEmailService) SendWelcomeEmail(to, _ string) error {
	f.welcomed = append(f.welcomed, to)
	return f.err
}

// fileHeader is a placeholder upload; the fake storage never reads it
func fileHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 1}
}
