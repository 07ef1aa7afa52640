package filestorage

import (
	"mime/multipart"
)

// Field names an upload slot; it selects the category directory and the filename prefix
type Field string

const (
	FieldPhoto         Field = "photo"
	FieldCV            Field = "cv"
	FieldResume        Field = "resume"
	FieldWorkshopImage Field = "workshopImage"
	FieldAdminPhoto    Field = "adminPhoto"
	FieldJobImage      Field = "jobImage"
)

var categories = map[Field]string{
	FieldPhoto:         "images",
	FieldCV:            "cvs",
	FieldResume:        "appliedJobs/resumes",
	FieldWorkshopImage: "workshops",
	FieldAdminPhoto:    "admins",
	FieldJobImage:      "jobs",
}

// Category returns the directory, relative to the storage root, that holds files of this field
func (f Field) Category() (string, bool) {
	dir, ok := categories[f]
	return dir, ok
}

// CommitFunc persists a stored filename, usually by updating the owning row
type CommitFunc func(filename string) error

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Store writes the upload and returns the stored filename
	Store(field Field, fileHeader *multipart.FileHeader) (string, error)

	// Replace stores the upload, runs commit with the new filename and then removes
	// previous, best-effort. When commit fails the new file is removed instead.
	Replace(field Field, fileHeader *multipart.FileHeader, previous string, commit CommitFunc) (string, error)

	// Delete removes a stored file; missing files are not an error
	Delete(field Field, filename string) error

	// Path returns the filesystem path of a stored file
	Path(field Field, filename string) string
}
