package database

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	mathrand "math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// Document is all of the document information stored in the database.
// The file bytes themselves live in the object store under StorageKey.
type Document struct {
	ID           int
	Name         string
	StorageKey   string
	IngressTime  time.Time
	Hash         string
	ULID         ulid.ULID // smaller (than hash) id usable in URLs
	DocumentType string    // file extension (pdf, txt, etc)
	PageCount    int
	PageWidth    float64 // intrinsic first page width in points
	PageHeight   float64 // intrinsic first page height in points
	FullText     string
	ThumbnailKey string // object store key of the cached preview, "" until generated
}

// Share is a link that grants access to one document without an account.
type Share struct {
	ID           int
	ULID         ulid.ULID
	DocumentULID string
	Token        string
	CanSave      bool
	CanDownload  bool
	ExpiresAt    *time.Time
	CreatedAt    time.Time
}

// Expired reports whether the share can no longer be used.
func (s *Share) Expired() bool {
	return s.ExpiresAt != nil && time.Now().After(*s.ExpiresAt)
}

// Comment is a page-anchored remark on a document.
type Comment struct {
	ID           int
	ULID         ulid.ULID
	DocumentULID string
	Page         int
	Author       string
	Body         string
	CreatedAt    time.Time
}

// Annotation is a persisted page markup (highlight, note, drawing). The
// geometry and style live in Data as an opaque JSON payload owned by the
// viewer.
type Annotation struct {
	ID           int
	ULID         ulid.ULID
	DocumentULID string
	Page         int
	Kind         string
	Author       string
	Data         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines database operations
type Repository interface {
	Close() error

	SaveDocument(doc *Document) error
	GetDocumentByULID(ulid string) (*Document, error)
	GetDocumentByHash(hash string) (*Document, error)
	GetNewestDocuments(limit int) ([]Document, error)
	GetNewestDocumentsWithPagination(page int, pageSize int) ([]Document, int, error)
	GetAllDocuments() ([]Document, error)
	GetDocumentsMissingThumbnails(limit int) ([]Document, error)
	UpdateDocumentThumbnail(ulid string, thumbnailKey string) error
	DeleteDocument(ulid string) error
	SearchDocuments(searchTerm string) ([]Document, error)

	SaveShare(share *Share) error
	GetShareByToken(token string) (*Share, error)
	GetSharesForDocument(documentULID string) ([]Share, error)
	DeleteShare(ulid string) error

	SaveComment(comment *Comment) error
	GetCommentsForDocument(documentULID string) ([]Comment, error)
	DeleteComment(ulid string) error

	SaveAnnotation(annotation *Annotation) error
	GetAnnotationsForDocument(documentULID string) ([]Annotation, error)
	GetAnnotationsForPage(documentULID string, page int) ([]Annotation, error)
	DeleteAnnotation(ulid string) error

	// Job tracking methods
	CreateJob(jobType JobType, message string) (*Job, error)
	UpdateJobProgress(jobID ulid.ULID, progress int, currentStep string) error
	UpdateJobStatus(jobID ulid.ULID, status JobStatus, message string) error
	UpdateJobError(jobID ulid.ULID, errorMsg string) error
	CompleteJob(jobID ulid.ULID, result string) error
	GetJob(jobID ulid.ULID) (*Job, error)
	GetRecentJobs(limit, offset int) ([]Job, error)
	GetActiveJobs() ([]Job, error)
	DeleteOldJobs(olderThan time.Duration) (int, error)
}

// CalculateULID generates a ULID for the given timestamp.
func CalculateULID(t time.Time) (ulid.ULID, error) {
	entropy := ulid.Monotonic(mathrand.New(mathrand.NewSource(t.UnixNano())), 0)
	newULID, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return newULID, err
	}
	return newULID, nil
}

// HashBytes returns the content hash used for duplicate detection.
func HashBytes(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

const shareTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewShareToken returns a cryptographically random token for share URLs.
func NewShareToken() (string, error) {
	const length = 32
	token := make([]byte, length)
	max := big.NewInt(int64(len(shareTokenAlphabet)))
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("unable to generate share token: %w", err)
		}
		token[i] = shareTokenAlphabet[n.Int64()]
	}
	return string(token), nil
}

// CheckDuplicateDocument reports whether a document with the same content
// hash already exists.
func CheckDuplicateDocument(fileHash string, db Repository) bool {
	document, err := db.GetDocumentByHash(fileHash)
	if err != nil || document == nil {
		return false
	}
	Logger.Info("Duplicate document found on import (hash collision)", "existingDocument", document.Name)
	return true
}
