package database

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/uptrace/bun"
)

// BunDocument represents the documents table for Bun ORM
type BunDocument struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID           int       `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,notnull"`
	StorageKey   string    `bun:"storage_key,notnull,unique"`
	IngressTime  time.Time `bun:"ingress_time,notnull,default:current_timestamp"`
	Hash         string    `bun:"hash,notnull"`
	ULID         string    `bun:"ulid,notnull,unique"`
	DocumentType string    `bun:"document_type,notnull"`
	PageCount    int       `bun:"page_count,notnull,default:0"`
	PageWidth    float64   `bun:"page_width,notnull,default:0"`
	PageHeight   float64   `bun:"page_height,notnull,default:0"`
	FullText     string    `bun:"full_text,nullzero"`
	ThumbnailKey string    `bun:"thumbnail_key,nullzero"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ToDocument converts BunDocument to Document
func (bd *BunDocument) ToDocument() (*Document, error) {
	parsedULID, err := ulid.Parse(bd.ULID)
	if err != nil {
		return nil, err
	}

	return &Document{
		ID:           bd.ID,
		Name:         bd.Name,
		StorageKey:   bd.StorageKey,
		IngressTime:  bd.IngressTime,
		Hash:         bd.Hash,
		ULID:         parsedULID,
		DocumentType: bd.DocumentType,
		PageCount:    bd.PageCount,
		PageWidth:    bd.PageWidth,
		PageHeight:   bd.PageHeight,
		FullText:     bd.FullText,
		ThumbnailKey: bd.ThumbnailKey,
	}, nil
}

// FromDocument converts Document to BunDocument
func FromDocument(doc *Document) *BunDocument {
	return &BunDocument{
		ID:           doc.ID,
		Name:         doc.Name,
		StorageKey:   doc.StorageKey,
		IngressTime:  doc.IngressTime,
		Hash:         doc.Hash,
		ULID:         doc.ULID.String(),
		DocumentType: doc.DocumentType,
		PageCount:    doc.PageCount,
		PageWidth:    doc.PageWidth,
		PageHeight:   doc.PageHeight,
		FullText:     doc.FullText,
		ThumbnailKey: doc.ThumbnailKey,
	}
}

// BunShare represents the shares table for Bun ORM
type BunShare struct {
	bun.BaseModel `bun:"table:shares,alias:s"`

	ID           int        `bun:"id,pk,autoincrement"`
	ULID         string     `bun:"ulid,notnull,unique"`
	DocumentULID string     `bun:"document_ulid,notnull"`
	Token        string     `bun:"token,notnull,unique"`
	CanSave      bool       `bun:"can_save,notnull,default:false"`
	CanDownload  bool       `bun:"can_download,notnull,default:false"`
	ExpiresAt    *time.Time `bun:"expires_at,nullzero"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

func (bs *BunShare) ToShare() (*Share, error) {
	parsedULID, err := ulid.Parse(bs.ULID)
	if err != nil {
		return nil, err
	}
	return &Share{
		ID:           bs.ID,
		ULID:         parsedULID,
		DocumentULID: bs.DocumentULID,
		Token:        bs.Token,
		CanSave:      bs.CanSave,
		CanDownload:  bs.CanDownload,
		ExpiresAt:    bs.ExpiresAt,
		CreatedAt:    bs.CreatedAt,
	}, nil
}

func FromShare(share *Share) *BunShare {
	return &BunShare{
		ID:           share.ID,
		ULID:         share.ULID.String(),
		DocumentULID: share.DocumentULID,
		Token:        share.Token,
		CanSave:      share.CanSave,
		CanDownload:  share.CanDownload,
		ExpiresAt:    share.ExpiresAt,
		CreatedAt:    share.CreatedAt,
	}
}

// BunComment represents the comments table for Bun ORM
type BunComment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID           int       `bun:"id,pk,autoincrement"`
	ULID         string    `bun:"ulid,notnull,unique"`
	DocumentULID string    `bun:"document_ulid,notnull"`
	Page         int       `bun:"page,notnull,default:1"`
	Author       string    `bun:"author,notnull"`
	Body         string    `bun:"body,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (bc *BunComment) ToComment() (*Comment, error) {
	parsedULID, err := ulid.Parse(bc.ULID)
	if err != nil {
		return nil, err
	}
	return &Comment{
		ID:           bc.ID,
		ULID:         parsedULID,
		DocumentULID: bc.DocumentULID,
		Page:         bc.Page,
		Author:       bc.Author,
		Body:         bc.Body,
		CreatedAt:    bc.CreatedAt,
	}, nil
}

func FromComment(comment *Comment) *BunComment {
	return &BunComment{
		ID:           comment.ID,
		ULID:         comment.ULID.String(),
		DocumentULID: comment.DocumentULID,
		Page:         comment.Page,
		Author:       comment.Author,
		Body:         comment.Body,
		CreatedAt:    comment.CreatedAt,
	}
}

// BunAnnotation represents the annotations table for Bun ORM
type BunAnnotation struct {
	bun.BaseModel `bun:"table:annotations,alias:a"`

	ID           int       `bun:"id,pk,autoincrement"`
	ULID         string    `bun:"ulid,notnull,unique"`
	DocumentULID string    `bun:"document_ulid,notnull"`
	Page         int       `bun:"page,notnull,default:1"`
	Kind         string    `bun:"kind,notnull"`
	Author       string    `bun:"author,notnull"`
	Data         string    `bun:"data,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

func (ba *BunAnnotation) ToAnnotation() (*Annotation, error) {
	parsedULID, err := ulid.Parse(ba.ULID)
	if err != nil {
		return nil, err
	}
	return &Annotation{
		ID:           ba.ID,
		ULID:         parsedULID,
		DocumentULID: ba.DocumentULID,
		Page:         ba.Page,
		Kind:         ba.Kind,
		Author:       ba.Author,
		Data:         ba.Data,
		CreatedAt:    ba.CreatedAt,
		UpdatedAt:    ba.UpdatedAt,
	}, nil
}

func FromAnnotation(annotation *Annotation) *BunAnnotation {
	return &BunAnnotation{
		ID:           annotation.ID,
		ULID:         annotation.ULID.String(),
		DocumentULID: annotation.DocumentULID,
		Page:         annotation.Page,
		Kind:         annotation.Kind,
		Author:       annotation.Author,
		Data:         annotation.Data,
		CreatedAt:    annotation.CreatedAt,
		UpdatedAt:    annotation.UpdatedAt,
	}
}

// BunJob represents the jobs table for Bun ORM
type BunJob struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID          string     `bun:"id,pk"` // ULID as string
	Type        string     `bun:"type,notnull"`
	Status      string     `bun:"status,default:'pending'"`
	Progress    int        `bun:"progress,default:0"`
	CurrentStep string     `bun:"current_step,default:''"`
	TotalSteps  int        `bun:"total_steps,default:0"`
	Message     string     `bun:"message,default:''"`
	Error       string     `bun:"error,nullzero"`
	Result      string     `bun:"result,nullzero"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	StartedAt   *time.Time `bun:"started_at,nullzero"`
	CompletedAt *time.Time `bun:"completed_at,nullzero"`
}

// ToJob converts BunJob to Job
func (bj *BunJob) ToJob() (*Job, error) {
	parsedULID, err := ulid.Parse(bj.ID)
	if err != nil {
		return nil, err
	}

	return &Job{
		ID:          parsedULID,
		Type:        JobType(bj.Type),
		Status:      JobStatus(bj.Status),
		Progress:    bj.Progress,
		CurrentStep: bj.CurrentStep,
		TotalSteps:  bj.TotalSteps,
		Message:     bj.Message,
		Error:       bj.Error,
		Result:      bj.Result,
		CreatedAt:   bj.CreatedAt,
		UpdatedAt:   bj.UpdatedAt,
		StartedAt:   bj.StartedAt,
		CompletedAt: bj.CompletedAt,
	}, nil
}

// FromJob converts Job to BunJob
func FromJob(job *Job) *BunJob {
	return &BunJob{
		ID:          job.ID.String(),
		Type:        string(job.Type),
		Status:      string(job.Status),
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		TotalSteps:  job.TotalSteps,
		Message:     job.Message,
		Error:       job.Error,
		Result:      job.Result,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
}
