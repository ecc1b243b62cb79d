package service

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/shelfshare/shelfshare/errs"
	"github.com/shelfshare/shelfshare/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectStore is the storage capability the publication workflow needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// BookRecorder is the persistence capability the publication workflow needs.
type BookRecorder interface {
	InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
}

// Asset is one uploaded file from the publish form.
type Asset struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

type PublishInput struct {
	Title           string
	Author          string
	Description     string
	PublicationDate string
	IsPublic        bool
	Cover           *Asset
	PDF             *Asset
}

// PublishService runs the multi-asset publish workflow. Object storage and
// the record store share no transaction, so the workflow is a saga: every
// step that creates external state registers an undo, and a later failure
// unwinds the registered undos in reverse order before the error surfaces.
type PublishService struct {
	Storage ObjectStore
	DB      BookRecorder
	Now     func() time.Time
}

func NewPublishService(storage ObjectStore, db BookRecorder) *PublishService {
	return &PublishService{Storage: storage, DB: db, Now: time.Now}
}

// step pairs a forward action with the compensation that undoes it.
type step struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSteps executes steps in order. On failure it runs the compensations of
// every completed step in reverse order, then returns the step's error.
// A failing compensation is logged and skipped; the orphaned object is the
// accepted residual leak.
func runSteps(ctx context.Context, steps []step) error {
	var done []step
	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				if done[i].compensate == nil {
					continue
				}
				if cerr := done[i].compensate(ctx); cerr != nil {
					log.Printf("publish: compensation %s failed: %v", done[i].name, cerr)
				}
			}
			return err
		}
		done = append(done, st)
	}
	return nil
}

// Publish validates the input, uploads the cover and PDF, and persists the
// book record. Validation failures have no side effects.
func (p *PublishService) Publish(ctx context.Context, owner models.SessionUser, in PublishInput) (*models.Book, error) {
	switch {
	case in.Title == "", in.Author == "", in.Description == "", in.PublicationDate == "":
		return nil, errs.Validation("All fields are required.")
	case in.Cover == nil || in.PDF == nil:
		return nil, errs.Validation("Please upload both cover image and PDF file.")
	}

	now := p.Now()
	coverKey := ObjectKey(CoverPrefix, owner.ID, in.Cover.Filename, now)
	pdfKey := ObjectKey(PDFPrefix, owner.ID, in.PDF.Filename, now)

	book := &models.Book{
		Title:           in.Title,
		Author:          in.Author,
		Description:     in.Description,
		PublicationDate: in.PublicationDate,
		CoverImage:      p.Storage.PublicURL(coverKey),
		PDFFile:         p.Storage.PublicURL(pdfKey),
		CoverKey:        coverKey,
		PDFKey:          pdfKey,
		UserID:          owner.ID,
		Username:        owner.Username,
		IsPublic:        in.IsPublic,
		Likes:           []models.Like{},
		Saves:           []models.Save{},
		Comments:        []models.Comment{},
		Views:           0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	steps := []step{
		{
			name: "upload cover",
			run: func(ctx context.Context) error {
				if err := p.Storage.Upload(ctx, coverKey, in.Cover.Data, in.Cover.ContentType); err != nil {
					return &errs.StorageError{Op: "upload cover", Err: err}
				}
				return nil
			},
			compensate: func(ctx context.Context) error {
				return p.Storage.Delete(ctx, coverKey)
			},
		},
		{
			name: "upload pdf",
			run: func(ctx context.Context) error {
				if err := p.Storage.Upload(ctx, pdfKey, in.PDF.Data, in.PDF.ContentType); err != nil {
					return &errs.StorageError{Op: "upload pdf", Err: err}
				}
				return nil
			},
			compensate: func(ctx context.Context) error {
				return p.Storage.Delete(ctx, pdfKey)
			},
		},
		{
			name: "persist record",
			run: func(ctx context.Context) error {
				id, err := p.DB.InsertBook(ctx, book)
				if err != nil {
					return &errs.PersistenceError{Op: "insert book", Err: err}
				}
				book.ID = id
				return nil
			},
		},
	}

	if err := runSteps(ctx, steps); err != nil {
		return nil, err
	}
	log.Printf("book published: %q by %s", book.Title, owner.Username)
	return book, nil
}
