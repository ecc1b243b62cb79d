package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/errs"
	"github.com/shelfshare/shelfshare/middleware"
	"github.com/shelfshare/shelfshare/models"
	"github.com/shelfshare/shelfshare/service"
	"github.com/shelfshare/shelfshare/store"
	"github.com/shelfshare/shelfshare/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BooksHandler struct {
	DB           *store.DB
	S3           *service.S3Service
	Publish      *service.PublishService
	Interactions *service.InteractionService
	Templates    *templates.Manager
	MaxBytes     int64
}

type publishPage struct {
	User    *models.SessionUser
	Message string
	Success bool
}

func (h *BooksHandler) GetPublish(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	h.Templates.RenderTo(w, http.StatusOK, "publish.html", publishPage{
		User:    &user,
		Success: r.URL.Query().Get("success") == "true",
	})
}

// formAsset adapts one multipart file to the workflow's asset shape.
func formAsset(file multipart.File, header *multipart.FileHeader, fallbackType string) *service.Asset {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = fallbackType
	}
	return &service.Asset{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        file,
	}
}

func (h *BooksHandler) PostPublish(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	renderError := func(message string) {
		h.Templates.RenderTo(w, http.StatusOK, "publish.html", publishPage{User: &user, Message: message})
	}

	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		renderError("Please upload both cover image and PDF file.")
		return
	}

	in := service.PublishInput{
		Title:           strings.TrimSpace(r.PostFormValue("title")),
		Author:          strings.TrimSpace(r.PostFormValue("author")),
		Description:     strings.TrimSpace(r.PostFormValue("description")),
		PublicationDate: strings.TrimSpace(r.PostFormValue("publicationDate")),
		IsPublic:        r.PostFormValue("isPublic") == "on",
	}

	if cover, header, err := r.FormFile("coverImage"); err == nil {
		defer cover.Close()
		if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
			renderError("Only image files allowed for cover.")
			return
		}
		in.Cover = formAsset(cover, header, "image/jpeg")
	}
	if pdf, header, err := r.FormFile("pdfFile"); err == nil {
		defer pdf.Close()
		if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/pdf" {
			renderError("Only PDF files allowed.")
			return
		}
		in.PDF = formAsset(pdf, header, "application/pdf")
	}

	if _, err := h.Publish.Publish(r.Context(), user, in); err != nil {
		var ve *errs.ValidationError
		if errors.As(err, &ve) {
			renderError(ve.Message)
			return
		}
		log.Printf("publish failed: %v", err)
		h.Templates.RenderTo(w, http.StatusInternalServerError, "publish.html", publishPage{
			User:    &user,
			Message: "Failed to publish book. Please try again.",
		})
		return
	}
	http.Redirect(w, r, "/publish?success=true", http.StatusSeeOther)
}

type storebookPage struct {
	User       *models.SessionUser
	Books      []models.Book
	TotalBooks int64
	Message    string
}

func (h *BooksHandler) Storebook(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	books, err := h.DB.BooksByOwner(r.Context(), user.ID)
	if err != nil {
		log.Printf("storebook load failed: %v", err)
		h.Templates.RenderTo(w, http.StatusOK, "storebook.html", storebookPage{
			User:    &user,
			Message: "Failed to load books.",
		})
		return
	}
	count, err := h.DB.BooksByOwnerCount(r.Context(), user.ID)
	if err != nil {
		count = int64(len(books))
	}
	h.Templates.RenderTo(w, http.StatusOK, "storebook.html", storebookPage{
		User:       &user,
		Books:      books,
		TotalBooks: count,
	})
}

// RemoveBook deletes an owner's book by id, or by title for legacy rows.
// The row delete is authoritative; the storage objects and dependent
// reading-list rows are cleaned up best-effort afterwards.
func (h *BooksHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/storebook", http.StatusSeeOther)
		return
	}

	var book *models.Book
	var err error
	if idStr := r.PostFormValue("id"); idStr != "" {
		id, perr := primitive.ObjectIDFromHex(idStr)
		if perr != nil {
			http.Redirect(w, r, "/storebook", http.StatusSeeOther)
			return
		}
		book, err = h.DB.DeleteBookByID(r.Context(), user.ID, id)
	} else {
		book, err = h.DB.DeleteBookByTitle(r.Context(), user.ID, r.PostFormValue("title"))
	}
	if err != nil {
		log.Printf("remove book failed: %v", err)
		http.Error(w, "Failed to remove book.", http.StatusInternalServerError)
		return
	}
	if book != nil {
		h.cleanupRemovedBook(r, book)
		log.Printf("book removed: %q by %s", book.Title, user.Username)
	}
	http.Redirect(w, r, "/storebook", http.StatusSeeOther)
}

func (h *BooksHandler) cleanupRemovedBook(r *http.Request, book *models.Book) {
	ctx := r.Context()
	for _, key := range []string{book.CoverKey, book.PDFKey} {
		if key == "" {
			continue
		}
		if err := h.S3.Delete(ctx, key); err != nil {
			log.Printf("orphaned object %s: %v", key, err)
		}
	}
	if err := h.DB.DeleteReadingListEntriesForBook(ctx, book.ID); err != nil {
		log.Printf("orphaned reading-list rows for %s: %v", book.ID.Hex(), err)
	}
}

// Download redirects to a short-lived presigned URL for the book's PDF.
func (h *BooksHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil || book == nil {
		http.NotFound(w, r)
		return
	}
	if book.PDFKey == "" {
		http.NotFound(w, r)
		return
	}
	url, err := h.S3.PresignedGetURL(r.Context(), book.PDFKey, 15*time.Minute, book.Title+".pdf")
	if err != nil {
		log.Printf("presign failed: %v", err)
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// Like toggles the acting user's like. POST /api/books/{id}/like
func (h *BooksHandler) Like(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "invalid book id", http.StatusBadRequest)
		return
	}
	liked, count, err := h.Interactions.ToggleLike(r.Context(), id, user)
	if err != nil {
		h.interactionError(w, err, "like")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"liked":      liked,
		"likesCount": count,
	})
}

// Save toggles the acting user's save and the reading-list projection.
// POST /api/books/{id}/save
func (h *BooksHandler) Save(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "invalid book id", http.StatusBadRequest)
		return
	}
	saved, err := h.Interactions.ToggleSave(r.Context(), id, user)
	if err != nil {
		h.interactionError(w, err, "save")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"saved":   saved,
	})
}

// Comment appends a comment. POST /api/books/{id}/comment
func (h *BooksHandler) Comment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "invalid book id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		jsonError(w, "comment text required", http.StatusBadRequest)
		return
	}
	comment, err := h.Interactions.AddComment(r.Context(), id, user.ID, r.PostFormValue("comment"))
	if err != nil {
		h.interactionError(w, err, "comment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"comment": comment,
	})
}

func (h *BooksHandler) interactionError(w http.ResponseWriter, err error, op string) {
	var nfe *errs.NotFoundError
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &nfe):
		jsonError(w, nfe.Error(), http.StatusNotFound)
	case errors.As(err, &ve):
		jsonError(w, ve.Message, http.StatusBadRequest)
	default:
		log.Printf("%s failed: %v", op, err)
		jsonError(w, "Server error", http.StatusInternalServerError)
	}
}
