package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shelfshare/shelfshare/middleware"
	"github.com/shelfshare/shelfshare/models"
	"github.com/shelfshare/shelfshare/service"
	"github.com/shelfshare/shelfshare/store"
	"github.com/shelfshare/shelfshare/templates"
	"github.com/shelfshare/shelfshare/utils"
)

type ProfileHandler struct {
	DB        *store.DB
	S3        *service.S3Service
	Templates *templates.Manager
	MaxBytes  int64
}

type profilePage struct {
	User    *models.SessionUser
	Profile *models.User
	Avatar  string
	Message string
}

func (h *ProfileHandler) render(w http.ResponseWriter, r *http.Request, status int, message string) {
	user, _ := middleware.UserFromContext(r.Context())
	profile, err := h.DB.UserByID(r.Context(), user.ID)
	if err != nil || profile == nil {
		log.Printf("profile load failed: %v", err)
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}
	avatar := profile.ProfileImage
	if avatar == "" {
		avatar = utils.DefaultAvatar(profile.Username)
	}
	h.Templates.RenderTo(w, status, "profile.html", profilePage{
		User:    &user,
		Profile: profile,
		Avatar:  avatar,
		Message: message,
	})
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, r.URL.Query().Get("message"))
}

// Update sets the optional email and bio fields.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "Invalid form data.")
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	bio := strings.TrimSpace(r.PostFormValue("bio"))
	if err := h.DB.UpdateUserProfile(r.Context(), user.ID, &email, &bio, nil); err != nil {
		log.Printf("profile update failed: %v", err)
		h.render(w, r, http.StatusOK, "Failed to update profile.")
		return
	}
	http.Redirect(w, r, "/profile?message=Profile updated.", http.StatusSeeOther)
}

// UploadAvatar stores the image and points the profile at its public URL.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		h.render(w, r, http.StatusBadRequest, "Please choose an image to upload.")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.render(w, r, http.StatusBadRequest, "Please choose an image to upload.")
		return
	}
	defer file.Close()
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.render(w, r, http.StatusBadRequest, "Only image files are allowed.")
		return
	}

	key := service.ObjectKey(service.AvatarPrefix, user.ID, header.Filename, time.Now())
	if err := h.S3.Upload(r.Context(), key, file, contentType); err != nil {
		log.Printf("avatar upload failed: %v", err)
		h.render(w, r, http.StatusOK, "Failed to upload avatar.")
		return
	}
	url := h.S3.PublicURL(key)
	if err := h.DB.UpdateUserProfile(r.Context(), user.ID, nil, nil, &url); err != nil {
		log.Printf("avatar persist failed: %v", err)
		// The record still points at the old image; drop the new object.
		if derr := h.S3.Delete(r.Context(), key); derr != nil {
			log.Printf("orphaned avatar %s: %v", key, derr)
		}
		h.render(w, r, http.StatusOK, "Failed to upload avatar.")
		return
	}
	http.Redirect(w, r, "/profile?message=Avatar updated.", http.StatusSeeOther)
}
