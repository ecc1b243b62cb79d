package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/shelfshare/shelfshare/errs"
	"github.com/shelfshare/shelfshare/middleware"
	"github.com/shelfshare/shelfshare/models"
	"github.com/shelfshare/shelfshare/service"
	"github.com/shelfshare/shelfshare/templates"
)

type AuthHandler struct {
	Credentials *service.CredentialService
	Sessions    *service.SessionService
	Templates   *templates.Manager
}

type authPage struct {
	Message string
}

func (h *AuthHandler) GetSignup(w http.ResponseWriter, r *http.Request) {
	h.Templates.RenderTo(w, http.StatusOK, "signup.html", authPage{Message: r.URL.Query().Get("message")})
}

func (h *AuthHandler) GetSignin(w http.ResponseWriter, r *http.Request) {
	h.Templates.RenderTo(w, http.StatusOK, "signin.html", authPage{Message: r.URL.Query().Get("message")})
}

func (h *AuthHandler) PostSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Templates.RenderTo(w, http.StatusBadRequest, "signup.html", authPage{Message: "Please fill in all fields."})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirmPassword")

	user, err := h.Credentials.Signup(r.Context(), username, password, confirm)
	if err != nil {
		var ve *errs.ValidationError
		var ce *errs.ConflictError
		switch {
		case errors.As(err, &ve):
			h.Templates.RenderTo(w, http.StatusOK, "signup.html", authPage{Message: ve.Message})
		case errors.As(err, &ce):
			h.Templates.RenderTo(w, http.StatusOK, "signup.html", authPage{Message: ce.Message})
		default:
			log.Printf("signup failed: %v", err)
			h.Templates.RenderTo(w, http.StatusOK, "signup.html", authPage{Message: "Error creating account. Please try again."})
		}
		return
	}

	log.Printf("user created: %s", user.Username)
	if err := h.establishSession(w, r, user); err != nil {
		log.Printf("session after signup failed: %v", err)
	}
	http.Redirect(w, r, "/signin?message=Account created successfully! Please sign in.", http.StatusSeeOther)
}

func (h *AuthHandler) PostSignin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Templates.RenderTo(w, http.StatusBadRequest, "signin.html", authPage{Message: "Please enter both username and password."})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.Credentials.Signin(r.Context(), username, password)
	if err != nil {
		var ve *errs.ValidationError
		var ae *errs.AuthError
		switch {
		case errors.As(err, &ve):
			h.Templates.RenderTo(w, http.StatusOK, "signin.html", authPage{Message: ve.Message})
		case errors.As(err, &ae):
			h.Templates.RenderTo(w, http.StatusOK, "signin.html", authPage{Message: "Invalid username or password."})
		default:
			log.Printf("signin failed: %v", err)
			h.Templates.RenderTo(w, http.StatusOK, "signin.html", authPage{Message: "Error signing in. Please try again."})
		}
		return
	}

	if err := h.establishSession(w, r, user); err != nil {
		log.Printf("session after signin failed: %v", err)
		h.Templates.RenderTo(w, http.StatusOK, "signin.html", authPage{Message: "Error signing in. Please try again."})
		return
	}
	log.Printf("user signed in: %s", user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := h.Sessions.Revoke(r.Context(), cookie.Value); err != nil {
			log.Printf("logout revoke failed: %v", err)
		}
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	value, session, err := h.Sessions.Issue(r.Context(), models.SessionUser{
		ID:           user.ID,
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
	})
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(w, value, int(session.ExpiresAt.Sub(session.IssuedAt).Seconds()))
	return nil
}
