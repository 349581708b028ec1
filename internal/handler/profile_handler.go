package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"rede-backend/internal/domain"
	"rede-backend/internal/middleware"
	"rede-backend/internal/service"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
)

// maxUploadBytes bounds the multipart form, matching the 10MB limit the
// form advertises per image.
const maxUploadBytes = 10 << 20

// ProfileSaver is the profile-service surface the form handler consumes.
type ProfileSaver interface {
	Save(ctx context.Context, sess *domain.Session, in service.SaveInput) (*domain.Session, error)
	Own(ctx context.Context, sess *domain.Session) (*domain.Profile, error)
}

// ProfileHandler renders and processes the profile form.
type ProfileHandler struct {
	profiles      ProfileSaver
	renderer      *Renderer
	logger        *logger.Logger
	cookieTTL     time.Duration
	secureCookies bool
}

// NewProfileHandler creates a new profile form handler.
func NewProfileHandler(profiles ProfileSaver, renderer *Renderer, cookieTTL time.Duration, secureCookies bool, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:      profiles,
		renderer:      renderer,
		logger:        log,
		cookieTTL:     cookieTTL,
		secureCookies: secureCookies,
	}
}

// formValues mirrors the text fields of the profile form, used to
// re-populate it after a failed submission.
type formValues struct {
	Username      string
	About         string
	FirstName     string
	LastName      string
	Email         string
	PostalCode    string
	StreetAddress string
	City          string
	Region        string
}

// cadastroPage is the profile form view model.
type cadastroPage struct {
	basePage
	EditMode      bool
	Form          formValues
	PhotoURL      string
	CoverPhotoURL string
}

// Show handles GET /cadastro. With a session the form pre-populates from
// the caller's own row; without one it renders blank in creation mode.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	page := cadastroPage{
		basePage: basePage{Title: "Cadastro", Session: sess},
		EditMode: sess != nil,
	}

	if sess != nil {
		profile, err := h.profiles.Own(r.Context(), sess)
		if err != nil {
			h.logger.WithError(err).WithField("user_id", sess.Identity.ID).Warn("Failed to load own profile for editing")
			page.ErrorMessage = errors.AsAppError(err).Message
		} else {
			page.Form = formValues{
				Username:      profile.Username,
				About:         profile.About,
				FirstName:     profile.FirstName,
				LastName:      profile.LastName,
				PostalCode:    profile.PostalCode,
				StreetAddress: profile.StreetAddress,
				City:          profile.City,
				Region:        profile.Region,
			}
			page.PhotoURL = profile.PhotoURL
			page.CoverPhotoURL = profile.CoverPhotoURL
		}
	}

	h.renderer.Render(w, http.StatusOK, "cadastro", page)
}

// Submit handles POST /cadastro. Without a session the submission creates
// the account first; a session created mid-pipeline keeps its cookie even
// when a later step fails, because the identity is already signed in.
func (h *ProfileHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.WithError(err).Warn("Profile form parse failed")
		h.renderSubmitError(w, sess, formValues{}, errors.NewValidationError("Formulário inválido.", nil))
		return
	}

	form := formValues{
		Username:      r.PostFormValue("username"),
		About:         r.PostFormValue("about"),
		FirstName:     r.PostFormValue("first_name"),
		LastName:      r.PostFormValue("last_name"),
		Email:         r.PostFormValue("email"),
		PostalCode:    r.PostFormValue("postal_code"),
		StreetAddress: r.PostFormValue("street_address"),
		City:          r.PostFormValue("city"),
		Region:        r.PostFormValue("region"),
	}

	photo, err := formImage(r, "photo")
	if err != nil {
		h.renderSubmitError(w, sess, form, errors.NewValidationError("Arquivo de foto inválido.", nil))
		return
	}
	coverPhoto, err := formImage(r, "cover_photo")
	if err != nil {
		h.renderSubmitError(w, sess, form, errors.NewValidationError("Arquivo de capa inválido.", nil))
		return
	}

	in := service.SaveInput{
		Email:         form.Email,
		Password:      r.PostFormValue("password"),
		Username:      form.Username,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		About:         form.About,
		PostalCode:    form.PostalCode,
		StreetAddress: form.StreetAddress,
		City:          form.City,
		Region:        form.Region,
		Photo:         photo,
		CoverPhoto:    coverPhoto,
	}

	saved, err := h.profiles.Save(r.Context(), sess, in)
	if saved != nil && sess == nil {
		// account creation already happened, keep the new session
		setSessionCookie(w, saved.ID, h.cookieTTL, h.secureCookies)
	}
	if err != nil {
		h.renderSubmitError(w, saved, form, err)
		return
	}

	http.Redirect(w, r, "/lista", http.StatusFound)
}

// renderSubmitError re-renders the form with the typed values intact.
func (h *ProfileHandler) renderSubmitError(w http.ResponseWriter, sess *domain.Session, form formValues, err error) {
	appErr := errors.AsAppError(err)
	h.renderer.Render(w, appErr.StatusCode, "cadastro", cadastroPage{
		basePage: basePage{
			Title:        "Cadastro",
			Session:      sess,
			ErrorMessage: appErr.Message,
		},
		EditMode: sess != nil,
		Form:     form,
	})
}

// formImage extracts one optional image from the multipart form. A
// missing file is not an error, it is simply no upload.
func formImage(r *http.Request, field string) (*service.ImageUpload, error) {
	file, header, err := r.FormFile(field)
	if stderrors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}, nil
}
