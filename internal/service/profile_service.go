package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"rede-backend/internal/domain"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
)

// Storage buckets and the fixed file stems images are uploaded under.
const (
	bucketAvatars = "avatars"
	bucketBanners = "banners"
	stemAvatar    = "avatar"
	stemBanner    = "banner"
)

// ImageUpload is one optional image supplied with the profile form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// SaveInput carries every field the profile form collects.
type SaveInput struct {
	Email         string
	Password      string
	Username      string
	FirstName     string
	LastName      string
	About         string
	PostalCode    string
	StreetAddress string
	City          string
	Region        string
	Photo         *ImageUpload
	CoverPhoto    *ImageUpload
}

// ProfileService runs the profile form's submission pipeline and resolves
// profiles for the viewer.
type ProfileService struct {
	accounts AccountCreator
	storage  Uploader
	profiles ProfileStore
	stash    SuggestedStash
	logger   *logger.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(accounts AccountCreator, storage Uploader, profiles ProfileStore, stash SuggestedStash, log *logger.Logger) *ProfileService {
	return &ProfileService{
		accounts: accounts,
		storage:  storage,
		profiles: profiles,
		stash:    stash,
		logger:   log,
	}
}

// Save runs the submission sequence: identity creation (creation mode),
// image uploads, then the row write, each step feeding the next. The
// session is returned even on failure past step one, because a created
// identity is already signed in and the caller must keep its cookie.
// Uploaded files are not compensated on a later failure.
func (s *ProfileService) Save(ctx context.Context, sess *domain.Session, in SaveInput) (*domain.Session, error) {
	editMode := sess != nil

	if !editMode {
		if in.Email == "" || in.Password == "" || in.Username == "" {
			return nil, errors.NewValidationError("Email, Senha e Nome de Usuário são obrigatórios.", nil)
		}

		created, err := s.accounts.Signup(ctx, in.Email, in.Password)
		if err != nil {
			return nil, err
		}
		sess = created
	}

	userID := sess.Identity.ID

	photoURL, err := s.uploadImage(ctx, sess.AccessToken, bucketAvatars, userID, stemAvatar, in.Photo)
	if err != nil {
		return sess, err
	}
	coverURL, err := s.uploadImage(ctx, sess.AccessToken, bucketBanners, userID, stemBanner, in.CoverPhoto)
	if err != nil {
		return sess, err
	}

	row := map[string]interface{}{
		"username":       in.Username,
		"first_name":     in.FirstName,
		"last_name":      in.LastName,
		"about":          in.About,
		"postal_code":    in.PostalCode,
		"street_address": in.StreetAddress,
		"city":           in.City,
		"region":         in.Region,
	}
	// only URLs that were actually produced are merged in
	if photoURL != "" {
		row["photo_url"] = photoURL
	}
	if coverURL != "" {
		row["cover_photo_url"] = coverURL
	}

	if editMode {
		err = s.profiles.UpdateProfile(ctx, sess.AccessToken, userID, row)
	} else {
		row["id"] = userID
		row["email"] = in.Email
		err = s.profiles.InsertProfile(ctx, sess.AccessToken, row)
	}
	if err != nil {
		return sess, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"edit_mode": editMode,
	}).Info("Profile saved")
	return sess, nil
}

// Own fetches the caller's profile row for edit-mode pre-population.
func (s *ProfileService) Own(ctx context.Context, sess *domain.Session) (*domain.Profile, error) {
	return s.profiles.GetProfile(ctx, sess.AccessToken, sess.Identity.ID)
}

// View resolves a viewer subject: the session's suggested stash first
// (no row-store call on a hit), the row store otherwise. A row-store miss
// surfaces as NotFoundError.
func (s *ProfileService) View(ctx context.Context, sess *domain.Session, userID string) (*domain.DisplayProfile, error) {
	if sess != nil {
		suggested, err := s.stash.SuggestedByID(ctx, sess.ID, userID)
		if err != nil {
			s.logger.WithError(err).Warn("Suggested stash lookup failed")
		} else if suggested != nil {
			display := suggested.Display()
			return &display, nil
		}
	}

	accessToken := ""
	if sess != nil {
		accessToken = sess.AccessToken
	}
	profile, err := s.profiles.GetProfile(ctx, accessToken, userID)
	if err != nil {
		return nil, err
	}

	display := profile.Display()
	return &display, nil
}

// uploadImage stores one optional image under the identity-namespaced
// path with its fixed stem and resolves the public URL. A nil image is a
// no-op yielding no URL.
func (s *ProfileService) uploadImage(ctx context.Context, accessToken, bucket, userID, stem string, img *ImageUpload) (string, error) {
	if img == nil {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(img.Filename))
	path := fmt.Sprintf("%s/%s%s", userID, stem, ext)

	if err := s.storage.Upload(ctx, accessToken, bucket, path, img.ContentType, img.Data, true); err != nil {
		return "", err
	}

	return s.storage.PublicURL(bucket, path), nil
}
