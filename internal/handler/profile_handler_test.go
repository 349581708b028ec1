package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rede-backend/internal/domain"
	"rede-backend/internal/service"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
)

type fakeSaver struct {
	saved    *domain.Session
	saveErr  error
	own      *domain.Profile
	ownErr   error
	lastIn   service.SaveInput
	lastSess *domain.Session
	saves    int
}

func (f *fakeSaver) Save(_ context.Context, sess *domain.Session, in service.SaveInput) (*domain.Session, error) {
	f.saves++
	f.lastSess = sess
	f.lastIn = in
	return f.saved, f.saveErr
}

func (f *fakeSaver) Own(_ context.Context, _ *domain.Session) (*domain.Profile, error) {
	if f.ownErr != nil {
		return nil, f.ownErr
	}
	return f.own, nil
}

func newProfileHandler(t *testing.T, saver *fakeSaver) *ProfileHandler {
	t.Helper()
	return NewProfileHandler(saver, newTestRenderer(t), time.Hour, false, logger.NewNop())
}

type formFile struct {
	filename    string
	contentType string
	content     string
}

// multipartRequest builds the POST the profile form produces.
func multipartRequest(t *testing.T, fields map[string]string, files map[string]formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for field, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+f.filename+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/cadastro", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestProfileHandler_ShowCreationMode(t *testing.T) {
	h := newProfileHandler(t, &fakeSaver{})

	rec := httptest.NewRecorder()
	h.Show(rec, withSession(httptest.NewRequest(http.MethodGet, "/cadastro", nil), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Criar Perfil")
	assert.Contains(t, body, `name="email"`)
	assert.Contains(t, body, `name="password"`)
}

func TestProfileHandler_ShowEditModePrefills(t *testing.T) {
	saver := &fakeSaver{own: &domain.Profile{
		ID:        "user-1",
		Username:  "ana",
		About:     "Oi, sou a Ana.",
		FirstName: "Ana",
		PhotoURL:  "https://cdn.example.com/avatars/user-1/avatar.png",
	}}
	h := newProfileHandler(t, saver)

	sess := &domain.Session{ID: "sess-1", Identity: domain.Identity{ID: "user-1"}}
	rec := httptest.NewRecorder()
	h.Show(rec, withSession(httptest.NewRequest(http.MethodGet, "/cadastro", nil), sess))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Editar Perfil")
	assert.Contains(t, body, `value="ana"`)
	assert.Contains(t, body, "Oi, sou a Ana.")
	assert.Contains(t, body, "avatars/user-1/avatar.png")
	// identity fields are fixed after creation
	assert.NotContains(t, body, `name="password"`)
}

func TestProfileHandler_SubmitCreatesAccount(t *testing.T) {
	saver := &fakeSaver{
		saved: &domain.Session{ID: "sess-new", Identity: domain.Identity{ID: "user-new"}},
	}
	h := newProfileHandler(t, saver)

	req := multipartRequest(t, map[string]string{
		"email":       "ana@example.com",
		"password":    "segredo",
		"username":    "ana",
		"first_name":  "Ana",
		"last_name":   "Souza",
		"postal_code": "01310-100",
	}, map[string]formFile{
		"photo": {filename: "selfie.PNG", contentType: "image/png", content: "png-bytes"},
	})

	rec := httptest.NewRecorder()
	h.Submit(rec, withSession(req, nil))

	resp := rec.Result()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/lista", resp.Header.Get("Location"))

	cookie := sessionCookie(t, resp)
	require.NotNil(t, cookie)
	assert.Equal(t, "sess-new", cookie.Value)

	assert.Nil(t, saver.lastSess)
	assert.Equal(t, "ana@example.com", saver.lastIn.Email)
	assert.Equal(t, "segredo", saver.lastIn.Password)
	assert.Equal(t, "01310-100", saver.lastIn.PostalCode)
	require.NotNil(t, saver.lastIn.Photo)
	assert.Equal(t, "selfie.PNG", saver.lastIn.Photo.Filename)
	assert.Equal(t, "image/png", saver.lastIn.Photo.ContentType)
	assert.Nil(t, saver.lastIn.CoverPhoto)
}

func TestProfileHandler_SubmitValidationFailureKeepsForm(t *testing.T) {
	saver := &fakeSaver{
		saveErr: errors.NewValidationError("Email, Senha e Nome de Usuário são obrigatórios.", nil),
	}
	h := newProfileHandler(t, saver)

	req := multipartRequest(t, map[string]string{
		"username":   "ana",
		"first_name": "Ana",
	}, nil)

	rec := httptest.NewRecorder()
	h.Submit(rec, withSession(req, nil))

	resp := rec.Result()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, sessionCookie(t, resp))

	body := rec.Body.String()
	assert.Contains(t, body, "Email, Senha e Nome de Usuário são obrigatórios.")
	assert.Contains(t, body, `value="ana"`)
}

func TestProfileHandler_SubmitKeepsSessionWhenUploadFails(t *testing.T) {
	saver := &fakeSaver{
		saved:   &domain.Session{ID: "sess-new", Identity: domain.Identity{ID: "user-new"}},
		saveErr: errors.NewStorageError("Erro ao enviar arquivo.", nil),
	}
	h := newProfileHandler(t, saver)

	req := multipartRequest(t, map[string]string{
		"email":    "ana@example.com",
		"password": "segredo",
		"username": "ana",
	}, map[string]formFile{
		"photo": {filename: "selfie.png", contentType: "image/png", content: "png-bytes"},
	})

	rec := httptest.NewRecorder()
	h.Submit(rec, withSession(req, nil))

	resp := rec.Result()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, rec.Body.String(), "Erro ao enviar arquivo.")

	// the account exists and is signed in; the cookie must survive
	cookie := sessionCookie(t, resp)
	require.NotNil(t, cookie)
	assert.Equal(t, "sess-new", cookie.Value)
}

func TestProfileHandler_SubmitEditMode(t *testing.T) {
	sess := &domain.Session{ID: "sess-1", Identity: domain.Identity{ID: "user-1"}}
	saver := &fakeSaver{saved: sess}
	h := newProfileHandler(t, saver)

	req := multipartRequest(t, map[string]string{
		"username": "ana_nova",
		"about":    "Atualizado.",
	}, nil)

	rec := httptest.NewRecorder()
	h.Submit(rec, withSession(req, sess))

	resp := rec.Result()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/lista", resp.Header.Get("Location"))

	assert.Same(t, sess, saver.lastSess)
	assert.Equal(t, "ana_nova", saver.lastIn.Username)
	// no new session was created, so no cookie is rewritten
	assert.Nil(t, sessionCookie(t, resp))
}
