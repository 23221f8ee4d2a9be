package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/domain/progress"
	apperrors "github.com/guided/guided-web/internal/errors"
)

func candidateAuth(token string) domainauth.AuthResponse {
	return domainauth.AuthResponse{
		Token: token,
		User:  domainauth.Identity{ID: "u-1", Email: "ada@example.com", Name: "Ada", Role: domainauth.RoleCandidate},
	}
}

func TestSignInAPIReturnsNextDestination(t *testing.T) {
	f := newRouterFixture(t)
	creds := domainauth.Credentials{Email: "ada@example.com", Password: "secret1"}
	f.backend.EXPECT().Login(gomock.Any(), creds).Return(candidateAuth("tok-1"), nil)
	f.backend.EXPECT().CandidateStatus(gomock.Any(), "tok-1").
		Return(progress.Flags{HasOnboarded: true}, nil)

	rec := f.do(apiRequest(http.MethodPost, PathSignIn, candidateSID,
		`{"email":"ada@example.com","password":"secret1"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[authResponse](t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "/candidate/roadmap", res.Next)

	tok, err := f.store.LoadToken(context.Background(), candidateSID)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
}

func TestSignInFormRedirects(t *testing.T) {
	f := newRouterFixture(t)
	f.backend.EXPECT().Login(gomock.Any(), gomock.Any()).Return(candidateAuth("tok-1"), nil)
	f.backend.EXPECT().CandidateStatus(gomock.Any(), "tok-1").
		Return(progress.Flags{}, nil)

	form := url.Values{"email": {"ada@example.com"}, "password": {"secret1"}}
	req := newRequest(http.MethodPost, PathSignIn, candidateSID, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", contentForm)
	rec := f.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/candidate/onboarding", rec.Header().Get("Location"))
	assert.Empty(t, rec.Body.String())
}

func TestSignInFailure(t *testing.T) {
	t.Run("rejected credentials go back to the form", func(t *testing.T) {
		f := newRouterFixture(t)
		f.backend.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(domainauth.AuthResponse{}, apperrors.Unauthorized("Invalid email or password"))

		form := url.Values{"email": {"ada@example.com"}, "password": {"nope"}}
		req := newRequest(http.MethodPost, PathSignIn, candidateSID, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", contentForm)
		rec := f.do(req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, PathSignIn, loc.Path)
		assert.NotEmpty(t, loc.Query().Get("error"))
	})

	t.Run("invalid input never reaches the backend", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(apiRequest(http.MethodPost, PathSignIn, candidateSID, `{"email":"not-an-email","password":""}`))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		res := decodeBody[authResponse](t, rec)
		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Error)
	})

	t.Run("unknown json fields are refused", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(apiRequest(http.MethodPost, PathSignIn, candidateSID, `{"email":"a@b.co","password":"x","admin":true}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_json")
	})
}

func TestSignUpMentorGoesToVerification(t *testing.T) {
	f := newRouterFixture(t)
	f.backend.EXPECT().Signup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in domainauth.SignupInput) (domainauth.AuthResponse, error) {
			assert.Equal(t, "https://www.linkedin.com/in/ada", in.LinkedInURL)
			return domainauth.AuthResponse{
				Token: "tok-m",
				User:  domainauth.Identity{ID: "m-1", Role: domainauth.RoleMentor},
			}, nil
		})
	f.backend.EXPECT().VerificationStatus(gomock.Any(), "tok-m").
		Return(progress.VerificationStatus{}, nil)

	req := apiRequest(http.MethodPost, PathSignUp, mentorSID, `{
		"email":"ada@example.com","password":"secret1","name":"Ada",
		"role":"mentor","linkedin_url":"https://www.linkedin.com/in/ada"}`)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[authResponse](t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "/mentor/verification", res.Next)
}

func TestSignInPageRedirectsSignedInUsers(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, adminSID, domainauth.RoleAdmin)

	rec := f.do(newRequest(http.MethodGet, PathSignIn, adminSID, nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestLogoutClearsSession(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, mentorSID, domainauth.RoleMentor)

	rec := f.do(apiRequest(http.MethodGet, PathSession, mentorSID, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	before := decodeBody[sessionResponse](t, rec)
	require.NotNil(t, before.User)
	assert.Equal(t, domainauth.RoleMentor, before.User.Role)

	req := newRequest(http.MethodPost, PathLogout, mentorSID, nil)
	req.Header.Set("Hx-Request", "true")
	rec = f.do(req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, PathSignIn, rec.Header().Get("Hx-Redirect"))

	_, err := f.store.LoadToken(context.Background(), mentorSID)
	require.Error(t, err)

	rec = f.do(apiRequest(http.MethodGet, PathSession, mentorSID, ""))
	after := decodeBody[sessionResponse](t, rec)
	assert.False(t, after.Loading)
	assert.Nil(t, after.User)
}

func TestSessionReportsLoading(t *testing.T) {
	release := make(chan struct{})
	f := newRouterFixture(t, func(s *RouterServices) { s.RestoreWait = time.Millisecond })
	t.Cleanup(func() { close(release) })
	require.NoError(t, f.store.SaveToken(context.Background(), candidateSID, "slow", time.Hour))
	entered := make(chan struct{})
	f.backend.EXPECT().Me(gomock.Any(), "slow").DoAndReturn(
		func(context.Context, string) (domainauth.Identity, error) {
			close(entered)
			<-release
			return domainauth.Identity{}, apperrors.Unauthorized("expired")
		})

	rec := f.do(apiRequest(http.MethodGet, PathSession, candidateSID, ""))
	<-entered

	res := decodeBody[sessionResponse](t, rec)
	assert.True(t, res.Loading)
	assert.Nil(t, res.User)
}
