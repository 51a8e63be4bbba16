package common

import (
	"amiigo/internal/models"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func issuesOf(t *testing.T, err error) []ValidationIssue {
	t.Helper()

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Code)

	issues, ok := he.Message.([]ValidationIssue)
	require.True(t, ok)
	return issues
}

func TestValidatorUserCreate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.UserCreate{Email: "a@example.com", Password: "short"}))

	issues := issuesOf(t, v.Validate(&models.UserCreate{Email: "not-an-email"}))
	require.Len(t, issues, 2)
	assert.Equal(t, []string{"body", "email"}, issues[0].Loc)
	assert.Equal(t, "email", issues[0].Type)
	assert.Equal(t, []string{"body", "password"}, issues[1].Loc)
	assert.Equal(t, "missing", issues[1].Type)
	assert.Equal(t, "Field required", issues[1].Msg)
}

func TestValidatorPasswordLimitIsInBytes(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.UserCreate{Email: "a@example.com", Password: strings.Repeat("é", 36)}))

	issues := issuesOf(t, v.Validate(&models.UserCreate{Email: "a@example.com", Password: strings.Repeat("é", 40)}))
	require.Len(t, issues, 1)
	assert.Equal(t, []string{"body", "password"}, issues[0].Loc)
	assert.Equal(t, "maxbytes", issues[0].Type)
	assert.Equal(t, "should be at most 72 bytes long", issues[0].Msg)

	issues = issuesOf(t, v.Validate(&models.UserUpdate{Password: strPtr(strings.Repeat("é", 40))}))
	require.Len(t, issues, 1)
	assert.Equal(t, []string{"body", "password"}, issues[0].Loc)
}

func TestValidatorUserUpdateSkipsNil(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.UserUpdate{}))

	issues := issuesOf(t, v.Validate(&models.UserUpdate{Email: strPtr("")}))
	require.Len(t, issues, 1)
	assert.Equal(t, []string{"body", "email"}, issues[0].Loc)
}

func TestValidatorProfileUpdate(t *testing.T) {
	v := NewValidator()
	v.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		update  models.ProfileUpdate
		field   string
		wantErr bool
	}{
		{name: "minimal", update: models.ProfileUpdate{DisplayName: "Sam"}},
		{name: "full", update: models.ProfileUpdate{
			DisplayName: "Sam", Bio: "hello", BirthDate: strPtr("1990-04-12"),
			Gender: "non_binary", InterestedIn: "everyone", City: "Porto",
		}},
		{name: "birth date today", update: models.ProfileUpdate{DisplayName: "Sam", BirthDate: strPtr("2026-05-01")}},
		{name: "local today east of UTC", update: models.ProfileUpdate{DisplayName: "Sam", BirthDate: strPtr("2026-05-02")}},
		{name: "missing display name", update: models.ProfileUpdate{}, field: "display_name", wantErr: true},
		{name: "future birth date", update: models.ProfileUpdate{DisplayName: "Sam", BirthDate: strPtr("2026-05-03")}, field: "birth_date", wantErr: true},
		{name: "malformed birth date", update: models.ProfileUpdate{DisplayName: "Sam", BirthDate: strPtr("12/04/1990")}, field: "birth_date", wantErr: true},
		{name: "unknown gender", update: models.ProfileUpdate{DisplayName: "Sam", Gender: "robot"}, field: "gender", wantErr: true},
		{name: "everyone is not a gender", update: models.ProfileUpdate{DisplayName: "Sam", Gender: "everyone"}, field: "gender", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.update)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			issues := issuesOf(t, err)
			require.Len(t, issues, 1)
			assert.Equal(t, []string{"body", tt.field}, issues[0].Loc)
		})
	}
}

func TestValidatorTokenRequestUsesFormNames(t *testing.T) {
	issues := issuesOf(t, NewValidator().Validate(&models.TokenRequest{}))
	require.Len(t, issues, 2)
	assert.Equal(t, []string{"body", "username"}, issues[0].Loc)
	assert.Equal(t, []string{"body", "password"}, issues[1].Loc)
}
