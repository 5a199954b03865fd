package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/miguelherrera-611/vetclinic/internal/client/models"
	"github.com/miguelherrera-611/vetclinic/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(p *models.UserProfile) *fakeAuth {
	return &fakeAuth{state: services.State{Status: services.StatusAuthenticated, Profile: p}}
}

func TestWhoami(t *testing.T) {
	f := signedIn(&models.UserProfile{
		ID:        "7",
		Username:  "ana",
		Email:     "ana@x.com",
		FirstName: "Ana",
		LastName:  "Ruiz",
		Roles:     models.Roles{"admin"},
	})
	a, out := newTestApp(f)

	require.NoError(t, a.Whoami(context.Background()))

	s := out.String()
	assert.Contains(t, s, "username:    ana")
	assert.Contains(t, s, "name:        Ana Ruiz")
	assert.Contains(t, s, "role:        admin")
	assert.Contains(t, s, "access:      administration")
}

func TestWhoami_AccessLine(t *testing.T) {
	tests := []struct {
		roles models.Roles
		want  string
	}{
		{models.Roles{"veterinario"}, "access:      clinical\n"},
		{models.Roles{"Administrator", "vet"}, "access:      administration, clinical\n"},
		{models.Roles{"cliente"}, "access:      client\n"},
	}
	for _, tt := range tests {
		a, out := newTestApp(signedIn(&models.UserProfile{Username: "u", Roles: tt.roles}))
		require.NoError(t, a.Whoami(context.Background()))
		assert.Contains(t, out.String(), tt.want)
	}

	a, out := newTestApp(signedIn(&models.UserProfile{Username: "u", Roles: models.Roles{"recepcion"}}))
	require.NoError(t, a.Whoami(context.Background()))
	assert.NotContains(t, out.String(), "access:")
}

func TestWhoami_SignedOut(t *testing.T) {
	a, out := newTestApp(&fakeAuth{})
	require.NoError(t, a.Whoami(context.Background()))
	assert.Equal(t, "not signed in\n", out.String())
}

func TestProfile_ErrorIsReturned(t *testing.T) {
	f := signedIn(&models.UserProfile{Username: "ana"})
	f.fetchErr = errors.New("server error")
	a, out := newTestApp(f)

	require.Error(t, a.Profile(context.Background()))
	assert.Empty(t, out.String())
}

func TestEdit_OnlyChangedFieldsAreSent(t *testing.T) {
	f := signedIn(&models.UserProfile{Username: "ana"})
	f.saveRet = &models.UserProfile{Username: "ana", Phone: "5550000"}
	a, out := newTestApp(f)
	stubText(t, "", "", "", "", "5550000")

	require.NoError(t, a.Edit(context.Background()))

	require.NotNil(t, f.savedPatch.Phone)
	assert.Equal(t, "5550000", *f.savedPatch.Phone)
	assert.Nil(t, f.savedPatch.Email)
	assert.Nil(t, f.savedPatch.FirstName)
	assert.Contains(t, out.String(), "username:    ana")
}

func TestEdit_NothingToChange(t *testing.T) {
	f := signedIn(&models.UserProfile{Username: "ana"})
	a, out := newTestApp(f)
	stubText(t, "", "", "", "", "")

	require.NoError(t, a.Edit(context.Background()))
	assert.True(t, f.savedPatch.IsEmpty())
	assert.Contains(t, out.String(), "nothing to change")
}

func TestCan(t *testing.T) {
	f := signedIn(&models.UserProfile{
		Username:    "vet",
		Roles:       models.Roles{"veterinario"},
		Permissions: []string{"records:write"},
	})
	a, out := newTestApp(f)

	require.NoError(t, a.Can(context.Background(), "VETERINARIO"))
	require.NoError(t, a.Can(context.Background(), "records:write"))
	require.NoError(t, a.Can(context.Background(), "admin"))

	assert.Equal(t, "VETERINARIO: yes\nrecords:write: yes\nadmin: no\n", out.String())
}

func TestScreens(t *testing.T) {
	f := signedIn(&models.UserProfile{Username: "vet", Roles: models.Roles{"veterinario"}})
	a, out := newTestApp(f)

	require.NoError(t, a.Screens(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, []string{"veterinarians", "denied"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"availability", "allow"}, strings.Fields(lines[4]))
}

func TestScreens_SignedOut(t *testing.T) {
	a, out := newTestApp(&fakeAuth{state: services.State{Status: services.StatusUnauthenticated}})

	require.NoError(t, a.Screens(context.Background()))
	for _, l := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		assert.Equal(t, "login", strings.Fields(l)[1])
	}
}
