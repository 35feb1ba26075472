package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
	"github.com/avtokontrol/avtokontrol/internal/service"
)

var testKey = []byte("test-sign-key")

type fakeAuth struct {
	registerID  string
	registerErr error

	tokens   model.Tokens
	profile  model.Profile
	loginErr error

	meErr     error
	updateErr error
}

var _ service.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Register(context.Context, string, string, string) (string, error) {
	return f.registerID, f.registerErr
}
func (f *fakeAuth) LoginWithIP(context.Context, string, string, string) (model.Tokens, model.Profile, error) {
	return f.tokens, f.profile, f.loginErr
}
func (f *fakeAuth) Me(context.Context, uuid.UUID) (*model.Profile, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	p := f.profile
	return &p, nil
}
func (f *fakeAuth) UpdateProfile(_ context.Context, _ uuid.UUID, p *model.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.profile.Name = p.Name
	f.profile.Username = p.Username
	f.profile.AvatarURL = p.AvatarURL
	return nil
}

type fakeVehicleSvc struct {
	vehicles []model.Vehicle
	getErr   error

	lastStatus model.VehicleStatus
	statusErr  error
}

var _ service.VehicleService = (*fakeVehicleSvc)(nil)

func (f *fakeVehicleSvc) List(context.Context, uuid.UUID) ([]model.Vehicle, error) {
	return f.vehicles, nil
}
func (f *fakeVehicleSvc) Get(_ context.Context, _, id uuid.UUID) (*model.Vehicle, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, v := range f.vehicles {
		if v.ID == id {
			c := v
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}
func (f *fakeVehicleSvc) Create(_ context.Context, ownerID uuid.UUID, v *model.Vehicle) (*model.Vehicle, error) {
	v.ID = uuid.Must(uuid.NewV4())
	v.OwnerID = ownerID
	if v.Status == "" {
		v.Status = model.StatusParked
	}
	f.vehicles = append(f.vehicles, *v)
	return v, nil
}
func (f *fakeVehicleSvc) Update(context.Context, uuid.UUID, *model.Vehicle) error { return nil }
func (f *fakeVehicleSvc) SetStatus(_ context.Context, _, _ uuid.UUID, status model.VehicleStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.lastStatus = status
	return nil
}
func (f *fakeVehicleSvc) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type fakeTripSvc struct {
	trips   []model.Trip
	listErr error
}

var _ service.TripService = (*fakeTripSvc)(nil)

func (f *fakeTripSvc) ListForVehicle(context.Context, uuid.UUID, uuid.UUID) ([]model.Trip, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.trips, nil
}
func (f *fakeTripSvc) Add(_ context.Context, _ uuid.UUID, t *model.Trip) (*model.Trip, error) {
	t.ID = uuid.Must(uuid.NewV4())
	f.trips = append(f.trips, *t)
	return t, nil
}

type fakeSettingsSvc struct {
	theme, language string
}

var _ service.SettingsService = (*fakeSettingsSvc)(nil)

func (f *fakeSettingsSvc) Get(_ context.Context, userID uuid.UUID) (*model.UserSettings, error) {
	return &model.UserSettings{UserID: userID, Theme: f.theme, Language: f.language}, nil
}
func (f *fakeSettingsSvc) Update(_ context.Context, userID uuid.UUID, theme, language string) (*model.UserSettings, error) {
	f.theme, f.language = theme, language
	return &model.UserSettings{UserID: userID, Theme: theme, Language: language}, nil
}

type testEnv struct {
	srv      *httptest.Server
	auth     *fakeAuth
	vehicles *fakeVehicleSvc
	trips    *fakeTripSvc
	settings *fakeSettingsSvc
	userID   uuid.UUID
	token    string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	userID := uuid.Must(uuid.NewV4())
	env := &testEnv{
		auth:     &fakeAuth{profile: model.Profile{ID: userID, Email: "ivan@example.com", Username: "ivan"}},
		vehicles: &fakeVehicleSvc{},
		trips:    &fakeTripSvc{},
		settings: &fakeSettingsSvc{theme: "system", language: "ru"},
		userID:   userID,
		token:    signToken(t, userID, time.Now().Add(time.Hour)),
	}
	s := New(env.auth, env.vehicles, env.trips, env.settings, testKey)
	env.srv = httptest.NewServer(s.Router(zap.NewNop()))
	t.Cleanup(env.srv.Close)
	return env
}

func signToken(t *testing.T, userID uuid.UUID, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)
	return signed
}

// call runs one JSON request and decodes the body into out when non-nil.
func (e *testEnv) call(t *testing.T, method, path, token string, in, out any) int {
	t.Helper()
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_Healthz(t *testing.T) {
	env := newEnv(t)
	code := env.call(t, http.MethodGet, "/healthz", "", nil, nil)
	require.Equal(t, http.StatusOK, code)
}

func TestServer_Register(t *testing.T) {
	env := newEnv(t)
	env.auth.registerID = env.userID.String()

	var resp registerResponse
	code := env.call(t, http.MethodPost, "/api/v1/auth/register", "",
		registerRequest{Email: "ivan@example.com", Password: "Passw0rd!", Name: "Иван"}, &resp)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, env.userID.String(), resp.UserID)

	env.auth.registerErr = errs.ErrAlreadyExists
	code = env.call(t, http.MethodPost, "/api/v1/auth/register", "",
		registerRequest{Email: "ivan@example.com", Password: "Passw0rd!"}, nil)
	require.Equal(t, http.StatusConflict, code)
}

func TestServer_Login_ErrorMapping(t *testing.T) {
	env := newEnv(t)
	env.auth.tokens = model.Tokens{AccessToken: env.token, ExpiresAt: time.Now().Add(time.Hour)}

	var resp loginResponse
	code := env.call(t, http.MethodPost, "/api/v1/auth/login", "",
		loginRequest{Email: "ivan@example.com", Password: "Passw0rd!"}, &resp)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, env.token, resp.AccessToken)
	require.Equal(t, "ivan", resp.Profile.Username)

	env.auth.loginErr = errs.ErrUnauthorized
	code = env.call(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{}, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	env.auth.loginErr = errs.ErrRateLimited
	code = env.call(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{}, nil)
	require.Equal(t, http.StatusTooManyRequests, code)
}

func TestServer_RequireAuth(t *testing.T) {
	env := newEnv(t)

	// no token
	code := env.call(t, http.MethodGet, "/api/v1/auth/session", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	// garbage token
	code = env.call(t, http.MethodGet, "/api/v1/auth/session", "not-a-jwt", nil, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	// expired token
	expired := signToken(t, env.userID, time.Now().Add(-time.Hour))
	code = env.call(t, http.MethodGet, "/api/v1/auth/session", expired, nil, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	// valid token restores the session profile
	var prof profileDTO
	code = env.call(t, http.MethodGet, "/api/v1/auth/session", env.token, nil, &prof)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, env.userID.String(), prof.ID)
}

func TestServer_Vehicles_CRUD(t *testing.T) {
	env := newEnv(t)

	// empty list
	var list []vehicleDTO
	code := env.call(t, http.MethodGet, "/api/v1/vehicles", env.token, nil, &list)
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, list)

	// create
	var created vehicleDTO
	code = env.call(t, http.MethodPost, "/api/v1/vehicles", env.token,
		vehicleUpsertRequest{Name: "Tesla Model S", Model: "Model S", Year: 2022}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, created.ID)
	require.Equal(t, string(model.StatusParked), created.Status)

	// get
	var got vehicleDTO
	code = env.call(t, http.MethodGet, "/api/v1/vehicles/"+created.ID, env.token, nil, &got)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, created.ID, got.ID)

	// unknown id
	code = env.call(t, http.MethodGet, "/api/v1/vehicles/"+uuid.Must(uuid.NewV4()).String(), env.token, nil, nil)
	require.Equal(t, http.StatusNotFound, code)

	// malformed id
	code = env.call(t, http.MethodGet, "/api/v1/vehicles/abc", env.token, nil, nil)
	require.Equal(t, http.StatusBadRequest, code)

	// status write-back
	code = env.call(t, http.MethodPut, "/api/v1/vehicles/"+created.ID+"/status", env.token,
		statusRequest{Status: string(model.StatusLocked)}, nil)
	require.Equal(t, http.StatusNoContent, code)
	require.Equal(t, model.StatusLocked, env.vehicles.lastStatus)

	// delete
	code = env.call(t, http.MethodDelete, "/api/v1/vehicles/"+created.ID, env.token, nil, nil)
	require.Equal(t, http.StatusNoContent, code)
}

func TestServer_Trips(t *testing.T) {
	env := newEnv(t)
	vid := uuid.Must(uuid.NewV4())
	start := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	var created tripDTO
	code := env.call(t, http.MethodPost, "/api/v1/vehicles/"+vid.String()+"/trips", env.token,
		tripCreateRequest{
			StartLocation: "Москва, Тверская 1",
			EndLocation:   "Москва, Арбат 10",
			StartTime:     start,
			EndTime:       start.Add(40 * time.Minute),
			DistanceKM:    12.5,
			DurationMin:   40,
		}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, vid.String(), created.VehicleID)

	var list []tripDTO
	code = env.call(t, http.MethodGet, "/api/v1/vehicles/"+vid.String()+"/trips", env.token, nil, &list)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, list, 1)

	// foreign vehicle surfaces as not found
	env.trips.listErr = errs.ErrNotFound
	code = env.call(t, http.MethodGet, "/api/v1/vehicles/"+vid.String()+"/trips", env.token, nil, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestServer_Settings(t *testing.T) {
	env := newEnv(t)

	var got settingsDTO
	code := env.call(t, http.MethodGet, "/api/v1/settings", env.token, nil, &got)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, settingsDTO{Theme: "system", Language: "ru"}, got)

	code = env.call(t, http.MethodPut, "/api/v1/settings", env.token,
		settingsDTO{Theme: "dark", Language: "en"}, &got)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, settingsDTO{Theme: "dark", Language: "en"}, got)
}

func TestServer_Profile_Update(t *testing.T) {
	env := newEnv(t)

	var prof profileDTO
	code := env.call(t, http.MethodPut, "/api/v1/profile", env.token,
		profileUpdateRequest{Name: "Иван П.", Username: "ivan_p"}, &prof)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ivan_p", prof.Username)

	env.auth.updateErr = errs.ErrValidation
	code = env.call(t, http.MethodPut, "/api/v1/profile", env.token,
		profileUpdateRequest{}, nil)
	require.Equal(t, http.StatusBadRequest, code)
}
