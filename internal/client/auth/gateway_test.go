package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/homequote/homequote/internal/client/api"
	"github.com/homequote/homequote/internal/client/models"
	"github.com/homequote/homequote/internal/client/repositories/credentials"
	"github.com/homequote/homequote/internal/client/session"
	"github.com/homequote/homequote/internal/logging"
)

// ---- fakes ----

// recordingRepo is an in-memory credentials.Repository that records the
// order of its writes, so ordering properties can be asserted against
// session-store updates.
type recordingRepo struct {
	data map[string][]byte
	ops  *[]string

	getErr   error
	setErr   error
	clearErr error
}

func newRecordingRepo(ops *[]string) *recordingRepo {
	return &recordingRepo{data: make(map[string][]byte), ops: ops}
}

func (r *recordingRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.data[key], nil
}

func (r *recordingRepo) Set(ctx context.Context, key string, value []byte) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.data[key] = append([]byte(nil), value...)
	*r.ops = append(*r.ops, "set:"+key)
	return nil
}

func (r *recordingRepo) Delete(ctx context.Context, key string) error {
	delete(r.data, key)
	*r.ops = append(*r.ops, "delete:"+key)
	return nil
}

func (r *recordingRepo) Clear(ctx context.Context) error {
	if r.clearErr != nil {
		return r.clearErr
	}
	r.data = make(map[string][]byte)
	*r.ops = append(*r.ops, "clear")
	return nil
}

var _ credentials.Repository = (*recordingRepo)(nil)

// fakeClient implements api.Client for gateway tests.
type fakeClient struct {
	loginSess  *models.Session
	loginToken string
	loginErr   error

	registerSess  *models.Session
	registerToken string
	registerErr   error

	meSess *models.Session
	meErr  error

	logoutErr error

	token string

	lastLoginEmail    string
	lastLoginPassword string
	lastRegister      api.RegisterRequest
	logoutCalls       int
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.Session, string, error) {
	f.lastLoginEmail, f.lastLoginPassword = email, password
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.loginSess, f.loginToken, nil
}

func (f *fakeClient) Register(ctx context.Context, req api.RegisterRequest) (*models.Session, string, error) {
	f.lastRegister = req
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	return f.registerSess, f.registerToken, nil
}

func (f *fakeClient) Me(ctx context.Context) (*models.Session, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.meSess, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeClient) AcceptConsent(ctx context.Context) (*models.Session, error) {
	return f.meSess, f.meErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, req api.ProfileUpdate) (*models.Session, error) {
	return f.meSess, f.meErr
}

func (f *fakeClient) ListQuotes(ctx context.Context) ([]models.Quote, error)        { return nil, nil }
func (f *fakeClient) ListInspections(ctx context.Context) ([]models.Inspection, error) {
	return nil, nil
}
func (f *fakeClient) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	return nil, nil
}
func (f *fakeClient) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	return nil, nil
}
func (f *fakeClient) SendMessage(ctx context.Context, conversationID, text string) (*models.Message, error) {
	return nil, nil
}
func (f *fakeClient) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) { return nil, nil }
func (f *fakeClient) AcceptTimeSlot(ctx context.Context, slotID string) error      { return nil }
func (f *fakeClient) RegisterDevice(ctx context.Context, deviceID string) error    { return nil }
func (f *fakeClient) SetToken(token string)                                        { f.token = token }
func (f *fakeClient) ClearToken()                                                  { f.token = "" }

var _ api.Client = (*fakeClient)(nil)

// ---- helpers ----

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func newGateway(fc *fakeClient, ops *[]string) (*Gateway, *recordingRepo, *session.Store) {
	repo := newRecordingRepo(ops)
	store := session.NewStore()
	return NewGateway(fc, repo, store, testLogger()), repo, store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// ---- tests ----

func TestLogin_Success_EndToEnd(t *testing.T) {
	fc := &fakeClient{
		loginSess:  &models.Session{ID: "u1", Email: "a@b.com", Role: models.RoleCustomer},
		loginToken: "tok123",
	}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)

	sess, err := gw.Login(context.Background(), "a@b.com", "x", true)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", sess.Email)

	require.Equal(t, []byte("tok123"), repo.data[credentials.KeyToken])
	require.Equal(t, []byte("1"), repo.data[credentials.KeyStayLoggedIn])
	require.True(t, store.IsAuthenticated())
	require.Equal(t, "a@b.com", store.Current().Email)
	require.Equal(t, "tok123", fc.token)
}

func TestLogin_PersistsCredentialBeforeStoreUpdate(t *testing.T) {
	fc := &fakeClient{
		loginSess:  &models.Session{ID: "u1", Email: "a@b.com"},
		loginToken: "tok123",
	}
	var ops []string
	gw, _, store := newGateway(fc, &ops)

	store.Subscribe(func() {
		if store.Current() != nil {
			ops = append(ops, "store:session")
		}
	})

	_, err := gw.Login(context.Background(), "a@b.com", "x", true)
	require.NoError(t, err)

	require.Equal(t, []string{
		"set:" + credentials.KeyToken,
		"set:" + credentials.KeyUser,
		"set:" + credentials.KeyStayLoggedIn,
		"store:session",
	}, ops)
}

func TestLogin_BadCredentials_NoTokenWritten(t *testing.T) {
	fc := &fakeClient{loginErr: &api.AuthRejectedError{Detail: "Invalid email or password"}}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)

	_, err := gw.Login(context.Background(), "a@b.com", "wrong", true)
	require.ErrorIs(t, err, api.ErrAuthRejected)
	require.EqualError(t, err, "Invalid email or password")

	require.Empty(t, repo.data)
	require.False(t, store.IsAuthenticated())
	require.False(t, store.IsLoading())
}

func TestLogin_NetworkError_Propagates(t *testing.T) {
	fc := &fakeClient{loginErr: api.ErrNetwork}
	var ops []string
	gw, _, store := newGateway(fc, &ops)

	_, err := gw.Login(context.Background(), "a@b.com", "x", false)
	require.ErrorIs(t, err, api.ErrNetwork)
	require.False(t, store.IsLoading())
}

func TestRegister_MalformedInput_FailsBeforeNetwork(t *testing.T) {
	fc := &fakeClient{registerErr: errors.New("server should not be reached")}
	var ops []string
	gw, _, _ := newGateway(fc, &ops)

	_, err := gw.Register(context.Background(), api.RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
	}, false)

	require.ErrorIs(t, err, api.ErrValidation)
	var ve *api.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Fields, "Email")
	require.Contains(t, ve.Fields, "Password")
	require.Empty(t, fc.lastRegister.Email, "no request should have been sent")
}

func TestRegister_Success_BehavesLikeLogin(t *testing.T) {
	fc := &fakeClient{
		registerSess:  &models.Session{ID: "u2", Email: "new@b.com"},
		registerToken: "tok456",
	}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)

	sess, err := gw.Register(context.Background(), api.RegisterRequest{
		Email:     "new@b.com",
		Password:  "password1",
		FirstName: "New",
		LastName:  "User",
	}, true)
	require.NoError(t, err)
	require.Equal(t, "u2", sess.ID)
	require.Equal(t, []byte("tok456"), repo.data[credentials.KeyToken])
	require.True(t, store.IsAuthenticated())
}

func TestRegister_ServerConflict_Propagates(t *testing.T) {
	fc := &fakeClient{registerErr: &api.ValidationError{Detail: "email already registered"}}
	var ops []string
	gw, _, _ := newGateway(fc, &ops)

	_, err := gw.Register(context.Background(), api.RegisterRequest{
		Email:     "dup@b.com",
		Password:  "password1",
		FirstName: "A",
		LastName:  "B",
	}, false)
	require.ErrorIs(t, err, api.ErrValidation)
	require.EqualError(t, err, "email already registered")
}

func TestRestore_NoPersistedToken_ResolvesLoggedOut(t *testing.T) {
	fc := &fakeClient{meErr: errors.New("should not be called")}
	var ops []string
	gw, _, store := newGateway(fc, &ops)

	gw.Restore(context.Background())

	require.False(t, store.IsAuthenticated())
	require.False(t, store.IsLoading())
}

func TestRestore_RejectedToken_WipesStorage(t *testing.T) {
	fc := &fakeClient{meErr: api.ErrSessionExpired}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)
	repo.data[credentials.KeyToken] = []byte("stale")
	repo.data[credentials.KeyStayLoggedIn] = []byte("1")

	gw.Restore(context.Background())

	require.False(t, store.IsAuthenticated())
	require.Empty(t, repo.data, "stale token must not survive a rejected restore")
	require.Empty(t, fc.token)
}

func TestRestore_ValidToken_SetsSession(t *testing.T) {
	fc := &fakeClient{meSess: &models.Session{ID: "u1", Email: "a@b.com"}}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)
	repo.data[credentials.KeyToken] = []byte("tok123")
	repo.data[credentials.KeyStayLoggedIn] = []byte("1")

	gw.Restore(context.Background())

	require.True(t, store.IsAuthenticated())
	require.Equal(t, "a@b.com", store.Current().Email)
	require.Equal(t, "tok123", fc.token)
	// cached user record refreshed
	require.Contains(t, string(repo.data[credentials.KeyUser]), "a@b.com")
}

func TestRestore_ExpiredJWT_SkipsNetworkCall(t *testing.T) {
	fc := &fakeClient{meErr: errors.New("should not be called")}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)
	repo.data[credentials.KeyToken] = []byte(signedToken(t, time.Now().Add(-time.Hour)))
	repo.data[credentials.KeyStayLoggedIn] = []byte("1")

	gw.Restore(context.Background())

	require.False(t, store.IsAuthenticated())
	require.Empty(t, repo.data)
}

func TestRestore_ValidJWT_ProceedsToMe(t *testing.T) {
	fc := &fakeClient{meSess: &models.Session{ID: "u1"}}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)
	repo.data[credentials.KeyToken] = []byte(signedToken(t, time.Now().Add(time.Hour)))
	repo.data[credentials.KeyStayLoggedIn] = []byte("1")

	gw.Restore(context.Background())

	require.True(t, store.IsAuthenticated())
}

func TestRestore_NetworkError_KeepsCredentialResolvesLoggedOut(t *testing.T) {
	fc := &fakeClient{meErr: api.ErrNetwork}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)
	repo.data[credentials.KeyToken] = []byte("tok123")
	repo.data[credentials.KeyStayLoggedIn] = []byte("1")

	gw.Restore(context.Background())

	require.False(t, store.IsAuthenticated())
	require.False(t, store.IsLoading())
	// credential survives for the next start
	require.Equal(t, []byte("tok123"), repo.data[credentials.KeyToken])
}

func TestRestore_StayLoggedInDisabled_Wipes(t *testing.T) {
	fc := &fakeClient{meSess: &models.Session{ID: "u1"}}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)
	repo.data[credentials.KeyToken] = []byte("tok123")
	repo.data[credentials.KeyStayLoggedIn] = []byte("0")

	gw.Restore(context.Background())

	require.False(t, store.IsAuthenticated())
	require.Empty(t, repo.data)
}

func TestLogout_ClearsStateEvenWhenServerCallFails(t *testing.T) {
	fc := &fakeClient{
		loginSess:  &models.Session{ID: "u1", Email: "a@b.com"},
		loginToken: "tok123",
		logoutErr:  errors.New("server down"),
	}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)

	_, err := gw.Login(context.Background(), "a@b.com", "x", true)
	require.NoError(t, err)

	gw.Logout(context.Background())

	require.Equal(t, 1, fc.logoutCalls)
	require.Empty(t, repo.data)
	require.False(t, store.IsAuthenticated())
	require.Empty(t, fc.token)
}

func TestHandleSessionExpired_WipesAndClears(t *testing.T) {
	fc := &fakeClient{
		loginSess:  &models.Session{ID: "u1"},
		loginToken: "tok123",
	}
	var ops []string
	gw, repo, store := newGateway(fc, &ops)

	_, err := gw.Login(context.Background(), "a@b.com", "x", true)
	require.NoError(t, err)

	gw.HandleSessionExpired(context.Background())

	require.Empty(t, repo.data)
	require.False(t, store.IsAuthenticated())
	require.Equal(t, 0, fc.logoutCalls, "expiry teardown must not call the logout endpoint")
}

func TestCurrentToken(t *testing.T) {
	fc := &fakeClient{}
	var ops []string
	gw, repo, _ := newGateway(fc, &ops)

	token, err := gw.CurrentToken(context.Background())
	require.NoError(t, err)
	require.Empty(t, token)

	repo.data[credentials.KeyToken] = []byte("tok123")
	token, err = gw.CurrentToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok123", token)
}

func TestTokenExpired(t *testing.T) {
	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  bool
	}{
		{name: "expired jwt", token: func(t *testing.T) string { return signedToken(t, time.Now().Add(-time.Minute)) }, want: true},
		{name: "valid jwt", token: func(t *testing.T) string { return signedToken(t, time.Now().Add(time.Hour)) }, want: false},
		{name: "opaque token", token: func(t *testing.T) string { return "tok123" }, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tokenExpired(tc.token(t)))
		})
	}
}
