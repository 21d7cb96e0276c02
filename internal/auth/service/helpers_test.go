package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store/drivers/sqlite"
	"github.com/NallyTHEdude/TMS-Server/pkg/cryptox"
	"github.com/NallyTHEdude/TMS-Server/pkg/jwtx"
	"github.com/NallyTHEdude/TMS-Server/pkg/mailer"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer        = "tms-test"
	testAccessSecret  = "access-secret-access-secret-0123456789"
	testRefreshSecret = "refresh-secret-refresh-secret-0123456789"
)

type recordingMailer struct {
	mu   sync.Mutex
	msgs []mailer.Message
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *recordingMailer) count(kind mailer.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.msgs {
		if msg.Kind == kind {
			n++
		}
	}
	return n
}

// lastToken pulls the token out of the link in the newest message of kind.
func (m *recordingMailer) lastToken(t *testing.T, kind mailer.Kind) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.msgs) - 1; i >= 0; i-- {
		if m.msgs[i].Kind != kind {
			continue
		}
		for _, field := range strings.Fields(m.msgs[i].Text) {
			if strings.HasPrefix(field, "http") {
				return field[strings.LastIndex(field, "/")+1:]
			}
		}
	}
	t.Fatalf("no %s message with a link", kind)
	return ""
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store    *sqlite.Store
	accounts *service.AccountService
	sessions *service.SessionService
	mail     *recordingMailer
	clock    *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	accessSigner, err := jwtx.NewSignerHS256([]byte(testAccessSecret))
	require.NoError(t, err)
	refreshSigner, err := jwtx.NewSignerHS256([]byte(testRefreshSecret))
	require.NoError(t, err)
	refreshVerifier, err := jwtx.NewVerifierHS256([]byte(testRefreshSecret), jwtx.VerifyOptions{
		Issuer:   testIssuer,
		TokenUse: jwtx.TokenUseRefresh,
	})
	require.NoError(t, err)

	hasher := cryptox.NewPasswordHasher("pepper")
	mail := &recordingMailer{}
	clk := &clock{now: time.Now().UTC()}
	links := service.Links{BaseURL: "http://localhost:8080"}

	return &fixture{
		store: st,
		accounts: &service.AccountService{
			Store:  st,
			Hasher: hasher,
			Tokens: cryptox.NewTemporaryTokenCodec(20 * time.Minute),
			Mailer: mail,
			Links:  links,
			Now:    clk.Now,
		},
		sessions: &service.SessionService{
			Store:  st,
			Hasher: hasher,
			Issuer: &service.TokenIssuer{
				Access:  accessSigner,
				Refresh: refreshSigner,
				Issuer:  testIssuer,
			},
			RefreshVerifier: refreshVerifier,
			Mailer:          mail,
			Links:           links,
		},
		mail:  mail,
		clock: clk,
	}
}

func (f *fixture) register(t *testing.T, email, username, password string) domain.User {
	t.Helper()
	u, err := f.accounts.Register(context.Background(), service.RegisterInput{
		Email:    email,
		Username: username,
		Password: password,
		Role:     "tenant",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) login(t *testing.T, email, password string) service.LoginResult {
	t.Helper()
	res, err := f.sessions.Login(context.Background(), service.LoginInput{Email: email, Password: password})
	require.NoError(t, err)
	return res
}
