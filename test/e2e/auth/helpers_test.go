package auth_test

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"testing"
	"time"

	"github.com/NallyTHEdude/TMS-Server/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for auth service end-to-end tests.
 * This includes container setup, account helpers, and reading emailed
 * tokens back out of the log mail driver.
 */

const (
	testImageName = "tms-auth-test:latest"

	testPassword   = "hunter22"
	resetPageURL   = "http://frontend.test/reset-password"
	accessSecret   = "e2e-access-secret-e2e-access-secret-0001"
	refreshSecret  = "e2e-refresh-secret-e2e-refresh-secret-0001"
	containerPort  = "8080/tcp"
	startupTimeout = 90 * time.Second
)

var (
	verifyLinkRe = regexp.MustCompile(`/api/v1/auth/verify-email/([A-Za-z0-9_-]+)`)
	resetLinkRe  = regexp.MustCompile(regexp.QuoteMeta(resetPageURL) + `/([A-Za-z0-9_-]+)`)
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards. The whole suite is skipped with -short.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "skipping e2e tests in short mode")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building Auth Service Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// authEnv is one running service container.
type authEnv struct {
	BaseURL   string
	Client    *authsdk.SDKClient
	container testcontainers.Container
}

// setupAuthContainer starts the auth service with the sqlite store and the
// log mail driver, and terminates it when the test ends.
func setupAuthContainer(t *testing.T) *authEnv {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{containerPort},
		Env: map[string]string{
			"AUTH_DATABASE_FILE":          "/auth.db",
			"AUTH_PEPPER_FILE":            "/pepper",
			"AUTH_ISSUER":                 "tms-auth",
			"AUTH_ACCESS_TOKEN_SECRET":    accessSecret,
			"AUTH_REFRESH_TOKEN_SECRET":   refreshSecret,
			"RESET_PASSWORD_REDIRECT_URL": resetPageURL,
			"COOKIE_SECURE":               "false",
			"MAIL_DRIVER":                 "log",
			"ENV":                         "test",
			"LOG_LEVEL":                   "info",
			"LOG_FORMAT":                  "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort(containerPort).
			WithStartupTimeout(startupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	return &authEnv{
		BaseURL:   baseURL,
		Client:    authsdk.NewSDKClient(baseURL),
		container: container,
	}
}

// mailedTokens waits until at least n links matching re show up in the
// container log and returns the token of every match, oldest first.
func (e *authEnv) mailedTokens(t *testing.T, re *regexp.Regexp, n int) []string {
	t.Helper()

	var tokens []string
	require.Eventually(t, func() bool {
		logs, err := e.container.Logs(context.Background())
		if err != nil {
			return false
		}
		defer logs.Close()

		raw, err := io.ReadAll(logs)
		if err != nil {
			return false
		}
		tokens = tokens[:0]
		for _, m := range re.FindAllSubmatch(raw, -1) {
			tokens = append(tokens, string(m[1]))
		}
		return len(tokens) >= n
	}, 10*time.Second, 200*time.Millisecond, "expected %d mailed links matching %s", n, re)

	return tokens
}

// lastMailedToken returns the newest token mailed with a link matching re.
func (e *authEnv) lastMailedToken(t *testing.T, re *regexp.Regexp) string {
	t.Helper()
	tokens := e.mailedTokens(t, re, 1)
	return tokens[len(tokens)-1]
}

// registerUser creates an account and returns it.
func registerUser(t *testing.T, env *authEnv, email, username, role string) *authsdk.User {
	t.Helper()

	user, err := env.Client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    email,
		Username: username,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)
	require.Equal(t, email, user.Email)
	require.False(t, user.IsEmailVerified)
	return user
}

func login(t *testing.T, env *authEnv, email, password string) *authsdk.Session {
	t.Helper()

	session, err := env.Client.Login(t.Context(), email, password)
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken())
	require.NotEmpty(t, session.RefreshToken())
	return session
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, authsdk.StatusCode(err), err.Error())
}
