package googlesheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var (
	// ErrEmptyToken is returned when a token provider yields an empty access token
	ErrEmptyToken = errors.New("token provider returned an empty access token")

	// ErrInvalidServiceAccountKey is returned when key data is not a usable service account key
	ErrInvalidServiceAccountKey = errors.New("invalid service account key")
)

// TokenProvider returns a bearer access token. It is called once per request with
// that request's context; caching and refreshing are the provider's business.
type TokenProvider func(ctx context.Context) (string, error)

// bearerTransport asks its provider for a token on every round trip
type bearerTransport struct {
	provider TokenProvider
	base     http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.provider(req.Context())
	if err == nil && token == "" {
		err = ErrEmptyToken
	}
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	authorized := req.Clone(req.Context())
	authorized.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(authorized)
}

// NewWithTokenProvider creates a new SheetsAdaptor that asks provider for a token on every request.
// Extra options such as option.WithEndpoint are applied after the HTTP client.
func NewWithTokenProvider(ctx context.Context, config Config, provider TokenProvider, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider is required")
	}

	httpClient := &http.Client{
		Transport: &bearerTransport{provider: provider, base: http.DefaultTransport},
	}
	return NewSheetsAdaptor(ctx, config, append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)...)
}

// NewWithStaticToken creates a new SheetsAdaptor sending the same access token on every request
func NewWithStaticToken(ctx context.Context, config Config, token string, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	return NewWithTokenProvider(ctx, config, func(context.Context) (string, error) {
		return token, nil
	}, opts...)
}

// ServiceAccountKey holds the fields of a service account JSON key used to sign token requests
type ServiceAccountKey struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	TokenURI     string `json:"token_uri"`
}

// ParseServiceAccountJSON decodes and checks service account key data
func ParseServiceAccountJSON(data []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidServiceAccountKey, err)
	}
	if key.Type != "service_account" {
		return nil, fmt.Errorf("%w: type is %q, want service_account", ErrInvalidServiceAccountKey, key.Type)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("%w: client_email and private_key are required", ErrInvalidServiceAccountKey)
	}
	return &key, nil
}

// ReadServiceAccountKey loads a service account key file. An empty path falls back
// to GOOGLE_APPLICATION_CREDENTIALS.
func ReadServiceAccountKey(path string) (*ServiceAccountKey, error) {
	if path == "" {
		path = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if path == "" {
			return nil, fmt.Errorf("no JSON key file path provided and GOOGLE_APPLICATION_CREDENTIALS not set")
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON key file: %w", err)
	}
	key, err := ParseServiceAccountJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return key, nil
}

// NewWithServiceAccount creates a new SheetsAdaptor whose tokens are obtained by
// signing a JWT with key. Tokens are reused until they expire.
func NewWithServiceAccount(ctx context.Context, config Config, key *ServiceAccountKey, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	if key == nil || key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("%w: client_email and private_key are required", ErrInvalidServiceAccountKey)
	}

	tokenURL := key.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}
	jwtConfig := &jwt.Config{
		Email:        key.ClientEmail,
		PrivateKey:   []byte(key.PrivateKey),
		PrivateKeyID: key.PrivateKeyID,
		Scopes:       []string{sheets.SpreadsheetsScope},
		TokenURL:     tokenURL,
	}

	httpClient := oauth2.NewClient(ctx, jwtConfig.TokenSource(ctx))
	return NewSheetsAdaptor(ctx, config, append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)...)
}

// NewWithJSONKeyFile creates a new SheetsAdaptor from a service account key file
func NewWithJSONKeyFile(ctx context.Context, config Config, jsonPath string, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	key, err := ReadServiceAccountKey(jsonPath)
	if err != nil {
		return nil, err
	}
	return NewWithServiceAccount(ctx, config, key, opts...)
}

// NewWithJSONKeyData creates a new SheetsAdaptor from service account key data
func NewWithJSONKeyData(ctx context.Context, config Config, jsonData []byte, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	key, err := ParseServiceAccountJSON(jsonData)
	if err != nil {
		return nil, err
	}
	return NewWithServiceAccount(ctx, config, key, opts...)
}

// NewWithServiceAccountKey creates a new SheetsAdaptor using email and private key
func NewWithServiceAccountKey(ctx context.Context, config Config, email string, privateKey string, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	return NewWithServiceAccount(ctx, config, &ServiceAccountKey{
		Type:        "service_account",
		ClientEmail: email,
		PrivateKey:  privateKey,
	}, opts...)
}

// NewWithDefaultCredentials creates a new SheetsAdaptor using Application Default Credentials
func NewWithDefaultCredentials(ctx context.Context, config Config) (*SheetsAdaptor, error) {
	// This will use:
	// 1. GOOGLE_APPLICATION_CREDENTIALS environment variable if set
	// 2. gcloud auth application-default credentials if available
	// 3. GCE metadata service if running on Google Cloud
	tokenSource, err := google.DefaultTokenSource(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to get default token source: %w", err)
	}

	return NewSheetsAdaptor(ctx, config, option.WithTokenSource(tokenSource))
}
