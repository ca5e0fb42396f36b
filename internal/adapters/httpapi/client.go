package httpapi

// Package httpapi implements the AuthBackend port against the dashboard REST backend.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/target/dashboard-client/internal/domain/session"
	apperrors "github.com/target/dashboard-client/internal/errors"
	"github.com/target/dashboard-client/internal/ports"
	"golang.org/x/net/publicsuffix"
)

// Backend paths.
const (
	PathLogin         = "/api/auth/login"
	PathSignup        = "/api/auth/signup"
	PathGetProfile    = "/api/auth/get-profile/"
	PathUploadProfile = "/api/auth/upload-profile"
	PathSignout       = "/api/auth/signout"
)

const (
	// DefaultMessagePath selects the message field of backend payloads.
	DefaultMessagePath = "message"

	headerRequestID = "X-Request-ID"
	maxBodyBytes    = 1 << 20

	// networkFailureMessage is the text of transport errors; callers show their own fallback.
	networkFailureMessage = "backend request failed"
)

var _ ports.AuthBackend = (*Client)(nil)

// Options configures a Client.
type Options struct {
	// Origin is the backend base URL, e.g. http://localhost:8080.
	Origin     string
	HTTPClient *http.Client
	// Jar replaces the in-memory cookie jar, e.g. with a SessionJar.
	Jar        http.CookieJar
	Timeout    time.Duration
	UserAgent  string
	// MessagePath is a JMESPath expression selecting the message from a payload.
	MessagePath string
	Logger      *slog.Logger
}

// Client talks to the backend over HTTP. The session cookie set at login is
// kept in a cookie jar and sent with later calls, including signout.
type Client struct {
	origin      *url.URL
	http        *http.Client
	userAgent   string
	messagePath string
	logger      *slog.Logger
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	origin, err := url.Parse(strings.TrimSpace(opts.Origin))
	if err != nil {
		return nil, fmt.Errorf("parse backend origin: %w", err)
	}
	if (origin.Scheme != "http" && origin.Scheme != "https") || origin.Host == "" {
		return nil, fmt.Errorf("backend origin must be an absolute http(s) URL, got %q", opts.Origin)
	}

	messagePath := strings.TrimSpace(opts.MessagePath)
	if messagePath == "" {
		messagePath = DefaultMessagePath
	}
	if _, compileErr := jmespath.Compile(messagePath); compileErr != nil {
		return nil, fmt.Errorf("compile message path %q: %w", messagePath, compileErr)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar := opts.Jar
		if jar == nil {
			memJar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
			if jarErr != nil {
				return nil, fmt.Errorf("create cookie jar: %w", jarErr)
			}
			jar = memJar
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Jar: jar, Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "backend_client")
	}

	return &Client{
		origin:      origin,
		http:        httpClient,
		userAgent:   opts.UserAgent,
		messagePath: messagePath,
		logger:      logger,
	}, nil
}

// Origin returns the backend base URL.
func (c *Client) Origin() string { return c.origin.String() }

// Login posts credentials to the backend.
func (c *Client) Login(ctx context.Context, in ports.Credentials) (ports.LoginResult, error) {
	payload, err := c.postJSON(ctx, PathLogin, in)
	if err != nil {
		return ports.LoginResult{}, err
	}
	return ports.LoginResult{
		Message: c.message(payload),
		UserID:  firstString(payload, "userId", "id", "user_id"),
	}, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, in ports.Registration) (string, error) {
	payload, err := c.postJSON(ctx, PathSignup, in)
	if err != nil {
		return "", err
	}
	return c.message(payload), nil
}

// GetProfile fetches the profile of userID.
func (c *Client) GetProfile(ctx context.Context, userID string) (session.Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, PathGetProfile+url.PathEscape(userID), nil)
	if err != nil {
		return session.Profile{}, err
	}
	body, err := c.do(req)
	if err != nil {
		return session.Profile{}, err
	}

	var profile session.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return session.Profile{}, apperrors.Network(err, "decode profile")
	}
	return profile, nil
}

// UploadProfile sends a multipart form with the image and the user id.
func (c *Client) UploadProfile(ctx context.Context, in ports.AvatarUpload) (ports.UploadResult, error) {
	if in.Content == nil {
		return ports.UploadResult{}, apperrors.Validation("no image selected")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := writeImagePart(form, in); err != nil {
		return ports.UploadResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode upload")
	}
	if err := form.WriteField("id", in.UserID); err != nil {
		return ports.UploadResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode upload")
	}
	if err := form.Close(); err != nil {
		return ports.UploadResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode upload")
	}

	req, err := c.newRequest(ctx, http.MethodPost, PathUploadProfile, &buf)
	if err != nil {
		return ports.UploadResult{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		return ports.UploadResult{}, err
	}
	payload, err := decodePayload(body)
	if err != nil {
		return ports.UploadResult{}, err
	}
	return ports.UploadResult{
		Message:   c.message(payload),
		ImagePath: firstString(payload, "imagePath"),
	}, nil
}

// Signout ends the backend session.
func (c *Client) Signout(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, PathSignout, nil)
	if err != nil {
		return "", err
	}
	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	payload, err := decodePayload(body)
	if err != nil {
		return "", err
	}
	return c.message(payload), nil
}

func writeImagePart(form *multipart.Writer, in ports.AvatarUpload) error {
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename=%q`, in.FileName))
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, in.Content)
	return err
}

func (c *Client) postJSON(ctx context.Context, path string, in any) (map[string]any, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request")
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decodePayload(body)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	target := c.origin.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// do executes req and returns the body of a 2xx response.
// Non-2xx responses become server errors carrying the backend message.
func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, apperrors.Wrap(ctxErr, apperrors.ErrCodeCanceled, "request canceled")
		}
		return nil, apperrors.Network(err, networkFailureMessage)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Network(err, "read response")
	}

	c.logger.Debug("backend call",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(headerRequestID),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if payload, decodeErr := decodePayload(body); decodeErr == nil {
			msg = c.message(payload)
		}
		return nil, apperrors.Server(resp.StatusCode, msg)
	}
	return body, nil
}

// message extracts the backend message using the configured JMESPath expression.
func (c *Client) message(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	result, err := jmespath.Search(c.messagePath, payload)
	if err != nil {
		c.logger.Debug("message path evaluation failed", "path", c.messagePath, "error", err)
		return ""
	}
	return stringify(result)
}

// decodePayload decodes a JSON object; an empty body yields an empty payload.
func decodePayload(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, apperrors.Network(err, "decode response")
	}
	return payload, nil
}

func firstString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringify(payload[key]); s != "" {
			return s
		}
	}
	return ""
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return fmt.Sprintf("%v", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return ""
	}
}
