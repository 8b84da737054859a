package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mapsocial/mapsocial-go/internal/model"
	"github.com/mapsocial/mapsocial-go/internal/session"
	"github.com/mapsocial/mapsocial-go/util"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	client, err := New(srv.URL, store, 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, srv
}

func signIn(t *testing.T, c *Client) {
	t.Helper()
	if err := c.SessionStore().SaveToken("tok"); err != nil {
		t.Fatal(err)
	}
}

func TestLocationsQueryEncoding(t *testing.T) {
	testCases := []struct {
		name     string
		query    *LocationsQuery
		wantBbox string
		wantKind string
	}{
		{"nil query", nil, "", ""},
		{"bbox only", &LocationsQuery{Bbox: "-77.2,38.9,-77,39.1"}, "-77.2,38.9,-77,39.1", ""},
		{"bbox and kind", &LocationsQuery{Bbox: "-1,-2,3,4", Kind: "climbing_gym"}, "-1,-2,3,4", "climbing_gym"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotBbox, gotKind string
			var hasBbox bool
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotBbox = r.URL.Query().Get("bbox")
				gotKind = r.URL.Query().Get("kind")
				_, hasBbox = r.URL.Query()["bbox"]
				json.NewEncoder(w).Encode([]model.Location{})
			}))

			if _, err := client.Locations(context.Background(), tc.query); err != nil {
				t.Fatalf("Locations: %v", err)
			}
			if gotBbox != tc.wantBbox || gotKind != tc.wantKind {
				t.Errorf("query bbox=%q kind=%q; want bbox=%q kind=%q", gotBbox, gotKind, tc.wantBbox, tc.wantKind)
			}
			if tc.wantBbox == "" && hasBbox {
				t.Error("empty bbox must be omitted from the query, not sent blank")
			}
		})
	}
}

func TestBearerHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.Location{})
	}))

	if _, err := client.Locations(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("signed-out request sent Authorization %q; want none", gotAuth)
	}

	signIn(t, client)
	if _, err := client.Locations(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q; want \"Bearer tok\"", gotAuth)
	}
}

func TestTracingHeaders(t *testing.T) {
	var gotID, gotSource string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		gotSource = r.Header.Get("X-Request-Source")
		json.NewEncoder(w).Encode([]model.Location{})
	}))

	if _, err := client.Locations(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if gotID == "" || gotSource == "" {
		t.Errorf("tracing headers missing: id=%q source=%q", gotID, gotSource)
	}
}

func TestNonSuccessBecomesRequestError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusBadGateway)
	}))

	_, err := client.Locations(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error %T is not *RequestError: %v", err, err)
	}
	if reqErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d; want 502", reqErr.Status)
	}
	if reqErr.Detail == "" {
		t.Error("Detail should carry the raw response body")
	}
}

func TestMutationsFailFastWhenSignedOut(t *testing.T) {
	hits := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	calls := []struct {
		name string
		call func() error
	}{
		{"CreateLocation", func() error {
			_, err := client.CreateLocation(ctx, model.CreateLocationRequest{Title: "t", Kind: "city"})
			return err
		}},
		{"CreatePost", func() error {
			_, err := client.CreatePost(ctx, model.CreatePostRequest{LocationID: 1, Content: "c"})
			return err
		}},
		{"CreateComment", func() error {
			_, err := client.CreateComment(ctx, model.CreateCommentRequest{PostID: 1, Content: "c"})
			return err
		}},
		{"CreateSession", func() error {
			_, err := client.CreateSession(ctx, model.CreateSessionRequest{
				LocationID: 1, Title: "t", Activity: "run",
				StartsAt: time.Now(), EndsAt: time.Now().Add(time.Hour),
			})
			return err
		}},
		{"UploadImage", func() error {
			_, err := client.UploadImage(ctx, "a.jpg", nil)
			return err
		}},
	}

	for _, tc := range calls {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if !IsAuthenticationRequired(err) {
				t.Errorf("error = %v; want ErrAuthenticationRequired", err)
			}
		})
	}
	if hits != 0 {
		t.Errorf("signed-out mutations reached the network %d times; want 0", hits)
	}
}

func TestCreateSessionMaxPeopleOmitted(t *testing.T) {
	testCases := []struct {
		name      string
		maxPeople *int
		wantKey   bool
	}{
		{"absent cap omitted from body", nil, false},
		{"explicit cap sent", util.IntPtr(8), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var body map[string]interface{}
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode body: %v", err)
				}
				json.NewEncoder(w).Encode(model.Session{ID: 1, MaxPeople: tc.maxPeople})
			}))
			signIn(t, client)

			_, err := client.CreateSession(context.Background(), model.CreateSessionRequest{
				LocationID: 1, Title: "Morning run", Activity: "running",
				StartsAt: time.Now(), EndsAt: time.Now().Add(time.Hour),
				MaxPeople: tc.maxPeople,
			})
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			_, ok := body["max_people"]
			if ok != tc.wantKey {
				t.Errorf("max_people present in body = %v; want %v", ok, tc.wantKey)
			}
		})
	}
}

func TestSignInExchangesFormCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token" {
			t.Errorf("path = %s; want /auth/token", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "a@example.com" || r.PostForm.Get("password") != "pw" {
			t.Errorf("form credentials = %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "issued-token",
			"token_type":   "bearer",
		})
	}))

	if err := client.SignIn(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got := client.SessionStore().Token(); got != "issued-token" {
		t.Errorf("persisted token = %q; want issued-token", got)
	}
}

func TestSignInRejectsBadInputBeforeNetwork(t *testing.T) {
	hits := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	testCases := []struct {
		name     string
		email    string
		password string
	}{
		{"not an email", "nope", "pw"},
		{"blank password", "a@example.com", "   "},
		{"empty password", "a@example.com", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := client.SignIn(context.Background(), tc.email, tc.password); err == nil {
				t.Error("SignIn should reject the input")
			}
		})
	}
	if hits != 0 {
		t.Errorf("rejected sign-ins reached the network %d times; want 0", hits)
	}
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "credentials.json"))

	testCases := []struct {
		name    string
		baseURL string
	}{
		{"empty", ""},
		{"missing scheme", "localhost:8000"},
		{"relative path", "/api"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.baseURL, store, 0); err == nil {
				t.Errorf("New(%q) should fail", tc.baseURL)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %s; want /auth/register", r.URL.Path)
		}
		var in model.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(model.User{ID: 3, Email: in.Email, DisplayName: in.DisplayName})
	}))

	user, err := client.Register(context.Background(), model.RegisterRequest{
		Email: "a@example.com", DisplayName: "Ana", Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != 3 || user.DisplayName != "Ana" {
		t.Errorf("user = %+v", user)
	}
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	hits := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	_, err := client.Register(context.Background(), model.RegisterRequest{
		Email: "not-an-email", DisplayName: "Ana", Password: "pw",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if hits != 0 {
		t.Errorf("invalid input reached the network %d times; want 0", hits)
	}
}

func TestUploadImageMultipart(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/image" {
			t.Errorf("path = %s; want /upload/image", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "crag.jpg" {
			t.Errorf("filename = %q; want crag.jpg", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "/static/uploads/crag.jpg"})
	}))
	signIn(t, client)

	url, err := client.UploadImage(context.Background(), "crag.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if url != "/static/uploads/crag.jpg" {
		t.Errorf("url = %q", url)
	}
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}
