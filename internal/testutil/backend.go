package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"sync"
)

const (
	sessionCookie = "session"
	maxAvatarSize = 800 * 1024
)

type backendUser struct {
	id        string
	username  string
	email     string
	password  string
	imagePath *string
}

// BackendServer is an in-memory implementation of the dashboard REST backend.
type BackendServer struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]*backendUser
	byName   map[string]*backendUser
	sessions map[string]string
	nextID   int
	requests map[string]int
}

// NewBackendServer starts a backend; it is closed when the test ends.
func NewBackendServer(t interface{ Cleanup(func()) }) *BackendServer {
	b := &BackendServer{
		users:    make(map[string]*backendUser),
		byName:   make(map[string]*backendUser),
		sessions: make(map[string]string),
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.count(b.login))
	mux.HandleFunc("POST /api/auth/signup", b.count(b.signup))
	mux.HandleFunc("GET /api/auth/get-profile/{id}", b.count(b.profile))
	mux.HandleFunc("POST /api/auth/upload-profile", b.count(b.upload))
	mux.HandleFunc("POST /api/auth/signout", b.count(b.signout))

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

// Requests returns how many requests hit path.
func (b *BackendServer) Requests(p string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[p]
}

// TotalRequests returns the number of requests served.
func (b *BackendServer) TotalRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.requests {
		total += n
	}
	return total
}

// ActiveSessions returns the number of signed-in backend sessions.
func (b *BackendServer) ActiveSessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

// AddUser registers a user directly and returns its ID.
func (b *BackendServer) AddUser(username, email, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(username, email, password).id
}

func (b *BackendServer) addUserLocked(username, email, password string) *backendUser {
	b.nextID++
	u := &backendUser{id: strconv.Itoa(b.nextID), username: username, email: email, password: password}
	b.users[u.id] = u
	b.byName[username] = u
	return u
}

func (b *BackendServer) count(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if strings.HasPrefix(key, "/api/auth/get-profile/") {
			key = "/api/auth/get-profile/"
		}
		b.mu.Lock()
		b.requests[key]++
		b.mu.Unlock()
		h(w, r)
	}
}

func (b *BackendServer) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	u, ok := b.byName[in.Username]
	if !ok || u.password != in.Password {
		b.mu.Unlock()
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token := "tok-" + u.id
	b.sessions[token] = u.id
	b.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "userId": u.id})
}

func (b *BackendServer) signup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.byName[in.Username]; exists {
		writeMessage(w, http.StatusConflict, "Username already exists")
		return
	}
	b.addUserLocked(in.Username, in.Email, in.Password)
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (b *BackendServer) profile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	u, ok := b.users[r.PathValue("id")]
	var body map[string]any
	if ok {
		body = map[string]any{"username": u.username, "imagePath": u.imagePath}
	}
	b.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (b *BackendServer) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarSize + 1024); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	switch header.Header.Get("Content-Type") {
	case "image/jpeg", "image/png":
	default:
		// Mirrors a backend that rejects without a message body.
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if header.Size > maxAvatarSize {
		writeMessage(w, http.StatusBadRequest, "File too large, maximum size is 800K")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[r.FormValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	imagePath := "/uploads/" + u.id + "-" + path.Base(header.Filename)
	u.imagePath = &imagePath
	writeJSON(w, http.StatusOK, map[string]any{"message": "Profile picture updated", "imagePath": imagePath})
}

func (b *BackendServer) signout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	b.mu.Lock()
	_, active := b.sessions[c.Value]
	delete(b.sessions, c.Value)
	b.mu.Unlock()
	if !active {
		writeMessage(w, http.StatusUnauthorized, "Session expired")
		return
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeMessage(w, http.StatusOK, "Signed out successfully")
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
