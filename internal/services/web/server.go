// Package web serves the file-tree modal over HTTP, one document per browser session.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tdewolff/minify/v2"
	minifyhtml "github.com/tdewolff/minify/v2/html"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/sitetree/internal/contentindex"
	"github.com/temirov/sitetree/internal/filetree"
	"github.com/temirov/sitetree/internal/modal"
	"github.com/temirov/sitetree/internal/types"
)

const (
	defaultListenAddress    = "127.0.0.1:0"
	defaultShutdownDuration = 5 * time.Second
	defaultMaxSessions      = 256
	defaultSessionTTL       = 30 * time.Minute

	headerContentType = "Content-Type"
	mimeTypeJSON      = "application/json"
	mimeTypeHTML      = "text/html"
	contentTypeHTML   = "text/html; charset=utf-8"

	// SessionCookieName carries the session identifier issued by the page route.
	SessionCookieName = "sitetree_session"

	pagePath       = "/"
	modalPath      = "/modal"
	openPath       = "/modal/open"
	closePath      = "/modal/close"
	clickPath      = "/modal/click"
	navigatePath   = "/navigate"
	targetQueryKey = "target"

	pageTemplate = "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title></head>%s</html>"
	pageTitle    = "sitetree"

	errorFieldName          = "error"
	errorSessionNotFound    = "session not found"
	errorTargetNotFound     = "click target not found"
	errorTargetMissing      = "click target missing"
	logMessageListening     = "serving file tree"
	logMessageSessionOpened = "session started"
	logMessageSessionReused = "session reloaded"
	logMessageSessionEvict  = "session evicted"
	logMessageReloaded      = "content index reloaded"
	logMessageMinifyFailed  = "minify page failed"
	logFieldAddress         = "address"
	logFieldSession         = "session"
	logFieldSessions        = "sessions"
	logFieldDocuments       = "documents"
)

// ErrSessionNotFound is reported when a request carries no known session.
var ErrSessionNotFound = errors.New(errorSessionNotFound)

var dataLevelPattern = regexp.MustCompile(`^[0-9]+$`)

// Config defines runtime options for the server.
// At most MaxSessions sessions are kept, least recently used dropped first, and a
// session idle for SessionTTL is dropped.
type Config struct {
	Address         string
	ShutdownTimeout time.Duration
	Store           *contentindex.Store
	Pipeline        filetree.Pipeline
	Labels          types.StatsLabels
	Sanitize        bool
	Minify          bool
	MaxSessions     int
	SessionTTL      time.Duration
	Logger          *zap.Logger
}

// Snapshot is the JSON view of a session's modal.
type Snapshot struct {
	Session     string `json:"session"`
	State       string `json:"state"`
	AriaHidden  string `json:"ariaHidden"`
	Folders     string `json:"folders"`
	Files       string `json:"files"`
	Content     string `json:"content"`
	Navigations int    `json:"navigations"`
}

type session struct {
	identifier string
	document   *modal.Document
	lifecycle  *modal.Lifecycle
	controller *modal.Controller
}

// Server owns the sessions and serialises every event dispatched to them.
type Server struct {
	config   Config
	logger   *zap.Logger
	policy   *bluemonday.Policy
	minifier *minify.M

	mutex    sync.Mutex
	sessions *expirable.LRU[string, *session]
}

// NewServer creates a new Server with defaults applied.
func NewServer(config Config) *Server {
	normalized := config
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.Store == nil {
		normalized.Store = contentindex.NewStore(nil)
	}
	if normalized.MaxSessions <= 0 {
		normalized.MaxSessions = defaultMaxSessions
	}
	if normalized.SessionTTL <= 0 {
		normalized.SessionTTL = defaultSessionTTL
	}
	logger := normalized.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	minifier := minify.New()
	minifier.AddFunc(mimeTypeHTML, minifyhtml.Minify)
	onEvict := func(identifier string, _ *session) {
		logger.Debug(logMessageSessionEvict, zap.String(logFieldSession, identifier))
	}
	return &Server{
		config:   normalized,
		logger:   logger,
		policy:   newTreePolicy(),
		minifier: minifier,
		sessions: expirable.NewLRU[string, *session](normalized.MaxSessions, onEvict, normalized.SessionTTL),
	}
}

// SessionCount reports the number of live sessions.
func (server *Server) SessionCount() int {
	return server.sessions.Len()
}

// newTreePolicy allows exactly the markup the tree renderer emits.
func newTreePolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("div", "span", "a")
	policy.AllowAttrs("class").OnElements("div", "span", "a")
	policy.AllowDataAttributes()
	policy.AllowAttrs("data-level").Matching(dataLevelPattern).OnElements("div")
	policy.AllowRelativeURLs(true)
	policy.AllowAttrs("href").OnElements("a")
	return policy
}

// Handler returns the HTTP routes of the server.
func (server *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get(pagePath, server.handlePage)
	router.Get(modalPath, server.handleSnapshot)
	router.Post(openPath, server.handleClass(modal.ClassOpenButton))
	router.Post(closePath, server.handleClass(modal.ClassCloseButton))
	router.Post(clickPath, server.handleClick)
	router.Post(navigatePath, server.handleNavigate)
	return router
}

// Run starts the server and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server *Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	httpServer := &http.Server{Handler: server.Handler()}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve file tree: %w", serveErr)
		}
		return nil
	})

	server.logger.Info(logMessageListening, zap.String(logFieldAddress, actualAddress))
	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown file tree server: %w", shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

// ReloadIndex loads the index at indexPath, swaps it in and starts a new navigation for every session.
func (server *Server) ReloadIndex(indexPath string) error {
	index, loadError := contentindex.Load(indexPath)
	if loadError != nil {
		return loadError
	}
	server.config.Store.Replace(index)

	server.mutex.Lock()
	defer server.mutex.Unlock()
	activeSessions := server.sessions.Values()
	for _, activeSession := range activeSessions {
		activeSession.navigate()
	}
	server.logger.Info(logMessageReloaded, zap.Int(logFieldDocuments, index.Len()), zap.Int(logFieldSessions, len(activeSessions)))
	return nil
}

func (server *Server) newSession() *session {
	options := modal.Options{
		Pipeline: server.config.Pipeline,
		Index:    server.config.Store.Source,
		Labels:   server.config.Labels,
		Logger:   server.logger,
	}
	if server.config.Sanitize {
		options.Sanitizer = server.policy.Sanitize
	}
	created := &session{
		identifier: uuid.NewString(),
		lifecycle:  modal.NewLifecycle(),
		controller: modal.NewController(options),
	}
	created.controller.Mount(created.lifecycle)
	created.navigate()
	return created
}

// navigate replaces the session document with a fresh page and dispatches the navigation.
func (activeSession *session) navigate() {
	activeSession.document = modal.NewFileTreeDocument()
	activeSession.lifecycle.Navigate(activeSession.document)
}

func (activeSession *session) snapshot() Snapshot {
	snapshot := Snapshot{
		Session:     activeSession.identifier,
		State:       string(activeSession.controller.State()),
		Navigations: activeSession.lifecycle.Navigations(),
	}
	if outer := activeSession.document.QuerySelector(modal.ClassOuter); outer != nil {
		snapshot.AriaHidden, _ = outer.Attribute(modal.AttributeAriaHidden)
	}
	if folders := activeSession.document.QuerySelector(modal.ClassStatsFolders); folders != nil {
		snapshot.Folders = folders.TextContent()
	}
	if files := activeSession.document.QuerySelector(modal.ClassStatsFiles); files != nil {
		snapshot.Files = files.TextContent()
	}
	if content := activeSession.document.QuerySelector(modal.ClassContent); content != nil {
		snapshot.Content = content.InnerHTML()
	}
	return snapshot
}

// handlePage serves the page. A request carrying a live session cookie reloads that
// session instead of opening another one.
func (server *Server) handlePage(writer http.ResponseWriter, request *http.Request) {
	server.mutex.Lock()
	activeSession, lookupError := server.lookupSession(request)
	logMessage := logMessageSessionReused
	if lookupError != nil {
		activeSession = server.newSession()
		server.sessions.Add(activeSession.identifier, activeSession)
		logMessage = logMessageSessionOpened
	} else {
		activeSession.navigate()
	}
	page := fmt.Sprintf(pageTemplate, pageTitle, activeSession.document.RenderHTML())
	server.mutex.Unlock()

	server.logger.Info(logMessage, zap.String(logFieldSession, activeSession.identifier))
	if server.config.Minify {
		minified, minifyError := server.minifier.String(mimeTypeHTML, page)
		if minifyError != nil {
			server.logger.Warn(logMessageMinifyFailed, zap.Error(minifyError))
		} else {
			page = minified
		}
	}
	http.SetCookie(writer, &http.Cookie{Name: SessionCookieName, Value: activeSession.identifier, Path: pagePath, HttpOnly: true})
	writer.Header().Set(headerContentType, contentTypeHTML)
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte(page))
}

func (server *Server) handleSnapshot(writer http.ResponseWriter, request *http.Request) {
	server.withSession(writer, request, func(activeSession *session) (int, interface{}) {
		return http.StatusOK, activeSession.snapshot()
	})
}

func (server *Server) handleClass(className string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		server.withSession(writer, request, func(activeSession *session) (int, interface{}) {
			return clickClass(activeSession, className)
		})
	}
}

func (server *Server) handleClick(writer http.ResponseWriter, request *http.Request) {
	className := request.URL.Query().Get(targetQueryKey)
	server.withSession(writer, request, func(activeSession *session) (int, interface{}) {
		if className == "" {
			return http.StatusBadRequest, map[string]string{errorFieldName: errorTargetMissing}
		}
		return clickClass(activeSession, className)
	})
}

func (server *Server) handleNavigate(writer http.ResponseWriter, request *http.Request) {
	server.withSession(writer, request, func(activeSession *session) (int, interface{}) {
		activeSession.navigate()
		return http.StatusOK, activeSession.snapshot()
	})
}

func clickClass(activeSession *session, className string) (int, interface{}) {
	target := activeSession.document.QuerySelector(className)
	if target == nil {
		return http.StatusBadRequest, map[string]string{errorFieldName: errorTargetNotFound}
	}
	target.Click()
	return http.StatusOK, activeSession.snapshot()
}

// withSession resolves the request's session and runs action while holding the server lock.
func (server *Server) withSession(writer http.ResponseWriter, request *http.Request, action func(*session) (int, interface{})) {
	server.mutex.Lock()
	activeSession, lookupError := server.lookupSession(request)
	if lookupError != nil {
		server.mutex.Unlock()
		server.writeJSON(writer, http.StatusNotFound, map[string]string{errorFieldName: lookupError.Error()})
		return
	}
	statusCode, payload := action(activeSession)
	server.mutex.Unlock()
	server.writeJSON(writer, statusCode, payload)
}

func (server *Server) lookupSession(request *http.Request) (*session, error) {
	cookie, cookieError := request.Cookie(SessionCookieName)
	if cookieError != nil {
		return nil, ErrSessionNotFound
	}
	activeSession, found := server.sessions.Get(cookie.Value)
	if !found {
		return nil, ErrSessionNotFound
	}
	// re-adding restarts the idle timer
	server.sessions.Add(cookie.Value, activeSession)
	return activeSession, nil
}

func (server *Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := map[string]string{errorFieldName: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}
