package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"tweetClone/crud"
	"tweetClone/domain"
	"tweetClone/errs"
)

// ShutdownTimeout is the time given for outstanding requests to finish before shutdown.
const ShutdownTimeout = 5 * time.Second

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It resolves the caller of a request
// before handing things over to one of the crud services.
type Server struct {
	router   *mux.Router
	server   *http.Server
	ids      Identifier
	us       domain.UserService
	ts       domain.TweetService
	ms       domain.MediaService
	fs       domain.FollowService
	ls       domain.LikeService
	feed     domain.FeedService
	log      *zerolog.Logger
	metrics  *metrics
	validate *validator.Validate

	mediaDir      string
	maxUploadSize int64
}

// Config holds everything the Server needs besides the crud services.
type Config struct {
	// Identifier resolves the caller of a request.
	Identifier Identifier
	// Logger is used for request and error logs. Defaults to a no-op logger.
	Logger *zerolog.Logger
	// Registry receives the http metrics and is served at /metrics.
	// Defaults to a new registry.
	Registry *prometheus.Registry
	// MediaDir is served at /media/ if not empty.
	MediaDir string
	// MaxUploadSize limits the size of a media upload. Defaults to domain.MaxUploadSize.
	MaxUploadSize int64
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the crud services passed in.
func NewServer(services *crud.Services, cfg Config) *Server {
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = domain.MaxUploadSize
	}

	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router:        mux.NewRouter(),
		ids:           cfg.Identifier,
		us:            services.User,
		ts:            services.Tweet,
		ms:            services.Media,
		fs:            services.Follow,
		ls:            services.Like,
		feed:          services.Feed,
		log:           cfg.Logger,
		metrics:       newMetrics(cfg.Registry),
		validate:      validator.New(),
		mediaDir:      cfg.MediaDir,
		maxUploadSize: cfg.MaxUploadSize,
	}

	// Set up middleware that needs to run on every request.
	s.router.Use(s.logRequest, s.metrics.instrument)
	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	// Register the routes of the api. All of them respond with json.
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(setContentTypeJSON)
	s.registerTweetRoutes(api)
	s.registerLikeRoutes(api)
	s.registerFollowRoutes(api)
	s.registerUserRoutes(api)
	s.registerMediaRoutes(api)

	// Register operational routes and the file server for stored media.
	s.registerMetricsRoutes(s.router, cfg.Registry)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	if s.mediaDir != "" {
		s.registerMediaFileRoutes(s.router)
	}
	return s
}

// ServeHTTP lets the Server handle requests directly, which is what the tests do.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts to listen and serve on the specified address. It blocks until
// the server is shut down, in which case it returns nil.
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", addr).Msg("listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops a server started with Run.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// handleHealth handles the route "GET /health".
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.respond(w, r, map[string]interface{}{"result": true})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	errs.ReturnError(w, r, errs.Errorf(errs.ENOTFOUND, "Route not found."))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	payload := errs.Payload{Result: false, ErrorType: errs.EINVALID, ErrorMessage: "Method not allowed."}
	if err := json.NewEncoder(w).Encode(&payload); err != nil {
		errs.LogError(r, err)
	}
}

// respond writes a successful json response.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, payload interface{}) {
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		errs.LogError(r, err)
	}
}

// pathID parses a positive numeric id from the url.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if id <= 0 || err != nil {
		return 0, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return id, nil
}
