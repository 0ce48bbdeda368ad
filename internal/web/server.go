package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/conorfennell/hipo/internal/domain"
	"github.com/conorfennell/hipo/internal/genai"
	"github.com/conorfennell/hipo/internal/report"
	"github.com/conorfennell/hipo/internal/review"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server. It renders the three
// screens (home, reviewing, report) server-side and drives the session
// through HTMX fragment swaps.
type Server struct {
	session   *review.Session
	generator genai.Generator
	router    *http.ServeMux
	templates *template.Template
	logger    *slog.Logger
}

// NewServer creates and configures a new server.
func NewServer(session *review.Session, generator genai.Generator, logger *slog.Logger) (*Server, error) {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		session:   session,
		generator: generator,
		router:    http.NewServeMux(),
		templates: tpl,
		logger:    logger,
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The static tree is embedded at build time; a missing subtree is a
		// packaging bug, not a runtime condition.
		panic(err)
	}
	s.router.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("/", s.handleIndex())
	s.router.HandleFunc("/notes", s.handleSaveNote())
	s.router.HandleFunc("/review/start", s.handleStartReview())
	s.router.HandleFunc("/review/answer", s.handleShowAnswer())
	s.router.HandleFunc("/review/rate", s.handlePostRating())
	s.router.HandleFunc("/report", s.handleReport())
	s.router.HandleFunc("/report/close", s.handleCloseReport())
}

// homeData collects everything the home screen shows.
type homeData struct {
	DueCount        int
	HasDueCards     bool
	RecentCards     []domain.Card
	ReportAvailable bool
	Error           string
}

func (s *Server) homeData(errMsg string) homeData {
	cards := s.session.Cards()
	recent := cards
	if len(recent) > 3 {
		recent = recent[:3]
	}
	queue := s.session.Queue()
	return homeData{
		DueCount:        len(queue),
		HasDueCards:     len(queue) > 0,
		RecentCards:     recent,
		ReportAvailable: s.session.ReportAvailable(),
		Error:           errMsg,
	}
}

// cardView is a card plus its position within the running session.
type cardView struct {
	Card    domain.Card
	Current int
	Total   int
}

func (s *Server) currentCardView() (cardView, error) {
	card, err := s.session.Current()
	if err != nil {
		return cardView{}, err
	}
	current, total := s.session.Progress()
	return cardView{Card: card, Current: current, Total: total}, nil
}

// handleIndex renders the full home page.
func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.render(w, "index", s.homeData(""))
	}
}

// handleSaveNote turns pasted text into a card. A generation failure leaves
// the store untouched and re-renders the home panel with a retry message.
func (s *Server) handleSaveNote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		text := r.PostFormValue("content")
		if text == "" {
			s.render(w, "home_panel", s.homeData("Paste something you want to remember first."))
			return
		}

		if _, err := s.session.CreateCard(r.Context(), s.generator, text); err != nil {
			s.logger.Warn("card creation failed", "error", err)
			s.render(w, "home_panel", s.homeData("Couldn't process that. Try again or check your connection."))
			return
		}
		s.render(w, "home_panel", s.homeData(""))
	}
}

// handleStartReview begins the session and shows the first question.
func (s *Server) handleStartReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := s.session.StartReview(); err != nil {
			s.render(w, "home_panel", s.homeData("No cards are due right now."))
			return
		}
		view, err := s.currentCardView()
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "card_front", view)
	}
}

// handleShowAnswer flips the current card.
func (s *Server) handleShowAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := s.currentCardView()
		if err != nil {
			s.render(w, "home_panel", s.homeData(""))
			return
		}
		s.render(w, "card_back", view)
	}
}

// handlePostRating applies a rating and shows the next question, or the
// home panel when the queue is finished.
func (s *Server) handlePostRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		grade, err := strconv.Atoi(r.PostFormValue("rating"))
		if err != nil || grade < int(domain.Forgot) || grade > int(domain.Easy) {
			http.Error(w, "Invalid rating", http.StatusBadRequest)
			return
		}

		if err := s.session.SubmitRating(r.Context(), domain.Rating(grade)); err != nil {
			s.render(w, "home_panel", s.homeData(""))
			return
		}

		if s.session.State() == review.Reviewing {
			view, err := s.currentCardView()
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			s.render(w, "card_front", view)
			return
		}
		s.render(w, "home_panel", s.homeData(""))
	}
}

// handleReport opens the weekly report, recomputing the stats on entry.
func (s *Server) handleReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.session.EnterReport(); err != nil {
			s.render(w, "home_panel", s.homeData("The weekly report isn't available today."))
			return
		}

		stats := report.Build(r.Context(), s.session.Cards(), s.generator, time.Now(), s.logger)
		s.render(w, "report", stats)
	}
}

// handleCloseReport returns to the home screen.
func (s *Server) handleCloseReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.session.CloseReport()
		s.render(w, "home_panel", s.homeData(""))
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
