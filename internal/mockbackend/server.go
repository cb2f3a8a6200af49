// Package mockbackend serves a local stand-in for the legal inference backend.
// It answers the classify, prioritize and chat endpoints with keyword
// heuristics so the client can be developed and tested without the real models.
package mockbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"lexdesk/internal/logging"

	"github.com/gorilla/mux"
)

// DefaultAddr is where the real backend listens in development.
const DefaultAddr = "127.0.0.1:8000"

// Options tunes the stand-in backend.
type Options struct {
	// Delay is applied before every inference response.
	Delay time.Duration
}

type caseInput struct {
	Text string `json:"text"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatInput struct {
	Message string        `json:"message"`
	History []chatMessage `json:"history"`
}

// Source is one canned precedent returned alongside a chat answer.
type Source struct {
	Content string `json:"content"`
}

var (
	criminalTerms       = []string{"murder", "robbery", "theft", "assault", "fraud", "criminal", "accused", "bail", "fir ", "kidnap"}
	constitutionalTerms = []string{"constitution", "fundamental right", "article", "writ", "habeas", "petition"}
	highTerms           = []string{"murder", "armed", "robbery", "violence", "custody", "death", "injury", "urgent", "kidnap"}
	mediumTerms         = []string{"fraud", "theft", "eviction", "injunction", "dispute", "bail"}
)

// precedents is a tiny canned corpus returned as chat sources.
var precedents = map[string]string{
	"possession": "Adverse possession requires open, continuous and hostile occupation for the statutory period; mere permissive use does not ripen into title.",
	"bail":       "Bail is the rule and jail the exception; the court weighs the gravity of the offence, flight risk and likelihood of tampering with evidence.",
	"eviction":   "A tenant may be evicted only on grounds enumerated in the rent statute, and the landlord must establish bona fide personal need.",
	"writ":       "A writ petition lies where a fundamental right is infringed by the State and no equally efficacious alternate remedy exists.",
}

// NewRouter builds the HTTP handler with all endpoints.
func NewRouter(opts Options) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Legal AI API is running"})
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(delayMiddleware(opts.Delay))
	v1.HandleFunc("/classify", handleClassify).Methods(http.MethodPost)
	v1.HandleFunc("/prioritize", handlePrioritize).Methods(http.MethodPost)
	v1.HandleFunc("/chat", handleChat).Methods(http.MethodPost)

	// Subrouters resolve method mismatches themselves, so both need the handlers.
	for _, router := range []*mux.Router{r, v1} {
		router.NotFoundHandler = http.HandlerFunc(notFound)
		router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeDetail(w, http.StatusNotFound, "Not Found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func delayMiddleware(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logging.Mock("%s %s request_id=%s", r.Method, r.URL.Path, r.Header.Get("X-Request-ID"))
			if d > 0 {
				select {
				case <-time.After(d):
				case <-r.Context().Done():
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Start listens on addr and serves the router until shutdown is called.
// It returns the shutdown function and the base URL (e.g. http://127.0.0.1:8000).
func Start(addr string, opts Options) (func(context.Context) error, string, error) {
	if strings.TrimSpace(addr) == "" {
		addr = DefaultAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Get(logging.CategoryMock).Error("server error: %v", err)
		}
	}()

	baseURL := "http://" + ln.Addr().String()
	logging.Mock("listening on %s (delay=%s)", baseURL, opts.Delay)
	return srv.Shutdown, baseURL, nil
}

func handleClassify(w http.ResponseWriter, r *http.Request) {
	var in caseInput
	if !decodeBody(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		writeDetail(w, http.StatusBadRequest, "Text input is empty.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"category": Classify(in.Text)})
}

func handlePrioritize(w http.ResponseWriter, r *http.Request) {
	var in caseInput
	if !decodeBody(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		writeDetail(w, http.StatusBadRequest, "Text input is empty.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"priority": Prioritize(in.Text)})
}

func handleChat(w http.ResponseWriter, r *http.Request) {
	var in chatInput
	if !decodeBody(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		writeDetail(w, http.StatusBadRequest, "Message is empty.")
		return
	}

	sources := Retrieve(in.Message)
	var sb strings.Builder
	fmt.Fprintf(&sb, "#### Research Summary\n\nYou asked: **%s**\n\n", strings.TrimSpace(in.Message))
	if len(sources) == 0 {
		sb.WriteString("No controlling precedent was found in the local corpus.")
	} else {
		fmt.Fprintf(&sb, "%d relevant authorit", len(sources))
		if len(sources) == 1 {
			sb.WriteString("y was")
		} else {
			sb.WriteString("ies were")
		}
		sb.WriteString(" located:\n\n")
		for _, s := range sources {
			fmt.Fprintf(&sb, "- %s\n", s.Content)
		}
	}
	if len(in.History) > 0 {
		fmt.Fprintf(&sb, "\n_Considered %d earlier message(s) of context._", len(in.History))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":  sb.String(),
		"sources": sources,
	})
}

// Classify maps case text to Criminal, Constitutional or Civil.
func Classify(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, criminalTerms):
		return "Criminal"
	case containsAny(lower, constitutionalTerms):
		return "Constitutional"
	default:
		return "Civil"
	}
}

// Prioritize maps case text to High, Medium or Low.
func Prioritize(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, highTerms):
		return "High"
	case containsAny(lower, mediumTerms):
		return "Medium"
	default:
		return "Low"
	}
}

// Retrieve returns canned precedents whose key appears in the question.
func Retrieve(question string) []Source {
	lower := strings.ToLower(question)
	out := []Source{}
	for _, key := range []string{"possession", "bail", "eviction", "writ"} {
		if strings.Contains(lower, key) {
			out = append(out, Source{Content: precedents[key]})
		}
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// decodeBody mimics a FastAPI validation failure on malformed JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{
				{"loc": []string{"body"}, "msg": "Invalid JSON body", "type": "value_error"},
			},
		})
		return false
	}
	return true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
