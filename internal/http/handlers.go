package httpapi

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/foodshare-matching/internal/config"
	"github.com/example/foodshare-matching/internal/directory"
	"github.com/example/foodshare-matching/internal/geo"
	"github.com/example/foodshare-matching/internal/ingest"
	"github.com/example/foodshare-matching/internal/matcher"
	"github.com/example/foodshare-matching/internal/models"
	"github.com/example/foodshare-matching/internal/notify"
	"github.com/example/foodshare-matching/internal/observability"
	"github.com/example/foodshare-matching/internal/quality"
	"github.com/example/foodshare-matching/internal/rationale"
	"github.com/example/foodshare-matching/internal/storage"
)

type Server struct {
	Directory  *directory.Directory
	Recipients matcher.RecipientSource
	Matcher    *matcher.Service
	Store      storage.Store
	Kafka      *ingest.KafkaProducer
	WSReg      *notify.WSRegistry

	logger *slog.Logger
	mux    *mux.Router
}

// NewServer wires the matching engine from config. The in-memory directory
// always owns facilities; recipients come from Redis when configured, the
// directory otherwise.
func NewServer(cfg config.ServerConfig, logger *slog.Logger) (*Server, error) {
	dir := directory.New()

	var recipients matcher.RecipientSource = dir
	if cfg.RedisAddr != "" {
		recipients = directory.NewRedisDirectory(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisGeoKey)
	}

	var store storage.Store
	if cfg.PGDSN != "" {
		ps, err := storage.NewPostgresStore(cfg.PGDSN)
		if err != nil {
			logger.Warn("postgres unavailable, falling back to memory store", "error", err)
		} else {
			store = ps
		}
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}

	var kp *ingest.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		kp = ingest.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	scoring, err := cfg.Scoring()
	if err != nil {
		return nil, err
	}

	wsreg := notify.NewWSRegistry()

	var explainer matcher.Explainer
	if cfg.AnthropicAPIKey != "" {
		explainer = rationale.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}

	m := &matcher.Service{
		Recipients:       recipients,
		Facilities:       dir,
		Gate:             quality.NewGate(cfg.MinShelfLifeHours),
		Scoring:          scoring,
		Store:            store,
		Notifier:         notify.NewWebhookNotifier(cfg.NotifyWebhook, wsreg),
		Explainer:        explainer,
		Logger:           logger,
		RationaleTimeout: cfg.RationaleTimeout,
	}

	s := &Server{
		Directory:  dir,
		Recipients: recipients,
		Matcher:    m,
		Store:      store,
		Kafka:      kp,
		WSReg:      wsreg,
		logger:     logger,
		mux:        mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/donations", s.handleSubmitDonation).Methods("POST")
	s.mux.HandleFunc("/api/v1/recipients/{id}", s.handleGetRecipient).Methods("GET")
	s.mux.HandleFunc("/internal/recipients", s.handleUpsertRecipient).Methods("POST")
	s.mux.HandleFunc("/internal/recipients/{id}/status", s.handleSetStatus).Methods("POST")
	s.mux.HandleFunc("/internal/recipients/{id}/schedule", s.handleSetSchedule).Methods("POST")
	s.mux.HandleFunc("/internal/facilities", s.handleUpsertFacility).Methods("POST")
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/ws/{recipient_id}", s.handleWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleSubmitDonation(w http.ResponseWriter, r *http.Request) {
	var p donationPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	batch, err := p.toBatch(newID())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.Matcher.Match(r.Context(), batch)
	if err != nil {
		if errors.Is(err, matcher.ErrNoFacilities) {
			http.Error(w, "no waste facilities available, try later", http.StatusServiceUnavailable)
			return
		}
		s.logger.Error("match failed", "batch_id", batch.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleUpsertRecipient(w http.ResponseWriter, r *http.Request) {
	var rec models.RecipientOrganization
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rec.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	if err := geo.Validate(rec.Loc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.upsertRecipient(rec)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Online bool `json:"online"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.Directory.SetRecipientOnline(id, body.Online) {
		http.Error(w, "recipient not found", http.StatusNotFound)
		return
	}
	if rec, ok := s.Directory.GetRecipient(id); ok {
		s.upsertRecipient(rec)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetSchedule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var sched models.Schedule
	if err := json.NewDecoder(r.Body).Decode(&sched); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.Directory.SetRecipientSchedule(id, &sched) {
		http.Error(w, "recipient not found", http.StatusNotFound)
		return
	}
	if rec, ok := s.Directory.GetRecipient(id); ok {
		s.upsertRecipient(rec)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetRecipient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, ok := s.Directory.GetRecipient(id)
	if !ok {
		http.Error(w, "recipient not found", http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

func (s *Server) handleUpsertFacility(w http.ResponseWriter, r *http.Request) {
	var f models.WasteFacility
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if f.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	if err := geo.Validate(f.Loc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Directory.UpsertFacility(f)
	if err := s.Store.PutFacility(f); err != nil {
		s.logger.Error("persist facility failed", "facility_id", f.ID, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// upsertRecipient fans a recipient write out to every attached backend:
// the in-memory directory, Redis (when it is the active source), the
// persistent store, and the Kafka topic for downstream workers.
func (s *Server) upsertRecipient(rec models.RecipientOrganization) {
	s.Directory.UpsertRecipient(rec)
	if up, ok := s.Recipients.(interface {
		UpsertRecipient(models.RecipientOrganization)
	}); ok {
		up.UpsertRecipient(rec)
	}
	if err := s.Store.PutRecipient(rec); err != nil {
		s.logger.Error("persist recipient failed", "recipient_id", rec.ID, "error", err)
	}
	if s.Kafka != nil {
		if err := s.Kafka.PublishRecipient(rec); err != nil {
			s.logger.Warn("publish recipient update failed", "recipient_id", rec.ID, "error", err)
		}
	}
	s.refreshOnlineGauge()
}

func (s *Server) refreshOnlineGauge() {
	online := 0
	for _, r := range s.Directory.Recipients() {
		if r.Online {
			online++
		}
	}
	observability.RecipientsOnline.Set(float64(online))
}

var upgrader = websocket.Upgrader{}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["recipient_id"]
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}
	s.WSReg.Add(id, conn)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }
