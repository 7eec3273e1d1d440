// Package api serves the campaign pipeline and role lookups as a read-only
// JSON API.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/raise3/raise3/browser"
	"github.com/raise3/raise3/common"
	"github.com/raise3/raise3/roles"
	"github.com/raise3/raise3/util/logger"
)

const (
	DEFAULT_LIMIT = 20
	MAX_LIMIT     = 100
	ROLE_TIMEOUT  = 10 * time.Second
)

type Server struct {
	browser *browser.Browser
	roles   *roles.Resolver
	log     *zap.Logger
}

func NewServer(b *browser.Browser, r *roles.Resolver, log *zap.Logger) *Server {
	return &Server{
		browser: b,
		roles:   r,
		log:     logger.OrNop(log).Named("api"),
	}
}

// Handler returns the routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /campaigns", s.handleCampaigns)
	mux.HandleFunc("GET /campaigns/{index}/milestones", s.handleMilestones)
	mux.HandleFunc("GET /roles/{address}", s.handleRoles)
	mux.HandleFunc("GET /investors/{address}/campaigns", s.handleInvestorCampaigns)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.withRequestID(mux)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(s.log, w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		writeError(s.log, w, http.StatusBadRequest, "offset must be a non negative integer")
		return
	}
	limit, ok := queryInt(r, "limit", DEFAULT_LIMIT)
	if !ok || limit == 0 {
		writeError(s.log, w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if limit > MAX_LIMIT {
		limit = MAX_LIMIT
	}
	page, err := s.browser.Campaigns(r.Context(), offset, limit)
	if err != nil {
		s.log.Warn("campaign count read failed", zap.Error(err))
		writeError(s.log, w, http.StatusBadGateway, err.Error())
		return
	}
	result := CampaignPageView{
		Total:  page.Total,
		Offset: page.Offset,
		Limit:  page.Limit,
		Items:  make([]CampaignView, 0, len(page.Items)),
	}
	for _, item := range page.Items {
		result.Items = append(result.Items, NewCampaignView(item))
	}
	writeJSON(s.log, w, http.StatusOK, result)
}

func (s *Server) handleMilestones(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(r.PathValue("index"), 10, 64)
	if err != nil {
		writeError(s.log, w, http.StatusBadRequest, "campaign index must be a non negative integer")
		return
	}
	items, err := s.browser.Milestones(r.Context(), index)
	if err != nil {
		writeError(s.log, w, http.StatusBadGateway, err.Error())
		return
	}
	result := make([]MilestoneView, 0, len(items))
	for _, item := range items {
		result = append(result, NewMilestoneView(item))
	}
	writeJSON(s.log, w, http.StatusOK, result)
}

func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	address, err := common.ParseAddress(r.PathValue("address"))
	if err != nil {
		writeError(s.log, w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), ROLE_TIMEOUT)
	defer cancel()
	set := s.roles.Lookup(ctx, address).Wait(ctx)
	writeJSON(s.log, w, http.StatusOK, rolesJSON{
		Address:  address.Hex(),
		Founder:  toRoleJSON(set.Founder),
		Investor: toRoleJSON(set.Investor),
		Manager:  toRoleJSON(set.Manager),
	})
}

func (s *Server) handleInvestorCampaigns(w http.ResponseWriter, r *http.Request) {
	address, err := common.ParseAddress(r.PathValue("address"))
	if err != nil {
		writeError(s.log, w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := s.browser.InvestorCampaigns(r.Context(), address)
	if err != nil {
		writeError(s.log, w, http.StatusBadGateway, err.Error())
		return
	}
	result := make([]CampaignView, 0, len(items))
	for _, item := range items {
		result = append(result, NewCampaignView(item))
	}
	writeJSON(s.log, w, http.StatusOK, result)
}
