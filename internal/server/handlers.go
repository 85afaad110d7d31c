package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/keyword"
	"github.com/hyperjump/sentaku/internal/models"
	"github.com/hyperjump/sentaku/internal/storage"
)

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(s.config.Search.DefaultLimit, s.config.Search.MaxLimit); err != nil {
		if errors.Is(err, models.ErrQueryRequired) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	s.logger.Debug("recommend request", zap.Int("query_len", len(req.Query)), zap.Int("limit", req.Limit))
	s.respondJSON(w, http.StatusOK, s.engine.Search(r.Context(), req.Query, req.Limit))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	healthy := s.engine.Healthy()
	status := "ok"
	if !healthy {
		status = "degraded"
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":              status,
		"assessments_loaded":  s.engine.Corpus().Len(),
		"retrieval_available": healthy,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	corpus := s.engine.Corpus()
	resp := map[string]interface{}{
		"assessments":     corpus.Len(),
		"catalog_path":    corpus.Catalog.Source(),
		"embedding_model": s.engine.ModelID(),
		"healthy":         s.engine.Healthy(),
	}

	indexInfo := map[string]interface{}{"type": s.config.Vector.Type}
	if corpus.Index != nil {
		indexInfo["type"] = corpus.Index.Type()
		indexInfo["size"] = corpus.Index.Size()
	}
	resp["index"] = indexInfo

	if s.snapshot != nil {
		m, err := s.snapshot.Manifest(r.Context(), s.engine.ModelID())
		if err != nil {
			s.logger.Error("status: read manifest failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if m != nil {
			resp["snapshot"] = map[string]interface{}{
				"model":      m.ModelID,
				"dimensions": m.Dimensions,
				"records":    m.Records,
				"updated_at": m.UpdatedAt,
			}
		}
	}
	if diskBytes, err := storage.SnapshotUsageBytes(s.config.Storage.DatabasePath); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssessments(w http.ResponseWriter, r *http.Request) {
	limit := s.config.Search.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n > 0 {
			limit = n
		}
	}
	if s.config.Search.MaxLimit > 0 && limit > s.config.Search.MaxLimit {
		limit = s.config.Search.MaxLimit
	}

	cat := s.engine.Corpus().Catalog
	q := r.URL.Query().Get("q")
	hits := make([]models.CatalogHit, 0, limit)
	if q == "" {
		for _, rec := range cat.Records() {
			if len(hits) == limit {
				break
			}
			hits = append(hits, models.CatalogHit{Record: rec})
		}
		s.respondJSON(w, http.StatusOK, hits)
		return
	}

	if s.keyword == nil {
		s.respondError(w, http.StatusServiceUnavailable, "keyword index not enabled")
		return
	}
	results, err := s.keyword.Search(r.Context(), q, limit, &keyword.SearchOptions{
		NameBoost:    2.0,
		FuzzyEnabled: true,
		Fuzziness:    1,
	})
	if err != nil {
		s.logger.Error("keyword search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, res := range results {
		rec, _, ok := cat.Lookup(res.ID)
		if !ok {
			continue
		}
		hits = append(hits, models.CatalogHit{Record: rec, Score: res.Score})
	}
	s.respondJSON(w, http.StatusOK, hits)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
