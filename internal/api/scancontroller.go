package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sentinel/internal/domain"
	"sentinel/internal/service"
)

// RegisterScanRoutes registers the scan, similarity, keyword and reference endpoints.
func (s *Server) RegisterScanRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.POST("/scan", s.handleScan)
	g.POST("/similarity", s.handleSimilarity)
	g.POST("/keywords", s.handleKeywords)
	g.GET("/references", s.handleListReferences)
	g.POST("/references", s.handleAddReference)
}

// ScanRequest is the body of POST /api/scan.
type ScanRequest struct {
	FileName string `json:"file_name"`
	Text     string `json:"text"`
}

// SimilarityRequest is the body of POST /api/similarity.
type SimilarityRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

// KeywordsRequest is the body of POST /api/keywords. Limit 0 uses the
// configured default.
type KeywordsRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

func (s *Server) handleScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := s.svc.Scan(c.Request.Context(), req.FileName, req.Text)
	switch {
	case errors.Is(err, service.ErrEmptyDocument):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.log.WithError(err).Error("scan failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load references: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleSimilarity(c *gin.Context) {
	var req SimilarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": s.svc.Compare(req.TextA, req.TextB)})
}

func (s *Server) handleKeywords(c *gin.Context) {
	var req KeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must not be negative"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": s.svc.Keywords(req.Text, req.Limit)})
}

func (s *Server) handleListReferences(c *gin.Context) {
	docs, err := s.svc.References(c.Request.Context())
	if err != nil {
		s.log.WithError(err).Error("list references failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load references: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"references": docs, "count": len(docs)})
}

func (s *Server) handleAddReference(c *gin.Context) {
	var doc domain.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if doc.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	err := s.svc.AddReference(c.Request.Context(), doc)
	switch {
	case errors.Is(err, domain.ErrReadOnly):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.log.WithError(err).Error("add reference failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added", "title": doc.Title})
}
