package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/pkg/metrics"
)

const previewChars = 150

func (s *Server) registerRoutes(api *gin.RouterGroup) {
	api.POST("/content", s.addContent)
	api.GET("/content", s.listDocuments(models.KindContent))
	api.POST("/content/scrape", s.scrapeContent)

	api.POST("/brand", s.addBrand)
	api.GET("/brand", s.listDocuments(models.KindBrand))

	api.POST("/memory", s.addMemory)
	api.GET("/memory", s.listDocuments(models.KindMemory))

	api.POST("/trending", s.setTrending)
	api.GET("/trending", s.getTrending)
	api.DELETE("/trending", s.clearTrending)
	api.POST("/trending/refresh", s.refreshTrending)

	api.POST("/generate", s.generate)
	api.POST("/slack/post", s.postToSlack)

	// Paths used by the first version of the API and its Slack bot
	api.POST("/content/add", s.addContent)
	api.GET("/content/list", s.listDocuments(models.KindContent))
	api.POST("/content/scrape-url", s.scrapeContent)
	api.POST("/brand/add", s.addBrand)
	api.GET("/brand/list", s.listDocuments(models.KindBrand))
	api.POST("/memory/add", s.addMemory)
	api.GET("/memory/list", s.listDocuments(models.KindMemory))
	api.POST("/trending/set", s.setTrending)
	api.GET("/trending/get", s.getTrending)
	api.POST("/trending/clear", s.clearTrending)
	api.POST("/generate/post", s.generate)
}

func (s *Server) addContent(c *gin.Context) {
	var req struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Type == "" || strings.TrimSpace(req.Content) == "" {
		badRequest(c, "type and content required")
		return
	}

	s.store(c, models.NewContent(models.ContentType(req.Type), req.Content, ""), "Content added")
}

func (s *Server) addBrand(c *gin.Context) {
	var req struct {
		Post string `json:"post"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Post) == "" {
		badRequest(c, "post content required")
		return
	}

	s.store(c, models.NewBrandExample(req.Post), "Brand voice example added")
}

func (s *Server) addMemory(c *gin.Context) {
	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Note) == "" {
		badRequest(c, "note required")
		return
	}

	s.store(c, models.NewMemoryNote(req.Note), "Memory added")
}

// store inserts a document and answers {success, message, id}
func (s *Server) store(c *gin.Context, doc *models.Document, message string) {
	if err := s.deps.Repository.Add(c.Request.Context(), doc); err != nil {
		s.fail(c, "failed to add "+string(doc.Kind), err)
		return
	}
	metrics.DocumentsAdded.WithLabelValues(string(doc.Kind)).Inc()

	s.log.WithDocumentID(doc.ID).Info().Str("kind", string(doc.Kind)).Msg("Document added")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "id": doc.ID})
}

func (s *Server) scrapeContent(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		badRequest(c, "url required")
		return
	}

	doc, err := s.deps.Scraper.Fetch(c.Request.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		metrics.Scrapes.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.fail(c, "failed to scrape URL", err)
		return
	}
	metrics.Scrapes.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if err := s.deps.Repository.Add(c.Request.Context(), doc); err != nil {
		s.fail(c, "failed to add content", err)
		return
	}
	metrics.DocumentsAdded.WithLabelValues(string(doc.Kind)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Content scraped and added",
		"id":      doc.ID,
		"preview": preview(doc.Body),
	})
}

// preview returns the first characters of a body followed by "..."
func preview(body string) string {
	r := []rune(body)
	if len(r) > previewChars {
		r = r[:previewChars]
	}
	return string(r) + "..."
}

func (s *Server) listDocuments(kind models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.deps.Repository.List(c.Request.Context(), kind)
		if err != nil {
			s.fail(c, "failed to list "+string(kind), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": len(items), "items": items})
	}
}

func (s *Server) setTrending(c *gin.Context) {
	var req struct {
		Topics string `json:"topics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Topics) == "" {
		badRequest(c, "topics required")
		return
	}

	if err := s.deps.Repository.SetTrending(c.Request.Context(), req.Topics); err != nil {
		s.fail(c, "failed to update trending topics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Trending topics updated"})
}

func (s *Server) getTrending(c *gin.Context) {
	topics, err := s.deps.Repository.GetTrending(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to retrieve trending topics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics, "isEmpty": strings.TrimSpace(topics) == ""})
}

func (s *Server) clearTrending(c *gin.Context) {
	if err := s.deps.Repository.ClearTrending(c.Request.Context()); err != nil {
		s.fail(c, "failed to clear trending topics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Trending topics cleared"})
}

func (s *Server) refreshTrending(c *gin.Context) {
	if s.deps.Trending == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trending refresh is not configured"})
		return
	}

	res, err := s.deps.Trending.Refresh(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		s.fail(c, "failed to refresh trending topics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"updated":    res.Updated,
		"topics":     res.Topics,
		"sources":    res.Sources,
		"itemsFound": res.ItemsFound,
		"errors":     len(res.Errors),
	})
}

func (s *Server) generate(c *gin.Context) {
	var opts models.GenerationOptions
	// the body is optional
	if err := c.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	// a client disconnect does not abort an issued generation; backend timeouts bound it
	res, err := s.deps.Generator.Generate(context.WithoutCancel(c.Request.Context()), opts)
	if err != nil {
		s.fail(c, "failed to generate post", err)
		return
	}

	body := gin.H{
		"success":       true,
		"post":          res.Post,
		"imageUrl":      res.ImageURL(),
		"contentUsed":   res.ContentPool,
		"brandExamples": res.BrandExamples,
		"memoryNotes":   res.MemoryNotes,
		"trendingUsed":  res.TrendingUsed,
	}
	if msg := res.ImageError(); msg != "" {
		body["imageError"] = msg
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) postToSlack(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(c, "text required")
		return
	}
	if s.deps.Notifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "slack is not configured"})
		return
	}

	if err := s.deps.Notifier.Post(c.Request.Context(), req.Text); err != nil {
		s.fail(c, "failed to post to Slack", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Posted to Slack"})
}
