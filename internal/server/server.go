package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lexigraph/lexigraph/internal/core"
	"github.com/lexigraph/lexigraph/internal/core/query"
	"github.com/lexigraph/lexigraph/internal/errs"
	"github.com/lexigraph/lexigraph/internal/logger"
)

// Server exposes the pipeline over HTTP. Each conversation session carries
// its own history; the rest of the engine is shared.
type Server struct {
	Engine *core.Engine

	mu       sync.Mutex
	sessions map[string]*query.History
}

func NewServer(engine *core.Engine) *Server {
	return &Server{
		Engine:   engine,
		sessions: make(map[string]*query.History),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/transcripts", s.ProcessTranscript)

	r.POST("/sessions", s.CreateSession)
	r.DELETE("/sessions/:id", s.DeleteSession)
	r.POST("/sessions/:id/query", s.Query)

	r.GET("/graph/stats", s.GraphStats)
	r.DELETE("/graph", s.ClearGraph)

	r.GET("/analytics/deadlines", s.Deadlines)
	r.GET("/analytics/topics", s.Topics)
	r.GET("/analytics/people", s.People)
	r.GET("/analytics/conflicts", s.Conflicts)
	r.GET("/analytics/compare", s.CompareMeetings)

	r.GET("/summaries/meeting", s.MeetingSummary)
	r.GET("/summaries/all", s.CrossMeetingSummary)

	return r
}

func (s *Server) session(id string) (*query.History, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.sessions[id]
	return h, ok
}

func fail(c *gin.Context, status int, err error) {
	logger.Get().Warn("request failed",
		zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(status, gin.H{"error": errs.FriendlyMessage(err)})
}

type TranscriptRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

func (s *Server) ProcessTranscript(c *gin.Context) {
	var req TranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transcript is required"})
		return
	}

	extracted, stats, err := s.Engine.ProcessTranscript(c.Request.Context(), req.Transcript)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meeting_title": extracted.MeetingTitle,
		"extraction":    extracted,
		"stats":         stats,
	})
}

func (s *Server) CreateSession(c *gin.Context) {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = query.NewHistory()
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

func (s *Server) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) Query(c *gin.Context) {
	history, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	result, err := s.Engine.Agent.Ask(c.Request.Context(), history, req.Question)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) GraphStats(c *gin.Context) {
	counts, err := s.Engine.NodeCounts(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": counts})
}

func (s *Server) ClearGraph(c *gin.Context) {
	if err := s.Engine.ClearGraph(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) Deadlines(c *gin.Context) {
	report, err := s.Engine.Analyzer.DeadlineStatus(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) Topics(c *gin.Context) {
	trends, err := s.Engine.Analyzer.TopicTrends(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": trends})
}

func (s *Server) People(c *gin.Context) {
	insights, err := s.Engine.Analyzer.PersonInsights(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": insights})
}

func (s *Server) Conflicts(c *gin.Context) {
	analysis, err := s.Engine.Analyzer.DetectConflicts(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func (s *Server) CompareMeetings(c *gin.Context) {
	meeting1 := c.Query("meeting1")
	meeting2 := c.Query("meeting2")
	if meeting1 == "" || meeting2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meeting1 and meeting2 query parameters are required"})
		return
	}

	comparison, err := s.Engine.Analyzer.CompareMeetings(c.Request.Context(), meeting1, meeting2)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

func (s *Server) MeetingSummary(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}

	summary, err := s.Engine.Summarizer.MeetingSummary(c.Request.Context(), title)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (s *Server) CrossMeetingSummary(c *gin.Context) {
	summary, err := s.Engine.Summarizer.CrossMeetingSummary(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
