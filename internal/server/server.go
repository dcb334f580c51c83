package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/pulse/internal/config"
	"github.com/agenthands/pulse/internal/core/department"
	"github.com/agenthands/pulse/internal/core/people"
	"github.com/agenthands/pulse/internal/core/workflow"
	"github.com/agenthands/pulse/internal/driver"
	"github.com/agenthands/pulse/internal/insight"
	"github.com/agenthands/pulse/internal/llm"
	"github.com/agenthands/pulse/internal/model"
)

type Server struct {
	Departments *department.Analyzer
	Workflows   *workflow.Analyzer
	Exporter    *driver.Exporter
	Narrator    *insight.Narrator
	Log         *zap.Logger
}

// NewServer wires the analyzers from config. Memgraph and the LLM are
// optional collaborators: when unconfigured or unreachable, the analysis
// endpoints still work and the export/insight ones answer 503.
func NewServer(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		Departments: department.NewAnalyzer(department.Config{
			MinInteractionCount: cfg.Analysis.MinInteractionCount,
			StrongPairThreshold: cfg.Analysis.StrongPairThreshold,
		}, log),
		Workflows: workflow.NewAnalyzer(workflow.Config{
			MinPatternFrequency: cfg.Workflow.MinPatternFrequency,
			TimeWindowHours:     cfg.Workflow.TimeWindowHours,
		}, log),
		Log: log,
	}

	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, log)
		if err != nil {
			log.Warn("memgraph unavailable, export disabled", zap.Error(err))
		} else {
			if err := d.BuildIndices(context.Background()); err != nil {
				log.Warn("failed to build indices", zap.Error(err))
			}
			s.Exporter = driver.NewExporter(d, log)
		}
	}

	if cfg.LLM.Provider != "" {
		client, err := llm.NewClient(context.Background(), cfg.LLM)
		if err != nil {
			log.Warn("llm unavailable, insight disabled", zap.Error(err))
		} else {
			s.Narrator = insight.NewNarrator(client, cfg.Insight)
		}
	}

	return s
}

func (s *Server) SetupRouter() *gin.Engine {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/analyze/departments", s.AnalyzeDepartments)
	r.POST("/analyze/workflows", s.AnalyzeWorkflows)
	r.POST("/analyze/people", s.AnalyzePeople)
	r.POST("/export/departments", s.ExportDepartments)
	r.POST("/insight/departments", s.InsightDepartments)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
		s.Log.Info("request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()))
	}
}

// AnalyzeRequest carries one dataset inline: the persons and the activity
// batch, in the same shape the model layer serializes.
type AnalyzeRequest struct {
	People     []model.Person   `json:"people"`
	Activities []model.Activity `json:"activities"`
	Mermaid    bool             `json:"mermaid"`
}

func (r *AnalyzeRequest) registry() *model.Registry {
	reg := model.NewRegistry()
	for i := range r.People {
		p := r.People[i]
		reg.Add(&p)
	}
	return reg
}

func (s *Server) AnalyzeDepartments(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	report, err := s.Departments.Analyze(req.Activities, req.registry())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"report":                 report,
		"collaboration_matrix":   report.CollaborationMatrix(),
		"collaboration_patterns": report.CollaborationPatterns(),
	}
	if req.Mermaid {
		resp["mermaid"] = report.MermaidNetwork()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) AnalyzeWorkflows(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reg := req.registry()
	patterns := s.Workflows.DetectPatterns(req.Activities)
	workflows := s.Workflows.BuildWorkflows(patterns, reg)
	bottlenecks := s.Workflows.AnalyzeBottlenecks(workflows, reg)

	resp := gin.H{
		"patterns":    patterns,
		"workflows":   workflows,
		"bottlenecks": bottlenecks,
	}
	if req.Mermaid {
		diagrams := make(map[string]string, len(workflows))
		for _, wf := range workflows {
			diagrams[wf.ID] = workflow.MermaidFlow(wf, reg)
		}
		resp["mermaid"] = diagrams
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) AnalyzePeople(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reg := req.registry()
	pr := people.NewProfiler(s.Log)
	persons := pr.ExtractPersons(req.Activities, reg)
	metrics := pr.CollaborationNetwork(reg)

	stats := make(map[string]people.ActivityStats, len(persons))
	for _, p := range persons {
		stats[p.ID] = pr.AnalyzeActivities(p, req.Activities)
		pr.EstimateExpertise(p, req.Activities)
	}

	c.JSON(http.StatusOK, gin.H{
		"persons":       persons,
		"stats":         stats,
		"network":       metrics,
		"key_persons":   people.KeyPersons(metrics, 5),
		"team_clusters": pr.DetectTeamClusters(reg),
	})
}

func (s *Server) ExportDepartments(c *gin.Context) {
	if s.Exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "graph store not configured"})
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reg := req.registry()
	report, err := s.Departments.Analyze(req.Activities, reg)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := s.Exporter.ExportDepartments(c.Request.Context(), report, reg); err != nil {
		s.Log.Error("export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) InsightDepartments(c *gin.Context) {
	if s.Narrator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "llm not configured"})
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	report, err := s.Departments.Analyze(req.Activities, req.registry())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	narrative, err := s.Narrator.NarrateDepartments(c.Request.Context(), report)
	if err != nil {
		s.Log.Error("insight failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate insight"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"narrative": narrative})
}
