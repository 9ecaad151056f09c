package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
	"github.com/kbukum/conduit/logger"
	"github.com/kbukum/conduit/pipeline"
	"github.com/kbukum/conduit/version"
)

// RunRequest is the body of POST /v1/pipelines/run.
type RunRequest struct {
	// Pipeline is the ordered stage descriptor list.
	Pipeline []element.Descriptor `json:"pipeline"`
	// Input seeds the pipeline. Defaults to a single empty record.
	Input []any `json:"input"`
	// StopOnError overrides the error policy. Defaults to true.
	StopOnError *bool `json:"stop_on_error"`
}

// RunResponse is the body of a successful run.
type RunResponse struct {
	Results []any           `json:"results"`
	Stats   *pipeline.Stats `json:"stats"`
}

// GraphResponse is the body of a successful graph export.
type GraphResponse struct {
	Nodes  []string    `json:"nodes"`
	Edges  [][2]string `json:"edges"`
	Levels [][]string  `json:"levels"`
	DOT    string      `json:"dot"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "up", "version": version.Get().Version})
}

func (s *Server) handleElements(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"elements": s.registry.Names()})
}

func (s *Server) handleRun(c *gin.Context) {
	req, p, ok := s.buildPipeline(c)
	if !ok {
		return
	}

	input := req.Input
	if len(input) == 0 {
		input = []any{map[string]any{}}
	}

	results, err := p.Collect(c.Request.Context(), input)
	stats := p.Stats()
	if err != nil {
		s.log.Error("pipeline run failed", logger.Fields(
			logger.FieldRunID, stats.RunID.String(),
			logger.FieldError, err.Error(),
		))
		RespondWithError(c, err)
		return
	}

	s.log.Info("pipeline run finished", logger.Fields(
		logger.FieldRunID, stats.RunID.String(),
		logger.FieldItems, stats.Items,
		logger.FieldDuration, stats.Duration.Milliseconds(),
	))
	if results == nil {
		results = []any{}
	}
	RespondOK(c, RunResponse{Results: results, Stats: stats})
}

func (s *Server) handleGraph(c *gin.Context) {
	_, p, ok := s.buildPipeline(c)
	if !ok {
		return
	}

	g := pipeline.BuildGraph(p)
	levels, err := g.Levels()
	if err != nil {
		RespondWithError(c, errors.InvalidPipeline(err.Error()))
		return
	}

	resp := GraphResponse{Levels: levels, DOT: g.DOT()}
	for _, n := range g.Nodes {
		resp.Nodes = append(resp.Nodes, n.ID)
	}
	for _, e := range g.Edges {
		resp.Edges = append(resp.Edges, [2]string{e.From, e.To})
	}
	RespondOK(c, resp)
}

// buildPipeline decodes the request body and compiles the pipeline,
// responding with the build error on failure.
func (s *Server) buildPipeline(c *gin.Context) (*RunRequest, *pipeline.Pipeline, bool) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.InvalidInput("invalid request body").WithCause(err))
		return nil, nil, false
	}
	if len(req.Pipeline) == 0 {
		RespondWithError(c, errors.InvalidPipeline("pipeline definition is empty"))
		return nil, nil, false
	}

	stopOnError := true
	if req.StopOnError != nil {
		stopOnError = *req.StopOnError
	}

	p, err := pipeline.New(req.Pipeline, s.registry, s.log, pipeline.WithStopOnError(stopOnError))
	if err != nil {
		RespondWithError(c, err)
		return nil, nil, false
	}
	return &req, p, true
}
