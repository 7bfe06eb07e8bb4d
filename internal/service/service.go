// Package service exposes proving and verification of the product statement
// over HTTP.
package service

import (
	"errors"
	"net/http"
	"time"

	"ligerozk/internal/config"
	"ligerozk/internal/engine"
	"ligerozk/zk"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ProveRequest carries the instances; zero-valued parameters fall back to
// the server's configuration.
type ProveRequest struct {
	Instances []engine.Instance `json:"instances" binding:"required"`
	Rate      int               `json:"rate,omitempty"`
	Req       int               `json:"req,omitempty"`
	Label     string            `json:"label,omitempty"`
}

type ProveResponse struct {
	Inputs []uint64      `json:"inputs"`
	Proof  hexutil.Bytes `json:"proof"`
	Rate   int           `json:"rate"`
	Req    int           `json:"req"`
	Label  string        `json:"label"`
	Field  string        `json:"field"`
}

type VerifyRequest struct {
	Inputs []uint64      `json:"inputs" binding:"required"`
	Proof  hexutil.Bytes `json:"proof" binding:"required"`
	Rate   int           `json:"rate,omitempty"`
	Req    int           `json:"req,omitempty"`
	Label  string        `json:"label,omitempty"`
}

type server struct {
	params config.Params
	eng    engine.Engine
}

// New builds the router. The field is fixed by params for the server's life.
func New(params config.Params) (*gin.Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	eng, err := engine.New(params.Field, nil)
	if err != nil {
		return nil, err
	}
	s := &server{params: params, eng: eng}

	router := gin.New()
	router.Use(gin.Recovery(), requestLog())
	router.GET("/health", s.health)
	router.POST("/v1/prove", s.prove)
	router.POST("/v1/verify", s.verify)
	return router, nil
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"field":  s.params.Field,
		"rate":   s.params.Rate,
		"req":    s.params.Req,
	})
}

func (s *server) merge(rate, req int, label string) (config.Params, error) {
	p := s.params
	if rate != 0 {
		p.Rate = rate
	}
	if req != 0 {
		p.Req = req
	}
	if label != "" {
		p.Label = label
	}
	return p, p.Validate()
}

func (s *server) prove(c *gin.Context) {
	var req ProveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.merge(req.Rate, req.Req, req.Label)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rng, err := zk.NewRandomness()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	proof, err := s.eng.Prove(p, req.Instances, rng)
	switch {
	case errors.Is(err, zk.ErrCircuitUnsatisfied):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ProveResponse{
		Inputs: engine.Public(req.Instances),
		Proof:  proof,
		Rate:   p.Rate,
		Req:    p.Req,
		Label:  p.Label,
		Field:  s.eng.Field(),
	})
}

func (s *server) verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.merge(req.Rate, req.Req, req.Label)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := s.eng.Verify(p, req.Inputs, req.Proof)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": ok})
}
