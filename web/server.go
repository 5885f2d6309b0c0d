/*
 * server.go, part of oxima.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * oxima is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

//Package web is the thin HTTP face of the pipeline: it decodes
//requests, runs the pipeline, and serializes the output bundle. Typed
//pipeline failures come back as 400 with a user-readable message;
//anything unexpected is a generic 500 with no internals leaked.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rmera/oxima"
	"github.com/rmera/oxima/conf"
	"github.com/rmera/oxima/store"
	"go.uber.org/zap"
)

type Server struct {
	Pipe    *oxima.Pipeline
	Store   *store.Store
	Cfg     *conf.Config
	Log     *zap.Logger
	Engine  *gin.Engine
	metrics *metrics
}

func NewServer(pipe *oxima.Pipeline, st *store.Store, cfg *conf.Config, log *zap.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		Pipe:    pipe,
		Store:   st,
		Cfg:     cfg,
		Log:     log,
		Engine:  gin.New(),
		metrics: newMetrics(),
	}
	s.Engine.Use(gin.Recovery())
	s.Engine.Use(s.requestID())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Engine.POST("/process", s.handleProcess)
	s.Engine.GET("/example/:name", s.handleExample)
	s.Engine.GET("/precomputed/:name", s.handlePrecomputed)
	s.Engine.POST("/feature_importance_level", s.handleSamples)
	s.Engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	s.Engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
}

//Run blocks serving on the configured address.
func (s *Server) Run() error {
	s.Log.Info("serving", zap.String("addr", s.Cfg.Server.Addr))
	return s.Engine.Run(s.Cfg.Server.Addr)
}

//requestID tags every request, and its log lines, with a fresh UUID.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

//userMessage translates a typed pipeline failure into the message shown
//to the caller. Untyped errors get the generic message and no detail.
func userMessage(err error) (int, string) {
	var uf *oxima.UnknownFormatError
	var ov *oxima.OverlapError
	var ls *oxima.LargeStructureError
	var fe *oxima.FeaturizationError
	var pe *oxima.PredictionError
	var pl *oxima.PrecomputedLoadError
	switch {
	case errors.As(err, &uf):
		return http.StatusBadRequest, fmt.Sprintf("Unknown format '%s', only 'cif' is supported.", uf.Format)
	case errors.As(err, &ov):
		return http.StatusBadRequest, "Sorry, I can't process structures with overlapping atoms. Please check your file."
	case errors.As(err, &ls):
		return http.StatusBadRequest, fmt.Sprintf("Sorry, this tool is limited to %d atoms in the input cell, while your structure has %d atoms.", ls.Limit, ls.Atoms)
	case errors.As(err, &fe):
		return http.StatusBadRequest, "Sorry, I couldn't compute features for your structure. Is there a metal site in it?"
	case errors.As(err, &pe):
		return http.StatusBadRequest, "Sorry, the prediction failed for your structure."
	case errors.As(err, &pl):
		return http.StatusBadRequest, fmt.Sprintf("I tried my best, but I wasn't able to load the result for '%s'.", pl.Name)
	default:
		return http.StatusInternalServerError, "Processing failed."
	}
}

func (s *Server) abort(c *gin.Context, err error) {
	reason := oxima.Reason(err)
	s.metrics.failures.WithLabelValues(reason).Inc()
	status, msg := userMessage(err)
	if status == http.StatusInternalServerError {
		s.Log.Error("unexpected failure", zap.Error(err),
			zap.String("request_id", c.GetString("request_id")))
	}
	c.JSON(status, gin.H{"error": msg, "reason": reason})
}

type processRequest struct {
	Content string `json:"content" binding:"required"`
	Format  string `json:"format" binding:"required"`
}

func (s *Server) handleProcess(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected JSON with 'content' and 'format'."})
		return
	}
	start := time.Now()
	out, err := s.Pipe.Process(req.Content, req.Format)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

//handleExample feeds a named example structure from the store through
//the live pipeline.
func (s *Server) handleExample(c *gin.Context) {
	name, ok := s.Cfg.Examples[c.Param("name")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown example."})
		return
	}
	content, err := s.Store.StructureContent(name)
	if err != nil {
		s.abort(c, err)
		return
	}
	start := time.Now()
	out, err := s.Pipe.Process(content, "cif")
	s.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handlePrecomputed(c *gin.Context) {
	start := time.Now()
	out, err := s.Pipe.FromPrecomputed(c.Param("name"))
	s.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type samplesRequest struct {
	Preset string `json:"preset" binding:"required"`
}

//handleSamples changes the explanation fidelity for every subsequent
//request.
func (s *Server) handleSamples(c *gin.Context) {
	var req samplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected JSON with 'preset'."})
		return
	}
	n, err := s.Cfg.Samples(req.Preset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Pipe.Adapter.SetSamples(n)
	s.Log.Debug("explanation sampling changed",
		zap.String("preset", req.Preset), zap.Int("samples", n))
	c.JSON(http.StatusOK, gin.H{"preset": req.Preset, "samples": n})
}
