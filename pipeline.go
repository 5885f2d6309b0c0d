/*
 * pipeline.go, part of oxima.
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

package oxima

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

//Reason maps an error to the short tag used when logging and counting
//failures. Untyped errors map to the catch-all "exception".
func Reason(err error) string {
	var uf *UnknownFormatError
	var ov *OverlapError
	var ls *LargeStructureError
	var fe *FeaturizationError
	var pe *PredictionError
	var pl *PrecomputedLoadError
	switch {
	case errors.As(err, &uf):
		return "unknownformat"
	case errors.As(err, &ov):
		return "overlap"
	case errors.As(err, &ls):
		return "toolarge"
	case errors.As(err, &fe):
		return "featurizationexception"
	case errors.As(err, &pe):
		return "predictionexception"
	case errors.As(err, &pl):
		return "precomputed"
	default:
		return "exception"
	}
}

//PrecomputedLoader resolves a structure identifier to a stored
//structure plus its cached feature and prediction payloads.
type PrecomputedLoader interface {
	Load(name string) (*Structure, *FeatureBundle, *PredictionBundle, error)
}

//Pipeline runs a structure from raw text to the final output bundle:
//read, validate, reduce to the primitive cell, build coordinate views,
//featurize/predict/explain through the adapter, and assemble. Each
//invocation is synchronous and shares no mutable state with concurrent
//ones apart from the adapter's guarded sample count. Every failure is
//logged here, once, with its reason tag and input context.
type Pipeline struct {
	Adapter      *Adapter
	Records      PrecomputedLoader
	Log          *zap.Logger
	MaxAtoms     int
	OverlapTol   float64
	SymPrec      float64
	ModelVersion string
}

func (p *Pipeline) fail(err error, ctx ...zap.Field) error {
	var oe Error
	if errors.As(err, &oe) {
		oe.Decorate("pipeline")
	}
	fields := append([]zap.Field{zap.String("reason", Reason(err)), zap.Error(err)}, ctx...)
	p.Log.Warn("processing failed", fields...)
	return err
}

//Process runs the live pipeline on raw structure text in the declared
//format and returns the assembled output.
func (p *Pipeline) Process(content, format string) (*OutputBundle, error) {
	start := time.Now()
	s, err := Read(content, format)
	if err != nil {
		return nil, p.fail(err, zap.String("format", format))
	}
	parsing := time.Since(start).Seconds()
	p.Log.Debug("structure read", zap.String("format", format),
		zap.Int("atoms", s.Len()), zap.Float64("parsing_time", parsing))
	if err := Validate(s, p.MaxAtoms, p.OverlapTol); err != nil {
		return nil, p.fail(err, zap.Int("atoms", s.Len()))
	}
	prim, err := Primitive(s, p.SymPrec)
	if err != nil {
		return nil, p.fail(err, zap.Int("atoms", s.Len()))
	}
	return p.finish(s, prim, start, parsing)
}

//FromPrecomputed runs the pipeline on a stored structure and its cached
//feature/prediction payloads instead of computing them. Coordinate
//views and output assembly are shared with the live path.
func (p *Pipeline) FromPrecomputed(name string) (*OutputBundle, error) {
	start := time.Now()
	s, feat, pred, err := p.Records.Load(name)
	if err != nil {
		return nil, p.fail(err, zap.String("name", name))
	}
	parsing := time.Since(start).Seconds()
	prim, err := Primitive(s, p.SymPrec)
	if err != nil {
		return nil, p.fail(err, zap.String("name", name))
	}
	views := BuildViews(s, prim)
	out, err := Assemble(prim, views, feat, pred, p.ModelVersion, parsing, time.Since(start).Seconds())
	if err != nil {
		return nil, p.fail(err, zap.String("name", name))
	}
	return out, nil
}

//finish runs the computing half of the live path: views, the three
//adapter stages, assembly. The adapter sees the as-read structure; the
//views and the output blocks are built from the primitive one.
func (p *Pipeline) finish(s, prim *Structure, start time.Time, parsing float64) (*OutputBundle, error) {
	views := BuildViews(s, prim)
	feat, pred, err := p.Adapter.Run(s)
	if err != nil {
		fields := []zap.Field{zap.Int("atoms", s.Len())}
		if feat != nil {
			//prediction failed after a good featurization; keep the
			//featurized sites in the log
			fields = append(fields, zap.Strings("sites", feat.SiteNames))
		}
		return nil, p.fail(err, fields...)
	}
	out, err := Assemble(prim, views, feat, pred, p.ModelVersion, parsing, time.Since(start).Seconds())
	if err != nil {
		return nil, p.fail(err)
	}
	p.Log.Debug("processing done", zap.Int("atoms", s.Len()),
		zap.Int("primitive_atoms", prim.Len()), zap.Int("sites", feat.Sites()),
		zap.Float64("compute_time", out.ComputeTime))
	return out, nil
}
