/*
 * store.go, part of oxima.
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

//Package store is the content store behind the precomputed-record and
//example paths: CIF structures under structures/ and msgpack payloads,
//zstd-compressed, under precomputed/, both keyed by name.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/oxima"
	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
)

//Payload is the cached result of a pipeline run over a stored
//structure, everything the output assembler needs short of the
//structure itself. The key set is fixed; adding keys breaks older
//records.
type Payload struct {
	FeatureArray  [][]float64                   `msgpack:"feature_array"`
	FeatureValues map[string]map[string]float64 `msgpack:"feature_value_dict"`
	MetalIndices  []int                         `msgpack:"metal_indices"`
	FeatureNames  []string                      `msgpack:"feature_names"`
	MetalSites    []string                      `msgpack:"metal_sites"`
	Predictions   []oxima.PredictionRow         `msgpack:"predictions_output"`
	Labels        []string                      `msgpack:"prediction_labels"`
	ClassIdx      []int                         `msgpack:"class_idx"`
	Explanations  []oxima.SiteExplanation       `msgpack:"featurization_output"`
}

//Store resolves structure and payload names under a root directory.
type Store struct {
	Dir string
}

func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (st *Store) structurePath(name string) string {
	return filepath.Join(st.Dir, "structures", name+".cif")
}

func (st *Store) payloadPath(name string) string {
	return filepath.Join(st.Dir, "precomputed", name+".oxp")
}

//StructureContent returns the raw CIF text of a stored structure, for
//feeding the live pipeline (the example path).
func (st *Store) StructureContent(name string) (string, error) {
	buf, err := os.ReadFile(st.structurePath(name))
	if err != nil {
		return "", &oxima.PrecomputedLoadError{Name: name, Reason: err}
	}
	return string(buf), nil
}

//LoadStructure reads and parses a stored structure.
func (st *Store) LoadStructure(name string) (*oxima.Structure, error) {
	content, err := st.StructureContent(name)
	if err != nil {
		return nil, err
	}
	s, err := oxima.Read(content, "cif")
	if err != nil {
		return nil, &oxima.PrecomputedLoadError{Name: name, Reason: err}
	}
	return s, nil
}

//zstdMagic is the frame header every zstd stream starts with. Payloads
//missing it are taken as plain msgpack.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

//LoadPayload reads and decodes the cached results of a stored
//structure.
func (st *Store) LoadPayload(name string) (*Payload, error) {
	buf, err := os.ReadFile(st.payloadPath(name))
	if err != nil {
		return nil, &oxima.PrecomputedLoadError{Name: name, Reason: err}
	}
	if bytes.HasPrefix(buf, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, &oxima.PrecomputedLoadError{Name: name, Reason: err}
		}
		defer dec.Close()
		buf, err = dec.DecodeAll(buf, nil)
		if err != nil {
			return nil, &oxima.PrecomputedLoadError{Name: name, Reason: err}
		}
	}
	var p Payload
	if err := msgpack.Unmarshal(buf, &p); err != nil {
		return nil, &oxima.PrecomputedLoadError{Name: name, Reason: err}
	}
	if len(p.MetalIndices) != len(p.MetalSites) || len(p.Predictions) != len(p.MetalSites) {
		return nil, &oxima.PrecomputedLoadError{Name: name,
			Reason: fmt.Errorf("inconsistent payload: %d indices, %d sites, %d predictions",
				len(p.MetalIndices), len(p.MetalSites), len(p.Predictions))}
	}
	return &p, nil
}

//Bundles converts a decoded payload into the feature and prediction
//bundles the pipeline works with.
func (p *Payload) Bundles() (*oxima.FeatureBundle, *oxima.PredictionBundle) {
	var arr *mat.Dense
	if len(p.FeatureArray) > 0 {
		arr = mat.NewDense(len(p.FeatureArray), len(p.FeatureNames), nil)
		for i, row := range p.FeatureArray {
			arr.SetRow(i, row)
		}
	}
	feat := &oxima.FeatureBundle{
		FeatureArray:  arr,
		FeatureValues: p.FeatureValues,
		MetalIndices:  p.MetalIndices,
		FeatureNames:  p.FeatureNames,
		SiteNames:     p.MetalSites,
	}
	pred := &oxima.PredictionBundle{
		Predictions:  p.Predictions,
		Labels:       p.Labels,
		ClassIdx:     p.ClassIdx,
		Explanations: p.Explanations,
	}
	return feat, pred
}

//Load fetches a structure and its cached results by name. It satisfies
//the pipeline's PrecomputedLoader.
func (st *Store) Load(name string) (*oxima.Structure, *oxima.FeatureBundle, *oxima.PredictionBundle, error) {
	s, err := st.LoadStructure(name)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := st.LoadPayload(name)
	if err != nil {
		return nil, nil, nil, err
	}
	feat, pred := p.Bundles()
	return s, feat, pred, nil
}

//Save writes the cached results for a stored structure, msgpack
//compressed with zstd. The structures/ file is expected to exist
//already; Save only writes the payload side.
func (st *Store) Save(name string, feat *oxima.FeatureBundle, pred *oxima.PredictionBundle) error {
	var rows [][]float64
	if feat.FeatureArray != nil {
		n, _ := feat.FeatureArray.Dims()
		rows = make([][]float64, n)
		for i := 0; i < n; i++ {
			rows[i] = append([]float64{}, feat.FeatureArray.RawRowView(i)...)
		}
	}
	p := Payload{
		FeatureArray:  rows,
		FeatureValues: feat.FeatureValues,
		MetalIndices:  feat.MetalIndices,
		FeatureNames:  feat.FeatureNames,
		MetalSites:    feat.SiteNames,
		Predictions:   pred.Predictions,
		Labels:        pred.Labels,
		ClassIdx:      pred.ClassIdx,
		Explanations:  pred.Explanations,
	}
	buf, err := msgpack.Marshal(&p)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	buf = enc.EncodeAll(buf, nil)
	if err := enc.Close(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(st.payloadPath(name)), 0755); err != nil {
		return err
	}
	return os.WriteFile(st.payloadPath(name), buf, 0644)
}
