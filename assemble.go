/*
 * assemble.go, part of oxima.
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
	"encoding/json"
	"html"
	"strings"
)

//OutputBundle is the final, render-ready payload of a pipeline run. It
//is built once per request and not modified afterwards. Field names
//follow the keys the display layer consumes.
type OutputBundle struct {
	RawCode          string                        `json:"raw_code"`
	PredictionLabels []string                      `json:"prediction_labels"`
	MetalIndices     []int                         `json:"metal_indices"`
	Predictions      []PredictionRow               `json:"predictions_output"`
	Explanations     []SiteExplanation             `json:"featurization_output"`
	InputCellVectors []CellRow                     `json:"inputstructure_cell_vectors"`
	InputAtomsScaled []AtomRow                     `json:"inputstructure_atoms_scaled"`
	InputAtomsCart   []AtomRow                     `json:"inputstructure_atoms_cartesian"`
	AtomsScaled      []AtomRow                     `json:"atoms_scaled"`
	DirectVectors    []CellRow                     `json:"direct_vectors"`
	AtomsCart        []AtomRow                     `json:"atoms_cartesian"`
	ParsingTime      float64                       `json:"parsing_time"`
	ComputeTime      float64                       `json:"compute_time"`
	ModelVersion     string                        `json:"model_version"`
	XSFStructure     string                        `json:"xsfstructure"`
	FeatureValues    map[string]map[string]float64 `json:"feature_values"`
}

//rawCode is the JSON snapshot of the primitive structure embedded,
//escaped, in the output for the code-display widget.
type rawCode struct {
	PrimitiveLattice [][]float64 `json:"primitive_lattice"`
	PrimitivePos     [][]float64 `json:"primitive_positions"`
	PrimitivePosCart [][]float64 `json:"primitive_positions_cartesian"`
	PrimitiveTypes   []int       `json:"primitive_types"`
	PrimitiveSymbols []string    `json:"primitive_symbols"`
}

//denseRows copies an Nx3 matrix into row slices for JSON encoding.
func denseRows(m interface{ At(i, j int) float64 }, n int) [][]float64 {
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = []float64{m.At(i, 0), m.At(i, 1), m.At(i, 2)}
	}
	return rows
}

//escapeRawCode makes a JSON text safe for embedding in an HTML text
//widget: HTML-escape, then newlines to <br> and spaces to &nbsp; so
//the indentation survives.
func escapeRawCode(code string) string {
	code = html.EscapeString(code)
	code = strings.ReplaceAll(code, "\n", "<br>")
	code = strings.ReplaceAll(code, " ", "&nbsp;")
	return code
}

//RawCode serializes the primitive structure (lattice, fractional and
//Cartesian positions, atomic numbers, symbols) as indented JSON and
//escapes it for HTML embedding.
func RawCode(prim *Structure) (string, error) {
	rc := rawCode{
		PrimitiveLattice: denseRows(prim.Lattice, 3),
		PrimitivePos:     denseRows(prim.FracCoords, prim.Len()),
		PrimitivePosCart: denseRows(prim.Cartesian(), prim.Len()),
		PrimitiveTypes:   prim.AtomicNumbers,
		PrimitiveSymbols: prim.Symbols(),
	}
	buf, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return "", err
	}
	return escapeRawCode(string(buf)), nil
}

//Assemble builds the final output bundle from the primitive structure,
//the coordinate views and the feature/prediction results. feat and pred
//may come from a live run or from a precomputed record; Assemble does
//not care. Times are in seconds. This is pure data shuffling: the only
//error path is JSON encoding of the raw-code block.
func Assemble(prim *Structure, views *Views, feat *FeatureBundle, pred *PredictionBundle,
	modelVersion string, parsingTime, computeTime float64) (*OutputBundle, error) {
	code, err := RawCode(prim)
	if err != nil {
		return nil, err
	}
	return &OutputBundle{
		RawCode:          code,
		PredictionLabels: pred.Labels,
		MetalIndices:     feat.MetalIndices,
		Predictions:      pred.Predictions,
		Explanations:     pred.Explanations,
		InputCellVectors: views.ConvCell,
		InputAtomsScaled: views.ConvFrac,
		InputAtomsCart:   views.ConvCart,
		AtomsScaled:      views.PrimFrac,
		DirectVectors:    views.PrimCell,
		AtomsCart:        views.PrimCart,
		ParsingTime:      parsingTime,
		ComputeTime:      computeTime,
		ModelVersion:     modelVersion,
		XSFStructure:     XSF(prim),
		FeatureValues:    feat.FeatureValues,
	}, nil
}
