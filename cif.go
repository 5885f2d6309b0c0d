/*
 * cif.go, part of oxima.
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
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//symTol is the fractional-coordinate tolerance used when deduplicating
//symmetry-generated atomic images.
const symTol = 1e-3

//supportedFormats is the closed set of structure formats the reader
//understands. Adding a format means registering a parser here.
var supportedFormats = map[string]func(string) (*Structure, error){
	"cif": readCIF,
}

//Read parses the text content of a structure file in the declared format
//and returns the canonical structure. An unregistered format fails with
//*UnknownFormatError. Parsing problems within a supported format are
//returned as plain errors.
func Read(content, format string) (*Structure, error) {
	parser, ok := supportedFormats[strings.ToLower(format)]
	if !ok {
		return nil, &UnknownFormatError{Format: format}
	}
	return parser(content)
}

//cifSite is one row of an atom_site loop, before symmetry expansion.
type cifSite struct {
	z    int
	frac [3]float64
}

//readCIF parses a CIF file: cell parameters, the atom_site loop and, if
//present, the symmetry operator loop, whose operators are applied to
//expand the asymmetric unit. Occupancies are read permissively and never
//cause rejection, so highly disordered structures still load.
func readCIF(content string) (*Structure, error) {
	var cell = make(map[string]float64)
	var sites []cifSite
	var symops []string

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(stripCIFComment(lines[i]))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ";") { //skip multiline text blocks
			for i++; i < len(lines); i++ {
				if strings.HasPrefix(strings.TrimSpace(lines[i]), ";") {
					break
				}
			}
			continue
		}
		low := strings.ToLower(line)
		if strings.HasPrefix(low, "loop_") {
			headers, rows, next, err := readCIFLoop(lines, i+1)
			if err != nil {
				return nil, err
			}
			i = next - 1
			if isSymmetryLoop(headers) {
				symops = append(symops, symopsFromLoop(headers, rows)...)
			} else if isSiteLoop(headers) {
				s, err := sitesFromLoop(headers, rows)
				if err != nil {
					return nil, err
				}
				sites = append(sites, s...)
			}
			continue
		}
		if strings.HasPrefix(line, "_") {
			fields := splitCIFFields(line)
			if len(fields) < 2 {
				continue
			}
			tag := strings.ToLower(fields[0])
			switch tag {
			case "_cell_length_a", "_cell_length_b", "_cell_length_c",
				"_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma":
				v, err := parseCIFFloat(fields[1])
				if err != nil {
					return nil, fmt.Errorf("oxima: bad value for %s: %w", tag, err)
				}
				cell[tag] = v
			}
		}
	}

	for _, tag := range []string{"_cell_length_a", "_cell_length_b", "_cell_length_c",
		"_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma"} {
		if _, ok := cell[tag]; !ok {
			return nil, fmt.Errorf("oxima: CIF is missing %s", tag)
		}
	}
	if len(sites) == 0 {
		return nil, fmt.Errorf("oxima: CIF contains no atom sites")
	}
	lattice := latticeFromParams(cell["_cell_length_a"], cell["_cell_length_b"],
		cell["_cell_length_c"], cell["_cell_angle_alpha"], cell["_cell_angle_beta"],
		cell["_cell_angle_gamma"])

	if len(symops) == 0 {
		symops = []string{"x,y,z"}
	}
	expanded, err := expandSymmetry(sites, symops)
	if err != nil {
		return nil, err
	}

	n := len(expanded)
	frac := mat.NewDense(n, 3, nil)
	numbers := make([]int, n)
	for i, s := range expanded {
		frac.Set(i, 0, refold(s.frac[0]))
		frac.Set(i, 1, refold(s.frac[1]))
		frac.Set(i, 2, refold(s.frac[2]))
		numbers[i] = s.z
	}
	return NewStructure(lattice, frac, numbers)
}

//stripCIFComment removes a trailing # comment, unless the # sits inside a
//quoted value.
func stripCIFComment(line string) string {
	inquote := byte(0)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inquote != 0 {
			if c == inquote {
				inquote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inquote = c
		case '#':
			return line[:i]
		}
	}
	return line
}

//splitCIFFields tokenizes a CIF line, honoring single and double quotes.
func splitCIFFields(line string) []string {
	var fields []string
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		if line[i] == '\'' || line[i] == '"' {
			q := line[i]
			j := i + 1
			for j < len(line) && line[j] != q {
				j++
			}
			fields = append(fields, line[i+1:j])
			i = j + 1
			continue
		}
		j := i
		for j < len(line) && line[j] != ' ' && line[j] != '\t' {
			j++
		}
		fields = append(fields, line[i:j])
		i = j
	}
	return fields
}

//readCIFLoop reads the headers and data rows of a loop_ block starting at
//line index start, and returns them together with the index of the first
//line after the block. Data tokens are collected across lines and chunked
//by the header count, since CIF rows may wrap. Leftover tokens that do
//not fill a row mean a truncated block, which is an error.
func readCIFLoop(lines []string, start int) (headers []string, rows [][]string, next int, err error) {
	i := start
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(stripCIFComment(lines[i]))
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "_") {
			break
		}
		headers = append(headers, strings.ToLower(splitCIFFields(line)[0]))
	}
	var tokens []string
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(stripCIFComment(lines[i]))
		if line == "" {
			continue
		}
		low := strings.ToLower(line)
		if strings.HasPrefix(line, "_") || strings.HasPrefix(low, "loop_") ||
			strings.HasPrefix(low, "data_") || strings.HasPrefix(line, ";") {
			break
		}
		tokens = append(tokens, splitCIFFields(line)...)
	}
	if len(headers) > 0 {
		j := 0
		for ; j+len(headers) <= len(tokens); j += len(headers) {
			rows = append(rows, tokens[j:j+len(headers)])
		}
		if j < len(tokens) {
			return nil, nil, i, fmt.Errorf("oxima: truncated CIF loop: %d trailing values for %d columns", len(tokens)-j, len(headers))
		}
	}
	return headers, rows, i, nil
}

func isSymmetryLoop(headers []string) bool {
	for _, h := range headers {
		if h == "_symmetry_equiv_pos_as_xyz" || h == "_space_group_symop_operation_xyz" {
			return true
		}
	}
	return false
}

func isSiteLoop(headers []string) bool {
	for _, h := range headers {
		if h == "_atom_site_fract_x" {
			return true
		}
	}
	return false
}

func symopsFromLoop(headers []string, rows [][]string) []string {
	col := -1
	for i, h := range headers {
		if h == "_symmetry_equiv_pos_as_xyz" || h == "_space_group_symop_operation_xyz" {
			col = i
			break
		}
	}
	var ops []string
	if col < 0 {
		return ops
	}
	for _, row := range rows {
		ops = append(ops, row[col])
	}
	return ops
}

//sitesFromLoop extracts element and fractional position from every row of
//an atom_site loop. The element comes from _atom_site_type_symbol when
//present and parseable, falling back to _atom_site_label.
func sitesFromLoop(headers []string, rows [][]string) ([]cifSite, error) {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	xi, ok := idx["_atom_site_fract_x"]
	yi, oky := idx["_atom_site_fract_y"]
	zi, okz := idx["_atom_site_fract_z"]
	if !ok || !oky || !okz {
		return nil, fmt.Errorf("oxima: atom_site loop lacks fractional coordinates")
	}
	symi, hassym := idx["_atom_site_type_symbol"]
	labi, haslab := idx["_atom_site_label"]
	var sites []cifSite
	for n, row := range rows {
		var s cifSite
		var err error
		for k, col := range []int{xi, yi, zi} {
			s.frac[k], err = parseCIFFloat(row[col])
			if err != nil {
				return nil, fmt.Errorf("oxima: bad coordinate in atom_site row %d: %w", n, err)
			}
		}
		if hassym {
			s.z = ZFromSymbol(row[symi])
		}
		if s.z == 0 && haslab {
			s.z = ZFromSymbol(row[labi])
		}
		if s.z == 0 {
			return nil, fmt.Errorf("oxima: can't assign an element to atom_site row %d", n)
		}
		sites = append(sites, s)
	}
	return sites, nil
}

//parseCIFFloat parses a CIF numeric value, dropping a standard-uncertainty
//suffix such as the "(5)" in "10.234(5)".
func parseCIFFloat(s string) (float64, error) {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

//latticeFromParams builds the lattice matrix from cell lengths (Angstrom)
//and angles (degrees) using the usual a-along-x convention.
func latticeFromParams(a, b, c, alpha, beta, gamma float64) *mat.Dense {
	ar := alpha * math.Pi / 180
	br := beta * math.Pi / 180
	gr := gamma * math.Pi / 180
	cosA, cosB := math.Cos(ar), math.Cos(br)
	cosG, sinG := math.Cos(gr), math.Sin(gr)
	cx := c * cosB
	cy := c * (cosA - cosB*cosG) / sinG
	cz := math.Sqrt(math.Max(c*c-cx*cx-cy*cy, 0))
	return mat.NewDense(3, 3, []float64{
		a, 0, 0,
		b * cosG, b * sinG, 0,
		cx, cy, cz,
	})
}

//expandSymmetry applies every symmetry operator to every site and
//deduplicates the resulting images within symTol.
func expandSymmetry(sites []cifSite, ops []string) ([]cifSite, error) {
	var out []cifSite
	for _, op := range ops {
		rot, trans, err := parseSymOp(op)
		if err != nil {
			return nil, err
		}
		for _, s := range sites {
			var nf [3]float64
			for i := 0; i < 3; i++ {
				nf[i] = refold(rot[i][0]*s.frac[0] + rot[i][1]*s.frac[1] + rot[i][2]*s.frac[2] + trans[i])
			}
			dup := false
			for _, prev := range out {
				if prev.z == s.z && fracNear(prev.frac, nf, symTol) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, cifSite{z: s.z, frac: nf})
			}
		}
	}
	return out, nil
}

//parseSymOp parses a symmetry operator string like "-x,1/2+y,-z" into a
//rotation matrix and translation vector, both in fractional coordinates.
func parseSymOp(op string) (rot [3][3]float64, trans [3]float64, err error) {
	comps := strings.Split(op, ",")
	if len(comps) != 3 {
		return rot, trans, fmt.Errorf("oxima: symmetry operator %q does not have 3 components", op)
	}
	for i, comp := range comps {
		s := strings.ToLower(strings.ReplaceAll(comp, " ", ""))
		sign := 1.0
		for pos := 0; pos < len(s); {
			switch c := s[pos]; {
			case c == '+':
				sign = 1
				pos++
			case c == '-':
				sign = -1
				pos++
			case c == 'x':
				rot[i][0] += sign
				sign = 1
				pos++
			case c == 'y':
				rot[i][1] += sign
				sign = 1
				pos++
			case c == 'z':
				rot[i][2] += sign
				sign = 1
				pos++
			case (c >= '0' && c <= '9') || c == '.':
				j := pos
				for j < len(s) && ((s[j] >= '0' && s[j] <= '9') || s[j] == '.') {
					j++
				}
				num, perr := strconv.ParseFloat(s[pos:j], 64)
				if perr != nil {
					return rot, trans, fmt.Errorf("oxima: bad number in symmetry operator %q", op)
				}
				if j < len(s) && s[j] == '/' {
					k := j + 1
					for k < len(s) && s[k] >= '0' && s[k] <= '9' {
						k++
					}
					den, derr := strconv.ParseFloat(s[j+1:k], 64)
					if derr != nil || den == 0 {
						return rot, trans, fmt.Errorf("oxima: bad fraction in symmetry operator %q", op)
					}
					num /= den
					j = k
				}
				trans[i] += sign * num
				sign = 1
				pos = j
			default:
				return rot, trans, fmt.Errorf("oxima: unexpected character %q in symmetry operator %q", c, op)
			}
		}
	}
	return rot, trans, nil
}
