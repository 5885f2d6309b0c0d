/*
 * validate.go, part of oxima.
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

//Validate checks a structure against the domain constraints before any
//heavy computation is attempted. The checks run in a fixed order: first
//the atom-count ceiling (*LargeStructureError), then pairwise overlaps
//within overlapTol Angstrom counting periodic images (*OverlapError). A
//structure violating both fails with *LargeStructureError.
func Validate(s *Structure, maxAtoms int, overlapTol float64) error {
	if n := s.Len(); n > maxAtoms {
		return &LargeStructureError{Atoms: n, Limit: maxAtoms}
	}
	n := s.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := s.Distance(i, j); d < overlapTol {
				return &OverlapError{I: i, J: j, Distance: d}
			}
		}
	}
	return nil
}
