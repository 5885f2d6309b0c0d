/*
 * xsf.go, part of oxima.
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
	"fmt"
	"strings"
)

//XSF serializes a primitive structure as an XCrySDen XSF periodic
//block: the CRYSTAL and PRIMVEC headers, the three lattice vectors,
//then PRIMCOORD with an "N 1" count line and one "Z x y z" line per
//atom. Atom positions are the refolded Cartesian ones, so every atom
//lies inside the unit cell as the format expects.
func XSF(prim *Structure) string {
	var b strings.Builder
	b.WriteString("CRYSTAL\n")
	b.WriteString("PRIMVEC\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "%g %g %g\n", prim.Lattice.At(i, 0), prim.Lattice.At(i, 1), prim.Lattice.At(i, 2))
	}
	b.WriteString("PRIMCOORD\n")
	fmt.Fprintf(&b, "%d 1\n", prim.Len())
	cart := prim.CartesianRefolded()
	for i := 0; i < prim.Len(); i++ {
		fmt.Fprintf(&b, "%d %g %g %g\n", prim.AtomicNumbers[i], cart.At(i, 0), cart.At(i, 1), cart.At(i, 2))
	}
	return b.String()
}
