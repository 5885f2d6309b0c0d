/*
 * roman.go, part of oxima.
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

package model

import "strings"

var romanValues = []int{10, 9, 5, 4, 1}
var romanDigits = []string{"X", "IX", "V", "IV", "I"}

//Roman writes a positive oxidation state as a roman numeral. Zero and
//negative states, which the ensemble never emits, come back as "0".
func Roman(n int) string {
	if n <= 0 {
		return "0"
	}
	var b strings.Builder
	for i, v := range romanValues {
		for n >= v {
			b.WriteString(romanDigits[i])
			n -= v
		}
	}
	return b.String()
}
