/*
Copyright © 2026 the FluidScene authors.
This file is part of FluidScene.

FluidScene is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FluidScene is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FluidScene.  If not, see <http://www.gnu.org/licenses/>.
*/

package fluidscene

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var greek = strings.NewReplacer(
	"Α", "Alpha", "α", "alpha",
	"Β", "Beta", "β", "beta",
	"Γ", "Gamma", "γ", "gamma",
	"Δ", "Delta", "δ", "delta",
	"Ε", "Epsilon", "ε", "epsilon",
	"Ζ", "Zeta", "ζ", "zeta",
	"Η", "Eta", "η", "eta",
	"Θ", "Theta", "θ", "theta",
	"Ι", "Iota", "ι", "iota",
	"Κ", "Kappa", "κ", "kappa",
	"Λ", "Lambda", "λ", "lambda",
	"Μ", "Mu", "μ", "mu",
	"Ν", "Nu", "ν", "nu",
	"Ξ", "Xi", "ξ", "xi",
	"Ο", "Omicron", "ο", "omicron",
	"Π", "Pi", "π", "pi",
	"Ρ", "Rho", "ρ", "rho",
	"Σ", "Sigma", "σ", "sigma",
	"Τ", "Tau", "τ", "tau",
	"Υ", "Upsilon", "υ", "upsilon",
	"Φ", "Phi", "φ", "phi",
	"Χ", "Chi", "χ", "chi",
	"Ψ", "Psi", "ψ", "psi",
	"Ω", "Omega", "ω", "omega",
)

var lower = cases.Lower(language.Und)

// Slugify converts text to a lowercase, hyphen-separated name that is
// safe to use as a directory name. Greek letters are spelled out.
func Slugify(text string) string {
	text = greek.Replace(text)
	var b strings.Builder
	for _, r := range text {
		if r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s := lower.String(strings.TrimSpace(b.String()))

	b.Reset()
	sep := false
	for _, r := range s {
		if r == '-' || unicode.IsSpace(r) {
			sep = true
			continue
		}
		if sep {
			b.WriteByte('-')
			sep = false
		}
		b.WriteRune(r)
	}
	if sep {
		b.WriteByte('-')
	}
	return b.String()
}
