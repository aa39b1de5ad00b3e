package fluidscene

import "testing"

func TestSlugify(t *testing.T) {
	for text, want := range map[string]string{
		"Δ Field":           "delta-field",
		"Hello, World!":     "hello-world",
		"  a -- b  ":        "a-b",
		"snake_case name":   "snake_case-name",
		"ΑΩ":                "alphaomega",
		"Viscosity=0.1":     "viscosity01",
		"Ünïcode Ćategory":  "ünïcode-ćategory",
		"tab\tand\nnewline": "tab-and-newline",
	} {
		if have := Slugify(text); have != want {
			t.Errorf("%q: have %q, want %q", text, have, want)
		}
	}
}
