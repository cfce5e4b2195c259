package material

import "testing"

func TestParseKnownPrefixes(t *testing.T) {
	cases := map[string]Class{
		"Stone":      Stone,
		"stonewall":  Stone,
		"BRICK":      Brick,
		"wood_plank": Wood,
		"metal":      Metal,
		"fabric":     Fabric,
		"cloth-ish":  Fabric,
		"concrete":   Concrete,
		"":           Generic,
		"unknown":    Generic,
	}
	for in, want := range cases {
		if got := Parse(in); got != want {
			t.Errorf("Parse(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMetalHasNonZeroThreshold(t *testing.T) {
	if Metal.Metallic().Threshold == 0 {
		t.Fatalf("expected metal preset to enable metallic detection")
	}
}

func TestGenericMetallicDisabled(t *testing.T) {
	if Generic.Metallic().Threshold != 0 {
		t.Fatalf("expected generic preset to disable metallic detection")
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, c := range []Class{Generic, Stone, Brick, Wood, Metal, Fabric, Concrete} {
		if Parse(c.String()) != c {
			t.Errorf("String/Parse roundtrip failed for %v", c)
		}
	}
}
