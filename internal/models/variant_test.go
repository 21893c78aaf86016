package models

import "testing"

func TestParseVariant(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    Variant
		wantErr bool
	}{
		{name: "sequential", in: "sequential", want: VariantSequential},
		{name: "quadrature", in: "quadrature", want: VariantQuadrature},
		{name: "empty defaults to sequential", in: "", want: VariantSequential},
		{name: "case insensitive", in: "Quadrature", want: VariantQuadrature},
		{name: "padded", in: "  sequential\n", want: VariantSequential},
		{name: "unknown", in: "triplex", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVariant(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseVariant(%q) accepted", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVariant(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseVariant(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestVariantPolicy(t *testing.T) {
	t.Parallel()

	if got := VariantSequential.Channels(); got != 12 {
		t.Fatalf("sequential channels = %d", got)
	}
	if got := VariantQuadrature.Channels(); got != 4 {
		t.Fatalf("quadrature channels = %d", got)
	}
	if got := VariantSequential.PhaseDivisor(); got != 12 {
		t.Fatalf("sequential divisor = %d", got)
	}
	if got := VariantQuadrature.PhaseDivisor(); got != 1 {
		t.Fatalf("quadrature divisor = %d", got)
	}
	if !VariantSequential.SenseEnforcedDefault() {
		t.Fatalf("sequential build should gate on sense by default")
	}
	if VariantQuadrature.SenseEnforcedDefault() {
		t.Fatalf("quadrature build should not gate on sense by default")
	}
	if rec := VariantSequential.DefaultRecord(); rec.ActiveCycles != 0 || rec.Overflows != 0 || rec.CycleTimeMs != 1200 {
		t.Fatalf("sequential default record %+v", rec)
	}
	if rec := VariantQuadrature.DefaultRecord(); rec.CycleTimeMs != 1000 {
		t.Fatalf("quadrature default record %+v", rec)
	}
}
