package runlog_test

import (
	"testing"

	"gggkit/internal/config"
	"gggkit/internal/fortran"
	"gggkit/internal/runlog"
)

func TestDefaultSyntheticPolicyOverrides(t *testing.T) {
	ov := runlog.DefaultSyntheticPolicy().Overrides()
	want := map[string]fortran.Value{
		runlog.FieldBPW:     fortran.Int(7),
		runlog.FieldPointer: fortran.Int(0),
		runlog.FieldAPF:     fortran.Text("N1"),
		runlog.FieldDeltaNu: fortran.Float(0.0111111111),
		runlog.FieldIFirst:  fortran.Int(427500),
		runlog.FieldILast:   fortran.Int(742500),
		runlog.FieldSNR:     fortran.Int(1000),
	}
	if len(ov) != len(want) {
		t.Fatalf("expected %d overrides, got %d (%v)", len(want), len(ov), ov)
	}
	for name, value := range want {
		if !ov[name].Equal(value) {
			t.Fatalf("%s = %v, want %v", name, ov[name], value)
		}
	}
}

func TestPolicyFromConfigIncludesExtraOverrides(t *testing.T) {
	cfg := config.Default().Runlog
	cfg.V0 = 4000
	cfg.Overrides = map[string]any{"LASF": 15798.0, "SNR": int64(50), "bad": true}
	policy := runlog.PolicyFromConfig(cfg)
	ov := policy.Overrides()

	if !ov[runlog.FieldIFirst].Equal(fortran.Int(360000)) {
		t.Fatalf("unexpected IFIRST %v", ov[runlog.FieldIFirst])
	}
	if !ov["LASF"].Equal(fortran.Float(15798)) {
		t.Fatalf("unexpected LASF %v", ov["LASF"])
	}
	if !ov[runlog.FieldSNR].Equal(fortran.Int(50)) {
		t.Fatalf("expected extra override to win, got %v", ov[runlog.FieldSNR])
	}
	if _, ok := ov["bad"]; ok {
		t.Fatal("expected unsupported value to be skipped")
	}
}

func TestExtraOverrideReplacesDerivedFieldIgnoringCase(t *testing.T) {
	cfg := config.Default().Runlog
	cfg.Overrides = map[string]any{"snr": int64(500)}
	ov := runlog.PolicyFromConfig(cfg).Overrides()

	if _, ok := ov[runlog.FieldSNR]; ok {
		t.Fatalf("derived SNR should be replaced, got %v", ov)
	}
	rl := mustParse(t, sampleRunlog(testRecord1))
	if err := rl.Apply(ov); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	values, err := rl.Column(runlog.FieldSNR)
	if err != nil {
		t.Fatalf("Column returned error: %v", err)
	}
	if n, _ := values[0].Int(); n != 500 {
		t.Fatalf("SNR = %d, want 500", n)
	}
}

func TestOverridesSetFoldsCase(t *testing.T) {
	ov := runlog.Overrides{"SNR": fortran.Int(1000), "APF": fortran.Text("N1")}
	ov.Set("Snr", fortran.Int(42))
	ov.Set("APF", fortran.Text("BX"))

	if len(ov) != 2 {
		t.Fatalf("expected 2 overrides, got %v", ov)
	}
	if !ov["Snr"].Equal(fortran.Int(42)) {
		t.Fatalf("Snr = %v", ov["Snr"])
	}
	if !ov["APF"].Equal(fortran.Text("BX")) {
		t.Fatalf("APF = %v", ov["APF"])
	}
}

func TestSyntheticPolicyValidate(t *testing.T) {
	if err := runlog.DefaultSyntheticPolicy().Validate(); err != nil {
		t.Fatalf("default policy should validate: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*runlog.SyntheticPolicy)
	}{
		{name: "zero spacing", mutate: func(p *runlog.SyntheticPolicy) { p.DeltaNu = 0 }},
		{name: "inverted range", mutate: func(p *runlog.SyntheticPolicy) { p.V0, p.V1 = p.V1, p.V0 }},
		{name: "zero snr", mutate: func(p *runlog.SyntheticPolicy) { p.SNR = 0 }},
		{name: "blank apf", mutate: func(p *runlog.SyntheticPolicy) { p.APF = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := runlog.DefaultSyntheticPolicy()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWavenumberIndexRoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		nu, dnu float64
		want    int64
	}{
		{nu: 4750, dnu: 0.0111111111, want: 427500},
		{nu: 8250, dnu: 0.0111111111, want: 742500},
		{nu: 2.5, dnu: 1, want: 3},
		{nu: 3.5, dnu: 1, want: 4},
		{nu: -2.5, dnu: 1, want: -3},
	}
	for _, tt := range tests {
		if got := runlog.WavenumberIndex(tt.nu, tt.dnu); got != tt.want {
			t.Fatalf("WavenumberIndex(%v, %v) = %d, want %d", tt.nu, tt.dnu, got, tt.want)
		}
	}
}

func TestSyntheticPath(t *testing.T) {
	tests := []struct {
		path, suffix, want string
	}{
		{path: "/data/pa_ggg.grl", suffix: "_syn", want: "/data/pa_ggg_syn.grl"},
		{path: "runlogs/x.y.grl", suffix: "_syn", want: "runlogs/x.y_syn.grl"},
		{path: "/data/runlog", suffix: "-synthetic", want: "/data/runlog-synthetic"},
		{path: "/data/.grl", suffix: "_syn", want: "/data/.grl_syn"},
	}
	for _, tt := range tests {
		if got := runlog.SyntheticPath(tt.path, tt.suffix); got != tt.want {
			t.Fatalf("SyntheticPath(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
		}
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in   string
		name string
		want fortran.Value
	}{
		{in: "SNR=500", name: "SNR", want: fortran.Int(500)},
		{in: "DELTA_NU = 0.005", name: "DELTA_NU", want: fortran.Float(0.005)},
		{in: "APF=N1", name: "APF", want: fortran.Text("N1")},
		{in: `APF="12"`, name: "APF", want: fortran.Text("12")},
		{in: "LASF=1e4", name: "LASF", want: fortran.Float(10000)},
	}
	for _, tt := range tests {
		name, value, err := runlog.ParseAssignment(tt.in)
		if err != nil {
			t.Fatalf("ParseAssignment(%q) returned error: %v", tt.in, err)
		}
		if name != tt.name || !value.Equal(tt.want) {
			t.Fatalf("ParseAssignment(%q) = %s, %v; want %s, %v", tt.in, name, value, tt.name, tt.want)
		}
	}
	for _, bad := range []string{"SNR", "=5", ""} {
		if _, _, err := runlog.ParseAssignment(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
