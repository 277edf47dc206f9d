package rtkernel

import "testing"

func TestFormatElemSize(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		size   int
	}{
		{"uint", FormatUint, 4},
		{"uint2", FormatUint2, 8},
		{"uint3", FormatUint3, 12},
		{"uint4", FormatUint4, 16},
		{"float", FormatFloat, 4},
		{"float2", FormatFloat2, 8},
		{"float3", FormatFloat3, 12},
		{"float4", FormatFloat4, 16},
		{"float3x4", FormatFloat3x4ColumnMajor, 48},
		{"float4x4", FormatFloat4x4ColumnMajor, 64},
		{"undefined", FormatUndefined, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.ElemSize(); got != tt.size {
				t.Errorf("ElemSize() = %d, want %d", got, tt.size)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"empty", Config{}, ""},
		{"threads only", Config{Threads: 8}, "threads=8"},
		{"verbose only", Config{Verbosity: 2}, "verbose=2"},
		{
			"all fields",
			Config{Verbosity: 1, Threads: 4, SetAffinity: true},
			"verbose=1,threads=4,set_affinity=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.configString(); got != tt.want {
				t.Errorf("configString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Threads != 0 {
		t.Errorf("default Threads = %d, want 0 (all cores)", cfg.Threads)
	}
	if cfg.Verbosity != 0 {
		t.Errorf("default Verbosity = %d, want 0", cfg.Verbosity)
	}
}

func TestEnumWireValues(t *testing.T) {
	// The enum values are part of the kernel ABI and must not drift.
	if GeometryTriangle != 0 || GeometryUser != 120 || GeometryInstance != 121 {
		t.Error("geometry kind wire values drifted")
	}
	if BufferIndex != 0 || BufferVertex != 1 || BufferFace != 16 {
		t.Error("buffer usage wire values drifted")
	}
	if FormatUint != 0x5001 || FormatFloat3 != 0x9003 || FormatFloat3x4ColumnMajor != 0x9234 {
		t.Error("format wire values drifted")
	}
	if BuildQualityLow != 0 || BuildQualityMedium != 1 || BuildQualityHigh != 2 || BuildQualityRefit != 3 {
		t.Error("build quality wire values drifted")
	}
}
