package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_ModeSelection(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "sweep mode",
			cfg:  Config{SweepPath: "sweep.hcl"},
		},
		{
			name: "check mode",
			cfg:  Config{CheckPath: "/data"},
		},
		{
			name: "trace mode",
			cfg:  Config{TracePath: "/data/S2_A2_R2_Ts_det_Rs"},
		},
		{
			name:    "no mode",
			cfg:     Config{},
			wantErr: "a sweep path is required",
		},
		{
			name:    "sweep and check",
			cfg:     Config{SweepPath: "sweep.hcl", CheckPath: "/data"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "check and trace",
			cfg:     Config{CheckPath: "/data", TracePath: "/data/x"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "all three",
			cfg:     Config{SweepPath: "a", CheckPath: "b", TracePath: "c"},
			wantErr: "mutually exclusive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			validated, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *validated)
		})
	}
}
