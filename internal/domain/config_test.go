package domain_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cleandesigner.dev/pkg/cleandesigner/internal/adapter"
	adaptermocks "cleandesigner.dev/pkg/cleandesigner/internal/adapter/mocks"
	"cleandesigner.dev/pkg/cleandesigner/internal/domain"
)

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		value   string
		want    rune
		wantErr bool
	}{
		{"f", 'f', false},
		{"_", '_', false},
		{"é", 'é', false},
		{"", 0, true},
		{"ff", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := domain.ParsePrefix(tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrPrefixLength)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/Form1.cs", []byte("class Form1 {}"), 0o644))

	fsAdapter := adapter.NewSourceFSAdapter(fs)
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    domain.Options
		want    domain.Config
		wantErr error
	}{
		{
			name: "clean",
			opts: domain.Options{Path: "/src", Prefix: "f", Clean: true, Threads: 3},
			want: domain.Config{Dir: "/src", Prefix: 'f', Mode: domain.ModeClean, Threads: 3},
		},
		{
			name: "report with summary and floored threads",
			opts: domain.Options{Path: "/src", Prefix: "m", Report: true, Summary: "/out.yaml"},
			want: domain.Config{Dir: "/src", Prefix: 'm', Mode: domain.ModeReport, Threads: 1, Summary: "/out.yaml"},
		},
		{
			name:    "no mode",
			opts:    domain.Options{Path: "/src", Prefix: "f"},
			wantErr: domain.ErrNoMode,
		},
		{
			name:    "both modes",
			opts:    domain.Options{Path: "/src", Prefix: "f", Clean: true, Report: true},
			wantErr: domain.ErrBothModes,
		},
		{
			name:    "missing path",
			opts:    domain.Options{Prefix: "f", Report: true},
			wantErr: domain.ErrMissingPath,
		},
		{
			name:    "missing directory",
			opts:    domain.Options{Path: "/nope", Prefix: "f", Report: true},
			wantErr: domain.ErrDirectoryNotFound,
		},
		{
			name:    "path is a file",
			opts:    domain.Options{Path: "/src/Form1.cs", Prefix: "f", Report: true},
			wantErr: domain.ErrDirectoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NewConfig(ctx, tt.opts, fsAdapter)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewConfig_BadPrefixTouchesNoFiles(t *testing.T) {
	// No expectations: any filesystem call fails the test.
	fsAdapter := adaptermocks.NewMockSourceFSAdapter(t)

	_, err := domain.NewConfig(context.Background(), domain.Options{Path: "/src", Prefix: "fx", Clean: true}, fsAdapter)

	require.ErrorIs(t, err, domain.ErrPrefixLength)
	fsAdapter.AssertNotCalled(t, "FileInfo", mock.Anything, mock.Anything)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "clean", domain.ModeClean.String())
	assert.Equal(t, "report", domain.ModeReport.String())
	assert.Equal(t, "unset", domain.Mode(0).String())
}
