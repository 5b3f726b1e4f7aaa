package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/assetpipe/internal/adapters/logger"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "standard error",
			err:          errors.New("simple error"),
			wantMessages: []string{"simple error"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "wrapped chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("permission denied"), "failed to write output file"), "task clean failed"),
			wantMessages: []string{"task clean failed", "failed to write output file", "permission denied"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name:         "sentinel with metadata",
			err:          zerr.With(zerr.With(domain.ErrEmptyAssetField, "group", "js"), "field", "dest"),
			wantMessages: []string{"asset group field is empty"},
			wantMetadata: []map[string]any{{"group": "js", "field": "dest"}},
		},
		{
			name:         "empty wrap folds metadata into the sentinel",
			err:          zerr.With(zerr.Wrap(domain.ErrSourceNotFound, ""), "path", "scss/main.scss"),
			wantMessages: []string{"source file not found"},
			wantMetadata: []map[string]any{{"path": "scss/main.scss"}},
		},
		{
			name:         "nil error",
			err:          nil,
			wantMessages: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)
			if tt.err == nil {
				assert.Empty(t, entries)
				return
			}

			assert.Len(t, entries, len(tt.wantMessages))
			for i, want := range tt.wantMessages {
				assert.Equal(t, want, entries[i].Message, "message at %d", i)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata, "metadata at %d", i)
			}
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "caused by",
			entries: []logger.ErrorEntry{{Message: "outer"}, {Message: "inner"}, {Message: "root"}},
			want:    "Error: outer\n\n  Caused by:\n    → inner\n    → root",
		},
		{
			name:    "metadata sorted under headline",
			entries: []logger.ErrorEntry{{Message: "error", Metadata: map[string]any{"zebra": "z", "alpha": "a"}}},
			want:    "Error: error\n       alpha: a\n       zebra: z",
		},
		{
			name:    "metadata under cause",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "cause", Metadata: map[string]any{"task_name": "clean"}}},
			want:    "Error: main\n\n  Caused by:\n    → cause\n      task_name: clean",
		},
		{
			name:    "multiline compiler message",
			entries: []logger.ErrorEntry{{Message: "compilation failed"}, {Message: "Undefined variable.\n  ╷\n3 │ a { color: $x; }"}},
			want:    "Error: compilation failed\n\n  Caused by:\n    → Undefined variable.\n        ╷\n      3 │ a { color: $x; }",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
