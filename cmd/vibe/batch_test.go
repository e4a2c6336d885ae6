package main

import (
	"strings"
	"testing"

	"github.com/vibecodehq/vibe/internal/batch"
)

func TestBatchResultErr(t *testing.T) {
	tests := []struct {
		name    string
		res     *batch.Result
		wantErr string
	}{
		{
			name: "success returns nil",
			res:  &batch.Result{Operation: batch.OpTransform, Success: true},
		},
		{
			name: "unit errors exit non-zero",
			res: &batch.Result{
				Operation: batch.OpTransform,
				Success:   false,
				Errors: []batch.UnitError{
					{File: "a.txt", Err: "permission denied"},
					{File: "b.txt", Err: "permission denied"},
				},
			},
			wantErr: "2 error(s)",
		},
		{
			name: "pipeline abort names the failing step",
			res: &batch.Result{
				Operation: batch.OpPipeline,
				Success:   false,
				Pipeline:  &batch.PipelineDetails{FailedStep: 2},
			},
			wantErr: "step 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := batchResultErr(tt.res)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("batchResultErr() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("batchResultErr() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
