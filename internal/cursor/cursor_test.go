package cursor

import (
	"io"
	"math"
	"testing"

	afile "github.com/drewcrawford/async-file"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		pos     int64
		offset  int64
		whence  int
		want    int64
		wantErr afile.Code
	}{
		{name: "start absolute", pos: 500, offset: 100, whence: io.SeekStart, want: 100},
		{name: "start zero", pos: 500, offset: 0, whence: io.SeekStart, want: 0},
		{name: "start negative", pos: 0, offset: -1, whence: io.SeekStart, wantErr: afile.CodeSeekRange},
		{name: "current forward", pos: 100, offset: 50, whence: io.SeekCurrent, want: 150},
		{name: "current backward", pos: 100, offset: -100, whence: io.SeekCurrent, want: 0},
		{name: "current negative result", pos: 5, offset: -10, whence: io.SeekCurrent, wantErr: afile.CodeSeekRange},
		{name: "current overflow", pos: math.MaxInt64, offset: 1, whence: io.SeekCurrent, wantErr: afile.CodeSeekRange},
		{name: "end unsupported", pos: 0, offset: 0, whence: io.SeekEnd, wantErr: afile.CodeUnsupported},
		{name: "bogus whence", pos: 0, offset: 0, whence: 99, wantErr: afile.CodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply("p", tt.pos, tt.offset, tt.whence)
			if tt.wantErr != "" {
				if code := afile.CodeOf(err); code != tt.wantErr {
					t.Fatalf("Apply code = %s, want %s", code, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply = %d, want %d", got, tt.want)
			}
		})
	}
}
