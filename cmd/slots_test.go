package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/quietfall/slotbooker/internal/availability"
)

func TestFormatSlots(t *testing.T) {
	zone := time.FixedZone("PST", -8*60*60)
	at := func(h, m int) time.Time {
		return time.Date(2025, 11, 15, h, m, 0, 0, zone)
	}

	tests := []struct {
		name  string
		slots []availability.Interval
		want  []slotOutput
	}{
		{
			name:  "no slots",
			slots: nil,
			want:  []slotOutput{},
		},
		{
			name:  "single slot keeps the offset",
			slots: []availability.Interval{{Start: at(9, 0), End: at(9, 30)}},
			want: []slotOutput{
				{Start: "2025-11-15T09:00:00-08:00", End: "2025-11-15T09:30:00-08:00"},
			},
		},
		{
			name: "order preserved",
			slots: []availability.Interval{
				{Start: at(9, 0), End: at(9, 30)},
				{Start: at(16, 30), End: at(17, 0)},
			},
			want: []slotOutput{
				{Start: "2025-11-15T09:00:00-08:00", End: "2025-11-15T09:30:00-08:00"},
				{Start: "2025-11-15T16:30:00-08:00", End: "2025-11-15T17:00:00-08:00"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSlots(tt.slots)
			if got == nil {
				t.Fatal("formatSlots returned nil, want an empty slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("formatSlots returned %d slots, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("slot %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPrintJSONEmptySlots(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, slotsOutput{Slots: []slotOutput{}}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"slots": []`) {
		t.Errorf("output = %q, want it to contain %q", buf.String(), `"slots": []`)
	}
}
