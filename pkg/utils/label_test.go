package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			"双方有值时累积",
			Label{Value: "content", Source: "recall"},
			Label{Value: "demographic", Source: "recall"},
			Label{Value: "content|demographic", Source: "recall,recall"},
		},
		{
			"已有为空取新值",
			Label{},
			Label{Value: "content", Source: "recall"},
			Label{Value: "content", Source: "recall"},
		},
		{
			"新值为空保留已有",
			Label{Value: "content", Source: "recall"},
			Label{},
			Label{Value: "content", Source: "recall"},
		},
		{
			"来源缺失时取对方来源",
			Label{Value: "a"},
			Label{Value: "b", Source: "rule"},
			Label{Value: "a|b", Source: "rule"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeLabel(tt.existing, tt.incoming)
			if got != tt.want {
				t.Errorf("MergeLabel = %+v, want %+v", got, tt.want)
			}
		})
	}
}
