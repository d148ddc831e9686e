package model

import (
	"strings"
	"testing"
)

func TestShortIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []ID
		want map[ID]string
	}{
		{
			name: "distinct heads keep the minimum",
			ids:  []ID{"aaaaaaaa-1111", "bbbbbbbb-2222"},
			want: map[ID]string{"aaaaaaaa-1111": "aaaaaaaa", "bbbbbbbb-2222": "bbbbbbbb"},
		},
		{
			name: "same millisecond grows into the random tail",
			ids: []ID{
				"01a14a9b-7c21-7a00-8f00-000000000001",
				"01a14a9b-7c21-7a00-9e00-000000000002",
				"01a14a9c-0000-7000-8000-000000000003",
			},
			want: map[ID]string{
				"01a14a9b-7c21-7a00-8f00-000000000001": "01a14a9b-7c21-7a00-8",
				"01a14a9b-7c21-7a00-9e00-000000000002": "01a14a9b-7c21-7a00-9",
				"01a14a9c-0000-7000-8000-000000000003": "01a14a9c",
			},
		},
		{
			name: "numeric browser ids",
			ids:  []ID{"1712345678901", "1712345679999"},
			want: map[ID]string{"1712345678901": "1712345678", "1712345679999": "1712345679"},
		},
		{
			name: "short ids are kept whole",
			ids:  []ID{"12", "123"},
			want: map[ID]string{"12": "12", "123": "123"},
		},
		{
			name: "case insensitive",
			ids:  []ID{"ABCDEFGH1", "abcdefgh2"},
			want: map[ID]string{"ABCDEFGH1": "ABCDEFGH1", "abcdefgh2": "abcdefgh2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortIDs(tt.ids)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("ShortIDs[%s] = %q, want %q", id, got[id], want)
				}
			}
			// Every short form matches exactly one id.
			for id, s := range got {
				n := 0
				for _, other := range tt.ids {
					if other == ID(s) || other.HasPrefix(s) {
						n++
					}
				}
				if n != 1 && !strings.EqualFold(string(id), s) {
					t.Errorf("%q matches %d ids", s, n)
				}
			}
		})
	}
}
