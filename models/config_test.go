package models

import "testing"

func TestExtractOnly(t *testing.T) {
	tests := []struct {
		name string
		cfg  DownloadConfig
		want bool
	}{
		{name: "download", cfg: DownloadConfig{}, want: false},
		{name: "simulate", cfg: DownloadConfig{Simulate: true}, want: false},
		{name: "dump json", cfg: DownloadConfig{DumpJSON: true}, want: true},
		{name: "get url", cfg: DownloadConfig{GetURL: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ExtractOnly(); got != tt.want {
				t.Errorf("ExtractOnly() = %v, want %v", got, tt.want)
			}
		})
	}
}
