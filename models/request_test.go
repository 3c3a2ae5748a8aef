package models

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     DownloadRequest
		wantErr bool
	}{
		{"valid", DownloadRequest{AppID: "1459969523", Countries: []string{"us", "tr"}}, false},
		{"empty app id", DownloadRequest{AppID: "", Countries: []string{"us"}}, true},
		{"non numeric app id", DownloadRequest{AppID: "abc123", Countries: []string{"us"}}, true},
		{"empty country list", DownloadRequest{AppID: "1459969523", Countries: nil}, true},
		{"malformed country", DownloadRequest{AppID: "1459969523", Countries: []string{"usa"}}, true},
		{"blank countries only", DownloadRequest{AppID: "1459969523", Countries: []string{"", "  "}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesCountries(t *testing.T) {
	req := DownloadRequest{
		AppID:     " 1459969523 ",
		Countries: []string{"US", "tr", "us", " JP "},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := []string{"us", "tr", "jp"}
	if len(req.Countries) != len(want) {
		t.Fatalf("Countries = %v, want %v", req.Countries, want)
	}
	for i, c := range req.Countries {
		if c != want[i] {
			t.Errorf("Countries[%d] = %q, want %q", i, c, want[i])
		}
	}
	if req.AppID != "1459969523" {
		t.Errorf("AppID = %q, want trimmed id", req.AppID)
	}
	if req.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want default %q", req.OutputDir, DefaultOutputDir)
	}
}

func TestValidate_DropsOverridesForAbsentCountries(t *testing.T) {
	req := DownloadRequest{
		AppID:     "1459969523",
		Countries: []string{"us", "tr"},
		Languages: map[string]string{"tr": "tr-tr", "jp": "ja-jp"},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if req.Languages["tr"] != "tr-tr" {
		t.Errorf("tr override = %q, want tr-tr", req.Languages["tr"])
	}
	if _, ok := req.Languages["jp"]; ok {
		t.Error("jp override survived although jp is not requested")
	}
}
