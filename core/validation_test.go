package core

import (
	"errors"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{name: "plain question", query: "What did Rockefeller say about debt?", wantErr: nil},
		{name: "surrounding whitespace", query: "  why?  ", wantErr: nil},
		{name: "empty", query: "", wantErr: ErrInvalidQuery},
		{name: "whitespace only", query: " \t\n ", wantErr: ErrInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateQuery() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateQuery() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTopK(t *testing.T) {
	if err := ValidateTopK(0); err != nil {
		t.Errorf("zero should be accepted, got %v", err)
	}
	if err := ValidateTopK(3); err != nil {
		t.Errorf("positive should be accepted, got %v", err)
	}
	if err := ValidateTopK(-1); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("negative should be ErrInvalidQuery, got %v", err)
	}
}

func TestValidatePassage(t *testing.T) {
	tests := []struct {
		name    string
		passage *Passage
		wantErr error
	}{
		{name: "valid passage", passage: &Passage{Text: "hello"}, wantErr: nil},
		{name: "valid passage without vector", passage: &Passage{Text: "hello", Vector: nil}, wantErr: nil},
		{name: "nil passage", passage: nil, wantErr: ErrInvalidPassage},
		{name: "empty text", passage: &Passage{Text: ""}, wantErr: ErrEmptyContent},
		{name: "blank text", passage: &Passage{Text: "   "}, wantErr: ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassage(tt.passage)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePassage() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePassage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
