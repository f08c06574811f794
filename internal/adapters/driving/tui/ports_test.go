package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   Ports
		wantErr error
	}{
		{name: "complete", ports: Ports{Search: &mockSearchService{}, Document: &mockDocumentService{}}},
		{name: "missing search", ports: Ports{Document: &mockDocumentService{}}, wantErr: ErrMissingSearchService},
		{name: "missing document", ports: Ports{Search: &mockSearchService{}}, wantErr: ErrMissingDocumentService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
