package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountID(t *testing.T) {
	tests := []struct {
		in      string
		want    AccountID
		wantErr bool
	}{
		{in: "1", want: 1},
		{in: "9223372036854775807", want: 9223372036854775807},
		{in: "0", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
		{in: "12a", wantErr: true},
		{in: "9223372036854775808", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAccountID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestSession_Expiry(t *testing.T) {
	issued := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("st_x", 1, issued, time.Hour)

	assert.False(t, s.IsExpired(issued))
	assert.Equal(t, time.Hour, s.Remaining(issued))
	assert.Equal(t, 15*time.Minute, s.Remaining(issued.Add(45*time.Minute)))
	assert.True(t, s.IsExpired(issued.Add(time.Hour)))
	assert.Zero(t, s.Remaining(issued.Add(2*time.Hour)))
}

func TestSession_Fingerprint(t *testing.T) {
	s := &Session{Token: "st_x"}
	fp := s.Fingerprint()
	assert.Len(t, fp, 12)
	assert.Equal(t, DigestToken("st_x")[:12], fp)
}
