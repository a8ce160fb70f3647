package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainAccount "github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/interfaces/cli/bootstrap"
)

func TestReadPassword_Piped(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"line", "hunter2hunter2\n", "hunter2hunter2", false},
		{"crlf", "hunter2hunter2\r\n", "hunter2hunter2", false},
		{"no newline", "hunter2hunter2", "hunter2hunter2", false},
		{"only first line", "first-line\nsecond\n", "first-line", false},
		{"empty", "", "", true},
		{"blank line", "\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt bytes.Buffer
			got, err := readPassword(strings.NewReader(tt.input), &prompt)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, prompt.String())
		})
	}
}

func TestRenderAccount(t *testing.T) {
	a := &domainAccount.Account{ID: 4, Username: "alice", Role: domainAccount.RoleAdmin, Active: false}

	var table bytes.Buffer
	require.NoError(t, renderAccount(&table, bootstrap.FormatTable, a))
	assert.Equal(t, "4\talice\tadmin\tdisabled\n", table.String())

	var js bytes.Buffer
	require.NoError(t, renderAccount(&js, bootstrap.FormatJSON, a))
	assert.JSONEq(t, `{"id":4,"username":"alice","role":"admin","active":false}`, js.String())
}
