package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLDAPURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    *ServerInfo
		wantErr bool
	}{
		{
			name: "ldaps with explicit port",
			url:  "ldaps://dc1.example.com:3269",
			want: &ServerInfo{Host: "dc1.example.com", Port: 3269, UseTLS: true},
		},
		{
			name: "ldaps default port",
			url:  "ldaps://dc1.example.com",
			want: &ServerInfo{Host: "dc1.example.com", Port: 636, UseTLS: true},
		},
		{
			name: "ldap default port",
			url:  "ldap://dc1.example.com",
			want: &ServerInfo{Host: "dc1.example.com", Port: 389},
		},
		{
			name: "path component stripped",
			url:  "ldap://dc1.example.com:389/DC=example,DC=com",
			want: &ServerInfo{Host: "dc1.example.com", Port: 389},
		},
		{
			name:    "unsupported scheme",
			url:     "https://dc1.example.com",
			wantErr: true,
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "garbage port",
			url:     "ldap://dc1.example.com:abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLDAPURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.Host, got.Host)
			assert.Equal(t, tt.want.Port, got.Port)
			assert.Equal(t, tt.want.UseTLS, got.UseTLS)
			assert.Equal(t, "config", got.Source)
		})
	}
}

func TestServerInfoToURL(t *testing.T) {
	assert.Equal(t, "ldaps://dc1.example.com:636",
		ServerInfoToURL(&ServerInfo{Host: "dc1.example.com", Port: 636, UseTLS: true}))
	assert.Equal(t, "ldap://dc1.example.com:389",
		ServerInfoToURL(&ServerInfo{Host: "dc1.example.com", Port: 389}))
}

func TestValidateServerInfo(t *testing.T) {
	assert.NoError(t, ValidateServerInfo(&ServerInfo{Host: "dc1", Port: 389}))
	assert.Error(t, ValidateServerInfo(nil))
	assert.Error(t, ValidateServerInfo(&ServerInfo{Host: "", Port: 389}))
	assert.Error(t, ValidateServerInfo(&ServerInfo{Host: "dc1", Port: 0}))
	assert.Error(t, ValidateServerInfo(&ServerInfo{Host: "dc1", Port: 70000}))
}

func TestSortServersByPriority(t *testing.T) {
	d := NewSRVDiscovery(nil)

	servers := []*ServerInfo{
		{Host: "low-weight", Priority: 1, Weight: 10},
		{Host: "high-priority", Priority: 0, Weight: 50},
		{Host: "high-weight", Priority: 1, Weight: 90},
	}

	d.sortServersByPriority(servers)

	assert.Equal(t, "high-priority", servers[0].Host)
	assert.Equal(t, "high-weight", servers[1].Host, "equal priority sorts by descending weight")
	assert.Equal(t, "low-weight", servers[2].Host)
}

func TestCreateFallbackServers(t *testing.T) {
	d := NewSRVDiscovery(nil)

	servers := d.createFallbackServers("example.com")
	require.Len(t, servers, 2)

	assert.Equal(t, 636, servers[0].Port)
	assert.True(t, servers[0].UseTLS, "LDAPS comes first")
	assert.Equal(t, 389, servers[1].Port)
	assert.False(t, servers[1].UseTLS)
	for _, s := range servers {
		assert.Equal(t, "example.com", s.Host)
		assert.Equal(t, "fallback", s.Source)
	}
}
