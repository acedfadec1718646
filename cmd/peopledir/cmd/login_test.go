package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlegate/peopledir/internal/directory"
)

func TestLoginCommand(t *testing.T) {
	client := &fakeClient{loginEntry: &directory.Entry{
		DN: "CN=Jane Doe,OU=Staff,DC=example,DC=com",
	}}
	deps, _ := fakeDeps(client, map[string]string{"PEOPLEDIR_PASSWORD": "hunter2"})

	cmd := loginCommand(deps)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--base-dn", "DC=example,DC=com", "jdoe"})

	require.NoError(t, cmd.Execute())

	require.Len(t, client.loginCalls, 1)
	assert.Equal(t, "jdoe", client.loginCalls[0].account)
	assert.Equal(t, "hunter2", client.loginCalls[0].password)
	assert.Contains(t, out.String(), "CN=Jane Doe,OU=Staff,DC=example,DC=com")
	assert.NotContains(t, errOut.String(), "ineligible")
}

func TestLoginCommandIneligibleAccount(t *testing.T) {
	client := &fakeClient{loginEntry: &directory.Entry{
		DN:      "CN=Jane Doe,OU=Staff,DC=example,DC=com",
		Expired: true,
	}}
	deps, _ := fakeDeps(client, nil)

	cmd := loginCommand(deps)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--base-dn", "DC=example,DC=com", "jdoe"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "expired=true")
	assert.Contains(t, out.String(), "\"expired\": true")
}

func TestLoginCommandFailure(t *testing.T) {
	client := &fakeClient{err: directory.NewAuthError("invalid credentials", nil)}
	deps, _ := fakeDeps(client, nil)

	cmd := loginCommand(deps)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--base-dn", "DC=example,DC=com", "jdoe"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, directory.IsAuthError(err))
}