package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountTypeFromCode(t *testing.T) {
	tests := []struct {
		code   int64
		want   AccountType
		wantOK bool
		name   string
	}{
		{0x00000000, AccountTypeDomainObject, true, "SAM_DOMAIN_OBJECT"},
		{0x10000000, AccountTypeGroup, true, "SAM_GROUP_OBJECT"},
		{0x10000001, AccountTypeNonSecurityGroup, true, "SAM_NON_SECURITY_GROUP_OBJECT"},
		{0x20000000, AccountTypeAlias, true, "SAM_ALIAS_OBJECT"},
		{0x20000001, AccountTypeNonSecurityAlias, true, "SAM_NON_SECURITY_ALIAS_OBJECT"},
		{0x30000000, AccountTypeUser, true, "SAM_USER_OBJECT"},
		{0x30000001, AccountTypeMachine, true, "SAM_MACHINE_ACCOUNT"},
		{0x30000002, AccountTypeTrust, true, "SAM_TRUST_ACCOUNT"},
		{0x40000000, AccountTypeAppBasicGroup, true, "SAM_APP_BASIC_GROUP"},
		{0x40000001, AccountTypeAppQueryGroup, true, "SAM_APP_QUERY_GROUP"},
	}

	for _, tt := range tests {
		got, ok := AccountTypeFromCode(tt.code)
		require.True(t, ok, "code %#x", tt.code)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.name, got.String())
	}
}

func TestAccountTypeFromCodeUnknown(t *testing.T) {
	for _, code := range []int64{-1, 0x00000001, 0x50000000, 1<<62 - 1} {
		_, ok := AccountTypeFromCode(code)
		assert.False(t, ok, "code %#x", code)
	}
}
