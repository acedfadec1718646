package directory

import (
	"strconv"
)

// UserAccountControl is the directory's account control bitmask. Entries only
// carry it when the attribute was requested explicitly.
type UserAccountControl int32

const (
	UACAccountDisabled         UserAccountControl = 0x00000002
	UACHomeDirRequired         UserAccountControl = 0x00000008
	UACLockedOut               UserAccountControl = 0x00000010
	UACPasswordNotRequired     UserAccountControl = 0x00000020
	UACPasswordCantChange      UserAccountControl = 0x00000040
	UACEncryptedTextPwdAllowed UserAccountControl = 0x00000080
	UACNormalAccount           UserAccountControl = 0x00000200
	UACInterdomainTrustAccount UserAccountControl = 0x00000800
	UACWorkstationTrustAccount UserAccountControl = 0x00001000
	UACServerTrustAccount      UserAccountControl = 0x00002000
	UACPasswordNeverExpires    UserAccountControl = 0x00010000
	UACSmartCardRequired       UserAccountControl = 0x00040000
	UACTrustedForDelegation    UserAccountControl = 0x00080000
	UACNotDelegated            UserAccountControl = 0x00100000
	UACUseDesKeyOnly           UserAccountControl = 0x00200000
	UACDontRequirePreauth      UserAccountControl = 0x00400000
	UACPasswordExpired         UserAccountControl = 0x00800000
)

// Has reports whether the given flag bit is set.
func (u UserAccountControl) Has(flag UserAccountControl) bool {
	return u&flag != 0
}

// AccountDisabled reports whether the disabled bit is set.
func (u UserAccountControl) AccountDisabled() bool {
	return u.Has(UACAccountDisabled)
}

// PasswordNeverExpires reports whether the password-never-expires bit is set.
func (u UserAccountControl) PasswordNeverExpires() bool {
	return u.Has(UACPasswordNeverExpires)
}

// PasswordExpired reports whether the password-expired bit is set.
func (u UserAccountControl) PasswordExpired() bool {
	return u.Has(UACPasswordExpired)
}

// UserAccountControl decodes the entry's userAccountControl attribute. The
// second return value is false when the attribute is absent or unparsable.
func (e *Entry) UserAccountControl() (UserAccountControl, bool) {
	raw := e.Value("userAccountControl")
	if raw == "" {
		return 0, false
	}

	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false
	}

	return UserAccountControl(value), true
}
