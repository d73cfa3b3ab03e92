package api

// MsgCode identifies a client-visible outcome. Feature packages deal only in
// codes; the localized English/Swahili pair is resolved here, at the HTTP
// boundary, so the core stays language-agnostic.
type MsgCode string

const (
	MsgValidationFailed     MsgCode = "validation_failed"
	MsgDuplicateEmail       MsgCode = "duplicate_email"
	MsgRegistered           MsgCode = "registered"
	MsgLoginSuccess         MsgCode = "login_success"
	MsgInvalidCredentials   MsgCode = "invalid_credentials"
	MsgTokenRequired        MsgCode = "token_required"
	MsgTokenInvalid         MsgCode = "token_invalid"
	MsgUserNotFound         MsgCode = "user_not_found"
	MsgProfileUpdated       MsgCode = "profile_updated"
	MsgPasswordsRequired    MsgCode = "passwords_required"
	MsgNewPasswordTooShort  MsgCode = "new_password_too_short"
	MsgWrongCurrentPassword MsgCode = "wrong_current_password"
	MsgPasswordChanged      MsgCode = "password_changed"
	MsgInternalError        MsgCode = "internal_error"
)

type messagePair struct {
	en string
	sw string
}

var messages = map[MsgCode]messagePair{
	MsgValidationFailed:     {"Validation failed", "Uthibitisho umeshindwa"},
	MsgDuplicateEmail:       {"User with this email already exists", "Mtumiaji wa barua pepe hii tayari yupo"},
	MsgRegistered:           {"User registered successfully", "Mtumiaji amesajiliwa kwa mafanikio"},
	MsgLoginSuccess:         {"Login successful", "Kuingia kumefanikiwa"},
	MsgInvalidCredentials:   {"Invalid email or password", "Barua pepe au nenosiri si sahihi"},
	MsgTokenRequired:        {"Access token required", "Tokeni ya ufikiaji inahitajika"},
	MsgTokenInvalid:         {"Invalid or expired token", "Tokeni si sahihi au imeisha muda"},
	MsgUserNotFound:         {"User not found", "Mtumiaji hakupatikana"},
	MsgProfileUpdated:       {"Profile updated successfully", "Wasifu umesasishwa kwa mafanikio"},
	MsgPasswordsRequired:    {"Current password and new password are required", "Nenosiri la sasa na nenosiri jipya vinahitajika"},
	MsgNewPasswordTooShort:  {"New password must be at least 6 characters long", "Nenosiri jipya lazima liwe na angalau herufi 6"},
	MsgWrongCurrentPassword: {"Current password is incorrect", "Nenosiri la sasa si sahihi"},
	MsgPasswordChanged:      {"Password changed successfully", "Nenosiri limebadilishwa kwa mafanikio"},
	MsgInternalError:        {"Internal server error", "Hitilafu ya ndani ya seva"},
}

// Lookup resolves a code to its localized pair. Unknown codes fall back to
// the internal error pair rather than leaking the raw code to clients.
func Lookup(code MsgCode) (en, sw string) {
	pair, ok := messages[code]
	if !ok {
		pair = messages[MsgInternalError]
	}
	return pair.en, pair.sw
}
