package types

type LoginRequest struct {
	Username string `json:"username"`
}

// UserEvent is the identity provider's user-lifecycle webhook payload
// (user.created, user.updated, user.deleted).
type UserEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		ProfileImgURL string `json:"profile_img_url"`
	} `json:"data"`
}

// Email returns the primary email address, empty when none was sent.
func (e UserEvent) Email() string {
	if len(e.Data.EmailAddresses) == 0 {
		return ""
	}
	return e.Data.EmailAddresses[0].EmailAddress
}

// DisplayName falls back to the email address when the provider sent no
// username, matching the provisioning rules.
func (e UserEvent) DisplayName() string {
	if e.Data.Username != "" {
		return e.Data.Username
	}
	return e.Email()
}
