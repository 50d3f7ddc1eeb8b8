package utils

const (
	// ShortUrlKey is the key for the short identifier used in the redirect route.
	ShortUrlKey = "shortUrl"

	// ActivationTokenKey is the key for the activation token used in routing parameters.
	ActivationTokenKey = "activationToken"

	// ResetTokenKey is the key for the password reset code used in routing parameters.
	ResetTokenKey = "resetToken"

	// SortClicksParamKey is the key for the click ordering used in query parameters.
	SortClicksParamKey = "sortClicks"

	// SortDateParamKey is the key for the creation date ordering used in query parameters.
	SortDateParamKey = "sortDate"
)
