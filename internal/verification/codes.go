package verification

// Rejection and warning codes. Codes are stable API; messages are
// provider-facing Spanish and may change.
const (
	CodeProfilePhotoRequired        = "PROFILE_PHOTO_REQUIRED"
	CodeDescriptionTooShort         = "PROFILE_DESCRIPTION_TOO_SHORT"
	CodeDescriptionTooLong          = "PROFILE_DESCRIPTION_TOO_LONG"
	CodeDescriptionNotProfessional  = "PROFILE_DESCRIPTION_NOT_PROFESSIONAL"
	CodeDescriptionCategoryMismatch = "DESCRIPTION_CATEGORY_MISMATCH"

	CodeIDDocumentsMissing  = "ID_DOCUMENTS_MISSING"
	CodeIDCardFrontQuality  = "ID_CARD_FRONT_QUALITY"
	CodeIDCardBackQuality   = "ID_CARD_BACK_QUALITY"
	CodeIDNameMismatch      = "ID_NAME_MISMATCH"
	CodeInvalidCedulaNumber = "INVALID_CEDULA_NUMBER"
	CodeIDExpired           = "ID_EXPIRED"
	CodeSelfieMissing       = "SELFIE_MISSING"
	CodeSelfieQuality       = "SELFIE_QUALITY"
	CodeFaceMismatch        = "FACE_MISMATCH"

	CodeServiceCategoryMismatch = "SERVICE_CATEGORY_MISMATCH"

	CodeContactInfoInImage = "CONTACT_INFO_IN_IMAGE"
	CodeInappropriateImage = "INAPPROPRIATE_IMAGE_CONTENT"

	CodeContactInfoInText = "CONTACT_INFO_IN_TEXT"
	CodeIllegalContent    = "ILLEGAL_CONTENT_DETECTED"

	WarnLowCoherence = "SERVICE_PROFILE_LOW_COHERENCE"
)
