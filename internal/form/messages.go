package form

// Banner texts shown to the user
const (
	MsgLocationCaptured    = "Location captured successfully"
	MsgLocationFailed      = "Unable to fetch location. Please enable GPS."
	MsgLocationUnsupported = "Geolocation not supported by this device"

	MsgImageRequired       = "Please upload an image"
	MsgDescriptionRequired = "Please add a description"
	MsgLocationRequired    = "Location not available. Please try again."

	MsgSubmitted     = "Query submitted successfully!"
	MsgSubmitFailed  = "Failed to submit query"
	MsgNetworkFailed = "Network error. Please try again."
)
