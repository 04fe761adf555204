package types

const (
	ExitNormal     int = 0
	ExitErrored    int = 1
	ExitValidation int = 2 // Draft incomplete, nothing was sent
	ExitRejected   int = 3 // Endpoint answered with a non-2xx status
	ExitNetwork    int = 4 // No usable response from the endpoint
)
